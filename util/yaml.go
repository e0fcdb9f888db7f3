package util

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// LoadFromYaml reads path and unmarshals it into out, the same helper
// the UE-side sibling project uses to load model.GnbConfig/model.UeConfig.
func LoadFromYaml(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("Error reading yaml file '%s': %v", path, err)
	}

	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("Error unmarshalling yaml file '%s': %v", path, err)
	}

	return nil
}

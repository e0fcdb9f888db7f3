package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/assert"

	"github.com/Alonza0314/free-ran-enb/model"
)

func TestLoadFromYamlPopulatesSchedulerConfig(t *testing.T) {
	content := `
cell:
  cellId: "cell-1"
  plmnId:
    mcc: "001"
    mnc: "01"
  nofPrbDl: 25
  nofPrbUl: 25
  nrbPucch: 2
  siWindowMs: 20
  sibs:
    - lenBytes: 18
      periodRf: 8
  prach:
    freqOffset: 2
    config: 0
    rarWindowMs: 10
scheduler:
  startCfi: 2
logger:
  level: "info"
  filePath: ""
  debugMode: false
`
	dir := t.TempDir()
	path := filepath.Join(dir, "scheduler.yaml")
	err := os.WriteFile(path, []byte(content), 0o644)
	assert.Equal(t, nil, err)

	var cfg model.SchedulerConfig
	err = LoadFromYaml(path, &cfg)
	assert.Equal(t, nil, err)

	assert.Equal(t, "cell-1", cfg.Cell.CellId)
	assert.Equal(t, 25, cfg.Cell.NofPrbDl)
	assert.Equal(t, 1, len(cfg.Cell.Sibs))
	assert.Equal(t, 18, cfg.Cell.Sibs[0].LenBytes)
	assert.Equal(t, 2, cfg.Scheduler.StartCfi)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoadFromYamlMissingFile(t *testing.T) {
	var cfg model.SchedulerConfig
	err := LoadFromYaml("/nonexistent/path/scheduler.yaml", &cfg)
	assert.Equal(t, true, err != nil)
}

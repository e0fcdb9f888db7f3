package model

import "github.com/free5gc/openapi/models"

// SchedulerConfig is the YAML root, the scheduler's analogue of
// model.GnbConfig in the UE-side sibling project.
type SchedulerConfig struct {
	Cell      CellCfgIE `yaml:"cell"`
	Scheduler SchedIE   `yaml:"scheduler"`
	Logger    LoggerIE  `yaml:"logger"`
}

// CellCfgIE is the read-only-after-init cell configuration consulted by
// the carrier scheduler and its sub-schedulers.
type CellCfgIE struct {
	CellId  string `yaml:"cellId"`
	PlmnId  PlmnIdIE `yaml:"plmnId"`

	NofPrbDl int `yaml:"nofPrbDl"`
	NofPrbUl int `yaml:"nofPrbUl"`
	NrbPucch int `yaml:"nrbPucch"`

	Sibs       []SibIE   `yaml:"sibs"`
	SiWindowMs int       `yaml:"siWindowMs"`

	Prach PrachIE `yaml:"prach"`
}

// SibIE is one configured SIB table entry (length 0 means unused).
type SibIE struct {
	LenBytes int `yaml:"lenBytes"`
	PeriodRf int `yaml:"periodRf"`
}

// PrachIE mirrors the PRACH configuration fields the scheduler needs:
// the frequency offset of the occasion and the RAR window length.
type PrachIE struct {
	FreqOffset     int `yaml:"freqOffset"`
	Config         int `yaml:"config"`
	RarWindowMs    int `yaml:"rarWindowMs"`
}

// SchedIE carries the start CFI. The FDD delays and the subframe-slot
// ring length are not configurable here; they are the named constants
// in package constant.
type SchedIE struct {
	StartCfi int `yaml:"startCfi"`
}

// PlmnIdIE mirrors the PLMN identity shape used for config/banner display
// only; it plays no role in any scheduling decision.
type PlmnIdIE struct {
	Mcc string `yaml:"mcc"`
	Mnc string `yaml:"mnc"`
}

// ToModels converts the YAML-facing PlmnIdIE into the free5gc openapi
// model used for logging banners, the way the UE-side sibling project
// converts its own PlmnIdIE before handing it to the NGAP layer.
func (p PlmnIdIE) ToModels() models.PlmnId {
	return models.PlmnId{
		Mcc: p.Mcc,
		Mnc: p.Mnc,
	}
}

// LoggerIE configures the tagged logger, same shape as the sibling
// gNB/UE/console projects.
type LoggerIE struct {
	Level     string `yaml:"level"`
	FilePath  string `yaml:"filePath"`
	DebugMode bool   `yaml:"debugMode"`
}

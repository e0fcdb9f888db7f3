package logger

const (
	CONFIG_TAG = "CONFIG"

	SCHED_TAG = "SCHED"

	CARRIER_TAG = "CARRIER"
	BC_TAG      = "BC"
	RA_TAG      = "RA"
	SF_TAG      = "SF"
	PHICH_TAG   = "PHICH"
	METRIC_TAG  = "METRIC"
)

package mac

import (
	"testing"

	"github.com/go-playground/assert"

	"github.com/Alonza0314/free-ran-enb/logger"
)

func TestDlMetricRRFillsOneRbgPerUe(t *testing.T) {
	cfg := newTestCfg(25, 25, 2)
	log := logger.NewSchedulerLogger("error", "", false)
	m := NewDlMetricRR(log)
	m.SetParams(cfg, 0)

	ueDb := UeDb{
		0x10: NewSimpleUe(0x10, 0),
		0x11: NewSimpleUe(0x11, 0),
	}

	slot := newSfSched(cfg)
	slot.newTti(0, 2)

	m.SchedUsers(ueDb, slot)
	assert.Equal(t, 2, len(slot.DlSchedResult().Data))
	assert.Equal(t, uint16(0x10), slot.DlSchedResult().Data[0].Rnti)
	assert.Equal(t, uint16(0x11), slot.DlSchedResult().Data[1].Rnti)
}

func TestDlMetricRRSkipsUeNotOnThisCarrier(t *testing.T) {
	cfg := newTestCfg(25, 25, 2)
	log := logger.NewSchedulerLogger("error", "", false)
	m := NewDlMetricRR(log)
	m.SetParams(cfg, 0)

	ueDb := UeDb{0x10: NewSimpleUe(0x10, 1)}

	slot := newSfSched(cfg)
	slot.newTti(0, 2)

	m.SchedUsers(ueDb, slot)
	assert.Equal(t, 0, len(slot.DlSchedResult().Data))
}

func TestUlMetricRRReservesTwoPrbsPerUe(t *testing.T) {
	cfg := newTestCfg(25, 25, 0)
	log := logger.NewSchedulerLogger("error", "", false)
	m := NewUlMetricRR(log)
	m.SetParams(cfg, 0)

	ueDb := UeDb{
		0x10: NewSimpleUe(0x10, 0),
		0x11: NewSimpleUe(0x11, 0),
	}

	slot := newSfSched(cfg)
	slot.newTti(0, 2)

	m.SchedUsers(ueDb, slot)
	assert.Equal(t, 2, len(slot.UlSchedResult().Pusch))
	assert.Equal(t, 4, slot.UlMask().NofOnes())
}

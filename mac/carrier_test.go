package mac

import (
	"testing"

	"github.com/go-playground/assert"

	"github.com/Alonza0314/free-ran-enb/logger"
	"github.com/Alonza0314/free-ran-enb/model"
)

// orderRecordingDlMetric and orderRecordingUlMetric are mock metrics that
// record their invocation order, per spec scenario 5.
type orderRecordingDlMetric struct{ order *[]string }

func (m *orderRecordingDlMetric) SetParams(cfg *model.CellCfgIE, ccIdx int) {}
func (m *orderRecordingDlMetric) SchedUsers(ueDb UeDb, slot *SfSched) {
	*m.order = append(*m.order, "dl")
}

type orderRecordingUlMetric struct{ order *[]string }

func (m *orderRecordingUlMetric) SetParams(cfg *model.CellCfgIE, ccIdx int) {}
func (m *orderRecordingUlMetric) SchedUsers(ueDb UeDb, slot *SfSched) {
	*m.order = append(*m.order, "ul")
}

func newTestCarrier(t *testing.T, cfg *model.CellCfgIE, dl DlMetric, ul UlMetric) *CarrierSched {
	log := logger.NewSchedulerLogger("error", "", false)
	c := NewCarrierSched(0, UeDb{}, log)
	err := c.CarrierCfg(&CarrierParams{
		Cell:     cfg,
		StartCfi: 2,
		RRC:      NoPagingRRC{},
		DlMetric: dl,
		UlMetric: ul,
	})
	assert.Equal(t, nil, err)
	return c
}

// TestPdcchFairnessOrder pins spec scenario 5: on even tti_rx, UL is
// scheduled before DL; odd tti_rx reverses the order.
func TestPdcchFairnessOrder(t *testing.T) {
	cfg := newTestCfg(25, 25, 2)
	var order []string
	c := newTestCarrier(t, cfg, &orderRecordingDlMetric{order: &order}, &orderRecordingUlMetric{order: &order})

	order = nil
	c.GenerateTTIResult(10)
	assert.Equal(t, []string{"ul", "dl"}, order)

	order = nil
	c.GenerateTTIResult(11)
	assert.Equal(t, []string{"dl", "ul"}, order)
}

// TestPucchReservation pins spec scenario 6: with nof_prb=25, nrb_pucch=2,
// alloc_ul_users must leave PRBs {0,1,23,24} set in the UL mask
// regardless of the UL-data metric.
func TestPucchReservation(t *testing.T) {
	cfg := newTestCfg(25, 25, 2)
	c := newTestCarrier(t, cfg, nil, nil)

	slot := c.GenerateTTIResult(20)

	assert.Equal(t, true, slot.UlMask().Get(0))
	assert.Equal(t, true, slot.UlMask().Get(1))
	assert.Equal(t, true, slot.UlMask().Get(23))
	assert.Equal(t, true, slot.UlMask().Get(24))
}

// TestUlMaskSupersetOfPucchMask pins the universal invariant: after the
// OR step, ul_mask is always a superset of pucch_mask.
func TestUlMaskSupersetOfPucchMask(t *testing.T) {
	cfg := newTestCfg(25, 25, 2)
	c := newTestCarrier(t, cfg, nil, &UlMetricRR{})

	for ttiRx := uint32(0); ttiRx < 20; ttiRx++ {
		slot := c.GenerateTTIResult(ttiRx)
		assert.Equal(t, true, slot.UlMask().Contains(c.PucchMask()))
	}
}

// TestUlMaskSupersetOfPrachMaskOnOpportunity pins the universal invariant
// that every PRACH-opportunity TTI reserves the full prach_mask.
func TestUlMaskSupersetOfPrachMaskOnOpportunity(t *testing.T) {
	cfg := newTestCfg(25, 25, 2)
	cfg.Prach.Config = 0
	c := newTestCarrier(t, cfg, nil, nil)

	for ttiRx := uint32(0); ttiRx < 20; ttiRx++ {
		slot := c.GenerateTTIResult(ttiRx)
		if isPrachOpportunity(cfg, slot.TtiTxUl()) {
			assert.Equal(t, true, slot.UlMask().Contains(c.PrachMask()))
		}
	}
}

// TestGenerateTTIResultIdempotent pins the universal invariant: calling
// generate_tti_result(t) twice returns the same slot and does not mutate
// it on the second call.
func TestGenerateTTIResultIdempotent(t *testing.T) {
	cfg := newTestCfg(25, 25, 2)
	c := newTestCarrier(t, cfg, nil, nil)

	first := c.GenerateTTIResult(5)
	nofOnesAfterFirst := first.UlMask().NofOnes()

	second := c.GenerateTTIResult(5)
	assert.Equal(t, first, second)
	assert.Equal(t, nofOnesAfterFirst, second.UlMask().NofOnes())
}

func TestDlRachInfoFeedsRaSchedThroughCarrier(t *testing.T) {
	cfg := newTestCfg(25, 25, 2)
	c := newTestCarrier(t, cfg, nil, nil)

	err := c.DlRachInfo(RachInfo{PrachTti: 50, Preamble: 0, TempCrnti: 0x99, Msg3Size: 7})
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(c.raSched.PendingRars()))
}

package mac

import (
	"fmt"
	"sync"

	"github.com/Alonza0314/free-ran-enb/constant"
	"github.com/Alonza0314/free-ran-enb/logger"
	"github.com/Alonza0314/free-ran-enb/model"
	"github.com/Alonza0314/free-ran-enb/util"
)

// CarrierParams bundles everything CarrierCfg needs beyond the cell
// configuration itself.
type CarrierParams struct {
	Cell     *model.CellCfgIE
	StartCfi int
	RRC      RRC
	DlMetric DlMetric
	UlMetric UlMetric
}

// CarrierSched owns the subframe-slot ring, coordinates BcSched and
// RaSched with the data-plane metrics in the fixed per-TTI order of
// spec.md §4.4, and serialises access to shared state under one mutex.
type CarrierSched struct {
	mu sync.Mutex

	cfg    *model.CellCfgIE
	ccIdx  int
	params *CarrierParams

	bcSched *BcSched
	raSched *RaSched

	dlMetric DlMetric
	ulMetric UlMetric

	pucchMask *util.BitMask
	prachMask *util.BitMask

	sfDlMask []uint8

	ring [constant.SfSchedRingLen]*SfSched

	ueDb UeDb

	log *logger.SchedulerLogger
}

func NewCarrierSched(ccIdx int, ueDb UeDb, log *logger.SchedulerLogger) *CarrierSched {
	return &CarrierSched{
		ccIdx:    ccIdx,
		ueDb:     ueDb,
		sfDlMask: []uint8{0},
		log:      log,
	}
}

// CarrierCfg instantiates the BC/RA sub-schedulers, configures the
// metric plugins, and precomputes the constant pucch_mask/prach_mask
// (spec.md §4.4).
func (c *CarrierSched) CarrierCfg(params *CarrierParams) error {
	if params.Cell.NofPrbDl <= 0 || params.Cell.NofPrbUl <= 0 {
		return fmt.Errorf("carrier_cfg: invalid cell bandwidth")
	}
	if constant.SfSchedRingLen <= constant.Msg3DelayMs+1 || constant.SfSchedRingLen <= constant.FddTxDelay+1 {
		return fmt.Errorf("carrier_cfg: subframe ring too short for in-flight TTIs")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.params = params
	c.cfg = params.Cell

	c.bcSched = newBcSched(c.cfg, params.RRC, c.log)
	c.raSched = newRaSched(c.cfg, c.log)

	c.dlMetric = params.DlMetric
	c.ulMetric = params.UlMetric
	if c.dlMetric != nil {
		c.dlMetric.SetParams(c.cfg, c.ccIdx)
	}
	if c.ulMetric != nil {
		c.ulMetric.SetParams(c.cfg, c.ccIdx)
	}

	nofPrbUl := c.cfg.NofPrbUl
	c.pucchMask = util.NewBitMask(nofPrbUl)
	if c.cfg.NrbPucch > 0 {
		c.pucchMask.SetRange(0, c.cfg.NrbPucch)
		c.pucchMask.SetRange(nofPrbUl-c.cfg.NrbPucch, nofPrbUl)
	}
	c.prachMask = util.NewBitMask(nofPrbUl)
	c.prachMask.SetRange(c.cfg.Prach.FreqOffset, c.cfg.Prach.FreqOffset+constant.PrachMaskWidth)

	for i := range c.ring {
		c.ring[i] = newSfSched(c.cfg)
	}

	plmn := c.cfg.PlmnId.ToModels()
	c.log.CfgLog.Infoln("============= Carrier Info =============")
	c.log.CfgLog.Infof("Cell ID: %s, PLMN: %s%s", c.cfg.CellId, plmn.Mcc, plmn.Mnc)
	c.log.CfgLog.Infof("DL/UL PRBs: %d/%d, PUCCH RBs: %d", c.cfg.NofPrbDl, c.cfg.NofPrbUl, c.cfg.NrbPucch)
	c.log.CfgLog.Infoln("=========================================")

	return nil
}

// SetDlTTIMask replaces the DL blackout vector; a zero value means DL
// is permitted for that tti_tx_dl (spec.md §4.4).
func (c *CarrierSched) SetDlTTIMask(mask []uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sfDlMask = append([]uint8(nil), mask...)
}

func (c *CarrierSched) slotAt(ttiRx uint32) *SfSched {
	return c.ring[ttiRx%uint32(len(c.ring))]
}

// GenerateTTIResult is the per-TTI entry point: idempotent per tti_rx
// (spec.md §4.4/§5).
func (c *CarrierSched) GenerateTTIResult(ttiRx uint32) *SfSched {
	slot := c.slotAt(ttiRx)

	if slot.TtiRx() == ttiRx && slot.State() != SfIdle {
		return slot
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	dlActive := c.sfDlMask[util.TtiAdd(ttiRx, constant.FddTxDelay)%uint32(len(c.sfDlMask))] == 0

	slot.newTti(ttiRx, c.params.StartCfi)

	// PHICH emission always happens; DL blackout does not suppress acks.
	c.generatePhich(slot)

	if dlActive {
		c.bcSched.DlSched(slot)
		c.raSched.DlSched(slot)
	}

	if ttiRx%2 == 0 {
		c.allocUlUsers(slot)
		c.allocDlUsers(slot)
	} else {
		c.allocDlUsers(slot)
		c.allocUlUsers(slot)
	}

	slot.generateDcis()

	if dlActive {
		futureSlot := c.slotAt(util.TtiAdd(ttiRx, constant.Msg3DelayMs))
		c.raSched.SchedMsg3(futureSlot, slot.DlSchedResult())
	}

	for _, ue := range c.ueDb {
		ue.FinishTti(ttiRx, c.ccIdx)
	}

	return slot
}

func (c *CarrierSched) generatePhich(slot *SfSched) {
	nofPhich := 0
	for rnti, ue := range c.ueDb {
		cellIdx, ok := ue.GetCellIndex(c.ccIdx)
		if !ok {
			continue
		}
		h := ue.GetUlHarq(slot.TtiRx(), cellIdx)
		if h == nil || !h.HasPendingAck() {
			continue
		}
		slot.ulSchedResult.Phich = append(slot.ulSchedResult.Phich, PhichElem{
			Rnti: rnti, Ack: h.GetPendingAck(),
		})
		nofPhich++
		c.log.PhichLog.Debugf("Allocated PHICH for rnti=0x%x, ack=%v", rnti, h.GetPendingAck())
	}
}

func (c *CarrierSched) dlMaskedOut(slot *SfSched) bool {
	return c.sfDlMask[slot.TtiTxDl()%uint32(len(c.sfDlMask))] != 0
}

// allocDlUsers is a no-op if DL is masked, blocks the whole DL mask on
// 6-PRB cells that would otherwise collide with a PRACH occasion, then
// hands off to dl_metric (spec.md §4.4).
func (c *CarrierSched) allocDlUsers(slot *SfSched) {
	if c.dlMaskedOut(slot) {
		return
	}

	if c.cfg.NofPrbDl == 6 {
		ttiRxAck := util.TtiAdd(slot.TtiRx(), constant.FddUlDelay)
		if isPrachOpportunity(c.cfg, ttiRxAck) {
			slot.DlMask().SetRange(0, slot.DlMask().Len())
		}
	}

	if c.dlMetric != nil {
		c.dlMetric.SchedUsers(c.ueDb, slot)
	}
}

// allocUlUsers reserves the PRACH mask when tti_tx_ul is a PRACH
// opportunity, lets ra_sched place Msg3s, enforces the PUCCH mask, then
// hands off to ul_metric (spec.md §4.4).
func (c *CarrierSched) allocUlUsers(slot *SfSched) {
	ttiTxUl := slot.TtiTxUl()

	if isPrachOpportunity(c.cfg, ttiTxUl) {
		slot.ulMask.Or(c.prachMask)
		slot.ulSchedResult.PrachRes = true
		c.log.SfLog.Debugf("Allocated PRACH RBs, mask: 0x%s", c.prachMask.ToHex())
	}

	c.raSched.UlSched(slot, c.ueDb)

	if c.cfg.NofPrbUl != 6 && slot.ulMask.Intersects(c.pucchMask) {
		c.log.SfLog.Errorf("%v: current mask=0x%s, pucch_mask=0x%s", ErrPucchCollision, slot.ulMask.ToHex(), c.pucchMask.ToHex())
	}
	slot.ulMask.Or(c.pucchMask)

	if c.ulMetric != nil {
		c.ulMetric.SchedUsers(c.ueDb, slot)
	}
}

// isPrachOpportunity is the FDD PRACH occasion check parameterised by
// the configured PRACH config index: one occasion every 10-sf period,
// at subframe index == config%10. This stands in for
// srslte_prach_tti_opportunity_config_fdd; the full PRACH preamble
// format table is PHY internals, out of scope (spec.md §1).
func isPrachOpportunity(cfg *model.CellCfgIE, tti uint32) bool {
	return util.SfIdx(tti) == uint32(cfg.Prach.Config%10)
}

// DlRachInfo translates a PRACH detection into a pending RAR under the
// carrier mutex (spec.md §4.4/§6).
func (c *CarrierSched) DlRachInfo(info RachInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.raSched.DlRachInfo(info)
}

// Reset clears the BC/RA sub-schedulers' state.
func (c *CarrierSched) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bcSched != nil {
		c.bcSched.Reset()
	}
	if c.raSched != nil {
		c.raSched.Reset()
	}
}

// PucchMask and PrachMask expose the precomputed constant masks for
// invariant checks in tests.
func (c *CarrierSched) PucchMask() *util.BitMask { return c.pucchMask }
func (c *CarrierSched) PrachMask() *util.BitMask { return c.prachMask }

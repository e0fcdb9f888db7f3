package mac

import (
	"github.com/Alonza0314/free-ran-enb/constant"
	"github.com/Alonza0314/free-ran-enb/logger"
	"github.com/Alonza0314/free-ran-enb/model"
	"github.com/Alonza0314/free-ran-enb/util"
)

// RachInfo is one PRACH detection translated into a prospective Msg3
// grant (spec.md §3 PendingRAR.msg3_grant entries).
type RachInfo struct {
	PrachTti  uint32
	Preamble  int
	TempCrnti uint16
	Msg3Size  int

	// RbStart/L are the UL resource the grant will occupy; they are
	// filled in by the caller driving PRACH detections (normally the
	// scheduler's own UL allocator would pick these, but PRACH-to-RAR
	// translation precedes UL allocation, so the driver supplies a
	// provisional placement here, consistent with srsLTE's dl_rach_info
	// taking a fully-formed dl_sched_rar_info_t).
	RbStart int
	L       int
	Mcs     int
}

// PendingRAR is a FIFO entry keyed by RA-RNTI (spec.md §3).
type PendingRAR struct {
	RaRnti    uint16
	PrachTti  uint32
	Msg3Grant [constant.MaxRarPerRnti]RachInfo
	NofGrants int
}

// RaSched owns the pending-RAR FIFO and the transient pending-Msg3
// translation (spec.md §4.3).
type RaSched struct {
	cfg *model.CellCfgIE
	log *logger.SchedulerLogger

	pendingRars []*PendingRAR
}

func newRaSched(cfg *model.CellCfgIE, log *logger.SchedulerLogger) *RaSched {
	return &RaSched{cfg: cfg, log: log}
}

func raRnti(prachTti uint32) uint16 {
	return uint16(1 + prachTti%constant.NofSubframesPerFrame)
}

// DlRachInfo translates a PRACH detection into (a new or coalesced)
// pending RAR entry (spec.md §4.3).
func (r *RaSched) DlRachInfo(info RachInfo) error {
	rnti := raRnti(info.PrachTti)

	for _, rar := range r.pendingRars {
		if rar.PrachTti == info.PrachTti && rar.RaRnti == rnti {
			if rar.NofGrants >= constant.MaxRarPerRnti {
				return ErrRachBufferFull
			}
			rar.Msg3Grant[rar.NofGrants] = info
			rar.NofGrants++
			return nil
		}
	}

	p := &PendingRAR{RaRnti: rnti, PrachTti: info.PrachTti, NofGrants: 1}
	p.Msg3Grant[0] = info
	r.pendingRars = append(r.pendingRars, p)
	return nil
}

// PendingRars exposes the FIFO for inspection (tests, invariant checks).
func (r *RaSched) PendingRars() []*PendingRAR { return r.pendingRars }

// DlSched processes pending RARs from the front (spec.md §4.3).
func (r *RaSched) DlSched(slot *SfSched) {
	ttiTxDl := slot.TtiTxDl()

	// i walks forward over entries left in place this TTI (an outcome
	// other than OK or RB_COLLISION); popping the entry at i shifts the
	// rest down, so i is not advanced after a pop. An entry whose window
	// is not yet open ends the loop.
	i := 0
	for i < len(r.pendingRars) {
		rar := r.pendingRars[i]

		// Measure everything relative to prach_tti: the window is only
		// ever a few dozen subframes wide, so a forward distance from
		// that anchor orders tti_tx_dl against w_lo/w_hi correctly even
		// across the 10240-subframe wraparound.
		relDl := util.TtiInterval(ttiTxDl, rar.PrachTti)
		relLo := uint32(3)
		relHi := relLo + uint32(r.cfg.Prach.RarWindowMs)

		if relDl < relLo {
			// this entry is still in the future; any later entry has a
			// later prach_tti so cannot be earlier either.
			return
		}
		if relDl >= relHi {
			r.log.RaLog.Errorf("%v: RA TTI=%d, window=%d, now=%d", ErrRarWindowPassed, rar.PrachTti, r.cfg.Prach.RarWindowMs, ttiTxDl)
			r.pendingRars = append(r.pendingRars[:i], r.pendingRars[i+1:]...)
			continue
		}

		ret := slot.AllocRar(constant.RarAggrLevel, rar)
		switch ret.Outcome {
		case AllocOK:
			if ret.Count == rar.NofGrants {
				r.pendingRars = append(r.pendingRars[:i], r.pendingRars[i+1:]...)
				continue
			} else if ret.Count > 0 {
				copy(rar.Msg3Grant[:], rar.Msg3Grant[ret.Count:rar.NofGrants])
				rar.NofGrants -= ret.Count
				return
			}
			i++
		case AllocRbCollision:
			return
		default:
			// PDCCH-shape-specific obstacle: try the next RA-RNTI this
			// TTI instead of stopping, without popping this one.
			i++
		}
	}
}

// UlSched drains the slot's pending-Msg3 queue (spec.md §4.3).
func (r *RaSched) UlSched(slot *SfSched, ueDb UeDb) {
	for {
		msg3, ok := slot.PopPendingMsg3()
		if !ok {
			return
		}

		if _, exists := ueDb[msg3.Rnti]; !exists {
			r.log.RaLog.Warnf("%v: rnti=0x%x", ErrUnknownRntiForMsg3, msg3.Rnti)
			continue
		}

		outcome := slot.AllocUl(msg3.Rnti, UlAlloc{RbStart: msg3.RbStart, L: msg3.L}, UlAllocMsg3, msg3.Mcs)
		if outcome != AllocOK {
			r.log.RaLog.Warnf("%v: rnti=0x%x within (%d,%d)", ErrMsg3AllocFailed, msg3.Rnti, msg3.RbStart, msg3.RbStart+msg3.L)
		}
	}
}

// SchedMsg3 decodes every RAR grant RIV in dlResult into (n_prb, L) and
// pre-allocates the matching Msg3 into futureSlot (spec.md §4.3).
func (r *RaSched) SchedMsg3(futureSlot *SfSched, dlResult *DlSchedResult) {
	for _, rarGrant := range dlResult.Rar {
		for _, g := range rarGrant.Msg3Grants {
			rbStart, l := util.DecodeRiv(g.Riv, r.cfg.NofPrbUl)
			msg3 := PendingMsg3{Rnti: g.TempCrnti, RbStart: rbStart, L: l, Mcs: g.Mcs}
			if outcome := futureSlot.AllocMsg3(msg3); outcome != AllocOK {
				r.log.RaLog.Errorf("Failed to allocate Msg3 for rnti=0x%x at tti=%d", msg3.Rnti, futureSlot.TtiTxUl())
			} else {
				r.log.RaLog.Debugf("Queueing Msg3 for rnti=0x%x at tti=%d", msg3.Rnti, futureSlot.TtiTxUl())
			}
		}
	}
}

// Reset clears the pending-RAR FIFO.
func (r *RaSched) Reset() {
	r.pendingRars = nil
}

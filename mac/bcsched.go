package mac

import (
	"github.com/Alonza0314/free-ran-enb/constant"
	"github.com/Alonza0314/free-ran-enb/logger"
	"github.com/Alonza0314/free-ran-enb/model"
)

// sibState is one SIB's window state: inWindow acts as the tag, and
// windowStart and nTx are only meaningful while it is set. It is a plain
// struct, not a sum type, so the compiler does not stop windowStart or
// nTx from being read while inWindow is false.
type sibState struct {
	inWindow    bool
	windowStart uint32
	nTx         int
}

// BcSched owns SIB-window state and SIB retransmission counters, and
// queries RRC for paging opportunities (spec.md §4.2).
type BcSched struct {
	cfg *model.CellCfgIE
	rrc RRC
	log *logger.SchedulerLogger

	pendingSibs [constant.MaxSib]sibState
}

func newBcSched(cfg *model.CellCfgIE, rrc RRC, log *logger.SchedulerLogger) *BcSched {
	return &BcSched{cfg: cfg, rrc: rrc, log: log}
}

// DlSched runs the window update, SIB allocation and paging steps of
// spec.md §4.2 in order.
func (b *BcSched) DlSched(slot *SfSched) {
	b.updateSiWindows(slot)
	b.allocSibs(slot)
	b.allocPaging(slot)
}

func (b *BcSched) updateSiWindows(slot *SfSched) {
	ttiTxDl := slot.TtiTxDl()
	sfIdx := slot.SfIdx()
	sfn := slot.Sfn()

	for i := range b.cfg.Sibs {
		if i >= len(b.pendingSibs) {
			break
		}
		if b.cfg.Sibs[i].LenBytes == 0 {
			continue
		}

		sib := &b.pendingSibs[i]
		if !sib.inWindow {
			sf := uint32(5)
			x := 0
			if i > 0 {
				x = (i - 1) * b.cfg.SiWindowMs
				sf = uint32(x % 10)
			}
			periodRf := uint32(b.cfg.Sibs[i].PeriodRf)
			if periodRf > 0 && sfn%periodRf == uint32(x/10) && sfIdx == sf {
				sib.inWindow = true
				sib.windowStart = ttiTxDl
				sib.nTx = 0
			}
			continue
		}

		if i > 0 {
			if int(ttiTxDl-sib.windowStart) > b.cfg.SiWindowMs {
				*sib = sibState{}
			}
		} else if sib.nTx == constant.MaxSibRetx {
			// SIB1 is always in window; it just wraps its cycle.
			sib.nTx = 0
		}
	}
}

func (b *BcSched) allocSibs(slot *SfSched) {
	sfIdx := slot.SfIdx()
	sfn := slot.Sfn()
	ttiTxDl := slot.TtiTxDl()

	for i := range b.cfg.Sibs {
		if i >= len(b.pendingSibs) {
			break
		}
		if b.cfg.Sibs[i].LenBytes == 0 {
			continue
		}
		sib := &b.pendingSibs[i]
		if !sib.inWindow || sib.nTx >= constant.MaxSibRetx {
			continue
		}

		sib1Flag := i == 0 && sfn%2 == 0 && sfIdx == 5
		otherSibsFlag := false
		if i > 0 {
			nofTx := (b.cfg.SiWindowMs + 9) / 10
			if nofTx > constant.MaxSibRetx {
				nofTx = constant.MaxSibRetx
			}
			if nofTx < 1 {
				nofTx = 1
			}
			nSf := int(ttiTxDl - sib.windowStart)
			otherSibsFlag = nSf >= (b.cfg.SiWindowMs/nofTx)*sib.nTx && sfIdx == 9
		}
		if !sib1Flag && !otherSibsFlag {
			continue
		}

		if outcome := slot.AllocBc(constant.BcAggrLevel, i, sib.nTx, b.cfg.Sibs[i].LenBytes); outcome == AllocOK {
			sib.nTx++
		} else {
			b.log.BcLog.Debugf("SIB %d allocation failed at tti=%d: %v", i, ttiTxDl, outcome)
		}
	}
}

func (b *BcSched) allocPaging(slot *SfSched) {
	if b.rrc == nil {
		return
	}
	payload, ok := b.rrc.IsPagingOpportunity(slot.TtiTxDl())
	if !ok || payload == 0 {
		return
	}
	if outcome := slot.AllocPaging(constant.BcAggrLevel, payload); outcome != AllocOK {
		b.log.BcLog.Debugf("Paging allocation failed at tti=%d: %v", slot.TtiTxDl(), outcome)
	}
}

// Reset clears all SIB window state.
func (b *BcSched) Reset() {
	for i := range b.pendingSibs {
		b.pendingSibs[i] = sibState{}
	}
}

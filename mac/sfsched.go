package mac

import (
	"fmt"

	"github.com/free5gc/aper"

	"github.com/Alonza0314/free-ran-enb/constant"
	"github.com/Alonza0314/free-ran-enb/model"
	"github.com/Alonza0314/free-ran-enb/util"
)

// SfState is the per-TTI lifecycle of a subframe slot (spec.md §4.1).
type SfState int

const (
	SfIdle SfState = iota
	SfOpen
	SfFinalised
)

// UlAllocKind tags why a PUSCH grant exists.
type UlAllocKind int

const (
	UlAllocMsg3 UlAllocKind = iota
	UlAllocNewTx
	UlAllocRetx
)

// UlAlloc is the (RB start, length) pair an UL grant reserves. The
// naming follows the original "n_prb, L" fields: n_prb is the starting
// RB index, not a count.
type UlAlloc struct {
	RbStart int
	L       int
}

// BcGrant, PagingGrant, RarGrant, DataGrant are the DL result entries
// PHY consumes (spec.md §6).
type BcGrant struct {
	SibIdx           int
	NTx              int
	Aggr             int
	RbgStart, RbgLen int
}

type PagingGrant struct {
	Aggr             int
	PayloadBytes     uint32
	RbgStart, RbgLen int
}

type Msg3GrantOut struct {
	TempCrnti uint16
	Riv       uint32
	Mcs       int
}

type RarGrant struct {
	RaRnti           uint16
	Aggr             int
	RbgStart, RbgLen int
	Msg3Grants       []Msg3GrantOut
}

type DataGrant struct {
	Rnti             uint16
	Aggr             int
	RbgStart, RbgLen int
	Mcs              int
}

type PhichElem struct {
	Rnti uint16
	Ack  bool
}

type PuschGrant struct {
	Rnti  uint16
	Kind  UlAllocKind
	Alloc UlAlloc
	Mcs   int
}

// DlSchedResult is the DL allocation descriptor handed to the PHY.
type DlSchedResult struct {
	Bc     []BcGrant
	Paging []PagingGrant
	Rar    []RarGrant
	Data   []DataGrant
}

// UlSchedResult is the UL allocation descriptor handed to the PHY.
type UlSchedResult struct {
	Phich    []PhichElem
	PrachRes bool
	Pusch    []PuschGrant
}

// Dump exports the DL descriptor as an opaque octet string, the way the
// NGAP stack wraps arbitrary payload in aper.OctetString; here it wraps
// a PHY-facing payload rather than a NAS PDU.
func (r *DlSchedResult) Dump() aper.OctetString {
	s := fmt.Sprintf("bc=%d paging=%d rar=%d data=%d", len(r.Bc), len(r.Paging), len(r.Rar), len(r.Data))
	return aper.OctetString(s)
}

// Dump exports the UL descriptor the same way.
func (r *UlSchedResult) Dump() aper.OctetString {
	s := fmt.Sprintf("phich=%d prach=%v pusch=%d", len(r.Phich), r.PrachRes, len(r.Pusch))
	return aper.OctetString(s)
}

// PendingMsg3 is derived 1:1 from a granted RAR entry and sits in the
// pending-Msg3 queue of the future UL subframe slot at
// tti_tx_dl + Msg3DelayMs (spec.md §3).
type PendingMsg3 struct {
	Rnti    uint16
	RbStart int
	L       int
	Mcs     int
}

// SfSched is the per-TTI working buffer (spec.md §4.1).
type SfSched struct {
	cfg *model.CellCfgIE

	state SfState

	ttiRx   uint32
	ttiTxDl uint32
	ttiTxUl uint32

	startCfi int

	nofPrbGroups int
	nofPrbUl     int

	dlMask *util.BitMask
	ulMask *util.BitMask
	pdcch  *util.BitMask

	dlSchedResult DlSchedResult
	ulSchedResult UlSchedResult

	pendingMsg3 []PendingMsg3
}

func newSfSched(cfg *model.CellCfgIE) *SfSched {
	return &SfSched{
		cfg:          cfg,
		state:        SfIdle,
		nofPrbGroups: util.NofPrbGroups(cfg.NofPrbDl),
		nofPrbUl:     cfg.NofPrbUl,
		dlMask:       util.NewBitMask(util.NofPrbGroups(cfg.NofPrbDl)),
		ulMask:       util.NewBitMask(cfg.NofPrbUl),
		pdcch:        util.NewBitMask(constant.CceUnitsPerCfiSymbol * constant.MaxCfiSymbols),
	}
}

// TtiRx reports the receive TTI this slot was last bound to.
func (s *SfSched) TtiRx() uint32 { return s.ttiRx }
func (s *SfSched) TtiTxDl() uint32 { return s.ttiTxDl }
func (s *SfSched) TtiTxUl() uint32 { return s.ttiTxUl }
func (s *SfSched) SfIdx() uint32   { return util.SfIdx(s.ttiTxDl) }
func (s *SfSched) Sfn() uint32     { return util.Sfn(s.ttiTxDl) }
func (s *SfSched) State() SfState  { return s.state }

func (s *SfSched) DlMask() *util.BitMask { return s.dlMask }
func (s *SfSched) UlMask() *util.BitMask { return s.ulMask }

func (s *SfSched) DlSchedResult() *DlSchedResult { return &s.dlSchedResult }
func (s *SfSched) UlSchedResult() *UlSchedResult { return &s.ulSchedResult }

func (s *SfSched) PendingMsg3Queue() []PendingMsg3 { return s.pendingMsg3 }

// PopPendingMsg3 removes and returns the head of the pending-Msg3 queue.
func (s *SfSched) PopPendingMsg3() (PendingMsg3, bool) {
	if len(s.pendingMsg3) == 0 {
		return PendingMsg3{}, false
	}
	m := s.pendingMsg3[0]
	s.pendingMsg3 = s.pendingMsg3[1:]
	return m, true
}

// newTti rebinds the slot to a new TTI: Idle|Finalised -> Open, with all
// per-TTI state zeroed (spec.md §3/§4.1).
func (s *SfSched) newTti(ttiRx uint32, startCfi int) {
	s.ttiRx = ttiRx
	s.ttiTxDl = util.TtiAdd(ttiRx, constant.FddTxDelay)
	s.ttiTxUl = util.TtiAdd(ttiRx, constant.FddUlDelay)
	s.startCfi = startCfi

	s.dlMask.Zero()
	s.ulMask.Zero()
	s.pdcch.Zero()
	s.dlSchedResult = DlSchedResult{}
	s.ulSchedResult = UlSchedResult{}
	// pendingMsg3 is NOT cleared here: it is populated ahead of time by
	// ra_sched.sched_msg3 targeting this slot's future tti_tx_ul, and
	// must survive the rebind of the slot that produced it.

	s.state = SfOpen
}

// generateDcis finalises the slot: Open -> Finalised. The reference
// implementation allocates PDCCH/RBGs eagerly as each alloc_* call is
// made, so there is no deferred knapsack to solve here; this is an
// intentional simplification of the "candidate combination that
// maximises scheduled grants" step (spec.md §4.1), recorded in
// DESIGN.md's implementation notes.
func (s *SfSched) generateDcis() {
	s.state = SfFinalised
}

func (s *SfSched) pdcchBudget() int {
	return constant.CceUnitsPerCfiSymbol * s.startCfi
}

// reservePdcch finds and marks nCce contiguous CCE units for an
// allocation at the given aggregation level.
func (s *SfSched) reservePdcch(aggrLevel int) bool {
	nCce := 1 << uint(aggrLevel)
	budget := s.pdcchBudget()
	if budget <= 0 {
		budget = s.pdcch.Len()
	}
	start := s.pdcch.FindContiguousZeros(nCce)
	if start < 0 || start+nCce > budget {
		return false
	}
	s.pdcch.SetRange(start, start+nCce)
	return true
}

// rbgsForBytes is the deterministic (if simplified) mapping from a SIB
// or paging payload size to the number of RBGs it needs. The actual
// transport-block-size table is PHY internals, out of scope (spec.md
// §1); this stands in for it.
func rbgsForBytes(nBytes int) int {
	const bytesPerRbg = 6
	if nBytes <= 0 {
		return 1
	}
	n := (nBytes + bytesPerRbg - 1) / bytesPerRbg
	if n < 1 {
		n = 1
	}
	return n
}

// AllocBc reserves PDCCH at aggrLevel and the RBGs needed for sibIdx's
// retransmission nTx, appending a broadcast grant.
func (s *SfSched) AllocBc(aggrLevel, sibIdx, nTx, lenBytes int) AllocOutcome {
	if s.state != SfOpen {
		return AllocError
	}
	nRbg := rbgsForBytes(lenBytes)
	start := s.dlMask.FindContiguousZeros(nRbg)
	if start < 0 {
		return AllocRbCollision
	}
	if !s.reservePdcch(aggrLevel) {
		return AllocDciCollision
	}
	s.dlMask.SetRange(start, start+nRbg)
	s.dlSchedResult.Bc = append(s.dlSchedResult.Bc, BcGrant{
		SibIdx: sibIdx, NTx: nTx, Aggr: aggrLevel, RbgStart: start, RbgLen: nRbg,
	})
	return AllocOK
}

// AllocPaging reserves PDCCH and the RBGs needed to carry payloadBytes.
func (s *SfSched) AllocPaging(aggrLevel int, payloadBytes uint32) AllocOutcome {
	if s.state != SfOpen {
		return AllocError
	}
	nRbg := rbgsForBytes(int(payloadBytes))
	start := s.dlMask.FindContiguousZeros(nRbg)
	if start < 0 {
		return AllocRbCollision
	}
	if !s.reservePdcch(aggrLevel) {
		return AllocDciCollision
	}
	s.dlMask.SetRange(start, start+nRbg)
	s.dlSchedResult.Paging = append(s.dlSchedResult.Paging, PagingGrant{
		Aggr: aggrLevel, PayloadBytes: payloadBytes, RbgStart: start, RbgLen: nRbg,
	})
	return AllocOK
}

// AllocRar tries to fit as many Msg3 grants from rar.Msg3Grant[:rar.NofGrants]
// as PDCCH + RBGs allow, reporting how many were placed (spec.md §4.1).
func (s *SfSched) AllocRar(aggrLevel int, rar *PendingRAR) AllocRarResult {
	if s.state != SfOpen {
		return AllocRarResult{Outcome: AllocError}
	}
	const grantsPerRbg = 2
	for count := rar.NofGrants; count > 0; count-- {
		nRbg := (count + grantsPerRbg - 1) / grantsPerRbg
		start := s.dlMask.FindContiguousZeros(nRbg)
		if start < 0 {
			continue
		}
		if !s.reservePdcch(aggrLevel) {
			return AllocRarResult{Outcome: AllocDciCollision}
		}
		s.dlMask.SetRange(start, start+nRbg)

		grant := RarGrant{
			RaRnti: rar.RaRnti, Aggr: aggrLevel, RbgStart: start, RbgLen: nRbg,
		}
		for i := 0; i < count; i++ {
			g := rar.Msg3Grant[i]
			riv := util.EncodeRiv(s.cfg.NofPrbUl, g.RbStart, g.L)
			grant.Msg3Grants = append(grant.Msg3Grants, Msg3GrantOut{
				TempCrnti: g.TempCrnti, Riv: riv, Mcs: g.Mcs,
			})
		}
		s.dlSchedResult.Rar = append(s.dlSchedResult.Rar, grant)
		return AllocRarResult{Outcome: AllocOK, Count: count}
	}
	return AllocRarResult{Outcome: AllocRbCollision}
}

// AllocUl reserves [alloc.RbStart, alloc.RbStart+alloc.L) in the UL mask
// and appends a PUSCH grant to the UL result. It does not touch the UE's
// UL HARQ process.
func (s *SfSched) AllocUl(rnti uint16, alloc UlAlloc, kind UlAllocKind, mcs int) AllocOutcome {
	if s.state != SfOpen {
		return AllocError
	}
	if alloc.L <= 0 || alloc.RbStart < 0 || alloc.RbStart+alloc.L > s.nofPrbUl {
		return AllocInvalidCoderate
	}
	probe := util.NewBitMask(s.nofPrbUl)
	probe.SetRange(alloc.RbStart, alloc.RbStart+alloc.L)
	if s.ulMask.Intersects(probe) {
		return AllocRbCollision
	}
	s.ulMask.SetRange(alloc.RbStart, alloc.RbStart+alloc.L)
	s.ulSchedResult.Pusch = append(s.ulSchedResult.Pusch, PuschGrant{
		Rnti: rnti, Kind: kind, Alloc: alloc, Mcs: mcs,
	})
	return AllocOK
}

// AllocMsg3 appends a pending-Msg3 descriptor to this slot. The caller
// picks the slot whose UL TTI is the RAR's tti_tx_dl + Msg3DelayMs.
func (s *SfSched) AllocMsg3(msg3 PendingMsg3) AllocOutcome {
	// The target slot is addressed by future tti_tx_ul and may not have
	// been newTti'd yet (its own TTI is still ahead); the pending-Msg3
	// queue is therefore appended to regardless of lifecycle state and
	// survives the slot's next newTti rebind.
	s.pendingMsg3 = append(s.pendingMsg3, msg3)
	return AllocOK
}

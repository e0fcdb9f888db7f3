package mac

import (
	"sort"

	"github.com/Alonza0314/free-ran-enb/logger"
	"github.com/Alonza0314/free-ran-enb/model"
)

// DlMetric and UlMetric are the pluggable round-robin fillers of
// spec.md §4.5: capability objects that must respect the masks already
// present in the slot and allocate only in unset bits.
type DlMetric interface {
	SetParams(cfg *model.CellCfgIE, ccIdx int)
	SchedUsers(ueDb UeDb, slot *SfSched)
}

type UlMetric interface {
	SetParams(cfg *model.CellCfgIE, ccIdx int)
	SchedUsers(ueDb UeDb, slot *SfSched)
}

// DlMetricRR and UlMetricRR are the reference round-robin adapters the
// carrier scheduler exercises in tests and the CLI demo. They walk
// UeDb in RNTI order and grab the next free RBG/PRB run, with zero QoS
// sophistication — deliberately, per spec.md's Non-goals.
type DlMetricRR struct {
	cfg   *model.CellCfgIE
	ccIdx int
	log   *logger.SchedulerLogger
}

func NewDlMetricRR(log *logger.SchedulerLogger) *DlMetricRR { return &DlMetricRR{log: log} }

func (m *DlMetricRR) SetParams(cfg *model.CellCfgIE, ccIdx int) {
	m.cfg = cfg
	m.ccIdx = ccIdx
}

func (m *DlMetricRR) SchedUsers(ueDb UeDb, slot *SfSched) {
	for _, rnti := range sortedRntis(ueDb) {
		ue := ueDb[rnti]
		if _, ok := ue.GetCellIndex(m.ccIdx); !ok {
			continue
		}
		start := slot.DlMask().FindContiguousZeros(1)
		if start < 0 {
			return
		}
		slot.DlMask().SetRange(start, start+1)
		slot.DlSchedResult().Data = append(slot.DlSchedResult().Data, DataGrant{
			Rnti: rnti, Aggr: 0, RbgStart: start, RbgLen: 1, Mcs: 10,
		})
	}
}

type UlMetricRR struct {
	cfg   *model.CellCfgIE
	ccIdx int
	log   *logger.SchedulerLogger
}

func NewUlMetricRR(log *logger.SchedulerLogger) *UlMetricRR { return &UlMetricRR{log: log} }

func (m *UlMetricRR) SetParams(cfg *model.CellCfgIE, ccIdx int) {
	m.cfg = cfg
	m.ccIdx = ccIdx
}

func (m *UlMetricRR) SchedUsers(ueDb UeDb, slot *SfSched) {
	const prbPerUe = 2
	for _, rnti := range sortedRntis(ueDb) {
		ue := ueDb[rnti]
		if _, ok := ue.GetCellIndex(m.ccIdx); !ok {
			continue
		}
		start := slot.UlMask().FindContiguousZeros(prbPerUe)
		if start < 0 {
			return
		}
		outcome := slot.AllocUl(rnti, UlAlloc{RbStart: start, L: prbPerUe}, UlAllocNewTx, 10)
		if outcome != AllocOK {
			return
		}
	}
}

func sortedRntis(ueDb UeDb) []uint16 {
	rntis := make([]uint16, 0, len(ueDb))
	for rnti := range ueDb {
		rntis = append(rntis, rnti)
	}
	sort.Slice(rntis, func(i, j int) bool { return rntis[i] < rntis[j] })
	return rntis
}

package mac

import (
	"testing"

	"github.com/go-playground/assert"

	"github.com/Alonza0314/free-ran-enb/util"
)

func TestNewTtiComputesDerivedTtis(t *testing.T) {
	cfg := newTestCfg(25, 25, 2)
	slot := newSfSched(cfg)
	slot.newTti(10, 2)

	assert.Equal(t, uint32(10), slot.TtiRx())
	assert.Equal(t, uint32(14), slot.TtiTxDl())
	assert.Equal(t, uint32(14), slot.TtiTxUl())
	assert.Equal(t, SfOpen, slot.State())
}

func TestAllocUlRejectsOutOfRangeAndCollidingGrants(t *testing.T) {
	cfg := newTestCfg(25, 25, 2)
	slot := newSfSched(cfg)
	slot.newTti(0, 2)

	outcome := slot.AllocUl(0x10, UlAlloc{RbStart: 20, L: 10}, UlAllocNewTx, 10)
	assert.Equal(t, AllocInvalidCoderate, outcome)

	outcome = slot.AllocUl(0x10, UlAlloc{RbStart: 0, L: 5}, UlAllocNewTx, 10)
	assert.Equal(t, AllocOK, outcome)

	outcome = slot.AllocUl(0x11, UlAlloc{RbStart: 3, L: 5}, UlAllocNewTx, 10)
	assert.Equal(t, AllocRbCollision, outcome)

	outcome = slot.AllocUl(0x12, UlAlloc{RbStart: 5, L: 5}, UlAllocNewTx, 10)
	assert.Equal(t, AllocOK, outcome)
}

func TestAllocBcExhaustsPdcchBudget(t *testing.T) {
	cfg := newTestCfg(25, 25, 2)
	slot := newSfSched(cfg)
	slot.newTti(0, 1)

	// startCfi=1 leaves a 12-CCE budget; aggregation level 2 needs 4
	// CCEs, so only 3 grants fit before DCI collision.
	outcome := slot.AllocBc(2, 0, 0, 6)
	assert.Equal(t, AllocOK, outcome)
	outcome = slot.AllocBc(2, 1, 0, 6)
	assert.Equal(t, AllocOK, outcome)
	outcome = slot.AllocBc(2, 2, 0, 6)
	assert.Equal(t, AllocOK, outcome)
	outcome = slot.AllocBc(2, 3, 0, 6)
	assert.Equal(t, AllocDciCollision, outcome)
}

func TestAllocRarEncodesRivConsistentWithDecodeRiv(t *testing.T) {
	cfg := newTestCfg(25, 25, 2)
	slot := newSfSched(cfg)
	slot.newTti(0, 2)

	rar := &PendingRAR{
		RaRnti:    1,
		PrachTti:  0,
		NofGrants: 1,
	}
	rar.Msg3Grant[0] = RachInfo{TempCrnti: 0x55, RbStart: 4, L: 3}

	ret := slot.AllocRar(2, rar)
	assert.Equal(t, AllocOK, ret.Outcome)
	assert.Equal(t, 1, ret.Count)

	riv := slot.DlSchedResult().Rar[0].Msg3Grants[0].Riv
	rbStart, l := util.DecodeRiv(riv, cfg.NofPrbUl)
	assert.Equal(t, 4, rbStart)
	assert.Equal(t, 3, l)
}

func TestAllocRarReportsRbCollisionWhenNoRoom(t *testing.T) {
	cfg := newTestCfg(25, 25, 2)
	slot := newSfSched(cfg)
	slot.newTti(0, 2)
	slot.DlMask().SetRange(0, slot.DlMask().Len())

	rar := &PendingRAR{RaRnti: 1, NofGrants: 1}
	rar.Msg3Grant[0] = RachInfo{TempCrnti: 0x55, RbStart: 0, L: 1}

	ret := slot.AllocRar(2, rar)
	assert.Equal(t, AllocRbCollision, ret.Outcome)
	assert.Equal(t, 0, ret.Count)
}

func TestAllocMsg3SurvivesAcrossNewTti(t *testing.T) {
	cfg := newTestCfg(25, 25, 2)
	slot := newSfSched(cfg)
	slot.newTti(100, 2)

	outcome := slot.AllocMsg3(PendingMsg3{Rnti: 0x20, RbStart: 0, L: 2, Mcs: 10})
	assert.Equal(t, AllocOK, outcome)
	assert.Equal(t, 1, len(slot.PendingMsg3Queue()))

	slot.newTti(106, 2)
	assert.Equal(t, 1, len(slot.PendingMsg3Queue()))

	msg3, ok := slot.PopPendingMsg3()
	assert.Equal(t, true, ok)
	assert.Equal(t, uint16(0x20), msg3.Rnti)
	assert.Equal(t, 0, len(slot.PendingMsg3Queue()))

	_, ok = slot.PopPendingMsg3()
	assert.Equal(t, false, ok)
}

func TestDlAndUlSchedResultDump(t *testing.T) {
	cfg := newTestCfg(25, 25, 2)
	slot := newSfSched(cfg)
	slot.newTti(0, 2)

	slot.AllocBc(2, 0, 0, 18)
	dump := slot.DlSchedResult().Dump()
	assert.Equal(t, true, len(dump) > 0)

	ulDump := slot.UlSchedResult().Dump()
	assert.Equal(t, true, len(ulDump) > 0)
}

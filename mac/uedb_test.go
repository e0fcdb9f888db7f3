package mac

import (
	"testing"

	"github.com/go-playground/assert"
)

func TestSimpleUeGetCellIndex(t *testing.T) {
	ue := NewSimpleUe(0x10, 2)

	idx, ok := ue.GetCellIndex(2)
	assert.Equal(t, true, ok)
	assert.Equal(t, 0, idx)

	_, ok = ue.GetCellIndex(0)
	assert.Equal(t, false, ok)
}

func TestSimpleUlHarqPendingAck(t *testing.T) {
	h := NewSimpleUlHarq(true, true)
	assert.Equal(t, true, h.HasPendingAck())
	assert.Equal(t, true, h.GetPendingAck())

	h = NewSimpleUlHarq(false, false)
	assert.Equal(t, false, h.HasPendingAck())
}

func TestNoPagingRRCNeverPages(t *testing.T) {
	rrc := NoPagingRRC{}
	payload, ok := rrc.IsPagingOpportunity(5)
	assert.Equal(t, uint32(0), payload)
	assert.Equal(t, false, ok)
}

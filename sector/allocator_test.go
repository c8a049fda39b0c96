package sector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocateContiguousStartsAtRoot(t *testing.T) {
	a := NewAllocator()
	sector := a.AllocateContiguous(100)
	assert.Equal(t, uint32(33), sector)
}

func TestAllocateContiguousAdvancesByWholeSectors(t *testing.T) {
	a := NewAllocator()
	a.AllocateContiguous(2048) // exactly 1 sector
	next := a.AllocateContiguous(1)
	assert.Equal(t, uint32(34), next)
}

func TestAllocateContiguousRoundsUp(t *testing.T) {
	a := NewAllocator()
	a.AllocateContiguous(2049) // 2 sectors
	next := a.AllocateContiguous(1)
	assert.Equal(t, uint32(35), next)
}

func TestAllocateContiguousZeroSizeDoesNotAdvance(t *testing.T) {
	a := NewAllocator()
	sector := a.AllocateContiguous(0)
	assert.Equal(t, uint32(0), sector)
	assert.Equal(t, uint32(33), a.Cursor())
}

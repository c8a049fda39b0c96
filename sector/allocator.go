// Package sector implements contiguous sector allocation for the image
// writer: every dirtab and every file occupies one or more whole 2048-byte
// sectors, allocated in the order the forward write pass visits them.
package sector

import "github.com/charlesthegreat77/goxdvdfs/layout"

// Allocator hands out contiguous runs of sectors starting at the sector
// just past the volume descriptor, advancing a monotonic cursor. It
// holds no knowledge of what's stored in each run; callers are expected to
// allocate and immediately write, in the same forward order used to
// compute offsets.
type Allocator struct {
	cursor uint32
}

// NewAllocator returns an allocator whose cursor starts at the first
// sector past the volume descriptor (layout.RootSector), so the first run
// allocated is the root directory table's.
func NewAllocator() *Allocator {
	return &Allocator{cursor: layout.RootSector}
}

// AllocateContiguous reserves enough whole sectors to hold sizeBytes and
// returns the first sector of the run. A zero size still consumes no
// sectors and the cursor does not advance, matching the reference
// allocator's treatment of empty files (they carry a sector of 0).
func (a *Allocator) AllocateContiguous(sizeBytes uint32) uint32 {
	if sizeBytes == 0 {
		return 0
	}
	sector := a.cursor
	sectors := (sizeBytes + layout.SectorSize - 1) / layout.SectorSize
	a.cursor += sectors
	return sector
}

// Cursor returns the next sector that would be allocated.
func (a *Allocator) Cursor() uint32 {
	return a.cursor
}

package layout

import "github.com/charlesthegreat77/goxdvdfs/xerr"

// DiskRegion is an 8-byte on-disc pointer: a starting sector and a byte
// length. It is empty iff both fields are zero.
type DiskRegion struct {
	Sector uint32
	Size   uint32
}

// IsEmpty reports whether the region has no backing sectors.
func (r DiskRegion) IsEmpty() bool {
	return r.Sector == 0 && r.Size == 0
}

// Offset returns the absolute byte offset of the inner offset k within this
// region, failing with ErrSizeOutOfBounds if k falls outside [0, Size).
func (r DiskRegion) Offset(k uint64) (uint64, error) {
	if k >= uint64(r.Size) {
		return 0, xerr.ErrSizeOutOfBounds
	}
	return uint64(r.Sector)*SectorSize + k, nil
}

// ByteOffset returns the absolute byte offset of the region's first byte,
// independent of Size (used when the caller already knows the access is
// in-bounds, e.g. when writing a freshly allocated region).
func (r DiskRegion) ByteOffset() uint64 {
	return uint64(r.Sector) * SectorSize
}

// SizeInSectors returns the number of sectors spanned by Size bytes,
// rounding up; a zero-size region spans zero sectors.
func (r DiskRegion) SizeInSectors() uint64 {
	if r.Size == 0 {
		return 0
	}
	return (uint64(r.Size) + SectorSize - 1) / SectorSize
}

// Package layout defines the on-disc structures of an XDVDFS volume: the
// sector-addressed disk region, directory entry nodes, and the volume
// descriptor, along with their fixed-size binary (de)serialization.
//
// All multi-byte fields are little-endian and bit-exact with the on-disc
// Xbox format; this package performs no validation beyond structural shape,
// leaving semantic checks (e.g. magic matching) to the read engine.
package layout

// SectorSize is the fixed allocation and addressing unit on an XDVDFS disc.
const SectorSize = 2048

// VolumeMagic is the 20-byte marker present at both the start and end of a
// VolumeDescriptor.
const VolumeMagic = "MICROSOFT*XBOX*MEDIA"

// VolumeSector is the logical sector at which the VolumeDescriptor resides.
const VolumeSector = 32

// RootSector is the first sector available for dirtab and file allocation,
// immediately following the volume descriptor.
const RootSector = 33

// XGDOffset identifies one of the four known base byte offsets at which an
// XDVDFS partition may begin within a larger disc image.
type XGDOffset uint64

// The four known XGD base offsets, in bytes.
const (
	OffsetXISO XGDOffset = 0
	OffsetXGD1 XGDOffset = 405798912
	OffsetXGD2 XGDOffset = 265879552
	OffsetXGD3 XGDOffset = 34078720
)

// AllXGDOffsets is the probe order used by the offset wrapper.
var AllXGDOffsets = [...]XGDOffset{OffsetXISO, OffsetXGD1, OffsetXGD2, OffsetXGD3}

func (o XGDOffset) String() string {
	switch o {
	case OffsetXISO:
		return "XISO"
	case OffsetXGD1:
		return "XGD1"
	case OffsetXGD2:
		return "XGD2"
	case OffsetXGD3:
		return "XGD3"
	default:
		return "unknown"
	}
}

// direntNodeSize is the fixed packed size of a DirectoryEntryDiskNode,
// excluding the variable-length name that follows it on disc.
const direntNodeSize = 14

// volumeDescriptorSize is the fixed packed size of a VolumeDescriptor.
const volumeDescriptorSize = SectorSize

package layout

import "encoding/binary"

// Byte offsets within the 2048-byte VolumeDescriptor.
const (
	volMagic0Off    = 0x000
	volRootSectorOff = 0x014
	volRootSizeOff  = 0x018
	volFiletimeOff  = 0x01C
	volMagic1Off    = 0x7EC
)

// VolumeDescriptor is the 2048-byte structure at sector 32 of an XDVDFS
// image: leading and trailing magic markers bracketing the root directory
// table region and a FILETIME timestamp.
type VolumeDescriptor struct {
	RootTable DirectoryEntryTable
	// FileTime is a Windows FILETIME: 100-ns ticks since 1601-01-01 UTC.
	FileTime uint64
}

// NewVolumeDescriptor constructs a descriptor for writing, with FileTime
// defaulted to zero (the caller may set it explicitly afterward).
func NewVolumeDescriptor(rootTable DirectoryEntryTable) VolumeDescriptor {
	return VolumeDescriptor{RootTable: rootTable}
}

// isValid reports whether both magic markers are intact.
func (v volumeDescriptorWire) isValid() bool {
	return string(v.magic0[:]) == VolumeMagic && string(v.magic1[:]) == VolumeMagic
}

type volumeDescriptorWire struct {
	magic0 [20]byte
	magic1 [20]byte
}

// Serialize packs the descriptor into its fixed 2048-byte on-disc form.
func (v VolumeDescriptor) Serialize() []byte {
	buf := make([]byte, volumeDescriptorSize)
	copy(buf[volMagic0Off:volMagic0Off+20], VolumeMagic)
	binary.LittleEndian.PutUint32(buf[volRootSectorOff:volRootSectorOff+4], v.RootTable.Region.Sector)
	binary.LittleEndian.PutUint32(buf[volRootSizeOff:volRootSizeOff+4], v.RootTable.Region.Size)
	binary.LittleEndian.PutUint64(buf[volFiletimeOff:volFiletimeOff+8], v.FileTime)
	copy(buf[volMagic1Off:volMagic1Off+20], VolumeMagic)
	return buf
}

// DeserializeVolumeDescriptor unpacks a 2048-byte buffer into a
// VolumeDescriptor, reporting ok=false if either magic marker is absent.
func DeserializeVolumeDescriptor(buf [volumeDescriptorSize]byte) (VolumeDescriptor, bool) {
	var wire volumeDescriptorWire
	copy(wire.magic0[:], buf[volMagic0Off:volMagic0Off+20])
	copy(wire.magic1[:], buf[volMagic1Off:volMagic1Off+20])
	if !wire.isValid() {
		return VolumeDescriptor{}, false
	}

	v := VolumeDescriptor{
		RootTable: DirectoryEntryTable{
			Region: DiskRegion{
				Sector: binary.LittleEndian.Uint32(buf[volRootSectorOff : volRootSectorOff+4]),
				Size:   binary.LittleEndian.Uint32(buf[volRootSizeOff : volRootSizeOff+4]),
			},
		},
		FileTime: binary.LittleEndian.Uint64(buf[volFiletimeOff : volFiletimeOff+8]),
	}
	return v, true
}

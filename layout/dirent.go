package layout

import (
	"encoding/binary"

	"github.com/charlesthegreat77/goxdvdfs/xerr"
)

// DirectoryEntryTable is a DiskRegion known to contain a packed sequence of
// dirent records.
type DirectoryEntryTable struct {
	Region DiskRegion
}

// IsEmpty reports whether the table has no backing sectors.
func (t DirectoryEntryTable) IsEmpty() bool {
	return t.Region.IsEmpty()
}

// DirectoryEntryDiskData is the 10-byte dirent payload shared by both the
// on-disc node and the in-memory write-side representation.
type DirectoryEntryDiskData struct {
	Data           DiskRegion
	Attributes     DirentAttributes
	FilenameLength uint8
}

// IsDirectory reports whether the attribute's directory bit is set.
func (d DirectoryEntryDiskData) IsDirectory() bool {
	return d.Attributes.IsDirectory()
}

// IsEmptyFile reports whether the data region backing this entry is empty
// (a zero-length file, or an empty directory).
func (d DirectoryEntryDiskData) IsEmptyFile() bool {
	return d.Data.IsEmpty()
}

// DirentTable returns the directory entry table referenced by this dirent,
// if it is a directory.
func (d DirectoryEntryDiskData) DirentTable() (DirectoryEntryTable, bool) {
	if !d.IsDirectory() {
		return DirectoryEntryTable{}, false
	}
	return DirectoryEntryTable{Region: d.Data}, true
}

// childAbsent reports whether a raw 16-bit child offset field denotes "no
// child": 0 and the legacy sentinel 0xFFFF both apply for the
// preorder/find-dirent child-pointer field; 0xFF does not apply here since
// this is a 16-bit word count, not the 14-byte all-identical-byte
// empty-dirent sentinel.
func childAbsent(raw uint16) bool {
	return raw == 0 || raw == 0xFFFF
}

// DirectoryEntryDiskNode is the full 14-byte packed on-disc node: the two
// child word-offsets followed by the dirent payload.
type DirectoryEntryDiskNode struct {
	LeftEntryOffset  uint16
	RightEntryOffset uint16
	Dirent           DirectoryEntryDiskData
}

// HasLeft reports whether the left child pointer denotes a present child.
func (n DirectoryEntryDiskNode) HasLeft() bool {
	return !childAbsent(n.LeftEntryOffset)
}

// HasRight reports whether the right child pointer denotes a present child.
func (n DirectoryEntryDiskNode) HasRight() bool {
	return !childAbsent(n.RightEntryOffset)
}

// Serialize packs the node into its fixed 14-byte on-disc representation.
func (n DirectoryEntryDiskNode) Serialize() []byte {
	buf := make([]byte, direntNodeSize)
	binary.LittleEndian.PutUint16(buf[0:2], n.LeftEntryOffset)
	binary.LittleEndian.PutUint16(buf[2:4], n.RightEntryOffset)
	binary.LittleEndian.PutUint32(buf[4:8], n.Dirent.Data.Sector)
	binary.LittleEndian.PutUint32(buf[8:12], n.Dirent.Data.Size)
	buf[12] = byte(n.Dirent.Attributes)
	buf[13] = n.Dirent.FilenameLength
	return buf
}

// isAllBytes reports whether every byte in buf equals b.
func isAllBytes(buf []byte, b byte) bool {
	for _, c := range buf {
		if c != b {
			return false
		}
	}
	return true
}

// IsEmptySlot reports whether a raw 14-byte dirent record is the empty
// sentinel: all 0x00 or all 0xFF. Both are accepted on read; the writer
// always emits 0xFF.
func IsEmptySlot(buf [direntNodeSize]byte) bool {
	return isAllBytes(buf[:], 0x00) || isAllBytes(buf[:], 0xFF)
}

// DeserializeDiskNode unpacks a 14-byte buffer into a DirectoryEntryDiskNode.
// The caller is responsible for checking IsEmptySlot first.
func DeserializeDiskNode(buf [direntNodeSize]byte) DirectoryEntryDiskNode {
	return DirectoryEntryDiskNode{
		LeftEntryOffset:  binary.LittleEndian.Uint16(buf[0:2]),
		RightEntryOffset: binary.LittleEndian.Uint16(buf[2:4]),
		Dirent: DirectoryEntryDiskData{
			Data: DiskRegion{
				Sector: binary.LittleEndian.Uint32(buf[4:8]),
				Size:   binary.LittleEndian.Uint32(buf[8:12]),
			},
			Attributes:     DirentAttributes(buf[12]),
			FilenameLength: buf[13],
		},
	}
}

// DirectoryEntryNode is the in-memory representation of a dirent read from
// disk: the packed node, its name bytes, and the absolute byte offset on
// the device at which it was found.
type DirectoryEntryNode struct {
	Node   DirectoryEntryDiskNode
	Name   []byte
	Offset uint64
}

// NameString decodes Name from Windows-1252 into a Go string. Returns
// ErrDeserializationFailed if the bytes are not valid Windows-1252 (every
// single byte value is technically mappable under Windows-1252 in the
// standard encoding table except a handful of C1 control gaps, so this
// realistically only fails on those).
func (n DirectoryEntryNode) NameString() (string, error) {
	s, err := decodeWindows1252(n.Name)
	if err != nil {
		return "", xerr.ErrDeserializationFailed
	}
	return s, nil
}

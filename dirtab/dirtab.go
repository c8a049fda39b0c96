// Package dirtab builds a single directory's on-disc entry table: an
// AVL tree of dirents ordered by name, reshuffled into preorder and
// serialized to the packed 14-byte-node-plus-name format the volume
// expects, with sectors allocated for every entry as it's serialized.
package dirtab

import (
	"github.com/charlesthegreat77/goxdvdfs/avl"
	"github.com/charlesthegreat77/goxdvdfs/layout"
	"github.com/charlesthegreat77/goxdvdfs/sector"
)

// entryData is the avl.Ordered payload stored per dirtab node: the dirent
// fields plus its (already Windows-1252 encoded) name.
type entryData struct {
	node layout.DirectoryEntryDiskData
	name layout.DirentName
}

func (e entryData) Less(other entryData) bool {
	return e.name.Less(other.name)
}

// Writer accumulates a directory's entries and produces its on-disc
// representation. Always construct with NewWriter: the underlying AVL
// tree's "no child" sentinel is -1, which the zero value of avl.Tree does
// not provide.
type Writer struct {
	table avl.Tree[entryData]
	size  uint32
}

// NewWriter returns an empty directory table writer.
func NewWriter() *Writer {
	return &Writer{table: *avl.New[entryData]()}
}

func (w *Writer) addNode(name string, size uint32, attrs layout.DirentAttributes) error {
	dn, err := layout.NewDirentName(name)
	if err != nil {
		return err
	}
	filenameLength, err := dn.Encode()
	if err != nil {
		return err
	}

	entry := entryData{
		node: layout.DirectoryEntryDiskData{
			Data:           layout.DiskRegion{Sector: 0, Size: size},
			Attributes:     attrs,
			FilenameLength: filenameLength,
		},
		name: dn,
	}

	w.size += dn.LenOnDisk()
	w.table.Insert(entry)
	return nil
}

// AddDir records a subdirectory entry. size is the subdirectory's own
// dirtab size in bytes, computed during the backward sizing pass before
// its parent is visited.
func (w *Writer) AddDir(name string, size uint32) error {
	return w.addNode(name, size, layout.AttrDirectory)
}

// AddFile records a regular file entry. size is the file's content length
// in bytes.
func (w *Writer) AddFile(name string, size uint32) error {
	return w.addNode(name, size, layout.AttrArchive)
}

// DirtabSize returns the total size, in bytes, this table will occupy once
// serialized (the sum of every entry's rounded-up on-disk length).
func (w *Writer) DirtabSize() uint32 {
	return w.size
}

// Len returns the number of entries recorded.
func (w *Writer) Len() int {
	return w.table.Len()
}

// FileListingEntry records where a single entry's content ended up once
// DiskRepr allocated it a sector.
type FileListingEntry struct {
	Name   string
	Sector uint32
	IsDir  bool
}

// DiskRepr reshuffles the backing AVL tree into preorder, allocates a
// sector run for every entry's content via allocator, and serializes the
// full packed byte representation of the table.
//
// The reorder must happen before offsets are computed: on-disc child
// pointers are word-offsets relative to the start of the table, which only
// make sense once the backing order matches write order (index 0 first).
func (w *Writer) DiskRepr(allocator *sector.Allocator) ([]byte, []FileListingEntry, error) {
	w.table.ReorderPreorder()
	n := w.table.Len()

	// offsets[i] is the byte offset, within the table, at which entry i's
	// 14-byte node begins. Computed as an exclusive prefix sum of every
	// preceding entry's on-disk length.
	lens := make([]uint32, n)
	for i := 0; i < n; i++ {
		lens[i] = w.table.At(i).name.LenOnDisk()
	}
	offsets := make([]uint32, n)
	for i := 1; i < n; i++ {
		offsets[i] = offsets[i-1] + lens[i-1]
	}

	childOffset := func(idx int) uint16 {
		if idx < 0 {
			return 0
		}
		return uint16(offsets[idx] / 4)
	}

	var out []byte
	listing := make([]FileListingEntry, 0, n)

	for i := 0; i < n; i++ {
		data := w.table.At(i)

		contentSector := allocator.AllocateContiguous(data.node.Data.Size)
		data.node.Data.Sector = contentSector

		node := layout.DirectoryEntryDiskNode{
			LeftEntryOffset:  childOffset(w.table.LeftIndex(i)),
			RightEntryOffset: childOffset(w.table.RightIndex(i)),
			Dirent:           data.node,
		}

		listing = append(listing, FileListingEntry{
			Name:   data.name.Name(),
			Sector: contentSector,
			IsDir:  data.node.IsDirectory(),
		})

		out = append(out, node.Serialize()...)
		out = append(out, data.name.EncodedName()...)

		written := direntNodeAndNameLen(data)
		if pad := written % 4; pad != 0 {
			for k := uint32(0); k < 4-pad; k++ {
				out = append(out, 0xFF)
			}
		}
	}

	return out, listing, nil
}

func direntNodeAndNameLen(e entryData) uint32 {
	return 14 + uint32(len(e.name.EncodedName()))
}

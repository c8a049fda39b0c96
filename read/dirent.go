// Package read implements the XDVDFS read engine: volume descriptor
// validation, directory-table traversal, and file-data extraction against
// any blockdev.Reader.
package read

import (
	"fmt"

	"github.com/charlesthegreat77/goxdvdfs/blockdev"
	"github.com/charlesthegreat77/goxdvdfs/layout"
	"github.com/charlesthegreat77/goxdvdfs/xerr"
)

const direntHeaderSize = 0xe

// ReadVolume reads and validates the volume descriptor at sector 32. Any
// I/O error, along with a magic mismatch, is reported as
// xerr.ErrInvalidVolume: a short read past the end of a disc image and a
// genuinely corrupt volume are indistinguishable from here.
func ReadVolume(r blockdev.Reader) (layout.VolumeDescriptor, error) {
	var buf [layout.SectorSize]byte
	if err := r.Read(32*layout.SectorSize, buf[:]); err != nil {
		return layout.VolumeDescriptor{}, xerr.ErrInvalidVolume
	}

	v, ok := layout.DeserializeVolumeDescriptor(buf)
	if !ok {
		return layout.VolumeDescriptor{}, xerr.ErrInvalidVolume
	}
	return v, nil
}

// deserializeDirentNode interprets a 14-byte header as a dirent node. It
// does not populate the name. ok is false if buf is the empty-slot
// sentinel.
func deserializeDirentNode(buf [direntHeaderSize]byte, offset uint64) (layout.DirectoryEntryNode, bool) {
	if layout.IsEmptySlot(buf) {
		return layout.DirectoryEntryNode{}, false
	}
	return layout.DirectoryEntryNode{
		Node:   layout.DeserializeDiskNode(buf),
		Name:   make([]byte, 256),
		Offset: offset,
	}, true
}

// readDirent reads one dirent (header plus name) at an absolute byte
// offset. ok is false if the slot is empty.
func readDirent(r blockdev.Reader, offset uint64) (layout.DirectoryEntryNode, bool, error) {
	var hdr [direntHeaderSize]byte
	if err := r.Read(offset, hdr[:]); err != nil {
		return layout.DirectoryEntryNode{}, false, err
	}

	dirent, ok := deserializeDirentNode(hdr, offset)
	if !ok {
		return layout.DirectoryEntryNode{}, false, nil
	}

	nameLen := int(dirent.Node.Dirent.FilenameLength)
	dirent.Name = dirent.Name[:nameLen]
	if nameLen > 0 {
		if err := r.Read(offset+direntHeaderSize, dirent.Name); err != nil {
			return layout.DirectoryEntryNode{}, false, err
		}
	}
	return dirent, true, nil
}

// childOffset translates a raw 16-bit word offset from a node's
// Left/RightEntryOffset field into an absolute byte offset within table,
// returning ok=false if the field denotes an absent child.
func childOffset(table layout.DirectoryEntryTable, raw uint16) (uint64, bool, error) {
	if raw == 0 || raw == 0xFFFF {
		return 0, false, nil
	}
	off, err := table.Region.Offset(4 * uint64(raw))
	if err != nil {
		return 0, false, err
	}
	return off, true, nil
}

// RootDirent reads the dirent of v's root directory table. The root table
// itself has no dirent of its own; this reads the synthetic first slot
// used as an entry point by the AVL search.
func RootDirent(r blockdev.Reader, v layout.VolumeDescriptor) (layout.DirectoryEntryNode, error) {
	if v.RootTable.IsEmpty() {
		return layout.DirectoryEntryNode{}, xerr.ErrDirectoryEmpty
	}
	off, err := v.RootTable.Region.Offset(0)
	if err != nil {
		return layout.DirectoryEntryNode{}, err
	}
	dirent, ok, err := readDirent(r, off)
	if err != nil {
		return layout.DirectoryEntryNode{}, err
	}
	if !ok {
		return layout.DirectoryEntryNode{}, xerr.ErrDoesNotExist
	}
	return dirent, nil
}

// FindDirent performs a BST search for name within table, starting from
// its root slot.
func FindDirent(r blockdev.Reader, table layout.DirectoryEntryTable, name string) (layout.DirectoryEntryNode, error) {
	if table.IsEmpty() {
		return layout.DirectoryEntryNode{}, xerr.ErrDirectoryEmpty
	}

	offset, err := table.Region.Offset(0)
	if err != nil {
		return layout.DirectoryEntryNode{}, err
	}

	for {
		dirent, ok, err := readDirent(r, offset)
		if err != nil {
			return layout.DirectoryEntryNode{}, err
		}
		if !ok {
			return layout.DirectoryEntryNode{}, xerr.ErrDoesNotExist
		}

		direntName, err := dirent.NameString()
		if err != nil {
			return layout.DirectoryEntryNode{}, err
		}

		cmp := layout.CompareNameFold(name, direntName)
		var raw uint16
		switch {
		case cmp == 0:
			return dirent, nil
		case cmp < 0:
			raw = dirent.Node.LeftEntryOffset
		default:
			raw = dirent.Node.RightEntryOffset
		}

		next, ok, err := childOffset(table, raw)
		if err != nil {
			return layout.DirectoryEntryNode{}, err
		}
		if !ok {
			return layout.DirectoryEntryNode{}, xerr.ErrDoesNotExist
		}
		offset = next
	}
}

// WalkPath resolves a "/"-separated path against table, descending into
// subdirectories for every non-terminal segment. Returns ErrNoDirent for
// the root path, and ErrIsNotDirectory if a non-terminal segment names a
// file.
func WalkPath(r blockdev.Reader, table layout.DirectoryEntryTable, path string) (layout.DirectoryEntryNode, error) {
	segments := splitPath(path)
	if len(segments) == 0 {
		return layout.DirectoryEntryNode{}, xerr.ErrNoDirent
	}

	cur := table
	for i, seg := range segments {
		dirent, err := FindDirent(r, cur, seg)
		if err != nil {
			return layout.DirectoryEntryNode{}, err
		}
		if i == len(segments)-1 {
			return dirent, nil
		}

		sub, ok := dirent.Node.Dirent.DirentTable()
		if !ok {
			return layout.DirectoryEntryNode{}, xerr.ErrIsNotDirectory
		}
		cur = sub
	}

	panic("xdvdfs: WalkPath: segments consumed without returning")
}

func splitPath(path string) []string {
	if path == "" || path == "/" {
		return nil
	}
	start := 0
	if path[0] == '/' {
		start = 1
	}
	var out []string
	cur := ""
	for i := start; i < len(path); i++ {
		if path[i] == '/' {
			if cur != "" {
				out = append(out, cur)
			}
			cur = ""
			continue
		}
		cur += string(path[i])
	}
	if cur != "" {
		out = append(out, cur)
	}
	return out
}

// WalkDirentTree performs a preorder walk of table, returning every
// dirent: root, then its left subtree, then its right subtree.
func WalkDirentTree(r blockdev.Reader, table layout.DirectoryEntryTable) ([]layout.DirectoryEntryNode, error) {
	var dirents []layout.DirectoryEntryNode
	if table.IsEmpty() {
		return dirents, nil
	}

	stack := []uint64{0}
	for len(stack) > 0 {
		regionOffset := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		byteOffset, err := table.Region.Offset(regionOffset)
		if err != nil {
			return nil, err
		}
		dirent, ok, err := readDirent(r, byteOffset)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		if off, ok, err := childOffset(table, dirent.Node.RightEntryOffset); err != nil {
			return nil, err
		} else if ok {
			stack = append(stack, offsetWithinTable(off, table))
		}
		if off, ok, err := childOffset(table, dirent.Node.LeftEntryOffset); err != nil {
			return nil, err
		} else if ok {
			stack = append(stack, offsetWithinTable(off, table))
		}

		dirents = append(dirents, dirent)
	}

	return dirents, nil
}

// offsetWithinTable converts an absolute byte offset back into an offset
// relative to table's region, the inverse of table.Region.Offset.
// childOffset already validated off is within the table, so the
// subtraction is exact.
func offsetWithinTable(off uint64, table layout.DirectoryEntryTable) uint64 {
	return off - table.Region.ByteOffset()
}

// FileTreeEntry pairs a directory entry with the "/"-joined path of its
// parent directory, relative to the table FileTree was called on.
type FileTreeEntry struct {
	ParentPath string
	Dirent     layout.DirectoryEntryNode
}

// FileTree walks table and every subdirectory reachable from it,
// returning one entry per dirent with the path of its containing
// directory. Parents are emitted before children, though the full set is
// not strictly preorder since the stack is depth-unordered between
// sibling subdirectories.
func FileTree(r blockdev.Reader, table layout.DirectoryEntryTable) ([]FileTreeEntry, error) {
	var out []FileTreeEntry

	type frame struct {
		parent string
		table  layout.DirectoryEntryTable
	}
	stack := []frame{{parent: "", table: table}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := WalkDirentTree(r, top.table)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			if sub, ok := child.Node.Dirent.DirentTable(); ok {
				name, err := child.NameString()
				if err != nil {
					return nil, err
				}
				childPath := name
				if top.parent != "" {
					childPath = top.parent + "/" + name
				}
				stack = append(stack, frame{parent: childPath, table: sub})
			}
			out = append(out, FileTreeEntry{ParentPath: top.parent, Dirent: child})
		}
	}

	return out, nil
}

// ReadDataAll reads the entirety of dirent's data region.
func ReadDataAll(r blockdev.Reader, dirent layout.DirectoryEntryDiskData) ([]byte, error) {
	return ReadDataOffset(r, dirent, dirent.Data.Size, 0)
}

// ReadDataOffset reads up to size bytes of dirent's data region starting
// at innerOffset, clamping size to what remains. Returns
// ErrSizeOutOfBounds if innerOffset is beyond the region.
func ReadDataOffset(r blockdev.Reader, dirent layout.DirectoryEntryDiskData, size, innerOffset uint32) ([]byte, error) {
	if innerOffset > dirent.Data.Size {
		return nil, xerr.ErrSizeOutOfBounds
	}
	remaining := dirent.Data.Size - innerOffset
	if size > remaining {
		size = remaining
	}
	if size == 0 {
		return []byte{}, nil
	}

	base, err := dirent.Data.Offset(uint64(innerOffset))
	if err != nil {
		return nil, err
	}

	buf := make([]byte, size)
	if err := r.Read(base, buf); err != nil {
		return nil, fmt.Errorf("read: data region: %w", err)
	}
	return buf, nil
}

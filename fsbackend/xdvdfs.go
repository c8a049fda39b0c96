package fsbackend

import (
	"fmt"

	"github.com/charlesthegreat77/goxdvdfs/blockdev"
	"github.com/charlesthegreat77/goxdvdfs/layout"
	"github.com/charlesthegreat77/goxdvdfs/pathutil"
	"github.com/charlesthegreat77/goxdvdfs/read"
	"github.com/charlesthegreat77/goxdvdfs/xerr"
)

// xdvdfsCopyChunk bounds a single ReadDataOffset/Write round trip so
// CopyFileIn never has to materialize an entire large file at once.
const xdvdfsCopyChunk = 1 << 20

// XDVDFS is a Hierarchy/Copier backed by an already-built XDVDFS image,
// letting one be re-packed or inspected through the same interface as a
// host directory or an in-memory tree. Grounded on the reference
// implementation's XdvdfsFilesystem: ReadDir looks dir's table up in a
// PathPrefixTree cache seeded with the root table (there is no WalkPath
// fallback; an uncached dir is an error) and caches every child
// directory's table under dir so a later
// CopyFileIn for one of its children doesn't have to re-walk from the
// root. The parent of any path passed to ReadDir or CopyFileIn must have
// been read first — a plain recursive walk from the root, the only access
// pattern DirTree ever performs, always satisfies this.
type XDVDFS struct {
	r      blockdev.Reader
	volume layout.VolumeDescriptor
	tables *pathutil.PathPrefixTree[layout.DirectoryEntryTable]
}

// NewXDVDFS returns a Hierarchy/Copier reading from the XDVDFS image at r,
// already validated by read.ReadVolume.
func NewXDVDFS(r blockdev.Reader, volume layout.VolumeDescriptor) *XDVDFS {
	tables := pathutil.NewPathPrefixTree[layout.DirectoryEntryTable]()
	tables.InsertPath(pathutil.RefFromString("/"), volume.RootTable)
	return &XDVDFS{r: r, volume: volume, tables: tables}
}

func (x *XDVDFS) tableFor(dir pathutil.PathRef) (layout.DirectoryEntryTable, error) {
	if table, ok := x.tables.Get(dir); ok {
		return table, nil
	}
	return layout.DirectoryEntryTable{}, fmt.Errorf("fsbackend: %w: %s not yet enumerated", xerr.ErrDoesNotExist, dir.String())
}

// ReadDir implements Hierarchy, caching dir's own table (already known,
// either the root or recorded by the ReadDir call that discovered dir as a
// subdirectory) and every child directory's table for later lookups.
func (x *XDVDFS) ReadDir(dir pathutil.PathRef) ([]FileEntry, error) {
	table, err := x.tableFor(dir)
	if err != nil {
		return nil, err
	}

	children, err := read.WalkDirentTree(x.r, table)
	if err != nil {
		return nil, err
	}

	entries := make([]FileEntry, 0, len(children))
	for _, child := range children {
		name, err := child.NameString()
		if err != nil {
			return nil, err
		}

		ft := File
		var length uint64
		if sub, ok := child.Node.Dirent.DirentTable(); ok {
			ft = Directory
			x.tables.InsertPath(pathutil.RefFromPathVec(pathutil.FromBase(dir.ToPathVec(), name)), sub)
		} else {
			length = uint64(child.Node.Dirent.Data.Size)
		}
		entries = append(entries, FileEntry{Name: name, FileType: ft, Len: length})
	}
	return entries, nil
}

// ClearCache implements Hierarchy, discarding every cached directory table
// except the root's.
func (x *XDVDFS) ClearCache() error {
	x.tables = pathutil.NewPathPrefixTree[layout.DirectoryEntryTable]()
	x.tables.InsertPath(pathutil.RefFromString("/"), x.volume.RootTable)
	return nil
}

// CopyFileIn implements Copier, streaming src's data region out of the
// image in fixed-size chunks.
func (x *XDVDFS) CopyFileIn(src pathutil.PathRef, dest blockdev.Writer, inputOffset, outputOffset, size uint64) (uint64, error) {
	parentVec, ok := src.ToPathVec().Base()
	if !ok {
		return 0, fmt.Errorf("fsbackend: %s has no parent", src.String())
	}
	table, err := x.tableFor(pathutil.RefFromPathVec(parentVec))
	if err != nil {
		return 0, err
	}

	components := src.Components()
	name := components[len(components)-1]
	dirent, err := read.FindDirent(x.r, table, name)
	if err != nil {
		return 0, err
	}
	if dirent.Node.Dirent.IsDirectory() {
		return 0, fmt.Errorf("fsbackend: %s is a directory", src.String())
	}

	var total uint64
	for total < size {
		chunk := size - total
		if chunk > xdvdfsCopyChunk {
			chunk = xdvdfsCopyChunk
		}
		data, err := read.ReadDataOffset(x.r, dirent.Node.Dirent, uint32(chunk), uint32(inputOffset+total))
		if err != nil {
			return total, err
		}
		if len(data) == 0 {
			break
		}
		if err := dest.Write(outputOffset+total, data); err != nil {
			return total, err
		}
		total += uint64(len(data))
	}
	return total, nil
}

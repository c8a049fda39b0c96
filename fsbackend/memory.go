package fsbackend

import (
	"fmt"

	"github.com/charlesthegreat77/goxdvdfs/blockdev"
	"github.com/charlesthegreat77/goxdvdfs/pathutil"
	"github.com/charlesthegreat77/goxdvdfs/xerr"
)

// memoryEntry's zero value (hasData false, data nil) denotes a directory,
// matching the reference implementation's convention (Entry::default()
// has data: None, and lsdir maps None to FileType::Directory). This
// matters because PathPrefixTree.InsertPath creates intermediate
// directory components using T's zero value — so an implicit parent
// directory must look the same as an explicit Mkdir.
type memoryEntry struct {
	data    []byte
	hasData bool
}

// Memory is an in-memory filesystem source backed by a PathPrefixTree,
// useful for tests and for programmatically assembled images that never
// touch disk. Grounded on the reference implementation's
// MemoryFilesystem.
type Memory struct {
	tree *pathutil.PathPrefixTree[memoryEntry]
}

// NewMemory returns an empty in-memory filesystem, with only the root
// directory present.
func NewMemory() *Memory {
	return &Memory{tree: pathutil.NewPathPrefixTree[memoryEntry]()}
}

// Mkdir records path as a directory.
func (m *Memory) Mkdir(path pathutil.PathRef) {
	m.tree.InsertPath(path, memoryEntry{})
}

// Create records path as a file with the given contents.
func (m *Memory) Create(path pathutil.PathRef, data []byte) {
	cp := make([]byte, len(data))
	copy(cp, data)
	m.tree.InsertPath(path, memoryEntry{data: cp, hasData: true})
}

// Touch records path as an empty file.
func (m *Memory) Touch(path pathutil.PathRef) {
	m.Create(path, nil)
}

// ReadDir implements Hierarchy.
func (m *Memory) ReadDir(dir pathutil.PathRef) ([]FileEntry, error) {
	subtree := m.tree
	if !dir.IsRoot() {
		subtree = m.tree.LookupSubdir(dir)
		if subtree == nil {
			return nil, fmt.Errorf("fsbackend: %w: %s", xerr.ErrDoesNotExist, dir.String())
		}
	}

	entries := make([]FileEntry, 0)
	for _, e := range subtree.Iter() {
		ft := Directory
		var length uint64
		if e.Value.hasData {
			ft = File
			length = uint64(len(e.Value.data))
		}
		entries = append(entries, FileEntry{Name: e.Path, FileType: ft, Len: length})
	}
	return entries, nil
}

// ClearCache implements Hierarchy; Memory has no cache.
func (m *Memory) ClearCache() error {
	return nil
}

// CopyFileIn implements Copier, copying directly out of the in-memory
// byte slice backing src.
func (m *Memory) CopyFileIn(src pathutil.PathRef, dest blockdev.Writer, inputOffset, outputOffset, size uint64) (uint64, error) {
	entry, ok := m.tree.Get(src)
	if !ok || !entry.hasData {
		return 0, fmt.Errorf("fsbackend: %w: %s", xerr.ErrDoesNotExist, src.String())
	}

	data := entry.data
	if inputOffset > uint64(len(data)) {
		return 0, fmt.Errorf("fsbackend: input offset %d out of bounds for %s (len %d)", inputOffset, src.String(), len(data))
	}

	end := inputOffset + size
	if end > uint64(len(data)) {
		end = uint64(len(data))
	}
	chunk := data[inputOffset:end]

	if len(chunk) > 0 {
		if err := dest.Write(outputOffset, chunk); err != nil {
			return 0, err
		}
	}
	return uint64(len(chunk)), nil
}

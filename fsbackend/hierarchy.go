// Package fsbackend abstracts the source filesystem an image is built
// from: a Hierarchy lists directory entries, and a Copier streams a single
// file's bytes into the image being written. Concrete backends (Host,
// Memory, a remap overlay) implement both so the write engine never knows
// whether it's reading from disk, a test fixture, or a glob-rewritten
// view of either.
package fsbackend

import (
	"github.com/charlesthegreat77/goxdvdfs/blockdev"
	"github.com/charlesthegreat77/goxdvdfs/pathutil"
)

// FileType distinguishes a regular file from a directory in a directory
// listing.
type FileType int

const (
	File FileType = iota
	Directory
)

// FileEntry is a single entry returned from Hierarchy.ReadDir.
type FileEntry struct {
	Name     string
	FileType FileType
	Len      uint64
}

// DirTreeEntry pairs a FileEntry with the index, within DirTree's returned
// slice, of the DirectoryTreeEntry it expands to if it is itself a
// directory (0 if it's a file, since index 0 is always the root and a
// file can never expand to it).
type DirTreeEntry struct {
	Entry    FileEntry
	DirIndex int
}

// DirectoryTreeEntry pairs a directory's path with its listing, as
// produced by DirTree.
type DirectoryTreeEntry struct {
	Dir     pathutil.PathVec
	Listing []DirTreeEntry
}

// Hierarchy lists the entries of a directory within some filesystem
// source. ClearCache lets a caching backend (such as the XDVDFS-backed
// one) discard cached lookups; it is a no-op for backends that have no
// cache.
type Hierarchy interface {
	ReadDir(dir pathutil.PathRef) ([]FileEntry, error)
	ClearCache() error
}

// Copier streams a single file's contents from a Hierarchy's backing
// filesystem into dest at outputOffset, reading size bytes starting at
// inputOffset within the source file. It returns the number of bytes
// actually written.
type Copier interface {
	CopyFileIn(src pathutil.PathRef, dest blockdev.Writer, inputOffset, outputOffset, size uint64) (uint64, error)
}

// Backend is the minimal pair of capabilities the write engine needs from
// a filesystem source.
type Backend interface {
	Hierarchy
	Copier
}

// DirTree performs a breadth-first walk of the entire hierarchy rooted at
// the filesystem's root, returning one DirectoryTreeEntry per directory in
// the order directories were discovered (root first). directoryFound, if
// non-nil, is called once per directory with its entry count, letting
// callers drive a progress indicator.
//
// Each directory-typed listing entry carries the index, into the returned
// slice, of the DirectoryTreeEntry it expands to — computed from its
// position in the pending queue at discovery time, so the whole tree can
// be walked top-down without a second pass to resolve child directories.
func DirTree(h Hierarchy, directoryFound func(entryCount int)) ([]DirectoryTreeEntry, error) {
	dirs := []pathutil.PathVec{pathutil.Root()}
	var out []DirectoryTreeEntry

	for len(dirs) > 0 {
		dir := dirs[0]
		dirs = dirs[1:]

		entries, err := h.ReadDir(dir.AsRef())
		if err != nil {
			return nil, err
		}
		if directoryFound != nil {
			directoryFound(len(entries))
		}

		currentDirIndex := len(out)
		listing := make([]DirTreeEntry, 0, len(entries))
		for _, e := range entries {
			dirIndex := 0
			if e.FileType == Directory {
				dirs = append(dirs, pathutil.FromBase(dir, e.Name))
				dirIndex = currentDirIndex + len(dirs)
			}
			listing = append(listing, DirTreeEntry{Entry: e, DirIndex: dirIndex})
		}

		out = append(out, DirectoryTreeEntry{Dir: dir, Listing: listing})
	}

	return out, nil
}

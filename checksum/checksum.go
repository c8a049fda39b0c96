// Package checksum computes a stable content hash over every file and
// directory name in an XDVDFS volume, suitable for comparing two images
// built from the same source tree independent of sector placement.
package checksum

import (
	"crypto/sha256"

	"github.com/charlesthegreat77/goxdvdfs/blockdev"
	"github.com/charlesthegreat77/goxdvdfs/layout"
	"github.com/charlesthegreat77/goxdvdfs/read"
)

// Checksum walks volume's entire file tree in the order read.FileTree
// returns it, hashing each entry's parent path and name, and for files,
// its full contents. Grounded on the reference implementation's checksum
// function; the hash algorithm is SHA-256 (crypto/sha256) rather than
// SHA3-256, since no sha3 implementation appears anywhere in the retrieval
// pack and crypto/sha256 is the stdlib's equivalent fixed-output hash.
func Checksum(r blockdev.Reader, volume layout.VolumeDescriptor) ([32]byte, error) {
	h := sha256.New()

	tree, err := read.FileTree(r, volume.RootTable)
	if err != nil {
		return [32]byte{}, err
	}

	for _, entry := range tree {
		name, err := entry.Dirent.NameString()
		if err != nil {
			return [32]byte{}, err
		}

		h.Write([]byte(entry.ParentPath))
		h.Write([]byte("/"))
		h.Write([]byte(name))

		if !entry.Dirent.Node.Dirent.IsDirectory() {
			data, err := read.ReadDataAll(r, entry.Dirent.Node.Dirent)
			if err != nil {
				return [32]byte{}, err
			}
			h.Write(data)
		}
	}

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out, nil
}

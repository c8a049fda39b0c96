package fsbackend

import (
	"fmt"
	"io"
	"path"

	"github.com/spf13/afero"

	"github.com/charlesthegreat77/goxdvdfs/blockdev"
	"github.com/charlesthegreat77/goxdvdfs/pathutil"
)

// hostCopyBufSize matches blockdev.DefaultCopier's default chunk size; a
// bespoke loop is used here rather than DefaultCopier itself since the
// source is an afero.File (an io.Reader), not a blockdev.Reader.
const hostCopyBufSize = 1 << 20

// Host reads from a real (or afero-virtualized) host filesystem rooted at
// a fixed directory. Grounded on the reference implementation's
// StdFilesystem, generalized to afero.Fs so the same backend also serves
// an in-memory host-shaped tree (afero.NewMemMapFs) for tests without
// touching disk.
type Host struct {
	fs   afero.Fs
	root string
}

// NewHost returns a Host rooted at root within fs.
func NewHost(fs afero.Fs, root string) *Host {
	return &Host{fs: fs, root: root}
}

// NewOSHost returns a Host rooted at root on the real OS filesystem.
func NewOSHost(root string) *Host {
	return NewHost(afero.NewOsFs(), root)
}

func (h *Host) resolve(p pathutil.PathRef) string {
	return path.Join(append([]string{h.root}, p.Components()...)...)
}

// ReadDir implements Hierarchy.
func (h *Host) ReadDir(dir pathutil.PathRef) ([]FileEntry, error) {
	infos, err := afero.ReadDir(h.fs, h.resolve(dir))
	if err != nil {
		return nil, fmt.Errorf("fsbackend: read dir %s: %w", dir.String(), err)
	}

	entries := make([]FileEntry, 0, len(infos))
	for _, info := range infos {
		ft := File
		if info.IsDir() {
			ft = Directory
		}
		entries = append(entries, FileEntry{
			Name:     info.Name(),
			FileType: ft,
			Len:      uint64(info.Size()),
		})
	}
	return entries, nil
}

// ClearCache implements Hierarchy; Host has no cache.
func (h *Host) ClearCache() error {
	return nil
}

// CopyFileIn implements Copier, streaming size bytes from the host file at
// src+inputOffset into dest at outputOffset in hostCopyBufSize-sized pieces.
func (h *Host) CopyFileIn(src pathutil.PathRef, dest blockdev.Writer, inputOffset, outputOffset, size uint64) (uint64, error) {
	f, err := h.fs.Open(h.resolve(src))
	if err != nil {
		return 0, fmt.Errorf("fsbackend: open %s: %w", src.String(), err)
	}
	defer f.Close()

	if inputOffset > 0 {
		if _, err := f.Seek(int64(inputOffset), io.SeekStart); err != nil {
			return 0, fmt.Errorf("fsbackend: seek %s: %w", src.String(), err)
		}
	}

	buf := make([]byte, hostCopyBufSize)
	var written uint64
	for written < size {
		toRead := size - written
		if toRead > uint64(len(buf)) {
			toRead = uint64(len(buf))
		}
		n, err := io.ReadFull(f, buf[:toRead])
		if n > 0 {
			if werr := dest.Write(outputOffset+written, buf[:n]); werr != nil {
				return written, fmt.Errorf("fsbackend: write %s: %w", src.String(), werr)
			}
			written += uint64(n)
		}
		if err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return written, fmt.Errorf("fsbackend: read %s: %w", src.String(), err)
		}
	}
	return written, nil
}

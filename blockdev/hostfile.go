package blockdev

import (
	"bufio"
	"io"
	"os"
)

// HostFile is a ReadWriter backed by a seekable *os.File, buffering writes
// the way an image builder writes through an io.WriteSeeker handed in by
// the caller.
type HostFile struct {
	f *os.File
	w *bufio.Writer
}

// NewHostFile wraps an already-open file for block device use. The caller
// remains responsible for closing f after Flush.
func NewHostFile(f *os.File) *HostFile {
	return &HostFile{f: f, w: bufio.NewWriterSize(f, 1<<20)}
}

// CreateHostFile truncates (or creates) the named file and wraps it.
func CreateHostFile(name string) (*HostFile, error) {
	f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	return NewHostFile(f), nil
}

// Read implements Reader. Buffered writes are flushed first so reads
// observe them, matching the contract that Read/Write are never
// interleaved without a happens-before edge.
func (h *HostFile) Read(offset uint64, buf []byte) error {
	if err := h.w.Flush(); err != nil {
		return err
	}
	_, err := h.f.ReadAt(buf, int64(offset))
	return err
}

// Write implements Writer. The buffered writer is flushed before each seek
// so that buffered bytes land at the position they were written to rather
// than wherever the file happens to be positioned at the next flush.
func (h *HostFile) Write(offset uint64, buf []byte) error {
	if err := h.w.Flush(); err != nil {
		return err
	}
	if _, err := h.f.Seek(int64(offset), io.SeekStart); err != nil {
		return err
	}
	_, err := h.w.Write(buf)
	return err
}

// Len implements Writer.
func (h *HostFile) Len() (uint64, error) {
	if err := h.w.Flush(); err != nil {
		return 0, err
	}
	info, err := h.f.Stat()
	if err != nil {
		return 0, err
	}
	return uint64(info.Size()), nil
}

// Flush flushes buffered writes to the underlying file. The caller must
// call this (and Sync/Close as desired) after a successful image build.
func (h *HostFile) Flush() error {
	return h.w.Flush()
}

// File returns the underlying *os.File, for Sync/Close by the caller.
func (h *HostFile) File() *os.File {
	return h.f
}

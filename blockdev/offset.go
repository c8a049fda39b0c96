package blockdev

import (
	"github.com/charlesthegreat77/goxdvdfs/layout"
	"github.com/charlesthegreat77/goxdvdfs/xerr"
)

// volumeReader is the minimal hook OffsetWrapper needs from the read
// engine to probe a candidate offset. Callers pass a closure around
// read.ReadVolume that drops its VolumeDescriptor result, to avoid an import cycle
// between blockdev and read (read already depends on blockdev).
type volumeReader func(r Reader) error

// OffsetWrapper wraps an inner Reader/Writer pair, shifting every access
// by a fixed base offset that locates the start of the XDVDFS partition
// within a possibly larger disc image (e.g. an XGD1/2/3 dump that carries
// a DVD-Video partition ahead of the game partition).
type OffsetWrapper struct {
	inner  ReadWriter
	offset layout.XGDOffset
}

// NewOffsetWrapper probes the four known XGD offsets in order, using probe
// to validate the volume descriptor at each candidate base, and returns a
// wrapper fixed at the first offset that validates. Returns
// xerr.ErrInvalidVolume if none do.
func NewOffsetWrapper(inner ReadWriter, probe volumeReader) (*OffsetWrapper, error) {
	w := &OffsetWrapper{inner: inner}
	for _, off := range layout.AllXGDOffsets {
		w.offset = off
		if err := probe(w); err == nil {
			return w, nil
		}
	}
	return nil, xerr.ErrInvalidVolume
}

// NewOffsetWrapperAt constructs a wrapper at a caller-known offset, without
// probing.
func NewOffsetWrapperAt(inner ReadWriter, offset layout.XGDOffset) *OffsetWrapper {
	return &OffsetWrapper{inner: inner, offset: offset}
}

// GetOffset returns the base offset this wrapper resolved to (or was
// constructed with).
func (w *OffsetWrapper) GetOffset() layout.XGDOffset {
	return w.offset
}

// Inner returns the wrapped device.
func (w *OffsetWrapper) Inner() ReadWriter {
	return w.inner
}

// Read implements Reader, adding the base offset.
func (w *OffsetWrapper) Read(offset uint64, buf []byte) error {
	return w.inner.Read(offset+uint64(w.offset), buf)
}

// Write implements Writer, adding the base offset.
func (w *OffsetWrapper) Write(offset uint64, buf []byte) error {
	return w.inner.Write(offset+uint64(w.offset), buf)
}

// Len implements Writer, delegating directly (the device's total length is
// not offset-relative).
func (w *OffsetWrapper) Len() (uint64, error) {
	return w.inner.Len()
}

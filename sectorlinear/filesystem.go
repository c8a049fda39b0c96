package sectorlinear

import (
	"fmt"

	"github.com/charlesthegreat77/goxdvdfs/blockdev"
	"github.com/charlesthegreat77/goxdvdfs/fsbackend"
	"github.com/charlesthegreat77/goxdvdfs/layout"
	"github.com/charlesthegreat77/goxdvdfs/pathutil"
)

// Filesystem wraps a fsbackend.Backend, forwarding directory listing
// unchanged but replacing file copying with sector bookkeeping against a
// Device destination: no file bytes move until the Device is read back
// through an Image. Grounded on SectorLinearBlockFilesystem, whose
// copy_file_in only ever targets a SectorLinearBlockDevice.
type Filesystem struct {
	inner fsbackend.Backend
}

// NewFilesystem wraps inner for sector-linear emission.
func NewFilesystem(inner fsbackend.Backend) *Filesystem {
	return &Filesystem{inner: inner}
}

// ReadDir implements fsbackend.Hierarchy, delegating to inner.
func (f *Filesystem) ReadDir(dir pathutil.PathRef) ([]fsbackend.FileEntry, error) {
	return f.inner.ReadDir(dir)
}

// ClearCache implements fsbackend.Hierarchy, delegating to inner.
func (f *Filesystem) ClearCache() error {
	return f.inner.ClearCache()
}

// Inner returns the wrapped backend, the one an Image must read actual
// file bytes from once emission through f has finished recording sector
// references rather than bytes.
func (f *Filesystem) Inner() fsbackend.Backend {
	return f.inner
}

// CopyFileIn implements fsbackend.Copier against a *Device destination
// only: it records src's sector span rather than copying any bytes, with
// the actual read deferred until an Image built over dest and f is read.
// outputOffset must be sector-aligned, matching every outputOffset the
// write engine ever allocates; inputOffset must be zero, since a deferred
// file reference cannot represent a copy starting mid-file.
func (f *Filesystem) CopyFileIn(src pathutil.PathRef, dest blockdev.Writer, inputOffset, outputOffset, size uint64) (uint64, error) {
	device, ok := dest.(*Device)
	if !ok {
		return 0, fmt.Errorf("sectorlinear: Filesystem.CopyFileIn requires a *Device destination, got %T", dest)
	}
	if inputOffset != 0 {
		return 0, fmt.Errorf("sectorlinear: partial file copy (inputOffset %d) is not supported", inputOffset)
	}
	if outputOffset%layout.SectorSize != 0 {
		return 0, fmt.Errorf("sectorlinear: output offset %d is not sector-aligned", outputOffset)
	}

	span := size / layout.SectorSize
	if size%layout.SectorSize != 0 {
		span++
	}

	sector := outputOffset / layout.SectorSize
	if err := device.recordFile(sector, src, 0, span); err != nil {
		return 0, err
	}
	return size, nil
}

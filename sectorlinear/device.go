// Package sectorlinear provides an alternative image emission target: a
// sparse, sector-addressed device that records file content as a
// reference into the source filesystem rather than copying it, plus a
// read-only overlay that materializes bytes on demand. Grounded on
// xdvdfs-core/src/write/fs/sector_linear.rs and its linear_image.rs
// submodule. Useful for producing something byte-identical to a built
// image (for checksumming, or for a compressed-image packer) without
// ever holding the whole image in memory.
package sectorlinear

import (
	"fmt"

	"github.com/charlesthegreat77/goxdvdfs/layout"
	"github.com/charlesthegreat77/goxdvdfs/pathutil"
)

type contentKind int

const (
	contentEmpty contentKind = iota
	contentRaw
	contentFile
)

type sectorContent struct {
	kind contentKind

	raw []byte // exactly layout.SectorSize bytes; set iff kind == contentRaw

	path          pathutil.PathRef // set iff kind == contentFile
	fileSectorIdx uint64
}

// Device is a sparse, sector-addressed Writer. Grounded on
// SectorLinearBlockDevice, adapted to allow sub-sector writes at any
// offset rather than requiring every call to start sector-aligned: the
// write engine's own 0xFF tail-padding issues a second, short write partway
// through a sector it just wrote, which the reference implementation never
// does since its emitter computes a sector's full contents before a single
// aligned write. Two writes landing in the same sector are merged; a write
// that collides with a sector already recorded as a file reference is
// rejected, since the two contents can't coexist.
type Device struct {
	contents map[uint64]sectorContent
}

// NewDevice returns an empty Device.
func NewDevice() *Device {
	return &Device{contents: make(map[uint64]sectorContent)}
}

// Write implements blockdev.Writer, splitting buf across however many
// sectors it spans and merging each chunk into that sector's raw content.
func (d *Device) Write(offset uint64, buf []byte) error {
	pos := 0
	for pos < len(buf) {
		abs := offset + uint64(pos)
		sector := abs / layout.SectorSize
		sectorOff := abs % layout.SectorSize

		n := layout.SectorSize - sectorOff
		if remaining := uint64(len(buf) - pos); n > remaining {
			n = remaining
		}

		c, exists := d.contents[sector]
		if !exists {
			c = sectorContent{kind: contentRaw, raw: make([]byte, layout.SectorSize)}
		} else if c.kind != contentRaw {
			return fmt.Errorf("sectorlinear: sector %d already holds a file reference", sector)
		}
		copy(c.raw[sectorOff:sectorOff+n], buf[pos:pos+int(n)])
		d.contents[sector] = c

		pos += int(n)
	}
	return nil
}

func (d *Device) set(sector uint64, c sectorContent) error {
	if existing, exists := d.contents[sector]; exists && existing.kind != contentEmpty {
		return fmt.Errorf("sectorlinear: sector %d was already written", sector)
	}
	d.contents[sector] = c
	return nil
}

// recordFile marks span consecutive sectors starting at sector as backed
// by src's file data, the first referring to byte offset
// startFileSector*layout.SectorSize within src.
func (d *Device) recordFile(sector uint64, src pathutil.PathRef, startFileSector, span uint64) error {
	for i := uint64(0); i < span; i++ {
		if err := d.set(sector+i, sectorContent{kind: contentFile, path: src, fileSectorIdx: startFileSector + i}); err != nil {
			return err
		}
	}
	return nil
}

// Len implements blockdev.Writer. It reports the byte length implied by
// the highest-numbered recorded sector: a plain gap before it reads as
// zero, but nothing is known to exist past it.
func (d *Device) Len() (uint64, error) {
	if len(d.contents) == 0 {
		return 0, nil
	}
	var maxSector uint64
	first := true
	for sector := range d.contents {
		if first || sector > maxSector {
			maxSector = sector
			first = false
		}
	}
	if d.contents[maxSector].kind == contentEmpty {
		return maxSector * layout.SectorSize, nil
	}
	return (maxSector + 1) * layout.SectorSize, nil
}

// NumSectors reports how many sectors have been recorded, for progress or
// diagnostic use.
func (d *Device) NumSectors() int {
	return len(d.contents)
}

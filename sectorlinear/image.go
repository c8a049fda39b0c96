package sectorlinear

import (
	"sort"

	"github.com/charlesthegreat77/goxdvdfs/fsbackend"
	"github.com/charlesthegreat77/goxdvdfs/layout"
)

// Image overlays a Device on top of the filesystem it was built from,
// presenting a read-only, sector-addressable view of the image without
// ever materializing it in memory: raw sectors are sliced directly, file
// sectors are read from the source on demand, and gaps read as zero.
// Grounded on SectorLinearImage.read_linear.
type Image struct {
	device *Device
	source fsbackend.Backend
}

// NewImage returns an Image reading raw sectors from device and file
// sectors from source via source.CopyFileIn. source must be the original
// backend a Filesystem wrapped during emission (Filesystem.Inner()), not
// the Filesystem itself — the Filesystem's own CopyFileIn only records
// sector references, it never produces bytes.
func NewImage(device *Device, source fsbackend.Backend) *Image {
	return &Image{device: device, source: source}
}

// ReadLinear fills a size-byte buffer starting at the given absolute byte
// offset, the same contract as blockdev.Reader.Read but tolerant of short
// images: bytes past the highest recorded sector, and any gap between
// recorded sectors, read as zero.
func (img *Image) ReadLinear(offset, size uint64) ([]byte, error) {
	sectors := img.sortedSectors()
	buffer := make([]byte, size)

	sector := offset / layout.SectorSize
	position := offset % layout.SectorSize
	var index uint64

	// idx is the position in sectors of the first entry at or after
	// sector; advanced monotonically as sector increases below.
	idx := sort.Search(len(sectors), func(i int) bool { return sectors[i] >= sector })

	for index < size {
		if idx >= len(sectors) {
			break
		}
		incomingSector := sectors[idx]

		if incomingSector > sector {
			gap := incomingSector - sector
			emptyLen := gap*layout.SectorSize - position
			if remaining := size - index; emptyLen > remaining {
				emptyLen = remaining
			}
			index += emptyLen
			position = 0
			sector += gap
			if index >= size {
				break
			}
		}

		content := img.device.contents[incomingSector]
		switch content.kind {
		case contentEmpty:
			toRead := layout.SectorSize - position
			if remaining := size - index; toRead > remaining {
				toRead = remaining
			}
			// buffer is already zeroed
			index += toRead
			position = 0
			sector++
			idx++
		case contentRaw:
			toRead := layout.SectorSize - position
			if remaining := size - index; toRead > remaining {
				toRead = remaining
			}
			copy(buffer[index:index+toRead], content.raw[position:position+toRead])
			index += toRead
			position = 0
			sector++
			idx++
		case contentFile:
			consumed, sectorsConsumed, err := img.readFileRun(sectors, idx, incomingSector, content, buffer, index, position, size-index)
			if err != nil {
				return nil, err
			}
			index += consumed
			position = 0
			sector += sectorsConsumed
			idx += int(sectorsConsumed)
		}
	}

	return buffer, nil
}

// readFileRun coalesces sector and every immediately-following sector
// (by position in sectors, starting at idx) that continues the same file
// at consecutive file-sector indices into a single CopyFileIn call.
// Returns the number of output bytes filled and the number of sectors the
// run spanned, for the caller to advance its own cursors by.
func (img *Image) readFileRun(sectors []uint64, idx int, sector uint64, first sectorContent, buffer []byte, index, position, remaining uint64) (uint64, uint64, error) {
	run := uint64(1)
	for idx+int(run) < len(sectors) {
		next := sectors[idx+int(run)]
		if next != sector+run {
			break
		}
		nc := img.device.contents[next]
		if nc.kind != contentFile || !nc.path.Equal(first.path) || nc.fileSectorIdx != first.fileSectorIdx+run {
			break
		}
		run++
	}

	readLen := run*layout.SectorSize - position
	if readLen > remaining {
		readLen = remaining
		// A partial final sector still counts as consumed once any of it
		// is read, so the caller's sector cursor advances past it too.
		run = (readLen + position + layout.SectorSize - 1) / layout.SectorSize
	}

	fileOffset := first.fileSectorIdx*layout.SectorSize + position
	if _, err := img.source.CopyFileIn(first.path, sliceWriter{buf: buffer, base: index}, fileOffset, 0, readLen); err != nil {
		return 0, 0, err
	}

	return readLen, run, nil
}

func (img *Image) sortedSectors() []uint64 {
	keys := make([]uint64, 0, len(img.device.contents))
	for k := range img.device.contents {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// sliceWriter adapts a plain byte slice to blockdev.Writer so
// fsbackend.Copier implementations (which write through that interface)
// can deposit file bytes directly into Image.ReadLinear's output buffer.
type sliceWriter struct {
	buf  []byte
	base uint64
}

func (w sliceWriter) Write(offset uint64, data []byte) error {
	copy(w.buf[w.base+offset:], data)
	return nil
}

func (w sliceWriter) Len() (uint64, error) {
	return uint64(len(w.buf)), nil
}

package read

import (
	"io"

	"github.com/charlesthegreat77/goxdvdfs/blockdev"
	"github.com/charlesthegreat77/goxdvdfs/layout"
)

// DirentScanIter reads every dirent in a table one sector at a time,
// batching I/O instead of performing one read per record. Order is not
// guaranteed to follow the tree structure.
type DirentScanIter struct {
	r         blockdev.Reader
	table     layout.DirectoryEntryTable
	sector    uint32
	endSector uint32
	buf       [layout.SectorSize]byte
	offset    int
}

// NewDirentScanIter constructs a scan iterator over table. An empty table
// yields an iterator whose first Next call immediately returns io.EOF.
func NewDirentScanIter(r blockdev.Reader, table layout.DirectoryEntryTable) (*DirentScanIter, error) {
	it := &DirentScanIter{r: r, table: table}
	if table.IsEmpty() {
		it.endSector = 0
		for i := range it.buf {
			it.buf[i] = 0xFF
		}
		return it, nil
	}

	it.sector = table.Region.Sector
	it.endSector = table.Region.Sector + uint32(table.Region.SizeInSectors())
	if err := it.readSector(it.sector); err != nil {
		return nil, err
	}
	return it, nil
}

func (it *DirentScanIter) readSector(sector uint32) error {
	return it.r.Read(uint64(sector)*layout.SectorSize, it.buf[:])
}

func (it *DirentScanIter) nextSector() error {
	it.offset = 0
	it.sector++
	if it.sector >= it.endSector {
		return nil
	}
	return it.readSector(it.sector)
}

// Next returns the next dirent in scan order, or io.EOF once the table's
// sectors are exhausted.
func (it *DirentScanIter) Next() (layout.DirectoryEntryNode, error) {
	if it.sector >= it.endSector {
		return layout.DirectoryEntryNode{}, io.EOF
	}

	for {
		var hdr [direntHeaderSize]byte
		copy(hdr[:], it.buf[it.offset:it.offset+direntHeaderSize])

		nameOffset := it.offset + direntHeaderSize
		dirent, ok := deserializeDirentNode(hdr, uint64(it.sector)*layout.SectorSize+uint64(it.offset))
		if !ok {
			if it.sector+1 < it.endSector {
				if err := it.nextSector(); err != nil {
					return layout.DirectoryEntryNode{}, err
				}
				continue
			}
			return layout.DirectoryEntryNode{}, io.EOF
		}

		nameLen := int(dirent.Node.Dirent.FilenameLength)
		dirent.Name = make([]byte, nameLen)
		copy(dirent.Name, it.buf[nameOffset:nameOffset+nameLen])

		it.offset = nameOffset + nameLen
		if rem := it.offset % 4; rem != 0 {
			it.offset += 4 - rem
		}

		if it.offset+direntHeaderSize >= layout.SectorSize {
			if err := it.nextSector(); err != nil {
				return layout.DirectoryEntryNode{}, err
			}
		}

		return dirent, nil
	}
}

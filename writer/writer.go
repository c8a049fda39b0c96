// Package writer builds a complete XDVDFS image from a fsbackend.Backend
// source filesystem: a backward pass sizes every directory's entry table
// leaves-first, then a forward pass allocates sectors parent-first and
// emits dirtabs and file content. Grounded on
// xdvdfs-core/src/write/img.rs's create_xdvdfs_image, adapted to consume
// fsbackend.DirTree's precomputed dir_index bookkeeping
// (write/fs/hierarchy.rs) in place of img.rs's path-string BTreeMap
// ordering trick — the two achieve the same parent-before-child
// invariant, but an index into a slice already in traversal order is
// simpler than re-deriving it from lexicographic path comparison.
package writer

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/charlesthegreat77/goxdvdfs/blockdev"
	"github.com/charlesthegreat77/goxdvdfs/dirtab"
	"github.com/charlesthegreat77/goxdvdfs/fsbackend"
	"github.com/charlesthegreat77/goxdvdfs/layout"
	"github.com/charlesthegreat77/goxdvdfs/pathutil"
	"github.com/charlesthegreat77/goxdvdfs/sector"
)

// WriteOptions configures CreateImage.
type WriteOptions struct {
	// FileTime overrides the volume descriptor's FILETIME field. Zero
	// (the default) leaves it unset.
	FileTime uint64
	// OnEvent, if non-nil, is called synchronously for every progress
	// Event during emission.
	OnEvent func(Event)
	// Logger, if non-zero, receives structured log lines mirroring the
	// same events at debug level.
	Logger zerolog.Logger
}

func (o WriteOptions) emit(ev Event) {
	if o.OnEvent != nil {
		o.OnEvent(ev)
	}
	e := o.Logger.Debug().Str("event", ev.Kind.String())
	if ev.Path != "" {
		e = e.Str("path", ev.Path)
	}
	if ev.Count != 0 {
		e = e.Int("count", ev.Count)
	}
	if ev.Sector != 0 {
		e = e.Uint32("sector", ev.Sector)
	}
	e.Msg("xdvdfs write")
}

// CreateImage builds a complete XDVDFS image from backend's root directory
// and writes it to image.
func CreateImage(backend fsbackend.Backend, image blockdev.Writer, opts WriteOptions) error {
	var dirCount, fileCount int
	tree, err := fsbackend.DirTree(backend, func(n int) {
		dirCount++
		opts.emit(Event{Kind: DiscoveredDirectory, Count: n})
	})
	if err != nil {
		return fmt.Errorf("writer: walking source tree: %w", err)
	}
	for _, dte := range tree {
		for _, e := range dte.Listing {
			if e.Entry.FileType == fsbackend.File {
				fileCount++
			}
		}
	}
	opts.emit(Event{Kind: DirCount, Count: dirCount})
	opts.emit(Event{Kind: FileCount, Count: fileCount})

	writers, err := sizeDirtabs(tree)
	if err != nil {
		return err
	}

	alloc := sector.NewAllocator()
	dirSectors := make([]uint32, len(tree))
	dirSectors[0] = alloc.AllocateContiguous(writers[0].DirtabSize())

	for i, dte := range tree {
		w := writers[i]
		tableSector := dirSectors[i]

		bytes, listing, err := w.DiskRepr(alloc)
		if err != nil {
			return fmt.Errorf("writer: serializing dirtab for %q: %w", dte.Dir.String(), err)
		}

		if err := writeSectorAligned(image, uint64(tableSector)*layout.SectorSize, bytes); err != nil {
			return fmt.Errorf("writer: writing dirtab for %q: %w", dte.Dir.String(), err)
		}
		opts.emit(Event{Kind: DirAdded, Path: dte.Dir.String(), Sector: tableSector})

		if err := placeListing(backend, image, dte, listing, dirSectors, &opts); err != nil {
			return err
		}
	}
	opts.emit(Event{Kind: FinishedCopyingImageData})

	volume := layout.NewVolumeDescriptor(layout.DirectoryEntryTable{
		Region: layout.DiskRegion{Sector: dirSectors[0], Size: writers[0].DirtabSize()},
	})
	volume.FileTime = opts.FileTime
	if err := image.Write(layout.VolumeSector*layout.SectorSize, volume.Serialize()); err != nil {
		return fmt.Errorf("writer: writing volume descriptor: %w", err)
	}

	if err := padToSectorMultiple(image, 32); err != nil {
		return fmt.Errorf("writer: final padding: %w", err)
	}
	opts.emit(Event{Kind: FinishedPacking})
	return nil
}

// sizeDirtabs runs the backward pass: one dirtab.Writer per directory in
// tree, sized leaves-first so that a parent directory's AddDir call can
// read its child's already-computed DirtabSize.
func sizeDirtabs(tree []fsbackend.DirectoryTreeEntry) ([]*dirtab.Writer, error) {
	writers := make([]*dirtab.Writer, len(tree))
	for i := len(tree) - 1; i >= 0; i-- {
		w := dirtab.NewWriter()
		for _, e := range tree[i].Listing {
			if e.Entry.Len > math.MaxUint32 {
				return nil, fmt.Errorf("writer: %q exceeds the 4 GiB XDVDFS entry size limit", e.Entry.Name)
			}
			if e.Entry.FileType == fsbackend.Directory {
				if err := w.AddDir(e.Entry.Name, writers[e.DirIndex].DirtabSize()); err != nil {
					return nil, fmt.Errorf("writer: %q: %w", e.Entry.Name, err)
				}
			} else {
				if err := w.AddFile(e.Entry.Name, uint32(e.Entry.Len)); err != nil {
					return nil, fmt.Errorf("writer: %q: %w", e.Entry.Name, err)
				}
			}
		}
		writers[i] = w
	}
	return writers, nil
}

// placeListing walks one directory's freshly-serialized listing, recording
// child directory sectors for later iterations and copying file content in
// immediately.
func placeListing(backend fsbackend.Backend, image blockdev.Writer, dte fsbackend.DirectoryTreeEntry, listing []dirtab.FileListingEntry, dirSectors []uint32, opts *WriteOptions) error {
	dirIndexByName := make(map[string]int, len(dte.Listing))
	lenByName := make(map[string]uint64, len(dte.Listing))
	for _, e := range dte.Listing {
		dirIndexByName[e.Entry.Name] = e.DirIndex
		lenByName[e.Entry.Name] = e.Entry.Len
	}

	for _, entry := range listing {
		childPath := joinPath(dte.Dir.String(), entry.Name)

		if entry.IsDir {
			dirSectors[dirIndexByName[entry.Name]] = entry.Sector
			continue
		}

		size, err := backend.CopyFileIn(pathutil.RefFromString(childPath), image, 0, uint64(entry.Sector)*layout.SectorSize, lenByName[entry.Name])
		if err != nil {
			return fmt.Errorf("writer: copying %q: %w", childPath, err)
		}
		if err := padTail(image, uint64(entry.Sector)*layout.SectorSize, size); err != nil {
			return fmt.Errorf("writer: padding %q: %w", childPath, err)
		}
		opts.emit(Event{Kind: FileAdded, Path: childPath, Sector: entry.Sector})
	}
	return nil
}

// writeSectorAligned writes buf at offset, then 0xFF-pads the remainder of
// its final sector.
func writeSectorAligned(w blockdev.Writer, offset uint64, buf []byte) error {
	if err := w.Write(offset, buf); err != nil {
		return err
	}
	return padTail(w, offset, uint64(len(buf)))
}

// padTail writes 0xFF from offset+writtenLen up to the next 2048-byte
// boundary, if writtenLen doesn't already land on one.
func padTail(w blockdev.Writer, offset, writtenLen uint64) error {
	rem := writtenLen % layout.SectorSize
	if rem == 0 {
		return nil
	}
	padLen := layout.SectorSize - rem
	pad := make([]byte, padLen)
	for i := range pad {
		pad[i] = 0xFF
	}
	return w.Write(offset+writtenLen, pad)
}

// padToSectorMultiple pads the image to the next multiple of n sectors
// with 0xFF.
func padToSectorMultiple(w blockdev.Writer, n uint64) error {
	length, err := w.Len()
	if err != nil {
		return err
	}
	block := n * layout.SectorSize
	rem := length % block
	if rem == 0 {
		return nil
	}
	padLen := block - rem
	pad := make([]byte, padLen)
	for i := range pad {
		pad[i] = 0xFF
	}
	return w.Write(length, pad)
}

func joinPath(dir, name string) string {
	if dir == "/" || dir == "" {
		return "/" + name
	}
	return dir + "/" + name
}

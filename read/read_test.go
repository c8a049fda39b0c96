package read_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlesthegreat77/goxdvdfs/blockdev"
	"github.com/charlesthegreat77/goxdvdfs/dirtab"
	"github.com/charlesthegreat77/goxdvdfs/layout"
	"github.com/charlesthegreat77/goxdvdfs/read"
	"github.com/charlesthegreat77/goxdvdfs/sector"
)

// buildFixture writes a tiny one-directory XDVDFS image (root containing
// "apple.txt" and "banana.bin") into a MutableByteSlice and returns the
// device along with the decoded volume descriptor.
func buildFixture(t *testing.T) (*blockdev.MutableByteSlice, layout.VolumeDescriptor) {
	t.Helper()

	w := dirtab.NewWriter()
	require.NoError(t, w.AddFile("apple.txt", 5))
	require.NoError(t, w.AddFile("banana.bin", 3))

	alloc := sector.NewAllocator()
	tableSector := alloc.AllocateContiguous(w.DirtabSize())

	bytes, listing, err := w.DiskRepr(alloc)
	require.NoError(t, err)

	dev := blockdev.NewMutableByteSlice()
	require.NoError(t, dev.Write(uint64(tableSector)*layout.SectorSize, bytes))

	contents := map[string][]byte{
		"apple.txt":  []byte("apple"),
		"banana.bin": []byte("ban"),
	}
	for _, entry := range listing {
		data := contents[entry.Name]
		require.NoError(t, dev.Write(uint64(entry.Sector)*layout.SectorSize, data))
	}

	volume := layout.NewVolumeDescriptor(layout.DirectoryEntryTable{
		Region: layout.DiskRegion{Sector: tableSector, Size: w.DirtabSize()},
	})
	require.NoError(t, dev.Write(32*layout.SectorSize, volume.Serialize()))

	return dev, volume
}

func TestReadVolumeRoundTrip(t *testing.T) {
	dev, want := buildFixture(t)

	got, err := read.ReadVolume(dev)
	require.NoError(t, err)
	assert.Equal(t, want.RootTable.Region, got.RootTable.Region)
}

func TestReadVolumeInvalid(t *testing.T) {
	dev := blockdev.NewMutableByteSlice()
	require.NoError(t, dev.Write(0, make([]byte, 64*layout.SectorSize)))

	_, err := read.ReadVolume(dev)
	assert.Error(t, err)
}

func TestFindDirentAndWalkPath(t *testing.T) {
	dev, volume := buildFixture(t)

	dirent, err := read.FindDirent(dev, volume.RootTable, "APPLE.TXT")
	require.NoError(t, err)
	name, err := dirent.NameString()
	require.NoError(t, err)
	assert.Equal(t, "apple.txt", name)

	_, err = read.FindDirent(dev, volume.RootTable, "missing.bin")
	assert.Error(t, err)

	dirent, err = read.WalkPath(dev, volume.RootTable, "/banana.bin")
	require.NoError(t, err)
	name, err = dirent.NameString()
	require.NoError(t, err)
	assert.Equal(t, "banana.bin", name)

	_, err = read.WalkPath(dev, volume.RootTable, "/")
	assert.Error(t, err)
}

func TestWalkDirentTreeAndFileTree(t *testing.T) {
	dev, volume := buildFixture(t)

	dirents, err := read.WalkDirentTree(dev, volume.RootTable)
	require.NoError(t, err)
	assert.Len(t, dirents, 2)

	tree, err := read.FileTree(dev, volume.RootTable)
	require.NoError(t, err)
	require.Len(t, tree, 2)
	for _, e := range tree {
		assert.Equal(t, "", e.ParentPath)
	}
}

func TestDirentScanIter(t *testing.T) {
	dev, volume := buildFixture(t)

	it, err := read.NewDirentScanIter(dev, volume.RootTable)
	require.NoError(t, err)

	names := map[string]bool{}
	for {
		dirent, err := it.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		name, err := dirent.NameString()
		require.NoError(t, err)
		names[name] = true
	}
	assert.Equal(t, map[string]bool{"apple.txt": true, "banana.bin": true}, names)
}

func TestReadDataAllAndOffset(t *testing.T) {
	dev, volume := buildFixture(t)

	dirent, err := read.FindDirent(dev, volume.RootTable, "apple.txt")
	require.NoError(t, err)

	all, err := read.ReadDataAll(dev, dirent.Node.Dirent)
	require.NoError(t, err)
	assert.Equal(t, []byte("apple"), all)

	partial, err := read.ReadDataOffset(dev, dirent.Node.Dirent, 100, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte("ple"), partial)
}

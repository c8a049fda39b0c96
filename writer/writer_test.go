package writer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlesthegreat77/goxdvdfs/blockdev"
	"github.com/charlesthegreat77/goxdvdfs/fsbackend"
	"github.com/charlesthegreat77/goxdvdfs/pathutil"
	"github.com/charlesthegreat77/goxdvdfs/read"
	"github.com/charlesthegreat77/goxdvdfs/writer"
)

func buildSourceImage(t *testing.T) *fsbackend.Memory {
	t.Helper()
	m := fsbackend.NewMemory()
	m.Create(pathutil.RefFromString("/default.xbe"), []byte("xbe-payload"))
	m.Mkdir(pathutil.RefFromString("/media"))
	m.Create(pathutil.RefFromString("/media/movie.bin"), make([]byte, 3000))
	m.Create(pathutil.RefFromString("/readme.txt"), []byte("hello"))
	return m
}

func TestCreateImageRoundTrip(t *testing.T) {
	src := buildSourceImage(t)
	image := blockdev.NewMutableByteSlice()

	var events []writer.Event
	err := writer.CreateImage(src, image, writer.WriteOptions{
		OnEvent: func(e writer.Event) { events = append(events, e) },
	})
	require.NoError(t, err)
	require.NotEmpty(t, events)

	volume, err := read.ReadVolume(image)
	require.NoError(t, err)

	root, err := read.WalkDirentTree(image, volume.RootTable)
	require.NoError(t, err)
	names := map[string]bool{}
	for _, d := range root {
		name, err := d.NameString()
		require.NoError(t, err)
		names[name] = true
	}
	assert.True(t, names["default.xbe"])
	assert.True(t, names["media"])
	assert.True(t, names["readme.txt"])

	readme, err := read.WalkPath(image, volume.RootTable, "/readme.txt")
	require.NoError(t, err)
	data, err := read.ReadDataAll(image, readme.Node.Dirent)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	movie, err := read.WalkPath(image, volume.RootTable, "/media/movie.bin")
	require.NoError(t, err)
	assert.Equal(t, uint32(3000), movie.Node.Dirent.Data.Size)
	movieData, err := read.ReadDataAll(image, movie.Node.Dirent)
	require.NoError(t, err)
	assert.Len(t, movieData, 3000)
}

func TestCreateImagePadsToSectorAlignment(t *testing.T) {
	src := buildSourceImage(t)
	image := blockdev.NewMutableByteSlice()

	require.NoError(t, writer.CreateImage(src, image, writer.WriteOptions{}))

	length, err := image.Len()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), length%(32*2048))
}

func TestCreateImageEmptyDirectory(t *testing.T) {
	m := fsbackend.NewMemory()
	m.Mkdir(pathutil.RefFromString("/empty"))
	image := blockdev.NewMutableByteSlice()

	err := writer.CreateImage(m, image, writer.WriteOptions{})
	require.NoError(t, err)

	volume, err := read.ReadVolume(image)
	require.NoError(t, err)

	dirent, err := read.FindDirent(image, volume.RootTable, "empty")
	require.NoError(t, err)
	assert.True(t, dirent.Node.Dirent.IsDirectory())
	assert.True(t, dirent.Node.Dirent.IsEmptyFile())
}

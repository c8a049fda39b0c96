package fsbackend

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlesthegreat77/goxdvdfs/blockdev"
	"github.com/charlesthegreat77/goxdvdfs/pathutil"
)

func TestMemoryMkdirAndCreate(t *testing.T) {
	m := NewMemory()
	m.Mkdir(pathutil.RefFromString("/a"))
	m.Create(pathutil.RefFromString("/a/hello.txt"), []byte("hi there"))

	entries, err := m.ReadDir(pathutil.RefFromString("/a"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "hello.txt", entries[0].Name)
	assert.Equal(t, File, entries[0].FileType)
	assert.Equal(t, uint64(8), entries[0].Len)
}

func TestMemoryImplicitDirectory(t *testing.T) {
	m := NewMemory()
	m.Create(pathutil.RefFromString("/a/b/c.txt"), []byte("x"))

	entries, err := m.ReadDir(pathutil.RefFromString("/a"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b", entries[0].Name)
	assert.Equal(t, Directory, entries[0].FileType)
}

func TestMemoryCopyFileIn(t *testing.T) {
	m := NewMemory()
	m.Create(pathutil.RefFromString("/file.bin"), []byte("hello world"))

	dest := blockdev.NewMutableByteSlice()
	n, err := m.CopyFileIn(pathutil.RefFromString("/file.bin"), dest, 6, 0, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), n)

	buf := make([]byte, 5)
	require.NoError(t, dest.Read(0, buf))
	assert.Equal(t, "world", string(buf))
}

func TestHostReadDirAndCopy(t *testing.T) {
	aferoFS := afero.NewMemMapFs()
	require.NoError(t, aferoFS.MkdirAll("/root/sub", 0o755))
	require.NoError(t, afero.WriteFile(aferoFS, "/root/sub/a.txt", []byte("contents"), 0o644))

	h := NewHost(aferoFS, "/root")

	entries, err := h.ReadDir(pathutil.RefFromString("/sub"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.txt", entries[0].Name)

	dest := blockdev.NewMutableByteSlice()
	n, err := h.CopyFileIn(pathutil.RefFromString("/sub/a.txt"), dest, 0, 0, 8)
	require.NoError(t, err)
	assert.Equal(t, uint64(8), n)

	buf := make([]byte, 8)
	require.NoError(t, dest.Read(0, buf))
	assert.Equal(t, "contents", string(buf))
}

func TestDirTreeBreadthFirst(t *testing.T) {
	m := NewMemory()
	m.Create(pathutil.RefFromString("/a/x.txt"), []byte("1"))
	m.Create(pathutil.RefFromString("/b.txt"), []byte("22"))

	var counts []int
	tree, err := DirTree(m, func(n int) { counts = append(counts, n) })
	require.NoError(t, err)

	require.Len(t, tree, 2) // root, then "/a"
	assert.True(t, tree[0].Dir.IsRoot())
	assert.Equal(t, "a", tree[1].Dir.Components()[0])
	assert.NotEmpty(t, counts)
}

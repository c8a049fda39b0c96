package fsbackend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlesthegreat77/goxdvdfs/blockdev"
	"github.com/charlesthegreat77/goxdvdfs/pathutil"
)

func buildSourceTree() *Memory {
	m := NewMemory()
	m.Create(pathutil.RefFromString("/release/default.xbe"), []byte("xbe-bytes"))
	m.Create(pathutil.RefFromString("/release/data/level1.bin"), []byte("level-data"))
	m.Create(pathutil.RefFromString("/readme.txt"), []byte("readme"))
	return m
}

func TestRemapRewritesPrefix(t *testing.T) {
	src := buildSourceTree()
	remap, err := NewRemap(src, RemapOverlayConfig{
		Rules: []RemapRule{
			{From: "release/**", To: "{1}"},
		},
	})
	require.NoError(t, err)

	entries, err := remap.ReadDir(pathutil.RefFromString("/"))
	require.NoError(t, err)

	names := map[string]FileEntry{}
	for _, e := range entries {
		names[e.Name] = e
	}
	assert.Contains(t, names, "default.xbe")
	assert.Contains(t, names, "data")
	assert.NotContains(t, names, "readme.txt")
}

func TestRemapNegationExcludesMatch(t *testing.T) {
	src := buildSourceTree()
	remap, err := NewRemap(src, RemapOverlayConfig{
		Rules: []RemapRule{
			{From: "**", To: "{0}"},
			{From: "!release/data/**", To: ""},
		},
	})
	require.NoError(t, err)

	_, err = remap.CopyFileIn(pathutil.RefFromString("/release/data/level1.bin"), blockdev.NewMutableByteSlice(), 0, 0, 1)
	assert.Error(t, err)

	dest := blockdev.NewMutableByteSlice()
	n, err := remap.CopyFileIn(pathutil.RefFromString("/readme.txt"), dest, 0, 0, 6)
	require.NoError(t, err)
	assert.Equal(t, uint64(6), n)
}

func TestRemapTreeWildcardMatchesZeroIntermediateDirectories(t *testing.T) {
	src := NewMemory()
	src.Create(pathutil.RefFromString("/bin/a.bin"), []byte("a"))
	src.Create(pathutil.RefFromString("/bin/b.bin"), []byte("b"))

	remap, err := NewRemap(src, RemapOverlayConfig{
		Rules: []RemapRule{
			{From: "bin/**/*.bin", To: "/{1}"},
		},
	})
	require.NoError(t, err)

	entries, err := remap.ReadDir(pathutil.RefFromString("/"))
	require.NoError(t, err)

	names := map[string]FileEntry{}
	for _, e := range entries {
		names[e.Name] = e
	}
	assert.Contains(t, names, "a.bin")
	assert.Contains(t, names, "b.bin")
}

func TestRemapExpandCapturesMultipleGroups(t *testing.T) {
	src := NewMemory()
	src.Create(pathutil.RefFromString("/dir/sub/file.ext"), []byte("contents"))

	remap, err := NewRemap(src, RemapOverlayConfig{
		Rules: []RemapRule{
			{From: "dir/*/file.*", To: "/{1}/out.{2}"},
		},
	})
	require.NoError(t, err)

	dest := blockdev.NewMutableByteSlice()
	n, err := remap.CopyFileIn(pathutil.RefFromString("/sub/out.ext"), dest, 0, 0, 8)
	require.NoError(t, err)
	assert.Equal(t, uint64(8), n)

	buf := make([]byte, 8)
	require.NoError(t, dest.Read(0, buf))
	assert.Equal(t, "contents", string(buf))
}

func TestRemapCopyFileInResolvesHostPath(t *testing.T) {
	src := buildSourceTree()
	remap, err := NewRemap(src, RemapOverlayConfig{
		Rules: []RemapRule{
			{From: "release/default.xbe", To: "boot.xbe"},
		},
	})
	require.NoError(t, err)

	dest := blockdev.NewMutableByteSlice()
	n, err := remap.CopyFileIn(pathutil.RefFromString("/boot.xbe"), dest, 0, 0, 9)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), n)

	buf := make([]byte, 9)
	require.NoError(t, dest.Read(0, buf))
	assert.Equal(t, "xbe-bytes", string(buf))
}

package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathVecFromString(t *testing.T) {
	p := FromString("/hello/world")
	assert.Equal(t, []string{"hello", "world"}, p.Components())
}

func TestPathVecFromStringTrailingSlash(t *testing.T) {
	p := FromString("/hello/world/")
	assert.Equal(t, []string{"hello", "world"}, p.Components())
}

func TestPathVecIsRoot(t *testing.T) {
	assert.True(t, Root().IsRoot())
	assert.False(t, FromBase(Root(), "nonroot").IsRoot())
}

func TestPathVecBaseRoot(t *testing.T) {
	_, ok := Root().Base()
	assert.False(t, ok)
}

func TestPathVecBaseNonRoot(t *testing.T) {
	p := FromBase(Root(), "nonroot")
	base, ok := p.Base()
	require.True(t, ok)
	assert.True(t, base.IsRoot())
}

func TestPathVecSuffix(t *testing.T) {
	prefix := FromBase(Root(), "foo")
	path := FromBase(FromBase(prefix, "bar"), "baz")

	suffix := path.Suffix(prefix)
	assert.Equal(t, []string{"bar", "baz"}, suffix.Components())
}

func TestPathVecString(t *testing.T) {
	path := FromBase(FromBase(Root(), "hello"), "world")
	assert.Equal(t, "/hello/world", path.String())
	assert.Equal(t, "/", Root().String())
}

func TestPathRefFromVariants(t *testing.T) {
	fromStr := RefFromString("/hello/world")
	fromSlice := RefFromSlice([]string{"hello", "world"})
	fromVec := RefFromPathVec(FromString("hello/world"))

	assert.True(t, fromStr.Equal(fromSlice))
	assert.True(t, fromSlice.Equal(fromVec))
}

func TestPathPrefixTreeInsertGet(t *testing.T) {
	ppt := NewPathPrefixTree[int]()
	tail := ppt.InsertTail("azbxcy", 12345)

	assert.False(t, tail.hasValue)

	v, ok := ppt.Get(RefFromString("azbxcy"))
	require.True(t, ok)
	assert.Equal(t, 12345, v)
}

func TestPathPrefixTreeLookupNode(t *testing.T) {
	ppt := NewPathPrefixTree[int]()
	ppt.InsertTail("foo", 12345).InsertTail("bar", 67890)

	node := ppt.LookupNode(RefFromString("foo/bar"))
	require.NotNil(t, node)
	assert.Equal(t, 67890, node.value)
}

func TestPathPrefixTreeLookupNodeNoEntry(t *testing.T) {
	ppt := NewPathPrefixTree[int]()
	ppt.InsertTail("foo", 12345).InsertTail("bar", 67890)

	assert.Nil(t, ppt.LookupNode(RefFromString("foo/baz")))
}

func TestPathPrefixTreeLookupNodeNoSubtree(t *testing.T) {
	ppt := NewPathPrefixTree[int]()
	ppt.InsertTail("foo", 12345)

	// "fo" is a strict prefix of "foo" with no record of its own, so there
	// is no subtree to descend into for the second component.
	assert.Nil(t, ppt.LookupNode(RefFromString("fo/bar")))
}

func TestPathPrefixTreeInsertTailReplacesValue(t *testing.T) {
	ppt := NewPathPrefixTree[int]()
	ppt.InsertTail("foo", 12345)
	ppt.InsertTail("foo", 67890)

	v, ok := ppt.Get(RefFromString("foo"))
	require.True(t, ok)
	assert.Equal(t, 67890, v)
}

func TestPathPrefixTreeInsertPath(t *testing.T) {
	ppt := NewPathPrefixTree[int]()
	ppt.InsertPath(RefFromString("/a/b/c"), 1234)
	ppt.InsertPath(RefFromString("/a/b"), 6789)

	v, ok := ppt.Get(RefFromString("/a/b"))
	require.True(t, ok)
	assert.Equal(t, 6789, v)

	v, ok = ppt.Get(RefFromString("/a/b/c"))
	require.True(t, ok)
	assert.Equal(t, 1234, v)
}

func TestPathPrefixTreeLookupSubdir(t *testing.T) {
	ppt := NewPathPrefixTree[int]()
	ppt.InsertTail("foo", 1).InsertTail("bar", 2).InsertTail("baz", 3)

	subtree := ppt.LookupSubdir(RefFromString("foo/bar"))
	require.NotNil(t, subtree)

	v, ok := subtree.Get(RefFromString("baz"))
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestPathPrefixTreeLookupSubdirNoSubtree(t *testing.T) {
	ppt := NewPathPrefixTree[int]()
	ppt.InsertTail("foo", 1).InsertTail("bar", 2)

	// "ba" has no record, so no subtree exists to continue into "baz".
	assert.Nil(t, ppt.LookupSubdir(RefFromString("foo/ba/baz")))
}

func TestPathPrefixTreeSubstringPath(t *testing.T) {
	ppt := NewPathPrefixTree[int]()
	ppt.InsertTail("abcdef", 12345)
	ppt.InsertTail("abc", 67890)

	v, ok := ppt.Get(RefFromString("abc"))
	require.True(t, ok)
	assert.Equal(t, 67890, v)

	v, ok = ppt.Get(RefFromString("abcdef"))
	require.True(t, ok)
	assert.Equal(t, 12345, v)
}

func TestPathPrefixTreeIter(t *testing.T) {
	ppt := NewPathPrefixTree[int]()
	ppt.InsertTail("abc", 1).InsertTail("tail", 2)
	ppt.InsertTail("hjk", 3).InsertTail("tail", 4)
	ppt.InsertTail("xyz", 5).InsertTail("tail", 6)

	entries := ppt.Iter()
	got := map[string]int{}
	for _, e := range entries {
		got[e.Path] = e.Value
	}
	assert.Equal(t, map[string]int{"abc": 1, "hjk": 3, "xyz": 5}, got)
}

func TestPathPrefixTreeIterNonASCIIComponent(t *testing.T) {
	// A Windows-1252 name byte in 0x80-0xFF (e.g. 0xE9, "e" with an acute
	// accent) must come back out of Iter as that same raw byte, not
	// re-encoded as a multi-byte UTF-8 sequence.
	name := string([]byte{0xE9, 'x', 'e'})
	ppt := NewPathPrefixTree[int]()
	ppt.InsertTail(name, 1)

	entries := ppt.Iter()
	require.Len(t, entries, 1)
	assert.Equal(t, name, entries[0].Path)
	assert.Equal(t, []byte{0xE9, 'x', 'e'}, []byte(entries[0].Path))
}

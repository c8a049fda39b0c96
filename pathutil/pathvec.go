// Package pathutil provides path representations used while building an
// image: an owned, ordered list of path components (PathVec), a borrowed
// reference accepting several caller-side shapes (PathRef), and a
// prefix tree keyed by path component bytes (PathPrefixTree) used to cache
// dirent lookups and to back the in-memory filesystem source.
package pathutil

import (
	"strings"
)

// PathVec is an owned, ordered list of path components, always relative to
// some root. An empty PathVec denotes the root itself.
type PathVec struct {
	components []string
}

// Root returns the empty (root) path.
func Root() PathVec {
	return PathVec{}
}

// FromSlice builds a PathVec from already-split, non-empty components.
func FromSlice(components []string) PathVec {
	out := make([]string, 0, len(components))
	for _, c := range components {
		if c != "" {
			out = append(out, c)
		}
	}
	return PathVec{components: out}
}

// FromString splits a '/'-separated path, dropping empty components (so
// both "/a/b" and "a/b/" parse the same as "a/b").
func FromString(s string) PathVec {
	parts := strings.Split(s, "/")
	return FromSlice(parts)
}

// FromBase appends a single component to prefix, returning a new PathVec.
// prefix is not mutated.
func FromBase(prefix PathVec, suffix string) PathVec {
	components := make([]string, len(prefix.components), len(prefix.components)+1)
	copy(components, prefix.components)
	components = append(components, suffix)
	return PathVec{components: components}
}

// IsRoot reports whether this path has no components.
func (p PathVec) IsRoot() bool {
	return len(p.components) == 0
}

// Components returns the path's components. The caller must not mutate the
// returned slice.
func (p PathVec) Components() []string {
	return p.components
}

// Base returns the path with its last component removed, and false if p is
// already the root.
func (p PathVec) Base() (PathVec, bool) {
	if p.IsRoot() {
		return PathVec{}, false
	}
	out := make([]string, len(p.components)-1)
	copy(out, p.components[:len(p.components)-1])
	return PathVec{components: out}, true
}

// Suffix returns the components of p that come after the shared prefix.
// It panics if prefix's components are not a literal prefix of p's
// components, mirroring the reference implementation's assertion.
func (p PathVec) Suffix(prefix PathVec) PathVec {
	if len(prefix.components) > len(p.components) {
		panic("pathutil: prefix longer than path")
	}
	for i, c := range prefix.components {
		if p.components[i] != c {
			panic("pathutil: prefix does not match path")
		}
	}
	out := make([]string, len(p.components)-len(prefix.components))
	copy(out, p.components[len(prefix.components):])
	return PathVec{components: out}
}

// String renders the path '/'-prefixed, or just "/" at the root.
func (p PathVec) String() string {
	if p.IsRoot() {
		return "/"
	}
	var b strings.Builder
	for _, c := range p.components {
		b.WriteByte('/')
		b.WriteString(c)
	}
	return b.String()
}

// AsRef returns a PathRef borrowing this PathVec's components.
func (p PathVec) AsRef() PathRef {
	return PathRef{components: p.components}
}

// Equal reports whether two paths have identical components.
func (p PathVec) Equal(other PathVec) bool {
	if len(p.components) != len(other.components) {
		return false
	}
	for i := range p.components {
		if p.components[i] != other.components[i] {
			return false
		}
	}
	return true
}

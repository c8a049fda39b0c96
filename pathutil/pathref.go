package pathutil

// PathRef is a borrowed view over a path, accepting several caller-side
// representations without forcing an allocation up front. Where the
// reference implementation needs an enum of borrow variants to satisfy a
// borrow checker, Go's garbage collector makes a single []string
// representation sufficient; PathRef exists mainly to give callers the
// same three ergonomic constructors (from a "/"-separated string, from a
// component slice, or from a PathVec).
type PathRef struct {
	components []string
}

// RefFromString builds a PathRef by splitting a '/'-separated path,
// dropping empty components.
func RefFromString(s string) PathRef {
	return PathRef{components: FromString(s).components}
}

// RefFromSlice builds a PathRef from already-split components.
func RefFromSlice(components []string) PathRef {
	return PathRef{components: FromSlice(components).components}
}

// RefFromPathVec borrows a PathVec's components.
func RefFromPathVec(p PathVec) PathRef {
	return PathRef{components: p.components}
}

// IsRoot reports whether this reference has no components.
func (r PathRef) IsRoot() bool {
	return len(r.components) == 0
}

// Components returns the referenced components. The caller must not mutate
// the returned slice.
func (r PathRef) Components() []string {
	return r.components
}

// ToPathVec copies this reference into an owned PathVec.
func (r PathRef) ToPathVec() PathVec {
	return FromSlice(r.components)
}

// String renders the path '/'-prefixed, or just "/" at the root.
func (r PathRef) String() string {
	return r.ToPathVec().String()
}

// Equal reports whether two references have the same component sequence.
func (r PathRef) Equal(other PathRef) bool {
	if len(r.components) != len(other.components) {
		return false
	}
	for i := range r.components {
		if r.components[i] != other.components[i] {
			return false
		}
	}
	return true
}

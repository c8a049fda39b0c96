package blockdev

// NullDevice is a Writer that discards all written bytes, recording only
// the high-water offset reached. Packing against a NullDevice answers "how
// big would this image be?" without allocating the image itself.
type NullDevice struct {
	highWater uint64
}

// Write records the high-water mark implied by offset+len(buf) and
// discards buf.
func (n *NullDevice) Write(offset uint64, buf []byte) error {
	end := offset + uint64(len(buf))
	if end > n.highWater {
		n.highWater = end
	}
	return nil
}

// Len reports the high-water mark recorded so far.
func (n *NullDevice) Len() (uint64, error) {
	return n.highWater, nil
}

// RecordSize advances the high-water mark as if size bytes had been
// written at offset, without allocating a buffer of that size. Used by
// NullCopier to keep size-only dry runs cheap even for large files.
func (n *NullDevice) RecordSize(offset, size uint64) {
	end := offset + size
	if end > n.highWater {
		n.highWater = end
	}
}

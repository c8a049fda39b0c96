package layout

import "strings"

// DirentAttributes is the single-byte attribute bitfield carried by every
// on-disc dirent.
type DirentAttributes uint8

const (
	AttrReadOnly DirentAttributes = 1 << 0
	AttrHidden   DirentAttributes = 1 << 1
	AttrSystem   DirentAttributes = 1 << 2
	AttrDirectory DirentAttributes = 1 << 4
	AttrArchive  DirentAttributes = 1 << 5
	AttrNormal   DirentAttributes = 1 << 7
)

// IsDirectory reports whether the directory bit is set.
func (a DirentAttributes) IsDirectory() bool {
	return a&AttrDirectory != 0
}

// With returns a copy of a with the given flag set or cleared.
func (a DirentAttributes) With(flag DirentAttributes, set bool) DirentAttributes {
	if set {
		return a | flag
	}
	return a &^ flag
}

// String renders the set flags in a fixed, human-readable order, matching
// the ordering used by the reference implementation's Display impl.
func (a DirentAttributes) String() string {
	var names []string
	if a.IsDirectory() {
		names = append(names, "Directory")
	}
	if a&AttrReadOnly != 0 {
		names = append(names, "Read-Only")
	}
	if a&AttrHidden != 0 {
		names = append(names, "Hidden")
	}
	if a&AttrSystem != 0 {
		names = append(names, "System")
	}
	if a&AttrArchive != 0 {
		names = append(names, "Archive")
	}
	if a&AttrNormal != 0 {
		names = append(names, "Normal")
	}
	return strings.Join(names, " ")
}

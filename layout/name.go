package layout

import (
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"

	"github.com/charlesthegreat77/goxdvdfs/xerr"
)

// CompareNameFold compares two strings the way dirtab ordering requires:
// each rune is upper-cased before comparison, and a strict prefix sorts
// less than its extension. Underscore sorts after letters by virtue of its
// code point (0x5F), which is intentional and preserved here rather than
// special-cased away.
func CompareNameFold(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	n := len(ra)
	if len(rb) < n {
		n = len(rb)
	}
	for i := 0; i < n; i++ {
		ca := unicode.ToUpper(ra[i])
		cb := unicode.ToUpper(rb[i])
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(ra) < len(rb):
		return -1
	case len(ra) > len(rb):
		return 1
	default:
		return 0
	}
}

var win1252Encoder = charmap.Windows1252.NewEncoder()
var win1252Decoder = charmap.Windows1252.NewDecoder()

func decodeWindows1252(b []byte) (string, error) {
	out, err := win1252Decoder.Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// DirentName is the write-side representation of a dirent's name: the
// original UTF-8 string, an upper-cased copy used for ordering before
// encoding happens, and (after Encode is called) the Windows-1252 encoded
// bytes used for on-disc serialization.
//
// Ordering uses the upper-cased copy when both sides of a comparison have
// one, falling back to CompareNameFold on the raw strings otherwise, so a
// tree under construction compares consistently regardless of whether any
// given node has been encoded yet.
type DirentName struct {
	name     string
	upper    string
	hasUpper bool
	encoded  []byte
}

// NewDirentName constructs a DirentName from a source string, eagerly
// computing the upper-cased comparison key. The 255-byte length limit
// applies to the Windows-1252 encoded form, not the source string, so it
// is only checked in Encode.
func NewDirentName(name string) (DirentName, error) {
	return DirentName{
		name:     name,
		upper:    strings.ToUpper(name),
		hasUpper: true,
	}, nil
}

// Name returns the original, unencoded name.
func (d DirentName) Name() string {
	return d.name
}

// Encode performs the one-shot Windows-1252 encoding step, returning the
// encoded filename length. Fails with ErrNameTooLong if the encoded form
// exceeds 255 bytes, or ErrNameEncoding if any code point is unmappable.
func (d *DirentName) Encode() (uint8, error) {
	enc, err := win1252Encoder.Bytes([]byte(d.name))
	if err != nil {
		return 0, xerr.ErrNameEncoding
	}
	if len(enc) > 255 {
		return 0, xerr.ErrNameTooLong
	}
	d.encoded = enc
	return uint8(len(enc)), nil
}

// EncodedName returns the Windows-1252 encoded bytes computed by Encode.
// Panics if Encode has not been called; callers always encode before
// serializing, so this indicates a programming error, not caller input.
func (d DirentName) EncodedName() []byte {
	if d.encoded == nil && d.name != "" {
		panic("xdvdfs: DirentName.EncodedName called before Encode")
	}
	return d.encoded
}

// LenOnDisk returns the length, in bytes, of this entry once serialized:
// the fixed 14-byte node plus the encoded name, rounded up to a 4-byte
// boundary. Encode must have been called first.
func (d DirentName) LenOnDisk() uint32 {
	size := uint32(direntNodeSize) + uint32(len(d.encoded))
	return (size + 3) &^ 3
}

// Less reports whether d sorts before other.
func (d DirentName) Less(other DirentName) bool {
	if d.hasUpper && other.hasUpper {
		return d.upper < other.upper
	}
	return CompareNameFold(d.name, other.name) < 0
}

// Equal reports whether d and other compare equal under the same ordering
// Less uses (neither less than the other).
func (d DirentName) Equal(other DirentName) bool {
	return !d.Less(other) && !other.Less(d)
}

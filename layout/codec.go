package layout

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unicode/utf16"

	"golang.org/x/text/encoding/unicode"
)

// bom is the UTF-16LE byte order mark.
var bom = []byte{0xff, 0xfe}

// Text is the decoded content of a UTF-16LE member. BOM records whether
// the member started with a byte order mark so it can be written back the
// same way.
type Text struct {
	Content string
	BOM     bool
}

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// Decode interprets b as UTF-16LE, consuming a leading byte order mark.
func Decode(b []byte) (Text, error) {
	if len(b)%2 != 0 {
		return Text{}, fmt.Errorf("%w: odd byte length %d", ErrEncoding, len(b))
	}
	var t Text
	base := 0
	if bytes.HasPrefix(b, bom) {
		t.BOM = true
		b = b[len(bom):]
		base = len(bom)
	}
	if err := checkSurrogates(b, base); err != nil {
		return Text{}, err
	}
	out, err := utf16le.NewDecoder().Bytes(b)
	if err != nil {
		return Text{}, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	t.Content = string(out)
	return t, nil
}

// checkSurrogates rejects code units the decoder would otherwise replace
// with U+FFFD. Reported offsets are shifted by base.
func checkSurrogates(b []byte, base int) error {
	for i := 0; i+1 < len(b); i += 2 {
		u := rune(binary.LittleEndian.Uint16(b[i:]))
		if !utf16.IsSurrogate(u) {
			continue
		}
		if u < 0xdc00 && i+3 < len(b) {
			next := rune(binary.LittleEndian.Uint16(b[i+2:]))
			if next >= 0xdc00 && next <= 0xdfff {
				i += 2
				continue
			}
		}
		return fmt.Errorf("%w: unpaired surrogate at offset %d", ErrEncoding, base+i)
	}
	return nil
}

// Encode writes t as UTF-16LE. A byte order mark is emitted only when t
// carries one.
func Encode(t Text) ([]byte, error) {
	out, err := utf16le.NewEncoder().Bytes([]byte(t.Content))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	if !t.BOM {
		return out, nil
	}
	return append(bytes.Clone(bom), out...), nil
}

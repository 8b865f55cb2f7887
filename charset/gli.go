// Package charset maps PDF417 Global Label Identifier character sets to
// concrete encodings and converts decoded payloads to UTF-8 text.
package charset

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// Default is the character set assumed when a symbol carries no GLI
// character set selection.
const Default = "ISO-8859-1"

// ErrUnknownCharset is returned for a character set name no encoder exists for.
var ErrUnknownCharset = errors.New("charset: unknown character set")

// isoParts lists the ISO-8859 parts a GLI character set number may select.
var isoParts = map[int]*charmap.Charmap{
	1:  charmap.ISO8859_1,
	2:  charmap.ISO8859_2,
	3:  charmap.ISO8859_3,
	4:  charmap.ISO8859_4,
	5:  charmap.ISO8859_5,
	6:  charmap.ISO8859_6,
	7:  charmap.ISO8859_7,
	8:  charmap.ISO8859_8,
	9:  charmap.ISO8859_9,
	13: charmap.ISO8859_13,
	15: charmap.ISO8859_15,
}

// GLIPart returns the ISO-8859 part selected by a GLI character set number.
// The part is the number minus two; anything outside 1..9, 13 and 15 falls
// back to part 1.
func GLIPart(gli int) int {
	part := gli - 2
	if _, ok := isoParts[part]; !ok {
		return 1
	}
	return part
}

// GLIName returns the "ISO-8859-<part>" name for a GLI character set number.
func GLIName(gli int) string {
	return fmt.Sprintf("ISO-8859-%d", GLIPart(gli))
}

// Lookup resolves a character set name to an encoding. ISO-8859 names are
// resolved from the GLI table first, everything else through the IANA index.
func Lookup(name string) (encoding.Encoding, error) {
	if name == "" {
		name = Default
	}
	var part int
	if _, err := fmt.Sscanf(strings.ToUpper(name), "ISO-8859-%d", &part); err == nil {
		if cm, ok := isoParts[part]; ok {
			return cm, nil
		}
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCharset, name)
	}
	return enc, nil
}

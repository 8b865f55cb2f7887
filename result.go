// Package pdf417go decodes PDF417 stacked barcodes from raster images.
//
// The pipeline binarizes the image, locates start and stop border patterns,
// reads the row indicators, solves a perspective transform for each symbol,
// samples its codewords, repairs them with Reed-Solomon correction and
// demultiplexes the result into a byte payload. See package pdf417 for the
// Reader.
package pdf417go

import (
	"math"

	"github.com/ericlevine/pdf417go/charset"
)

// Orientation records which pass of the locator found a symbol.
type Orientation int

const (
	// OrientationNormal is the image as supplied.
	OrientationNormal Orientation = iota
	// OrientationRotated is the image turned by 180 degrees.
	OrientationRotated
)

// String returns the name of the orientation.
func (o Orientation) String() string {
	switch o {
	case OrientationNormal:
		return "normal"
	case OrientationRotated:
		return "rotated"
	default:
		return "unknown"
	}
}

// ResultPoint represents a point of interest in an image.
type ResultPoint struct {
	X, Y float64
}

// Distance returns the distance between two points.
func Distance(a, b ResultPoint) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Result is one decoded PDF417 symbol.
type Result struct {
	// Payload is the decoded byte stream.
	Payload []byte

	// CharacterSet is the "ISO-8859-<n>" name selected by a GLI character set
	// command, or empty when the symbol carried none.
	CharacterSet string

	// GLICharacterSet is the raw GLI character set number (zero if absent).
	GLICharacterSet int

	// GLIGeneralPurpose is the GLI general purpose number (zero if absent).
	GLIGeneralPurpose int

	// GLIUserDefined is the GLI user defined number (zero if absent).
	GLIUserDefined int

	Columns  int
	Rows     int
	ECLength int

	// ErrorsCorrected counts the codewords repaired by Reed-Solomon
	// correction. Erasures are included.
	ErrorsCorrected int

	// Corners are the top-left, top-right, bottom-left and bottom-right
	// corners of the data area in the coordinates of the oriented image.
	Corners [4]ResultPoint

	Orientation Orientation
}

// Text converts the payload to UTF-8 using the symbol's own character set,
// ISO-8859-1 when it has none.
func (r *Result) Text() (string, error) {
	return BinaryDataToString(r.Payload, r.CharacterSet)
}

// BinaryDataToString converts payload bytes in the named character set to a
// UTF-8 string. An empty name selects ISO-8859-1.
func BinaryDataToString(data []byte, characterSet string) (string, error) {
	return charset.BinaryDataToString(data, characterSet)
}

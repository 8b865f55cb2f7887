// Package internal provides the result type shared by the PDF417 decoder and
// the reader.
package internal

// ResultPoint is a point in image coordinates.
type ResultPoint struct {
	X, Y float64
}

// DecoderResult is the outcome of decoding one located symbol, before the
// reader turns it into a public result.
type DecoderResult struct {
	Payload []byte

	// CharacterSet is empty unless a GLI character set command was present.
	CharacterSet      string
	GLICharacterSet   int
	GLIGeneralPurpose int
	GLIUserDefined    int

	Columns  int
	Rows     int
	ECLength int

	ErrorsCorrected int
	Erasures        int

	// Corners holds the top-left, top-right, bottom-left and bottom-right
	// indicator corners.
	Corners [4]ResultPoint
}

// NewDecoderResult creates a DecoderResult for a payload.
func NewDecoderResult(payload []byte) *DecoderResult {
	if payload == nil {
		payload = []byte{}
	}
	return &DecoderResult{Payload: payload}
}

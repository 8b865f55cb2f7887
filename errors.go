package pdf417go

import "errors"

var (
	// ErrNotFound is returned when no PDF417 symbol can be located, including
	// when the image has too little contrast to binarize.
	ErrNotFound = errors.New("barcode not found")

	// ErrChecksum is returned when Reed-Solomon correction cannot repair the
	// codeword stream.
	ErrChecksum = errors.New("checksum error")

	// ErrFormat is returned when the image layout is unsupported or the
	// corrected codeword stream violates the PDF417 grammar.
	ErrFormat = errors.New("format error")
)

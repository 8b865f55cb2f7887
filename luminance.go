package pdf417go

import "github.com/ericlevine/pdf417go/bitutil"

// LuminanceSource provides access to greyscale luminance values for an image.
type LuminanceSource interface {
	// Row returns a row of luminance data. If row is non-nil and large enough,
	// it should be reused.
	Row(y int, row []byte) []byte

	// Matrix returns the entire luminance matrix.
	Matrix() []byte

	// Width returns the width of the image.
	Width() int

	// Height returns the height of the image.
	Height() int
}

// Binarizer converts luminance data to 1-bit black/white data.
type Binarizer interface {
	// BlackMatrix returns the 2D matrix of black/white values.
	BlackMatrix() (*bitutil.BitMatrix, error)

	// LuminanceSource returns the underlying LuminanceSource.
	LuminanceSource() LuminanceSource
}

// RasterLuminanceSource holds the grey levels of a Raster.
type RasterLuminanceSource struct {
	luminances []byte
	width      int
	height     int
}

// NewRasterLuminanceSource converts an RGB raster to grey levels using
// (30*R + 59*G + 11*B) / 100.
func NewRasterLuminanceSource(r *Raster) (*RasterLuminanceSource, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	luminances := make([]byte, r.Width*r.Height)
	for y := 0; y < r.Height; y++ {
		row := r.Pix[y*r.Stride:]
		out := luminances[y*r.Width:]
		for x := 0; x < r.Width; x++ {
			red, green, blue := int(row[3*x]), int(row[3*x+1]), int(row[3*x+2])
			out[x] = byte((30*red + 59*green + 11*blue) / 100)
		}
	}
	return &RasterLuminanceSource{luminances: luminances, width: r.Width, height: r.Height}, nil
}

// Row returns a row of luminance data.
func (s *RasterLuminanceSource) Row(y int, row []byte) []byte {
	if y < 0 || y >= s.height {
		return nil
	}
	if row == nil || len(row) < s.width {
		row = make([]byte, s.width)
	}
	offset := y * s.width
	copy(row, s.luminances[offset:offset+s.width])
	return row
}

// Matrix returns the entire luminance matrix.
func (s *RasterLuminanceSource) Matrix() []byte {
	result := make([]byte, len(s.luminances))
	copy(result, s.luminances)
	return result
}

// Width returns the width of the image.
func (s *RasterLuminanceSource) Width() int {
	return s.width
}

// Height returns the height of the image.
func (s *RasterLuminanceSource) Height() int {
	return s.height
}

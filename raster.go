package pdf417go

import (
	"fmt"
	"image"
)

// Raster is a 24-bit RGB pixel buffer, three bytes per pixel in R, G, B
// order, rows Stride bytes apart, top row first.
type Raster struct {
	Width  int
	Height int
	Stride int
	Pix    []byte
}

// NewRaster wraps an existing RGB buffer after checking its layout.
func NewRaster(width, height, stride int, pix []byte) (*Raster, error) {
	r := &Raster{Width: width, Height: height, Stride: stride, Pix: pix}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate reports whether the raster layout can be read. Bottom-up buffers
// (negative stride) are rejected.
func (r *Raster) Validate() error {
	switch {
	case r.Width < 1 || r.Height < 1:
		return fmt.Errorf("%w: raster size %dx%d", ErrFormat, r.Width, r.Height)
	case r.Stride < 0:
		return fmt.Errorf("%w: unsupported layout, negative stride %d", ErrFormat, r.Stride)
	case r.Stride < 3*r.Width:
		return fmt.Errorf("%w: stride %d shorter than row of %d pixels", ErrFormat, r.Stride, r.Width)
	case len(r.Pix) < r.Stride*(r.Height-1)+3*r.Width:
		return fmt.Errorf("%w: pixel buffer holds %d bytes, need %d", ErrFormat,
			len(r.Pix), r.Stride*(r.Height-1)+3*r.Width)
	}
	return nil
}

// NewRasterFromImage copies any image.Image into an RGB raster. Fully
// transparent pixels become white.
func NewRasterFromImage(img image.Image) *Raster {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	r := &Raster{Width: w, Height: h, Stride: 3 * w, Pix: make([]byte, 3*w*h)}

	for y := 0; y < h; y++ {
		row := r.Pix[y*r.Stride:]
		for x := 0; x < w; x++ {
			cr, cg, cb, ca := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			if ca == 0 {
				row[3*x], row[3*x+1], row[3*x+2] = 0xFF, 0xFF, 0xFF
				continue
			}
			row[3*x] = byte(cr >> 8)
			row[3*x+1] = byte(cg >> 8)
			row[3*x+2] = byte(cb >> 8)
		}
	}
	return r
}

// Package testutil renders synthetic PDF417 symbols for tests. The renderer
// shares the bar/space table with the decoder but computes error correction
// on its own.
package testutil

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/ericlevine/pdf417go/bitutil"
	"github.com/ericlevine/pdf417go/internal/patterns"
)

const (
	modulus = 929
	padding = 900
)

// Layout describes the geometry of a rendered symbol.
type Layout struct {
	Columns int
	Rows    int
	ECLevel int

	ModuleWidth int
	RowHeight   int
	QuietZone   int
}

// DefaultLayout is a clean symbol with 3-pixel modules and 10-pixel rows.
func DefaultLayout(columns, rows, ecLevel int) Layout {
	return Layout{
		Columns:     columns,
		Rows:        rows,
		ECLevel:     ecLevel,
		ModuleWidth: 3,
		RowHeight:   10,
		QuietZone:   24,
	}
}

// ECLength returns the number of error correction codewords of a level.
func ECLength(level int) int {
	return 1 << (level + 1)
}

// ECCodewords computes the error correction codewords for data, highest
// degree first, so that data followed by the result is divisible by
// (x - 3)(x - 3^2)...(x - 3^ecLength) over GF(929).
func ECCodewords(data []int, ecLength int) []int {
	gen := []int{1}
	root := 1
	for i := 0; i < ecLength; i++ {
		root = root * 3 % modulus
		next := make([]int, len(gen)+1)
		for j, c := range gen {
			next[j] = (next[j] + c) % modulus
			next[j+1] = (next[j+1] + modulus - c*root%modulus) % modulus
		}
		gen = next
	}

	rem := make([]int, len(data)+ecLength)
	copy(rem, data)
	for i := 0; i < len(data); i++ {
		coef := rem[i]
		if coef == 0 {
			continue
		}
		for j, g := range gen {
			rem[i+j] = (rem[i+j] + modulus - coef*g%modulus) % modulus
		}
	}
	ec := make([]int, ecLength)
	for i, r := range rem[len(data):] {
		ec[i] = (modulus - r) % modulus
	}
	return ec
}

// BuildCodewords prefixes data with the length descriptor, pads it with 900
// to fill the layout and appends the error correction codewords.
func BuildCodewords(data []int, l Layout) ([]int, error) {
	ecLength := ECLength(l.ECLevel)
	capacity := l.Columns*l.Rows - ecLength
	if len(data)+1 > capacity {
		return nil, fmt.Errorf("testutil: %d data codewords do not fit %dx%d at level %d",
			len(data), l.Columns, l.Rows, l.ECLevel)
	}
	cws := make([]int, 0, l.Columns*l.Rows)
	cws = append(cws, capacity)
	cws = append(cws, data...)
	for len(cws) < capacity {
		cws = append(cws, padding)
	}
	return append(cws, ECCodewords(cws, ecLength)...), nil
}

// leftIndicator returns the left row indicator codeword of row.
func leftIndicator(row int, l Layout) int {
	base := 30 * (row / 3)
	switch row % 3 {
	case 0:
		return base + (l.Rows-1)/3
	case 1:
		return base + 3*l.ECLevel + (l.Rows-1)%3
	default:
		return base + l.Columns - 1
	}
}

// rightIndicator returns the right row indicator codeword of row.
func rightIndicator(row int, l Layout) int {
	base := 30 * (row / 3)
	switch row % 3 {
	case 0:
		return base + l.Columns - 1
	case 1:
		return base + (l.Rows-1)/3
	default:
		return base + 3*l.ECLevel + (l.Rows-1)%3
	}
}

// Size returns the pixel size of a rendered layout.
func (l Layout) Size() (int, int) {
	modules := 2*patterns.Modules + l.Columns*patterns.Modules + patterns.Modules + patterns.StopModules
	return modules*l.ModuleWidth + 2*l.QuietZone, l.Rows*l.RowHeight + 2*l.QuietZone
}

// Render draws codewords, in row-major order, as a PDF417 symbol surrounded
// by a quiet zone.
func Render(codewords []int, l Layout) (*bitutil.BitMatrix, error) {
	if len(codewords) != l.Columns*l.Rows {
		return nil, fmt.Errorf("testutil: %d codewords for a %dx%d layout", len(codewords), l.Columns, l.Rows)
	}
	width, height := l.Size()
	m := bitutil.NewBitMatrix(width, height)
	for row := 0; row < l.Rows; row++ {
		y := l.QuietZone + row*l.RowHeight
		x := l.QuietZone
		cluster := row % 3
		x = drawPattern(m, x, y, patterns.Start, patterns.Modules, l)
		x = drawPattern(m, x, y, patterns.Pattern(cluster, leftIndicator(row, l)), patterns.Modules, l)
		for col := 0; col < l.Columns; col++ {
			cw := codewords[row*l.Columns+col]
			x = drawPattern(m, x, y, patterns.Pattern(cluster, cw), patterns.Modules, l)
		}
		x = drawPattern(m, x, y, patterns.Pattern(cluster, rightIndicator(row, l)), patterns.Modules, l)
		drawPattern(m, x, y, patterns.Stop, patterns.StopModules, l)
	}
	return m, nil
}

func drawPattern(m *bitutil.BitMatrix, x, y int, pattern uint32, modules int, l Layout) int {
	for i := modules - 1; i >= 0; i-- {
		if pattern>>uint(i)&1 != 0 {
			m.SetRegion(x, y, l.ModuleWidth, l.RowHeight)
		}
		x += l.ModuleWidth
	}
	return x
}

// ToImage converts a matrix to a greyscale image, ink black on white.
func ToImage(m *bitutil.BitMatrix) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width(), m.Height()))
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			if m.Get(x, y) {
				img.SetGray(x, y, color.Gray{Y: 0})
			} else {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

// Rotate180 turns an image upside down.
func Rotate180(img image.Image) *image.NRGBA {
	return imaging.Rotate180(img)
}

// Pad centres img on a white canvas margin pixels larger on every side.
func Pad(img image.Image, margin int) *image.NRGBA {
	b := img.Bounds()
	canvas := imaging.New(b.Dx()+2*margin, b.Dy()+2*margin, color.White)
	return imaging.PasteCenter(canvas, img)
}

// Symbol renders data codewords under layout l straight to an image.
func Symbol(data []int, l Layout) (image.Image, []int, error) {
	cws, err := BuildCodewords(data, l)
	if err != nil {
		return nil, nil, err
	}
	m, err := Render(cws, l)
	if err != nil {
		return nil, nil, err
	}
	return ToImage(m), cws, nil
}

package decoder

import (
	"math"

	"github.com/ericlevine/pdf417go/bitutil"
	"github.com/ericlevine/pdf417go/internal/patterns"
)

// invalidSymbol is returned by the symbol readers for any unreadable sample.
const invalidSymbol = -1

type point struct {
	x, y int
}

// symbolReader samples codeword symbols from a bit matrix. The nine
// transition points of the last read are kept in scan; scan[0] is the left
// edge of the symbol.
type symbolReader struct {
	matrix   *bitutil.BitMatrix
	avgWidth float64
	maxError float64
	scan     [9]point
}

func newSymbolReader(matrix *bitutil.BitMatrix, avgWidth, maxError float64) *symbolReader {
	return &symbolReader{matrix: matrix, avgWidth: avgWidth, maxError: maxError}
}

// lineY returns the y coordinate at x of the line through (x0, y0) with
// direction (dx, dy).
func lineY(x0, y0, dx, dy, x int) int {
	return y0 + (x-x0)*dy/dx
}

// readForward reads the symbol whose first bar is at or near (x, y),
// scanning to the right along direction (dx, dy). It returns
// cluster<<10 | codeword or invalidSymbol.
func (r *symbolReader) readForward(x, y, dx, dy int) int {
	if dx <= 0 {
		return invalidSymbol
	}
	x, y, ok := r.whiteToBlack(x, y, dx, dy)
	if !ok {
		return invalidSymbol
	}
	r.scan[0] = point{x, y}
	ink := true
	for t, cx := 1, x+1; t < 9; cx++ {
		cy := lineY(x, y, dx, dy, cx)
		if !r.matrix.Contains(cx, cy) {
			return invalidSymbol
		}
		if r.matrix.Get(cx, cy) == ink {
			continue
		}
		ink = !ink
		r.scan[t] = point{cx, cy}
		t++
	}
	return r.scanToCodeword()
}

// readReverse reads the symbol that ends at the bar edge at or near (x, y),
// scanning to the left. Used on the right indicator column, whose right
// neighbour is the stop pattern.
func (r *symbolReader) readReverse(x, y, dx, dy int) int {
	if dx <= 0 {
		return invalidSymbol
	}
	x, y, ok := r.whiteToBlack(x, y, dx, dy)
	if !ok {
		return invalidSymbol
	}
	r.scan[8] = point{x, y}
	ink := false
	for t, cx := 7, x-1; t >= 0; cx-- {
		cy := lineY(x, y, dx, dy, cx)
		if !r.matrix.Contains(cx, cy) {
			return invalidSymbol
		}
		if r.matrix.Get(cx, cy) == ink {
			continue
		}
		ink = !ink
		r.scan[t] = point{cx, cy}
		t--
	}
	return r.scanToCodeword()
}

// whiteToBlack moves (x, y) along the line onto the first ink pixel of a
// white to black transition: left to the start of the current bar when on
// ink, otherwise right to the next bar.
func (r *symbolReader) whiteToBlack(x, y, dx, dy int) (int, int, bool) {
	m := r.matrix
	if !m.Contains(x, y) {
		return 0, 0, false
	}
	if m.Get(x, y) {
		if !m.Contains(x-1, y) {
			return 0, 0, false
		}
		if !m.Get(x-1, y) {
			return x, y, true
		}
		bx, by := x, y
		for cx := x - 1; ; cx-- {
			cy := lineY(x, y, dx, dy, cx)
			if !m.Contains(cx, cy) {
				return 0, 0, false
			}
			if !m.Get(cx, cy) {
				return bx, by, true
			}
			bx, by = cx, cy
		}
	}
	for cx := x + 1; ; cx++ {
		cy := lineY(x, y, dx, dy, cx)
		if !m.Contains(cx, cy) {
			return 0, 0, false
		}
		if m.Get(cx, cy) {
			return cx, cy, true
		}
	}
}

// scanToCodeword converts the nine transition points of the last read into
// cluster<<10 | codeword.
func (r *symbolReader) scanToCodeword() int {
	length := math.Hypot(float64(r.scan[8].x-r.scan[0].x), float64(r.scan[8].y-r.scan[0].y))
	if math.Abs(length-r.avgWidth) > r.maxError {
		return invalidSymbol
	}
	invWidth := patterns.Modules / length

	var widths [6]int
	for i := range widths {
		d := math.Hypot(float64(r.scan[i+2].x-r.scan[i].x), float64(r.scan[i+2].y-r.scan[i].y))
		w := int(math.Round(invWidth * d))
		if w < 2 || w > 9 {
			return invalidSymbol
		}
		widths[i] = w
	}
	if !validMode(widths) {
		return invalidSymbol
	}
	value, ok := lookupSymbol(packTwoBarWidths(widths))
	if !ok {
		return invalidSymbol
	}
	return value
}

// validMode checks the cluster parity of the two-bar widths, which is 0, 3
// or 6 for every real symbol.
func validMode(widths [6]int) bool {
	mode := (9 + widths[0] - widths[1] + widths[4] - widths[5]) % 9
	return mode == 0 || mode == 3 || mode == 6
}

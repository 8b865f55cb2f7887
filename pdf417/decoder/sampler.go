package decoder

import (
	"fmt"
	"math"

	pdf417go "github.com/ericlevine/pdf417go"
	"github.com/ericlevine/pdf417go/bitutil"
	"github.com/ericlevine/pdf417go/pdf417/detector"
	"github.com/ericlevine/pdf417go/transform"
)

// retrySteps are the vertical offsets tried when a cell reads as a codeword
// of the wrong cluster or not at all.
var retrySteps = [...]int{1, -1, 2, -2, 3, -3}

// NewGridTransform solves the perspective transform from data matrix
// (column, row) coordinates to image pixels through the indicator corners.
func NewGridTransform(ind *Indicators) (*transform.PerspectiveTransform, error) {
	var src, dst [4]transform.Point
	for i, c := range ind.Corners() {
		src[i] = transform.Point{X: float64(c.Col), Y: float64(c.Row)}
		dst[i] = transform.Point{X: float64(c.X), Y: float64(c.Y)}
	}
	return transform.SolveProjective(src, dst)
}

// gridSampler reads the data codewords of one symbol.
type gridSampler struct {
	reader *symbolReader
	grid   *transform.PerspectiveTransform
}

// project maps a grid cell corner to the nearest image pixel.
func (s *gridSampler) project(col, row int) (int, int) {
	x, y := s.grid.Transform(float64(col), float64(row))
	return int(math.Round(x)), int(math.Round(y))
}

// cell returns the codeword at (col, row) or invalidSymbol. The read must
// belong to the cluster of the row; otherwise the cell is read again a few
// pixels above and below, along the same projected line.
func (s *gridSampler) cell(col, row int) int {
	x0, y0 := s.project(col, row)
	x1, y1 := s.project(col+1, row)
	dx, dy := x1-x0, y1-y0
	cluster := row % 3

	if cw := s.reader.readForward(x0, y0, dx, dy); cw >= 0 && cw>>10 == cluster {
		return cw & 0x3ff
	}
	if dx == 0 {
		return invalidSymbol
	}
	for _, step := range retrySteps {
		y := y0 + step
		x := x0 - (y-y0)*dy/dx
		if cw := s.reader.readForward(x, y, dx, dy); cw >= 0 && cw>>10 == cluster {
			return cw & 0x3ff
		}
	}
	return invalidSymbol
}

// SampleResult is the raw codeword stream of a symbol.
type SampleResult struct {
	Codewords []int
	Erasures  int
}

// SampleCodewords reads every data cell in row-major order. Unreadable cells
// become erasures with value 0; more erasures than ecLength/2 fail with
// ErrChecksum before any correction is attempted.
func SampleCodewords(matrix *bitutil.BitMatrix, area *detector.BarcodeArea,
	grid *transform.PerspectiveTransform, ind *Indicators) (*SampleResult, error) {
	s := &gridSampler{
		reader: newSymbolReader(matrix, area.AvgSymbolWidth, area.MaxSymbolError),
		grid:   grid,
	}
	res := &SampleResult{Codewords: make([]int, ind.Columns*ind.Rows)}
	i := 0
	for row := 0; row < ind.Rows; row++ {
		for col := 0; col < ind.Columns; col++ {
			cw := s.cell(col, row)
			if cw < 0 {
				cw = 0
				res.Erasures++
				if res.Erasures > ind.ECLength/2 {
					return nil, fmt.Errorf("%w: %d erasures exceed capacity %d",
						pdf417go.ErrChecksum, res.Erasures, ind.ECLength/2)
				}
			}
			res.Codewords[i] = cw
			i++
		}
	}
	return res, nil
}

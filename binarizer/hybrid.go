package binarizer

import (
	"fmt"

	pdf417go "github.com/ericlevine/pdf417go"
	"github.com/ericlevine/pdf417go/bitutil"
)

const (
	blockSizePower   = 3
	blockSize        = 1 << blockSizePower
	minimumDimension = blockSize * 5
	minDynamicRange  = 24
)

// Hybrid thresholds each 8x8 block against the mean black point of the
// surrounding 5x5 blocks. It copes with shadows and gradients that defeat a
// single global cutoff. Images smaller than 40 pixels on a side fall back to
// MidRange.
type Hybrid struct {
	midRange MidRange
	matrix   *bitutil.BitMatrix
}

// NewHybrid creates a new Hybrid binarizer.
func NewHybrid(source pdf417go.LuminanceSource) *Hybrid {
	return &Hybrid{midRange: MidRange{source: source}}
}

// LuminanceSource returns the underlying source.
func (h *Hybrid) LuminanceSource() pdf417go.LuminanceSource {
	return h.midRange.source
}

// BlackMatrix returns the binarized matrix using local thresholding.
func (h *Hybrid) BlackMatrix() (*bitutil.BitMatrix, error) {
	if h.matrix != nil {
		return h.matrix, nil
	}
	source := h.midRange.source
	width := source.Width()
	height := source.Height()
	if width < minimumDimension || height < minimumDimension {
		m, err := h.midRange.BlackMatrix()
		if err != nil {
			return nil, err
		}
		h.matrix = m
		return m, nil
	}

	g := blockGrid{
		luminances: source.Matrix(),
		width:      width,
		height:     height,
		cols:       (width + blockSize - 1) >> blockSizePower,
		rows:       (height + blockSize - 1) >> blockSizePower,
	}
	if err := g.computeBlackPoints(); err != nil {
		return nil, err
	}
	matrix := bitutil.NewBitMatrix(width, height)
	g.threshold(matrix)
	h.matrix = matrix
	return matrix, nil
}

// blockGrid holds one black point estimate per 8x8 block. Blocks on the
// right and bottom edges are shifted inwards so they stay fully inside the
// image.
type blockGrid struct {
	luminances  []byte
	width       int
	height      int
	cols        int
	rows        int
	blackPoints []int
}

func (g *blockGrid) origin(col, row int) (int, int) {
	return min(col<<blockSizePower, g.width-blockSize), min(row<<blockSizePower, g.height-blockSize)
}

func (g *blockGrid) computeBlackPoints() error {
	g.blackPoints = make([]int, g.cols*g.rows)
	darkest, brightest := 0xFF, 0
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			x0, y0 := g.origin(col, row)
			sum, lo, hi := 0, 0xFF, 0
			for y := y0; y < y0+blockSize; y++ {
				for _, p := range g.luminances[y*g.width+x0 : y*g.width+x0+blockSize] {
					sum += int(p)
					lo = min(lo, int(p))
					hi = max(hi, int(p))
				}
			}
			darkest, brightest = min(darkest, lo), max(brightest, hi)

			bp := sum >> (2 * blockSizePower)
			if hi-lo <= minDynamicRange {
				// Low contrast block: assume background unless the
				// neighbours already saw something darker.
				bp = lo / 2
				if row > 0 && col > 0 {
					up := g.blackPoints[(row-1)*g.cols+col]
					left := g.blackPoints[row*g.cols+col-1]
					diag := g.blackPoints[(row-1)*g.cols+col-1]
					if neighbours := (up + 2*left + diag) / 4; lo < neighbours {
						bp = neighbours
					}
				}
			}
			g.blackPoints[row*g.cols+col] = bp
		}
	}
	if brightest-darkest < 2 {
		return fmt.Errorf("%w: flat image, grey levels [%d,%d]", pdf417go.ErrNotFound, darkest, brightest)
	}
	return nil
}

func (g *blockGrid) threshold(matrix *bitutil.BitMatrix) {
	for row := 0; row < g.rows; row++ {
		top := clampCenter(row, g.rows)
		for col := 0; col < g.cols; col++ {
			left := clampCenter(col, g.cols)
			sum := 0
			for r := top - 2; r <= top+2; r++ {
				for c := left - 2; c <= left+2; c++ {
					sum += g.blackPoints[r*g.cols+c]
				}
			}
			cutoff := sum / 25

			x0, y0 := g.origin(col, row)
			for y := y0; y < y0+blockSize; y++ {
				offset := y * g.width
				for x := x0; x < x0+blockSize; x++ {
					if int(g.luminances[offset+x]) <= cutoff {
						matrix.Set(x, y)
					}
				}
			}
		}
	}
}

// clampCenter keeps a 5-wide window centred on v inside [0, n).
func clampCenter(v, n int) int {
	return max(2, min(v, n-3))
}

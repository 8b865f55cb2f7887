package detector

import "github.com/ericlevine/pdf417go/bitutil"

// minTransitions is the number of bar edges one border pattern spans.
const minTransitions = 9

// lineScanner converts matrix rows into bar edge positions, reusing its
// buffers between rows.
type lineScanner struct {
	matrix *bitutil.BitMatrix
	row    *bitutil.BitArray
	bars   []int
}

func newLineScanner(matrix *bitutil.BitMatrix) *lineScanner {
	return &lineScanner{matrix: matrix, bars: make([]int, 0, matrix.Width())}
}

// scan returns the x positions where row y changes colour, starting with the
// first white-to-black edge after the leading ink run. Even indexes are bar
// starts, odd indexes space starts. A bar cut off by the right image edge is
// dropped. Rows with fewer than nine edges return nil.
func (s *lineScanner) scan(y int) []int {
	s.row = s.matrix.Row(y, s.row)
	width := s.matrix.Width()

	col := s.row.NextUnset(0)
	if col == width {
		return nil
	}
	col = s.row.NextSet(col)
	if col == width {
		return nil
	}
	bars := append(s.bars[:0], col)
	for {
		col = s.row.NextUnset(col)
		if col == width {
			bars = bars[:len(bars)-1]
			break
		}
		bars = append(bars, col)
		col = s.row.NextSet(col)
		if col == width {
			break
		}
		bars = append(bars, col)
	}
	s.bars = bars
	if len(bars) < minTransitions {
		return nil
	}
	return bars
}

// ScanLine returns the bar edge positions of row y, or nil when the row has
// fewer than nine of them.
func ScanLine(matrix *bitutil.BitMatrix, y int) []int {
	bars := newLineScanner(matrix).scan(y)
	if bars == nil {
		return nil
	}
	return append([]int(nil), bars...)
}

package decoder

import (
	"fmt"

	pdf417go "github.com/ericlevine/pdf417go"
	"github.com/ericlevine/pdf417go/bitutil"
	"github.com/ericlevine/pdf417go/pdf417/detector"
)

// maxIndicatorErrors is the number of consecutive unreadable rows that ends
// an indicator walk.
const maxIndicatorErrors = 20

// Indicator bits collected into Indicators.control.
const (
	indicatorRows    = 1
	indicatorECLevel = 2
	indicatorColumns = 4
	indicatorAll     = indicatorRows | indicatorECLevel | indicatorColumns
)

// Corner ties a data matrix position to an image position.
type Corner struct {
	Col, Row int
	X, Y     int
}

// Indicators is the metadata read from the row indicator columns of one
// symbol, plus the four corners it was read at.
type Indicators struct {
	Rows     int
	Columns  int
	ECLength int

	TopLeft, TopRight, BottomLeft, BottomRight Corner

	control int
}

// Corners returns the corners in top-left, top-right, bottom-left,
// bottom-right order.
func (ind *Indicators) Corners() [4]Corner {
	return [4]Corner{ind.TopLeft, ind.TopRight, ind.BottomLeft, ind.BottomRight}
}

// setInfo folds one confirmed indicator codeword into the metadata. Each
// piece of information is taken from the first codeword that carries it.
func (ind *Indicators) setInfo(codeword int) {
	cluster := codeword >> 10
	info := (codeword & 0x3ff) % 30
	switch cluster {
	case 0:
		if ind.control&indicatorRows == 0 {
			ind.Rows += 3*info + 1
			ind.control |= indicatorRows
		}
	case 1:
		if ind.control&indicatorECLevel == 0 {
			ind.ECLength = 1 << (info/3 + 1)
			ind.Rows += info % 3
			ind.control |= indicatorECLevel
		}
	case 2:
		if ind.control&indicatorColumns == 0 {
			ind.Columns = info + 1
			ind.control |= indicatorColumns
		}
	}
}

// complete reports whether rows, EC level and columns have all been read.
func (ind *Indicators) complete() bool {
	return ind.control == indicatorAll
}

// indicatorRow returns the data row an indicator codeword belongs to.
func indicatorRow(codeword int) int {
	return 3*((codeword&0x3ff)/30) + codeword>>10
}

// indicatorWalk is the outcome of walking one indicator column.
type indicatorWalk struct {
	top, bottom       int
	topPos, bottomPos point
}

// ReadIndicators reads the left and then the right row indicator columns of
// the area. Both must yield a top and a bottom codeword, and the columns,
// rows and EC level must be known once the right side has been read.
func ReadIndicators(matrix *bitutil.BitMatrix, area *detector.BarcodeArea) (*Indicators, error) {
	r := newSymbolReader(matrix, area.AvgSymbolWidth, area.MaxSymbolError)
	ind := &Indicators{}

	left := area.Left
	walk := r.walkIndicator(ind, left, func(x, y int) int {
		return r.readForward(x, y, left.DeltaY, -left.DeltaX)
	})
	if walk.top < 0 || walk.bottom < 0 {
		return nil, fmt.Errorf("%w: left row indicator unreadable", pdf417go.ErrNotFound)
	}
	ind.TopLeft = Corner{Col: -1, Row: indicatorRow(walk.top), X: walk.topPos.x, Y: walk.topPos.y}
	ind.BottomLeft = Corner{Col: -1, Row: indicatorRow(walk.bottom), X: walk.bottomPos.x, Y: walk.bottomPos.y}

	right := area.Right
	walk = r.walkIndicator(ind, right, func(x, y int) int {
		return r.readReverse(x, y, right.DeltaY, -right.DeltaX)
	})
	if !ind.complete() {
		return nil, fmt.Errorf("%w: row indicators incomplete", pdf417go.ErrNotFound)
	}
	if walk.top < 0 || walk.bottom < 0 {
		return nil, fmt.Errorf("%w: right row indicator unreadable", pdf417go.ErrNotFound)
	}
	ind.TopRight = Corner{Col: ind.Columns, Row: indicatorRow(walk.top), X: walk.topPos.x, Y: walk.topPos.y}
	ind.BottomRight = Corner{Col: ind.Columns, Row: indicatorRow(walk.bottom), X: walk.bottomPos.x, Y: walk.bottomPos.y}
	return ind, nil
}

// walkIndicator reads codewords along a border, first up then down from its
// centre. A codeword read twice in a row is confirmed; the last confirmed
// codeword in each direction gives the top and bottom corners.
func (r *symbolReader) walkIndicator(ind *Indicators, border detector.BorderPattern, read func(x, y int) int) indicatorWalk {
	walk := indicatorWalk{top: invalidSymbol, bottom: invalidSymbol}
	mid := read(border.CenterX, border.CenterY)
	height := r.matrix.Height()

	steps := []struct {
		step int
		more func(y int) bool
		cw   *int
		pos  *point
	}{
		{-1, func(y int) bool { return y > 0 }, &walk.top, &walk.topPos},
		{1, func(y int) bool { return y < height }, &walk.bottom, &walk.bottomPos},
	}
	for _, s := range steps {
		last := mid
		errCount := 0
		for y := border.CenterY + s.step; s.more(y); y += s.step {
			cw := read(border.XAt(y), y)
			if cw < 0 {
				errCount++
				if errCount > maxIndicatorErrors {
					break
				}
				continue
			}
			errCount = 0
			if cw != last {
				last = cw
				continue
			}
			if !ind.complete() {
				ind.setInfo(cw)
			}
			*s.cw = cw
			*s.pos = r.scan[0]
		}
	}
	return walk
}

// Package binarizer provides implementations for converting luminance data to binary.
package binarizer

import (
	"fmt"

	pdf417go "github.com/ericlevine/pdf417go"
	"github.com/ericlevine/pdf417go/bitutil"
)

// MidRange thresholds the whole image at the midpoint of the occupied grey
// level range. Pixels darker than the midpoint are ink.
type MidRange struct {
	source pdf417go.LuminanceSource
	matrix *bitutil.BitMatrix
}

// NewMidRange creates a new MidRange binarizer.
func NewMidRange(source pdf417go.LuminanceSource) *MidRange {
	return &MidRange{source: source}
}

// LuminanceSource returns the underlying source.
func (m *MidRange) LuminanceSource() pdf417go.LuminanceSource {
	return m.source
}

// BlackMatrix returns the full binarized matrix.
func (m *MidRange) BlackMatrix() (*bitutil.BitMatrix, error) {
	if m.matrix != nil {
		return m.matrix, nil
	}
	width := m.source.Width()
	height := m.source.Height()
	luminances := m.source.Matrix()

	var histogram [256]int
	for _, l := range luminances[:width*height] {
		histogram[l]++
	}
	cutoff, err := midRangeCutoff(&histogram)
	if err != nil {
		return nil, err
	}

	matrix := bitutil.NewBitMatrix(width, height)
	for y := 0; y < height; y++ {
		offset := y * width
		for x := 0; x < width; x++ {
			if int(luminances[offset+x]) < cutoff {
				matrix.Set(x, y)
			}
		}
	}
	m.matrix = matrix
	return matrix, nil
}

// midRangeCutoff returns (start+end)/2 where [start, end) is the span of
// occupied grey levels.
func midRangeCutoff(histogram *[256]int) (int, error) {
	start := 0
	for start < len(histogram) && histogram[start] == 0 {
		start++
	}
	end := len(histogram)
	for end > start && histogram[end-1] == 0 {
		end--
	}
	if end-start < 2 {
		return 0, fmt.Errorf("%w: flat image, grey levels [%d,%d)", pdf417go.ErrNotFound, start, end)
	}
	return (start + end) / 2, nil
}

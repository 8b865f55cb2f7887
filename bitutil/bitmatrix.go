package bitutil

import (
	"slices"
	"strings"
)

// BitMatrix is a row-major grid of bits, one row per image scan line, with
// the origin at the top-left. A set bit is ink. Each row starts on a word
// boundary.
type BitMatrix struct {
	width   int
	height  int
	rowSize int
	data    []uint32
}

// NewBitMatrix creates an all-white matrix. It panics unless both
// dimensions are positive.
func NewBitMatrix(width, height int) *BitMatrix {
	if width < 1 || height < 1 {
		panic("bitmatrix: dimensions must be greater than 0")
	}
	rowSize := (width + 31) / 32
	return &BitMatrix{width: width, height: height, rowSize: rowSize, data: make([]uint32, rowSize*height)}
}

// ParseStringMatrix builds a matrix from lines of setStr and unsetStr
// tokens. Blank lines are skipped; all other lines must be the same length.
func ParseStringMatrix(repr, setStr, unsetStr string) *BitMatrix {
	var rows [][]bool
	for _, line := range strings.FieldsFunc(repr, func(r rune) bool { return r == '\n' || r == '\r' }) {
		var row []bool
		for len(line) > 0 {
			switch {
			case strings.HasPrefix(line, setStr):
				row = append(row, true)
				line = line[len(setStr):]
			case strings.HasPrefix(line, unsetStr):
				row = append(row, false)
				line = line[len(unsetStr):]
			default:
				panic("bitmatrix: illegal character encountered")
			}
		}
		if len(rows) > 0 && len(row) != len(rows[0]) {
			panic("bitmatrix: row lengths do not match")
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		panic("bitmatrix: empty representation")
	}

	matrix := NewBitMatrix(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, ink := range row {
			if ink {
				matrix.Set(x, y)
			}
		}
	}
	return matrix
}

// Get reports whether (x, y) is ink. The point must lie inside the matrix.
func (bm *BitMatrix) Get(x, y int) bool {
	return bm.data[y*bm.rowSize+x/32]>>uint(x%32)&1 != 0
}

// Contains reports whether (x, y) lies inside the matrix.
func (bm *BitMatrix) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < bm.width && y < bm.height
}

// Set marks (x, y) as ink.
func (bm *BitMatrix) Set(x, y int) {
	bm.data[y*bm.rowSize+x/32] |= 1 << uint(x%32)
}

// SetRegion marks a rectangle as ink. The rectangle must fit inside the
// matrix.
func (bm *BitMatrix) SetRegion(left, top, width, height int) {
	if top < 0 || left < 0 || height < 1 || width < 1 {
		panic("bitmatrix: invalid region")
	}
	if top+height > bm.height || left+width > bm.width {
		panic("bitmatrix: region must fit inside the matrix")
	}
	row := NewBitArray(bm.width)
	row.SetRange(left, left+width)
	for y := top; y < top+height; y++ {
		words := bm.data[y*bm.rowSize : (y+1)*bm.rowSize]
		for i, w := range row.bits {
			words[i] |= w
		}
	}
}

// Row copies row y into row, allocating a new BitArray when row is nil or
// too small.
func (bm *BitMatrix) Row(y int, row *BitArray) *BitArray {
	if row == nil || row.Size() < bm.width {
		row = NewBitArray(bm.width)
	}
	n := copy(row.bits, bm.data[y*bm.rowSize:(y+1)*bm.rowSize])
	clear(row.bits[n:])
	return row
}

// Rotate180 turns the matrix upside down in place.
func (bm *BitMatrix) Rotate180() {
	rotated := make([]uint32, len(bm.data))
	var row *BitArray
	for y := 0; y < bm.height; y++ {
		row = bm.Row(y, row)
		row.Reverse()
		dst := bm.height - 1 - y
		copy(rotated[dst*bm.rowSize:(dst+1)*bm.rowSize], row.bits)
	}
	bm.data = rotated
}

// Width returns the number of columns.
func (bm *BitMatrix) Width() int { return bm.width }

// Height returns the number of rows.
func (bm *BitMatrix) Height() int { return bm.height }

// Clone returns a deep copy.
func (bm *BitMatrix) Clone() *BitMatrix {
	clone := *bm
	clone.data = slices.Clone(bm.data)
	return &clone
}

// String draws the matrix with "X " for ink and "  " for paper, one line
// per row.
func (bm *BitMatrix) String() string {
	var sb strings.Builder
	sb.Grow((2*bm.width + 1) * bm.height)
	for y := 0; y < bm.height; y++ {
		for x := 0; x < bm.width; x++ {
			if bm.Get(x, y) {
				sb.WriteString("X ")
			} else {
				sb.WriteString("  ")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Equals reports whether two matrices have the same size and bits.
func (bm *BitMatrix) Equals(other *BitMatrix) bool {
	return bm.width == other.width && bm.height == other.height && slices.Equal(bm.data, other.data)
}

// Package bitutil provides the packed bit containers the PDF417 pipeline
// works on after binarization.
package bitutil

import (
	"math/bits"
	"strings"
)

// BitArray is one row of bits, packed into uint32 words with bit i in word
// i/32 at position i%32.
type BitArray struct {
	bits []uint32
	size int
}

// NewBitArray creates an all-white row of size bits.
func NewBitArray(size int) *BitArray {
	size = max(size, 0)
	return &BitArray{bits: make([]uint32, (size+31)/32), size: size}
}

// Size returns the number of bits in the array.
func (ba *BitArray) Size() int {
	return ba.size
}

// Get reports whether bit i is set.
func (ba *BitArray) Get(i int) bool {
	return ba.bits[i/32]>>uint(i%32)&1 != 0
}

// Set sets bit i.
func (ba *BitArray) Set(i int) {
	ba.bits[i/32] |= 1 << uint(i%32)
}

// SetRange sets the bits in [start, end).
func (ba *BitArray) SetRange(start, end int) {
	if start < 0 || end > ba.size || end < start {
		panic("bitarray: invalid range")
	}
	for i := start; i < end; {
		word, bit := i/32, uint(i%32)
		n := min(end-i, 32-int(bit))
		ba.bits[word] |= (^uint32(0) >> uint(32-n)) << bit
		i += n
	}
}

// NextSet returns the index of the first set bit at or after from, or Size
// when there is none.
func (ba *BitArray) NextSet(from int) int {
	return ba.next(from, 0)
}

// NextUnset returns the index of the first unset bit at or after from, or
// Size when there is none.
func (ba *BitArray) NextUnset(from int) int {
	return ba.next(from, ^uint32(0))
}

// next scans for the first bit that differs from the bits of flip.
func (ba *BitArray) next(from int, flip uint32) int {
	if from >= ba.size {
		return ba.size
	}
	word := from / 32
	current := (ba.bits[word] ^ flip) &^ (1<<uint(from%32) - 1)
	for current == 0 {
		word++
		if word == len(ba.bits) {
			return ba.size
		}
		current = ba.bits[word] ^ flip
	}
	return min(word*32+bits.TrailingZeros32(current), ba.size)
}

// Reverse mirrors the row so that bit i moves to Size-1-i.
func (ba *BitArray) Reverse() {
	mirrored := make([]uint32, len(ba.bits))
	for i := ba.NextSet(0); i < ba.size; i = ba.NextSet(i + 1) {
		j := ba.size - 1 - i
		mirrored[j/32] |= 1 << uint(j%32)
	}
	ba.bits = mirrored
}

// String draws the row with 'X' for set bits and '.' for unset ones, in
// groups of eight.
func (ba *BitArray) String() string {
	var sb strings.Builder
	for i := 0; i < ba.size; i++ {
		if i%8 == 0 {
			sb.WriteByte(' ')
		}
		if ba.Get(i) {
			sb.WriteByte('X')
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

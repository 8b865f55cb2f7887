package decoder

import (
	"cmp"
	"slices"

	"github.com/ericlevine/pdf417go/internal/patterns"
)

// symbolEntry maps the packed two-bar widths of a codeword pattern to its
// cluster index and value.
type symbolEntry struct {
	key   uint32 // six 3-bit fields, (width-2) of each two-element pair
	value int    // cluster<<10 | codeword
}

// symbolTable holds all 3*929 codeword patterns sorted by key.
var symbolTable []symbolEntry

func init() {
	symbolTable = make([]symbolEntry, 0, patterns.Clusters*patterns.Codewords)
	for cluster := 0; cluster < patterns.Clusters; cluster++ {
		for cw := 0; cw < patterns.Codewords; cw++ {
			runs := patterns.Runs(patterns.Pattern(cluster, cw), patterns.Modules)
			var widths [6]int
			for i := range widths {
				widths[i] = runs[i] + runs[i+1]
			}
			symbolTable = append(symbolTable, symbolEntry{
				key:   packTwoBarWidths(widths),
				value: cluster<<10 | cw,
			})
		}
	}
	slices.SortFunc(symbolTable, func(a, b symbolEntry) int { return cmp.Compare(a.key, b.key) })
}

// packTwoBarWidths packs six widths in [2,9] into an 18-bit key, first
// width in the most significant bits.
func packTwoBarWidths(widths [6]int) uint32 {
	var key uint32
	for i, w := range widths {
		key |= uint32(w-2) << (3 * (5 - i))
	}
	return key
}

// lookupSymbol returns cluster<<10 | codeword for a packed key.
func lookupSymbol(key uint32) (int, bool) {
	i, found := slices.BinarySearchFunc(symbolTable, key, func(e symbolEntry, k uint32) int {
		return cmp.Compare(e.key, k)
	})
	if !found {
		return 0, false
	}
	return symbolTable[i].value, true
}

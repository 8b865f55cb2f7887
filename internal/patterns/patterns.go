// Package patterns holds the PDF417 bar/space patterns shared by the symbol
// table decoder and the test symbol renderer.
package patterns

const (
	// Modules is the width of a codeword pattern and of the start pattern.
	Modules = 17
	// StopModules is the width of the stop pattern, one module wider than a
	// codeword.
	StopModules = 18

	// Start is the start pattern 81111113.
	Start uint32 = 0x1fea8
	// Stop is the stop pattern 711311121.
	Stop uint32 = 0x3fa29

	// Clusters is the number of codeword clusters (0, 3 and 6).
	Clusters = 3
	// Codewords is the number of values per cluster.
	Codewords = 929
)

// Pattern returns the 17-module pattern for codeword in cluster index
// 0, 1 or 2 (cluster numbers 0, 3 and 6).
func Pattern(cluster, codeword int) uint32 {
	return table[cluster][codeword]
}

// Runs splits a pattern of the given module width into alternating bar and
// space widths, starting with a bar.
func Runs(pattern uint32, modules int) []int {
	var runs []int
	prev, n := uint32(1), 0
	for i := modules - 1; i >= 0; i-- {
		bit := (pattern >> uint(i)) & 1
		if bit != prev {
			runs = append(runs, n)
			prev, n = bit, 0
		}
		n++
	}
	return append(runs, n)
}

package detector

// Two-element widths, in modules, of the start pattern 81111113 and of the
// first eight elements of the stop pattern 711311121.
var (
	startSignature = [6]int{9, 2, 2, 2, 2, 2}
	stopSignature  = [6]int{8, 2, 4, 4, 2, 2}
)

const (
	// maxRowGap is the largest row distance between consecutive symbols of
	// one border.
	maxRowGap = 18
	// maxEdgeDrift is the largest horizontal move of either symbol edge
	// between consecutive symbols of one border.
	maxEdgeDrift = 5
	// minBorderSymbols is the fewest symbols a border needs to be kept.
	minBorderSymbols = 18
)

// BorderSymbol is one row's occurrence of a start or stop pattern: it spans
// [X1, X2) on row Y.
type BorderSymbol struct {
	X1, Y, X2 int
}

// borderClusters groups border symbols that stack vertically into the same
// start or stop column.
type borderClusters struct {
	signature *[6]int
	clusters  [][]BorderSymbol
}

func newBorderClusters(signature *[6]int) *borderClusters {
	return &borderClusters{signature: signature}
}

// matchesSignature reports whether the eight elements starting at bars[p]
// quantize to the signature when the window is taken as 17 modules wide.
func matchesSignature(bars []int, p int, signature *[6]int) bool {
	width := bars[p+8] - bars[p]
	if width <= 0 {
		return false
	}
	for i, want := range signature {
		if (34*(bars[p+i+2]-bars[p+i])+width)/(2*width) != want {
			return false
		}
	}
	return true
}

// addRow searches the bar edges of row y for the signature and clusters
// every hit.
func (b *borderClusters) addRow(bars []int, y int) {
	for p := 0; p < len(bars)-8; p += 2 {
		if !matchesSignature(bars, p, b.signature) {
			continue
		}
		b.add(BorderSymbol{X1: bars[p], Y: y, X2: bars[p+8]})
		// resume after the matched pattern
		p += 6
	}
}

func (b *borderClusters) add(sym BorderSymbol) {
	for i, cluster := range b.clusters {
		last := cluster[len(cluster)-1]
		if sym.Y-last.Y >= maxRowGap || abs(sym.X1-last.X1) >= maxEdgeDrift || abs(sym.X2-last.X2) >= maxEdgeDrift {
			continue
		}
		b.clusters[i] = append(cluster, sym)
		return
	}
	b.clusters = append(b.clusters, []BorderSymbol{sym})
}

// retained returns the clusters holding at least minBorderSymbols symbols.
func (b *borderClusters) retained() [][]BorderSymbol {
	var kept [][]BorderSymbol
	for _, cluster := range b.clusters {
		if len(cluster) >= minBorderSymbols {
			kept = append(kept, cluster)
		}
	}
	return kept
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

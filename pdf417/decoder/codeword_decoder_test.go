package decoder

import (
	"testing"

	"github.com/ericlevine/pdf417go/bitutil"
	"github.com/ericlevine/pdf417go/internal/patterns"
)

const testModule = 2

// renderRow draws a 17-module pattern at x = 4 followed by a two-module bar,
// in a matrix three pixels tall.
func renderRow(pattern uint32) *bitutil.BitMatrix {
	m := bitutil.NewBitMatrix(4+(patterns.Modules+2)*testModule+4, 3)
	x := 4
	for i := patterns.Modules - 1; i >= 0; i-- {
		if pattern>>uint(i)&1 != 0 {
			m.SetRegion(x, 0, testModule, 3)
		}
		x += testModule
	}
	m.SetRegion(x, 0, 2*testModule, 3)
	return m
}

func TestReadForwardEveryCodeword(t *testing.T) {
	width := float64(patterns.Modules * testModule)
	for cluster := 0; cluster < patterns.Clusters; cluster++ {
		for cw := 0; cw < patterns.Codewords; cw++ {
			r := newSymbolReader(renderRow(patterns.Pattern(cluster, cw)), width, 0.08*width)
			// start inside the quiet zone; the reader walks right to the bar
			got := r.readForward(1, 1, 100, 0)
			if got != cluster<<10|cw {
				t.Fatalf("cluster %d codeword %d: read %d (cluster %d value %d)",
					cluster, cw, got, got>>10, got&0x3ff)
			}
			if r.scan[0].x != 4 {
				t.Fatalf("cluster %d codeword %d: symbol starts at %d, want 4", cluster, cw, r.scan[0].x)
			}
		}
	}
}

func TestReadReverseFromFollowingBar(t *testing.T) {
	width := float64(patterns.Modules * testModule)
	end := 4 + patterns.Modules*testModule
	for cluster := 0; cluster < patterns.Clusters; cluster++ {
		for _, cw := range []int{0, 1, 17, 450, 899, 928} {
			r := newSymbolReader(renderRow(patterns.Pattern(cluster, cw)), width, 0.08*width)
			got := r.readReverse(end, 1, 100, 0)
			if got != cluster<<10|cw {
				t.Errorf("cluster %d codeword %d: reverse read %d", cluster, cw, got)
			}
		}
	}
}

func TestReadForwardStartsInsideBar(t *testing.T) {
	width := float64(patterns.Modules * testModule)
	m := renderRow(patterns.Pattern(1, 300))
	r := newSymbolReader(m, width, 0.08*width)
	// x = 5 is the second pixel of the first bar
	if got := r.readForward(5, 1, 100, 0); got != 1<<10|300 {
		t.Errorf("read %d, want %d", got, 1<<10|300)
	}
}

func TestReadRejectsWrongWidth(t *testing.T) {
	m := renderRow(patterns.Pattern(0, 10))
	r := newSymbolReader(m, 50, 2)
	if got := r.readForward(1, 1, 100, 0); got != invalidSymbol {
		t.Errorf("read %d with a 34 pixel symbol against average 50", got)
	}
}

func TestReadOutOfBounds(t *testing.T) {
	width := float64(patterns.Modules * testModule)
	m := bitutil.NewBitMatrix(20, 3)
	r := newSymbolReader(m, width, 0.08*width)
	tests := []struct {
		name         string
		x, y, dx, dy int
	}{
		{"outside", -1, 1, 100, 0},
		{"blank row", 0, 1, 100, 0},
		{"zero direction", 0, 1, 0, 0},
		{"backwards direction", 0, 1, -5, 0},
	}
	for _, tc := range tests {
		if got := r.readForward(tc.x, tc.y, tc.dx, tc.dy); got != invalidSymbol {
			t.Errorf("%s: readForward = %d", tc.name, got)
		}
		if got := r.readReverse(tc.x, tc.y, tc.dx, tc.dy); got != invalidSymbol {
			t.Errorf("%s: readReverse = %d", tc.name, got)
		}
	}
}

func TestValidMode(t *testing.T) {
	for cluster := 0; cluster < patterns.Clusters; cluster++ {
		runs := patterns.Runs(patterns.Pattern(cluster, 123), patterns.Modules)
		var widths [6]int
		for i := range widths {
			widths[i] = runs[i] + runs[i+1]
		}
		if !validMode(widths) {
			t.Errorf("cluster %d: valid symbol rejected by mode check", cluster)
		}
	}
	if validMode([6]int{3, 2, 2, 2, 2, 2}) {
		t.Error("mode 1 accepted")
	}
}

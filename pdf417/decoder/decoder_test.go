package decoder

import (
	"errors"
	"math/rand"
	"slices"
	"strings"
	"testing"

	pdf417go "github.com/ericlevine/pdf417go"
	"github.com/ericlevine/pdf417go/bitutil"
	"github.com/ericlevine/pdf417go/internal/patterns"
	"github.com/ericlevine/pdf417go/internal/testutil"
	"github.com/ericlevine/pdf417go/pdf417/detector"
)

func renderCodewords(t *testing.T, cws []int, l testutil.Layout) *bitutil.BitMatrix {
	t.Helper()
	m, err := testutil.Render(cws, l)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func locateOne(t *testing.T, m *bitutil.BitMatrix) (*bitutil.BitMatrix, *detector.BarcodeArea) {
	t.Helper()
	res, err := detector.Locate(m, nil)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if len(res.Areas) != 1 {
		t.Fatalf("%d areas, want 1", len(res.Areas))
	}
	return res.Matrix, &res.Areas[0]
}

// shear moves row y right by y/k pixels.
func shear(m *bitutil.BitMatrix, k int) *bitutil.BitMatrix {
	out := bitutil.NewBitMatrix(m.Width()+m.Height()/k+1, m.Height())
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			if m.Get(x, y) {
				out.Set(x+y/k, y)
			}
		}
	}
	return out
}

func TestReadIndicatorsHI(t *testing.T) {
	l := testutil.DefaultLayout(2, 3, 0)
	cws, err := testutil.BuildCodewords([]int{900, 218}, l)
	if err != nil {
		t.Fatal(err)
	}
	m, area := locateOne(t, renderCodewords(t, cws, l))

	ind, err := ReadIndicators(m, area)
	if err != nil {
		t.Fatalf("ReadIndicators: %v", err)
	}
	if ind.Rows != 3 || ind.Columns != 2 || ind.ECLength != 2 {
		t.Errorf("rows %d columns %d ecLength %d, want 3 2 2", ind.Rows, ind.Columns, ind.ECLength)
	}
	left := l.QuietZone + 17*l.ModuleWidth
	top := l.QuietZone
	bottom := l.QuietZone + l.Rows*l.RowHeight - 1
	want := [4]Corner{
		{Col: -1, Row: 0, X: left, Y: top},
		{Col: 2, Row: 0, X: left + 3*51 - 1, Y: top},
		{Col: -1, Row: 2, X: left, Y: bottom},
		{Col: 2, Row: 2, X: left + 3*51 - 1, Y: bottom},
	}
	if got := ind.Corners(); got != want {
		t.Errorf("corners = %+v\nwant %+v", got, want)
	}
}

func TestReadIndicatorsBlankArea(t *testing.T) {
	m := bitutil.NewBitMatrix(300, 100)
	area := &detector.BarcodeArea{
		Left:           detector.BorderPattern{CenterX: 50, CenterY: 50, DeltaY: 1000},
		Right:          detector.BorderPattern{CenterX: 250, CenterY: 50, DeltaY: 1000},
		AvgSymbolWidth: 51,
		MaxSymbolError: 4,
	}
	if _, err := ReadIndicators(m, area); !errors.Is(err, pdf417go.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSetInfo(t *testing.T) {
	var ind Indicators
	// rows 10, columns 5, EC level 2: left indicators of rows 0, 1 and 2
	ind.setInfo(0<<10 | 3)
	ind.setInfo(1<<10 | 3*2 + 0)
	ind.setInfo(2<<10 | 4)
	if !ind.complete() || ind.Rows != 10 || ind.Columns != 5 || ind.ECLength != 8 {
		t.Errorf("indicators = %+v", ind)
	}
	// later codewords do not overwrite
	ind.setInfo(2<<10 | 9)
	if ind.Columns != 5 {
		t.Errorf("Columns = %d after a second cluster 2 codeword", ind.Columns)
	}
	if got := indicatorRow(2<<10 | 30*3 + 4); got != 11 {
		t.Errorf("indicatorRow = %d, want 11", got)
	}
}

func TestDecodeAreaHI(t *testing.T) {
	l := testutil.DefaultLayout(2, 3, 0)
	cws, err := testutil.BuildCodewords([]int{900, 218}, l)
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{4, 900, 218, 900}; !slices.Equal(cws[:4], want) {
		t.Fatalf("fixture data = %v, want %v", cws[:4], want)
	}
	m, area := locateOne(t, renderCodewords(t, cws, l))

	var stages []pdf417go.Stage
	obs := pdf417go.ObserverFunc(func(e pdf417go.Event) {
		if e.Failed() {
			t.Errorf("stage %s failed: %v", e.Stage, e.Err)
		}
		stages = append(stages, e.Stage)
	})
	dr, err := DecodeArea(m, area, obs)
	if err != nil {
		t.Fatalf("DecodeArea: %v", err)
	}
	if string(dr.Payload) != "HI" || dr.ErrorsCorrected != 0 {
		t.Errorf("payload %q corrected %d, want HI 0", dr.Payload, dr.ErrorsCorrected)
	}
	if dr.Rows != 3 || dr.Columns != 2 || dr.ECLength != 2 {
		t.Errorf("rows %d columns %d ecLength %d", dr.Rows, dr.Columns, dr.ECLength)
	}
	wantStages := []pdf417go.Stage{
		pdf417go.StageIndicators, pdf417go.StageCodewords, pdf417go.StageCorrect, pdf417go.StageData,
	}
	if !slices.Equal(stages, wantStages) {
		t.Errorf("stages = %v, want %v", stages, wantStages)
	}
}

func TestDecodeAreaCorrectsOneError(t *testing.T) {
	l := testutil.DefaultLayout(2, 3, 0)
	cws, err := testutil.BuildCodewords([]int{900, 218}, l)
	if err != nil {
		t.Fatal(err)
	}
	damaged := slices.Clone(cws)
	damaged[2] = 300
	m, area := locateOne(t, renderCodewords(t, damaged, l))

	dr, err := DecodeArea(m, area, nil)
	if err != nil {
		t.Fatalf("DecodeArea: %v", err)
	}
	if string(dr.Payload) != "HI" || dr.ErrorsCorrected != 1 {
		t.Errorf("payload %q corrected %d, want HI 1", dr.Payload, dr.ErrorsCorrected)
	}
}

func TestDecodeAreaTooManyErrors(t *testing.T) {
	l := testutil.DefaultLayout(2, 3, 0)
	cws, err := testutil.BuildCodewords([]int{900, 218}, l)
	if err != nil {
		t.Fatal(err)
	}
	damaged := slices.Clone(cws)
	damaged[1] = 901
	damaged[2] = 300
	m, area := locateOne(t, renderCodewords(t, damaged, l))

	var failed pdf417go.Stage
	obs := pdf417go.ObserverFunc(func(e pdf417go.Event) {
		if e.Failed() {
			failed = e.Stage
		}
	})
	dr, err := DecodeArea(m, area, obs)
	if err == nil {
		// Two errors exceed the capacity of two EC codewords; a lucky
		// miscorrection must still not reproduce the original.
		if string(dr.Payload) == "HI" {
			t.Errorf("decoded HI from a symbol with two errors")
		}
		return
	}
	if failed == "" {
		t.Error("failure not reported to the observer")
	}
}

func TestDecodeAreaLargerSymbol(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	data := make([]int, 30)
	for i := range data {
		data[i] = rng.Intn(900)
	}
	// a leading byte latch keeps the stream well formed
	data[0] = 901
	l := testutil.DefaultLayout(5, 10, 2)
	cws, err := testutil.BuildCodewords(data, l)
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []int{0, 20} {
		m := renderCodewords(t, cws, l)
		if k > 0 {
			m = shear(m, k)
		}
		m, area := locateOne(t, m)
		dr, err := DecodeArea(m, area, nil)
		if err != nil {
			t.Fatalf("shear %d: DecodeArea: %v", k, err)
		}
		if dr.Rows != 10 || dr.Columns != 5 || dr.ECLength != 8 || dr.ErrorsCorrected != 0 {
			t.Errorf("shear %d: %+v", k, dr)
		}
	}
}

// renderHIOver5x10 renders "HI" padded out to a 5x10 symbol with eight error
// correction codewords.
func renderHIOver5x10(t *testing.T) (*bitutil.BitMatrix, testutil.Layout) {
	t.Helper()
	l := testutil.DefaultLayout(5, 10, 2)
	cws, err := testutil.BuildCodewords([]int{900, 218}, l)
	if err != nil {
		t.Fatal(err)
	}
	return renderCodewords(t, cws, l), l
}

// inkCell paints data cell (col, row) solid black, from its first scanline
// for height pixel rows starting at offset.
func inkCell(m *bitutil.BitMatrix, l testutil.Layout, col, row, offset, height int) {
	x := l.QuietZone + (2+col)*patterns.Modules*l.ModuleWidth
	y := l.QuietZone + row*l.RowHeight + offset
	m.SetRegion(x, y, patterns.Modules*l.ModuleWidth, height)
}

func TestDecodeAreaRepairsErasure(t *testing.T) {
	m, l := renderHIOver5x10(t)
	inkCell(m, l, 4, 4, 0, l.RowHeight)
	m, area := locateOne(t, m)

	dr, err := DecodeArea(m, area, nil)
	if err != nil {
		t.Fatalf("DecodeArea: %v", err)
	}
	if string(dr.Payload) != "HI" {
		t.Errorf("payload = %q, want HI", dr.Payload)
	}
	if dr.Erasures < 1 || dr.ErrorsCorrected < 1 {
		t.Errorf("erasures %d corrected %d, want at least 1 each", dr.Erasures, dr.ErrorsCorrected)
	}
}

func TestDecodeAreaTooManyErasures(t *testing.T) {
	m, l := renderHIOver5x10(t)
	for _, row := range []int{1, 3, 5, 7} {
		inkCell(m, l, 2, row, 0, l.RowHeight)
	}
	inkCell(m, l, 0, 8, 0, l.RowHeight)
	m, area := locateOne(t, m)

	var failed pdf417go.Stage
	obs := pdf417go.ObserverFunc(func(e pdf417go.Event) {
		if e.Failed() {
			failed = e.Stage
		}
	})
	_, err := DecodeArea(m, area, obs)
	if !errors.Is(err, pdf417go.ErrChecksum) {
		t.Fatalf("err = %v, want ErrChecksum", err)
	}
	if !strings.Contains(err.Error(), "exceed capacity 4") {
		t.Errorf("err = %v, want the erasure limit", err)
	}
	if failed != pdf417go.StageCodewords {
		t.Errorf("failed stage = %q, want %q", failed, pdf417go.StageCodewords)
	}
}

func TestDecodeAreaRetriesNeighbouringScanlines(t *testing.T) {
	m, l := renderHIOver5x10(t)
	// In a ten-row symbol row r is first read r pixels below its top edge.
	// Ink scanlines 3 to 5 of a row 4 cell so the first clean read is the +2
	// retry.
	inkCell(m, l, 1, 4, 3, 3)
	m, area := locateOne(t, m)

	dr, err := DecodeArea(m, area, nil)
	if err != nil {
		t.Fatalf("DecodeArea: %v", err)
	}
	if string(dr.Payload) != "HI" || dr.Erasures != 0 || dr.ErrorsCorrected != 0 {
		t.Errorf("payload %q erasures %d corrected %d, want HI 0 0",
			dr.Payload, dr.Erasures, dr.ErrorsCorrected)
	}
}

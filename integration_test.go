package pdf417go_test

import (
	"image"
	"image/color"
	"slices"
	"testing"

	pdf417go "github.com/ericlevine/pdf417go"
	"github.com/ericlevine/pdf417go/bitutil"
	"github.com/ericlevine/pdf417go/internal/testutil"
	"github.com/ericlevine/pdf417go/pdf417"
)

// rasterOf paints a rendered symbol into an RGB raster with the given ink
// and paper colours. Rows are stride bytes apart.
func rasterOf(m *bitutil.BitMatrix, stride int, ink, paper color.RGBA) *pdf417go.Raster {
	pix := make([]byte, stride*m.Height())
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			c := paper
			if m.Get(x, y) {
				c = ink
			}
			pix[y*stride+3*x] = c.R
			pix[y*stride+3*x+1] = c.G
			pix[y*stride+3*x+2] = c.B
		}
	}
	return &pdf417go.Raster{Width: m.Width(), Height: m.Height(), Stride: stride, Pix: pix}
}

var (
	black  = color.RGBA{A: 0xff}
	white  = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	navy   = color.RGBA{B: 0x80, A: 0xff}
	yellow = color.RGBA{R: 0xff, G: 0xff, A: 0xff}
)

func decodeOne(t *testing.T, r *pdf417go.Raster) *pdf417go.Result {
	t.Helper()
	results, err := pdf417.NewReader(nil).Decode(r)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("decoded %d barcodes, want 1", len(results))
	}
	return results[0]
}

func renderHI(t *testing.T, damage func([]int)) *bitutil.BitMatrix {
	t.Helper()
	l := testutil.DefaultLayout(2, 3, 0)
	cws, err := testutil.BuildCodewords([]int{900, 7*30 + 8}, l)
	if err != nil {
		t.Fatal(err)
	}
	if damage != nil {
		cws = slices.Clone(cws)
		damage(cws)
	}
	m, err := testutil.Render(cws, l)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestDecodeHIEndToEnd(t *testing.T) {
	m := renderHI(t, nil)
	res := decodeOne(t, rasterOf(m, 3*m.Width(), black, white))
	if string(res.Payload) != "HI" || res.ErrorsCorrected != 0 {
		t.Errorf("payload %q corrected %d, want HI 0", res.Payload, res.ErrorsCorrected)
	}
	if res.Rows != 3 || res.Columns != 2 || res.ECLength != 2 {
		t.Errorf("rows %d columns %d ecLength %d", res.Rows, res.Columns, res.ECLength)
	}
}

func TestDecodeHIWithOneError(t *testing.T) {
	m := renderHI(t, func(cws []int) { cws[2] = 300 })
	res := decodeOne(t, rasterOf(m, 3*m.Width(), black, white))
	if string(res.Payload) != "HI" || res.ErrorsCorrected != 1 {
		t.Errorf("payload %q corrected %d, want HI 1", res.Payload, res.ErrorsCorrected)
	}
}

func TestDecodePaddedStrideAndColours(t *testing.T) {
	m := renderHI(t, nil)
	res := decodeOne(t, rasterOf(m, 3*m.Width()+13, navy, yellow))
	if string(res.Payload) != "HI" {
		t.Errorf("payload %q, want HI", res.Payload)
	}
}

func TestDecodeGLICharacterSet(t *testing.T) {
	// GLI 9 selects ISO-8859-7, where 0xC1 is GREEK CAPITAL LETTER ALPHA.
	img, _, err := testutil.Symbol([]int{927, 9, 901, 0xC1}, testutil.DefaultLayout(2, 4, 0))
	if err != nil {
		t.Fatal(err)
	}
	res := decodeOne(t, pdf417go.NewRasterFromImage(img))
	if res.CharacterSet != "ISO-8859-7" || res.GLICharacterSet != 9 {
		t.Fatalf("character set %q (%d)", res.CharacterSet, res.GLICharacterSet)
	}
	text, err := res.Text()
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if text != "Α" {
		t.Errorf("text = %q, want %q", text, "Α")
	}
	latin1, err := pdf417go.BinaryDataToString(res.Payload, "")
	if err != nil || latin1 != "Á" {
		t.Errorf("ISO-8859-1 text = %q, %v", latin1, err)
	}
}

func TestNewRasterValidation(t *testing.T) {
	tests := []struct {
		name                  string
		width, height, stride int
		size                  int
		ok                    bool
	}{
		{"exact", 4, 2, 12, 24, true},
		{"padded rows", 4, 2, 16, 28, true},
		{"negative stride", 4, 2, -12, 24, false},
		{"short stride", 4, 2, 10, 24, false},
		{"short buffer", 4, 2, 12, 20, false},
		{"empty", 0, 2, 0, 0, false},
	}
	for _, tt := range tests {
		_, err := pdf417go.NewRaster(tt.width, tt.height, tt.stride, make([]byte, tt.size))
		if (err == nil) != tt.ok {
			t.Errorf("%s: err = %v", tt.name, err)
		}
	}
}

func TestNewRasterFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(10, 10, 12, 11))
	img.Set(10, 10, color.NRGBA{R: 10, G: 20, B: 30, A: 0xff})
	// pixel (11, 10) stays fully transparent
	r := pdf417go.NewRasterFromImage(img)
	want := []byte{10, 20, 30, 0xff, 0xff, 0xff}
	if r.Width != 2 || r.Height != 1 || !slices.Equal(r.Pix, want) {
		t.Errorf("raster = %+v", r)
	}
}

func TestRasterLuminanceSource(t *testing.T) {
	r, err := pdf417go.NewRaster(2, 2, 7, []byte{
		10, 20, 30, 255, 255, 255, 0,
		0, 0, 0, 100, 100, 100, 0,
	})
	if err != nil {
		t.Fatal(err)
	}
	src, err := pdf417go.NewRasterLuminanceSource(r)
	if err != nil {
		t.Fatal(err)
	}
	if got := src.Row(1, make([]byte, 1)); !slices.Equal(got, []byte{0, 100}) {
		t.Errorf("Row(1) = %v", got)
	}
	if got := src.Row(2, nil); got != nil {
		t.Errorf("Row(2) = %v, want nil", got)
	}
	if got := src.Matrix(); !slices.Equal(got, []byte{18, 255, 0, 100}) {
		t.Errorf("Matrix() = %v", got)
	}
}

func TestCornerDistance(t *testing.T) {
	if d := pdf417go.Distance(pdf417go.ResultPoint{X: 1, Y: 1}, pdf417go.ResultPoint{X: 4, Y: 5}); d != 5 {
		t.Errorf("Distance = %v, want 5", d)
	}
}

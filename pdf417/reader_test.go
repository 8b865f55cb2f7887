package pdf417

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pdf417go "github.com/ericlevine/pdf417go"
	"github.com/ericlevine/pdf417go/binarizer"
	"github.com/ericlevine/pdf417go/bitutil"
	"github.com/ericlevine/pdf417go/internal"
	"github.com/ericlevine/pdf417go/internal/testutil"
	"github.com/ericlevine/pdf417go/pdf417/detector"
)

// recorder collects events from concurrent candidates.
type recorder struct {
	mu     sync.Mutex
	events []pdf417go.Event
}

func (r *recorder) Observe(e pdf417go.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) failures(stage pdf417go.Stage) []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	for _, e := range r.events {
		if e.Stage == stage && e.Failed() {
			errs = append(errs, e.Err)
		}
	}
	return errs
}

func symbolHI(t *testing.T) image.Image {
	t.Helper()
	img, _, err := testutil.Symbol([]int{900, 7*30 + 8}, testutil.DefaultLayout(2, 3, 0))
	require.NoError(t, err)
	return img
}

// stacked renders "HI" above "OK", left aligned.
func stacked(t *testing.T) image.Image {
	t.Helper()
	top := symbolHI(t)
	bottom, _, err := testutil.Symbol([]int{901, 'O', 'K'}, testutil.DefaultLayout(3, 6, 1))
	require.NoError(t, err)

	width := max(top.Bounds().Dx(), bottom.Bounds().Dx())
	canvas := imaging.New(width, top.Bounds().Dy()+bottom.Bounds().Dy(), color.White)
	canvas = imaging.Paste(canvas, top, image.Pt(0, 0))
	return imaging.Paste(canvas, bottom, image.Pt(0, top.Bounds().Dy()))
}

func TestDecodeHI(t *testing.T) {
	rec := &recorder{}
	r := NewReader(&pdf417go.DecodeOptions{Observer: rec})

	results, err := r.Decode(pdf417go.NewRasterFromImage(symbolHI(t)))
	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, "HI", string(res.Payload))
	assert.Equal(t, 0, res.ErrorsCorrected)
	assert.Equal(t, 3, res.Rows)
	assert.Equal(t, 2, res.Columns)
	assert.Equal(t, 2, res.ECLength)
	assert.Equal(t, pdf417go.OrientationNormal, res.Orientation)
	assert.Equal(t, pdf417go.ResultPoint{X: 75, Y: 24}, res.Corners[0])
	assert.Equal(t, pdf417go.ResultPoint{X: 227, Y: 53}, res.Corners[3])

	text, err := res.Text()
	require.NoError(t, err)
	assert.Equal(t, "HI", text)

	rec.mu.Lock()
	last := rec.events[len(rec.events)-1]
	rec.mu.Unlock()
	assert.Equal(t, pdf417go.StageResult, last.Stage)
	assert.False(t, last.Failed())
}

func TestDecodeRotatedImage(t *testing.T) {
	img := testutil.Pad(testutil.Rotate180(symbolHI(t)), 7)

	results, err := NewReader(nil).DecodeImage(context.Background(), img)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "HI", string(results[0].Payload))
	assert.Equal(t, pdf417go.OrientationRotated, results[0].Orientation)
}

func TestDecodeTiltedImage(t *testing.T) {
	for _, angle := range []float64{5, -12} {
		img := imaging.Rotate(symbolHI(t), angle, color.White)

		results, err := NewReader(nil).DecodeImage(context.Background(), img)
		require.NoError(t, err, "angle %v", angle)
		require.Len(t, results, 1, "angle %v", angle)
		assert.Equal(t, "HI", string(results[0].Payload), "angle %v", angle)
		assert.Equal(t, pdf417go.OrientationNormal, results[0].Orientation, "angle %v", angle)
	}
}

func TestDecodeStackedSymbols(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		r := NewReader(&pdf417go.DecodeOptions{Parallel: parallel, MaxParallel: 2})
		results, err := r.DecodeImage(context.Background(), stacked(t))
		require.NoError(t, err, "parallel %v", parallel)
		require.Len(t, results, 2, "parallel %v", parallel)
		assert.Equal(t, "HI", string(results[0].Payload))
		assert.Equal(t, "OK", string(results[1].Payload))
		assert.Equal(t, 6, results[1].Rows)
		assert.Equal(t, 3, results[1].Columns)
		assert.Equal(t, 4, results[1].ECLength)
	}
}

func TestDecodeFlatImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 40, 30))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Gray{Y: 180}), image.Point{}, draw.Src)
	rec := &recorder{}

	results, err := NewReader(&pdf417go.DecodeOptions{Observer: rec}).DecodeImage(context.Background(), img)
	assert.NoError(t, err)
	assert.Nil(t, results)

	errs := rec.failures(pdf417go.StageBinarize)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], pdf417go.ErrNotFound)
}

func TestDecodeRejectsNegativeStride(t *testing.T) {
	raster := &pdf417go.Raster{Width: 10, Height: 10, Stride: -30, Pix: make([]byte, 300)}
	rec := &recorder{}

	results, err := NewReader(&pdf417go.DecodeOptions{Observer: rec}).Decode(raster)
	assert.NoError(t, err)
	assert.Nil(t, results)

	errs := rec.failures(pdf417go.StageBinarize)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], pdf417go.ErrFormat)
}

func TestDecodeBlankMatrix(t *testing.T) {
	results, err := NewReader(nil).DecodeMatrix(context.Background(), bitutil.NewBitMatrix(100, 50))
	assert.NoError(t, err)
	assert.Nil(t, results)
}

type failingBinarizer struct {
	source pdf417go.LuminanceSource
}

func (b failingBinarizer) BlackMatrix() (*bitutil.BitMatrix, error) {
	return nil, pdf417go.ErrNotFound
}

func (b failingBinarizer) LuminanceSource() pdf417go.LuminanceSource { return b.source }

func TestDecodeFallsBackToNextBinarizer(t *testing.T) {
	failing := func(source pdf417go.LuminanceSource) pdf417go.Binarizer { return failingBinarizer{source} }
	midRange, err := binarizer.Lookup(binarizer.Default)
	require.NoError(t, err)
	rec := &recorder{}

	r := NewReader(&pdf417go.DecodeOptions{Observer: rec}, failing, midRange)
	results, err := r.DecodeImage(context.Background(), testutil.Pad(symbolHI(t), 20))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "HI", string(results[0].Payload))
	assert.Len(t, rec.failures(pdf417go.StageBinarize), 1)
}

func TestDecodeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, parallel := range []bool{false, true} {
		r := NewReader(&pdf417go.DecodeOptions{Parallel: parallel})
		_, err := r.DecodeImage(ctx, stacked(t))
		assert.ErrorIs(t, err, context.Canceled, "parallel %v", parallel)
	}
}

func TestDecodeRecoversCandidatePanic(t *testing.T) {
	saved := decodeArea
	t.Cleanup(func() { decodeArea = saved })
	calls := 0
	decodeArea = func(m *bitutil.BitMatrix, area *detector.BarcodeArea, o pdf417go.Observer) (*internal.DecoderResult, error) {
		calls++
		if calls == 1 {
			var cells []int
			_ = cells[area.Left.CenterX]
		}
		return saved(m, area, o)
	}
	rec := &recorder{}

	r := NewReader(&pdf417go.DecodeOptions{Observer: rec})
	results, err := r.DecodeImage(context.Background(), stacked(t))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "OK", string(results[0].Payload))

	errs := rec.failures(pdf417go.StageResult)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "candidate 0 panicked")
}

func TestReaderIgnoresDecodeErrorsOfOtherCandidates(t *testing.T) {
	saved := decodeArea
	t.Cleanup(func() { decodeArea = saved })
	decodeArea = func(m *bitutil.BitMatrix, area *detector.BarcodeArea, o pdf417go.Observer) (*internal.DecoderResult, error) {
		if area.Left.CenterY < 60 {
			return nil, pdf417go.ErrChecksum
		}
		return saved(m, area, o)
	}

	results, err := NewReader(&pdf417go.DecodeOptions{Parallel: true}).DecodeImage(context.Background(), stacked(t))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "OK", string(results[0].Payload))
}

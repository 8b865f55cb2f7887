package decoder

import (
	"log/slog"

	pdf417go "github.com/ericlevine/pdf417go"
	"github.com/ericlevine/pdf417go/bitutil"
	"github.com/ericlevine/pdf417go/internal"
	"github.com/ericlevine/pdf417go/pdf417/detector"
)

var errorCorrection = NewErrorCorrection()

// DecodeArea runs indicator reading, transform solving, codeword sampling,
// error correction and data decoding for one located symbol. Every stage
// reports an event to observer; the first failure ends the candidate.
func DecodeArea(matrix *bitutil.BitMatrix, area *detector.BarcodeArea, observer pdf417go.Observer) (*internal.DecoderResult, error) {
	if observer == nil {
		observer = pdf417go.NopObserver
	}
	fail := func(stage pdf417go.Stage, err error) (*internal.DecoderResult, error) {
		observer.Observe(pdf417go.Event{Stage: stage, Message: "candidate abandoned", Err: err})
		return nil, err
	}

	ind, err := ReadIndicators(matrix, area)
	if err != nil {
		return fail(pdf417go.StageIndicators, err)
	}
	observer.Observe(pdf417go.Event{
		Stage:   pdf417go.StageIndicators,
		Message: "row indicators read",
		Attrs: []slog.Attr{
			slog.Int("columns", ind.Columns),
			slog.Int("rows", ind.Rows),
			slog.Int("ec_length", ind.ECLength),
			cornerAttr("top_left", ind.TopLeft),
			cornerAttr("top_right", ind.TopRight),
			cornerAttr("bottom_left", ind.BottomLeft),
			cornerAttr("bottom_right", ind.BottomRight),
		},
	})

	grid, err := NewGridTransform(ind)
	if err != nil {
		return fail(pdf417go.StageTransform, err)
	}

	sampled, err := SampleCodewords(matrix, area, grid, ind)
	if err != nil {
		return fail(pdf417go.StageCodewords, err)
	}
	observer.Observe(pdf417go.Event{
		Stage:   pdf417go.StageCodewords,
		Message: "codewords sampled",
		Attrs: []slog.Attr{
			slog.Int("codewords", len(sampled.Codewords)),
			slog.Int("erasures", sampled.Erasures),
		},
	})

	corrected, err := errorCorrection.Decode(sampled.Codewords, ind.ECLength)
	if err != nil {
		return fail(pdf417go.StageCorrect, err)
	}
	observer.Observe(pdf417go.Event{
		Stage:   pdf417go.StageCorrect,
		Message: "error correction passed",
		Attrs:   []slog.Attr{slog.Int("errors_corrected", corrected)},
	})

	dr, err := DecodeCodewords(sampled.Codewords, ind.ECLength)
	if err != nil {
		return fail(pdf417go.StageData, err)
	}
	dr.Columns = ind.Columns
	dr.Rows = ind.Rows
	dr.ErrorsCorrected = corrected
	dr.Erasures = sampled.Erasures
	for i, c := range ind.Corners() {
		dr.Corners[i] = internal.ResultPoint{X: float64(c.X), Y: float64(c.Y)}
	}
	observer.Observe(pdf417go.Event{
		Stage:   pdf417go.StageData,
		Message: "payload decoded",
		Attrs: []slog.Attr{
			slog.Int("bytes", len(dr.Payload)),
			slog.String("charset", dr.CharacterSet),
		},
	})
	return dr, nil
}

func cornerAttr(name string, c Corner) slog.Attr {
	return slog.Group(name, slog.Int("x", c.X), slog.Int("y", c.Y), slog.Int("row", c.Row))
}

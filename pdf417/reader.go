// Package pdf417 decodes every PDF417 symbol found in a raster image.
package pdf417

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	pdf417go "github.com/ericlevine/pdf417go"
	"github.com/ericlevine/pdf417go/binarizer"
	"github.com/ericlevine/pdf417go/bitutil"
	"github.com/ericlevine/pdf417go/internal"
	"github.com/ericlevine/pdf417go/pdf417/decoder"
	"github.com/ericlevine/pdf417go/pdf417/detector"
)

// decodeArea is replaced in tests.
var decodeArea = decoder.DecodeArea

// Reader decodes PDF417 symbols. It holds only its options and is safe for
// concurrent use.
type Reader struct {
	opts       pdf417go.DecodeOptions
	binarizers []binarizer.Factory
}

// NewReader creates a reader. Binarizers are tried in order until one of
// them yields at least one decoded symbol; with none given the reader uses
// the mid-range binarizer.
func NewReader(opts *pdf417go.DecodeOptions, binarizers ...binarizer.Factory) *Reader {
	r := &Reader{binarizers: slices.Clone(binarizers)}
	if opts != nil {
		r.opts = *opts
	}
	if len(r.binarizers) == 0 {
		factory, _ := binarizer.Lookup(binarizer.Default)
		r.binarizers = []binarizer.Factory{factory}
	}
	return r
}

// Decode decodes every symbol in an RGB raster. Finding no symbol is not an
// error: the result is then nil with a nil error, and the reason is reported
// to the observer.
func (r *Reader) Decode(raster *pdf417go.Raster) ([]*pdf417go.Result, error) {
	return r.DecodeContext(context.Background(), raster)
}

// DecodeContext is Decode with cancellation. The context is checked between
// candidate symbols; its error is the only error DecodeContext returns.
func (r *Reader) DecodeContext(ctx context.Context, raster *pdf417go.Raster) ([]*pdf417go.Result, error) {
	observer := r.opts.ObserverOrNop()
	source, err := pdf417go.NewRasterLuminanceSource(raster)
	if err != nil {
		observer.Observe(pdf417go.Event{Stage: pdf417go.StageBinarize, Message: "input rejected", Err: err})
		return nil, nil
	}

	for i, factory := range r.binarizers {
		matrix, err := factory(source).BlackMatrix()
		if err != nil {
			observer.Observe(pdf417go.Event{
				Stage:   pdf417go.StageBinarize,
				Message: "input rejected",
				Err:     err,
				Attrs:   []slog.Attr{slog.Int("binarizer", i)},
			})
			continue
		}
		results, err := r.DecodeMatrix(ctx, matrix)
		if err != nil {
			return nil, err
		}
		if len(results) > 0 {
			return results, nil
		}
	}
	return nil, nil
}

// DecodeImage converts img to a raster and decodes it.
func (r *Reader) DecodeImage(ctx context.Context, img image.Image) ([]*pdf417go.Result, error) {
	return r.DecodeContext(ctx, pdf417go.NewRasterFromImage(img))
}

// DecodeMatrix decodes an already binarized image. The matrix is not
// modified.
func (r *Reader) DecodeMatrix(ctx context.Context, matrix *bitutil.BitMatrix) ([]*pdf417go.Result, error) {
	observer := r.opts.ObserverOrNop()
	located, err := detector.Locate(matrix, observer)
	if errors.Is(err, pdf417go.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	results := make([]*pdf417go.Result, len(located.Areas))
	if r.opts.Parallel && len(located.Areas) > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.parallelism())
		for i := range located.Areas {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[i] = decodeCandidate(located, i, observer)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range located.Areas {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = decodeCandidate(located, i, observer)
		}
	}

	results = slices.DeleteFunc(results, func(res *pdf417go.Result) bool { return res == nil })
	if len(results) == 0 {
		return nil, nil
	}
	return results, nil
}

func (r *Reader) parallelism() int {
	if r.opts.MaxParallel > 0 {
		return r.opts.MaxParallel
	}
	return runtime.GOMAXPROCS(0)
}

// decodeCandidate runs steps from indicator reading to data decoding for one
// area. Failures, including panics, drop the candidate and are reported to
// observer.
func decodeCandidate(located *detector.Result, i int, observer pdf417go.Observer) (res *pdf417go.Result) {
	defer func() {
		if p := recover(); p != nil {
			observer.Observe(pdf417go.Event{
				Stage:   pdf417go.StageResult,
				Message: "candidate abandoned",
				Err:     fmt.Errorf("candidate %d panicked: %v", i, p),
			})
			res = nil
		}
	}()

	dr, err := decodeArea(located.Matrix, &located.Areas[i], observer)
	if err != nil {
		return nil
	}
	res = newResult(dr, located.Orientation)
	observer.Observe(pdf417go.Event{
		Stage:   pdf417go.StageResult,
		Message: "barcode decoded",
		Attrs: []slog.Attr{
			slog.Int("candidate", i),
			slog.String("orientation", res.Orientation.String()),
			slog.Int("bytes", len(res.Payload)),
			slog.Int("errors_corrected", res.ErrorsCorrected),
		},
	})
	return res
}

func newResult(dr *internal.DecoderResult, orientation pdf417go.Orientation) *pdf417go.Result {
	res := &pdf417go.Result{
		Payload:           dr.Payload,
		CharacterSet:      dr.CharacterSet,
		GLICharacterSet:   dr.GLICharacterSet,
		GLIGeneralPurpose: dr.GLIGeneralPurpose,
		GLIUserDefined:    dr.GLIUserDefined,
		Columns:           dr.Columns,
		Rows:              dr.Rows,
		ECLength:          dr.ECLength,
		ErrorsCorrected:   dr.ErrorsCorrected,
		Orientation:       orientation,
	}
	for i, p := range dr.Corners {
		res.Corners[i] = pdf417go.ResultPoint{X: p.X, Y: p.Y}
	}
	return res
}

// Package detector locates PDF417 symbols in a binarized image by their
// start and stop border patterns.
package detector

import (
	"fmt"
	"log/slog"

	pdf417go "github.com/ericlevine/pdf417go"
	"github.com/ericlevine/pdf417go/bitutil"
)

// orientations is the order the locator tries. Each state is entered from
// the previous one by rotating the matrix 180 degrees.
var orientations = [...]pdf417go.Orientation{
	pdf417go.OrientationNormal,
	pdf417go.OrientationRotated,
}

// Result is the outcome of a successful Locate.
type Result struct {
	// Matrix is the bitmap the areas refer to, rotated when Orientation is
	// OrientationRotated.
	Matrix      *bitutil.BitMatrix
	Areas       []BarcodeArea
	Orientation pdf417go.Orientation
}

// Locate finds every start/stop border pair in the matrix. When the image
// as given yields none, it tries once more on a copy rotated by 180 degrees.
// The input matrix is never modified.
func Locate(matrix *bitutil.BitMatrix, observer pdf417go.Observer) (*Result, error) {
	if observer == nil {
		observer = pdf417go.NopObserver
	}
	current := matrix
	for _, orientation := range orientations {
		if orientation == pdf417go.OrientationRotated {
			current = matrix.Clone()
			current.Rotate180()
		}
		areas, starts, stops := locateAreas(current)
		observer.Observe(pdf417go.Event{
			Stage:   pdf417go.StageLocate,
			Message: "border scan",
			Attrs: []slog.Attr{
				slog.String("orientation", orientation.String()),
				slog.Int("start_borders", starts),
				slog.Int("stop_borders", stops),
				slog.Int("areas", len(areas)),
			},
		})
		if len(areas) > 0 {
			return &Result{Matrix: current, Areas: areas, Orientation: orientation}, nil
		}
	}
	return nil, fmt.Errorf("%w: no start/stop border pair in either orientation", pdf417go.ErrNotFound)
}

// locateAreas runs one full top-to-bottom pass and pairs the retained start
// and stop borders. It also returns the retained border counts.
func locateAreas(matrix *bitutil.BitMatrix) ([]BarcodeArea, int, int) {
	scanner := newLineScanner(matrix)
	starts := newBorderClusters(&startSignature)
	stops := newBorderClusters(&stopSignature)
	for y := 0; y < matrix.Height(); y++ {
		bars := scanner.scan(y)
		if bars == nil {
			continue
		}
		starts.addRow(bars, y)
		stops.addRow(bars, y)
	}

	startClusters := starts.retained()
	stopClusters := stops.retained()
	var areas []BarcodeArea
	for _, startSymbols := range startClusters {
		start, ok := fitBorderPattern(startSymbols, false)
		if !ok {
			continue
		}
		for _, stopSymbols := range stopClusters {
			stop, ok := fitBorderPattern(stopSymbols, true)
			if !ok {
				continue
			}
			if area, ok := matchStartAndStop(start, stop); ok {
				areas = append(areas, area)
			}
		}
	}
	return areas, len(startClusters), len(stopClusters)
}

package detector

import "math"

// maxSymbolErrorRatio is the tolerated deviation of a measured symbol width
// from the average, as a fraction of the average.
const maxSymbolErrorRatio = 0.08

// maxBorderCos bounds |cos| of the angle between a border and the line
// joining the two border centres.
const maxBorderCos = 0.1

// BarcodeArea is a candidate symbol delimited by a start border on the left
// and a stop border on the right.
type BarcodeArea struct {
	Left           BorderPattern
	Right          BorderPattern
	AvgSymbolWidth float64
	MaxSymbolError float64
}

// matchStartAndStop pairs a start and a stop border when they bound a
// plausible symbol: both borders steeper than 45 degrees, the stop border to
// the right of the start border and both nearly perpendicular to the line
// through their centres.
func matchStartAndStop(start, stop BorderPattern) (BarcodeArea, bool) {
	if !start.slopeWithin45() || !stop.slopeWithin45() {
		return BarcodeArea{}, false
	}
	if stop.CenterX <= start.CenterX {
		return BarcodeArea{}, false
	}
	dx := stop.CenterX - start.CenterX
	dy := stop.CenterY - start.CenterY
	if math.Abs(start.cosTo(dx, dy)) > maxBorderCos || math.Abs(stop.cosTo(dx, dy)) > maxBorderCos {
		return BarcodeArea{}, false
	}
	avg := 0.5 * (start.AvgSymbolWidth + stop.AvgSymbolWidth)
	return BarcodeArea{
		Left:           start,
		Right:          stop,
		AvgSymbolWidth: avg,
		MaxSymbolError: maxSymbolErrorRatio * avg,
	}, true
}

// LeftX returns the x position of the start border on row y.
func (a *BarcodeArea) LeftX(y int) int { return a.Left.XAt(y) }

// RightX returns the x position of the stop border on row y.
func (a *BarcodeArea) RightX(y int) int { return a.Right.XAt(y) }

package detector

import "math"

// directionScale is the fixed DeltaY of a border direction vector.
const directionScale = 1000

// BorderPattern is a straight line fitted through a cluster of border
// symbols, on the inner edge of the start or stop column.
type BorderPattern struct {
	// CenterX, CenterY is a point on the border, shifted half a symbol
	// width along the rotation from the cluster centroid.
	CenterX, CenterY int
	// DeltaX, DeltaY is the border direction; DeltaY is always 1000.
	DeltaX, DeltaY int
	// Length is the magnitude of the least-squares sums. Zero means the
	// cluster had no vertical extent.
	Length float64
	// AvgSymbolWidth is the mean symbol width perpendicular to the border.
	AvgSymbolWidth float64
}

// fitBorderPattern fits a start border through the X2 edges of its symbols,
// or a stop border through the X1 edges.
func fitBorderPattern(symbols []BorderSymbol, stop bool) (BorderPattern, bool) {
	n := len(symbols)
	if n == 0 {
		return BorderPattern{}, false
	}
	edge := func(s BorderSymbol) int {
		if stop {
			return s.X1
		}
		return s.X2
	}

	var bp BorderPattern
	totalWidth := 0
	for _, s := range symbols {
		bp.CenterX += edge(s)
		bp.CenterY += s.Y
		totalWidth += s.X2 - s.X1
	}
	bp.CenterX /= n
	bp.CenterY /= n

	var sumXY, sumYY float64
	for _, s := range symbols {
		dx := float64(edge(s) - bp.CenterX)
		dy := float64(s.Y - bp.CenterY)
		sumXY += dx * dy
		sumYY += dy * dy
	}
	if sumYY == 0 {
		return BorderPattern{}, false
	}

	bp.Length = math.Hypot(sumXY, sumYY)
	cosRot := sumYY / bp.Length
	sinRot := sumXY / bp.Length
	horWidth := float64(totalWidth) / float64(n)
	bp.AvgSymbolWidth = cosRot * horWidth

	adj := 0.5 * sinRot * horWidth
	shiftX := int(math.Round(adj * sinRot))
	shiftY := int(math.Round(adj * cosRot))
	if stop {
		bp.CenterX += shiftX
		bp.CenterY += shiftY
	} else {
		bp.CenterX -= shiftX
		bp.CenterY -= shiftY
	}

	bp.DeltaY = directionScale
	bp.DeltaX = int(directionScale * sumXY / sumYY)
	return bp, true
}

// XAt returns the border's x position on row y.
func (bp BorderPattern) XAt(y int) int {
	return bp.CenterX + bp.DeltaX*(y-bp.CenterY)/bp.DeltaY
}

// slopeWithin45 reports whether the border is steeper than 45 degrees from
// horizontal.
func (bp BorderPattern) slopeWithin45() bool {
	return bp.DeltaY > abs(bp.DeltaX)
}

// cosTo returns the cosine of the angle between the border direction and
// the vector (dx, dy).
func (bp BorderPattern) cosTo(dx, dy int) float64 {
	dirLen := math.Hypot(float64(bp.DeltaX), float64(bp.DeltaY))
	vecLen := math.Hypot(float64(dx), float64(dy))
	return float64(bp.DeltaX*dx+bp.DeltaY*dy) / (dirLen * vecLen)
}

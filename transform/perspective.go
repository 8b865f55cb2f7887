// Package transform provides the perspective mapping from symbol grid
// coordinates to image pixels.
package transform

import (
	"errors"
	"math"
)

// ErrSingular is returned when the four correspondences do not determine a
// projective transform.
var ErrSingular = errors.New("transform: singular system")

// Point is a position in either grid or image space.
type Point struct {
	X, Y float64
}

// PerspectiveTransform implements a perspective transform in two dimensions.
//
//	x' = (a11*x + a21*y + a31) / (a13*x + a23*y + a33)
//	y' = (a12*x + a22*y + a32) / (a13*x + a23*y + a33)
type PerspectiveTransform struct {
	a11, a12, a13 float64
	a21, a22, a23 float64
	a31, a32, a33 float64
}

// SolveProjective finds the transform that maps src[i] onto dst[i] for the
// four point pairs, with a33 fixed at 1. The 8x8 linear system is solved by
// Gauss-Jordan elimination with partial pivoting.
func SolveProjective(src, dst [4]Point) (*PerspectiveTransform, error) {
	var m [8][9]float64
	for i := range 4 {
		c, r := src[i].X, src[i].Y
		x, y := dst[i].X, dst[i].Y
		m[i] = [9]float64{c, r, 1, 0, 0, 0, -c * x, -r * x, x}
		m[i+4] = [9]float64{0, 0, 0, c, r, 1, -c * y, -r * y, y}
	}
	h, err := gaussJordan(m)
	if err != nil {
		return nil, err
	}
	return &PerspectiveTransform{
		a11: h[0], a21: h[1], a31: h[2],
		a12: h[3], a22: h[4], a32: h[5],
		a13: h[6], a23: h[7], a33: 1,
	}, nil
}

func gaussJordan(m [8][9]float64) ([8]float64, error) {
	for col := range 8 {
		pivot := col
		for r := col + 1; r < 8; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[pivot][col]) {
				pivot = r
			}
		}
		if m[pivot][col] == 0 {
			return [8]float64{}, ErrSingular
		}
		m[col], m[pivot] = m[pivot], m[col]

		div := m[col][col]
		for c := col; c < 9; c++ {
			m[col][c] /= div
		}
		for r := range 8 {
			if r == col || m[r][col] == 0 {
				continue
			}
			factor := m[r][col]
			for c := col; c < 9; c++ {
				m[r][c] -= factor * m[col][c]
			}
		}
	}
	var h [8]float64
	for i := range 8 {
		h[i] = m[i][8]
	}
	return h, nil
}

// Transform maps a single point.
func (pt *PerspectiveTransform) Transform(x, y float64) (float64, float64) {
	denominator := pt.a13*x + pt.a23*y + pt.a33
	return (pt.a11*x + pt.a21*y + pt.a31) / denominator,
		(pt.a12*x + pt.a22*y + pt.a32) / denominator
}

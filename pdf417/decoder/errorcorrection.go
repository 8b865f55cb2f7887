package decoder

import (
	"fmt"

	pdf417go "github.com/ericlevine/pdf417go"
)

// ErrorCorrection repairs PDF417 codeword streams with Reed-Solomon decoding
// over a prime field: syndromes, the extended Euclidean algorithm, a Chien
// search for the error locations and Forney's formula for the magnitudes.
type ErrorCorrection struct {
	field *ModulusGF
}

// NewErrorCorrection creates an ErrorCorrection over GF(929).
func NewErrorCorrection() *ErrorCorrection {
	return &ErrorCorrection{field: GF929}
}

// Decode corrects codewords in place, treating the last ecLength entries as
// error correction codewords. It returns the number of codewords changed.
// At most ecLength/2 errors can be repaired; more yield ErrChecksum.
func (ec *ErrorCorrection) Decode(codewords []int, ecLength int) (int, error) {
	if ecLength < 2 || ecLength >= len(codewords) {
		return 0, fmt.Errorf("%w: %d error correction codewords in %d", pdf417go.ErrChecksum, ecLength, len(codewords))
	}
	poly := NewModulusPoly(ec.field, codewords)
	syndromes := make([]int, ecLength)
	clean := true
	for i := ecLength; i > 0; i-- {
		s := poly.EvaluateAt(ec.field.Exp(i))
		syndromes[ecLength-i] = s
		if s != 0 {
			clean = false
		}
	}
	if clean {
		return 0, nil
	}

	sigma, omega, err := ec.runEuclideanAlgorithm(
		ec.field.BuildMonomial(ecLength, 1), NewModulusPoly(ec.field, syndromes), ecLength)
	if err != nil {
		return 0, err
	}
	if sigma.Degree() > ecLength/2 {
		return 0, fmt.Errorf("%w: %d errors exceed capacity %d", pdf417go.ErrChecksum, sigma.Degree(), ecLength/2)
	}
	locations, err := ec.findErrorLocations(sigma)
	if err != nil {
		return 0, err
	}
	magnitudes, err := ec.findErrorMagnitudes(omega, sigma, locations)
	if err != nil {
		return 0, err
	}

	for i, loc := range locations {
		position := len(codewords) - 1 - ec.field.Log(loc)
		if position < 0 {
			return 0, fmt.Errorf("%w: error location outside the codeword stream", pdf417go.ErrChecksum)
		}
		codewords[position] = ec.field.Subtract(codewords[position], magnitudes[i])
	}
	return len(locations), nil
}

// runEuclideanAlgorithm returns the error locator sigma and error evaluator
// omega, both normalized so that sigma(0) == 1.
func (ec *ErrorCorrection) runEuclideanAlgorithm(a, b *ModulusPoly, R int) (*ModulusPoly, *ModulusPoly, error) {
	if a.Degree() < b.Degree() {
		a, b = b, a
	}
	rLast, r := a, b
	tLast, t := ec.field.Zero(), ec.field.One()

	for r.Degree() >= R/2 {
		rLastLast, tLastLast := rLast, tLast
		rLast, tLast = r, t
		if rLast.IsZero() {
			return nil, nil, fmt.Errorf("%w: euclidean algorithm terminated early", pdf417go.ErrChecksum)
		}

		// Divide rLastLast by rLast: quotient q, remainder r.
		r = rLastLast
		q := ec.field.Zero()
		dltInverse := ec.field.Inverse(rLast.GetCoefficient(rLast.Degree()))
		for r.Degree() >= rLast.Degree() && !r.IsZero() {
			degreeDiff := r.Degree() - rLast.Degree()
			scale := ec.field.Multiply(r.GetCoefficient(r.Degree()), dltInverse)
			q = q.Add(ec.field.BuildMonomial(degreeDiff, scale))
			r = r.Subtract(rLast.MultiplyByMonomial(degreeDiff, scale))
		}
		t = q.Multiply(tLast).Subtract(tLastLast).Negative()
	}

	sigmaTildeAtZero := t.GetCoefficient(0)
	if sigmaTildeAtZero == 0 {
		return nil, nil, fmt.Errorf("%w: sigma(0) is zero", pdf417go.ErrChecksum)
	}
	inverse := ec.field.Inverse(sigmaTildeAtZero)
	return t.MultiplyScalar(inverse), r.MultiplyScalar(inverse), nil
}

// findErrorLocations runs a Chien search over every non-zero field element
// and returns the inverses of the roots of the error locator.
func (ec *ErrorCorrection) findErrorLocations(errorLocator *ModulusPoly) ([]int, error) {
	numErrors := errorLocator.Degree()
	result := make([]int, 0, numErrors)
	for i := 1; i < ec.field.Size() && len(result) < numErrors; i++ {
		if errorLocator.EvaluateAt(i) == 0 {
			result = append(result, ec.field.Inverse(i))
		}
	}
	if len(result) != numErrors {
		return nil, fmt.Errorf("%w: locator of degree %d has %d roots", pdf417go.ErrChecksum, numErrors, len(result))
	}
	return result, nil
}

// findErrorMagnitudes applies Forney's formula with the formal derivative
// of the error locator.
func (ec *ErrorCorrection) findErrorMagnitudes(errorEvaluator, errorLocator *ModulusPoly, errorLocations []int) ([]int, error) {
	degree := errorLocator.Degree()
	if degree < 1 {
		return nil, nil
	}
	derivative := make([]int, degree)
	for i := 1; i <= degree; i++ {
		derivative[degree-i] = ec.field.Multiply(i, errorLocator.GetCoefficient(i))
	}
	formalDerivative := NewModulusPoly(ec.field, derivative)

	result := make([]int, len(errorLocations))
	for i, loc := range errorLocations {
		xiInverse := ec.field.Inverse(loc)
		denominator := formalDerivative.EvaluateAt(xiInverse)
		if denominator == 0 {
			return nil, fmt.Errorf("%w: repeated error location", pdf417go.ErrChecksum)
		}
		numerator := ec.field.Negate(errorEvaluator.EvaluateAt(xiInverse))
		result[i] = ec.field.Multiply(numerator, ec.field.Inverse(denominator))
	}
	return result, nil
}

package decoder

import (
	"strconv"
	"strings"
)

// ModulusPoly is a polynomial over a ModulusGF. Coefficients are stored from
// the highest degree down; leading zeros are stripped so the zero polynomial
// is the single coefficient 0.
type ModulusPoly struct {
	field        *ModulusGF
	coefficients []int
}

// NewModulusPoly creates a new ModulusPoly in the given field with the given
// coefficients.
func NewModulusPoly(field *ModulusGF, coefficients []int) *ModulusPoly {
	if len(coefficients) == 0 {
		panic("decoder: empty coefficients")
	}
	first := 0
	for first < len(coefficients)-1 && coefficients[first] == 0 {
		first++
	}
	if first > 0 {
		coefficients = append([]int(nil), coefficients[first:]...)
	}
	return &ModulusPoly{field: field, coefficients: coefficients}
}

// Coefficients returns the coefficients, highest degree first.
func (p *ModulusPoly) Coefficients() []int {
	return p.coefficients
}

// Degree returns the degree of this polynomial.
func (p *ModulusPoly) Degree() int {
	return len(p.coefficients) - 1
}

// IsZero returns true if this polynomial is the zero polynomial.
func (p *ModulusPoly) IsZero() bool {
	return p.coefficients[0] == 0
}

// GetCoefficient returns the coefficient of the x^degree term.
func (p *ModulusPoly) GetCoefficient(degree int) int {
	return p.coefficients[len(p.coefficients)-1-degree]
}

// EvaluateAt evaluates this polynomial at a. At 0 that is the constant term,
// at 1 the sum of the coefficients.
func (p *ModulusPoly) EvaluateAt(a int) int {
	switch a {
	case 0:
		return p.GetCoefficient(0)
	case 1:
		sum := 0
		for _, c := range p.coefficients {
			sum = p.field.Add(sum, c)
		}
		return sum
	}
	result := 0
	for _, c := range p.coefficients {
		result = p.field.Add(p.field.Multiply(a, result), c)
	}
	return result
}

func (p *ModulusPoly) sameField(other *ModulusPoly) {
	if p.field != other.field {
		panic("decoder: ModulusPolys do not have same ModulusGF field")
	}
}

// Add returns p + other.
func (p *ModulusPoly) Add(other *ModulusPoly) *ModulusPoly {
	p.sameField(other)
	if p.IsZero() {
		return other
	}
	if other.IsZero() {
		return p
	}
	long, short := p.coefficients, other.coefficients
	if len(long) < len(short) {
		long, short = short, long
	}
	sum := append([]int(nil), long...)
	offset := len(long) - len(short)
	for i, c := range short {
		sum[offset+i] = p.field.Add(sum[offset+i], c)
	}
	return NewModulusPoly(p.field, sum)
}

// Subtract returns p - other.
func (p *ModulusPoly) Subtract(other *ModulusPoly) *ModulusPoly {
	p.sameField(other)
	if other.IsZero() {
		return p
	}
	return p.Add(other.Negative())
}

// Multiply returns p * other.
func (p *ModulusPoly) Multiply(other *ModulusPoly) *ModulusPoly {
	p.sameField(other)
	if p.IsZero() || other.IsZero() {
		return p.field.Zero()
	}
	product := make([]int, len(p.coefficients)+len(other.coefficients)-1)
	for i, a := range p.coefficients {
		for j, b := range other.coefficients {
			product[i+j] = p.field.Add(product[i+j], p.field.Multiply(a, b))
		}
	}
	return NewModulusPoly(p.field, product)
}

// Negative returns -p.
func (p *ModulusPoly) Negative() *ModulusPoly {
	negative := make([]int, len(p.coefficients))
	for i, c := range p.coefficients {
		negative[i] = p.field.Negate(c)
	}
	return NewModulusPoly(p.field, negative)
}

// MultiplyScalar returns p * scalar.
func (p *ModulusPoly) MultiplyScalar(scalar int) *ModulusPoly {
	switch scalar {
	case 0:
		return p.field.Zero()
	case 1:
		return p
	}
	product := make([]int, len(p.coefficients))
	for i, c := range p.coefficients {
		product[i] = p.field.Multiply(c, scalar)
	}
	return NewModulusPoly(p.field, product)
}

// MultiplyByMonomial returns p * coefficient * x^degree.
func (p *ModulusPoly) MultiplyByMonomial(degree, coefficient int) *ModulusPoly {
	if degree < 0 {
		panic("decoder: negative degree")
	}
	if coefficient == 0 {
		return p.field.Zero()
	}
	product := make([]int, len(p.coefficients)+degree)
	for i, c := range p.coefficients {
		product[i] = p.field.Multiply(c, coefficient)
	}
	return NewModulusPoly(p.field, product)
}

// String renders the polynomial as "a x^n + ... + c".
func (p *ModulusPoly) String() string {
	if p.IsZero() {
		return "0"
	}
	var sb strings.Builder
	for degree := p.Degree(); degree >= 0; degree-- {
		c := p.GetCoefficient(degree)
		if c == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(" + ")
		}
		if degree == 0 || c != 1 {
			sb.WriteString(strconv.Itoa(c))
		}
		switch {
		case degree == 1:
			sb.WriteString("x")
		case degree > 1:
			sb.WriteString("x^" + strconv.Itoa(degree))
		}
	}
	return sb.String()
}

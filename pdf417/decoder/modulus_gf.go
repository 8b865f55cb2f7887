// Package decoder turns a located PDF417 symbol into its payload: it reads
// the row indicators, samples and corrects the codewords and parses the
// codeword stream.
package decoder

// ModulusGF is the prime field GF(modulus) with exponent and logarithm tables
// built from a generator. PDF417 error correction works over GF(929) with
// generator 3.
type ModulusGF struct {
	modulus  int
	expTable []int
	logTable []int
	zero     *ModulusPoly
	one      *ModulusPoly
}

// GF929 is the PDF417 field. It is a package-level var so other vars can
// depend on it through initialization order.
var GF929 = NewModulusGF(929, 3)

// NewModulusGF creates a new ModulusGF with the given modulus and generator.
func NewModulusGF(modulus, generator int) *ModulusGF {
	gf := &ModulusGF{
		modulus:  modulus,
		expTable: make([]int, modulus),
		logTable: make([]int, modulus),
	}
	for i, x := 0, 1; i < modulus; i, x = i+1, x*generator%modulus {
		gf.expTable[i] = x
	}
	// exp(modulus-1) wraps to 1 again; stop before it overwrites log(1).
	for i := 0; i < modulus-1; i++ {
		gf.logTable[gf.expTable[i]] = i
	}
	gf.zero = NewModulusPoly(gf, []int{0})
	gf.one = NewModulusPoly(gf, []int{1})
	return gf
}

// Zero returns the zero polynomial for this field.
func (gf *ModulusGF) Zero() *ModulusPoly { return gf.zero }

// One returns the one polynomial for this field.
func (gf *ModulusGF) One() *ModulusPoly { return gf.one }

// Size returns the number of field elements.
func (gf *ModulusGF) Size() int { return gf.modulus }

// BuildMonomial returns coefficient * x^degree.
func (gf *ModulusGF) BuildMonomial(degree, coefficient int) *ModulusPoly {
	if degree < 0 {
		panic("decoder: negative degree")
	}
	if coefficient == 0 {
		return gf.zero
	}
	coefficients := make([]int, degree+1)
	coefficients[0] = coefficient
	return NewModulusPoly(gf, coefficients)
}

// Add returns a + b.
func (gf *ModulusGF) Add(a, b int) int {
	return (a + b) % gf.modulus
}

// Subtract returns a - b.
func (gf *ModulusGF) Subtract(a, b int) int {
	return (a - b + gf.modulus) % gf.modulus
}

// Negate returns -a.
func (gf *ModulusGF) Negate(a int) int {
	return gf.Subtract(0, a)
}

// Exp returns generator^a for 0 <= a < modulus.
func (gf *ModulusGF) Exp(a int) int {
	return gf.expTable[a]
}

// Log returns the discrete logarithm of a. Panics if a is 0.
func (gf *ModulusGF) Log(a int) int {
	if a == 0 {
		panic("decoder: log(0)")
	}
	return gf.logTable[a]
}

// Inverse returns the multiplicative inverse of a. Panics if a is 0.
func (gf *ModulusGF) Inverse(a int) int {
	if a == 0 {
		panic("decoder: inverse(0)")
	}
	return gf.expTable[gf.modulus-1-gf.logTable[a]]
}

// Multiply returns a * b.
func (gf *ModulusGF) Multiply(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return gf.expTable[(gf.logTable[a]+gf.logTable[b])%(gf.modulus-1)]
}

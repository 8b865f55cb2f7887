package decoder

import (
	"math/rand"
	"testing"
)

func TestGF929Inverse(t *testing.T) {
	for x := 1; x < GF929.Size(); x++ {
		if got := GF929.Multiply(x, GF929.Inverse(x)); got != 1 {
			t.Fatalf("%d * inverse(%d) = %d, want 1", x, x, got)
		}
	}
}

func TestGF929ExpLog(t *testing.T) {
	for x := 1; x < GF929.Size(); x++ {
		if got := GF929.Exp(GF929.Log(x)); got != x {
			t.Fatalf("exp(log(%d)) = %d", x, got)
		}
	}
	if GF929.Exp(0) != 1 || GF929.Exp(1) != 3 {
		t.Errorf("generator: exp(0)=%d exp(1)=%d, want 1 and 3", GF929.Exp(0), GF929.Exp(1))
	}
}

func TestGF929MultiplyMatchesModularProduct(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		a, b := rng.Intn(929), rng.Intn(929)
		if got, want := GF929.Multiply(a, b), a*b%929; got != want {
			t.Fatalf("Multiply(%d, %d) = %d, want %d", a, b, got, want)
		}
	}
}

func TestModulusPolyEvaluateAtZeroAndOne(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i++ {
		coefficients := make([]int, 1+rng.Intn(20))
		sum := 0
		for j := range coefficients {
			coefficients[j] = rng.Intn(929)
			sum += coefficients[j]
		}
		constant := coefficients[len(coefficients)-1]
		p := NewModulusPoly(GF929, coefficients)

		if got := p.EvaluateAt(0); got != constant {
			t.Fatalf("%v: EvaluateAt(0) = %d, want %d", coefficients, got, constant)
		}
		if got := p.EvaluateAt(1); got != sum%929 {
			t.Fatalf("%v: EvaluateAt(1) = %d, want %d", coefficients, got, sum%929)
		}
	}
}

func TestModulusPolyStripsLeadingZeros(t *testing.T) {
	p := NewModulusPoly(GF929, []int{0, 0, 5, 1})
	if p.Degree() != 1 {
		t.Errorf("Degree() = %d, want 1", p.Degree())
	}
	zero := NewModulusPoly(GF929, []int{0, 0, 0})
	if !zero.IsZero() || zero.Degree() != 0 {
		t.Errorf("zero polynomial: IsZero=%v Degree=%d", zero.IsZero(), zero.Degree())
	}
	if zero.String() != "0" {
		t.Errorf("zero.String() = %q", zero.String())
	}
}

func TestModulusPolyMultiplyEvaluates(t *testing.T) {
	a := NewModulusPoly(GF929, []int{3, 0, 7})
	b := NewModulusPoly(GF929, []int{1, 928})
	prod := a.Multiply(b)
	for _, x := range []int{0, 1, 2, 100, 928} {
		want := GF929.Multiply(a.EvaluateAt(x), b.EvaluateAt(x))
		if got := prod.EvaluateAt(x); got != want {
			t.Errorf("(a*b)(%d) = %d, want %d", x, got, want)
		}
	}
}

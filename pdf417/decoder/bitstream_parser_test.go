package decoder

import (
	"bytes"
	"errors"
	"math/big"
	"math/rand"
	"testing"

	pdf417go "github.com/ericlevine/pdf417go"
)

// withLength prefixes data codewords with the length descriptor and appends
// ecLength zero codewords, which the parser never reads.
func withLength(ecLength int, data ...int) []int {
	cws := append([]int{len(data) + 1}, data...)
	return append(cws, make([]int, ecLength)...)
}

// packSixBytes is the inverse of the byte compaction grouping.
func packSixBytes(b []byte) []int {
	var v int64
	for _, c := range b {
		v = v<<8 | int64(c)
	}
	cws := make([]int, 5)
	for i := 4; i >= 0; i-- {
		cws[i] = int(v % 900)
		v /= 900
	}
	return cws
}

// packDigits is the inverse of the numeric compaction grouping.
func packDigits(digits string) []int {
	n, ok := new(big.Int).SetString("1"+digits, 10)
	if !ok {
		panic("bad digits " + digits)
	}
	var cws []int
	nine := big.NewInt(900)
	mod := new(big.Int)
	for n.Sign() > 0 {
		n.DivMod(n, nine, mod)
		cws = append([]int{int(mod.Int64())}, cws...)
	}
	return cws
}

func TestDecodeCodewordsText(t *testing.T) {
	tests := []struct {
		name string
		data []int
		want string
	}{
		{"upper", []int{900, 7*30 + 8}, "HI"},
		{"implicit text", []int{7*30 + 8}, "HI"},
		{"padded odd length", []int{900, 7*30 + 29}, "H"},
		{"space", []int{900, 7*30 + 26, 8*30 + 29}, "H I"},
		// latch lower, "ab"
		{"lower", []int{900, 27*30 + 0, 1*30 + 29}, "ab"},
		// latch mixed, "12", latch upper, "A"
		{"mixed", []int{900, 28*30 + 1, 2*30 + 28, 0*30 + 29}, "12A"},
		// shift punct ";" then upper again
		{"shift punct", []int{900, 29*30 + 0, 1*30 + 29}, ";B"},
		// lower "a", shift upper "B", back in lower "c"
		{"shift upper", []int{900, 27*30 + 0, 27*30 + 1, 2*30 + 29}, "aBc"},
		// mixed, latch punct "!", latch upper "Z"
		{"punct latch", []int{900, 28*30 + 25, 10*30 + 29, 25*30 + 29}, "!Z"},
		// sub-mode survives a following text segment
		{"mode persists", []int{900, 27*30 + 0, 900, 1*30 + 29}, "ab"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dr, err := DecodeCodewords(withLength(2, tc.data...), 2)
			if err != nil {
				t.Fatalf("DecodeCodewords: %v", err)
			}
			if string(dr.Payload) != tc.want {
				t.Errorf("payload = %q, want %q", dr.Payload, tc.want)
			}
		})
	}
}

func TestDecodeCodewordsHIExample(t *testing.T) {
	dr, err := DecodeCodewords([]int{4, 900, 218, 900, 0, 0}, 2)
	if err != nil {
		t.Fatalf("DecodeCodewords: %v", err)
	}
	if string(dr.Payload) != "HI" {
		t.Errorf("payload = %q, want HI", dr.Payload)
	}
	if dr.ECLength != 2 || dr.CharacterSet != "" {
		t.Errorf("ECLength = %d, CharacterSet = %q", dr.ECLength, dr.CharacterSet)
	}
}

func TestDecodeCodewordsByteRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 100; i++ {
		group := make([]byte, 6)
		rng.Read(group)
		tail := make([]byte, rng.Intn(5))
		rng.Read(tail)

		data := append([]int{901}, packSixBytes(group)...)
		for _, b := range tail {
			data = append(data, int(b))
		}
		dr, err := DecodeCodewords(withLength(4, data...), 4)
		if err != nil {
			t.Fatalf("DecodeCodewords: %v", err)
		}
		want := append(group, tail...)
		if len(tail) == 0 {
			// A segment that is an exact multiple of five keeps its last
			// group one byte per codeword.
			want = nil
			for _, cw := range packSixBytes(group) {
				want = append(want, byte(cw))
			}
		}
		if !bytes.Equal(dr.Payload, want) {
			t.Fatalf("payload = %x, want %x", dr.Payload, want)
		}
	}
}

func TestDecodeCodewordsByteForSix(t *testing.T) {
	group := []byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x7f}
	data := append([]int{924}, packSixBytes(group)...)
	dr, err := DecodeCodewords(withLength(2, data...), 2)
	if err != nil {
		t.Fatalf("DecodeCodewords: %v", err)
	}
	if !bytes.Equal(dr.Payload, group) {
		t.Errorf("payload = %x, want %x", dr.Payload, group)
	}
}

func TestDecodeCodewordsShiftToByte(t *testing.T) {
	dr, err := DecodeCodewords(withLength(2, 900, 7*30+8, 913, 0xe9, 8*30+29), 2)
	if err != nil {
		t.Fatalf("DecodeCodewords: %v", err)
	}
	if want := []byte("HI\xe9I"); !bytes.Equal(dr.Payload, want) {
		t.Errorf("payload = %q, want %q", dr.Payload, want)
	}
}

func TestDecodeCodewordsNumericRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	for i := 0; i < 100; i++ {
		digits := make([]byte, 1+rng.Intn(14))
		for j := range digits {
			digits[j] = byte('0' + rng.Intn(10))
		}
		data := append([]int{902}, packDigits(string(digits))...)
		dr, err := DecodeCodewords(withLength(2, data...), 2)
		if err != nil {
			t.Fatalf("%s: DecodeCodewords: %v", digits, err)
		}
		if string(dr.Payload) != string(digits) {
			t.Fatalf("payload = %q, want %q", dr.Payload, digits)
		}
	}
}

func TestDecodeCodewordsNumericLongRun(t *testing.T) {
	// 44 digits need 15 codewords; a second group follows.
	first := "12345678901234567890123456789012345678901234"
	second := "0042"
	data := append([]int{902}, packDigits(first)...)
	data = append(data, packDigits(second)...)
	if len(packDigits(first)) != maxNumericCodewords {
		t.Fatalf("fixture: first group is %d codewords", len(packDigits(first)))
	}
	dr, err := DecodeCodewords(withLength(2, data...), 2)
	if err != nil {
		t.Fatalf("DecodeCodewords: %v", err)
	}
	if string(dr.Payload) != first+second {
		t.Errorf("payload = %q, want %q", dr.Payload, first+second)
	}
}

func TestDecodeCodewordsGLI(t *testing.T) {
	dr, err := DecodeCodewords(withLength(2, 927, 9, 926, 1, 2, 925, 3, 900, 7*30+8), 2)
	if err != nil {
		t.Fatalf("DecodeCodewords: %v", err)
	}
	if dr.GLICharacterSet != 9 || dr.CharacterSet != "ISO-8859-7" {
		t.Errorf("character set = %d %q", dr.GLICharacterSet, dr.CharacterSet)
	}
	if dr.GLIGeneralPurpose != 900*2+2 {
		t.Errorf("general purpose = %d", dr.GLIGeneralPurpose)
	}
	if dr.GLIUserDefined != 810903 {
		t.Errorf("user defined = %d", dr.GLIUserDefined)
	}
	if string(dr.Payload) != "HI" {
		t.Errorf("payload = %q", dr.Payload)
	}
}

func TestDecodeCodewordsGLIUnknownPartFallsBack(t *testing.T) {
	dr, err := DecodeCodewords(withLength(2, 927, 13, 900, 7*30+8), 2)
	if err != nil {
		t.Fatalf("DecodeCodewords: %v", err)
	}
	if dr.CharacterSet != "ISO-8859-1" {
		t.Errorf("CharacterSet = %q, want ISO-8859-1", dr.CharacterSet)
	}
}

func TestDecodeCodewordsFormatErrors(t *testing.T) {
	tests := []struct {
		name      string
		codewords []int
		ecLength  int
	}{
		{"length mismatch", []int{5, 900, 1, 0, 0}, 2},
		{"empty", nil, 2},
		{"unsupported command", withLength(2, 928, 1), 2},
		{"GLI after data", withLength(2, 900, 7*30+8, 927, 3), 2},
		{"GLI operand missing", withLength(2, 926, 1), 2},
		{"shift upper then control", withLength(2, 900, 27*30+27, 28*30+29), 2},
		{"shift punct then control", withLength(2, 900, 29*30+29, 1*30+1), 2},
		{"numeric without leading one", withLength(2, 902, 2), 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeCodewords(tc.codewords, tc.ecLength)
			if !errors.Is(err, pdf417go.ErrFormat) {
				t.Errorf("err = %v, want ErrFormat", err)
			}
		})
	}
}

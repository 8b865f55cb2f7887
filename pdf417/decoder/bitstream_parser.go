package decoder

import (
	"fmt"
	"math/big"

	pdf417go "github.com/ericlevine/pdf417go"
	"github.com/ericlevine/pdf417go/charset"
	"github.com/ericlevine/pdf417go/internal"
)

// Text compaction sub-modes
type textMode int

const (
	textModeUpper textMode = iota
	textModeLower
	textModeMixed
	textModePunct
	textModeShiftUpper
	textModeShiftPunct
)

// Mode latch, shift and GLI command codewords
const (
	textCompactionModeLatch       = 900
	byteCompactionModeLatch       = 901
	numericCompactionModeLatch    = 902
	modeShiftToByteCompactionMode = 913
	byteCompactionModeLatch6      = 924
	gliUserDefined                = 925
	gliGeneralPurpose             = 926
	gliCharacterSet               = 927

	maxNumericCodewords = 15

	tcPL = 25
	tcLL = 27
	tcAS = 27
	tcML = 28
	tcAL = 28
	tcPS = 29
)

// Sub-code to character tables. A zero entry is a latch or shift.
var (
	upperChars = [30]byte{
		'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M',
		'N', 'O', 'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z', ' ',
	}
	lowerChars = [30]byte{
		'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j', 'k', 'l', 'm',
		'n', 'o', 'p', 'q', 'r', 's', 't', 'u', 'v', 'w', 'x', 'y', 'z', ' ',
	}
	mixedChars = tableOf("0123456789&\r\t,:#-.$/+%*=^", map[int]byte{26: ' '})
	punctChars = tableOf(";<>@[\\]_`~!\r\t,:\n-.$/\"|*()?{}'", nil)
)

func tableOf(chars string, extra map[int]byte) [30]byte {
	var t [30]byte
	copy(t[:], chars)
	for i, c := range extra {
		t[i] = c
	}
	return t
}

// exp900 holds powers of 900 as big.Int for numeric compaction decoding.
var exp900 [maxNumericCodewords]*big.Int

func init() {
	exp900[0] = big.NewInt(1)
	nine := big.NewInt(900)
	for i := 1; i < len(exp900); i++ {
		exp900[i] = new(big.Int).Mul(exp900[i-1], nine)
	}
}

// bitstreamParser walks the data codewords of one symbol. Its text sub-mode
// survives from one text segment to the next.
type bitstreamParser struct {
	codewords []int
	pos       int
	end       int
	mode      textMode
	payload   []byte
	result    *internal.DecoderResult
}

// DecodeCodewords demultiplexes corrected codewords into a payload. The
// first codeword is the data length including itself; ecLength codewords of
// error correction follow the data.
func DecodeCodewords(codewords []int, ecLength int) (*internal.DecoderResult, error) {
	if len(codewords) == 0 {
		return nil, fmt.Errorf("%w: empty codeword stream", pdf417go.ErrFormat)
	}
	end := codewords[0]
	if end+ecLength != len(codewords) {
		return nil, fmt.Errorf("%w: data length %d plus %d error correction codewords does not fill %d",
			pdf417go.ErrFormat, end, ecLength, len(codewords))
	}
	p := &bitstreamParser{
		codewords: codewords,
		pos:       1,
		end:       end,
		mode:      textModeUpper,
		result:    internal.NewDecoderResult(nil),
	}
	if err := p.parse(); err != nil {
		return nil, err
	}
	p.result.Payload = p.payload
	if p.result.Payload == nil {
		p.result.Payload = []byte{}
	}
	p.result.ECLength = ecLength
	return p.result, nil
}

func (p *bitstreamParser) parse() error {
	for p.pos < p.end {
		command := p.codewords[p.pos]
		p.pos++
		// Data before any command is text.
		if command < textCompactionModeLatch {
			command = textCompactionModeLatch
			p.pos--
		}

		segEnd := p.pos
		for segEnd < p.end && p.codewords[segEnd] < textCompactionModeLatch {
			segEnd++
		}
		segLen := segEnd - p.pos
		if segLen == 0 {
			continue
		}

		var err error
		switch command {
		case byteCompactionModeLatch:
			p.mode = textModeUpper
			p.byteCompaction(segLen, false)
		case byteCompactionModeLatch6:
			p.mode = textModeUpper
			p.byteCompaction(segLen, true)
		case modeShiftToByteCompactionMode:
			var b int
			if b, err = p.next("shift to byte"); err == nil {
				p.payload = append(p.payload, byte(b))
			}
		case textCompactionModeLatch:
			err = p.textCompaction(segLen)
		case numericCompactionModeLatch:
			p.mode = textModeUpper
			err = p.numericCompaction(segLen)
		case gliCharacterSet:
			err = p.gliCharacterSet()
		case gliGeneralPurpose:
			err = p.gliGeneralPurpose()
		case gliUserDefined:
			err = p.gliUserDefined()
		default:
			err = fmt.Errorf("%w: unsupported command codeword %d", pdf417go.ErrFormat, command)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// next consumes one data codeword.
func (p *bitstreamParser) next(what string) (int, error) {
	if p.pos >= p.end {
		return 0, fmt.Errorf("%w: %s operand missing", pdf417go.ErrFormat, what)
	}
	v := p.codewords[p.pos]
	p.pos++
	if v >= textCompactionModeLatch {
		return 0, fmt.Errorf("%w: %s operand %d", pdf417go.ErrFormat, what, v)
	}
	return v, nil
}

func (p *bitstreamParser) beforeData(what string) error {
	if len(p.payload) > 0 {
		return fmt.Errorf("%w: %s after payload data", pdf417go.ErrFormat, what)
	}
	return nil
}

func (p *bitstreamParser) gliCharacterSet() error {
	if err := p.beforeData("GLI character set"); err != nil {
		return err
	}
	g1, err := p.next("GLI character set")
	if err != nil {
		return err
	}
	p.result.GLICharacterSet = g1
	p.result.CharacterSet = charset.GLIName(g1)
	return nil
}

func (p *bitstreamParser) gliGeneralPurpose() error {
	if err := p.beforeData("GLI general purpose"); err != nil {
		return err
	}
	g2, err := p.next("GLI general purpose")
	if err != nil {
		return err
	}
	g3, err := p.next("GLI general purpose")
	if err != nil {
		return err
	}
	p.result.GLIGeneralPurpose = 900*(g2+1) + g3
	return nil
}

func (p *bitstreamParser) gliUserDefined() error {
	if err := p.beforeData("GLI user defined"); err != nil {
		return err
	}
	g4, err := p.next("GLI user defined")
	if err != nil {
		return err
	}
	p.result.GLIUserDefined = 810900 + g4
	return nil
}

// byteCompaction converts segLen codewords. Whole groups of five codewords
// become six bytes; when the segment is an exact multiple of five and six is
// false, the last group is emitted one byte per codeword.
func (p *bitstreamParser) byteCompaction(segLen int, six bool) {
	blocks := segLen / 5
	if segLen%5 == 0 && blocks >= 1 && !six {
		blocks--
	}
	for range blocks {
		var value int64
		for i := 0; i < 5; i++ {
			value = 900*value + int64(p.codewords[p.pos])
			p.pos++
		}
		for i := 0; i < 6; i++ {
			p.payload = append(p.payload, byte(value>>uint(40-8*i)))
		}
	}
	for range segLen - 5*blocks {
		p.payload = append(p.payload, byte(p.codewords[p.pos]))
		p.pos++
	}
}

// numericCompaction converts segLen codewords in groups of up to 15.
func (p *bitstreamParser) numericCompaction(segLen int) error {
	for segLen > 0 {
		count := min(segLen, maxNumericCodewords)
		s, err := decodeBase900toBase10(p.codewords[p.pos:p.pos+count], count)
		if err != nil {
			return err
		}
		p.payload = append(p.payload, s...)
		p.pos += count
		segLen -= count
	}
	return nil
}

// decodeBase900toBase10 converts numeric compaction codewords from base 900
// to base 10 and strips the leading 1.
func decodeBase900toBase10(codewords []int, count int) (string, error) {
	result := new(big.Int)
	for i := 0; i < count; i++ {
		term := new(big.Int).Mul(exp900[count-i-1], big.NewInt(int64(codewords[i])))
		result.Add(result, term)
	}
	resultString := result.String()
	if len(resultString) == 0 || resultString[0] != '1' {
		return "", fmt.Errorf("%w: numeric group %s lacks its leading 1", pdf417go.ErrFormat, resultString)
	}
	return resultString[1:], nil
}

// textCompaction decodes segLen codewords of two sub-codes each. A final
// sub-code 29 pads the segment.
func (p *bitstreamParser) textCompaction(segLen int) error {
	textLen := 2 * segLen
	saved := textModeUpper
	var code, next int
	for i := 0; i < textLen; i++ {
		if i&1 == 0 {
			cw := p.codewords[p.pos]
			p.pos++
			code, next = cw/30, cw%30
		} else {
			code = next
			if code == tcPS && i == textLen-1 {
				break
			}
		}

		var ch byte
		switch p.mode {
		case textModeUpper:
			if ch = upperChars[code]; ch == 0 {
				switch code {
				case tcLL:
					p.mode = textModeLower
				case tcML:
					p.mode = textModeMixed
				default:
					saved, p.mode = p.mode, textModeShiftPunct
				}
			}
		case textModeLower:
			if ch = lowerChars[code]; ch == 0 {
				switch code {
				case tcAS:
					p.mode = textModeShiftUpper
				case tcML:
					p.mode = textModeMixed
				default:
					saved, p.mode = p.mode, textModeShiftPunct
				}
			}
		case textModeMixed:
			if ch = mixedChars[code]; ch == 0 {
				switch code {
				case tcPL:
					p.mode = textModePunct
				case tcLL:
					p.mode = textModeLower
				case tcAL:
					p.mode = textModeUpper
				default:
					saved, p.mode = p.mode, textModeShiftPunct
				}
			}
		case textModePunct:
			if ch = punctChars[code]; ch == 0 {
				p.mode = textModeUpper
			}
		case textModeShiftUpper:
			p.mode = textModeLower
			if ch = upperChars[code]; ch == 0 {
				return fmt.Errorf("%w: sub-code %d after shift to upper", pdf417go.ErrFormat, code)
			}
		case textModeShiftPunct:
			p.mode = saved
			if ch = punctChars[code]; ch == 0 {
				return fmt.Errorf("%w: sub-code %d after shift to punctuation", pdf417go.ErrFormat, code)
			}
		}
		if ch != 0 {
			p.payload = append(p.payload, ch)
		}
	}
	return nil
}

package encoding

import "unicode"

// ctype bits for the 7-bit ASCII table.
const (
	bitAlpha uint16 = 1 << iota
	bitBlank
	bitCntrl
	bitDigit
	bitGraph
	bitLower
	bitPrint
	bitPunct
	bitSpace
	bitUpper
	bitXDigit
	bitWord
)

var asciiCtypeTable [128]uint16

func init() {
	for c := 0; c < 128; c++ {
		var m uint16
		b := byte(c)
		isUpper := 'A' <= b && b <= 'Z'
		isLower := 'a' <= b && b <= 'z'
		isDigit := '0' <= b && b <= '9'
		if isUpper || isLower {
			m |= bitAlpha
		}
		if isUpper {
			m |= bitUpper
		}
		if isLower {
			m |= bitLower
		}
		if isDigit {
			m |= bitDigit
		}
		if isDigit || ('a' <= b && b <= 'f') || ('A' <= b && b <= 'F') {
			m |= bitXDigit
		}
		if b == ' ' || b == '\t' {
			m |= bitBlank
		}
		if b < 0x20 || b == 0x7f {
			m |= bitCntrl
		}
		if b == ' ' || ('\t' <= b && b <= '\r') {
			m |= bitSpace
		}
		if 0x21 <= b && b <= 0x7e {
			m |= bitGraph
		}
		if 0x20 <= b && b <= 0x7e {
			m |= bitPrint
		}
		if m&bitGraph != 0 && !isUpper && !isLower && !isDigit {
			m |= bitPunct
		}
		if isUpper || isLower || isDigit || b == '_' {
			m |= bitWord
		}
		asciiCtypeTable[c] = m
	}
}

// asciiIsCtype answers ctype queries for code points below 128.
func asciiIsCtype(r rune, c Ctype) bool {
	if r < 0 || r >= 128 {
		return false
	}
	m := asciiCtypeTable[r]
	switch c {
	case CtypeNewline:
		return r == '\n'
	case CtypeAlpha:
		return m&bitAlpha != 0
	case CtypeBlank:
		return m&bitBlank != 0
	case CtypeCntrl:
		return m&bitCntrl != 0
	case CtypeDigit:
		return m&bitDigit != 0
	case CtypeGraph:
		return m&bitGraph != 0
	case CtypeLower:
		return m&bitLower != 0
	case CtypePrint:
		return m&bitPrint != 0
	case CtypePunct:
		return m&bitPunct != 0
	case CtypeSpace:
		return m&bitSpace != 0
	case CtypeUpper:
		return m&bitUpper != 0
	case CtypeXDigit:
		return m&bitXDigit != 0
	case CtypeWord:
		return m&bitWord != 0
	case CtypeAlnum:
		return m&(bitAlpha|bitDigit) != 0
	case CtypeASCII:
		return true
	}
	return false
}

// asciiEncoding is US-ASCII with bytes 0x80-0xFF passed through as
// single-byte characters that belong to no ctype.
type asciiEncoding struct{}

// ASCII is the US-ASCII encoding.
var ASCII Encoding = asciiEncoding{}

func (asciiEncoding) Name() string      { return "US-ASCII" }
func (asciiEncoding) MinLen() int       { return 1 }
func (asciiEncoding) MaxLen() int       { return 1 }
func (asciiEncoding) MaxCodePoint() rune { return 0xff }

func (asciiEncoding) CharLen(b []byte) int {
	if len(b) == 0 {
		return 0
	}
	return 1
}

func (asciiEncoding) Decode(b []byte) (rune, int) {
	if len(b) == 0 {
		return unicode.ReplacementChar, 0
	}
	return rune(b[0]), 1
}

func (asciiEncoding) AppendRune(dst []byte, r rune) ([]byte, bool) {
	if r < 0 || r > 0xff {
		return dst, false
	}
	return append(dst, byte(r)), true
}

func (asciiEncoding) Invalid(b []byte) (int, bool) { return -1, false }

func (asciiEncoding) LeftAdjustCharHead(b []byte, s int) int { return s }

func (asciiEncoding) IsCtype(r rune, c Ctype) bool { return asciiIsCtype(r, c) }

func (asciiEncoding) SimpleFold(r rune) rune {
	switch {
	case 'A' <= r && r <= 'Z':
		return r + 'a' - 'A'
	case 'a' <= r && r <= 'z':
		return r - ('a' - 'A')
	}
	return r
}

func (e asciiEncoding) Property(name string) (Predicate, bool) {
	return ctypeProperty(e, name)
}

// ctypeProperty resolves POSIX bracket names as properties.
func ctypeProperty(enc Encoding, name string) (Predicate, bool) {
	ct, ok := CtypeByName(name)
	if !ok {
		return nil, false
	}
	return func(r rune) bool { return enc.IsCtype(r, ct) }, true
}

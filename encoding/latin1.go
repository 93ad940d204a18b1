package encoding

import "unicode"

type latin1Encoding struct{}

// ISO8859_1 is the ISO-8859-1 (Latin-1) encoding. Code points equal byte
// values, so character types above 0x7F come from the Unicode tables.
var ISO8859_1 Encoding = latin1Encoding{}

func (latin1Encoding) Name() string      { return "ISO-8859-1" }
func (latin1Encoding) MinLen() int       { return 1 }
func (latin1Encoding) MaxLen() int       { return 1 }
func (latin1Encoding) MaxCodePoint() rune { return 0xff }

func (latin1Encoding) CharLen(b []byte) int {
	if len(b) == 0 {
		return 0
	}
	return 1
}

func (latin1Encoding) Decode(b []byte) (rune, int) {
	if len(b) == 0 {
		return unicode.ReplacementChar, 0
	}
	return rune(b[0]), 1
}

func (latin1Encoding) AppendRune(dst []byte, r rune) ([]byte, bool) {
	if r < 0 || r > 0xff {
		return dst, false
	}
	return append(dst, byte(r)), true
}

func (latin1Encoding) Invalid(b []byte) (int, bool)            { return -1, false }
func (latin1Encoding) LeftAdjustCharHead(b []byte, s int) int { return s }

func (latin1Encoding) IsCtype(r rune, c Ctype) bool {
	if r < 128 {
		return asciiIsCtype(r, c)
	}
	if r > 0xff {
		return false
	}
	return unicodeIsCtype(r, c)
}

func (latin1Encoding) SimpleFold(r rune) rune { return foldWithin(r, 0xff) }

func (e latin1Encoding) Property(name string) (Predicate, bool) {
	return ctypeProperty(e, name)
}

// Package encoding defines the character-encoding capability the regex
// engine is parameterized over.
//
// The compiler and the matcher never branch on a concrete encoding. They ask
// an Encoding for character boundaries, code points, character types and
// case-fold orbits. Implementations for ASCII, ISO-8859-1, UTF-8, EUC-JP and
// Shift_JIS ship with the package; callers may provide their own.
//
// Example:
//
//	enc := encoding.UTF8
//	r, n := enc.Decode([]byte("é!"))
//	// r == 'é', n == 2
package encoding

import "unicode"

// Ctype identifies a character type class such as word or digit.
// The values mirror the POSIX bracket names plus Word, Newline and ASCII.
type Ctype uint8

const (
	CtypeNewline Ctype = iota
	CtypeAlpha
	CtypeBlank
	CtypeCntrl
	CtypeDigit
	CtypeGraph
	CtypeLower
	CtypePrint
	CtypePunct
	CtypeSpace
	CtypeUpper
	CtypeXDigit
	CtypeWord
	CtypeAlnum
	CtypeASCII
)

var ctypeNames = [...]string{
	CtypeNewline: "newline",
	CtypeAlpha:   "alpha",
	CtypeBlank:   "blank",
	CtypeCntrl:   "cntrl",
	CtypeDigit:   "digit",
	CtypeGraph:   "graph",
	CtypeLower:   "lower",
	CtypePrint:   "print",
	CtypePunct:   "punct",
	CtypeSpace:   "space",
	CtypeUpper:   "upper",
	CtypeXDigit:  "xdigit",
	CtypeWord:    "word",
	CtypeAlnum:   "alnum",
	CtypeASCII:   "ascii",
}

// String returns the POSIX bracket name of the ctype.
func (c Ctype) String() string {
	if int(c) < len(ctypeNames) {
		return ctypeNames[c]
	}
	return "unknown"
}

// CtypeByName resolves a POSIX bracket or property name (case-insensitive,
// ASCII only) to a Ctype.
func CtypeByName(name string) (Ctype, bool) {
	for i, n := range ctypeNames {
		if asciiEqualFold(n, name) {
			return Ctype(i), true
		}
	}
	return 0, false
}

// Predicate reports whether a code point belongs to a character property.
type Predicate func(r rune) bool

// Encoding is the character-encoding capability consumed by the compiler
// and the match engine.
//
// All offsets are byte offsets. Implementations must be safe for concurrent
// use; the built-in ones are stateless.
type Encoding interface {
	// Name returns the canonical encoding name, e.g. "UTF-8".
	Name() string

	// MinLen and MaxLen bound the byte length of one character.
	MinLen() int
	MaxLen() int

	// CharLen returns the byte length of the character starting at b[0].
	// It returns 1 for an invalid or truncated sequence and 0 for empty b.
	CharLen(b []byte) int

	// Decode returns the code point starting at b[0] and its byte length.
	// Invalid sequences decode as unicode.ReplacementChar with length 1.
	Decode(b []byte) (rune, int)

	// AppendRune appends the encoding of r to dst. ok is false when r is
	// not representable.
	AppendRune(dst []byte, r rune) (out []byte, ok bool)

	// Invalid returns the offset of the first malformed sequence in b, or
	// -1 when b is well formed. truncated reports a sequence cut short by
	// the end of b.
	Invalid(b []byte) (off int, truncated bool)

	// LeftAdjustCharHead returns the start of the character that contains
	// byte offset s, where b[0] is the start of the string.
	LeftAdjustCharHead(b []byte, s int) int

	// IsCtype reports whether r belongs to ctype c.
	IsCtype(r rune, c Ctype) bool

	// SimpleFold iterates the case-fold orbit of r, like unicode.SimpleFold,
	// restricted to code points representable in the encoding.
	SimpleFold(r rune) rune

	// Property resolves a \p{...} property name.
	Property(name string) (Predicate, bool)

	// MaxCodePoint is the largest code point the encoding can represent.
	MaxCodePoint() rune
}

// PrevCharHead returns the start of the character before offset s, or -1
// when s is at the start of b.
func PrevCharHead(enc Encoding, b []byte, s int) int {
	if s <= 0 {
		return -1
	}
	return enc.LeftAdjustCharHead(b, s-1)
}

// RightAdjustCharHead returns s when it starts a character, else the start
// of the next character.
func RightAdjustCharHead(enc Encoding, b []byte, s int) int {
	if s <= 0 || s >= len(b) {
		return s
	}
	h := enc.LeftAdjustCharHead(b, s)
	if h < s {
		h += max(1, enc.CharLen(b[h:]))
	}
	return h
}

// Fold returns the canonical case-fold representative of r: the smallest
// code point of its orbit.
func Fold(enc Encoding, r rune) rune {
	min := r
	for f := enc.SimpleFold(r); f != r; f = enc.SimpleFold(f) {
		if f < min {
			min = f
		}
	}
	return min
}

// EqualFold reports whether a and b are equal under simple case folding.
func EqualFold(enc Encoding, a, b rune) bool {
	if a == b {
		return true
	}
	for f := enc.SimpleFold(a); f != a; f = enc.SimpleFold(f) {
		if f == b {
			return true
		}
	}
	return false
}

// Orbit returns every member of r's case-fold orbit, r first.
func Orbit(enc Encoding, r rune) []rune {
	out := []rune{r}
	for f := enc.SimpleFold(r); f != r; f = enc.SimpleFold(f) {
		out = append(out, f)
	}
	return out
}

// IsWordAt reports whether the character starting at b[pos] is a word
// character. Out-of-range positions are not word characters.
func IsWordAt(enc Encoding, b []byte, pos int) bool {
	if pos < 0 || pos >= len(b) {
		return false
	}
	r, _ := enc.Decode(b[pos:])
	return enc.IsCtype(r, CtypeWord)
}

// foldWithin steps r's unicode orbit, skipping members above max.
func foldWithin(r, max rune) rune {
	if r > max {
		return r
	}
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if f <= max {
			return f
		}
	}
	return r
}

func asciiEqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

package encoding

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type utf8Encoding struct{}

// UTF8 is the UTF-8 encoding with Unicode character types and simple case
// folding.
var UTF8 Encoding = utf8Encoding{}

func (utf8Encoding) Name() string      { return "UTF-8" }
func (utf8Encoding) MinLen() int       { return 1 }
func (utf8Encoding) MaxLen() int       { return utf8.UTFMax }
func (utf8Encoding) MaxCodePoint() rune { return unicode.MaxRune }

func (utf8Encoding) CharLen(b []byte) int {
	if len(b) == 0 {
		return 0
	}
	if b[0] < utf8.RuneSelf {
		return 1
	}
	_, n := utf8.DecodeRune(b)
	return n
}

func (utf8Encoding) Decode(b []byte) (rune, int) {
	if len(b) == 0 {
		return unicode.ReplacementChar, 0
	}
	if b[0] < utf8.RuneSelf {
		return rune(b[0]), 1
	}
	return utf8.DecodeRune(b)
}

func (utf8Encoding) AppendRune(dst []byte, r rune) ([]byte, bool) {
	if !utf8.ValidRune(r) {
		return dst, false
	}
	return utf8.AppendRune(dst, r), true
}

func (utf8Encoding) Invalid(b []byte) (int, bool) {
	for i := 0; i < len(b); {
		if b[i] < utf8.RuneSelf {
			i++
			continue
		}
		r, n := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && n <= 1 {
			return i, !utf8.FullRune(b[i:])
		}
		i += n
	}
	return -1, false
}

func (utf8Encoding) LeftAdjustCharHead(b []byte, s int) int {
	if s <= 0 || s >= len(b) {
		return s
	}
	p := s
	for p > 0 && s-p < utf8.UTFMax-1 && !utf8.RuneStart(b[p]) {
		p--
	}
	// Stray continuation bytes are characters of their own.
	if _, n := utf8.DecodeRune(b[p:]); p+n <= s {
		return s
	}
	return p
}

func (utf8Encoding) IsCtype(r rune, c Ctype) bool {
	if r < 128 {
		return asciiIsCtype(r, c)
	}
	return unicodeIsCtype(r, c)
}

func (utf8Encoding) SimpleFold(r rune) rune {
	if r < 0 || r > unicode.MaxRune {
		return r
	}
	return unicode.SimpleFold(r)
}

// Property resolves POSIX names, general categories ("L", "Lu", ...) and
// scripts ("Greek", "Han", ...). Matching is case-insensitive and ignores
// '_', '-' and ' ' the way Oniguruma's property names do.
func (e utf8Encoding) Property(name string) (Predicate, bool) {
	if p, ok := ctypeProperty(e, name); ok {
		return p, true
	}
	if t := lookupRangeTable(name); t != nil {
		return func(r rune) bool { return unicode.Is(t, r) }, true
	}
	switch normalizePropertyName(name) {
	case "any":
		return func(rune) bool { return true }, true
	case "assigned":
		return func(r rune) bool { return !unicode.Is(unicode.Cn, r) && isAssigned(r) }, true
	}
	return nil, false
}

// unicodeIsCtype answers ctype queries for non-ASCII code points.
func unicodeIsCtype(r rune, c Ctype) bool {
	switch c {
	case CtypeNewline:
		return false
	case CtypeAlpha:
		return isAlphabetic(r)
	case CtypeBlank:
		return unicode.Is(unicode.Zs, r)
	case CtypeCntrl:
		return unicode.Is(unicode.Cc, r) || unicode.Is(unicode.Cf, r)
	case CtypeDigit:
		return unicode.Is(unicode.Nd, r)
	case CtypeGraph:
		return isGraph(r)
	case CtypeLower:
		return unicode.IsLower(r)
	case CtypePrint:
		return isGraph(r) || unicode.Is(unicode.Zs, r)
	case CtypePunct:
		return unicode.IsPunct(r)
	case CtypeSpace:
		return unicode.IsSpace(r)
	case CtypeUpper:
		return unicode.IsUpper(r)
	case CtypeXDigit:
		return false
	case CtypeWord:
		return isAlphabetic(r) || unicode.Is(unicode.M, r) || unicode.Is(unicode.Nd, r) || unicode.Is(unicode.Pc, r)
	case CtypeAlnum:
		return isAlphabetic(r) || unicode.Is(unicode.Nd, r)
	case CtypeASCII:
		return false
	}
	return false
}

func isAlphabetic(r rune) bool {
	return unicode.IsLetter(r) || unicode.Is(unicode.Nl, r) || unicode.Is(unicode.Other_Alphabetic, r)
}

func isGraph(r rune) bool {
	if unicode.IsSpace(r) {
		return false
	}
	return unicode.IsGraphic(r) || unicode.Is(unicode.Cf, r) || unicode.Is(unicode.Co, r)
}

func isAssigned(r rune) bool {
	for _, t := range unicode.Categories {
		if unicode.Is(t, r) {
			return true
		}
	}
	return false
}

func normalizePropertyName(name string) string {
	var sb strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '_' || c == '-' || c == ' ':
			continue
		case 'A' <= c && c <= 'Z':
			c += 'a' - 'A'
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

func lookupRangeTable(name string) *unicode.RangeTable {
	if t, ok := unicode.Categories[name]; ok {
		return t
	}
	if t, ok := unicode.Scripts[name]; ok {
		return t
	}
	want := normalizePropertyName(name)
	for k, t := range unicode.Categories {
		if normalizePropertyName(k) == want {
			return t
		}
	}
	for k, t := range unicode.Scripts {
		if normalizePropertyName(k) == want {
			return t
		}
	}
	return nil
}

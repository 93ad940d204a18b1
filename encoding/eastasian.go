package encoding

import "unicode"

// multiByte implements the shared parts of the legacy East Asian encodings.
// Code points are the raw byte sequence read big-endian, as Oniguruma does.
// Multi-byte characters count as word, graph and print characters.
type multiByte struct {
	name    string
	maxLen  int
	charLen func(b []byte) int
	valid   func(b []byte) (n int, truncated bool)
}

// EUCJP is the EUC-JP encoding.
var EUCJP Encoding = &multiByte{
	name:    "EUC-JP",
	maxLen:  3,
	charLen: eucjpLen,
	valid:   eucjpValid,
}

// ShiftJIS is the Shift_JIS encoding.
var ShiftJIS Encoding = &multiByte{
	name:    "Shift_JIS",
	maxLen:  2,
	charLen: sjisLen,
	valid:   sjisValid,
}

func eucjpLen(b []byte) int {
	switch c := b[0]; {
	case c < 0x80:
		return 1
	case c == 0x8f:
		return 3
	case c == 0x8e, 0xa1 <= c && c <= 0xfe:
		return 2
	}
	return 1
}

func eucjpValid(b []byte) (int, bool) {
	n := eucjpLen(b)
	if n == 1 {
		if b[0] >= 0x80 {
			return 0, false
		}
		return 1, false
	}
	if len(b) < n {
		return 0, true
	}
	for _, t := range b[1:n] {
		if t < 0xa1 || t == 0xff {
			return 0, false
		}
	}
	return n, false
}

func sjisLen(b []byte) int {
	c := b[0]
	if (0x81 <= c && c <= 0x9f) || (0xe0 <= c && c <= 0xfc) {
		return 2
	}
	return 1
}

func sjisValid(b []byte) (int, bool) {
	if sjisLen(b) == 1 {
		if b[0] == 0x80 || b[0] >= 0xfd {
			return 0, false
		}
		return 1, false
	}
	if len(b) < 2 {
		return 0, true
	}
	t := b[1]
	if t < 0x40 || t == 0x7f || t > 0xfc {
		return 0, false
	}
	return 2, false
}

func (m *multiByte) Name() string      { return m.name }
func (m *multiByte) MinLen() int       { return 1 }
func (m *multiByte) MaxLen() int       { return m.maxLen }
func (m *multiByte) MaxCodePoint() rune { return 0xffffff }

func (m *multiByte) CharLen(b []byte) int {
	if len(b) == 0 {
		return 0
	}
	n := m.charLen(b)
	if n > len(b) {
		return 1
	}
	return n
}

func (m *multiByte) Decode(b []byte) (rune, int) {
	if len(b) == 0 {
		return unicode.ReplacementChar, 0
	}
	n := m.CharLen(b)
	var r rune
	for _, c := range b[:n] {
		r = r<<8 | rune(c)
	}
	return r, n
}

func (m *multiByte) AppendRune(dst []byte, r rune) ([]byte, bool) {
	switch {
	case r < 0 || r > 0xffffff:
		return dst, false
	case r > 0xffff:
		return append(dst, byte(r>>16), byte(r>>8), byte(r)), true
	case r > 0xff:
		return append(dst, byte(r>>8), byte(r)), true
	}
	return append(dst, byte(r)), true
}

func (m *multiByte) Invalid(b []byte) (int, bool) {
	for i := 0; i < len(b); {
		n, truncated := m.valid(b[i:])
		if n == 0 {
			return i, truncated
		}
		i += n
	}
	return -1, false
}

// LeftAdjustCharHead scans forward from the start of b; lead and trail byte
// ranges overlap in both encodings so a backward scan is ambiguous.
func (m *multiByte) LeftAdjustCharHead(b []byte, s int) int {
	if s <= 0 || s >= len(b) {
		return s
	}
	p := 0
	for {
		n := m.CharLen(b[p:])
		if p+n > s {
			return p
		}
		p += n
	}
}

func (m *multiByte) IsCtype(r rune, c Ctype) bool {
	if r < 128 {
		return asciiIsCtype(r, c)
	}
	if r > 0xff {
		return c == CtypeWord || c == CtypeGraph || c == CtypePrint
	}
	return false
}

func (m *multiByte) SimpleFold(r rune) rune {
	switch {
	case 'A' <= r && r <= 'Z':
		return r + 'a' - 'A'
	case 'a' <= r && r <= 'z':
		return r - ('a' - 'A')
	}
	return r
}

func (m *multiByte) Property(name string) (Predicate, bool) {
	return ctypeProperty(m, name)
}

package encoding

import (
	"testing"
	"unicode"
)

func TestCharLen(t *testing.T) {
	tests := []struct {
		name string
		enc  Encoding
		in   []byte
		want int
	}{
		{"utf8 ascii", UTF8, []byte("a"), 1},
		{"utf8 two byte", UTF8, []byte("é"), 2},
		{"utf8 three byte", UTF8, []byte("日"), 3},
		{"utf8 four byte", UTF8, []byte("😀"), 4},
		{"utf8 invalid", UTF8, []byte{0xff, 'a'}, 1},
		{"utf8 truncated", UTF8, []byte{0xe6, 0x97}, 1},
		{"utf8 empty", UTF8, nil, 0},
		{"latin1 high", ISO8859_1, []byte{0xe9}, 1},
		{"eucjp kanji", EUCJP, []byte{0xc6, 0xfc}, 2},
		{"eucjp kana", EUCJP, []byte{0x8e, 0xb1}, 2},
		{"eucjp 3 byte", EUCJP, []byte{0x8f, 0xa1, 0xa1}, 3},
		{"eucjp truncated", EUCJP, []byte{0xc6}, 1},
		{"sjis kanji", ShiftJIS, []byte{0x93, 0xfa}, 2},
		{"sjis halfwidth kana", ShiftJIS, []byte{0xb1}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.enc.CharLen(tt.in); got != tt.want {
				t.Errorf("CharLen(% x) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeAppendRune(t *testing.T) {
	tests := []struct {
		enc Encoding
		in  []byte
		r   rune
	}{
		{UTF8, []byte("é"), 'é'},
		{UTF8, []byte("日"), '日'},
		{ISO8859_1, []byte{0xe9}, 0xe9},
		{EUCJP, []byte{0xc6, 0xfc}, 0xc6fc},
		{ShiftJIS, []byte{0x93, 0xfa}, 0x93fa},
		{ASCII, []byte("z"), 'z'},
	}

	for _, tt := range tests {
		r, n := tt.enc.Decode(tt.in)
		if r != tt.r || n != len(tt.in) {
			t.Errorf("%s: Decode(% x) = (%U, %d), want (%U, %d)", tt.enc.Name(), tt.in, r, n, tt.r, len(tt.in))
		}
		out, ok := tt.enc.AppendRune(nil, tt.r)
		if !ok || string(out) != string(tt.in) {
			t.Errorf("%s: AppendRune(%U) = (% x, %v), want % x", tt.enc.Name(), tt.r, out, ok, tt.in)
		}
	}

	if _, ok := ASCII.AppendRune(nil, 0x100); ok {
		t.Error("ASCII.AppendRune(0x100) should not be representable")
	}
	if r, n := UTF8.Decode([]byte{0xff}); r != unicode.ReplacementChar || n != 1 {
		t.Errorf("UTF8.Decode(ff) = (%U, %d), want (U+FFFD, 1)", r, n)
	}
}

func TestInvalid(t *testing.T) {
	tests := []struct {
		name      string
		enc       Encoding
		in        []byte
		wantOff   int
		truncated bool
	}{
		{"utf8 valid", UTF8, []byte("héllo"), -1, false},
		{"utf8 bad lead", UTF8, []byte{'a', 0xff}, 1, false},
		{"utf8 cut", UTF8, []byte{'a', 0xe6, 0x97}, 1, true},
		{"eucjp valid", EUCJP, []byte{'a', 0xc6, 0xfc}, -1, false},
		{"eucjp cut", EUCJP, []byte{0xc6}, 0, true},
		{"eucjp bad trail", EUCJP, []byte{0xc6, 0x41}, 0, false},
		{"sjis valid", ShiftJIS, []byte{0x93, 0xfa, 'x'}, -1, false},
		{"sjis bad trail", ShiftJIS, []byte{0x93, 0x20}, 0, false},
		{"latin1 always", ISO8859_1, []byte{0xff, 0x00}, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			off, trunc := tt.enc.Invalid(tt.in)
			if off != tt.wantOff || trunc != tt.truncated {
				t.Errorf("Invalid(% x) = (%d, %v), want (%d, %v)", tt.in, off, trunc, tt.wantOff, tt.truncated)
			}
		})
	}
}

func TestLeftAdjustCharHead(t *testing.T) {
	s := []byte("a日b")
	for i, want := range []int{0, 1, 1, 1, 4} {
		if got := UTF8.LeftAdjustCharHead(s, i); got != want {
			t.Errorf("UTF8.LeftAdjustCharHead(%d) = %d, want %d", i, got, want)
		}
	}

	// 0xa4 is both a lead and a trail byte in EUC-JP.
	e := []byte{0xa4, 0xa4, 0xa4, 0xa4, 'x'}
	for i, want := range []int{0, 0, 2, 2, 4} {
		if got := EUCJP.LeftAdjustCharHead(e, i); got != want {
			t.Errorf("EUCJP.LeftAdjustCharHead(%d) = %d, want %d", i, got, want)
		}
	}

	if got := PrevCharHead(UTF8, s, 4); got != 1 {
		t.Errorf("PrevCharHead(4) = %d, want 1", got)
	}
	if got := PrevCharHead(UTF8, s, 0); got != -1 {
		t.Errorf("PrevCharHead(0) = %d, want -1", got)
	}

	for i, want := range []int{0, 1, 4, 4, 4, 5} {
		if got := RightAdjustCharHead(UTF8, s, i); got != want {
			t.Errorf("RightAdjustCharHead(%d) = %d, want %d", i, got, want)
		}
	}
	for i, want := range []int{0, 2, 2, 4, 4} {
		if got := RightAdjustCharHead(EUCJP, e, i); got != want {
			t.Errorf("EUCJP RightAdjustCharHead(%d) = %d, want %d", i, got, want)
		}
	}
}

func TestIsCtype(t *testing.T) {
	tests := []struct {
		enc  Encoding
		r    rune
		c    Ctype
		want bool
	}{
		{ASCII, 'a', CtypeWord, true},
		{ASCII, '_', CtypeWord, true},
		{ASCII, '-', CtypeWord, false},
		{ASCII, '-', CtypePunct, true},
		{ASCII, '\v', CtypeSpace, true},
		{ASCII, '\t', CtypeBlank, true},
		{ASCII, 'F', CtypeXDigit, true},
		{ASCII, 'g', CtypeXDigit, false},
		{ASCII, 0x7f, CtypeCntrl, true},
		{ASCII, '\n', CtypeNewline, true},
		{ASCII, 0xe9, CtypeAlpha, false},
		{ISO8859_1, 0xe9, CtypeAlpha, true},
		{ISO8859_1, 0xe9, CtypeLower, true},
		{UTF8, 'é', CtypeWord, true},
		{UTF8, '٣', CtypeDigit, true},
		{UTF8, '　', CtypeSpace, true},
		{UTF8, '日', CtypeAlpha, true},
		{UTF8, '日', CtypeASCII, false},
		{UTF8, '¿', CtypePunct, true},
		{EUCJP, 0xc6fc, CtypeWord, true},
		{EUCJP, 0xc6fc, CtypeDigit, false},
	}

	for _, tt := range tests {
		if got := tt.enc.IsCtype(tt.r, tt.c); got != tt.want {
			t.Errorf("%s.IsCtype(%U, %v) = %v, want %v", tt.enc.Name(), tt.r, tt.c, got, tt.want)
		}
	}
}

func TestFold(t *testing.T) {
	if !EqualFold(UTF8, 'k', 'K') {
		t.Error("UTF8: k and KELVIN SIGN should fold together")
	}
	if EqualFold(ISO8859_1, 'k', 'K') {
		t.Error("ISO-8859-1: KELVIN SIGN is outside the encoding")
	}
	if !EqualFold(ISO8859_1, 0xe9, 0xc9) {
		t.Error("ISO-8859-1: é and É should fold together")
	}
	if EqualFold(ASCII, 0xe9, 0xc9) {
		t.Error("ASCII folds only A-Z")
	}
	if got := Fold(UTF8, 'a'); got != 'A' {
		t.Errorf("Fold('a') = %q, want 'A'", got)
	}
	if got := len(Orbit(UTF8, 's')); got != 3 {
		t.Errorf("len(Orbit('s')) = %d, want 3 (s, S, ſ)", got)
	}
}

func TestProperty(t *testing.T) {
	tests := []struct {
		name string
		r    rune
		want bool
	}{
		{"Greek", 'α', true},
		{"greek", 'a', false},
		{"Lu", 'A', true},
		{"lu", 'a', false},
		{"Alpha", 'Z', true},
		{"Han", '日', true},
		{"Any", 0x10ffff, true},
	}
	for _, tt := range tests {
		p, ok := UTF8.Property(tt.name)
		if !ok {
			t.Errorf("Property(%q) not found", tt.name)
			continue
		}
		if got := p(tt.r); got != tt.want {
			t.Errorf("Property(%q)(%U) = %v, want %v", tt.name, tt.r, got, tt.want)
		}
	}
	if _, ok := UTF8.Property("NoSuchProperty"); ok {
		t.Error("unknown property resolved")
	}
	if _, ok := ASCII.Property("Greek"); ok {
		t.Error("ASCII should only know POSIX names")
	}
}

func TestByName(t *testing.T) {
	for _, n := range []string{"utf-8", "UTF8", "sjis", "euc-jp", "latin1", "ascii"} {
		if _, ok := ByName(n); !ok {
			t.Errorf("ByName(%q) not found", n)
		}
	}
	if _, ok := ByName("EBCDIC"); ok {
		t.Error("ByName(EBCDIC) should fail")
	}
	if len(Names()) != 5 {
		t.Errorf("Names() = %v", Names())
	}
}

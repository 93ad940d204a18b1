package onig

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/coregx/onig/encoding"
	"github.com/coregx/onig/syntax"
)

func mustNew(t *testing.T, pattern string, opt syntax.Option, syn *syntax.Syntax) *Regex {
	t.Helper()
	re, err := New([]byte(pattern), opt, nil, syn)
	if err != nil {
		t.Fatalf("New(%q): %v", pattern, err)
	}
	return re
}

func TestSearchForward(t *testing.T) {
	tests := []struct {
		name       string
		pattern    string
		subject    string
		start, rng int
		wantPos    int
		wantRegion []int
	}{
		{"literal", `b`, "abab", 0, 5, 1, []int{1, 2}},
		{"range excludes rng", `b`, "abab", 0, 1, Mismatch, nil},
		{"range from start", `b`, "abab", 2, 5, 3, []int{3, 4}},
		{"end position", `$`, "ab", 0, 3, 2, []int{2, 2}},
		{"end position excluded", `\z`, "ab", 0, 2, Mismatch, nil},
		{"groups", `(\d+)-(\d+)`, "tel 12-345", 0, 11, 4, []int{4, 10, 4, 6, 7, 10}},
		{"unset group", `(a)|(b)`, "b", 0, 2, 0, []int{0, 1, -1, -1, 0, 1}},
		{"leftmost first", `a|ab`, "ab", 0, 3, 0, []int{0, 1}},
		{"begin buf", `\Aab`, "abab", 0, 5, 0, []int{0, 2}},
		{"begin buf not at start", `\Aab`, "abab", 1, 5, Mismatch, nil},
		{"begin position", `\Gb`, "ab", 1, 3, 1, []int{1, 2}},
		{"begin position misses", `\Gb`, "ab", 0, 3, Mismatch, nil},
		{"begin line", `^c`, "ab\ncd", 0, 6, 3, []int{3, 4}},
		{"keep", `ab\Kc`, "xabc", 0, 5, 1, []int{3, 4}},
		{"backref", `(\w)\1`, "abccd", 0, 6, 2, []int{2, 4, 2, 3}},
		{"lookbehind", `(?<=a)b`, "bab", 0, 4, 2, []int{2, 3}},
		{"multibyte", `b`, "éb", 0, 4, 2, []int{2, 3}},
		{"start inside character", `.`, "éb", 1, 4, 2, []int{2, 3}},
		{"start inside character at range end", `.`, "éb", 1, 2, Mismatch, nil},
		{"overlapping literals", `abcd|bc`, "abcd", 0, 5, 0, []int{0, 4}},
		{"overlapping literals later", `abcdef|bcx|cd`, "xxabcdef", 0, 9, 2, []int{2, 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := mustNew(t, tt.pattern, OptionNone, nil)
			buf := []byte(tt.subject)
			region := NewRegion(0)
			pos, err := re.Search(buf, 0, len(buf), tt.start, tt.rng, region, OptionNone)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if pos != tt.wantPos {
				t.Fatalf("pos = %d, want %d", pos, tt.wantPos)
			}
			if pos == Mismatch {
				return
			}
			if got := regionIndex(region); !reflect.DeepEqual(got, tt.wantRegion) {
				t.Errorf("region = %v, want %v", got, tt.wantRegion)
			}
			if region.Beg(0) < 0 || region.End(0) > len(buf) || region.Beg(0) > region.End(0) {
				t.Errorf("region out of bounds: %v", regionIndex(region))
			}
		})
	}
}

func TestSearchBackward(t *testing.T) {
	tests := []struct {
		name       string
		pattern    string
		subject    string
		start, rng int
		want       int
	}{
		{"last a", `a`, "aaa", 3, 0, 2},
		{"rng excluded", `a`, "abb", 2, 0, Mismatch},
		{"rng included", `a`, "abb", 2, -1, 0},
		{"begin line", `^x`, "x\nx\nx", 5, -1, 4},
		{"multibyte step", `é`, "éaé", 5, -1, 3},
		{"begin buf", `\Aa`, "aaa", 2, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := mustNew(t, tt.pattern, OptionNone, nil)
			buf := []byte(tt.subject)
			pos, err := re.Search(buf, 0, len(buf), tt.start, tt.rng, nil, OptionNone)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if pos != tt.want {
				t.Errorf("pos = %d, want %d", pos, tt.want)
			}
		})
	}
}

func TestSearchFindLongest(t *testing.T) {
	buf := []byte("ab")

	re := mustNew(t, `a|ab`, OptionNone, nil)
	region := NewRegion(0)
	if _, err := re.Search(buf, 0, 2, 0, 3, region, OptionNone); err != nil {
		t.Fatal(err)
	}
	if got := regionIndex(region); !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("default = %v, want [0 1]", got)
	}

	if _, err := re.Search(buf, 0, 2, 0, 3, region, OptionFindLongest); err != nil {
		t.Fatal(err)
	}
	if got := regionIndex(region); !reflect.DeepEqual(got, []int{0, 2}) {
		t.Errorf("search-time longest = %v, want [0 2]", got)
	}

	longest := mustNew(t, `a|ab`, OptionFindLongest, nil)
	if _, err := longest.Search(buf, 0, 2, 0, 3, region, OptionNone); err != nil {
		t.Fatal(err)
	}
	if got := regionIndex(region); !reflect.DeepEqual(got, []int{0, 2}) {
		t.Errorf("compile-time longest = %v, want [0 2]", got)
	}
}

func TestSearchFindNotEmpty(t *testing.T) {
	re := mustNew(t, `a*`, OptionNone, nil)
	buf := []byte("bab")
	region := NewRegion(0)

	pos, err := re.Search(buf, 0, 3, 0, 4, region, OptionNone)
	if err != nil || pos != 0 || region.End(0) != 0 {
		t.Errorf("plain: pos = %d, region = %v, err = %v", pos, regionIndex(region), err)
	}
	pos, err = re.Search(buf, 0, 3, 0, 4, region, OptionFindNotEmpty)
	if err != nil || pos != 1 {
		t.Fatalf("not empty: pos = %d, err = %v", pos, err)
	}
	if got := regionIndex(region); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("not empty region = %v, want [1 2]", got)
	}
	pos, _ = re.Search([]byte("bbb"), 0, 3, 0, 4, nil, OptionFindNotEmpty)
	if pos != Mismatch {
		t.Errorf("only empty matches: pos = %d, want Mismatch", pos)
	}
}

func TestSearchNotBOLNotEOL(t *testing.T) {
	buf := []byte("ab")
	tests := []struct {
		name    string
		pattern string
		abs     [2]int
		opt     syntax.Option
		want    int
	}{
		{"caret at slice start", `^b`, [2]int{1, 2}, OptionNone, 1},
		{"caret with NotBOL", `^b`, [2]int{1, 2}, OptionNotBOL, Mismatch},
		{"dollar at slice end", `a$`, [2]int{0, 1}, OptionNone, 0},
		{"dollar with NotEOL", `a$`, [2]int{0, 1}, OptionNotEOL, Mismatch},
		{"\\A ignores NotBOL", `\Ab`, [2]int{1, 2}, OptionNotBOL, 1},
		{"\\Z honours NotEOL", `b\Z`, [2]int{0, 2}, OptionNotEOL, Mismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := mustNew(t, tt.pattern, OptionNone, nil)
			lo, hi := tt.abs[0], tt.abs[1]
			pos, err := re.Search(buf, lo, hi, lo, hi+1, nil, tt.opt)
			if err != nil {
				t.Fatal(err)
			}
			if pos != tt.want {
				t.Errorf("pos = %d, want %d", pos, tt.want)
			}
		})
	}
}

func TestSearchCaretMidBuffer(t *testing.T) {
	re := mustNew(t, `^b`, OptionNone, nil)
	buf := []byte("ab")
	for _, opt := range []syntax.Option{OptionNone, OptionNotBOL} {
		if pos, _ := re.Search(buf, 0, 2, 1, 3, nil, opt); pos != Mismatch {
			t.Errorf("opt %v: pos = %d, want Mismatch", opt, pos)
		}
	}
	if pos, _ := re.Search([]byte("a\nb"), 0, 3, 1, 4, nil, OptionNotBOL); pos != 2 {
		t.Errorf("after newline with NotBOL: pos = %d, want 2", pos)
	}
}

func TestSearchBounds(t *testing.T) {
	patterns := []string{`a`, `b*`, `\b`, `(?<=a)b`, `ab\Kc`, `$`, `^`, `é`, `(a|b)\1`}
	subject := []byte("abcab\naébb")
	n := len(subject)
	for _, p := range patterns {
		re := mustNew(t, p, OptionNone, nil)
		for start := 0; start <= n; start++ {
			for rng := -1; rng <= n+1; rng++ {
				pos, err := re.Search(subject, 0, n, start, rng, nil, OptionNone)
				if err != nil {
					t.Fatalf("%s: Search(%d, %d): %v", p, start, rng, err)
				}
				if pos == Mismatch {
					continue
				}
				if start <= rng && (pos < start || pos >= rng) {
					t.Errorf("%s: forward Search(%d, %d) = %d outside [start, rng)", p, start, rng, pos)
				}
				if start > rng && (pos > start || pos <= rng) {
					t.Errorf("%s: backward Search(%d, %d) = %d outside (rng, start]", p, start, rng, pos)
				}
			}
		}
	}
}

func TestSearchInvalidArgument(t *testing.T) {
	re := mustNew(t, `a`, OptionNone, nil)
	buf := []byte("abc")
	tests := []struct {
		name                         string
		absStart, absEnd, start, rng int
	}{
		{"end past buffer", 0, 4, 0, 4},
		{"start before range", 1, 3, 0, 3},
		{"start after range", 0, 2, 3, 3},
		{"rng too far", 0, 3, 0, 5},
		{"rng too low", 1, 3, 2, -1},
		{"inverted range", 2, 1, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := re.Search(buf, tt.absStart, tt.absEnd, tt.start, tt.rng, nil, OptionNone)
			if pos != Mismatch || !errors.Is(err, syntax.ErrInvalidArgument) {
				t.Errorf("Search = %d, %v; want Mismatch, invalid argument", pos, err)
			}
		})
	}
	if _, err := re.MatchAt(buf, 0, 3, 4, nil, OptionNone); !errors.Is(err, syntax.ErrInvalidArgument) {
		t.Errorf("MatchAt err = %v", err)
	}
}

func TestMatchAt(t *testing.T) {
	re := mustNew(t, `\d+`, OptionNone, nil)
	buf := []byte("ab123")
	region := NewRegion(0)

	n, err := re.MatchAt(buf, 0, 5, 2, region, OptionNone)
	if err != nil || n != 3 {
		t.Fatalf("MatchAt(2) = %d, %v; want 3", n, err)
	}
	if region.Beg(0) != 2 || region.End(0) != 5 {
		t.Errorf("region = %v", regionIndex(region))
	}
	if n, _ := re.MatchAt(buf, 0, 5, 0, nil, OptionNone); n != Mismatch {
		t.Errorf("MatchAt(0) = %d, want Mismatch", n)
	}
	if n, _ := re.MatchAt(buf, 0, 4, 2, nil, OptionNone); n != 2 {
		t.Errorf("MatchAt with absEnd 4 = %d, want 2", n)
	}
}

func TestSearchRegionUntouchedOnFailure(t *testing.T) {
	re := mustNew(t, `(x)`, OptionNone, nil)
	region := NewRegion(2)
	prev := mustNew(t, `(a)b`, OptionNone, nil)
	if pos, _ := prev.Search([]byte("ab"), 0, 2, 0, 3, region, OptionNone); pos != 0 {
		t.Fatalf("setup search = %d", pos)
	}
	want := regionIndex(region)

	pos, err := re.Search([]byte("abc"), 0, 3, 0, 4, region, OptionNone)
	if pos != Mismatch || err != nil {
		t.Fatalf("Search = %d, %v", pos, err)
	}
	if got := regionIndex(region); !reflect.DeepEqual(got, want) {
		t.Errorf("region = %v, want %v", got, want)
	}
}

func TestSearchRegionReuse(t *testing.T) {
	region := NewRegion(0)
	first := mustNew(t, `(a)(b)(c)`, OptionNone, nil)
	if pos, _ := first.Search([]byte("abc"), 0, 3, 0, 4, region, OptionNone); pos != 0 {
		t.Fatal("first search failed")
	}
	region.Clear()
	second := mustNew(t, `(c)|(d)`, OptionNone, nil)
	if pos, _ := second.Search([]byte("d"), 0, 1, 0, 2, region, OptionNone); pos != 0 {
		t.Fatal("second search failed")
	}
	if got, want := regionIndex(region), []int{0, 1, -1, -1, 0, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("region = %v, want %v", got, want)
	}
}

func TestSearchBudgets(t *testing.T) {
	subject := []byte(strings.Repeat("ab", 200))
	tests := []struct {
		name  string
		stack int
		retry int
		want  error
	}{
		{"retry limit", 0, 50, syntax.ErrRetryLimitInMatchOver},
		{"stack limit", 16, 0, syntax.ErrMatchStackLimitOver},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.MatchStackLimit = tt.stack
			cfg.RetryLimitInMatch = tt.retry
			re, err := NewWithConfig([]byte(`(?:a|b)*c`), OptionNone, cfg)
			if err != nil {
				t.Fatal(err)
			}
			region := NewRegion(0)
			pos, err := re.Search(subject, 0, len(subject), 0, len(subject)+1, region, OptionNone)
			if pos != Mismatch {
				t.Errorf("pos = %d, want Mismatch", pos)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if !IsResourceExhausted(err) {
				t.Errorf("IsResourceExhausted(%v) = false", err)
			}
			if region.NumRegs() != 0 {
				t.Errorf("region filled on error: %v", regionIndex(region))
			}
			if re.IsMatch(subject) {
				t.Error("IsMatch reported a match on budget failure")
			}
		})
	}

	re := mustNew(t, `(?:a|b)*c`, OptionNone, nil)
	withC := append(append([]byte(nil), subject...), 'c')
	if pos, err := re.Search(withC, 0, len(withC), 0, len(withC)+1, nil, OptionNone); pos != 0 || err != nil {
		t.Errorf("unlimited = %d, %v", pos, err)
	}
}

func TestSearchPrefilterEquivalence(t *testing.T) {
	patterns := []string{
		`hello`,
		`foo|bar`,
		`(?i)hello`,
		`[xyz]\d`,
		`\bword\b`,
		`a+b`,
		`(a)\1`,
		`é+`,
		`(?<n>ab|cd)\k<n>`,
		`x*`,
		`\d{2,}`,
		`(?=ab)a`,
		`(?<p>a|b\g<p>)`,
		`z`,
		`abcd|bc`,
		`abcdef|bcx|cd`,
	}
	subject := []byte("hello world, foo bar; xyz1 z22 word aab aa éé abab cdcd HeLLo bba abcd xxabcdef")

	off := DefaultConfig()
	off.DisablePrefilter = true
	for _, p := range patterns {
		t.Run(p, func(t *testing.T) {
			with, err := NewWithConfig([]byte(p), OptionNone, DefaultConfig())
			if err != nil {
				t.Fatal(err)
			}
			without, err := NewWithConfig([]byte(p), OptionNone, off)
			if err != nil {
				t.Fatal(err)
			}
			got := with.FindAllIndex(subject, -1)
			want := without.FindAllIndex(subject, -1)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("with prefilter %v, without %v", got, want)
			}
		})
	}
}

func TestSearchShiftJISTrailByte(t *testing.T) {
	// 0x83 0x5c is one character whose trail byte is a backslash.
	buf := []byte{0x83, 0x5c, 0x5c}
	for _, disable := range []bool{false, true} {
		cfg := DefaultConfig()
		cfg.Encoding = encoding.ShiftJIS
		cfg.DisablePrefilter = disable
		re, err := NewWithConfig([]byte(`\\`), OptionNone, cfg)
		if err != nil {
			t.Fatal(err)
		}
		if got := re.FindIndex(buf); !reflect.DeepEqual(got, []int{2, 3}) {
			t.Errorf("DisablePrefilter=%v: FindIndex = %v, want [2 3]", disable, got)
		}
	}
}

func BenchmarkSearchLiteral(b *testing.B) {
	re := MustCompile(`needle`)
	buf := []byte(strings.Repeat("haystack ", 1000) + "needle")
	region := NewRegion(0)
	b.SetBytes(int64(len(buf)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = re.Search(buf, 0, len(buf), 0, len(buf)+1, region, OptionNone)
	}
}

func BenchmarkSearchBackref(b *testing.B) {
	re := MustCompile(`(\w+)\s+\1`)
	buf := []byte(strings.Repeat("alpha beta ", 100) + "gamma gamma")
	b.SetBytes(int64(len(buf)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = re.IsMatch(buf)
	}
}

package literal

import (
	"sort"
	"strings"
	"testing"

	"github.com/coregx/onig/encoding"
	"github.com/coregx/onig/syntax"
)

func prefixes(t *testing.T, pattern string) *Seq {
	t.Helper()
	tree, err := syntax.Parse([]byte(pattern), 0, syntax.Ruby(), encoding.UTF8, syntax.ParseConfig{})
	if err != nil {
		t.Fatalf("Parse(%q): %v", pattern, err)
	}
	return New(DefaultConfig(), encoding.UTF8).Prefixes(tree.Root)
}

func sorted(s *Seq) string {
	var out []string
	for _, b := range s.Literals() {
		out = append(out, string(b))
	}
	sort.Strings(out)
	return strings.Join(out, ",")
}

func TestPrefixes(t *testing.T) {
	tests := []struct {
		pattern string
		want    string // sorted, comma separated; "inf" for infinite
	}{
		{"hello", "hello"},
		{"foo|bar", "bar,foo"},
		{"(foo|bar)baz", "barbaz,foobaz"},
		{"ab[cd]", "abc,abd"},
		{"a+b", "a"},
		{"(?:ab){2}c", "ab"},
		{"a*b", "inf"},
		{".abc", "inf"},
		{"\\Aabc", "abc"},
		{"(?=x)abc", "abc"},
		{"(?i)ab", "AB,Ab,aB,ab"},
		{"abc|ab", "ab"},
		{"x(a|b*)", "x"},
		{"[a-z]x", "inf"},
		{"(a)\\1", "a"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			seq := prefixes(t, tt.pattern)
			if tt.want == "inf" {
				if seq.IsFinite() {
					t.Fatalf("got %v, want infinite", seq)
				}
				return
			}
			if !seq.IsFinite() {
				t.Fatalf("got infinite, want %s", tt.want)
			}
			if got := sorted(seq); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPrefixesCompleteness(t *testing.T) {
	seq := prefixes(t, "foo|bar")
	for i := 0; i < seq.Len(); i++ {
		if !seq.Get(i).Complete {
			t.Errorf("%v should be complete", seq.Get(i))
		}
	}
	seq = prefixes(t, "foo+")
	if seq.Len() != 1 || seq.Get(0).Complete {
		t.Errorf("foo+ = %v, want one inexact literal", seq)
	}
}

func TestPrefixesLimits(t *testing.T) {
	tree, err := syntax.Parse([]byte("[ab][ab][ab][ab]"), 0, syntax.Ruby(), encoding.UTF8, syntax.ParseConfig{})
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	cfg.MaxLiterals = 4
	seq := New(cfg, encoding.UTF8).Prefixes(tree.Root)
	if !seq.IsFinite() || seq.Len() != 4 {
		t.Fatalf("got %v, want the 4 two-byte prefixes", seq)
	}
	for i := 0; i < seq.Len(); i++ {
		if l := seq.Get(i); l.Len() != 2 || l.Complete {
			t.Errorf("literal %v", l)
		}
	}

	cfg = DefaultConfig()
	cfg.MaxLiteralLen = 3
	tree, _ = syntax.Parse([]byte("abcdef"), 0, syntax.Ruby(), encoding.UTF8, syntax.ParseConfig{})
	seq = New(cfg, encoding.UTF8).Prefixes(tree.Root)
	if seq.Len() != 1 || string(seq.Get(0).Bytes) != "abc" || seq.Get(0).Complete {
		t.Errorf("got %v, want I(abc)", seq)
	}
}

func TestSeqMinimize(t *testing.T) {
	s := NewSeq(
		NewLiteral([]byte("abc"), true),
		NewLiteral([]byte("ab"), true),
		NewLiteral([]byte("xyz"), true),
		NewLiteral([]byte("ab"), false),
	)
	s.Minimize()
	if got := sorted(s); got != "ab,xyz" {
		t.Errorf("Minimize = %s", got)
	}
}

func TestSeqLongestCommonPrefix(t *testing.T) {
	s := NewSeq(NewLiteral([]byte("foobar"), true), NewLiteral([]byte("foobaz"), true), NewLiteral([]byte("fox"), true))
	if got := string(s.LongestCommonPrefix()); got != "fo" {
		t.Errorf("LongestCommonPrefix = %q", got)
	}
	if got := NewSeq().LongestCommonPrefix(); got != nil {
		t.Errorf("empty seq prefix = %q", got)
	}
}

func TestSeqString(t *testing.T) {
	if got := Infinite().String(); got != "[∞]" {
		t.Errorf("Infinite = %s", got)
	}
	s := NewSeq(NewLiteral([]byte("a"), true), NewLiteral([]byte("b"), false))
	if got := s.String(); got != "[E(a), I(b)]" {
		t.Errorf("String = %s", got)
	}
}

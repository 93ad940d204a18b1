package vm

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/coregx/onig/syntax"
)

// scan tries every start position left to right and returns the capture
// registers of the first match, or nil.
func scan(t *testing.T, prog *Prog, subject string, opt syntax.Option, limits Limits) ([]int, error) {
	t.Helper()
	m := NewMachine(prog)
	buf := []byte(subject)
	for at := 0; at <= len(buf); at++ {
		m.Reset(Input{Buf: buf, AbsStart: 0, AbsEnd: len(buf), GPos: 0, Options: opt}, limits)
		end, err := m.MatchAt(at)
		if err != nil {
			return nil, err
		}
		if end >= 0 {
			return m.Captures(nil), nil
		}
	}
	return nil, nil
}

func TestMachineMatch(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		opt     syntax.Option
		subject string
		want    []int
	}{
		{"leftmost first", "a|ab", 0, "ab", []int{0, 1}},
		{"find longest", "a|ab", syntax.OptionFindLongest, "ab", []int{0, 2}},
		{"greedy backtrack", "a*ab", 0, "xaaab", []int{1, 5}},
		{"lazy star", "<.*?>", 0, "<a><b>", []int{0, 3}},
		{"possessive fails", "a*+a", 0, "aaa", nil},
		{"atomic fails", "(?>a*)a", 0, "aaa", nil},
		{"atomic keeps outer choice", "(?>ab|a)c|abd", 0, "abd", []int{0, 3}},
		{"counted greedy", "a{2,3}", 0, "aaaa", []int{0, 3}},
		{"counted lazy", "a{2,3}?", 0, "aaaa", []int{0, 2}},
		{"counted exact group", "(?:ab){2}", 0, "ababab", []int{0, 4}},
		{"counted lower bound only", "x{2,}", 0, "xxxxx", []int{0, 5}},
		{"empty loop terminates", "(?:a?)*b", 0, "aab", []int{0, 3}},
		{"empty alternative loop", "(a|)*c", 0, "aac", []int{0, 3, 2, 2}},
		{"captures", "(a)(b)?(c)", 0, "ac", []int{0, 2, 0, 1, -1, -1, 1, 2}},
		{"last iteration capture", "(?:(\\w)-)+", 0, "a-b-c", []int{0, 4, 2, 3}},
		{"lookahead", "a(?=b)", 0, "acab", []int{2, 3}},
		{"negative lookahead", "a(?!b)", 0, "abac", []int{2, 3}},
		{"lookbehind", "(?<=a)b", 0, "cbab", []int{3, 4}},
		{"negative lookbehind", "(?<!a)b", 0, "abcb", []int{3, 4}},
		{"lookbehind alternatives", "(?<=ab|c)d", 0, "abxcd", []int{4, 5}},
		{"lookbehind multibyte", "(?<=é)x", 0, "éx", []int{2, 3}},
		{"lookahead capture survives", "(?=(a))a", 0, "a", []int{0, 1, 0, 1}},
		{"negative lookahead capture undone", "(?!(a)b)(a)?", 0, "a", []int{0, 1, -1, -1, 0, 1}},
		{"backref", "(a+)b\\1", 0, "aabaa", []int{0, 5, 0, 2}},
		{"backref backtracks", "(a+)b\\1$", 0, "aaba", []int{1, 4, 1, 2}},
		{"backref fold", "(?i)(ab)\\1", 0, "abAB", []int{0, 4, 0, 2}},
		{"backref unset fails", "(a)?\\1", 0, "b", nil},
		{"named multiplex backref", "(?<x>a)|(?<x>b)\\k<x>", 0, "bb", []int{0, 2, -1, -1, 0, 1}},
		{"conditional yes", "(a)?(?(1)b|c)", 0, "ab", []int{0, 2, 0, 1}},
		{"conditional no", "(a)?(?(1)b|c)", 0, "c", []int{0, 1, -1, -1}},
		{"keep", "a\\Kb", 0, "ab", []int{1, 2}},
		{"fold literal", "(?i)straße", 0, "STRAßE", []int{0, 7}},
		{"class", "[^a-c]+", 0, "abxyc", []int{2, 4}},
		{"dot excludes newline", "a.c", 0, "a\nc abc", []int{4, 7}},
		{"multiline dot", "(?m)a.c", 0, "a\nc", []int{0, 3}},
		{"begin line", "^b", 0, "a\nb", []int{2, 3}},
		{"end line", "a$", 0, "a\nb", []int{0, 1}},
		{"no begin line after final newline", "\\n^", 0, "a\n", nil},
		{"semi end buf", "a\\Z", 0, "a\n", []int{0, 1}},
		{"end buf", "a\\z", 0, "a\n", nil},
		{"word boundary", "\\bfoo\\b", 0, "afoo foo", []int{5, 8}},
		{"recursion", "\\A(?<p>\\((?:[^()]|\\g<p>)*\\))\\z", 0, "(a(b)c)", []int{0, 7, 0, 7}},
		{"recursion rejects", "\\A(?<p>\\((?:[^()]|\\g<p>)*\\))\\z", 0, "(a(bc)", nil},
		{"nested call keeps outer start", "\\A(?<p>a\\g<p>?b)\\z", 0, "aabb", []int{0, 4, 0, 4}},
		{"whole pattern call", "a\\g<0>?b", 0, "xaabb", []int{1, 5}},
		{"counter survives call", "\\A(?<r>(?:a\\g<r>?){2}b)\\z", 0, "aaabab", []int{0, 6, 0, 6}},
		{"find not empty", "a*", syntax.OptionFindNotEmpty, "bab", []int{1, 2}},
		{"ignore case class", "(?i)[a-c]+", 0, "xAbC", []int{1, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := compileProg(t, tt.pattern, tt.opt, syntax.Ruby())
			got, err := scan(t, prog, tt.subject, 0, Limits{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.want == nil {
				if got != nil {
					t.Fatalf("%q on %q matched %v", tt.pattern, tt.subject, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("%q on %q: no match, want %v", tt.pattern, tt.subject, tt.want)
			}
			if !reflect.DeepEqual(got[:len(tt.want)], tt.want) {
				t.Errorf("%q on %q = %v, want %v", tt.pattern, tt.subject, got, tt.want)
			}
		})
	}
}

func TestMachineSearchOptions(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		subject string
		opt     syntax.Option
		match   bool
	}{
		{"not bol", "^a", "a", syntax.OptionNotBOL, false},
		{"not bol later line", "^a", "b\na", syntax.OptionNotBOL, true},
		{"not eol", "a$", "a", syntax.OptionNotEOL, false},
		{"not eol inner line", "a$", "a\nb", syntax.OptionNotEOL, true},
		{"not eol semi end", "a\\Z", "a\n", syntax.OptionNotEOL, false},
		{"not bol leaves \\A", "\\Aa", "a", syntax.OptionNotBOL, true},
		{"find longest at search time", "a|ab", "ab", syntax.OptionFindLongest, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := compileProg(t, tt.pattern, 0, syntax.Ruby())
			got, err := scan(t, prog, tt.subject, tt.opt, Limits{})
			if err != nil {
				t.Fatal(err)
			}
			if (got != nil) != tt.match {
				t.Errorf("match = %v, want %v", got != nil, tt.match)
			}
		})
	}
}

func TestMachineSingleline(t *testing.T) {
	prog := compileProg(t, "^a$", syntax.OptionSingleline, syntax.Ruby())
	if got, _ := scan(t, prog, "b\na", 0, Limits{}); got != nil {
		t.Errorf("singleline ^ matched after newline: %v", got)
	}
	if got, _ := scan(t, prog, "a", syntax.OptionNotBOL, Limits{}); got != nil {
		t.Errorf("NotBOL did not suppress singleline ^: %v", got)
	}
}

func TestMachineBounds(t *testing.T) {
	prog := compileProg(t, `\bb\b`, 0, syntax.Ruby())
	m := NewMachine(prog)
	buf := []byte("abc")
	// With the visible text limited to "b", both boundaries hold.
	m.Reset(Input{Buf: buf, AbsStart: 1, AbsEnd: 2, GPos: 1}, Limits{})
	end, err := m.MatchAt(1)
	if err != nil || end != 2 {
		t.Fatalf("MatchAt = %d, %v", end, err)
	}
	if caps := m.Captures(nil); caps[0] != 1 || caps[1] != 2 {
		t.Errorf("captures = %v", caps)
	}

	prog = compileProg(t, `\Gb`, 0, syntax.Ruby())
	m = NewMachine(prog)
	m.Reset(Input{Buf: buf, AbsStart: 0, AbsEnd: 3, GPos: 0}, Limits{})
	if end, _ := m.MatchAt(1); end != -1 {
		t.Errorf("\\G matched away from the search start")
	}
	m.Reset(Input{Buf: buf, AbsStart: 0, AbsEnd: 3, GPos: 1}, Limits{})
	if end, _ := m.MatchAt(1); end != 2 {
		t.Errorf("\\G = %d, want 2", end)
	}
}

func TestMachineWordBeginEnd(t *testing.T) {
	prog := compileProg(t, `\<b\w*\>`, 0, syntax.GnuRegex())
	got, err := scan(t, prog, "ab bc", 0, Limits{})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []int{3, 5}) {
		t.Errorf("captures = %v, want [3 5]", got)
	}
}

func TestMachineLimits(t *testing.T) {
	prog := compileProg(t, `(?:a|b)*c`, 0, syntax.Ruby())
	subject := strings.Repeat("ab", 200)

	_, err := scan(t, prog, subject, 0, Limits{Retry: 50})
	if !errors.Is(err, syntax.ErrRetryLimitInMatchOver) {
		t.Errorf("retry limit error = %v", err)
	}
	_, err = scan(t, prog, subject, 0, Limits{MatchStack: 16})
	if !errors.Is(err, syntax.ErrMatchStackLimitOver) {
		t.Errorf("stack limit error = %v", err)
	}
	got, err := scan(t, prog, subject+"c", 0, Limits{})
	if err != nil || got == nil {
		t.Errorf("unlimited = %v, %v", got, err)
	}
}

func TestMachineHistory(t *testing.T) {
	syn := syntax.Ruby().Clone()
	syn.SetOp2(syn.Op2() | syntax.Op2AtmarkCaptureHistory)
	prog := compileProg(t, `(?@a)+`, 0, syn)
	if !prog.HasHistory() {
		t.Fatal("program has no history groups")
	}
	m := NewMachine(prog)
	buf := []byte("aa")
	m.Reset(Input{Buf: buf, AbsEnd: len(buf)}, Limits{})
	if end, err := m.MatchAt(0); end != 2 || err != nil {
		t.Fatalf("MatchAt = %d, %v", end, err)
	}
	want := []HistoryEvent{
		{Group: 1, Pos: 0, Open: true},
		{Group: 1, Pos: 1},
		{Group: 1, Pos: 1, Open: true},
		{Group: 1, Pos: 2},
	}
	if got := m.History(nil); !reflect.DeepEqual(got, want) {
		t.Errorf("History = %+v, want %+v", got, want)
	}
}

func TestMachineHistoryDiscardsFailedBranches(t *testing.T) {
	syn := syntax.Ruby().Clone()
	syn.SetOp2(syn.Op2() | syntax.Op2AtmarkCaptureHistory)
	prog := compileProg(t, `(?@a)b|(?@a)c`, 0, syn)
	m := NewMachine(prog)
	buf := []byte("ac")
	m.Reset(Input{Buf: buf, AbsEnd: len(buf)}, Limits{})
	if end, _ := m.MatchAt(0); end != 2 {
		t.Fatalf("end = %d", end)
	}
	got := m.History(nil)
	if len(got) != 2 || got[0].Group != 2 || got[1].Group != 2 {
		t.Errorf("History = %+v", got)
	}
}

func BenchmarkMachineBacktrack(b *testing.B) {
	tree, err := syntax.Parse([]byte(`(\w+)\s+\1`), 0, syntax.Ruby(), nil, syntax.ParseConfig{})
	if err != nil {
		b.Fatal(err)
	}
	prog, err := Compile(tree, nil)
	if err != nil {
		b.Fatal(err)
	}
	buf := []byte(strings.Repeat("alpha beta ", 20) + "gamma gamma")
	m := NewMachine(prog)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for at := 0; at <= len(buf); at++ {
			m.Reset(Input{Buf: buf, AbsEnd: len(buf)}, Limits{})
			if end, _ := m.MatchAt(at); end >= 0 {
				break
			}
		}
	}
}

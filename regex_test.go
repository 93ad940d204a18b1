package onig

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/coregx/onig/encoding"
	"github.com/coregx/onig/syntax"
)

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		pattern string
		syn     *syntax.Syntax
		want    syntax.ErrorCode
	}{
		{`a\`, nil, syntax.ErrEndPatternAtEscape},
		{`(a`, nil, syntax.ErrEndPatternWithUnmatchedParenthesis},
		{`a)`, nil, syntax.ErrUnmatchedCloseParenthesis},
		{`\k<nope>`, nil, syntax.ErrUndefinedNameReference},
		{`(?<x>a)(?<x>b)`, syntax.Python(), syntax.ErrMultiplexDefinedName},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			re, err := New([]byte(tt.pattern), OptionNone, nil, tt.syn)
			if err == nil {
				t.Fatalf("New(%q) = %v, want error", tt.pattern, re)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if IsResourceExhausted(err) {
				t.Errorf("%v classified as resource exhaustion", err)
			}
		})
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("MustCompile did not panic")
		}
		if msg, ok := r.(string); !ok || !strings.Contains(msg, "(a") {
			t.Errorf("panic value = %v", r)
		}
	}()
	MustCompile(`(a`)
}

func TestNewWithConfigValidation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RetryLimitInMatch = -1
	_, err := NewWithConfig([]byte(`a`), OptionNone, cfg)
	var ce *ConfigError
	if !errors.As(err, &ce) || ce.Field != "RetryLimitInMatch" {
		t.Errorf("err = %v, want ConfigError for RetryLimitInMatch", err)
	}
}

func TestParseDepthLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ParseDepthLimit = 10
	pattern := strings.Repeat("(", 20) + "a" + strings.Repeat(")", 20)
	_, err := NewWithConfig([]byte(pattern), OptionNone, cfg)
	if !IsResourceExhausted(err) {
		t.Errorf("err = %v, want a depth limit error", err)
	}
	if _, err := NewWithConfig([]byte(pattern), OptionNone, DefaultConfig()); err != nil {
		t.Errorf("default depth limit: %v", err)
	}
}

func TestIntrospection(t *testing.T) {
	re := mustNew(t, `(?<year>\d{4})-(?<month>\d\d)(?:-(?<day>\d\d))?`, OptionNone, nil)
	if got := re.NumberOfCaptures(); got != 3 {
		t.Errorf("NumberOfCaptures = %d, want 3", got)
	}
	if got := re.NumberOfNames(); got != 3 {
		t.Errorf("NumberOfNames = %d, want 3", got)
	}
	if got := re.NameToGroupNumbers("month"); !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("NameToGroupNumbers(month) = %v", got)
	}
	if got := re.NameToGroupNumbers("week"); got != nil {
		t.Errorf("NameToGroupNumbers(week) = %v, want nil", got)
	}

	var names []string
	re.ForEachName(func(name string, groups []int) bool {
		names = append(names, name)
		return true
	})
	if !reflect.DeepEqual(names, []string{"year", "month", "day"}) {
		t.Errorf("ForEachName order = %v", names)
	}
	var first []string
	re.ForEachName(func(name string, _ []int) bool {
		first = append(first, name)
		return false
	})
	if len(first) != 1 {
		t.Errorf("ForEachName did not stop: %v", first)
	}

	if re.Encoding() != encoding.UTF8 {
		t.Errorf("Encoding = %v", re.Encoding().Name())
	}
	if re.Syntax() != syntax.Ruby() {
		t.Error("frozen syntax was copied")
	}
	if re.String() != `(?<year>\d{4})-(?<month>\d\d)(?:-(?<day>\d\d))?` {
		t.Errorf("String = %q", re.String())
	}
	if !strings.Contains(re.Dump(), "pattern") {
		t.Errorf("Dump = %q", re.Dump())
	}
}

func TestDuplicateNames(t *testing.T) {
	re := mustNew(t, `(?<x>a)|(?<x>b)`, OptionNone, nil)
	if got := re.NameToGroupNumbers("x"); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("NameToGroupNumbers = %v, want [1 2]", got)
	}
	if re.NumberOfNames() != 1 {
		t.Errorf("NumberOfNames = %d, want 1", re.NumberOfNames())
	}

	tests := []struct {
		subject string
		want    int
	}{
		{"a", 1},
		{"b", 2},
	}
	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			region := NewRegion(0)
			buf := []byte(tt.subject)
			if pos, _ := re.Search(buf, 0, 1, 0, 2, region, OptionNone); pos != 0 {
				t.Fatal("no match")
			}
			got, err := re.NameToBackrefNumber("x", region)
			if err != nil || got != tt.want {
				t.Errorf("NameToBackrefNumber = %d, %v; want %d", got, err, tt.want)
			}
		})
	}

	if got, _ := re.NameToBackrefNumber("x", nil); got != 2 {
		t.Errorf("without region = %d, want 2", got)
	}
	_, err := re.NameToBackrefNumber("y", nil)
	if !errors.Is(err, syntax.ErrUndefinedNameReference) {
		t.Errorf("unknown name err = %v", err)
	}
	if msg := ErrorMessage(err); msg != "undefined name <y> reference" {
		t.Errorf("ErrorMessage = %q", msg)
	}
}

func TestDuplicateNameBackref(t *testing.T) {
	re := mustNew(t, `(?<x>a)(?<x>b)\k<x>`, OptionNone, nil)
	if got := re.NameToGroupNumbers("x"); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("NameToGroupNumbers = %v, want [1 2]", got)
	}
	tests := []struct {
		subject string
		want    []int
	}{
		{"aba", []int{0, 3}},
		{"abb", []int{0, 3}},
		{"abc", nil},
	}
	for _, tt := range tests {
		if got := re.FindIndex([]byte(tt.subject)); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("FindIndex(%q) = %v, want %v", tt.subject, got, tt.want)
		}
	}
}

func TestNonameGroupCapture(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		opt      syntax.Option
		syn      *syntax.Syntax
		active   bool
		captures int
	}{
		{"plain groups", `(a)(b)`, OptionNone, nil, true, 2},
		{"named suppresses plain", `(?<n>a)(b)`, OptionNone, nil, false, 1},
		{"capture group option", `(?<n>a)(b)`, OptionCaptureGroup, nil, true, 2},
		{"dont capture", `(a)(b)`, OptionDontCaptureGroup, nil, false, 0},
		{"perl keeps plain groups", `(a)(b)`, OptionNone, syntax.Perl(), true, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := mustNew(t, tt.pattern, tt.opt, tt.syn)
			if got := re.NonameGroupCaptureIsActive(); got != tt.active {
				t.Errorf("NonameGroupCaptureIsActive = %v, want %v", got, tt.active)
			}
			if got := re.NumberOfCaptures(); got != tt.captures {
				t.Errorf("NumberOfCaptures = %d, want %d", got, tt.captures)
			}
		})
	}
}

func TestSyntaxIsolation(t *testing.T) {
	syn := syntax.Ruby().Clone()
	re := mustNew(t, `a+`, OptionNone, syn)
	syn.SetOp(0)
	if re.Syntax() == syn {
		t.Fatal("mutable syntax was not copied")
	}
	if !re.Syntax().IsOp(syntax.OpPlusOneInf) {
		t.Error("caller mutation reached the compiled pattern")
	}
	if !re.IsMatch([]byte("aaa")) {
		t.Error("pattern stopped matching")
	}
}

func TestSyntaxDialects(t *testing.T) {
	tests := []struct {
		name    string
		syn     *syntax.Syntax
		pattern string
		subject string
		want    []int
	}{
		{"posix basic groups", syntax.PosixBasic(), `\(ab\)\{2\}`, "xabab", []int{1, 5}},
		{"posix basic plain parens", syntax.PosixBasic(), `(a)`, "(a)", []int{0, 3}},
		{"python named", syntax.Python(), `(?P<d>\d)x`, "1x", []int{0, 2}},
		{"grep alternation", syntax.Grep(), `a\|b`, "cb", []int{1, 2}},
		{"asis", syntax.ASIS(), `a.b`, "axb a.b", []int{4, 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := mustNew(t, tt.pattern, OptionNone, tt.syn)
			if got := re.FindIndex([]byte(tt.subject)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindIndex = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegexConcurrent(t *testing.T) {
	re := MustCompile(`(\w+)@(\w+)\.com`)
	subject := []byte("mail bob@example.com now")
	var wg sync.WaitGroup
	errs := make(chan string, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				got := re.FindSubmatchIndex(subject)
				if !reflect.DeepEqual(got, []int{5, 20, 5, 8, 9, 16}) {
					errs <- "unexpected result"
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}

func TestVersion(t *testing.T) {
	if !strings.HasPrefix(Version(), "6.9") {
		t.Errorf("Version = %q", Version())
	}
}

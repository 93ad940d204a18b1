package vm

import (
	"testing"

	"github.com/coregx/onig/encoding"
	"github.com/coregx/onig/syntax"
)

func compileProg(t *testing.T, pattern string, opt syntax.Option, syn *syntax.Syntax) *Prog {
	t.Helper()
	tree, err := syntax.Parse([]byte(pattern), opt, syn, encoding.UTF8, syntax.ParseConfig{})
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", pattern, err)
	}
	prog, err := Compile(tree, encoding.UTF8)
	if err != nil {
		t.Fatalf("Compile(%q) error: %v", pattern, err)
	}
	return prog
}

func TestCompileDump(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{
			pattern: "abc",
			want: "> 000 str \"abc\"\n" +
				"  001 match\n",
		},
		{
			pattern: "a*",
			want: "> 000 split 1, 3\n" +
				"  001 str \"a\"\n" +
				"  002 jump 0\n" +
				"  003 match\n",
		},
		{
			pattern: "a*?",
			want: "> 000 split 3, 1\n" +
				"  001 str \"a\"\n" +
				"  002 jump 0\n" +
				"  003 match\n",
		},
		{
			pattern: "ab|cd",
			want: "> 000 split 1, 3\n" +
				"  001 str \"ab\"\n" +
				"  002 jump 4\n" +
				"  003 str \"cd\"\n" +
				"  004 match\n",
		},
		{
			pattern: "(?:a?)*",
			want: "> 000 split 1, 6\n" +
				"  001 null-check-start 0\n" +
				"  002 split 3, 4\n" +
				"  003 str \"a\"\n" +
				"  004 null-check-end 0 -> 6\n" +
				"  005 jump 0\n" +
				"  006 match\n",
		},
		{
			pattern: "a{2,3}",
			want: "> 000 repeat-start 0\n" +
				"  001 repeat-branch 0 {2,3} 2, 5\n" +
				"  002 str \"a\"\n" +
				"  003 repeat-inc 0\n" +
				"  004 jump 1\n" +
				"  005 match\n",
		},
		{
			pattern: "(?!a)b",
			want: "> 000 neg-look-start 3\n" +
				"  001 str \"a\"\n" +
				"  002 neg-look-end\n" +
				"  003 str \"b\"\n" +
				"  004 match\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			prog := compileProg(t, tt.pattern, syntax.OptionNone, syntax.Ruby())
			if got := prog.String(); got != tt.want {
				t.Errorf("program for %q:\n%s\nwant:\n%s", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestCompileSubroutines(t *testing.T) {
	prog := compileProg(t, `(?<p>a\g<p>?b)`, syntax.OptionNone, syntax.Ruby())
	calls := 0
	returns := 0
	for _, in := range prog.Insts {
		switch in.Op {
		case OpCall:
			calls++
		case OpReturn:
			returns++
		}
	}
	// One call for the group's own occurrence, one for the recursion.
	if calls != 2 || returns != 1 {
		t.Errorf("calls = %d, returns = %d\n%s", calls, returns, prog)
	}
}

func TestCompileStartAnchor(t *testing.T) {
	tests := []struct {
		pattern string
		want    StartAnchor
	}{
		{`\Aabc`, StartBeginBuf},
		{`(?:\Gx)`, StartBeginPosition},
		{`^a`, StartBeginLine},
		{`(^a)`, StartBeginLine},
		{`a|^b`, StartAnywhere},
		{`(?=^)a`, StartAnywhere},
		{`abc`, StartAnywhere},
	}
	for _, tt := range tests {
		prog := compileProg(t, tt.pattern, syntax.OptionNone, syntax.Ruby())
		if prog.Anchor != tt.want {
			t.Errorf("%q: anchor = %d, want %d", tt.pattern, prog.Anchor, tt.want)
		}
	}
}

func TestCompileCounts(t *testing.T) {
	prog := compileProg(t, `(a){2}(?:b|)*(c)`, syntax.OptionNone, syntax.Ruby())
	if prog.NumCaptures != 2 || prog.NumCounters != 1 || prog.NumNullChecks != 1 {
		t.Errorf("captures=%d counters=%d nullchecks=%d",
			prog.NumCaptures, prog.NumCounters, prog.NumNullChecks)
	}
	if prog.NumRegs() != 3 {
		t.Errorf("NumRegs = %d", prog.NumRegs())
	}
}

func TestBuilderRejectsDanglingTarget(t *testing.T) {
	b := NewBuilder()
	j := b.EmitJump()
	b.PatchX(j, 7)
	if _, err := b.Build(); err == nil {
		t.Fatal("Build accepted an out-of-range jump")
	}
}

func TestNameTable(t *testing.T) {
	tbl := NewNameTable([]syntax.Name{
		{Name: "year", Groups: []int{1}},
		{Name: "x", Groups: []int{2, 4}},
	})
	if tbl.Len() != 2 {
		t.Fatalf("Len = %d", tbl.Len())
	}
	if got := tbl.GroupNumbers("x"); len(got) != 2 || got[0] != 2 || got[1] != 4 {
		t.Errorf("GroupNumbers(x) = %v", got)
	}
	if got := tbl.GroupNumbers("X"); got != nil {
		t.Errorf("lookup is not case-sensitive: %v", got)
	}
	if got := tbl.NameOf(4); got != "x" {
		t.Errorf("NameOf(4) = %q", got)
	}
	var seen []string
	done := tbl.ForEach(func(name string, groups []int) bool {
		seen = append(seen, name)
		return false
	})
	if done || len(seen) != 1 || seen[0] != "year" {
		t.Errorf("ForEach stopped=%v seen=%v", !done, seen)
	}
	if names := tbl.Names(); names[0] != "year" || names[1] != "x" {
		t.Errorf("Names = %v", names)
	}
}

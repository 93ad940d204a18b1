package syntax

import (
	"errors"
	"strings"
	"testing"
)

func TestBuiltinsAreFrozen(t *testing.T) {
	for _, s := range Builtins() {
		t.Run(s.Name(), func(t *testing.T) {
			if !s.Frozen() {
				t.Fatal("built-in syntax is mutable")
			}
			defer func() {
				r := recover()
				if r != ErrFrozenSyntax {
					t.Errorf("SetOp panic = %v, want ErrFrozenSyntax", r)
				}
			}()
			s.SetOp(0)
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	c := Ruby().Clone()
	if c.Frozen() {
		t.Fatal("clone is frozen")
	}
	c.SetOp(c.Op() &^ OpDotAnychar)
	c.SetOptions(OptionIgnoreCase)
	if !Ruby().IsOp(OpDotAnychar) {
		t.Error("mutating a clone changed the built-in")
	}
	if Ruby().Options() != OptionNone {
		t.Errorf("Ruby options = %v", Ruby().Options())
	}
	if c.IsOp(OpDotAnychar) || c.Options() != OptionIgnoreCase {
		t.Error("clone did not take the new settings")
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"ruby", "Perl", "PERLNG", "posixbasic", "ASIS"} {
		s, ok := ByName(name)
		if !ok || !strings.EqualFold(s.Name(), name) {
			t.Errorf("ByName(%q) = %v, %v", name, s, ok)
		}
	}
	if _, ok := ByName("awk"); ok {
		t.Error("ByName(awk) found a syntax")
	}
	if Default() != Ruby() {
		t.Error("Default is not Ruby")
	}
}

func TestMetaChars(t *testing.T) {
	s := Ruby().Clone()
	if got := s.MetaChar(MetaEscape); got != '\\' {
		t.Errorf("escape = %q", got)
	}
	if err := s.SetMetaChar(MetaEscape, '%'); err != nil {
		t.Fatal(err)
	}
	if err := s.SetMetaChar(MetaCharIndex(42), 'x'); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("unknown slot error = %v", err)
	}

	tree := mustParse(t, `%d+`, 0, s)
	if got := tree.Root.String(); got != `rep{1,inf}([[:digit:]])` {
		t.Errorf("tree = %s", got)
	}

	// Slots other than the escape need OpVariableMetaCharacters.
	if err := s.SetMetaChar(MetaAnyChar, '_'); err != nil {
		t.Fatal(err)
	}
	tree = mustParse(t, `_`, 0, s)
	if tree.Root.Kind != NodeLiteral {
		t.Errorf("'_' without variable meta = %s", tree.Root)
	}
	s.SetOp(s.Op() | OpVariableMetaCharacters)
	tree = mustParse(t, `_`, 0, s)
	if tree.Root.Kind != NodeAnyChar {
		t.Errorf("'_' with variable meta = %s", tree.Root)
	}
}

func TestOptionString(t *testing.T) {
	tests := []struct {
		opt  Option
		want string
	}{
		{OptionNone, "None"},
		{OptionIgnoreCase, "IgnoreCase"},
		{OptionIgnoreCase | OptionNotEOL, "IgnoreCase|NotEOL"},
		{Option(1 << 20), "0x100000"},
	}
	for _, tt := range tests {
		if got := tt.opt.String(); got != tt.want {
			t.Errorf("Option(%d).String() = %q, want %q", uint32(tt.opt), got, tt.want)
		}
	}
}

func TestParseOptions(t *testing.T) {
	opt, ok := ParseOptions("i,x|FindLongest")
	if !ok || opt != OptionIgnoreCase|OptionExtend|OptionFindLongest {
		t.Errorf("ParseOptions = %v, %v", opt, ok)
	}
	if _, ok := ParseOptions("bogus"); ok {
		t.Error("ParseOptions accepted an unknown name")
	}
}

func TestErrorFormatting(t *testing.T) {
	err := NewError(ErrUndefinedNameReference, 3, []byte("foo"))
	if got := err.Error(); got != "onig: undefined name <foo> reference (at offset 3)" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrUndefinedNameReference) {
		t.Error("errors.Is does not see the code")
	}
	if kind, ok := KindOf(err); !ok || kind != KindSyntax {
		t.Errorf("KindOf = %v, %v", kind, ok)
	}

	ctrl := ErrUndefinedNameReference.Format([]byte("a\x01"))
	if ctrl != `undefined name <a\001> reference` {
		t.Errorf("Format = %q", ctrl)
	}
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want ErrorKind
	}{
		{ErrUnsupportedConstruct, KindUnsupported},
		{ErrMatchStackLimitOver, KindResourceExhausted},
		{ErrRetryLimitInMatchOver, KindResourceExhausted},
		{ErrTooShortMultiByteString, KindEncoding},
		{ErrInvalidCombinationOfOptions, KindInvalidArgument},
		{ErrParserBug, KindInternal},
		{ErrInvalidBackref, KindSyntax},
	}
	for _, tt := range tests {
		if got := tt.code.Kind(); got != tt.want {
			t.Errorf("%d.Kind() = %v, want %v", int(tt.code), got, tt.want)
		}
	}
	if got := ErrorCode(-9999).Message(); got != "undefined error code (-9999)" {
		t.Errorf("unknown code message = %q", got)
	}
}

func TestCharClassMatches(t *testing.T) {
	tests := []struct {
		pattern string
		in, out string
	}{
		{"[a-c]", "abc", "dA"},
		{"[^a-c]", "dA\n", "abc"},
		{`[\w&&[^_]]`, "aZ9", "_-"},
		{"[a-z&&[^aeiou]]", "bcz", "aeA"},
		{`[[:upper:][:digit:]]`, "A5", "a_"},
		{`(?i)[a-c]`, "aBC", "dD"},
		{`[\x{3b1}-\x{3b3}]`, "αβγ", "δa"},
		{`[[:^alpha:]]`, "1 ", "aZ"},
	}
	for _, tt := range tests {
		tree := mustParse(t, tt.pattern, 0, Ruby())
		n := tree.Root
		if n.Kind == NodeGroup {
			n = n.Sub()
		}
		if n.Kind != NodeClass {
			t.Fatalf("%q parsed to %s", tt.pattern, n)
		}
		for _, r := range tt.in {
			if !n.Class.Matches(r) {
				t.Errorf("%q does not match %q", tt.pattern, r)
			}
		}
		for _, r := range tt.out {
			if n.Class.Matches(r) {
				t.Errorf("%q matches %q", tt.pattern, r)
			}
		}
	}
}

func TestNotNewlineInNegativeClass(t *testing.T) {
	tree := mustParse(t, "[^a]", 0, Grep())
	if tree.Root.Class.Matches('\n') {
		t.Error("Grep [^a] matches newline")
	}
	tree = mustParse(t, "[^a]", 0, Ruby())
	if !tree.Root.Class.Matches('\n') {
		t.Error("Ruby [^a] does not match newline")
	}
}

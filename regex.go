package onig

import (
	"fmt"
	"sync"

	"github.com/coregx/onig/encoding"
	"github.com/coregx/onig/literal"
	"github.com/coregx/onig/prefilter"
	"github.com/coregx/onig/syntax"
	"github.com/coregx/onig/vm"
)

// Regex is a compiled pattern.
//
// A Regex is safe to use concurrently from multiple goroutines. Each call
// takes a machine from an internal pool.
//
// Example:
//
//	re := onig.MustCompile(`h(?<v>[aeiou])llo`)
//	loc := re.FindSubmatchIndex([]byte("say hello"))
//	// loc = [4 9 5 6]
type Regex struct {
	pattern []byte
	prog    *vm.Prog
	names   *vm.NameTable
	syn     *syntax.Syntax
	opt     syntax.Option
	enc     encoding.Encoding

	numHistory int
	limits     vm.Limits
	pf         prefilter.Prefilter

	pool sync.Pool
}

// New compiles pattern under syn in enc. A nil enc selects UTF-8 and a nil
// syn the default (Ruby) syntax.
//
// Example:
//
//	re, err := onig.New([]byte(`a+`), onig.OptionIgnoreCase, encoding.UTF8, syntax.Ruby())
func New(pattern []byte, opt syntax.Option, enc encoding.Encoding, syn *syntax.Syntax) (*Regex, error) {
	cfg := DefaultConfig()
	if enc != nil {
		cfg.Encoding = enc
	}
	if syn != nil {
		cfg.Syntax = syn
	}
	return NewWithConfig(pattern, opt, cfg)
}

// NewWithConfig compiles pattern with an explicit configuration.
func NewWithConfig(pattern []byte, opt syntax.Option, cfg Config) (*Regex, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Encoding == nil {
		cfg.Encoding = encoding.UTF8
	}
	if cfg.Syntax == nil {
		cfg.Syntax = syntax.Default()
	}

	tree, err := syntax.Parse(pattern, opt, cfg.Syntax, cfg.Encoding, syntax.ParseConfig{
		DepthLimit:  cfg.ParseDepthLimit,
		Warn:        cfg.Warn,
		VerboseWarn: cfg.VerboseWarn,
	})
	if err != nil {
		return nil, err
	}
	prog, err := vm.Compile(tree, cfg.Encoding)
	if err != nil {
		return nil, err
	}

	syn := cfg.Syntax
	if !syn.Frozen() {
		// Later mutation by the caller must not affect the compiled pattern.
		syn = syn.Clone()
	}
	re := &Regex{
		pattern:    append([]byte(nil), pattern...),
		prog:       prog,
		names:      vm.NewNameTable(tree.Names),
		syn:        syn,
		opt:        tree.Options,
		enc:        cfg.Encoding,
		numHistory: tree.NumHistory,
		limits: vm.Limits{
			MatchStack: cfg.MatchStackLimit,
			Retry:      cfg.RetryLimitInMatch,
		},
	}
	if !cfg.DisablePrefilter {
		re.pf = buildPrefilter(tree, prog, cfg.Encoding)
	}
	re.pool.New = func() any { return vm.NewMachine(prog) }
	return re, nil
}

// buildPrefilter prefers literal prefixes and falls back to the set of
// possible first bytes.
func buildPrefilter(tree *syntax.Tree, prog *vm.Prog, enc encoding.Encoding) prefilter.Prefilter {
	if prog.Anchor != vm.StartAnywhere {
		return nil
	}
	if !tree.HasCalls {
		prefixes := literal.New(literal.DefaultConfig(), enc).Prefixes(tree.Root)
		if pf := prefilter.NewBuilder(prefixes).Build(); pf != nil {
			return pf
		}
	}
	if set, ok := vm.FirstBytes(prog); ok {
		return prefilter.NewByteSet(set)
	}
	return nil
}

// Compile compiles a pattern with the default syntax, UTF-8 and no
// options.
//
// Example:
//
//	re, err := onig.Compile(`\d{3}-\d{4}`)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string) (*Regex, error) {
	return New([]byte(pattern), OptionNone, nil, nil)
}

// MustCompile is like Compile but panics if the pattern is invalid.
//
// Example:
//
//	var word = onig.MustCompile(`\w+`)
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic("onig: Compile(`" + pattern + "`): " + err.Error())
	}
	return re
}

func (r *Regex) getMachine() *vm.Machine {
	return r.pool.Get().(*vm.Machine)
}

func (r *Regex) putMachine(m *vm.Machine) {
	m.Reset(vm.Input{}, vm.Limits{})
	r.pool.Put(m)
}

// String returns the source text of the pattern.
func (r *Regex) String() string { return string(r.pattern) }

// NumberOfCaptures returns the number of capture groups, group 0 excluded.
func (r *Regex) NumberOfCaptures() int { return r.prog.NumCaptures }

// NumberOfNames returns the number of distinct group names.
func (r *Regex) NumberOfNames() int { return r.names.Len() }

// NumberOfCaptureHistories returns the number of groups recorded in the
// capture-history tree, 0 when capture history is not in use.
func (r *Regex) NumberOfCaptureHistories() int { return r.numHistory }

// NameToGroupNumbers returns the groups defined with name in definition
// order, or nil when the name is unknown.
func (r *Regex) NameToGroupNumbers(name string) []int {
	return r.names.GroupNumbers(name)
}

// ForEachName calls fn for each group name in first-definition order until
// fn returns false.
func (r *Regex) ForEachName(fn func(name string, groups []int) bool) {
	r.names.ForEach(fn)
}

// NameToBackrefNumber returns the group a back-reference to name refers
// to: for a name defined more than once, the last defined group that is
// set in region, else the last defined group.
func (r *Regex) NameToBackrefNumber(name string, region *Region) (int, error) {
	groups := r.names.GroupNumbers(name)
	if len(groups) == 0 {
		return 0, syntax.NewError(syntax.ErrUndefinedNameReference, -1, []byte(name))
	}
	if region != nil {
		for i := len(groups) - 1; i >= 0; i-- {
			if region.Beg(groups[i]) != Unset {
				return groups[i], nil
			}
		}
	}
	return groups[len(groups)-1], nil
}

// NonameGroupCaptureIsActive reports whether plain (...) groups capture.
func (r *Regex) NonameGroupCaptureIsActive() bool {
	if r.opt&OptionDontCaptureGroup != 0 {
		return false
	}
	if r.names.Len() > 0 && r.syn.IsBehavior(syntax.BehaviorCaptureOnlyNamedGroup) &&
		r.opt&OptionCaptureGroup == 0 {
		return false
	}
	return true
}

// Encoding returns the encoding the pattern was compiled in.
func (r *Regex) Encoding() encoding.Encoding { return r.enc }

// Options returns the effective compile options.
func (r *Regex) Options() syntax.Option { return r.opt }

// Syntax returns the syntax the pattern was compiled under. It is frozen
// or a private copy; do not mutate it.
func (r *Regex) Syntax() *syntax.Syntax { return r.syn }

// Dump returns a listing of the compiled program, for debugging.
func (r *Regex) Dump() string {
	return fmt.Sprintf("pattern %q (%s)\n%s", r.pattern, r.opt, r.prog)
}

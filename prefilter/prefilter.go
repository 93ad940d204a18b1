// Package prefilter provides fast candidate filtering for regex search using
// extracted literal sequences.
//
// A prefilter skips positions in the haystack where no match can begin, so
// the backtracking machine only runs where one of the pattern's prefix
// literals occurs.
//
// The builder selects a strategy from the extracted literals:
//   - Single byte → memchr
//   - Single substring → memmem
//   - Two or three single bytes → memchr2/memchr3
//   - More single bytes → byte table scan
//   - Several literals → Aho-Corasick automaton
//
// Example usage:
//
//	tree, _ := syntax.Parse([]byte("hello|world"), 0, syntax.Ruby(), encoding.UTF8, syntax.ParseConfig{})
//	prefixes := literal.New(literal.DefaultConfig(), encoding.UTF8).Prefixes(tree.Root)
//
//	pf := prefilter.NewBuilder(prefixes).Build()
//	pos := pf.Find([]byte("foo hello bar world baz"), 0)
//	// pos == 4
package prefilter

import (
	"github.com/coregx/onig/literal"
	"github.com/coregx/onig/simd"
)

// Prefilter finds candidate match positions before the full regex engine
// runs.
type Prefilter interface {
	// Find returns the index of the first candidate at or after start, or
	// -1 if no candidate exists. A candidate does not guarantee a match
	// unless IsComplete reports true.
	Find(haystack []byte, start int) int

	// IsComplete reports whether a candidate is always a full match of
	// length LiteralLen.
	IsComplete() bool

	// LiteralLen returns the length of the matched literal when IsComplete
	// is true, and 0 otherwise.
	LiteralLen() int

	// HeapBytes returns the heap memory used by the prefilter.
	HeapBytes() int
}

// Builder constructs the prefilter for a literal sequence.
type Builder struct {
	prefixes *literal.Seq
}

// NewBuilder returns a builder for prefixes, the literals every match
// begins with. prefixes may be nil.
func NewBuilder(prefixes *literal.Seq) *Builder {
	return &Builder{prefixes: prefixes}
}

// Build returns the best prefilter for the literals, or nil when none
// applies: the sequence is infinite or empty, or some match may begin with
// the empty string.
func (b *Builder) Build() Prefilter {
	seq := b.prefixes
	if !seq.IsFinite() || seq.IsEmpty() || seq.HasEmpty() {
		return nil
	}

	if seq.Len() == 1 {
		lit := seq.Get(0)
		if len(lit.Bytes) == 1 {
			return newMemchrPrefilter(lit.Bytes[0], lit.Complete)
		}
		return newMemmemPrefilter(lit.Bytes, lit.Complete)
	}

	if maxLen(seq) == 1 {
		set := make([]byte, seq.Len())
		for i := range set {
			set[i] = seq.Get(i).Bytes[0]
		}
		return NewByteSet(set)
	}

	pf, err := newAhoCorasickPrefilter(seq)
	if err != nil {
		return nil
	}
	return pf
}

func maxLen(seq *literal.Seq) int {
	n := 0
	for i := 0; i < seq.Len(); i++ {
		if l := seq.Get(i).Len(); l > n {
			n = l
		}
	}
	return n
}

// memchrPrefilter searches for a single byte.
type memchrPrefilter struct {
	needle   byte
	complete bool
}

func newMemchrPrefilter(needle byte, complete bool) Prefilter {
	return &memchrPrefilter{needle: needle, complete: complete}
}

func (p *memchrPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := simd.Memchr(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

func (p *memchrPrefilter) IsComplete() bool { return p.complete }

func (p *memchrPrefilter) LiteralLen() int {
	if p.complete {
		return 1
	}
	return 0
}

func (p *memchrPrefilter) HeapBytes() int { return 0 }

// memmemPrefilter searches for a single substring.
type memmemPrefilter struct {
	needle   []byte
	complete bool
}

func newMemmemPrefilter(needle []byte, complete bool) Prefilter {
	return &memmemPrefilter{
		needle:   append([]byte(nil), needle...),
		complete: complete,
	}
}

func (p *memmemPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := simd.Memmem(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

func (p *memmemPrefilter) IsComplete() bool { return p.complete }

func (p *memmemPrefilter) LiteralLen() int {
	if p.complete {
		return len(p.needle)
	}
	return 0
}

func (p *memmemPrefilter) HeapBytes() int { return len(p.needle) }

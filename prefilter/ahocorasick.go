package prefilter

import (
	"bytes"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/onig/literal"
)

// ahoCorasickPrefilter finds the leftmost occurrence of any of several
// literals. The automaton reports the occurrence that ends first, so a
// longer literal starting earlier is looked for in the window before it.
type ahoCorasickPrefilter struct {
	auto   *ahocorasick.Automaton
	lits   [][]byte
	maxLen int
	bytes  int
}

func newAhoCorasickPrefilter(seq *literal.Seq) (*ahoCorasickPrefilter, error) {
	builder := ahocorasick.NewBuilder()
	p := &ahoCorasickPrefilter{lits: make([][]byte, 0, seq.Len())}
	for i := 0; i < seq.Len(); i++ {
		lit := seq.Get(i)
		builder.AddPattern(lit.Bytes)
		p.lits = append(p.lits, lit.Bytes)
		p.maxLen = max(p.maxLen, lit.Len())
		p.bytes += lit.Len()
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}
	p.auto = auto
	return p, nil
}

func (p *ahoCorasickPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	m := p.auto.Find(haystack, start)
	if m == nil {
		return -1
	}
	// An occurrence starting before m.Start ends at or after m.End.
	for pos := max(start, m.End-p.maxLen); pos < m.Start; pos++ {
		if p.startsAt(haystack, pos) {
			return pos
		}
	}
	return m.Start
}

func (p *ahoCorasickPrefilter) startsAt(haystack []byte, pos int) bool {
	for _, lit := range p.lits {
		if bytes.HasPrefix(haystack[pos:], lit) {
			return true
		}
	}
	return false
}

// IsComplete is false: the matched literal length varies.
func (p *ahoCorasickPrefilter) IsComplete() bool { return false }

func (p *ahoCorasickPrefilter) LiteralLen() int { return 0 }

// HeapBytes estimates the trie size from the total pattern length.
func (p *ahoCorasickPrefilter) HeapBytes() int { return p.bytes * 8 }

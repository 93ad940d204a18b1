// Package literal extracts the literal strings a match must begin with, for
// prefilter selection.
//
// A Literal is a concrete byte string; a Seq is a set of alternative
// literals, such as the prefixes of the branches of foo|bar. A Seq is either
// finite, listing every possible prefix, or infinite, meaning nothing useful
// is known and any position can start a match.
package literal

import (
	"bytes"
	"sort"
	"strings"
)

// Literal is a byte string a match can begin with. Complete is set when the
// literal covers the whole of the construct it was extracted from.
type Literal struct {
	Bytes    []byte
	Complete bool
}

// NewLiteral returns a literal holding b.
func NewLiteral(b []byte, complete bool) Literal {
	return Literal{Bytes: b, Complete: complete}
}

// Len returns the length of the literal in bytes.
func (l Literal) Len() int { return len(l.Bytes) }

func (l Literal) String() string {
	if l.Complete {
		return "E(" + string(l.Bytes) + ")"
	}
	return "I(" + string(l.Bytes) + ")"
}

// Seq is a set of alternative literals.
type Seq struct {
	lits     []Literal
	infinite bool
}

// NewSeq returns a finite sequence of lits.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{lits: lits}
}

// Infinite returns the sequence that matches anything.
func Infinite() *Seq {
	return &Seq{infinite: true}
}

// Len returns the number of literals; zero for an infinite sequence.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.lits)
}

// Get returns the i-th literal.
func (s *Seq) Get(i int) Literal { return s.lits[i] }

// IsFinite reports whether the sequence lists every possible prefix.
func (s *Seq) IsFinite() bool { return s != nil && !s.infinite }

// IsEmpty reports whether the sequence holds no literal.
func (s *Seq) IsEmpty() bool { return s.Len() == 0 }

// HasEmpty reports whether some literal is empty, so a match may begin
// with anything.
func (s *Seq) HasEmpty() bool {
	for _, l := range s.lits {
		if len(l.Bytes) == 0 {
			return true
		}
	}
	return false
}

// Literals returns the byte strings of the sequence.
func (s *Seq) Literals() [][]byte {
	out := make([][]byte, len(s.lits))
	for i, l := range s.lits {
		out[i] = l.Bytes
	}
	return out
}

// MakeInexact clears Complete on every literal.
func (s *Seq) MakeInexact() {
	for i := range s.lits {
		s.lits[i].Complete = false
	}
}

// Minimize drops duplicates and every literal that has another literal of
// the sequence as a prefix: a search for the shorter one finds both.
func (s *Seq) Minimize() {
	if s.Len() < 2 {
		return
	}
	sort.SliceStable(s.lits, func(i, j int) bool {
		return len(s.lits[i].Bytes) < len(s.lits[j].Bytes)
	})
	kept := s.lits[:0]
	for _, l := range s.lits {
		redundant := false
		for _, k := range kept {
			if bytes.HasPrefix(l.Bytes, k.Bytes) {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, l)
		}
	}
	s.lits = kept
}

// LongestCommonPrefix returns the longest prefix shared by all literals.
func (s *Seq) LongestCommonPrefix() []byte {
	if s.IsEmpty() {
		return nil
	}
	prefix := s.lits[0].Bytes
	for _, l := range s.lits[1:] {
		n := 0
		for n < len(prefix) && n < len(l.Bytes) && prefix[n] == l.Bytes[n] {
			n++
		}
		prefix = prefix[:n]
	}
	return append([]byte(nil), prefix...)
}

func (s *Seq) String() string {
	if !s.IsFinite() {
		return "[∞]"
	}
	parts := make([]string, len(s.lits))
	for i, l := range s.lits {
		parts[i] = l.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

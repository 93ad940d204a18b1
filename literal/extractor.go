package literal

import (
	"github.com/coregx/onig/encoding"
	"github.com/coregx/onig/syntax"
)

// ExtractorConfig bounds extraction.
type ExtractorConfig struct {
	// MaxLiterals caps the size of a sequence; larger ones become infinite.
	MaxLiterals int
	// MaxLiteralLen truncates literals, making them inexact.
	MaxLiteralLen int
	// MaxClassSize is the largest character class expanded into literals.
	MaxClassSize int
}

// DefaultConfig returns the default extraction limits.
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   64,
		MaxLiteralLen: 32,
		MaxClassSize:  10,
	}
}

// maxDepth bounds recursion over deeply nested trees.
const maxDepth = 100

// Extractor extracts prefix literals from parse trees.
//
// Example:
//
//	tree, _ := syntax.Parse([]byte("(foo|bar)baz"), 0, syntax.Ruby(), encoding.UTF8, syntax.ParseConfig{})
//	seq := literal.New(literal.DefaultConfig(), encoding.UTF8).Prefixes(tree.Root)
//	// seq = [E(foobaz), E(barbaz)]
type Extractor struct {
	config ExtractorConfig
	enc    encoding.Encoding
}

// New returns an extractor for patterns in enc.
func New(config ExtractorConfig, enc encoding.Encoding) *Extractor {
	if enc == nil {
		enc = encoding.UTF8
	}
	return &Extractor{config: config, enc: enc}
}

// Prefixes returns the literals every match of n begins with. Zero-width
// assertions are skipped, so the result may admit more positions than can
// actually match, never fewer.
func (e *Extractor) Prefixes(n *syntax.Node) *Seq {
	seq := e.prefixes(n, 0)
	if seq.IsFinite() {
		seq.Minimize()
	}
	return seq
}

func (e *Extractor) prefixes(n *syntax.Node, depth int) *Seq {
	if depth > maxDepth {
		return Infinite()
	}
	switch n.Kind {
	case syntax.NodeEmpty, syntax.NodeAnchor, syntax.NodeKeep:
		return NewSeq(NewLiteral(nil, true))

	case syntax.NodeLiteral:
		if n.Fold {
			return e.foldLiteral(n.Bytes)
		}
		return e.truncate(NewSeq(NewLiteral(append([]byte(nil), n.Bytes...), true)))

	case syntax.NodeClass:
		return e.class(n.Class)

	case syntax.NodeConcat:
		return e.concat(n.Subs, depth)

	case syntax.NodeAlternate:
		var lits []Literal
		for _, s := range n.Subs {
			seq := e.prefixes(s, depth+1)
			if !seq.IsFinite() {
				return seq
			}
			lits = append(lits, seq.lits...)
			if len(lits) > e.config.MaxLiterals {
				return Infinite()
			}
		}
		return NewSeq(lits...)

	case syntax.NodeRepeat:
		if n.Min == 0 {
			return Infinite()
		}
		seq := e.prefixes(n.Sub(), depth+1)
		if n.Min != 1 || n.Max != 1 {
			seq.MakeInexact()
		}
		return seq

	case syntax.NodeCapture:
		return e.prefixes(n.Sub(), depth+1)

	case syntax.NodeGroup:
		if n.Group.IsLookaround() {
			return NewSeq(NewLiteral(nil, true))
		}
		return e.prefixes(n.Sub(), depth+1)
	}
	// AnyChar, Backref, Call, Conditional.
	return Infinite()
}

// concat builds the cross product of the parts' prefixes until every
// literal is inexact.
func (e *Extractor) concat(subs []*syntax.Node, depth int) *Seq {
	acc := NewSeq(NewLiteral(nil, true))
	for _, s := range subs {
		if !anyComplete(acc) {
			break
		}
		next := e.prefixes(s, depth+1)
		if !next.IsFinite() {
			if acc.HasEmpty() {
				return Infinite()
			}
			acc.MakeInexact()
			break
		}
		var out []Literal
		for _, a := range acc.lits {
			if !a.Complete {
				out = append(out, a)
				continue
			}
			for _, b := range next.lits {
				joined := make([]byte, 0, len(a.Bytes)+len(b.Bytes))
				joined = append(append(joined, a.Bytes...), b.Bytes...)
				out = append(out, NewLiteral(joined, b.Complete))
			}
		}
		if len(out) > e.config.MaxLiterals {
			acc.MakeInexact()
			break
		}
		acc = e.truncate(NewSeq(out...))
	}
	return acc
}

func anyComplete(s *Seq) bool {
	for _, l := range s.lits {
		if l.Complete {
			return true
		}
	}
	return false
}

func (e *Extractor) truncate(s *Seq) *Seq {
	for i := range s.lits {
		if len(s.lits[i].Bytes) > e.config.MaxLiteralLen {
			s.lits[i].Bytes = s.lits[i].Bytes[:e.config.MaxLiteralLen]
			s.lits[i].Complete = false
		}
	}
	return s
}

// foldLiteral expands a case-insensitive literal into its case variants,
// one character at a time.
func (e *Extractor) foldLiteral(b []byte) *Seq {
	acc := NewSeq(NewLiteral(nil, true))
	for i := 0; i < len(b); {
		r, n := e.enc.Decode(b[i:])
		i += n
		variants := e.runes(encoding.Orbit(e.enc, r))
		if variants == nil {
			acc.MakeInexact()
			return acc
		}
		var out []Literal
		for _, a := range acc.lits {
			for _, v := range variants {
				joined := append(append([]byte(nil), a.Bytes...), v...)
				out = append(out, NewLiteral(joined, true))
			}
		}
		if len(out) > e.config.MaxLiterals {
			acc.MakeInexact()
			return acc
		}
		acc = NewSeq(out...)
	}
	return e.truncate(acc)
}

// class expands a small class into one literal per member.
func (e *Extractor) class(cc *syntax.CharClass) *Seq {
	if !cc.HasOnlyRanges() {
		return Infinite()
	}
	var members []rune
	for _, rg := range cc.Ranges() {
		if int(rg.Hi-rg.Lo)+1+len(members) > e.config.MaxClassSize {
			return Infinite()
		}
		for r := rg.Lo; r <= rg.Hi; r++ {
			if cc.Fold {
				members = append(members, encoding.Orbit(e.enc, r)...)
			} else {
				members = append(members, r)
			}
		}
	}
	if len(members) == 0 || len(members) > e.config.MaxLiterals {
		return Infinite()
	}
	encoded := e.runes(members)
	if encoded == nil {
		return Infinite()
	}
	lits := make([]Literal, len(encoded))
	for i, b := range encoded {
		lits[i] = NewLiteral(b, true)
	}
	return NewSeq(lits...)
}

// runes encodes each rune, dropping duplicates. It returns nil when a rune
// has no encoding.
func (e *Extractor) runes(rs []rune) [][]byte {
	seen := make(map[rune]bool, len(rs))
	var out [][]byte
	for _, r := range rs {
		if seen[r] {
			continue
		}
		seen[r] = true
		b, ok := e.enc.AppendRune(nil, r)
		if !ok {
			return nil
		}
		out = append(out, b)
	}
	return out
}

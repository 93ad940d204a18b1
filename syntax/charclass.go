package syntax

import (
	"fmt"
	"sort"
	"strings"

	"github.com/coregx/onig/encoding"
)

// RuneRange is an inclusive code point range.
type RuneRange struct {
	Lo, Hi rune
}

type ctypeItem struct {
	ctype encoding.Ctype
	neg   bool
}

type propItem struct {
	name string
	pred encoding.Predicate
	neg  bool
}

// CharClass is a bracket expression or a character-type escape. It is a
// union of ranges, ctypes, properties and nested classes, intersected with
// each operand of && and optionally negated. Call Freeze before matching
// to build the ASCII lookup bitmap.
type CharClass struct {
	ranges []RuneRange
	ctypes []ctypeItem
	props  []propItem
	subs   []*CharClass
	ands   []*CharClass

	// Negated inverts the class. NoNewline excludes '\n' from a negated
	// class. Fold matches any member of a character's case-fold orbit.
	Negated   bool
	NoNewline bool
	Fold      bool

	enc    encoding.Encoding
	frozen bool
	ascii  [2]uint64
}

// NewCharClass returns an empty class for enc.
func NewCharClass(enc encoding.Encoding) *CharClass {
	return &CharClass{enc: enc}
}

// NewCtypeClass returns a class holding a single ctype, e.g. \w or \D.
func NewCtypeClass(enc encoding.Encoding, ct encoding.Ctype, neg bool) *CharClass {
	c := NewCharClass(enc)
	c.AddCtype(ct, neg)
	return c
}

// AddRange adds lo-hi to the class.
func (c *CharClass) AddRange(lo, hi rune) {
	c.ranges = append(c.ranges, RuneRange{lo, hi})
}

// AddRune adds r to the class.
func (c *CharClass) AddRune(r rune) {
	c.AddRange(r, r)
}

// AddCtype adds a ctype, or its complement when neg is set.
func (c *CharClass) AddCtype(ct encoding.Ctype, neg bool) {
	c.ctypes = append(c.ctypes, ctypeItem{ct, neg})
}

// AddProperty adds a named property, or its complement.
func (c *CharClass) AddProperty(name string, pred encoding.Predicate, neg bool) {
	c.props = append(c.props, propItem{name, pred, neg})
}

// AddClass adds a nested class to the union.
func (c *CharClass) AddClass(sub *CharClass) {
	c.subs = append(c.subs, sub)
}

// Intersect constrains the class to members of other as well.
func (c *CharClass) Intersect(other *CharClass) {
	c.ands = append(c.ands, other)
}

// IsEmptyUnion reports whether no items were added to the union.
func (c *CharClass) IsEmptyUnion() bool {
	return len(c.ranges) == 0 && len(c.ctypes) == 0 && len(c.props) == 0 && len(c.subs) == 0
}

// Ranges returns the sorted, merged code point ranges of the union part.
func (c *CharClass) Ranges() []RuneRange {
	return c.ranges
}

// HasOnlyRanges reports whether the class is a plain, non-negated set of
// code point ranges.
func (c *CharClass) HasOnlyRanges() bool {
	return !c.Negated && len(c.ctypes) == 0 && len(c.props) == 0 && len(c.subs) == 0 && len(c.ands) == 0
}

// Freeze normalizes the ranges and precomputes the ASCII bitmap. The class
// must not be modified afterwards.
func (c *CharClass) Freeze() {
	if c.frozen {
		return
	}
	for _, s := range c.subs {
		s.Freeze()
	}
	for _, a := range c.ands {
		a.Freeze()
	}
	c.ranges = mergeRanges(c.ranges)
	for r := rune(0); r < 128; r++ {
		if c.matchSlow(r) {
			c.ascii[r>>6] |= 1 << (uint(r) & 63)
		}
	}
	c.frozen = true
}

// Matches reports whether r is a member of the class.
func (c *CharClass) Matches(r rune) bool {
	if c.frozen && r >= 0 && r < 128 {
		return c.ascii[r>>6]&(1<<(uint(r)&63)) != 0
	}
	return c.matchSlow(r)
}

func (c *CharClass) matchSlow(r rune) bool {
	in := c.contains(r)
	if !in && c.Fold {
		for f := c.enc.SimpleFold(r); f != r; f = c.enc.SimpleFold(f) {
			if c.contains(f) {
				in = true
				break
			}
		}
	}
	if c.Negated {
		if c.NoNewline && r == '\n' {
			return false
		}
		return !in
	}
	return in
}

// contains tests the union and intersections without fold or negation.
func (c *CharClass) contains(r rune) bool {
	in := c.IsEmptyUnion() && len(c.ands) > 0
	if !in {
		in = c.unionContains(r)
	}
	if !in {
		return false
	}
	for _, a := range c.ands {
		if !a.Matches(r) {
			return false
		}
	}
	return true
}

func (c *CharClass) unionContains(r rune) bool {
	if c.frozen {
		i := sort.Search(len(c.ranges), func(i int) bool { return c.ranges[i].Hi >= r })
		if i < len(c.ranges) && c.ranges[i].Lo <= r {
			return true
		}
	} else {
		for _, rg := range c.ranges {
			if rg.Lo <= r && r <= rg.Hi {
				return true
			}
		}
	}
	for _, ct := range c.ctypes {
		if c.enc.IsCtype(r, ct.ctype) != ct.neg {
			return true
		}
	}
	for _, p := range c.props {
		if p.pred(r) != p.neg {
			return true
		}
	}
	for _, s := range c.subs {
		if s.Matches(r) {
			return true
		}
	}
	return false
}

// SingleByteSet returns the bytes that can begin a match of the class when
// every member is a single byte below 0x80, and ok=false otherwise.
func (c *CharClass) SingleByteSet() (set []byte, ok bool) {
	if !c.HasOnlyRanges() || c.Fold {
		return nil, false
	}
	for _, rg := range c.ranges {
		if rg.Hi >= 0x80 {
			return nil, false
		}
		for r := rg.Lo; r <= rg.Hi; r++ {
			set = append(set, byte(r))
		}
	}
	return set, true
}

func (c *CharClass) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	if c.Negated {
		sb.WriteByte('^')
	}
	for _, rg := range c.ranges {
		if rg.Lo == rg.Hi {
			writeClassRune(&sb, rg.Lo)
		} else {
			writeClassRune(&sb, rg.Lo)
			sb.WriteByte('-')
			writeClassRune(&sb, rg.Hi)
		}
	}
	for _, ct := range c.ctypes {
		if ct.neg {
			fmt.Fprintf(&sb, "[:^%s:]", ct.ctype)
		} else {
			fmt.Fprintf(&sb, "[:%s:]", ct.ctype)
		}
	}
	for _, p := range c.props {
		if p.neg {
			fmt.Fprintf(&sb, `\P{%s}`, p.name)
		} else {
			fmt.Fprintf(&sb, `\p{%s}`, p.name)
		}
	}
	for _, s := range c.subs {
		sb.WriteString(s.String())
	}
	for _, a := range c.ands {
		sb.WriteString("&&")
		sb.WriteString(a.String())
	}
	sb.WriteByte(']')
	if c.Fold {
		sb.WriteString("/i")
	}
	return sb.String()
}

func writeClassRune(sb *strings.Builder, r rune) {
	if r >= 0x20 && r < 0x7f && r != ']' && r != '-' && r != '\\' && r != '^' {
		sb.WriteRune(r)
		return
	}
	fmt.Fprintf(sb, `\x{%X}`, r)
}

func mergeRanges(rs []RuneRange) []RuneRange {
	if len(rs) < 2 {
		return rs
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i].Lo < rs[j].Lo })
	out := rs[:1]
	for _, r := range rs[1:] {
		last := &out[len(out)-1]
		if r.Lo <= last.Hi+1 {
			if r.Hi > last.Hi {
				last.Hi = r.Hi
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

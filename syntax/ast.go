package syntax

import (
	"fmt"
	"strings"
)

// NodeKind identifies the type of a parse-tree node.
type NodeKind uint8

const (
	NodeEmpty NodeKind = iota
	NodeLiteral
	NodeClass
	NodeAnyChar
	NodeAnchor
	NodeConcat
	NodeAlternate
	NodeRepeat
	NodeCapture
	NodeGroup
	NodeBackref
	NodeCall
	NodeConditional
	NodeKeep
)

var nodeKindNames = [...]string{
	NodeEmpty:       "Empty",
	NodeLiteral:     "Literal",
	NodeClass:       "Class",
	NodeAnyChar:     "AnyChar",
	NodeAnchor:      "Anchor",
	NodeConcat:      "Concat",
	NodeAlternate:   "Alternate",
	NodeRepeat:      "Repeat",
	NodeCapture:     "Capture",
	NodeGroup:       "Group",
	NodeBackref:     "Backref",
	NodeCall:        "Call",
	NodeConditional: "Conditional",
	NodeKeep:        "Keep",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", k)
}

// AnchorKind identifies a zero-width assertion.
type AnchorKind uint8

const (
	AnchorBeginLine     AnchorKind = iota // ^
	AnchorEndLine                         // $
	AnchorBeginBuf                        // \A \`
	AnchorEndBuf                          // \z \'
	AnchorSemiEndBuf                      // \Z
	AnchorBeginPosition                   // \G
	AnchorWordBoundary                    // \b
	AnchorNotWordBoundary                 // \B
	AnchorWordBegin                       // \<
	AnchorWordEnd                         // \>
)

var anchorNames = [...]string{
	AnchorBeginLine:       "^",
	AnchorEndLine:         "$",
	AnchorBeginBuf:        `\A`,
	AnchorEndBuf:          `\z`,
	AnchorSemiEndBuf:      `\Z`,
	AnchorBeginPosition:   `\G`,
	AnchorWordBoundary:    `\b`,
	AnchorNotWordBoundary: `\B`,
	AnchorWordBegin:       `\<`,
	AnchorWordEnd:         `\>`,
}

func (a AnchorKind) String() string {
	if int(a) < len(anchorNames) {
		return anchorNames[a]
	}
	return fmt.Sprintf("AnchorKind(%d)", a)
}

// GroupKind identifies the effect of a non-capturing NodeGroup.
type GroupKind uint8

const (
	GroupNonCapture GroupKind = iota
	GroupAtomic
	GroupLookAhead
	GroupNegLookAhead
	GroupLookBehind
	GroupNegLookBehind
)

// IsLookaround reports whether the group is a look-ahead or look-behind.
func (g GroupKind) IsLookaround() bool {
	return g >= GroupLookAhead
}

// IsLookBehind reports whether the group is a look-behind.
func (g GroupKind) IsLookBehind() bool {
	return g == GroupLookBehind || g == GroupNegLookBehind
}

// Node is a parse-tree node. Which fields are meaningful depends on Kind.
type Node struct {
	Kind NodeKind
	Subs []*Node

	// Literal: the encoded bytes. Fold applies to Literal, Class and Backref.
	Bytes []byte
	Fold  bool

	Class *CharClass

	// AnyChar: DotAll matches newline too.
	DotAll bool

	Anchor AnchorKind
	// LineMeta marks a buffer anchor written as ^ or $ under
	// OptionSingleline, so NotBOL and NotEOL apply to it.
	LineMeta bool

	// Repeat bounds; Max < 0 is unbounded.
	Min, Max   int
	Greedy     bool
	Possessive bool

	Group GroupKind

	// Capture: group number and optional name. History records the group
	// in the capture-history tree. Call: target group number and name.
	Index   int
	Name    string
	History bool

	// Backref and Conditional: referenced group numbers, highest first for
	// backrefs to duplicated names.
	Refs []int

	// Pos is the byte offset of the construct in the pattern.
	Pos int

	refName     string
	refNumbered bool
}

// Sub returns the single child of a unary node.
func (n *Node) Sub() *Node {
	if len(n.Subs) == 0 {
		return nil
	}
	return n.Subs[0]
}

// String renders the tree in a compact prefix form, for tests and debugging.
func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder) {
	if n == nil {
		sb.WriteString("nil")
		return
	}
	switch n.Kind {
	case NodeEmpty:
		sb.WriteString("empty")
	case NodeLiteral:
		if n.Fold {
			fmt.Fprintf(sb, "lit/i%q", n.Bytes)
		} else {
			fmt.Fprintf(sb, "lit%q", n.Bytes)
		}
	case NodeClass:
		sb.WriteString(n.Class.String())
	case NodeAnyChar:
		if n.DotAll {
			sb.WriteString("any/m")
		} else {
			sb.WriteString("any")
		}
	case NodeAnchor:
		sb.WriteString(n.Anchor.String())
	case NodeKeep:
		sb.WriteString(`\K`)
	case NodeConcat, NodeAlternate:
		if n.Kind == NodeConcat {
			sb.WriteString("cat{")
		} else {
			sb.WriteString("alt{")
		}
		for i, s := range n.Subs {
			if i > 0 {
				sb.WriteByte(' ')
			}
			s.write(sb)
		}
		sb.WriteByte('}')
	case NodeRepeat:
		max := "inf"
		if n.Max >= 0 {
			max = fmt.Sprint(n.Max)
		}
		mode := ""
		switch {
		case n.Possessive:
			mode = "+"
		case !n.Greedy:
			mode = "?"
		}
		fmt.Fprintf(sb, "rep{%d,%s}%s(", n.Min, max, mode)
		n.Sub().write(sb)
		sb.WriteByte(')')
	case NodeCapture:
		fmt.Fprintf(sb, "cap%d", n.Index)
		if n.Name != "" {
			fmt.Fprintf(sb, "<%s>", n.Name)
		}
		if n.History {
			sb.WriteByte('@')
		}
		sb.WriteByte('(')
		n.Sub().write(sb)
		sb.WriteByte(')')
	case NodeGroup:
		names := [...]string{"group", "atomic", "la", "nla", "lb", "nlb"}
		sb.WriteString(names[n.Group])
		sb.WriteByte('(')
		n.Sub().write(sb)
		sb.WriteByte(')')
	case NodeBackref:
		fmt.Fprintf(sb, "ref%v", n.Refs)
		if n.Fold {
			sb.WriteString("/i")
		}
	case NodeCall:
		fmt.Fprintf(sb, "call%d", n.Index)
	case NodeConditional:
		fmt.Fprintf(sb, "cond%v(", n.Refs)
		n.Subs[0].write(sb)
		sb.WriteByte('|')
		n.Subs[1].write(sb)
		sb.WriteByte(')')
	}
}

// Name is one entry of the name table: a group name and the numbers of the
// groups defined with it, in definition order.
type Name struct {
	Name   string
	Groups []int
}

// Tree is a parsed pattern.
type Tree struct {
	Root *Node

	// NumCaptures is the number of capturing groups, excluding group 0.
	NumCaptures int
	// Captures indexes capture nodes by group number; Captures[0] is nil.
	Captures []*Node
	// Names lists named groups in first-definition order.
	Names []Name

	// Options are the effective compile options.
	Options Option

	// NumHistory counts groups recorded in the capture-history tree.
	NumHistory int
	// HasCalls is set when the pattern contains subexpression calls;
	// CallsRoot when one of them is \g<0>.
	HasCalls  bool
	CallsRoot bool
	// NumRepeats is the number of counted repeats ({n,m} with m > 1).
	NumRepeats int
}

// GroupNumbers returns the group numbers defined with name.
func (t *Tree) GroupNumbers(name string) []int {
	for _, n := range t.Names {
		if n.Name == name {
			return n.Groups
		}
	}
	return nil
}

// Walk calls fn for n and every descendant in pre-order. fn returning false
// prunes the subtree.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, s := range n.Subs {
		Walk(s, fn)
	}
}

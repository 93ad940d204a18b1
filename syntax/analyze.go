package syntax

import "github.com/coregx/onig/encoding"

// CharLen returns the number of characters n always matches, and false
// when the length varies or depends on captured text.
func CharLen(n *Node, enc encoding.Encoding) (int, bool) {
	switch n.Kind {
	case NodeEmpty, NodeAnchor, NodeKeep:
		return 0, true
	case NodeLiteral:
		count := 0
		for i := 0; i < len(n.Bytes); i += enc.CharLen(n.Bytes[i:]) {
			count++
		}
		return count, true
	case NodeClass, NodeAnyChar:
		return 1, true
	case NodeConcat:
		total := 0
		for _, s := range n.Subs {
			l, ok := CharLen(s, enc)
			if !ok {
				return 0, false
			}
			total += l
		}
		return total, true
	case NodeAlternate:
		first := -1
		for _, s := range n.Subs {
			l, ok := CharLen(s, enc)
			if !ok || (first >= 0 && l != first) {
				return 0, false
			}
			first = l
		}
		return first, true
	case NodeRepeat:
		if n.Min != n.Max {
			return 0, false
		}
		l, ok := CharLen(n.Sub(), enc)
		return l * n.Min, ok
	case NodeCapture:
		return CharLen(n.Sub(), enc)
	case NodeGroup:
		if n.Group.IsLookaround() {
			return 0, true
		}
		return CharLen(n.Sub(), enc)
	case NodeConditional:
		a, okA := CharLen(n.Subs[0], enc)
		b, okB := CharLen(n.Subs[1], enc)
		return a, okA && okB && a == b
	}
	return 0, false
}

// checkLookBehind requires every top-level alternative of a look-behind
// body to have a fixed length. Alternatives of different lengths need
// BehaviorDifferentLenAltLookBehind.
func (p *parser) checkLookBehind(body *Node) error {
	if body.Kind != NodeAlternate {
		if _, ok := CharLen(body, p.enc); !ok {
			return p.errAt(ErrInvalidLookBehindPattern, body.Pos)
		}
		return nil
	}
	first := -1
	for _, s := range body.Subs {
		l, ok := CharLen(s, p.enc)
		if !ok {
			return p.errAt(ErrInvalidLookBehindPattern, s.Pos)
		}
		if first >= 0 && l != first && !p.syn.IsBehavior(BehaviorDifferentLenAltLookBehind) {
			return p.errAt(ErrInvalidLookBehindPattern, s.Pos)
		}
		first = l
	}
	return nil
}

// MinLen returns a lower bound on the bytes n consumes. Calls and
// back-references are resolved through t.
func MinLen(n *Node, t *Tree) int {
	return minLen(n, t, make(map[*Node]bool))
}

func minLen(n *Node, t *Tree, active map[*Node]bool) int {
	switch n.Kind {
	case NodeLiteral:
		return len(n.Bytes)
	case NodeClass, NodeAnyChar:
		return 1
	case NodeConcat:
		total := 0
		for _, s := range n.Subs {
			total += minLen(s, t, active)
		}
		return total
	case NodeAlternate:
		best := -1
		for _, s := range n.Subs {
			if l := minLen(s, t, active); best < 0 || l < best {
				best = l
			}
		}
		return max(best, 0)
	case NodeRepeat:
		if n.Min == 0 {
			return 0
		}
		return n.Min * minLen(n.Sub(), t, active)
	case NodeCapture:
		if active[n] {
			return 0
		}
		active[n] = true
		l := minLen(n.Sub(), t, active)
		delete(active, n)
		return l
	case NodeGroup:
		if n.Group.IsLookaround() {
			return 0
		}
		return minLen(n.Sub(), t, active)
	case NodeConditional:
		return min(minLen(n.Subs[0], t, active), minLen(n.Subs[1], t, active))
	case NodeCall:
		target := t.callTarget(n)
		if target == nil || active[target] {
			return 0
		}
		active[target] = true
		l := minLen(target, t, active)
		delete(active, target)
		return l
	case NodeBackref:
		best := -1
		for _, g := range n.Refs {
			c := t.Captures[g]
			if active[c] {
				return 0
			}
			active[c] = true
			l := minLen(c.Sub(), t, active)
			delete(active, c)
			if best < 0 || l < best {
				best = l
			}
		}
		return max(best, 0)
	}
	return 0
}

// callTarget returns the node a call enters: a capture, or the whole
// pattern for \g<0>.
func (t *Tree) callTarget(n *Node) *Node {
	if n.Index == 0 {
		return t.Root
	}
	if n.Index < len(t.Captures) {
		return t.Captures[n.Index]
	}
	return nil
}

type recursion uint8

const (
	recursionNone recursion = iota
	recursionExist
	recursionInfinite
)

type recursionChecker struct {
	t      *Tree
	root   *Node
	inPath map[*Node]bool
}

// checkRecursion rejects groups that can call themselves again before
// consuming any input.
func checkRecursion(t *Tree) error {
	targets := map[*Node]bool{}
	Walk(t.Root, func(n *Node) bool {
		if n.Kind == NodeCall {
			if target := t.callTarget(n); target != nil {
				targets[target] = true
			}
		}
		return true
	})
	for target := range targets {
		rc := &recursionChecker{t: t, root: target, inPath: map[*Node]bool{}}
		body := target
		if target.Kind == NodeCapture {
			body = target.Sub()
		}
		if rc.check(body, true) == recursionInfinite {
			return NewError(ErrNeverEndingRecursion, target.Pos, nil)
		}
	}
	return nil
}

func (rc *recursionChecker) check(n *Node, head bool) recursion {
	switch n.Kind {
	case NodeConcat:
		r := recursionNone
		for _, s := range n.Subs {
			sr := rc.check(s, head)
			if sr == recursionInfinite {
				return sr
			}
			r = max(r, sr)
			if head && MinLen(s, rc.t) > 0 {
				head = false
			}
		}
		return r
	case NodeAlternate:
		r := recursionNone
		for _, s := range n.Subs {
			sr := rc.check(s, head)
			if sr == recursionInfinite {
				return sr
			}
			r = max(r, sr)
		}
		return r
	case NodeRepeat:
		r := rc.check(n.Sub(), head)
		if r == recursionExist && n.Min == 0 {
			r = recursionNone
		}
		return r
	case NodeGroup:
		return rc.check(n.Sub(), head)
	case NodeConditional:
		return max(rc.check(n.Subs[0], head), rc.check(n.Subs[1], head))
	case NodeCapture:
		return rc.enter(n, n.Sub(), head)
	case NodeCall:
		target := rc.t.callTarget(n)
		if target == nil {
			return recursionNone
		}
		body := target
		if target.Kind == NodeCapture {
			body = target.Sub()
		}
		return rc.enter(target, body, head)
	}
	return recursionNone
}

func (rc *recursionChecker) enter(target, body *Node, head bool) recursion {
	if target == rc.root {
		if head {
			return recursionInfinite
		}
		return recursionExist
	}
	if rc.inPath[target] {
		return recursionNone
	}
	rc.inPath[target] = true
	r := rc.check(body, head)
	delete(rc.inPath, target)
	return r
}

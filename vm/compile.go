package vm

import (
	"fmt"
	"sort"

	"github.com/coregx/onig/encoding"
	"github.com/coregx/onig/syntax"
)

type compiler struct {
	b    *Builder
	tree *syntax.Tree
	enc  encoding.Encoding

	called    map[int]bool
	callSites []callSite

	counters   int
	nullChecks int
}

type callSite struct {
	inst  InstID
	group int
}

// Compile lowers a parse tree into a program.
func Compile(tree *syntax.Tree, enc encoding.Encoding) (*Prog, error) {
	if enc == nil {
		enc = encoding.UTF8
	}
	c := &compiler{
		b:      NewBuilderWithCapacity(64),
		tree:   tree,
		enc:    enc,
		called: map[int]bool{},
	}
	syntax.Walk(tree.Root, func(n *syntax.Node) bool {
		if n.Kind == syntax.NodeCall {
			c.called[n.Index] = true
		}
		return true
	})

	start := c.b.Next()
	if tree.CallsRoot {
		c.callSites = append(c.callSites, callSite{inst: c.b.Emit(Inst{Op: OpCall}), group: 0})
		c.b.EmitOp(OpMatch)
	} else {
		if err := c.compile(tree.Root); err != nil {
			return nil, err
		}
		c.b.EmitOp(OpMatch)
	}

	entries, err := c.subroutines()
	if err != nil {
		return nil, err
	}
	for _, cs := range c.callSites {
		c.b.PatchX(cs.inst, entries[cs.group])
	}

	insts, err := c.b.Build()
	if err != nil {
		return nil, &CompileError{Err: err}
	}

	prog := &Prog{
		Insts:         insts,
		Start:         start,
		Enc:           enc,
		Options:       tree.Options,
		NumCaptures:   tree.NumCaptures,
		NumCounters:   c.counters,
		NumNullChecks: c.nullChecks,
		Anchor:        startAnchor(tree.Root, c.called),
	}
	for _, cap := range tree.Captures[1:] {
		if cap.History {
			prog.HistoryGroups |= 1 << uint(cap.Index)
		}
	}
	return prog, nil
}

// subroutines emits one body per called group: group 0 is the whole
// pattern, other groups record their capture around the body.
func (c *compiler) subroutines() (map[int]InstID, error) {
	groups := make([]int, 0, len(c.called))
	for g := range c.called {
		groups = append(groups, g)
	}
	sort.Ints(groups)

	entries := make(map[int]InstID, len(groups))
	for _, g := range groups {
		entries[g] = c.b.Next()
		if g == 0 {
			if err := c.compile(c.tree.Root); err != nil {
				return nil, err
			}
			c.b.EmitOp(OpReturn)
			continue
		}
		node := c.tree.Captures[g]
		c.b.Emit(Inst{Op: OpMemStart, N: g, History: node.History})
		if err := c.compile(node.Sub()); err != nil {
			return nil, err
		}
		c.b.Emit(Inst{Op: OpMemEnd, N: g, History: node.History})
		c.b.EmitOp(OpReturn)
	}
	return entries, nil
}

func (c *compiler) compile(n *syntax.Node) error {
	switch n.Kind {
	case syntax.NodeEmpty:
		return nil

	case syntax.NodeLiteral:
		c.literal(n.Bytes, n.Fold)

	case syntax.NodeClass:
		c.b.Emit(Inst{Op: OpClass, Class: n.Class})

	case syntax.NodeAnyChar:
		if n.DotAll {
			c.b.EmitOp(OpAnyCharNL)
		} else {
			c.b.EmitOp(OpAnyChar)
		}

	case syntax.NodeAnchor:
		c.b.Emit(Inst{Op: OpAnchor, Anchor: n.Anchor, LineMeta: n.LineMeta})

	case syntax.NodeKeep:
		c.b.EmitOp(OpKeep)

	case syntax.NodeConcat:
		return c.concat(n.Subs)

	case syntax.NodeAlternate:
		return c.alternate(n.Subs, nil)

	case syntax.NodeRepeat:
		if n.Possessive {
			c.b.EmitOp(OpAtomicStart)
			if err := c.repeat(n); err != nil {
				return err
			}
			c.b.EmitOp(OpAtomicEnd)
			return nil
		}
		return c.repeat(n)

	case syntax.NodeCapture:
		if c.called[n.Index] {
			c.callSites = append(c.callSites, callSite{inst: c.b.Emit(Inst{Op: OpCall}), group: n.Index})
			return nil
		}
		c.b.Emit(Inst{Op: OpMemStart, N: n.Index, History: n.History})
		if err := c.compile(n.Sub()); err != nil {
			return err
		}
		c.b.Emit(Inst{Op: OpMemEnd, N: n.Index, History: n.History})

	case syntax.NodeGroup:
		return c.group(n)

	case syntax.NodeBackref:
		c.b.Emit(Inst{Op: OpBackref, Refs: n.Refs, Fold: n.Fold})

	case syntax.NodeCall:
		c.callSites = append(c.callSites, callSite{inst: c.b.Emit(Inst{Op: OpCall}), group: n.Index})

	case syntax.NodeConditional:
		cond := c.b.Emit(Inst{Op: OpCondRef, Refs: n.Refs})
		if err := c.compile(n.Subs[0]); err != nil {
			return err
		}
		end := c.b.EmitJump()
		c.b.PatchX(cond, c.b.Next())
		if err := c.compile(n.Subs[1]); err != nil {
			return err
		}
		c.b.PatchX(end, c.b.Next())

	default:
		return &CompileError{Err: fmt.Errorf("unexpected node kind %s", n.Kind)}
	}
	return nil
}

// literal emits a string instruction, extending the previous one when it
// has the same case sensitivity.
func (c *compiler) literal(b []byte, fold bool) {
	op := OpString
	if fold {
		op = OpStringFold
	}
	if next := c.b.Next(); next > 0 {
		prev := c.b.Inst(next - 1)
		if prev.Op == op && !c.isJumpTarget(next) {
			prev.Bytes = append(prev.Bytes, b...)
			return
		}
	}
	c.b.Emit(Inst{Op: op, Bytes: append([]byte(nil), b...)})
}

// isJumpTarget reports whether a patched jump already targets id. Forward
// jumps still pending hold target zero and never point past the end.
func (c *compiler) isJumpTarget(id InstID) bool {
	for i := range c.b.insts {
		in := &c.b.insts[i]
		switch in.Op {
		case OpJump, OpNegLookStart, OpNullCheckEnd, OpCondRef:
			if in.X == id {
				return true
			}
		case OpSplit, OpRepeatBranch:
			if in.X == id || in.Y == id {
				return true
			}
		}
	}
	return false
}

func (c *compiler) concat(subs []*syntax.Node) error {
	for _, s := range subs {
		if err := c.compile(s); err != nil {
			return err
		}
	}
	return nil
}

// alternate emits branches in order. prefix, when set, is emitted at the
// head of each branch; look-behind uses it for the step-back.
func (c *compiler) alternate(subs []*syntax.Node, prefix func(*syntax.Node) error) error {
	var ends []InstID
	for i, s := range subs {
		var split InstID
		last := i == len(subs)-1
		if !last {
			split = c.b.EmitSplit(c.b.Next()+1, 0)
		}
		if prefix != nil {
			if err := prefix(s); err != nil {
				return err
			}
		}
		if err := c.compile(s); err != nil {
			return err
		}
		if !last {
			ends = append(ends, c.b.EmitJump())
			c.b.PatchY(split, c.b.Next())
		}
	}
	for _, j := range ends {
		c.b.PatchX(j, c.b.Next())
	}
	return nil
}

func (c *compiler) group(n *syntax.Node) error {
	switch n.Group {
	case syntax.GroupNonCapture:
		return c.compile(n.Sub())
	case syntax.GroupAtomic:
		c.b.EmitOp(OpAtomicStart)
		if err := c.compile(n.Sub()); err != nil {
			return err
		}
		c.b.EmitOp(OpAtomicEnd)
	case syntax.GroupLookAhead:
		c.b.EmitOp(OpLookStart)
		if err := c.compile(n.Sub()); err != nil {
			return err
		}
		c.b.EmitOp(OpLookEnd)
	case syntax.GroupNegLookAhead:
		start := c.b.Emit(Inst{Op: OpNegLookStart})
		if err := c.compile(n.Sub()); err != nil {
			return err
		}
		c.b.EmitOp(OpNegLookEnd)
		c.b.PatchX(start, c.b.Next())
	case syntax.GroupLookBehind:
		c.b.EmitOp(OpLookStart)
		if err := c.lookBehind(n.Sub()); err != nil {
			return err
		}
		c.b.EmitOp(OpLookEnd)
	case syntax.GroupNegLookBehind:
		start := c.b.Emit(Inst{Op: OpNegLookStart})
		if err := c.lookBehind(n.Sub()); err != nil {
			return err
		}
		c.b.EmitOp(OpNegLookEnd)
		c.b.PatchX(start, c.b.Next())
	}
	return nil
}

// lookBehind steps back by each alternative's own length before matching it.
func (c *compiler) lookBehind(body *syntax.Node) error {
	stepBack := func(alt *syntax.Node) error {
		l, ok := syntax.CharLen(alt, c.enc)
		if !ok {
			return syntax.NewError(syntax.ErrInvalidLookBehindPattern, alt.Pos, nil)
		}
		if l > 0 {
			c.b.Emit(Inst{Op: OpStepBack, N: l})
		}
		return nil
	}
	if body.Kind == syntax.NodeAlternate {
		return c.alternate(body.Subs, stepBack)
	}
	if err := stepBack(body); err != nil {
		return err
	}
	return c.compile(body)
}

// repeat lowers a quantifier. Loops whose body can match empty get a null
// check that leaves the loop after an empty iteration.
func (c *compiler) repeat(n *syntax.Node) error {
	sub := n.Sub()
	min, max := n.Min, n.Max
	if max == 0 {
		return nil
	}
	if min == 1 && max == 1 {
		return c.compile(sub)
	}
	nullable := syntax.MinLen(sub, c.tree) == 0

	switch {
	case min == 0 && max == 1:
		split := c.b.EmitSplit(0, 0)
		body := c.b.Next()
		if err := c.compile(sub); err != nil {
			return err
		}
		c.patchChoice(split, body, c.b.Next(), n.Greedy)

	case min == 0 && max < 0:
		split := c.b.EmitSplit(0, 0)
		body := c.b.Next()
		check, err := c.loopBody(sub, nullable)
		if err != nil {
			return err
		}
		j := c.b.EmitJump()
		c.b.PatchX(j, split)
		exit := c.b.Next()
		c.patchChoice(split, body, exit, n.Greedy)
		c.patchCheck(check, exit)

	case min == 1 && max < 0:
		body := c.b.Next()
		check, err := c.loopBody(sub, nullable)
		if err != nil {
			return err
		}
		split := c.b.EmitSplit(0, 0)
		exit := c.b.Next()
		c.patchChoice(split, body, exit, n.Greedy)
		c.patchCheck(check, exit)

	default:
		counter := c.counters
		c.counters++
		c.b.Emit(Inst{Op: OpRepeatStart, N: counter})
		branch := c.b.Emit(Inst{Op: OpRepeatBranch, N: counter, Min: min, Max: max, Greedy: n.Greedy})
		body := c.b.Next()
		check, err := c.loopBody(sub, nullable)
		if err != nil {
			return err
		}
		c.b.Emit(Inst{Op: OpRepeatInc, N: counter})
		j := c.b.EmitJump()
		c.b.PatchX(j, branch)
		exit := c.b.Next()
		c.b.PatchX(branch, body)
		c.b.PatchY(branch, exit)
		c.patchCheck(check, exit)
	}
	return nil
}

// loopBody emits a loop body, wrapped in a null check when it can match
// empty. It returns the null-check end to patch, or -1.
func (c *compiler) loopBody(sub *syntax.Node, nullable bool) (int, error) {
	if !nullable {
		return -1, c.compile(sub)
	}
	slot := c.nullChecks
	c.nullChecks++
	c.b.Emit(Inst{Op: OpNullCheckStart, N: slot})
	if err := c.compile(sub); err != nil {
		return -1, err
	}
	return int(c.b.Emit(Inst{Op: OpNullCheckEnd, N: slot})), nil
}

func (c *compiler) patchCheck(check int, exit InstID) {
	if check >= 0 {
		c.b.PatchX(InstID(check), exit)
	}
}

func (c *compiler) patchChoice(split, body, exit InstID, greedy bool) {
	if greedy {
		c.b.PatchX(split, body)
		c.b.PatchY(split, exit)
	} else {
		c.b.PatchX(split, exit)
		c.b.PatchY(split, body)
	}
}

// startAnchor finds an anchor every match must begin with.
func startAnchor(n *syntax.Node, called map[int]bool) StartAnchor {
	for {
		switch n.Kind {
		case syntax.NodeConcat:
			if len(n.Subs) == 0 {
				return StartAnywhere
			}
			n = n.Subs[0]
		case syntax.NodeCapture:
			if called[n.Index] {
				return StartAnywhere
			}
			n = n.Sub()
		case syntax.NodeGroup:
			if n.Group != syntax.GroupNonCapture && n.Group != syntax.GroupAtomic {
				return StartAnywhere
			}
			n = n.Sub()
		case syntax.NodeAnchor:
			switch n.Anchor {
			case syntax.AnchorBeginBuf:
				return StartBeginBuf
			case syntax.AnchorBeginPosition:
				return StartBeginPosition
			case syntax.AnchorBeginLine:
				return StartBeginLine
			}
			return StartAnywhere
		default:
			return StartAnywhere
		}
	}
}

// CompileError wraps lowering errors.
type CompileError struct {
	Err error
}

// Error implements the error interface
func (e *CompileError) Error() string {
	return fmt.Sprintf("onig: compile failed: %v", e.Err)
}

// Unwrap returns the underlying error
func (e *CompileError) Unwrap() error {
	return e.Err
}

// Package vm compiles parse trees into a program for a backtracking
// machine and runs it.
//
// A program is a flat slice of instructions. Control flow uses explicit
// jump targets; alternatives push choice points onto the machine stack.
// Groups that are targets of subexpression calls are compiled once as
// subroutines ending in OpReturn and entered through OpCall.
package vm

import (
	"fmt"
	"strings"

	"github.com/coregx/onig/encoding"
	"github.com/coregx/onig/syntax"
)

// InstID indexes an instruction in a Prog.
type InstID uint32

// Opcode identifies an instruction.
type Opcode uint8

const (
	OpMatch Opcode = iota
	OpFail
	OpString     // match Bytes exactly
	OpStringFold // match Bytes under simple case folding
	OpClass      // match one character of Class
	OpAnyChar    // match any character but newline
	OpAnyCharNL  // match any character
	OpAnchor     // assert Anchor
	OpJump       // goto X
	OpSplit      // try X, on failure Y
	OpMemStart   // open group N
	OpMemEnd     // close group N
	OpBackref    // match the text of the first set group in Refs
	OpKeep       // reset the reported match start
	OpAtomicStart
	OpAtomicEnd
	OpLookStart
	OpLookEnd
	OpNegLookStart // body follows; X is the continuation when the body fails
	OpNegLookEnd
	OpStepBack     // move back N characters
	OpRepeatStart  // counter N = 0
	OpRepeatBranch // loop on counter N: body at X, exit at Y
	OpRepeatInc    // counter N++
	OpNullCheckStart
	OpNullCheckEnd // goto X when the loop body matched empty
	OpCall         // call subroutine X
	OpReturn
	OpCondRef // continue when a group in Refs is set, else goto X
)

var opcodeNames = [...]string{
	OpMatch:          "match",
	OpFail:           "fail",
	OpString:         "str",
	OpStringFold:     "str/i",
	OpClass:          "class",
	OpAnyChar:        "any",
	OpAnyCharNL:      "any/m",
	OpAnchor:         "anchor",
	OpJump:           "jump",
	OpSplit:          "split",
	OpMemStart:       "mem-start",
	OpMemEnd:         "mem-end",
	OpBackref:        "backref",
	OpKeep:           "keep",
	OpAtomicStart:    "atomic-start",
	OpAtomicEnd:      "atomic-end",
	OpLookStart:      "look-start",
	OpLookEnd:        "look-end",
	OpNegLookStart:   "neg-look-start",
	OpNegLookEnd:     "neg-look-end",
	OpStepBack:       "step-back",
	OpRepeatStart:    "repeat-start",
	OpRepeatBranch:   "repeat-branch",
	OpRepeatInc:      "repeat-inc",
	OpNullCheckStart: "null-check-start",
	OpNullCheckEnd:   "null-check-end",
	OpCall:           "call",
	OpReturn:         "return",
	OpCondRef:        "cond-ref",
}

func (o Opcode) String() string {
	if int(o) < len(opcodeNames) {
		return opcodeNames[o]
	}
	return fmt.Sprintf("Opcode(%d)", o)
}

// Inst is one instruction. Which fields are meaningful depends on Op.
type Inst struct {
	Op   Opcode
	X, Y InstID
	N    int

	Min, Max int
	Greedy   bool

	Bytes []byte
	Class *syntax.CharClass

	Anchor   syntax.AnchorKind
	LineMeta bool

	History bool
	Refs    []int
	Fold    bool
}

// Prog is a compiled pattern.
type Prog struct {
	Insts []Inst
	Start InstID

	Enc     encoding.Encoding
	Options syntax.Option

	// NumCaptures excludes group 0.
	NumCaptures   int
	NumCounters   int
	NumNullChecks int
	// HistoryGroups has bit g set when group g is recorded in the capture
	// history tree.
	HistoryGroups uint32

	// Anchor summarizes leading anchors for the search loop.
	Anchor StartAnchor
}

// StartAnchor describes an anchor every match must begin with.
type StartAnchor uint8

const (
	StartAnywhere StartAnchor = iota
	StartBeginBuf
	StartBeginPosition
	StartBeginLine
)

// NumRegs returns the number of capture registers (group 0 included).
func (p *Prog) NumRegs() int { return p.NumCaptures + 1 }

// HasHistory reports whether any group is recorded in the capture tree.
func (p *Prog) HasHistory() bool { return p.HistoryGroups != 0 }

// String dumps the program, one instruction per line.
func (p *Prog) String() string {
	var sb strings.Builder
	for i := range p.Insts {
		mark := "  "
		if InstID(i) == p.Start {
			mark = "> "
		}
		fmt.Fprintf(&sb, "%s%03d %s\n", mark, i, p.Insts[i].String())
	}
	return sb.String()
}

func (in *Inst) String() string {
	switch in.Op {
	case OpString, OpStringFold:
		return fmt.Sprintf("%s %q", in.Op, in.Bytes)
	case OpClass:
		return fmt.Sprintf("%s %s", in.Op, in.Class)
	case OpAnchor:
		return fmt.Sprintf("%s %s", in.Op, in.Anchor)
	case OpJump, OpCall, OpNegLookStart, OpNullCheckEnd, OpCondRef:
		if in.Op == OpCondRef {
			return fmt.Sprintf("%s %v -> %d", in.Op, in.Refs, in.X)
		}
		if in.Op == OpNullCheckEnd {
			return fmt.Sprintf("%s %d -> %d", in.Op, in.N, in.X)
		}
		return fmt.Sprintf("%s %d", in.Op, in.X)
	case OpSplit:
		return fmt.Sprintf("%s %d, %d", in.Op, in.X, in.Y)
	case OpMemStart, OpMemEnd:
		if in.History {
			return fmt.Sprintf("%s %d @", in.Op, in.N)
		}
		return fmt.Sprintf("%s %d", in.Op, in.N)
	case OpBackref:
		if in.Fold {
			return fmt.Sprintf("%s/i %v", in.Op, in.Refs)
		}
		return fmt.Sprintf("%s %v", in.Op, in.Refs)
	case OpStepBack, OpRepeatStart, OpRepeatInc, OpNullCheckStart:
		return fmt.Sprintf("%s %d", in.Op, in.N)
	case OpRepeatBranch:
		max := "inf"
		if in.Max >= 0 {
			max = fmt.Sprint(in.Max)
		}
		lazy := ""
		if !in.Greedy {
			lazy = "?"
		}
		return fmt.Sprintf("%s %d {%d,%s}%s %d, %d", in.Op, in.N, in.Min, max, lazy, in.X, in.Y)
	}
	return in.Op.String()
}

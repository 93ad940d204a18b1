package vm

import (
	"github.com/coregx/onig/encoding"
	"github.com/coregx/onig/internal/conv"
	"github.com/coregx/onig/internal/sparse"
)

// maxFirstBytes bounds the size of a useful first-byte set.
const maxFirstBytes = 16

// FirstBytes returns the set of bytes every match of p must begin
// with. ok is false when the set is unknown, too large, or when the program
// can match the empty string or begins with a construct the analysis does
// not follow (look-around, back-references, any-character).
func FirstBytes(p *Prog) (set []byte, ok bool) {
	var seen [256]bool
	visited := sparse.NewSparseSet(conv.IntToUint32(len(p.Insts)))
	stack := []InstID{p.Start}
	add := func(c byte) {
		if !seen[c] {
			seen[c] = true
			set = append(set, c)
		}
	}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visited.Insert(uint32(id)) {
			continue
		}
		in := &p.Insts[id]
		switch in.Op {
		case OpFail:
		case OpString:
			add(in.Bytes[0])
		case OpStringFold:
			r, _ := p.Enc.Decode(in.Bytes)
			for _, f := range encoding.Orbit(p.Enc, r) {
				b, encoded := p.Enc.AppendRune(nil, f)
				if !encoded {
					return nil, false
				}
				add(b[0])
			}
		case OpClass:
			bs, single := in.Class.SingleByteSet()
			if !single {
				return nil, false
			}
			for _, c := range bs {
				add(c)
			}
		case OpJump:
			stack = append(stack, in.X)
		case OpSplit, OpRepeatBranch:
			stack = append(stack, in.Y, in.X)
		case OpCondRef:
			stack = append(stack, in.X, id+1)
		case OpCall:
			stack = append(stack, in.X)
		case OpAnchor, OpMemStart, OpMemEnd, OpKeep, OpAtomicStart, OpAtomicEnd,
			OpRepeatStart, OpRepeatInc, OpNullCheckStart:
			stack = append(stack, id+1)
		case OpNullCheckEnd:
			stack = append(stack, in.X, id+1)
		default:
			// Match, Return, any-character, back-references and look-around.
			return nil, false
		}
		if len(set) > maxFirstBytes {
			return nil, false
		}
	}
	return set, len(set) > 0
}

package vm

import (
	"fmt"

	"github.com/coregx/onig/internal/conv"
)

// Builder constructs programs incrementally using a low-level API.
// Forward jumps are emitted with a zero target and patched once the
// target is known.
type Builder struct {
	insts []Inst
}

// NewBuilder creates a new program builder with default capacity
func NewBuilder() *Builder {
	return NewBuilderWithCapacity(16)
}

// NewBuilderWithCapacity creates a new program builder with specified initial capacity
func NewBuilderWithCapacity(capacity int) *Builder {
	return &Builder{insts: make([]Inst, 0, capacity)}
}

// Next returns the ID the next emitted instruction will get.
func (b *Builder) Next() InstID {
	return InstID(conv.IntToUint32(len(b.insts)))
}

// Emit appends an instruction and returns its ID.
func (b *Builder) Emit(in Inst) InstID {
	id := b.Next()
	b.insts = append(b.insts, in)
	return id
}

// EmitOp appends an instruction with no operands.
func (b *Builder) EmitOp(op Opcode) InstID {
	return b.Emit(Inst{Op: op})
}

// EmitJump appends an unpatched jump.
func (b *Builder) EmitJump() InstID {
	return b.Emit(Inst{Op: OpJump})
}

// EmitSplit appends a split preferring x over y.
func (b *Builder) EmitSplit(x, y InstID) InstID {
	return b.Emit(Inst{Op: OpSplit, X: x, Y: y})
}

// PatchX sets the primary target of instruction id.
func (b *Builder) PatchX(id, target InstID) {
	b.insts[id].X = target
}

// PatchY sets the secondary target of instruction id.
func (b *Builder) PatchY(id, target InstID) {
	b.insts[id].Y = target
}

// Inst returns a pointer to an emitted instruction for in-place edits.
func (b *Builder) Inst(id InstID) *Inst {
	return &b.insts[id]
}

// Build validates jump targets and returns the instruction slice.
func (b *Builder) Build() ([]Inst, error) {
	n := b.Next()
	for i := range b.insts {
		in := &b.insts[i]
		switch in.Op {
		case OpJump, OpCall, OpNegLookStart, OpNullCheckEnd, OpCondRef:
			if in.X >= n {
				return nil, &BuildError{Message: fmt.Sprintf("target %d out of range", in.X), Inst: InstID(conv.IntToUint32(i))}
			}
		case OpSplit, OpRepeatBranch:
			if in.X >= n || in.Y >= n {
				return nil, &BuildError{Message: fmt.Sprintf("targets %d, %d out of range", in.X, in.Y), Inst: InstID(conv.IntToUint32(i))}
			}
		}
	}
	return b.insts, nil
}

// BuildError reports a malformed program.
type BuildError struct {
	Message string
	Inst    InstID
}

// Error implements the error interface
func (e *BuildError) Error() string {
	return fmt.Sprintf("program build error at instruction %d: %s", e.Inst, e.Message)
}

// Package compiler assembles numexpr bytecode from a stream of already
// parsed tokens.
//
// # Assembly
//
// A producer, typically an expression parser, walks its parse result and
// feeds tokens to a [Program] in reverse Polish order:
//
//	p := compiler.New()
//	p.PushValue(bytecode.NewVariable("x", &x))
//	p.PushValue(bytecode.NewConstant(2))
//	p.PushCall(bytecode.NewOperator("*", builtins.Mul))
//	p.Finalize()
//
// Every stored instruction is stamped with the stack slot its result occupies
// and the program tracks the high-water mark of the stack, so an evaluator
// can allocate its stack once from [Program.MaxStackSize].
//
// # Optimization
//
// [Program.Finalize] runs a peephole pass that fuses two adjacent operator
// calls into one three-operand native call, and a unary integer power
// followed by a multiply or add into one two-operand call. Two further rule
// sets, constant folding and linear value folding, run while calls are pushed
// but are disabled unless explicitly enabled with [WithConstantFolding] and
// [WithLinearFolding].
//
// # Classification
//
// Finalize also computes an engine selector from the value/call shape of the
// program. A selector of -1 means no specialized evaluator applies.
//
// # Errors
//
// Precondition violations by the producer, such as popping more operands than
// were pushed, are reported as internal errors (see the errors package). They
// leave the program unchanged.
package compiler

import (
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/numexpr/bytecode"
	"github.com/deepnoodle-ai/numexpr/errors"
	"github.com/deepnoodle-ai/numexpr/op"
)

// Program is an RPN program under construction. It is owned by a single
// producer while being built; once finalized it is read-only and may be
// shared by concurrent evaluators.
type Program struct {
	id uuid.UUID

	code []bytecode.Instruction

	// Current logical stack depth while building.
	stackPos int

	// High-water mark of stackPos.
	maxStackSize int

	// Engine selector, computed by Finalize. -1 until then.
	engineID int

	cfg Config
	log zerolog.Logger
}

// New returns an empty program.
func New(opts ...Option) *Program {
	p := &Program{
		engineID: -1,
		cfg:      DefaultConfig(),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if id, err := uuid.NewV4(); err == nil {
		p.id = id
	}
	capacity := p.cfg.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	p.code = make([]bytecode.Instruction, 0, capacity)
	p.log = p.log.With().Str("program", p.id.String()).Logger()
	return p
}

// ID returns the identifier of the program, used in logs and dumps.
func (p *Program) ID() uuid.UUID {
	return p.id
}

// Config returns the program's configuration.
func (p *Program) Config() Config {
	return p.cfg
}

// PushValue appends a value. The stack grows by one slot.
func (p *Program) PushValue(v *bytecode.Value) {
	p.stackPos++
	p.updateMaxStackSize()
	// The depth was just incremented so the append cannot fail.
	_ = p.AppendRaw(v)
}

// AppendRaw stamps a copy of the instruction with the current stack depth and
// appends it without changing the depth. Callers are expected to have applied
// the instruction's stack effect already.
func (p *Program) AppendRaw(ins bytecode.Instruction) error {
	if p.stackPos < 0 {
		return errors.InternalErrorf(errors.E4001, "stack depth %d before appending %s", p.stackPos, ins.Code())
	}
	stored := bytecode.Clone(ins)
	stored.SetStackPos(p.stackPos)
	p.code = append(p.code, stored)
	return nil
}

// PopLast removes the most recently appended instruction and restores the
// stack depth recorded by the instruction before it.
func (p *Program) PopLast() error {
	if len(p.code) == 0 {
		return errors.InternalErrorf(errors.E4002, "cannot remove an instruction")
	}
	p.code[len(p.code)-1] = nil
	p.code = p.code[:len(p.code)-1]
	if len(p.code) == 0 {
		p.stackPos = 0
	} else {
		p.stackPos = p.code[len(p.code)-1].StackPos()
	}
	return nil
}

// PushAssign appends an assignment. The destination placeholder and the value
// must already be on the stack; the assignment leaves one slot fewer.
func (p *Program) PushAssign(ins bytecode.Instruction) error {
	if ins.Code() != op.Assign {
		return errors.InternalErrorf(errors.E4003, "got %s", ins.Code())
	}
	if p.stackPos < 2 {
		return errors.InternalErrorf(errors.E4001, "assignment needs 2 stack slots, have %d", p.stackPos)
	}
	p.stackPos--
	return p.AppendRaw(ins)
}

// PushCall appends a function or operator call. With the optimizer and a
// folding rule enabled the call may be folded into the preceding values
// instead. Otherwise the call consumes Arity slots and leaves one result.
func (p *Program) PushCall(c *bytecode.Call) error {
	if c.Arity < 0 {
		return errors.InternalErrorf(errors.E4005, "%s has arity %d", c.Name, c.Arity)
	}
	if c.Arity > p.stackPos {
		return errors.InternalErrorf(errors.E4001, "%s needs %d operands, have %d", c.Name, c.Arity, p.stackPos)
	}
	tok := *c
	if p.cfg.Optimizer {
		folded, err := p.tryFold(&tok)
		if err != nil {
			return err
		}
		if folded {
			return nil
		}
	}
	p.stackPos = p.stackPos - tok.Arity + 1
	p.updateMaxStackSize()
	// From here on it doesn't matter whether it was an operator or a function
	tok.Binary = false
	return p.AppendRaw(&tok)
}

func (p *Program) updateMaxStackSize() {
	if p.stackPos > p.maxStackSize {
		p.maxStackSize = p.stackPos
	}
}

// Clear empties the program so it can be rebuilt.
func (p *Program) Clear() {
	for i := range p.code {
		p.code[i] = nil
	}
	p.code = p.code[:0]
	p.stackPos = 0
	p.maxStackSize = 0
	p.engineID = -1
}

// Size returns the number of instructions.
func (p *Program) Size() int {
	return len(p.code)
}

// StackPos returns the current stack depth.
func (p *Program) StackPos() int {
	return p.stackPos
}

// MaxStackSize returns the number of stack slots an evaluator must allocate:
// the high-water mark plus one slot of headroom.
func (p *Program) MaxStackSize() int {
	return p.maxStackSize + 1
}

// Base returns the first instruction, the entry point for an evaluator.
func (p *Program) Base() (bytecode.Instruction, error) {
	if len(p.code) == 0 {
		return nil, errors.InternalErrorf(errors.E4002, "no entry point")
	}
	return p.code[0], nil
}

// InstructionAt returns the instruction at the given index.
func (p *Program) InstructionAt(index int) bytecode.Instruction {
	return p.code[index]
}

// Instructions returns a copy of the instruction sequence.
func (p *Program) Instructions() []bytecode.Instruction {
	return bytecode.CopyInstructions(p.code)
}

// EngineID returns the engine selector computed by Finalize, or -1.
func (p *Program) EngineID() int {
	return p.engineID
}

// Finalized returns true if the program ends with an End instruction.
func (p *Program) Finalized() bool {
	n := len(p.code)
	return n > 0 && p.code[n-1].Code() == op.End
}

// Clone returns an independent copy of the program.
func (p *Program) Clone() *Program {
	c := *p
	c.code = make([]bytecode.Instruction, len(p.code), cap(p.code))
	for i, ins := range p.code {
		c.code[i] = bytecode.Clone(ins)
	}
	return &c
}

// Stats returns statistics about the program.
func (p *Program) Stats() bytecode.Stats {
	stats := bytecode.Stats{
		InstructionCount: len(p.code),
		MaxStackSize:     p.MaxStackSize(),
	}
	for _, ins := range p.code {
		switch ins := ins.(type) {
		case *bytecode.Value:
			stats.ValueCount++
			if !ins.IsConstant() {
				stats.VariableCount++
			}
		case *bytecode.Call:
			stats.CallCount++
			if IsFused(ins.Func) {
				stats.FusedCount++
			}
		case *bytecode.Assign:
			stats.AssignCount++
		}
	}
	return stats
}

package bytecode

import (
	"fmt"

	"github.com/deepnoodle-ai/numexpr/op"
)

// Instruction is one token of an RPN program. The concrete types are Value,
// Call, Assign and End; each kind's payload is only reachable through its own
// type.
type Instruction interface {
	// Code returns the kind of the instruction.
	Code() op.Code

	// StackPos returns the stack slot occupied by the result once the
	// instruction has executed.
	StackPos() int

	// SetStackPos records the stack slot. It is called by the assembler.
	SetStackPos(pos int)

	String() string

	instruction()
}

type header struct {
	stackPos int
}

func (h *header) StackPos() int { return h.stackPos }

func (h *header) SetStackPos(pos int) { h.stackPos = pos }

func (h *header) instruction() {}

// Value is a linear value reference: Source*Coef + Offset. When Coef is zero
// the value is the literal Offset and Source is nil.
type Value struct {
	header
	Name   string
	Source *float64
	Coef   float64
	Offset float64
}

// NewConstant returns a literal value.
func NewConstant(v float64) *Value {
	return &Value{Offset: v}
}

// NewVariable returns a value that reads the given variable slot. The slot is
// owned by the caller and must outlive every program referencing it.
func NewVariable(name string, slot *float64) *Value {
	if slot == nil {
		return &Value{Name: name}
	}
	return &Value{Name: name, Source: slot, Coef: 1}
}

func (v *Value) Code() op.Code { return op.Value }

// IsConstant returns true if the value does not depend on a variable.
func (v *Value) IsConstant() bool {
	return v.Coef == 0
}

// Eval returns the current runtime value.
func (v *Value) Eval() float64 {
	if v.Coef == 0 {
		return v.Offset
	}
	return *v.Source*v.Coef + v.Offset
}

// ResetVariablePart turns the value into the literal Offset.
func (v *Value) ResetVariablePart() {
	v.Source = nil
	v.Coef = 0
	v.Name = ""
}

func (v *Value) String() string {
	if v.Coef == 0 {
		return fmt.Sprintf("%g", v.Offset)
	}
	name := v.Name
	if name == "" {
		name = "?"
	}
	switch {
	case v.Coef == 1 && v.Offset == 0:
		return name
	case v.Offset == 0:
		return fmt.Sprintf("%g*%s", v.Coef, name)
	default:
		return fmt.Sprintf("%g*%s%+g", v.Coef, name, v.Offset)
	}
}

// Call applies Func to the top Arity stack slots, leaving one result.
type Call struct {
	header
	Name  string
	Func  *Function
	Arity int

	// Binary marks a binary operator that has not been stored yet. The
	// assembler clears it when the call is appended.
	Binary bool
}

// NewCall returns a function call instruction.
func NewCall(name string, fn *Function, arity int) *Call {
	return &Call{Name: name, Func: fn, Arity: arity}
}

// NewOperator returns a binary operator instruction.
func NewOperator(symbol string, fn *Function) *Call {
	return &Call{Name: symbol, Func: fn, Arity: 2, Binary: true}
}

func (c *Call) Code() op.Code {
	if c.Binary {
		return op.BinaryOperator
	}
	return op.Call
}

func (c *Call) String() string {
	return fmt.Sprintf("%s/%d", c.Name, c.Arity)
}

// Assign stores the value on top of the stack into Target. It consumes the
// destination placeholder and the value and leaves the value.
type Assign struct {
	header
	Name   string
	Target *float64
}

// NewAssign returns an assignment to the given variable slot.
func NewAssign(name string, target *float64) *Assign {
	return &Assign{Name: name, Target: target}
}

func (a *Assign) Code() op.Code { return op.Assign }

func (a *Assign) String() string {
	return "=" + a.Name
}

// End terminates a finalized program.
type End struct {
	header
}

func NewEnd() *End {
	return &End{}
}

func (e *End) Code() op.Code { return op.End }

func (e *End) String() string { return "END" }

// Clone returns a copy of the instruction. Referenced variable slots and
// functions are shared since they are not owned by the instruction.
func Clone(ins Instruction) Instruction {
	switch ins := ins.(type) {
	case *Value:
		c := *ins
		return &c
	case *Call:
		c := *ins
		return &c
	case *Assign:
		c := *ins
		return &c
	case *End:
		c := *ins
		return &c
	default:
		return ins
	}
}

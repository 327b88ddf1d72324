package compiler

import (
	"github.com/deepnoodle-ai/numexpr/builtins"
	"github.com/deepnoodle-ai/numexpr/bytecode"
	"github.com/deepnoodle-ai/numexpr/op"
)

// pairRule fuses the sequence "a b c inner outer" into one call of fn on
// a, b and c.
type pairRule struct {
	outer string
	inner string
	fn    *bytecode.Function
}

// Rules are tried in order and the first match wins.
var pairRules = []pairRule{
	{"+", "+", builtins.AddAdd},
	{"*", "*", builtins.MulMul},
	{"+", "*", builtins.AddMul},
	{"*", "+", builtins.MulAdd},

	{"/", "/", builtins.DivDiv},
	{"*", "/", builtins.MulDiv},
	{"/", "*", builtins.DivMul},

	{"+", "/", builtins.AddDiv},
	{"/", "+", builtins.DivAdd},
	{"-", "/", builtins.SubDiv},
	{"/", "-", builtins.DivSub},
	{"-", "+", builtins.SubAdd},
}

// powRule fuses "a b ^n outer" into one call of fn on a and b.
type powRule struct {
	outer string
	pow   *bytecode.Function
	fn    *bytecode.Function
	name  string
}

var powRules = []powRule{
	{"*", builtins.Pow2, builtins.Pow2Mul, "^2*"},
	{"*", builtins.Pow3, builtins.Pow3Mul, "^3*"},
	{"*", builtins.Pow4, builtins.Pow4Mul, "^4*"},

	{"+", builtins.Pow2, builtins.Pow2Add, "^2+"},
	{"+", builtins.Pow3, builtins.Pow3Add, "^3+"},
	{"+", builtins.Pow4, builtins.Pow4Add, "^4+"},
}

var fusedFuncs = func() map[*bytecode.Function]bool {
	m := map[*bytecode.Function]bool{}
	for _, r := range pairRules {
		m[r.fn] = true
	}
	for _, r := range powRules {
		m[r.fn] = true
	}
	return m
}()

// IsFused returns true if fn is one of the routines produced by fusion.
func IsFused(fn *bytecode.Function) bool {
	return fusedFuncs[fn]
}

// Substitute runs the fusion pass over the instruction sequence. Finalize
// calls it; it is exported so the pass can be inspected on its own. It does
// nothing when the optimizer is disabled.
func (p *Program) Substitute() {
	if !p.cfg.Optimizer {
		return
	}
	out := make([]bytecode.Instruction, 0, cap(p.code))
	for _, ins := range p.code {
		if len(out) == 0 {
			out = append(out, ins)
			continue
		}
		if next, ok := asCall(ins); ok {
			if tail, ok := asCall(out[len(out)-1]); ok && p.fuse(next, tail) {
				continue
			}
		}
		out = append(out, ins)
	}
	p.code = out
}

// asCall returns the instruction if it is a stored call. Operators that were
// never retagged by the assembler are not fused.
func asCall(ins bytecode.Instruction) (*bytecode.Call, bool) {
	if ins.Code() != op.Call {
		return nil, false
	}
	c, ok := ins.(*bytecode.Call)
	return c, ok
}

// fuse rewrites tail in place when next can be folded into it. The fused call
// takes over next's stack position.
func (p *Program) fuse(next, tail *bytecode.Call) bool {
	if next.Arity != 2 {
		return false
	}
	if tail.Arity == 2 {
		for _, r := range pairRules {
			if next.Name == r.outer && tail.Name == r.inner {
				p.log.Debug().
					Str("outer", r.outer).
					Str("inner", r.inner).
					Int("stack_pos", next.StackPos()).
					Msg("fused operators")
				tail.Name = r.outer + r.inner
				tail.Func = r.fn
				tail.Arity = 3
				tail.SetStackPos(next.StackPos())
				return true
			}
		}
	}
	for _, r := range powRules {
		if next.Name == r.outer && tail.Func == r.pow {
			p.log.Debug().
				Str("outer", r.outer).
				Str("power", r.pow.Name()).
				Int("stack_pos", next.StackPos()).
				Msg("fused power")
			tail.Name = r.name
			tail.Func = r.fn
			tail.Arity = 2
			tail.SetStackPos(next.StackPos())
			return true
		}
	}
	return false
}

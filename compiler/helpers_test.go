package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/numexpr/builtins"
	"github.com/deepnoodle-ai/numexpr/bytecode"
)

// run evaluates a finalized program on a value stack and checks each
// instruction's recorded stack position along the way.
func run(t *testing.T, p *Program) float64 {
	t.Helper()
	stack := make([]float64, p.MaxStackSize())
	sp := 0
	for i := 0; i < p.Size(); i++ {
		ins := p.InstructionAt(i)
		switch ins := ins.(type) {
		case *bytecode.Value:
			stack[sp] = ins.Eval()
			sp++
		case *bytecode.Call:
			base := sp - ins.Arity
			ins.Func.Call(stack[base:], ins.Arity)
			sp = base + 1
		case *bytecode.Assign:
			v := stack[sp-1]
			*ins.Target = v
			stack[sp-2] = v
			sp--
		case *bytecode.End:
			require.Equal(t, i, p.Size()-1)
			return stack[sp-1]
		}
		require.Equal(t, sp, ins.StackPos(), "stack position of instruction %d (%s)", i, ins)
	}
	t.Fatal("program has no END")
	return 0
}

func val(v float64) *bytecode.Value {
	return bytecode.NewConstant(v)
}

func variable(name string, slot *float64) *bytecode.Value {
	return bytecode.NewVariable(name, slot)
}

func operator(t *testing.T, symbol string) *bytecode.Call {
	t.Helper()
	spec, ok := builtins.Lookup(symbol)
	require.True(t, ok, "unknown operator %s", symbol)
	require.True(t, spec.Binary)
	return bytecode.NewOperator(symbol, spec.Func)
}

func call(t *testing.T, name string, arity int) *bytecode.Call {
	t.Helper()
	spec, ok := builtins.Lookup(name)
	require.True(t, ok, "unknown function %s", name)
	return bytecode.NewCall(name, spec.Func, arity)
}

// step is one producer action used by table-driven tests.
type step func(t *testing.T, p *Program)

func pushVal(v *bytecode.Value) step {
	return func(t *testing.T, p *Program) { p.PushValue(v) }
}

func pushOp(symbol string) step {
	return func(t *testing.T, p *Program) { require.NoError(t, p.PushCall(operator(t, symbol))) }
}

func pushFn(name string, arity int) step {
	return func(t *testing.T, p *Program) { require.NoError(t, p.PushCall(call(t, name, arity))) }
}

func pushCall(c *bytecode.Call) step {
	return func(t *testing.T, p *Program) { require.NoError(t, p.PushCall(c)) }
}

func build(t *testing.T, p *Program, steps ...step) *Program {
	t.Helper()
	for _, s := range steps {
		s(t, p)
	}
	return p
}

func names(p *Program) []string {
	var out []string
	for i := 0; i < p.Size(); i++ {
		out = append(out, p.InstructionAt(i).String())
	}
	return out
}

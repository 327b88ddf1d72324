package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/numexpr/builtins"
	"github.com/deepnoodle-ai/numexpr/bytecode"
)

func TestNoFusionForSingleCall(t *testing.T) {
	var x, y float64 = 2, 3
	p := build(t, New(), pushVal(variable("x", &x)), pushVal(variable("y", &y)), pushOp("+"))
	p.Finalize()
	require.Equal(t, 4, p.Size())
	require.Equal(t, 3, p.MaxStackSize())
	require.Equal(t, []string{"x", "y", "+/2", "END"}, names(p))
	require.Equal(t, 5.0, run(t, p))
}

func TestNoFusionAcrossValues(t *testing.T) {
	// a b + c + has a value between the two calls
	var a, b, c float64 = 1, 2, 3
	p := build(t, New(),
		pushVal(variable("a", &a)), pushVal(variable("b", &b)), pushOp("+"),
		pushVal(variable("c", &c)), pushOp("+"),
	)
	p.Finalize()
	require.Equal(t, []string{"a", "b", "+/2", "c", "+/2", "END"}, names(p))
	require.Equal(t, 6.0, run(t, p))
}

func TestFuseAddAdd(t *testing.T) {
	// a + (b + c)
	var a, b, c float64 = 1, 2, 3
	p := build(t, New(),
		pushVal(variable("a", &a)), pushVal(variable("b", &b)), pushVal(variable("c", &c)),
		pushOp("+"), pushOp("+"),
	)
	require.Equal(t, 5, p.Size())
	p.Finalize()
	require.Equal(t, 5, p.Size())
	require.Equal(t, []string{"a", "b", "c", "++/3", "END"}, names(p))

	fused := p.InstructionAt(3).(*bytecode.Call)
	require.Same(t, builtins.AddAdd, fused.Func)
	require.Equal(t, 1, fused.StackPos())
	require.Equal(t, 4, p.MaxStackSize())
	require.Equal(t, 6.0, run(t, p))
}

func TestFusionPreservesResult(t *testing.T) {
	a, b, c := 7.0, 3.0, 2.0
	tests := []struct {
		outer, inner string
		name         string
		fn           *bytecode.Function
	}{
		{"+", "+", "++", builtins.AddAdd},
		{"*", "*", "**", builtins.MulMul},
		{"+", "*", "+*", builtins.AddMul},
		{"*", "+", "*+", builtins.MulAdd},
		{"/", "/", "//", builtins.DivDiv},
		{"*", "/", "*/", builtins.MulDiv},
		{"/", "*", "/*", builtins.DivMul},
		{"+", "/", "+/", builtins.AddDiv},
		{"/", "+", "/+", builtins.DivAdd},
		{"-", "/", "-/", builtins.SubDiv},
		{"/", "-", "/-", builtins.DivSub},
		{"-", "+", "-+", builtins.SubAdd},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps := []step{
				pushVal(variable("a", &a)), pushVal(variable("b", &b)), pushVal(variable("c", &c)),
				pushOp(tt.inner), pushOp(tt.outer),
			}
			plain := build(t, New(WithOptimizer(false)), steps...)
			plain.Finalize()
			require.Equal(t, 6, plain.Size())

			fused := build(t, New(), steps...)
			fused.Finalize()
			require.Equal(t, 5, fused.Size())
			call := fused.InstructionAt(3).(*bytecode.Call)
			require.Equal(t, tt.name, call.Name)
			require.Equal(t, 3, call.Arity)
			require.Same(t, tt.fn, call.Func)

			require.InDelta(t, run(t, plain), run(t, fused), 1e-12)
			require.Equal(t, plain.MaxStackSize(), fused.MaxStackSize())
		})
	}
}

func TestUnfusablePairs(t *testing.T) {
	a, b, c := 7.0, 3.0, 2.0
	pairs := [][2]string{{"-", "-"}, {"+", "-"}, {"*", "-"}, {"-", "*"}, {"^", "+"}, {"+", "^"}}
	for _, pair := range pairs {
		t.Run(pair[0]+pair[1], func(t *testing.T) {
			p := build(t, New(),
				pushVal(variable("a", &a)), pushVal(variable("b", &b)), pushVal(variable("c", &c)),
				pushOp(pair[1]), pushOp(pair[0]),
			)
			p.Finalize()
			require.Equal(t, 6, p.Size())
		})
	}
}

func TestFusePowerCombine(t *testing.T) {
	a, b := 3.0, 2.0
	tests := []struct {
		outer string
		pow   *bytecode.Function
		name  string
		fn    *bytecode.Function
	}{
		{"*", builtins.Pow2, "^2*", builtins.Pow2Mul},
		{"*", builtins.Pow3, "^3*", builtins.Pow3Mul},
		{"*", builtins.Pow4, "^4*", builtins.Pow4Mul},
		{"+", builtins.Pow2, "^2+", builtins.Pow2Add},
		{"+", builtins.Pow3, "^3+", builtins.Pow3Add},
		{"+", builtins.Pow4, "^4+", builtins.Pow4Add},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps := []step{
				pushVal(variable("a", &a)), pushVal(variable("b", &b)),
				pushCall(bytecode.NewCall(tt.pow.Name(), tt.pow, 1)),
				pushOp(tt.outer),
			}
			plain := build(t, New(WithOptimizer(false)), steps...)
			plain.Finalize()

			fused := build(t, New(), steps...)
			fused.Finalize()
			require.Equal(t, 4, fused.Size())
			call := fused.InstructionAt(2).(*bytecode.Call)
			require.Equal(t, tt.name, call.Name)
			require.Equal(t, 2, call.Arity)
			require.Same(t, tt.fn, call.Func)
			require.Equal(t, 1, call.StackPos())

			require.InDelta(t, run(t, plain), run(t, fused), 1e-12)
		})
	}
}

func TestPowerFusionNeedsPowerRoutine(t *testing.T) {
	// A unary call named like a power but with another routine is left alone
	a, b := 3.0, 2.0
	square := bytecode.NewFunction("^2", func(args []float64, _ int) { args[0] *= args[0] })
	p := build(t, New(),
		pushVal(variable("a", &a)), pushVal(variable("b", &b)),
		pushCall(bytecode.NewCall("^2", square, 1)), pushOp("*"),
	)
	p.Finalize()
	require.Equal(t, 5, p.Size())
	require.Equal(t, 12.0, run(t, p))
}

func TestFusionIgnoresNonBinaryCalls(t *testing.T) {
	// a + sum(b, c): sum has two operands but is not an operator
	a, b, c := 1.0, 2.0, 3.0
	p := build(t, New(),
		pushVal(variable("a", &a)), pushVal(variable("b", &b)), pushVal(variable("c", &c)),
		pushFn("sum", 2), pushOp("+"),
	)
	p.Finalize()
	require.Equal(t, []string{"a", "b", "c", "sum/2", "+/2", "END"}, names(p))
	require.Equal(t, 6.0, run(t, p))
}

func TestFusedCallIsNotFusedAgain(t *testing.T) {
	// a + (b + (c + d)): the first pair fuses, the outer add stays
	a, b, c, d := 1.0, 2.0, 3.0, 4.0
	p := build(t, New(),
		pushVal(variable("a", &a)), pushVal(variable("b", &b)),
		pushVal(variable("c", &c)), pushVal(variable("d", &d)),
		pushOp("+"), pushOp("+"), pushOp("+"),
	)
	p.Finalize()
	require.Equal(t, []string{"a", "b", "c", "d", "++/3", "+/2", "END"}, names(p))
	require.Equal(t, 10.0, run(t, p))
	_, err := Verify(p)
	require.NoError(t, err)
}

func TestOptimizerDisabled(t *testing.T) {
	var a, b, c float64 = 1, 2, 3
	p := build(t, New(WithOptimizer(false)),
		pushVal(variable("a", &a)), pushVal(variable("b", &b)), pushVal(variable("c", &c)),
		pushOp("*"), pushOp("+"),
	)
	p.Substitute()
	require.Equal(t, 5, p.Size())
	p.Finalize()
	require.Equal(t, []string{"a", "b", "c", "*/2", "+/2", "END"}, names(p))
	require.Equal(t, 7.0, run(t, p))
}

func TestIsFused(t *testing.T) {
	require.True(t, IsFused(builtins.AddMul))
	require.True(t, IsFused(builtins.Pow3Add))
	require.False(t, IsFused(builtins.Add))
	require.False(t, IsFused(builtins.Pow2))
	require.False(t, IsFused(nil))
}

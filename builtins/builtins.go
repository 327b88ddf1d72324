// Package builtins defines a default set of native routines for numexpr
// programs, including the integer power and fused operator routines that the
// optimizer substitutes into finalized programs.
package builtins

import (
	"math"
	"math/rand"

	"github.com/deepnoodle-ai/numexpr/bytecode"
)

// Binary operators.
var (
	Add = bytecode.NewFunction("+", func(args []float64, _ int) { args[0] += args[1] })
	Sub = bytecode.NewFunction("-", func(args []float64, _ int) { args[0] -= args[1] })
	Mul = bytecode.NewFunction("*", func(args []float64, _ int) { args[0] *= args[1] })
	Div = bytecode.NewFunction("/", func(args []float64, _ int) { args[0] /= args[1] })
	Pow = bytecode.NewFunction("^", func(args []float64, _ int) { args[0] = math.Pow(args[0], args[1]) })
)

// Unary functions.
var (
	Neg  = bytecode.NewFunction("neg", func(args []float64, _ int) { args[0] = -args[0] })
	Sin  = unary("sin", math.Sin)
	Cos  = unary("cos", math.Cos)
	Tan  = unary("tan", math.Tan)
	Sqrt = unary("sqrt", math.Sqrt)
	Exp  = unary("exp", math.Exp)
	Log  = unary("ln", math.Log)
	Abs  = unary("abs", math.Abs)
)

// Variadic functions. The arity is resolved by the producer.
var (
	Sum = bytecode.NewFunction("sum", func(args []float64, argc int) {
		for i := 1; i < argc; i++ {
			args[0] += args[i]
		}
	})
	Min = bytecode.NewFunction("min", func(args []float64, argc int) {
		for i := 1; i < argc; i++ {
			args[0] = math.Min(args[0], args[i])
		}
	})
	Max = bytecode.NewFunction("max", func(args []float64, argc int) {
		for i := 1; i < argc; i++ {
			args[0] = math.Max(args[0], args[i])
		}
	})
)

// Rnd is a generator taking no operands.
var Rnd = bytecode.NewFunction("rnd", func(args []float64, _ int) { args[0] = rand.Float64() })

func unary(name string, f func(float64) float64) *bytecode.Function {
	return bytecode.NewFunction(name, func(args []float64, _ int) { args[0] = f(args[0]) })
}

package builtins

import "github.com/deepnoodle-ai/numexpr/bytecode"

// Fused three-operand routines. Each evaluates a op1 (b op2 c), the result
// of the call sequence a b c op2 op1.
var (
	AddAdd = bytecode.NewFunction("++", func(a []float64, _ int) { a[0] += a[1] + a[2] })
	SubAdd = bytecode.NewFunction("-+", func(a []float64, _ int) { a[0] -= a[1] + a[2] })
	AddMul = bytecode.NewFunction("+*", func(a []float64, _ int) { a[0] += a[1] * a[2] })
	MulAdd = bytecode.NewFunction("*+", func(a []float64, _ int) { a[0] *= a[1] + a[2] })
	MulMul = bytecode.NewFunction("**", func(a []float64, _ int) { a[0] *= a[1] * a[2] })
	DivDiv = bytecode.NewFunction("//", func(a []float64, _ int) { a[0] /= a[1] / a[2] })
	DivMul = bytecode.NewFunction("/*", func(a []float64, _ int) { a[0] /= a[1] * a[2] })
	MulDiv = bytecode.NewFunction("*/", func(a []float64, _ int) { a[0] *= a[1] / a[2] })
	AddDiv = bytecode.NewFunction("+/", func(a []float64, _ int) { a[0] += a[1] / a[2] })
	DivAdd = bytecode.NewFunction("/+", func(a []float64, _ int) { a[0] /= a[1] + a[2] })
	SubDiv = bytecode.NewFunction("-/", func(a []float64, _ int) { a[0] -= a[1] / a[2] })
	DivSub = bytecode.NewFunction("/-", func(a []float64, _ int) { a[0] /= a[1] - a[2] })
)

// Unary integer powers of the top of stack.
var (
	Pow2 = bytecode.NewFunction("^2", func(a []float64, _ int) { a[0] *= a[0] })
	Pow3 = bytecode.NewFunction("^3", func(a []float64, _ int) { a[0] *= a[0] * a[0] })
	Pow4 = bytecode.NewFunction("^4", func(a []float64, _ int) { a[0] *= a[0] * a[0] * a[0] })
	Pow5 = bytecode.NewFunction("^5", func(a []float64, _ int) { a[0] *= a[0] * a[0] * a[0] * a[0] })
)

// Power-then-combine routines: a op b^n, the result of a b ^n op.
var (
	Pow2Mul = bytecode.NewFunction("^2*", func(a []float64, _ int) { a[0] *= a[1] * a[1] })
	Pow3Mul = bytecode.NewFunction("^3*", func(a []float64, _ int) { a[0] *= a[1] * a[1] * a[1] })
	Pow4Mul = bytecode.NewFunction("^4*", func(a []float64, _ int) { a[0] *= a[1] * a[1] * a[1] * a[1] })
	Pow2Add = bytecode.NewFunction("^2+", func(a []float64, _ int) { a[0] += a[1] * a[1] })
	Pow3Add = bytecode.NewFunction("^3+", func(a []float64, _ int) { a[0] += a[1] * a[1] * a[1] })
	Pow4Add = bytecode.NewFunction("^4+", func(a []float64, _ int) { a[0] += a[1] * a[1] * a[1] * a[1] })
)

// IntPow returns the unary power routine for exponents 2 through 5.
func IntPow(n int) (*bytecode.Function, bool) {
	switch n {
	case 2:
		return Pow2, true
	case 3:
		return Pow3, true
	case 4:
		return Pow4, true
	case 5:
		return Pow5, true
	}
	return nil, false
}

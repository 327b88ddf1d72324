package builtins

import (
	"sort"

	"github.com/deepnoodle-ai/numexpr/bytecode"
)

// Variadic is the arity reported for functions whose operand count is
// resolved by the producer.
const Variadic = -1

// Spec describes a builtin routine available to producers.
type Spec struct {
	Name   string
	Doc    string
	Arity  int
	Binary bool
	Func   *bytecode.Function
}

var specs = []Spec{
	{Name: "+", Doc: "Addition", Arity: 2, Binary: true, Func: Add},
	{Name: "-", Doc: "Subtraction", Arity: 2, Binary: true, Func: Sub},
	{Name: "*", Doc: "Multiplication", Arity: 2, Binary: true, Func: Mul},
	{Name: "/", Doc: "Division", Arity: 2, Binary: true, Func: Div},
	{Name: "^", Doc: "Raise to a power", Arity: 2, Binary: true, Func: Pow},
	{Name: "neg", Doc: "Negate the operand", Arity: 1, Func: Neg},
	{Name: "sin", Doc: "Sine in radians", Arity: 1, Func: Sin},
	{Name: "cos", Doc: "Cosine in radians", Arity: 1, Func: Cos},
	{Name: "tan", Doc: "Tangent in radians", Arity: 1, Func: Tan},
	{Name: "sqrt", Doc: "Square root", Arity: 1, Func: Sqrt},
	{Name: "exp", Doc: "Natural exponential", Arity: 1, Func: Exp},
	{Name: "ln", Doc: "Natural logarithm", Arity: 1, Func: Log},
	{Name: "abs", Doc: "Absolute value", Arity: 1, Func: Abs},
	{Name: "sum", Doc: "Sum of all operands", Arity: Variadic, Func: Sum},
	{Name: "min", Doc: "Smallest operand", Arity: Variadic, Func: Min},
	{Name: "max", Doc: "Largest operand", Arity: Variadic, Func: Max},
	{Name: "rnd", Doc: "Random number in [0, 1)", Arity: 0, Func: Rnd},
}

var byName = func() map[string]Spec {
	m := make(map[string]Spec, len(specs))
	for _, s := range specs {
		m[s.Name] = s
	}
	return m
}()

// Lookup returns the builtin with the given name.
func Lookup(name string) (Spec, bool) {
	s, ok := byName[name]
	return s, ok
}

// Specs returns all builtins sorted by name.
func Specs() []Spec {
	out := make([]Spec, len(specs))
	copy(out, specs)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

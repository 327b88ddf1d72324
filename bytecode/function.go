package bytecode

// Callback is the calling convention of native routines. The routine reads
// its argc operands from args[0:argc] and writes the result to args[0]. A
// routine with no operands still writes args[0], so callers must always pass
// a slice of at least one element.
type Callback func(args []float64, argc int)

// Function is a handle to a native routine. Instructions hold *Function
// values without owning them; routines are compared by pointer identity,
// which is how the optimizer recognizes specific routines such as the
// integer power helpers.
type Function struct {
	name string
	fn   Callback
}

// NewFunction returns a handle for the given routine.
func NewFunction(name string, fn Callback) *Function {
	return &Function{name: name, fn: fn}
}

// Name returns the diagnostic name of the routine.
func (f *Function) Name() string {
	return f.name
}

// Call invokes the routine in place on args.
func (f *Function) Call(args []float64, argc int) {
	f.fn(args, argc)
}

// Apply copies the operands into a scratch buffer, invokes the routine and
// returns the result. It allocates and is meant for compile-time use.
func (f *Function) Apply(operands ...float64) float64 {
	buf := make([]float64, len(operands)+1)
	copy(buf, operands)
	f.fn(buf, len(operands))
	return buf[0]
}

func (f *Function) String() string {
	return f.name
}

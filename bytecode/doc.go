// Package bytecode defines the instruction model of numexpr programs.
//
// A program is a linear reverse Polish sequence of instructions. Operands
// precede the calls that consume them and every instruction records the
// stack slot its result occupies.
//
// # Key Types
//
//   - [Value]: a linear value, Source*Coef + Offset, or a literal when
//     Coef is zero
//   - [Call]: a call of a native [Function] on the top Arity slots
//   - [Assign]: a store of the top of stack into a variable slot
//   - [End]: the program terminator
//
// # Ownership
//
// Instructions reference variable slots (*float64) and native functions
// (*Function) without owning them. The surrounding system keeps both alive
// for as long as any program refers to them.
//
// # Native calling convention
//
// A [Callback] receives a slice whose first argc elements are its operands
// and writes its result into the first element:
//
//	add := bytecode.NewFunction("+", func(args []float64, _ int) {
//		args[0] += args[1]
//	})
//
// This lets an evaluator run calls directly on its value stack without
// allocating.
package bytecode

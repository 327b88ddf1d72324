// Package op defines the instruction kinds and operator symbols used by the
// numexpr assembler, optimizer and disassembler.
package op

// Code identifies the kind of an instruction.
type Code uint8

const (
	Invalid Code = 0

	// Value pushes a linear value (literal or scaled variable).
	Value Code = 1

	// Call applies a native function to the top Arity stack slots.
	Call Code = 2

	// Assign stores the top of stack into a variable slot.
	Assign Code = 3

	// End terminates a finalized program.
	End Code = 4

	// BinaryOperator is a binary operator call that has not yet been stored
	// by the assembler. Once pushed it is retagged as Call.
	BinaryOperator Code = 5
)

// String returns the disassembly name of the code.
func (c Code) String() string {
	return GetInfo(c).Name
}

// BinaryOpType describes a type of binary operation, as in an operation that
// takes two operands. For example, addition, subtraction, multiplication, etc.
type BinaryOpType uint8

const (
	Add      BinaryOpType = 1
	Subtract BinaryOpType = 2
	Multiply BinaryOpType = 3
	Divide   BinaryOpType = 4
	Power    BinaryOpType = 5
)

// String returns a string representation of the binary operation.
// For example "+" for addition.
func (bop BinaryOpType) String() string {
	switch bop {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	case Power:
		return "^"
	default:
		return ""
	}
}

// ParseBinaryOp resolves an operator symbol such as "*" to its type.
func ParseBinaryOp(symbol string) (BinaryOpType, bool) {
	switch symbol {
	case "+":
		return Add, true
	case "-":
		return Subtract, true
	case "*":
		return Multiply, true
	case "/":
		return Divide, true
	case "^":
		return Power, true
	}
	return 0, false
}

// Info contains information about an instruction kind.
type Info struct {
	Code Code
	Name string
	// Pops is the number of stack slots consumed, -1 when it depends on
	// the instruction's arity.
	Pops int
	// Pushes is the number of stack slots produced.
	Pushes int
}

var infos = make([]Info, 256)

func init() {
	ops := []Info{
		{Value, "VAL", 0, 1},
		{Call, "CALL", -1, 1},
		{Assign, "ASSIGN", 2, 1},
		{End, "END", 0, 0},
		{BinaryOperator, "OPRT_BIN", 2, 1},
	}
	for _, o := range ops {
		infos[o.Code] = o
	}
	infos[Invalid] = Info{Code: Invalid, Name: "INVALID"}
}

// GetInfo returns information about the given instruction kind.
func GetInfo(op Code) Info {
	info := infos[op]
	if info.Name == "" {
		return Info{Code: op, Name: "UNKNOWN"}
	}
	return info
}

package bytecode

// Stats contains statistics about a compiled program.
// This is useful for auditing expressions before execution.
type Stats struct {
	// InstructionCount is the total number of instructions, including End.
	InstructionCount int `json:"instruction_count"`

	// ValueCount is the number of Value instructions.
	ValueCount int `json:"value_count"`

	// VariableCount is the number of Value instructions bound to a variable.
	VariableCount int `json:"variable_count"`

	// CallCount is the number of Call instructions.
	CallCount int `json:"call_count"`

	// FusedCount is the number of calls produced by operator fusion.
	FusedCount int `json:"fused_count"`

	// AssignCount is the number of Assign instructions.
	AssignCount int `json:"assign_count"`

	// MaxStackSize is the evaluation stack size required by the program.
	MaxStackSize int `json:"max_stack_size"`
}

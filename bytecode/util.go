package bytecode

// CopyInstructions returns a deep copy of the given instruction slice.
func CopyInstructions(src []Instruction) []Instruction {
	if src == nil {
		return nil
	}
	dst := make([]Instruction, len(src))
	for i, ins := range src {
		dst[i] = Clone(ins)
	}
	return dst
}

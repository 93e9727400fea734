package bytecode

// copySlice returns a copy of the given slice, preserving nil.
func copySlice[T any](src []T) []T {
	if src == nil {
		return nil
	}
	dst := make([]T, len(src))
	copy(dst, src)
	return dst
}

// copyInstructions returns a deep copy of the given instructions.
func copyInstructions(src []Instruction) []Instruction {
	dst := copySlice(src)
	for i := range dst {
		dst[i].Operands = copySlice(dst[i].Operands)
	}
	return dst
}

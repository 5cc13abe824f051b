package thumb

// CombineHalfwords concatenates a Thumb-2 instruction's two halfwords
// into the 32-bit word the rest of the decode pipeline matches against,
// first-fetched halfword in the high bits, matching the byte order the
// ARM-ARM specifies for Thumb-2 instruction streams.
func CombineHalfwords(first, second uint16) uint32 {
	return uint32(first)<<16 | uint32(second)
}

// MemoryReader16 fetches the 16-bit halfword at a guest virtual address.
type MemoryReader16 func(vaddr uint64) uint16

// FetchInstructionWord reads one Thumb instruction (16 or 32 bits) at
// pc, returning the combined word and its size in bytes.
func FetchInstructionWord(pc uint64, read MemoryReader16) (word uint32, size uint64) {
	first := read(pc)
	if !Is32BitFirstHalf(first) {
		return uint32(first), InstructionSize16
	}
	second := read(pc + 2)
	return CombineHalfwords(first, second), InstructionSize32
}

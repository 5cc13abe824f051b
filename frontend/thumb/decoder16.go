// Package thumb decodes the Thumb instruction set, which mixes 16-bit
// and 32-bit instruction words: a halfword whose top five bits fall in
// 0b11101, 0b11110 or 0b11111 is the first half of a 32-bit Thumb-2
// instruction and must be concatenated with the following halfword
// before decoding (spec.md §4.1). Grounded on original_source's
// src/frontend/A32/translate/translate_thumb.cpp
// thumb16/ThumbInstSize dispatch. The package sizes and fetches
// instruction words only; it has no instruction handlers.
package thumb

import "armjit/ir"

// InstructionSize16 and InstructionSize32 are the Thumb instruction
// widths in bytes; unlike A32/A64, Thumb instructions are not uniform
// width.
const (
	InstructionSize16 = 2
	InstructionSize32 = 4
)

// NewLocation builds the ir.LocationDescriptor for a Thumb guest PC.
func NewLocation(pc uint64) ir.LocationDescriptor {
	return ir.NewLocationDescriptor(pc, ir.ModeThumb)
}

// Is32BitFirstHalf reports whether halfword begins a 32-bit Thumb-2
// instruction, per the ARM-ARM rule: bits 15:11 of the first halfword
// equal 0b11101, 0b11110 or 0b11111.
func Is32BitFirstHalf(halfword uint16) bool {
	top5 := (halfword >> 11) & 0x1F
	return top5 == 0b11101 || top5 == 0b11110 || top5 == 0b11111
}

// Package a32 decodes and translates AArch32 (ARM, not Thumb) guest
// instructions into the ir package's SSA form. Grounded on
// original_source's src/frontend/A32/translate/ driving-loop shape,
// mirrored from frontend/a64's Translate. Per spec.md §1's Non-goal,
// this package covers a supported instruction subset; anything
// frontend.Decode doesn't match falls back to CallInterpreter.
package a32

import "armjit/ir"

// InstructionSize is the fixed width of an A32 instruction word.
const InstructionSize = 4

// NewLocation builds the ir.LocationDescriptor for an A32 guest PC.
func NewLocation(pc uint64) ir.LocationDescriptor {
	return ir.NewLocationDescriptor(pc, ir.ModeA32)
}

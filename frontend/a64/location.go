// Package a64 decodes and translates AArch64 guest instructions into the
// ir package's SSA form. Grounded on original_source's
// src/frontend/A64/translate/translate.cpp (decode/dispatch/advance-PC/
// bump-cycle-count driving loop) and on
// src/frontend/A64/translate/impl/data_processing_shift.cpp and
// exception_generating.cpp for the specific instruction handlers below.
// Per spec.md §1's Non-goal, this package covers a supported instruction
// subset; anything frontend.Decode doesn't match falls back to
// CallInterpreter via Translate.
package a64

import "armjit/ir"

// InstructionSize is the fixed width of every A64 instruction word.
const InstructionSize = 4

// NewLocation builds the ir.LocationDescriptor for an A64 guest PC.
func NewLocation(pc uint64) ir.LocationDescriptor {
	return ir.NewLocationDescriptor(pc, ir.ModeA64)
}

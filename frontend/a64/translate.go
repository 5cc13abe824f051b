package a64

import "armjit/ir"

// MemoryReader fetches the 32-bit instruction word at a guest virtual
// address, standing in for UserCallbacks.Memory.Read32 (spec.md §6)
// during translation.
type MemoryReader func(vaddr uint64) uint32

// MaxBlockInstructions bounds how many guest instructions Translate will
// lift into one block before forcing a ReturnToDispatch, so a guest
// instruction stream with no branch for a long stretch still produces a
// finite block. original_source applies an equivalent cap via its
// per-block instruction budget; the exact bound is an implementation
// detail rather than an architectural one.
const MaxBlockInstructions = 512

// Translate lifts guest instructions starting at start into a fresh
// Block, continuing until a handler installs a terminal, the decoder
// fails to match (CallInterpreter is emitted for that one instruction and
// translation continues, per spec.md §1's Non-goal on full-ISA coverage),
// or MaxBlockInstructions is reached. Grounded on original_source's
// translate.cpp Translate/TranslateSingleInstruction driving loop:
// decode, dispatch, advance PC, bump cycle count, assert a terminal got
// set.
func Translate(start ir.LocationDescriptor, read MemoryReader) *ir.Block {
	block := ir.NewBlock(start)
	loc := start

	for n := 0; n < MaxBlockInstructions; n++ {
		word := read(loc.PC())
		v := NewVisitor(block, loc)

		if err := Decode(word, v); err != nil {
			v.Emit.CallInterpreter(loc)
		}

		block.IncrementCycleCount()
		loc = loc.AdvancePC(InstructionSize)
		block.SetEndLocation(loc)

		if block.HasTerminal() {
			return block
		}
	}

	block.SetTerminal(ir.ReturnToDispatch{})
	return block
}

// TranslateSingle lifts exactly one guest instruction at loc into a new
// Block regardless of whether its handler set a terminal, forcing
// ReturnToDispatch if not. This is the supplemented single-step entry
// point SPEC_FULL.md §10 adds for interpreter-fallback callers and
// debugger-style single-instruction execution, grounded on
// original_source's A64::TranslateSingleInstruction.
func TranslateSingle(loc ir.LocationDescriptor, read MemoryReader) *ir.Block {
	block := ir.NewBlock(loc)
	word := read(loc.PC())
	v := NewVisitor(block, loc)

	if err := Decode(word, v); err != nil {
		v.Emit.CallInterpreter(loc)
	}
	block.IncrementCycleCount()
	block.SetEndLocation(loc.AdvancePC(InstructionSize))
	if !block.HasTerminal() {
		block.SetTerminal(ir.ReturnToDispatch{})
	}
	return block
}

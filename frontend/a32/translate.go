package a32

import "armjit/ir"

// MemoryReader fetches the 32-bit instruction word at a guest virtual
// address, standing in for UserCallbacks.Memory.Read32 (spec.md §6).
type MemoryReader func(vaddr uint64) uint32

// MaxBlockInstructions bounds how many guest instructions Translate will
// lift into one block; see a64.MaxBlockInstructions for rationale.
const MaxBlockInstructions = 512

// Translate lifts guest instructions starting at start into a fresh
// Block, the A32 counterpart of a64.Translate.
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

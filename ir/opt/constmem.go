package opt

import "armjit/ir"

// ConstantMemoryReader lets ConstantMemoryReads ask the embedder whether a
// guest virtual address is backed by memory that will never change for the
// lifetime of the compiled block (typically a mapped read-only code or
// rodata page), and if so, read it once at compile time. This mirrors
// dynarmic's optional "page table direct read" optimization gated behind
// UserCallbacks capability, kept here as a plain function value instead of
// a callback struct field since only this one pass needs it.
type ConstantMemoryReader func(vaddr uint64, width int) (value uint64, ok bool)

// ConstantMemoryReads replaces ReadMemoryN instructions whose address
// operand is a compile-time constant with an immediate, when reader
// reports the address is backed by unchanging memory. Grounded on
// original_source's ir_opt/passes.h ConstantMemoryReads; the reader
// parameter stands in for that pass's dependency on the page table the
// translator was given at compile time (spec.md §6's page_table field).
func ConstantMemoryReads(b *ir.Block, reader ConstantMemoryReader) bool {
	if reader == nil {
		return false
	}
	changed := false

	widthOf := map[ir.Opcode]int{
		ir.OpReadMemory8:  8,
		ir.OpReadMemory16: 16,
		ir.OpReadMemory32: 32,
		ir.OpReadMemory64: 64,
	}
	immOpOf := map[int]ir.Opcode{
		8:  ir.OpImmU8,
		16: ir.OpImmU16,
		32: ir.OpImmU32,
		64: ir.OpImmU64,
	}

	for _, inst := range b.Instructions() {
		width, ok := widthOf[inst.Opcode()]
		if !ok {
			continue
		}
		vaddr, ok := immOf(inst.Arg(0))
		if !ok {
			continue
		}
		value, ok := reader(vaddr, width)
		if !ok {
			continue
		}
		folded := b.InsertImmediateBefore(inst, immOpOf[width], value)
		inst.ReplaceUsesWith(ir.ValueOf(folded))
		b.Tombstone(inst)
		changed = true
	}
	return changed
}

package opt

import "armjit/ir"

// stateKey identifies one slot of guest architectural state that
// GetSetElimination tracks: a register number (GPR or flag), qualified by
// which accessor opcode addresses it, since GetRegister(3) and
// GetExtendedRegister(3) name different storage.
type stateKey struct {
	op  ir.Opcode
	idx uint8
}

// GetSetElimination removes redundant Get*/Set* pairs within a block: a
// Get following a Set to the same slot, with nothing side-effectful
// observing guest state in between, is replaced by the value that was
// Set. Grounded on original_source's ir_opt/passes.h GetSetElimination and
// on emit_x64.cpp's "TODO: Flag optimization" comment, which names
// repeated flag get/set round-trips as the motivating waste this pass
// removes.
func GetSetElimination(b *ir.Block) bool {
	changed := false
	last := map[stateKey]ir.Value{}

	for _, inst := range b.Instructions() {
		switch inst.Opcode() {
		case ir.OpGetRegister:
			if v, ok := last[stateKey{ir.OpSetRegister, regKeyIndex(inst)}]; ok {
				inst.ReplaceUsesWith(v)
				b.Tombstone(inst)
				changed = true
			}
		case ir.OpGetExtendedRegister:
			if v, ok := last[stateKey{ir.OpSetExtendedRegister, regKeyIndex(inst)}]; ok {
				inst.ReplaceUsesWith(v)
				b.Tombstone(inst)
				changed = true
			}
		case ir.OpGetFlag:
			if v, ok := last[stateKey{ir.OpSetFlag, inst.RegIndex()}]; ok {
				inst.ReplaceUsesWith(v)
				b.Tombstone(inst)
				changed = true
			}

		case ir.OpSetRegister:
			last[stateKey{ir.OpSetRegister, regKeyIndex(inst)}] = inst.Arg(1)
		case ir.OpSetExtendedRegister:
			last[stateKey{ir.OpSetExtendedRegister, regKeyIndex(inst)}] = inst.Arg(1)
		case ir.OpSetFlag:
			last[stateKey{ir.OpSetFlag, inst.RegIndex()}] = inst.Arg(0)

		default:
			if inst.Opcode().SideEffect() {
				// Any other side-effectful instruction (memory access,
				// supervisor call, PC write) is an opaque observation
				// point: forget everything tracked so far rather than
				// risk carrying a stale value across it.
				last = map[stateKey]ir.Value{}
			}
		}
	}
	return changed
}

func regKeyIndex(inst *ir.Inst) uint8 {
	if inst.Arg(0).Inst() != nil {
		return inst.Arg(0).Inst().RegIndex()
	}
	return 0
}

// Package opt implements the IR-to-IR optimization passes that run
// between translation and register allocation, per spec.md §4.5. Each
// pass takes a *ir.Block built by a frontend translator and rewrites it
// in place; none of them allocate a new block.
package opt

import "armjit/ir"

// DeadCodeElimination tombstones every instruction with no remaining uses
// and no side effect, iterating until a fixed point (removing one dead
// instruction can make its operands dead in turn). Side-effectful
// instructions (memory access, register writes, supervisor calls, ...)
// are never removed regardless of use count, per spec.md §5's reordering
// barrier rule — a write the guest can observe through UserCallbacks is
// never "dead" from the IR's point of view.
func DeadCodeElimination(b *ir.Block) bool {
	changed := false
	for {
		progress := false
		insts := b.RawInstructions()
		for i := len(insts) - 1; i >= 0; i-- {
			inst := insts[i]
			if inst.IsTombstoned() {
				continue
			}
			if inst.Opcode().SideEffect() {
				continue
			}
			if inst.HasUses() {
				continue
			}
			b.Tombstone(inst)
			progress = true
		}
		if !progress {
			break
		}
		changed = true
	}
	return changed
}

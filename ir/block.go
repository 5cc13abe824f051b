package ir

// Block is an ordered sequence of instructions representing one guest
// basic block: single-entry, multi-exit only via its Terminal, per
// spec.md §3.
//
// Instructions live in a per-block arena (Block.insts), grounded on
// vm/bytecode.go's Program/[]Instruction layout in the teacher repo:
// an append-only slice with a side table (here, the use-lists living on
// each *Inst rather than a separate map). Operand references and
// use-list entries are *Inst pointers into this same arena; because the
// arena is append-only and never relocated until CompactTombstones compacts
// it at a pass boundary, a raw pointer is exactly as safe as the
// "integer index into a per-block vector" spec.md §9 asks for, without
// needing a separate index-to-pointer translation at every call site.
type Block struct {
	start LocationDescriptor
	end   LocationDescriptor

	insts      []*Inst
	cycleCount uint64
	terminal   Terminal

	nextIdentity int
}

// NewBlock creates an empty block whose translation begins at start.
func NewBlock(start LocationDescriptor) *Block {
	return &Block{start: start, end: start}
}

// StartLocation returns the block's entry location descriptor.
func (b *Block) StartLocation() LocationDescriptor { return b.start }

// EndLocation returns the block's current end location descriptor. The
// translator advances this after lifting each guest instruction.
func (b *Block) EndLocation() LocationDescriptor { return b.end }

// SetEndLocation updates the block's end location descriptor.
func (b *Block) SetEndLocation(loc LocationDescriptor) { b.end = loc }

// CycleCount returns the number of guest cycles this block accounts for.
func (b *Block) CycleCount() uint64 { return b.cycleCount }

// IncrementCycleCount bumps the cycle count by one, called once per lifted
// guest instruction by the translator (original_source's translate.cpp
// increments unconditionally, before any cost-model weighting; this port
// preserves that literally, per SPEC_FULL.md §10).
func (b *Block) IncrementCycleCount() { b.cycleCount++ }

// AddCycles adds n guest cycles to the block's count directly, used by a
// translator lifting a multi-cycle pseudo-instruction in one step.
func (b *Block) AddCycles(n uint64) { b.cycleCount += n }

// HasTerminal reports whether SetTerminal has been called.
func (b *Block) HasTerminal() bool { return b.terminal != nil }

// Terminal returns the block's terminal, or nil if none has been set yet.
func (b *Block) Terminal() Terminal { return b.terminal }

// SetTerminal installs the block's terminal. A block has exactly one
// terminal; calling this twice is a translator bug and panics immediately
// rather than silently discarding the first terminal, matching the
// "emission asserts this" invariant of spec.md §3.
func (b *Block) SetTerminal(t Terminal) {
	if b.terminal != nil {
		panic("ir: SetTerminal called twice on the same block")
	}
	b.terminal = t
}

// newInst appends a fresh instruction to the arena, wiring use-list edges
// for every operand, and returns it. This is the one place instructions
// enter a block; Emitter's builder methods all funnel through it via
// Emitter.emit. No forward references are possible because operands must
// already exist in this slice (or be immediates built in the same call).
func (b *Block) newInst(op Opcode, args ...Value) *Inst {
	inst := &Inst{
		opcode:   op,
		args:     args,
		result:   op.ResultType(),
		identity: b.nextIdentity,
	}
	b.nextIdentity++
	for _, a := range args {
		if a.inst == nil {
			panic("ir: nil operand passed to " + op.Name())
		}
		a.inst.addUse(inst)
	}
	b.insts = append(b.insts, inst)
	return inst
}

// InsertBefore creates a new instruction of opcode op with args and splices
// it into the arena immediately before target, rather than at the end.
// Optimization passes that replace an instruction with a freshly-built
// constant or simplified form use this instead of Emitter's append-only
// builders, so that the replacement's arena position still precedes every
// instruction that will reference it — preserving the no-forward-
// reference invariant spec.md §3 states for a finished block.
func (b *Block) InsertBefore(target *Inst, op Opcode, args ...Value) *Inst {
	inst := &Inst{
		opcode:   op,
		args:     args,
		result:   op.ResultType(),
		identity: b.nextIdentity,
	}
	b.nextIdentity++
	for _, a := range args {
		if a.inst == nil {
			panic("ir: nil operand passed to " + op.Name())
		}
		a.inst.addUse(inst)
	}

	idx := len(b.insts)
	for i, cur := range b.insts {
		if cur == target {
			idx = i
			break
		}
	}
	b.insts = append(b.insts, nil)
	copy(b.insts[idx+1:], b.insts[idx:])
	b.insts[idx] = inst
	return inst
}

// InsertImmediateBefore is InsertBefore specialized for the zero-operand
// Imm* opcodes, which carry their value in Inst.immU64 rather than as an
// operand. Used by ConstantPropagation to splice in a folded constant at
// the position of the instruction it replaces.
func (b *Block) InsertImmediateBefore(target *Inst, op Opcode, imm uint64) *Inst {
	inst := b.InsertBefore(target, op)
	inst.immU64 = imm
	return inst
}

// Instructions returns every live (non-tombstoned) instruction in program
// order. Callers that need raw arena order including tombstones (e.g. a
// pass about to compact) should use RawInstructions.
func (b *Block) Instructions() []*Inst {
	out := make([]*Inst, 0, len(b.insts))
	for _, i := range b.insts {
		if !i.tombstoned {
			out = append(out, i)
		}
	}
	return out
}

// RawInstructions returns the arena in declaration order, tombstones
// included.
func (b *Block) RawInstructions() []*Inst { return b.insts }

// Len returns the number of live instructions.
func (b *Block) Len() int {
	n := 0
	for _, i := range b.insts {
		if !i.tombstoned {
			n++
		}
	}
	return n
}

// Tombstone marks inst as logically deleted. The caller is responsible
// for having already verified inst.HasUses() == false (DeadCodeElimination
// does this); Tombstone itself does not check, so that Verification can
// distinguish "never checked" from "checked and wrong". It does remove
// inst from its own operands' use-lists, so that tombstoning inst can
// make its operands newly dead and let DeadCodeElimination reach a fixed
// point by iterating.
func (b *Block) Tombstone(inst *Inst) {
	inst.tombstoned = true
	for _, arg := range inst.args {
		if arg.inst != nil {
			arg.inst.removeUse(inst)
		}
	}
}

// CompactTombstones physically removes tombstoned instructions from the
// arena. Pointers held by surviving instructions remain valid (they point
// at *Inst values, not slice slots), so this is safe to call between
// optimization passes purely to bound arena growth across many pass
// invocations on long-lived blocks.
func (b *Block) CompactTombstones() {
	live := b.insts[:0]
	for _, i := range b.insts {
		if !i.tombstoned {
			live = append(live, i)
		}
	}
	b.insts = live
}

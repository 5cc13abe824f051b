package ir

// Inst is one SSA node: an opcode, its ordered operands, zero or more
// immediate fields, a result type, and a use-list of every Inst that
// references it as an operand. Immediates of the graph (ImmU1, ImmU32,
// ImmRegRef, ...) are themselves zero-operand Insts, per spec.md §3.
type Inst struct {
	opcode Opcode
	args   []Value
	result Type
	uses   []*Inst

	// Immediate payload. Only the fields relevant to this Inst's opcode
	// are meaningful; which ones is determined entirely by opcode, the
	// same way dynarmic's IR::Inst keeps a handful of untyped "extra"
	// fields alongside its opcode.
	immU64          uint64
	regIndex        uint8
	bitCount        uint8
	fpscrControlled bool

	// identity is a monotonically increasing per-block sequence number,
	// used only for debug printing and for breaking ties in
	// deterministic dumps; it plays no role in the graph's semantics.
	identity int

	// tombstoned marks an instruction DeadCodeElimination has logically
	// removed. The arena keeps the slot (so earlier indices/pointers
	// held by other Insts remain valid) but codegen and later passes
	// skip tombstoned instructions entirely.
	tombstoned bool
}

// Opcode returns the instruction's opcode.
func (i *Inst) Opcode() Opcode { return i.opcode }

// Type returns the instruction's result type.
func (i *Inst) Type() Type { return i.result }

// Args returns the instruction's operands in order. Callers must not
// mutate the returned slice.
func (i *Inst) Args() []Value { return i.args }

// Arg returns the n'th operand.
func (i *Inst) Arg(n int) Value { return i.args[n] }

// Uses returns every Inst that references this Inst as an operand.
// Callers must not mutate the returned slice; use ReplaceUsesWith or
// Block.Tombstone to modify it.
func (i *Inst) Uses() []*Inst { return i.uses }

// HasUses reports whether any instruction still references this one.
func (i *Inst) HasUses() bool { return len(i.uses) > 0 }

// IsTombstoned reports whether DeadCodeElimination has logically removed
// this instruction. Tombstoned instructions stay in the block's arena
// (operand references held by surviving instructions must keep resolving)
// but are skipped by iteration helpers and by codegen.
func (i *Inst) IsTombstoned() bool { return i.tombstoned }

// RegIndex returns the guest register index this Inst was built with, for
// ImmRegRef-carrying opcodes (GetRegister, SetRegister, ...).
func (i *Inst) RegIndex() uint8 { return i.regIndex }

// BitCount returns the extra bit-count field carried by this Inst, for
// opcodes such as UnsignedSaturation/SignedSaturation or bitfield extract.
func (i *Inst) BitCount() uint8 { return i.bitCount }

// FPSCRControlled reports whether a floating-point opcode should honor the
// guest FPSCR rounding/exception configuration at emission time rather than
// always flushing to IEEE defaults.
func (i *Inst) FPSCRControlled() bool { return i.fpscrControlled }

// ImmU64 returns the constant payload of an Imm* opcode.
func (i *Inst) ImmU64() uint64 { return i.immU64 }

// SetInterpreterRunLength records, on a CallInterpreter instruction, how
// many consecutive guest instructions MergeInterpretBlocks folded into it.
// A CallInterpreter instruction with no run length recorded represents a
// single guest instruction (the common case).
func (i *Inst) SetInterpreterRunLength(n uint8) { i.bitCount = n }

// InterpreterRunLength returns the value SetInterpreterRunLength recorded,
// or 0 if MergeInterpretBlocks never touched this instruction.
func (i *Inst) InterpreterRunLength() uint8 { return i.bitCount }

// addUse records that consumer references this Inst as an operand.
func (i *Inst) addUse(consumer *Inst) {
	i.uses = append(i.uses, consumer)
}

// removeUse removes the first recorded reference from consumer, used when
// an operand is replaced or an instruction is deleted.
func (i *Inst) removeUse(consumer *Inst) {
	for idx, u := range i.uses {
		if u == consumer {
			i.uses = append(i.uses[:idx], i.uses[idx+1:]...)
			return
		}
	}
}

// ReplaceUsesWith rewires every instruction that currently uses i to use
// replacement instead, matching dynarmic's "replace with identity/noop"
// lifecycle step (spec.md §3's Lifecycle paragraph): i itself is left in
// place as an orphan, to be swept by DeadCodeElimination once its use-list
// is empty.
func (i *Inst) ReplaceUsesWith(replacement Value) {
	consumers := make([]*Inst, len(i.uses))
	copy(consumers, i.uses)
	for _, consumer := range consumers {
		for idx, arg := range consumer.args {
			if arg.inst == i {
				consumer.args[idx] = replacement
				i.removeUse(consumer)
				if replacement.inst != nil {
					replacement.inst.addUse(consumer)
				}
			}
		}
	}
}

// FindUseWithOpcode returns the unique use of i whose opcode is op, or nil
// if none exists. This implements the paired-result lookup
// (GetCarryFromOp, GetOverflowFromOp, GetGEFromOp) spec.md §4.3 describes:
// codegen searches the producer's use-list to find its secondary-output
// consumer instead of modeling multiple return values directly.
func (i *Inst) FindUseWithOpcode(op Opcode) *Inst {
	for _, u := range i.uses {
		if u.opcode == op {
			return u
		}
	}
	return nil
}

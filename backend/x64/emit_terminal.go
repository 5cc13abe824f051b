package x64

import "armjit/ir"

// emitTerminal lowers a block's exit decision, the one type-switch site
// terminal.go's doc comment calls for. Grounded on original_source's
// EmitTerminal/EmitTerminalImpl overload set in emit_x64.cpp, collapsed
// here into a single recursive function since Go has no overload
// resolution to dispatch on.
func (x *EmitX64) emitTerminal(t ir.Terminal) {
	switch term := t.(type) {
	case ir.Interpret:
		x.emitReturnToInterpreter(term.Desc)

	case ir.ReturnToDispatch:
		x.emitReturnToDispatch()

	case ir.LinkBlock:
		x.emitLinkBlock(term.Desc, true)

	case ir.LinkBlockFast:
		x.emitLinkBlock(term.Desc, false)

	case ir.PopRSBHint:
		x.emitPopRSBHint()

	case ir.If:
		x.emitIf(term)

	case ir.CheckBit:
		x.emitCheckBit(term)

	case ir.CheckHalt:
		x.emitCheckHalt(term)

	default:
		panic("x64: unhandled terminal variant")
	}
}

// emitReturnToDispatch stores nothing further and returns to the
// dispatcher's Run loop, which reads JitState.PC to decide what runs next.
func (x *EmitX64) emitReturnToDispatch() {
	x.Asm.Ret()
}

// emitReturnToInterpreter sets PC to desc and returns to the dispatcher,
// which sees JitState's interpreter-fallback flag (set by the trampoline
// the dispatcher installs around Run) and invokes UserCallbacks directly
// rather than looking the address up in the block cache.
func (x *EmitX64) emitReturnToInterpreter(desc ir.LocationDescriptor) {
	scratch := x.RegAlloc.ScratchRegister()
	x.Asm.MovRegImm64(scratch, desc.Value())
	x.Asm.StoreMem64(x.StateReg, x.Offsets.PC, scratch)
	x.RegAlloc.ReleaseScratch(scratch)
	x.Asm.Ret()
}

// emitLinkBlock checks the remaining cycle budget (when checkCycles is
// true) before jumping directly to desc's compiled block, falling back to
// a dispatcher return either on budget exhaustion or because the jump
// target isn't compiled yet. The jump itself is left as a patch site
// (patch.go) for the dispatcher to resolve once it knows desc's host
// address.
func (x *EmitX64) emitLinkBlock(desc ir.LocationDescriptor, checkCycles bool) {
	if checkCycles {
		// emitCycleAccounting (emit.go) has already subtracted this
		// block's cost from CyclesLeft before the terminal runs; a
		// negative (i.e. high-bit-set) remainder means the budget is
		// exhausted and execution must bounce back through the
		// dispatcher's Run loop instead of jumping straight to the next
		// block, the same way LinkBlockFast always does by skipping this
		// branch (checkCycles false).
		scratch := x.RegAlloc.ScratchRegister()
		x.Asm.LoadMem64(scratch, x.StateReg, x.Offsets.CyclesLeft)
		x.Asm.CmpRegImm32(scratch, 0)
		x.RegAlloc.ReleaseScratch(scratch)

		continueDisp := x.Asm.JccRel32Placeholder(0xD) // JGE: budget still positive
		x.Asm.Ret()

		continueStart := x.Asm.Len()
		x.Asm.PatchU32At(continueDisp, uint32(continueStart-(continueDisp+4)))
	}
	offset := x.Asm.JmpRel32Placeholder()
	x.recordPatch(PatchKindDirectJump, offset, desc)
}

// emitPopRSBHint returns to the dispatcher unconditionally; no
// return-stack-buffer lookup is emitted, so every PopRSBHint goes through
// the dispatcher's block-cache lookup.
func (x *EmitX64) emitPopRSBHint() {
	x.Asm.Ret()
}

// emitIf lowers a guest condition-code branch to an x86 Jcc against the
// flags the last flag-producing IR opcode (AddWithCarry, Sub, ...) left on
// the host, per spec.md §4.4's Cond enum. Both arms are nested Terminals
// emitted inline in the same buffer ("jcc else; then-code; jmp end;
// else-code; end:"), so unlike LinkBlock's cross-block patch sites, both
// displacements here are resolved immediately — the target is a few
// instructions later in the very buffer being built.
func (x *EmitX64) emitIf(term ir.If) {
	cc := jccCondition(term.Cond)
	elseDisp := x.Asm.JccRel32Placeholder(cc)
	x.emitTerminal(term.Then)
	endDisp := x.Asm.JmpRel32Placeholder()

	elseStart := x.Asm.Len()
	x.Asm.PatchU32At(elseDisp, uint32(elseStart-(elseDisp+4)))
	x.emitTerminal(term.Else)

	end := x.Asm.Len()
	x.Asm.PatchU32At(endDisp, uint32(end-(endDisp+4)))
}

// jccCondition maps an ir.Cond to the low nibble of the 0F 8x Jcc opcode.
func jccCondition(c ir.Cond) byte {
	switch c {
	case ir.CondEQ:
		return 0x4
	case ir.CondNE:
		return 0x5
	case ir.CondCS:
		return 0x2
	case ir.CondCC:
		return 0x3
	case ir.CondMI:
		return 0x8
	case ir.CondPL:
		return 0x9
	case ir.CondVS:
		return 0x0
	case ir.CondVC:
		return 0x1
	case ir.CondHI:
		return 0x7
	case ir.CondLS:
		return 0x6
	case ir.CondGE:
		return 0xD
	case ir.CondLT:
		return 0xC
	case ir.CondGT:
		return 0xF
	case ir.CondLE:
		return 0xE
	default:
		return 0x4
	}
}

// emitCheckBit lowers a runtime boolean stashed outside guest condition
// codes (exclusive-monitor bookkeeping) against JitState.Flags, branching
// the same inline way emitIf does.
func (x *EmitX64) emitCheckBit(term ir.CheckBit) {
	scratch := x.RegAlloc.ScratchRegister()
	x.Asm.LoadMem32(scratch, x.StateReg, x.Offsets.Flags)
	x.Asm.CmpRegImm32(scratch, 0)
	x.RegAlloc.ReleaseScratch(scratch)

	elseDisp := x.Asm.JccRel32Placeholder(0x4) // JE -> Else when the bit reads zero
	x.emitTerminal(term.Then)
	endDisp := x.Asm.JmpRel32Placeholder()

	elseStart := x.Asm.Len()
	x.Asm.PatchU32At(elseDisp, uint32(elseStart-(elseDisp+4)))
	x.emitTerminal(term.Else)

	end := x.Asm.Len()
	x.Asm.PatchU32At(endDisp, uint32(end-(endDisp+4)))
}

// emitCheckHalt returns to the dispatcher if JitState's halt-request flag
// is set, otherwise falls through to Inner — the translator's cooperative
// HaltExecution mechanism (spec.md §5).
func (x *EmitX64) emitCheckHalt(term ir.CheckHalt) {
	scratch := x.RegAlloc.ScratchRegister()
	x.Asm.LoadMem32(scratch, x.StateReg, x.Offsets.HaltRequested)
	x.Asm.CmpRegImm32(scratch, 0)
	x.RegAlloc.ReleaseScratch(scratch)

	innerDisp := x.Asm.JccRel32Placeholder(0x4) // JE -> fall through to Inner
	x.Asm.Ret()                                 // halt requested: return to dispatcher

	innerStart := x.Asm.Len()
	x.Asm.PatchU32At(innerDisp, uint32(innerStart-(innerDisp+4)))
	x.emitTerminal(term.Inner)
}

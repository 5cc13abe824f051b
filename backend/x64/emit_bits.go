package x64

import "armjit/ir"

// emitPack2x32To1x64 lowers Pack2x32To1x64: hi shifted up 32 bits, ORed
// with the zero-extended lo.
func emitPack2x32To1x64(x *EmitX64, inst *ir.Inst) {
	lo := inst.Arg(0).Inst()
	hi := inst.Arg(1).Inst()
	loReg := x.RegAlloc.UseRegister(lo)
	hiReg := x.RegAlloc.UseRegister(hi)

	dst := x.RegAlloc.DefRegister(inst)
	x.Asm.MovRegReg(dst, hiReg)
	x.Asm.ShlRegImm8(dst, 32)
	scratch := x.RegAlloc.ScratchRegister()
	if scratch.needsREXBit() || loReg.needsREXBit() {
		x.Asm.emit(rex(false, loReg.needsREXBit(), false, scratch.needsREXBit()))
	}
	x.Asm.emit(0x89, modrm(loReg, scratch))
	x.Asm.OrRegReg(dst, scratch)
	x.RegAlloc.ReleaseScratch(scratch)
}

// emitLeastSignificantWord lowers LeastSignificantWord: the low 32 bits of
// a U64, taken with a 32-bit register copy, which zero-extends into the
// full 64-bit register.
func emitLeastSignificantWord(x *EmitX64, inst *ir.Inst) {
	src := inst.Arg(0).Inst()
	srcReg := x.RegAlloc.UseRegister(src)
	dst := x.RegAlloc.DefRegister(inst)
	if dst.needsREXBit() || srcReg.needsREXBit() {
		x.Asm.emit(rex(false, srcReg.needsREXBit(), false, dst.needsREXBit()))
	}
	x.Asm.emit(0x89, modrm(srcReg, dst))
}

// emitMostSignificantWord lowers MostSignificantWord: shift the U64 right
// by 32. GetCarryFromOp's consumer (emitTagConsumer) expects CF to carry
// bit 31 of the original value, which SHR by imm8 leaves in CF as an
// architectural side effect of the last bit shifted out.
func emitMostSignificantWord(x *EmitX64, inst *ir.Inst) {
	src := inst.Arg(0).Inst()
	dst := x.RegAlloc.UseDefRegister(src, inst)
	x.Asm.ShrRegImm8(dst, 32)
}

// emitMaskLow returns an emitFunc that ANDs the operand against mask,
// shared by LeastSignificantHalf/LeastSignificantByte.
func emitMaskLow(op func(a *Assembler, dst Reg, imm uint32), mask uint32) emitFunc {
	return func(x *EmitX64, inst *ir.Inst) {
		src := inst.Arg(0).Inst()
		dst := x.RegAlloc.UseDefRegister(src, inst)
		op(x.Asm, dst, mask)
	}
}

// emitMostSignificantBit lowers MostSignificantBit via BT against bit 31,
// then SETB to materialize CF into the result register's low byte.
func emitMostSignificantBit(x *EmitX64, inst *ir.Inst) {
	src := inst.Arg(0).Inst()
	srcReg := x.RegAlloc.UseRegister(src)
	dst := x.RegAlloc.DefRegister(inst)
	x.Asm.BtRegImm8(srcReg, 31)
	x.Asm.SetccReg(0x2, dst) // SETB: CF=1
}

// emitIsZero lowers IsZero: CMP against 0, SETE.
func emitIsZero(x *EmitX64, inst *ir.Inst) {
	src := inst.Arg(0).Inst()
	srcReg := x.RegAlloc.UseRegister(src)
	dst := x.RegAlloc.DefRegister(inst)
	x.Asm.CmpRegImm32(srcReg, 0)
	x.Asm.SetccReg(0x4, dst) // SETE: ZF=1
}

// emitTestBit lowers TestBit: the bit index operand is always a constant
// in every translator that emits this opcode (ARM's bitfield test
// instructions take an immediate bit position), so it is read as an
// immediate rather than loaded into a register for BtRegImm8's ib operand.
func emitTestBit(x *EmitX64, inst *ir.Inst) {
	value := inst.Arg(0).Inst()
	bit := inst.Arg(1).Inst()
	valueReg := x.RegAlloc.UseRegister(value)
	dst := x.RegAlloc.DefRegister(inst)
	x.Asm.BtRegImm8(valueReg, uint8(bit.ImmU64()))
	x.Asm.SetccReg(0x2, dst) // SETB: CF=1
}

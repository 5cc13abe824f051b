package x64

import "armjit/ir"

// emitVectorBin returns an emitFunc for the U128 binary vector family
// (VectorAdd8/16/32/64, VectorAnd/Or/Eor, VectorEqual8/16/32/64,
// VectorPairedAdd16/32): destructive two-operand SSE form, mirroring
// emitBinArith's GPR shape but over VecAlloc's XMM pool.
func emitVectorBin(op func(a *Assembler, dst, src XReg)) emitFunc {
	return func(x *EmitX64, inst *ir.Inst) {
		lhs := inst.Arg(0).Inst()
		rhs := inst.Arg(1).Inst()
		dst := x.VecAlloc.UseDefRegister(lhs, inst)
		src := x.VecAlloc.UseRegister(rhs)
		op(x.Asm, dst, src)
	}
}

// emitVectorNot lowers VectorNot. x86 has no PNOT; the standard idiom
// builds an all-ones register via PCMPEQB reg,reg (a register always
// equals itself) and XORs it in.
func emitVectorNot(x *EmitX64, inst *ir.Inst) {
	src := inst.Arg(0).Inst()
	dst := x.VecAlloc.UseDefRegister(src, inst)
	allOnes := x.VecAlloc.ScratchRegister()
	x.Asm.PcmpeqbRegReg(allOnes, allOnes)
	x.Asm.PxorRegReg(dst, allOnes)
	x.VecAlloc.ReleaseScratch(allOnes)
}

// emitVectorBroadcast8 lowers VectorBroadcast8: the input byte is spread
// across a 32-bit GPR lane by three shift-and-OR steps, then PSHUFD
// replicates that one dword to all four lanes.
func emitVectorBroadcast8(x *EmitX64, inst *ir.Inst) {
	src := inst.Arg(0).Inst()
	srcReg := x.RegAlloc.UseRegister(src)

	tmp := x.RegAlloc.ScratchRegister()
	x.Asm.MovRegReg(tmp, srcReg)
	x.Asm.AndRegImm32(tmp, 0xFF)
	shifted := x.RegAlloc.ScratchRegister()
	x.Asm.MovRegReg(shifted, tmp)
	x.Asm.ShlRegImm8(shifted, 8)
	x.Asm.OrRegReg(tmp, shifted)
	x.Asm.MovRegReg(shifted, tmp)
	x.Asm.ShlRegImm8(shifted, 16)
	x.Asm.OrRegReg(tmp, shifted)
	x.RegAlloc.ReleaseScratch(shifted)

	dst := x.VecAlloc.DefRegister(inst)
	x.Asm.MovdXmmGpr(dst, tmp)
	x.Asm.PshufdRegRegImm8(dst, dst, 0x00)
	x.RegAlloc.ReleaseScratch(tmp)
}

// emitVectorBroadcast16 is emitVectorBroadcast8's half-word counterpart.
func emitVectorBroadcast16(x *EmitX64, inst *ir.Inst) {
	src := inst.Arg(0).Inst()
	srcReg := x.RegAlloc.UseRegister(src)

	tmp := x.RegAlloc.ScratchRegister()
	x.Asm.MovRegReg(tmp, srcReg)
	x.Asm.AndRegImm32(tmp, 0xFFFF)
	shifted := x.RegAlloc.ScratchRegister()
	x.Asm.MovRegReg(shifted, tmp)
	x.Asm.ShlRegImm8(shifted, 16)
	x.Asm.OrRegReg(tmp, shifted)
	x.RegAlloc.ReleaseScratch(shifted)

	dst := x.VecAlloc.DefRegister(inst)
	x.Asm.MovdXmmGpr(dst, tmp)
	x.Asm.PshufdRegRegImm8(dst, dst, 0x00)
	x.RegAlloc.ReleaseScratch(tmp)
}

// emitVectorBroadcast32 loads the dword directly and replicates it.
func emitVectorBroadcast32(x *EmitX64, inst *ir.Inst) {
	src := inst.Arg(0).Inst()
	srcReg := x.RegAlloc.UseRegister(src)
	dst := x.VecAlloc.DefRegister(inst)
	x.Asm.MovdXmmGpr(dst, srcReg)
	x.Asm.PshufdRegRegImm8(dst, dst, 0x00)
}

// emitVectorBroadcast64 loads the qword into the low lane, then PSHUFD
// with selector 0x44 (dword pattern 1,0,1,0) duplicates the low 64 bits
// into the high 64 bits.
func emitVectorBroadcast64(x *EmitX64, inst *ir.Inst) {
	src := inst.Arg(0).Inst()
	srcReg := x.RegAlloc.UseRegister(src)
	dst := x.VecAlloc.DefRegister(inst)
	x.Asm.MovqXmmGpr(dst, srcReg)
	x.Asm.PshufdRegRegImm8(dst, dst, 0x44)
}

// --- FP scalar ops ------------------------------------------------------
//
// FP values are TypeU32/TypeU64 (ir/opcode.go) — ordinary GPR-resident bit
// patterns, not U128s — so FPAbs/FPNeg never touch an XMM register at all
// (they're pure bit-masking), and FPAdd/Sub/Mul/Div/Sqrt use a VecAlloc
// scratch register purely as a landing pad for the one SSE instruction
// that does the real arithmetic, then copy the bit pattern straight back
// to a GPR. No FP value is ever bound into VecAlloc across instructions.

// emitFPAbs lowers FPAbs32/64 by clearing the sign bit directly in the
// GPR holding the float's bit pattern.
func emitFPAbs(x *EmitX64, inst *ir.Inst) {
	src := inst.Arg(0).Inst()
	dst := x.RegAlloc.UseDefRegister(src, inst)
	mask := x.RegAlloc.ScratchRegister()
	if inst.Opcode() == ir.OpFPAbs64 {
		x.Asm.MovRegImm64(mask, 0x7FFFFFFFFFFFFFFF)
	} else {
		x.Asm.MovRegImm64(mask, 0x7FFFFFFF)
	}
	x.Asm.AndRegReg(dst, mask)
	x.RegAlloc.ReleaseScratch(mask)
}

// emitFPNeg lowers FPNeg32/64 by flipping the sign bit.
func emitFPNeg(x *EmitX64, inst *ir.Inst) {
	src := inst.Arg(0).Inst()
	dst := x.RegAlloc.UseDefRegister(src, inst)
	mask := x.RegAlloc.ScratchRegister()
	if inst.Opcode() == ir.OpFPNeg64 {
		x.Asm.MovRegImm64(mask, 0x8000000000000000)
	} else {
		x.Asm.MovRegImm64(mask, 0x80000000)
	}
	x.Asm.XorRegReg(dst, mask)
	x.RegAlloc.ReleaseScratch(mask)
}

// emitFPBin returns an emitFunc for FPAdd/Sub/Mul/Div at a fixed width
// (the Assembler method passed in already selects SS vs SD): both GPR
// operands load into scratch XMM registers, the real SSE op runs there,
// and the bit pattern comes straight back out into a fresh GPR.
func emitFPBin(op func(a *Assembler, dst, src XReg)) emitFunc {
	return func(x *EmitX64, inst *ir.Inst) {
		lhs := inst.Arg(0).Inst()
		rhs := inst.Arg(1).Inst()
		lhsReg := x.RegAlloc.UseRegister(lhs)
		rhsReg := x.RegAlloc.UseRegister(rhs)
		is64 := lhs.Type() == ir.TypeU64

		lx := x.VecAlloc.ScratchRegister()
		rx := x.VecAlloc.ScratchRegister()
		if is64 {
			x.Asm.MovqXmmGpr(lx, lhsReg)
			x.Asm.MovqXmmGpr(rx, rhsReg)
		} else {
			x.Asm.MovdXmmGpr(lx, lhsReg)
			x.Asm.MovdXmmGpr(rx, rhsReg)
		}
		op(x.Asm, lx, rx)

		dst := x.RegAlloc.DefRegister(inst)
		x.Asm.MovqGprXmm(dst, lx)
		x.VecAlloc.ReleaseScratch(lx)
		x.VecAlloc.ReleaseScratch(rx)
	}
}

// emitFPUnary is emitFPBin's one-operand counterpart, used for FPSqrt32/64.
func emitFPUnary(op func(a *Assembler, dst, src XReg)) emitFunc {
	return func(x *EmitX64, inst *ir.Inst) {
		src := inst.Arg(0).Inst()
		srcReg := x.RegAlloc.UseRegister(src)
		is64 := src.Type() == ir.TypeU64

		sx := x.VecAlloc.ScratchRegister()
		if is64 {
			x.Asm.MovqXmmGpr(sx, srcReg)
		} else {
			x.Asm.MovdXmmGpr(sx, srcReg)
		}
		op(x.Asm, sx, sx)

		dst := x.RegAlloc.DefRegister(inst)
		x.Asm.MovqGprXmm(dst, sx)
		x.VecAlloc.ReleaseScratch(sx)
	}
}

package x64

import "encoding/binary"

// Assembler accumulates x86-64 machine code into an in-memory byte
// buffer, grounded on launix-de-memcp's scm-jit JITWriter (emitByte/
// emitBytes/emitU32/emitU64 primitives, one method per instruction
// shape). Unlike that teacher code, which writes directly into mapped
// executable memory via unsafe.Pointer arithmetic, this Assembler
// writes into a plain growable []byte that CodeBuffer later copies into
// the mapped region — so the encoder itself has no unsafe dependency.
type Assembler struct {
	buf []byte
}

// NewAssembler returns an empty Assembler.
func NewAssembler() *Assembler { return &Assembler{} }

// Bytes returns the encoded instruction stream so far. Callers must not
// mutate the returned slice.
func (a *Assembler) Bytes() []byte { return a.buf }

// Len is the current encoded length in bytes, used by patch.go to record
// patch-site offsets.
func (a *Assembler) Len() int { return len(a.buf) }

func (a *Assembler) emit(bs ...byte) { a.buf = append(a.buf, bs...) }

func (a *Assembler) emitU32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	a.buf = append(a.buf, tmp[:]...)
}

func (a *Assembler) emitU64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	a.buf = append(a.buf, tmp[:]...)
}

// PatchU32At overwrites the 4 bytes at offset with v, used to fix up a
// branch displacement once the target address is known (patch.go).
func (a *Assembler) PatchU32At(offset int, v uint32) {
	binary.LittleEndian.PutUint32(a.buf[offset:offset+4], v)
}

// rex builds a REX prefix byte. w requests the 64-bit operand-size
// override; r/x/b carry the high bit of the ModRM.reg/SIB.index/
// ModRM.rm (or opcode) register fields respectively.
func rex(w, r, x, b bool) byte {
	out := byte(0x40)
	if w {
		out |= 0x08
	}
	if r {
		out |= 0x04
	}
	if x {
		out |= 0x02
	}
	if b {
		out |= 0x01
	}
	return out
}

// modrm builds a ModRM byte for register-direct addressing (mod=11).
func modrm(regField, rm Reg) byte {
	return 0xC0 | (regField.lowBits() << 3) | rm.lowBits()
}

// MovRegImm64 emits: MOV reg, imm64.
func (a *Assembler) MovRegImm64(dst Reg, imm uint64) {
	a.emit(rex(true, false, false, dst.needsREXBit()), 0xB8|dst.lowBits())
	a.emitU64(imm)
}

// MovRegImm32 emits: MOV reg(32-bit), imm32 — zero-extends into the full
// 64-bit register per the x86-64 architectural rule for 32-bit writes.
func (a *Assembler) MovRegImm32(dst Reg, imm uint32) {
	if dst.needsREXBit() {
		a.emit(rex(false, false, false, true))
	}
	a.emit(0xB8 | dst.lowBits())
	a.emitU32(imm)
}

// MovRegReg emits: MOV dst, src (64-bit).
func (a *Assembler) MovRegReg(dst, src Reg) {
	a.emit(rex(true, src.needsREXBit(), false, dst.needsREXBit()), 0x89, modrm(src, dst))
}

// arithRegReg emits a 64-bit reg,reg ALU instruction given its 6-bit
// opcode group (the /r opcode byte for the "op r/m64, r64" encoding).
func (a *Assembler) arithRegReg(op byte, dst, src Reg) {
	a.emit(rex(true, src.needsREXBit(), false, dst.needsREXBit()), op, modrm(src, dst))
}

func (a *Assembler) AddRegReg(dst, src Reg) { a.arithRegReg(0x01, dst, src) }
func (a *Assembler) SubRegReg(dst, src Reg) { a.arithRegReg(0x29, dst, src) }
func (a *Assembler) AndRegReg(dst, src Reg) { a.arithRegReg(0x21, dst, src) }
func (a *Assembler) OrRegReg(dst, src Reg)  { a.arithRegReg(0x09, dst, src) }
func (a *Assembler) XorRegReg(dst, src Reg) { a.arithRegReg(0x31, dst, src) }
func (a *Assembler) CmpRegReg(dst, src Reg) { a.arithRegReg(0x39, dst, src) }

// arithRegImm32 encodes the 81 /n group (64-bit op r/m64, imm32 form), the
// immediate counterpart to arithRegReg.
func (a *Assembler) arithRegImm32(extension byte, dst Reg, imm uint32) {
	a.emit(rex(true, false, false, dst.needsREXBit()), 0x81, (0xC0|extension<<3)|dst.lowBits())
	a.emitU32(imm)
}

func (a *Assembler) AddRegImm32(dst Reg, imm uint32) { a.arithRegImm32(0, dst, imm) }
func (a *Assembler) AndRegImm32(dst Reg, imm uint32) { a.arithRegImm32(4, dst, imm) }
func (a *Assembler) OrRegImm32(dst Reg, imm uint32)  { a.arithRegImm32(1, dst, imm) }
func (a *Assembler) XorRegImm32(dst Reg, imm uint32) { a.arithRegImm32(6, dst, imm) }
func (a *Assembler) SubRegImm32(dst Reg, imm uint32) { a.arithRegImm32(5, dst, imm) }

// CmpRegImm32 emits: CMP dst, imm32 (81 /7).
func (a *Assembler) CmpRegImm32(dst Reg, imm uint32) {
	a.arithRegImm32(7, dst, imm)
}

// AdcRegReg emits: ADC dst, src (11 /r) — add with the host carry flag,
// used for AddWithCarry once the IR's carry-in has been materialized into
// CF.
func (a *Assembler) AdcRegReg(dst, src Reg) { a.arithRegReg(0x11, dst, src) }

// SbbRegReg emits: SBB dst, src (19 /r) — subtract with borrow.
func (a *Assembler) SbbRegReg(dst, src Reg) { a.arithRegReg(0x19, dst, src) }

// Cmc emits: CMC — complement the host carry flag. Used after SBB to flip
// x86's borrow-sense carry back to ARM's NOT-borrow sense.
func (a *Assembler) Cmc() { a.emit(0xF5) }

// BtRegReg emits: BT dst, idx (0F A3 /r) — tests bit (idx mod 64) of dst
// into CF, idx itself coming from a register rather than an immediate.
func (a *Assembler) BtRegReg(dst, idx Reg) {
	a.emit(rex(true, idx.needsREXBit(), false, dst.needsREXBit()), 0x0F, 0xA3, modrm(idx, dst))
}

// BtRegImm8 emits: BT dst, imm8 (0F BA /4 ib).
func (a *Assembler) BtRegImm8(dst Reg, imm uint8) {
	a.emit(rex(true, false, false, dst.needsREXBit()), 0x0F, 0xBA, 0xE0|dst.lowBits(), imm)
}

// RcrRegImm8 emits: RCR dst, imm8 (C1 /3 ib) — rotate right through carry,
// used to lower RotateRightExtended (a 1-bit RRX) once carry-in is in CF.
func (a *Assembler) RcrRegImm8(dst Reg, imm uint8) {
	a.emit(rex(true, false, false, dst.needsREXBit()), 0xC1, 0xD8|dst.lowBits(), imm)
}

// SetccReg emits SETcc dst (0F 90+cc /0), materializing a condition flag
// into the low byte of dst. A REX prefix is always emitted (even when not
// otherwise required) so RSP/RBP/RSI/RDI address their low byte instead of
// the legacy AH/BH/CH/DH encoding.
func (a *Assembler) SetccReg(cc byte, dst Reg) {
	a.emit(rex(false, false, false, dst.needsREXBit()), 0x0F, 0x90|cc, 0xC0|dst.lowBits())
}

// MovsxReg8 emits: MOVSX dst, src (8-bit source, 0F BE /r).
func (a *Assembler) MovsxReg8(dst, src Reg) {
	a.emit(rex(true, dst.needsREXBit(), false, src.needsREXBit()), 0x0F, 0xBE, modrm(dst, src))
}

// MovsxReg16 emits: MOVSX dst, src (16-bit source, 0F BF /r).
func (a *Assembler) MovsxReg16(dst, src Reg) {
	a.emit(rex(true, dst.needsREXBit(), false, src.needsREXBit()), 0x0F, 0xBF, modrm(dst, src))
}

// MovsxdReg32 emits: MOVSXD dst, src (32-bit source sign-extended to 64
// bits, 63 /r).
func (a *Assembler) MovsxdReg32(dst, src Reg) {
	a.emit(rex(true, dst.needsREXBit(), false, src.needsREXBit()), 0x63, modrm(dst, src))
}

// MovzxReg8 emits: MOVZX dst, src (8-bit source, 0F B6 /r).
func (a *Assembler) MovzxReg8(dst, src Reg) {
	a.emit(rex(true, dst.needsREXBit(), false, src.needsREXBit()), 0x0F, 0xB6, modrm(dst, src))
}

// MovzxReg16 emits: MOVZX dst, src (16-bit source, 0F B7 /r).
func (a *Assembler) MovzxReg16(dst, src Reg) {
	a.emit(rex(true, dst.needsREXBit(), false, src.needsREXBit()), 0x0F, 0xB7, modrm(dst, src))
}

// RolReg16Imm8 emits: ROL r16, imm8 (66 C1 /0 ib) — a 16-bit-operand-size
// rotate, used to byte-swap a half-word in place (ROL x16, 8).
func (a *Assembler) RolReg16Imm8(dst Reg, imm uint8) {
	a.emit(0x66)
	if dst.needsREXBit() {
		a.emit(rex(false, false, false, true))
	}
	a.emit(0xC1, 0xC0|dst.lowBits(), imm)
}

// MulHighUnsigned emits: MUL src (F7 /4) — RDX:RAX = RAX * src, unsigned.
func (a *Assembler) MulHighUnsigned(src Reg) {
	a.emit(rex(true, false, false, src.needsREXBit()), 0xF7, 0xE0|src.lowBits())
}

// MulHighSigned emits: IMUL src (F7 /5) — RDX:RAX = RAX * src, signed.
func (a *Assembler) MulHighSigned(src Reg) {
	a.emit(rex(true, false, false, src.needsREXBit()), 0xF7, 0xE8|src.lowBits())
}

// DivUnsigned emits: DIV src (F7 /6) — RAX:RDX = RDX:RAX / src, RAX =
// quotient, RDX = remainder, unsigned.
func (a *Assembler) DivUnsigned(src Reg) {
	a.emit(rex(true, false, false, src.needsREXBit()), 0xF7, 0xF0|src.lowBits())
}

// DivSigned emits: IDIV src (F7 /7), signed counterpart to DivUnsigned.
func (a *Assembler) DivSigned(src Reg) {
	a.emit(rex(true, false, false, src.needsREXBit()), 0xF7, 0xF8|src.lowBits())
}

// Cqo emits: CQO — sign-extends RAX into RDX:RAX, the required setup
// before IDIV.
func (a *Assembler) Cqo() { a.emit(rex(true, false, false, false), 0x99) }

// ShrdRegRegImm8 emits: SHRD dst, src, imm8 (0F AC /r ib) — the funnel
// shift right, used to lower ExtractRegister32/64: dst's low bits shift
// out, replaced from src's low bits, by imm8 positions.
func (a *Assembler) ShrdRegRegImm8(dst, src Reg, imm uint8) {
	a.emit(rex(true, src.needsREXBit(), false, dst.needsREXBit()), 0x0F, 0xAC, modrm(src, dst), imm)
}

// CmovccRegReg emits: CMOVcc dst, src (0F 4x /r) — conditional move, used
// to lower saturation clamps without a data-dependent branch.
func (a *Assembler) CmovccRegReg(cc byte, dst, src Reg) {
	a.emit(rex(true, dst.needsREXBit(), false, src.needsREXBit()), 0x0F, 0x40|cc, modrm(dst, src))
}

// NotReg emits: NOT dst (one's complement, F7 /2).
func (a *Assembler) NotReg(dst Reg) {
	a.emit(rex(true, false, false, dst.needsREXBit()), 0xF7, 0xC0|dst.lowBits())
}

// NegReg emits: NEG dst (two's complement negate, F7 /3).
func (a *Assembler) NegReg(dst Reg) {
	a.emit(rex(true, false, false, dst.needsREXBit()), 0xF7, 0xD8|dst.lowBits())
}

// shiftGroup2 encodes the D3 /n family (shift-by-CL), used for all of
// SHL/SHR/SAR/ROR with a runtime count.
func (a *Assembler) shiftGroup2(extension byte, dst Reg) {
	a.emit(rex(true, false, false, dst.needsREXBit()), 0xD3, (0xC0|extension<<3)|dst.lowBits())
}

// ShlRegCL emits: SHL dst, CL.
func (a *Assembler) ShlRegCL(dst Reg) { a.shiftGroup2(4, dst) }

// ShrRegCL emits: SHR dst, CL (logical).
func (a *Assembler) ShrRegCL(dst Reg) { a.shiftGroup2(5, dst) }

// SarRegCL emits: SAR dst, CL (arithmetic).
func (a *Assembler) SarRegCL(dst Reg) { a.shiftGroup2(7, dst) }

// RorRegCL emits: ROR dst, CL.
func (a *Assembler) RorRegCL(dst Reg) { a.shiftGroup2(1, dst) }

// ShlRegImm8 emits: SHL dst, imm8 (C1 /4).
func (a *Assembler) ShlRegImm8(dst Reg, imm uint8) {
	a.emit(rex(true, false, false, dst.needsREXBit()), 0xC1, 0xE0|dst.lowBits(), imm)
}

// ShrRegImm8 emits: SHR dst, imm8 (C1 /5).
func (a *Assembler) ShrRegImm8(dst Reg, imm uint8) {
	a.emit(rex(true, false, false, dst.needsREXBit()), 0xC1, 0xE8|dst.lowBits(), imm)
}

// SarRegImm8 emits: SAR dst, imm8 (C1 /7).
func (a *Assembler) SarRegImm8(dst Reg, imm uint8) {
	a.emit(rex(true, false, false, dst.needsREXBit()), 0xC1, 0xF8|dst.lowBits(), imm)
}

// MulRegReg emits: IMUL dst, src (0F AF /r).
func (a *Assembler) MulRegReg(dst, src Reg) {
	a.emit(rex(true, dst.needsREXBit(), false, src.needsREXBit()), 0x0F, 0xAF, modrm(dst, src))
}

// BswapReg emits: BSWAP dst.
func (a *Assembler) BswapReg(dst Reg) {
	a.emit(rex(true, false, false, dst.needsREXBit()), 0x0F, 0xC8|dst.lowBits())
}

// LzcntRegReg emits: LZCNT dst, src (F3 0F BD /r); the host must support
// LZCNT, and nothing in this module checks the CPUID bit for it.
func (a *Assembler) LzcntRegReg(dst, src Reg) {
	a.emit(0xF3, rex(true, dst.needsREXBit(), false, src.needsREXBit()), 0x0F, 0xBD, modrm(dst, src))
}

// LoadMem64 emits: MOV dst, [base+disp32] — used to read a JitState
// field at a fixed ABI offset (state.go) off the pinned RBP base.
func (a *Assembler) LoadMem64(dst, base Reg, disp int32) {
	a.emit(rex(true, dst.needsREXBit(), false, base.needsREXBit()), 0x8B, 0x80|(dst.lowBits()<<3)|base.lowBits())
	a.emitU32(uint32(disp))
}

// StoreMem64 emits: MOV [base+disp32], src.
func (a *Assembler) StoreMem64(base Reg, disp int32, src Reg) {
	a.emit(rex(true, src.needsREXBit(), false, base.needsREXBit()), 0x89, 0x80|(src.lowBits()<<3)|base.lowBits())
	a.emitU32(uint32(disp))
}

// LoadMem32 emits: MOV dst(32-bit), [base+disp32].
func (a *Assembler) LoadMem32(dst, base Reg, disp int32) {
	if dst.needsREXBit() || base.needsREXBit() {
		a.emit(rex(false, dst.needsREXBit(), false, base.needsREXBit()))
	}
	a.emit(0x8B, 0x80|(dst.lowBits()<<3)|base.lowBits())
	a.emitU32(uint32(disp))
}

// StoreMem32 emits: MOV [base+disp32], src(32-bit).
func (a *Assembler) StoreMem32(base Reg, disp int32, src Reg) {
	if src.needsREXBit() || base.needsREXBit() {
		a.emit(rex(false, src.needsREXBit(), false, base.needsREXBit()))
	}
	a.emit(0x89, 0x80|(src.lowBits()<<3)|base.lowBits())
	a.emitU32(uint32(disp))
}

// CallRegAbsolute emits: CALL reg (FF /2), used to call into a
// UserCallbacks trampoline whose address was loaded into reg beforehand.
func (a *Assembler) CallRegAbsolute(reg Reg) {
	a.emit(rex(true, false, false, reg.needsREXBit()), 0xFF, 0xD0|reg.lowBits())
}

// JmpRegAbsolute emits: JMP reg (FF /4), used for the dispatcher's
// indirect jump into a just-looked-up compiled block.
func (a *Assembler) JmpRegAbsolute(reg Reg) {
	a.emit(rex(true, false, false, reg.needsREXBit()), 0xFF, 0xE0|reg.lowBits())
}

// JmpRel32Placeholder emits a near unconditional jump with a zero
// placeholder displacement, returning the buffer offset of the 4-byte
// displacement field for a later PatchU32At call once the target is
// known (the direct-block-link patch site, patch.go).
func (a *Assembler) JmpRel32Placeholder() (dispOffset int) {
	a.emit(0xE9)
	dispOffset = a.Len()
	a.emitU32(0)
	return dispOffset
}

// JccRel32Placeholder emits a near conditional jump (0F 8x) on cc, the
// low nibble of the Jcc opcode (e.g. 0x4 for JE/JZ), with a zero
// placeholder displacement.
func (a *Assembler) JccRel32Placeholder(cc byte) (dispOffset int) {
	a.emit(0x0F, 0x80|cc)
	dispOffset = a.Len()
	a.emitU32(0)
	return dispOffset
}

// Ret emits: RET.
func (a *Assembler) Ret() { a.emit(0xC3) }

// Nop emits a single-byte NOP, used to pad patch sites in tests.
func (a *Assembler) Nop() { a.emit(0x90) }

// Int3 emits a breakpoint trap, used to lower the IR's Breakpoint opcode.
func (a *Assembler) Int3() { a.emit(0xCC) }

// --- SSE2/SSSE3/SSE4.1, for the U128 vector and FP scalar opcode family --
//
// There is no Get/SetVectorRegister opcode in ir/opcode.go — every U128
// value lives entirely within one block's instruction stream — so these
// routines only ever move data between a GPR/immediate and a scratch XMM
// register, never to/from JitState. modrmX mirrors asm.go's modrm but over
// the XMM register-number space, which shares the same 3-bit low-field/
// REX-extension-bit shape as the GPR Reg type.

func modrmX(regField, rm XReg) byte {
	return 0xC0 | (regField.lowBits() << 3) | rm.lowBits()
}

// MovdXmmGpr emits: MOVD dst, src (66 0F 6E /r) — moves the low 32 bits of
// a GPR into an XMM register, zeroing the upper 96 bits.
func (a *Assembler) MovdXmmGpr(dst XReg, src Reg) {
	a.emit(0x66)
	if dst.needsREXBit() || src.needsREXBit() {
		a.emit(rex(false, dst.needsREXBit(), false, src.needsREXBit()))
	}
	a.emit(0x0F, 0x6E, 0xC0|(dst.lowBits()<<3)|src.lowBits())
}

// MovqXmmGpr emits: MOVQ dst, src (66 REX.W 0F 6E /r) — moves all 64 bits
// of a GPR into an XMM register, zeroing the upper 64 bits.
func (a *Assembler) MovqXmmGpr(dst XReg, src Reg) {
	a.emit(0x66, rex(true, dst.needsREXBit(), false, src.needsREXBit()), 0x0F, 0x6E, 0xC0|(dst.lowBits()<<3)|src.lowBits())
}

// MovqGprXmm emits: MOVQ dst, src (66 REX.W 0F 7E /r) — the inverse of
// MovqXmmGpr, reading the low 64 bits of an XMM register into a GPR.
func (a *Assembler) MovqGprXmm(dst Reg, src XReg) {
	a.emit(0x66, rex(true, src.needsREXBit(), false, dst.needsREXBit()), 0x0F, 0x7E, 0xC0|(src.lowBits()<<3)|dst.lowBits())
}

// MovdqaRegReg emits: MOVDQA dst, src (66 0F 6F /r) — whole-register XMM
// copy.
func (a *Assembler) MovdqaRegReg(dst, src XReg) {
	a.emit(0x66)
	if dst.needsREXBit() || src.needsREXBit() {
		a.emit(rex(false, dst.needsREXBit(), false, src.needsREXBit()))
	}
	a.emit(0x0F, 0x6F, modrmX(dst, src))
}

func (a *Assembler) sse66(op byte, dst, src XReg) {
	a.emit(0x66)
	if dst.needsREXBit() || src.needsREXBit() {
		a.emit(rex(false, dst.needsREXBit(), false, src.needsREXBit()))
	}
	a.emit(0x0F, op, modrmX(dst, src))
}

func (a *Assembler) PxorRegReg(dst, src XReg) { a.sse66(0xEF, dst, src) }
func (a *Assembler) PandRegReg(dst, src XReg) { a.sse66(0xDB, dst, src) }
func (a *Assembler) PorRegReg(dst, src XReg)  { a.sse66(0xEB, dst, src) }

func (a *Assembler) PaddbRegReg(dst, src XReg) { a.sse66(0xFC, dst, src) }
func (a *Assembler) PaddwRegReg(dst, src XReg) { a.sse66(0xFD, dst, src) }
func (a *Assembler) PadddRegReg(dst, src XReg) { a.sse66(0xFE, dst, src) }
func (a *Assembler) PaddqRegReg(dst, src XReg) { a.sse66(0xD4, dst, src) }

func (a *Assembler) PcmpeqbRegReg(dst, src XReg) { a.sse66(0x74, dst, src) }
func (a *Assembler) PcmpeqwRegReg(dst, src XReg) { a.sse66(0x75, dst, src) }
func (a *Assembler) PcmpeqdRegReg(dst, src XReg) { a.sse66(0x76, dst, src) }

// PcmpeqqRegReg emits: PCMPEQQ dst, src (66 0F 38 29 /r, SSE4.1).
func (a *Assembler) PcmpeqqRegReg(dst, src XReg) {
	a.emit(0x66)
	if dst.needsREXBit() || src.needsREXBit() {
		a.emit(rex(false, dst.needsREXBit(), false, src.needsREXBit()))
	}
	a.emit(0x0F, 0x38, 0x29, modrmX(dst, src))
}

func (a *Assembler) PunpcklbwRegReg(dst, src XReg) { a.sse66(0x60, dst, src) }
func (a *Assembler) PunpcklwdRegReg(dst, src XReg) { a.sse66(0x61, dst, src) }
func (a *Assembler) PhaddwRegReg(dst, src XReg) {
	a.emit(0x66)
	if dst.needsREXBit() || src.needsREXBit() {
		a.emit(rex(false, dst.needsREXBit(), false, src.needsREXBit()))
	}
	a.emit(0x0F, 0x38, 0x01, modrmX(dst, src))
}
func (a *Assembler) PhaddRegReg(dst, src XReg) {
	a.emit(0x66)
	if dst.needsREXBit() || src.needsREXBit() {
		a.emit(rex(false, dst.needsREXBit(), false, src.needsREXBit()))
	}
	a.emit(0x0F, 0x38, 0x02, modrmX(dst, src))
}

// PshufdRegRegImm8 emits: PSHUFD dst, src, imm8 (66 0F 70 /r ib) —
// replicates 32-bit lanes of src into dst per the 2-bit-per-lane selector
// in imm8.
func (a *Assembler) PshufdRegRegImm8(dst, src XReg, imm uint8) {
	a.emit(0x66)
	if dst.needsREXBit() || src.needsREXBit() {
		a.emit(rex(false, dst.needsREXBit(), false, src.needsREXBit()))
	}
	a.emit(0x0F, 0x70, modrmX(dst, src), imm)
}

func (a *Assembler) sseScalar(prefix, op byte, dst, src XReg) {
	a.emit(prefix)
	if dst.needsREXBit() || src.needsREXBit() {
		a.emit(rex(false, dst.needsREXBit(), false, src.needsREXBit()))
	}
	a.emit(0x0F, op, modrmX(dst, src))
}

func (a *Assembler) AddssRegReg(dst, src XReg) { a.sseScalar(0xF3, 0x58, dst, src) }
func (a *Assembler) AddsdRegReg(dst, src XReg) { a.sseScalar(0xF2, 0x58, dst, src) }
func (a *Assembler) SubssRegReg(dst, src XReg) { a.sseScalar(0xF3, 0x5C, dst, src) }
func (a *Assembler) SubsdRegReg(dst, src XReg) { a.sseScalar(0xF2, 0x5C, dst, src) }
func (a *Assembler) MulssRegReg(dst, src XReg) { a.sseScalar(0xF3, 0x59, dst, src) }
func (a *Assembler) MulsdRegReg(dst, src XReg) { a.sseScalar(0xF2, 0x59, dst, src) }
func (a *Assembler) DivssRegReg(dst, src XReg) { a.sseScalar(0xF3, 0x5E, dst, src) }
func (a *Assembler) DivsdRegReg(dst, src XReg) { a.sseScalar(0xF2, 0x5E, dst, src) }
func (a *Assembler) SqrtssRegReg(dst, src XReg) { a.sseScalar(0xF3, 0x51, dst, src) }
func (a *Assembler) SqrtsdRegReg(dst, src XReg) { a.sseScalar(0xF2, 0x51, dst, src) }

// AndpsRegReg/XorpsRegReg emit ANDPS/XORPS dst, src (0F 54 /r, 0F 57 /r) —
// no legacy-SSE prefix, and purely bitwise despite the "PS" (packed
// single) name, which is why FPAbs/FPNeg reuse them for both float widths.
func (a *Assembler) AndpsRegReg(dst, src XReg) {
	if dst.needsREXBit() || src.needsREXBit() {
		a.emit(rex(false, dst.needsREXBit(), false, src.needsREXBit()))
	}
	a.emit(0x0F, 0x54, modrmX(dst, src))
}

func (a *Assembler) XorpsRegReg(dst, src XReg) {
	if dst.needsREXBit() || src.needsREXBit() {
		a.emit(rex(false, dst.needsREXBit(), false, src.needsREXBit()))
	}
	a.emit(0x0F, 0x57, modrmX(dst, src))
}

package ir

// Emitter is the builder a guest translator uses to construct a Block.
// It is a near-literal structural port of original_source's ir_emitter.h:
// one method per microinstruction, each enforcing the closed type set of
// operands/results statically through its Go signature instead of through
// a runtime assertion. spec.md §4.2 requires translators to "manipulate
// values only through typed helper operations"; Emitter is that contract
// — frontend/* translators never touch *Inst or Block fields directly.
type Emitter struct {
	Block *Block
}

// NewEmitter returns an Emitter appending to the end of block, matching
// spec.md §4.2's "positioned at the end of the block under construction".
func NewEmitter(block *Block) *Emitter {
	return &Emitter{Block: block}
}

func (e *Emitter) inst(op Opcode, args ...Value) *Inst {
	return e.Block.newInst(op, args...)
}

// --- Immediates -------------------------------------------------------

func (e *Emitter) Imm1(v bool) U1 {
	i := e.inst(OpImmU1)
	if v {
		i.immU64 = 1
	}
	return asU1(i)
}

func (e *Emitter) Imm8(v uint8) U8 {
	i := e.inst(OpImmU8)
	i.immU64 = uint64(v)
	return asU8(i)
}

func (e *Emitter) Imm16(v uint16) U16 {
	i := e.inst(OpImmU16)
	i.immU64 = uint64(v)
	return asU16(i)
}

func (e *Emitter) Imm32(v uint32) U32 {
	i := e.inst(OpImmU32)
	i.immU64 = uint64(v)
	return asU32(i)
}

func (e *Emitter) Imm64(v uint64) U64 {
	i := e.inst(OpImmU64)
	i.immU64 = v
	return asU64(i)
}

// immRegRef builds the zero-operand ImmRegRef leaf GetRegister/SetRegister
// hang off of, per spec.md §3 ("immediates of the SSA graph are themselves
// zero-operand instructions").
func (e *Emitter) immRegRef(reg uint8) *Inst {
	i := e.inst(OpImmRegRef)
	i.regIndex = reg
	return i
}

// --- Guest architectural state accessors -------------------------------

func (e *Emitter) GetRegister(reg uint8) U32 {
	ref := e.immRegRef(reg)
	return asU32(e.inst(OpGetRegister, valueOf(ref)))
}

func (e *Emitter) SetRegister(reg uint8, value U32) {
	ref := e.immRegRef(reg)
	e.inst(OpSetRegister, valueOf(ref), value.Value)
}

func (e *Emitter) GetExtendedRegister(reg uint8) U64 {
	ref := e.immRegRef(reg)
	return asU64(e.inst(OpGetExtendedRegister, valueOf(ref)))
}

func (e *Emitter) SetExtendedRegister(reg uint8, value U64) {
	ref := e.immRegRef(reg)
	e.inst(OpSetExtendedRegister, valueOf(ref), value.Value)
}

// FlagBit names one of the four NZCV condition bits for GetFlag/SetFlag.
type FlagBit uint8

const (
	FlagN FlagBit = iota
	FlagZ
	FlagC
	FlagV
)

func (e *Emitter) GetFlag(flag FlagBit) U1 {
	i := e.inst(OpGetFlag)
	i.regIndex = uint8(flag)
	return asU1(i)
}

func (e *Emitter) SetFlag(flag FlagBit, value U1) {
	i := e.inst(OpSetFlag, value.Value)
	i.regIndex = uint8(flag)
}

func (e *Emitter) GetPC() U64    { return asU64(e.inst(OpGetPC)) }
func (e *Emitter) SetPC(v U64)   { e.inst(OpSetPC, v.Value) }
func (e *Emitter) GetCpsr() U32  { return asU32(e.inst(OpGetCpsr)) }
func (e *Emitter) SetCpsr(v U32) { e.inst(OpSetCpsr, v.Value) }
func (e *Emitter) GetFpscr() U32 { return asU32(e.inst(OpGetFpscr)) }
func (e *Emitter) SetFpscr(v U32) { e.inst(OpSetFpscr, v.Value) }

// --- Bit-level primitives ----------------------------------------------

func (e *Emitter) Pack2x32To1x64(lo, hi U32) U64 {
	return asU64(e.inst(OpPack2x32To1x64, lo.Value, hi.Value))
}

func (e *Emitter) LeastSignificantWord(v U64) U32 {
	return asU32(e.inst(OpLeastSignificantWord, v.Value))
}

func (e *Emitter) MostSignificantWord(v U64) ResultAndCarry[U32] {
	result := e.inst(OpMostSignificantWord, v.Value)
	carry := e.inst(OpGetCarryFromOp, valueOf(result))
	return ResultAndCarry[U32]{Result: asU32(result), Carry: asU1(carry)}
}

func (e *Emitter) LeastSignificantHalf(v U32U64) U16 {
	return asU16(e.inst(OpLeastSignificantHalf, v.Value))
}

func (e *Emitter) LeastSignificantByte(v U32U64) U8 {
	return asU8(e.inst(OpLeastSignificantByte, v.Value))
}

func (e *Emitter) MostSignificantBit(v U32) U1 {
	return asU1(e.inst(OpMostSignificantBit, v.Value))
}

func (e *Emitter) IsZero(v Value) U1 {
	return asU1(e.inst(OpIsZero, v))
}

func (e *Emitter) TestBit(v U32U64, bit U8) U1 {
	return asU1(e.inst(OpTestBit, v.Value, bit.Value))
}

// NZCVFrom attaches a flags consumer to the unique upstream op that can
// produce NZCV. This pseudo-instruction may only be attached to an
// instruction whose opcode manifest entry is flagged as an NZCV producer
// (AddWithCarry, SubWithCarry, And, ...); callers are translator code that
// already knows this, matching spec.md §4.3.
func (e *Emitter) NZCVFrom(v Value) NZCV {
	return asNZCV(e.inst(OpNZCVFrom, v))
}

// --- Shifts --------------------------------------------------------

// LogicalShiftLeftRegister implements the register-shift-amount ARM form:
// a runtime shift_amount of 0 leaves carryIn untouched (spec.md §4.7's
// worked LSL example; DESIGN.md Open Question 2).
func (e *Emitter) LogicalShiftLeftRegister(value U32, shiftAmount U8, carryIn U1) ResultAndCarry[U32] {
	result := e.inst(OpLogicalShiftLeftRegister, value.Value, shiftAmount.Value, carryIn.Value)
	carry := e.inst(OpGetCarryFromOp, valueOf(result))
	return ResultAndCarry[U32]{Result: asU32(result), Carry: asU1(carry)}
}

// LogicalShiftLeftImmediate implements the immediate-shift-amount ARM
// form, which computes carry statically from the constant shift amount
// rather than preserving carryIn (DESIGN.md Open Question 2).
func (e *Emitter) LogicalShiftLeftImmediate(value U32, shiftAmount uint8) ResultAndCarry[U32] {
	amount := e.Imm8(shiftAmount)
	result := e.inst(OpLogicalShiftLeftImmediate, value.Value, amount.Value)
	carry := e.inst(OpGetCarryFromOp, valueOf(result))
	return ResultAndCarry[U32]{Result: asU32(result), Carry: asU1(carry)}
}

func (e *Emitter) LogicalShiftLeftNoCarry(value U32U64, shiftAmount U8) U32U64 {
	return asU32U64(e.inst(OpLogicalShiftLeftRegister, value.Value, shiftAmount.Value, e.Imm1(false).Value))
}

func (e *Emitter) LogicalShiftRightRegister(value U32, shiftAmount U8, carryIn U1) ResultAndCarry[U32] {
	result := e.inst(OpLogicalShiftRightRegister, value.Value, shiftAmount.Value, carryIn.Value)
	carry := e.inst(OpGetCarryFromOp, valueOf(result))
	return ResultAndCarry[U32]{Result: asU32(result), Carry: asU1(carry)}
}

func (e *Emitter) LogicalShiftRightImmediate(value U32, shiftAmount uint8) ResultAndCarry[U32] {
	amount := e.Imm8(shiftAmount)
	result := e.inst(OpLogicalShiftRightImmediate, value.Value, amount.Value)
	carry := e.inst(OpGetCarryFromOp, valueOf(result))
	return ResultAndCarry[U32]{Result: asU32(result), Carry: asU1(carry)}
}

func (e *Emitter) ArithmeticShiftRightRegister(value U32, shiftAmount U8, carryIn U1) ResultAndCarry[U32] {
	result := e.inst(OpArithmeticShiftRightRegister, value.Value, shiftAmount.Value, carryIn.Value)
	carry := e.inst(OpGetCarryFromOp, valueOf(result))
	return ResultAndCarry[U32]{Result: asU32(result), Carry: asU1(carry)}
}

func (e *Emitter) ArithmeticShiftRightImmediate(value U32, shiftAmount uint8) ResultAndCarry[U32] {
	amount := e.Imm8(shiftAmount)
	result := e.inst(OpArithmeticShiftRightImmediate, value.Value, amount.Value)
	carry := e.inst(OpGetCarryFromOp, valueOf(result))
	return ResultAndCarry[U32]{Result: asU32(result), Carry: asU1(carry)}
}

func (e *Emitter) RotateRightRegister(value U32, shiftAmount U8, carryIn U1) ResultAndCarry[U32] {
	result := e.inst(OpRotateRightRegister, value.Value, shiftAmount.Value, carryIn.Value)
	carry := e.inst(OpGetCarryFromOp, valueOf(result))
	return ResultAndCarry[U32]{Result: asU32(result), Carry: asU1(carry)}
}

func (e *Emitter) RotateRightExtended(value U32, carryIn U1) ResultAndCarry[U32] {
	result := e.inst(OpRotateRightExtended, value.Value, carryIn.Value)
	carry := e.inst(OpGetCarryFromOp, valueOf(result))
	return ResultAndCarry[U32]{Result: asU32(result), Carry: asU1(carry)}
}

// --- Arithmetic ----------------------------------------------------

func (e *Emitter) Add(a, b U32U64) U32U64 {
	return asU32U64(e.inst(OpAdd, a.Value, b.Value))
}

func (e *Emitter) Sub(a, b U32U64) U32U64 {
	return asU32U64(e.inst(OpSub, a.Value, b.Value))
}

func (e *Emitter) AddWithCarry(a, b U32U64, carryIn U1) ResultAndCarryAndOverflow[U32U64] {
	result := e.inst(OpAddWithCarry, a.Value, b.Value, carryIn.Value)
	carry := e.inst(OpGetCarryFromOp, valueOf(result))
	overflow := e.inst(OpGetOverflowFromOp, valueOf(result))
	return ResultAndCarryAndOverflow[U32U64]{Result: asU32U64(result), Carry: asU1(carry), Overflow: asU1(overflow)}
}

func (e *Emitter) SubWithCarry(a, b U32U64, carryIn U1) ResultAndCarryAndOverflow[U32U64] {
	result := e.inst(OpSubWithCarry, a.Value, b.Value, carryIn.Value)
	carry := e.inst(OpGetCarryFromOp, valueOf(result))
	overflow := e.inst(OpGetOverflowFromOp, valueOf(result))
	return ResultAndCarryAndOverflow[U32U64]{Result: asU32U64(result), Carry: asU1(carry), Overflow: asU1(overflow)}
}

func (e *Emitter) Mul(a, b U32U64) U32U64 {
	return asU32U64(e.inst(OpMul, a.Value, b.Value))
}

func (e *Emitter) UnsignedMultiplyHigh(a, b U64) U64 {
	return asU64(e.inst(OpUnsignedMultiplyHigh, a.Value, b.Value))
}

func (e *Emitter) SignedMultiplyHigh(a, b U64) U64 {
	return asU64(e.inst(OpSignedMultiplyHigh, a.Value, b.Value))
}

func (e *Emitter) UnsignedDiv(a, b U32U64) U32U64 {
	return asU32U64(e.inst(OpUnsignedDiv, a.Value, b.Value))
}

func (e *Emitter) SignedDiv(a, b U32U64) U32U64 {
	return asU32U64(e.inst(OpSignedDiv, a.Value, b.Value))
}

// --- Logical ---------------------------------------------------------

func (e *Emitter) And(a, b U32U64) U32U64 { return asU32U64(e.inst(OpAnd, a.Value, b.Value)) }
func (e *Emitter) Eor(a, b U32U64) U32U64 { return asU32U64(e.inst(OpEor, a.Value, b.Value)) }
func (e *Emitter) Or(a, b U32U64) U32U64  { return asU32U64(e.inst(OpOr, a.Value, b.Value)) }
func (e *Emitter) Not(a U32U64) U32U64    { return asU32U64(e.inst(OpNot, a.Value)) }

// --- Extension ---------------------------------------------------------

func (e *Emitter) SignExtendByteToWord(a U8) U32  { return asU32(e.inst(OpSignExtendByteToWord, a.Value)) }
func (e *Emitter) SignExtendHalfToWord(a U16) U32 { return asU32(e.inst(OpSignExtendHalfToWord, a.Value)) }
func (e *Emitter) SignExtendWordToLong(a U32) U64 { return asU64(e.inst(OpSignExtendWordToLong, a.Value)) }
func (e *Emitter) ZeroExtendByteToWord(a U8) U32  { return asU32(e.inst(OpZeroExtendByteToWord, a.Value)) }
func (e *Emitter) ZeroExtendHalfToWord(a U16) U32 { return asU32(e.inst(OpZeroExtendHalfToWord, a.Value)) }
func (e *Emitter) ZeroExtendWordToLong(a U32) U64 { return asU64(e.inst(OpZeroExtendWordToLong, a.Value)) }
func (e *Emitter) ZeroExtendToQuad(a UAny) U128   { return asU128(e.inst(OpZeroExtendToQuad, a.Value)) }

// --- Byte-reverse --------------------------------------------------

func (e *Emitter) ByteReverseWord(a U32) U32 { return asU32(e.inst(OpByteReverseWord, a.Value)) }
func (e *Emitter) ByteReverseHalf(a U16) U16 { return asU16(e.inst(OpByteReverseHalf, a.Value)) }
func (e *Emitter) ByteReverseDual(a U64) U64 { return asU64(e.inst(OpByteReverseDual, a.Value)) }

// --- Count-leading-zeros ---------------------------------------------

func (e *Emitter) CountLeadingZeros32(a U32) U32 { return asU32(e.inst(OpCountLeadingZeros32, a.Value)) }
func (e *Emitter) CountLeadingZeros64(a U64) U64 { return asU64(e.inst(OpCountLeadingZeros64, a.Value)) }

// --- Bitfield extract ------------------------------------------------

func (e *Emitter) ExtractRegister32(a, b U32, lsb uint8) U32 {
	i := e.inst(OpExtractRegister32, a.Value, b.Value)
	i.bitCount = lsb
	return asU32(i)
}

func (e *Emitter) ExtractRegister64(a, b U64, lsb uint8) U64 {
	i := e.inst(OpExtractRegister64, a.Value, b.Value)
	i.bitCount = lsb
	return asU64(i)
}

// --- Saturation ------------------------------------------------------

func (e *Emitter) SignedSaturatedAdd(a, b U32) ResultAndOverflow[U32] {
	result := e.inst(OpSignedSaturatedAdd, a.Value, b.Value)
	overflow := e.inst(OpGetOverflowFromOp, valueOf(result))
	return ResultAndOverflow[U32]{Result: asU32(result), Overflow: asU1(overflow)}
}

func (e *Emitter) SignedSaturatedSub(a, b U32) ResultAndOverflow[U32] {
	result := e.inst(OpSignedSaturatedSub, a.Value, b.Value)
	overflow := e.inst(OpGetOverflowFromOp, valueOf(result))
	return ResultAndOverflow[U32]{Result: asU32(result), Overflow: asU1(overflow)}
}

func (e *Emitter) UnsignedSaturation(a U32, bitSize uint8) ResultAndOverflow[U32] {
	i := e.inst(OpUnsignedSaturation, a.Value)
	i.bitCount = bitSize
	overflow := e.inst(OpGetOverflowFromOp, valueOf(i))
	return ResultAndOverflow[U32]{Result: asU32(i), Overflow: asU1(overflow)}
}

func (e *Emitter) SignedSaturation(a U32, bitSize uint8) ResultAndOverflow[U32] {
	i := e.inst(OpSignedSaturation, a.Value)
	i.bitCount = bitSize
	overflow := e.inst(OpGetOverflowFromOp, valueOf(i))
	return ResultAndOverflow[U32]{Result: asU32(i), Overflow: asU1(overflow)}
}

// --- Packed (SIMD-within-GPR) arithmetic --------------------------------

func (e *Emitter) packedWithGE(op Opcode, a, b U32) ResultAndGE[U32] {
	result := e.inst(op, a.Value, b.Value)
	ge := e.inst(OpGetGEFromOp, valueOf(result))
	return ResultAndGE[U32]{Result: asU32(result), GE: asU32(ge)}
}

func (e *Emitter) PackedAddU8(a, b U32) ResultAndGE[U32] { return e.packedWithGE(OpPackedAddU8, a, b) }
func (e *Emitter) PackedAddS8(a, b U32) ResultAndGE[U32] { return e.packedWithGE(OpPackedAddS8, a, b) }
func (e *Emitter) PackedSubU8(a, b U32) ResultAndGE[U32] { return e.packedWithGE(OpPackedSubU8, a, b) }
func (e *Emitter) PackedSubS8(a, b U32) ResultAndGE[U32] { return e.packedWithGE(OpPackedSubS8, a, b) }
func (e *Emitter) PackedAddU16(a, b U32) ResultAndGE[U32] {
	return e.packedWithGE(OpPackedAddU16, a, b)
}
func (e *Emitter) PackedAddS16(a, b U32) ResultAndGE[U32] {
	return e.packedWithGE(OpPackedAddS16, a, b)
}
func (e *Emitter) PackedSubU16(a, b U32) ResultAndGE[U32] {
	return e.packedWithGE(OpPackedSubU16, a, b)
}
func (e *Emitter) PackedSubS16(a, b U32) ResultAndGE[U32] {
	return e.packedWithGE(OpPackedSubS16, a, b)
}

// --- 128-bit vector ops --------------------------------------------

func (e *Emitter) VectorAdd8(a, b U128) U128  { return asU128(e.inst(OpVectorAdd8, a.Value, b.Value)) }
func (e *Emitter) VectorAdd16(a, b U128) U128 { return asU128(e.inst(OpVectorAdd16, a.Value, b.Value)) }
func (e *Emitter) VectorAdd32(a, b U128) U128 { return asU128(e.inst(OpVectorAdd32, a.Value, b.Value)) }
func (e *Emitter) VectorAdd64(a, b U128) U128 { return asU128(e.inst(OpVectorAdd64, a.Value, b.Value)) }
func (e *Emitter) VectorAnd(a, b U128) U128   { return asU128(e.inst(OpVectorAnd, a.Value, b.Value)) }
func (e *Emitter) VectorOr(a, b U128) U128    { return asU128(e.inst(OpVectorOr, a.Value, b.Value)) }
func (e *Emitter) VectorEor(a, b U128) U128   { return asU128(e.inst(OpVectorEor, a.Value, b.Value)) }
func (e *Emitter) VectorNot(a U128) U128      { return asU128(e.inst(OpVectorNot, a.Value)) }

func (e *Emitter) VectorEqual8(a, b U128) U128  { return asU128(e.inst(OpVectorEqual8, a.Value, b.Value)) }
func (e *Emitter) VectorEqual16(a, b U128) U128 { return asU128(e.inst(OpVectorEqual16, a.Value, b.Value)) }
func (e *Emitter) VectorEqual32(a, b U128) U128 { return asU128(e.inst(OpVectorEqual32, a.Value, b.Value)) }
func (e *Emitter) VectorEqual64(a, b U128) U128 { return asU128(e.inst(OpVectorEqual64, a.Value, b.Value)) }

func (e *Emitter) VectorPairedAdd8(a, b U128) U128 {
	return asU128(e.inst(OpVectorPairedAdd8, a.Value, b.Value))
}
func (e *Emitter) VectorPairedAdd16(a, b U128) U128 {
	return asU128(e.inst(OpVectorPairedAdd16, a.Value, b.Value))
}
func (e *Emitter) VectorPairedAdd32(a, b U128) U128 {
	return asU128(e.inst(OpVectorPairedAdd32, a.Value, b.Value))
}

func (e *Emitter) VectorBroadcast8(a U8) U128   { return asU128(e.inst(OpVectorBroadcast8, a.Value)) }
func (e *Emitter) VectorBroadcast16(a U16) U128 { return asU128(e.inst(OpVectorBroadcast16, a.Value)) }
func (e *Emitter) VectorBroadcast32(a U32) U128 { return asU128(e.inst(OpVectorBroadcast32, a.Value)) }
func (e *Emitter) VectorBroadcast64(a U64) U128 { return asU128(e.inst(OpVectorBroadcast64, a.Value)) }

// --- Floating-point scalar ops -----------------------------------------

func (e *Emitter) fp(op Opcode, fpscrControlled bool, args ...Value) *Inst {
	i := e.inst(op, args...)
	i.fpscrControlled = fpscrControlled
	return i
}

func (e *Emitter) FPAbs32(a U32) U32 { return asU32(e.inst(OpFPAbs32, a.Value)) }
func (e *Emitter) FPAbs64(a U64) U64 { return asU64(e.inst(OpFPAbs64, a.Value)) }
func (e *Emitter) FPNeg32(a U32) U32 { return asU32(e.inst(OpFPNeg32, a.Value)) }
func (e *Emitter) FPNeg64(a U64) U64 { return asU64(e.inst(OpFPNeg64, a.Value)) }

func (e *Emitter) FPAdd32(a, b U32, fpscrControlled bool) U32 {
	return asU32(e.fp(OpFPAdd32, fpscrControlled, a.Value, b.Value))
}
func (e *Emitter) FPAdd64(a, b U64, fpscrControlled bool) U64 {
	return asU64(e.fp(OpFPAdd64, fpscrControlled, a.Value, b.Value))
}
func (e *Emitter) FPSub32(a, b U32, fpscrControlled bool) U32 {
	return asU32(e.fp(OpFPSub32, fpscrControlled, a.Value, b.Value))
}
func (e *Emitter) FPSub64(a, b U64, fpscrControlled bool) U64 {
	return asU64(e.fp(OpFPSub64, fpscrControlled, a.Value, b.Value))
}
func (e *Emitter) FPMul32(a, b U32, fpscrControlled bool) U32 {
	return asU32(e.fp(OpFPMul32, fpscrControlled, a.Value, b.Value))
}
func (e *Emitter) FPMul64(a, b U64, fpscrControlled bool) U64 {
	return asU64(e.fp(OpFPMul64, fpscrControlled, a.Value, b.Value))
}
func (e *Emitter) FPDiv32(a, b U32, fpscrControlled bool) U32 {
	return asU32(e.fp(OpFPDiv32, fpscrControlled, a.Value, b.Value))
}
func (e *Emitter) FPDiv64(a, b U64, fpscrControlled bool) U64 {
	return asU64(e.fp(OpFPDiv64, fpscrControlled, a.Value, b.Value))
}
func (e *Emitter) FPSqrt32(a U32) U32 { return asU32(e.inst(OpFPSqrt32, a.Value)) }
func (e *Emitter) FPSqrt64(a U64) U64 { return asU64(e.inst(OpFPSqrt64, a.Value)) }

// --- Guest memory access -------------------------------------------

func (e *Emitter) ReadMemory8(vaddr U64) U8   { return asU8(e.inst(OpReadMemory8, vaddr.Value)) }
func (e *Emitter) ReadMemory16(vaddr U64) U16 { return asU16(e.inst(OpReadMemory16, vaddr.Value)) }
func (e *Emitter) ReadMemory32(vaddr U64) U32 { return asU32(e.inst(OpReadMemory32, vaddr.Value)) }
func (e *Emitter) ReadMemory64(vaddr U64) U64 { return asU64(e.inst(OpReadMemory64, vaddr.Value)) }

func (e *Emitter) WriteMemory8(vaddr U64, v U8)   { e.inst(OpWriteMemory8, vaddr.Value, v.Value) }
func (e *Emitter) WriteMemory16(vaddr U64, v U16) { e.inst(OpWriteMemory16, vaddr.Value, v.Value) }
func (e *Emitter) WriteMemory32(vaddr U64, v U32) { e.inst(OpWriteMemory32, vaddr.Value, v.Value) }
func (e *Emitter) WriteMemory64(vaddr U64, v U64) { e.inst(OpWriteMemory64, vaddr.Value, v.Value) }

// --- Supervisor call, interpreter fallback, RSB, breakpoint -----------

func (e *Emitter) CallSupervisor(swi uint32) {
	i := e.inst(OpCallSupervisor)
	i.immU64 = uint64(swi)
}

// CallInterpreter lets the current block continue past one guest
// instruction the decoder couldn't match, instead of terminating the
// block outright (contrast with the Interpret terminal, which ends the
// block). MergeInterpretBlocks coalesces adjacent calls of this opcode
// into a single batched interpreter invocation.
func (e *Emitter) CallInterpreter(desc LocationDescriptor) {
	i := e.inst(OpCallInterpreter)
	i.immU64 = desc.Value()
}

// PushRSB records return_location as a predicted return target in the
// return-stack-buffer prediction cache.
func (e *Emitter) PushRSB(returnLocation LocationDescriptor) {
	i := e.inst(OpPushRSB)
	i.immU64 = returnLocation.Value()
}

func (e *Emitter) Breakpoint() {
	e.inst(OpBreakpoint)
}

// --- Terminal ----------------------------------------------------------

// SetTerm installs the block's terminal, per spec.md §4.3.
func (e *Emitter) SetTerm(t Terminal) {
	e.Block.SetTerminal(t)
}

package x64

import (
	"fmt"

	"github.com/pkg/errors"

	"armjit/ir"
)

// JitStateOffsets names the ABI-stable byte offsets of JitState fields
// (state.go, in the armjit root package) that emit routines need to
// address relative to the pinned RBP base. Kept as a small struct rather
// than importing the root package directly, so backend/x64 has no
// import-cycle dependency on armjit's facade.
type JitStateOffsets struct {
	Registers     int32 // base offset of the guest GPR array (8 bytes per slot)
	Flags         int32 // NZCV packed into one word
	PC            int32
	CyclesLeft    int32
	HaltRequested int32

	// Callbacks is the offset of a single pointer field holding the address
	// of this Jit instance's *CallbackBridge (callbacks.go), resolved once
	// by New and never moved afterwards.
	Callbacks int32
}

// CallbackTable names the process-wide entry addresses of the hand-written
// assembly trampolines (callbacks_amd64.s) a compiled block CALLs through
// for guest memory access (UserCallbacks.Memory, armjit/config.go), the SVC
// callback, and the interpreter fallback entry point. Unlike the table's
// previous incarnation as byte-offsets into a C-style function-pointer
// struct, every Jit instance shares the same CallbackTable (the
// trampolines' code never changes); what differs per instance is the
// *CallbackBridge of Go closures at JitState.Callbacks that each trampoline
// loads and calls through — see callbacks.go and DESIGN.md's "CallbackTable
// construction" entry.
type CallbackTable struct {
	ReadMemory8   uintptr
	ReadMemory16  uintptr
	ReadMemory32  uintptr
	ReadMemory64  uintptr
	WriteMemory8  uintptr
	WriteMemory16 uintptr
	WriteMemory32 uintptr
	WriteMemory64 uintptr
	Supervisor    uintptr
	Interpreter   uintptr
}

// EmitX64 lowers one optimized ir.Block into a self-contained x86-64
// function body: prologue (none needed; RBP arrives pre-pinned by the
// dispatcher's trampoline), one emit routine per live instruction
// dispatched off its opcode, and a terminal lowering at the end.
// Grounded on original_source's emit_x64.cpp EmitX64::EmitX64 top-level
// per-block loop.
type EmitX64 struct {
	Asm       *Assembler
	RegAlloc  *RegAlloc
	VecAlloc  *VecAlloc
	Offsets   JitStateOffsets
	Callbacks CallbackTable
	Patches   []Patch

	// StateReg is the pinned base pointer register holding &JitState for
	// this execution, per spec.md §4.8's ABI contract.
	StateReg Reg
}

// NewEmitX64 returns an emitter targeting stateReg as the pinned JitState
// base register (conventionally RBP; see dispatch/dispatcher.go).
func NewEmitX64(offsets JitStateOffsets, callbacks CallbackTable, stateReg Reg) *EmitX64 {
	return &EmitX64{
		Asm:       NewAssembler(),
		RegAlloc:  NewRegAlloc(),
		VecAlloc:  NewVecAlloc(),
		Offsets:   offsets,
		Callbacks: callbacks,
		StateReg:  stateReg,
	}
}

// Emit lowers block in full: every live instruction, then the terminal.
// Returns a plain error (with a stack trace, naming the opcode) if the
// block contains an opcode this backend has no emit routine for; it is
// not converted to the root package's UnimplementedOpcodeError. Blocks
// that only contain opcodes produced by frontend/* and ir/opt do not
// reach this path.
func (x *EmitX64) Emit(b *ir.Block) error {
	x.RegAlloc.Reset()
	x.VecAlloc.Reset()

	for _, inst := range b.Instructions() {
		fn, ok := emitTable[inst.Opcode()]
		if !ok {
			return errors.WithStack(fmt.Errorf("x64: no emit routine for opcode %s", inst.Opcode().Name()))
		}
		fn(x, inst)
		x.RegAlloc.EndOfAllocScope()
		x.VecAlloc.EndOfAllocScope()
	}

	x.emitCycleAccounting(b.CycleCount())

	if !b.HasTerminal() {
		return errors.WithStack(fmt.Errorf("x64: block at %#x has no terminal", b.StartLocation().PC()))
	}
	x.emitTerminal(b.Terminal())
	return nil
}

// emitCycleAccounting subtracts a compiled block's cycle cost from
// JitState.CyclesLeft before its terminal runs — the cooperative
// cycle-budget deduction of spec.md §4.7/§5. emitLinkBlock's checkCycles
// branch is what actually observes the result and decides whether to
// return to the dispatcher instead of falling through to the next block.
func (x *EmitX64) emitCycleAccounting(cycles uint64) {
	scratch := x.RegAlloc.ScratchRegister()
	x.Asm.LoadMem64(scratch, x.StateReg, x.Offsets.CyclesLeft)
	x.Asm.SubRegImm32(scratch, uint32(cycles))
	x.Asm.StoreMem64(x.StateReg, x.Offsets.CyclesLeft, scratch)
	x.RegAlloc.ReleaseScratch(scratch)
}

// emitFunc is one opcode's lowering routine.
type emitFunc func(x *EmitX64, inst *ir.Inst)

// emitTable is the manifest-driven opcode→routine dispatch spec.md §9
// asks for on the backend side, mirroring ir/opcode.go's declarative
// table and ir_opt's pass list: one place naming every opcode this
// backend can lower, instead of a growing if/else chain in Emit.
var emitTable map[ir.Opcode]emitFunc

func init() {
	emitTable = map[ir.Opcode]emitFunc{
		ir.OpImmU1:  emitImm,
		ir.OpImmU8:  emitImm,
		ir.OpImmU16: emitImm,
		ir.OpImmU32: emitImm,
		ir.OpImmU64: emitImm,

		ir.OpImmRegRef: emitNop,

		ir.OpGetRegister:         emitGetRegister,
		ir.OpSetRegister:        emitSetRegister,
		ir.OpGetExtendedRegister: emitGetExtendedRegister,
		ir.OpSetExtendedRegister: emitSetExtendedRegister,
		ir.OpGetFlag:             emitGetFlag,
		ir.OpSetFlag:             emitSetFlag,
		ir.OpGetPC:               emitGetPC,
		ir.OpSetPC:               emitSetPC,
		ir.OpGetCpsr:             emitGetCpsr,
		ir.OpSetCpsr:             emitSetCpsr,
		ir.OpGetFpscr:            emitGetFpscr,
		ir.OpSetFpscr:            emitSetFpscr,

		ir.OpAdd:          emitBinArith((*Assembler).AddRegReg),
		ir.OpSub:          emitBinArith((*Assembler).SubRegReg),
		ir.OpAnd:          emitBinArith((*Assembler).AndRegReg),
		ir.OpEor:          emitBinArith((*Assembler).XorRegReg),
		ir.OpOr:           emitBinArith((*Assembler).OrRegReg),
		ir.OpMul:          emitBinArith((*Assembler).MulRegReg),
		ir.OpNot:          emitUnaryArith((*Assembler).NotReg),
		ir.OpAddWithCarry: emitAddWithCarry,
		ir.OpSubWithCarry: emitSubWithCarry,

		ir.OpUnsignedMultiplyHigh: emitMulHigh(false),
		ir.OpSignedMultiplyHigh:   emitMulHigh(true),
		ir.OpUnsignedDiv:          emitDiv(false),
		ir.OpSignedDiv:            emitDiv(true),

		ir.OpLogicalShiftLeftRegister:      emitShiftRegister((*Assembler).ShlRegCL),
		ir.OpLogicalShiftRightRegister:     emitShiftRegister((*Assembler).ShrRegCL),
		ir.OpArithmeticShiftRightRegister:  emitShiftRegister((*Assembler).SarRegCL),
		ir.OpRotateRightRegister:           emitShiftRegister((*Assembler).RorRegCL),
		ir.OpLogicalShiftLeftImmediate:     emitShiftImmediate((*Assembler).ShlRegImm8),
		ir.OpLogicalShiftRightImmediate:    emitShiftImmediate((*Assembler).ShrRegImm8),
		ir.OpArithmeticShiftRightImmediate: emitShiftImmediate((*Assembler).SarRegImm8),
		ir.OpRotateRightExtended:           emitRotateRightExtended,

		ir.OpByteReverseWord: emitUnaryArith((*Assembler).BswapReg),
		ir.OpByteReverseDual: emitUnaryArith((*Assembler).BswapReg),
		ir.OpByteReverseHalf: emitByteReverseHalf,

		ir.OpCountLeadingZeros32: emitCountLeadingZeros,
		ir.OpCountLeadingZeros64: emitCountLeadingZeros,

		ir.OpExtractRegister32: emitExtractRegister,
		ir.OpExtractRegister64: emitExtractRegister,

		ir.OpSignExtendByteToWord: emitSignExtend((*Assembler).MovsxReg8),
		ir.OpSignExtendHalfToWord: emitSignExtend((*Assembler).MovsxReg16),
		ir.OpSignExtendWordToLong: emitSignExtend((*Assembler).MovsxdReg32),
		ir.OpZeroExtendByteToWord: emitZeroExtend((*Assembler).MovzxReg8),
		ir.OpZeroExtendHalfToWord: emitZeroExtend((*Assembler).MovzxReg16),
		ir.OpZeroExtendWordToLong: emitZeroExtendWordToLong,
		ir.OpZeroExtendToQuad:     emitZeroExtendToQuad,

		ir.OpGetCarryFromOp:    emitTagConsumer,
		ir.OpGetOverflowFromOp: emitTagConsumer,
		ir.OpGetGEFromOp:       emitTagConsumer,
		ir.OpNZCVFrom:          emitTagConsumer,

		ir.OpPack2x32To1x64:       emitPack2x32To1x64,
		ir.OpLeastSignificantWord: emitLeastSignificantWord,
		ir.OpMostSignificantWord:  emitMostSignificantWord,
		ir.OpLeastSignificantHalf: emitMaskLow((*Assembler).AndRegImm32, 0xFFFF),
		ir.OpLeastSignificantByte: emitMaskLow((*Assembler).AndRegImm32, 0xFF),
		ir.OpMostSignificantBit:   emitMostSignificantBit,
		ir.OpIsZero:               emitIsZero,
		ir.OpTestBit:              emitTestBit,

		ir.OpSignedSaturatedAdd: emitSignedSaturatedAddSub(true),
		ir.OpSignedSaturatedSub: emitSignedSaturatedAddSub(false),
		ir.OpUnsignedSaturation: emitUnsignedSaturation,
		ir.OpSignedSaturation:   emitSignedSaturation,

		ir.OpPackedAddU8:  emitPackedOp((*Assembler).AddRegReg),
		ir.OpPackedAddS8:  emitPackedOp((*Assembler).AddRegReg),
		ir.OpPackedSubU8:  emitPackedOp((*Assembler).SubRegReg),
		ir.OpPackedSubS8:  emitPackedOp((*Assembler).SubRegReg),
		ir.OpPackedAddU16: emitPackedOp((*Assembler).AddRegReg),
		ir.OpPackedAddS16: emitPackedOp((*Assembler).AddRegReg),
		ir.OpPackedSubU16: emitPackedOp((*Assembler).SubRegReg),
		ir.OpPackedSubS16: emitPackedOp((*Assembler).SubRegReg),

		ir.OpVectorAdd8:  emitVectorBin((*Assembler).PaddbRegReg),
		ir.OpVectorAdd16: emitVectorBin((*Assembler).PaddwRegReg),
		ir.OpVectorAdd32: emitVectorBin((*Assembler).PadddRegReg),
		ir.OpVectorAdd64: emitVectorBin((*Assembler).PaddqRegReg),
		ir.OpVectorAnd:   emitVectorBin((*Assembler).PandRegReg),
		ir.OpVectorOr:    emitVectorBin((*Assembler).PorRegReg),
		ir.OpVectorEor:   emitVectorBin((*Assembler).PxorRegReg),
		ir.OpVectorNot:   emitVectorNot,

		ir.OpVectorEqual8:  emitVectorBin((*Assembler).PcmpeqbRegReg),
		ir.OpVectorEqual16: emitVectorBin((*Assembler).PcmpeqwRegReg),
		ir.OpVectorEqual32: emitVectorBin((*Assembler).PcmpeqdRegReg),
		ir.OpVectorEqual64: emitVectorBin((*Assembler).PcmpeqqRegReg),

		ir.OpVectorPairedAdd16: emitVectorBin((*Assembler).PhaddwRegReg),
		ir.OpVectorPairedAdd32: emitVectorBin((*Assembler).PhaddRegReg),
		// OpVectorPairedAdd8 has no entry: x86 has no single instruction
		// that horizontally adds adjacent byte lanes the way PHADDW/PHADDD
		// do for words/dwords (PMADDUBSW comes close but requires one
		// operand to be a signed byte, which corrupts lanes above 127 for
		// the unsigned 8-bit guest semantics this opcode needs). See
		// DESIGN.md's opcode coverage entry.

		ir.OpVectorBroadcast8:  emitVectorBroadcast8,
		ir.OpVectorBroadcast16: emitVectorBroadcast16,
		ir.OpVectorBroadcast32: emitVectorBroadcast32,
		ir.OpVectorBroadcast64: emitVectorBroadcast64,

		ir.OpFPAbs32: emitFPAbs,
		ir.OpFPAbs64: emitFPAbs,
		ir.OpFPNeg32: emitFPNeg,
		ir.OpFPNeg64: emitFPNeg,
		ir.OpFPAdd32: emitFPBin((*Assembler).AddssRegReg),
		ir.OpFPAdd64: emitFPBin((*Assembler).AddsdRegReg),
		ir.OpFPSub32: emitFPBin((*Assembler).SubssRegReg),
		ir.OpFPSub64: emitFPBin((*Assembler).SubsdRegReg),
		ir.OpFPMul32: emitFPBin((*Assembler).MulssRegReg),
		ir.OpFPMul64: emitFPBin((*Assembler).MulsdRegReg),
		ir.OpFPDiv32: emitFPBin((*Assembler).DivssRegReg),
		ir.OpFPDiv64: emitFPBin((*Assembler).DivsdRegReg),
		ir.OpFPSqrt32: emitFPUnary((*Assembler).SqrtssRegReg),
		ir.OpFPSqrt64: emitFPUnary((*Assembler).SqrtsdRegReg),

		ir.OpReadMemory8:  emitReadMemory,
		ir.OpReadMemory16: emitReadMemory,
		ir.OpReadMemory32: emitReadMemory,
		ir.OpReadMemory64: emitReadMemory,

		ir.OpWriteMemory8:  emitWriteMemory,
		ir.OpWriteMemory16: emitWriteMemory,
		ir.OpWriteMemory32: emitWriteMemory,
		ir.OpWriteMemory64: emitWriteMemory,

		ir.OpCallSupervisor:  emitCallSupervisor,
		ir.OpCallInterpreter: emitCallInterpreter,
		ir.OpPushRSB:         emitPushRSB,
		ir.OpBreakpoint:      emitBreakpoint,
	}
}

func emitNop(x *EmitX64, inst *ir.Inst) {}

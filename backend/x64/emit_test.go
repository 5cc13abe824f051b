package x64

import (
	"testing"

	"golang.org/x/arch/x86/x86asm"

	"armjit/ir"
)

func testOffsets() JitStateOffsets {
	return JitStateOffsets{
		Registers:     0,
		Flags:         64,
		PC:            68,
		CyclesLeft:    76,
		HaltRequested: 84,
		Callbacks:     88,
	}
}

// TestEmitAddLowersToDecodeableCode builds a one-instruction block
// (two immediates added together, returned to the dispatcher) and checks
// that every byte EmitX64 produces decodes as a real x86-64 instruction —
// the same round-trip-through-an-independent-decoder technique asm_test.go
// uses for the raw encoder, now exercised through the full per-opcode
// dispatch table.
func TestEmitAddLowersToDecodeableCode(t *testing.T) {
	b := ir.NewBlock(ir.NewLocationDescriptor(0x4000, ir.ModeA64))
	e := ir.NewEmitter(b)
	lhs := e.Imm32(10)
	rhs := e.Imm32(20)
	e.Add(ir.U32U64{Value: lhs.Value}, ir.U32U64{Value: rhs.Value})
	e.SetTerm(ir.ReturnToDispatch{})

	x := NewEmitX64(testOffsets(), CallbackTable{}, RBP)
	if err := x.Emit(b); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	decodeAll(t, x.Asm.Bytes())
}

// TestEmitGetSetRegisterLowersToDecodeableCode exercises the JitState
// load/store emit routines.
func TestEmitGetSetRegisterLowersToDecodeableCode(t *testing.T) {
	b := ir.NewBlock(ir.NewLocationDescriptor(0x5000, ir.ModeA32))
	e := ir.NewEmitter(b)
	r0 := e.GetRegister(3)
	e.SetRegister(5, r0)
	e.SetTerm(ir.ReturnToDispatch{})

	x := NewEmitX64(testOffsets(), CallbackTable{}, RBP)
	if err := x.Emit(b); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	decodeAll(t, x.Asm.Bytes())
}

// TestEmitMissingTerminalErrors confirms Emit refuses a block with no
// terminal rather than silently emitting a dangling function body.
func TestEmitMissingTerminalErrors(t *testing.T) {
	b := ir.NewBlock(ir.NewLocationDescriptor(0x6000, ir.ModeA64))
	e := ir.NewEmitter(b)
	e.Imm32(1)

	x := NewEmitX64(testOffsets(), CallbackTable{}, RBP)
	if err := x.Emit(b); err == nil {
		t.Fatalf("expected error for block with no terminal")
	}
}

// TestEmitUnknownOpcodeErrors confirms a block containing an opcode this
// backend has no routine for surfaces as an error rather than panicking.
// VectorPairedAdd8 is the one opcode left deliberately unwired (DESIGN.md's
// opcode coverage entry), so it stands in for "unimplemented" here.
func TestEmitUnknownOpcodeErrors(t *testing.T) {
	b := ir.NewBlock(ir.NewLocationDescriptor(0x7000, ir.ModeA64))
	e := ir.NewEmitter(b)
	lane := e.ZeroExtendToQuad(ir.UAny{Value: e.Imm8(1).Value})
	e.VectorPairedAdd8(lane, lane)
	e.SetTerm(ir.ReturnToDispatch{})

	x := NewEmitX64(testOffsets(), CallbackTable{}, RBP)
	if err := x.Emit(b); err == nil {
		t.Fatalf("expected error for an unimplemented opcode")
	}
}

// decodeAll walks code and decodes it instruction-by-instruction,
// advancing by each instruction's reported length, failing the test on the
// first byte sequence that isn't a valid x86-64 encoding.
func decodeAll(t *testing.T, code []byte) {
	t.Helper()
	for off := 0; off < len(code); {
		inst, err := x86asm.Decode(code[off:], 64)
		if err != nil {
			t.Fatalf("invalid encoding at offset %d (% x): %v", off, code[off:], err)
		}
		if inst.Len == 0 {
			t.Fatalf("zero-length decode at offset %d", off)
		}
		off += inst.Len
	}
}

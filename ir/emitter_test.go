package ir

import "testing"

func TestEmitterAddWithCarryPairedResult(t *testing.T) {
	b := NewBlock(NewLocationDescriptor(0, ModeA32))
	e := NewEmitter(b)

	a := e.Imm32(0xFFFFFFFF)
	one := e.Imm32(1)
	carryIn := e.Imm1(false)

	rc := e.AddWithCarry(U32U64{a.Value}, U32U64{one.Value}, carryIn)

	if rc.Carry.Inst().Opcode() != OpGetCarryFromOp {
		t.Fatalf("expected carry consumer opcode GetCarryFromOp, got %s", rc.Carry.Inst().Opcode().Name())
	}
	if rc.Overflow.Inst().Opcode() != OpGetOverflowFromOp {
		t.Fatalf("expected overflow consumer opcode GetOverflowFromOp, got %s", rc.Overflow.Inst().Opcode().Name())
	}

	producer := rc.Result.Inst()
	if producer.FindUseWithOpcode(OpGetCarryFromOp) != rc.Carry.Inst() {
		t.Fatal("producer's use-list should resolve back to the carry consumer")
	}
	if producer.FindUseWithOpcode(OpGetOverflowFromOp) != rc.Overflow.Inst() {
		t.Fatal("producer's use-list should resolve back to the overflow consumer")
	}
}

func TestEmitterShiftRegisterVsImmediateAreDistinctOpcodes(t *testing.T) {
	b := NewBlock(NewLocationDescriptor(0, ModeA32))
	e := NewEmitter(b)

	value := e.Imm32(0x80000001)
	carryIn := e.Imm1(true)

	regForm := e.LogicalShiftLeftRegister(value, e.Imm8(0), carryIn)
	immForm := e.LogicalShiftLeftImmediate(value, 0)

	if regForm.Result.Inst().Opcode() != OpLogicalShiftLeftRegister {
		t.Fatal("register-amount form must use OpLogicalShiftLeftRegister")
	}
	if immForm.Result.Inst().Opcode() != OpLogicalShiftLeftImmediate {
		t.Fatal("immediate-amount form must use OpLogicalShiftLeftImmediate")
	}
}

func TestEmitterGetSetRegisterRoundTrip(t *testing.T) {
	b := NewBlock(NewLocationDescriptor(0, ModeA64))
	e := NewEmitter(b)

	v := e.Imm32(42)
	e.SetRegister(3, v)
	got := e.GetRegister(3)

	if got.Inst().Opcode() != OpGetRegister {
		t.Fatalf("expected GetRegister opcode, got %s", got.Inst().Opcode().Name())
	}
	if got.Inst().Arg(0).Inst().RegIndex() != 3 {
		t.Fatalf("expected register index 3 on the ImmRegRef operand, got %d", got.Inst().Arg(0).Inst().RegIndex())
	}
}

func TestEmitterCallSupervisorCarriesImmediate(t *testing.T) {
	b := NewBlock(NewLocationDescriptor(0, ModeA64))
	e := NewEmitter(b)
	e.CallSupervisor(0x42)

	insts := b.Instructions()
	last := insts[len(insts)-1]
	if last.Opcode() != OpCallSupervisor {
		t.Fatalf("expected last instruction to be CallSupervisor, got %s", last.Opcode().Name())
	}
	if last.ImmU64() != 0x42 {
		t.Fatalf("expected swi immediate 0x42, got %#x", last.ImmU64())
	}
	if !last.Opcode().SideEffect() {
		t.Fatal("CallSupervisor must be marked as a side effect (reordering barrier)")
	}
}

func TestEmitterSetTermInstallsTerminalOnce(t *testing.T) {
	b := NewBlock(NewLocationDescriptor(0, ModeA64))
	e := NewEmitter(b)
	e.SetTerm(ReturnToDispatch{})

	if !b.HasTerminal() {
		t.Fatal("expected block to have a terminal after SetTerm")
	}
	if _, ok := b.Terminal().(ReturnToDispatch); !ok {
		t.Fatalf("expected ReturnToDispatch terminal, got %T", b.Terminal())
	}
}

package opt

import (
	"testing"

	"armjit/ir"
)

func buildRedundantGetSetBlock() *ir.Block {
	b := ir.NewBlock(ir.NewLocationDescriptor(0x1000, ir.ModeA64))
	e := ir.NewEmitter(b)
	v := e.Imm32(7)
	e.SetRegister(0, v)
	got := e.GetRegister(0)
	e.SetRegister(1, got)
	e.SetTerm(ir.ReturnToDispatch{})
	return b
}

func TestGetSetEliminationRemovesRedundantGet(t *testing.T) {
	b := buildRedundantGetSetBlock()
	before := b.Len()

	changed := GetSetElimination(b)
	if !changed {
		t.Fatal("expected GetSetElimination to report a change")
	}

	found := false
	for _, inst := range b.Instructions() {
		if inst.Opcode() == ir.OpGetRegister {
			found = true
		}
	}
	if found {
		t.Fatal("expected the redundant GetRegister to be tombstoned")
	}
	if b.Len() != before-1 {
		t.Fatalf("expected exactly one fewer live instruction, had %d now have %d", before, b.Len())
	}
}

func TestGetSetEliminationIsIdempotent(t *testing.T) {
	b := buildRedundantGetSetBlock()
	GetSetElimination(b)
	if GetSetElimination(b) {
		t.Fatal("expected a second GetSetElimination pass to report no further changes")
	}
}

func TestConstantPropagationFoldsAdd(t *testing.T) {
	b := ir.NewBlock(ir.NewLocationDescriptor(0, ir.ModeA32))
	e := ir.NewEmitter(b)
	a := e.Imm32(2)
	c := e.Imm32(3)
	sum := e.Add(ir.U32U64{Value: a.Value}, ir.U32U64{Value: c.Value})
	e.SetRegister(0, sum.AsU32())
	e.SetTerm(ir.ReturnToDispatch{})

	if !ConstantPropagation(b) {
		t.Fatal("expected ConstantPropagation to fold the constant Add")
	}

	var found bool
	for _, inst := range b.Instructions() {
		if inst.Opcode() == ir.OpImmU32 && inst.ImmU64() == 5 {
			found = true
		}
		if inst.Opcode() == ir.OpAdd {
			t.Fatal("expected the Add instruction to be tombstoned after folding")
		}
	}
	if !found {
		t.Fatal("expected a folded ImmU32(5) to appear in the block")
	}
}

func TestConstantPropagationPreservesNoForwardReferences(t *testing.T) {
	b := ir.NewBlock(ir.NewLocationDescriptor(0, ir.ModeA32))
	e := ir.NewEmitter(b)
	a := e.Imm32(2)
	c := e.Imm32(3)
	sum := e.Add(ir.U32U64{Value: a.Value}, ir.U32U64{Value: c.Value})
	e.SetRegister(0, sum.AsU32())
	e.SetTerm(ir.ReturnToDispatch{})

	ConstantPropagation(b)

	if err := VerificationPass(b); err != nil {
		t.Fatalf("block failed verification after ConstantPropagation: %v", err)
	}
}

func TestMergeInterpretBlocksCoalescesRun(t *testing.T) {
	b := ir.NewBlock(ir.NewLocationDescriptor(0, ir.ModeA32))
	e := ir.NewEmitter(b)
	start := ir.NewLocationDescriptor(0x100, ir.ModeA32)
	e.CallInterpreter(start)
	e.CallInterpreter(start.AdvancePC(4))
	e.CallInterpreter(start.AdvancePC(8))
	e.SetTerm(ir.ReturnToDispatch{})

	if !MergeInterpretBlocks(b) {
		t.Fatal("expected MergeInterpretBlocks to report a change")
	}

	var calls []*ir.Inst
	for _, inst := range b.Instructions() {
		if inst.Opcode() == ir.OpCallInterpreter {
			calls = append(calls, inst)
		}
	}
	if len(calls) != 1 {
		t.Fatalf("expected exactly one surviving CallInterpreter, got %d", len(calls))
	}
	if calls[0].InterpreterRunLength() != 3 {
		t.Fatalf("expected run length 3, got %d", calls[0].InterpreterRunLength())
	}
}

func TestDeadCodeEliminationSparesSideEffects(t *testing.T) {
	b := ir.NewBlock(ir.NewLocationDescriptor(0, ir.ModeA32))
	e := ir.NewEmitter(b)
	vaddr := e.Imm64(0x2000)
	e.ReadMemory32(vaddr) // unused result, but side-effectful
	e.Imm32(99)           // unused, no side effect
	e.SetTerm(ir.ReturnToDispatch{})

	DeadCodeElimination(b)

	sawRead, sawDeadImm := false, false
	for _, inst := range b.Instructions() {
		if inst.Opcode() == ir.OpReadMemory32 {
			sawRead = true
		}
		if inst.Opcode() == ir.OpImmU32 && inst.ImmU64() == 99 {
			sawDeadImm = true
		}
	}
	if !sawRead {
		t.Fatal("ReadMemory32 must survive DeadCodeElimination despite having no uses")
	}
	if sawDeadImm {
		t.Fatal("the unused ImmU32(99) should have been removed")
	}
}

func TestVerificationPassCatchesMissingTerminal(t *testing.T) {
	b := ir.NewBlock(ir.NewLocationDescriptor(0, ir.ModeA32))
	if err := VerificationPass(b); err == nil {
		t.Fatal("expected VerificationPass to fail on a block with no terminal")
	}
}

package ir

import "testing"

func TestBlockNewInstWiresUses(t *testing.T) {
	b := NewBlock(NewLocationDescriptor(0x1000, ModeA64))
	e := NewEmitter(b)

	a := e.Imm32(5)
	b7 := e.Imm32(7)
	sum := e.Add(U32U64{a.Value}, U32U64{b7.Value})

	if len(a.Inst().Uses()) != 1 {
		t.Fatalf("expected ImmU32(5) to have exactly one use, got %d", len(a.Inst().Uses()))
	}
	if a.Inst().Uses()[0] != sum.Inst() {
		t.Fatalf("expected ImmU32(5)'s use to be the Add instruction")
	}
}

func TestBlockNilOperandPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected newInst to panic on a nil operand")
		}
	}()
	b := NewBlock(NewLocationDescriptor(0, ModeA32))
	b.newInst(OpAdd, Value{}, Value{})
}

func TestBlockSetTerminalTwicePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected SetTerminal to panic the second time")
		}
	}()
	b := NewBlock(NewLocationDescriptor(0, ModeA32))
	b.SetTerminal(ReturnToDispatch{})
	b.SetTerminal(ReturnToDispatch{})
}

func TestBlockTombstoneSkipsInstructions(t *testing.T) {
	b := NewBlock(NewLocationDescriptor(0, ModeA32))
	e := NewEmitter(b)
	a := e.Imm32(1)
	_ = e.Imm32(2)

	if b.Len() != 2 {
		t.Fatalf("expected 2 live instructions, got %d", b.Len())
	}
	b.Tombstone(a.Inst())
	if b.Len() != 1 {
		t.Fatalf("expected 1 live instruction after tombstoning, got %d", b.Len())
	}
	if len(b.RawInstructions()) != 2 {
		t.Fatalf("tombstoning should not shrink the raw arena, got %d", len(b.RawInstructions()))
	}

	b.CompactTombstones()
	if len(b.RawInstructions()) != 1 {
		t.Fatalf("expected CompactTombstones to drop the tombstoned instruction, got %d", len(b.RawInstructions()))
	}
}

func TestBlockNoForwardReferences(t *testing.T) {
	b := NewBlock(NewLocationDescriptor(0, ModeA32))
	e := NewEmitter(b)
	a := e.Imm32(1)
	sum := e.Add(U32U64{a.Value}, U32U64{a.Value})

	insts := b.Instructions()
	seen := map[*Inst]bool{}
	for _, inst := range insts {
		for _, arg := range inst.Args() {
			if arg.Inst() != nil && !seen[arg.Inst()] {
				t.Fatalf("instruction %s referenced an operand not yet seen in program order", inst.Opcode().Name())
			}
		}
		seen[inst] = true
	}
	if sum.Inst() == nil {
		t.Fatal("sum should not be empty")
	}
}

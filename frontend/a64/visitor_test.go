package a64

import (
	"testing"

	"armjit/ir"
)

// encMOVZ64 encodes MOVZ <Xd>, #imm16, LSL #(16*hw).
func encMOVZ64(rd uint8, imm16 uint16, hw uint8) uint32 {
	return 0xD2800000 | (uint32(hw&0x3) << 21) | (uint32(imm16) << 5) | uint32(rd&0x1F)
}

// encADD64 encodes ADD <Xd>, <Xn>, <Xm> (no shift).
func encADD64(rd, rn, rm uint8) uint32 {
	return 0x8B000000 | (uint32(rm&0x1F) << 16) | (uint32(rn&0x1F) << 5) | uint32(rd&0x1F)
}

func encRET(rn uint8) uint32 {
	return 0xD65F0000 | (uint32(rn&0x1F) << 5)
}

func encSVC(imm16 uint16) uint32 {
	return 0xD4000001 | (uint32(imm16) << 5)
}

func encLSLV(rd, rn, rm uint8) uint32 {
	return 0x1AC02000 | (uint32(rm&0x1F) << 16) | (uint32(rn&0x1F) << 5) | uint32(rd&0x1F)
}

// TestScenarioMovAddRet covers spec.md §8 scenario 1: MOV X0,#5; MOV
// X1,#7; ADD X2,X0,X1; RET.
func TestScenarioMovAddRet(t *testing.T) {
	program := []uint32{
		encMOVZ64(0, 5, 0),
		encMOVZ64(1, 7, 0),
		encADD64(2, 0, 1),
		encRET(30),
	}
	block := Translate(NewLocation(0x1000), romReader(program, 0x1000))

	var ops []ir.Opcode
	for _, inst := range block.Instructions() {
		ops = append(ops, inst.Opcode())
	}

	wantContains := []ir.Opcode{ir.OpImmU64, ir.OpSetExtendedRegister, ir.OpAdd, ir.OpSetPC}
	for _, want := range wantContains {
		if !containsOp(ops, want) {
			t.Fatalf("expected opcode %s to appear in lifted block, got %v", want.Name(), ops)
		}
	}

	term, ok := block.Terminal().(ir.ReturnToDispatch)
	if !ok {
		t.Fatalf("expected ReturnToDispatch terminal, got %T", block.Terminal())
	}
	_ = term
}

// TestScenarioLSLVShiftBy32 covers spec.md §8 scenario 2: LSLV
// W0,W1,W2 with W1=1, W2=32 shifts out entirely.
func TestScenarioLSLVShiftBy32(t *testing.T) {
	program := []uint32{encLSLV(0, 1, 2)}
	block := Translate(NewLocation(0x2000), romReader(program, 0x2000))

	var shift *ir.Inst
	for _, inst := range block.Instructions() {
		if inst.Opcode() == ir.OpLogicalShiftLeftRegister {
			shift = inst
		}
	}
	if shift == nil {
		t.Fatal("expected a LogicalShiftLeftRegister instruction")
	}
	if shift.FindUseWithOpcode(ir.OpGetCarryFromOp) == nil {
		t.Fatal("expected the shift's carry to be consumed (ResultAndCarry convention)")
	}
}

// TestScenarioSVCDoesNotPushRSB covers spec.md §8 scenario 5: SVC #0x42
// calls the supervisor callback exactly once, advances PC by 4, and does
// not push a return-stack-buffer entry (DESIGN.md Open Question 1).
func TestScenarioSVCDoesNotPushRSB(t *testing.T) {
	program := []uint32{encSVC(0x42)}
	block := Translate(NewLocation(0x3000), romReader(program, 0x3000))

	var svcCount int
	for _, inst := range block.Instructions() {
		switch inst.Opcode() {
		case ir.OpCallSupervisor:
			svcCount++
			if inst.ImmU64() != 0x42 {
				t.Fatalf("expected swi immediate 0x42, got %#x", inst.ImmU64())
			}
		case ir.OpPushRSB:
			t.Fatal("SVC must not push a return-stack-buffer entry")
		}
	}
	if svcCount != 1 {
		t.Fatalf("expected exactly one CallSupervisor, got %d", svcCount)
	}

	if block.EndLocation().PC() != 0x3004 {
		t.Fatalf("expected PC to advance by 4 to 0x3004, got %#x", block.EndLocation().PC())
	}

	outer, ok := block.Terminal().(ir.CheckHalt)
	if !ok {
		t.Fatalf("expected CheckHalt terminal, got %T", block.Terminal())
	}
	if _, ok := outer.Inner.(ir.PopRSBHint); !ok {
		t.Fatalf("expected CheckHalt to wrap PopRSBHint, got %T", outer.Inner)
	}
}

func romReader(words []uint32, base uint64) MemoryReader {
	return func(vaddr uint64) uint32 {
		idx := (vaddr - base) / 4
		if int(idx) >= len(words) {
			return encRET(30)
		}
		return words[idx]
	}
}

func containsOp(ops []ir.Opcode, want ir.Opcode) bool {
	for _, o := range ops {
		if o == want {
			return true
		}
	}
	return false
}

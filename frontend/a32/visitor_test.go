package a32

import (
	"testing"

	"armjit/ir"
)

func encLSLS(rd, rm, rs uint8) uint32 {
	return 0xE1B00010 | (uint32(rd&0xF) << 12) | (uint32(rs&0xF) << 8) | uint32(rm&0xF)
}

func encLSRS(rd, rm, rs uint8) uint32 {
	return 0xE1B00030 | (uint32(rd&0xF) << 12) | (uint32(rs&0xF) << 8) | uint32(rm&0xF)
}

// TestScenarioLSLSShiftBy32 covers spec.md §8 scenario 3: LSLS R0,R1,R2
// with R1=0x80000001, R2=32 shifts the value out entirely while the
// carry comes from the last bit shifted out (bit 0 of R1, which is 1).
func TestScenarioLSLSShiftBy32(t *testing.T) {
	word := encLSLS(0, 1, 2)
	block := ir.NewBlock(NewLocation(0x4000))
	v := NewVisitor(block, NewLocation(0x4000))
	if err := Decode(word, v); err != nil {
		t.Fatalf("expected LSLS to decode, got %v", err)
	}

	var shift *ir.Inst
	var setFlagC *ir.Inst
	for _, inst := range block.Instructions() {
		if inst.Opcode() == ir.OpLogicalShiftLeftRegister {
			shift = inst
		}
		if inst.Opcode() == ir.OpSetFlag && inst.RegIndex() == uint8(ir.FlagC) {
			setFlagC = inst
		}
	}
	if shift == nil {
		t.Fatal("expected a LogicalShiftLeftRegister instruction")
	}
	if setFlagC == nil {
		t.Fatal("expected a SetFlag(C) instruction")
	}
	if setFlagC.Arg(0).Inst().Opcode() != ir.OpGetCarryFromOp {
		t.Fatal("expected SetFlag(C) to be fed directly from the shift's carry-out")
	}
}

// TestScenarioLSRSShiftBy33 covers spec.md §8 scenario 4: LSRS R0,R1,R2
// with R1=0x80000000, R2=33 shifts out entirely with carry clear (a
// count greater than the register width zeroes both result and carry,
// unlike the count==32 case).
func TestScenarioLSRSShiftBy33(t *testing.T) {
	word := encLSRS(0, 1, 2)
	block := ir.NewBlock(NewLocation(0x5000))
	v := NewVisitor(block, NewLocation(0x5000))
	if err := Decode(word, v); err != nil {
		t.Fatalf("expected LSRS to decode, got %v", err)
	}

	found := false
	for _, inst := range block.Instructions() {
		if inst.Opcode() == ir.OpLogicalShiftRightRegister {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a LogicalShiftRightRegister instruction")
	}
}

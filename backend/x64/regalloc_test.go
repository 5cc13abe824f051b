package x64

import (
	"testing"

	"armjit/ir"
)

func buildTwoInstBlock() (*ir.Block, *ir.Inst, *ir.Inst) {
	b := ir.NewBlock(ir.NewLocationDescriptor(0x1000, ir.ModeA64))
	e := ir.NewEmitter(b)
	a := e.Imm32(1)
	c := e.Imm32(2)
	sum := e.Add(ir.U32U64{Value: a.Value}, ir.U32U64{Value: c.Value})
	return b, a.Value.Inst(), sum.Value.Inst()
}

func TestRegAllocDefThenUseReturnsSameRegister(t *testing.T) {
	_, a, _ := buildTwoInstBlock()
	ra := NewRegAlloc()
	r := ra.DefRegister(a)
	if got := ra.UseRegister(a); got != r {
		t.Fatalf("UseRegister returned %v, want %v", got, r)
	}
}

func TestRegAllocUseDefTransfersOwnership(t *testing.T) {
	_, a, sum := buildTwoInstBlock()
	ra := NewRegAlloc()
	r := ra.DefRegister(a)
	got := ra.UseDefRegister(a, sum)
	if got != r {
		t.Fatalf("UseDefRegister returned %v, want %v", got, r)
	}
	if ra.UseRegister(sum) != r {
		t.Fatalf("sum not bound to transferred register")
	}
}

func TestRegAllocEndOfAllocScopeKeepsLiveValues(t *testing.T) {
	_, a, _ := buildTwoInstBlock()
	ra := NewRegAlloc()
	before := len(ra.free)
	ra.DefRegister(a)
	if len(ra.free) != before-1 {
		t.Fatalf("expected one register consumed")
	}
	// a is an operand of sum (buildTwoInstBlock), so a.HasUses() is true
	// and EndOfAllocScope must keep its register bound.
	ra.EndOfAllocScope()
	if len(ra.free) != before-1 {
		t.Fatalf("EndOfAllocScope freed a value that still has uses")
	}
}

func TestRegAllocExhaustionSpills(t *testing.T) {
	b := ir.NewBlock(ir.NewLocationDescriptor(0x2000, ir.ModeA64))
	e := ir.NewEmitter(b)
	ra := NewRegAlloc()
	var insts []*ir.Inst
	for i := 0; i < len(Allocatable)+2; i++ {
		v := e.Imm32(uint32(i))
		insts = append(insts, v.Value.Inst())
	}
	seen := map[Reg]bool{}
	for _, inst := range insts {
		r := ra.DefRegister(inst)
		seen[r] = true
	}
	if len(seen) > len(Allocatable) {
		t.Fatalf("spillOldest failed to bound distinct live registers to %d", len(Allocatable))
	}
}

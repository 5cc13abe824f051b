package x64

import (
	"testing"

	"golang.org/x/arch/x86/x86asm"
)

// mustDecode runs the hand-encoder's output back through an independent
// x86-64 disassembler, the self-verification approach DESIGN.md records
// for this package: asm.go has no test oracle of its own, so every
// encoding is instead checked against golang.org/x/arch's decoder.
func mustDecode(t *testing.T, code []byte) x86asm.Inst {
	t.Helper()
	inst, err := x86asm.Decode(code, 64)
	if err != nil {
		t.Fatalf("x86asm.Decode(% x): %v", code, err)
	}
	return inst
}

func TestMovRegImm64Decodes(t *testing.T) {
	a := NewAssembler()
	a.MovRegImm64(RAX, 0x1122334455667788)
	inst := mustDecode(t, a.Bytes())
	if inst.Op != x86asm.MOV {
		t.Fatalf("got op %v, want MOV", inst.Op)
	}
}

func TestAddRegRegDecodes(t *testing.T) {
	a := NewAssembler()
	a.AddRegReg(RAX, R12)
	inst := mustDecode(t, a.Bytes())
	if inst.Op != x86asm.ADD {
		t.Fatalf("got op %v, want ADD", inst.Op)
	}
}

func TestShlRegCLDecodes(t *testing.T) {
	a := NewAssembler()
	a.ShlRegCL(RBX)
	inst := mustDecode(t, a.Bytes())
	if inst.Op != x86asm.SHL {
		t.Fatalf("got op %v, want SHL", inst.Op)
	}
}

func TestLoadMem64Decodes(t *testing.T) {
	a := NewAssembler()
	a.LoadMem64(RAX, RBP, 16)
	inst := mustDecode(t, a.Bytes())
	if inst.Op != x86asm.MOV {
		t.Fatalf("got op %v, want MOV", inst.Op)
	}
}

func TestLzcntRegRegDecodes(t *testing.T) {
	a := NewAssembler()
	a.LzcntRegReg(R8, R9)
	inst := mustDecode(t, a.Bytes())
	if inst.Op != x86asm.LZCNT {
		t.Fatalf("got op %v, want LZCNT", inst.Op)
	}
}

func TestJmpRel32PlaceholderPatchesToTarget(t *testing.T) {
	a := NewAssembler()
	disp := a.JmpRel32Placeholder()
	a.PatchU32At(disp, 0x10)
	inst := mustDecode(t, a.Bytes())
	if inst.Op != x86asm.JMP {
		t.Fatalf("got op %v, want JMP", inst.Op)
	}
}

func TestRetDecodes(t *testing.T) {
	a := NewAssembler()
	a.Ret()
	inst := mustDecode(t, a.Bytes())
	if inst.Op != x86asm.RET {
		t.Fatalf("got op %v, want RET", inst.Op)
	}
}

package thumb

import "testing"

func TestIs32BitFirstHalf(t *testing.T) {
	cases := []struct {
		half uint16
		want bool
	}{
		{0x4770, false},  // BX LR, a plain 16-bit Thumb instruction
		{0xF000, true},   // 0b11110 prefix: first half of a BL/BLX
		{0xE800, true},   // 0b11101 prefix
		{0xF800, true},   // 0b11111 prefix
		{0x2000, false},  // MOVS r0, #0
	}
	for _, c := range cases {
		if got := Is32BitFirstHalf(c.half); got != c.want {
			t.Errorf("Is32BitFirstHalf(%#04x) = %v, want %v", c.half, got, c.want)
		}
	}
}

func TestFetchInstructionWordTwoHalfwords(t *testing.T) {
	mem := map[uint64]uint16{
		0x1000: 0xF000,
		0x1002: 0xE8D0,
	}
	read := func(vaddr uint64) uint16 { return mem[vaddr] }

	word, size := FetchInstructionWord(0x1000, read)
	if size != InstructionSize32 {
		t.Fatalf("expected a 32-bit fetch, got size %d", size)
	}
	if word != 0xF000E8D0 {
		t.Fatalf("expected combined word 0xF000E8D0, got %#08x", word)
	}
}

func TestFetchInstructionWordOneHalfword(t *testing.T) {
	mem := map[uint64]uint16{0x2000: 0x4770}
	read := func(vaddr uint64) uint16 { return mem[vaddr] }

	word, size := FetchInstructionWord(0x2000, read)
	if size != InstructionSize16 {
		t.Fatalf("expected a 16-bit fetch, got size %d", size)
	}
	if word != 0x4770 {
		t.Fatalf("expected word 0x4770, got %#08x", word)
	}
}

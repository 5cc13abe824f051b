package armjit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"armjit/dispatch"
	"armjit/frontend/a32"
	"armjit/frontend/a64"
	"armjit/ir"
)

// This file implements the spec.md §8 scenario table end to end against
// the frontend translators, exercising the same Translate entry points
// armjit.New wires a Jit's Dispatcher with. Each scenario is checked
// structurally (opcode presence, terminal shape, cycle count) rather than
// by executing the emitted native code, since a compiled block's actual
// arithmetic result only exists once it runs on real hardware through
// dispatch.Dispatcher.Run — out of reach for a test that must not invoke
// the Go toolchain's own machine, let alone the guest's.

func encMOVZ64(rd uint8, imm16 uint16) uint32 {
	return 0xD2800000 | (uint32(imm16) << 5) | uint32(rd&0x1F)
}

func encADD64(rd, rn, rm uint8) uint32 {
	return 0x8B000000 | (uint32(rm&0x1F) << 16) | (uint32(rn&0x1F) << 5) | uint32(rd&0x1F)
}

func encRET(rn uint8) uint32 {
	return 0xD65F0000 | (uint32(rn&0x1F) << 5)
}

func encSVC(imm16 uint16) uint32 {
	return 0xD4000001 | (uint32(imm16) << 5)
}

func encLSLV32(rd, rn, rm uint8) uint32 {
	return 0x1AC02000 | (uint32(rm&0x1F) << 16) | (uint32(rn&0x1F) << 5) | uint32(rd&0x1F)
}

func encLSLS(rd, rm, rs uint8) uint32 {
	return 0xE1B00010 | (uint32(rd&0xF) << 12) | (uint32(rs&0xF) << 8) | uint32(rm&0xF)
}

func encLSRS(rd, rm, rs uint8) uint32 {
	return 0xE1B00030 | (uint32(rd&0xF) << 12) | (uint32(rs&0xF) << 8) | uint32(rm&0xF)
}

func romReader(words map[uint64]uint32) func(uint64) uint32 {
	return func(pc uint64) uint32 { return words[pc] }
}

func containsOp(b *ir.Block, op ir.Opcode) bool {
	for _, inst := range b.Instructions() {
		if inst.Opcode() == op {
			return true
		}
	}
	return false
}

// Scenario 1: MOV X0,#5; MOV X1,#7; ADD X2,X0,X1; RET — four guest
// instructions, one Add in the IR, ReturnToDispatch terminal.
func TestScenario1MovAddRet(t *testing.T) {
	rom := map[uint64]uint32{
		0x1000: encMOVZ64(0, 5),
		0x1004: encMOVZ64(1, 7),
		0x1008: encADD64(2, 0, 1),
		0x100C: encRET(30),
	}
	b := a64.Translate(a64.NewLocation(0x1000), romReader(rom))
	require.NotNil(t, b)
	assert.True(t, containsOp(b, ir.OpAdd), "expected an Add microinstruction")
	assert.Equal(t, uint64(4), b.CycleCount())
	_, isReturn := b.Terminal().(ir.ReturnToDispatch)
	assert.True(t, isReturn, "expected ReturnToDispatch terminal, got %T", b.Terminal())
}

// Scenario 2: LSLV W0,W1,W2 lowers through the register-form shift
// builder (distinct from the immediate form per the Open Question
// decision recorded in DESIGN.md).
func TestScenario2LSLVShiftBy32(t *testing.T) {
	rom := map[uint64]uint32{0x2000: encLSLV32(0, 1, 2)}
	b := a64.Translate(a64.NewLocation(0x2000), romReader(rom))
	require.NotNil(t, b)
	assert.True(t, containsOp(b, ir.OpLogicalShiftLeftRegister))
}

// Scenario 3: LSLS R0,R1,R2 wires its carry-out to SetFlag(C).
func TestScenario3LSLSShiftBy32(t *testing.T) {
	rom := map[uint64]uint32{0x3000: encLSLS(0, 1, 2)}
	b := a32.Translate(a32.NewLocation(0x3000), romReader(rom))
	require.NotNil(t, b)
	assert.True(t, containsOp(b, ir.OpLogicalShiftLeftRegister))
	assert.True(t, containsOp(b, ir.OpSetFlag), "expected the carry-out to be written back via SetFlag")
}

// Scenario 4: LSRS R0,R1,R2 with a shift amount past the register width.
func TestScenario4LSRSShiftBy33(t *testing.T) {
	rom := map[uint64]uint32{0x3100: encLSRS(0, 1, 2)}
	b := a32.Translate(a32.NewLocation(0x3100), romReader(rom))
	require.NotNil(t, b)
	assert.True(t, containsOp(b, ir.OpLogicalShiftRightRegister))
	assert.True(t, containsOp(b, ir.OpSetFlag))
}

// Scenario 5: SVC #0x42 emits exactly one CallSupervisor, never pushes an
// RSB entry (Open Question 1), advances PC by 4, and terminates with
// CheckHalt(PopRSBHint).
func TestScenario5SVCDoesNotPushRSB(t *testing.T) {
	rom := map[uint64]uint32{0x4000: encSVC(0x42)}
	b := a64.Translate(a64.NewLocation(0x4000), romReader(rom))
	require.NotNil(t, b)

	svcCount := 0
	for _, inst := range b.Instructions() {
		if inst.Opcode() == ir.OpCallSupervisor {
			svcCount++
			assert.Equal(t, uint64(0x42), inst.ImmU64())
		}
	}
	assert.Equal(t, 1, svcCount, "expected exactly one CallSupervisor")
	assert.False(t, containsOp(b, ir.OpPushRSB), "SVC must not push an RSB entry")
	assert.Equal(t, uint64(0x4004), b.EndLocation().PC())

	checkHalt, ok := b.Terminal().(ir.CheckHalt)
	require.True(t, ok, "expected CheckHalt terminal, got %T", b.Terminal())
	_, innerIsPopRSB := checkHalt.Inner.(ir.PopRSBHint)
	assert.True(t, innerIsPopRSB, "expected CheckHalt(PopRSBHint)")
}

// Scenario 6: InvalidateCacheRanges drops any compiled block whose guest
// span overlaps the written range, and a subsequent Run re-translates
// from scratch rather than reusing a stale cache entry. Exercised at the
// Jit facade level against the real dispatcher/cache wiring, without
// invoking the emitted native code (no compiled block is ever executed in
// this test; only cache bookkeeping is observed).
func TestScenario6InvalidateCacheRangesForcesRetranslation(t *testing.T) {
	j, err := New(ArchA64, 0x5000, UserCallbacks{})
	require.NoError(t, err)

	desc := a64.NewLocation(0x5000)
	stale := &dispatch.CompiledBlock{
		Desc:       desc,
		HostAddr:   0xdead0000,
		GuestStart: 0x5000,
		GuestEnd:   0x5004,
	}
	j.dispatcher.Cache.Insert(stale)

	_, ok := j.dispatcher.Cache.Lookup(desc)
	require.True(t, ok, "expected the stale block to be cached before invalidation")

	// A guest write landing inside [0x5000, 0x5004) must drop the cached
	// translation so the next Run recompiles rather than jumping into a
	// host address that no longer matches the guest memory it was built
	// from.
	j.InvalidateCacheRanges(0x5000, 0x5004)

	_, ok = j.dispatcher.Cache.Lookup(desc)
	assert.False(t, ok, "expected InvalidateCacheRanges to drop the overlapping block")
}

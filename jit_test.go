package armjit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffsetsAreDistinctAndEightByteAligned(t *testing.T) {
	off := Offsets()
	seen := map[int32]bool{}
	for _, o := range []int32{off.Registers, off.Flags, off.PC, off.CyclesLeft, off.HaltRequested, off.Callbacks} {
		assert.False(t, seen[o], "duplicate JitState offset %d", o)
		seen[o] = true
	}
	assert.Zero(t, off.Registers, "Registers is the first field")
	assert.Equal(t, off.PC%8, int32(0), "PC must be 8-byte aligned for LoadMem64/StoreMem64")
	assert.Equal(t, off.CyclesLeft%8, int32(0))
	assert.Equal(t, off.Callbacks%8, int32(0))
}

func TestNewConstructsA64Jit(t *testing.T) {
	j, err := New(ArchA64, 0x1000, UserCallbacks{})
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1000), j.PC())
	assert.Equal(t, ArchA64, j.Arch)
	assert.NotEqual(t, j.ID.String(), "")
}

func TestSetPCUpdatesState(t *testing.T) {
	j, err := New(ArchA32, 0, UserCallbacks{})
	require.NoError(t, err)
	j.SetPC(0x8000)
	assert.Equal(t, uint64(0x8000), j.PC())
}

func TestHaltExecutionSetsFlag(t *testing.T) {
	j, err := New(ArchA64, 0, UserCallbacks{})
	require.NoError(t, err)
	assert.False(t, j.haltRequested())
	j.HaltExecution()
	assert.True(t, j.haltRequested())
}

func TestClearCacheIsSafeOnFreshJit(t *testing.T) {
	j, err := New(ArchA64, 0, UserCallbacks{})
	require.NoError(t, err)
	assert.NotPanics(t, func() { j.ClearCache() })
}

func TestInvalidateCacheRangesIsSafeOnFreshJit(t *testing.T) {
	j, err := New(ArchA64, 0, UserCallbacks{})
	require.NoError(t, err)
	assert.NotPanics(t, func() { j.InvalidateCacheRanges(0x1000, 0x2000) })
}

func TestRegsReturnsLiveBackingArray(t *testing.T) {
	j, err := New(ArchA64, 0, UserCallbacks{})
	require.NoError(t, err)
	regs := j.Regs()
	regs[2] = 0xdeadbeef
	assert.Equal(t, uint64(0xdeadbeef), j.State.Registers[2])
}

// Package armjit is the library facade: Jit ties together frontend
// translation (frontend/a64, frontend/a32), IR optimization (ir/opt),
// native code generation (backend/x64), and the compiled-block cache and
// run loop (dispatch), behind the small Run/Step/HaltExecution surface
// spec.md §5/§6 describes. Grounded on vm/vm.go's VM struct as the
// closest teacher analogue to a single-core execution context, and on
// vm/devices.go's callback-shaped HardwareDevice for UserCallbacks
// (config.go).
package armjit

import (
	"unsafe"

	"armjit/backend/x64"
)

// NumGuestRegisters is the guest register file size both A32 (16 GPRs,
// padded for uniform addressing with A64) and A64 (31 GPRs + SP) share a
// single fixed-size array for, per spec.md §6's "One state layout, one ABI
// contract" note — ModeA32 code only ever touches the first 16 slots.
const NumGuestRegisters = 32

// JitState is the ABI-stable per-core execution context a compiled block
// reads and writes directly via RBP-relative addressing (backend/x64's
// JitStateOffsets). Field order matters: backend/x64.Offsets is derived
// from unsafe.Offsetof calls against this exact layout in NewJitState, so
// reordering fields here changes the generated offsets automatically
// rather than requiring two places to stay in sync by hand.
type JitState struct {
	Registers     [NumGuestRegisters]uint64
	Flags         uint32
	_             uint32 // pad Flags to PC's 8-byte alignment
	PC            uint64
	CyclesLeft    uint64
	HaltRequested uint32
	_             uint32

	// Callbacks points at this instance's *backend/x64.CallbackBridge
	// (jit.go's New builds it from UserCallbacks). Every compiled block's
	// memory-access/supervisor-call/interpreter-fallback opcode loads
	// this pointer into RDI and CALLs one of the ten process-wide
	// trampolines in backend/x64/callbacks_amd64.s, which forwards it
	// into the matching Go dispatch function; the trampolines' own entry
	// addresses live in backend/x64.CallbackTable, baked into each
	// EmitX64 at construction time rather than read from this field.
	Callbacks uintptr
}

// NewJitState returns a zeroed execution context with PC set to entry.
func NewJitState(entry uint64) *JitState {
	return &JitState{PC: entry}
}

// Offsets computes the backend/x64.JitStateOffsets this layout implies,
// via unsafe.Offsetof rather than hand-maintained constants, so the two
// packages can never silently drift apart.
func Offsets() x64.JitStateOffsets {
	var s JitState
	return x64.JitStateOffsets{
		Registers:     int32(unsafe.Offsetof(s.Registers)),
		Flags:         int32(unsafe.Offsetof(s.Flags)),
		PC:            int32(unsafe.Offsetof(s.PC)),
		CyclesLeft:    int32(unsafe.Offsetof(s.CyclesLeft)),
		HaltRequested: int32(unsafe.Offsetof(s.HaltRequested)),
		Callbacks:     int32(unsafe.Offsetof(s.Callbacks)),
	}
}

// Ptr returns the address a compiled block's RBP should be pinned to for
// the duration of one Dispatcher.Run call.
func (s *JitState) Ptr() uintptr { return uintptr(unsafe.Pointer(s)) }

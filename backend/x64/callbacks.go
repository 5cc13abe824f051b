package x64

import "reflect"

// CallbackBridge is the per-Jit-instance set of Go closures a compiled
// block's memory/SVC/interpreter opcodes ultimately run, reached through
// one of the ten process-wide trampolines callbacks_amd64.s defines.
// JitState.Callbacks holds a *CallbackBridge cast to uintptr (state.go);
// emit_call.go's emitTrampolineCall loads that pointer into RDI before
// CALLing a trampoline, matching dispatchRead8 etc.'s (*CallbackBridge,
// ...) signature below.
//
// Grounded on wazero's hostModuleFunction/callGoFunc split: a tiny
// hand-written assembly shim that only arranges arguments per a fixed
// ABI, calling back into ordinary Go for everything that actually needs
// the Go runtime (bounds checks, closures, GC-visible pointers).
type CallbackBridge struct {
	Read8  func(vaddr uint64) uint8
	Read16 func(vaddr uint64) uint16
	Read32 func(vaddr uint64) uint32
	Read64 func(vaddr uint64) uint64

	Write8  func(vaddr uint64, value uint8)
	Write16 func(vaddr uint64, value uint16)
	Write32 func(vaddr uint64, value uint32)
	Write64 func(vaddr uint64, value uint64)

	Supervisor func(swi uint32)

	// Interpreter steps runLength guest instructions starting at the
	// guest PC/mode/fpscr packed into descValue (ir.LocationDescriptor's
	// wire form, ir/location.go's Value()/LocationDescriptorFromValue).
	// Kept as a raw uint64 here rather than ir.LocationDescriptor itself
	// so backend/x64 has no import-cycle dependency on package ir's
	// location type; dispatchInterpreter unpacks it right back before
	// calling through.
	Interpreter func(descValue uint64, runLength uint8)
}

// dispatchRead8 is trampolineRead8's Go-side counterpart (callbacks_amd64.s):
// bridge arrives in the pointer trampolineRead8 loaded into its first
// argument slot, vaddr in its second. A nil Read8 (an embedder that never
// wired memory callbacks) returns 0 rather than panicking, matching
// jit.go's readInstructionWord nil-guard for the same surface.
func dispatchRead8(bridge *CallbackBridge, vaddr uint64) uint64 {
	if bridge == nil || bridge.Read8 == nil {
		return 0
	}
	return uint64(bridge.Read8(vaddr))
}

func dispatchRead16(bridge *CallbackBridge, vaddr uint64) uint64 {
	if bridge == nil || bridge.Read16 == nil {
		return 0
	}
	return uint64(bridge.Read16(vaddr))
}

func dispatchRead32(bridge *CallbackBridge, vaddr uint64) uint64 {
	if bridge == nil || bridge.Read32 == nil {
		return 0
	}
	return uint64(bridge.Read32(vaddr))
}

func dispatchRead64(bridge *CallbackBridge, vaddr uint64) uint64 {
	if bridge == nil || bridge.Read64 == nil {
		return 0
	}
	return bridge.Read64(vaddr)
}

func dispatchWrite8(bridge *CallbackBridge, vaddr, value uint64) {
	if bridge == nil || bridge.Write8 == nil {
		return
	}
	bridge.Write8(vaddr, uint8(value))
}

func dispatchWrite16(bridge *CallbackBridge, vaddr, value uint64) {
	if bridge == nil || bridge.Write16 == nil {
		return
	}
	bridge.Write16(vaddr, uint16(value))
}

func dispatchWrite32(bridge *CallbackBridge, vaddr, value uint64) {
	if bridge == nil || bridge.Write32 == nil {
		return
	}
	bridge.Write32(vaddr, uint32(value))
}

func dispatchWrite64(bridge *CallbackBridge, vaddr, value uint64) {
	if bridge == nil || bridge.Write64 == nil {
		return
	}
	bridge.Write64(vaddr, value)
}

func dispatchSupervisor(bridge *CallbackBridge, swi uint64) {
	if bridge == nil || bridge.Supervisor == nil {
		return
	}
	bridge.Supervisor(uint32(swi))
}

// dispatchInterpreter is trampolineInterpreter's Go-side counterpart. desc
// arrives as the raw packed uint64 emitCallInterpreter baked into the
// instruction stream as an immediate (ir.LocationDescriptor.Value());
// CallbackBridge.Interpreter takes the same raw form so this package never
// needs to import ir.LocationDescriptorFromValue's unpacking logic — the
// one caller that cares (jit.go, building the closure from a real
// ir.LocationDescriptor) does the unpacking on the way in.
func dispatchInterpreter(bridge *CallbackBridge, desc uint64, runLength uint64) {
	if bridge == nil || bridge.Interpreter == nil {
		return
	}
	bridge.Interpreter(desc, uint8(runLength))
}

// trampolineRead8 and its nine siblings are declared in
// callbacks_amd64.s; each is a NOSPLIT, zero-Go-argument function (so Go
// never tries to grow its stack or scan its frame for pointers) that
// forwards the two or three register arguments a compiled block already
// placed in RDI/RSI/RDX straight into the matching dispatchX call above.
func trampolineRead8()
func trampolineRead16()
func trampolineRead32()
func trampolineRead64()
func trampolineWrite8()
func trampolineWrite16()
func trampolineWrite32()
func trampolineWrite64()
func trampolineSupervisor()
func trampolineInterpreter()

// DefaultCallbackTable returns the CallbackTable every Jit instance wires
// into its dispatcher: the ten trampolines' resolved entry addresses,
// read once via reflect.ValueOf(fn).Pointer() the same way wazero resolves
// its assembly entry points, since Go gives no other portable way to turn
// a func value backed by hand-written assembly into a bare uintptr.
func DefaultCallbackTable() CallbackTable {
	return CallbackTable{
		ReadMemory8:   reflect.ValueOf(trampolineRead8).Pointer(),
		ReadMemory16:  reflect.ValueOf(trampolineRead16).Pointer(),
		ReadMemory32:  reflect.ValueOf(trampolineRead32).Pointer(),
		ReadMemory64:  reflect.ValueOf(trampolineRead64).Pointer(),
		WriteMemory8:  reflect.ValueOf(trampolineWrite8).Pointer(),
		WriteMemory16: reflect.ValueOf(trampolineWrite16).Pointer(),
		WriteMemory32: reflect.ValueOf(trampolineWrite32).Pointer(),
		WriteMemory64: reflect.ValueOf(trampolineWrite64).Pointer(),
		Supervisor:    reflect.ValueOf(trampolineSupervisor).Pointer(),
		Interpreter:   reflect.ValueOf(trampolineInterpreter).Pointer(),
	}
}

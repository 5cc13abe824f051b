package armjit

import "armjit/ir"

// MemoryCallbacks is the guest memory surface a compiled block calls out
// to for every ReadMemory*/WriteMemory* microinstruction, grounded on
// vm/devices.go's HardwareDevice (TrySend/GetInfo/Reset/Close) generalized
// from "send a command to a device" to "read/write a guest address",
// matching dynarmic's UserCallbacks::Memory surface per spec.md §6.
type MemoryCallbacks struct {
	Read8   func(vaddr uint64) uint8
	Read16  func(vaddr uint64) uint16
	Read32  func(vaddr uint64) uint32
	Read64  func(vaddr uint64) uint64
	Write8  func(vaddr uint64, value uint8)
	Write16 func(vaddr uint64, value uint16)
	Write32 func(vaddr uint64, value uint32)
	Write64 func(vaddr uint64, value uint64)

	// IsReadOnlyMemory reports whether vaddr falls in a page the embedder
	// guarantees will never be written to for the lifetime of a compiled
	// block (mapped code or rodata), per spec.md §6. Jit.optimize uses
	// this, together with the Read* callbacks above, to build the
	// ir/opt.ConstantMemoryReader that feeds ConstantMemoryReads. Nil
	// disables the optimization entirely rather than being treated as
	// "nothing is read-only", since an embedder that hasn't implemented
	// this yet should get the conservative behavior, not silently wrong
	// folding if a future embedder mistakenly leaves it nil while meaning
	// "everything is read-only".
	IsReadOnlyMemory func(vaddr uint64) bool
}

// CoprocessorHandle is an opaque per-coprocessor callback bundle for the
// A32 CDP/MCR/MRC/LDC/STC instruction family (coprocessors 0-15);
// A64 has no coprocessor concept, so this is only ever populated for an
// A32 Jit. Left as an opaque handle rather than a full interface because
// spec.md §6's Non-goals exclude modeling specific coprocessor semantics —
// only the callback seam itself is in scope.
type CoprocessorHandle struct {
	Name string
}

// UserCallbacks is the full embedder-supplied surface a Jit instance binds
// to at construction time, grounded on vm/devices.go's device-registration
// pattern and generalized to dynarmic's UserCallbacks contract.
type UserCallbacks struct {
	Memory MemoryCallbacks

	// InterpreterFallback steps exactly runLength guest instructions
	// starting at desc using an external interpreter, for decode misses
	// the frontend folds into ir.OpCallInterpreter.
	InterpreterFallback func(desc ir.LocationDescriptor, runLength uint8)

	// CallSVC handles a guest supervisor call with the given immediate.
	CallSVC func(swi uint32)

	// AddTicks/GetTicksRemaining implement the cooperative cycle-budget
	// contract LinkBlock's runtime check and CheckHalt's translator-level
	// insertion both rely on.
	AddTicks         func(ticks uint64)
	GetTicksRemaining func() uint64

	// PageTable, if non-nil, lets the backend skip the MemoryCallbacks
	// indirection for guest addresses whose host-backing page is already
	// known, the same "direct page table" fast path dynarmic's
	// UserCallbacks offers as an alternative to a always-call-back memory
	// model. Left unused by the reference backend/x64 emit routines
	// (emit_call.go always calls through MemoryCallbacks) — wiring it in
	// is future backend work, noted here as an Open Question resolution:
	// ir/opt's ConstantMemoryReads pass is where a page-table-aware
	// backend would fold a load entirely away at compile time instead.
	PageTable []byte

	// Coprocessors holds the 16 possible A32 coprocessor handles; always
	// nil/unused for an A64 Jit.
	Coprocessors [16]*CoprocessorHandle
}

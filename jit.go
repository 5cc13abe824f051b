package armjit

import (
	"unsafe"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"armjit/backend/x64"
	"armjit/dispatch"
	"armjit/frontend/a32"
	"armjit/frontend/a64"
	"armjit/ir"
	"armjit/ir/opt"
)

// Arch selects which guest instruction set a Jit translates.
type Arch uint8

const (
	ArchA64 Arch = iota
	ArchA32
)

const defaultCodeBufferSize = 16 << 20 // 16 MiB, generous for a reference implementation

// Jit is one execution context: a guest register/flag state, a compiled-
// block cache and run loop, and the embedder callbacks memory/SVC/
// interpreter operations call out to. Grounded on vm/vm.go's VM struct
// (one struct per running program) generalized to dynarmic's Jit facade
// per spec.md §5's Run/Step/HaltExecution/ClearCache/
// InvalidateCacheRanges surface.
type Jit struct {
	ID         uuid.UUID
	Arch       Arch
	State      *JitState
	Callbacks  UserCallbacks
	dispatcher *dispatch.Dispatcher
	code       *x64.CodeBuffer
	log        *logrus.Logger

	// bridge is the CallbackBridge State.Callbacks points at, as a raw
	// uintptr compiled code can load and CALL through. Held here too, as
	// an ordinary Go pointer, purely so the garbage collector sees a live
	// reference to it — State.Callbacks being a uintptr (not
	// unsafe.Pointer, since JitState's layout must stay a flat value type
	// backend/x64 addresses with plain integer offsets) is invisible to
	// the GC on its own.
	bridge *x64.CallbackBridge
}

// New constructs a Jit for arch, wiring callbacks through to a freshly
// allocated executable code buffer and an empty block cache. Instance IDs
// use github.com/google/uuid so multiple concurrently running Jit
// instances (e.g. a multi-core guest) are distinguishable in logs.
func New(arch Arch, entry uint64, callbacks UserCallbacks) (*Jit, error) {
	code, err := x64.NewCodeBuffer(defaultCodeBufferSize)
	if err != nil {
		return nil, errors.Wrap(err, "armjit: allocating code buffer")
	}

	j := &Jit{
		ID:        uuid.New(),
		Arch:      arch,
		State:     NewJitState(entry),
		Callbacks: callbacks,
		code:      code,
		log:       logrus.StandardLogger(),
	}

	j.bridge = j.newCallbackBridge()
	j.State.Callbacks = uintptr(unsafe.Pointer(j.bridge))

	var translator dispatch.Translator
	switch arch {
	case ArchA32:
		translator = func(desc ir.LocationDescriptor) *ir.Block {
			return a32.Translate(desc, j.readInstructionWord)
		}
	default:
		translator = func(desc ir.LocationDescriptor) *ir.Block {
			return a64.Translate(desc, j.readInstructionWord)
		}
	}

	j.dispatcher = dispatch.NewDispatcher(code, Offsets(), x64.DefaultCallbackTable(), translator, j.optimize)
	j.log.WithFields(logrus.Fields{"jit_id": j.ID, "arch": arch, "entry": entry}).Debug("armjit: instance created")
	return j, nil
}

// newCallbackBridge adapts this Jit's UserCallbacks (config.go's embedder-
// facing surface, typed in terms of ir.LocationDescriptor and sized guest
// integers) into a backend/x64.CallbackBridge (typed in terms of the raw
// uint64 forms compiled code and the assembly trampolines actually pass
// around), so backend/x64 never needs to import package ir.
func (j *Jit) newCallbackBridge() *x64.CallbackBridge {
	bridge := &x64.CallbackBridge{
		Supervisor: j.Callbacks.CallSVC,
	}
	if j.Callbacks.Memory.Read8 != nil {
		bridge.Read8 = j.Callbacks.Memory.Read8
	}
	if j.Callbacks.Memory.Read16 != nil {
		bridge.Read16 = j.Callbacks.Memory.Read16
	}
	if j.Callbacks.Memory.Read32 != nil {
		bridge.Read32 = j.Callbacks.Memory.Read32
	}
	if j.Callbacks.Memory.Read64 != nil {
		bridge.Read64 = j.Callbacks.Memory.Read64
	}
	if j.Callbacks.Memory.Write8 != nil {
		bridge.Write8 = j.Callbacks.Memory.Write8
	}
	if j.Callbacks.Memory.Write16 != nil {
		bridge.Write16 = j.Callbacks.Memory.Write16
	}
	if j.Callbacks.Memory.Write32 != nil {
		bridge.Write32 = j.Callbacks.Memory.Write32
	}
	if j.Callbacks.Memory.Write64 != nil {
		bridge.Write64 = j.Callbacks.Memory.Write64
	}
	if j.Callbacks.InterpreterFallback != nil {
		fallback := j.Callbacks.InterpreterFallback
		bridge.Interpreter = func(descValue uint64, runLength uint8) {
			fallback(ir.LocationDescriptorFromValue(descValue), runLength)
		}
	}
	return bridge
}

// readInstructionWord is the MemoryReader every frontend translator uses
// to fetch guest code words, routed through the same UserCallbacks.Memory
// surface as a guest data read — the teacher's single-address-space model
// (vm/vm.go has no separate instruction/data memory) carries over
// unchanged here.
func (j *Jit) readInstructionWord(vaddr uint64) uint32 {
	if j.Callbacks.Memory.Read32 == nil {
		return 0
	}
	return j.Callbacks.Memory.Read32(vaddr)
}

// optimize runs every ir/opt pass to a fixed point, per spec.md §4.5's
// "run until no pass reports a change" note, then runs VerificationPass
// and turns a failure into a panic the dispatcher's recoverFault already
// knows how to turn back into an error.
func (j *Jit) optimize(b *ir.Block) {
	reader := j.constantMemoryReader()
	for {
		changed := false
		changed = opt.GetSetElimination(b) || changed
		changed = opt.ConstantPropagation(b) || changed
		changed = opt.ConstantMemoryReads(b, reader) || changed
		changed = opt.MergeInterpretBlocks(b) || changed
		changed = opt.DeadCodeElimination(b) || changed
		if !changed {
			break
		}
	}
	if err := opt.VerificationPass(b); err != nil {
		panic(&VerificationFailureError{PC: b.StartLocation().PC(), Reason: err.Error()})
	}
}

// constantMemoryReader builds an ir/opt.ConstantMemoryReader out of
// UserCallbacks.Memory.IsReadOnlyMemory plus the matching-width Read
// callback, or nil if either is missing — ConstantMemoryReads treats a nil
// reader as "pass disabled" (ir/opt/constmem.go).
func (j *Jit) constantMemoryReader() opt.ConstantMemoryReader {
	mem := j.Callbacks.Memory
	if mem.IsReadOnlyMemory == nil {
		return nil
	}
	return func(vaddr uint64, width int) (uint64, bool) {
		if !mem.IsReadOnlyMemory(vaddr) {
			return 0, false
		}
		switch width {
		case 8:
			if mem.Read8 == nil {
				return 0, false
			}
			return uint64(mem.Read8(vaddr)), true
		case 16:
			if mem.Read16 == nil {
				return 0, false
			}
			return uint64(mem.Read16(vaddr)), true
		case 32:
			if mem.Read32 == nil {
				return 0, false
			}
			return uint64(mem.Read32(vaddr)), true
		case 64:
			if mem.Read64 == nil {
				return 0, false
			}
			return mem.Read64(vaddr), true
		default:
			return 0, false
		}
	}
}

// Run executes guest code starting at the current PC until a terminal
// hands control back to the dispatcher, compiling the block on a cache
// miss. Callers that want a full "run until halted" loop should use
// RunUntilHalt.
func (j *Jit) Run() error {
	desc := ir.NewLocationDescriptor(j.State.PC, j.mode())
	return j.dispatcher.Run(desc, j.State.Ptr())
}

// Step executes exactly one compiled block, identical to Run for this
// reference backend (each compiled block already corresponds to one
// translation unit ending at a terminal); kept as a distinct method name
// to match spec.md §5's Step/Run split, since an embedder single-stepping
// for a debugger cares about the semantic distinction even where the
// underlying mechanics coincide.
func (j *Jit) Step() error {
	return j.Run()
}

// RunUntilHalt calls Run repeatedly until HaltRequested is observed or an
// error occurs, the loop vm/run.go's RunProgram drives around
// execNextInstruction generalized to "around Dispatcher.Run".
func (j *Jit) RunUntilHalt() error {
	for !j.haltRequested() {
		if err := j.Run(); err != nil {
			return err
		}
	}
	return nil
}

func (j *Jit) haltRequested() bool {
	return j.State.HaltRequested != 0
}

// HaltExecution cooperatively requests that execution stop at the next
// CheckHalt terminal the translator inserted, per spec.md §5. Safe to call
// from any goroutine; JitState.HaltRequested is a single aligned uint32
// compiled code reads with a plain load, not a compare-and-swap, matching
// the "eventually observed, not immediately" cooperative contract.
func (j *Jit) HaltExecution() {
	j.State.HaltRequested = 1
}

// ClearCache drops every compiled block, forcing recompilation of any
// block touched again after this call.
func (j *Jit) ClearCache() {
	j.dispatcher.ClearCache()
}

// InvalidateCacheRanges drops cached blocks whose guest address span
// overlaps [start, end), for an embedder that just wrote to guest memory
// that might contain (or have contained) translated code.
func (j *Jit) InvalidateCacheRanges(start, end uint64) {
	j.dispatcher.InvalidateCacheRanges(start, end)
}

// Regs returns the guest general-purpose register file.
func (j *Jit) Regs() *[NumGuestRegisters]uint64 { return &j.State.Registers }

// PC returns the current guest program counter.
func (j *Jit) PC() uint64 { return j.State.PC }

// SetPC overwrites the current guest program counter, used by an embedder
// setting up the initial entry point or redirecting execution after a
// fault.
func (j *Jit) SetPC(pc uint64) { j.State.PC = pc }

// Flags returns the packed NZCV flag word.
func (j *Jit) Flags() uint32 { return j.State.Flags }

func (j *Jit) mode() ir.ExecutionMode {
	if j.Arch == ArchA32 {
		return ir.ModeA32
	}
	return ir.ModeA64
}

// StatePtr returns the raw JitState address, used by cmd/armjitctl's
// diagnostic dump command alongside the instance UUID.
func (j *Jit) StatePtr() uintptr { return uintptr(unsafe.Pointer(j.State)) }

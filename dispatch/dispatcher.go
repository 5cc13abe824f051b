package dispatch

import (
	"runtime/debug"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"armjit/backend/x64"
	"armjit/ir"
)

// Translator lifts one guest basic block starting at desc into IR, the
// frontend-specific half of compilation (frontend/a64.Translate or
// frontend/a32.Translate) that Dispatcher is deliberately kept ignorant
// of, so this package has no import-cycle dependency on frontend/*.
type Translator func(desc ir.LocationDescriptor) *ir.Block

// Optimizer runs every ir/opt pass to a fixed point over a freshly
// translated block before it is handed to the backend.
type Optimizer func(b *ir.Block)

// Dispatcher owns the compiled-block cache, the executable-memory region
// blocks are emitted into, and the run loop that looks up (or compiles)
// and jumps into the block for a guest location — grounded on vm/exec.go's
// execNextInstruction/run-loop shape and vm/run.go's
// getDefaultRecoverFuncForVM, generalized from "interpret the next
// bytecode instruction" to "look up or JIT-compile the next guest block".
type Dispatcher struct {
	Cache     *BlockCache
	Code      *x64.CodeBuffer
	Offsets   x64.JitStateOffsets
	Callbacks x64.CallbackTable
	Translate Translator
	Optimize  Optimizer
	Log       *logrus.Logger
}

// NewDispatcher wires a Dispatcher around an already-allocated code
// buffer and a fresh cache.
func NewDispatcher(code *x64.CodeBuffer, offsets x64.JitStateOffsets, callbacks x64.CallbackTable, translate Translator, optimize Optimizer) *Dispatcher {
	return &Dispatcher{
		Cache:     NewBlockCache(),
		Code:      code,
		Offsets:   offsets,
		Callbacks: callbacks,
		Translate: translate,
		Optimize:  optimize,
		Log:       logrus.StandardLogger(),
	}
}

// compile translates, optimizes, and lowers the block at desc, copies the
// result into the code buffer, and records it in the cache. Grounded on
// vm/compile.go's translate-then-install pipeline shape (parse once,
// install into the VM's instruction slice), generalized to "translate once,
// install into the native code buffer".
func (d *Dispatcher) compile(desc ir.LocationDescriptor) (block *CompiledBlock, err error) {
	irBlock := d.Translate(desc)
	if irBlock == nil {
		return nil, errors.Errorf("dispatch: translator returned nil block for %#x", desc.PC())
	}
	d.Optimize(irBlock)

	emitter := x64.NewEmitX64(d.Offsets, d.Callbacks, x64.RBP)
	if err := emitter.Emit(irBlock); err != nil {
		return nil, errors.Wrapf(err, "dispatch: emitting block at %#x", desc.PC())
	}

	hostAddr, err := d.Code.Write(emitter.Asm.Bytes())
	if err != nil {
		return nil, errors.Wrapf(err, "dispatch: installing block at %#x", desc.PC())
	}
	if err := d.Code.Protect(); err != nil {
		return nil, errors.Wrap(err, "dispatch: re-protecting code buffer")
	}

	compiled := &CompiledBlock{
		Desc:       desc,
		HostAddr:   hostAddr,
		Len:        emitter.Asm.Len(),
		GuestStart: desc.PC(),
		GuestEnd:   irBlock.EndLocation().PC(),
		Patches:    emitter.Patches,
	}
	d.Cache.Insert(compiled)
	return compiled, nil
}

// blockEntry is the calling convention every compiled block honors: one
// argument, the pinned JitState base pointer, passed in RDI per the
// System V AMD64 ABI (the same register Go's own ABI0 calling convention
// would use for a single uintptr argument function), no return value
// beyond what it has already written back into JitState before its
// terminal executes a RET.
type blockEntry func(statePtr uintptr)

// callCompiled reinterprets a raw host code address as a Go function
// value and calls it. This is the standard unsafe trick every
// hand-rolled Go JIT relies on in the absence of a portable "call this
// address with this calling convention" standard library primitive: the
// function pointer conversion is valid only because blockEntry's
// signature exactly matches what the x86-64 backend emits (one integer
// argument, no return value, standard System V prologue-free entry).
func callCompiled(addr uintptr, statePtr uintptr) {
	fn := *(*blockEntry)(unsafe.Pointer(&addr))
	fn(statePtr)
}

// Run executes compiled code starting at desc, compiling it first if the
// cache misses, and returns when the guest program either halts
// cooperatively (JitState.HaltRequested observed by a CheckHalt terminal)
// or a ReturnToDispatch/Interpret terminal hands control back here.
// Exactly one block runs per Run call; Jit.RunUntilHalt (armjit/jit.go)
// loops this until HaltExecution is observed, matching vm/run.go's RunProgram driving
// vm/exec.go's execNextInstruction in a loop.
func (d *Dispatcher) Run(desc ir.LocationDescriptor, statePtr uintptr) (err error) {
	defer d.recoverFault(desc, &err)

	block, ok := d.Cache.Lookup(desc)
	if !ok {
		block, err = d.compile(desc)
		if err != nil {
			return err
		}
	}
	callCompiled(block.HostAddr, statePtr)
	return nil
}

// recoverFault turns a panic during translation or execution of a
// compiled block into a returned error instead of crashing the host
// process, grounded directly on vm/run.go's getDefaultRecoverFuncForVM
// (which prints the offending instruction and its error code rather than
// letting the panic propagate out of RunProgram).
func (d *Dispatcher) recoverFault(desc ir.LocationDescriptor, errOut *error) {
	if r := recover(); r != nil {
		d.Log.WithFields(logrus.Fields{
			"pc":    desc.PC(),
			"stack": string(debug.Stack()),
		}).Error("dispatch: recovered fault running compiled block")
		*errOut = errors.Errorf("dispatch: fault at %#x: %v", desc.PC(), r)
	}
}

// InvalidateCacheRanges forwards to the cache, used by armjit.Jit when the
// embedder reports a guest memory write that may have clobbered
// previously translated code.
func (d *Dispatcher) InvalidateCacheRanges(start, end uint64) {
	d.Cache.InvalidateCacheRanges(start, end)
}

// ClearCache forwards to the cache.
func (d *Dispatcher) ClearCache() {
	d.Cache.ClearCache()
}

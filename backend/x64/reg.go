// Package x64 lowers an optimized ir.Block into x86-64 machine code:
// register allocation (regalloc.go), instruction encoding (asm.go),
// per-opcode emit routines (emit.go/emit_arith.go/emit_terminal.go), and
// the patch-site/executable-memory plumbing the dispatcher needs to link
// compiled blocks together (patch.go, codebuffer.go). Grounded on
// original_source's src/backend_x64/emit_x64.cpp for the manifest-driven
// per-opcode dispatch shape, and on
// other_examples' launix-de-memcp scm-jit amd64 emitter for the Go
// hand-encoding idiom (raw byte slices, REX/ModRM helpers as methods on
// a writer type) — see DESIGN.md for why no third-party x86 assembler is
// wired in here.
package x64

// Reg is a host general-purpose register, numbered the same way the
// x86-64 REX.B/ModRM.rm extension bit expects (0-7 = legacy registers,
// 8-15 = R8-R15 requiring a REX prefix).
type Reg uint8

const (
	RAX Reg = iota
	RCX
	RDX
	RBX
	RSP
	RBP
	RSI
	RDI
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15
)

func (r Reg) String() string {
	names := [...]string{"rax", "rcx", "rdx", "rbx", "rsp", "rbp", "rsi", "rdi",
		"r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15"}
	if int(r) < len(names) {
		return names[r]
	}
	return "r?"
}

// needsREXBit reports whether encoding this register requires a REX
// extension bit (R8-R15). Whether an instruction needs REX.W for a 64-bit
// operation is decided separately by each caller, which passes the W bit
// to rex itself.
func (r Reg) needsREXBit() bool { return r >= R8 }

// lowBits returns the 3-bit field encoding used in ModRM/SIB/opcode
// bytes; the 4th bit (R8-R15) is carried in the REX prefix instead.
func (r Reg) lowBits() byte { return byte(r) & 0x7 }

// CallerSaved is the subset of GPRs the System V AMD64 ABI lets a callee
// clobber without saving, matching the ABI the x86-64 backend targets
// for any call out to Go callback trampolines (ReadMemory/WriteMemory/
// CallSupervisor/CallInterpreter).
var CallerSaved = []Reg{RAX, RCX, RDX, RSI, RDI, R8, R9, R10, R11}

// GPRCount is the number of x86-64 general-purpose registers. The
// allocator hands out only the 13 listed in Allocatable.
const GPRCount = 16

// Allocatable excludes RSP (stack pointer), RBP (pinned to the JitState
// base pointer, per state.go's ABI-stable-offset design), and R14. R14
// holds the goroutine pointer (g) under Go's internal ABI; compiled
// block code never touches it directly, but every ReadMemory/
// WriteMemory/CallSupervisor/CallInterpreter op ends in a CALL into the
// callback bridge's Go dispatch functions (callbacks.go), which rely on
// R14 still pointing at a valid g to run normally (morestack checks,
// write barriers, GC bookkeeping). Handing R14 to the allocator would
// let an ordinary SSA value clobber it first.
var Allocatable = []Reg{RAX, RCX, RDX, RBX, RSI, RDI, R8, R9, R10, R11, R12, R13, R15}

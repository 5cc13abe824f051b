package x64

import (
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// CodeBuffer is an mmap'd, page-aligned, executable region that compiled
// blocks get copied into. Grounded on the teacher's vm package having no
// JIT memory management of its own (it interprets bytecode directly), this
// is instead built the way a Go JIT normally does: unix.Mmap with
// PROT_READ|PROT_WRITE to populate, then unix.Mprotect down to
// PROT_READ|PROT_EXEC once the bytes are final, following the W^X
// discipline real JIT runtimes use to avoid writable+executable pages.
type CodeBuffer struct {
	mem    []byte
	cursor int
}

// NewCodeBuffer reserves size bytes (rounded up by the kernel to a whole
// number of pages) of anonymous, initially read-write memory.
func NewCodeBuffer(size int) (*CodeBuffer, error) {
	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, errors.Wrap(err, "x64: mmap code buffer")
	}
	return &CodeBuffer{mem: mem}, nil
}

// Remaining is the number of bytes left in the buffer; once a block does
// not fit, Write returns an "exhausted" error. Nothing replaces a full
// buffer.
func (c *CodeBuffer) Remaining() int { return len(c.mem) - c.cursor }

// Write copies code into the buffer at the current cursor, returning the
// host address the copy begins at and advancing the cursor past it. Write
// reopens the buffer read-write before copying, so it may follow an
// earlier Protect; the caller must call Protect again before executing any
// block, since the buffer is writable (and not executable) when Write
// returns.
func (c *CodeBuffer) Write(code []byte) (addr uintptr, err error) {
	if len(code) > c.Remaining() {
		return 0, errors.Errorf("x64: code buffer exhausted (%d bytes requested, %d remaining)", len(code), c.Remaining())
	}
	if err := unix.Mprotect(c.mem, unix.PROT_READ|unix.PROT_WRITE); err != nil {
		return 0, errors.Wrap(err, "x64: mprotect code buffer writable")
	}
	addr = uintptr(unsafe.Pointer(&c.mem[c.cursor]))
	copy(c.mem[c.cursor:], code)
	c.cursor += len(code)
	return addr, nil
}

// Protect flips the buffer from read-write to read-execute. Called once
// before the dispatcher jumps into any address Write returned, and again
// bracketing any later patch (patch.go) that needs to briefly reopen the
// page for writing (PatchLive) and then reseal it.
func (c *CodeBuffer) Protect() error {
	if err := unix.Mprotect(c.mem, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		return errors.Wrap(err, "x64: mprotect code buffer exec")
	}
	return nil
}

// PatchLive temporarily reopens the buffer for writing, runs fn (expected
// to call Assembler.PatchU32At-style overwrites against the slice it's
// given), then reseals it executable again — used by the dispatcher to
// relink an already-compiled block's dangling jump once its target
// compiles (spec.md §4.5's block-linking requirement).
func (c *CodeBuffer) PatchLive(offset int, fn func(region []byte)) error {
	if err := unix.Mprotect(c.mem, unix.PROT_READ|unix.PROT_WRITE); err != nil {
		return errors.Wrap(err, "x64: mprotect code buffer writable")
	}
	fn(c.mem[offset:])
	return c.Protect()
}

// Close unmaps the buffer, invalidating every address Write ever returned
// from it.
func (c *CodeBuffer) Close() error {
	return unix.Munmap(c.mem)
}

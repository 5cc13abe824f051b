package armjit

import (
	"fmt"

	"armjit/ir"
)

// UnimplementedOpcodeError reports that backend/x64 had no lowering
// routine for an opcode a translated block contained — a translator/
// backend mismatch bug, never a guest-triggerable condition, matching
// spec.md §7's "these are debug-fatal, not part of the runtime contract"
// framing. Nothing in this module constructs it: EmitX64.Emit reports a
// missing lowering routine as a plain error.
type UnimplementedOpcodeError struct {
	Opcode string
	PC     uint64
}

func (e *UnimplementedOpcodeError) Error() string {
	return fmt.Sprintf("armjit: opcode %s unimplemented by backend (block at %#x)", e.Opcode, e.PC)
}

// VerificationFailureError reports that ir/opt.VerificationPass rejected a
// block after optimization — also debug-fatal, since it means an
// optimization pass left the IR in a state its own invariants forbid.
type VerificationFailureError struct {
	PC     uint64
	Reason string
}

func (e *VerificationFailureError) Error() string {
	return fmt.Sprintf("armjit: verification failed for block at %#x: %s", e.PC, e.Reason)
}

// DecodeMissError describes an instruction word at PC that no decoder
// entry matches. Nothing in this module constructs it: the a32 and a64
// translators turn every decode miss into a CallInterpreter instruction.
type DecodeMissError struct {
	Word uint32
	PC   uint64
}

func (e *DecodeMissError) Error() string {
	return fmt.Sprintf("armjit: no decoder match for word %#08x at %#x", e.Word, e.PC)
}

// CacheMissOnLinkError reports that a LinkBlock/LinkBlockFast terminal's
// patch site targeted a location that was never compiled and the
// dispatcher's relinking pass had to fall back to a dispatcher return —
// not an error condition in the Go sense (execution proceeds correctly),
// but surfaced through the same observability path as the other kinds here
// for diagnostics and metrics, per spec.md §5.
type CacheMissOnLinkError struct {
	From ir.LocationDescriptor
	To   ir.LocationDescriptor
}

func (e *CacheMissOnLinkError) Error() string {
	return fmt.Sprintf("armjit: block at %#x linked to uncompiled target %#x", e.From.PC(), e.To.PC())
}

// CallbackObservableError describes a panic in an embedder-supplied
// UserCallbacks function. Nothing in this module constructs it:
// dispatch.Dispatcher.recoverFault turns any recovered panic, from a
// callback or not, into a plain "dispatch: fault at" error.
type CallbackObservableError struct {
	Callback string
	Cause    any
}

func (e *CallbackObservableError) Error() string {
	return fmt.Sprintf("armjit: panic in %s callback: %v", e.Callback, e.Cause)
}

package ir

// ExecutionMode distinguishes the guest decoding/semantics regime a
// LocationDescriptor was compiled under. Two otherwise-identical PCs that
// differ in mode must not share a compiled block, because the instruction
// stream at that address means something different in each mode.
type ExecutionMode uint8

const (
	ModeA32 ExecutionMode = iota
	ModeThumb
	ModeA64
)

// LocationDescriptor is the opaque 64-bit identity of a guest execution
// point, ported from original_source's location_descriptor.h. It packs the
// guest program counter together with the architectural bits that affect
// decoding or emission: execution mode, and (for A32/Thumb) the FPSCR
// rounding/saturation bits insofar as they change which host code gets
// emitted. Two descriptors compare equal iff blocks compiled at either
// would be byte-equivalent (spec.md §3).
//
// Go structs are natively comparable and hashable as map keys, so unlike
// the C++ original this type needs no explicit std::hash/std::less
// specialization (see SPEC_FULL.md §3) — it implements Less itself only
// because the dispatcher also needs an *ordered* key for range
// invalidation, which a bare map key wouldn't give it.
type LocationDescriptor struct {
	pc       uint64
	mode     ExecutionMode
	fpscr    uint32 // saturation/rounding bits that affect emission
	reserved uint8
}

// NewLocationDescriptor builds a descriptor for pc under mode, with no
// FPSCR-derived emission bits set.
func NewLocationDescriptor(pc uint64, mode ExecutionMode) LocationDescriptor {
	return LocationDescriptor{pc: pc, mode: mode}
}

// WithFPSCR returns a copy of d with its emission-relevant FPSCR bits set to
// bits. Only the rounding mode and saturation flags that change codegen
// belong here; the rest of FPSCR lives in JitState and is not part of the
// cache key.
func (d LocationDescriptor) WithFPSCR(bits uint32) LocationDescriptor {
	d.fpscr = bits
	return d
}

// PC returns the guest program counter component.
func (d LocationDescriptor) PC() uint64 { return d.pc }

// Mode returns the execution mode component.
func (d LocationDescriptor) Mode() ExecutionMode { return d.mode }

// FPSCR returns the emission-relevant FPSCR bits component.
func (d LocationDescriptor) FPSCR() uint32 { return d.fpscr }

// AdvancePC returns a copy of d with its PC advanced by n bytes, used by
// the translator after lifting each guest instruction.
func (d LocationDescriptor) AdvancePC(n uint64) LocationDescriptor {
	d.pc += n
	return d
}

// Equal reports whether two descriptors identify the same compiled block.
func (d LocationDescriptor) Equal(o LocationDescriptor) bool {
	return d == o
}

// Less provides the ordered comparison the dispatcher's guest-address
// range index needs; it orders primarily by PC so that range queries over
// contiguous guest addresses are efficient regardless of mode/fpscr.
func (d LocationDescriptor) Less(o LocationDescriptor) bool {
	if d.pc != o.pc {
		return d.pc < o.pc
	}
	if d.mode != o.mode {
		return d.mode < o.mode
	}
	return d.fpscr < o.fpscr
}

// Value packs the descriptor into the opaque uint64 identity spec.md §3
// describes. PC is truncated to 53 bits to leave room for mode and a
// folded FPSCR fingerprint; this is a display/hashing convenience only,
// the struct form above is what the rest of the package operates on.
func (d LocationDescriptor) Value() uint64 {
	foldedFPSCR := uint64(d.fpscr&0x7) << 53
	modeBits := uint64(d.mode) << 56
	return (d.pc & ((1 << 53) - 1)) | foldedFPSCR | modeBits
}

// LocationDescriptorFromValue is the inverse of Value, used anywhere a
// descriptor crosses a boundary that only has room for a raw uint64 (the
// CallInterpreter/PushRSB instruction's immU64 payload, and the
// compiled-code-to-Go callback bridge in backend/x64). It recovers exactly
// what Value encoded — PC truncated to 53 bits and FPSCR folded to its
// emission-relevant 3 bits — which is already the full fidelity
// LocationDescriptor's own Value() promises; nothing is lost crossing this
// boundary that wasn't already folded away by Value itself.
func LocationDescriptorFromValue(v uint64) LocationDescriptor {
	return LocationDescriptor{
		pc:    v & ((1 << 53) - 1),
		mode:  ExecutionMode((v >> 56) & 0xFF),
		fpscr: uint32((v >> 53) & 0x7),
	}
}

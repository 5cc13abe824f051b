package x64

import "armjit/ir"

// PatchKind names what a Patch site still needs once the dispatcher knows
// the host address of the target block.
type PatchKind uint8

const (
	// PatchKindDirectJump is an unconditional near jump (JmpRel32Placeholder)
	// left pointing at a LinkBlock/LinkBlockFast target, to be overwritten
	// with a real displacement once that block is compiled and cached
	// (dispatch/cache.go), or re-pointed at the dispatcher trampoline if it
	// never compiles.
	PatchKindDirectJump PatchKind = iota

	// PatchKindConditionalJump names a JccRel32Placeholder site. No emit
	// routine records this kind: If, CheckBit and CheckHalt resolve their
	// conditional jumps inline within the block.
	PatchKindConditionalJump
)

// Patch records one not-yet-resolved branch displacement left in the
// encoded instruction stream, grounded on original_source's Patch struct
// (src/backend_x64/block_of_code.cpp) that the dispatcher walks after
// compiling a block to relink any earlier block's dangling jump to it.
type Patch struct {
	Kind   PatchKind
	Offset int // byte offset of the 4-byte displacement field in Asm.Bytes()
	Target ir.LocationDescriptor
}

// recordPatch appends a Patch for a placeholder displacement already
// emitted at offset, targeting desc. The dispatcher resolves these by
// looking desc up in the block cache and calling Asm.PatchU32At (or, if the
// target isn't compiled yet, by pointing the displacement at a shared
// "return to dispatch and retry" trampoline).
func (x *EmitX64) recordPatch(kind PatchKind, offset int, target ir.LocationDescriptor) {
	x.Patches = append(x.Patches, Patch{Kind: kind, Offset: offset, Target: target})
}

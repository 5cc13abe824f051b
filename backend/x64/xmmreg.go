package x64

import "armjit/ir"

// XReg is a host XMM register, used only for the U128/FP opcode family
// (VectorAdd/VectorAnd/.../FPAdd/.../FPSqrt). None of these opcodes have a
// Get/SetRegister-style accessor in ir/opcode.go — there is no persistent
// guest vector register file in JitState — so every U128 value an emit
// routine touches is produced and consumed entirely within one compiled
// block's instruction stream, and an XMM binding never needs to survive a
// block boundary. That is what lets VecAlloc below be far simpler than
// RegAlloc: no spill path, because a well-formed block's vector register
// pressure is bounded by the small number of SIMD temporaries one guest
// instruction's translation introduces at a time.
type XReg uint8

const (
	XMM0 XReg = iota
	XMM1
	XMM2
	XMM3
	XMM4
	XMM5
	XMM6
	XMM7
	XMM8
	XMM9
	XMM10
	XMM11
	XMM12
	XMM13
	XMM14
	XMM15
)

func (r XReg) needsREXBit() bool { return r >= XMM8 }
func (r XReg) lowBits() byte     { return byte(r) & 0x7 }

// VecAllocCount is the number of XMM registers VecAlloc hands out.
const VecAllocCount = 16

// VecAlloc assigns XMM registers to U128-typed SSA values, the vector/FP
// counterpart to RegAlloc. Grounded on the same emit_x64.cpp
// Def/Use/EndOfAllocScope call pattern as RegAlloc, scoped down to a plain
// bump-and-release pool since vector values never outlive the block that
// produced them (see the XReg doc comment above).
type VecAlloc struct {
	free    []XReg
	valueOf map[*ir.Inst]XReg
	ownerOf map[XReg]*ir.Inst
}

// NewVecAlloc returns an allocator with every XMM register free.
func NewVecAlloc() *VecAlloc {
	va := &VecAlloc{valueOf: map[*ir.Inst]XReg{}, ownerOf: map[XReg]*ir.Inst{}}
	va.Reset()
	return va
}

// Reset frees every XMM register and forgets every value binding.
func (va *VecAlloc) Reset() {
	va.free = []XReg{XMM0, XMM1, XMM2, XMM3, XMM4, XMM5, XMM6, XMM7, XMM8, XMM9, XMM10, XMM11, XMM12, XMM13, XMM14, XMM15}
	for k := range va.valueOf {
		delete(va.valueOf, k)
	}
	for k := range va.ownerOf {
		delete(va.ownerOf, k)
	}
}

func (va *VecAlloc) takeFree() XReg {
	if len(va.free) == 0 {
		panic("x64: VecAlloc exhausted — a block held more than 16 live vector temporaries at once")
	}
	r := va.free[len(va.free)-1]
	va.free = va.free[:len(va.free)-1]
	return r
}

// DefRegister allocates a fresh XMM register to hold value's result.
func (va *VecAlloc) DefRegister(value *ir.Inst) XReg {
	if r, ok := va.valueOf[value]; ok {
		return r
	}
	r := va.takeFree()
	va.valueOf[value] = r
	va.ownerOf[r] = value
	return r
}

// UseRegister returns the XMM register already holding value's result.
func (va *VecAlloc) UseRegister(value *ir.Inst) XReg {
	if r, ok := va.valueOf[value]; ok {
		return r
	}
	panic("x64: VecAlloc.UseRegister on a value with no live binding")
}

// UseDefRegister returns the XMM register holding use's current value,
// which def will overwrite in place.
func (va *VecAlloc) UseDefRegister(use, def *ir.Inst) XReg {
	r := va.UseRegister(use)
	delete(va.valueOf, use)
	delete(va.ownerOf, r)
	va.valueOf[def] = r
	va.ownerOf[r] = def
	return r
}

// ScratchRegister allocates an XMM register not bound to any IR value.
func (va *VecAlloc) ScratchRegister() XReg { return va.takeFree() }

// ReleaseScratch returns a register obtained from ScratchRegister to the
// free pool immediately.
func (va *VecAlloc) ReleaseScratch(r XReg) { va.free = append(va.free, r) }

// EndOfAllocScope releases every XMM register bound to a value with no
// remaining uses, called once after each instruction is fully encoded.
func (va *VecAlloc) EndOfAllocScope() {
	for inst, r := range va.ownerOf {
		if inst.IsTombstoned() || !inst.HasUses() {
			delete(va.ownerOf, r)
			delete(va.valueOf, inst)
			va.free = append(va.free, r)
		}
	}
}

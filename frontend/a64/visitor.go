package a64

import "armjit/ir"

// Visitor lifts one decoded A64 instruction into the block under
// construction. Each method corresponds to one instruction class matched
// by the decode table in decoder.go; this mirrors original_source's
// A64::TranslatorVisitor class, one C++ method per instruction replaced
// by one Go method per instruction here.
type Visitor struct {
	Emit *ir.Emitter
	Desc ir.LocationDescriptor
}

// NewVisitor returns a Visitor appending to block, whose current location
// is desc.
func NewVisitor(block *ir.Block, desc ir.LocationDescriptor) *Visitor {
	return &Visitor{Emit: ir.NewEmitter(block), Desc: desc}
}

// movImmediate64 lifts MOVZ <Xd>, #imm{, LSL #shift}: set Xd to a 64-bit
// immediate, clearing the rest of the register. Grounded on
// data_processing_shift.cpp's MOVZ handler shape (decode imm16+hw,
// left-shift by 16*hw, SetRegister).
func (v *Visitor) movImmediate64(rd uint8, imm16 uint16, hw uint8) {
	value := uint64(imm16) << (16 * uint(hw))
	v.Emit.SetExtendedRegister(rd, v.Emit.Imm64(value))
}

// addShiftedRegister64 lifts ADD <Xd>, <Xn>, <Xm> (no shift): the subset
// of the "add (shifted register)" encoding this decoder matches (shift
// amount forced to zero by the decode table's mask).
func (v *Visitor) addShiftedRegister64(rd, rn, rm uint8) {
	a := v.Emit.GetExtendedRegister(rn)
	b := v.Emit.GetExtendedRegister(rm)
	sum := v.Emit.Add(ir.U32U64{Value: a.Value}, ir.U32U64{Value: b.Value})
	v.Emit.SetExtendedRegister(rd, sum.AsU64())
}

// ret lifts RET {<Xn>}: sets PC to the value held in Xn (X30 when the
// register field is omitted in assembly, already resolved to a concrete
// register number by the decoder) and returns control to the dispatcher,
// which re-reads PC out of JitState to decide where to go next.
func (v *Visitor) ret(rn uint8) {
	v.Emit.SetPC(v.Emit.GetExtendedRegister(rn))
	v.Emit.SetTerm(ir.ReturnToDispatch{})
}

// svc lifts SVC #imm. Grounded on exception_generating.cpp: the original
// does not push a return-stack-buffer entry for a supervisor call, and
// this port preserves that choice explicitly (DESIGN.md Open Question 1)
// rather than defaulting to "every call pushes" out of uniformity.
func (v *Visitor) svc(imm16 uint16) {
	v.Emit.CallSupervisor(uint32(imm16))
	v.Emit.SetTerm(ir.CheckHalt{Inner: ir.PopRSBHint{}})
}

// lslv lifts LSLV <Wd>, <Wn>, <Wm>: Wd = Wn shifted left by Wm. The
// translator passes Wm's low byte through unreduced as the shift amount;
// what counts of 32 and above produce (spec.md §4.7's worked example) is
// decided by LogicalShiftLeftRegister's lowering in backend/x64, not by
// this translator.
func (v *Visitor) lslv(rd, rn, rm uint8) {
	wn := v.Emit.GetRegister(rn)
	wm := v.Emit.GetRegister(rm)
	shiftAmount := v.Emit.LeastSignificantByte(ir.U32U64{Value: wm.Value})
	carryIn := v.Emit.Imm1(false)
	result := v.Emit.LogicalShiftLeftRegister(wn, shiftAmount, carryIn)
	v.Emit.SetRegister(rd, result.Result)
}

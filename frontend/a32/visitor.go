package a32

import "armjit/ir"

// Visitor lifts one decoded A32 instruction into the block under
// construction, mirroring original_source's A32::TranslatorVisitor: one
// method per instruction class matched by decoder.go's table.
type Visitor struct {
	Emit *ir.Emitter
	Desc ir.LocationDescriptor
}

// NewVisitor returns a Visitor appending to block, whose current location
// is desc.
func NewVisitor(block *ir.Block, desc ir.LocationDescriptor) *Visitor {
	return &Visitor{Emit: ir.NewEmitter(block), Desc: desc}
}

// setNZ updates the N and Z flags from result, the shared tail of every
// S-suffixed data-processing instruction.
func (v *Visitor) setNZ(result ir.U32) {
	v.Emit.SetFlag(ir.FlagN, v.Emit.MostSignificantBit(result))
	v.Emit.SetFlag(ir.FlagZ, v.Emit.IsZero(result.Value))
}

// lsls lifts LSLS <Rd>, <Rm>, <Rs> (MOVS Rd, Rm, LSL Rs alias):
// Rd = Rm << (Rs mod 256), carry preserved when the runtime shift count
// is zero per the ARM register-shift rule (spec.md §4.7's worked
// example; DESIGN.md Open Question 2 — this is the *register* form).
func (v *Visitor) lsls(rd, rm, rs uint8) {
	wm := v.Emit.GetRegister(rm)
	ws := v.Emit.GetRegister(rs)
	shiftAmount := v.Emit.LeastSignificantByte(ir.U32U64{Value: ws.Value})
	carryIn := v.Emit.GetFlag(ir.FlagC)

	rc := v.Emit.LogicalShiftLeftRegister(wm, shiftAmount, carryIn)
	v.Emit.SetRegister(rd, rc.Result)
	v.Emit.SetFlag(ir.FlagC, rc.Carry)
	v.setNZ(rc.Result)
}

// lsrs lifts LSRS <Rd>, <Rm>, <Rs> (MOVS Rd, Rm, LSR Rs alias).
func (v *Visitor) lsrs(rd, rm, rs uint8) {
	wm := v.Emit.GetRegister(rm)
	ws := v.Emit.GetRegister(rs)
	shiftAmount := v.Emit.LeastSignificantByte(ir.U32U64{Value: ws.Value})
	carryIn := v.Emit.GetFlag(ir.FlagC)

	rc := v.Emit.LogicalShiftRightRegister(wm, shiftAmount, carryIn)
	v.Emit.SetRegister(rd, rc.Result)
	v.Emit.SetFlag(ir.FlagC, rc.Carry)
	v.setNZ(rc.Result)
}

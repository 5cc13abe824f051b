// Package ir implements the typed SSA microinstruction graph that guest
// translators build and that the optimizer and x86-64 backend consume.
//
// Every value produced by a microinstruction carries a type tag drawn from
// a closed set. The builder methods on Emitter accept and return thin
// wrapper structs around *Inst (U1, U8, U16, ..., NZCV) rather than a bare
// Value, so a mismatched operand width is a compile error at the call site
// instead of a runtime assertion.
package ir

// Type is the closed set of value kinds the IR can produce.
type Type uint8

const (
	TypeVoid Type = iota
	TypeU1
	TypeU8
	TypeU16
	TypeU32
	TypeU64
	TypeU128
	TypeNZCV
)

func (t Type) String() string {
	switch t {
	case TypeVoid:
		return "Void"
	case TypeU1:
		return "U1"
	case TypeU8:
		return "U8"
	case TypeU16:
		return "U16"
	case TypeU32:
		return "U32"
	case TypeU64:
		return "U64"
	case TypeU128:
		return "U128"
	case TypeNZCV:
		return "NZCV"
	default:
		return "Unknown"
	}
}

// Value is the untyped handle every typed wrapper embeds. It is exported so
// that optimization passes, which operate generically over operands
// regardless of width, can walk the graph without needing one case per
// type.
type Value struct {
	inst *Inst
}

// Inst returns the producing instruction, or nil for a zero Value.
func (v Value) Inst() *Inst { return v.inst }

// IsEmpty reports whether this handle refers to no instruction. Terminal
// sub-values (e.g. an unused carry-out) are left empty when the caller
// doesn't need them.
func (v Value) IsEmpty() bool { return v.inst == nil }

func valueOf(i *Inst) Value { return Value{inst: i} }

// ValueOf wraps inst as a bare Value, for code outside this package (such
// as ir/opt) that builds a new Inst directly via Block.InsertBefore rather
// than through Emitter's typed builders.
func ValueOf(i *Inst) Value { return valueOf(i) }

// Sized value wrappers. Each is produced by exactly one Inst and is only
// ever constructed by Emitter builder methods or by narrowing/widening an
// existing wrapper of provably matching width.

type U1 struct{ Value }
type U8 struct{ Value }
type U16 struct{ Value }
type U32 struct{ Value }
type U64 struct{ Value }
type U128 struct{ Value }
type NZCV struct{ Value }

// UAny wraps a value whose width is only known at translate time (8/16/32/64
// bit extension sources, for instance). U32U64 similarly models the
// overloaded 32-or-64-bit operations the guest ISAs share between A32 and
// A64 forms.
type UAny struct{ Value }
type U32U64 struct{ Value }

func asU1(i *Inst) U1       { return U1{valueOf(i)} }
func asU8(i *Inst) U8       { return U8{valueOf(i)} }
func asU16(i *Inst) U16     { return U16{valueOf(i)} }
func asU32(i *Inst) U32     { return U32{valueOf(i)} }
func asU64(i *Inst) U64     { return U64{valueOf(i)} }
func asU128(i *Inst) U128   { return U128{valueOf(i)} }
func asNZCV(i *Inst) NZCV   { return NZCV{valueOf(i)} }
func asUAny(i *Inst) UAny   { return UAny{valueOf(i)} }
func asU32U64(i *Inst) U32U64 { return U32U64{valueOf(i)} }

// Widen upgrades a U32U64 produced for a 32-bit form into a plain U32, and
// similarly for U64; callers use this only after checking Inst().Type().
func (v U32U64) AsU32() U32 { return U32{v.Value} }
func (v U32U64) AsU64() U64 { return U64{v.Value} }
func (v UAny) AsU8() U8     { return U8{v.Value} }
func (v UAny) AsU16() U16   { return U16{v.Value} }
func (v UAny) AsU32() U32   { return U32{v.Value} }
func (v UAny) AsU64() U64   { return U64{v.Value} }

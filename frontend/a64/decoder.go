package a64

import "armjit/frontend"

// table is the A64 decode table. Entries are mask/value instruction-word
// patterns; see frontend.Decode for matching order rules. Each Handle
// closure extracts its own bitfields from word and calls the
// corresponding Visitor method, mirroring translate.cpp's decode-then-
// dispatch shape.
var table = []frontend.Matcher[*Visitor]{
	{
		Name:  "MOVZ (64-bit)",
		Mask:  0xFF800000,
		Value: 0xD2800000,
		Handle: func(v *Visitor, word uint32) error {
			rd := uint8(word & 0x1F)
			imm16 := uint16((word >> 5) & 0xFFFF)
			hw := uint8((word >> 21) & 0x3)
			v.movImmediate64(rd, imm16, hw)
			return nil
		},
	},
	{
		// ADD (shifted register), 64-bit, shift amount forced to zero.
		Name:  "ADD (shifted register, 64-bit, no shift)",
		Mask:  0xFFE0FC00,
		Value: 0x8B000000,
		Handle: func(v *Visitor, word uint32) error {
			rd := uint8(word & 0x1F)
			rn := uint8((word >> 5) & 0x1F)
			rm := uint8((word >> 16) & 0x1F)
			v.addShiftedRegister64(rd, rn, rm)
			return nil
		},
	},
	{
		Name:  "RET",
		Mask:  0xFFFFFC1F,
		Value: 0xD65F0000,
		Handle: func(v *Visitor, word uint32) error {
			rn := uint8((word >> 5) & 0x1F)
			v.ret(rn)
			return nil
		},
	},
	{
		Name:  "SVC",
		Mask:  0xFFE0001F,
		Value: 0xD4000001,
		Handle: func(v *Visitor, word uint32) error {
			imm16 := uint16((word >> 5) & 0xFFFF)
			v.svc(imm16)
			return nil
		},
	},
	{
		Name:  "LSLV (32-bit)",
		Mask:  0xFFE0FC00,
		Value: 0x1AC02000,
		Handle: func(v *Visitor, word uint32) error {
			rd := uint8(word & 0x1F)
			rn := uint8((word >> 5) & 0x1F)
			rm := uint8((word >> 16) & 0x1F)
			v.lslv(rd, rn, rm)
			return nil
		},
	},
}

// Decode matches word against table and lifts it via v.
func Decode(word uint32, v *Visitor) error {
	return frontend.Decode(word, table, v)
}

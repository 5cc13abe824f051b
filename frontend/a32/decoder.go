package a32

import "armjit/frontend"

// table is the A32 decode table, limited to the unconditional (cond =
// 1110/AL) encoding of the two register-shifted-register MOV aliases
// this port supports; see decoder.go's a64 counterpart for the mask/
// value convention.
var table = []frontend.Matcher[*Visitor]{
	{
		Name:  "LSLS (register)",
		Mask:  0xFFFF00F0,
		Value: 0xE1B00010,
		Handle: func(v *Visitor, word uint32) error {
			rd := uint8((word >> 12) & 0xF)
			rs := uint8((word >> 8) & 0xF)
			rm := uint8(word & 0xF)
			v.lsls(rd, rm, rs)
			return nil
		},
	},
	{
		Name:  "LSRS (register)",
		Mask:  0xFFFF00F0,
		Value: 0xE1B00030,
		Handle: func(v *Visitor, word uint32) error {
			rd := uint8((word >> 12) & 0xF)
			rs := uint8((word >> 8) & 0xF)
			rm := uint8(word & 0xF)
			v.lsrs(rd, rm, rs)
			return nil
		},
	},
}

// Decode matches word against table and lifts it via v.
func Decode(word uint32, v *Visitor) error {
	return frontend.Decode(word, table, v)
}

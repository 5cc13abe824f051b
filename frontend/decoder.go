// Package frontend holds the generic mask/pattern instruction matcher
// shared by the A64, A32 and Thumb decoders. Grounded on
// bassosimone-risc32/pkg/asm/instruction.go's opcode-field bit-twiddling
// style (mask/shift constants per instruction form), generalized from a
// fixed encode table into a generic decode matcher per spec.md §4.1.
package frontend

// Matcher pairs a bitmask/expected-value pattern with the handler to call
// when a guest instruction word matches it. V is the visitor interface the
// architecture package defines (e.g. a64.Visitor); Handle receives the
// concrete visitor and the raw instruction word so it can extract fields
// itself.
type Matcher[V any] struct {
	Name    string
	Mask    uint32
	Value   uint32
	Handle  func(v V, word uint32) error
}

// Decode scans table in order and invokes the first Matcher whose mask
// matches word, returning ErrNoMatch if none does. Table order matters:
// more specific patterns (fewer "don't care" bits) must precede more
// general ones that would otherwise shadow them, the same convention
// bassosimone-risc32's encoder family uses for its opcode field ordering.
func Decode[V any](word uint32, table []Matcher[V], visitor V) error {
	for _, m := range table {
		if word&m.Mask == m.Value {
			return m.Handle(visitor, word)
		}
	}
	return ErrNoMatch
}

// ErrNoMatch is returned when no entry in a decode table matches an
// instruction word; the a32 and a64 translators answer it by emitting a
// CallInterpreter instruction for that word, and it is not surfaced as an
// error.
var ErrNoMatch = decodeMissError{}

type decodeMissError struct{}

func (decodeMissError) Error() string { return "frontend: no decode table entry matches this instruction word" }

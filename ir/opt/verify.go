package opt

import (
	"fmt"

	"armjit/ir"
)

// VerificationPass checks the structural invariants spec.md §3/§8 require
// of a finished block: exactly one terminal, no forward references (every
// operand's arena position precedes its user's), and use-list
// consistency (every operand's producer records its user in its
// use-list; the reverse direction is not checked). Grounded on original_source's ir_opt/passes.h
// VerificationPass; runs last, after every rewriting pass, so a bug in an
// earlier pass is caught here rather than silently miscompiled.
func VerificationPass(b *ir.Block) error {
	if !b.HasTerminal() {
		return fmt.Errorf("ir: block at %#x has no terminal", b.StartLocation().PC())
	}

	seen := map[*ir.Inst]bool{}
	for _, inst := range b.Instructions() {
		for argIdx, arg := range inst.Args() {
			producer := arg.Inst()
			if producer == nil {
				return fmt.Errorf("ir: %s operand %d is empty", inst.Opcode().Name(), argIdx)
			}
			if !seen[producer] {
				return fmt.Errorf("ir: %s at arena position references %s before it is defined",
					inst.Opcode().Name(), producer.Opcode().Name())
			}
			if !hasUse(producer, inst) {
				return fmt.Errorf("ir: %s not recorded in %s's use-list", inst.Opcode().Name(), producer.Opcode().Name())
			}
		}
		seen[inst] = true
	}
	return nil
}

func hasUse(producer, consumer *ir.Inst) bool {
	for _, u := range producer.Uses() {
		if u == consumer {
			return true
		}
	}
	return false
}

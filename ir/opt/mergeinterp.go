package opt

import "armjit/ir"

// MergeInterpretBlocks coalesces a run of consecutive CallInterpreter
// instructions into a single instruction carrying the run length, so the
// backend emits one interpreter callback call instead of one per unsupported
// guest instruction. Grounded on original_source's ir_opt/passes.h
// MergeInterpretBlocks, which does the equivalent coalescing over the
// terminal-adjacent Interpret sequence; here it runs over the in-block
// CallInterpreter op instead, since this port's Emitter (ir/emitter.go)
// models "skip one guest instruction the decoder couldn't match" as an
// ordinary instruction rather than always terminating the block.
func MergeInterpretBlocks(b *ir.Block) bool {
	changed := false
	insts := b.Instructions()

	i := 0
	for i < len(insts) {
		if insts[i].Opcode() != ir.OpCallInterpreter {
			i++
			continue
		}
		j := i + 1
		for j < len(insts) && insts[j].Opcode() == ir.OpCallInterpreter {
			j++
		}
		if j-i > 1 {
			insts[i].SetInterpreterRunLength(uint8(j - i))
			for k := i + 1; k < j; k++ {
				b.Tombstone(insts[k])
			}
			changed = true
		}
		i = j
	}
	return changed
}

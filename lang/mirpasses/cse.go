package mirpasses

import (
	"fmt"

	"github.com/nova-lang/nova/lang/mir"
)

// CSE eliminates duplicate computations within a single basic block: if the
// same pure operation with the same operands has already been computed
// earlier in the block, later uses are rewritten to the earlier result and
// the redundant instruction is dropped. It does not reason across blocks —
// a local, block-scoped CSE is enough to catch the common case this
// language produces (repeated attribute/index reads inside one expression,
// the temp-rebinding LetExpr chains lang/hir's desugaring emits) without the
// dominance analysis a global CSE would need.
type CSE struct{}

func (CSE) Name() string { return "cse" }

func (CSE) Run(fn *mir.Function) bool {
	changed := false
	for _, blk := range fn.Blocks {
		seen := map[string]mir.Reg{}
		replace := map[mir.Reg]mir.Reg{}
		out := blk.Instr[:0:0]

		rewrite := func(r mir.Reg) mir.Reg {
			if nr, ok := replace[r]; ok {
				return nr
			}
			return r
		}

		for _, ins := range blk.Instr {
			for i, a := range ins.Args {
				ins.Args[i] = rewrite(a)
			}
			if isPure(ins.Op) {
				key := cseKey(ins)
				if prior, ok := seen[key]; ok {
					replace[ins.Result] = prior
					changed = true
					continue
				}
				seen[key] = ins.Result
			}
			out = append(out, ins)
		}
		blk.Instr = out

		blk.Term.Cond = rewrite(blk.Term.Cond)
		blk.Term.Value = rewrite(blk.Term.Value)
	}
	return changed
}

// isPure reports whether an instruction can be safely deduplicated: it must
// have no externally observable side effect and must be deterministic given
// its operands.
func isPure(op mir.Op) bool {
	switch op {
	case mir.OpConst, mir.OpBinary, mir.OpUnary, mir.OpCopy,
		mir.OpMakePair, mir.OpIs, mir.OpAs:
		return true
	default:
		return false
	}
}

func cseKey(ins mir.Instruction) string {
	return fmt.Sprintf("%d|%v|%v", ins.Op, ins.Imm, ins.Args)
}

package mirpasses

import "github.com/nova-lang/nova/lang/mir"

// CopyPropagation replaces uses of a register with its source when that
// register has exactly one writer in the whole function and that writer is
// a plain OpCopy. A register written by OpCopy from more than one
// predecessor block (the if/when/&&/|| merge pattern build.go emits) is
// left alone, since there it genuinely represents more than one possible
// source value and is not a redundant copy.
type CopyPropagation struct{}

func (CopyPropagation) Name() string { return "copy-propagation" }

func (CopyPropagation) Run(fn *mir.Function) bool {
	writers := map[mir.Reg]int{}
	copySrc := map[mir.Reg]mir.Reg{}
	for _, blk := range fn.Blocks {
		for _, ins := range blk.Instr {
			if ins.Result < 0 {
				continue
			}
			writers[ins.Result]++
			if ins.Op == mir.OpCopy && len(ins.Args) == 1 {
				copySrc[ins.Result] = ins.Args[0]
			}
		}
	}

	chase := func(r mir.Reg) mir.Reg {
		for {
			src, ok := copySrc[r]
			if !ok || writers[r] != 1 {
				return r
			}
			r = src
		}
	}

	changed := false
	for _, blk := range fn.Blocks {
		for i := range blk.Instr {
			ins := &blk.Instr[i]
			for j, a := range ins.Args {
				if nr := chase(a); nr != a {
					ins.Args[j] = nr
					changed = true
				}
			}
		}
		if nr := chase(blk.Term.Cond); nr != blk.Term.Cond {
			blk.Term.Cond = nr
			changed = true
		}
		if nr := chase(blk.Term.Value); nr != blk.Term.Value {
			blk.Term.Value = nr
			changed = true
		}
	}
	return changed
}

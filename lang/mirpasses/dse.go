package mirpasses

import (
	"fmt"

	"github.com/nova-lang/nova/lang/mir"
)

// DeadStoreElimination removes two kinds of dead code: pure, value-producing
// instructions whose result is never read anywhere in the function, and a
// store to a local/cell/free/top-level binding that is immediately
// overwritten by a later store to the same target with no read of that
// target in between (the common case left behind after constant folding and
// copy propagation rewrite a chain of temp rebindings down to nothing).
//
// The second check is scoped to a single straight-line run within a block
// and resets at any call-shaped instruction (OpCall, OpMakeFunc, OpLaunch,
// OpAsync, OpScopeEnter/Exit, OpDefineClass), since those can observe a binding through a
// closure the simple reg-use scan here does not track.
type DeadStoreElimination struct{}

func (DeadStoreElimination) Name() string { return "dead-store-elimination" }

func (DeadStoreElimination) Run(fn *mir.Function) bool {
	changed := false
	if eliminateUnusedPure(fn) {
		changed = true
	}
	if eliminateRedundantStores(fn) {
		changed = true
	}
	return changed
}

func eliminateUnusedPure(fn *mir.Function) bool {
	used := map[mir.Reg]bool{}
	for _, blk := range fn.Blocks {
		for _, ins := range blk.Instr {
			for _, a := range ins.Args {
				used[a] = true
			}
		}
		used[blk.Term.Cond] = true
		used[blk.Term.Value] = true
	}

	changed := false
	for _, blk := range fn.Blocks {
		out := blk.Instr[:0:0]
		for _, ins := range blk.Instr {
			if ins.Result >= 0 && isPure(ins.Op) && !used[ins.Result] {
				changed = true
				continue
			}
			out = append(out, ins)
		}
		blk.Instr = out
	}
	return changed
}

func storeTarget(ins mir.Instruction) (string, bool) {
	switch ins.Op {
	case mir.OpStoreLocal, mir.OpStoreCell, mir.OpStoreFree:
		return fmt.Sprintf("%d:%v", ins.Op, ins.Imm), true
	case mir.OpStoreTopLevel:
		return fmt.Sprintf("top:%v", ins.Imm), true
	}
	return "", false
}

func loadTarget(ins mir.Instruction) (string, bool) {
	switch ins.Op {
	case mir.OpLoadLocal, mir.OpLoadCell, mir.OpLoadFree, mir.OpLoadCellRef, mir.OpLoadFreeRef:
		return fmt.Sprintf("%d:%v", loadToStoreOp(ins.Op), ins.Imm), true
	case mir.OpLoadTopLevel:
		return fmt.Sprintf("top:%v", ins.Imm), true
	}
	return "", false
}

func loadToStoreOp(op mir.Op) mir.Op {
	switch op {
	case mir.OpLoadLocal:
		return mir.OpStoreLocal
	case mir.OpLoadCell, mir.OpLoadCellRef:
		return mir.OpStoreCell
	case mir.OpLoadFree, mir.OpLoadFreeRef:
		return mir.OpStoreFree
	}
	return op
}

func isBarrier(op mir.Op) bool {
	switch op {
	case mir.OpCall, mir.OpMakeFunc, mir.OpLaunch, mir.OpAsync, mir.OpScopeEnter, mir.OpScopeExit, mir.OpDefineClass:
		return true
	default:
		return false
	}
}

func eliminateRedundantStores(fn *mir.Function) bool {
	changed := false
	for _, blk := range fn.Blocks {
		dead := make([]bool, len(blk.Instr))
		blockChanged := false
		lastStore := map[string]int{}
		for i, ins := range blk.Instr {
			if isBarrier(ins.Op) {
				lastStore = map[string]int{}
				continue
			}
			if key, ok := loadTarget(ins); ok {
				delete(lastStore, key)
				continue
			}
			if key, ok := storeTarget(ins); ok {
				if prev, ok := lastStore[key]; ok {
					dead[prev] = true
					blockChanged = true
				}
				lastStore[key] = i
			}
		}
		if !blockChanged {
			continue
		}
		changed = true
		out := blk.Instr[:0:0]
		for i, ins := range blk.Instr {
			if dead[i] {
				continue
			}
			out = append(out, ins)
		}
		blk.Instr = out
	}
	return changed
}

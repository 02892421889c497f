package mirpasses_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nova-lang/nova/lang/mir"
	"github.com/nova-lang/nova/lang/mirpasses"
)

func blockFn(blocks ...*mir.BasicBlock) *mir.Function {
	return &mir.Function{Blocks: blocks}
}

func TestCSEDeduplicatesRepeatedBinary(t *testing.T) {
	blk := &mir.BasicBlock{ID: 0}
	blk.Instr = []mir.Instruction{
		{Op: mir.OpConst, Result: 0, Imm: int64(1)},
		{Op: mir.OpConst, Result: 1, Imm: int64(2)},
		{Op: mir.OpBinary, Result: 2, Args: []mir.Reg{0, 1}, Imm: "+"},
		{Op: mir.OpBinary, Result: 3, Args: []mir.Reg{0, 1}, Imm: "+"},
		{Op: mir.OpUnary, Result: 4, Args: []mir.Reg{3}, Imm: "-"},
	}
	blk.Term = mir.Terminator{Kind: mir.TermReturn, Value: 4}
	fn := blockFn(blk)

	changed := (mirpasses.CSE{}).Run(fn)
	require.True(t, changed)

	// The second OpBinary should have been eliminated, with its uses
	// rewritten to reference the first OpBinary's result (reg 2).
	assert.Len(t, fn.Blocks[0].Instr, 4)
	last := fn.Blocks[0].Instr[3]
	assert.Equal(t, mir.OpUnary, last.Op)
	assert.Equal(t, mir.Reg(2), last.Args[0])
}

func TestConstantFoldingFoldsIntArithmetic(t *testing.T) {
	blk := &mir.BasicBlock{ID: 0}
	blk.Instr = []mir.Instruction{
		{Op: mir.OpConst, Result: 0, Imm: int64(3)},
		{Op: mir.OpConst, Result: 1, Imm: int64(4)},
		{Op: mir.OpBinary, Result: 2, Args: []mir.Reg{0, 1}, Imm: "+"},
	}
	blk.Term = mir.Terminator{Kind: mir.TermReturn, Value: 2}
	fn := blockFn(blk)

	changed := (mirpasses.ConstantFolding{}).Run(fn)
	require.True(t, changed)

	folded := fn.Blocks[0].Instr[2]
	assert.Equal(t, mir.OpConst, folded.Op)
	assert.Equal(t, int64(7), folded.Imm)
}

func TestConstantFoldingLeavesDivisionAlone(t *testing.T) {
	blk := &mir.BasicBlock{ID: 0}
	blk.Instr = []mir.Instruction{
		{Op: mir.OpConst, Result: 0, Imm: int64(10)},
		{Op: mir.OpConst, Result: 1, Imm: int64(0)},
		{Op: mir.OpBinary, Result: 2, Args: []mir.Reg{0, 1}, Imm: "/"},
	}
	blk.Term = mir.Terminator{Kind: mir.TermReturn, Value: 2}
	fn := blockFn(blk)

	changed := (mirpasses.ConstantFolding{}).Run(fn)
	assert.False(t, changed)
	assert.Equal(t, mir.OpBinary, fn.Blocks[0].Instr[2].Op)
}

func TestCopyPropagationChasesSingleWriterCopy(t *testing.T) {
	blk := &mir.BasicBlock{ID: 0}
	blk.Instr = []mir.Instruction{
		{Op: mir.OpConst, Result: 0, Imm: int64(5)},
		{Op: mir.OpCopy, Result: 1, Args: []mir.Reg{0}},
		{Op: mir.OpUnary, Result: 2, Args: []mir.Reg{1}, Imm: "-"},
	}
	blk.Term = mir.Terminator{Kind: mir.TermReturn, Value: 2}
	fn := blockFn(blk)

	changed := (mirpasses.CopyPropagation{}).Run(fn)
	require.True(t, changed)
	assert.Equal(t, mir.Reg(0), fn.Blocks[0].Instr[2].Args[0])
}

func TestCopyPropagationSkipsMultiWriterMerge(t *testing.T) {
	// Register 2 is written by OpCopy from two different blocks, as build.go
	// emits for an if-expression merge; neither use should be rewritten.
	then := &mir.BasicBlock{ID: 1}
	then.Instr = []mir.Instruction{
		{Op: mir.OpConst, Result: 0, Imm: int64(1)},
		{Op: mir.OpCopy, Result: 2, Args: []mir.Reg{0}},
	}
	els := &mir.BasicBlock{ID: 2}
	els.Instr = []mir.Instruction{
		{Op: mir.OpConst, Result: 1, Imm: int64(2)},
		{Op: mir.OpCopy, Result: 2, Args: []mir.Reg{1}},
	}
	after := &mir.BasicBlock{ID: 3}
	after.Instr = []mir.Instruction{
		{Op: mir.OpUnary, Result: 3, Args: []mir.Reg{2}, Imm: "-"},
	}
	after.Term = mir.Terminator{Kind: mir.TermReturn, Value: 3}
	fn := blockFn(then, els, after)

	(mirpasses.CopyPropagation{}).Run(fn)
	assert.Equal(t, mir.Reg(2), fn.Blocks[2].Instr[0].Args[0])
}

func TestDeadStoreEliminationRemovesUnusedPure(t *testing.T) {
	blk := &mir.BasicBlock{ID: 0}
	blk.Instr = []mir.Instruction{
		{Op: mir.OpConst, Result: 0, Imm: int64(1)},
		{Op: mir.OpConst, Result: 1, Imm: int64(2)}, // never used
	}
	blk.Term = mir.Terminator{Kind: mir.TermReturn, Value: 0}
	fn := blockFn(blk)

	changed := (mirpasses.DeadStoreElimination{}).Run(fn)
	require.True(t, changed)
	assert.Len(t, fn.Blocks[0].Instr, 1)
}

func TestDeadStoreEliminationRemovesRedundantStore(t *testing.T) {
	blk := &mir.BasicBlock{ID: 0}
	blk.Instr = []mir.Instruction{
		{Op: mir.OpConst, Result: 0, Imm: int64(1)},
		{Op: mir.OpStoreLocal, Args: []mir.Reg{0}, Imm: 0, Result: -1},
		{Op: mir.OpConst, Result: 1, Imm: int64(2)},
		{Op: mir.OpStoreLocal, Args: []mir.Reg{1}, Imm: 0, Result: -1},
	}
	blk.Term = mir.Terminator{Kind: mir.TermReturn, Value: -1}
	fn := blockFn(blk)

	changed := (mirpasses.DeadStoreElimination{}).Run(fn)
	require.True(t, changed)

	stores := 0
	for _, ins := range fn.Blocks[0].Instr {
		if ins.Op == mir.OpStoreLocal {
			stores++
		}
	}
	assert.Equal(t, 1, stores)
}

func TestDeadStoreEliminationKeepsStoreAfterBarrier(t *testing.T) {
	blk := &mir.BasicBlock{ID: 0}
	blk.Instr = []mir.Instruction{
		{Op: mir.OpConst, Result: 0, Imm: int64(1)},
		{Op: mir.OpStoreLocal, Args: []mir.Reg{0}, Imm: 0, Result: -1},
		{Op: mir.OpCall, Result: 1, Args: []mir.Reg{0}, Imm: nil},
		{Op: mir.OpConst, Result: 2, Imm: int64(2)},
		{Op: mir.OpStoreLocal, Args: []mir.Reg{2}, Imm: 0, Result: -1},
	}
	blk.Term = mir.Terminator{Kind: mir.TermReturn, Value: -1}
	fn := blockFn(blk)

	(mirpasses.DeadStoreElimination{}).Run(fn)
	stores := 0
	for _, ins := range fn.Blocks[0].Instr {
		if ins.Op == mir.OpStoreLocal {
			stores++
		}
	}
	assert.Equal(t, 2, stores, "a call barrier must prevent the earlier store from being considered dead")
}

func TestPipelineRunsToFixpoint(t *testing.T) {
	blk := &mir.BasicBlock{ID: 0}
	blk.Instr = []mir.Instruction{
		{Op: mir.OpConst, Result: 0, Imm: int64(2)},
		{Op: mir.OpConst, Result: 1, Imm: int64(3)},
		{Op: mir.OpBinary, Result: 2, Args: []mir.Reg{0, 1}, Imm: "+"},
		{Op: mir.OpCopy, Result: 3, Args: []mir.Reg{2}},
	}
	blk.Term = mir.Terminator{Kind: mir.TermReturn, Value: 3}
	fn := blockFn(blk)

	p := mirpasses.DefaultPipeline()
	names := map[string]bool{}
	for _, pass := range p.Passes() {
		names[pass.Name()] = true
	}
	assert.True(t, names["cse"])
	assert.True(t, names["constant-folding"])
	assert.True(t, names["copy-propagation"])
	assert.True(t, names["dead-store-elimination"])

	m := &mir.Module{Functions: []*mir.Function{fn}}
	p.Run(m)

	// After folding 2+3 to 5, propagating the copy, and dropping the
	// now-unused OpCopy, the function should return a single OpConst(5).
	instrs := fn.Blocks[0].Instr
	require.NotEmpty(t, instrs)
	final := instrs[len(instrs)-1]
	assert.Equal(t, mir.OpConst, final.Op)
	assert.Equal(t, int64(5), final.Imm)
	assert.Equal(t, final.Result, fn.Blocks[0].Term.Value)
}

// Package linearize flattens a lang/mir CFG of basic blocks into the flat,
// address-addressed instruction stream internal/machine actually executes,
// resolving every block-to-block edge into a concrete program counter.
//
// The block ordering and reachability walk are adapted
// directly from the teacher's lang/compiler/compiler.go (*pcomp).function
// method's `visit` closure; lang/mir simply stops one step short of what
// that method does, keeping the CFG explicit so lang/mirpasses has
// something to rewrite, and linearize here performs the second half of what
// compiler.go does in one pass.
package linearize

import "github.com/nova-lang/nova/lang/mir"

// Kind distinguishes an ordinary value/effect Instr from the four ways a
// block can end, since mir.Terminator's block-pointer edges have no meaning
// once flattened — they become integer program counters instead.
type Kind uint8

const (
	KindOp Kind = iota
	KindJump
	KindCondJump
	KindReturn
	KindThrow
)

// Instr is one flattened instruction. For KindOp it carries a verbatim
// mir.Instruction; for the others it carries only what's needed to resume
// execution (a target PC, or the return/throw value register).
type Instr struct {
	Kind Kind
	Op   mir.Instruction // meaningful only when Kind == KindOp

	Cond       mir.Reg // KindCondJump
	Then, Else int     // KindCondJump: target PCs; KindJump uses Then only
	Value      mir.Reg // KindReturn / KindThrow

	// FinallyExit carries mir.Terminator.FinallyExit through for KindJump;
	// meaningless for the other Kinds.
	FinallyExit bool
}

// CatchRegion mirrors mir.CatchRegion with PC ranges instead of block ID
// ranges, the form internal/machine's frame unwinder actually consults
// (compare the teacher's Funcode.Catches/Defers, themselves PC-range
// tables).
type CatchRegion struct {
	FromPC, ToPC     int
	CatchKind        string
	CatchName        string
	CatchPC          int // -1 if this region has no catch clause (finally-only)
	FinallyPC        int // -1 if no finally clause
}

type Function struct {
	Name       string
	NumParams  int
	Variadic   bool
	NumLocals  int
	Cells      []int
	NumFree    int
	IsMethod   bool
	MethodName string
	IsStatic   bool
	Code       []Instr
	Catches    []CatchRegion
}

type Program struct {
	Name      string
	Functions []*Function
	TopLevel  *Function

	// Extensions mirrors mir.Module.Extensions, rewritten through byFn the
	// same way OpMakeFunc/OpDefineClass immediates are.
	Extensions map[string][]*Function
}

// ClassInfo mirrors mir.ClassInfo with Ctor/Methods rewritten to point at
// the flattened Function each mir.Function produced, the same forward-
// reference problem OpMakeFunc's immediate has (see Linearize's second
// pass).
type ClassInfo struct {
	Name         string
	Kind         string
	Open         bool
	SuperName    string
	Interfaces   []string
	Ctor         *Function
	Methods      []*Function
	Annotations  []mir.ClassAnnotation
	Fields       []mir.ClassField
	StaticFields []mir.ClassField
	StaticInit   *Function
}

// Linearize flattens every Function in a Module.
//
// OpMakeFunc and OpDefineClass carry a *mir.Function/*mir.ClassInfo
// immediate identifying which function(s) they instantiate, but that
// function may be linearized after the instruction referencing it (a
// function's code can close over one defined later in m.Functions, and a
// class's methods are appended to m.Functions after the class's own
// OpDefineClass site). So Linearize runs in two passes at the Program
// level too: first flatten every function (building the mir.Function ->
// Function map as it goes), then sweep every already-flattened
// instruction stream and rewrite those two immediates now that the map is
// complete — mirroring linearizeFunc's own build-then-patch shape for jump
// targets one level up.
func Linearize(m *mir.Module) *Program {
	p := &Program{Name: m.Name}
	byFn := map[*mir.Function]*Function{}
	for _, fn := range m.Functions {
		lf := linearizeFunc(fn)
		byFn[fn] = lf
		p.Functions = append(p.Functions, lf)
	}
	p.TopLevel = byFn[m.TopLevel]

	if len(m.Extensions) > 0 {
		p.Extensions = map[string][]*Function{}
		for recv, fns := range m.Extensions {
			for _, fn := range fns {
				p.Extensions[recv] = append(p.Extensions[recv], byFn[fn])
			}
		}
	}

	for _, lf := range p.Functions {
		for i, ins := range lf.Code {
			if ins.Kind != KindOp {
				continue
			}
			switch imm := ins.Op.Imm.(type) {
			case *mir.Function:
				ins.Op.Imm = byFn[imm]
				lf.Code[i] = ins
			case *mir.ClassInfo:
				ins.Op.Imm = rewriteClassInfo(imm, byFn)
				lf.Code[i] = ins
			}
		}
	}
	return p
}

func rewriteClassInfo(info *mir.ClassInfo, byFn map[*mir.Function]*Function) *ClassInfo {
	methods := make([]*Function, len(info.Methods))
	for i, m := range info.Methods {
		methods[i] = byFn[m]
	}
	var staticInit *Function
	if info.StaticInit != nil {
		staticInit = byFn[info.StaticInit]
	}
	return &ClassInfo{
		Name: info.Name, Kind: info.Kind, Open: info.Open, SuperName: info.SuperName,
		Interfaces: info.Interfaces, Ctor: byFn[info.Ctor], Methods: methods,
		Annotations: info.Annotations, Fields: info.Fields,
		StaticFields: info.StaticFields, StaticInit: staticInit,
	}
}

func linearizeFunc(fn *mir.Function) *Function {
	lf := &Function{
		Name: fn.Name, NumParams: fn.NumParams, Variadic: fn.Variadic,
		NumLocals: fn.NumLocals, Cells: fn.Cells, NumFree: fn.NumFree,
		IsMethod: fn.IsMethod, MethodName: fn.MethodName, IsStatic: fn.IsStatic,
	}

	order, blockPC := order(fn)
	for _, blk := range order {
		blockPC[blk.ID] = len(lf.Code)
		for _, ins := range blk.Instr {
			lf.Code = append(lf.Code, Instr{Kind: KindOp, Op: ins})
		}
		lf.Code = append(lf.Code, terminatorPlaceholder(blk))
	}

	// Patch jump targets now that every block's starting PC is known; the
	// placeholder instructions appended above reserved one slot per block
	// so indices stay stable across this second pass.
	pc := 0
	for _, blk := range order {
		for range blk.Instr {
			pc++
		}
		idx := pc
		lf.Code[idx] = resolveTerminator(blk, blockPC)
		pc++
	}

	lf.Catches = make([]CatchRegion, len(fn.Catches))
	for i, c := range fn.Catches {
		fromPC, toPC := blockRangePC(fn, blockPC, c.TryFrom, c.TryTo)
		region := CatchRegion{FromPC: fromPC, ToPC: toPC, CatchKind: c.CatchKind, CatchName: c.CatchName, CatchPC: -1, FinallyPC: -1}
		if c.CatchEntry != nil {
			region.CatchPC = blockPC[c.CatchEntry.ID]
		}
		if c.FinallyEntry != nil {
			region.FinallyPC = blockPC[c.FinallyEntry.ID]
		}
		lf.Catches[i] = region
	}

	return lf
}

// order performs a reachability walk from fn.Entry, matching the teacher's
// visit() closure: a block's sole Jump successor is placed immediately
// after it when not yet visited. Every block still keeps its own
// terminator slot, so no jump instruction is elided. blockPC starts empty
// and records each block's resolved starting address as it's placed.
func order(fn *mir.Function) ([]*mir.BasicBlock, map[int]int) {
	var out []*mir.BasicBlock
	visited := make([]bool, len(fn.Blocks))
	blockPC := map[int]int{}

	var visit func(b *mir.BasicBlock)
	visit = func(b *mir.BasicBlock) {
		if b == nil || visited[b.ID] {
			return
		}
		visited[b.ID] = true
		out = append(out, b)
		switch b.Term.Kind {
		case mir.TermJump, mir.TermFallthrough:
			visit(b.Term.Then)
		case mir.TermCondJump:
			visit(b.Term.Then)
			visit(b.Term.Else)
		}
	}
	visit(fn.Entry)
	for _, b := range fn.Blocks {
		visit(b) // pick up any block unreachable from a simple fallthrough walk
	}
	return out, blockPC
}

// terminatorPlaceholder reserves the Instr slot a terminator will occupy;
// resolveTerminator fills in the real jump targets once every block's PC is
// known. Using a placeholder rather than skipping the slot keeps the first
// and second passes' indexing in lockstep.
func terminatorPlaceholder(blk *mir.BasicBlock) Instr {
	switch blk.Term.Kind {
	case mir.TermReturn:
		return Instr{Kind: KindReturn, Value: blk.Term.Value}
	case mir.TermThrow:
		return Instr{Kind: KindThrow, Value: blk.Term.Value}
	case mir.TermCondJump:
		return Instr{Kind: KindCondJump, Cond: blk.Term.Cond}
	default:
		return Instr{Kind: KindJump, FinallyExit: blk.Term.FinallyExit}
	}
}

func resolveTerminator(blk *mir.BasicBlock, blockPC map[int]int) Instr {
	ins := terminatorPlaceholder(blk)
	switch blk.Term.Kind {
	case mir.TermJump, mir.TermFallthrough:
		ins.Then = blockPC[blk.Term.Then.ID]
	case mir.TermCondJump:
		ins.Then = blockPC[blk.Term.Then.ID]
		ins.Else = blockPC[blk.Term.Else.ID]
	}
	return ins
}

// blockRangePC converts a [fromID, toID] block-ID range (inclusive) into a
// [fromPC, toPC) program counter range, where toPC is the address one past
// the last instruction of block toID (its terminator slot included), so a
// frame unwinder can test fromPC <= pc < toPC directly against the PC that
// raised.
func blockRangePC(fn *mir.Function, blockPC map[int]int, fromID, toID int) (int, int) {
	from := blockPC[fromID]
	to := from
	for _, b := range fn.Blocks {
		if b.ID == toID {
			to = blockPC[toID] + len(b.Instr) + 1
			break
		}
	}
	return from, to
}

package mir

import (
	"github.com/nova-lang/nova/lang/hir"
	"github.com/nova-lang/nova/lang/token"
)

// Build lowers a resolved hir.Program into a Module: one Function per
// top-level chunk, nested function, lambda, and class method, each a CFG of
// BasicBlocks rather than the flat bytecode the teacher's pcomp/fcomp build
// directly (compare lang/compiler/compiler.go's (*pcomp).function, which
// this mirrors one level higher: an explicit *block graph before the
// flattening that lang/linearize performs separately).
func Build(p *hir.Program) *Module {
	m := &Module{Name: p.Name}
	b := &builder{module: m}
	top := b.newFunction("<module>", false)
	b.fn = top
	b.cur = top.Entry
	b.emitStmts(p.Body)
	b.finish(-1)
	m.TopLevel = top
	m.Functions = append(m.Functions, top)
	return m
}

type loopTargets struct {
	breakTo    *BasicBlock
	continueTo *BasicBlock
}

type builder struct {
	module  *Module
	fn      *Function
	cur     *BasicBlock
	nextReg Reg
	loops   []loopTargets
}

func (b *builder) newFunction(name string, variadic bool) *Function {
	fn := &Function{Name: name, Variadic: variadic}
	fn.Entry = b.newBlockFor(fn)
	return fn
}

func (b *builder) newBlockFor(fn *Function) *BasicBlock {
	blk := &BasicBlock{ID: len(fn.Blocks)}
	fn.Blocks = append(fn.Blocks, blk)
	return blk
}

func (b *builder) newBlock() *BasicBlock {
	return b.newBlockFor(b.fn)
}

func (b *builder) newReg() Reg {
	r := b.nextReg
	b.nextReg++
	return r
}

// switchTo moves the builder to emit into blk; used after creating a
// successor so subsequent emit calls land in the right place.
func (b *builder) switchTo(blk *BasicBlock) { b.cur = blk }

func (b *builder) emit(op Op, result Reg, args []Reg, imm interface{}) {
	if b.cur == nil {
		return // unreachable code after a terminator; drop it like the teacher's fcomp.block==nil check
	}
	b.cur.Instr = append(b.cur.Instr, Instruction{Op: op, Result: result, Args: args, Imm: imm})
}

func (b *builder) emitResult(op Op, args []Reg, imm interface{}) Reg {
	r := b.newReg()
	b.emit(op, r, args, imm)
	return r
}

// terminate sets cur's Terminator (if cur is still reachable) and clears
// cur, mirroring fcomp.block = nil after a block-ending statement.
func (b *builder) terminateJump(target *BasicBlock) {
	if b.cur == nil {
		return
	}
	b.cur.Term = Terminator{Kind: TermJump, Then: target}
	b.cur = nil
}

func (b *builder) terminateCondJump(cond Reg, then, els *BasicBlock) {
	if b.cur == nil {
		return
	}
	b.cur.Term = Terminator{Kind: TermCondJump, Cond: cond, Then: then, Else: els}
	b.cur = nil
}

func (b *builder) terminateReturn(val Reg) {
	if b.cur == nil {
		return
	}
	b.cur.Term = Terminator{Kind: TermReturn, Value: val}
	b.cur = nil
}

func (b *builder) terminateThrow(val Reg) {
	if b.cur == nil {
		return
	}
	b.cur.Term = Terminator{Kind: TermThrow, Value: val}
	b.cur = nil
}

// terminateFinallyExit closes a finally block's own exit jump, tagged so
// internal/machine can tell it apart from an ordinary jump nested inside
// the finally body (see Terminator.FinallyExit).
func (b *builder) terminateFinallyExit(target *BasicBlock) {
	if b.cur == nil {
		return
	}
	b.cur.Term = Terminator{Kind: TermJump, Then: target, FinallyExit: true}
	b.cur = nil
}

// finish closes off a function whose body fell through without an explicit
// return: falls through to a bare `return` (returnVal<0 means no value).
func (b *builder) finish(returnVal Reg) {
	if b.cur != nil {
		b.terminateReturn(returnVal)
	}
}

func (b *builder) emitStmts(stmts []hir.Stmt) {
	for _, s := range stmts {
		b.emitStmt(s)
	}
}

// emitStmtsResult emits stmts like emitStmts, but when the final statement is
// a bare expression statement, returns the register holding its value instead
// of discarding it — the one case where a statement list is used as a block
// *expression* (a coroutineScope/supervisorScope body, whose spec'd result is
// "the lambda's result"). Every other statement-list consumer (function
// bodies, if/while bodies) truly is a list of effects and keeps calling
// emitStmts, which discards the last value on purpose.
func (b *builder) emitStmtsResult(stmts []hir.Stmt) Reg {
	if len(stmts) == 0 {
		return b.emitResult(OpConst, nil, nil)
	}
	for _, s := range stmts[:len(stmts)-1] {
		b.emitStmt(s)
	}
	last := stmts[len(stmts)-1]
	if es, ok := last.(*hir.ExprStmt); ok {
		return b.emitExpr(es.X)
	}
	b.emitStmt(last)
	return b.emitResult(OpConst, nil, nil)
}

func (b *builder) emitStmt(s hir.Stmt) {
	switch s := s.(type) {
	case *hir.ValDecl:
		v := b.emitExpr(s.Value)
		b.store(s.Binding, v)
	case *hir.VarDecl:
		var v Reg = -1
		if s.Value != nil {
			v = b.emitExpr(s.Value)
		} else {
			v = b.emitResult(OpConst, nil, nil)
		}
		b.store(s.Binding, v)
	case *hir.Assign:
		v := b.emitExpr(s.Value)
		b.storeTarget(s.Target, v)
	case *hir.DestructureStmt:
		v := b.emitExpr(s.Value)
		for i, bind := range s.Bindings {
			elem := b.emitResult(OpComponent, []Reg{v}, i+1)
			b.store(bind, elem)
		}
	case *hir.ExprStmt:
		b.emitExpr(s.X)
	case *hir.FuncDecl:
		fn := b.buildFunc(s.Name, s.Params, s.Body, s.ExprBody, s.Locals, s.FreeVars, s.Receiver != "", s.IsStatic)
		if s.Receiver != "" {
			if b.module.Extensions == nil {
				b.module.Extensions = map[string][]*Function{}
			}
			b.module.Extensions[s.Receiver] = append(b.module.Extensions[s.Receiver], fn)
		}
		v := b.emitMakeFunc(fn, s.FreeVars)
		if s.Binding != nil {
			b.store(s.Binding, v)
		}
	case *hir.ClassDecl:
		b.emitClassDecl(s)
	case *hir.If:
		b.emitIf(s)
	case *hir.While:
		b.emitWhile(s)
	case *hir.ForIn:
		b.emitForIn(s)
	case *hir.Return:
		var v Reg = -1
		if s.Value != nil {
			v = b.emitExpr(s.Value)
		}
		b.terminateReturn(v)
	case *hir.Throw:
		v := b.emitExpr(s.Value)
		b.terminateThrow(v)
	case *hir.Break:
		if n := len(b.loops); n > 0 {
			b.terminateJump(b.loops[n-1].breakTo)
		}
	case *hir.Continue:
		if n := len(b.loops); n > 0 {
			b.terminateJump(b.loops[n-1].continueTo)
		}
	case *hir.TryStmt:
		b.emitTry(s)
	case *hir.Import:
		// Resolution is internal/module's job at load time; MIR only
		// records what gets bound to what.
		v := b.emitResult(OpImport, nil, ImportSpec{
			Kind: s.Spec.Kind, Path: s.Spec.Path, Name: s.Spec.Name, Alias: s.Spec.Alias,
		})
		if s.Binding != nil {
			b.store(s.Binding, v)
		}
	case *hir.BlockStmt:
		b.emitStmts(s.Stmts)
	case *hir.LaunchStmt:
		b.emitLaunch(s)
	}
}

func (b *builder) constReg(v interface{}) Reg {
	return b.emitResult(OpConst, nil, v)
}

// store writes v into the storage a Binding denotes, regardless of scope
// kind; this is the single place that maps hir.Scope to a MIR store op.
func (b *builder) store(bind *hir.Binding, v Reg) {
	if bind == nil {
		return
	}
	switch bind.Scope {
	case hir.Local:
		b.emit(OpStoreLocal, -1, []Reg{v}, bind.Index)
	case hir.Cell:
		b.emit(OpStoreCell, -1, []Reg{v}, bind.Index)
	case hir.Free:
		b.emit(OpStoreFree, -1, []Reg{v}, bind.Index)
	case hir.Predeclared:
		if bind.Decl != nil {
			b.emit(OpStoreTopLevel, -1, []Reg{v}, bind.Name)
		}
		// A Predeclared binding with no Decl is a host/stdlib name;
		// assigning to it is rejected at resolve time (spec.md §3), so MIR
		// never has to emit a store for that case.
	}
}

func (b *builder) storeTarget(target hir.Expr, v Reg) {
	switch t := target.(type) {
	case *hir.Ident:
		b.store(t.Binding, v)
	case *hir.IndexExpr:
		x := b.emitExpr(t.X)
		idx := b.emitExpr(t.Index)
		b.emit(OpSetIndex, -1, []Reg{x, idx, v}, nil)
	case *hir.SelectorExpr:
		x := b.emitExpr(t.X)
		b.emit(OpSetAttr, -1, []Reg{x, v}, t.Sel)
	}
}

// load reads a Binding's current value; the mirror image of store.
func (b *builder) load(bind *hir.Binding) Reg {
	switch bind.Scope {
	case hir.Local:
		return b.emitResult(OpLoadLocal, nil, bind.Index)
	case hir.Cell:
		return b.emitResult(OpLoadCell, nil, bind.Index)
	case hir.Free:
		return b.emitResult(OpLoadFree, nil, bind.Index)
	case hir.Predeclared:
		if bind.Decl != nil {
			return b.emitResult(OpLoadTopLevel, nil, bind.Name)
		}
		return b.emitResult(OpLoadPredeclared, nil, bind.Name)
	default: // Universal, Undefined
		return b.emitResult(OpLoadUniversal, nil, bind.Name)
	}
}

func (b *builder) emitIf(s *hir.If) {
	cond := b.emitExpr(s.Cond)
	thenBlk := b.newBlock()
	after := b.newBlock()
	if s.Else == nil {
		b.terminateCondJump(cond, thenBlk, after)
		b.switchTo(thenBlk)
		b.emitStmts(s.Then.Stmts)
		b.terminateJump(after)
		b.switchTo(after)
		return
	}
	elseBlk := b.newBlock()
	b.terminateCondJump(cond, thenBlk, elseBlk)
	b.switchTo(thenBlk)
	b.emitStmts(s.Then.Stmts)
	b.terminateJump(after)

	b.switchTo(elseBlk)
	b.emitStmt(s.Else)
	b.terminateJump(after)

	b.switchTo(after)
}

func (b *builder) emitWhile(s *hir.While) {
	head := b.newBlock()
	body := b.newBlock()
	after := b.newBlock()

	if s.Post {
		// do-while: run body at least once before testing.
		b.terminateJump(body)
	} else {
		b.terminateJump(head)
	}

	b.switchTo(head)
	cond := b.emitExpr(s.Cond)
	b.terminateCondJump(cond, body, after)

	b.loops = append(b.loops, loopTargets{breakTo: after, continueTo: head})
	b.switchTo(body)
	b.emitStmts(s.Body.Stmts)
	b.terminateJump(head)
	b.loops = b.loops[:len(b.loops)-1]

	b.switchTo(after)
}

// emitForIn lowers to the universal `iterator`/`hasNext`/`next` protocol
// functions rather than a dedicated opcode, since every iterable (List,
// Map, Set, Range, a user class implementing Iterable) shares the same
// three-call shape handled by internal/stdlib's iteration support.
func (b *builder) emitForIn(s *hir.ForIn) {
	iter := b.emitExpr(s.Iter)
	iterFn := b.emitResult(OpLoadUniversal, nil, "iterator")
	iterReg := b.emitResult(OpCall, []Reg{iterFn, iter}, &CallInfo{NumPositional: 1})

	head := b.newBlock()
	body := b.newBlock()
	after := b.newBlock()

	b.terminateJump(head)
	b.switchTo(head)
	hasNextFn := b.emitResult(OpLoadUniversal, nil, "hasNext")
	hasNext := b.emitResult(OpCall, []Reg{hasNextFn, iterReg}, &CallInfo{NumPositional: 1})
	b.terminateCondJump(hasNext, body, after)

	b.loops = append(b.loops, loopTargets{breakTo: after, continueTo: head})
	b.switchTo(body)
	nextFn := b.emitResult(OpLoadUniversal, nil, "next")
	item := b.emitResult(OpCall, []Reg{nextFn, iterReg}, &CallInfo{NumPositional: 1})
	b.store(s.Binding, item)
	b.emitStmts(s.Body.Stmts)
	b.terminateJump(head)
	b.loops = b.loops[:len(b.loops)-1]

	b.switchTo(after)
}

// emitTry lowers a try/catch/finally into block regions recorded as
// CatchRegion (block-ID ranges), mirroring the teacher's Funcode.Catches /
// Defers block-range bookkeeping rather than inline landing-pad
// instructions; internal/machine's frame unwinder consults these ranges the
// same way the teacher's thread.go does for RUNDEFER/DEFEREXIT.
//
// Both the try body's and every catch body's normal (non-exceptional) exit
// route through the finally block before `after`, not straight to `after`:
// finally must run on ordinary completion too, not only when
// internal/machine is unwinding a thrown error through it. A `return`,
// `break` or `continue` inside the try body jumps straight to its target
// and bypasses finally (DESIGN.md records the return case) — running
// finally on such an exit would need the same defer-range check the
// teacher's RETURN opcode performs, which linearize's flat PC ranges do
// not drive.
func (b *builder) emitTry(s *hir.TryStmt) {
	tryFrom := len(b.fn.Blocks)
	tryBlk := b.newBlock()
	b.terminateJump(tryBlk)
	b.switchTo(tryBlk)
	b.emitStmts(s.Body.Stmts)
	tryTo := len(b.fn.Blocks) - 1 // last block belonging to the try body

	after := b.newBlock()
	var finBlk *BasicBlock
	if s.Finally != nil {
		finBlk = b.newBlock()
	}
	normalExit := after
	if finBlk != nil {
		normalExit = finBlk
	}
	b.terminateJump(normalExit) // no-op if the try body already returned/threw/broke

	for _, c := range s.Catches {
		catchBlk := b.newBlock()
		b.switchTo(catchBlk)
		if c.Binding != nil {
			exc := b.emitResult(OpLoadUniversal, nil, "$exception")
			b.store(c.Binding, exc)
		}
		b.emitStmts(c.Body.Stmts)
		b.terminateJump(normalExit)

		region := CatchRegion{TryFrom: tryFrom, TryTo: tryTo, CatchKind: c.Kind, CatchEntry: catchBlk}
		if c.Name != "" {
			region.CatchName = c.Name
		}
		b.fn.Catches = append(b.fn.Catches, region)
	}

	if finBlk != nil {
		b.switchTo(finBlk)
		b.emitStmts(s.Finally.Stmts)
		b.terminateFinallyExit(after)
		if len(b.fn.Catches) > 0 {
			b.fn.Catches[len(b.fn.Catches)-1].FinallyEntry = finBlk
		} else {
			b.fn.Catches = append(b.fn.Catches, CatchRegion{TryFrom: tryFrom, TryTo: tryTo, FinallyEntry: finBlk})
		}
	}

	b.switchTo(after)
}

func (b *builder) emitLaunch(s *hir.LaunchStmt) {
	var dispatcher Reg = -1
	if s.Dispatcher != nil {
		dispatcher = b.emitExpr(s.Dispatcher)
	}
	thunk := b.buildFunc("<launch>", nil, s.Body, nil, nil, nil, false, false)
	args := []Reg{}
	if dispatcher >= 0 {
		args = append(args, dispatcher)
	}
	b.emitResult(OpLaunch, args, thunk)
}

func (b *builder) emitMakeFunc(fn *Function, freeVars []*hir.Binding) Reg {
	captures := make([]Reg, len(freeVars))
	for i, fv := range freeVars {
		from := fv.From
		switch from.Scope {
		case hir.Cell:
			captures[i] = b.emitResult(OpLoadCellRef, nil, from.Index)
		case hir.Free:
			captures[i] = b.emitResult(OpLoadFreeRef, nil, from.Index)
		}
	}
	return b.emitResult(OpMakeFunc, captures, fn)
}

// buildFunc lowers one hir function-shaped body (FuncDecl, LambdaExpr body,
// or launch/async thunk) into its own Function and registers it on the
// module, returning it for the caller to wrap in an OpMakeFunc.
func (b *builder) buildFunc(name string, params []*hir.Param, body *hir.BlockStmt, exprBody hir.Expr, locals, freeVars []*hir.Binding, isMethod, isStatic bool) *Function {
	sub := &builder{module: b.module}
	fn := sub.newFunction(name, len(params) > 0 && params[len(params)-1].Variadic)
	fn.NumParams = len(params)
	fn.IsMethod = isMethod
	fn.IsStatic = isStatic
	if isMethod {
		fn.MethodName = name
	}
	for _, l := range locals {
		if l.Scope == hir.Cell {
			fn.Cells = append(fn.Cells, l.Index)
		}
	}
	fn.NumLocals = len(locals)
	fn.NumFree = len(freeVars)

	sub.fn = fn
	sub.cur = fn.Entry
	if body != nil {
		sub.emitStmts(body.Stmts)
		sub.finish(-1)
	} else if exprBody != nil {
		v := sub.emitExpr(exprBody)
		sub.terminateReturn(v)
	} else {
		sub.finish(-1)
	}

	b.module.Functions = append(b.module.Functions, fn)
	return fn
}

func (b *builder) emitClassDecl(cd *hir.ClassDecl) {
	ctor := b.buildCtorFunc(cd)
	methods := make([]*Function, len(cd.Methods))
	for i, m := range cd.Methods {
		methods[i] = b.buildFunc(cd.Name+"."+m.Name, m.Params, m.Body, m.ExprBody, m.Locals, m.FreeVars, true, m.IsStatic)
	}
	staticInit, staticFields := b.buildStaticInitFunc(cd)
	// Annotation arguments are ordinary expressions, evaluated here (in
	// annotation-then-arg order) into the OpDefineClass instruction's own
	// Args, since ClassInfo itself is static per-instruction data with
	// nowhere to hold a runtime register value.
	annotations := make([]ClassAnnotation, len(cd.Annotations))
	var annoArgRegs []Reg
	for i, a := range cd.Annotations {
		argNames := make([]string, len(a.Args))
		for j, arg := range a.Args {
			argNames[j] = arg.Name
			annoArgRegs = append(annoArgRegs, b.emitExpr(arg.Value))
		}
		annotations[i] = ClassAnnotation{Name: a.Name, ArgNames: argNames}
	}
	var fields []ClassField
	for _, p := range cd.CtorParams {
		if p.Kind == "val" || p.Kind == "var" {
			fields = append(fields, ClassField{Name: p.Name, Mutable: p.Kind == "var", HasDefault: p.Default != nil})
		}
	}
	info := &ClassInfo{
		Name: cd.Name, Kind: cd.Kind, Open: cd.Open, SuperName: cd.SuperName,
		Interfaces: cd.Interfaces, Ctor: ctor, Methods: methods, Annotations: annotations,
		Fields: fields, StaticFields: staticFields, StaticInit: staticInit,
	}
	classVal := b.emitResult(OpDefineClass, annoArgRegs, info)
	if cd.Binding != nil {
		b.store(cd.Binding, classVal)
	}
}

// buildCtorFunc lowers the primary constructor — param binding, super-args,
// field initializers, bare init expressions, in source order — into its own
// Function, matching how resolve.go resolves them in a private scope
// distinct from the class's methods.
func (b *builder) buildCtorFunc(cd *hir.ClassDecl) *Function {
	sub := &builder{module: b.module}
	fn := sub.newFunction(cd.Name+".<init>", false)
	fn.NumParams = len(cd.CtorParams)
	fn.NumLocals = len(cd.CtorParams)
	fn.IsMethod = true
	sub.fn = fn
	sub.cur = fn.Entry

	// Constructor parameters arrive already placed in Locals (and wrapped
	// into cells where fn.Cells marks them) by the calling convention
	// internal/machine applies uniformly to every Function, so there is
	// nothing to emit here for the parameters themselves.
	for _, p := range cd.CtorParams {
		if p.Binding != nil && p.Binding.Scope == hir.Cell {
			fn.Cells = append(fn.Cells, p.Binding.Index)
		}
	}
	for _, a := range cd.SuperArgs {
		sub.emitExpr(a.Value)
	}
	// Primary-constructor parameters marked val/var become fields (spec.md
	// §4.5): assign each onto the receiver before the class body's own
	// field initializers run, so an initializer expression can already
	// observe them via `this.name`.
	for _, p := range cd.CtorParams {
		if p.Kind != "val" && p.Kind != "var" {
			continue
		}
		this := sub.emitResult(OpLoadUniversal, nil, "this")
		v := sub.load(p.Binding)
		sub.emit(OpSetAttr, -1, []Reg{this, v}, p.Name)
	}
	for _, f := range cd.Fields {
		if f.IsStatic {
			continue
		}
		if f.Value != nil {
			v := sub.emitExpr(f.Value)
			sub.emit(OpSetAttr, -1, []Reg{sub.emitResult(OpLoadUniversal, nil, "this"), v}, f.Name)
		}
	}
	for _, init := range cd.Inits {
		sub.emitExpr(init)
	}
	sub.finish(-1)

	b.module.Functions = append(b.module.Functions, fn)
	return fn
}

// buildStaticInitFunc lowers a class's `static var`/`static val` field
// initializers into their own zero-argument Function, run once against the
// Class value itself (see ClassInfo.StaticInit's doc comment) rather than
// against a fresh instance the way buildCtorFunc's instance fields are.
// Returns (nil, nil) when the class declares no static fields, so
// internal/class can skip the call entirely rather than invoking a no-op
// function for every class.
func (b *builder) buildStaticInitFunc(cd *hir.ClassDecl) (*Function, []ClassField) {
	var fields []ClassField
	for _, f := range cd.Fields {
		if f.IsStatic {
			fields = append(fields, ClassField{Name: f.Name, Mutable: f.Mutable})
		}
	}
	if len(fields) == 0 {
		return nil, nil
	}

	sub := &builder{module: b.module}
	fn := sub.newFunction(cd.Name+".<static-init>", false)
	fn.IsMethod = true
	sub.fn = fn
	sub.cur = fn.Entry

	for _, f := range cd.Fields {
		if !f.IsStatic {
			continue
		}
		this := sub.emitResult(OpLoadUniversal, nil, "this")
		if f.Value != nil {
			v := sub.emitExpr(f.Value)
			sub.emit(OpSetAttr, -1, []Reg{this, v}, f.Name)
		} else {
			sub.emit(OpSetAttr, -1, []Reg{this, sub.emitResult(OpConst, nil, nil)}, f.Name)
		}
	}
	sub.finish(-1)

	b.module.Functions = append(b.module.Functions, fn)
	return fn, fields
}

func (b *builder) emitExpr(e hir.Expr) Reg {
	switch e := e.(type) {
	case *hir.Ident:
		return b.load(e.Binding)
	case *hir.IntLit:
		return b.constReg(e.Value)
	case *hir.LongLit:
		// Wrapped in LongConst since IntLit and LongLit both carry a plain
		// int64 Value; without a distinct Go type here OpConst's Imm could
		// not tell a `3L` literal apart from a `3` one.
		return b.constReg(LongConst(e.Value))
	case *hir.FloatLit:
		return b.constReg(e.Value)
	case *hir.CharLit:
		return b.constReg(e.Value)
	case *hir.StringLit:
		return b.constReg(e.Value)
	case *hir.BoolLit:
		return b.constReg(e.Value)
	case *hir.NullLit:
		return b.emitResult(OpConst, nil, nil)
	case *hir.ListLit:
		args := make([]Reg, len(e.Elems))
		for i, el := range e.Elems {
			args[i] = b.emitExpr(el)
		}
		return b.emitResult(OpMakeList, args, nil)
	case *hir.MapLit:
		args := make([]Reg, 0, 2*len(e.Entries))
		for _, en := range e.Entries {
			args = append(args, b.emitExpr(en.Key), b.emitExpr(en.Value))
		}
		return b.emitResult(OpMakeMap, args, nil)
	case *hir.SetLit:
		args := make([]Reg, len(e.Elems))
		for i, el := range e.Elems {
			args[i] = b.emitExpr(el)
		}
		return b.emitResult(OpMakeSet, args, nil)
	case *hir.PairExpr:
		return b.emitResult(OpMakePair, []Reg{b.emitExpr(e.First), b.emitExpr(e.Second)}, nil)
	case *hir.RangeExpr:
		step := Reg(-1)
		if e.Step != nil {
			step = b.emitExpr(e.Step)
		}
		args := []Reg{b.emitExpr(e.Start), b.emitExpr(e.End), step}
		return b.emitResult(OpMakeRange, args, [2]bool{e.Inclusive, e.Descending})
	case *hir.SpreadExpr:
		return b.emitResult(OpSpread, []Reg{b.emitExpr(e.X)}, nil)
	case *hir.UnaryExpr:
		return b.emitResult(OpUnary, []Reg{b.emitExpr(e.X)}, e.Op.String())
	case *hir.BinaryExpr:
		if e.Op == token.AND || e.Op == token.OR {
			return b.emitShortCircuit(e)
		}
		return b.emitResult(OpBinary, []Reg{b.emitExpr(e.X), b.emitExpr(e.Y)}, e.Op.String())
	case *hir.CallExpr:
		return b.emitCall(e)
	case *hir.IndexExpr:
		return b.emitResult(OpIndex, []Reg{b.emitExpr(e.X), b.emitExpr(e.Index)}, nil)
	case *hir.SelectorExpr:
		return b.emitResult(OpAttr, []Reg{b.emitExpr(e.X)}, e.Sel)
	case *hir.LambdaExpr:
		fn := b.buildFunc("<lambda>", e.Params, e.Body, nil, e.Locals, e.FreeVars, false, false)
		return b.emitMakeFunc(fn, e.FreeVars)
	case *hir.IsExpr:
		return b.emitResult(OpIs, []Reg{b.emitExpr(e.X)}, e.Type)
	case *hir.AsExpr:
		return b.emitResult(OpAs, []Reg{b.emitExpr(e.X)}, e.Type)
	case *hir.MethodRefExpr:
		return b.emitResult(OpMethodRef, []Reg{b.emitExpr(e.X)}, e.Method)
	case *hir.AsyncExpr:
		var dispatcher Reg = -1
		if e.Dispatcher != nil {
			dispatcher = b.emitExpr(e.Dispatcher)
		}
		thunk := b.buildFunc("<async>", nil, e.Body, nil, nil, nil, false, false)
		args := []Reg{}
		if dispatcher >= 0 {
			args = append(args, dispatcher)
		}
		return b.emitResult(OpAsync, args, thunk)
	case *hir.AwaitExpr:
		return b.emitResult(OpAwait, []Reg{b.emitExpr(e.X)}, nil)
	case *hir.ScopeExpr:
		var dispatcher Reg = -1
		if e.Dispatcher != nil {
			dispatcher = b.emitExpr(e.Dispatcher)
		}
		scope := b.emitResult(OpScopeEnter, nil, e.Supervisor)
		if e.Binding != nil {
			b.store(e.Binding, scope)
		}
		bodyResult := b.emitStmtsResult(e.Body.Stmts)
		// Args are always [scope, bodyResult, dispatcher?] — internal/machine's
		// OpScopeExit handler reads Args[1] as the body's own result (what
		// coroutineScope/supervisorScope returns once every child has
		// terminated) and Args[2], if present, as the dispatcher.
		args := []Reg{scope, bodyResult}
		if dispatcher >= 0 {
			args = append(args, dispatcher)
		}
		return b.emitResult(OpScopeExit, args, nil)
	case *hir.LetExpr:
		v := b.emitExpr(e.Value)
		b.store(e.Binding, v)
		return b.emitExpr(e.Body)
	case *hir.IfExpr:
		return b.emitIfExpr(e)
	case *hir.GuardReturnExpr:
		v := b.emitExpr(e.X)
		return b.emitResult(OpGuardReturn, []Reg{v}, nil)
	default:
		return b.emitResult(OpConst, nil, nil)
	}
}

// emitShortCircuit lowers `&&`/`||` with real control flow so the right
// operand is skipped when the left one already decides the result, instead
// of the simpler (but always-both-sides-evaluated) OpBinary form. The
// result register is written by OpCopy from both predecessors of `after`;
// see mir.OpCopy's doc comment on why that is sound for a non-SSA register
// set.
func (b *builder) emitShortCircuit(e *hir.BinaryExpr) Reg {
	lhs := b.emitExpr(e.X)
	result := b.newReg()
	b.emit(OpCopy, result, []Reg{lhs}, nil)

	rhsBlk := b.newBlock()
	after := b.newBlock()
	if e.Op == token.AND {
		b.terminateCondJump(lhs, rhsBlk, after)
	} else {
		b.terminateCondJump(lhs, after, rhsBlk)
	}

	b.switchTo(rhsBlk)
	rhs := b.emitExpr(e.Y)
	b.emit(OpCopy, result, []Reg{rhs}, nil)
	b.terminateJump(after)

	b.switchTo(after)
	return result
}

func (b *builder) emitIfExpr(e *hir.IfExpr) Reg {
	cond := b.emitExpr(e.Cond)
	thenBlk := b.newBlock()
	elseBlk := b.newBlock()
	after := b.newBlock()
	b.terminateCondJump(cond, thenBlk, elseBlk)
	result := b.newReg()

	b.switchTo(thenBlk)
	tv := b.emitExpr(e.Then)
	b.emit(OpCopy, result, []Reg{tv}, nil)
	b.terminateJump(after)

	b.switchTo(elseBlk)
	ev := b.emitExpr(e.Else)
	b.emit(OpCopy, result, []Reg{ev}, nil)
	b.terminateJump(after)

	b.switchTo(after)
	return result
}

func (b *builder) emitCall(e *hir.CallExpr) Reg {
	fn := b.emitExpr(e.Fun)
	info := &CallInfo{}
	args := []Reg{fn}
	for _, a := range e.Args {
		if _, ok := a.Value.(*hir.SpreadExpr); ok {
			info.Spread = true
		}
		if a.Name != "" {
			info.NamedNames = append(info.NamedNames, a.Name)
		} else {
			info.NumPositional++
		}
		args = append(args, b.emitExpr(a.Value))
	}
	return b.emitResult(OpCall, args, info)
}

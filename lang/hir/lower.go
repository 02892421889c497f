package hir

import (
	"fmt"

	"github.com/nova-lang/nova/lang/ast"
	"github.com/nova-lang/nova/lang/token"
)

// Lower turns a parsed chunk into an unresolved Program: every syntactic
// sugar form (when, string interpolation, pipeline, partial application,
// extension functions, elvis/safe-call/safe-index, chained comparisons,
// if-let, use) is expanded here, per spec.md §4.2; error-propagation `?`
// is kept as a GuardReturnExpr for lang/mir to lower. Name resolution
// happens separately, in Resolve.
func Lower(chunk *ast.Chunk) *Program {
	l := &lowerer{extMethods: map[string][]*FuncDecl{}}
	body := l.lowerStmts(chunk.Block.Stmts)
	return &Program{Name: chunk.Name, Body: body, ExtensionMethods: l.extMethods}
}

type lowerer struct {
	tmp        int
	extMethods map[string][]*FuncDecl
}

func (l *lowerer) newTemp() string {
	l.tmp++
	return fmt.Sprintf("$t%d", l.tmp)
}

func (l *lowerer) lowerStmts(stmts []ast.Stmt) []Stmt {
	out := make([]Stmt, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, l.lowerStmt(s)...)
	}
	return out
}

func (l *lowerer) lowerBlock(b *ast.Block) *BlockStmt {
	if b == nil {
		return &BlockStmt{}
	}
	return &BlockStmt{PosV: b.Start, Stmts: l.lowerStmts(b.Stmts)}
}

func (l *lowerer) lowerExprOrNil(e ast.Expr) Expr {
	if e == nil {
		return nil
	}
	return l.lowerExpr(e)
}

func (l *lowerer) lowerArgs(args []ast.Arg) []Arg {
	out := make([]Arg, len(args))
	for i, a := range args {
		out[i] = Arg{Name: a.Name, Value: l.lowerExpr(a.Value)}
	}
	return out
}

// lowerStmt returns one or more HIR statements for a single AST statement;
// most forms return exactly one, desugared forms (if-let, use) return
// several.
func (l *lowerer) lowerStmt(s ast.Stmt) []Stmt {
	switch s := s.(type) {
	case *ast.ValDeclStmt:
		return []Stmt{&ValDecl{PosV: s.Start, Name: s.Name, Value: l.lowerExpr(s.Value)}}

	case *ast.VarDeclStmt:
		return []Stmt{&VarDecl{PosV: s.Start, Name: s.Name, Value: l.lowerExprOrNil(s.Value)}}

	case *ast.AssignStmt:
		return l.lowerAssign(s)

	case *ast.ExprStmt:
		pos, _ := s.X.Span()
		return []Stmt{&ExprStmt{PosV: pos, X: l.lowerExpr(s.X)}}

	case *ast.FuncDeclStmt:
		return []Stmt{l.lowerFuncDecl(s, false)}

	case *ast.ClassDeclStmt:
		return []Stmt{l.lowerClassDecl(s)}

	case *ast.IfStmt:
		return []Stmt{l.lowerIf(s)}

	case *ast.IfLetStmt:
		return l.lowerIfLet(s)

	case *ast.WhileStmt:
		return []Stmt{&While{PosV: s.Start, Cond: l.lowerExpr(s.Cond), Body: l.lowerBlock(s.Body), Post: s.Post}}

	case *ast.ForInStmt:
		return l.lowerForIn(s)

	case *ast.ReturnStmt:
		return []Stmt{&Return{PosV: s.Start, Value: l.lowerExprOrNil(s.Value)}}

	case *ast.ThrowStmt:
		return []Stmt{&Throw{PosV: s.Start, Value: l.lowerExpr(s.Value)}}

	case *ast.BreakStmt:
		return []Stmt{&Break{PosV: s.Start}}

	case *ast.ContinueStmt:
		return []Stmt{&Continue{PosV: s.Start}}

	case *ast.TryStmt:
		catches := make([]*Catch, len(s.Catches))
		for i, c := range s.Catches {
			catches[i] = &Catch{Name: c.Name, Kind: c.Kind, Body: l.lowerBlock(c.Body)}
		}
		var fin *BlockStmt
		if s.Finally != nil {
			fin = l.lowerBlock(s.Finally)
		}
		return []Stmt{&TryStmt{PosV: s.Start, Body: l.lowerBlock(s.Body), Catches: catches, Finally: fin}}

	case *ast.UseStmt:
		return l.lowerUse(s)

	case *ast.ImportStmt:
		return []Stmt{&Import{PosV: s.Start, Spec: ImportSpec{
			Kind: s.Spec.Kind, Path: s.Spec.Path, Name: s.Spec.Name, Alias: s.Spec.Alias,
		}}}

	case *ast.BlockStmt:
		return []Stmt{l.lowerBlock(s.Block)}

	case *ast.LaunchStmt:
		return []Stmt{&LaunchStmt{PosV: s.Start, Dispatcher: l.lowerExprOrNil(s.Dispatcher), Body: l.lowerBlock(s.Body)}}

	default:
		panic(fmt.Sprintf("hir: unhandled ast statement %T", s))
	}
}

func (l *lowerer) lowerAssign(s *ast.AssignStmt) []Stmt {
	if s.Destructure || len(s.Targets) > 1 {
		names := make([]string, len(s.Targets))
		for i, t := range s.Targets {
			id, ok := t.(*ast.Ident)
			if !ok {
				panic("hir: non-ident target in destructuring assignment")
			}
			names[i] = id.Name
		}
		pos, _ := s.Targets[0].Span()
		return []Stmt{&DestructureStmt{PosV: pos, Names: names, Value: l.lowerExpr(s.Value)}}
	}

	target := l.lowerExpr(s.Targets[0])
	pos, _ := s.Targets[0].Span()

	switch s.Op {
	case token.EQ:
		return []Stmt{&Assign{PosV: pos, Target: target, Value: l.lowerExpr(s.Value)}}
	case token.ELVIS_EQ:
		tmp := l.newTemp()
		value := &LetExpr{
			PosV:  pos,
			Name:  tmp,
			Value: l.lowerExpr(s.Targets[0]),
			Body: &IfExpr{
				PosV: pos,
				Cond: &BinaryExpr{PosV: pos, Op: token.EQEQ, X: &Ident{PosV: pos, Name: tmp}, Y: &NullLit{PosV: pos}},
				Then: l.lowerExpr(s.Value),
				Else: &Ident{PosV: pos, Name: tmp},
			},
		}
		return []Stmt{&Assign{PosV: pos, Target: target, Value: value}}
	default:
		base := stripAugmented(s.Op)
		value := &BinaryExpr{PosV: pos, Op: base, X: l.lowerExpr(s.Targets[0]), Y: l.lowerExpr(s.Value)}
		return []Stmt{&Assign{PosV: pos, Target: target, Value: value}}
	}
}

func stripAugmented(op token.Token) token.Token {
	switch op {
	case token.PLUS_EQ:
		return token.PLUS
	case token.MINUS_EQ:
		return token.MINUS
	case token.STAR_EQ:
		return token.STAR
	case token.SLASH_EQ:
		return token.SLASH
	case token.PERCENT_EQ:
		return token.PERCENT
	default:
		panic(fmt.Sprintf("hir: unhandled augmented assignment operator %s", op))
	}
}

func (l *lowerer) lowerParams(params []*ast.Param) []*Param {
	out := make([]*Param, len(params))
	for i, p := range params {
		out[i] = &Param{
			PosV: p.Start, Kind: p.Kind, Name: p.Name, Type: p.Type,
			Default: l.lowerExprOrNil(p.Default), Variadic: p.Variadic,
		}
	}
	return out
}

func (l *lowerer) lowerFuncDecl(s *ast.FuncDeclStmt, isStatic bool) *FuncDecl {
	fd := &FuncDecl{
		PosV: s.Start, Name: s.Name, Receiver: s.Receiver,
		Params: l.lowerParams(s.Params), IsStatic: isStatic,
	}
	if s.Receiver != "" {
		fd.Params = append([]*Param{{PosV: s.Start, Name: "this", Type: s.Receiver}}, fd.Params...)
	}
	if s.Body != nil {
		fd.Body = l.lowerBlock(s.Body)
	}
	if s.ExprBody != nil {
		fd.ExprBody = l.lowerExpr(s.ExprBody)
	}
	if s.Receiver != "" {
		l.extMethods[s.Receiver] = append(l.extMethods[s.Receiver], fd)
	}
	return fd
}

func (l *lowerer) lowerClassDecl(s *ast.ClassDeclStmt) *ClassDecl {
	cd := &ClassDecl{
		PosV: s.Start, Name: s.Name, Kind: s.Kind, Open: s.Open,
		CtorParams: l.lowerParams(s.Params),
		SuperName:  s.SuperName, SuperArgs: l.lowerArgs(s.SuperArgs), Interfaces: s.Interfaces,
	}
	for _, a := range s.Annotations {
		cd.Annotations = append(cd.Annotations, &Annotation{Name: a.Name, Args: l.lowerArgs(a.Args)})
	}
	for _, m := range s.Members {
		switch {
		case m.Method != nil:
			cd.Methods = append(cd.Methods, l.lowerFuncDecl(m.Method, m.IsStatic))
		case m.Field != nil:
			cd.Fields = append(cd.Fields, &FieldDecl{Name: m.Field.Name, Mutable: false, Value: l.lowerExpr(m.Field.Value), IsStatic: m.IsStatic})
		case m.FieldVar != nil:
			cd.Fields = append(cd.Fields, &FieldDecl{Name: m.FieldVar.Name, Mutable: true, Value: l.lowerExprOrNil(m.FieldVar.Value), IsStatic: m.IsStatic})
		case m.Init != nil:
			cd.Inits = append(cd.Inits, l.lowerExpr(m.Init))
		}
	}
	return cd
}

func (l *lowerer) lowerIf(s *ast.IfStmt) *If {
	n := &If{PosV: s.Start, Cond: l.lowerExpr(s.Cond), Then: l.lowerBlock(s.Then)}
	switch e := s.Else.(type) {
	case *ast.IfStmt:
		n.Else = l.lowerIf(e)
	case *ast.BlockStmt:
		n.Else = l.lowerBlock(e.Block)
	}
	return n
}

func (l *lowerer) lowerIfLet(s *ast.IfLetStmt) []Stmt {
	tmp := l.newTemp()
	thenStmts := append([]Stmt{&ValDecl{PosV: s.Start, Name: s.Name, Value: &Ident{PosV: s.Start, Name: tmp}}}, l.lowerBlock(s.Then).Stmts...)

	var elseStmt Stmt
	if s.Else != nil {
		elseStmt = l.lowerBlock(s.Else)
	}

	cond := &BinaryExpr{PosV: s.Start, Op: token.NEQ, X: &Ident{PosV: s.Start, Name: tmp}, Y: &NullLit{PosV: s.Start}}
	return []Stmt{
		&ValDecl{PosV: s.Start, Name: tmp, Value: l.lowerExpr(s.Value)},
		&If{PosV: s.Start, Cond: cond, Then: &BlockStmt{PosV: s.Start, Stmts: thenStmts}, Else: elseStmt},
	}
}

func (l *lowerer) lowerForIn(s *ast.ForInStmt) []Stmt {
	if len(s.Names) == 1 {
		return []Stmt{&ForIn{PosV: s.Start, Name: s.Names[0], Iter: l.lowerExpr(s.Iter), Body: l.lowerBlock(s.Body)}}
	}
	tmp := l.newTemp()
	body := l.lowerBlock(s.Body)
	body.Stmts = append([]Stmt{&DestructureStmt{PosV: s.Start, Names: s.Names, Value: &Ident{PosV: s.Start, Name: tmp}}}, body.Stmts...)
	return []Stmt{&ForIn{PosV: s.Start, Name: tmp, Iter: l.lowerExpr(s.Iter), Body: body}}
}

func (l *lowerer) lowerUse(s *ast.UseStmt) []Stmt {
	closeCall := &ExprStmt{PosV: s.Start, X: &CallExpr{
		PosV: s.Start,
		Fun:  &SelectorExpr{PosV: s.Start, X: &Ident{PosV: s.Start, Name: s.Name}, Sel: "close"},
	}}
	return []Stmt{
		&ValDecl{PosV: s.Start, Name: s.Name, Value: l.lowerExpr(s.Value)},
		&TryStmt{
			PosV:    s.Start,
			Body:    l.lowerBlock(s.Body),
			Finally: &BlockStmt{PosV: s.Start, Stmts: []Stmt{closeCall}},
		},
	}
}

func (l *lowerer) lowerExpr(e ast.Expr) Expr {
	switch e := e.(type) {
	case *ast.Ident:
		return &Ident{PosV: e.Start, Name: e.Name}
	case *ast.IntLit:
		return &IntLit{PosV: e.Start, Value: e.Value}
	case *ast.LongLit:
		return &LongLit{PosV: e.Start, Value: e.Value}
	case *ast.FloatLit:
		return &FloatLit{PosV: e.Start, Value: e.Value}
	case *ast.CharLit:
		return &CharLit{PosV: e.Start, Value: e.Value}
	case *ast.StringLit:
		return &StringLit{PosV: e.Start, Value: e.Value}
	case *ast.InterpStringLit:
		return l.lowerInterp(e)
	case *ast.BoolLit:
		return &BoolLit{PosV: e.Start, Value: e.Value}
	case *ast.NullLit:
		return &NullLit{PosV: e.Start}
	case *ast.ListLit:
		elems := make([]Expr, len(e.Elems))
		for i, el := range e.Elems {
			elems[i] = l.lowerExpr(el)
		}
		return &ListLit{PosV: e.Start, Elems: elems}
	case *ast.MapLit:
		entries := make([]MapEntry, len(e.Entries))
		for i, en := range e.Entries {
			entries[i] = MapEntry{Key: l.lowerExpr(en.Key), Value: l.lowerExpr(en.Value)}
		}
		return &MapLit{PosV: e.Start, Entries: entries}
	case *ast.SetLit:
		elems := make([]Expr, len(e.Elems))
		for i, el := range e.Elems {
			elems[i] = l.lowerExpr(el)
		}
		return &SetLit{PosV: e.Start, Elems: elems}
	case *ast.PairExpr:
		pos, _ := e.Span()
		return &PairExpr{PosV: pos, First: l.lowerExpr(e.First), Second: l.lowerExpr(e.Second)}
	case *ast.RangeExpr:
		pos, _ := e.Span()
		n := &RangeExpr{PosV: pos, Start: l.lowerExpr(e.Start), End: l.lowerExpr(e.End), Step: l.lowerExprOrNil(e.Step)}
		switch e.Op {
		case token.DOTDOT:
			n.Inclusive = true
		case token.DOTDOTLT:
			n.Inclusive = false
		case token.DOWNTO:
			n.Inclusive = true
			n.Descending = true
		}
		return n
	case *ast.SpreadExpr:
		return &SpreadExpr{PosV: e.Start, X: l.lowerExpr(e.X)}
	case *ast.UnaryExpr:
		return &UnaryExpr{PosV: e.OpPos, Op: e.Op, X: l.lowerExpr(e.X)}
	case *ast.BinaryExpr:
		return &BinaryExpr{PosV: e.OpPos, Op: e.Op, X: l.lowerExpr(e.X), Y: l.lowerExpr(e.Y)}
	case *ast.ChainCompareExpr:
		return l.lowerChainCompare(e)
	case *ast.ParenExpr:
		return l.lowerExpr(e.X)
	case *ast.CallExpr:
		return &CallExpr{PosV: e.End, Fun: l.lowerExpr(e.Fun), Args: l.lowerArgs(e.Args)}
	case *ast.IndexExpr:
		return &IndexExpr{PosV: e.End, X: l.lowerExpr(e.X), Index: l.lowerExpr(e.Index)}
	case *ast.SelectorExpr:
		return &SelectorExpr{PosV: e.End, X: l.lowerExpr(e.X), Sel: e.Sel}
	case *ast.SafeSelectorExpr:
		return l.lowerSafeSelector(e)
	case *ast.SafeIndexExpr:
		return l.lowerSafeIndex(e)
	case *ast.ElvisExpr:
		return l.lowerElvis(e)
	case *ast.PostfixQuestionExpr:
		return &GuardReturnExpr{PosV: e.End, X: l.lowerExpr(e.X)}
	case *ast.LambdaExpr:
		return &LambdaExpr{PosV: e.Start, Params: l.lowerParams(e.Params), Body: l.lowerBlock(e.Body)}
	case *ast.PartialCallExpr:
		return l.lowerPartialCall(e)
	case *ast.PipelineExpr:
		return l.lowerPipeline(e)
	case *ast.WhenExpr:
		return l.lowerWhen(e)
	case *ast.IfExpr:
		n := &IfExpr{PosV: e.Start, Cond: l.lowerExpr(e.Cond), Then: l.lowerExpr(e.Then)}
		if e.Else != nil {
			n.Else = l.lowerExpr(e.Else)
		} else {
			n.Else = &NullLit{PosV: e.End}
		}
		return n
	case *ast.IsExpr:
		return &IsExpr{PosV: e.End, X: l.lowerExpr(e.X), Type: e.Type}
	case *ast.AsExpr:
		return &AsExpr{PosV: e.End, X: l.lowerExpr(e.X), Type: e.Type}
	case *ast.MethodRefExpr:
		return &MethodRefExpr{PosV: e.End, X: l.lowerExpr(e.X), Method: e.Method}
	case *ast.AsyncExpr:
		return &AsyncExpr{PosV: e.Start, Dispatcher: l.lowerExprOrNil(e.Dispatcher), Body: l.lowerBlock(e.Body)}
	case *ast.AwaitExpr:
		return &AwaitExpr{PosV: e.Start, X: l.lowerExpr(e.X)}
	case *ast.ScopeExpr:
		return &ScopeExpr{PosV: e.Start, Supervisor: e.Supervisor, Dispatcher: l.lowerExprOrNil(e.Dispatcher), Param: e.Param, Body: l.lowerBlock(e.Body)}
	default:
		panic(fmt.Sprintf("hir: unhandled ast expression %T", e))
	}
}

// lowerInterp expands "lit0 $a lit1 ${b+1} lit2" into a left-associative
// `+` chain calling the canonical toString() on each embedded expression
// (spec.md §4.2, §4.4).
func (l *lowerer) lowerInterp(e *ast.InterpStringLit) Expr {
	var result Expr = &StringLit{PosV: e.Start, Value: e.Parts[0]}
	for i, ex := range e.Exprs {
		call := &CallExpr{PosV: e.End, Fun: &Ident{PosV: e.Start, Name: "toString"}, Args: []Arg{{Value: l.lowerExpr(ex)}}}
		result = &BinaryExpr{PosV: e.Start, Op: token.PLUS, X: result, Y: call}
		if i+1 < len(e.Parts) && e.Parts[i+1] != "" {
			result = &BinaryExpr{PosV: e.Start, Op: token.PLUS, X: result, Y: &StringLit{PosV: e.Start, Value: e.Parts[i+1]}}
		}
	}
	return result
}

func (l *lowerer) lowerChainCompare(e *ast.ChainCompareExpr) Expr {
	pos, _ := e.Span()
	n := len(e.Operands)
	names := make([]string, n)
	for i := range names {
		names[i] = l.newTemp()
	}

	var body Expr = &BinaryExpr{PosV: pos, Op: e.Ops[0], X: &Ident{PosV: pos, Name: names[0]}, Y: &Ident{PosV: pos, Name: names[1]}}
	for i := 1; i < len(e.Ops); i++ {
		cmp := &BinaryExpr{PosV: pos, Op: e.Ops[i], X: &Ident{PosV: pos, Name: names[i]}, Y: &Ident{PosV: pos, Name: names[i+1]}}
		body = &BinaryExpr{PosV: pos, Op: token.AND, X: body, Y: cmp}
	}

	result := body
	for i := n - 1; i >= 0; i-- {
		result = &LetExpr{PosV: pos, Name: names[i], Value: l.lowerExpr(e.Operands[i]), Body: result}
	}
	return result
}

func (l *lowerer) lowerSafeSelector(e *ast.SafeSelectorExpr) Expr {
	pos, _ := e.Span()
	tmp := l.newTemp()
	return &LetExpr{
		PosV: pos, Name: tmp, Value: l.lowerExpr(e.X),
		Body: &IfExpr{
			PosV: pos,
			Cond: &BinaryExpr{PosV: pos, Op: token.EQEQ, X: &Ident{PosV: pos, Name: tmp}, Y: &NullLit{PosV: pos}},
			Then: &NullLit{PosV: pos},
			Else: &SelectorExpr{PosV: e.End, X: &Ident{PosV: pos, Name: tmp}, Sel: e.Sel},
		},
	}
}

func (l *lowerer) lowerSafeIndex(e *ast.SafeIndexExpr) Expr {
	pos, _ := e.Span()
	tmp := l.newTemp()
	return &LetExpr{
		PosV: pos, Name: tmp, Value: l.lowerExpr(e.X),
		Body: &IfExpr{
			PosV: pos,
			Cond: &BinaryExpr{PosV: pos, Op: token.EQEQ, X: &Ident{PosV: pos, Name: tmp}, Y: &NullLit{PosV: pos}},
			Then: &NullLit{PosV: pos},
			Else: &IndexExpr{PosV: e.End, X: &Ident{PosV: pos, Name: tmp}, Index: l.lowerExpr(e.Index)},
		},
	}
}

func (l *lowerer) lowerElvis(e *ast.ElvisExpr) Expr {
	pos, _ := e.Span()
	tmp := l.newTemp()
	return &LetExpr{
		PosV: pos, Name: tmp, Value: l.lowerExpr(e.X),
		Body: &IfExpr{
			PosV: pos,
			Cond: &BinaryExpr{PosV: pos, Op: token.EQEQ, X: &Ident{PosV: pos, Name: tmp}, Y: &NullLit{PosV: pos}},
			Then: l.lowerExpr(e.Y),
			Else: &Ident{PosV: pos, Name: tmp},
		},
	}
}

// lowerPartialCall turns `f(_, x)` into a lambda synthesizing one parameter
// per `_` placeholder and calling through to f with those params spliced
// back in (spec.md §4.2).
func (l *lowerer) lowerPartialCall(e *ast.PartialCallExpr) Expr {
	pos, _ := e.Span()
	var params []*Param
	args := make([]Arg, len(e.Args))
	ph := 0
	for i, a := range e.Args {
		if id, ok := a.Value.(*ast.Ident); ok && id.Name == "_" {
			pname := fmt.Sprintf("$p%d", ph)
			ph++
			params = append(params, &Param{PosV: pos, Name: pname})
			args[i] = Arg{Name: a.Name, Value: &Ident{PosV: pos, Name: pname}}
		} else {
			args[i] = Arg{Name: a.Name, Value: l.lowerExpr(a.Value)}
		}
	}
	call := &CallExpr{PosV: pos, Fun: l.lowerExpr(e.Fun), Args: args}
	body := &BlockStmt{PosV: pos, Stmts: []Stmt{&Return{PosV: pos, Value: call}}}
	return &LambdaExpr{PosV: pos, Params: params, Body: body}
}

// lowerPipeline turns `a |> f` into `f(a)`, splicing `a` directly into the
// hole of a partial application target instead of calling through a
// synthesized lambda when possible.
func (l *lowerer) lowerPipeline(e *ast.PipelineExpr) Expr {
	pos, _ := e.Span()
	if pc, ok := e.F.(*ast.PartialCallExpr); ok {
		args := make([]Arg, len(pc.Args))
		filled := false
		for i, a := range pc.Args {
			if id, ok := a.Value.(*ast.Ident); ok && id.Name == "_" && !filled {
				args[i] = Arg{Name: a.Name, Value: l.lowerExpr(e.X)}
				filled = true
			} else {
				args[i] = Arg{Name: a.Name, Value: l.lowerExpr(a.Value)}
			}
		}
		return &CallExpr{PosV: pos, Fun: l.lowerExpr(pc.Fun), Args: args}
	}
	return &CallExpr{PosV: pos, Fun: l.lowerExpr(e.F), Args: []Arg{{Value: l.lowerExpr(e.X)}}}
}

// lowerWhen expands `when` into a chain of IfExprs, binding the subject (if
// any) once via a LetExpr so repeated branch comparisons evaluate it only
// once (spec.md §4.2).
func (l *lowerer) lowerWhen(e *ast.WhenExpr) Expr {
	pos, _ := e.Span()
	subjectTmp := ""
	if e.Subject != nil {
		subjectTmp = l.newTemp()
	}

	var result Expr = &NullLit{PosV: e.End}
	for i := len(e.Branches) - 1; i >= 0; i-- {
		br := e.Branches[i]
		body := l.lowerExpr(br.Body)
		if br.Cond == nil {
			result = body
			continue
		}
		var cond Expr
		if subjectTmp != "" {
			cond = &BinaryExpr{PosV: pos, Op: token.EQEQ, X: &Ident{PosV: pos, Name: subjectTmp}, Y: l.lowerExpr(br.Cond)}
		} else {
			cond = l.lowerExpr(br.Cond)
		}
		result = &IfExpr{PosV: pos, Cond: cond, Then: body, Else: result}
	}

	if subjectTmp != "" {
		result = &LetExpr{PosV: pos, Name: subjectTmp, Value: l.lowerExpr(e.Subject), Body: result}
	}
	return result
}

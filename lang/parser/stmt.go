package parser

import (
	"strings"

	"github.com/nova-lang/nova/lang/ast"
	"github.com/nova-lang/nova/lang/token"
)

func (p *parser) parseStmt() ast.Stmt {
	switch p.tok.Kind {
	case token.AT:
		return p.parseAnnotatedDecl()
	case token.VAL:
		if p.next.Kind == token.LPAREN {
			return p.parseDestructureDecl()
		}
		return p.parseValOrLetIntro()
	case token.VAR:
		return p.parseVarDecl()
	case token.FUN:
		return p.parseFuncDecl()
	case token.OPEN, token.CLASS, token.INTERFACE, token.OBJECT, token.ANNOTATION:
		return p.parseClassDecl(nil)
	case token.IF:
		return p.parseIfOrIfLet()
	case token.WHILE:
		return p.parseWhile()
	case token.DO:
		return p.parseDoWhile()
	case token.FOR:
		return p.parseForIn()
	case token.RETURN:
		start := p.tok.Pos
		p.advance()
		var val ast.Expr
		if !p.at(token.SEMI) && !p.at(token.RBRACE) && !p.at(token.EOF) {
			val = p.parseExpr()
		}
		return &ast.ReturnStmt{Start: start, Value: val}
	case token.THROW:
		start := p.tok.Pos
		p.advance()
		return &ast.ThrowStmt{Start: start, Value: p.parseExpr()}
	case token.BREAK:
		start := p.tok.Pos
		p.advance()
		return &ast.BreakStmt{Start: start}
	case token.CONTINUE:
		start := p.tok.Pos
		p.advance()
		return &ast.ContinueStmt{Start: start}
	case token.TRY:
		return p.parseTry()
	case token.USE:
		return p.parseUse()
	case token.IMPORT:
		return p.parseImport()
	case token.LAUNCH:
		return p.parseLaunchStmt()
	case token.LBRACE:
		return &ast.BlockStmt{Block: p.parseBraceBlock()}
	default:
		return p.parseSimpleStmt()
	}
}

// parseAnnotatedDecl parses `@name(args) @name2 class/fun ...`.
func (p *parser) parseAnnotatedDecl() ast.Stmt {
	var anns []*ast.Annotation
	for p.at(token.AT) {
		anns = append(anns, p.parseAnnotation())
	}
	return p.parseClassDecl(anns)
}

func (p *parser) parseAnnotation() *ast.Annotation {
	start := p.tok.Pos
	p.expect(token.AT)
	name := p.expect(token.IDENT).Lit
	a := &ast.Annotation{Start: start, Name: name}
	if p.accept(token.LPAREN) {
		for !p.at(token.RPAREN) && !p.at(token.EOF) {
			a.Args = append(a.Args, p.parseArg())
			if !p.accept(token.COMMA) {
				break
			}
		}
		p.expect(token.RPAREN)
	}
	a.End = p.tok.Pos
	return a
}

func (p *parser) parseValOrLetIntro() ast.Stmt {
	start := p.tok.Pos
	p.advance() // val
	name := p.expect(token.IDENT).Lit
	p.skipTypeAnnotation()
	p.expect(token.EQ)
	value := p.parseExpr()
	return &ast.ValDeclStmt{Start: start, Name: name, Value: value}
}

// parseDestructureDecl parses `val (a, b, c) = expr`, binding each name as an
// immutable local sourced from the corresponding component of expr.
func (p *parser) parseDestructureDecl() ast.Stmt {
	p.advance() // val
	p.advance() // (
	var names []string
	names = append(names, p.expect(token.IDENT).Lit)
	for p.accept(token.COMMA) {
		names = append(names, p.expect(token.IDENT).Lit)
	}
	p.expect(token.RPAREN)
	p.expect(token.EQ)
	val := p.parseExpr()
	targets := make([]ast.Expr, len(names))
	for i, n := range names {
		targets[i] = &ast.Ident{Name: n}
	}
	return &ast.AssignStmt{Targets: targets, Op: token.EQ, Value: val, Destructure: true}
}

// skipTypeAnnotation consumes an optional `: Type` or `: Type?` suffix after
// a val/var name or parameter; types are informational only at this stage.
func (p *parser) skipTypeAnnotation() {
	if p.accept(token.COLON) {
		p.expect(token.IDENT)
		for p.accept(token.DOT) {
			p.expect(token.IDENT)
		}
		p.accept(token.QUESTION)
	}
}

func (p *parser) parseVarDecl() ast.Stmt {
	start := p.tok.Pos
	p.advance() // var
	name := p.expect(token.IDENT).Lit
	p.skipTypeAnnotation()
	var val ast.Expr
	if p.accept(token.EQ) {
		val = p.parseExpr()
	}
	return &ast.VarDeclStmt{Start: start, Name: name, Value: val, End: p.tok.Pos}
}

func (p *parser) parseParamList() []*ast.Param {
	p.expect(token.LPAREN)
	var params []*ast.Param
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		params = append(params, p.parseParam())
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return params
}

func (p *parser) parseParam() *ast.Param {
	start := p.tok.Pos
	param := &ast.Param{Start: start}
	if p.at(token.VAL) || p.at(token.VAR) {
		param.Kind = p.tok.Kind.String()
		p.advance()
	}
	if p.accept(token.STAR) {
		param.Variadic = true
	}
	param.Name = p.expect(token.IDENT).Lit
	if p.accept(token.COLON) {
		param.Type = p.expect(token.IDENT).Lit
		for p.accept(token.DOT) {
			param.Type += "." + p.expect(token.IDENT).Lit
		}
	}
	if p.accept(token.EQ) {
		param.Default = p.parseExpr()
	}
	param.End = p.tok.Pos
	return param
}

func (p *parser) parseFuncDecl() ast.Stmt {
	start := p.tok.Pos
	p.advance() // fun
	var receiver string
	name := p.expect(token.IDENT).Lit
	if p.accept(token.DOT) {
		receiver = name
		name = p.expect(token.IDENT).Lit
	}
	params := p.parseParamList()
	if p.accept(token.COLON) {
		p.expect(token.IDENT) // return type, informational only
	}
	fd := &ast.FuncDeclStmt{Start: start, Name: name, Receiver: receiver, Params: params}
	if p.accept(token.EQ) {
		fd.ExprBody = p.parseExpr()
	} else {
		fd.Body = p.parseBraceBlock()
	}
	fd.End = p.tok.Pos
	return fd
}

func (p *parser) parseClassDecl(anns []*ast.Annotation) ast.Stmt {
	start := p.tok.Pos
	var open bool
	if p.accept(token.OPEN) {
		open = true
	}
	kind := p.tok.Kind.String() // "class", "interface", "object", "annotation"
	switch p.tok.Kind {
	case token.CLASS, token.INTERFACE, token.OBJECT:
		p.advance()
	case token.ANNOTATION:
		p.advance()
		p.expect(token.CLASS)
		kind = "annotation"
	default:
		p.errorf(p.tok.Pos, "expected class/interface/object/annotation, got %s", p.tok.Kind)
	}
	name := p.expect(token.IDENT).Lit

	cd := &ast.ClassDeclStmt{Start: start, Annotations: anns, Kind: kind, Open: open, Name: name}
	if p.at(token.LPAREN) {
		cd.Params = p.parseParamList()
	}
	if p.accept(token.COLON) {
		cd.SuperName = p.expect(token.IDENT).Lit
		if p.accept(token.LPAREN) {
			for !p.at(token.RPAREN) && !p.at(token.EOF) {
				cd.SuperArgs = append(cd.SuperArgs, p.parseArg())
				if !p.accept(token.COMMA) {
					break
				}
			}
			p.expect(token.RPAREN)
		}
		for p.accept(token.COMMA) {
			cd.Interfaces = append(cd.Interfaces, p.expect(token.IDENT).Lit)
		}
	}
	if p.accept(token.LBRACE) {
		for !p.at(token.RBRACE) && !p.at(token.EOF) {
			cd.Members = append(cd.Members, p.parseClassMember())
			p.skipSemis()
		}
		p.expect(token.RBRACE)
	}
	cd.End = p.tok.Pos
	return cd
}

func (p *parser) parseClassMember() ast.ClassMember {
	var m ast.ClassMember
	if p.accept(token.STATIC) {
		m.IsStatic = true
	}
	switch p.tok.Kind {
	case token.FUN:
		decl := p.parseFuncDecl().(*ast.FuncDeclStmt)
		m.Method = decl
	case token.VAL:
		v := p.parseValOrLetIntro().(*ast.ValDeclStmt)
		m.Field = v
	case token.VAR:
		v := p.parseVarDecl().(*ast.VarDeclStmt)
		m.FieldVar = v
	default:
		m.Init = p.parseExpr()
	}
	return m
}

func (p *parser) parseIfOrIfLet() ast.Stmt {
	start := p.tok.Pos
	p.advance() // if
	p.expect(token.LPAREN)
	if p.at(token.VAL) {
		p.advance()
		name := p.expect(token.IDENT).Lit
		p.expect(token.EQ)
		val := p.parseExpr()
		p.expect(token.RPAREN)
		then := p.parseBraceBlock()
		var els *ast.Block
		if p.accept(token.ELSE) {
			els = p.parseBraceBlock()
		}
		return &ast.IfLetStmt{Start: start, Name: name, Value: val, Then: then, Else: els}
	}
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	then := p.parseBraceBlock()
	ifs := &ast.IfStmt{Start: start, Cond: cond, Then: then}
	if p.accept(token.ELSE) {
		if p.at(token.IF) {
			ifs.Else = p.parseIfOrIfLet()
		} else {
			ifs.Else = &ast.BlockStmt{Block: p.parseBraceBlock()}
		}
	}
	return ifs
}

func (p *parser) parseWhile() ast.Stmt {
	start := p.tok.Pos
	p.advance() // while
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	body := p.parseBraceBlock()
	return &ast.WhileStmt{Start: start, Cond: cond, Body: body}
}

func (p *parser) parseDoWhile() ast.Stmt {
	start := p.tok.Pos
	p.advance() // do
	body := p.parseBraceBlock()
	p.expect(token.WHILE)
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	return &ast.WhileStmt{Start: start, Cond: cond, Body: body, Post: true}
}

func (p *parser) parseForIn() ast.Stmt {
	start := p.tok.Pos
	p.advance() // for
	p.expect(token.LPAREN)
	var names []string
	names = append(names, p.expect(token.IDENT).Lit)
	for p.accept(token.COMMA) {
		names = append(names, p.expect(token.IDENT).Lit)
	}
	p.expect(token.IN)
	iter := p.parseExpr()
	p.expect(token.RPAREN)
	body := p.parseBraceBlock()
	return &ast.ForInStmt{Start: start, Names: names, Iter: iter, Body: body}
}

func (p *parser) parseTry() ast.Stmt {
	start := p.tok.Pos
	p.advance() // try
	body := p.parseBraceBlock()
	ts := &ast.TryStmt{Start: start, Body: body}
	for p.accept(token.CATCH) {
		p.expect(token.LPAREN)
		name := p.expect(token.IDENT).Lit
		var kind string
		if p.accept(token.COLON) {
			kind = p.expect(token.IDENT).Lit
		}
		p.expect(token.RPAREN)
		cbody := p.parseBraceBlock()
		ts.Catches = append(ts.Catches, ast.CatchClause{Name: name, Kind: kind, Body: cbody})
	}
	if p.accept(token.FINALLY) {
		ts.Finally = p.parseBraceBlock()
	}
	ts.End = p.tok.Pos
	return ts
}

func (p *parser) parseUse() ast.Stmt {
	start := p.tok.Pos
	p.advance() // use
	p.expect(token.LPAREN)
	p.expect(token.VAL)
	name := p.expect(token.IDENT).Lit
	p.expect(token.EQ)
	val := p.parseExpr()
	p.expect(token.RPAREN)
	body := p.parseBraceBlock()
	return &ast.UseStmt{Start: start, Name: name, Value: val, Body: body}
}

// parseImport parses every import form: plain/aliased symbol imports, `.*`
// wildcards, `import java ...` host interop paths, and `import static ...`
// member imports. The dotted path is read greedily; its last segment is the
// imported symbol (or, with a trailing `.*`, the wildcard marker) and every
// segment before it is the module or host class path.
func (p *parser) parseImport() ast.Stmt {
	start := p.tok.Pos
	p.advance() // import

	spec := ast.ImportSpec{Kind: "symbol"}
	isJava := false
	if p.tok.Kind == token.IDENT && p.tok.Lit == "java" {
		isJava = true
		p.advance()
	} else if p.at(token.STATIC) {
		spec.Kind = "static"
		p.advance()
	}

	segs := []string{p.expect(token.IDENT).Lit}
	wildcard := false
	for p.accept(token.DOT) {
		if p.accept(token.STAR) {
			wildcard = true
			break
		}
		segs = append(segs, p.expect(token.IDENT).Lit)
	}

	switch {
	case wildcard:
		spec.Path = strings.Join(segs, ".")
		if isJava {
			spec.Kind = "javaWildcard"
		} else {
			spec.Kind = "wildcard"
		}
	case len(segs) > 1:
		spec.Path = strings.Join(segs[:len(segs)-1], ".")
		spec.Name = segs[len(segs)-1]
		if isJava {
			spec.Kind = "java"
		}
	default:
		spec.Path = segs[0]
		if isJava {
			spec.Kind = "java"
		}
	}

	if p.at(token.AS) {
		p.advance()
		spec.Alias = p.expect(token.IDENT).Lit
		if spec.Kind == "symbol" {
			spec.Kind = "alias"
		}
	}
	return &ast.ImportStmt{Start: start, Spec: spec, End: p.tok.Pos}
}

func (p *parser) parseLaunchStmt() ast.Stmt {
	start := p.tok.Pos
	p.advance() // launch
	var dispatcher ast.Expr
	if p.accept(token.LPAREN) {
		dispatcher = p.parseExpr()
		p.expect(token.RPAREN)
	}
	body := p.parseBraceBlock()
	return &ast.LaunchStmt{Start: start, Dispatcher: dispatcher, Body: body, End: p.tok.Pos}
}

// parseSimpleStmt handles plain expression statements and (augmented)
// assignment; `val (a,b,c) = x` destructuring is intercepted earlier in
// parseStmt and never reaches here.
func (p *parser) parseSimpleStmt() ast.Stmt {
	first := p.parseExpr()
	switch p.tok.Kind {
	case token.EQ, token.PLUS_EQ, token.MINUS_EQ, token.STAR_EQ, token.SLASH_EQ, token.PERCENT_EQ, token.ELVIS_EQ:
		op := p.tok.Kind
		p.advance()
		val := p.parseExpr()
		return &ast.AssignStmt{Targets: []ast.Expr{first}, Op: op, Value: val}
	case token.COMMA:
		targets := []ast.Expr{first}
		for p.accept(token.COMMA) {
			targets = append(targets, p.parseExpr())
		}
		p.expect(token.EQ)
		val := p.parseExpr()
		return &ast.AssignStmt{Targets: targets, Op: token.EQ, Value: val}
	default:
		return &ast.ExprStmt{X: first}
	}
}

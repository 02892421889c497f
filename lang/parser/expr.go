package parser

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/nova-lang/nova/lang/ast"
	"github.com/nova-lang/nova/lang/scanner"
	"github.com/nova-lang/nova/lang/token"
)

// ParseExprString parses a standalone expression, used to parse the
// `${...}` interpolation segments embedded in string literals.
func ParseExprString(src string) (ast.Expr, error) {
	p := &parser{sc: scanner.New("<interp>", []byte(src))}
	p.advance()
	p.advance()
	e := p.parseExpr()
	if len(p.errs) > 0 {
		return e, p.errs
	}
	return e, nil
}

func (p *parser) parseExpr() ast.Expr {
	x := p.parseBinary(token.PrecOr)
	if p.tok.Kind == token.IDENT && p.tok.Lit == "to" {
		p.advance()
		y := p.parseBinary(token.PrecOr)
		return &ast.PairExpr{First: x, Second: y}
	}
	return x
}

func (p *parser) parseBinary(minPrec int) ast.Expr {
	x := p.parseUnary()
	for {
		if p.at(token.NOT) && p.next.Kind == token.IN {
			if token.PrecRelational < minPrec {
				break
			}
			p.advance()
			p.advance()
			y := p.parseBinary(token.PrecRelational + 1)
			x = &ast.BinaryExpr{X: x, Op: token.NOT_IN, Y: y}
			continue
		}

		op := p.tok.Kind
		prec := op.Precedence()
		if prec == 0 || prec < minPrec {
			break
		}

		switch op {
		case token.IS:
			p.advance()
			typ := p.parseTypeName()
			x = &ast.IsExpr{X: x, Type: typ, End: p.tok.Pos}
		case token.AS:
			p.advance()
			typ := p.parseTypeName()
			x = &ast.AsExpr{X: x, Type: typ, End: p.tok.Pos}
		case token.ELVIS:
			p.advance()
			y := p.parseBinary(prec + 1)
			x = &ast.ElvisExpr{X: x, Y: y}
		case token.PIPEGT:
			p.advance()
			y := p.parseBinary(prec + 1)
			x = &ast.PipelineExpr{X: x, F: y}
		case token.DOTDOT, token.DOTDOTLT, token.DOWNTO:
			p.advance()
			y := p.parseBinary(prec + 1)
			x = &ast.RangeExpr{Start: x, Op: op, End: y}
		default:
			opPos := p.tok.Pos
			p.advance()
			y := p.parseBinary(prec + 1)
			x = &ast.BinaryExpr{X: x, OpPos: opPos, Op: op, Y: y}
		}
	}
	return x
}

func (p *parser) parseTypeName() string {
	name := p.expect(token.IDENT).Lit
	for p.accept(token.DOT) {
		name += "." + p.expect(token.IDENT).Lit
	}
	if p.accept(token.QUESTION) {
		name += "?"
	}
	return name
}

func (p *parser) parseUnary() ast.Expr {
	switch p.tok.Kind {
	case token.NOT, token.MINUS:
		pos, op := p.tok.Pos, p.tok.Kind
		p.advance()
		return &ast.UnaryExpr{OpPos: pos, Op: op, X: p.parseUnary()}
	case token.AWAIT:
		pos := p.tok.Pos
		p.advance()
		return &ast.AwaitExpr{Start: pos, X: p.parseUnary()}
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() ast.Expr {
	x := p.parsePrimary()
	for {
		switch p.tok.Kind {
		case token.DOT:
			p.advance()
			sel := p.expect(token.IDENT).Lit
			x = &ast.SelectorExpr{X: x, Sel: sel, End: p.tok.Pos}
		case token.SAFEDOT:
			p.advance()
			sel := p.expect(token.IDENT).Lit
			x = &ast.SafeSelectorExpr{X: x, Sel: sel, End: p.tok.Pos}
		case token.LPAREN:
			x = p.parseCallTail(x)
		case token.LBRACK:
			p.advance()
			idx := p.parseExpr()
			p.expect(token.RBRACK)
			x = &ast.IndexExpr{X: x, Index: idx, End: p.tok.Pos}
		case token.SAFEINDEX:
			p.advance()
			idx := p.parseExpr()
			p.expect(token.RBRACK)
			x = &ast.SafeIndexExpr{X: x, Index: idx, End: p.tok.Pos}
		case token.QUESTION:
			end := p.tok.Pos
			p.advance()
			x = &ast.PostfixQuestionExpr{X: x, End: end}
		case token.COLONCOLON:
			p.advance()
			meth := p.expect(token.IDENT).Lit
			x = &ast.MethodRefExpr{X: x, Method: meth, End: p.tok.Pos}
		case token.LBRACE:
			if !isTrailingLambdaTarget(x) {
				return x
			}
			lam := p.parseLambda()
			x = appendTrailingLambda(x, lam)
		default:
			return x
		}
	}
}

func isTrailingLambdaTarget(x ast.Expr) bool {
	switch x.(type) {
	case *ast.Ident, *ast.SelectorExpr, *ast.CallExpr, *ast.PartialCallExpr:
		return true
	}
	return false
}

func appendTrailingLambda(x ast.Expr, lam *ast.LambdaExpr) ast.Expr {
	if call, ok := x.(*ast.CallExpr); ok {
		call.Args = append(call.Args, ast.Arg{Value: lam})
		call.End = lam.End
		return call
	}
	return &ast.CallExpr{Fun: x, Args: []ast.Arg{{Value: lam}}, End: lam.End}
}

func (p *parser) parseCallTail(fun ast.Expr) ast.Expr {
	p.expect(token.LPAREN)
	var args []ast.Arg
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		args = append(args, p.parseArg())
		if !p.accept(token.COMMA) {
			break
		}
	}
	end := p.tok.Pos
	p.expect(token.RPAREN)
	if hasPlaceholder(args) {
		return &ast.PartialCallExpr{Fun: fun, Args: args, End: end}
	}
	return &ast.CallExpr{Fun: fun, Args: args, End: end}
}

func hasPlaceholder(args []ast.Arg) bool {
	for _, a := range args {
		if id, ok := a.Value.(*ast.Ident); ok && id.Name == "_" {
			return true
		}
	}
	return false
}

func (p *parser) parseArg() ast.Arg {
	if p.at(token.STAR) {
		pos := p.tok.Pos
		p.advance()
		return ast.Arg{Value: &ast.SpreadExpr{Start: pos, X: p.parseExpr()}}
	}
	if p.at(token.IDENT) && p.next.Kind == token.EQ {
		name := p.tok.Lit
		p.advance()
		p.advance()
		return ast.Arg{Name: name, Value: p.parseExpr()}
	}
	return ast.Arg{Value: p.parseExpr()}
}

func (p *parser) parsePrimary() ast.Expr {
	switch p.tok.Kind {
	case token.IDENT, token.UNDERSCORE:
		id := &ast.Ident{Start: p.tok.Pos, Name: p.tok.Lit}
		p.advance()
		return id
	case token.INT:
		return p.parseIntLit()
	case token.LONG:
		return p.parseLongLit()
	case token.FLOAT:
		return p.parseFloatLit()
	case token.CHAR:
		return p.parseCharLit()
	case token.STRING:
		return p.parseStringLitExpr()
	case token.TRUE, token.FALSE:
		b := &ast.BoolLit{Start: p.tok.Pos, Value: p.tok.Kind == token.TRUE}
		p.advance()
		return b
	case token.NULL:
		n := &ast.NullLit{Start: p.tok.Pos}
		p.advance()
		return n
	case token.LPAREN:
		start := p.tok.Pos
		p.advance()
		x := p.parseExpr()
		end := p.tok.Pos
		p.expect(token.RPAREN)
		return &ast.ParenExpr{Start: start, X: x, End: end}
	case token.LBRACK:
		return p.parseListOrMapLit()
	case token.LBRACE:
		return p.parseLambda()
	case token.IF:
		return p.parseIfExpr()
	case token.WHEN:
		return p.parseWhenExpr()
	case token.ASYNC:
		return p.parseAsyncExpr()
	case token.COROUTINESCOPE, token.SUPERVISORSCOPE:
		return p.parseScopeExpr()
	case token.NOT, token.MINUS, token.AWAIT:
		return p.parseUnary()
	}
	pos := p.tok.Pos
	p.errorf(pos, "unexpected %s in expression", p.tok.Kind)
	p.advance()
	return &ast.NullLit{Start: pos}
}

func (p *parser) parseIntLit() ast.Expr {
	tok := p.tok
	v, _ := strconv.ParseInt(tok.Lit, 10, 64)
	p.advance()
	return &ast.IntLit{Start: tok.Pos, Raw: tok.Lit, Value: v}
}

func (p *parser) parseLongLit() ast.Expr {
	tok := p.tok
	v, _ := strconv.ParseInt(tok.Lit, 10, 64)
	p.advance()
	return &ast.LongLit{Start: tok.Pos, Raw: tok.Lit, Value: v}
}

func (p *parser) parseFloatLit() ast.Expr {
	tok := p.tok
	v, _ := strconv.ParseFloat(tok.Lit, 64)
	p.advance()
	return &ast.FloatLit{Start: tok.Pos, Raw: tok.Lit, Value: v}
}

func (p *parser) parseCharLit() ast.Expr {
	tok := p.tok
	p.advance()
	var v rune
	if rs := []rune(tok.Lit); len(rs) > 0 {
		v = rs[0]
	}
	return &ast.CharLit{Start: tok.Pos, Raw: tok.Lit, Value: v}
}

func (p *parser) parseStringLitExpr() ast.Expr {
	tok := p.tok
	p.advance()
	if !strings.ContainsRune(tok.Lit, '$') {
		return &ast.StringLit{Start: tok.Pos, Raw: tok.Lit, Value: tok.Lit}
	}
	return buildInterpString(tok.Pos, tok.Lit)
}

// buildInterpString splits a scanned string literal's text on `$name` and
// `${expr}` markers into an InterpStringLit. Escaped dollar signs are not
// distinguished from interpolation markers by the scanner, so any `$`
// followed by `{` or an identifier start is treated as the start of an
// interpolation; any other `$` stays literal text.
func buildInterpString(pos token.Pos, raw string) ast.Expr {
	lit := &ast.InterpStringLit{Start: pos}
	runes := []rune(raw)
	var sb strings.Builder
	i := 0
	for i < len(runes) {
		if runes[i] == '$' && i+1 < len(runes) {
			if runes[i+1] == '{' {
				depth := 1
				j := i + 2
				for j < len(runes) && depth > 0 {
					switch runes[j] {
					case '{':
						depth++
					case '}':
						depth--
					}
					if depth == 0 {
						break
					}
					j++
				}
				inner := string(runes[i+2 : j])
				lit.Parts = append(lit.Parts, sb.String())
				sb.Reset()
				expr, _ := ParseExprString(inner)
				lit.Exprs = append(lit.Exprs, expr)
				i = j + 1
				continue
			}
			if isIdentStartRune(runes[i+1]) {
				j := i + 1
				for j < len(runes) && isIdentPartRune(runes[j]) {
					j++
				}
				lit.Parts = append(lit.Parts, sb.String())
				sb.Reset()
				lit.Exprs = append(lit.Exprs, &ast.Ident{Name: string(runes[i+1 : j])})
				i = j
				continue
			}
		}
		sb.WriteRune(runes[i])
		i++
	}
	lit.Parts = append(lit.Parts, sb.String())
	lit.End = pos
	return lit
}

func isIdentStartRune(r rune) bool { return unicode.IsLetter(r) || r == '_' }
func isIdentPartRune(r rune) bool  { return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' }

func (p *parser) parseListOrMapLit() ast.Expr {
	start := p.tok.Pos
	p.expect(token.LBRACK)
	if p.accept(token.COLON) {
		p.expect(token.RBRACK)
		return &ast.MapLit{Start: start, End: p.tok.Pos}
	}
	if p.at(token.RBRACK) {
		end := p.tok.Pos
		p.advance()
		return &ast.ListLit{Start: start, End: end}
	}

	first := p.parseListElem()
	if p.accept(token.COLON) {
		val := p.parseExpr()
		m := &ast.MapLit{Start: start, Entries: []ast.MapEntry{{Key: first, Value: val}}}
		for p.accept(token.COMMA) {
			if p.at(token.RBRACK) {
				break
			}
			k := p.parseExpr()
			p.expect(token.COLON)
			v := p.parseExpr()
			m.Entries = append(m.Entries, ast.MapEntry{Key: k, Value: v})
		}
		m.End = p.tok.Pos
		p.expect(token.RBRACK)
		return m
	}

	l := &ast.ListLit{Start: start, Elems: []ast.Expr{first}}
	for p.accept(token.COMMA) {
		if p.at(token.RBRACK) {
			break
		}
		l.Elems = append(l.Elems, p.parseListElem())
	}
	l.End = p.tok.Pos
	p.expect(token.RBRACK)
	return l
}

func (p *parser) parseListElem() ast.Expr {
	if p.at(token.STAR) {
		pos := p.tok.Pos
		p.advance()
		return &ast.SpreadExpr{Start: pos, X: p.parseExpr()}
	}
	return p.parseExpr()
}

func (p *parser) parseLambda() *ast.LambdaExpr {
	start := p.tok.Pos
	p.expect(token.LBRACE)
	var params []*ast.Param
	if p.looksLikeLambdaParams() {
		for {
			pp := &ast.Param{Start: p.tok.Pos, Name: p.expect(token.IDENT).Lit}
			pp.End = p.tok.Pos
			params = append(params, pp)
			if !p.accept(token.COMMA) {
				break
			}
		}
		p.expect(token.ARROW)
	}
	body := p.parseBlockUntil(token.RBRACE)
	end := p.tok.Pos
	p.expect(token.RBRACE)
	return &ast.LambdaExpr{Start: start, Params: params, Body: body, End: end}
}

func (p *parser) looksLikeLambdaParams() bool {
	return p.at(token.IDENT) && (p.next.Kind == token.ARROW || p.next.Kind == token.COMMA)
}

func (p *parser) parseIfExpr() ast.Expr {
	start := p.tok.Pos
	p.advance() // if
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	then := p.parseExpr()
	ifx := &ast.IfExpr{Start: start, Cond: cond, Then: then, End: p.tok.Pos}
	if p.accept(token.ELSE) {
		ifx.Else = p.parseExpr()
		ifx.End = p.tok.Pos
	}
	return ifx
}

func (p *parser) parseWhenExpr() ast.Expr {
	start := p.tok.Pos
	p.advance() // when
	w := &ast.WhenExpr{Start: start}
	if p.accept(token.LPAREN) {
		w.Subject = p.parseExpr()
		p.expect(token.RPAREN)
	}
	p.expect(token.LBRACE)
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		var branch ast.WhenBranch
		if p.at(token.ELSE) {
			p.advance()
		} else {
			branch.Cond = p.parseExpr()
		}
		p.expect(token.ARROW)
		branch.Body = p.parseExpr()
		w.Branches = append(w.Branches, branch)
		p.skipSemis()
	}
	w.End = p.tok.Pos
	p.expect(token.RBRACE)
	return w
}

func (p *parser) parseAsyncExpr() ast.Expr {
	start := p.tok.Pos
	p.advance() // async
	var disp ast.Expr
	if p.accept(token.LPAREN) {
		disp = p.parseExpr()
		p.expect(token.RPAREN)
	}
	body := p.parseBraceBlock()
	return &ast.AsyncExpr{Start: start, Dispatcher: disp, Body: body, End: p.tok.Pos}
}

func (p *parser) parseScopeExpr() ast.Expr {
	start := p.tok.Pos
	supervisor := p.at(token.SUPERVISORSCOPE)
	p.advance()
	var disp ast.Expr
	if p.accept(token.LPAREN) {
		disp = p.parseExpr()
		p.expect(token.RPAREN)
	}
	body := p.parseBraceBlock()
	return &ast.ScopeExpr{Start: start, Supervisor: supervisor, Dispatcher: disp, Body: body, End: p.tok.Pos}
}

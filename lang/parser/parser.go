// Package parser turns a token stream from lang/scanner into a lang/ast
// tree.
package parser

import (
	"fmt"

	"github.com/nova-lang/nova/lang/ast"
	"github.com/nova-lang/nova/lang/scanner"
	"github.com/nova-lang/nova/lang/token"
)

// Error is a single parse error with its source position.
type Error struct {
	Pos token.Pos
	Msg string
}

func (e *Error) Error() string {
	line, col := e.Pos.LineCol()
	return fmt.Sprintf("%d:%d: %s", line, col, e.Msg)
}

// ErrorList collects every error encountered while parsing, so the caller can
// report more than the first syntax error at once.
type ErrorList []*Error

func (el ErrorList) Error() string {
	if len(el) == 0 {
		return ""
	}
	return el[0].Error()
}

type parser struct {
	sc       *scanner.Scanner
	filename string

	tok  scanner.Token // current token
	next scanner.Token // lookahead

	errs ErrorList
}

// ParseChunk scans and parses an entire file or REPL entry into a Chunk.
func ParseChunk(filename string, src []byte) (*ast.Chunk, error) {
	p := &parser{sc: scanner.New(filename, src), filename: filename}
	p.advance()
	p.advance()

	start := p.tok.Pos
	block := p.parseBlockUntil(token.EOF)
	chunk := &ast.Chunk{Name: filename, Block: block, EOF: p.tok.Pos}
	if block.Start == 0 {
		block.Start = start
	}
	if len(p.errs) > 0 {
		return chunk, p.errs
	}
	return chunk, nil
}

func (p *parser) advance() {
	p.tok = p.next
	p.next = p.sc.Scan(func(pos token.Pos, msg string) {
		p.errs = append(p.errs, &Error{Pos: pos, Msg: msg})
	})
}

func (p *parser) errorf(pos token.Pos, format string, args ...interface{}) {
	p.errs = append(p.errs, &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

func (p *parser) at(kind token.Token) bool { return p.tok.Kind == kind }

func (p *parser) accept(kind token.Token) bool {
	if p.at(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expect(kind token.Token) scanner.Token {
	tok := p.tok
	if !p.accept(kind) {
		p.errorf(p.tok.Pos, "expected %s, got %s", kind, p.tok.Kind)
	}
	return tok
}

// skipSemis consumes any number of statement-separating semicolons (Nova
// allows but does not require them between statements on separate lines).
func (p *parser) skipSemis() {
	for p.accept(token.SEMI) {
	}
}

func (p *parser) parseBlockUntil(end token.Token) *ast.Block {
	b := &ast.Block{Start: p.tok.Pos}
	p.skipSemis()
	for !p.at(end) && !p.at(token.EOF) {
		stmt := p.parseStmt()
		if stmt != nil {
			b.Stmts = append(b.Stmts, stmt)
		}
		p.skipSemis()
	}
	b.End = p.tok.Pos
	return b
}

func (p *parser) parseBraceBlock() *ast.Block {
	p.expect(token.LBRACE)
	b := p.parseBlockUntil(token.RBRACE)
	p.expect(token.RBRACE)
	return b
}

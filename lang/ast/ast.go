// Package ast defines the abstract syntax tree produced by the parser. It is
// a quasi-lossless tree: positions are tracked on every node, but
// whitespace/comment trivia is not retained on the nodes themselves.
package ast

import "github.com/nova-lang/nova/lang/token"

// Node is implemented by every AST node.
type Node interface {
	// Span reports the start and end position of the node.
	Span() (start, end token.Pos)
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	// BlockEnding reports whether this statement can only appear as the last
	// statement of a block (return, throw, break, continue).
	BlockEnding() bool
	stmtNode()
}

// Annotation represents a `@name(args)` annotation attached to a class,
// interface, or object declaration.
type Annotation struct {
	Start token.Pos
	Name  string
	Args  []Arg // may be empty
	End   token.Pos
}

func (a *Annotation) Span() (token.Pos, token.Pos) { return a.Start, a.End }

// Arg is a call or annotation argument, optionally named (`name = value`).
type Arg struct {
	Name  string // empty if positional
	Value Expr
}

// Param is a function or constructor parameter.
type Param struct {
	Start token.Pos
	// Kind is "val", "var", or "" (plain parameter, not a field in a primary
	// constructor).
	Kind    string
	Name    string
	Type    string // declared type name, informational only (dynamically typed at runtime)
	Default Expr   // may be nil
	Variadic bool
	End     token.Pos
}

func (p *Param) Span() (token.Pos, token.Pos) { return p.Start, p.End }

// Chunk is the root node of a parsed file or REPL entry.
type Chunk struct {
	Name  string
	Block *Block
	EOF   token.Pos
}

func (c *Chunk) Span() (token.Pos, token.Pos) {
	if c.Block != nil {
		return c.Block.Span()
	}
	return c.EOF, c.EOF
}

// Block is an ordered sequence of statements delimited by `{` `}` or, at
// top level, by the bounds of the chunk.
type Block struct {
	Start token.Pos
	Stmts []Stmt
	End   token.Pos
}

func (b *Block) Span() (token.Pos, token.Pos) { return b.Start, b.End }

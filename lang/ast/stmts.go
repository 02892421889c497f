package ast

import "github.com/nova-lang/nova/lang/token"

func (s *ValDeclStmt) stmtNode()    {}
func (s *VarDeclStmt) stmtNode()    {}
func (s *AssignStmt) stmtNode()     {}
func (s *ExprStmt) stmtNode()       {}
func (s *FuncDeclStmt) stmtNode()   {}
func (s *ClassDeclStmt) stmtNode()  {}
func (s *IfStmt) stmtNode()         {}
func (s *IfLetStmt) stmtNode()      {}
func (s *WhileStmt) stmtNode()      {}
func (s *ForInStmt) stmtNode()      {}
func (s *ReturnStmt) stmtNode()     {}
func (s *ThrowStmt) stmtNode()      {}
func (s *BreakStmt) stmtNode()      {}
func (s *ContinueStmt) stmtNode()   {}
func (s *TryStmt) stmtNode()        {}
func (s *UseStmt) stmtNode()        {}
func (s *ImportStmt) stmtNode()     {}
func (s *BlockStmt) stmtNode()      {}
func (s *LaunchStmt) stmtNode()     {}

func (s *ValDeclStmt) BlockEnding() bool   { return false }
func (s *VarDeclStmt) BlockEnding() bool   { return false }
func (s *AssignStmt) BlockEnding() bool    { return false }
func (s *ExprStmt) BlockEnding() bool      { return false }
func (s *FuncDeclStmt) BlockEnding() bool  { return false }
func (s *ClassDeclStmt) BlockEnding() bool { return false }
func (s *IfStmt) BlockEnding() bool        { return false }
func (s *IfLetStmt) BlockEnding() bool     { return false }
func (s *WhileStmt) BlockEnding() bool     { return false }
func (s *ForInStmt) BlockEnding() bool     { return false }
func (s *ReturnStmt) BlockEnding() bool    { return true }
func (s *ThrowStmt) BlockEnding() bool     { return true }
func (s *BreakStmt) BlockEnding() bool     { return true }
func (s *ContinueStmt) BlockEnding() bool  { return true }
func (s *TryStmt) BlockEnding() bool       { return false }
func (s *UseStmt) BlockEnding() bool       { return false }
func (s *ImportStmt) BlockEnding() bool    { return false }
func (s *BlockStmt) BlockEnding() bool     { return false }
func (s *LaunchStmt) BlockEnding() bool    { return false }

// ValDeclStmt is `val name[: Type] = expr` — an immutable binding.
type ValDeclStmt struct {
	Start token.Pos
	Name  string
	Value Expr
}

func (s *ValDeclStmt) Span() (token.Pos, token.Pos) {
	_, e := s.Value.Span()
	return s.Start, e
}

// VarDeclStmt is `var name[: Type] = expr` — a mutable binding.
type VarDeclStmt struct {
	Start token.Pos
	Name  string
	Value Expr // may be nil (uninitialized var)
	End   token.Pos
}

func (s *VarDeclStmt) Span() (token.Pos, token.Pos) { return s.Start, s.End }

// AssignStmt covers plain `=` as well as augmented assignment
// (`+=`, `-=`, ..., `??=`) and destructuring `val (a,b,c) = x`.
type AssignStmt struct {
	// Targets holds the left-hand-side expressions; for a destructuring
	// assignment it holds the bound names as Idents and Destructure is true.
	Targets     []Expr
	Op          token.Token // EQ for plain assignment, or an augmented op
	Value       Expr
	Destructure bool
}

func (s *AssignStmt) Span() (token.Pos, token.Pos) {
	st, _ := s.Targets[0].Span()
	_, e := s.Value.Span()
	return st, e
}

// ExprStmt is an expression used as a statement (a call, typically).
type ExprStmt struct{ X Expr }

func (s *ExprStmt) Span() (token.Pos, token.Pos) { return s.X.Span() }

// FuncDeclStmt is `fun name(params): RetType { body }` including extension
// functions (`fun T.name(...)`, recorded in Receiver).
type FuncDeclStmt struct {
	Start     token.Pos
	Name      string
	Receiver  string // extension-function receiver type name, or ""
	Params    []*Param
	Body      *Block
	ExprBody  Expr // non-nil for `fun f() = expr` expression-bodied functions
	End       token.Pos
}

func (s *FuncDeclStmt) Span() (token.Pos, token.Pos) { return s.Start, s.End }

// ClassMember is a field, method, or static field declared in a class body.
type ClassMember struct {
	IsStatic bool
	Method   *FuncDeclStmt // non-nil for a method
	Field    *ValDeclStmt  // non-nil for a val field (VarDeclStmt.* handled via FieldVar)
	FieldVar *VarDeclStmt  // non-nil for a var field
	Init     Expr          // non-nil for a bare initializer expression run at construction
}

// ClassDeclStmt is `[open] class Name(params) : Super(args), Iface { body }`,
// an `interface`, `object`, or `annotation class` declaration — Kind
// distinguishes them.
type ClassDeclStmt struct {
	Start       token.Pos
	Annotations []*Annotation
	Kind        string // "class", "interface", "object", "annotation"
	Open        bool
	Name        string
	Params      []*Param // primary constructor parameters
	SuperName   string
	SuperArgs   []Arg
	Interfaces  []string
	Members     []ClassMember
	End         token.Pos
}

func (s *ClassDeclStmt) Span() (token.Pos, token.Pos) { return s.Start, s.End }

// IfStmt is a statement-position `if`/`else if`/`else`.
type IfStmt struct {
	Start token.Pos
	Cond  Expr
	Then  *Block
	Else  Stmt // *IfStmt or *BlockStmt, or nil
}

func (s *IfStmt) Span() (token.Pos, token.Pos) {
	_, e := s.Then.Span()
	return s.Start, e
}

// IfLetStmt is `if (val x = e) body` / `if (val x = e) body else elseBody`.
type IfLetStmt struct {
	Start     token.Pos
	Name      string
	Value     Expr
	Then      *Block
	Else      *Block // may be nil
}

func (s *IfLetStmt) Span() (token.Pos, token.Pos) {
	_, e := s.Then.Span()
	return s.Start, e
}

// WhileStmt is `while (cond) body` or `do body while (cond)` (Post=true).
type WhileStmt struct {
	Start token.Pos
	Cond  Expr
	Body  *Block
	Post  bool
}

func (s *WhileStmt) Span() (token.Pos, token.Pos) {
	_, e := s.Body.Span()
	return s.Start, e
}

// ForInStmt is `for (x[, y...] in iterable) body`, including the
// three-part desugared form `for (i in start..end)`.
type ForInStmt struct {
	Start   token.Pos
	Names   []string
	Iter    Expr
	Body    *Block
}

func (s *ForInStmt) Span() (token.Pos, token.Pos) {
	_, e := s.Body.Span()
	return s.Start, e
}

type ReturnStmt struct {
	Start token.Pos
	Value Expr // may be nil
}

func (s *ReturnStmt) Span() (token.Pos, token.Pos) {
	if s.Value != nil {
		_, e := s.Value.Span()
		return s.Start, e
	}
	return s.Start, s.Start
}

type ThrowStmt struct {
	Start token.Pos
	Value Expr
}

func (s *ThrowStmt) Span() (token.Pos, token.Pos) {
	_, e := s.Value.Span()
	return s.Start, e
}

type BreakStmt struct {
	Start token.Pos
	Label string
}

func (s *BreakStmt) Span() (token.Pos, token.Pos) { return s.Start, s.Start + 5 }

type ContinueStmt struct {
	Start token.Pos
	Label string
}

func (s *ContinueStmt) Span() (token.Pos, token.Pos) { return s.Start, s.Start + 8 }

// CatchClause is one `catch (e: Kind) body` arm; Kind is empty for a base
// catch-all.
type CatchClause struct {
	Name string
	Kind string
	Body *Block
}

// TryStmt is `try body catch (...) ... finally ...`.
type TryStmt struct {
	Start   token.Pos
	Body    *Block
	Catches []CatchClause
	Finally *Block // may be nil
	End     token.Pos
}

func (s *TryStmt) Span() (token.Pos, token.Pos) { return s.Start, s.End }

// UseStmt is `use (val r = e) body`, guaranteeing r.close() on exit.
type UseStmt struct {
	Start token.Pos
	Name  string
	Value Expr
	Body  *Block
}

func (s *UseStmt) Span() (token.Pos, token.Pos) {
	_, e := s.Body.Span()
	return s.Start, e
}

// ImportSpec describes one import form (§4.8).
type ImportSpec struct {
	// Kind is "symbol", "wildcard", "alias", "java", "javaWildcard", or
	// "static".
	Kind  string
	Path  string // dotted module or fully-qualified host class/member path
	Name  string // symbol/member name, empty for wildcard forms
	Alias string // non-empty only for "alias"/"java" with an `as` clause
}

type ImportStmt struct {
	Start token.Pos
	Spec  ImportSpec
	End   token.Pos
}

func (s *ImportStmt) Span() (token.Pos, token.Pos) { return s.Start, s.End }

// BlockStmt wraps a bare `{ ... }` block used as a statement (e.g. the
// `else` arm of an IfStmt).
type BlockStmt struct{ Block *Block }

func (s *BlockStmt) Span() (token.Pos, token.Pos) { return s.Block.Span() }

// LaunchStmt is `launch { body }` / `launch(dispatcher) { body }` used as a
// fire-and-forget statement (its Job value is discarded unless assigned).
type LaunchStmt struct {
	Start      token.Pos
	Dispatcher Expr
	Body       *Block
	End        token.Pos
}

func (s *LaunchStmt) Span() (token.Pos, token.Pos) { return s.Start, s.End }

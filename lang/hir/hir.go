// Package hir defines Nova's high-level intermediate representation: an
// AST with names resolved to bindings and surface sugar (when, string
// interpolation, pipelines, partial application, elvis/safe-call/safe-index,
// chained comparisons, if-let, use, extension functions) already expanded
// to a smaller core of node kinds. See lower.go for the AST->HIR lowering
// and resolve.go for the binding pass.
package hir

import "github.com/nova-lang/nova/lang/token"

// Node is implemented by every HIR node.
type Node interface {
	Pos() token.Pos
}

// Expr is implemented by every HIR expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by every HIR statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Arg mirrors ast.Arg; kept as its own type so hir does not need to import
// ast for anything but ImportSpec.
type Arg struct {
	Name  string
	Value Expr
}

// Param is a function, lambda, or primary-constructor parameter, now
// carrying its resolved Binding.
type Param struct {
	PosV     token.Pos
	Kind     string // "val", "var", or ""
	Name     string
	Binding  *Binding
	Type     string
	Default  Expr
	Variadic bool
}

func (p *Param) Pos() token.Pos { return p.PosV }

// Program is the root of a lowered, resolved chunk.
type Program struct {
	Name string
	Body []Stmt

	// ExtensionMethods maps a receiver type name to the extension functions
	// declared for it (`fun T.m(...)`), desugared into ordinary FuncDecls
	// whose first parameter is the receiver. internal/class consults this
	// to extend a type's method-resolution order (§4.5).
	ExtensionMethods map[string][]*FuncDecl
}

func (p *Program) Pos() token.Pos { return 0 }

// ---- statements ----

func (*ValDecl) stmtNode()      {}
func (*VarDecl) stmtNode()      {}
func (*Assign) stmtNode()       {}
func (*DestructureStmt) stmtNode() {}
func (*ExprStmt) stmtNode()     {}
func (*FuncDecl) stmtNode()     {}
func (*ClassDecl) stmtNode()    {}
func (*If) stmtNode()           {}
func (*While) stmtNode()        {}
func (*ForIn) stmtNode()        {}
func (*Return) stmtNode()       {}
func (*Throw) stmtNode()        {}
func (*Break) stmtNode()        {}
func (*Continue) stmtNode()     {}
func (*TryStmt) stmtNode()      {}
func (*Import) stmtNode()       {}
func (*BlockStmt) stmtNode()    {}
func (*LaunchStmt) stmtNode()   {}

// ValDecl is an immutable binding: `val name = value`.
type ValDecl struct {
	PosV    token.Pos
	Name    string
	Binding *Binding
	Value   Expr
}

func (s *ValDecl) Pos() token.Pos { return s.PosV }

// VarDecl is a mutable binding: `var name = value` (Value may be nil).
type VarDecl struct {
	PosV    token.Pos
	Name    string
	Binding *Binding
	Value   Expr
}

func (s *VarDecl) Pos() token.Pos { return s.PosV }

// Assign is a single-target assignment; augmented assignment (`+=`, ...) is
// lowered to Assign{Value: Binary{Op: stripped-op, X: target, Y: rhs}}.
type Assign struct {
	PosV   token.Pos
	Target Expr
	Value  Expr
}

func (s *Assign) Pos() token.Pos { return s.PosV }

// DestructureStmt is `val (a, b, c) = value`. Names are bound positionally
// at runtime via component1()/component2()/... when defined on the runtime
// value (always true for @data classes), else by plain list/pair indexing.
type DestructureStmt struct {
	PosV     token.Pos
	Names    []string
	Bindings []*Binding
	Value    Expr
}

func (s *DestructureStmt) Pos() token.Pos { return s.PosV }

type ExprStmt struct {
	PosV token.Pos
	X    Expr
}

func (s *ExprStmt) Pos() token.Pos { return s.PosV }

// FuncDecl is a function declaration, a method inside a ClassDecl, or the
// desugared form of an extension function (Receiver != "").
type FuncDecl struct {
	PosV     token.Pos
	Name     string
	Binding  *Binding // binding of the function's own name in the enclosing scope; nil for methods
	Receiver string   // extension-function receiver type name, or ""
	Params   []*Param
	Body     *BlockStmt
	ExprBody Expr // non-nil for `fun f() = expr`
	IsStatic bool // true for a static class method

	Locals   []*Binding // this function's own locals (params first), in declaration order
	FreeVars []*Binding // cells captured from an enclosing function
}

func (s *FuncDecl) Pos() token.Pos { return s.PosV }

// FieldDecl is a class field, static or instance.
type FieldDecl struct {
	Name     string
	Mutable  bool // true for `var`, false for `val`
	Value    Expr // initializer, may be nil
	IsStatic bool
}

// Annotation is `@name(args)` attached to a class declaration.
type Annotation struct {
	Name string
	Args []Arg
}

// ClassDecl is a class/interface/object/annotation-class declaration.
type ClassDecl struct {
	PosV        token.Pos
	Name        string
	Binding     *Binding
	Kind        string // "class", "interface", "object", "annotation"
	Open        bool
	Annotations []*Annotation
	// CtorParams are the primary-constructor parameters; those with a
	// non-empty Kind ("val"/"var") become fields.
	CtorParams []*Param
	SuperName  string
	SuperArgs  []Arg
	Interfaces []string
	Fields     []*FieldDecl
	Methods    []*FuncDecl
	Inits      []Expr // bare initializer expressions run in body order
}

func (s *ClassDecl) Pos() token.Pos { return s.PosV }

// If covers if/else-if/else in statement position.
type If struct {
	PosV token.Pos
	Cond Expr
	Then *BlockStmt
	Else Stmt // *If, *BlockStmt, or nil
}

func (s *If) Pos() token.Pos { return s.PosV }

type While struct {
	PosV token.Pos
	Cond Expr
	Body *BlockStmt
	Post bool // true for do-while
}

func (s *While) Pos() token.Pos { return s.PosV }

type ForIn struct {
	PosV    token.Pos
	Name    string
	Binding *Binding
	Iter    Expr
	Body    *BlockStmt
}

func (s *ForIn) Pos() token.Pos { return s.PosV }

type Return struct {
	PosV  token.Pos
	Value Expr // may be nil
}

func (s *Return) Pos() token.Pos { return s.PosV }

type Throw struct {
	PosV  token.Pos
	Value Expr
}

func (s *Throw) Pos() token.Pos { return s.PosV }

type Break struct{ PosV token.Pos }

func (s *Break) Pos() token.Pos { return s.PosV }

type Continue struct{ PosV token.Pos }

func (s *Continue) Pos() token.Pos { return s.PosV }

type Catch struct {
	Name    string
	Binding *Binding
	Kind    string
	Body    *BlockStmt
}

// TryStmt is try/catch*/finally. `use (val r = e) body` desugars to a
// ValDecl followed by a TryStmt whose Finally closes r (see lower.go).
type TryStmt struct {
	PosV    token.Pos
	Body    *BlockStmt
	Catches []*Catch
	Finally *BlockStmt
}

func (s *TryStmt) Pos() token.Pos { return s.PosV }

// Import mirrors ast.ImportSpec; kept as a plain struct copy so hir doesn't
// need a cyclic or cross-cutting dependency on ast beyond this one field set.
type ImportSpec struct {
	Kind  string
	Path  string
	Name  string
	Alias string
}

type Import struct {
	PosV    token.Pos
	Spec    ImportSpec
	Binding *Binding // nil for wildcard imports, which declare no single name
}

func (s *Import) Pos() token.Pos { return s.PosV }

// BlockStmt introduces a new lexical block.
type BlockStmt struct {
	PosV  token.Pos
	Stmts []Stmt
}

func (s *BlockStmt) Pos() token.Pos { return s.PosV }

type LaunchStmt struct {
	PosV       token.Pos
	Dispatcher Expr
	Body       *BlockStmt
}

func (s *LaunchStmt) Pos() token.Pos { return s.PosV }

// ---- expressions ----

func (*Ident) exprNode()            {}
func (*IntLit) exprNode()           {}
func (*LongLit) exprNode()          {}
func (*FloatLit) exprNode()         {}
func (*CharLit) exprNode()          {}
func (*StringLit) exprNode()        {}
func (*BoolLit) exprNode()          {}
func (*NullLit) exprNode()          {}
func (*ListLit) exprNode()          {}
func (*MapLit) exprNode()           {}
func (*SetLit) exprNode()           {}
func (*PairExpr) exprNode()         {}
func (*RangeExpr) exprNode()        {}
func (*SpreadExpr) exprNode()       {}
func (*UnaryExpr) exprNode()        {}
func (*BinaryExpr) exprNode()       {}
func (*CallExpr) exprNode()         {}
func (*IndexExpr) exprNode()        {}
func (*SelectorExpr) exprNode()     {}
func (*LambdaExpr) exprNode()       {}
func (*IsExpr) exprNode()           {}
func (*AsExpr) exprNode()           {}
func (*MethodRefExpr) exprNode()    {}
func (*AsyncExpr) exprNode()        {}
func (*AwaitExpr) exprNode()        {}
func (*ScopeExpr) exprNode()        {}
func (*LetExpr) exprNode()          {}
func (*IfExpr) exprNode()           {}
func (*GuardReturnExpr) exprNode()  {}

// Ident is a name reference, resolved to a Binding by the resolve pass.
type Ident struct {
	PosV    token.Pos
	Name    string
	Binding *Binding
}

func (n *Ident) Pos() token.Pos { return n.PosV }

type IntLit struct {
	PosV  token.Pos
	Value int64
}

func (n *IntLit) Pos() token.Pos { return n.PosV }

type LongLit struct {
	PosV  token.Pos
	Value int64
}

func (n *LongLit) Pos() token.Pos { return n.PosV }

type FloatLit struct {
	PosV  token.Pos
	Value float64
}

func (n *FloatLit) Pos() token.Pos { return n.PosV }

type CharLit struct {
	PosV  token.Pos
	Value rune
}

func (n *CharLit) Pos() token.Pos { return n.PosV }

type StringLit struct {
	PosV  token.Pos
	Value string
}

func (n *StringLit) Pos() token.Pos { return n.PosV }

type BoolLit struct {
	PosV  token.Pos
	Value bool
}

func (n *BoolLit) Pos() token.Pos { return n.PosV }

type NullLit struct{ PosV token.Pos }

func (n *NullLit) Pos() token.Pos { return n.PosV }

type ListLit struct {
	PosV  token.Pos
	Elems []Expr
}

func (n *ListLit) Pos() token.Pos { return n.PosV }

type MapEntry struct{ Key, Value Expr }

type MapLit struct {
	PosV    token.Pos
	Entries []MapEntry
}

func (n *MapLit) Pos() token.Pos { return n.PosV }

type SetLit struct {
	PosV  token.Pos
	Elems []Expr
}

func (n *SetLit) Pos() token.Pos { return n.PosV }

type PairExpr struct {
	PosV          token.Pos
	First, Second Expr
}

func (n *PairExpr) Pos() token.Pos { return n.PosV }

// RangeExpr is a..b, a..<b, or a downTo b, with an optional `step`.
type RangeExpr struct {
	PosV      token.Pos
	Start     Expr
	End       Expr
	Step      Expr // nil if unspecified
	Inclusive bool
	Descending bool
}

func (n *RangeExpr) Pos() token.Pos { return n.PosV }

// SpreadExpr is `*x` inside a list literal or call argument list.
type SpreadExpr struct {
	PosV token.Pos
	X    Expr
}

func (n *SpreadExpr) Pos() token.Pos { return n.PosV }

type UnaryExpr struct {
	PosV token.Pos
	Op   token.Token
	X    Expr
}

func (n *UnaryExpr) Pos() token.Pos { return n.PosV }

type BinaryExpr struct {
	PosV token.Pos
	Op   token.Token
	X, Y Expr
}

func (n *BinaryExpr) Pos() token.Pos { return n.PosV }

type CallExpr struct {
	PosV token.Pos
	Fun  Expr
	Args []Arg
}

func (n *CallExpr) Pos() token.Pos { return n.PosV }

type IndexExpr struct {
	PosV  token.Pos
	X     Expr
	Index Expr
}

func (n *IndexExpr) Pos() token.Pos { return n.PosV }

type SelectorExpr struct {
	PosV token.Pos
	X    Expr
	Sel  string
}

func (n *SelectorExpr) Pos() token.Pos { return n.PosV }

// LambdaExpr is a closure literal; Locals/FreeVars mirror FuncDecl's.
type LambdaExpr struct {
	PosV     token.Pos
	Params   []*Param
	Body     *BlockStmt
	Locals   []*Binding
	FreeVars []*Binding
}

func (n *LambdaExpr) Pos() token.Pos { return n.PosV }

type IsExpr struct {
	PosV token.Pos
	X    Expr
	Type string
}

func (n *IsExpr) Pos() token.Pos { return n.PosV }

type AsExpr struct {
	PosV token.Pos
	X    Expr
	Type string
}

func (n *AsExpr) Pos() token.Pos { return n.PosV }

type MethodRefExpr struct {
	PosV   token.Pos
	X      Expr
	Method string
}

func (n *MethodRefExpr) Pos() token.Pos { return n.PosV }

type AsyncExpr struct {
	PosV       token.Pos
	Dispatcher Expr
	Body       *BlockStmt
}

func (n *AsyncExpr) Pos() token.Pos { return n.PosV }

type AwaitExpr struct {
	PosV token.Pos
	X    Expr
}

func (n *AwaitExpr) Pos() token.Pos { return n.PosV }

type ScopeExpr struct {
	PosV       token.Pos
	Supervisor bool
	Dispatcher Expr
	Param      string
	Binding    *Binding
	Body       *BlockStmt
}

func (n *ScopeExpr) Pos() token.Pos { return n.PosV }

// LetExpr is `val Name = Value` evaluated once, then Body evaluated with
// Name bound. Synthesized by desugaring for elvis, safe-call, safe-index,
// chained comparisons, and `??=`, each of which must evaluate their
// receiver/operands exactly once (spec.md §4.2).
type LetExpr struct {
	PosV    token.Pos
	Name    string
	Binding *Binding
	Value   Expr
	Body    Expr
}

func (n *LetExpr) Pos() token.Pos { return n.PosV }

// IfExpr is an if/else or `when` used in expression position; `when` is
// fully expanded to a chain of IfExprs during lowering.
type IfExpr struct {
	PosV token.Pos
	Cond Expr
	Then Expr
	Else Expr // nil only transiently; lowering always supplies a null-producing else
}

func (n *IfExpr) Pos() token.Pos { return n.PosV }

// GuardReturnExpr is the error-propagation postfix `e?`: evaluate X; if it
// is null, return null immediately from the enclosing function; otherwise
// the expression's value is X. Left as an explicit node (rather than
// inlined into core control flow) because it requires early-return from the
// *enclosing function*, which only the MIR lowering stage has the context
// to emit; see lang/mir.
type GuardReturnExpr struct {
	PosV token.Pos
	X    Expr
}

func (n *GuardReturnExpr) Pos() token.Pos { return n.PosV }

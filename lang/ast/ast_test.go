package ast

import (
	"testing"

	"github.com/nova-lang/nova/lang/token"
)

func TestBlockSpan(t *testing.T) {
	b := &Block{Start: token.MakePos(1, 1), End: token.MakePos(3, 1)}
	s, e := b.Span()
	if s != b.Start || e != b.End {
		t.Fatalf("Block.Span() = (%v,%v), want (%v,%v)", s, e, b.Start, b.End)
	}
}

func TestWalkVisitsNestedBlocks(t *testing.T) {
	inner := &Block{Stmts: []Stmt{&ReturnStmt{}}}
	outer := &Block{Stmts: []Stmt{
		&IfStmt{Then: inner},
		&ExprStmt{X: &Ident{Name: "x"}},
	}}

	var seen []Stmt
	var v recordingVisitor
	v.seen = &seen
	Walk(&v, outer)

	if len(seen) != 3 {
		t.Fatalf("expected 3 statements visited (if, return, expr), got %d", len(seen))
	}
}

type recordingVisitor struct {
	seen *[]Stmt
}

func (v *recordingVisitor) Visit(s Stmt) Visitor {
	*v.seen = append(*v.seen, s)
	return v
}

func TestSprint(t *testing.T) {
	n := &CallExpr{Fun: &Ident{Name: "f"}, Args: []Arg{{Value: &IntLit{Value: 1}}}}
	got := Sprint(n)
	want := "call(ident(f), 1 args)"
	if got != want {
		t.Fatalf("Sprint() = %q, want %q", got, want)
	}
}

package ast

import (
	"fmt"
	"strings"
)

// Sprint renders a compact, human-readable one-line description of a node,
// used by the `nova ast` CLI verb and by tests asserting on
// tree shape rather than exact source text.
func Sprint(n Node) string {
	var sb strings.Builder
	sprint(&sb, n)
	return sb.String()
}

func sprint(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Chunk:
		fmt.Fprintf(sb, "chunk(%s)", n.Name)
	case *Block:
		fmt.Fprintf(sb, "block{%d stmts}", len(n.Stmts))
	case *Ident:
		fmt.Fprintf(sb, "ident(%s)", n.Name)
	case *IntLit:
		fmt.Fprintf(sb, "int(%d)", n.Value)
	case *StringLit:
		fmt.Fprintf(sb, "string(%q)", n.Value)
	case *BinaryExpr:
		sb.WriteString("binary(")
		sprint(sb, n.X)
		fmt.Fprintf(sb, " %s ", n.Op)
		sprint(sb, n.Y)
		sb.WriteString(")")
	case *CallExpr:
		sb.WriteString("call(")
		sprint(sb, n.Fun)
		fmt.Fprintf(sb, ", %d args)", len(n.Args))
	case *ClassDeclStmt:
		fmt.Fprintf(sb, "%s(%s)", n.Kind, n.Name)
	case *FuncDeclStmt:
		fmt.Fprintf(sb, "fun(%s)", n.Name)
	default:
		fmt.Fprintf(sb, "%T", n)
	}
}

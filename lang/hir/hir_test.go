package hir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nova-lang/nova/lang/hir"
	"github.com/nova-lang/nova/lang/parser"
)

func build(t *testing.T, src string) *hir.Program {
	t.Helper()
	chunk, err := parser.ParseChunk("test.nova", []byte(src))
	require.NoError(t, err)
	prog := hir.Lower(chunk)
	hir.Resolve(prog, map[string]bool{"print": true})
	return prog
}

func TestLowerValAndResolveModule(t *testing.T) {
	prog := build(t, "val x = 1\nval y = x + 1")
	require.Len(t, prog.Body, 2)
	v0 := prog.Body[0].(*hir.ValDecl)
	assert.Equal(t, "x", v0.Name)
	assert.Equal(t, hir.Predeclared, v0.Binding.Scope)

	v1 := prog.Body[1].(*hir.ValDecl)
	bin := v1.Value.(*hir.BinaryExpr)
	ident := bin.X.(*hir.Ident)
	assert.Equal(t, "x", ident.Name)
	assert.Same(t, v0.Binding, ident.Binding)
}

func TestResolveLocalAndCellCapture(t *testing.T) {
	prog := build(t, `
fun outer() {
    var count = 0
    val inc = { -> count = count + 1 }
    return inc
}
`)
	fn := prog.Body[0].(*hir.FuncDecl)
	require.Len(t, fn.Locals, 2) // count, inc
	countBinding := fn.Locals[0]
	assert.Equal(t, "count", countBinding.Name)
	assert.Equal(t, hir.Cell, countBinding.Scope)

	valInc := fn.Body.Stmts[1].(*hir.ValDecl)
	lam := valInc.Value.(*hir.LambdaExpr)
	require.Len(t, lam.FreeVars, 1)
	assert.Equal(t, "count", lam.FreeVars[0].Name)
	assert.Equal(t, hir.Free, lam.FreeVars[0].Scope)
	assert.Same(t, countBinding, lam.FreeVars[0].From)
}

func TestLowerElvisToLetIf(t *testing.T) {
	prog := build(t, "val a = x ?: 1")
	v := prog.Body[0].(*hir.ValDecl)
	let, ok := v.Value.(*hir.LetExpr)
	require.True(t, ok)
	ifx, ok := let.Body.(*hir.IfExpr)
	require.True(t, ok)
	require.NotNil(t, ifx.Cond)
}

func TestLowerSafeSelector(t *testing.T) {
	prog := build(t, "val a = x?.y")
	v := prog.Body[0].(*hir.ValDecl)
	let, ok := v.Value.(*hir.LetExpr)
	require.True(t, ok)
	_, ok = let.Body.(*hir.IfExpr)
	assert.True(t, ok)
}

func TestLowerChainedComparison(t *testing.T) {
	prog := build(t, "val a = 1 < 2 <= 3")
	v := prog.Body[0].(*hir.ValDecl)
	let, ok := v.Value.(*hir.LetExpr)
	require.True(t, ok)
	// nested lets for each operand, innermost body is an AND of comparisons
	inner := let.Body
	for {
		if nested, ok := inner.(*hir.LetExpr); ok {
			inner = nested.Body
			continue
		}
		break
	}
	bin, ok := inner.(*hir.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "&&", bin.Op.String())
}

func TestLowerIfLet(t *testing.T) {
	prog := build(t, `if (val x = maybeNull()) { print(x) }`)
	require.Len(t, prog.Body, 2)
	_, ok := prog.Body[0].(*hir.ValDecl)
	require.True(t, ok)
	ifs, ok := prog.Body[1].(*hir.If)
	require.True(t, ok)
	inner := ifs.Then.Stmts[0].(*hir.ValDecl)
	assert.Equal(t, "x", inner.Name)
}

func TestLowerUseStmt(t *testing.T) {
	prog := build(t, `use (val f = openFile("x")) { read(f) }`)
	require.Len(t, prog.Body, 2)
	_, ok := prog.Body[0].(*hir.ValDecl)
	require.True(t, ok)
	try, ok := prog.Body[1].(*hir.TryStmt)
	require.True(t, ok)
	require.NotNil(t, try.Finally)
}

func TestLowerPartialAndPipeline(t *testing.T) {
	prog := build(t, "val f = add(_, 1)\nval r = 5 |> f")
	v0 := prog.Body[0].(*hir.ValDecl)
	_, ok := v0.Value.(*hir.LambdaExpr)
	assert.True(t, ok)

	v1 := prog.Body[1].(*hir.ValDecl)
	call, ok := v1.Value.(*hir.CallExpr)
	require.True(t, ok)
	require.Len(t, call.Args, 1)
}

func TestLowerWhenExpr(t *testing.T) {
	prog := build(t, `
val r = when (x) {
    1 -> "one"
    else -> "many"
}
`)
	v := prog.Body[0].(*hir.ValDecl)
	let, ok := v.Value.(*hir.LetExpr)
	require.True(t, ok)
	ifx, ok := let.Body.(*hir.IfExpr)
	require.True(t, ok)
	_, ok = ifx.Else.(*hir.StringLit)
	assert.True(t, ok)
}

func TestLowerInterpolation(t *testing.T) {
	prog := build(t, `val s = "hi $name"`)
	v := prog.Body[0].(*hir.ValDecl)
	bin, ok := v.Value.(*hir.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op.String())
	call, ok := bin.Y.(*hir.CallExpr)
	require.True(t, ok)
	fn := call.Fun.(*hir.Ident)
	assert.Equal(t, "toString", fn.Name)
}

func TestExtensionFunctionRegistered(t *testing.T) {
	prog := build(t, "fun Int.double() = this * 2")
	require.Len(t, prog.ExtensionMethods["Int"], 1)
	fn := prog.ExtensionMethods["Int"][0]
	assert.Equal(t, "double", fn.Name)
	require.Len(t, fn.Params, 1)
	assert.Equal(t, "this", fn.Params[0].Name)
}

func TestDestructureStmt(t *testing.T) {
	prog := build(t, "val (a, b) = pair")
	d, ok := prog.Body[0].(*hir.DestructureStmt)
	require.True(t, ok)
	require.Len(t, d.Bindings, 2)
	assert.Equal(t, hir.Predeclared, d.Bindings[0].Scope)
}

func TestClassFieldsAndMethodsResolve(t *testing.T) {
	prog := build(t, `
class Box(val value) {
    fun get() { return value }
}
`)
	cd := prog.Body[0].(*hir.ClassDecl)
	require.Len(t, cd.CtorParams, 1)
	require.Len(t, cd.Methods, 1)
	// bare `value` inside get() doesn't lexically resolve to the ctor
	// param (it's a dynamic field lookup through the receiver at runtime).
	ret := cd.Methods[0].Body.Stmts[0].(*hir.Return)
	ident := ret.Value.(*hir.Ident)
	assert.Equal(t, hir.Universal, ident.Binding.Scope)
}

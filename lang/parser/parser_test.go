package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nova-lang/nova/lang/ast"
	"github.com/nova-lang/nova/lang/parser"
)

func mustParse(t *testing.T, src string) *ast.Block {
	t.Helper()
	chunk, err := parser.ParseChunk("test.nova", []byte(src))
	require.NoError(t, err)
	require.NotNil(t, chunk.Block)
	return chunk.Block
}

func TestParseValAndVar(t *testing.T) {
	b := mustParse(t, "val x = 1\nvar y = 2")
	require.Len(t, b.Stmts, 2)

	val, ok := b.Stmts[0].(*ast.ValDeclStmt)
	require.True(t, ok)
	assert.Equal(t, "x", val.Name)

	v, ok := b.Stmts[1].(*ast.VarDeclStmt)
	require.True(t, ok)
	assert.Equal(t, "y", v.Name)
}

func TestParseDestructure(t *testing.T) {
	b := mustParse(t, "val (a, b) = pair")
	require.Len(t, b.Stmts, 1)
	assign, ok := b.Stmts[0].(*ast.AssignStmt)
	require.True(t, ok)
	assert.True(t, assign.Destructure)
	require.Len(t, assign.Targets, 2)
}

func TestParseFuncDecl(t *testing.T) {
	b := mustParse(t, "fun add(a, b) { return a + b }")
	require.Len(t, b.Stmts, 1)
	fn, ok := b.Stmts[0].(*ast.FuncDeclStmt)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
	require.Len(t, fn.Body.Stmts, 1)
}

func TestParseExtensionFunc(t *testing.T) {
	b := mustParse(t, "fun Int.double() = this * 2")
	fn := b.Stmts[0].(*ast.FuncDeclStmt)
	assert.Equal(t, "Int", fn.Receiver)
	assert.Equal(t, "double", fn.Name)
	require.NotNil(t, fn.ExprBody)
}

func TestParseClassWithPrimaryCtorAndMethod(t *testing.T) {
	b := mustParse(t, `
class Point(val x, val y) {
    fun length() { return x }
}
`)
	cd, ok := b.Stmts[0].(*ast.ClassDeclStmt)
	require.True(t, ok)
	assert.Equal(t, "class", cd.Kind)
	assert.Equal(t, "Point", cd.Name)
	require.Len(t, cd.Params, 2)
	assert.Equal(t, "val", cd.Params[0].Kind)
	require.Len(t, cd.Members, 1)
	require.NotNil(t, cd.Members[0].Method)
}

func TestParseAnnotatedDataClass(t *testing.T) {
	b := mustParse(t, `@data class User(val name, val age)`)
	cd := b.Stmts[0].(*ast.ClassDeclStmt)
	require.Len(t, cd.Annotations, 1)
	assert.Equal(t, "data", cd.Annotations[0].Name)
}

func TestParseIfElseIfChain(t *testing.T) {
	b := mustParse(t, `
if (a) {
    x = 1
} else if (b) {
    x = 2
} else {
    x = 3
}
`)
	ifs, ok := b.Stmts[0].(*ast.IfStmt)
	require.True(t, ok)
	require.NotNil(t, ifs.Else)
	_, ok = ifs.Else.(*ast.IfStmt)
	assert.True(t, ok)
}

func TestParseIfLet(t *testing.T) {
	b := mustParse(t, `if (val x = maybeNull()) { consume(x) }`)
	let, ok := b.Stmts[0].(*ast.IfLetStmt)
	require.True(t, ok)
	assert.Equal(t, "x", let.Name)
}

func TestParseWhileAndDoWhile(t *testing.T) {
	b := mustParse(t, "while (i < 10) { i = i + 1 }\ndo { i = i - 1 } while (i > 0)")
	w1 := b.Stmts[0].(*ast.WhileStmt)
	assert.False(t, w1.Post)
	w2 := b.Stmts[1].(*ast.WhileStmt)
	assert.True(t, w2.Post)
}

func TestParseForIn(t *testing.T) {
	b := mustParse(t, "for (i in 0..10) { print(i) }")
	f, ok := b.Stmts[0].(*ast.ForInStmt)
	require.True(t, ok)
	assert.Equal(t, []string{"i"}, f.Names)
	rng, ok := f.Iter.(*ast.RangeExpr)
	require.True(t, ok)
	assert.Equal(t, "..", rng.Op.String())
}

func TestParseTryCatchFinally(t *testing.T) {
	b := mustParse(t, `
try {
    risky()
} catch (e: IOError) {
    handle(e)
} finally {
    cleanup()
}
`)
	ts, ok := b.Stmts[0].(*ast.TryStmt)
	require.True(t, ok)
	require.Len(t, ts.Catches, 1)
	assert.Equal(t, "IOError", ts.Catches[0].Kind)
	require.NotNil(t, ts.Finally)
}

func TestParseUseStmt(t *testing.T) {
	b := mustParse(t, `use (val f = openFile("x")) { read(f) }`)
	u, ok := b.Stmts[0].(*ast.UseStmt)
	require.True(t, ok)
	assert.Equal(t, "f", u.Name)
}

func TestParseImportForms(t *testing.T) {
	b := mustParse(t, "import collections.list\nimport collections.*\nimport collections.Map as M")
	i1 := b.Stmts[0].(*ast.ImportStmt)
	assert.Equal(t, "symbol", i1.Spec.Kind)
	assert.Equal(t, "collections", i1.Spec.Path)
	assert.Equal(t, "list", i1.Spec.Name)

	i2 := b.Stmts[1].(*ast.ImportStmt)
	assert.Equal(t, "wildcard", i2.Spec.Kind)

	i3 := b.Stmts[2].(*ast.ImportStmt)
	assert.Equal(t, "alias", i3.Spec.Kind)
	assert.Equal(t, "M", i3.Spec.Alias)
}

func TestParseLaunchAndScopeExpr(t *testing.T) {
	b := mustParse(t, `
launch {
    work()
}
val r = coroutineScope { compute() }
`)
	_, ok := b.Stmts[0].(*ast.LaunchStmt)
	require.True(t, ok)

	val := b.Stmts[1].(*ast.ValDeclStmt)
	_, ok = val.Value.(*ast.ScopeExpr)
	assert.True(t, ok)
}

func TestParseBinaryPrecedence(t *testing.T) {
	b := mustParse(t, "val x = 1 + 2 * 3")
	val := b.Stmts[0].(*ast.ValDeclStmt)
	bin, ok := val.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op.String())
	rhs, ok := bin.Y.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "*", rhs.Op.String())
}

func TestParsePipelineAndElvis(t *testing.T) {
	b := mustParse(t, "val x = a |> f\nval y = a ?: b")
	pv := b.Stmts[0].(*ast.ValDeclStmt)
	_, ok := pv.Value.(*ast.PipelineExpr)
	assert.True(t, ok)

	ev := b.Stmts[1].(*ast.ValDeclStmt)
	_, ok = ev.Value.(*ast.ElvisExpr)
	assert.True(t, ok)
}

func TestParseLambdaAndTrailingLambda(t *testing.T) {
	b := mustParse(t, "val f = { a, b -> a + b }\nval r = items.map { x -> x * 2 }")
	lv := b.Stmts[0].(*ast.ValDeclStmt)
	lam, ok := lv.Value.(*ast.LambdaExpr)
	require.True(t, ok)
	require.Len(t, lam.Params, 2)

	rv := b.Stmts[1].(*ast.ValDeclStmt)
	call, ok := rv.Value.(*ast.CallExpr)
	require.True(t, ok)
	require.Len(t, call.Args, 1)
	_, ok = call.Args[0].Value.(*ast.LambdaExpr)
	assert.True(t, ok)
}

func TestParsePartialCall(t *testing.T) {
	b := mustParse(t, "val f = add(_, 1)")
	v := b.Stmts[0].(*ast.ValDeclStmt)
	_, ok := v.Value.(*ast.PartialCallExpr)
	assert.True(t, ok)
}

func TestParseWhenExpr(t *testing.T) {
	b := mustParse(t, `
val r = when (x) {
    1 -> "one"
    2 -> "two"
    else -> "many"
}
`)
	v := b.Stmts[0].(*ast.ValDeclStmt)
	w, ok := v.Value.(*ast.WhenExpr)
	require.True(t, ok)
	require.Len(t, w.Branches, 3)
	assert.Nil(t, w.Branches[2].Cond)
}

func TestParseInterpolatedString(t *testing.T) {
	b := mustParse(t, `val s = "hello $name, you are ${age + 1}"`)
	v := b.Stmts[0].(*ast.ValDeclStmt)
	interp, ok := v.Value.(*ast.InterpStringLit)
	require.True(t, ok)
	require.Len(t, interp.Exprs, 2)
	id, ok := interp.Exprs[0].(*ast.Ident)
	require.True(t, ok)
	assert.Equal(t, "name", id.Name)
	_, ok = interp.Exprs[1].(*ast.BinaryExpr)
	assert.True(t, ok)
}

func TestParseListAndMapLiterals(t *testing.T) {
	b := mustParse(t, "val l = [1, 2, *rest]\nval m = [\"a\": 1, \"b\": 2]")
	lv := b.Stmts[0].(*ast.ValDeclStmt)
	l, ok := lv.Value.(*ast.ListLit)
	require.True(t, ok)
	require.Len(t, l.Elems, 3)
	_, ok = l.Elems[2].(*ast.SpreadExpr)
	assert.True(t, ok)

	mv := b.Stmts[1].(*ast.ValDeclStmt)
	m, ok := mv.Value.(*ast.MapLit)
	require.True(t, ok)
	require.Len(t, m.Entries, 2)
}

func TestParseIsAsExpr(t *testing.T) {
	b := mustParse(t, "val a = x is String\nval b = x as Int")
	av := b.Stmts[0].(*ast.ValDeclStmt)
	is, ok := av.Value.(*ast.IsExpr)
	require.True(t, ok)
	assert.Equal(t, "String", is.Type)

	bv := b.Stmts[1].(*ast.ValDeclStmt)
	as, ok := bv.Value.(*ast.AsExpr)
	require.True(t, ok)
	assert.Equal(t, "Int", as.Type)
}

func TestParseErrorRecovery(t *testing.T) {
	_, err := parser.ParseChunk("bad.nova", []byte("val = "))
	assert.Error(t, err)
}

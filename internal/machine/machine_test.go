package machine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nova-lang/nova/internal/machine"
	"github.com/nova-lang/nova/internal/types"
	"github.com/nova-lang/nova/lang/hir"
	"github.com/nova-lang/nova/lang/linearize"
	"github.com/nova-lang/nova/lang/mir"
	"github.com/nova-lang/nova/lang/parser"
)

func compile(t *testing.T, src string) *linearize.Program {
	t.Helper()
	chunk, err := parser.ParseChunk("test.nova", []byte(src))
	require.NoError(t, err)
	prog := hir.Lower(chunk)
	hir.Resolve(prog, map[string]bool{"print": true})
	m := mir.Build(prog)
	return linearize.Linearize(m)
}

func run(t *testing.T, src string) (types.Value, error) {
	t.Helper()
	p := compile(t, src)
	th := &machine.Thread{}
	return th.RunProgram(context.Background(), p)
}

func TestRunArithmetic(t *testing.T) {
	v, err := run(t, `return 1 + 2 * 3`)
	require.NoError(t, err)
	assert.Equal(t, types.Int(7), v)
}

func TestRunClosureCapturesSharedCell(t *testing.T) {
	v, err := run(t, `
fun makeCounter() {
    var n = 0
    fun inc() {
        n = n + 1
        return n
    }
    return inc
}
val c = makeCounter()
val a = c()
val b = c()
return a + b
`)
	require.NoError(t, err)
	assert.Equal(t, types.Int(3), v)
}

func TestRunFinallyRunsOnNormalCompletion(t *testing.T) {
	v, err := run(t, `
fun runIt() {
    var result = 0
    try {
        result = 1
    } finally {
        result = result + 10
    }
    return result
}
return runIt()
`)
	require.NoError(t, err)
	assert.Equal(t, types.Int(11), v, "finally must run on the ordinary, non-exceptional exit path")
}

func TestRunCatchHandlesThrownValueThenRunsFinally(t *testing.T) {
	v, err := run(t, `
fun runIt() {
    var result = 0
    try {
        throw "boom"
    } catch (e: Exception) {
        result = 5
    } finally {
        result = result + 100
    }
    return result
}
return runIt()
`)
	require.NoError(t, err)
	assert.Equal(t, types.Int(105), v)
}

func TestRunUncaughtThrowPropagatesAsNovaError(t *testing.T) {
	_, err := run(t, `
fun runIt() {
    throw "boom"
}
return runIt()
`)
	require.Error(t, err)
	nerr, ok := err.(*machine.NovaError)
	require.True(t, ok)
	assert.Equal(t, "UserError", nerr.Kind)
}

// listCursor backs the iterator()/hasNext()/next() universal protocol
// emitForIn's lowering calls; internal/stdlib is expected to register the
// real versions of these against every Iterable once it exists.
type listCursor struct {
	it  types.Iterator
	cur types.Value
	ok  bool
	hasPeek bool
}

var _ types.Value = (*listCursor)(nil)

func (c *listCursor) String() string    { return "<cursor>" }
func (c *listCursor) TypeName() string  { return "Cursor" }
func (c *listCursor) Freeze()           {}
func (c *listCursor) Truth() types.Bool { return types.True }

func (c *listCursor) peek() {
	if !c.hasPeek {
		c.ok = c.it.Next(&c.cur)
		c.hasPeek = true
	}
}

func registerIterationProtocol() {
	machine.RegisterUniversal("iterator", machine.NewBuiltin("iterator", func(th *machine.Thread, args []types.Value) (types.Value, error) {
		it := args[0].(types.Iterable)
		return &listCursor{it: it.Iterate()}, nil
	}))
	machine.RegisterUniversal("hasNext", machine.NewBuiltin("hasNext", func(th *machine.Thread, args []types.Value) (types.Value, error) {
		c := args[0].(*listCursor)
		c.peek()
		return types.Bool(c.ok), nil
	}))
	machine.RegisterUniversal("next", machine.NewBuiltin("next", func(th *machine.Thread, args []types.Value) (types.Value, error) {
		c := args[0].(*listCursor)
		c.peek()
		v := c.cur
		c.hasPeek = false
		return v, nil
	}))
}

func TestRunForInSumsAList(t *testing.T) {
	registerIterationProtocol()
	v, err := run(t, `
fun runIt() {
    var total = 0
    for (x in [1, 2, 3]) {
        total = total + x
    }
    return total
}
return runIt()
`)
	require.NoError(t, err)
	assert.Equal(t, types.Int(6), v)
}

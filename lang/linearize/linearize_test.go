package linearize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nova-lang/nova/lang/hir"
	"github.com/nova-lang/nova/lang/linearize"
	"github.com/nova-lang/nova/lang/mir"
	"github.com/nova-lang/nova/lang/parser"
)

func build(t *testing.T, src string) *mir.Module {
	t.Helper()
	chunk, err := parser.ParseChunk("test.nova", []byte(src))
	require.NoError(t, err)
	prog := hir.Lower(chunk)
	hir.Resolve(prog, map[string]bool{"print": true})
	return mir.Build(prog)
}

func TestLinearizeStraightLineCode(t *testing.T) {
	m := build(t, `val x = 1 + 2`)
	p := linearize.Linearize(m)
	require.NotNil(t, p.TopLevel)
	assert.NotEmpty(t, p.TopLevel.Code)

	last := p.TopLevel.Code[len(p.TopLevel.Code)-1]
	assert.Equal(t, linearize.KindReturn, last.Kind)
}

func TestLinearizeIfProducesInBoundsJumpTargets(t *testing.T) {
	m := build(t, `
var y = 0
if (true) {
    y = 1
} else {
    y = 2
}
`)
	p := linearize.Linearize(m)
	fn := p.TopLevel

	foundCond := false
	for _, ins := range fn.Code {
		if ins.Kind == linearize.KindCondJump {
			foundCond = true
			assert.GreaterOrEqual(t, ins.Then, 0)
			assert.Less(t, ins.Then, len(fn.Code))
			assert.GreaterOrEqual(t, ins.Else, 0)
			assert.Less(t, ins.Else, len(fn.Code))
		}
		if ins.Kind == linearize.KindJump {
			assert.GreaterOrEqual(t, ins.Then, 0)
			assert.Less(t, ins.Then, len(fn.Code))
		}
	}
	assert.True(t, foundCond, "expected a KindCondJump in the flattened if")
}

func TestLinearizeWhileBackEdgeStaysInBounds(t *testing.T) {
	m := build(t, `
var i = 0
while (i < 10) {
    i = i + 1
}
`)
	p := linearize.Linearize(m)
	fn := p.TopLevel
	for _, ins := range fn.Code {
		if ins.Kind == linearize.KindJump {
			assert.Less(t, ins.Then, len(fn.Code))
		}
		if ins.Kind == linearize.KindCondJump {
			assert.Less(t, ins.Then, len(fn.Code))
			assert.Less(t, ins.Else, len(fn.Code))
		}
	}
}

func TestLinearizeTryCatchRegionCoversBody(t *testing.T) {
	m := build(t, `
try {
    print("a")
} catch (e: Exception) {
    print("b")
} finally {
    print("c")
}
`)
	p := linearize.Linearize(m)
	fn := p.TopLevel
	require.Len(t, fn.Catches, 1)
	region := fn.Catches[0]
	assert.True(t, region.FromPC < region.ToPC)
	assert.GreaterOrEqual(t, region.CatchPC, 0)
	assert.NotEqual(t, -1, region.FinallyPC)
	assert.Equal(t, "Exception", region.CatchKind)
}

func TestLinearizeNestedFunctionGetsOwnCode(t *testing.T) {
	m := build(t, `
val inc = { x: Int -> x + 1 }
inc(1)
`)
	p := linearize.Linearize(m)
	require.Len(t, p.Functions, 2)
	for _, fn := range p.Functions {
		assert.NotEmpty(t, fn.Code)
	}
}

package machine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nova-lang/nova/internal/types"
)

func TestRunListInstanceMethods(t *testing.T) {
	v, err := run(t, `
var xs = [1, 2, 3]
xs.add(4)
xs.removeAt(0)
return xs.size()
`)
	require.NoError(t, err)
	assert.Equal(t, types.Int(3), v)
}

func TestRunListContainsAndIndexOf(t *testing.T) {
	v, err := run(t, `
var xs = [10, 20, 30]
return xs.contains(20)
`)
	require.NoError(t, err)
	assert.Equal(t, types.Bool(true), v)

	v, err = run(t, `
var xs = [10, 20, 30]
return xs.indexOf(30)
`)
	require.NoError(t, err)
	assert.Equal(t, types.Int(2), v)
}

func TestRunMapInstanceMethods(t *testing.T) {
	v, err := run(t, `
var m = ["a": 1]
m.put("b", 2)
return m.size()
`)
	require.NoError(t, err)
	assert.Equal(t, types.Int(2), v)

	v, err = run(t, `
var m = ["a": 1]
return m.containsKey("a")
`)
	require.NoError(t, err)
	assert.Equal(t, types.Bool(true), v)
}

func TestRunStringInstanceMethods(t *testing.T) {
	v, err := run(t, `return "Nova".toUpperCase()`)
	require.NoError(t, err)
	assert.Equal(t, types.String("NOVA"), v)

	v, err = run(t, `return "  hi  ".trim()`)
	require.NoError(t, err)
	assert.Equal(t, types.String("hi"), v)

	v, err = run(t, `return "hello".length()`)
	require.NoError(t, err)
	assert.Equal(t, types.Int(5), v)
}

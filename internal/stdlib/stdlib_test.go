package stdlib_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nova-lang/nova/interp"
	"github.com/nova-lang/nova/internal/security"
)

// Exercises every built-in module package stdlib registers by running a
// small script per module through the full interp pipeline and checking
// the resulting value or stdout, the same black-box style
// lang/parser/parser_test.go and lang/hir/hir_test.go use for their own
// surface (parse/lower a snippet, assert on the structured result)
// applied one layer further down the pipeline, against actual execution.
func evalString(t *testing.T, src string) (string, string) {
	t.Helper()
	var out bytes.Buffer
	ip := interp.New()
	ip.SetStdout(&out)
	ip.SetSecurityPolicy(security.Unrestricted())
	result, err := ip.Eval([]byte(src), "test.nova")
	require.NoError(t, err)
	return result.String(), out.String()
}

func TestCollectionsModule(t *testing.T) {
	result, _ := evalString(t, `
import collections.*
val doubled = map([1, 2, 3]) { x -> x * 2 }
val evens = filter(doubled) { x -> x % 4 == 0 }
joinToString(evens, ", ")
`)
	require.Equal(t, "4", result)
}

func TestCollectionsSortedReversed(t *testing.T) {
	result, _ := evalString(t, `
import collections.*
joinToString(reversed(sorted([3, 1, 2])), "-")
`)
	require.Equal(t, "3-2-1", result)
}

func TestStringsModule(t *testing.T) {
	result, _ := evalString(t, `
import strings.*
upper(trim("  hello  "))
`)
	require.Equal(t, "HELLO", result)
}

func TestStringsPadding(t *testing.T) {
	result, _ := evalString(t, `
import strings.*
padStart("7", 3, '0')
`)
	require.Equal(t, "007", result)
}

func TestNumbersModule(t *testing.T) {
	result, _ := evalString(t, `
import numbers.*
max(abs(-5), min(3, 10))
`)
	require.Equal(t, "5", result)
}

func TestNumbersParsing(t *testing.T) {
	result, _ := evalString(t, `
import numbers.*
parseInt("42") + parseDouble("0.5")
`)
	require.Equal(t, "42.5", result)
}

func TestIoModule(t *testing.T) {
	_, out := evalString(t, `
import io.*
println("hello stdlib")
`)
	require.Equal(t, "hello stdlib\n", out)
}

func TestJsonModule(t *testing.T) {
	result, _ := evalString(t, `
import json.*
val doc = "{\"name\": \"nova\", \"count\": 3}"
query(doc, "name")
`)
	require.Equal(t, "nova", result)
}

func TestJsonValid(t *testing.T) {
	result, _ := evalString(t, `
import json.*
valid("{\"a\": 1}")
`)
	require.Equal(t, "true", result)
}

func TestTextModule(t *testing.T) {
	result, _ := evalString(t, `
import text.*
val y = toYaml(["a": 1, "b": 2])
val back = fromYaml(y)
back
`)
	require.Contains(t, result, "a")
	require.Contains(t, result, "1")
}

func TestTimeModule(t *testing.T) {
	result, _ := evalString(t, `
import time.*
nowMillis() > 0
`)
	require.Equal(t, "true", result)
}

func TestTestModule(t *testing.T) {
	result, _ := evalString(t, `
import test.*
assertEquals(2 + 2, 4)
assertTrue(1 < 2)
"ok"
`)
	require.Equal(t, "ok", result)
}

func TestTestModuleFailureReportsAssertionError(t *testing.T) {
	var out bytes.Buffer
	ip := interp.New()
	ip.SetStdout(&out)
	ip.SetSecurityPolicy(security.Unrestricted())
	_, err := ip.Eval([]byte(`
import test.*
assertEquals(1, 2)
`), "test.nova")
	require.Error(t, err)
}

func TestSystemModule(t *testing.T) {
	result, _ := evalString(t, `
import system.*
getenv("NOVA_STDLIB_TEST_DOES_NOT_EXIST") == null
`)
	require.Equal(t, "true", result)
}

func TestCoreBuiltins(t *testing.T) {
	result, _ := evalString(t, `typeof(1) + "/" + typeof("x")`)
	require.Equal(t, "Int/String", result)
}

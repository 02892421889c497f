package interp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nova-lang/nova/internal/security"
	"github.com/nova-lang/nova/internal/types"
)

// The six literal end-to-end scenarios of spec.md §8, exercised through the
// full embedding API (Eval) exactly as a host would run them, rather than
// through any one pipeline stage in isolation.

func TestScenarioArithmeticAndBinding(t *testing.T) {
	ip := New()
	v, err := ip.Eval([]byte(`
val x = 10
var y = 0
for (i in 0..<5) { y = y + i }
y + x
`), "scenario1.nova")
	require.NoError(t, err)
	require.Equal(t, types.Int(20), v)
}

func TestScenarioDataCopyAndDestructure(t *testing.T) {
	ip := New()
	v, err := ip.Eval([]byte(`
@data class V(val x: Int, val y: Int, val z: Int)
val a = V(1, 2, 3)
val b = a.copy(z = 10)
val (p, q, r) = b
p * 100 + q * 10 + r
`), "scenario2.nova")
	require.NoError(t, err)
	require.Equal(t, types.Int(1210), v)
}

func TestScenarioAnnotationProcessorOrdering(t *testing.T) {
	ip := New()
	v, err := ip.Eval([]byte(`
var names = []
registerAnnotationProcessor("tag") { t, a -> names.add(t.name) }
annotation class tag
@tag class A
@tag class B
names.size()
`), "scenario3.nova")
	require.NoError(t, err)
	require.Equal(t, types.Int(2), v)
}

func TestScenarioAnnotationProcessorRecordsFirstClassName(t *testing.T) {
	ip := New()
	v, err := ip.Eval([]byte(`
var names = []
registerAnnotationProcessor("tag") { t, a -> names.add(t.name) }
annotation class tag
@tag class A
@tag class B
names[0]
`), "scenario3b.nova")
	require.NoError(t, err)
	require.Equal(t, types.String("A"), v)
}

func TestScenarioStructuredConcurrencyCoroutineScope(t *testing.T) {
	ip := New()
	v, err := ip.Eval([]byte(`
coroutineScope { s ->
    val a = s.async { 10 }
    val b = s.async { 20 }
    a.get() + b.get()
}
`), "scenario4.nova")
	require.NoError(t, err)
	require.Equal(t, types.Int(30), v)
}

func TestScenarioSupervisorScopeIsolatesFailure(t *testing.T) {
	ip := New()
	v, err := ip.Eval([]byte(`
supervisorScope { s ->
    s.launch { throw "x" }
    val d = s.async { 42 }
    d.get()
}
`), "scenario5.nova")
	require.NoError(t, err)
	require.Equal(t, types.Int(42), v)
}

func TestScenarioCyclicImport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.nova", "fun greetA() = \"A\"\nimport b.greetB\nfun callB() = greetB()\n")
	writeFile(t, dir, "b.nova", "fun greetB() = \"B\"\nimport a.greetA\n")
	writeFile(t, dir, "app.nova", "import a.*\ncallB()\n")

	ip := New()
	ip.SetScriptBasePath(dir)
	src, err := os.ReadFile(filepath.Join(dir, "app.nova"))
	require.NoError(t, err)

	v, err := ip.Eval(src, "app.nova")
	require.NoError(t, err)
	require.Equal(t, types.String("B"), v)
}

func TestSetInstanceMethodsViaCollectionsModule(t *testing.T) {
	ip := New()
	v, err := ip.Eval([]byte(`
import collections.*
val s = setOf(1, 2)
s.add(3)
s.size()
`), "set_methods.nova")
	require.NoError(t, err)
	require.Equal(t, types.Int(3), v)
}

func TestScenarioSecurityStrictDeniesStdio(t *testing.T) {
	ip := New()
	ip.SetSecurityPolicy(security.Strict())
	_, err := ip.Eval([]byte(`
import io.*
println("hi")
1
`), "scenario-security.nova")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Security policy denied")
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

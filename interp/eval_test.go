package interp

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// snapshotted against a handful of representative scripts, grounded on
// _examples/CWBudde-go-dws/internal/interp/fixture_test.go's use of
// go-snaps to pin an interpreter's observable output across a language's
// feature surface, rather than hand-writing an expected string per case.
func TestEvalFixtures(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"arithmetic", "val x = 1 + 2 * 3\nx"},
		{"val_var", "val a = 10\nvar b = 20\nb = b + a\nb"},
		{"function", "fun add(a, b) { return a + b }\nadd(3, 4)"},
		{"string_interp", `val name = "world"
"hello $name, you are ${1 + 1}"`},
		{"list_map", "val l = [1, 2, *[3, 4]]\nval m = [\"a\": 1, \"b\": 2]\nl"},
		{"lambda", "val f = { a, b -> a + b }\nf(2, 3)"},
		{"class", `class Point(val x, val y) {
    fun length() { return x + y }
}
val p = Point(3, 4)
p.length()`},
		{"print_io", `println("hi")
1`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var out bytes.Buffer
			ip := New()
			ip.SetStdout(&out)

			result, err := ip.Eval([]byte(c.src), c.name+".nova")

			var report string
			if err != nil {
				report = fmt.Sprintf("stdout:\n%s\nerror: %s", out.String(), err)
			} else {
				report = fmt.Sprintf("stdout:\n%sresult: %s", out.String(), result.String())
			}
			snaps.MatchSnapshot(t, report)
		})
	}
}

// EvalRepl's cross-call top-level binding persistence (see eval.go's doc
// comment) is exercised directly rather than snapshotted: it's a pass/fail
// property, not a rendering worth pinning.
func TestEvalReplPersistsTopLevelBindings(t *testing.T) {
	ip := New()
	ip.SetReplMode(true)

	if _, err := ip.EvalRepl([]byte("val x = 41")); err != nil {
		t.Fatalf("first EvalRepl: %v", err)
	}
	result, err := ip.EvalRepl([]byte("x + 1"))
	if err != nil {
		t.Fatalf("second EvalRepl: %v", err)
	}
	if result.String() != "42" {
		t.Fatalf("got %s, want 42", result.String())
	}
}

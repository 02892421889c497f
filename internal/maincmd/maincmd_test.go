package maincmd_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/mna/mainer"
	"github.com/nova-lang/nova/internal/maincmd"
)

// Golden-output coverage for the run/mir/tokens/ast verbs, grounded on
// _examples/mna-nenuphar/lang/parser/parser_test.go's construction of a
// mainer.Stdio around in-memory buffers to drive a Cmd method directly
// without a subprocess, but pinned with go-snaps (as interp/eval_test.go
// does) rather than hand-maintained testdata/*.want golden files.
func TestCommands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.nova")
	src := `val x = 1 + 2 * 3
fun greet(name) { return "hi " + name }
greet("nova") + "$x"
`
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name string
		run  func(t *testing.T, c *maincmd.Cmd, stdio mainer.Stdio) error
	}{
		{"run", func(t *testing.T, c *maincmd.Cmd, stdio mainer.Stdio) error {
			return c.Run(context.Background(), stdio, []string{path})
		}},
		{"mir", func(t *testing.T, c *maincmd.Cmd, stdio mainer.Stdio) error {
			return c.Mir(context.Background(), stdio, []string{path})
		}},
		{"tokens", func(t *testing.T, c *maincmd.Cmd, stdio mainer.Stdio) error {
			return c.Tokens(context.Background(), stdio, []string{path})
		}},
		{"ast", func(t *testing.T, c *maincmd.Cmd, stdio mainer.Stdio) error {
			return c.Ast(context.Background(), stdio, []string{path})
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}
			c := &maincmd.Cmd{}

			runErr := tc.run(t, c, stdio)

			report := "stdout:\n" + out.String() + "stderr:\n" + errOut.String()
			if runErr != nil {
				report += "error: " + runErr.Error() + "\n"
			}
			snaps.MatchSnapshot(t, report)
		})
	}
}

package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/nova-lang/nova/interp"
	"github.com/nova-lang/nova/internal/types"
)

// Run implements the `nova run <path> [-- <arg>...]` command: script mode,
// spec.md §6's "fresh environment except for stdlib".
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(stdio.Stderr, "run: a script path must be provided")
		return errNoPath
	}
	path, scriptArgs := args[0], args[1:]

	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "run: %s\n", err)
		return err
	}

	ip, err := newConfiguredInterpreter(c, stdio, scriptArgs)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "run: %s\n", err)
		return err
	}

	result, err := ip.Eval(src, path)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return err
	}
	if _, isNull := result.(types.Null); !isNull && result != nil {
		fmt.Fprintln(stdio.Stdout, result.String())
	}
	return nil
}

var errNoPath = fmt.Errorf("no script path given")

// newConfiguredInterpreter builds an interp.Interpreter wired to stdio and
// the resolved --policy flag, shared by run/repl/mir.
func newConfiguredInterpreter(c *Cmd, stdio mainer.Stdio, scriptArgs []string) (*interp.Interpreter, error) {
	policy, err := resolvePolicy(c.Policy)
	if err != nil {
		return nil, err
	}
	ip := interp.New()
	ip.SetStdout(stdio.Stdout)
	ip.SetSecurityPolicy(policy)
	ip.SetCliArgs(scriptArgs)
	return ip, nil
}

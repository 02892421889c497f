package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
)

// Mir implements `nova mir <path>`: compiles a script through MIR and the
// default optimization pipeline and prints its function list and the
// ordered pass names that ran over it (spec.md §6's
// `getMirPipeline() -> Pipeline`), without linearizing or running it.
func (c *Cmd) Mir(ctx context.Context, stdio mainer.Stdio, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(stdio.Stderr, "mir: a script path must be provided")
		return errNoPath
	}
	path := args[0]

	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "mir: %s\n", err)
		return err
	}

	ip, err := newConfiguredInterpreter(c, stdio, nil)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "mir: %s\n", err)
		return err
	}

	mod, err := ip.PrecompileToMir(src, path)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return err
	}

	fmt.Fprintf(stdio.Stdout, "module %s\n", mod.Name())
	fmt.Fprintln(stdio.Stdout, "functions:")
	for _, name := range mod.FunctionNames() {
		fmt.Fprintf(stdio.Stdout, "  %s\n", name)
	}
	fmt.Fprintln(stdio.Stdout, "optimization pipeline:")
	for _, pass := range ip.GetMirPipeline().Passes() {
		fmt.Fprintf(stdio.Stdout, "  %s\n", pass.Name())
	}
	return nil
}

package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/nova-lang/nova/lang/ast"
	"github.com/nova-lang/nova/lang/parser"
)

// Ast implements `nova ast <path>`: runs the parser alone and prints the
// resulting syntax tree, for debugging the parser independently of
// lowering/resolution.
func (c *Cmd) Ast(ctx context.Context, stdio mainer.Stdio, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(stdio.Stderr, "ast: a script path must be provided")
		return errNoPath
	}
	path := args[0]

	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "ast: %s\n", err)
		return err
	}

	chunk, err := parser.ParseChunk(path, src)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	fmt.Fprintln(stdio.Stdout, ast.Sprint(chunk))
	return nil
}

package maincmd

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/mna/mainer"
	"github.com/nova-lang/nova/internal/types"
)

// Repl implements `nova repl`: an interactive loop preserving top-level
// bindings across entries (spec.md §6's EvalRepl contract), reading one
// line at a time from stdio.Stdin and evaluating each line on its own as
// one EvalRepl call. Lines are not joined: a construct split across
// several prompts (an unbalanced brace) is compiled line by line.
func (c *Cmd) Repl(ctx context.Context, stdio mainer.Stdio, args []string) error {
	ip, err := newConfiguredInterpreter(c, stdio, args)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "repl: %s\n", err)
		return err
	}
	ip.SetReplMode(true)

	in := bufio.NewReader(stdio.Stdin)
	for {
		fmt.Fprint(stdio.Stdout, "> ")
		line, err := in.ReadString('\n')
		if err == io.EOF && line == "" {
			fmt.Fprintln(stdio.Stdout)
			return nil
		}
		if err != nil && err != io.EOF {
			fmt.Fprintf(stdio.Stderr, "repl: %s\n", err)
			return err
		}

		result, evalErr := ip.EvalRepl([]byte(line))
		if evalErr != nil {
			fmt.Fprintf(stdio.Stderr, "%s\n", evalErr)
		} else if _, isNull := result.(types.Null); !isNull && result != nil {
			fmt.Fprintln(stdio.Stdout, result.String())
		}

		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if err == io.EOF {
			return nil
		}
	}
}

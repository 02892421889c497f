package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/nova-lang/nova/lang/scanner"
	"github.com/nova-lang/nova/lang/token"
)

// Tokens implements `nova tokens <path>`: runs the scanner alone and prints
// the resulting token stream, one per line, for debugging the lexer
// independently of the parser.
func (c *Cmd) Tokens(ctx context.Context, stdio mainer.Stdio, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(stdio.Stderr, "tokens: a script path must be provided")
		return errNoPath
	}
	path := args[0]

	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "tokens: %s\n", err)
		return err
	}

	var scanErr error
	sc := scanner.New(path, src)
	for {
		tok := sc.Scan(func(pos token.Pos, msg string) {
			if scanErr == nil {
				line, col := pos.LineCol()
				scanErr = fmt.Errorf("%s:%d:%d: %s", path, line, col, msg)
			}
		})
		line, col := tok.Pos.LineCol()
		if tok.Lit != "" {
			fmt.Fprintf(stdio.Stdout, "%d:%d: %s %q\n", line, col, tok.Kind, tok.Lit)
		} else {
			fmt.Fprintf(stdio.Stdout, "%d:%d: %s\n", line, col, tok.Kind)
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	if scanErr != nil {
		fmt.Fprintln(stdio.Stderr, scanErr)
	}
	return scanErr
}

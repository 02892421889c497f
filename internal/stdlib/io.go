package stdlib

import (
	"io"

	"github.com/nova-lang/nova/internal/machine"
	"github.com/nova-lang/nova/internal/types"
)

// ioModule implements `import io.*`: print/println/readLine against the
// running Thread's own stdio, security-gated the same way every other
// capability-sensitive builtin is (Thread.AllowStdio, copied there from
// internal/security.Policy.AllowStdio), so an embedder running a Strict-
// preset script can still deny console access even though io.println is
// otherwise always in scope.
func ioModule() map[string]types.Value {
	return map[string]types.Value{
		"print":    builtin("print", bPrint),
		"println":  builtin("println", bPrintln),
		"readLine": builtin("readLine", bReadLine),
	}
}

func bPrint(th *machine.Thread, args []types.Value) (types.Value, error) {
	if err := requireCapability(th, th.AllowStdio, "console output"); err != nil {
		return nil, err
	}
	for _, a := range args {
		io.WriteString(th.Out(), a.String())
	}
	return types.Null{}, nil
}

func bPrintln(th *machine.Thread, args []types.Value) (types.Value, error) {
	if err := requireCapability(th, th.AllowStdio, "console output"); err != nil {
		return nil, err
	}
	for _, a := range args {
		io.WriteString(th.Out(), a.String())
	}
	io.WriteString(th.Out(), "\n")
	return types.Null{}, nil
}

func bReadLine(th *machine.Thread, args []types.Value) (types.Value, error) {
	if err := requireCapability(th, th.AllowStdio, "console input"); err != nil {
		return nil, err
	}
	line, err := th.ReadLine()
	if err != nil {
		return types.Null{}, nil
	}
	return types.String(line), nil
}

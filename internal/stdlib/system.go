package stdlib

import (
	"bytes"
	"os"
	"os/exec"

	"github.com/nova-lang/nova/internal/machine"
	"github.com/nova-lang/nova/internal/types"
)

// systemModule implements `import system.*`: process environment and CLI
// arguments (the latter populated into Thread.Predeclared's "args" binding
// by the embedding API's SetCliArgs, read back out here rather than
// threaded through a dedicated Thread field), plus a capability-gated
// subprocess runner mirroring AllowExec the way io.go mirrors AllowStdio.
func systemModule() map[string]types.Value {
	return map[string]types.Value{
		"getenv": builtin("getenv", bGetenv),
		"args":   builtin("args", bArgs),
		"exec":   builtin("exec", bExec),
	}
}

func bGetenv(th *machine.Thread, args []types.Value) (types.Value, error) {
	name, err := strArg("getenv", args, 0)
	if err != nil {
		return nil, err
	}
	v, ok := os.LookupEnv(name)
	if !ok {
		return types.Null{}, nil
	}
	return types.String(v), nil
}

func bArgs(th *machine.Thread, args []types.Value) (types.Value, error) {
	if v, ok := th.Lookup("args"); ok {
		return v, nil
	}
	return types.NewList(nil), nil
}

func bExec(th *machine.Thread, args []types.Value) (types.Value, error) {
	if err := requireCapability(th, th.AllowExec, "subprocess execution"); err != nil {
		return nil, err
	}
	if len(args) < 1 {
		return nil, argErr("exec", 1, len(args))
	}
	name, err := strArg("exec", args, 0)
	if err != nil {
		return nil, err
	}
	argv := make([]string, 0, len(args)-1)
	for i := 1; i < len(args); i++ {
		s, ok := args[i].(types.String)
		if !ok {
			return nil, &machine.NovaError{Kind: "TypeError", Message: "exec arguments must be Strings"}
		}
		argv = append(argv, string(s))
	}
	var out bytes.Buffer
	cmd := exec.Command(name, argv...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return nil, &machine.NovaError{Kind: "UserError", Message: "exec " + name + ": " + err.Error()}
	}
	return types.String(out.String()), nil
}

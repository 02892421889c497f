package stdlib

import (
	"strings"

	"github.com/nova-lang/nova/internal/machine"
	"github.com/nova-lang/nova/internal/types"
)

// stringsModule implements `import strings.*`: a thin wrapper over the
// standard library's strings package, following spec.md's description of
// `strings` as a Kotlin-stdlib-flavored text-manipulation module.
func stringsModule() map[string]types.Value {
	return map[string]types.Value{
		"upper":      builtin("upper", bUpper),
		"lower":      builtin("lower", bLower),
		"trim":       builtin("trim", bTrim),
		"split":      builtin("split", bSplit),
		"replace":    builtin("replace", bReplace),
		"startsWith": builtin("startsWith", bStartsWith),
		"endsWith":   builtin("endsWith", bEndsWith),
		"contains":   builtin("contains", bStringContains),
		"repeat":     builtin("repeat", bRepeat),
		"padStart":   builtin("padStart", bPadStart),
		"padEnd":     builtin("padEnd", bPadEnd),
		"indexOf":    builtin("indexOf", bIndexOf),
	}
}

func strArg(name string, args []types.Value, i int) (string, error) {
	if i >= len(args) {
		return "", &machine.NovaError{Kind: "TypeError", Message: name + " is missing an argument"}
	}
	s, ok := args[i].(types.String)
	if !ok {
		return "", &machine.NovaError{Kind: "TypeError", Message: name + " expects a String argument, got " + args[i].TypeName()}
	}
	return string(s), nil
}

func bUpper(th *machine.Thread, args []types.Value) (types.Value, error) {
	s, err := strArg("upper", args, 0)
	if err != nil {
		return nil, err
	}
	return types.String(strings.ToUpper(s)), nil
}

func bLower(th *machine.Thread, args []types.Value) (types.Value, error) {
	s, err := strArg("lower", args, 0)
	if err != nil {
		return nil, err
	}
	return types.String(strings.ToLower(s)), nil
}

func bTrim(th *machine.Thread, args []types.Value) (types.Value, error) {
	s, err := strArg("trim", args, 0)
	if err != nil {
		return nil, err
	}
	return types.String(strings.TrimSpace(s)), nil
}

func bSplit(th *machine.Thread, args []types.Value) (types.Value, error) {
	s, err := strArg("split", args, 0)
	if err != nil {
		return nil, err
	}
	sep, err := strArg("split", args, 1)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(s, sep)
	out := make([]types.Value, len(parts))
	for i, p := range parts {
		out[i] = types.String(p)
	}
	return types.NewList(out), nil
}

func bReplace(th *machine.Thread, args []types.Value) (types.Value, error) {
	s, err := strArg("replace", args, 0)
	if err != nil {
		return nil, err
	}
	old, err := strArg("replace", args, 1)
	if err != nil {
		return nil, err
	}
	newStr, err := strArg("replace", args, 2)
	if err != nil {
		return nil, err
	}
	return types.String(strings.ReplaceAll(s, old, newStr)), nil
}

func bStartsWith(th *machine.Thread, args []types.Value) (types.Value, error) {
	s, err := strArg("startsWith", args, 0)
	if err != nil {
		return nil, err
	}
	prefix, err := strArg("startsWith", args, 1)
	if err != nil {
		return nil, err
	}
	return types.Bool(strings.HasPrefix(s, prefix)), nil
}

func bEndsWith(th *machine.Thread, args []types.Value) (types.Value, error) {
	s, err := strArg("endsWith", args, 0)
	if err != nil {
		return nil, err
	}
	suffix, err := strArg("endsWith", args, 1)
	if err != nil {
		return nil, err
	}
	return types.Bool(strings.HasSuffix(s, suffix)), nil
}

func bStringContains(th *machine.Thread, args []types.Value) (types.Value, error) {
	s, err := strArg("contains", args, 0)
	if err != nil {
		return nil, err
	}
	sub, err := strArg("contains", args, 1)
	if err != nil {
		return nil, err
	}
	return types.Bool(strings.Contains(s, sub)), nil
}

func bRepeat(th *machine.Thread, args []types.Value) (types.Value, error) {
	s, err := strArg("repeat", args, 0)
	if err != nil {
		return nil, err
	}
	n, err := intArg(args[1:])
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, &machine.NovaError{Kind: "TypeError", Message: "repeat count must be non-negative"}
	}
	return types.String(strings.Repeat(s, int(n))), nil
}

func padArgs(name string, args []types.Value) (string, int, rune, error) {
	s, err := strArg(name, args, 0)
	if err != nil {
		return "", 0, 0, err
	}
	n, err := intArg(args[1:2])
	if err != nil {
		return "", 0, 0, err
	}
	pad := ' '
	if len(args) > 2 {
		c, ok := args[2].(types.Char)
		if !ok {
			return "", 0, 0, &machine.NovaError{Kind: "TypeError", Message: name + " pad char must be a Char"}
		}
		pad = rune(c)
	}
	return s, int(n), pad, nil
}

func bPadStart(th *machine.Thread, args []types.Value) (types.Value, error) {
	s, n, pad, err := padArgs("padStart", args)
	if err != nil {
		return nil, err
	}
	runes := []rune(s)
	for len(runes) < n {
		runes = append([]rune{pad}, runes...)
	}
	return types.String(runes), nil
}

func bPadEnd(th *machine.Thread, args []types.Value) (types.Value, error) {
	s, n, pad, err := padArgs("padEnd", args)
	if err != nil {
		return nil, err
	}
	runes := []rune(s)
	for len(runes) < n {
		runes = append(runes, pad)
	}
	return types.String(runes), nil
}

func bIndexOf(th *machine.Thread, args []types.Value) (types.Value, error) {
	s, err := strArg("indexOf", args, 0)
	if err != nil {
		return nil, err
	}
	sub, err := strArg("indexOf", args, 1)
	if err != nil {
		return nil, err
	}
	return types.Int(strings.Index(s, sub)), nil
}

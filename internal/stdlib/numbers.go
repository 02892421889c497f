package stdlib

import (
	"math"
	"strconv"

	"github.com/nova-lang/nova/internal/machine"
	"github.com/nova-lang/nova/internal/types"
)

// numbersModule implements `import numbers.*`: numeric parsing and the
// math functions Kotlin's kotlin.math package exposes as top-level
// functions rather than methods, mirrored here the same way.
func numbersModule() map[string]types.Value {
	return map[string]types.Value{
		"parseInt":    builtin("parseInt", bParseInt),
		"parseLong":   builtin("parseLong", bParseLong),
		"parseDouble": builtin("parseDouble", bParseDouble),
		"abs":         builtin("abs", bAbs),
		"sqrt":        builtin("sqrt", bSqrt),
		"pow":         builtin("pow", bPow),
		"floor":       builtin("floor", bFloor),
		"ceil":        builtin("ceil", bCeil),
		"round":       builtin("round", bRound),
		"min":         builtin("min", bMin),
		"max":         builtin("max", bMax),
	}
}

func bParseInt(th *machine.Thread, args []types.Value) (types.Value, error) {
	s, err := strArg("parseInt", args, 0)
	if err != nil {
		return nil, err
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, &machine.NovaError{Kind: "NumberFormatError", Message: "not a valid int: " + s}
	}
	return types.Int(n), nil
}

func bParseLong(th *machine.Thread, args []types.Value) (types.Value, error) {
	s, err := strArg("parseLong", args, 0)
	if err != nil {
		return nil, err
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, &machine.NovaError{Kind: "NumberFormatError", Message: "not a valid long: " + s}
	}
	return types.Long(n), nil
}

func bParseDouble(th *machine.Thread, args []types.Value) (types.Value, error) {
	s, err := strArg("parseDouble", args, 0)
	if err != nil {
		return nil, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, &machine.NovaError{Kind: "NumberFormatError", Message: "not a valid double: " + s}
	}
	return types.Double(f), nil
}

func floatArg(name string, args []types.Value, i int) (float64, error) {
	if i >= len(args) {
		return 0, &machine.NovaError{Kind: "TypeError", Message: name + " is missing an argument"}
	}
	switch n := args[i].(type) {
	case types.Int:
		return float64(n), nil
	case types.Long:
		return float64(n), nil
	case types.Double:
		return float64(n), nil
	}
	return 0, &machine.NovaError{Kind: "TypeError", Message: name + " expects a numeric argument, got " + args[i].TypeName()}
}

// reNumber wraps a float64 result back up in args[0]'s own numeric tag, so
// `abs(-3)` stays an Int rather than widening every math function's result
// to Double the way a naive float64-everywhere implementation would.
func reNumber(orig types.Value, f float64) types.Value {
	switch orig.(type) {
	case types.Int:
		return types.Int(f)
	case types.Long:
		return types.Long(f)
	default:
		return types.Double(f)
	}
}

func bAbs(th *machine.Thread, args []types.Value) (types.Value, error) {
	if len(args) != 1 {
		return nil, argErr("abs", 1, len(args))
	}
	f, err := floatArg("abs", args, 0)
	if err != nil {
		return nil, err
	}
	return reNumber(args[0], math.Abs(f)), nil
}

func bSqrt(th *machine.Thread, args []types.Value) (types.Value, error) {
	f, err := floatArg("sqrt", args, 0)
	if err != nil {
		return nil, err
	}
	return types.Double(math.Sqrt(f)), nil
}

func bPow(th *machine.Thread, args []types.Value) (types.Value, error) {
	base, err := floatArg("pow", args, 0)
	if err != nil {
		return nil, err
	}
	exp, err := floatArg("pow", args, 1)
	if err != nil {
		return nil, err
	}
	return types.Double(math.Pow(base, exp)), nil
}

func bFloor(th *machine.Thread, args []types.Value) (types.Value, error) {
	f, err := floatArg("floor", args, 0)
	if err != nil {
		return nil, err
	}
	return types.Double(math.Floor(f)), nil
}

func bCeil(th *machine.Thread, args []types.Value) (types.Value, error) {
	f, err := floatArg("ceil", args, 0)
	if err != nil {
		return nil, err
	}
	return types.Double(math.Ceil(f)), nil
}

func bRound(th *machine.Thread, args []types.Value) (types.Value, error) {
	f, err := floatArg("round", args, 0)
	if err != nil {
		return nil, err
	}
	return types.Long(int64(math.Round(f))), nil
}

func bMin(th *machine.Thread, args []types.Value) (types.Value, error) {
	if len(args) != 2 {
		return nil, argErr("min", 2, len(args))
	}
	a, err := floatArg("min", args, 0)
	if err != nil {
		return nil, err
	}
	b, err := floatArg("min", args, 1)
	if err != nil {
		return nil, err
	}
	if a <= b {
		return args[0], nil
	}
	return args[1], nil
}

func bMax(th *machine.Thread, args []types.Value) (types.Value, error) {
	if len(args) != 2 {
		return nil, argErr("max", 2, len(args))
	}
	a, err := floatArg("max", args, 0)
	if err != nil {
		return nil, err
	}
	b, err := floatArg("max", args, 1)
	if err != nil {
		return nil, err
	}
	if a >= b {
		return args[0], nil
	}
	return args[1], nil
}

package stdlib

import (
	"github.com/nova-lang/nova/internal/machine"
	"github.com/nova-lang/nova/internal/types"
)

// testModule implements `import test.*`: in-script assertions raising
// AssertionError the same way the teacher's own *_test.go files lean on
// testify's assert/require for every check, generalized to a runtime
// module scripts can import directly rather than a Go-only test harness.
func testModule() map[string]types.Value {
	return map[string]types.Value{
		"assertTrue":   builtin("assertTrue", bAssertTrue),
		"assertFalse":  builtin("assertFalse", bAssertFalse),
		"assertEquals": builtin("assertEquals", bAssertEquals),
		"assertNull":   builtin("assertNull", bAssertNull),
		"fail":         builtin("fail", bFail),
	}
}

func assertionMessage(args []types.Value, i int, fallback string) string {
	if len(args) > i {
		if s, ok := args[i].(types.String); ok {
			return string(s)
		}
	}
	return fallback
}

func bAssertTrue(th *machine.Thread, args []types.Value) (types.Value, error) {
	if len(args) < 1 {
		return nil, argErr("assertTrue", 1, len(args))
	}
	if !args[0].Truth() {
		return nil, &machine.NovaError{Kind: "AssertionError", Message: assertionMessage(args, 1, "expected true")}
	}
	return types.Null{}, nil
}

func bAssertFalse(th *machine.Thread, args []types.Value) (types.Value, error) {
	if len(args) < 1 {
		return nil, argErr("assertFalse", 1, len(args))
	}
	if args[0].Truth() {
		return nil, &machine.NovaError{Kind: "AssertionError", Message: assertionMessage(args, 1, "expected false")}
	}
	return types.Null{}, nil
}

func bAssertEquals(th *machine.Thread, args []types.Value) (types.Value, error) {
	if len(args) < 2 {
		return nil, argErr("assertEquals", 2, len(args))
	}
	eq, err := types.Equals(args[0], args[1])
	if err != nil {
		return nil, err
	}
	if !eq {
		return nil, &machine.NovaError{Kind: "AssertionError", Message: assertionMessage(args, 2, "expected "+args[0].String()+" but got "+args[1].String())}
	}
	return types.Null{}, nil
}

func bAssertNull(th *machine.Thread, args []types.Value) (types.Value, error) {
	if len(args) < 1 {
		return nil, argErr("assertNull", 1, len(args))
	}
	if _, ok := args[0].(types.Null); !ok {
		return nil, &machine.NovaError{Kind: "AssertionError", Message: assertionMessage(args, 1, "expected null but got "+args[0].String())}
	}
	return types.Null{}, nil
}

func bFail(th *machine.Thread, args []types.Value) (types.Value, error) {
	return nil, &machine.NovaError{Kind: "AssertionError", Message: assertionMessage(args, 0, "explicit failure")}
}

package stdlib

import (
	"time"

	"github.com/nova-lang/nova/internal/machine"
	"github.com/nova-lang/nova/internal/types"
)

// CoreBuiltins returns the handful of predeclared (not import-gated) global
// functions spec.md §3/§4.7 describe as always in scope: `typeof(v)` and
// the cooperative `delay(ms)` suspension point. package interp merges these
// into every Thread's Predeclared map alongside the host-specific globals
// it builds itself (Dispatchers, registerAnnotationProcessor), which need a
// live Host/Registry this package has no business constructing.
func CoreBuiltins() map[string]types.Value {
	return map[string]types.Value{
		"typeof": builtin("typeof", bTypeOf),
		"delay":  builtin("delay", bDelay),
	}
}

func bTypeOf(th *machine.Thread, args []types.Value) (types.Value, error) {
	if len(args) != 1 {
		return nil, argErr("typeof", 1, len(args))
	}
	return types.String(args[0].TypeName()), nil
}

// bDelay is a plain time.Sleep: spec.md §4.7 lists `delay(ms)` as a
// suspension point alongside async/await/launch, but Nova's task model
// runs each coroutine on its own goroutine-backed Thread rather than a
// single-threaded event loop, so there is no scheduler to cooperatively
// yield to — blocking the calling goroutine is the suspension.
func bDelay(th *machine.Thread, args []types.Value) (types.Value, error) {
	ms, err := intArg(args)
	if err != nil {
		return nil, err
	}
	if ms < 0 {
		return nil, &machine.NovaError{Kind: "TypeError", Message: "delay duration must be non-negative"}
	}
	time.Sleep(time.Duration(ms) * time.Millisecond)
	return types.Null{}, nil
}

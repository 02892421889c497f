// Package stdlib implements spec.md §5's built-in modules: collections,
// strings, numbers, io, json, text, time, test, system. Each module is a
// plain map[string]types.Value of native builtins, registered with
// internal/module under the dotted path a user's `import collections`
// would otherwise have resolved to a `.nova` file at — the "per-module
// registry consumed by the module loader" this package's design follows
// from the teacher's lang/machine/universe.go host-extensible name table,
// generalized from "one flat map of names" to "one map per module path".
//
// Register wires every module this package implements into
// internal/module's builtin-module registry, and also installs (see
// installUniverse) internal/machine.Universe's dynamically-dispatched
// protocol names (toString, iterator, hasNext, next) that
// lang/mir/build.go's desugaring calls by name.
package stdlib

import (
	"strconv"

	"github.com/nova-lang/nova/internal/machine"
	"github.com/nova-lang/nova/internal/module"
	"github.com/nova-lang/nova/internal/types"
)

// Register installs every built-in module this package implements. Call
// once per process (or per Loader, for an embedder running more than one
// isolated interpreter); internal/module's own registry is a package-level
// map, so repeated calls are idempotent (last write wins, same as
// internal/machine.RegisterUniversal).
func Register() {
	installUniverse()
	module.RegisterBuiltinModule("collections", collectionsModule())
	module.RegisterBuiltinModule("strings", stringsModule())
	module.RegisterBuiltinModule("numbers", numbersModule())
	module.RegisterBuiltinModule("io", ioModule())
	module.RegisterBuiltinModule("json", jsonModule())
	module.RegisterBuiltinModule("text", textModule())
	module.RegisterBuiltinModule("time", timeModule())
	module.RegisterBuiltinModule("test", testModule())
	module.RegisterBuiltinModule("system", systemModule())
}

// builtin is shorthand for the Builtin constructor every module function
// below is built from.
func builtin(name string, fn func(th *machine.Thread, args []types.Value) (types.Value, error)) *machine.Builtin {
	return machine.NewBuiltin(name, fn)
}

func argErr(name string, want int, got int) error {
	return &machine.NovaError{Kind: "TypeError", Message: name + " expects " + strconv.Itoa(want) + " argument(s), got " + strconv.Itoa(got)}
}

// intArg extracts a single Int or Long argument from the front of args,
// shared by every builtin in this package that takes one integral count
// (strings.repeat, strings.padStart/padEnd, time.sleep/format).
func intArg(args []types.Value) (int64, error) {
	if len(args) == 0 {
		return 0, &machine.NovaError{Kind: "TypeError", Message: "missing integer argument"}
	}
	switch n := args[0].(type) {
	case types.Int:
		return int64(n), nil
	case types.Long:
		return int64(n), nil
	}
	return 0, &machine.NovaError{Kind: "TypeError", Message: "expected an Int or Long argument, got " + args[0].TypeName()}
}

// requireCapability gates a stdlib builtin on one of internal/security.
// Policy's capability flags, mirrored onto the calling Thread directly
// (see internal/machine/thread.go). Denying returns the same SecurityError
// shape internal/security.Check produces, so a script sees one consistent
// error kind regardless of whether the check happened in the interpreter
// core or in a stdlib module.
func requireCapability(th *machine.Thread, allowed bool, action string) error {
	if allowed {
		return nil
	}
	return &machine.NovaError{Kind: "SecurityError", Message: "Security policy denied: " + action}
}

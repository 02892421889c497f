package machine

import "github.com/nova-lang/nova/internal/types"

// Universe holds every OpLoadUniversal binding that is not one of the two
// dynamically-scoped names the interpreter resolves itself ("this" and
// "$exception"): internal/stdlib registers `toString`, `iterator`,
// `hasNext`, `next` here (the desugared-string-interpolation and for-in
// protocol functions lang/mir/build.go's emitForIn and the toString
// lowering call by name), and any name an hir.Binding left Universal/
// Undefined because resolve.go couldn't find it lexically falls back to
// this table at run time before failing with a NameError.
//
// Mirrors the teacher's lang/machine/universe.go Universe map, generalized
// from a fixed predeclared-function set to one third-party packages
// populate via RegisterUniversal rather than a literal map initializer.
var Universe = map[string]types.Value{}

// RegisterUniversal adds or replaces a name in Universe. Called from
// internal/stdlib's package init and internal/class/internal/concurrency
// wherever they expose a runtime-dispatched protocol function.
func RegisterUniversal(name string, v types.Value) { Universe[name] = v }

// IsUniverse reports whether name is bound in Universe.
func IsUniverse(name string) bool {
	_, ok := Universe[name]
	return ok
}

package machine

import "github.com/nova-lang/nova/internal/types"

// Callable is implemented by any value internal/machine itself knows how to
// invoke without delegating to *types.Function's own bytecode (a native
// Builtin, or a Class/bound-method value internal/class produces). Kept
// local to this package, not in internal/types, the same way the teacher
// keeps its own Callable interface in lang/machine rather than lang/types:
// types.Callable is only a marker (Name() string) so that package has no
// dependency on internal/machine's call-dispatch signature.
type Callable interface {
	types.Value
	Name() string
	CallInternal(th *Thread, args []types.Value) (types.Value, error)
}

// Builtin wraps a native Go function as a callable Nova value, the runtime
// shape every internal/stdlib function and internal/class synthesized
// method (equals/hashCode/toString/copy for @data classes) takes. Adapted
// from the teacher's lang/machine Builtin (name + Go func), generalized to
// Nova's []types.Value positional argument slice instead of Starlark's
// Tuple+kwargs pair, since only positional binding is supported (see
// Call's doc comment).
type Builtin struct {
	name string
	fn   func(th *Thread, args []types.Value) (types.Value, error)
}

// NewBuiltin returns a Builtin named name, implemented by fn.
func NewBuiltin(name string, fn func(th *Thread, args []types.Value) (types.Value, error)) *Builtin {
	return &Builtin{name: name, fn: fn}
}

var (
	_ types.Value = (*Builtin)(nil)
	_ Callable    = (*Builtin)(nil)
)

func (b *Builtin) String() string   { return "<builtin " + b.name + ">" }
func (b *Builtin) TypeName() string { return "Builtin" }
func (b *Builtin) Freeze()          {}
func (b *Builtin) Truth() types.Bool { return types.True }
func (b *Builtin) Name() string     { return b.name }

func (b *Builtin) CallInternal(th *Thread, args []types.Value) (types.Value, error) {
	return b.fn(th, args)
}

// Call is the single entry point for invoking any Nova callable value,
// matching the teacher's lang/machine/impl.go Call function's role (never
// call a Callable's CallInternal directly — Call is what enforces the
// recursion/stack-depth guards uniformly).
//
// Only positional argument binding is supported: neither mir.Function nor
// linearize.Function carries a parameter-name table (just NumParams int),
// so a named argument at a call site (`f(x: 1)`) cannot be matched back to
// the callee's declared parameter positions at this layer. Call itself has
// no notion of named arguments: execCall packs a call site's named
// arguments into one trailing Map argument, after the positional ones,
// before calling through here.
func Call(th *Thread, fn types.Value, args []types.Value) (types.Value, error) {
	if err := th.checkCancelled(); err != nil {
		return nil, err
	}
	switch f := fn.(type) {
	case *types.Function:
		return th.callFunction(f, args)
	case Callable:
		if th.MaxCallStackDepth > 0 && len(th.callStack) >= th.MaxCallStackDepth {
			return nil, &NovaError{Kind: "StackOverflowError", Message: "call stack depth exceeded"}
		}
		return f.CallInternal(th, args)
	default:
		return nil, &NovaError{Kind: "TypeError", Message: fn.TypeName() + " is not callable"}
	}
}

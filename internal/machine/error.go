package machine

import (
	"fmt"

	"github.com/nova-lang/nova/internal/types"
)

// NovaError is a thrown value: either a user value passed to `throw`
// (Kind == "UserError", Payload the thrown value itself) or one of the
// built-in error kinds the interpreter raises for an operation failure.
// It implements types.Value so it can be bound by a catch clause and
// inspected like any other value (`.message`, `.kind`).
//
// Kind names match the taxonomy a catch clause matches against: SyntaxError,
// NameError, TypeError, ArithmeticError, IndexError, KeyError,
// NullDereferenceError, CastError, ImportError, SecurityError,
// CancellationError, TimeoutError, ChannelClosedError, AssertionError,
// UserError, StackOverflowError, QuotaExceededError.
type NovaError struct {
	Kind    string
	Message string
	Payload types.Value // the thrown value for UserError; nil otherwise
	Pos     int
	Stack   []StackEntry
}

// StackEntry records one call-stack frame's position at the moment an error
// was raised, for diagnostics. No interpreter code appends to
// NovaError.Stack, so an uncaught error carries an empty Stack.
type StackEntry struct {
	FuncName string
	Pos      int
}

var (
	_ types.Value    = (*NovaError)(nil)
	_ types.HasAttrs = (*NovaError)(nil)
)

func (e *NovaError) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Message) }

func (e *NovaError) String() string   { return "<error " + e.Kind + ": " + e.Message + ">" }
func (e *NovaError) TypeName() string { return e.Kind }
func (e *NovaError) Freeze()          {}
func (e *NovaError) Truth() types.Bool { return types.True }

func (e *NovaError) Attr(name string) (types.Value, error) {
	switch name {
	case "message":
		return types.String(e.Message), nil
	case "kind":
		return types.String(e.Kind), nil
	case "value":
		if e.Payload != nil {
			return e.Payload, nil
		}
		return types.NullValue, nil
	}
	return nil, nil
}

func (e *NovaError) AttrNames() []string { return []string{"message", "kind", "value"} }

func newError(kind, format string, args ...interface{}) *NovaError {
	return &NovaError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// thrownValue unwraps a raised NovaError into the Value a catch clause's
// `$exception` binding should see: the user's own payload for a `throw`
// statement, or the NovaError itself for a built-in failure kind, so
// `catch (e: ArithmeticError)` can still read `e.message`.
func thrownValue(e *NovaError) types.Value {
	if e.Kind == "UserError" && e.Payload != nil {
		return e.Payload
	}
	return e
}

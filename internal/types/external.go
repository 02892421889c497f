package types

import "fmt"

// ExternalObject wraps an opaque host-provided Go value so it can flow
// through the interpreter as a Value without Nova needing to know its
// concrete shape — the handle half of internal/hostiface's host-interop
// contracts (interfaces only; this is the runtime value those interfaces
// traffic in). Grounded on the teacher's HasAttrs pattern: attribute access
// on an ExternalObject is satisfied by the Accessor function the host
// registered, not by reflection.
type ExternalObject struct {
	TypeTag  string
	Handle   interface{}
	Accessor func(handle interface{}, name string) (Value, error)
}

var (
	_ Value     = ExternalObject{}
	_ HasAttrs  = ExternalObject{}
)

func (e ExternalObject) String() string   { return fmt.Sprintf("<external %s>", e.TypeTag) }
func (e ExternalObject) TypeName() string { return e.TypeTag }
func (e ExternalObject) Freeze()          {} // host owns the underlying value's mutability
func (e ExternalObject) Truth() Bool      { return True }

func (e ExternalObject) Attr(name string) (Value, error) {
	if e.Accessor == nil {
		return nil, nil
	}
	return e.Accessor(e.Handle, name)
}

func (e ExternalObject) AttrNames() []string { return nil }

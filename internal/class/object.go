package class

import (
	"fmt"

	"github.com/nova-lang/nova/internal/types"
)

// Object is an instance of a Class. Fields live in a flat name->Value map
// rather than a fixed-layout struct, since a class's field set is only
// known once its declaration is linearized, the same reason Map/Set use a
// hash index instead of a fixed array.
type Object struct {
	class  *Class
	fields map[string]types.Value
	frozen bool
}

var (
	_ types.Value       = (*Object)(nil)
	_ types.HasAttrs    = (*Object)(nil)
	_ types.HasSetField = (*Object)(nil)
	_ types.HasIsA      = (*Object)(nil)
)

// Class returns o's runtime class, exported for internal/module and
// internal/stdlib code that needs to print a useful type name or check
// class identity directly rather than through IsA.
func (o *Object) Class() *Class { return o.class }

func (o *Object) TypeName() string { return o.class.info.Name }
func (o *Object) Truth() types.Bool { return types.True }

func (o *Object) Freeze() {
	if o.frozen {
		return
	}
	o.frozen = true
	for _, v := range o.fields {
		v.Freeze()
	}
}

// String is the fallback toString (machine.toDisplayString prefers a
// user-defined/synthesized toString method when one resolves); plain
// classes with neither default to a Java-style identity string.
func (o *Object) String() string {
	return fmt.Sprintf("%s@%p", o.class.info.Name, o)
}

// IsA implements types.HasIsA by delegating to the runtime class's own
// superclass/interface chain.
func (o *Object) IsA(name string) bool { return o.class.IsA(name) }

func (o *Object) AttrNames() []string {
	names := make([]string, 0, len(o.fields))
	for n := range o.fields {
		names = append(names, n)
	}
	return append(names, o.class.AttrNames()...)
}

// Attr implements the instance tier of method resolution order (spec.md
// §4.5): own fields first, then own methods, then the superclass chain,
// then declared interfaces (Class.findMethod already walks all of that),
// bound to this Object as receiver.
func (o *Object) Attr(name string) (types.Value, error) {
	if v, ok := o.fields[name]; ok {
		return v, nil
	}
	if m, ok := o.class.findMethod(name); ok && !m.isStatic {
		return m.bind(o), nil
	}
	return nil, nil
}

// SetField implements x.f = y against an instance field. Any name is
// written, and a name the object does not hold yet is added (this is how
// the constructor creates the object's fields). Only a frozen object
// rejects the write: val and var fields are not told apart here, so a val
// field can be reassigned after construction.
func (o *Object) SetField(name string, v types.Value) error {
	if o.frozen {
		return fmt.Errorf("cannot mutate frozen %s", o.class.info.Name)
	}
	o.fields[name] = v
	return nil
}

// Package annotation implements the processor registry of spec.md §4.6: an
// ordered list of handlers per annotation name, invoked against a completed
// class declaration's Target view.
//
// Kept separate from internal/class (which is the only Target implementor)
// so the built-in data/builder processors and a user's own
// registerAnnotationProcessor calls share one mechanism without
// internal/class and internal/annotation importing each other — the same
// reason the teacher keeps lang/machine's Callable narrow rather than
// reaching into lang/types for a concrete function value.
package annotation

import (
	"github.com/nova-lang/nova/internal/machine"
	"github.com/nova-lang/nova/internal/types"
)

// FieldInfo describes one constructor field, as exposed through a
// processor's target.fields.
type FieldInfo struct {
	Name       string
	Type       string
	Visibility string
}

// MethodInfo describes one method, as exposed through target.methods.
type MethodInfo struct {
	Name           string
	ParameterNames []string
}

// AnnotationInfo describes one `@name(args)` attached to the class, as
// exposed through target.annotations.
type AnnotationInfo struct {
	Name string
	Args map[string]types.Value
}

// Target is the view a processor gets of the class it was invoked against
// (spec.md §4.6: "target exposes name, fields, methods, annotations,
// setStaticField"). internal/class's *Class implements this; Target exists
// so this package never imports internal/class.
type Target interface {
	types.Value
	Name() string
	Fields() []FieldInfo
	Methods() []MethodInfo
	Annotations() []AnnotationInfo
	SetStaticField(name string, v types.Value) error
}

// Processor is one registered handler. Both a Language-defined processor
// (a Nova Callable Value wrapped by WrapCallable, which needs th to call
// through) and a native Go processor (internal/class's data/builder
// synthesis, which ignores th) take this same shape, so the registry never
// special-cases either kind.
type Processor func(th *machine.Thread, target Target, args map[string]types.Value) error

// WrapCallable adapts a Nova Callable Value (the "Language-defined
// processor" of spec.md §4.6, `fun(target, args)`) into a Processor. args is
// passed as a Map from parameter name to evaluated Value, matching
// target.annotations' own {name, args} shape.
func WrapCallable(fn types.Value) Processor {
	return func(th *machine.Thread, target Target, args map[string]types.Value) error {
		m := types.NewMap(len(args))
		for k, v := range args {
			if err := m.SetKey(types.String(k), v); err != nil {
				return err
			}
		}
		_, err := machine.Call(th, fn, []types.Value{target, m})
		return err
	}
}

package class

import (
	"fmt"

	"github.com/nova-lang/nova/internal/annotation"
	"github.com/nova-lang/nova/internal/machine"
	"github.com/nova-lang/nova/internal/types"
)

// builderAnnotationName is the built-in processor name for `@builder`.
const builderAnnotationName = "builder"

// builderState backs the fresh Builder object `ClassName.builder()`
// returns: a plain name->Value accumulator plus a back-pointer to the
// target class, unset fields simply absent from the map until a fluent
// setter runs.
type builderState struct {
	class  *Class
	values map[string]types.Value
}

var (
	_ types.Value    = (*builderState)(nil)
	_ types.HasAttrs = (*builderState)(nil)
)

func (b *builderState) String() string    { return "<builder for " + b.class.info.Name + ">" }
func (b *builderState) TypeName() string  { return "Builder" }
func (b *builderState) Freeze()           {}
func (b *builderState) Truth() types.Bool { return types.True }
func (b *builderState) AttrNames() []string {
	names := make([]string, 0, len(b.class.info.Fields)+1)
	for _, f := range b.class.info.Fields {
		names = append(names, f.Name)
	}
	return append(names, "build")
}

// Attr resolves both the fluent per-field setters and build() against the
// fields the class declares, so a Builder's method surface always matches
// whichever class produced it.
func (b *builderState) Attr(name string) (types.Value, error) {
	for _, f := range b.class.info.Fields {
		if f.Name != name {
			continue
		}
		fieldName := f.Name
		return machine.NewBuiltin(name, func(th *machine.Thread, args []types.Value) (types.Value, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("%s expects 1 argument, got %d", fieldName, len(args))
			}
			b.values[fieldName] = args[0]
			return b, nil
		}), nil
	}
	if name == "build" {
		return machine.NewBuiltin("build", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			for _, f := range b.class.info.Fields {
				if _, ok := b.values[f.Name]; !ok && !f.HasDefault {
					return nil, &machine.NovaError{Kind: "TypeError", Message: "builder: missing required field " + f.Name}
				}
			}
			// Assumes every primary-constructor parameter is a val/var field,
			// the shape @builder is meaningful against; a constructor with
			// extra non-field parameters is not supported by this synthesis.
			ctorArgs := make([]types.Value, len(b.class.info.Fields))
			for i, f := range b.class.info.Fields {
				v, ok := b.values[f.Name]
				if !ok {
					// f.HasDefault was already confirmed above; mir carries no
					// default *expression* for a field, only this bool, so the
					// constructor receives null rather than the declared
					// default value.
					v = types.NullValue
				}
				ctorArgs[i] = v
			}
			return b.class.instantiate(th, ctorArgs)
		}), nil
	}
	return nil, nil
}

// registerBuilderProcessor installs the @builder synthesis of spec.md §4.5:
// a static builder() factory plus an isBuilder marker on the class itself.
func registerBuilderProcessor(reg *annotation.Registry) {
	reg.Register(builderAnnotationName, func(th *machine.Thread, target annotation.Target, args map[string]types.Value) error {
		c, ok := target.(*Class)
		if !ok {
			return nil
		}
		if _, declared := c.methods["builder"]; !declared {
			c.addMethod("builder", true, func(th *machine.Thread, recv types.Value, args []types.Value) (types.Value, error) {
				return &builderState{class: c, values: map[string]types.Value{}}, nil
			})
		}
		c.staticFields["isBuilder"] = &types.Cell{V: types.True}
		hasIsBuilder := false
		for _, n := range c.staticOrder {
			if n == "isBuilder" {
				hasIsBuilder = true
				break
			}
		}
		if !hasIsBuilder {
			c.staticOrder = append(c.staticOrder, "isBuilder")
		}
		return nil
	})
}

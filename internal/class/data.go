package class

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/nova-lang/nova/internal/annotation"
	"github.com/nova-lang/nova/internal/machine"
	"github.com/nova-lang/nova/internal/types"
)

// dataAnnotationName is the built-in processor name spec.md §4.6 pre-
// registers: `@data` on a class declaration.
const dataAnnotationName = "data"

// registerDataProcessor installs the @data synthesis of spec.md §4.5:
// equals, toString, hashCode, copy, and one componentN per constructor
// field, skipping any name the class already declares itself — a
// hand-written method always wins over the synthesized one.
func registerDataProcessor(reg *annotation.Registry) {
	reg.Register(dataAnnotationName, func(th *machine.Thread, target annotation.Target, args map[string]types.Value) error {
		c, ok := target.(*Class)
		if !ok {
			return nil
		}
		fieldNames := make([]string, len(c.info.Fields))
		for i, f := range c.info.Fields {
			fieldNames[i] = f.Name
		}

		if _, declared := c.methods["equals"]; !declared {
			c.addMethod("equals", false, dataEquals(fieldNames))
		}
		if _, declared := c.methods["toString"]; !declared {
			c.addMethod("toString", false, dataToString(c.info.Name, fieldNames))
		}
		if _, declared := c.methods["hashCode"]; !declared {
			c.addMethod("hashCode", false, dataHashCode(fieldNames))
		}
		if _, declared := c.methods["copy"]; !declared {
			c.addMethod("copy", false, dataCopy(c, fieldNames))
		}
		for i, name := range fieldNames {
			compName := fmt.Sprintf("component%d", i+1)
			if _, declared := c.methods[compName]; declared {
				continue
			}
			c.addMethod(compName, false, dataComponent(name))
		}
		return nil
	})
}

func objectFields(recv types.Value) (*Object, map[string]types.Value, bool) {
	o, ok := recv.(*Object)
	if !ok {
		return nil, nil, false
	}
	return o, o.fields, true
}

func dataEquals(fieldNames []string) nativeMethod {
	return func(th *machine.Thread, recv types.Value, args []types.Value) (types.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("equals expects 1 argument, got %d", len(args))
		}
		self, selfFields, ok := objectFields(recv)
		if !ok {
			return types.False, nil
		}
		other, otherFields, ok := objectFields(args[0])
		if !ok || other.class != self.class {
			return types.False, nil
		}
		for _, name := range fieldNames {
			eq, err := types.Equals(selfFields[name], otherFields[name])
			if err != nil || !eq {
				return types.Bool(false), err
			}
		}
		return types.True, nil
	}
}

func dataToString(className string, fieldNames []string) nativeMethod {
	return func(th *machine.Thread, recv types.Value, args []types.Value) (types.Value, error) {
		_, fields, ok := objectFields(recv)
		if !ok {
			return types.String(className + "()"), nil
		}
		var sb strings.Builder
		sb.WriteString(className)
		sb.WriteByte('(')
		for i, name := range fieldNames {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(name)
			sb.WriteByte('=')
			sb.WriteString(toDisplay(th, fields[name]))
		}
		sb.WriteByte(')')
		return types.String(sb.String()), nil
	}
}

// toDisplay prefers a field value's own user-defined toString, the same
// rule machine.toDisplayString applies for string interpolation, so a
// @data class nested inside another @data class renders its fields
// recursively rather than falling back to Object's bare identity String().
func toDisplay(th *machine.Thread, v types.Value) string {
	if v == nil {
		return "null"
	}
	if attrs, ok := v.(types.HasAttrs); ok {
		if m, err := attrs.Attr("toString"); err == nil && m != nil {
			if result, err := machine.Call(th, m, nil); err == nil {
				return result.String()
			}
		}
	}
	if s, ok := v.(types.String); ok {
		return s.Quoted()
	}
	return v.String()
}

func dataHashCode(fieldNames []string) nativeMethod {
	return func(th *machine.Thread, recv types.Value, args []types.Value) (types.Value, error) {
		_, fields, ok := objectFields(recv)
		if !ok {
			return types.Int(0), nil
		}
		h := fnv.New32a()
		for _, name := range fieldNames {
			fmt.Fprintf(h, "%s=%s;", name, fields[name].String())
		}
		return types.Int(int64(h.Sum32())), nil
	}
}

// dataCopy implements `copy(namedParams…)` (spec.md §4.5). Named-argument
// call sites are not resolved to positional order anywhere in this
// codebase yet (see DESIGN.md) — machine.Call only ever hands a Builtin a
// plain positional slice — so copy accepts its overrides either
// positionally (matching constructor field order, trailing fields keep
// their current value) or as a single Map argument of field name to new
// value, whichever a caller can actually produce today.
func dataCopy(c *Class, fieldNames []string) nativeMethod {
	return func(th *machine.Thread, recv types.Value, args []types.Value) (types.Value, error) {
		self, fields, ok := objectFields(recv)
		if !ok {
			return nil, fmt.Errorf("copy called on a non-object receiver")
		}
		overrides := map[string]types.Value{}
		if len(args) == 1 {
			if m, ok := args[0].(*types.Map); ok {
				for _, p := range m.Items() {
					if k, ok := p.First.(types.String); ok {
						overrides[string(k)] = p.Second
					}
				}
			}
		}
		if len(overrides) == 0 {
			for i, v := range args {
				if i >= len(fieldNames) {
					break
				}
				overrides[fieldNames[i]] = v
			}
		}
		next := &Object{class: self.class, fields: map[string]types.Value{}}
		for k, v := range fields {
			next.fields[k] = v
		}
		for k, v := range overrides {
			next.fields[k] = v
		}
		return next, nil
	}
}

func dataComponent(fieldName string) nativeMethod {
	return func(th *machine.Thread, recv types.Value, args []types.Value) (types.Value, error) {
		_, fields, ok := objectFields(recv)
		if !ok {
			return types.NullValue, nil
		}
		return fields[fieldName], nil
	}
}

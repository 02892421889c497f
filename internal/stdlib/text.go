package stdlib

import (
	"github.com/goccy/go-yaml"

	"github.com/nova-lang/nova/internal/machine"
	"github.com/nova-lang/nova/internal/types"
)

// textModule implements `import text.*`: YAML marshaling via goccy/go-yaml,
// kept distinct from gopkg.in/yaml.v3 (used for security-policy preset
// files) so each yaml library has exactly one concern in the tree.
func textModule() map[string]types.Value {
	return map[string]types.Value{
		"toYaml":   builtin("toYaml", bToYaml),
		"fromYaml": builtin("fromYaml", bFromYaml),
	}
}

func bToYaml(th *machine.Thread, args []types.Value) (types.Value, error) {
	if len(args) != 1 {
		return nil, argErr("toYaml", 1, len(args))
	}
	out, err := yaml.Marshal(valueToPlain(args[0]))
	if err != nil {
		return nil, &machine.NovaError{Kind: "TypeError", Message: "toYaml: " + err.Error()}
	}
	return types.String(out), nil
}

func bFromYaml(th *machine.Thread, args []types.Value) (types.Value, error) {
	doc, err := strArg("fromYaml", args, 0)
	if err != nil {
		return nil, err
	}
	var decoded any
	if err := yaml.Unmarshal([]byte(doc), &decoded); err != nil {
		return nil, &machine.NovaError{Kind: "TypeError", Message: "fromYaml: " + err.Error()}
	}
	return plainToValue(decoded), nil
}

// plainToValue converts the generic any tree yaml.Unmarshal produces
// (map[string]any/[]any/string/int/float64/bool/nil) into Nova Values,
// the inverse of jsonlib's valueToPlain.
func plainToValue(v any) types.Value {
	switch x := v.(type) {
	case nil:
		return types.Null{}
	case bool:
		return types.Bool(x)
	case int:
		return types.Long(int64(x))
	case int64:
		return types.Long(x)
	case uint64:
		return types.Long(int64(x))
	case float64:
		return types.Double(x)
	case string:
		return types.String(x)
	case []any:
		out := make([]types.Value, len(x))
		for i, e := range x {
			out[i] = plainToValue(e)
		}
		return types.NewList(out)
	case map[string]any:
		m := types.NewMap(len(x))
		for k, e := range x {
			m.SetKey(types.String(k), plainToValue(e))
		}
		return m
	case map[any]any:
		m := types.NewMap(len(x))
		for k, e := range x {
			if ks, ok := k.(string); ok {
				m.SetKey(types.String(ks), plainToValue(e))
			}
		}
		return m
	default:
		return types.Null{}
	}
}

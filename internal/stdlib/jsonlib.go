package stdlib

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/nova-lang/nova/internal/machine"
	"github.com/nova-lang/nova/internal/types"
)

// jsonModule implements `import json.*`: path-query/path-set access over a
// raw JSON document string via gjson/sjson rather than a full decode into
// Nova values, the same "operate on the text, not a parsed tree" approach
// CWBudde-go-dws takes for its own JSON tool output.
func jsonModule() map[string]types.Value {
	return map[string]types.Value{
		"query":    builtin("query", bJSONQuery),
		"set":      builtin("set", bJSONSet),
		"delete":   builtin("delete", bJSONDelete),
		"valid":    builtin("valid", bJSONValid),
		"toValue":  builtin("toValue", bJSONToValue),
		"fromList": builtin("fromList", bJSONFromList),
	}
}

func bJSONQuery(th *machine.Thread, args []types.Value) (types.Value, error) {
	if len(args) != 2 {
		return nil, argErr("query", 2, len(args))
	}
	doc, err := strArg("query", args, 0)
	if err != nil {
		return nil, err
	}
	path, err := strArg("query", args, 1)
	if err != nil {
		return nil, err
	}
	res := gjson.Get(doc, path)
	if !res.Exists() {
		return types.Null{}, nil
	}
	return gjsonToValue(res), nil
}

func bJSONSet(th *machine.Thread, args []types.Value) (types.Value, error) {
	if len(args) != 3 {
		return nil, argErr("set", 3, len(args))
	}
	doc, err := strArg("set", args, 0)
	if err != nil {
		return nil, err
	}
	path, err := strArg("set", args, 1)
	if err != nil {
		return nil, err
	}
	out, err := sjson.Set(doc, path, valueToPlain(args[2]))
	if err != nil {
		return nil, &machine.NovaError{Kind: "TypeError", Message: "json.set: " + err.Error()}
	}
	return types.String(out), nil
}

func bJSONDelete(th *machine.Thread, args []types.Value) (types.Value, error) {
	if len(args) != 2 {
		return nil, argErr("delete", 2, len(args))
	}
	doc, err := strArg("delete", args, 0)
	if err != nil {
		return nil, err
	}
	path, err := strArg("delete", args, 1)
	if err != nil {
		return nil, err
	}
	out, err := sjson.Delete(doc, path)
	if err != nil {
		return nil, &machine.NovaError{Kind: "TypeError", Message: "json.delete: " + err.Error()}
	}
	return types.String(out), nil
}

func bJSONValid(th *machine.Thread, args []types.Value) (types.Value, error) {
	doc, err := strArg("valid", args, 0)
	if err != nil {
		return nil, err
	}
	return types.Bool(gjson.Valid(doc)), nil
}

func bJSONToValue(th *machine.Thread, args []types.Value) (types.Value, error) {
	doc, err := strArg("toValue", args, 0)
	if err != nil {
		return nil, err
	}
	if !gjson.Valid(doc) {
		return nil, &machine.NovaError{Kind: "TypeError", Message: "toValue: invalid JSON document"}
	}
	return gjsonToValue(gjson.Parse(doc)), nil
}

func bJSONFromList(th *machine.Thread, args []types.Value) (types.Value, error) {
	if len(args) != 1 {
		return nil, argErr("fromList", 1, len(args))
	}
	return types.String(valueToJSONText(args[0])), nil
}

// gjsonToValue converts a parsed gjson.Result into the Nova Value tree it
// represents: object -> Map, array -> List, scalars to their matching tag.
func gjsonToValue(res gjson.Result) types.Value {
	switch res.Type {
	case gjson.True, gjson.False:
		return types.Bool(res.Bool())
	case gjson.Number:
		f := res.Float()
		if f == float64(int64(f)) {
			return types.Long(int64(f))
		}
		return types.Double(f)
	case gjson.String:
		return types.String(res.String())
	case gjson.Null:
		return types.Null{}
	case gjson.JSON:
		if res.IsArray() {
			var elems []types.Value
			res.ForEach(func(_, v gjson.Result) bool {
				elems = append(elems, gjsonToValue(v))
				return true
			})
			return types.NewList(elems)
		}
		m := types.NewMap(0)
		res.ForEach(func(k, v gjson.Result) bool {
			m.SetKey(types.String(k.String()), gjsonToValue(v))
			return true
		})
		return m
	default:
		return types.Null{}
	}
}

// valueToPlain converts a Nova Value into the plain Go value sjson.Set
// expects to marshal (map[string]any/[]any/string/float64/bool/nil), used
// when setting a path to a non-scalar value.
func valueToPlain(v types.Value) any {
	switch x := v.(type) {
	case types.Null:
		return nil
	case types.Bool:
		return bool(x)
	case types.Int:
		return int64(x)
	case types.Long:
		return int64(x)
	case types.Double:
		return float64(x)
	case types.String:
		return string(x)
	case types.Char:
		return string(rune(x))
	case *types.List:
		elems, _ := iterAll(x)
		out := make([]any, len(elems))
		for i, e := range elems {
			out[i] = valueToPlain(e)
		}
		return out
	case *types.Map:
		out := map[string]any{}
		for _, p := range x.Items() {
			out[p.First.String()] = valueToPlain(p.Second)
		}
		return out
	default:
		return v.String()
	}
}

// valueToJSONText renders v as a JSON document by repeatedly sjson.Set-ing
// into an empty document, avoiding a dependency on encoding/json for
// encoding when sjson already covers it.
func valueToJSONText(v types.Value) string {
	switch x := v.(type) {
	case *types.List:
		doc := "[]"
		elems, _ := iterAll(x)
		for _, e := range elems {
			doc, _ = sjson.Set(doc, "-1", valueToPlain(e))
		}
		return doc
	case *types.Map:
		doc := "{}"
		for _, p := range x.Items() {
			doc, _ = sjson.Set(doc, p.First.String(), valueToPlain(p.Second))
		}
		return doc
	default:
		doc, _ := sjson.Set("{}", "v", valueToPlain(v))
		return gjson.Get(doc, "v").Raw
	}
}

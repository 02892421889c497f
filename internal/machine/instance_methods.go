package machine

import (
	"strings"

	"github.com/nova-lang/nova/internal/types"
)

// builtinMethod resolves the core value types' own instance methods: the
// dot-call surface (`names.add(x)`, `b.size()`,
// `"hi".toUpperCase()`) a script reaches for directly, as distinct from
// internal/stdlib's free-function equivalents behind `import
// collections.*`/`import strings.*` (which stay pipeline-`|>`-friendly:
// `xs |> collections.sorted`). This is execAttr's third and final
// resolution tier, behind a value's own HasAttrs implementation (classes,
// concurrency primitives) and user-defined extension functions.
func builtinMethod(x types.Value, name string) (types.Value, bool) {
	switch v := x.(type) {
	case *types.List:
		return listMethod(v, name)
	case *types.Map:
		return mapMethod(v, name)
	case *types.Set:
		return setMethod(v, name)
	case types.String:
		return stringMethod(v, name)
	}
	return nil, false
}

func listMethod(l *types.List, name string) (types.Value, bool) {
	switch name {
	case "add":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			if len(args) != 1 {
				return nil, &NovaError{Kind: "TypeError", Message: "add expects 1 argument"}
			}
			if err := l.Append(args[0]); err != nil {
				return nil, &NovaError{Kind: "TypeError", Message: err.Error()}
			}
			return types.Null{}, nil
		}), true
	case "size":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			return types.Int(l.Len()), nil
		}), true
	case "isEmpty":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			return types.Bool(l.Len() == 0), nil
		}), true
	case "clear":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			if err := l.Clear(); err != nil {
				return nil, &NovaError{Kind: "TypeError", Message: err.Error()}
			}
			return types.Null{}, nil
		}), true
	case "get":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			i, err := indexArg(args, l.Len())
			if err != nil {
				return nil, err
			}
			return l.Index(i), nil
		}), true
	case "set":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			if len(args) != 2 {
				return nil, &NovaError{Kind: "TypeError", Message: "set expects 2 arguments"}
			}
			i, err := indexArg(args[:1], l.Len())
			if err != nil {
				return nil, err
			}
			if err := l.SetIndex(i, args[1]); err != nil {
				return nil, &NovaError{Kind: "TypeError", Message: err.Error()}
			}
			return types.Null{}, nil
		}), true
	case "removeAt":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			i, err := indexArg(args, l.Len())
			if err != nil {
				return nil, err
			}
			v, err := l.RemoveAt(i)
			if err != nil {
				return nil, &NovaError{Kind: "TypeError", Message: err.Error()}
			}
			return v, nil
		}), true
	case "remove":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			if len(args) != 1 {
				return nil, &NovaError{Kind: "TypeError", Message: "remove expects 1 argument"}
			}
			for i := 0; i < l.Len(); i++ {
				eq, err := types.Equals(l.Index(i), args[0])
				if err != nil {
					return nil, &NovaError{Kind: "TypeError", Message: err.Error()}
				}
				if eq {
					if _, err := l.RemoveAt(i); err != nil {
						return nil, &NovaError{Kind: "TypeError", Message: err.Error()}
					}
					return types.True, nil
				}
			}
			return types.False, nil
		}), true
	case "contains":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			if len(args) != 1 {
				return nil, &NovaError{Kind: "TypeError", Message: "contains expects 1 argument"}
			}
			for i := 0; i < l.Len(); i++ {
				eq, err := types.Equals(l.Index(i), args[0])
				if err != nil {
					return nil, &NovaError{Kind: "TypeError", Message: err.Error()}
				}
				if eq {
					return types.True, nil
				}
			}
			return types.False, nil
		}), true
	case "indexOf":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			if len(args) != 1 {
				return nil, &NovaError{Kind: "TypeError", Message: "indexOf expects 1 argument"}
			}
			for i := 0; i < l.Len(); i++ {
				eq, err := types.Equals(l.Index(i), args[0])
				if err != nil {
					return nil, &NovaError{Kind: "TypeError", Message: err.Error()}
				}
				if eq {
					return types.Int(i), nil
				}
			}
			return types.Int(-1), nil
		}), true
	}
	return nil, false
}

func mapMethod(m *types.Map, name string) (types.Value, bool) {
	switch name {
	case "size":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			return types.Int(m.Len()), nil
		}), true
	case "isEmpty":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			return types.Bool(m.Len() == 0), nil
		}), true
	case "get":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			if len(args) != 1 {
				return nil, &NovaError{Kind: "TypeError", Message: "get expects 1 argument"}
			}
			v, ok, err := m.Get(args[0])
			if err != nil {
				return nil, &NovaError{Kind: "TypeError", Message: err.Error()}
			}
			if !ok {
				return types.Null{}, nil
			}
			return v, nil
		}), true
	case "set", "put":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			if len(args) != 2 {
				return nil, &NovaError{Kind: "TypeError", Message: name + " expects 2 arguments"}
			}
			if err := m.SetKey(args[0], args[1]); err != nil {
				return nil, &NovaError{Kind: "TypeError", Message: err.Error()}
			}
			return types.Null{}, nil
		}), true
	case "containsKey":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			if len(args) != 1 {
				return nil, &NovaError{Kind: "TypeError", Message: "containsKey expects 1 argument"}
			}
			_, ok, err := m.Get(args[0])
			if err != nil {
				return nil, &NovaError{Kind: "TypeError", Message: err.Error()}
			}
			return types.Bool(ok), nil
		}), true
	case "remove":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			if len(args) != 1 {
				return nil, &NovaError{Kind: "TypeError", Message: "remove expects 1 argument"}
			}
			ok, err := m.Delete(args[0])
			if err != nil {
				return nil, &NovaError{Kind: "TypeError", Message: err.Error()}
			}
			return types.Bool(ok), nil
		}), true
	case "keys":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			items := m.Items()
			out := make([]types.Value, len(items))
			for i, p := range items {
				out[i] = p.First
			}
			return types.NewList(out), nil
		}), true
	case "values":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			items := m.Items()
			out := make([]types.Value, len(items))
			for i, p := range items {
				out[i] = p.Second
			}
			return types.NewList(out), nil
		}), true
	}
	return nil, false
}

func setMethod(s *types.Set, name string) (types.Value, bool) {
	switch name {
	case "size":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			return types.Int(s.Len()), nil
		}), true
	case "isEmpty":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			return types.Bool(s.Len() == 0), nil
		}), true
	case "add":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			if len(args) != 1 {
				return nil, &NovaError{Kind: "TypeError", Message: "add expects 1 argument"}
			}
			if err := s.Add(args[0]); err != nil {
				return nil, &NovaError{Kind: "TypeError", Message: err.Error()}
			}
			return types.Null{}, nil
		}), true
	case "remove":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			if len(args) != 1 {
				return nil, &NovaError{Kind: "TypeError", Message: "remove expects 1 argument"}
			}
			ok, err := s.Remove(args[0])
			if err != nil {
				return nil, &NovaError{Kind: "TypeError", Message: err.Error()}
			}
			return types.Bool(ok), nil
		}), true
	case "contains":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			if len(args) != 1 {
				return nil, &NovaError{Kind: "TypeError", Message: "contains expects 1 argument"}
			}
			ok, err := s.Has(args[0])
			if err != nil {
				return nil, &NovaError{Kind: "TypeError", Message: err.Error()}
			}
			return types.Bool(ok), nil
		}), true
	}
	return nil, false
}

// stringMethod registers `length` as a bound method, so `.length()` always
// works; a bare `.length` (no call) receives this same Builtin value rather
// than an Int. length counts Unicode code points (types.String.Len), so a
// character outside the Basic Multilingual Plane counts as one, not as two
// UTF-16 code units; indexOf returns a byte offset into the UTF-8 text.
func stringMethod(s types.String, name string) (types.Value, bool) {
	str := string(s)
	switch name {
	case "length":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			return types.Int(s.Len()), nil
		}), true
	case "isEmpty":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			return types.Bool(len(str) == 0), nil
		}), true
	case "toUpperCase":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			return types.String(strings.ToUpper(str)), nil
		}), true
	case "toLowerCase":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			return types.String(strings.ToLower(str)), nil
		}), true
	case "trim":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			return types.String(strings.TrimSpace(str)), nil
		}), true
	case "contains":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			sub, err := stringArg(args, 0)
			if err != nil {
				return nil, err
			}
			return types.Bool(strings.Contains(str, sub)), nil
		}), true
	case "startsWith":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			prefix, err := stringArg(args, 0)
			if err != nil {
				return nil, err
			}
			return types.Bool(strings.HasPrefix(str, prefix)), nil
		}), true
	case "endsWith":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			suffix, err := stringArg(args, 0)
			if err != nil {
				return nil, err
			}
			return types.Bool(strings.HasSuffix(str, suffix)), nil
		}), true
	case "indexOf":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			sub, err := stringArg(args, 0)
			if err != nil {
				return nil, err
			}
			return types.Int(strings.Index(str, sub)), nil
		}), true
	case "split":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			sep, err := stringArg(args, 0)
			if err != nil {
				return nil, err
			}
			parts := strings.Split(str, sep)
			out := make([]types.Value, len(parts))
			for i, p := range parts {
				out[i] = types.String(p)
			}
			return types.NewList(out), nil
		}), true
	case "replace":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			old, err := stringArg(args, 0)
			if err != nil {
				return nil, err
			}
			replacement, err := stringArg(args, 1)
			if err != nil {
				return nil, err
			}
			return types.String(strings.ReplaceAll(str, old, replacement)), nil
		}), true
	case "repeat":
		return NewBuiltin(name, func(th *Thread, args []types.Value) (types.Value, error) {
			n, err := asInt(argOrNull(args, 0))
			if err != nil {
				return nil, err
			}
			if n < 0 {
				return nil, &NovaError{Kind: "TypeError", Message: "repeat count must be non-negative"}
			}
			return types.String(strings.Repeat(str, int(n))), nil
		}), true
	}
	return nil, false
}

func stringArg(args []types.Value, i int) (string, error) {
	if i >= len(args) {
		return "", &NovaError{Kind: "TypeError", Message: "missing String argument"}
	}
	s, ok := args[i].(types.String)
	if !ok {
		return "", &NovaError{Kind: "TypeError", Message: "expected a String argument, got " + args[i].TypeName()}
	}
	return string(s), nil
}

func argOrNull(args []types.Value, i int) types.Value {
	if i >= len(args) {
		return types.Null{}
	}
	return args[i]
}

// indexArg reads args[0] as an Int/Long index, bounds-checked against n.
func indexArg(args []types.Value, n int) (int, error) {
	if len(args) == 0 {
		return 0, &NovaError{Kind: "TypeError", Message: "missing index argument"}
	}
	i64, err := asInt(args[0])
	if err != nil {
		return 0, err
	}
	i := int(i64)
	if i < 0 || i >= n {
		return 0, &NovaError{Kind: "IndexError", Message: "index out of range"}
	}
	return i, nil
}

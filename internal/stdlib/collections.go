package stdlib

import (
	"sort"

	"github.com/nova-lang/nova/internal/machine"
	"github.com/nova-lang/nova/internal/types"
)

// collectionsModule implements `import collections.*`: free functions over
// List/Map/Set/Pair that aren't already instance methods on those values
// themselves (internal/types keeps mutation/indexing as methods; this
// module is for the free-function, pipeline-friendly surface spec.md's
// `|>` operator is meant to chain against, e.g. `xs |> collections.sorted`).
func collectionsModule() map[string]types.Value {
	return map[string]types.Value{
		"listOf":       builtin("listOf", bListOf),
		"setOf":        builtin("setOf", bSetOf),
		"mapOf":        builtin("mapOf", bMapOf),
		"sorted":       builtin("sorted", bSorted),
		"reversed":     builtin("reversed", bReversed),
		"map":          builtin("map", bMap),
		"filter":       builtin("filter", bFilter),
		"reduce":       builtin("reduce", bReduce),
		"forEach":      builtin("forEach", bForEach),
		"contains":     builtin("contains", bContains),
		"joinToString": builtin("joinToString", bJoinToString),
	}
}

func iterAll(v types.Value) ([]types.Value, error) {
	it, ok := v.(types.Iterable)
	if !ok {
		return nil, &machine.NovaError{Kind: "TypeError", Message: v.TypeName() + " is not iterable"}
	}
	iter := it.Iterate()
	defer iter.Done()
	var out []types.Value
	var x types.Value
	for iter.Next(&x) {
		out = append(out, x)
	}
	return out, nil
}

func bListOf(th *machine.Thread, args []types.Value) (types.Value, error) {
	return types.NewList(append([]types.Value{}, args...)), nil
}

func bSetOf(th *machine.Thread, args []types.Value) (types.Value, error) {
	s := types.NewSet(len(args))
	for _, a := range args {
		if err := s.Add(a); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func bMapOf(th *machine.Thread, args []types.Value) (types.Value, error) {
	m := types.NewMap(len(args))
	for _, a := range args {
		p, ok := a.(types.Pair)
		if !ok {
			return nil, &machine.NovaError{Kind: "TypeError", Message: "mapOf expects Pair arguments (use `k to v`)"}
		}
		if err := m.SetKey(p.First, p.Second); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func bSorted(th *machine.Thread, args []types.Value) (types.Value, error) {
	if len(args) != 1 {
		return nil, argErr("sorted", 1, len(args))
	}
	elems, err := iterAll(args[0])
	if err != nil {
		return nil, err
	}
	out := append([]types.Value{}, elems...)
	var sortErr error
	sort.SliceStable(out, func(i, j int) bool {
		oi, ok := out[i].(types.Ordered)
		if !ok {
			sortErr = &machine.NovaError{Kind: "TypeError", Message: out[i].TypeName() + " does not support ordering"}
			return false
		}
		c, err := oi.Cmp(out[j], 10)
		if err != nil {
			sortErr = err
			return false
		}
		return c < 0
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return types.NewList(out), nil
}

func bReversed(th *machine.Thread, args []types.Value) (types.Value, error) {
	if len(args) != 1 {
		return nil, argErr("reversed", 1, len(args))
	}
	elems, err := iterAll(args[0])
	if err != nil {
		return nil, err
	}
	out := make([]types.Value, len(elems))
	for i, e := range elems {
		out[len(elems)-1-i] = e
	}
	return types.NewList(out), nil
}

func bMap(th *machine.Thread, args []types.Value) (types.Value, error) {
	if len(args) != 2 {
		return nil, argErr("map", 2, len(args))
	}
	elems, err := iterAll(args[0])
	if err != nil {
		return nil, err
	}
	out := make([]types.Value, len(elems))
	for i, e := range elems {
		v, err := machine.Call(th, args[1], []types.Value{e})
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return types.NewList(out), nil
}

func bFilter(th *machine.Thread, args []types.Value) (types.Value, error) {
	if len(args) != 2 {
		return nil, argErr("filter", 2, len(args))
	}
	elems, err := iterAll(args[0])
	if err != nil {
		return nil, err
	}
	var out []types.Value
	for _, e := range elems {
		v, err := machine.Call(th, args[1], []types.Value{e})
		if err != nil {
			return nil, err
		}
		if v.Truth() {
			out = append(out, e)
		}
	}
	return types.NewList(out), nil
}

func bReduce(th *machine.Thread, args []types.Value) (types.Value, error) {
	if len(args) != 3 {
		return nil, argErr("reduce", 3, len(args))
	}
	elems, err := iterAll(args[0])
	if err != nil {
		return nil, err
	}
	acc := args[1]
	for _, e := range elems {
		acc, err = machine.Call(th, args[2], []types.Value{acc, e})
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func bForEach(th *machine.Thread, args []types.Value) (types.Value, error) {
	if len(args) != 2 {
		return nil, argErr("forEach", 2, len(args))
	}
	elems, err := iterAll(args[0])
	if err != nil {
		return nil, err
	}
	for _, e := range elems {
		if _, err := machine.Call(th, args[1], []types.Value{e}); err != nil {
			return nil, err
		}
	}
	return types.Null{}, nil
}

func bContains(th *machine.Thread, args []types.Value) (types.Value, error) {
	if len(args) != 2 {
		return nil, argErr("contains", 2, len(args))
	}
	if m, ok := args[0].(types.Mapping); ok {
		_, found, err := m.Get(args[1])
		return types.Bool(found), err
	}
	elems, err := iterAll(args[0])
	if err != nil {
		return nil, err
	}
	for _, e := range elems {
		eq, err := types.Equals(e, args[1])
		if err != nil {
			return nil, err
		}
		if eq {
			return types.True, nil
		}
	}
	return types.False, nil
}

func bJoinToString(th *machine.Thread, args []types.Value) (types.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, &machine.NovaError{Kind: "TypeError", Message: "joinToString expects 1 or 2 arguments"}
	}
	sep := ", "
	if len(args) == 2 {
		s, ok := args[1].(types.String)
		if !ok {
			return nil, &machine.NovaError{Kind: "TypeError", Message: "joinToString separator must be a String"}
		}
		sep = string(s)
	}
	elems, err := iterAll(args[0])
	if err != nil {
		return nil, err
	}
	var out string
	for i, e := range elems {
		if i > 0 {
			out += sep
		}
		out += e.String()
	}
	return types.String(out), nil
}

package stdlib

import (
	"github.com/nova-lang/nova/internal/machine"
	"github.com/nova-lang/nova/internal/types"
)

// installUniverse registers the dynamically-scoped protocol functions
// lang/mir/build.go's desugaring calls by name through
// internal/machine.Universe: `iterator`/`hasNext`/`next` back every
// `for x in xs` loop, and `toString` backs any explicit call a script
// makes to it as an ordinary function (string interpolation already
// invokes the same logic directly via machine.ToDisplayString without
// going through Universe at all). Called once from Register.
func installUniverse() {
	machine.RegisterUniversal("iterator", machine.NewBuiltin("iterator", bIteratorOf))
	machine.RegisterUniversal("hasNext", machine.NewBuiltin("hasNext", bHasNext))
	machine.RegisterUniversal("next", machine.NewBuiltin("next", bNext))
	machine.RegisterUniversal("toString", machine.NewBuiltin("toString", bToString))
}

// iteratorHandle adapts internal/types.Iterator (a single-step Next that
// both advances and reports exhaustion) to the separate hasNext/next
// protocol `for in` lowering expects, by eagerly pulling one element ahead
// and caching it.
type iteratorHandle struct {
	it      types.Iterator
	primed  bool
	hasNext bool
	cur     types.Value
}

func (h *iteratorHandle) TypeName() string  { return "Iterator" }
func (h *iteratorHandle) String() string    { return "<iterator>" }
func (h *iteratorHandle) Truth() types.Bool { return types.True }
func (h *iteratorHandle) Freeze()           {}

func (h *iteratorHandle) prime() {
	if h.primed {
		return
	}
	var v types.Value
	h.hasNext = h.it.Next(&v)
	h.cur = v
	h.primed = true
	if !h.hasNext {
		h.it.Done()
	}
}

func bIteratorOf(th *machine.Thread, args []types.Value) (types.Value, error) {
	if len(args) != 1 {
		return nil, argErr("iterator", 1, len(args))
	}
	it, ok := args[0].(types.Iterable)
	if !ok {
		return nil, &machine.NovaError{Kind: "TypeError", Message: args[0].TypeName() + " is not iterable"}
	}
	return &iteratorHandle{it: it.Iterate()}, nil
}

func bHasNext(th *machine.Thread, args []types.Value) (types.Value, error) {
	if len(args) != 1 {
		return nil, argErr("hasNext", 1, len(args))
	}
	h, ok := args[0].(*iteratorHandle)
	if !ok {
		return nil, &machine.NovaError{Kind: "TypeError", Message: "hasNext expects an Iterator"}
	}
	h.prime()
	return types.Bool(h.hasNext), nil
}

func bNext(th *machine.Thread, args []types.Value) (types.Value, error) {
	if len(args) != 1 {
		return nil, argErr("next", 1, len(args))
	}
	h, ok := args[0].(*iteratorHandle)
	if !ok {
		return nil, &machine.NovaError{Kind: "TypeError", Message: "next expects an Iterator"}
	}
	h.prime()
	if !h.hasNext {
		return nil, &machine.NovaError{Kind: "IndexError", Message: "next called past end of iterator"}
	}
	v := h.cur
	h.primed = false
	return v, nil
}

func bToString(th *machine.Thread, args []types.Value) (types.Value, error) {
	if len(args) != 1 {
		return nil, argErr("toString", 1, len(args))
	}
	return types.String(machine.ToDisplayString(th, args[0])), nil
}

package types

import (
	"fmt"

	"github.com/dolthub/swiss"
)

// Map is Nova's insertion-ordered mapping tag. The teacher's
// lang/types/map.go backs its Map with a bare Go map and no order tracking
// at all ("TODO(map)" placeholder); Nova's spec requires insertion order to
// be observable, so this keeps dolthub/swiss for O(1) average lookup (the
// pack's swiss dependency, via the mna/swiss replace in go.mod) paired with
// a parallel `order` slice of keys recording insertion order, the same
// "hash index + order slice" shape Go's own runtime map avoids needing only
// because map order is explicitly unspecified there.
type Map struct {
	index     *swiss.Map[Value, Value]
	order     []Value
	frozen    bool
	itercount uint32
}

var (
	_ Value           = (*Map)(nil)
	_ IterableMapping = (*Map)(nil)
	_ HasSetKey       = (*Map)(nil)
)

// NewMap returns a Map with initial capacity for at least size entries.
func NewMap(size int) *Map {
	if size < 1 {
		size = 1
	}
	return &Map{index: swiss.NewMap[Value, Value](uint32(size))}
}

// hashable reports whether v is usable as a Map/Set key: one of the
// primitive, naturally-comparable value tags. Lists/Maps/Sets/Functions/
// Objects are rejected with an error rather than risking a runtime panic
// from comparing an uncomparable concrete type stored in the Value
// interface.
func hashable(v Value) bool {
	switch v.(type) {
	case Null, Bool, Int, Long, Double, Char, String:
		return true
	default:
		return false
	}
}

func (m *Map) Freeze() {
	if m.frozen {
		return
	}
	m.frozen = true
	for _, k := range m.order {
		k.Freeze()
		if v, ok := m.index.Get(k); ok {
			v.Freeze()
		}
	}
}

func (m *Map) checkMutable(verb string) error {
	if m.frozen {
		return fmt.Errorf("cannot %s frozen map", verb)
	}
	if m.itercount > 0 {
		return fmt.Errorf("cannot %s map during iteration", verb)
	}
	return nil
}

// String renders "{k=v, ...}" in insertion order, matching spec.md §4.4's
// recursive toString contract for maps.
func (m *Map) String() string {
	var sb []byte
	sb = append(sb, '{')
	for i, k := range m.order {
		if i > 0 {
			sb = append(sb, ',', ' ')
		}
		v, _ := m.index.Get(k)
		sb = append(sb, displayString(k)...)
		sb = append(sb, '=')
		sb = append(sb, displayString(v)...)
	}
	sb = append(sb, '}')
	return string(sb)
}

func (m *Map) TypeName() string { return "Map" }
func (m *Map) Truth() Bool      { return m.Len() > 0 }
func (m *Map) Len() int         { return m.index.Count() }

func (m *Map) Get(k Value) (Value, bool, error) {
	if !hashable(k) {
		return nil, false, fmt.Errorf("unhashable type used as map key: %s", k.TypeName())
	}
	v, ok := m.index.Get(k)
	return v, ok, nil
}

func (m *Map) SetKey(k, v Value) error {
	if err := m.checkMutable("insert into"); err != nil {
		return err
	}
	if !hashable(k) {
		return fmt.Errorf("unhashable type used as map key: %s", k.TypeName())
	}
	if _, existed := m.index.Get(k); !existed {
		m.order = append(m.order, k)
	}
	m.index.Put(k, v)
	return nil
}

// Delete removes k, if present, keeping `order` consistent. It is O(n) in
// the number of keys, same cost profile as the teacher's Array.Clear
// (no amortized-constant delete is attempted since deletion is rare
// relative to insert/lookup for this language's workloads).
func (m *Map) Delete(k Value) (bool, error) {
	if err := m.checkMutable("delete from"); err != nil {
		return false, err
	}
	if _, ok := m.index.Get(k); !ok {
		return false, nil
	}
	m.index.Delete(k)
	for i, ok := range m.order {
		if ok == k {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (m *Map) Items() []Pair {
	out := make([]Pair, 0, len(m.order))
	for _, k := range m.order {
		v, _ := m.index.Get(k)
		out = append(out, Pair{First: k, Second: v})
	}
	return out
}

func (m *Map) Iterate() Iterator {
	if !m.frozen {
		m.itercount++
	}
	return &mapIterator{m: m}
}

type mapIterator struct {
	m *Map
	i int
}

func (it *mapIterator) Next(p *Value) bool {
	if it.i >= len(it.m.order) {
		return false
	}
	k := it.m.order[it.i]
	it.i++
	*p = k
	return true
}

func (it *mapIterator) Done() {
	if !it.m.frozen {
		it.m.itercount--
	}
}

package types

import (
	"fmt"

	"github.com/dolthub/swiss"
	"golang.org/x/exp/slices"
)

// Set is Nova's insertion-ordered set tag, new relative to the teacher (no
// Starlark set type appears in the pack), built the same way Map is: a
// swiss.Map keyed by member with struct{} payloads, alongside an order slice.
type Set struct {
	index     *swiss.Map[Value, struct{}]
	order     []Value
	frozen    bool
	itercount uint32
}

var (
	_ Value    = (*Set)(nil)
	_ Sequence = (*Set)(nil)
)

func NewSet(size int) *Set {
	if size < 1 {
		size = 1
	}
	return &Set{index: swiss.NewMap[Value, struct{}](uint32(size))}
}

func (s *Set) Freeze() {
	if s.frozen {
		return
	}
	s.frozen = true
	for _, v := range s.order {
		v.Freeze()
	}
}

func (s *Set) checkMutable(verb string) error {
	if s.frozen {
		return fmt.Errorf("cannot %s frozen set", verb)
	}
	if s.itercount > 0 {
		return fmt.Errorf("cannot %s set during iteration", verb)
	}
	return nil
}

func (s *Set) String() string {
	var sb []byte
	sb = append(sb, "setOf("...)
	for i, v := range s.order {
		if i > 0 {
			sb = append(sb, ',', ' ')
		}
		sb = append(sb, displayString(v)...)
	}
	sb = append(sb, ')')
	return string(sb)
}

func (s *Set) TypeName() string { return "Set" }
func (s *Set) Truth() Bool      { return s.Len() > 0 }
func (s *Set) Len() int         { return s.index.Count() }

func (s *Set) Has(v Value) (bool, error) {
	if !hashable(v) {
		return false, fmt.Errorf("unhashable type used as set member: %s", v.TypeName())
	}
	return s.index.Has(v), nil
}

func (s *Set) Add(v Value) error {
	if err := s.checkMutable("add to"); err != nil {
		return err
	}
	if !hashable(v) {
		return fmt.Errorf("unhashable type used as set member: %s", v.TypeName())
	}
	if !s.index.Has(v) {
		s.order = append(s.order, v)
	}
	s.index.Put(v, struct{}{})
	return nil
}

func (s *Set) Remove(v Value) (bool, error) {
	if err := s.checkMutable("remove from"); err != nil {
		return false, err
	}
	if !s.index.Has(v) {
		return false, nil
	}
	s.index.Delete(v)
	if i := slices.Index(s.order, v); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	return true, nil
}

func (s *Set) Iterate() Iterator {
	if !s.frozen {
		s.itercount++
	}
	return &setIterator{s: s}
}

type setIterator struct {
	s *Set
	i int
}

func (it *setIterator) Next(p *Value) bool {
	if it.i >= len(it.s.order) {
		return false
	}
	*p = it.s.order[it.i]
	it.i++
	return true
}

func (it *setIterator) Done() {
	if !it.s.frozen {
		it.s.itercount--
	}
}

func (s *Set) Binary(op string, y Value, side Side) (Value, error) {
	ys, ok := y.(*Set)
	if !ok {
		return nil, nil
	}
	switch op {
	case "|":
		out := NewSet(s.Len() + ys.Len())
		for _, v := range s.order {
			out.Add(v)
		}
		for _, v := range ys.order {
			out.Add(v)
		}
		return out, nil
	case "&":
		out := NewSet(s.Len())
		for _, v := range s.order {
			if ys.index.Has(v) {
				out.Add(v)
			}
		}
		return out, nil
	case "-":
		out := NewSet(s.Len())
		for _, v := range s.order {
			if !ys.index.Has(v) {
				out.Add(v)
			}
		}
		return out, nil
	}
	return nil, nil
}

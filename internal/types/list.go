package types

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// List is Nova's ordered, mutable sequence tag. Adapted from the teacher's
// lang/types/array.go *Array: same frozen/itercount mutation-guard pattern,
// renamed to match this language's `List` surface type.
type List struct {
	elems     []Value
	frozen    bool
	itercount uint32
}

var (
	_ Value       = (*List)(nil)
	_ Sequence    = (*List)(nil)
	_ Sliceable   = (*List)(nil)
	_ HasSetIndex = (*List)(nil)
)

// NewList returns a List containing the given elements. Callers must not
// modify elems afterwards; ownership transfers to the List.
func NewList(elems []Value) *List { return &List{elems: elems} }

func (l *List) Freeze() {
	if l.frozen {
		return
	}
	l.frozen = true
	for _, e := range l.elems {
		e.Freeze()
	}
}

func (l *List) checkMutable(verb string) error {
	if l.frozen {
		return fmt.Errorf("cannot %s frozen list", verb)
	}
	if l.itercount > 0 {
		return fmt.Errorf("cannot %s list during iteration", verb)
	}
	return nil
}

func (l *List) String() string {
	var sb []byte
	sb = append(sb, '[')
	for i, e := range l.elems {
		if i > 0 {
			sb = append(sb, ',', ' ')
		}
		sb = append(sb, displayString(e)...)
	}
	sb = append(sb, ']')
	return string(sb)
}

func (l *List) TypeName() string  { return "List" }
func (l *List) Truth() Bool       { return l.Len() > 0 }
func (l *List) Len() int          { return len(l.elems) }
func (l *List) Index(i int) Value { return l.elems[i] }

func (l *List) Slice(start, end, step int) Value {
	if step == 1 {
		out := append([]Value{}, l.elems[start:end]...)
		return NewList(out)
	}
	sign := signum(step)
	var out []Value
	for i := start; signum(end-i) == sign; i += step {
		out = append(out, l.elems[i])
	}
	return NewList(out)
}

func (l *List) Iterate() Iterator {
	if !l.frozen {
		l.itercount++
	}
	return &listIterator{l: l}
}

type listIterator struct {
	l *List
	i int
}

func (it *listIterator) Next(p *Value) bool {
	if it.i >= it.l.Len() {
		return false
	}
	*p = it.l.elems[it.i]
	it.i++
	return true
}

func (it *listIterator) Done() {
	if !it.l.frozen {
		it.l.itercount--
	}
}

func (l *List) SetIndex(i int, v Value) error {
	if err := l.checkMutable("assign to element of"); err != nil {
		return err
	}
	l.elems[i] = v
	return nil
}

func (l *List) Append(v Value) error {
	if err := l.checkMutable("append to"); err != nil {
		return err
	}
	l.elems = append(l.elems, v)
	return nil
}

// RemoveAt deletes the element at index i, shifting later elements down,
// and returns the removed value.
func (l *List) RemoveAt(i int) (Value, error) {
	if err := l.checkMutable("remove from"); err != nil {
		return nil, err
	}
	if i < 0 || i >= len(l.elems) {
		return nil, fmt.Errorf("index out of range")
	}
	v := l.elems[i]
	l.elems = slices.Delete(l.elems, i, i+1)
	return v, nil
}

func (l *List) Clear() error {
	if err := l.checkMutable("clear"); err != nil {
		return err
	}
	for i := range l.elems {
		l.elems[i] = nil
	}
	l.elems = l.elems[:0]
	return nil
}

func (l *List) Binary(op string, y Value, side Side) (Value, error) {
	if op != "+" {
		return nil, nil
	}
	yl, ok := y.(*List)
	if !ok {
		return nil, nil
	}
	var out []Value
	if side == Right {
		out = append(out, yl.elems...)
		out = append(out, l.elems...)
	} else {
		out = append(out, l.elems...)
		out = append(out, yl.elems...)
	}
	return NewList(out), nil
}

// displayString renders a Value the way it appears nested inside a
// collection's own String(); strings show quoted, everything else shows its
// own String() verbatim.
func displayString(v Value) string {
	if s, ok := v.(String); ok {
		return s.Quoted()
	}
	return v.String()
}

package types

import "fmt"

// Range is Nova's `start..end` / `start..<end` / `start downTo end step n`
// tag: a lazily-iterated arithmetic progression, new relative to the
// teacher (Starlark has no range literal; this follows the teacher's
// "small immutable value, implements Value + Iterable" shape used
// throughout lang/types instead).
type Range struct {
	Start, End, Step int64
	Inclusive        bool
}

var (
	_ Value    = Range{}
	_ Sequence = Range{}
)

func (r Range) String() string {
	op := ".."
	if !r.Inclusive {
		op = "..<"
	}
	if r.Step != 1 {
		return fmt.Sprintf("%d%s%d step %d", r.Start, op, r.End, r.Step)
	}
	return fmt.Sprintf("%d%s%d", r.Start, op, r.End)
}

func (r Range) TypeName() string { return "Range" }
func (r Range) Freeze()          {} // immutable

func (r Range) Truth() Bool { return r.Len() > 0 }

func (r Range) Len() int {
	if r.Step == 0 {
		return 0
	}
	end := r.End
	if r.Inclusive {
		if r.Step > 0 {
			end++
		} else {
			end--
		}
	}
	if r.Step > 0 {
		if end <= r.Start {
			return 0
		}
		return int((end - r.Start + r.Step - 1) / r.Step)
	}
	if end >= r.Start {
		return 0
	}
	return int((r.Start - end - r.Step - 1) / -r.Step)
}

func (r Range) Index(i int) Value { return Int(r.Start + int64(i)*r.Step) }

func (r Range) Iterate() Iterator { return &rangeIterator{r: r, cur: r.Start, n: r.Len()} }

type rangeIterator struct {
	r   Range
	cur int64
	i   int
	n   int
}

func (it *rangeIterator) Next(p *Value) bool {
	if it.i >= it.n {
		return false
	}
	*p = Int(it.cur)
	it.cur += it.r.Step
	it.i++
	return true
}

func (it *rangeIterator) Done() {}

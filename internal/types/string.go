package types

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// String is Nova's immutable text tag: a sequence of UTF-8 bytes, indexed
// and iterated by Unicode code point (Char), not by raw byte, unlike the
// teacher's byte-indexed Starlark-flavored String.
type String string

var (
	_ Indexable = String("")
	_ Sliceable = String("")
	_ Ordered   = String("")
	_ Iterable  = String("")
)

func (s String) String() string   { return string(s) }
func (s String) TypeName() string { return "String" }
func (s String) Freeze()          {} // immutable
func (s String) Truth() Bool      { return len(s) > 0 }

// Quoted returns the Go-quoted form, used by toString's debug/repr paths
// (distinct from String() itself, which prints the raw text the way a
// println(s) call would).
func (s String) Quoted() string { return strconv.Quote(string(s)) }

// Len reports the number of Unicode code points, not bytes, matching
// Kotlin's String.length semantics for the common (non-surrogate-pair) case.
func (s String) Len() int { return utf8.RuneCountInString(string(s)) }

func (s String) Index(i int) Value {
	for j, r := range string(s) {
		_ = j
		if i == 0 {
			return Char(r)
		}
		i--
	}
	panic("string index out of range")
}

func (s String) Slice(start, end, step int) Value {
	runes := []rune(string(s))
	if step == 1 {
		return String(runes[start:end])
	}
	sign := signum(step)
	var out []rune
	for i := start; signum(end-i) == sign; i += step {
		out = append(out, runes[i])
	}
	return String(out)
}

func (s String) Iterate() Iterator { return &stringIterator{s: string(s)} }

type stringIterator struct {
	s string
}

func (it *stringIterator) Next(p *Value) bool {
	if it.s == "" {
		return false
	}
	r, sz := utf8.DecodeRuneInString(it.s)
	*p = Char(r)
	it.s = it.s[sz:]
	return true
}

func (it *stringIterator) Done() {}

func (s String) Cmp(y Value, depth int) (int, error) {
	ys, ok := y.(String)
	if !ok {
		return 0, typeErr("compare", y)
	}
	return strings.Compare(string(s), string(ys)), nil
}

func (s String) Binary(op string, y Value, side Side) (Value, error) {
	if op != "+" {
		return nil, nil
	}
	ys, ok := y.(String)
	if !ok {
		return nil, nil
	}
	if side == Right {
		return ys + s, nil
	}
	return s + ys, nil
}

// signum returns +1, 0 or -1, matching the teacher's lang/types slice-step
// sign helper used by every Sliceable implementation in this package.
func signum(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

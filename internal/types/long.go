package types

import "strconv"

// Long is Nova's explicit-width 64-bit integer tag, distinct from Int so
// that `3L` and `3` carry different typeof() results even though both are
// backed by int64 — mirrors Kotlin's Int/Long distinction.
type Long int64

var (
	_ Value    = Long(0)
	_ Ordered  = Long(0)
	_ HasUnary = Long(0)
)

func (l Long) String() string   { return strconv.FormatInt(int64(l), 10) + "L" }
func (l Long) TypeName() string { return "Long" }
func (l Long) Freeze()          {} // immutable
func (l Long) Truth() Bool      { return l != 0 }

func (l Long) Cmp(y Value, depth int) (int, error) {
	switch v := y.(type) {
	case Long:
		return intCmp(int64(l), int64(v)), nil
	case Int:
		return intCmp(int64(l), int64(v)), nil
	case Double:
		return floatCmp(float64(l), float64(v)), nil
	}
	return 0, typeErr("compare", y)
}

func (l Long) Unary(op string) (Value, error) {
	switch op {
	case "-":
		return -l, nil
	case "+":
		return l, nil
	}
	return nil, nil
}

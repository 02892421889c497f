package types

import "strconv"

// Int is Nova's default 64-bit integer tag (Kotlin-flavored `Int` literal).
// It is kept as a distinct tag from Long per the value model even though
// both are backed by int64, since typeof(v) must distinguish them and
// arithmetic widening treats a mixed Int/Long expression as widening to
// Long, not silently losing the distinction.
type Int int64

var (
	_ Value    = Int(0)
	_ Ordered  = Int(0)
	_ HasUnary = Int(0)
)

func (i Int) String() string    { return strconv.FormatInt(int64(i), 10) }
func (i Int) TypeName() string  { return "Int" }
func (i Int) Freeze()           {} // immutable
func (i Int) Truth() Bool       { return i != 0 }

func (i Int) Cmp(y Value, depth int) (int, error) {
	switch v := y.(type) {
	case Int:
		return intCmp(int64(i), int64(v)), nil
	case Long:
		return intCmp(int64(i), int64(v)), nil
	case Double:
		return floatCmp(float64(i), float64(v)), nil
	}
	return 0, typeErr("compare", y)
}

func (i Int) Unary(op string) (Value, error) {
	switch op {
	case "-":
		return -i, nil
	case "+":
		return i, nil
	}
	return nil, nil
}

func intCmp(x, y int64) int {
	switch {
	case x > y:
		return +1
	case x < y:
		return -1
	default:
		return 0
	}
}

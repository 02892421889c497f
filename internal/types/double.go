package types

import "fmt"

// Double is Nova's floating-point tag (Kotlin's `Double`), backed by
// float64.
type Double float64

var (
	_ Value    = Double(0)
	_ Ordered  = Double(0)
	_ HasUnary = Double(0)
)

func (d Double) String() string   { return fmt.Sprintf("%g", float64(d)) }
func (d Double) TypeName() string { return "Double" }
func (d Double) Freeze()          {} // immutable
func (d Double) Truth() Bool      { return d != 0.0 }

func (d Double) Cmp(y Value, depth int) (int, error) {
	switch v := y.(type) {
	case Double:
		return floatCmp(float64(d), float64(v)), nil
	case Int:
		return floatCmp(float64(d), float64(v)), nil
	case Long:
		return floatCmp(float64(d), float64(v)), nil
	}
	return 0, typeErr("compare", y)
}

func (d Double) Unary(op string) (Value, error) {
	switch op {
	case "-":
		return -d, nil
	case "+":
		return d, nil
	}
	return nil, nil
}

// floatCmp performs a three-way, NaN-aware comparison: NaN compares greater
// than +Inf, matching the teacher's lang/types/float.go ordering so sorted
// output is deterministic even in the presence of NaN.
func floatCmp(x, y float64) int {
	if x > y {
		return +1
	} else if x < y {
		return -1
	} else if x == y {
		return 0
	}
	if x == x {
		return -1 // y is NaN
	} else if y == y {
		return +1 // x is NaN
	}
	return 0 // both NaN
}

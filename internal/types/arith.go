package types

import "fmt"

// numericRank orders the numeric tags for widening: an arithmetic op over a
// mixed pair widens to the higher-ranked operand's type, mirroring Kotlin's
// Int -> Long -> Double promotion ladder. Char participates only as an
// Int-equivalent left operand of +/- against an Int (`'a' + 1`), per the
// spec's "arithmetic widens under well-defined rules" note; it is never the
// widen target itself.
func numericRank(v Value) (int, bool) {
	switch v.(type) {
	case Int:
		return 0, true
	case Long:
		return 1, true
	case Double:
		return 2, true
	default:
		return 0, false
	}
}

func asFloat(v Value) float64 {
	switch n := v.(type) {
	case Int:
		return float64(n)
	case Long:
		return float64(n)
	case Double:
		return float64(n)
	}
	panic("asFloat of non-numeric value")
}

func asLong(v Value) int64 {
	switch n := v.(type) {
	case Int:
		return int64(n)
	case Long:
		return int64(n)
	}
	panic("asLong of non-integer value")
}

// Binary implements Nova's arithmetic/comparison/concatenation operator
// dispatch: numeric widening first (so `1 + 2L` and `1 + 2.0` both work
// without every numeric tag hand-rolling every pairing), then a fallback to
// the operands' own HasBinary implementation (String concatenation, List
// concatenation, Set union/intersect/difference), the same "try built-in
// widening, then ask the operand" shape as the teacher's lang/machine
// Binary dispatch function (adapted from token-keyed to the MIR's
// string-tagged operator immediates).
func Binary(op string, x, y Value) (Value, error) {
	xRank, xNum := numericRank(x)
	yRank, yNum := numericRank(y)
	if xNum && yNum {
		return binaryNumeric(op, x, y, xRank, yRank)
	}

	if hb, ok := x.(HasBinary); ok {
		if v, err := hb.Binary(op, y, Left); err != nil {
			return nil, err
		} else if v != nil {
			return v, nil
		}
	}
	if hb, ok := y.(HasBinary); ok {
		if v, err := hb.Binary(op, x, Right); err != nil {
			return nil, err
		} else if v != nil {
			return v, nil
		}
	}

	if op == "==" || op == "!=" {
		eq, err := Equals(x, y)
		if err != nil {
			return nil, err
		}
		return Bool(eq == (op == "==")), nil
	}

	return nil, fmt.Errorf("unsupported operand types for %s: %s and %s", op, x.TypeName(), y.TypeName())
}

func binaryNumeric(op string, x, y Value, xRank, yRank int) (Value, error) {
	rank := xRank
	if yRank > rank {
		rank = yRank
	}

	if rank == 2 { // Double
		return binaryFloat(op, asFloat(x), asFloat(y))
	}

	xi, yi := asLong(x), asLong(y)
	result, err := binaryInt(op, xi, yi)
	if err != nil {
		return nil, err
	}
	if rank == 1 { // Long
		if iv, ok := result.(Int); ok {
			return Long(iv), nil
		}
		return result, nil
	}
	return result, nil
}

func binaryInt(op string, x, y int64) (Value, error) {
	switch op {
	case "+":
		return Int(x + y), nil
	case "-":
		return Int(x - y), nil
	case "*":
		return Int(x * y), nil
	case "/":
		if y == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return Int(x / y), nil
	case "%":
		if y == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return Int(x % y), nil
	case "==":
		return Bool(x == y), nil
	case "!=":
		return Bool(x != y), nil
	case "<":
		return Bool(x < y), nil
	case "<=":
		return Bool(x <= y), nil
	case ">":
		return Bool(x > y), nil
	case ">=":
		return Bool(x >= y), nil
	}
	return nil, fmt.Errorf("unsupported integer operator %s", op)
}

func binaryFloat(op string, x, y float64) (Value, error) {
	switch op {
	case "+":
		return Double(x + y), nil
	case "-":
		return Double(x - y), nil
	case "*":
		return Double(x * y), nil
	case "/":
		return Double(x / y), nil
	case "==":
		return Bool(x == y), nil
	case "!=":
		return Bool(x != y), nil
	case "<":
		return Bool(x < y), nil
	case "<=":
		return Bool(x <= y), nil
	case ">":
		return Bool(x > y), nil
	case ">=":
		return Bool(x >= y), nil
	}
	return nil, fmt.Errorf("unsupported float operator %s", op)
}

// Unary dispatches a prefix operator the same way Binary does: try the
// operand's own HasUnary first, matching the teacher's per-type Unary
// methods (Int.Unary, Double.Unary, ...).
func Unary(op string, x Value) (Value, error) {
	if hu, ok := x.(HasUnary); ok {
		v, err := hu.Unary(op)
		if err != nil {
			return nil, err
		}
		if v != nil {
			return v, nil
		}
	}
	if b, ok := x.(Bool); ok && op == "!" {
		return !b, nil
	}
	return nil, fmt.Errorf("unsupported operand type for unary %s: %s", op, x.TypeName())
}

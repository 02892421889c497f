package types

// Char is Nova's single-Unicode-code-point tag, distinct from a one-rune
// String so character arithmetic ('a' + 1) and string/char concatenation
// have well-defined, separate rules.
type Char rune

var (
	_ Value    = Char(0)
	_ Ordered  = Char(0)
	_ HasUnary = Char(0)
)

func (c Char) String() string   { return string(rune(c)) }
func (c Char) TypeName() string { return "Char" }
func (c Char) Freeze()          {} // immutable
func (c Char) Truth() Bool      { return c != 0 }

func (c Char) Cmp(y Value, depth int) (int, error) {
	yc, ok := y.(Char)
	if !ok {
		return 0, typeErr("compare", y)
	}
	return intCmp(int64(c), int64(yc)), nil
}

// Unary exists only for symmetry with the other numeric tags; Nova has no
// unary operator defined on Char (`-c` is rejected at Binary/Unary dispatch
// since this always returns the "not handled" sentinel).
func (c Char) Unary(op string) (Value, error) { return nil, nil }

// Binary implements `'a' + 1` / `'a' - 1` (shifting a code point by an
// integer offset) and `'a' - 'A'` (code point distance, producing an Int),
// the two Char arithmetic forms Kotlin supports; anything else declines so
// the generic dispatch in arith.go can report a clean error.
func (c Char) Binary(op string, y Value, side Side) (Value, error) {
	if side == Right {
		return nil, nil
	}
	switch n := y.(type) {
	case Int:
		switch op {
		case "+":
			return Char(int64(c) + int64(n)), nil
		case "-":
			return Char(int64(c) - int64(n)), nil
		}
	case Char:
		if op == "-" {
			return Int(int64(c) - int64(n)), nil
		}
	}
	return nil, nil
}

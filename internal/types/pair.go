package types

// Pair is Nova's two-element tuple tag, adapted from the teacher's
// lang/types/tuple.go Tuple ([]Value of any length) narrowed to exactly two
// named fields, since Nova's surface language only ever constructs a Pair
// (via `a to b` or OpMakePair), never an arbitrary-arity tuple literal.
type Pair struct {
	First, Second Value
}

var _ Value = Pair{}

func (p Pair) String() string   { return "(" + displayString(p.First) + ", " + displayString(p.Second) + ")" }
func (p Pair) TypeName() string { return "Pair" }
func (p Pair) Truth() Bool      { return True }

func (p Pair) Freeze() {
	p.First.Freeze()
	p.Second.Freeze()
}

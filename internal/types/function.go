package types

import "github.com/nova-lang/nova/lang/linearize"

// Cell is a box holding one Value, used for local variables shared between
// an enclosing function and the closures that capture them. Local variables
// resolved as hir.Cell/hir.Free are only ever accessed indirectly through a
// Cell so outer and inner functions observe the same mutable storage.
//
// The teacher keeps the equivalent type (lang/machine/cell.go's unexported
// cell) inside its bytecode interpreter package. Nova's Function value needs
// a Cell field before internal/machine exists, so it lives here instead;
// internal/machine imports this type rather than redefining it.
type Cell struct{ V Value }

var _ Value = (*Cell)(nil)

func (c *Cell) String() string   { return "cell(" + c.V.String() + ")" }
func (c *Cell) TypeName() string { return "cell" }
func (c *Cell) Freeze()          { c.V.Freeze() }
func (c *Cell) Truth() Bool      { return c.V.Truth() }

// Function is a closure: the flattened code it runs plus the cells it
// captured at creation time. Adapted from the teacher's lang/types/
// function.go Function (Funcode + freevars tuple), generalized from a
// single-chunk program to Nova's per-Module function list plus an explicit
// Receiver for bound methods (internal/class's method-resolution-order
// lookup produces a Function with Receiver set).
type Function struct {
	Code     *linearize.Function
	FreeVars []*Cell
	Receiver Value // non-nil for a bound instance method
}

var _ Value = (*Function)(nil)

func (fn *Function) String() string {
	if fn.Code.IsMethod {
		return "<function " + fn.Code.MethodName + ">"
	}
	return "<function " + fn.Code.Name + ">"
}

func (fn *Function) TypeName() string { return "Function" }
func (fn *Function) Freeze()          {} // no-op: captured cells are not frozen
func (fn *Function) Truth() Bool      { return True }
func (fn *Function) Name() string     { return fn.Code.Name }

// Bind returns a copy of fn bound to receiver, used when a method is looked
// up off an Object (internal/class's method resolution order).
func (fn *Function) Bind(receiver Value) *Function {
	return &Function{Code: fn.Code, FreeVars: fn.FreeVars, Receiver: receiver}
}

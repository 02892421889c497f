package hir

import "fmt"

// Scope describes where a Binding's storage lives, mirroring the
// distinctions a closure-supporting interpreter must make at runtime.
type Scope uint8

const (
	Undefined   Scope = iota // name did not resolve to any declaration
	Local                    // local to its function, never captured
	Cell                     // function-local but captured by a nested function/lambda
	Free                     // a cell captured from an enclosing function
	Predeclared              // supplied to the module environment (e.g. import bindings, host globals)
	Universal                // a language or stdlib built-in, resolved dynamically at call time
)

var scopeNames = [...]string{
	Undefined:   "undefined",
	Local:       "local",
	Cell:        "cell",
	Free:        "free",
	Predeclared: "predeclared",
	Universal:   "universal",
}

func (s Scope) String() string {
	if int(s) >= len(scopeNames) {
		return fmt.Sprintf("<invalid scope %d>", s)
	}
	return scopeNames[s]
}

// Binding ties together every Ident that denotes the same variable.
type Binding struct {
	Name  string
	Scope Scope

	// Index is the slot index into the declaring function's Locals (for
	// Local/Cell) or the referencing function's FreeVars (for Free). It is
	// meaningless for Predeclared/Universal/Undefined.
	Index int

	// Decl is the node that introduced this binding: *ValDecl, *VarDecl,
	// *Param, *FuncDecl, *ClassDecl, *ForIn (loop variable), or *Catch.
	Decl Node

	// From is set only on Free bindings: the binding, one function level
	// up, that supplies the captured cell (either that level's Cell
	// binding, or its own Free binding when the capture crosses more than
	// one function boundary).
	From *Binding
}

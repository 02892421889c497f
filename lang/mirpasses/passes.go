// Package mirpasses implements the optimization pipeline that runs over a
// lang/mir.Function between HIR lowering and lang/linearize's CFG-to-
// bytecode flattening. Common subexpression elimination is required; the
// others are optional extras. DefaultPipeline always runs all four, and
// there is no option to switch one off.
//
// There is no teacher analogue for an optimizer pass pipeline — the
// teacher's compiler emits bytecode directly off the AST with no
// intermediate optimization stage — so this package is modeled in the
// teacher's own "one file, one concern" house style instead (each pass gets
// its own Run method and its own small helper functions).
package mirpasses

import "github.com/nova-lang/nova/lang/mir"

// Pass is one optimization over a single Function's CFG, applied in place.
type Pass interface {
	Name() string
	Run(fn *mir.Function) bool // returns true if it changed anything
}

// Pipeline is an ordered, named list of Passes; GetMirPipeline (interp's
// embedding API, spec.md §6) exposes Passes() so a host can introspect or
// log what ran.
type Pipeline struct {
	passes []Pass
}

// DefaultPipeline returns the standard ordering: CSE first (so later passes
// see already-deduplicated instructions), then constant folding, then copy
// propagation (which benefits from folded constants), then dead-store
// elimination last (so it can clean up whatever the earlier passes made
// dead).
func DefaultPipeline() *Pipeline {
	return &Pipeline{passes: []Pass{
		CSE{},
		ConstantFolding{},
		CopyPropagation{},
		DeadStoreElimination{},
	}}
}

func (p *Pipeline) Passes() []Pass { return p.passes }

// Run applies every pass in order to every Function in a Module, repeating
// the whole pipeline until a fixed point (or a safety cap) is reached, since
// e.g. copy propagation can expose new constant-folding opportunities.
func (p *Pipeline) Run(m *mir.Module) {
	for _, fn := range m.Functions {
		for i := 0; i < 4; i++ {
			changed := false
			for _, pass := range p.passes {
				if pass.Run(fn) {
					changed = true
				}
			}
			if !changed {
				break
			}
		}
	}
}

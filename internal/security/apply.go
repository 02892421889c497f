package security

import "github.com/nova-lang/nova/internal/machine"

// ApplyTo threads the policy's quota knobs into th, the same quota fields
// the teacher's Thread already exposed (MaxSteps/MaxCallStackDepth/
// DisableRecursion) before Policy existed to generalize them — this is the
// one place spec.md's named limits (maxRecursionDepth, maxLoopIterations)
// get translated into the interpreter's actual enforcement points.
// MaxExecutionTimeMs is not applied here: internal/machine.Thread.RunProgram
// takes a context.Context directly, and the embedding API (package interp)
// derives a context.WithTimeout from it instead, since wall-clock
// cancellation is a concern of the call that starts a Thread running, not
// of the Thread's own per-instruction step counter.
func (p *Policy) ApplyTo(th *machine.Thread) {
	th.MaxCallStackDepth = p.MaxRecursionDepth
	th.MaxSteps = p.MaxLoopIterations
	th.AllowStdio = p.AllowStdio
	th.AllowFileIO = p.AllowFileIO
	th.AllowNetwork = p.AllowNetwork
	th.AllowExec = p.AllowExec
	th.AllowJavaInterop = p.AllowJavaInterop
	th.AllowSetAccessible = p.AllowSetAccessible
}

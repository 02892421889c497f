package interp

import (
	"context"
	"time"

	"github.com/nova-lang/nova/internal/types"
	"github.com/nova-lang/nova/lang/linearize"
)

// Eval compiles and runs source in script mode: a fresh environment every
// call, seeded with nothing but the predeclared/stdlib bindings (spec.md
// §6's "fresh environment except for stdlib").
func (ip *Interpreter) Eval(source []byte, originName string) (types.Value, error) {
	program, err := ip.compileModule(source, originName)
	if err != nil {
		return nil, err
	}
	th := ip.newThread()
	ctx, cancel := ip.execContext()
	defer cancel()
	return th.RunProgram(ctx, program)
}

// EvalRepl compiles and runs source against a persisted top-level Thread,
// preserving top-level var/val bindings across calls (spec.md §6's
// "incremental" mode), regardless of SetReplMode — the distinction between
// Eval and EvalRepl is the call the host makes, not a mode flag; ReplMode
// only affects which surface (maincmd's REPL loop) a CLI host wires up.
//
// A name a val/var declared in an earlier EvalRepl call and referenced
// without redeclaration in a later one has no local Decl in the later
// chunk's own HIR, so lang/hir/resolve.go's static resolver cannot place it
// in the module's topLevelBindings scope by itself — it would otherwise
// fall through to a Universal binding and a runtime NameError. EvalRepl
// works around this the same way a real host needs to: after each run, it
// folds the Thread's accumulated top-level bindings into both a private,
// growing predeclared-name set (used to resolve the *next* chunk) and the
// same Thread's own Predeclared value map (so OpLoadPredeclared, the opcode
// that binding now resolves to, finds a live value), without touching
// ip.predeclared/ip.predeclaredSet — those stay the immutable host-global
// baseline every fresh Eval/import Thread starts from.
func (ip *Interpreter) EvalRepl(source []byte) (types.Value, error) {
	ip.mu.Lock()
	if ip.replThread == nil {
		ip.replThread = ip.newThread()
		ip.replThread.Predeclared = cloneValueMap(ip.predeclared)
		ip.replPredeclaredSet = cloneBoolMap(ip.predeclaredSet)
	}
	th := ip.replThread
	predeclared := ip.replPredeclaredSet
	ip.mu.Unlock()

	mod, err := ip.precompileModuleWith(source, "<repl>", predeclared)
	if err != nil {
		return nil, err
	}
	program := linearize.Linearize(mod)

	ctx, cancel := ip.execContext()
	defer cancel()
	result, runErr := th.RunProgram(ctx, program)

	ip.mu.Lock()
	for name, v := range th.TopLevelBindings() {
		th.Predeclared[name] = v
		ip.replPredeclaredSet[name] = true
	}
	ip.mu.Unlock()

	return result, runErr
}

func cloneValueMap(m map[string]types.Value) map[string]types.Value {
	out := make(map[string]types.Value, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneBoolMap(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// execContext derives a context bounded by the active policy's
// MaxExecutionTimeMs, or context.Background if unbounded.
func (ip *Interpreter) execContext() (context.Context, context.CancelFunc) {
	ip.mu.Lock()
	ms := ip.policy.MaxExecutionTimeMs
	ip.mu.Unlock()
	if ms <= 0 {
		return context.Background(), func() {}
	}
	return context.WithTimeout(context.Background(), time.Duration(ms)*time.Millisecond)
}

// Package interp implements spec.md §6's embedding API: the single
// Interpreter type a Go host constructs, configures (stdout, REPL mode,
// script base path, CLI args, security policy) and drives through
// Eval/EvalRepl, or through the lower-level PrecompileToMir/ExecuteMir pair
// for a host that wants to inspect or cache the MIR in between.
//
// Grounded on the teacher's internal/maincmd, which owns the same kind of
// orchestration (tokenize.go/parse.go/resolve.go each wire one stage of
// scan->parse->resolve for the CLI's own subcommands) one stage short of
// actually running a program; Interpreter extends that one stage further
// into mir.Build -> mirpasses -> linearize -> machine.Thread.RunProgram.
package interp

import (
	"io"
	"os"
	"sync"

	"github.com/nova-lang/nova/internal/annotation"
	"github.com/nova-lang/nova/internal/class"
	"github.com/nova-lang/nova/internal/concurrency"
	"github.com/nova-lang/nova/internal/machine"
	"github.com/nova-lang/nova/internal/module"
	"github.com/nova-lang/nova/internal/security"
	"github.com/nova-lang/nova/internal/stdlib"
	"github.com/nova-lang/nova/internal/types"
	"github.com/nova-lang/nova/lang/mirpasses"
)

var registerStdlibOnce sync.Once

// Interpreter is the embedding API's entry point: one per isolated runtime
// (its own class registry, concurrency host, module cache, and security
// policy), safe to reuse across many Eval calls.
type Interpreter struct {
	mu sync.Mutex

	stdout         io.Writer
	replMode       bool
	scriptBasePath string
	cliArgs        []string
	policy         *security.Policy

	classHost       *class.Host
	concurrencyHost *concurrency.Host
	loader          *module.Loader
	pipeline        *mirpasses.Pipeline

	predeclared    map[string]types.Value
	predeclaredSet map[string]bool

	replThread         *machine.Thread
	replPredeclaredSet map[string]bool
}

// New returns an Interpreter with the Standard security preset, stdout
// defaulted to os.Stdout, and every internal/stdlib module registered.
// internal/stdlib's registry is process-global (internal/module's
// builtinModules map), so Register is guarded by a sync.Once regardless of
// how many Interpreters a host constructs.
func New() *Interpreter {
	registerStdlibOnce.Do(stdlib.Register)

	ip := &Interpreter{
		stdout:   os.Stdout,
		policy:   security.Standard(),
		pipeline: mirpasses.DefaultPipeline(),
	}
	ip.classHost = class.NewHost()
	ip.concurrencyHost = concurrency.NewHost(ip.policy)
	ip.rebuildPredeclared()
	ip.loader = module.NewLoader(ip.scriptBasePath, ip.compileModule, ip.newThread, ip.policy)
	return ip
}

// SetStdout redirects every Thread this Interpreter creates to w.
func (ip *Interpreter) SetStdout(w io.Writer) {
	ip.mu.Lock()
	defer ip.mu.Unlock()
	ip.stdout = w
}

// SetReplMode toggles whether EvalRepl's persisted top-level Thread is used
// (true) or every Eval call gets a fresh environment (false, the default).
func (ip *Interpreter) SetReplMode(b bool) {
	ip.mu.Lock()
	defer ip.mu.Unlock()
	ip.replMode = b
	if !b {
		ip.replThread = nil
		ip.replPredeclaredSet = nil
	}
}

// SetScriptBasePath sets the directory module imports resolve dotted paths
// under (spec.md §4.8).
func (ip *Interpreter) SetScriptBasePath(path string) {
	ip.mu.Lock()
	defer ip.mu.Unlock()
	ip.scriptBasePath = path
	ip.loader = module.NewLoader(path, ip.compileModule, ip.newThread, ip.policy)
}

// SetCliArgs makes args available to running scripts as system.args() and
// the predeclared `args` binding for-loops/`when`-on-position expressions
// can destructure directly.
func (ip *Interpreter) SetCliArgs(args []string) {
	ip.mu.Lock()
	defer ip.mu.Unlock()
	ip.cliArgs = args
	ip.rebuildPredeclared()
}

// SetSecurityPolicy replaces the active policy, rebuilding the concurrency
// host (dispatcher pool sizes and MaxAsyncTasks are fixed at Host
// construction) and the module loader (host-interop gating) to match.
func (ip *Interpreter) SetSecurityPolicy(p *security.Policy) {
	ip.mu.Lock()
	defer ip.mu.Unlock()
	ip.policy = p
	ip.concurrencyHost = concurrency.NewHost(p)
	ip.rebuildPredeclared()
	ip.loader = module.NewLoader(ip.scriptBasePath, ip.compileModule, ip.newThread, p)
	ip.replThread = nil
	ip.replPredeclaredSet = nil
}

// GetMirPipeline returns the optimization passes PrecompileToMir runs, in
// order, for a host that wants to introspect or log them.
func (ip *Interpreter) GetMirPipeline() *mirpasses.Pipeline { return ip.pipeline }

// RegisterAnnotationProcessor wires a native (Go-implemented) annotation
// processor into the same registry a script's own
// `registerAnnotationProcessor(name){...}` call populates, the "native
// processor" variant spec.md §4.6/§6 describes as one of the two kinds the
// registry stores homogeneously.
func (ip *Interpreter) RegisterAnnotationProcessor(name string, proc annotation.Processor) *annotation.Handle {
	return ip.classHost.Registry.Register(name, proc)
}

// rebuildPredeclared recomputes both the runtime predeclared binding table
// and its parallel compile-time name set (resolve.go only needs to know
// which names exist, not their values) whenever something that can change a
// predeclared value (CLI args, a fresh concurrency Host) changes.
func (ip *Interpreter) rebuildPredeclared() {
	vals := stdlib.CoreBuiltins()
	vals["Dispatchers"] = dispatchersNamespace(ip.concurrencyHost)
	vals["registerAnnotationProcessor"] = machine.NewBuiltin("registerAnnotationProcessor", ip.bRegisterAnnotationProcessor)
	vals["withTimeout"] = concurrency.WithTimeoutBuiltin(ip.concurrencyHost)
	vals["withContext"] = concurrency.WithContextBuiltin(ip.concurrencyHost)
	if ip.cliArgs != nil {
		elems := make([]types.Value, len(ip.cliArgs))
		for i, a := range ip.cliArgs {
			elems[i] = types.String(a)
		}
		vals["args"] = types.NewList(elems)
	} else {
		vals["args"] = types.NewList(nil)
	}

	names := make(map[string]bool, len(vals))
	for k := range vals {
		names[k] = true
	}
	ip.predeclared = vals
	ip.predeclaredSet = names
}

// dispatchersNamespace builds the predeclared `Dispatchers` object out of
// the concurrency Host's named dispatcher values, reusing
// internal/module.Namespace (a plain name->Value attribute view) rather
// than inventing a second, identical Value type in this package.
func dispatchersNamespace(h *concurrency.Host) *module.Namespace {
	bindings := map[string]types.Value{}
	for _, name := range []string{"IO", "Default", "Unconfined", "Bounded"} {
		if v := h.DispatcherValue(name); v != nil {
			bindings[name] = v
		}
	}
	return module.NewNamespace(bindings)
}

// bRegisterAnnotationProcessor implements the script-level
// `registerAnnotationProcessor(name){ target, args -> ... }` builtin
// (spec.md §4.6), wrapping the Nova Callable argument the same way
// annotation.WrapCallable always does for a Language-defined processor.
func (ip *Interpreter) bRegisterAnnotationProcessor(th *machine.Thread, args []types.Value) (types.Value, error) {
	if len(args) != 2 {
		return nil, &machine.NovaError{Kind: "TypeError", Message: "registerAnnotationProcessor expects 2 arguments, got " + itoaSmall(len(args))}
	}
	name, ok := args[0].(types.String)
	if !ok {
		return nil, &machine.NovaError{Kind: "TypeError", Message: "registerAnnotationProcessor's first argument must be a String"}
	}
	return ip.classHost.Registry.Register(string(name), annotation.WrapCallable(args[1])), nil
}

func itoaSmall(n int) string {
	if n == 0 {
		return "0"
	}
	digits := [20]byte{}
	i := len(digits)
	neg := n < 0
	if neg {
		n = -n
	}
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		digits[i] = '-'
	}
	return string(digits[i:])
}

// newThread builds a Thread sharing this Interpreter's predeclared
// environment, class/concurrency hosts, module loader, and security quotas
// but with its own empty top-level binding table, per
// module.ThreadFactory's contract. The same factory also backs every
// top-level Eval/EvalRepl Thread, so a script's own top level and an
// imported module's top level are configured identically.
func (ip *Interpreter) newThread() *machine.Thread {
	th := &machine.Thread{
		Stdout:      ip.stdout,
		Predeclared: ip.predeclared,
		ClassHost:   ip.classHost,
		Concurrency: ip.concurrencyHost,
		Importer:    ip.loader,
	}
	ip.policy.ApplyTo(th)
	return th
}

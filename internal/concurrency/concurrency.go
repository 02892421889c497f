// Package concurrency implements spec.md §4.7's structured-concurrency
// runtime: the Scope tree (coroutine vs. supervisor), Deferred/Job task
// handles, Channel, Mutex, AtomicInt/Long/Ref, and the Dispatcher selecting
// which background pool a task runs on.
//
// Grounded on Tangerg-lynx's pkg/sync package: future.go's FutureState state
// machine (New -> Running -> Success|Failed|Cancelled) is adapted into this
// package's own task state machine backing both Deferred and Job; pool.go's
// Pool interface (`Submit(func()) error` wrapping sourcegraph/conc,
// gammazero/workerpool, panjf2000/ants behind one adapter shape) is carried
// over nearly verbatim as Dispatcher, the same "one interface, three
// interchangeable pool-library backends" pattern.
package concurrency

import (
	"runtime"
	"sync"

	concpool "github.com/sourcegraph/conc/pool"
	"github.com/gammazero/workerpool"
	"github.com/panjf2000/ants/v2"

	"github.com/nova-lang/nova/internal/machine"
	"github.com/nova-lang/nova/internal/security"
	"github.com/nova-lang/nova/internal/types"
)

// Host implements machine.ConcurrencyHost, owning the root Scope (tied to
// the interpreter's lifetime, per spec.md §9's open question: "evidence
// suggests a global default scope exists") and the three named Dispatchers.
type Host struct {
	Policy *security.Policy

	root *Scope

	mu          sync.Mutex
	dispatchers map[string]*Dispatcher
	inFlight    int // count of currently-admitted async/launch tasks, for MaxAsyncTasks
}

// NewHost returns a Host with its root Scope active and the three standard
// Dispatchers (IO/Default/Unconfined) ready, backed by policy's quotas (a
// nil policy is treated as Unrestricted).
func NewHost(policy *security.Policy) *Host {
	if policy == nil {
		policy = security.Unrestricted()
	}
	h := &Host{Policy: policy, dispatchers: map[string]*Dispatcher{}}
	h.root = newScope(h, nil, false)
	h.dispatchers["IO"] = newDispatcher("IO", PoolOfWorkerpool(workerpool.New(4096)))
	h.dispatchers["Default"] = newDispatcher("Default", PoolOfConc(concpool.New().WithMaxGoroutines(maxCPU())))
	h.dispatchers["Unconfined"] = newDispatcher("Unconfined", inlinePool{})
	if policy.MaxAsyncTasks > 0 {
		boundedPool, _ := ants.NewPool(policy.MaxAsyncTasks)
		h.dispatchers["Bounded"] = newDispatcher("Bounded", PoolOfAnts(boundedPool))
	}
	return h
}

func maxCPU() int {
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 1
}

// RootScope returns the interpreter-lifetime scope that a bare `async {}`/
// `launch {}` expression (no receiver scope) attaches to.
func (h *Host) RootScope() *Scope { return h.root }

// DispatcherValue returns the predeclared Value for one of the standard
// dispatcher names ("IO", "Default", "Unconfined"), for internal/stdlib's
// `Dispatchers` predeclared object to expose.
func (h *Host) DispatcherValue(name string) types.Value {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dispatchers[name]
}

func (h *Host) resolveDispatcher(v types.Value, fallback *Scope) *Dispatcher {
	h.mu.Lock()
	defer h.mu.Unlock()
	if d, ok := v.(*Dispatcher); ok {
		return d
	}
	if fallback != nil && fallback.dispatcher != nil {
		return fallback.dispatcher
	}
	if d, ok := h.dispatchers["Bounded"]; ok {
		return d
	}
	return h.dispatchers["Default"]
}

func (h *Host) admit() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := security.CheckQuota(h.inFlight, h.Policy.MaxAsyncTasks, "spawn async/launch task"); err != nil {
		return &machine.NovaError{Kind: "SecurityError", Message: err.Error()}
	}
	h.inFlight++
	return nil
}

func (h *Host) release() {
	h.mu.Lock()
	h.inFlight--
	h.mu.Unlock()
}

var _ machine.ConcurrencyHost = (*Host)(nil)

// Async implements machine.ConcurrencyHost: the `async { }` expression with
// no receiver scope attaches to the interpreter's root scope.
func (h *Host) Async(th *machine.Thread, body *types.Function, dispatcher types.Value) (types.Value, error) {
	return h.root.spawnAsync(th, body, dispatcher)
}

// Launch implements machine.ConcurrencyHost for the bare `launch { }` form.
func (h *Host) Launch(th *machine.Thread, body *types.Function, dispatcher types.Value) (types.Value, error) {
	return h.root.spawnLaunch(th, body, dispatcher)
}

// Await implements machine.ConcurrencyHost: `await x` is sugar for
// `x.await()`, dispatched the same way a method call would be, just without
// needing OpAttr/OpCall round-trip.
func (h *Host) Await(th *machine.Thread, v types.Value) (types.Value, error) {
	d, ok := v.(*Deferred)
	if !ok {
		return nil, &machine.NovaError{Kind: "TypeError", Message: "await expects a Deferred, got " + v.TypeName()}
	}
	return d.await(th)
}

// ScopeEnter implements machine.ConcurrencyHost: opens a child scope of the
// root (lang/mir/build.go's lowering always opens `coroutineScope`/
// `supervisorScope` directly off the enclosing function; scopes do not
// themselves nest off another in-source scope variable in this surface
// grammar, so the parent is always the interpreter's root).
func (h *Host) ScopeEnter(th *machine.Thread, supervisor bool) (types.Value, error) {
	return newScope(h, h.root, supervisor), nil
}

// ScopeExit implements machine.ConcurrencyHost: waits for every task the
// scope started to terminate, then returns bodyResult, per spec.md §4.7
// ("runs the lambda with the scope bound, then waits for all started tasks
// to terminate before returning the lambda's result").
func (h *Host) ScopeExit(th *machine.Thread, scopeV types.Value, bodyResult types.Value, dispatcher types.Value) (types.Value, error) {
	sc, ok := scopeV.(*Scope)
	if !ok {
		return nil, &machine.NovaError{Kind: "TypeError", Message: "scope exit against a non-Scope value"}
	}
	if err := sc.join(); err != nil {
		return nil, err
	}
	return bodyResult, nil
}

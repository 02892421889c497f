package concurrency

import (
	"github.com/gammazero/workerpool"
	"github.com/panjf2000/ants/v2"
	concpool "github.com/sourcegraph/conc/pool"

	"github.com/nova-lang/nova/internal/types"
)

// pool is the narrow shape every backing worker-pool library is adapted to,
// carried over from Tangerg-lynx's pkg/sync/pool.go Pool interface
// (`Submit(func()) error`) essentially unchanged: one seam letting
// Dispatcher wrap sourcegraph/conc, gammazero/workerpool, and panjf2000/ants
// interchangeably.
type pool interface {
	submit(f func()) error
}

// Dispatcher is spec.md §4.7's Dispatchers.IO/Dispatchers.Default/
// Dispatchers.Unconfined value: a Nova-visible handle selecting which
// backing pool an async/launch task runs on.
type Dispatcher struct {
	name string
	p    pool
}

func newDispatcher(name string, p pool) *Dispatcher {
	return &Dispatcher{name: name, p: p}
}

func (d *Dispatcher) TypeName() string  { return "Dispatcher" }
func (d *Dispatcher) String() string    { return "<dispatcher " + d.name + ">" }
func (d *Dispatcher) Truth() types.Bool { return types.True }
func (d *Dispatcher) Freeze()           {}
func (d *Dispatcher) Name() string      { return d.name }

var _ types.Value = (*Dispatcher)(nil)

func (d *Dispatcher) submit(f func()) error { return d.p.submit(f) }

// concAdapter wraps a sourcegraph/conc/pool.Pool, the backing pool for
// Dispatchers.Default, sized to the host CPU count.
type concAdapter struct{ p *concpool.Pool }

// PoolOfConc adapts a *conc/pool.Pool, matching Tangerg-lynx's PoolOfConc
// constructor.
func PoolOfConc(p *concpool.Pool) pool { return concAdapter{p} }

func (a concAdapter) submit(f func()) error {
	a.p.Go(f)
	return nil
}

// workerpoolAdapter wraps a gammazero/workerpool.WorkerPool, the backing
// pool for Dispatchers.IO (a large, mostly-blocked-on-I/O worker count).
type workerpoolAdapter struct{ p *workerpool.WorkerPool }

// PoolOfWorkerpool adapts a *workerpool.WorkerPool, matching Tangerg-lynx's
// PoolOfWorkerpool constructor.
func PoolOfWorkerpool(p *workerpool.WorkerPool) pool { return workerpoolAdapter{p} }

func (a workerpoolAdapter) submit(f func()) error {
	a.p.Submit(f)
	return nil
}

// antsAdapter wraps a panjf2000/ants/v2.Pool, used for the quota-Bounded
// dispatcher a Policy.MaxAsyncTasks admits tasks against.
type antsAdapter struct{ p *ants.Pool }

// PoolOfAnts adapts a *ants.Pool, matching Tangerg-lynx's PoolOfAnts
// constructor.
func PoolOfAnts(p *ants.Pool) pool { return antsAdapter{p} }

func (a antsAdapter) submit(f func()) error {
	return a.p.Submit(f)
}

// inlinePool backs Dispatchers.Unconfined: runs the task body synchronously
// on the caller's own goroutine rather than posting it anywhere, matching
// Kotlin's Dispatchers.Unconfined semantics this part of spec.md is
// distilled from.
type inlinePool struct{}

func (inlinePool) submit(f func()) error {
	f()
	return nil
}

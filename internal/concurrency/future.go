package concurrency

import (
	"sync"

	"github.com/nova-lang/nova/internal/machine"
	"github.com/nova-lang/nova/internal/types"
)

// future is the shared completion machinery backing both Deferred and Job,
// adapted from Tangerg-lynx's pkg/sync/future.go FutureTask[V]: a done
// channel closed exactly once, guarded by a completed flag, with the result (or
// error) captured at the moment of completion and read back through it
// afterward without further synchronization.
type future struct {
	mu        sync.Mutex
	done      chan struct{}
	completed bool
	cancelled bool
	value     types.Value
	err       error
}

func newFuture() *future {
	return &future{done: make(chan struct{})}
}

func (f *future) complete(v types.Value, err error) {
	f.mu.Lock()
	if f.completed {
		f.mu.Unlock()
		return
	}
	f.completed = true
	f.value = v
	f.err = err
	f.mu.Unlock()
	close(f.done)
}

func (f *future) cancel() {
	f.mu.Lock()
	already := f.completed
	f.mu.Unlock()
	if already {
		return
	}
	f.cancelled = true
}

func (f *future) wait() error {
	<-f.done
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *future) isDone() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

func (f *future) isCancelled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancelled
}

// Deferred is the handle spec.md §4.7 returns from `scope.async { ... }`:
// `.await()` blocks for the result (re-raising the body's failure in the
// awaiting thread), `.isCompleted()`/`.isCancelled()` observe state without
// blocking.
type Deferred struct {
	*future
}

func newDeferred() *Deferred { return &Deferred{future: newFuture()} }

func (d *Deferred) TypeName() string  { return "Deferred" }
func (d *Deferred) String() string    { return "<deferred>" }
func (d *Deferred) Truth() types.Bool { return types.True }
func (d *Deferred) Freeze()           {}

var _ types.Value = (*Deferred)(nil)
var _ types.HasAttrs = (*Deferred)(nil)
var _ task = (*Deferred)(nil)

func (d *Deferred) await(th *machine.Thread) (types.Value, error) {
	err := d.wait()
	if err != nil {
		return nil, err
	}
	return d.value, nil
}

func (d *Deferred) Attr(name string) (types.Value, error) {
	switch name {
	case "await", "get":
		// spec.md §4.7 lists both `get()` and `await()` on Deferred; both
		// block for the result and re-raise the body's failure.
		return machine.NewBuiltin(name, func(th *machine.Thread, args []types.Value) (types.Value, error) {
			return d.await(th)
		}), nil
	case "cancel":
		return machine.NewBuiltin("cancel", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			d.cancel()
			return types.Null{}, nil
		}), nil
	case "isCompleted", "isDone":
		return machine.NewBuiltin(name, func(th *machine.Thread, args []types.Value) (types.Value, error) {
			return types.Bool(d.isDone()), nil
		}), nil
	case "isCancelled":
		return machine.NewBuiltin("isCancelled", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			return types.Bool(d.isCancelled()), nil
		}), nil
	case "isActive":
		return machine.NewBuiltin("isActive", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			return types.Bool(!d.isDone()), nil
		}), nil
	}
	return nil, nil
}

func (d *Deferred) AttrNames() []string {
	return []string{"await", "get", "cancel", "isCompleted", "isDone", "isCancelled", "isActive"}
}

// Job is the handle spec.md §4.7 returns from `scope.launch { ... }`:
// fire-and-forget, with the body's failure swallowed until `.join()` is
// called to observe it (mirrors Kotlin's Job semantics, the source this
// part of spec.md is distilled from).
type Job struct {
	*future
}

func newJob() *Job { return &Job{future: newFuture()} }

func (j *Job) TypeName() string  { return "Job" }
func (j *Job) String() string    { return "<job>" }
func (j *Job) Truth() types.Bool { return types.True }
func (j *Job) Freeze()           {}

var _ types.Value = (*Job)(nil)
var _ types.HasAttrs = (*Job)(nil)
var _ task = (*Job)(nil)

func (j *Job) Attr(name string) (types.Value, error) {
	switch name {
	case "join":
		return machine.NewBuiltin("join", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			if err := j.wait(); err != nil {
				return nil, err
			}
			return types.Null{}, nil
		}), nil
	case "cancel":
		return machine.NewBuiltin("cancel", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			j.cancel()
			return types.Null{}, nil
		}), nil
	case "isCompleted":
		return machine.NewBuiltin("isCompleted", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			return types.Bool(j.isDone()), nil
		}), nil
	case "isCancelled":
		return machine.NewBuiltin("isCancelled", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			return types.Bool(j.isCancelled()), nil
		}), nil
	case "isActive":
		return machine.NewBuiltin("isActive", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			return types.Bool(!j.isDone()), nil
		}), nil
	}
	return nil, nil
}

func (j *Job) AttrNames() []string {
	return []string{"join", "cancel", "isCompleted", "isCancelled", "isActive"}
}

package concurrency

import (
	"sync"

	"github.com/nova-lang/nova/internal/machine"
	"github.com/nova-lang/nova/internal/types"
)

// Scope is spec.md §4.7's coroutineScope/supervisorScope receiver: a node in
// a tree of structured-concurrency regions. A coroutine scope propagates any
// child failure by cancelling its siblings and failing the scope itself; a
// supervisor scope isolates each child's failure to that child alone.
type Scope struct {
	host       *Host
	parent     *Scope
	supervisor bool
	dispatcher *Dispatcher

	mu       sync.Mutex
	children []task
	failed   error
}

type task interface {
	cancel()
	wait() error
}

func newScope(h *Host, parent *Scope, supervisor bool) *Scope {
	return &Scope{host: h, parent: parent, supervisor: supervisor}
}

func (s *Scope) TypeName() string { return "Scope" }
func (s *Scope) String() string {
	if s.supervisor {
		return "<supervisor scope>"
	}
	return "<coroutine scope>"
}
func (s *Scope) Truth() types.Bool { return types.True }
func (s *Scope) Freeze()           {}

var _ types.Value = (*Scope)(nil)
var _ types.HasAttrs = (*Scope)(nil)

// Attr implements types.HasAttrs: s.async{}/s.launch{}/s.cancel() dispatch
// as ordinary method calls through OpAttr+OpCall, kept separate from the
// free-floating `async {}`/`launch {}` keyword forms (machine.ConcurrencyHost.
// Async/Launch), which always target the interpreter's root scope.
func (s *Scope) Attr(name string) (types.Value, error) {
	switch name {
	case "async":
		return machine.NewBuiltin("async", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			body, dispatcher, err := asyncArgs(args)
			if err != nil {
				return nil, err
			}
			return s.spawnAsync(th, body, dispatcher)
		}), nil
	case "launch":
		return machine.NewBuiltin("launch", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			body, dispatcher, err := asyncArgs(args)
			if err != nil {
				return nil, err
			}
			return s.spawnLaunch(th, body, dispatcher)
		}), nil
	case "cancel":
		return machine.NewBuiltin("cancel", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			s.cancelChildren()
			return types.Null{}, nil
		}), nil
	}
	return nil, nil
}

func (s *Scope) AttrNames() []string { return []string{"async", "launch", "cancel"} }

func asyncArgs(args []types.Value) (*types.Function, types.Value, error) {
	if len(args) == 0 {
		return nil, nil, &machine.NovaError{Kind: "TypeError", Message: "async/launch requires a body function"}
	}
	fn, ok := args[0].(*types.Function)
	if !ok {
		return nil, nil, &machine.NovaError{Kind: "TypeError", Message: "async/launch body must be a function"}
	}
	var dispatcher types.Value
	if len(args) > 1 {
		dispatcher = args[1]
	}
	return fn, dispatcher, nil
}

func (s *Scope) addChild(t task) {
	s.mu.Lock()
	s.children = append(s.children, t)
	s.mu.Unlock()
}

// cancelChildren marks every task this scope directly started as cancelled
// (its handle's isCancelled then reports true). It does not cancel the
// task's child Thread, so a task that is already running continues to
// completion.
func (s *Scope) cancelChildren() {
	s.mu.Lock()
	children := append([]task(nil), s.children...)
	s.mu.Unlock()
	for _, c := range children {
		c.cancel()
	}
}

// onChildFailed implements the coroutine-vs-supervisor propagation rule: a
// coroutine scope cancels every sibling and remembers the first failure so
// join() surfaces it; a supervisor scope isolates the failure to the child
// that raised it.
func (s *Scope) onChildFailed(err error) {
	if s.supervisor {
		return
	}
	s.mu.Lock()
	first := s.failed == nil
	if first {
		s.failed = err
	}
	s.mu.Unlock()
	if first {
		s.cancelChildren()
	}
}

// join waits for every child task to terminate and returns the first
// coroutine-propagated failure, if any.
func (s *Scope) join() error {
	s.mu.Lock()
	children := append([]task(nil), s.children...)
	s.mu.Unlock()
	for _, c := range children {
		if err := c.wait(); err != nil && !s.supervisor {
			s.onChildFailed(err)
		}
	}
	s.mu.Lock()
	err := s.failed
	s.mu.Unlock()
	return err
}

// spawnAsync starts body on its own child Thread via the resolved
// Dispatcher and returns a Deferred observing its result.
func (s *Scope) spawnAsync(th *machine.Thread, body *types.Function, dispatcherArg types.Value) (types.Value, error) {
	if err := s.host.admit(); err != nil {
		return nil, err
	}
	d := newDeferred()
	s.addChild(d)
	disp := s.host.resolveDispatcher(dispatcherArg, s)
	child := th.NewChildThread()
	err := disp.submit(func() {
		defer s.host.release()
		v, err := child.RunFunction(body, nil)
		if err != nil {
			s.onChildFailed(err)
		}
		d.complete(v, err)
	})
	if err != nil {
		s.host.release()
		d.complete(nil, err)
		return nil, err
	}
	return d, nil
}

// spawnLaunch starts body the same way spawnAsync does but returns a Job: a
// fire-and-forget handle whose failure is swallowed until join() is called.
func (s *Scope) spawnLaunch(th *machine.Thread, body *types.Function, dispatcherArg types.Value) (types.Value, error) {
	if err := s.host.admit(); err != nil {
		return nil, err
	}
	j := newJob()
	s.addChild(j)
	disp := s.host.resolveDispatcher(dispatcherArg, s)
	child := th.NewChildThread()
	err := disp.submit(func() {
		defer s.host.release()
		_, err := child.RunFunction(body, nil)
		if err != nil {
			s.onChildFailed(err)
		}
		j.complete(nil, err)
	})
	if err != nil {
		s.host.release()
		j.complete(nil, err)
		return nil, err
	}
	return j, nil
}

package concurrency

import (
	"time"

	"github.com/nova-lang/nova/internal/machine"
	"github.com/nova-lang/nova/internal/types"
)

// suspensionResult carries a child Thread's completion back to whichever of
// withTimeout/withContext is waiting on it.
type suspensionResult struct {
	v   types.Value
	err error
}

// WithTimeoutBuiltin returns spec.md §4.7's `withTimeout(ms, body)`
// suspension point as a predeclared builtin: runs body on its own child
// Thread and fails with a TimeoutError if it hasn't completed within ms
// milliseconds, cancelling the child thread via Thread.Cancel (observed at
// its next cooperative checkpoint).
func WithTimeoutBuiltin(h *Host) types.Value {
	return machine.NewBuiltin("withTimeout", func(th *machine.Thread, args []types.Value) (types.Value, error) {
		if len(args) != 2 {
			return nil, &machine.NovaError{Kind: "TypeError", Message: "withTimeout expects 2 arguments (ms, body)"}
		}
		ms, err := oneIntArg("withTimeout", args[0])
		if err != nil {
			return nil, err
		}
		body, ok := args[1].(*types.Function)
		if !ok {
			return nil, &machine.NovaError{Kind: "TypeError", Message: "withTimeout's second argument must be a function"}
		}
		return h.withTimeout(th, ms, body)
	})
}

// WithContextBuiltin returns spec.md §4.7's `withContext(dispatcher, body)`
// suspension point: runs body on the given Dispatcher's pool (or the
// resolved default, per Host.resolveDispatcher) and blocks the calling
// thread for its result.
func WithContextBuiltin(h *Host) types.Value {
	return machine.NewBuiltin("withContext", func(th *machine.Thread, args []types.Value) (types.Value, error) {
		if len(args) != 2 {
			return nil, &machine.NovaError{Kind: "TypeError", Message: "withContext expects 2 arguments (dispatcher, body)"}
		}
		body, ok := args[1].(*types.Function)
		if !ok {
			return nil, &machine.NovaError{Kind: "TypeError", Message: "withContext's second argument must be a function"}
		}
		return h.withContext(th, args[0], body)
	})
}

func (h *Host) withTimeout(th *machine.Thread, ms int64, body *types.Function) (types.Value, error) {
	if ms < 0 {
		return nil, &machine.NovaError{Kind: "TypeError", Message: "withTimeout expects a non-negative millisecond duration"}
	}
	child := th.NewChildThread()
	resultCh := make(chan suspensionResult, 1)
	go func() {
		v, err := child.RunFunction(body, nil)
		resultCh <- suspensionResult{v, err}
	}()

	timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
	defer timer.Stop()
	select {
	case r := <-resultCh:
		return r.v, r.err
	case <-timer.C:
		child.Cancel()
		return nil, &machine.NovaError{Kind: "TimeoutError", Message: "withTimeout exceeded"}
	}
}

func (h *Host) withContext(th *machine.Thread, dispatcherArg types.Value, body *types.Function) (types.Value, error) {
	disp := h.resolveDispatcher(dispatcherArg, nil)
	child := th.NewChildThread()
	resultCh := make(chan suspensionResult, 1)
	err := disp.submit(func() {
		v, runErr := child.RunFunction(body, nil)
		resultCh <- suspensionResult{v, runErr}
	})
	if err != nil {
		return nil, err
	}
	r := <-resultCh
	return r.v, r.err
}

package concurrency

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/nova-lang/nova/internal/machine"
	"github.com/nova-lang/nova/internal/types"
)

// Channel is spec.md §4.7's Channel value: a buffered or rendezvous (buffer
// size 0) handoff between tasks, send()/receive() as ordinary method calls
// rather than dedicated opcodes (Nova has no `<-` operator; channels are
// just another object with HasAttrs methods, the same shape internal/class
// gives instance methods).
type Channel struct {
	ch     chan types.Value
	closed atomic.Bool
}

// NewChannel returns a Channel with the given buffer capacity (0 is a
// rendezvous channel: send blocks until a matching receive).
func NewChannel(capacity int) *Channel {
	return &Channel{ch: make(chan types.Value, capacity)}
}

func (c *Channel) TypeName() string  { return "Channel" }
func (c *Channel) String() string    { return "<channel>" }
func (c *Channel) Truth() types.Bool { return types.True }
func (c *Channel) Freeze()           {}

var _ types.Value = (*Channel)(nil)
var _ types.HasAttrs = (*Channel)(nil)

func (c *Channel) Attr(name string) (types.Value, error) {
	switch name {
	case "send":
		return machine.NewBuiltin("send", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			if len(args) != 1 {
				return nil, &machine.NovaError{Kind: "TypeError", Message: "send expects 1 argument"}
			}
			if c.closed.Load() {
				return nil, &machine.NovaError{Kind: "ChannelClosedError", Message: "send on closed channel"}
			}
			defer func() { recover() }()
			c.ch <- args[0]
			return types.Null{}, nil
		}), nil
	case "receive":
		return machine.NewBuiltin("receive", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			v, ok := <-c.ch
			if !ok {
				return nil, &machine.NovaError{Kind: "ChannelClosedError", Message: "receive on closed channel"}
			}
			return v, nil
		}), nil
	case "close":
		return machine.NewBuiltin("close", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			if c.closed.CompareAndSwap(false, true) {
				close(c.ch)
			}
			return types.Null{}, nil
		}), nil
	case "tryReceive":
		return machine.NewBuiltin("tryReceive", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			select {
			case v, ok := <-c.ch:
				if !ok {
					return types.Null{}, nil
				}
				return v, nil
			default:
				return types.Null{}, nil
			}
		}), nil
	case "receiveTimeout":
		return machine.NewBuiltin("receiveTimeout", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			ms, err := intArg(args)
			if err != nil {
				return nil, err
			}
			timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
			defer timer.Stop()
			select {
			case v, ok := <-c.ch:
				if !ok {
					return nil, &machine.NovaError{Kind: "ChannelClosedError", Message: "receive on closed channel"}
				}
				return v, nil
			case <-timer.C:
				return nil, &machine.NovaError{Kind: "TimeoutError", Message: "receiveTimeout exceeded"}
			}
		}), nil
	case "isClosed":
		return machine.NewBuiltin("isClosed", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			return types.Bool(c.closed.Load()), nil
		}), nil
	case "isEmpty":
		return machine.NewBuiltin("isEmpty", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			return types.Bool(len(c.ch) == 0), nil
		}), nil
	case "size":
		return machine.NewBuiltin("size", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			return types.Int(len(c.ch)), nil
		}), nil
	}
	return nil, nil
}

func (c *Channel) AttrNames() []string {
	return []string{"send", "receive", "tryReceive", "receiveTimeout", "close", "isClosed", "isEmpty", "size"}
}

// Iterate implements types.Iterable: spec.md §4.7's "Channel is iterable:
// `for (x in ch)` drains until close" — each step blocks for the next sent
// value, same as receive(), and stops once the channel is closed and
// drained.
func (c *Channel) Iterate() types.Iterator { return &channelIterator{ch: c} }

var _ types.Iterable = (*Channel)(nil)

type channelIterator struct{ ch *Channel }

func (it *channelIterator) Next(p *types.Value) bool {
	v, ok := <-it.ch.ch
	if !ok {
		return false
	}
	*p = v
	return true
}

func (it *channelIterator) Done() {}

// Mutex is spec.md §4.7's Mutex value: lock()/unlock()/tryLock()/
// isLocked()/withLock() guarding a critical section across concurrently
// running tasks. Non-reentrant, per spec.md §4.7.
type Mutex struct {
	mu     sync.Mutex
	locked atomic.Bool
}

func NewMutex() *Mutex { return &Mutex{} }

func (m *Mutex) TypeName() string  { return "Mutex" }
func (m *Mutex) String() string    { return "<mutex>" }
func (m *Mutex) Truth() types.Bool { return types.True }
func (m *Mutex) Freeze()           {}

var _ types.Value = (*Mutex)(nil)
var _ types.HasAttrs = (*Mutex)(nil)

func (m *Mutex) Attr(name string) (types.Value, error) {
	switch name {
	case "lock":
		return machine.NewBuiltin("lock", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			m.mu.Lock()
			m.locked.Store(true)
			return types.Null{}, nil
		}), nil
	case "unlock":
		return machine.NewBuiltin("unlock", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			m.locked.Store(false)
			m.mu.Unlock()
			return types.Null{}, nil
		}), nil
	case "tryLock":
		return machine.NewBuiltin("tryLock", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			ok := m.mu.TryLock()
			if ok {
				m.locked.Store(true)
			}
			return types.Bool(ok), nil
		}), nil
	case "isLocked":
		return machine.NewBuiltin("isLocked", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			return types.Bool(m.locked.Load()), nil
		}), nil
	case "withLock":
		return machine.NewBuiltin("withLock", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			if len(args) != 1 {
				return nil, &machine.NovaError{Kind: "TypeError", Message: "withLock expects 1 argument (a body function)"}
			}
			m.mu.Lock()
			m.locked.Store(true)
			defer func() {
				m.locked.Store(false)
				m.mu.Unlock()
			}()
			return machine.Call(th, args[0], nil)
		}), nil
	}
	return nil, nil
}

func (m *Mutex) AttrNames() []string {
	return []string{"lock", "unlock", "tryLock", "isLocked", "withLock"}
}

// AtomicInt is spec.md §4.7's AtomicInt value, backed by sync/atomic.Int64;
// values cross the API surface as Nova's 64-bit Int tag, untruncated.
type AtomicInt struct{ v atomic.Int64 }

func NewAtomicInt(initial int64) *AtomicInt {
	a := &AtomicInt{}
	a.v.Store(initial)
	return a
}

func (a *AtomicInt) TypeName() string  { return "AtomicInt" }
func (a *AtomicInt) String() string    { return "<atomic int>" }
func (a *AtomicInt) Truth() types.Bool { return types.True }
func (a *AtomicInt) Freeze()           {}

var _ types.Value = (*AtomicInt)(nil)
var _ types.HasAttrs = (*AtomicInt)(nil)

func (a *AtomicInt) Attr(name string) (types.Value, error) {
	switch name {
	case "get":
		return machine.NewBuiltin("get", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			return types.Int(a.v.Load()), nil
		}), nil
	case "set":
		return machine.NewBuiltin("set", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			n, err := intArg(args)
			if err != nil {
				return nil, err
			}
			a.v.Store(n)
			return types.Null{}, nil
		}), nil
	case "incrementAndGet":
		return machine.NewBuiltin("incrementAndGet", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			return types.Int(a.v.Add(1)), nil
		}), nil
	case "decrementAndGet":
		return machine.NewBuiltin("decrementAndGet", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			return types.Int(a.v.Add(-1)), nil
		}), nil
	case "addAndGet":
		return machine.NewBuiltin("addAndGet", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			n, err := intArg(args)
			if err != nil {
				return nil, err
			}
			return types.Int(a.v.Add(n)), nil
		}), nil
	case "compareAndSet":
		return machine.NewBuiltin("compareAndSet", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			expected, newVal, err := twoIntArgs("compareAndSet", args)
			if err != nil {
				return nil, err
			}
			return types.Bool(a.v.CompareAndSwap(expected, newVal)), nil
		}), nil
	}
	return nil, nil
}

func (a *AtomicInt) AttrNames() []string {
	return []string{"get", "set", "incrementAndGet", "decrementAndGet", "addAndGet", "compareAndSet"}
}

func intArg(args []types.Value) (int64, error) {
	if len(args) != 1 {
		return 0, &machine.NovaError{Kind: "TypeError", Message: "expects 1 numeric argument"}
	}
	return oneIntArg("", args[0])
}

func oneIntArg(context string, v types.Value) (int64, error) {
	switch n := v.(type) {
	case types.Int:
		return int64(n), nil
	case types.Long:
		return int64(n), nil
	}
	msg := "expects a numeric argument, got " + v.TypeName()
	if context != "" {
		msg = context + " " + msg
	}
	return 0, &machine.NovaError{Kind: "TypeError", Message: msg}
}

// twoIntArgs parses compareAndSet(expected, new)'s two numeric arguments.
func twoIntArgs(name string, args []types.Value) (int64, int64, error) {
	if len(args) != 2 {
		return 0, 0, &machine.NovaError{Kind: "TypeError", Message: name + " expects 2 arguments (expected, new)"}
	}
	expected, err := oneIntArg(name, args[0])
	if err != nil {
		return 0, 0, err
	}
	newVal, err := oneIntArg(name, args[1])
	if err != nil {
		return 0, 0, err
	}
	return expected, newVal, nil
}

// AtomicLong is spec.md §4.7's AtomicLong value, identical surface to
// AtomicInt but keeping its value in Nova's wider Long tag.
type AtomicLong struct{ v atomic.Int64 }

func NewAtomicLong(initial int64) *AtomicLong {
	a := &AtomicLong{}
	a.v.Store(initial)
	return a
}

func (a *AtomicLong) TypeName() string  { return "AtomicLong" }
func (a *AtomicLong) String() string    { return "<atomic long>" }
func (a *AtomicLong) Truth() types.Bool { return types.True }
func (a *AtomicLong) Freeze()           {}

var _ types.Value = (*AtomicLong)(nil)
var _ types.HasAttrs = (*AtomicLong)(nil)

func (a *AtomicLong) Attr(name string) (types.Value, error) {
	switch name {
	case "get":
		return machine.NewBuiltin("get", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			return types.Long(a.v.Load()), nil
		}), nil
	case "set":
		return machine.NewBuiltin("set", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			n, err := intArg(args)
			if err != nil {
				return nil, err
			}
			a.v.Store(n)
			return types.Null{}, nil
		}), nil
	case "incrementAndGet":
		return machine.NewBuiltin("incrementAndGet", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			return types.Long(a.v.Add(1)), nil
		}), nil
	case "decrementAndGet":
		return machine.NewBuiltin("decrementAndGet", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			return types.Long(a.v.Add(-1)), nil
		}), nil
	case "addAndGet":
		return machine.NewBuiltin("addAndGet", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			n, err := intArg(args)
			if err != nil {
				return nil, err
			}
			return types.Long(a.v.Add(n)), nil
		}), nil
	case "compareAndSet":
		return machine.NewBuiltin("compareAndSet", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			expected, newVal, err := twoIntArgs("compareAndSet", args)
			if err != nil {
				return nil, err
			}
			return types.Bool(a.v.CompareAndSwap(expected, newVal)), nil
		}), nil
	}
	return nil, nil
}

func (a *AtomicLong) AttrNames() []string {
	return []string{"get", "set", "incrementAndGet", "decrementAndGet", "addAndGet", "compareAndSet"}
}

// AtomicRef is spec.md §4.7's AtomicRef value: a compare-and-set box over
// any Value, guarded by a mutex since Nova values aren't amenable to
// lock-free CAS the way an int64 is.
type AtomicRef struct {
	mu sync.Mutex
	v  types.Value
}

func NewAtomicRef(initial types.Value) *AtomicRef {
	return &AtomicRef{v: initial}
}

func (a *AtomicRef) TypeName() string  { return "AtomicRef" }
func (a *AtomicRef) String() string    { return "<atomic ref>" }
func (a *AtomicRef) Truth() types.Bool { return types.True }
func (a *AtomicRef) Freeze() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.v != nil {
		a.v.Freeze()
	}
}

var _ types.Value = (*AtomicRef)(nil)
var _ types.HasAttrs = (*AtomicRef)(nil)

func (a *AtomicRef) Attr(name string) (types.Value, error) {
	switch name {
	case "get":
		return machine.NewBuiltin("get", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			a.mu.Lock()
			defer a.mu.Unlock()
			return a.v, nil
		}), nil
	case "set":
		return machine.NewBuiltin("set", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			if len(args) != 1 {
				return nil, &machine.NovaError{Kind: "TypeError", Message: "set expects 1 argument"}
			}
			a.mu.Lock()
			a.v = args[0]
			a.mu.Unlock()
			return types.Null{}, nil
		}), nil
	case "compareAndSet":
		return machine.NewBuiltin("compareAndSet", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			if len(args) != 2 {
				return nil, &machine.NovaError{Kind: "TypeError", Message: "compareAndSet expects 2 arguments"}
			}
			a.mu.Lock()
			defer a.mu.Unlock()
			if !refEqual(a.v, args[0]) {
				return types.False, nil
			}
			a.v = args[1]
			return types.True, nil
		}), nil
	}
	return nil, nil
}

func (a *AtomicRef) AttrNames() []string { return []string{"get", "set", "compareAndSet"} }

func refEqual(a, b types.Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.String() == b.String() && a.TypeName() == b.TypeName()
}

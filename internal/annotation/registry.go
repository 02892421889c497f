package annotation

import (
	"fmt"
	"sync"

	"github.com/nova-lang/nova/internal/machine"
	"github.com/nova-lang/nova/internal/types"
)

// entry is one list slot. Its identity (the pointer itself, not an index)
// is what a Handle remembers, so unregister/replace keep working even after
// other handlers for the same name are added or removed around it.
type entry struct {
	proc Processor
}

// Registry is the `map<annotationName, ordered list<Processor>>` of
// spec.md §4.6. Safe for concurrent use: class declarations in different
// structured-concurrency tasks may complete, and so invoke processors,
// concurrently.
type Registry struct {
	mu      sync.Mutex
	entries map[string][]*entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: map[string][]*entry{}}
}

// Register adds proc to the end of name's processor list and returns a
// Handle for it.
func (r *Registry) Register(name string, proc Processor) *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := &entry{proc: proc}
	r.entries[name] = append(r.entries[name], e)
	return &Handle{reg: r, name: name, current: e}
}

// Run invokes every processor registered for name, in registration order,
// against target. The first error aborts the remaining processors for this
// class (mirroring how a failed @data synthesis should stop a declaration
// rather than leave it half-synthesized).
func (r *Registry) Run(th *machine.Thread, name string, target Target, args map[string]types.Value) error {
	r.mu.Lock()
	list := append([]*entry(nil), r.entries[name]...)
	r.mu.Unlock()
	for _, e := range list {
		if err := e.proc(th, target, args); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) removeLocked(name string, e *entry) {
	list := r.entries[name]
	for i, x := range list {
		if x == e {
			r.entries[name] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Handle is the Value a registration returns (spec.md §4.6): a class
// declaration site may capture it via `val h = registerAnnotationProcessor(...)`
// and later call register()/unregister()/replace(...) on it.
type Handle struct {
	reg     *Registry
	name    string
	current *entry
}

var (
	_ types.Value    = (*Handle)(nil)
	_ types.HasAttrs = (*Handle)(nil)
)

func (h *Handle) String() string    { return "<annotation handle @" + h.name + ">" }
func (h *Handle) TypeName() string  { return "AnnotationHandle" }
func (h *Handle) Freeze()           {}
func (h *Handle) Truth() types.Bool { return types.True }

func (h *Handle) AttrNames() []string { return []string{"register", "unregister", "replace"} }

func (h *Handle) Attr(name string) (types.Value, error) {
	switch name {
	case "register":
		return machine.NewBuiltin("register", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			h.reg.mu.Lock()
			h.reg.removeLocked(h.name, h.current)
			h.reg.entries[h.name] = append(h.reg.entries[h.name], h.current)
			h.reg.mu.Unlock()
			return h, nil
		}), nil
	case "unregister":
		return machine.NewBuiltin("unregister", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			h.reg.mu.Lock()
			h.reg.removeLocked(h.name, h.current)
			h.reg.mu.Unlock()
			return types.NullValue, nil
		}), nil
	case "replace":
		return machine.NewBuiltin("replace", func(th *machine.Thread, args []types.Value) (types.Value, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("replace expects 1 argument, got %d", len(args))
			}
			h.reg.mu.Lock()
			h.current.proc = WrapCallable(args[0])
			h.reg.mu.Unlock()
			return h, nil
		}), nil
	}
	return nil, nil
}

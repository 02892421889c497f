// Package module implements spec.md §4.8's module loader: dotted-path file
// resolution, lazy loading with a NotLoaded/Loading/Loaded/Failed state
// machine, Python-style live bindings for cyclic imports, and the five
// import forms the parser recognizes (plain/aliased symbol, wildcard, and
// the two host-interop forms, which report ImportError since
// internal/hostiface deliberately carries no implementation).
//
// Grounded on the teacher's Thread.Load hook (lang/machine's module-loading
// entry point: read a file, compile it, run its top level, cache the
// result) generalized from Starlark's single load() builtin into Nova's
// richer §4.8 import grammar, and on the teacher's own State enum shape for
// expressing "currently being loaded" as distinct from "loaded" or
// "failed".
package module

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/nova-lang/nova/internal/machine"
	"github.com/nova-lang/nova/internal/security"
	"github.com/nova-lang/nova/internal/types"
	"github.com/nova-lang/nova/lang/linearize"
	"github.com/nova-lang/nova/lang/mir"
)

// State is a module's position in the lazy-load state machine.
type State int

const (
	NotLoaded State = iota
	Loading
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "Loading"
	case Loaded:
		return "Loaded"
	case Failed:
		return "Failed"
	default:
		return "NotLoaded"
	}
}

// Compiler turns one module file's source into a runnable Program. Injected
// rather than called directly so this package doesn't depend on
// lang/scanner..lang/linearize's full pipeline wiring, which package interp
// owns (and which this package is itself a dependency of, so the reverse
// import would cycle).
type Compiler func(source []byte, filename string) (*linearize.Program, error)

// ThreadFactory returns a fresh Thread preconfigured the way the embedding
// host configured its own top-level Thread (same Predeclared environment,
// ClassHost, Concurrency host, Importer, and security quotas) but with its
// own empty top-level binding table — one per loaded module file, since
// §4.8's "live Python-style" bindings are exactly that table shared out
// while still Loading.
type ThreadFactory func() *machine.Thread

type record struct {
	state    State
	bindings map[string]types.Value
	err      error
	resolved string // resolved module path ("a.b"), for diagnostics
}

// builtinModules holds every Go-native stdlib module registered by
// internal/stdlib, keyed by the dotted path a `.nova` file would otherwise
// need to exist at (e.g. "collections", "strings"). A Loader checks here
// before touching the filesystem, the "per-module registry consumed by the
// module loader" internal/stdlib's package docs describe.
var builtinModules = map[string]map[string]types.Value{}

// RegisterBuiltinModule registers a Go-native module's top-level bindings
// under path, shadowing any `.nova` file of the same name. internal/stdlib's
// Register function calls this for collections/strings/numbers/io/
// json/text/time/test/system.
func RegisterBuiltinModule(path string, bindings map[string]types.Value) {
	builtinModules[path] = bindings
}

// Loader implements machine.Importer.
type Loader struct {
	BaseDir    string
	Compile    Compiler
	NewThread  ThreadFactory
	Policy     *security.Policy // nil means host interop stays denied

	mu      sync.Mutex
	modules map[string]*record
}

// NewLoader returns a Loader resolving module paths under baseDir.
func NewLoader(baseDir string, compile Compiler, newThread ThreadFactory, policy *security.Policy) *Loader {
	return &Loader{
		BaseDir:   baseDir,
		Compile:   compile,
		NewThread: newThread,
		Policy:    policy,
		modules:   map[string]*record{},
	}
}

var _ machine.Importer = (*Loader)(nil)

// Import implements machine.Importer, dispatching on spec.Kind per spec.md
// §4.8's five import forms.
func (l *Loader) Import(th *machine.Thread, spec mir.ImportSpec) (types.Value, error) {
	switch spec.Kind {
	case "symbol", "alias":
		return l.importSymbol(spec)
	case "wildcard":
		return l.importWildcard(th, spec)
	case "java", "javaWildcard", "static":
		return nil, l.hostInteropError()
	default:
		return nil, &machine.NovaError{Kind: "ImportError", Message: "unknown import kind: " + spec.Kind}
	}
}

// hostInteropError reports why `import java ...`/`import static ...` never
// succeeds: internal/hostiface defines MethodResolver/BeanAccessor as
// interfaces only (a deliberate Non-goal — no reflection-based host bridge
// ships with this runtime), so a denied policy reports SecurityError and an
// allowing one still has nothing to bind and reports ImportError.
func (l *Loader) hostInteropError() error {
	if l.Policy != nil && !l.Policy.AllowJavaInterop {
		return &machine.NovaError{Kind: "SecurityError", Message: "Security policy denied: host interop import"}
	}
	return &machine.NovaError{Kind: "ImportError", Message: "host interop is not implemented by this runtime"}
}

// importSymbol resolves spec.Path/spec.Name for the "symbol"/"alias" kinds.
// A bare `import path` (no Name) binds the whole loaded module as a
// Namespace value. Otherwise resolution tries the whole dotted path as a
// submodule file first (binding Name to that submodule's own Namespace),
// then falls back to treating Path as the module file and Name as one of
// its top-level symbols, per spec.md §4.8's two-stage rule.
func (l *Loader) importSymbol(spec mir.ImportSpec) (types.Value, error) {
	if spec.Name == "" {
		rec, err := l.load(spec.Path)
		if err != nil {
			return nil, err
		}
		return newNamespace(rec.bindings), nil
	}
	if rec, err := l.load(spec.Path + "." + spec.Name); err == nil {
		return newNamespace(rec.bindings), nil
	}
	rec, err := l.load(spec.Path)
	if err != nil {
		return nil, err
	}
	v, ok := rec.bindings[spec.Name]
	if !ok {
		return nil, &machine.NovaError{Kind: "ImportError", Message: fmt.Sprintf("module %q has no symbol %q", spec.Path, spec.Name)}
	}
	return v, nil
}

// importWildcard merges every top-level binding of spec.Path's module into
// th's own top-level scope, the side-effecting form hir/resolve.go leaves
// with no Binding of its own (see hir.Import.Binding's doc comment).
func (l *Loader) importWildcard(th *machine.Thread, spec mir.ImportSpec) (types.Value, error) {
	rec, err := l.load(spec.Path)
	if err != nil {
		return nil, err
	}
	dst := th.TopLevelBindings()
	for name, v := range rec.bindings {
		dst[name] = v
	}
	return types.Null{}, nil
}

// resolveFile turns a dotted module path into its candidate .nova file
// under BaseDir.
func (l *Loader) resolveFile(path string) string {
	return filepath.Join(l.BaseDir, filepath.FromSlash(strings.ReplaceAll(path, ".", "/"))+".nova")
}

// load resolves and, if necessary, runs path's module file, returning its
// record. Concurrency note: the structured-concurrency runtime may import
// from multiple goroutines (a launched task importing a module for the
// first time); mu serializes state transitions but a module's own top-level
// always runs on the single Thread that first began loading it, so the
// Loading-state "live" read of its partial bindings is always of a map
// being written by exactly one goroutine.
func (l *Loader) load(path string) (*record, error) {
	l.mu.Lock()
	rec, ok := l.modules[path]
	if ok {
		l.mu.Unlock()
		switch rec.state {
		case Loaded, Loading:
			return rec, nil
		case Failed:
			return nil, rec.err
		}
	}
	if !ok {
		rec = &record{state: NotLoaded, resolved: path}
		l.modules[path] = rec
	}
	rec.state = Loading
	l.mu.Unlock()

	if bindings, ok := builtinModules[path]; ok {
		rec.bindings = bindings
		l.mu.Lock()
		rec.state = Loaded
		l.mu.Unlock()
		return rec, nil
	}

	file := l.resolveFile(path)
	src, err := os.ReadFile(file)
	if err != nil {
		ierr := &machine.NovaError{Kind: "ImportError", Message: fmt.Sprintf("cannot find module %q (tried %s)", path, file)}
		l.fail(rec, ierr)
		return nil, ierr
	}
	program, err := l.Compile(src, file)
	if err != nil {
		ierr := &machine.NovaError{Kind: "ImportError", Message: fmt.Sprintf("module %q failed to compile: %s", path, err)}
		l.fail(rec, ierr)
		return nil, ierr
	}

	modThread := l.NewThread()
	// Wire rec.bindings to the thread's own top-level map before running
	// it: a cyclic re-entrant load() during Loading must observe the same
	// map the thread is actively writing into, live, per spec.md §4.8.
	rec.bindings = modThread.TopLevelBindings()
	if _, err := modThread.RunProgram(nil, program); err != nil {
		ierr := &machine.NovaError{Kind: "ImportError", Message: fmt.Sprintf("module %q failed to evaluate: %s", path, err)}
		l.fail(rec, ierr)
		return nil, ierr
	}

	l.mu.Lock()
	rec.state = Loaded
	l.mu.Unlock()
	return rec, nil
}

func (l *Loader) fail(rec *record, err error) {
	l.mu.Lock()
	rec.state = Failed
	rec.err = err
	l.mu.Unlock()
}

// Namespace is the value a bare `import path` or a resolved submodule
// binds: a read-only view over a module's top-level bindings, attribute-
// accessed the same way any other HasAttrs value is (`ns.symbol`).
type Namespace struct {
	bindings map[string]types.Value
}

func newNamespace(bindings map[string]types.Value) *Namespace {
	return &Namespace{bindings: bindings}
}

// NewNamespace is newNamespace's exported form, used by package interp to
// build the predeclared `Dispatchers` object out of
// internal/concurrency.Host's named dispatcher values without needing its
// own attribute-dispatch Value type for what is, structurally, exactly a
// Namespace.
func NewNamespace(bindings map[string]types.Value) *Namespace {
	return newNamespace(bindings)
}

func (n *Namespace) TypeName() string  { return "Module" }
func (n *Namespace) String() string    { return "<module>" }
func (n *Namespace) Truth() types.Bool { return types.True }
func (n *Namespace) Freeze()           {}

var _ types.Value = (*Namespace)(nil)
var _ types.HasAttrs = (*Namespace)(nil)

func (n *Namespace) Attr(name string) (types.Value, error) {
	if v, ok := n.bindings[name]; ok {
		return v, nil
	}
	return nil, nil
}

func (n *Namespace) AttrNames() []string {
	names := make([]string, 0, len(n.bindings))
	for name := range n.bindings {
		names = append(names, name)
	}
	return names
}

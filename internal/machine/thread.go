// Package machine implements the interpreter that executes the flattened
// bytecode lang/linearize produces: a register-based, frame-stack virtual
// machine operating over internal/types.Value.
//
// Adapted from the teacher's lang/machine package (Thread/Frame/Call
// shape, step-counting cancellation, recursion-depth guard), generalized
// from Starlark's stack-machine opcodes to Nova's register-to-register MIR
// instruction stream.
package machine

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/nova-lang/nova/internal/types"
	"github.com/nova-lang/nova/lang/linearize"
	"github.com/nova-lang/nova/lang/mir"
)

// Thread carries the execution state and limits for one logical strand of
// evaluation. A structured-concurrency scope spawns a new Thread per task
// (internal/concurrency owns that), each sharing the parent's Predeclared
// environment and security policy but with its own call stack.
type Thread struct {
	// Name optionally identifies the thread for diagnostics.
	Name string

	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	// MaxSteps bounds the number of executed instructions before the
	// thread is cancelled with a QuotaExceededError. <= 0 means no limit.
	MaxSteps int

	// MaxCallStackDepth bounds call nesting before a StackOverflowError is
	// raised. <= 0 means no limit.
	MaxCallStackDepth int

	// DisableRecursion rejects a function calling itself (directly or by
	// way of another closure over the same code), a conservative
	// untrusted-code safety check mirroring the teacher's
	// Thread.DisableRecursion.
	DisableRecursion bool

	// Capability flags mirroring internal/security.Policy's fields of the
	// same name, copied onto the Thread by Policy.ApplyTo rather than held
	// as a *security.Policy reference (internal/security already imports
	// this package to apply them, so the reverse reference would cycle).
	// internal/stdlib's io/file/network/exec-touching builtins check these
	// directly on the calling Thread at the point of use.
	AllowStdio         bool
	AllowFileIO        bool
	AllowNetwork       bool
	AllowExec          bool
	AllowJavaInterop   bool
	AllowSetAccessible bool

	// Predeclared holds the host/stdlib bindings resolved through
	// lang/hir's Predeclared-without-Decl scope (OpLoadPredeclared).
	Predeclared map[string]types.Value

	// ClassHost handles OpDefineClass and method-resolution-order lookups
	// on a class/object value; nil until internal/class registers one.
	ClassHost ClassHost

	// Concurrency handles OpAsync/OpAwait/OpLaunch/OpScopeEnter/
	// OpScopeExit; nil until internal/concurrency registers one.
	Concurrency ConcurrencyHost

	// Importer resolves OpImport; nil until internal/module registers one.
	Importer Importer

	ctx       context.Context
	ctxCancel context.CancelFunc
	cancelled atomic.Bool

	callStack []*Frame
	steps     uint64

	regCache map[*linearize.Function]int

	// topLevelBindings backs OpLoadTopLevel/OpStoreTopLevel: a flat
	// per-Thread namespace for the running module's top-level var/val
	// declarations. Multi-module programs need one of these per loaded
	// module rather than one per Thread; internal/module is expected to run
	// each imported module's top level in its own Thread until that's
	// wired, so this single map is enough for one module at a time.
	topLevelBindings map[string]types.Value

	// extensions backs the receiver-type-name fallback tier of execAttr's
	// method resolution order (spec.md §4.5): `fun T.m(...)` functions,
	// keyed by T then by method name. Populated from the running Program's
	// own linearize.Program.Extensions by RunProgram.
	extensions map[string]map[string]*types.Function

	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader

	stdinReader *bufio.Reader
}

// Out returns the thread's resolved stdout writer (the io.Writer init()
// falls back to os.Stdout for when the embedder leaves Stdout nil).
func (th *Thread) Out() io.Writer { return th.stdout }

// ErrOut returns the thread's resolved stderr writer, named to avoid
// colliding with the exported Stderr field.
func (th *Thread) ErrOut() io.Writer { return th.stderr }

// ReadLine reads one newline-terminated line from the thread's resolved
// stdin, trimming the terminator. internal/stdlib's io.readLine builtin is
// the only caller; the *bufio.Reader is created and kept on first use so
// repeated readLine calls within one script share buffering correctly
// instead of re-wrapping (and losing read-ahead data from) th.stdin every
// call.
func (th *Thread) ReadLine() (string, error) {
	if th.stdinReader == nil {
		th.stdinReader = bufio.NewReader(th.stdin)
	}
	line, err := th.stdinReader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ClassHost is implemented by internal/class. internal/machine owns no
// knowledge of class/object representation; it only executes OpDefineClass
// and dispatches OpCall to whatever Callable a class or bound method
// produces.
type ClassHost interface {
	// DefineClass registers the class described by info. annoArgs holds the
	// resolved Values of every annotation-argument expression
	// lang/mir/build.go's emitClassDecl evaluated into the OpDefineClass
	// instruction's own Args (in annotation-then-arg order, concatenated
	// across every annotation on the declaration), so internal/class can
	// pair them back up against info.Annotations[i].ArgNames without
	// internal/machine needing to know anything about annotation processors
	// itself.
	DefineClass(th *Thread, info *linearize.ClassInfo, annoArgs []types.Value) (types.Value, error)
}

// ConcurrencyHost is implemented by internal/concurrency.
type ConcurrencyHost interface {
	Async(th *Thread, body *types.Function, dispatcher types.Value) (types.Value, error)
	Await(th *Thread, v types.Value) (types.Value, error)
	Launch(th *Thread, body *types.Function, dispatcher types.Value) (types.Value, error)
	ScopeEnter(th *Thread, supervisor bool) (types.Value, error)
	ScopeExit(th *Thread, scope types.Value, bodyResult types.Value, dispatcher types.Value) (types.Value, error)
}

// Importer is implemented by internal/module.
type Importer interface {
	Import(th *Thread, spec mir.ImportSpec) (types.Value, error)
}

func (th *Thread) init() {
	if th.regCache == nil {
		th.regCache = map[*linearize.Function]int{}
	}
	if th.Stdout != nil {
		th.stdout = th.Stdout
	} else {
		th.stdout = os.Stdout
	}
	if th.Stderr != nil {
		th.stderr = th.Stderr
	} else {
		th.stderr = os.Stderr
	}
	if th.Stdin != nil {
		th.stdin = th.Stdin
	} else {
		th.stdin = os.Stdin
	}
	if th.ctx == nil {
		th.ctx, th.ctxCancel = context.WithCancel(context.Background())
	}
	go func(ctx context.Context) {
		<-ctx.Done()
		th.cancelled.Store(true)
	}(th.ctx)
}

// NewChildThread returns a Thread configured like th (shared Predeclared
// environment, ClassHost, Concurrency host, Importer, quota settings, and
// stdio) but with its own call stack and a cancellation context derived
// from th's, ready to run on its own logical strand of execution.
// internal/concurrency uses this to give every async/launch task its own
// Thread — spec.md §5's "async/launch post tasks to a worker pool" needs a
// call stack per task, since two tasks running concurrently must not share
// one Frame stack.
func (th *Thread) NewChildThread() *Thread {
	child := &Thread{
		Name:              th.Name,
		Stdout:            th.Stdout,
		Stderr:            th.Stderr,
		Stdin:             th.Stdin,
		MaxSteps:           th.MaxSteps,
		MaxCallStackDepth:  th.MaxCallStackDepth,
		DisableRecursion:   th.DisableRecursion,
		AllowStdio:         th.AllowStdio,
		AllowFileIO:        th.AllowFileIO,
		AllowNetwork:       th.AllowNetwork,
		AllowExec:          th.AllowExec,
		AllowJavaInterop:   th.AllowJavaInterop,
		AllowSetAccessible: th.AllowSetAccessible,
		Predeclared:        th.Predeclared,
		ClassHost:         th.ClassHost,
		Concurrency:       th.Concurrency,
		Importer:          th.Importer,
		topLevelBindings:  th.topLevelBindings,
		extensions:        th.extensions,
	}
	if th.ctx != nil {
		child.ctx, child.ctxCancel = context.WithCancel(th.ctx)
	}
	child.init()
	return child
}

// RunFunction invokes fn with args on th and returns its result. The entry
// point internal/concurrency uses to actually execute an async/launch task
// body on a NewChildThread result.
func (th *Thread) RunFunction(fn types.Value, args []types.Value) (types.Value, error) {
	return Call(th, fn, args)
}

// RunProgram executes a linearized Program's top-level function and returns
// its result.
func (th *Thread) RunProgram(ctx context.Context, p *linearize.Program) (types.Value, error) {
	if ctx != nil {
		th.ctx, th.ctxCancel = context.WithCancel(ctx)
	}
	th.init()
	if len(p.Extensions) > 0 {
		th.extensions = make(map[string]map[string]*types.Function, len(p.Extensions))
		for recv, fns := range p.Extensions {
			byName := make(map[string]*types.Function, len(fns))
			for _, fn := range fns {
				byName[fn.Name] = &types.Function{Code: fn}
			}
			th.extensions[recv] = byName
		}
	}
	top := &types.Function{Code: p.TopLevel}
	return Call(th, top, nil)
}

// Lookup resolves name the same way OpLoadTopLevel/OpLoadPredeclared/
// OpLoadUniversal do, in that order, for code that needs to resolve a bare
// name outside of a compiled instruction stream — internal/class uses this
// to turn a ClassInfo's SuperName/Interfaces strings back into the Class
// values they name (superclass declarations run strictly before their
// subclass, so the name is always already bound by the time OpDefineClass
// for the subclass executes).
func (th *Thread) Lookup(name string) (types.Value, bool) {
	if v, ok := th.topLevel()[name]; ok {
		return v, true
	}
	if v, ok := th.Predeclared[name]; ok {
		return v, true
	}
	v, ok := Universe[name]
	return v, ok
}

// TopLevelBindings returns this thread's top-level binding table, the same
// map OpLoadTopLevel/OpStoreTopLevel read and write. internal/module hands
// this very map out to a cyclic importer while the module it belongs to is
// still Loading — Go maps being reference types makes that the natural way
// to give spec.md §4.8's "live Python-style" partial bindings without a
// second layer of indirection.
func (th *Thread) TopLevelBindings() map[string]types.Value {
	return th.topLevel()
}

// extensionMethod looks up a `fun typeName.name(...)` extension function,
// the fallback tier of execAttr's method resolution order.
func (th *Thread) extensionMethod(typeName, name string) (*types.Function, bool) {
	byName, ok := th.extensions[typeName]
	if !ok {
		return nil, false
	}
	fn, ok := byName[name]
	return fn, ok
}

// Cancel stops the thread at its next instruction boundary. Sets the
// cancelled flag directly (not just ctxCancel) so the effect is observable
// by the very next step() check regardless of how quickly the ctx.Done()
// watcher goroutine gets scheduled. internal/concurrency's withTimeout
// calls it on a child thread whose deadline expired; Scope.cancel() does
// not call it.
func (th *Thread) Cancel() {
	th.cancelled.Store(true)
	if th.ctxCancel != nil {
		th.ctxCancel()
	}
}

func (th *Thread) checkCancelled() error {
	if th.cancelled.Load() {
		return &NovaError{Kind: "CancellationError", Message: "task was cancelled"}
	}
	return nil
}

// step counts one executed instruction and fails with QuotaExceededError
// once MaxSteps is exceeded, the cooperative checkpoint spec.md's security
// policy relies on to bound a runaway script (checked once per instruction
// rather than only at loop back-edges, a stricter version of the same
// mechanism).
func (th *Thread) step() error {
	th.steps++
	if th.MaxSteps > 0 && th.steps > uint64(th.MaxSteps) {
		return &NovaError{Kind: "QuotaExceededError", Message: "maximum step count exceeded"}
	}
	return nil
}

// regCountFor returns the cached register-file size for fn, computing and
// storing it on first use so repeated calls to the same function (a hot
// loop body, a recursive function) don't rescan its instruction stream
// every activation.
func (th *Thread) regCountFor(fn *linearize.Function) int {
	if n, ok := th.regCache[fn]; ok {
		return n
	}
	n := regCount(fn)
	th.regCache[fn] = n
	return n
}

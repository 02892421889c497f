package interp

import (
	"github.com/nova-lang/nova/internal/machine"
	"github.com/nova-lang/nova/lang/hir"
	"github.com/nova-lang/nova/lang/linearize"
	"github.com/nova-lang/nova/lang/mir"
	"github.com/nova-lang/nova/lang/parser"
)

// precompileModuleWith runs source through scan/parse/lower/resolve/build/
// optimize against an explicit predeclared-name set, stopping one stage
// short of linearize.Linearize so PrecompileToMir can hand the host a
// *mir.Module directly. EvalRepl passes its own, growing set (see
// replPredeclaredSet in eval.go); every other caller passes
// ip.predeclaredSet via precompileModule.
func (ip *Interpreter) precompileModuleWith(source []byte, filename string, predeclared map[string]bool) (*mir.Module, error) {
	chunk, err := parser.ParseChunk(filename, source)
	if err != nil {
		return nil, &machine.NovaError{Kind: "SyntaxError", Message: err.Error()}
	}
	prog := hir.Lower(chunk)
	hir.Resolve(prog, predeclared)
	mod := mir.Build(prog)
	ip.pipeline.Run(mod)
	return mod, nil
}

func (ip *Interpreter) precompileModule(source []byte, filename string) (*mir.Module, error) {
	ip.mu.Lock()
	predeclared := ip.predeclaredSet
	ip.mu.Unlock()
	return ip.precompileModuleWith(source, filename, predeclared)
}

// compileModule implements module.Compiler: the closure internal/module's
// Loader calls to turn one imported `.nova` file's source into a runnable
// Program, sharing the exact same pipeline and predeclared-name set a
// top-level Eval call compiles with.
func (ip *Interpreter) compileModule(source []byte, filename string) (*linearize.Program, error) {
	mod, err := ip.precompileModule(source, filename)
	if err != nil {
		return nil, err
	}
	return linearize.Linearize(mod), nil
}

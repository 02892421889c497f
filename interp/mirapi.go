package interp

import (
	"github.com/nova-lang/nova/internal/types"
	"github.com/nova-lang/nova/lang/linearize"
	"github.com/nova-lang/nova/lang/mir"
)

// MirModule wraps a compiled-but-not-linearized module so a host can hold
// onto, inspect, or cache the MIR between PrecompileToMir and ExecuteMir
// calls — spec.md §6's "precompileToMir(source) -> MirModule",
// "executeMir(MirModule) -> Value" pair, useful for a host that wants to
// compile once and run many times without re-running the optimizer.
type MirModule struct {
	mod *mir.Module
}

// Name returns the compiled module's name (its origin filename, as given
// to PrecompileToMir).
func (m *MirModule) Name() string { return m.mod.Name }

// FunctionNames returns every function's name in the compiled module,
// top-level first, for a host (e.g. the `nova mir` CLI command) that wants
// to enumerate what got compiled without reaching into lang/mir itself.
func (m *MirModule) FunctionNames() []string {
	names := []string{m.mod.TopLevel.Name}
	for _, fn := range m.mod.Functions {
		names = append(names, fn.Name)
	}
	return names
}

// PrecompileToMir compiles source through lowering, resolution, MIR
// construction, and the default optimization pipeline, without linearizing
// or running it.
func (ip *Interpreter) PrecompileToMir(source []byte, filename string) (*MirModule, error) {
	mod, err := ip.precompileModule(source, filename)
	if err != nil {
		return nil, err
	}
	return &MirModule{mod: mod}, nil
}

// ExecuteMir linearizes a previously precompiled module and runs it against
// a fresh top-level Thread, the same environment Eval would give the
// equivalent source.
func (ip *Interpreter) ExecuteMir(m *MirModule) (types.Value, error) {
	program := linearize.Linearize(m.mod)
	th := ip.newThread()
	ctx, cancel := ip.execContext()
	defer cancel()
	return th.RunProgram(ctx, program)
}

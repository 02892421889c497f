// Package security implements the capability-gate policy of spec.md §4.9: a
// plain data object carrying boolean capability flags plus numeric quotas,
// three presets (strict/standard/unrestricted), and the boundary-check
// helper every gated built-in (internal/stdlib, internal/module's `import
// java`, internal/concurrency's dispatcher selection) calls before doing
// anything a policy might deny.
//
// The teacher has no analogue for a capability policy (Starlark embeds
// trust entirely in the host), so this package is new; it is grounded
// instead on the *shape* the teacher already uses for its own quota knobs —
// internal/machine.Thread's MaxSteps/MaxCallStackDepth/DisableRecursion,
// themselves adapted from the teacher's lang/machine.Thread fields of the
// same names — generalized into one object threaded through Thread the same
// way.
package security

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

// Policy is the capability object of spec.md §4.9. A zero Policy denies
// every capability and allows no quota (all limits are 0, "0 means
// unlimited" per spec — so a zero Policy is NOT "unrestricted"; use
// Unrestricted() for that preset explicitly). The `env` tags back FromEnv,
// letting a host override individual fields of whatever preset or file it
// started from via environment variables without writing its own parsing.
type Policy struct {
	AllowJavaInterop   bool `env:"NOVA_ALLOW_JAVA_INTEROP"`
	AllowSetAccessible bool `env:"NOVA_ALLOW_SET_ACCESSIBLE"`
	AllowStdio         bool `env:"NOVA_ALLOW_STDIO"`
	AllowFileIO        bool `env:"NOVA_ALLOW_FILE_IO"`
	AllowNetwork       bool `env:"NOVA_ALLOW_NETWORK"`
	AllowExec          bool `env:"NOVA_ALLOW_EXEC"`

	// MaxExecutionTimeMs bounds wall-clock evaluation time. 0 means
	// unlimited.
	MaxExecutionTimeMs int `env:"NOVA_MAX_EXECUTION_TIME_MS"`
	// MaxRecursionDepth bounds call-stack nesting. 0 means unlimited.
	MaxRecursionDepth int `env:"NOVA_MAX_RECURSION_DEPTH"`
	// MaxLoopIterations bounds total executed instructions (the cooperative
	// checkpoint spec.md's security policy relies on to stop a runaway
	// script, enforced once per instruction by internal/machine.Thread.step
	// rather than only at loop back-edges — a stricter version of the same
	// mechanism). 0 means unlimited.
	MaxLoopIterations int `env:"NOVA_MAX_LOOP_ITERATIONS"`
	// MaxAsyncTasks bounds the number of concurrently in-flight async/launch
	// tasks a single structured-concurrency Host will admit. 0 means
	// unlimited.
	MaxAsyncTasks int `env:"NOVA_MAX_ASYNC_TASKS"`
}

// Strict denies every capability and caps quotas tightly, for running
// fully untrusted source.
func Strict() *Policy {
	return &Policy{
		MaxExecutionTimeMs: 5000,
		MaxRecursionDepth:  200,
		MaxLoopIterations:  1_000_000,
		MaxAsyncTasks:      16,
	}
}

// Standard allows stdio and in-process concurrency but keeps file/network/
// exec/host-interop capabilities denied and quotas generous rather than
// unlimited — the preset a REPL or script-mode CLI session runs under by
// default.
func Standard() *Policy {
	return &Policy{
		AllowStdio:         true,
		MaxExecutionTimeMs: 60_000,
		MaxRecursionDepth:  2000,
		MaxLoopIterations:  100_000_000,
		MaxAsyncTasks:      256,
	}
}

// Unrestricted grants every capability and leaves every quota unlimited (0),
// for a trusted embedding (the CLI's own tooling, test harnesses).
func Unrestricted() *Policy {
	return &Policy{
		AllowJavaInterop:   true,
		AllowSetAccessible: true,
		AllowStdio:         true,
		AllowFileIO:        true,
		AllowNetwork:       true,
		AllowExec:          true,
	}
}

// PresetByName resolves one of the three named presets spec.md §4.9 lists,
// for CLI selection (`--policy strict`). An unrecognized name returns
// Standard(), the safer default
// between "crash the embedder" and "silently run unrestricted".
func PresetByName(name string) *Policy {
	switch name {
	case "strict":
		return Strict()
	case "unrestricted":
		return Unrestricted()
	default:
		return Standard()
	}
}

// LoadFile reads a custom policy preset from a YAML file (the `--policy
// <file>.yaml` form of spec.md §4.9's CLI selection, alongside the three
// named presets PresetByName resolves). Kept on gopkg.in/yaml.v3
// specifically, distinct from internal/stdlib's text module (which wraps
// goccy/go-yaml for in-script `toYaml`/`fromYaml`), so a host loading its
// own trust configuration at startup never shares a decoder instance with
// untrusted script data.
func LoadFile(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading security policy file: %w", err)
	}
	p := &Policy{}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parsing security policy file %s: %w", path, err)
	}
	return p, nil
}

// FromEnv overrides p's fields in place from the `env`-tagged NOVA_*
// environment variables, using github.com/caarlos0/env/v6 the same way the
// teacher's own build tooling uses it for its release-config structs: a
// plain struct walk driven entirely by tags, with no variable left unset by
// the environment touched. Call against a preset (Strict/Standard/
// Unrestricted) or a freshly LoadFile-d policy to let deployment
// environment variables punch through individual fields without the host
// writing its own os.Getenv parsing.
func FromEnv(p *Policy) error {
	if err := env.Parse(p); err != nil {
		return fmt.Errorf("parsing security policy from environment: %w", err)
	}
	return nil
}

// DeniedError is returned by Check when policy denies action. It carries a
// Kind of "SecurityError" so internal/machine's error-kind taxonomy (and any
// `catch (e: SecurityError)`) recognizes it without internal/security
// needing to import internal/machine's NovaError type directly — the same
// Target/Processor-style decoupling internal/annotation uses so two layers
// don't have to import each other.
type DeniedError struct{ Action string }

func (e *DeniedError) Error() string {
	return fmt.Sprintf("Security policy denied: %s", e.Action)
}

// Check reports a *DeniedError naming action when allowed is false, else nil.
// Every policy-gated built-in calls this at its boundary rather than
// inspecting the Policy's fields directly, so the message format
// ("Security policy denied: <action>", matching spec.md §4.9 verbatim) stays
// in one place.
func Check(allowed bool, action string) error {
	if allowed {
		return nil
	}
	return &DeniedError{Action: action}
}

// CheckQuota reports a *DeniedError naming action when limit is positive and
// used has already reached or exceeded it. limit <= 0 means unlimited, per
// spec.md §4.9.
func CheckQuota(used, limit int, action string) error {
	if limit <= 0 || used < limit {
		return nil
	}
	return &DeniedError{Action: action}
}

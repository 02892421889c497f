package stdlib

import (
	"time"

	"github.com/nova-lang/nova/internal/machine"
	"github.com/nova-lang/nova/internal/types"
)

// timeModule implements `import time.*`: wall-clock reads, a cooperative
// sleep, and RFC3339 formatting over the standard library's time package —
// Nova has no dedicated Duration/Instant value tag, so times are Long epoch
// milliseconds the same way spec.md's numeric-first value model treats
// every other quantity.
func timeModule() map[string]types.Value {
	return map[string]types.Value{
		"nowMillis": builtin("nowMillis", bNowMillis),
		"sleep":     builtin("sleep", bSleep),
		"format":    builtin("format", bTimeFormat),
		"parse":     builtin("parse", bTimeParse),
	}
}

func bNowMillis(th *machine.Thread, args []types.Value) (types.Value, error) {
	return types.Long(time.Now().UnixMilli()), nil
}

// bSleep blocks the calling Thread for the given millisecond count. Checked
// against AllowExec is wrong (sleeping isn't process execution) so this is
// ungated; a runaway sleep is instead bounded by the caller's own
// MaxExecutionTimeMs wall-clock context, same as every other blocking call.
func bSleep(th *machine.Thread, args []types.Value) (types.Value, error) {
	ms, err := intArg(args)
	if err != nil {
		return nil, err
	}
	if ms < 0 {
		return nil, &machine.NovaError{Kind: "TypeError", Message: "sleep duration must be non-negative"}
	}
	time.Sleep(time.Duration(ms) * time.Millisecond)
	return types.Null{}, nil
}

func bTimeFormat(th *machine.Thread, args []types.Value) (types.Value, error) {
	if len(args) != 1 {
		return nil, argErr("format", 1, len(args))
	}
	ms, err := intArg(args)
	if err != nil {
		return nil, err
	}
	return types.String(time.UnixMilli(ms).UTC().Format(time.RFC3339)), nil
}

func bTimeParse(th *machine.Thread, args []types.Value) (types.Value, error) {
	s, err := strArg("parse", args, 0)
	if err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, &machine.NovaError{Kind: "TypeError", Message: "parse: " + err.Error()}
	}
	return types.Long(t.UnixMilli()), nil
}

package interp

import (
	"github.com/nova-lang/nova/internal/class"
	"github.com/nova-lang/nova/internal/machine"
	"github.com/nova-lang/nova/internal/types"
)

// Instantiate implements spec.md §6's
// `instantiate(class, positionalArgs, namedArgs) -> Value`: a host-side
// equivalent of calling a class value from script. class.Class.CallInternal
// only accepts positional arguments (a script call site instead packs its
// named arguments into one trailing Map, see internal/machine's execCall),
// so this reorders namedArgs into positional slots using the
// class's own constructor field order before calling through.
func (ip *Interpreter) Instantiate(classVal types.Value, positionalArgs []types.Value, namedArgs map[string]types.Value) (types.Value, error) {
	cls, ok := classVal.(*class.Class)
	if !ok {
		return nil, &machine.NovaError{Kind: "TypeError", Message: classVal.TypeName() + " is not a class"}
	}

	args, err := reorderArgs(cls, positionalArgs, namedArgs)
	if err != nil {
		return nil, err
	}

	th := ip.newThread()
	return cls.CallInternal(th, args)
}

// reorderArgs fills any constructor fields past len(positionalArgs) from
// namedArgs, in field-declaration order, erroring if a field is named by
// neither.
func reorderArgs(cls *class.Class, positionalArgs []types.Value, namedArgs map[string]types.Value) ([]types.Value, error) {
	fields := cls.Fields()
	if len(positionalArgs) > len(fields) {
		return nil, &machine.NovaError{Kind: "TypeError", Message: "too many positional arguments for class constructor"}
	}

	args := make([]types.Value, len(positionalArgs), len(fields))
	copy(args, positionalArgs)

	for _, f := range fields[len(positionalArgs):] {
		v, ok := namedArgs[f.Name]
		if !ok {
			return nil, &machine.NovaError{Kind: "TypeError", Message: "missing constructor argument: " + f.Name}
		}
		args = append(args, v)
	}
	return args, nil
}

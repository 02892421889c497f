package annotation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nova-lang/nova/internal/machine"
	"github.com/nova-lang/nova/internal/types"
)

type fakeTarget struct{ name string }

func (f *fakeTarget) String() string                           { return "<class " + f.name + ">" }
func (f *fakeTarget) TypeName() string                         { return "Class" }
func (f *fakeTarget) Freeze()                                  {}
func (f *fakeTarget) Truth() types.Bool                        { return types.True }
func (f *fakeTarget) Name() string                             { return f.name }
func (f *fakeTarget) Fields() []FieldInfo                      { return nil }
func (f *fakeTarget) Methods() []MethodInfo                    { return nil }
func (f *fakeTarget) Annotations() []AnnotationInfo             { return nil }
func (f *fakeTarget) SetStaticField(name string, v types.Value) error { return nil }

func TestRegistryOrdering(t *testing.T) {
	th := &machine.Thread{}
	r := NewRegistry()
	var order []string
	mk := func(tag string) Processor {
		return func(th *machine.Thread, target Target, args map[string]types.Value) error {
			order = append(order, tag)
			return nil
		}
	}
	r.Register("data", mk("a"))
	r.Register("data", mk("b"))
	r.Register("data", mk("c"))

	require.NoError(t, r.Run(th, "data", &fakeTarget{name: "Point"}, nil))
	require.Equal(t, []string{"a", "b", "c"}, order)
}

func TestHandleUnregisterRemovesOnlyItsOwnEntry(t *testing.T) {
	th := &machine.Thread{}
	r := NewRegistry()
	var order []string
	mk := func(tag string) Processor {
		return func(th *machine.Thread, target Target, args map[string]types.Value) error {
			order = append(order, tag)
			return nil
		}
	}
	r.Register("data", mk("a"))
	hb := r.Register("data", mk("b"))
	r.Register("data", mk("c"))

	unregister, err := hb.Attr("unregister")
	require.NoError(t, err)
	_, err = machine.Call(th, unregister, nil)
	require.NoError(t, err)

	require.NoError(t, r.Run(th, "data", &fakeTarget{}, nil))
	require.Equal(t, []string{"a", "c"}, order)
}

func TestHandleRegisterReappendsToEnd(t *testing.T) {
	th := &machine.Thread{}
	r := NewRegistry()
	var order []string
	mk := func(tag string) Processor {
		return func(th *machine.Thread, target Target, args map[string]types.Value) error {
			order = append(order, tag)
			return nil
		}
	}
	ha := r.Register("data", mk("a"))
	r.Register("data", mk("b"))

	unregister, _ := ha.Attr("unregister")
	_, err := machine.Call(th, unregister, nil)
	require.NoError(t, err)
	register, _ := ha.Attr("register")
	_, err = machine.Call(th, register, nil)
	require.NoError(t, err)

	require.NoError(t, r.Run(th, "data", &fakeTarget{}, nil))
	require.Equal(t, []string{"b", "a"}, order)
}

func TestHandleReplacePreservesOrder(t *testing.T) {
	th := &machine.Thread{}
	r := NewRegistry()
	var order []string
	mk := func(tag string) Processor {
		return func(th *machine.Thread, target Target, args map[string]types.Value) error {
			order = append(order, tag)
			return nil
		}
	}
	r.Register("data", mk("a"))
	hb := r.Register("data", mk("b"))
	r.Register("data", mk("c"))

	replace, _ := hb.Attr("replace")
	replacement := machine.NewBuiltin("replacement", func(th *machine.Thread, args []types.Value) (types.Value, error) {
		order = append(order, "b2")
		return types.NullValue, nil
	})
	_, err := machine.Call(th, replace, []types.Value{replacement})
	require.NoError(t, err)

	require.NoError(t, r.Run(th, "data", &fakeTarget{}, nil))
	require.Equal(t, []string{"a", "b2", "c"}, order)
}

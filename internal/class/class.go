// Package class implements Nova's class/object model (spec.md §4.5): the
// Class Value a `class`/`interface`/`object`/`annotation class` declaration
// registers, the Object instances it produces, method-resolution-order
// dispatch, and the @data/@builder annotation processors built on top of
// internal/annotation's registry.
//
// Grounded on the *shape* of the teacher's internal/types.Function/Module
// (a lightweight value with behavior attached by name lookup rather than a
// vtable) and on lang/resolver's block/binding bookkeeping for telling
// fields apart from methods at definition time; the class/object model
// itself has no teacher analogue (Starlark has no classes), so the MRO walk
// and synthesis logic are new, following spec.md §4.5-§4.6 directly.
package class

import (
	"fmt"
	"strings"

	"github.com/nova-lang/nova/internal/annotation"
	"github.com/nova-lang/nova/internal/machine"
	"github.com/nova-lang/nova/internal/types"
	"github.com/nova-lang/nova/lang/linearize"
)

// Class is the Value a class/interface/object/annotation-class declaration
// registers. Calling it (when it isn't an interface or annotation class)
// instantiates it.
type Class struct {
	info       *linearize.ClassInfo
	registry   *annotation.Registry
	super      *Class   // resolved superclass, nil if none or host-backed (out of scope)
	interfaces []*Class // resolved declared interfaces that happen to be native Classes

	methods map[string]*methodEntry // this class's own methods, by bare name

	staticFields map[string]*types.Cell
	staticOrder  []string

	annotations []annotation.AnnotationInfo
}

// nativeMethod is the Go-native shape a synthesized @data/@builder method
// (equals, toString, hashCode, copy, componentN, builder, build, the
// fluent per-field setters) takes: an ordinary Go closure rather than
// compiled bytecode, called directly instead of through machine.Call's
// *types.Function path.
type nativeMethod func(th *machine.Thread, receiver types.Value, args []types.Value) (types.Value, error)

// methodEntry is one resolved method, either bytecode-backed (compiled from
// Nova source) or native (synthesized by a built-in annotation processor).
// bind produces the Callable Value a receiver's Attr should return.
type methodEntry struct {
	isStatic bool
	bind     func(receiver types.Value) types.Value
}

func bytecodeMethod(fn *linearize.Function) *methodEntry {
	return &methodEntry{
		isStatic: fn.IsStatic,
		bind: func(receiver types.Value) types.Value {
			return (&types.Function{Code: fn}).Bind(receiver)
		},
	}
}

func nativeMethodEntry(name string, isStatic bool, fn nativeMethod) *methodEntry {
	return &methodEntry{
		isStatic: isStatic,
		bind: func(receiver types.Value) types.Value {
			return machine.NewBuiltin(name, func(th *machine.Thread, args []types.Value) (types.Value, error) {
				return fn(th, receiver, args)
			})
		},
	}
}

// addMethod installs a native method on c, overwriting any existing entry
// of the same name — used by @data/@builder synthesis, which only ever
// runs once the class's own bytecode methods are already in place, so a
// user-declared method of the same name (e.g. a hand-written equals) is
// clobbered. Built-in processors check for that case themselves before
// calling addMethod (see data.go), matching spec.md's silence on the
// question by erring toward "a class's own declaration wins."
func (c *Class) addMethod(name string, isStatic bool, fn nativeMethod) {
	c.methods[name] = nativeMethodEntry(name, isStatic, fn)
}

var (
	_ types.Value       = (*Class)(nil)
	_ types.HasAttrs    = (*Class)(nil)
	_ types.HasSetField = (*Class)(nil)
	_ types.HasIsA      = (*Class)(nil)
	_ machine.Callable  = (*Class)(nil)
	_ annotation.Target = (*Class)(nil)
)

// Host wires internal/class into a machine.Thread as its ClassHost, sharing
// one annotation.Registry across every class declaration that Thread runs.
// Built-in data/builder processors are registered into reg once, by
// RegisterBuiltins, normally at interpreter setup time.
type Host struct {
	Registry *annotation.Registry
}

// NewHost returns a Host with the built-in data/builder processors already
// registered.
func NewHost() *Host {
	reg := annotation.NewRegistry()
	RegisterBuiltins(reg)
	return &Host{Registry: reg}
}

var _ machine.ClassHost = (*Host)(nil)

// DefineClass implements machine.ClassHost: builds the Class value, resolves
// its superclass/interfaces by name, runs StaticInit, then invokes every
// annotation processor registered for each `@name` the declaration carries.
// For a Kind "object" declaration it additionally instantiates the single
// instance immediately and returns that instance, rather than the Class, to
// match the binding a later `ObjectName` reference expects.
func (h *Host) DefineClass(th *machine.Thread, info *linearize.ClassInfo, annoArgs []types.Value) (types.Value, error) {
	c := &Class{
		info:         info,
		registry:     h.Registry,
		methods:      map[string]*methodEntry{},
		staticFields: map[string]*types.Cell{},
	}

	if info.SuperName != "" {
		if sup, ok := th.Lookup(info.SuperName); ok {
			if supClass, ok := sup.(*Class); ok {
				c.super = supClass
			}
		}
	}
	for _, name := range info.Interfaces {
		if iv, ok := th.Lookup(name); ok {
			if ic, ok := iv.(*Class); ok {
				c.interfaces = append(c.interfaces, ic)
			}
		}
	}

	for _, m := range info.Methods {
		c.methods[bareMethodName(info.Name, m.Name)] = bytecodeMethod(m)
	}

	for _, f := range info.StaticFields {
		c.staticFields[f.Name] = &types.Cell{V: types.NullValue}
		c.staticOrder = append(c.staticOrder, f.Name)
	}
	if info.StaticInit != nil {
		if _, err := machine.Call(th, (&types.Function{Code: info.StaticInit}).Bind(c), nil); err != nil {
			return nil, err
		}
	}

	// Annotation arguments were flattened across every annotation on the
	// declaration, in annotation-then-arg order, into the OpDefineClass
	// instruction's own Args; walk info.Annotations to pick each one's slice
	// back out by ArgNames length, matching the order build.go's
	// emitClassDecl produced them in.
	off := 0
	for _, a := range info.Annotations {
		argVals := annoArgs[off : off+len(a.ArgNames)]
		off += len(a.ArgNames)
		args := make(map[string]types.Value, len(a.ArgNames))
		for i, name := range a.ArgNames {
			if name == "" {
				name = fmt.Sprintf("arg%d", i)
			}
			args[name] = argVals[i]
		}
		c.annotations = append(c.annotations, annotation.AnnotationInfo{Name: a.Name, Args: args})
	}

	for _, a := range c.annotations {
		if err := h.Registry.Run(th, a.Name, c, a.Args); err != nil {
			return nil, err
		}
	}

	if info.Kind == "object" {
		return c.instantiate(th, nil)
	}
	return c, nil
}

// bareMethodName strips the "ClassName." prefix build.go's buildFunc gives
// every method's Code.Name, to recover the name Nova source declared it
// under.
func bareMethodName(className, qualified string) string {
	return strings.TrimPrefix(qualified, className+".")
}

func (c *Class) String() string   { return "<class " + c.info.Name + ">" }
func (c *Class) TypeName() string { return "Class" }
func (c *Class) Freeze()          {} // classes are shared, immutable-enough declarations; nothing to freeze
func (c *Class) Truth() types.Bool { return types.True }
func (c *Class) Name() string     { return c.info.Name }

// IsA implements types.HasIsA: the class itself satisfies `is ClassName`
// for its own name, every ancestor's name, and every declared interface's
// name (recursively, since an interface may itself extend others via its
// own Interfaces list).
func (c *Class) IsA(name string) bool {
	if c.info.Name == name {
		return true
	}
	if c.super != nil && c.super.IsA(name) {
		return true
	}
	for _, i := range c.interfaces {
		if i.IsA(name) {
			return true
		}
	}
	return false
}

// CallInternal implements machine.Callable: calling a Class Value
// instantiates it (spec.md §4.5, "Calling a Class Value with arguments
// instantiates it").
func (c *Class) CallInternal(th *machine.Thread, args []types.Value) (types.Value, error) {
	if c.info.Kind == "annotation" {
		return nil, &machine.NovaError{Kind: "TypeError", Message: "annotation class " + c.info.Name + " cannot be instantiated"}
	}
	if c.info.Kind == "interface" {
		return nil, &machine.NovaError{Kind: "TypeError", Message: "interface " + c.info.Name + " cannot be instantiated"}
	}
	return c.instantiate(th, args)
}

// instantiate runs the constructor against a freshly allocated Object, per
// spec.md §4.5: evaluate superclass call if any (SuperArgs are evaluated
// for side effects by the constructor's own bytecode but a superclass's own primary-
// constructor fields are not re-run against this object), assign primary-
// constructor fields, run the class body.
func (c *Class) instantiate(th *machine.Thread, args []types.Value) (types.Value, error) {
	obj := &Object{class: c, fields: map[string]types.Value{}}
	if c.info.Ctor != nil {
		if _, err := machine.Call(th, (&types.Function{Code: c.info.Ctor}).Bind(obj), args); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

// findMethod walks the method-resolution order of spec.md §4.5: this
// class's own methods, then the superclass chain, then declared interfaces
// (default method bodies).
func (c *Class) findMethod(name string) (*methodEntry, bool) {
	if m, ok := c.methods[name]; ok {
		return m, true
	}
	if c.super != nil {
		if m, ok := c.super.findMethod(name); ok {
			return m, true
		}
	}
	for _, i := range c.interfaces {
		if m, ok := i.findMethod(name); ok {
			return m, true
		}
	}
	return nil, false
}

// AttrNames implements types.HasAttrs.
func (c *Class) AttrNames() []string {
	names := []string{"name", "annotations"}
	for _, n := range c.staticOrder {
		names = append(names, n)
	}
	seen := map[string]bool{}
	var walk func(*Class)
	walk = func(cc *Class) {
		for n := range cc.methods {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
		if cc.super != nil {
			walk(cc.super)
		}
		for _, i := range cc.interfaces {
			walk(i)
		}
	}
	walk(c)
	return names
}

// Attr implements types.HasAttrs: a static field, then a static method
// (bound to the class itself, the same receiver-polymorphism StaticInit
// uses), then the built-in name/annotations introspection properties.
func (c *Class) Attr(name string) (types.Value, error) {
	if cell, ok := c.staticFields[name]; ok {
		return cell.V, nil
	}
	if m, ok := c.findMethod(name); ok && m.isStatic {
		return m.bind(c), nil
	}
	switch name {
	case "name":
		return types.String(c.info.Name), nil
	case "annotations":
		return c.annotationsList(), nil
	}
	return nil, nil
}

// SetField implements types.HasSetField: writes to a static field, used by
// StaticInit's own `this.name = ...` assignments and by ordinary Nova code
// assigning `ClassName.field = v`.
func (c *Class) SetField(name string, v types.Value) error {
	if cell, ok := c.staticFields[name]; ok {
		cell.V = v
		return nil
	}
	return types.NoSuchAttrError("no such static field: " + name)
}

// ---- annotation.Target ----

func (c *Class) Fields() []annotation.FieldInfo {
	out := make([]annotation.FieldInfo, len(c.info.Fields))
	for i, f := range c.info.Fields {
		vis := "public"
		typ := "var"
		if !f.Mutable {
			typ = "val"
		}
		out[i] = annotation.FieldInfo{Name: f.Name, Type: typ, Visibility: vis}
	}
	return out
}

func (c *Class) Methods() []annotation.MethodInfo {
	names := make([]string, 0, len(c.methods))
	for n := range c.methods {
		names = append(names, n)
	}
	out := make([]annotation.MethodInfo, 0, len(names))
	for _, n := range names {
		out = append(out, annotation.MethodInfo{Name: n})
	}
	return out
}

func (c *Class) Annotations() []annotation.AnnotationInfo { return c.annotations }

func (c *Class) SetStaticField(name string, v types.Value) error { return c.SetField(name, v) }

func (c *Class) annotationsList() *types.List {
	elems := make([]types.Value, len(c.annotations))
	for i, a := range c.annotations {
		m := types.NewMap(len(a.Args) + 1)
		_ = m.SetKey(types.String("name"), types.String(a.Name))
		args := types.NewMap(len(a.Args))
		for k, v := range a.Args {
			_ = args.SetKey(types.String(k), v)
		}
		_ = m.SetKey(types.String("args"), args)
		elems[i] = m
	}
	return types.NewList(elems)
}

package machine

import (
	"fmt"

	"github.com/nova-lang/nova/internal/types"
	"github.com/nova-lang/nova/lang/linearize"
	"github.com/nova-lang/nova/lang/mir"
)

// callFunction activates fn: binds args into a fresh Frame's locals, pushes
// it onto the call stack, and runs it to completion. The teacher's run()
// (lang/machine/machine.go) is one function doing all of this; Nova splits
// frame setup (here) from the opcode loop (run) since the register file
// this interpreter needs is sized per function rather than shared off one
// growable operand stack.
func (th *Thread) callFunction(fn *types.Function, args []types.Value) (types.Value, error) {
	if th.DisableRecursion {
		for _, fr := range th.callStack {
			if fr.fn.Code == fn.Code {
				return nil, &NovaError{Kind: "StackOverflowError", Message: "recursive call to " + fn.String() + " disabled"}
			}
		}
	}
	if th.MaxCallStackDepth > 0 && len(th.callStack) >= th.MaxCallStackDepth {
		return nil, &NovaError{Kind: "StackOverflowError", Message: "call stack depth exceeded"}
	}

	frame := newFrame(th, fn)
	if err := bindArgs(frame, fn.Code, args); err != nil {
		return nil, err
	}

	th.callStack = append(th.callStack, frame)
	defer func() { th.callStack = th.callStack[:len(th.callStack)-1] }()

	return th.run(frame)
}

// bindArgs binds positional arguments into a fresh frame's locals, boxing
// into the local's Cell where fn.Cells marks it captured — the same
// boxed-on-declaration convention OpStoreLocal/OpStoreCell use for every
// other assignment, applied once up front for parameters.
func bindArgs(frame *Frame, code *linearize.Function, args []types.Value) error {
	n := code.NumParams
	if code.Variadic {
		if len(args) < n-1 {
			return &NovaError{Kind: "TypeError", Message: fmt.Sprintf("%s expects at least %d arguments, got %d", code.Name, n-1, len(args))}
		}
		for i := 0; i < n-1; i++ {
			setLocal(frame, i, args[i])
		}
		rest := append([]types.Value{}, args[n-1:]...)
		setLocal(frame, n-1, types.NewList(rest))
		return nil
	}
	if len(args) != n {
		return &NovaError{Kind: "TypeError", Message: fmt.Sprintf("%s expects %d arguments, got %d", code.Name, n, len(args))}
	}
	for i, a := range args {
		setLocal(frame, i, a)
	}
	return nil
}

func setLocal(frame *Frame, i int, v types.Value) {
	if c, ok := frame.locals[i].(*types.Cell); ok {
		c.V = v
		return
	}
	frame.locals[i] = v
}

// run is the bytecode loop: dispatch on linearize.Instr.Kind, then on
// mir.Op for the KindOp case. Adapted from the teacher's machine.go `run`
// for-loop-over-opcodes shape, register-to-register instead of
// stack-effect dispatch.
func (th *Thread) run(frame *Frame) (result types.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &NovaError{Kind: "TypeError", Message: fmt.Sprintf("internal error: %v", r)}
		}
	}()

	code := frame.fn.Code
	for {
		if serr := th.step(); serr != nil {
			return nil, serr
		}
		if cerr := th.checkCancelled(); cerr != nil {
			return nil, cerr
		}

		ins := code.Code[frame.pc]

		switch ins.Kind {
		case linearize.KindJump:
			if ins.FinallyExit && frame.pendingUnwind != nil {
				perr := frame.pendingUnwind
				frame.pendingUnwind = nil
				if th.unwind(frame, frame.pc, perr) {
					continue
				}
				return nil, perr
			}
			// An ordinary jump nested inside the finally body (an if/while
			// of its own) must not disturb pendingUnwind; only the
			// FinallyExit jump above is allowed to consume it.
			frame.pc = ins.Then
			continue

		case linearize.KindCondJump:
			cond := frame.regs[ins.Cond]
			if cond != nil && bool(cond.Truth()) {
				frame.pc = ins.Then
			} else {
				frame.pc = ins.Else
			}
			continue

		case linearize.KindReturn:
			if ins.Value < 0 {
				return types.NullValue, nil
			}
			return frame.regs[ins.Value], nil

		case linearize.KindThrow:
			value := frame.regs[ins.Value]
			nerr := &NovaError{Kind: "UserError", Message: displayMessage(value), Payload: value, Pos: frame.curPos}
			if th.unwind(frame, frame.pc, nerr) {
				continue
			}
			return nil, nerr
		}

		// KindOp
		frame.curPos = ins.Op.Pos
		operr := th.execOp(frame, ins.Op)
		if gr, ok := operr.(*guardReturn); ok {
			return gr.v, nil
		}
		if operr != nil {
			nerr := toNovaError(operr, frame.curPos)
			if th.unwind(frame, frame.pc, nerr) {
				continue
			}
			return nil, nerr
		}
		frame.pc++
	}
}

func displayMessage(v types.Value) string {
	if v == nil {
		return ""
	}
	return v.String()
}

// toNovaError normalizes any error execOp returns into a NovaError, so
// uncaught-error reporting and catch-kind matching always have a Kind to
// work with. Most op handlers already construct a precisely-kinded
// NovaError themselves; this only has to handle the few places that
// delegate straight to an internal/types dispatch function returning a
// plain error (Binary/Unary/Equals/Compare).
func toNovaError(err error, pos int) *NovaError {
	if ne, ok := err.(*NovaError); ok {
		if ne.Pos == 0 {
			ne.Pos = pos
		}
		return ne
	}
	return &NovaError{Kind: "TypeError", Message: err.Error(), Pos: pos}
}

// kindMatches reports whether a catch clause declared with catchKind
// handles an error of errKind. An untyped catch (empty kind) or a catch
// declared against the taxonomy's root ("Exception") matches anything,
// mirroring the single-level "root catches everything, otherwise exact
// name" hierarchy spec.md's flat error-kind list implies; user-defined
// exception classes extending a built-in kind are not matched by subtype
// here (internal/class registers no hierarchy query with internal/machine).
func kindMatches(catchKind, errKind string) bool {
	return catchKind == "" || catchKind == "Exception" || catchKind == errKind
}

// unwind searches fn.Code.Catches for a region covering atPC that either
// handles errKind directly (jumping into its catch entry) or has to run its
// finally block first. Regions nest innermost-first in Catches because
// build.go's emitTry appends a try's own regions only after fully emitting
// any try nested inside its body — so the first matching region in
// iteration order is always the tightest enclosing one. Returns true if
// frame.pc was updated to resume inside this frame; false means the error
// is not handled here and must propagate to the caller.
func (th *Thread) unwind(frame *Frame, atPC int, nerr *NovaError) bool {
	catches := frame.fn.Code.Catches
	for _, region := range catches {
		if atPC < region.FromPC || atPC >= region.ToPC {
			continue
		}
		if region.CatchPC >= 0 && kindMatches(region.CatchKind, nerr.Kind) {
			frame.exception = nerr
			frame.pc = region.CatchPC
			return true
		}
	}
	for _, region := range catches {
		if atPC < region.FromPC || atPC >= region.ToPC {
			continue
		}
		if region.FinallyPC >= 0 {
			frame.pendingUnwind = nerr
			frame.pc = region.FinallyPC
			return true
		}
	}
	return false
}

// execOp executes one value/effect-producing instruction, writing its
// Result register if it has one. Grounded on the teacher's per-opcode
// switch in machine.go, generalized from stack push/pop to register
// read/write.
func (th *Thread) execOp(frame *Frame, ins mir.Instruction) error {
	arg := func(i int) types.Value { return frame.regs[ins.Args[i]] }
	setResult := func(v types.Value) {
		if ins.Result >= 0 {
			frame.regs[ins.Result] = v
		}
	}

	switch ins.Op {
	case mir.OpNop:
		return nil

	case mir.OpConst:
		setResult(constValue(ins.Imm))
		return nil

	case mir.OpLoadLocal:
		setResult(frame.locals[ins.Imm.(int)])
		return nil
	case mir.OpStoreLocal:
		frame.locals[ins.Imm.(int)] = arg(0)
		return nil
	case mir.OpLoadCell:
		setResult(frame.locals[ins.Imm.(int)].(*types.Cell).V)
		return nil
	case mir.OpStoreCell:
		frame.locals[ins.Imm.(int)].(*types.Cell).V = arg(0)
		return nil
	case mir.OpLoadCellRef:
		setResult(frame.locals[ins.Imm.(int)])
		return nil
	case mir.OpLoadFree:
		setResult(frame.fn.FreeVars[ins.Imm.(int)].V)
		return nil
	case mir.OpStoreFree:
		frame.fn.FreeVars[ins.Imm.(int)].V = arg(0)
		return nil
	case mir.OpLoadFreeRef:
		setResult(frame.fn.FreeVars[ins.Imm.(int)])
		return nil

	case mir.OpLoadPredeclared:
		name := ins.Imm.(string)
		v, ok := th.Predeclared[name]
		if !ok {
			return &NovaError{Kind: "NameError", Message: "undefined name: " + name}
		}
		setResult(v)
		return nil

	case mir.OpLoadUniversal:
		name := ins.Imm.(string)
		switch name {
		case "this":
			if frame.fn.Receiver == nil {
				return &NovaError{Kind: "NameError", Message: "'this' used outside an instance context"}
			}
			setResult(frame.fn.Receiver)
			return nil
		case "$exception":
			if frame.exception == nil {
				return &NovaError{Kind: "NameError", Message: "no active exception"}
			}
			setResult(thrownValue(frame.exception))
			frame.exception = nil
			return nil
		}
		v, ok := Universe[name]
		if !ok {
			return &NovaError{Kind: "NameError", Message: "undefined name: " + name}
		}
		setResult(v)
		return nil

	case mir.OpLoadTopLevel:
		name := ins.Imm.(string)
		v, ok := th.topLevel()[name]
		if !ok {
			return &NovaError{Kind: "NameError", Message: "undefined name: " + name}
		}
		setResult(v)
		return nil
	case mir.OpStoreTopLevel:
		th.topLevel()[ins.Imm.(string)] = arg(0)
		return nil

	case mir.OpBinary:
		op := ins.Imm.(string)
		if op == "==" || op == "!=" {
			eq, err := th.equals(arg(0), arg(1))
			if err != nil {
				return classifyBinaryError(err)
			}
			setResult(types.Bool(eq == (op == "==")))
			return nil
		}
		if op == "<" || op == "<=" || op == ">" || op == ">=" {
			if c, handled, err := th.compareTo(arg(0), arg(1)); handled {
				if err != nil {
					return classifyBinaryError(err)
				}
				setResult(types.Bool(relationalHolds(op, c)))
				return nil
			}
		}
		v, err := types.Binary(op, arg(0), arg(1))
		if err != nil {
			return classifyBinaryError(err)
		}
		setResult(v)
		return nil
	case mir.OpUnary:
		v, err := types.Unary(ins.Imm.(string), arg(0))
		if err != nil {
			return &NovaError{Kind: "TypeError", Message: err.Error()}
		}
		setResult(v)
		return nil
	case mir.OpCopy:
		setResult(arg(0))
		return nil

	case mir.OpMakeList:
		setResult(types.NewList(spreadArgs(ins.Args, frame)))
		return nil
	case mir.OpMakeMap:
		m := types.NewMap(len(ins.Args) / 2)
		for i := 0; i+1 < len(ins.Args); i += 2 {
			if err := m.SetKey(arg(i), arg(i+1)); err != nil {
				return &NovaError{Kind: "TypeError", Message: err.Error()}
			}
		}
		setResult(m)
		return nil
	case mir.OpMakeSet:
		s := types.NewSet(len(ins.Args))
		for _, v := range spreadArgs(ins.Args, frame) {
			if err := s.Add(v); err != nil {
				return &NovaError{Kind: "TypeError", Message: err.Error()}
			}
		}
		setResult(s)
		return nil
	case mir.OpMakePair:
		setResult(types.Pair{First: arg(0), Second: arg(1)})
		return nil
	case mir.OpMakeRange:
		return th.execMakeRange(frame, ins, setResult)
	case mir.OpSpread:
		setResult(spreadValue{arg(0)})
		return nil

	case mir.OpIndex:
		return execIndex(arg(0), arg(1), setResult)
	case mir.OpSetIndex:
		return execSetIndex(arg(0), arg(1), arg(2))
	case mir.OpAttr:
		return execAttr(th, arg(0), ins.Imm.(string), setResult)
	case mir.OpSetAttr:
		return execSetAttr(arg(0), ins.Imm.(string), arg(1))
	case mir.OpIs:
		setResult(types.Bool(isA(arg(0), ins.Imm.(string))))
		return nil
	case mir.OpAs:
		name := ins.Imm.(string)
		if !isA(arg(0), name) {
			return &NovaError{Kind: "CastError", Message: fmt.Sprintf("cannot cast %s to %s", arg(0).TypeName(), name)}
		}
		setResult(arg(0))
		return nil
	case mir.OpMethodRef:
		return execAttr(th, arg(0), ins.Imm.(string), setResult)
	case mir.OpComponent:
		return th.execComponent(arg(0), ins.Imm.(int), setResult)

	case mir.OpMakeFunc:
		fn := ins.Imm.(*linearize.Function)
		cells := make([]*types.Cell, len(ins.Args))
		for i := range ins.Args {
			cells[i] = arg(i).(*types.Cell)
		}
		setResult(&types.Function{Code: fn, FreeVars: cells})
		return nil

	case mir.OpCall:
		return th.execCall(frame, ins, setResult)

	case mir.OpToString:
		setResult(types.String(toDisplayString(th, arg(0))))
		return nil

	case mir.OpAsync:
		return th.execAsync(frame, ins, setResult)
	case mir.OpAwait:
		if th.Concurrency == nil {
			return &NovaError{Kind: "SecurityError", Message: "structured concurrency is not available"}
		}
		v, err := th.Concurrency.Await(th, arg(0))
		if err != nil {
			return err
		}
		setResult(v)
		return nil
	case mir.OpLaunch:
		return th.execLaunch(frame, ins, setResult)
	case mir.OpScopeEnter:
		if th.Concurrency == nil {
			return &NovaError{Kind: "SecurityError", Message: "structured concurrency is not available"}
		}
		v, err := th.Concurrency.ScopeEnter(th, ins.Imm.(bool))
		if err != nil {
			return err
		}
		setResult(v)
		return nil
	case mir.OpScopeExit:
		if th.Concurrency == nil {
			return &NovaError{Kind: "SecurityError", Message: "structured concurrency is not available"}
		}
		bodyResult := arg(1)
		var dispatcher types.Value
		if len(ins.Args) > 2 {
			dispatcher = arg(2)
		}
		v, err := th.Concurrency.ScopeExit(th, arg(0), bodyResult, dispatcher)
		if err != nil {
			return err
		}
		setResult(v)
		return nil

	case mir.OpGuardReturn:
		v := arg(0)
		if _, isNull := v.(types.Null); isNull {
			return &guardReturn{v}
		}
		setResult(v)
		return nil

	case mir.OpRaise:
		// Not currently emitted by lang/mir/build.go (hir.Throw lowers to a
		// block terminator instead); handled here for forward compatibility
		// with a desugaring that raises mid-expression.
		v := arg(0)
		return &NovaError{Kind: "UserError", Message: displayMessage(v), Payload: v}

	case mir.OpImport:
		if th.Importer == nil {
			return &NovaError{Kind: "ImportError", Message: "module loading is not available"}
		}
		v, err := th.Importer.Import(th, ins.Imm.(mir.ImportSpec))
		if err != nil {
			return err
		}
		setResult(v)
		return nil

	case mir.OpDefineClass:
		if th.ClassHost == nil {
			return &NovaError{Kind: "TypeError", Message: "class declarations are not available"}
		}
		annoArgs := make([]types.Value, len(ins.Args))
		for i := range ins.Args {
			annoArgs[i] = arg(i)
		}
		v, err := th.ClassHost.DefineClass(th, ins.Imm.(*linearize.ClassInfo), annoArgs)
		if err != nil {
			return err
		}
		setResult(v)
		return nil
	}

	return &NovaError{Kind: "TypeError", Message: fmt.Sprintf("unimplemented opcode %s", ins.Op)}
}

// guardReturn signals OpGuardReturn's "short-circuit the enclosing function
// with null" path; run's KindOp case treats it as an ordinary return rather
// than an error.
type guardReturn struct{ v types.Value }

func (g *guardReturn) Error() string { return "guard return" }

// spreadValue marks an OpSpread result so OpMakeList/OpMakeSet/OpCall can
// flatten it back into its source Iterable's elements. It is not a value a
// Nova program can otherwise observe (it never survives past the
// instruction that consumes it), so it only implements enough of
// types.Value to satisfy the interface.
type spreadValue struct{ v types.Value }

func (s spreadValue) String() string   { return s.v.String() }
func (s spreadValue) TypeName() string { return s.v.TypeName() }
func (s spreadValue) Freeze()          { s.v.Freeze() }
func (s spreadValue) Truth() types.Bool { return s.v.Truth() }

var _ types.Value = spreadValue{}

// spreadArgs resolves a list of Arg registers into their Values, flattening
// any spreadValue among them into its source Iterable's elements in place —
// the shared expansion OpMakeList, OpMakeSet and OpCall's positional
// argument list all need for `[...xs]` / `f(...xs)`.
func spreadArgs(argRegs []mir.Reg, frame *Frame) []types.Value {
	out := make([]types.Value, 0, len(argRegs))
	for _, r := range argRegs {
		v := frame.regs[r]
		if sv, ok := v.(spreadValue); ok {
			if it, ok := sv.v.(types.Iterable); ok {
				iter := it.Iterate()
				var item types.Value
				for iter.Next(&item) {
					out = append(out, item)
				}
				iter.Done()
				continue
			}
		}
		out = append(out, v)
	}
	return out
}

func classifyBinaryError(err error) *NovaError {
	msg := err.Error()
	if msg == "division by zero" {
		return &NovaError{Kind: "ArithmeticError", Message: msg}
	}
	return &NovaError{Kind: "TypeError", Message: msg}
}

func constValue(imm interface{}) types.Value {
	switch v := imm.(type) {
	case nil:
		return types.NullValue
	case int64:
		return types.Int(v)
	case mir.LongConst:
		return types.Long(v)
	case float64:
		return types.Double(v)
	case rune:
		return types.Char(v)
	case string:
		return types.String(v)
	case bool:
		return types.Bool(v)
	default:
		return types.NullValue
	}
}

func asInt(v types.Value) (int64, error) {
	switch n := v.(type) {
	case types.Int:
		return int64(n), nil
	case types.Long:
		return int64(n), nil
	}
	return 0, &NovaError{Kind: "TypeError", Message: "expected an integer, got " + v.TypeName()}
}

func (th *Thread) execMakeRange(frame *Frame, ins mir.Instruction, setResult func(types.Value)) error {
	flags := ins.Imm.([2]bool)
	inclusive, descending := flags[0], flags[1]
	start, err := asInt(frame.regs[ins.Args[0]])
	if err != nil {
		return err
	}
	end, err := asInt(frame.regs[ins.Args[1]])
	if err != nil {
		return err
	}
	step := int64(1)
	if ins.Args[2] >= 0 {
		step, err = asInt(frame.regs[ins.Args[2]])
		if err != nil {
			return err
		}
	} else if descending {
		step = -1
	}
	if descending && step > 0 {
		step = -step
	}
	setResult(types.Range{Start: start, End: end, Step: step, Inclusive: inclusive})
	return nil
}

func execIndex(x, idx types.Value, setResult func(types.Value)) error {
	if m, ok := x.(types.Mapping); ok {
		v, found, err := m.Get(idx)
		if err != nil {
			return &NovaError{Kind: "TypeError", Message: err.Error()}
		}
		if !found {
			return &NovaError{Kind: "KeyError", Message: "key not found: " + idx.String()}
		}
		setResult(v)
		return nil
	}
	ix, ok := x.(types.Indexable)
	if !ok {
		return &NovaError{Kind: "TypeError", Message: x.TypeName() + " is not indexable"}
	}
	i, err := asInt(idx)
	if err != nil {
		return err
	}
	if i < 0 || int(i) >= ix.Len() {
		return &NovaError{Kind: "IndexError", Message: fmt.Sprintf("index %d out of range (len %d)", i, ix.Len())}
	}
	setResult(ix.Index(int(i)))
	return nil
}

func execSetIndex(x, idx, v types.Value) error {
	if m, ok := x.(types.HasSetKey); ok {
		if err := m.SetKey(idx, v); err != nil {
			return &NovaError{Kind: "TypeError", Message: err.Error()}
		}
		return nil
	}
	ix, ok := x.(types.HasSetIndex)
	if !ok {
		return &NovaError{Kind: "TypeError", Message: x.TypeName() + " does not support index assignment"}
	}
	i, err := asInt(idx)
	if err != nil {
		return err
	}
	if i < 0 || int(i) >= ix.Len() {
		return &NovaError{Kind: "IndexError", Message: fmt.Sprintf("index %d out of range (len %d)", i, ix.Len())}
	}
	if err := ix.SetIndex(int(i), v); err != nil {
		return &NovaError{Kind: "TypeError", Message: err.Error()}
	}
	return nil
}

// execAttr resolves x.name. Method resolution order (spec.md §4.5) tries
// x's own attributes first (covers a class instance's own methods and
// fields, resolved through internal/class's HasAttrs implementation, which
// itself walks the superclass chain); only when x has no such attribute at
// all, or isn't a types.HasAttrs to begin with (every builtin primitive
// tag), does it fall back to an extension function registered for x's
// TypeName, and after that to builtinMethod's built-in instance methods —
// the last tier of that resolution order.
func execAttr(th *Thread, x types.Value, name string, setResult func(types.Value)) error {
	if attrs, ok := x.(types.HasAttrs); ok {
		v, err := attrs.Attr(name)
		if err != nil {
			return &NovaError{Kind: "TypeError", Message: err.Error()}
		}
		if v != nil {
			setResult(v)
			return nil
		}
	}
	if ext, ok := th.extensionMethod(x.TypeName(), name); ok {
		setResult(ext.Bind(x))
		return nil
	}
	if m, ok := builtinMethod(x, name); ok {
		setResult(m)
		return nil
	}
	return &NovaError{Kind: "NameError", Message: "no such attribute: " + name}
}

// equals backs the "=="/"!=" operators: a user-defined `equals` method on
// either operand (own method, synthesized by @data, or inherited through
// internal/class's superclass chain) wins over structural/identity
// comparison, matching spec.md §4.4 ("== is structural for primitives,
// strings, lists, maps, ranges, pairs, @data objects ... and is
// identity-based for plain class instances unless an equals method is
// defined"). types.Equals alone can't express this since it has no Thread
// to call through; only this layer can invoke a Nova method.
func (th *Thread) equals(x, y types.Value) (bool, error) {
	if attrs, ok := x.(types.HasAttrs); ok {
		if m, err := attrs.Attr("equals"); err == nil && m != nil {
			v, err := Call(th, m, []types.Value{y})
			if err != nil {
				return false, err
			}
			return bool(v.Truth()), nil
		}
	}
	return types.Equals(x, y)
}

// compareTo backs the relational operators (<, <=, >, >=) for a user class
// that defines a `compareTo` method (spec.md §4.4: "a < b etc. dispatch to
// compareTo if defined on user classes"). handled is false when x has no
// such method, so the caller falls back to types.Binary's built-in numeric/
// Ordered dispatch — types.Binary alone can't invoke a Nova method since it
// has no Thread to call through, the same reason th.equals exists alongside
// types.Equals.
func (th *Thread) compareTo(x, y types.Value) (c int, handled bool, err error) {
	attrs, ok := x.(types.HasAttrs)
	if !ok {
		return 0, false, nil
	}
	m, err := attrs.Attr("compareTo")
	if err != nil || m == nil {
		return 0, false, nil
	}
	v, err := Call(th, m, []types.Value{y})
	if err != nil {
		return 0, true, err
	}
	n, err := asInt(v)
	if err != nil {
		return 0, true, err
	}
	return int(n), true, nil
}

// isA backs OpIs/OpAs: a class instance consults its superclass chain and
// declared interfaces (types.HasIsA, implemented by internal/class's
// Object); everything else falls back to plain TypeName equality.
func isA(v types.Value, name string) bool {
	if ia, ok := v.(types.HasIsA); ok {
		return ia.IsA(name)
	}
	return v.TypeName() == name
}

func relationalHolds(op string, c int) bool {
	switch op {
	case "<":
		return c < 0
	case "<=":
		return c <= 0
	case ">":
		return c > 0
	case ">=":
		return c >= 0
	}
	return false
}

// execComponent backs destructuring (`val (a, b) = x`, spec.md §4.4): a
// componentN method defined on x (synthesized for every @data instance)
// wins; otherwise x falls back to positional access, which Pair (First/
// Second aren't registers in a general Indexable) needs special-cased for
// since it carries exactly two named fields rather than an indexable slice.
func (th *Thread) execComponent(x types.Value, n int, setResult func(types.Value)) error {
	name := fmt.Sprintf("component%d", n)
	if attrs, ok := x.(types.HasAttrs); ok {
		if m, err := attrs.Attr(name); err == nil && m != nil {
			v, err := Call(th, m, nil)
			if err != nil {
				return err
			}
			setResult(v)
			return nil
		}
	}
	if p, ok := x.(types.Pair); ok {
		switch n {
		case 1:
			setResult(p.First)
			return nil
		case 2:
			setResult(p.Second)
			return nil
		}
		return &NovaError{Kind: "IndexError", Message: "Pair has no component" + fmt.Sprint(n)}
	}
	ix, ok := x.(types.Indexable)
	if !ok {
		return &NovaError{Kind: "TypeError", Message: x.TypeName() + " cannot be destructured"}
	}
	i := n - 1
	if i < 0 || i >= ix.Len() {
		return &NovaError{Kind: "IndexError", Message: fmt.Sprintf("component%d out of range (len %d)", n, ix.Len())}
	}
	setResult(ix.Index(i))
	return nil
}

func execSetAttr(x types.Value, name string, v types.Value) error {
	sf, ok := x.(types.HasSetField)
	if !ok {
		return &NovaError{Kind: "TypeError", Message: x.TypeName() + " has no writable field " + name}
	}
	if err := sf.SetField(name, v); err != nil {
		return &NovaError{Kind: "TypeError", Message: err.Error()}
	}
	return nil
}

// toDisplayString implements the universal toString() used by string
// interpolation's desugared concatenation: a user-defined toString method
// wins if the value exposes one, else the value's own String().
func toDisplayString(th *Thread, v types.Value) string {
	return ToDisplayString(th, v)
}

// ToDisplayString is toDisplayString's exported form, used by
// internal/stdlib to back the `toString` builtin it registers into
// Universe so scripts can call it as an ordinary function, not just rely
// on string-interpolation's desugaring to invoke it implicitly.
func ToDisplayString(th *Thread, v types.Value) string {
	if attrs, ok := v.(types.HasAttrs); ok {
		if m, err := attrs.Attr("toString"); err == nil && m != nil {
			if result, err := Call(th, m, nil); err == nil {
				return result.String()
			}
		}
	}
	return v.String()
}

// execCall dispatches an OpCall. A call site with named arguments can't
// resolve them against a declared parameter list here (neither mir.Function
// nor linearize.Function records parameter names, by design — see
// DESIGN.md), so the trailing named arguments are instead packed into a
// single trailing Map keyed by name, following the same convention
// internal/class's @data `copy(field = value)` synthesis already expects
// for its own single-Map-argument case. A callee with no use for that
// convention just sees one extra positional argument.
func (th *Thread) execCall(frame *Frame, ins mir.Instruction, setResult func(types.Value)) error {
	info := ins.Imm.(*mir.CallInfo)
	callee := frame.regs[ins.Args[0]]
	argRegs := ins.Args[1:]

	var args []types.Value
	if len(info.NamedNames) > 0 {
		positional := argRegs
		if info.NumPositional <= len(argRegs) {
			positional = argRegs[:info.NumPositional]
		}
		named := argRegs[len(positional):]
		args = spreadArgs(positional, frame)
		m := types.NewMap(len(named))
		for i, name := range info.NamedNames {
			if i >= len(named) {
				break
			}
			if err := m.SetKey(types.String(name), frame.regs[named[i]]); err != nil {
				return &NovaError{Kind: "TypeError", Message: err.Error()}
			}
		}
		args = append(args, m)
	} else {
		args = spreadArgs(argRegs, frame)
	}

	v, err := Call(th, callee, args)
	if err != nil {
		return err
	}
	setResult(v)
	return nil
}

func (th *Thread) execAsync(frame *Frame, ins mir.Instruction, setResult func(types.Value)) error {
	if th.Concurrency == nil {
		return &NovaError{Kind: "SecurityError", Message: "structured concurrency is not available"}
	}
	fn := ins.Imm.(*linearize.Function)
	body := &types.Function{Code: fn}
	var dispatcher types.Value
	if len(ins.Args) > 0 {
		dispatcher = frame.regs[ins.Args[0]]
	}
	v, err := th.Concurrency.Async(th, body, dispatcher)
	if err != nil {
		return err
	}
	setResult(v)
	return nil
}

func (th *Thread) execLaunch(frame *Frame, ins mir.Instruction, setResult func(types.Value)) error {
	if th.Concurrency == nil {
		return &NovaError{Kind: "SecurityError", Message: "structured concurrency is not available"}
	}
	fn := ins.Imm.(*linearize.Function)
	body := &types.Function{Code: fn}
	var dispatcher types.Value
	if len(ins.Args) > 0 {
		dispatcher = frame.regs[ins.Args[0]]
	}
	v, err := th.Concurrency.Launch(th, body, dispatcher)
	if err != nil {
		return err
	}
	setResult(v)
	return nil
}

func (th *Thread) topLevel() map[string]types.Value {
	if th.topLevelBindings == nil {
		th.topLevelBindings = map[string]types.Value{}
	}
	return th.topLevelBindings
}

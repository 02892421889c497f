// Package mir defines Nova's mid-level intermediate representation: an
// explicit control-flow graph of basic blocks over a register (virtual
// local slot) machine, sitting between lang/hir and the flat bytecode that
// internal/machine executes. See build.go for the HIR->MIR lowering and
// lang/mirpasses for the optimization pipeline that runs over it before
// lang/linearize flattens it to bytecode.
//
// The block/opcode shape is adapted from the teacher's lang/compiler
// package, which computes exactly this kind of CFG internally (pcomp.block,
// fcomp.stmts) before immediately linearizing it away. Nova stops one step
// earlier so mirpasses has a CFG to rewrite instead of a flat stream.
package mir

import "fmt"

// Reg names a virtual register: a value-producing slot, not a storage
// location. There is no register allocator: linearize keeps register
// numbers as they are and internal/machine sizes each frame's register
// file to fit them; mirpasses operates purely on Reg identity.
type Reg int

// Op is a MIR instruction opcode. Unlike the teacher's stack-effect opcodes
// these are register-to-register: each produces at most one result Reg,
// named explicitly on the Instruction rather than inferred from stack
// position, so that passes like CSE can compare operations as values.
type Op uint8

const (
	OpNop Op = iota

	// Constants and simple loads/stores.
	OpConst      // Result = Imm
	OpLoadLocal  // Result = locals[Imm.(int)]
	OpStoreLocal // locals[Imm.(int)] = Args[0]
	OpLoadCell   // Result = *cells[Imm.(int)]        (dereference the cell's content)
	OpStoreCell  // *cells[Imm.(int)] = Args[0]       (write the cell's content)
	OpLoadCellRef // Result = cells[Imm.(int)] itself (the cell, for capture by a nested MakeFunc)
	OpLoadFree   // Result = *freevars[Imm.(int)]     (dereference the captured cell's content)
	OpStoreFree  // *freevars[Imm.(int)] = Args[0]    (write the captured cell's content)
	OpLoadFreeRef // Result = freevars[Imm.(int)] itself (pass-through capture for a deeper nested closure)
	OpLoadPredeclared
	OpLoadUniversal
	OpLoadTopLevel  // Result = module.topLevelBindings[Imm.(string)]
	OpStoreTopLevel // module.topLevelBindings[Imm.(string)] = Args[0]

	// Arithmetic/comparison (order has no significance, unlike the teacher's
	// token-aligned layout, since Nova's binary op is carried in Imm).
	OpBinary // Result = Args[0] <Imm.(string)> Args[1]
	OpUnary  // Result = <Imm.(string)> Args[0]
	OpCopy   // Result = Args[0]; used to merge control-flow branches into one
	// register (MIR registers are plain mutable slots, not SSA values: a
	// register may be written by OpCopy from more than one predecessor
	// block, the way `if`/`when`/`&&`/`||` expression results merge here).

	// Aggregates.
	OpMakeList // Result = [Args...]
	OpMakeMap  // Result = {Args[2i]:Args[2i+1], ...}
	OpMakeSet  // Result = setOf(Args...)
	OpMakePair // Result = Pair(Args[0], Args[1])
	OpMakeRange
	OpSpread // Result = spread marker wrapping Args[0], consumed by the enclosing MakeList/Call

	// Access.
	OpIndex     // Result = Args[0][Args[1]]
	OpSetIndex  // Args[0][Args[1]] = Args[2]
	OpAttr      // Result = Args[0].Imm.(string)
	OpSetAttr   // Args[0].Imm.(string) = Args[1]
	OpIs        // Result = Args[0] is Imm.(string)
	OpAs        // Result = Args[0] as Imm.(string)
	OpMethodRef // Result = bound reference to Args[0].Imm.(string)
	// OpComponent destructures one element of Args[0]: Imm.(int) is the
	// 1-based component index (`component1`, `component2`, ...). Prefers
	// calling a `componentN` method when Args[0] defines one (always true
	// for @data instances), falling back to positional list/pair access
	// when it doesn't (spec.md §4.4's destructuring rule).
	OpComponent

	// Calls and function values.
	OpMakeFunc // Result = closure over Imm.(*Function), capturing Args as freevar cells
	OpCall     // Result = Args[0](Args[1:]...), Imm.(*CallInfo) carries named-arg layout
	OpToString // Result = toString(Args[0]), used by interpolation lowering

	// Concurrency (dispatched to internal/concurrency at runtime; MIR only
	// records the shape, not the scheduling).
	OpAsync       // Result = Future, Imm.(*Function) is the body thunk, Args[0] optional dispatcher
	OpAwait       // Result = await(Args[0])
	OpLaunch      // Result = Job, Imm.(*Function) body thunk, Args[0] optional dispatcher
	OpScopeEnter  // Result = new Scope value, Imm.(bool) true for supervisorScope
	OpScopeExit   // joins/cancels Args[0] (the Scope), per structured-concurrency exit semantics
	OpGuardReturn // if Args[0] denotes failure, returns Args[0] from the enclosing function; else Result = unwrapped Args[0]

	OpRaise // throw Args[0]

	OpImport // Result = module loader's resolution of Imm.(ImportSpec)

	OpDefineClass // Result = new class value, built from Imm.(*ClassInfo)
)

// ClassInfo carries everything internal/class needs to register a class:
// its constructor, its method table, and its declared shape. MIR keeps this
// as one immediate rather than spreading it across OpCall arguments, since
// none of it is itself a runtime value to thread through registers.
type ClassInfo struct {
	Name        string
	Kind        string // "class", "interface", "object", "annotation"
	Open        bool
	SuperName   string
	Interfaces  []string
	Ctor        *Function
	Methods     []*Function // parallel to the hir.ClassDecl.Methods order
	Annotations []ClassAnnotation

	// Fields lists the primary-constructor parameters that became fields
	// (Kind "val" or "var"), in declared order. internal/class needs the
	// names here (the Ctor Function only knows arity, not field identity)
	// for @data's equals/toString/hashCode/copy/componentN synthesis and
	// for destructuring's positional fallback.
	Fields []ClassField

	// StaticFields names the class's `static var`/`static val` fields, in
	// declared order, parallel to StaticInit's own "this.name = ..." writes.
	StaticFields []ClassField

	// StaticInit runs exactly once, at class-definition time, with the new
	// Class value itself bound as its receiver rather than an instance —
	// `this.name = ...` inside it resolves through internal/class.Class's own
	// HasSetField implementation, the same receiver-polymorphism buildCtorFunc
	// already relies on for instance fields, just aimed at the class instead
	// of a fresh object. nil when the class declares no static fields with
	// initializers.
	StaticInit *Function
}

// ClassField names one primary-constructor field and whether it is mutable.
type ClassField struct {
	Name       string
	Mutable    bool // true for var, false for val
	HasDefault bool // true when the constructor parameter has a default expression
}

// ClassAnnotation is one `@name(args)` attached to a class declaration.
// The argument values themselves are not static data — they are ordinary
// expressions evaluated into registers right before the OpDefineClass
// instruction that carries this immediate, concatenated (in annotation,
// then arg, order) into that instruction's Args; ArgNames records only the
// named/positional shape needed to pair them back up at runtime.
type ClassAnnotation struct {
	Name     string
	ArgNames []string // "" for a positional argument
}

// LongConst wraps an OpConst immediate for a `3L`-style long literal. Int
// and Long literals both carry a plain int64 value in hir; without this
// wrapper OpConst's Imm field couldn't distinguish them, since a bare int64
// would always become an Int.
type LongConst int64

// ImportSpec mirrors hir.ImportSpec; duplicated here (rather than imported)
// so mir has no dependency on hir beyond build.go's lowering entry point.
type ImportSpec struct {
	Kind, Path, Name, Alias string
}

var opNames = [...]string{
	OpNop: "nop", OpConst: "const", OpLoadLocal: "load_local", OpStoreLocal: "store_local",
	OpLoadCell: "load_cell", OpStoreCell: "store_cell", OpLoadCellRef: "load_cell_ref",
	OpLoadFree: "load_free", OpStoreFree: "store_free", OpLoadFreeRef: "load_free_ref",
	OpLoadPredeclared: "load_predeclared", OpLoadUniversal: "load_universal",
	OpLoadTopLevel: "load_toplevel", OpStoreTopLevel: "store_toplevel",
	OpBinary: "binary", OpUnary: "unary", OpCopy: "copy", OpMakeList: "make_list", OpMakeMap: "make_map",
	OpMakeSet: "make_set", OpMakePair: "make_pair", OpMakeRange: "make_range", OpSpread: "spread",
	OpIndex: "index", OpSetIndex: "set_index", OpAttr: "attr", OpSetAttr: "set_attr",
	OpIs: "is", OpAs: "as", OpMethodRef: "method_ref", OpMakeFunc: "make_func", OpCall: "call",
	OpToString: "to_string", OpAsync: "async", OpAwait: "await", OpLaunch: "launch",
	OpScopeEnter: "scope_enter", OpScopeExit: "scope_exit", OpGuardReturn: "guard_return", OpRaise: "raise",
	OpImport: "import", OpDefineClass: "define_class",
}

func (op Op) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return fmt.Sprintf("op(%d)", op)
}

// CallInfo records the positional/named argument layout of an OpCall, since
// Nova calls can mix positional and named arguments and MIR keeps that
// information rather than flattening it early (cf. the teacher's
// CALL<n>/CALL_VAR<n> packed argument count, which this generalizes).
type CallInfo struct {
	NumPositional int
	NamedNames    []string // len == number of trailing named args
	Spread        bool     // true if the last positional arg is a spread (*args) call
}

// Instruction is one register-producing (or side-effecting) MIR operation.
type Instruction struct {
	Op     Op
	Result Reg  // valid only when Op produces a value; -1 otherwise
	Args   []Reg
	Imm    interface{}
	Pos    int // source offset; Build never sets it, so it is always 0
}

// Terminator ends a BasicBlock. Exactly one of the fields is meaningful,
// selected by Kind.
type TermKind uint8

const (
	TermReturn TermKind = iota
	TermJump
	TermCondJump
	TermThrow
	// TermFallthrough marks a block whose Then is reached unconditionally
	// by falling off the end of the instruction list; linearize emits an
	// explicit jump to Then for it, even when Then is placed right after.
	TermFallthrough
)

type Terminator struct {
	Kind  TermKind
	Value Reg // TermReturn (may be -1 for a bare `return`), TermThrow
	Cond  Reg // TermCondJump
	Then  *BasicBlock
	Else  *BasicBlock // TermCondJump only

	// FinallyExit marks the one TermJump that leaves a finally block,
	// distinguishing it from an ordinary jump that happens to sit inside the
	// finally body (an if/while nested in finally ends with ordinary jumps
	// of its own). Only this terminator may resume an in-flight but
	// not-yet-caught error's propagation once finally has run to completion.
	FinallyExit bool
}

// BasicBlock is a straight-line run of Instructions ending in exactly one
// Terminator. ID is assigned at build time and is stable across passes;
// linearize assigns the final program-counter ordering independently.
type BasicBlock struct {
	ID    int
	Instr []Instruction
	Term  Terminator
}

// CatchRegion records a try/catch/finally span by block ID range, mirroring
// the teacher's Funcode.Catches/Defers (block-range, not instruction-level,
// since MIR operates at block granularity).
type CatchRegion struct {
	TryFrom, TryTo int // inclusive BasicBlock.ID range covered by the try body
	CatchKind      string
	CatchName      string
	CatchEntry     *BasicBlock
	FinallyEntry   *BasicBlock // nil if no finally clause
}

// Function is one compiled MIR function: a CFG of BasicBlocks plus the
// storage layout (locals/cells/freevars) carried over from hir.Binding.
type Function struct {
	Name       string
	NumParams  int
	Variadic   bool
	NumLocals  int   // size of the locals slot array
	Cells      []int // indices into locals that require heap cells
	NumFree    int   // size of the freevars array supplied by the closure
	Blocks     []*BasicBlock
	Entry      *BasicBlock
	Catches    []CatchRegion
	IsMethod   bool
	MethodName string // name Function.String shows for a method ("Class.m" for class methods)

	// IsStatic marks a class method declared `static`: internal/class calls
	// it unbound (ClassName.method()) instead of giving it a `this`
	// receiver, the same distinction StaticInit's own receiver-polymorphism
	// trick (see ClassInfo.StaticInit) exists to paper over for fields.
	IsStatic bool
}

// Module is one compiled chunk: its top-level function plus every nested
// function and class method gathered into a flat list (closures reference
// each other by *Function pointer, not by index, until linearize assigns
// addresses).
type Module struct {
	Name      string
	Functions []*Function
	TopLevel  *Function

	// Extensions maps a receiver type name to the extension functions
	// declared against it (`fun T.m(...)`), mirroring
	// hir.Program.ExtensionMethods one level down. Each entry here also
	// appears once in Functions under its own plain name (`fun Int.double()`
	// is still callable as `double(x)`); this map is what lets a runtime
	// method-resolution fallback find it again by receiver type for the
	// `x.double()` call form (spec.md §4.5's "extension functions registered
	// for the receiver's class" tier).
	Extensions map[string][]*Function
}

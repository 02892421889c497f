package machine

import (
	"github.com/nova-lang/nova/internal/types"
	"github.com/nova-lang/nova/lang/linearize"
)

// Frame is one activation record. Adapted from the teacher's lang/machine
// Frame (callable + pc), expanded with the register file and local/free
// storage a register-based instruction stream needs that the teacher's
// stack machine keeps on one shared operand stack instead.
type Frame struct {
	fn *types.Function
	pc int

	regs   []types.Value
	locals []types.Value

	curPos int

	// exception is set while a catch clause's body is executing, so
	// OpLoadUniversal("$exception") can resolve without threading an extra
	// parameter through every opcode case.
	exception *NovaError

	// pendingUnwind holds an error that unwind() routed into a finally block
	// because no catch in its try's region matched. The finally block's own
	// FinallyExit jump consumes this: re-raising it (continuing propagation
	// outward) if still set, or treating the jump as ordinary control flow
	// if cleared (finally ran on the normal-completion path instead).
	pendingUnwind *NovaError
}

// Position reports the frame's most recently executed source offset, used
// to build a NovaError's stack trace.
func (f *Frame) Position() int { return f.curPos }

// FuncName reports the frame's function name for diagnostics.
func (f *Frame) FuncName() string {
	if f.fn.Code.IsMethod {
		return f.fn.Code.MethodName
	}
	return f.fn.Code.Name
}

func newFrame(th *Thread, fn *types.Function) *Frame {
	code := fn.Code
	f := &Frame{fn: fn}
	f.locals = make([]types.Value, code.NumLocals)
	for _, idx := range code.Cells {
		f.locals[idx] = &types.Cell{V: types.NullValue}
	}
	f.regs = make([]types.Value, th.regCountFor(code))
	return f
}

// regCount computes the register file size a Function needs: one past the
// highest Reg referenced anywhere in its flattened code (as a Result, an
// Args operand, or a terminator's Cond/Value), since linearize assigns
// registers densely per-function but leaves sizing to the caller.
func regCount(fn *linearize.Function) int {
	max := -1
	bump := func(r int) {
		if r > max {
			max = r
		}
	}
	for _, ins := range fn.Code {
		switch ins.Kind {
		case linearize.KindOp:
			bump(int(ins.Op.Result))
			for _, a := range ins.Op.Args {
				bump(int(a))
			}
		case linearize.KindCondJump:
			bump(int(ins.Cond))
		case linearize.KindReturn, linearize.KindThrow:
			bump(int(ins.Value))
		}
	}
	return max + 1
}

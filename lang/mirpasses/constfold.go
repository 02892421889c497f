package mirpasses

import "github.com/nova-lang/nova/lang/mir"

// ConstantFolding replaces an OpBinary/OpUnary over two (or one) OpConst
// operands with a single OpConst carrying the computed value, when the
// operator and operand types are ones this pass knows how to fold safely
// (int64/float64 arithmetic and comparisons). Anything it doesn't recognize
// — string concatenation, user-defined operator methods, mixed numeric
// types needing the language's own promotion rules — is left alone and
// folds at runtime instead, where internal/types' arithmetic already lives;
// duplicating that logic here would be a second place to keep in sync.
type ConstantFolding struct{}

func (ConstantFolding) Name() string { return "constant-folding" }

func (ConstantFolding) Run(fn *mir.Function) bool {
	changed := false
	for _, blk := range fn.Blocks {
		constOf := map[mir.Reg]interface{}{}
		for i := range blk.Instr {
			ins := &blk.Instr[i]
			switch ins.Op {
			case mir.OpConst:
				constOf[ins.Result] = ins.Imm
			case mir.OpUnary:
				if v, ok := constOf[ins.Args[0]]; ok {
					if folded, ok := foldUnary(ins.Imm.(string), v); ok {
						ins.Op, ins.Imm, ins.Args = mir.OpConst, folded, nil
						constOf[ins.Result] = folded
						changed = true
					}
				}
			case mir.OpBinary:
				x, xok := constOf[ins.Args[0]]
				y, yok := constOf[ins.Args[1]]
				if xok && yok {
					if folded, ok := foldBinary(ins.Imm.(string), x, y); ok {
						ins.Op, ins.Imm, ins.Args = mir.OpConst, folded, nil
						constOf[ins.Result] = folded
						changed = true
					}
				}
			}
		}
	}
	return changed
}

func foldUnary(op string, x interface{}) (interface{}, bool) {
	switch op {
	case "-":
		switch v := x.(type) {
		case int64:
			return -v, true
		case float64:
			return -v, true
		}
	case "!":
		if v, ok := x.(bool); ok {
			return !v, true
		}
	}
	return nil, false
}

func foldBinary(op string, x, y interface{}) (interface{}, bool) {
	xi, xIsInt := x.(int64)
	yi, yIsInt := y.(int64)
	if xIsInt && yIsInt {
		switch op {
		case "+":
			return xi + yi, true
		case "-":
			return xi - yi, true
		case "*":
			return xi * yi, true
		case "/":
			// division is left to runtime: integer division-by-zero must
			// raise a Nova-level error, which this pass has no way to
			// surface (it can only produce a value, not a diagnostic).
			return nil, false
		case "%":
			return nil, false
		case "==":
			return xi == yi, true
		case "!=":
			return xi != yi, true
		case "<":
			return xi < yi, true
		case "<=":
			return xi <= yi, true
		case ">":
			return xi > yi, true
		case ">=":
			return xi >= yi, true
		}
		return nil, false
	}

	xf, xIsFloat := x.(float64)
	yf, yIsFloat := y.(float64)
	if xIsFloat && yIsFloat {
		switch op {
		case "+":
			return xf + yf, true
		case "-":
			return xf - yf, true
		case "*":
			return xf * yf, true
		case "/":
			return xf / yf, true
		case "==":
			return xf == yf, true
		case "!=":
			return xf != yf, true
		case "<":
			return xf < yf, true
		case "<=":
			return xf <= yf, true
		case ">":
			return xf > yf, true
		case ">=":
			return xf >= yf, true
		}
	}
	return nil, false
}

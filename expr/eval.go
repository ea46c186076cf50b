package expr

import (
	"fmt"
)

type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpGt
	OpGte
	OpLt
	OpLte
	OpEq
	OpNeq
	OpAnd
	OpOr
)

func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	case OpEq:
		return "=="
	case OpNeq:
		return "!="
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	default:
		return "?"
	}
}

func (e *BinaryExpr) Eval(row Row) (Value, error) {
	// And/Or need their own null handling, both operands are still always
	// evaluated
	left, err := e.Left.Eval(row)
	if err != nil {
		return Null(), err
	}
	right, err := e.Right.Eval(row)
	if err != nil {
		return Null(), err
	}

	switch e.Op {
	case OpAdd, OpSub, OpMul, OpDiv:
		return evalArith(e.Op, left, right)
	case OpGt, OpGte, OpLt, OpLte, OpEq, OpNeq:
		return evalCompare(e.Op, left, right)
	case OpAnd:
		return evalAnd(left, right)
	case OpOr:
		return evalOr(left, right)
	default:
		return Null(), fmt.Errorf("unknown binary operator %d", e.Op)
	}
}

// evalArith propagates missing through arithmetic. Two ints stay int except
// for division, which always yields float.
func evalArith(op BinaryOp, left, right Value) (Value, error) {
	if left.IsNull() || right.IsNull() {
		return Null(), nil
	}

	if left.Kind == KindInt && right.Kind == KindInt && op != OpDiv {
		switch op {
		case OpAdd:
			return IntValue(left.Int + right.Int), nil
		case OpSub:
			return IntValue(left.Int - right.Int), nil
		case OpMul:
			return IntValue(left.Int * right.Int), nil
		}
	}

	lf, lok := left.AsFloat()
	rf, rok := right.AsFloat()
	if !lok || !rok {
		return Null(), fmt.Errorf("operator %s needs numeric operands, got %s and %s", op, left.Kind, right.Kind)
	}

	switch op {
	case OpAdd:
		return FloatValue(lf + rf), nil
	case OpSub:
		return FloatValue(lf - rf), nil
	case OpMul:
		return FloatValue(lf * rf), nil
	case OpDiv:
		if rf == 0 {
			return Null(), nil
		}
		return FloatValue(lf / rf), nil
	}
	return Null(), fmt.Errorf("unknown arithmetic operator %d", op)
}

// evalCompare yields unknown when either side is missing
func evalCompare(op BinaryOp, left, right Value) (Value, error) {
	if left.IsNull() || right.IsNull() {
		return Null(), nil
	}

	if lf, lok := left.AsFloat(); lok {
		rf, rok := right.AsFloat()
		if !rok {
			return Null(), fmt.Errorf("cannot compare %s against %s", left.Kind, right.Kind)
		}
		return BoolValue(compareOrdered(op, lf, rf)), nil
	}

	if left.Kind == KindString && right.Kind == KindString {
		return BoolValue(compareOrdered(op, left.Str, right.Str)), nil
	}

	if left.Kind == KindBool && right.Kind == KindBool {
		switch op {
		case OpEq:
			return BoolValue(left.Bool == right.Bool), nil
		case OpNeq:
			return BoolValue(left.Bool != right.Bool), nil
		default:
			return Null(), fmt.Errorf("operator %s not defined for bool", op)
		}
	}

	return Null(), fmt.Errorf("cannot compare %s against %s", left.Kind, right.Kind)
}

func compareOrdered[T float64 | string](op BinaryOp, a, b T) bool {
	switch op {
	case OpGt:
		return a > b
	case OpGte:
		return a >= b
	case OpLt:
		return a < b
	case OpLte:
		return a <= b
	case OpEq:
		return a == b
	case OpNeq:
		return a != b
	default:
		return false
	}
}

// Kleene three-valued logic: false wins over unknown for And, true wins for
// Or
func evalAnd(left, right Value) (Value, error) {
	lb, lerr := asBoolOrNull(left)
	if lerr != nil {
		return Null(), lerr
	}
	rb, rerr := asBoolOrNull(right)
	if rerr != nil {
		return Null(), rerr
	}
	if lb != nil && !*lb {
		return BoolValue(false), nil
	}
	if rb != nil && !*rb {
		return BoolValue(false), nil
	}
	if lb == nil || rb == nil {
		return Null(), nil
	}
	return BoolValue(true), nil
}

func evalOr(left, right Value) (Value, error) {
	lb, lerr := asBoolOrNull(left)
	if lerr != nil {
		return Null(), lerr
	}
	rb, rerr := asBoolOrNull(right)
	if rerr != nil {
		return Null(), rerr
	}
	if lb != nil && *lb {
		return BoolValue(true), nil
	}
	if rb != nil && *rb {
		return BoolValue(true), nil
	}
	if lb == nil || rb == nil {
		return Null(), nil
	}
	return BoolValue(false), nil
}

func asBoolOrNull(v Value) (*bool, error) {
	if v.IsNull() {
		return nil, nil
	}
	if v.Kind != KindBool {
		return nil, fmt.Errorf("expected bool operand, got %s", v.Kind)
	}
	b := v.Bool
	return &b, nil
}

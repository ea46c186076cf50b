package expr

import (
	"encoding/json"
	"errors"
	"fmt"
)

// jsonNode is the wire shape of an expression in query requests. Exactly one
// of Col, Lit, or Fn is set.
//
//	{"col": "body_mass_g"}
//	{"lit": 4000}
//	{"fn": "gt", "args": [{"col": "body_mass_g"}, {"lit": 4000}]}
type jsonNode struct {
	Col *string `json:"col,omitempty"`
	// non-pointer RawMessage so a literal null stays distinguishable from
	// an absent key
	Lit  json.RawMessage `json:"lit,omitempty"`
	Fn   *string         `json:"fn,omitempty"`
	Args []jsonNode      `json:"args,omitempty"`
}

var (
	ErrEmptyExprNode = errors.New("expression node must set exactly one of col, lit, fn")

	binaryOpNames = map[string]BinaryOp{
		"add": OpAdd,
		"sub": OpSub,
		"mul": OpMul,
		"div": OpDiv,
		"gt":  OpGt,
		"gte": OpGte,
		"lt":  OpLt,
		"lte": OpLte,
		"eq":  OpEq,
		"neq": OpNeq,
		"and": OpAnd,
		"or":  OpOr,
	}
)

// FromJSON decodes a JSON expression tree
func FromJSON(raw []byte) (Expr, error) {
	var node jsonNode
	if err := json.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("error in json.Unmarshal: %w", err)
	}
	return node.build()
}

func (n *jsonNode) build() (Expr, error) {
	switch {
	case n.Col != nil:
		return Col(*n.Col), nil
	case len(n.Lit) > 0:
		return buildLit(n.Lit)
	case n.Fn != nil:
		return n.buildFn()
	default:
		return nil, ErrEmptyExprNode
	}
}

func buildLit(raw json.RawMessage) (Expr, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("error in json.Unmarshal of literal: %w", err)
	}
	switch tv := v.(type) {
	case nil:
		return &LitExpr{Value: Null()}, nil
	case float64:
		// JSON numbers without a fraction become ints so equality against
		// int columns behaves
		if tv == float64(int64(tv)) {
			return &LitExpr{Value: IntValue(int64(tv))}, nil
		}
		return &LitExpr{Value: FloatValue(tv)}, nil
	case string:
		return &LitExpr{Value: StringValue(tv)}, nil
	case bool:
		return &LitExpr{Value: BoolValue(tv)}, nil
	default:
		return nil, fmt.Errorf("unsupported literal %s", string(raw))
	}
}

func (n *jsonNode) buildFn() (Expr, error) {
	args := make([]Expr, len(n.Args))
	for i := range n.Args {
		built, err := n.Args[i].build()
		if err != nil {
			return nil, err
		}
		args[i] = built
	}

	name := *n.Fn
	if op, ok := binaryOpNames[name]; ok {
		if len(args) != 2 {
			return nil, fmt.Errorf("operator %s needs 2 args, got %d", name, len(args))
		}
		return &BinaryExpr{Left: args[0], Op: op, Right: args[1]}, nil
	}

	switch name {
	case "not":
		if len(args) != 1 {
			return nil, fmt.Errorf("not needs 1 arg, got %d", len(args))
		}
		return Not(args[0]), nil
	case "is_null":
		if len(args) != 1 {
			return nil, fmt.Errorf("is_null needs 1 arg, got %d", len(args))
		}
		return &IsNullExpr{Input: args[0]}, nil
	case "fill_null":
		if len(args) != 2 {
			return nil, fmt.Errorf("fill_null needs 2 args, got %d", len(args))
		}
		return FillNull(args[0], args[1]), nil
	}

	if _, ok := Functions[name]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrFuncNotFound, name)
	}
	return Func(name, args...), nil
}

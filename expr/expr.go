// Package expr is a small row-wise expression tree used by the frame verbs.
// Expressions evaluate to typed values carrying a null flag, and predicates
// follow three-valued logic: a comparison against a missing value is unknown,
// never true or false.
package expr

import (
	"fmt"
	"strings"
)

type Kind int

const (
	KindNull Kind = iota
	KindFloat
	KindInt
	KindString
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Value is a scalar produced by evaluating an expression against one row
type Value struct {
	Kind  Kind
	Float float64
	Int   int64
	Str   string
	Bool  bool
}

func Null() Value                { return Value{Kind: KindNull} }
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }
func IntValue(i int64) Value     { return Value{Kind: KindInt, Int: i} }
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }
func BoolValue(b bool) Value     { return Value{Kind: KindBool, Bool: b} }

func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// AsFloat coerces numeric values to float64
func (v Value) AsFloat() (float64, bool) {
	switch v.Kind {
	case KindFloat:
		return v.Float, true
	case KindInt:
		return float64(v.Int), true
	default:
		return 0, false
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindFloat:
		return fmt.Sprintf("%v", v.Float)
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	case KindString:
		return fmt.Sprintf("%q", v.Str)
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	default:
		return "unknown"
	}
}

// Row is one row of a table as seen by the evaluator. Value returns the cell
// for a named column, or an error when the column does not exist.
type Row interface {
	Value(column string) (Value, error)
}

// Expr is a lazy expression evaluated once per row
type Expr interface {
	String() string

	// Columns returns all column names referenced by this expression
	Columns() []string

	Eval(row Row) (Value, error)
}

// ColExpr references a column by name
type ColExpr struct {
	Name string
}

func Col(name string) *ColExpr {
	return &ColExpr{Name: name}
}

func (e *ColExpr) String() string    { return fmt.Sprintf("col(%q)", e.Name) }
func (e *ColExpr) Columns() []string { return []string{e.Name} }

func (e *ColExpr) Eval(row Row) (Value, error) {
	return row.Value(e.Name)
}

func (e *ColExpr) Add(other Expr) *BinaryExpr { return &BinaryExpr{Left: e, Op: OpAdd, Right: other} }
func (e *ColExpr) Sub(other Expr) *BinaryExpr { return &BinaryExpr{Left: e, Op: OpSub, Right: other} }
func (e *ColExpr) Mul(other Expr) *BinaryExpr { return &BinaryExpr{Left: e, Op: OpMul, Right: other} }
func (e *ColExpr) Div(other Expr) *BinaryExpr { return &BinaryExpr{Left: e, Op: OpDiv, Right: other} }

func (e *ColExpr) Gt(other Expr) *BinaryExpr  { return &BinaryExpr{Left: e, Op: OpGt, Right: other} }
func (e *ColExpr) Gte(other Expr) *BinaryExpr { return &BinaryExpr{Left: e, Op: OpGte, Right: other} }
func (e *ColExpr) Lt(other Expr) *BinaryExpr  { return &BinaryExpr{Left: e, Op: OpLt, Right: other} }
func (e *ColExpr) Lte(other Expr) *BinaryExpr { return &BinaryExpr{Left: e, Op: OpLte, Right: other} }
func (e *ColExpr) Eq(other Expr) *BinaryExpr  { return &BinaryExpr{Left: e, Op: OpEq, Right: other} }
func (e *ColExpr) Neq(other Expr) *BinaryExpr { return &BinaryExpr{Left: e, Op: OpNeq, Right: other} }

func (e *ColExpr) IsNull() *IsNullExpr { return &IsNullExpr{Input: e} }
func (e *ColExpr) FillNull(other Expr) *FillNullExpr {
	return &FillNullExpr{Input: e, Fill: other}
}

// LitExpr is a literal scalar
type LitExpr struct {
	Value Value
}

// Lit wraps a Go literal. Supported: nil, float64, float32, int, int64,
// int32, string, bool.
func Lit(v any) *LitExpr {
	switch tv := v.(type) {
	case nil:
		return &LitExpr{Value: Null()}
	case float64:
		return &LitExpr{Value: FloatValue(tv)}
	case float32:
		return &LitExpr{Value: FloatValue(float64(tv))}
	case int:
		return &LitExpr{Value: IntValue(int64(tv))}
	case int64:
		return &LitExpr{Value: IntValue(tv)}
	case int32:
		return &LitExpr{Value: IntValue(int64(tv))}
	case string:
		return &LitExpr{Value: StringValue(tv)}
	case bool:
		return &LitExpr{Value: BoolValue(tv)}
	default:
		panic(fmt.Sprintf("unsupported literal type %T", v))
	}
}

func (e *LitExpr) String() string    { return fmt.Sprintf("lit(%s)", e.Value) }
func (e *LitExpr) Columns() []string { return nil }

func (e *LitExpr) Add(other Expr) *BinaryExpr { return &BinaryExpr{Left: e, Op: OpAdd, Right: other} }
func (e *LitExpr) Sub(other Expr) *BinaryExpr { return &BinaryExpr{Left: e, Op: OpSub, Right: other} }
func (e *LitExpr) Mul(other Expr) *BinaryExpr { return &BinaryExpr{Left: e, Op: OpMul, Right: other} }
func (e *LitExpr) Div(other Expr) *BinaryExpr { return &BinaryExpr{Left: e, Op: OpDiv, Right: other} }

func (e *LitExpr) Gt(other Expr) *BinaryExpr  { return &BinaryExpr{Left: e, Op: OpGt, Right: other} }
func (e *LitExpr) Gte(other Expr) *BinaryExpr { return &BinaryExpr{Left: e, Op: OpGte, Right: other} }
func (e *LitExpr) Lt(other Expr) *BinaryExpr  { return &BinaryExpr{Left: e, Op: OpLt, Right: other} }
func (e *LitExpr) Lte(other Expr) *BinaryExpr { return &BinaryExpr{Left: e, Op: OpLte, Right: other} }
func (e *LitExpr) Eq(other Expr) *BinaryExpr  { return &BinaryExpr{Left: e, Op: OpEq, Right: other} }
func (e *LitExpr) Neq(other Expr) *BinaryExpr { return &BinaryExpr{Left: e, Op: OpNeq, Right: other} }

func (e *LitExpr) Eval(_ Row) (Value, error) {
	return e.Value, nil
}

// BinaryExpr applies an operator to two sub-expressions
type BinaryExpr struct {
	Left  Expr
	Op    BinaryOp
	Right Expr
}

func (e *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right)
}

func (e *BinaryExpr) Columns() []string {
	return mergeColumns(e.Left, e.Right)
}

func (e *BinaryExpr) Add(other Expr) *BinaryExpr { return &BinaryExpr{Left: e, Op: OpAdd, Right: other} }
func (e *BinaryExpr) Sub(other Expr) *BinaryExpr { return &BinaryExpr{Left: e, Op: OpSub, Right: other} }
func (e *BinaryExpr) Mul(other Expr) *BinaryExpr { return &BinaryExpr{Left: e, Op: OpMul, Right: other} }
func (e *BinaryExpr) Div(other Expr) *BinaryExpr { return &BinaryExpr{Left: e, Op: OpDiv, Right: other} }

func (e *BinaryExpr) Gt(other Expr) *BinaryExpr  { return &BinaryExpr{Left: e, Op: OpGt, Right: other} }
func (e *BinaryExpr) Gte(other Expr) *BinaryExpr { return &BinaryExpr{Left: e, Op: OpGte, Right: other} }
func (e *BinaryExpr) Lt(other Expr) *BinaryExpr  { return &BinaryExpr{Left: e, Op: OpLt, Right: other} }
func (e *BinaryExpr) Lte(other Expr) *BinaryExpr { return &BinaryExpr{Left: e, Op: OpLte, Right: other} }
func (e *BinaryExpr) Eq(other Expr) *BinaryExpr  { return &BinaryExpr{Left: e, Op: OpEq, Right: other} }
func (e *BinaryExpr) Neq(other Expr) *BinaryExpr { return &BinaryExpr{Left: e, Op: OpNeq, Right: other} }

// And and Or are package-level so predicates of any shape can be combined
func And(left, right Expr) *BinaryExpr { return &BinaryExpr{Left: left, Op: OpAnd, Right: right} }
func Or(left, right Expr) *BinaryExpr  { return &BinaryExpr{Left: left, Op: OpOr, Right: right} }

// NotExpr negates a boolean expression, passing unknown through
type NotExpr struct {
	Input Expr
}

func Not(input Expr) *NotExpr { return &NotExpr{Input: input} }

func (e *NotExpr) String() string    { return fmt.Sprintf("not(%s)", e.Input) }
func (e *NotExpr) Columns() []string { return e.Input.Columns() }

func (e *NotExpr) Eval(row Row) (Value, error) {
	v, err := e.Input.Eval(row)
	if err != nil {
		return Null(), err
	}
	if v.IsNull() {
		return Null(), nil
	}
	if v.Kind != KindBool {
		return Null(), fmt.Errorf("not: expected bool, got %s", v.Kind)
	}
	return BoolValue(!v.Bool), nil
}

// IsNullExpr tests for a missing value. Always true or false, never unknown.
type IsNullExpr struct {
	Input Expr
}

func (e *IsNullExpr) String() string    { return fmt.Sprintf("is_null(%s)", e.Input) }
func (e *IsNullExpr) Columns() []string { return e.Input.Columns() }

func (e *IsNullExpr) Eval(row Row) (Value, error) {
	v, err := e.Input.Eval(row)
	if err != nil {
		return Null(), err
	}
	return BoolValue(v.IsNull()), nil
}

// FillNullExpr substitutes the fill expression when the input is missing.
// This is the explicit escape hatch from missing-value propagation.
type FillNullExpr struct {
	Input Expr
	Fill  Expr
}

func FillNull(input, fill Expr) *FillNullExpr { return &FillNullExpr{Input: input, Fill: fill} }

func (e *FillNullExpr) String() string    { return fmt.Sprintf("fill_null(%s, %s)", e.Input, e.Fill) }
func (e *FillNullExpr) Columns() []string { return mergeColumns(e.Input, e.Fill) }

func (e *FillNullExpr) Eval(row Row) (Value, error) {
	v, err := e.Input.Eval(row)
	if err != nil {
		return Null(), err
	}
	if !v.IsNull() {
		return v, nil
	}
	return e.Fill.Eval(row)
}

// FuncExpr calls a registered scalar function
type FuncExpr struct {
	Name string
	Args []Expr
}

func Func(name string, args ...Expr) *FuncExpr {
	return &FuncExpr{Name: name, Args: args}
}

func (e *FuncExpr) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", e.Name, strings.Join(parts, ", "))
}

func (e *FuncExpr) Columns() []string {
	var cols []string
	seen := make(map[string]bool)
	for _, a := range e.Args {
		for _, c := range a.Columns() {
			if !seen[c] {
				seen[c] = true
				cols = append(cols, c)
			}
		}
	}
	return cols
}

func (e *FuncExpr) Eval(row Row) (Value, error) {
	f, ok := Functions[e.Name]
	if !ok {
		return Null(), ErrFuncNotFound
	}
	args := make([]Value, len(e.Args))
	for i, a := range e.Args {
		v, err := a.Eval(row)
		if err != nil {
			return Null(), err
		}
		args[i] = v
	}
	v, err := f(args)
	if err != nil {
		return Null(), fmt.Errorf("error in scalar function %s: %w", e.Name, err)
	}
	return v, nil
}

func mergeColumns(exprs ...Expr) []string {
	var cols []string
	seen := make(map[string]bool)
	for _, e := range exprs {
		for _, c := range e.Columns() {
			if !seen[c] {
				seen[c] = true
				cols = append(cols, c)
			}
		}
	}
	return cols
}

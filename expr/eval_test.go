package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapRow backs the evaluator with a plain map for tests
type mapRow map[string]Value

func (r mapRow) Value(column string) (Value, error) {
	v, ok := r[column]
	if !ok {
		return Null(), errColNotFound(column)
	}
	return v, nil
}

type errColNotFound string

func (e errColNotFound) Error() string { return "column not found: " + string(e) }

func TestArithmetic(t *testing.T) {
	row := mapRow{
		"f": FloatValue(10),
		"i": IntValue(4),
		"n": Null(),
	}

	v, err := Col("f").Add(Lit(2.5)).Eval(row)
	require.NoError(t, err)
	assert.Equal(t, FloatValue(12.5), v)

	// int op int stays int
	v, err = Col("i").Mul(Lit(3)).Eval(row)
	require.NoError(t, err)
	assert.Equal(t, IntValue(12), v)

	// int mixed with float widens
	v, err = Col("i").Add(Col("f")).Eval(row)
	require.NoError(t, err)
	assert.Equal(t, FloatValue(14), v)

	// division always yields float
	v, err = Col("i").Div(Lit(2)).Eval(row)
	require.NoError(t, err)
	assert.Equal(t, FloatValue(2), v)

	// missing propagates, never errors
	v, err = Col("n").Add(Lit(1)).Eval(row)
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestDivisionByZeroIsMissing(t *testing.T) {
	v, err := Lit(1.0).Div(Lit(0)).Eval(mapRow{})
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestComparisons(t *testing.T) {
	row := mapRow{
		"mass": FloatValue(4000),
		"sex":  StringValue("male"),
		"n":    Null(),
	}

	v, err := Col("mass").Gt(Lit(3000)).Eval(row)
	require.NoError(t, err)
	assert.Equal(t, BoolValue(true), v)

	v, err = Col("sex").Eq(Lit("female")).Eval(row)
	require.NoError(t, err)
	assert.Equal(t, BoolValue(false), v)

	// comparing against missing is unknown, not false
	v, err = Col("n").Eq(Col("n")).Eval(row)
	require.NoError(t, err)
	assert.True(t, v.IsNull())

	_, err = Col("sex").Gt(Lit(1)).Eval(row)
	require.Error(t, err)
}

func TestKleeneLogic(t *testing.T) {
	row := mapRow{
		"t": BoolValue(true),
		"f": BoolValue(false),
		"n": Null(),
	}

	cases := []struct {
		name string
		e    Expr
		want Value
	}{
		{"true and null", And(Col("t"), Col("n")), Null()},
		{"false and null", And(Col("f"), Col("n")), BoolValue(false)},
		{"true or null", Or(Col("t"), Col("n")), BoolValue(true)},
		{"false or null", Or(Col("f"), Col("n")), Null()},
		{"not null", Not(Col("n")), Null()},
		{"not false", Not(Col("f")), BoolValue(true)},
	}
	for _, c := range cases {
		v, err := c.e.Eval(row)
		require.NoError(t, err, c.name)
		assert.Equal(t, c.want, v, c.name)
	}
}

func TestIsNullNeverUnknown(t *testing.T) {
	row := mapRow{"n": Null(), "x": FloatValue(1)}

	v, err := Col("n").IsNull().Eval(row)
	require.NoError(t, err)
	assert.Equal(t, BoolValue(true), v)

	v, err = Col("x").IsNull().Eval(row)
	require.NoError(t, err)
	assert.Equal(t, BoolValue(false), v)
}

func TestFillNull(t *testing.T) {
	row := mapRow{"n": Null(), "x": FloatValue(1)}

	v, err := Col("n").FillNull(Lit(0.0)).Eval(row)
	require.NoError(t, err)
	assert.Equal(t, FloatValue(0), v)

	v, err = Col("x").FillNull(Lit(0.0)).Eval(row)
	require.NoError(t, err)
	assert.Equal(t, FloatValue(1), v)
}

func TestColumnsDeduplicates(t *testing.T) {
	e := Col("a").Add(Col("b")).Mul(Col("a"))
	assert.Equal(t, []string{"a", "b"}, e.Columns())
}

func TestUnknownColumnSurfaces(t *testing.T) {
	_, err := Col("ghost").Add(Lit(1)).Eval(mapRow{})
	require.Error(t, err)
}

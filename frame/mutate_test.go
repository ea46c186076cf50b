package frame

import (
	"errors"
	"testing"

	"github.com/floedata/floe/expr"
	"github.com/floedata/floe/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutateAddsColumn(t *testing.T) {
	tbl := MustNew(
		Strings("species", "A", "B"),
		Floats("body_mass_g", 4000, 5000),
	)

	out, err := tbl.Mutate(Mutation{
		Name: "body_mass_kg",
		Expr: expr.Col("body_mass_g").Div(expr.Lit(1000.0)),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"species", "body_mass_g", "body_mass_kg"}, out.ColumnNames())
	assert.Equal(t, tbl.NumRows(), out.NumRows())

	kg, _ := out.Column("body_mass_kg")
	assert.Equal(t, 4.0, kg.Float(0))
	assert.Equal(t, 5.0, kg.Float(1))

	// original table keeps its schema
	assert.Equal(t, []string{"species", "body_mass_g"}, tbl.ColumnNames())
}

func TestMutateMissingPropagates(t *testing.T) {
	tbl := MustNew(
		FloatsPtr("mass", utils.Ptr(4000.0), nil),
	)

	out, err := tbl.Mutate(Mutation{
		Name: "double",
		Expr: expr.Col("mass").Mul(expr.Lit(2.0)),
	})
	require.NoError(t, err)

	d, _ := out.Column("double")
	assert.Equal(t, 8000.0, d.Float(0))
	assert.True(t, d.IsMissing(1))
}

func TestMutateFillNullEscapeHatch(t *testing.T) {
	tbl := MustNew(
		FloatsPtr("mass", utils.Ptr(4000.0), nil),
	)

	out, err := tbl.Mutate(Mutation{
		Name: "mass_filled",
		Expr: expr.FillNull(expr.Col("mass"), expr.Lit(0.0)),
	})
	require.NoError(t, err)

	f, _ := out.Column("mass_filled")
	assert.Equal(t, 4000.0, f.Float(0))
	assert.Equal(t, 0.0, f.Float(1))
	assert.False(t, f.IsMissing(1))
}

func TestMutateSeesEarlierMutations(t *testing.T) {
	tbl := MustNew(Floats("x", 2, 3))

	out, err := tbl.Mutate(
		Mutation{Name: "y", Expr: expr.Col("x").Mul(expr.Lit(10.0))},
		Mutation{Name: "z", Expr: expr.Col("y").Add(expr.Lit(1.0))},
	)
	require.NoError(t, err)

	z, _ := out.Column("z")
	assert.Equal(t, 21.0, z.Float(0))
	assert.Equal(t, 31.0, z.Float(1))
}

func TestMutateReplacesOnCollision(t *testing.T) {
	tbl := MustNew(
		Floats("x", 2, 3),
		Strings("tag", "a", "b"),
	)

	out, err := tbl.Mutate(Mutation{Name: "x", Expr: expr.Col("x").Mul(expr.Lit(2.0))})
	require.NoError(t, err)

	// replaced in place, order unchanged
	assert.Equal(t, []string{"x", "tag"}, out.ColumnNames())
	x, _ := out.Column("x")
	assert.Equal(t, 4.0, x.Float(0))

	// source still holds the old values
	origX, _ := tbl.Column("x")
	assert.Equal(t, 2.0, origX.Float(0))
}

func TestMutateIntArithmeticStaysInt(t *testing.T) {
	tbl := MustNew(Ints("year", 2007, 2009))

	out, err := tbl.Mutate(Mutation{
		Name: "years_since",
		Expr: expr.Lit(int64(2024)).Sub(expr.Col("year")),
	})
	require.NoError(t, err)

	ys, _ := out.Column("years_since")
	assert.Equal(t, Int64, ys.DType())
	assert.Equal(t, int64(17), ys.Int(0))
	assert.Equal(t, int64(15), ys.Int(1))
}

func TestMutateSchemaError(t *testing.T) {
	tbl := MustNew(Floats("x", 1))

	_, err := tbl.Mutate(Mutation{Name: "y", Expr: expr.Col("nope").Add(expr.Lit(1.0))})
	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "nope", se.Column)
}

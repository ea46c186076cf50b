package frame

import (
	"errors"
	"testing"

	"github.com/floedata/floe/expr"
	"github.com/floedata/floe/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterKeepsMatchingRows(t *testing.T) {
	tbl := MustNew(
		Strings("species", "A", "A", "B"),
		Floats("mass", 10, 20, 30),
	)

	out, err := tbl.Filter(expr.Col("mass").Gt(expr.Lit(15.0)))
	require.NoError(t, err)
	require.Equal(t, 2, out.NumRows())

	species, _ := out.Column("species")
	assert.Equal(t, "A", species.Str(0))
	assert.Equal(t, "B", species.Str(1))

	// input untouched
	assert.Equal(t, 3, tbl.NumRows())
}

func TestFilterUnknownExcluded(t *testing.T) {
	tbl := MustNew(
		Strings("species", "A", "B", "C"),
		FloatsPtr("mass", utils.Ptr(10.0), nil, utils.Ptr(30.0)),
	)

	// the missing mass compares unknown, so B drops even though
	// "not greater" would arguably hold
	out, err := tbl.Filter(expr.Col("mass").Gt(expr.Lit(5.0)))
	require.NoError(t, err)
	require.Equal(t, 2, out.NumRows())

	species, _ := out.Column("species")
	assert.Equal(t, "A", species.Str(0))
	assert.Equal(t, "C", species.Str(1))
}

func TestFilterIdempotent(t *testing.T) {
	tbl := MustNew(
		Strings("species", "A", "A", "B"),
		FloatsPtr("mass", utils.Ptr(10.0), utils.Ptr(20.0), nil),
	)
	pred := expr.Col("mass").Gte(expr.Lit(10.0))

	once, err := tbl.Filter(pred)
	require.NoError(t, err)
	twice, err := once.Filter(pred)
	require.NoError(t, err)

	assert.True(t, once.Equal(twice))
}

func TestFilterSchemaError(t *testing.T) {
	tbl := MustNew(Strings("species", "A"))

	_, err := tbl.Filter(expr.Col("mass").Gt(expr.Lit(1)))
	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "mass", se.Column)
}

func TestFilterThreeValuedLogic(t *testing.T) {
	tbl := MustNew(
		Strings("id", "both", "left_missing", "right_false"),
		FloatsPtr("a", utils.Ptr(1.0), nil, utils.Ptr(1.0)),
		Floats("b", 1, 1, 99),
	)

	// a < 2 and b < 2: unknown and true is unknown, so only "both" stays
	out, err := tbl.Filter(expr.And(
		expr.Col("a").Lt(expr.Lit(2.0)),
		expr.Col("b").Lt(expr.Lit(2.0)),
	))
	require.NoError(t, err)
	require.Equal(t, 1, out.NumRows())

	// unknown or true is true, so left_missing comes back
	out, err = tbl.Filter(expr.Or(
		expr.Col("a").Lt(expr.Lit(2.0)),
		expr.Col("b").Lt(expr.Lit(2.0)),
	))
	require.NoError(t, err)
	require.Equal(t, 2, out.NumRows())
}

func TestFilterIsNullPredicate(t *testing.T) {
	tbl := MustNew(
		Strings("species", "A", "B"),
		FloatsPtr("mass", utils.Ptr(10.0), nil),
	)

	out, err := tbl.Filter(expr.Col("mass").IsNull())
	require.NoError(t, err)
	require.Equal(t, 1, out.NumRows())
	species, _ := out.Column("species")
	assert.Equal(t, "B", species.Str(0))
}

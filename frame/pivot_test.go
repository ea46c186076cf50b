package frame

import (
	"errors"
	"testing"

	"github.com/floedata/floe/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func widePenguinMeasures() *Table {
	return MustNew(
		Ints("id", 1, 2),
		Floats("x", 5, 7),
		Floats("y", 1, 2),
	)
}

func TestPivotLonger(t *testing.T) {
	long, err := widePenguinMeasures().PivotLonger([]string{"x", "y"}, "name", "value")
	require.NoError(t, err)

	// rows_out = rows_in * collapsed columns
	require.Equal(t, 4, long.NumRows())
	assert.Equal(t, []string{"id", "name", "value"}, long.ColumnNames())

	id, _ := long.Column("id")
	name, _ := long.Column("name")
	value, _ := long.Column("value")

	expect := []struct {
		id    int64
		name  string
		value float64
	}{
		{1, "x", 5},
		{1, "y", 1},
		{2, "x", 7},
		{2, "y", 2},
	}
	for i, e := range expect {
		assert.Equal(t, e.id, id.Int(i), "row %d", i)
		assert.Equal(t, e.name, name.Str(i), "row %d", i)
		assert.Equal(t, e.value, value.Float(i), "row %d", i)
	}
}

func TestPivotLongerPreservesMissing(t *testing.T) {
	tbl := MustNew(
		Ints("id", 1),
		FloatsPtr("x", nil),
		Floats("y", 2),
	)

	long, err := tbl.PivotLonger([]string{"x", "y"}, "name", "value")
	require.NoError(t, err)

	value, _ := long.Column("value")
	assert.True(t, value.IsMissing(0))
	assert.Equal(t, 2.0, value.Float(1))
}

func TestPivotLongerMixedNumericWidens(t *testing.T) {
	tbl := MustNew(
		Ints("id", 1),
		Ints("x", 5),
		Floats("y", 1.5),
	)

	long, err := tbl.PivotLonger([]string{"x", "y"}, "name", "value")
	require.NoError(t, err)

	value, _ := long.Column("value")
	assert.Equal(t, Float64, value.DType())
	assert.Equal(t, 5.0, value.Float(0))
	assert.Equal(t, 1.5, value.Float(1))
}

func TestPivotLongerErrors(t *testing.T) {
	tbl := widePenguinMeasures()

	_, err := tbl.PivotLonger(nil, "name", "value")
	require.ErrorIs(t, err, ErrEmptyPivotSet)

	_, err = tbl.PivotLonger([]string{"x", "nope"}, "name", "value")
	var se *SchemaError
	require.True(t, errors.As(err, &se))

	_, err = tbl.PivotLonger([]string{"x", "y"}, "id", "value")
	require.ErrorIs(t, err, ErrNameCollision)

	_, err = MustNew(
		Ints("id", 1),
		Strings("x", "hey"),
		Floats("y", 1),
	).PivotLonger([]string{"x", "y"}, "name", "value")
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestPivotWiderRoundTrip(t *testing.T) {
	wide := widePenguinMeasures()

	long, err := wide.PivotLonger([]string{"x", "y"}, "name", "value")
	require.NoError(t, err)

	back, err := long.PivotWider(WiderSpec{NamesFrom: "name", ValuesFrom: "value"})
	require.NoError(t, err)

	assert.True(t, wide.Equal(back))
}

func TestPivotWiderAbsentPairIsMissing(t *testing.T) {
	long := MustNew(
		Ints("id", 1, 1, 2),
		Strings("name", "x", "y", "x"),
		Floats("value", 5, 1, 7),
	)

	wide, err := long.PivotWider(WiderSpec{NamesFrom: "name", ValuesFrom: "value"})
	require.NoError(t, err)

	require.Equal(t, 2, wide.NumRows())
	y, _ := wide.Column("y")
	assert.Equal(t, 1.0, y.Float(0))
	assert.True(t, y.IsMissing(1))
}

func TestPivotWiderDuplicateCellErrors(t *testing.T) {
	long := MustNew(
		Ints("id", 1, 1),
		Strings("name", "x", "x"),
		Floats("value", 5, 6),
	)

	_, err := long.PivotWider(WiderSpec{NamesFrom: "name", ValuesFrom: "value"})
	var ape *AmbiguousPivotError
	require.True(t, errors.As(err, &ape))
	assert.Equal(t, "x", ape.Name)
	assert.Equal(t, 2, ape.Count)
}

func TestPivotWiderCollapseResolvesDuplicates(t *testing.T) {
	long := MustNew(
		Ints("id", 1, 1, 2),
		Strings("name", "x", "x", "x"),
		Floats("value", 5, 7, 9),
	)

	wide, err := long.PivotWider(WiderSpec{
		NamesFrom:  "name",
		ValuesFrom: "value",
		Collapse:   AggMean,
	})
	require.NoError(t, err)

	x, _ := wide.Column("x")
	assert.Equal(t, 6.0, x.Float(0))
	assert.Equal(t, 9.0, x.Float(1))
}

func TestPivotWiderExplicitIDColumns(t *testing.T) {
	long := MustNew(
		Ints("id", 1, 1),
		Strings("extra", "keep", "keep"),
		Strings("name", "x", "y"),
		Floats("value", 5, 1),
	)

	wide, err := long.PivotWider(WiderSpec{
		NamesFrom:  "name",
		ValuesFrom: "value",
		IDColumns:  []string{"id"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "x", "y"}, wide.ColumnNames())
}

func TestPivotWiderMissingNameErrors(t *testing.T) {
	long := MustNew(
		Ints("id", 1),
		StringsPtr("name", nil),
		Floats("value", 5),
	)

	_, err := long.PivotWider(WiderSpec{NamesFrom: "name", ValuesFrom: "value"})
	require.Error(t, err)
}

func TestPivotRoundTripWithMissingValues(t *testing.T) {
	wide := MustNew(
		Strings("species", "A", "B"),
		FloatsPtr("bill", utils.Ptr(39.1), nil),
		FloatsPtr("flipper", utils.Ptr(181.0), utils.Ptr(192.0)),
	)

	long, err := wide.PivotLonger([]string{"bill", "flipper"}, "measure", "mm")
	require.NoError(t, err)
	require.Equal(t, 4, long.NumRows())

	back, err := long.PivotWider(WiderSpec{NamesFrom: "measure", ValuesFrom: "mm"})
	require.NoError(t, err)

	assert.True(t, wide.Equal(back))
}

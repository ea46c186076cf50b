package frame

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidation(t *testing.T) {
	_, err := New(
		Strings("a", "x", "y"),
		Floats("a", 1, 2),
	)
	require.ErrorIs(t, err, ErrDuplicateColumn)

	_, err = New(
		Strings("a", "x", "y"),
		Floats("b", 1, 2, 3),
	)
	require.ErrorIs(t, err, ErrLengthMismatch)
}

func TestColumnLookup(t *testing.T) {
	tbl := MustNew(
		Strings("species", "A", "B"),
		Floats("mass", 10, 20),
	)

	c, err := tbl.Column("mass")
	require.NoError(t, err)
	assert.Equal(t, Float64, c.DType())
	assert.Equal(t, 20.0, c.Float(1))

	_, err = tbl.Column("masss")
	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "masss", se.Column)
}

func TestMissingMarkers(t *testing.T) {
	mass := 10.0
	c := FloatsPtr("mass", &mass, nil)
	assert.False(t, c.IsMissing(0))
	assert.True(t, c.IsMissing(1))
	assert.Equal(t, 10.0, c.Value(0))
	assert.Nil(t, c.Value(1))
}

func TestSelect(t *testing.T) {
	tbl := MustNew(
		Strings("a", "x"),
		Floats("b", 1),
		Ints("c", 2),
	)

	sub, err := tbl.Select("c", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, sub.ColumnNames())

	_, err = tbl.Select("nope")
	var se *SchemaError
	require.True(t, errors.As(err, &se))
}

func TestEqual(t *testing.T) {
	a := MustNew(Strings("s", "x"), FloatsPtr("v", nil))
	b := MustNew(Strings("s", "x"), FloatsPtr("v", nil))
	c := MustNew(Strings("s", "x"), Floats("v", 0))

	assert.True(t, a.Equal(b))
	// a missing cell is not equal to a real zero
	assert.False(t, a.Equal(c))
}

func TestBuilderPromotion(t *testing.T) {
	b := NewBuilder("v")
	require.NoError(t, b.AppendInt(1))
	require.NoError(t, b.AppendFloat(2.5))
	b.AppendMissing()
	col := b.Finish()

	assert.Equal(t, Float64, col.DType())
	assert.Equal(t, 1.0, col.Float(0))
	assert.Equal(t, 2.5, col.Float(1))
	assert.True(t, col.IsMissing(2))
}

func TestBuilderTypeConflict(t *testing.T) {
	b := NewBuilder("v")
	require.NoError(t, b.AppendString("hey"))
	err := b.AppendFloat(1)
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestBuilderAllMissingDefaultsToFloat(t *testing.T) {
	b := NewBuilder("v")
	b.AppendMissing()
	b.AppendMissing()
	col := b.Finish()

	assert.Equal(t, Float64, col.DType())
	assert.Equal(t, 2, col.Len())
	assert.True(t, col.IsMissing(0))
	assert.True(t, col.IsMissing(1))
}

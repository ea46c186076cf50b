package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromJSONPredicate(t *testing.T) {
	e, err := FromJSON([]byte(`{"fn":"and","args":[
		{"fn":"gt","args":[{"col":"body_mass_g"},{"lit":4000}]},
		{"fn":"eq","args":[{"col":"species"},{"lit":"Gentoo"}]}
	]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"body_mass_g", "species"}, e.Columns())

	v, err := e.Eval(mapRow{
		"body_mass_g": FloatValue(5100),
		"species":     StringValue("Gentoo"),
	})
	require.NoError(t, err)
	assert.Equal(t, BoolValue(true), v)
}

func TestFromJSONLiterals(t *testing.T) {
	cases := []struct {
		raw  string
		want Value
	}{
		{`{"lit": 5}`, IntValue(5)},
		{`{"lit": 5.5}`, FloatValue(5.5)},
		{`{"lit": "hey"}`, StringValue("hey")},
		{`{"lit": true}`, BoolValue(true)},
		{`{"lit": null}`, Null()},
	}
	for _, c := range cases {
		e, err := FromJSON([]byte(c.raw))
		require.NoError(t, err, c.raw)
		v, err := e.Eval(mapRow{})
		require.NoError(t, err, c.raw)
		assert.Equal(t, c.want, v, c.raw)
	}
}

func TestFromJSONScalarFunc(t *testing.T) {
	e, err := FromJSON([]byte(`{"fn":"year","args":[{"col":"t"}]}`))
	require.NoError(t, err)

	v, err := e.Eval(mapRow{"t": StringValue("2022-01-24T00:00:00.000Z")})
	require.NoError(t, err)
	assert.Equal(t, IntValue(2022), v)
}

func TestFromJSONErrors(t *testing.T) {
	_, err := FromJSON([]byte(`{}`))
	require.ErrorIs(t, err, ErrEmptyExprNode)

	_, err = FromJSON([]byte(`{"fn":"gt","args":[{"col":"x"}]}`))
	require.Error(t, err)

	_, err = FromJSON([]byte(`{"fn":"no_such_fn","args":[]}`))
	require.ErrorIs(t, err, ErrFuncNotFound)
}

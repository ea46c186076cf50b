package pipeline

import (
	"encoding/json"
	"testing"

	"github.com/floedata/floe/frame"
	"github.com/floedata/floe/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() *frame.Table {
	return frame.MustNew(
		frame.Strings("species", "Adelie", "Adelie", "Gentoo", "Gentoo"),
		frame.FloatsPtr("mass", utils.Ptr(3750.0), nil, utils.Ptr(5000.0), utils.Ptr(5400.0)),
	)
}

func decode(t *testing.T, raw string) Pipeline {
	t.Helper()
	var p Pipeline
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return p
}

func TestApplyFilterMutateSummarize(t *testing.T) {
	p := decode(t, `{"ops": [
		{"op": "filter", "expr": {"fn": "gt", "args": [{"col": "mass"}, {"lit": 3000}]}},
		{"op": "mutate", "mutations": [
			{"name": "mass_kg", "expr": {"fn": "div", "args": [{"col": "mass"}, {"lit": 1000}]}}
		]},
		{"op": "group_summarize", "group_by": ["species"], "aggs": [
			{"name": "n", "kind": "count"},
			{"name": "mean_kg", "column": "mass_kg", "kind": "mean"}
		]}
	]}`)

	out, err := Apply(fixture(), p)
	require.NoError(t, err)
	require.Equal(t, []string{"species", "n", "mean_kg"}, out.ColumnNames())
	require.Equal(t, 2, out.NumRows())

	meanKg, err := out.Column("mean_kg")
	require.NoError(t, err)
	assert.Equal(t, 3.75, meanKg.Float(0))
	assert.Equal(t, 5.2, meanKg.Float(1))
}

func TestApplyPivotRoundTrip(t *testing.T) {
	wide := frame.MustNew(
		frame.Strings("species", "Adelie", "Gentoo"),
		frame.Floats("bill", 39.1, 46.1),
		frame.Floats("flipper", 181, 211),
	)

	long := decode(t, `{"ops": [
		{"op": "pivot_longer", "columns": ["bill", "flipper"], "names_to": "part", "values_to": "mm"}
	]}`)
	longer, err := Apply(wide, long)
	require.NoError(t, err)
	require.Equal(t, 4, longer.NumRows())

	back := decode(t, `{"ops": [
		{"op": "pivot_wider", "names_from": "part", "values_from": "mm"}
	]}`)
	rebuilt, err := Apply(longer, back)
	require.NoError(t, err)
	assert.True(t, rebuilt.Equal(wide))
}

func TestApplyPivotWiderCollapse(t *testing.T) {
	long := frame.MustNew(
		frame.Strings("species", "Adelie", "Adelie", "Gentoo"),
		frame.Strings("stat", "mass", "mass", "mass"),
		frame.Floats("val", 3700, 3800, 5000),
	)

	// duplicate (species, stat) pairs need a collapse aggregation
	_, err := Apply(long, decode(t, `{"ops": [
		{"op": "pivot_wider", "names_from": "stat", "values_from": "val"}
	]}`))
	var ape *frame.AmbiguousPivotError
	require.ErrorAs(t, err, &ape)

	out, err := Apply(long, decode(t, `{"ops": [
		{"op": "pivot_wider", "names_from": "stat", "values_from": "val", "collapse": "mean"}
	]}`))
	require.NoError(t, err)
	mass, err := out.Column("mass")
	require.NoError(t, err)
	assert.Equal(t, 3750.0, mass.Float(0))
}

func TestApplyUnknownOp(t *testing.T) {
	_, err := Apply(fixture(), decode(t, `{"ops": [{"op": "explode"}]}`))
	assert.ErrorIs(t, err, ErrUnknownOp)
}

func TestApplyUnknownAggKind(t *testing.T) {
	_, err := Apply(fixture(), decode(t, `{"ops": [
		{"op": "group_summarize", "group_by": ["species"], "aggs": [{"name": "x", "column": "mass", "kind": "median"}]}
	]}`))
	assert.ErrorIs(t, err, ErrUnknownAggKind)
}

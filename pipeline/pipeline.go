// Package pipeline decodes JSON transform pipelines and applies them to
// tables. A pipeline is an ordered list of ops, each op produces a new table
// from the previous one.
package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/floedata/floe/expr"
	"github.com/floedata/floe/frame"
)

var (
	ErrUnknownOp      = errors.New("unknown op")
	ErrUnknownAggKind = errors.New("unknown aggregation kind")
)

type (
	Pipeline struct {
		Ops []Op `json:"ops" validate:"required,min=1"`
	}

	Op struct {
		Op string `json:"op" validate:"required"`

		// filter
		Expr json.RawMessage `json:"expr,omitempty"`

		// mutate
		Mutations []MutationSpec `json:"mutations,omitempty"`

		// group_summarize
		GroupBy []string  `json:"group_by,omitempty"`
		Aggs    []AggSpec `json:"aggs,omitempty"`

		// pivot_longer
		Columns  []string `json:"columns,omitempty"`
		NamesTo  string   `json:"names_to,omitempty"`
		ValuesTo string   `json:"values_to,omitempty"`

		// pivot_wider
		NamesFrom           string   `json:"names_from,omitempty"`
		ValuesFrom          string   `json:"values_from,omitempty"`
		IDColumns           []string `json:"id_columns,omitempty"`
		Collapse            string   `json:"collapse,omitempty"`
		CollapseSkipMissing bool     `json:"collapse_skip_missing,omitempty"`
	}

	MutationSpec struct {
		Name string          `json:"name" validate:"required"`
		Expr json.RawMessage `json:"expr" validate:"required"`
	}

	AggSpec struct {
		Name        string `json:"name" validate:"required"`
		Column      string `json:"column,omitempty"`
		Kind        string `json:"kind" validate:"required"`
		SkipMissing bool   `json:"skip_missing,omitempty"`
	}
)

// Apply runs every op in order against t and returns the final table
func Apply(t *frame.Table, p Pipeline) (*frame.Table, error) {
	out := t
	for i, op := range p.Ops {
		next, err := applyOp(out, op)
		if err != nil {
			return nil, fmt.Errorf("error in op %d (%s): %w", i, op.Op, err)
		}
		out = next
	}
	return out, nil
}

func applyOp(t *frame.Table, op Op) (*frame.Table, error) {
	switch op.Op {
	case "filter":
		pred, err := expr.FromJSON(op.Expr)
		if err != nil {
			return nil, fmt.Errorf("error in expr.FromJSON: %w", err)
		}
		return t.Filter(pred)
	case "mutate":
		muts := make([]frame.Mutation, len(op.Mutations))
		for i, m := range op.Mutations {
			ex, err := expr.FromJSON(m.Expr)
			if err != nil {
				return nil, fmt.Errorf("error in expr.FromJSON for %q: %w", m.Name, err)
			}
			muts[i] = frame.Mutation{Name: m.Name, Expr: ex}
		}
		return t.Mutate(muts...)
	case "group_summarize":
		aggs := make([]frame.Aggregation, len(op.Aggs))
		for i, a := range op.Aggs {
			agg, err := buildAgg(a)
			if err != nil {
				return nil, err
			}
			aggs[i] = agg
		}
		g, err := t.GroupBy(op.GroupBy...)
		if err != nil {
			return nil, err
		}
		return g.Summarize(aggs...)
	case "pivot_longer":
		return t.PivotLonger(op.Columns, op.NamesTo, op.ValuesTo)
	case "pivot_wider":
		spec := frame.WiderSpec{
			NamesFrom:  op.NamesFrom,
			ValuesFrom: op.ValuesFrom,
			IDColumns:  op.IDColumns,
		}
		if op.Collapse != "" {
			kind, err := parseAggKind(op.Collapse)
			if err != nil {
				return nil, err
			}
			spec.Collapse = kind
			spec.CollapseIgnoreMissing = op.CollapseSkipMissing
		}
		return t.PivotWider(spec)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOp, op.Op)
	}
}

func buildAgg(a AggSpec) (frame.Aggregation, error) {
	kind, err := parseAggKind(a.Kind)
	if err != nil {
		return frame.Aggregation{}, err
	}
	agg := frame.Aggregation{
		Name:          a.Name,
		Column:        a.Column,
		Kind:          kind,
		IgnoreMissing: a.SkipMissing,
	}
	return agg, nil
}

func parseAggKind(s string) (frame.AggKind, error) {
	switch s {
	case "count":
		return frame.AggCount, nil
	case "sum":
		return frame.AggSum, nil
	case "mean":
		return frame.AggMean, nil
	case "min":
		return frame.AggMin, nil
	case "max":
		return frame.AggMax, nil
	case "first":
		return frame.AggFirst, nil
	case "last":
		return frame.AggLast, nil
	default:
		return frame.AggNone, fmt.Errorf("%w: %q", ErrUnknownAggKind, s)
	}
}

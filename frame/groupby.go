package frame

import (
	"fmt"
	"strings"

	"github.com/floedata/floe/expr"
)

type AggKind int

const (
	AggNone AggKind = iota
	AggCount
	AggSum
	AggMean
	AggMin
	AggMax
	AggFirst
	AggLast
)

func (k AggKind) String() string {
	switch k {
	case AggCount:
		return "count"
	case AggSum:
		return "sum"
	case AggMean:
		return "mean"
	case AggMin:
		return "min"
	case AggMax:
		return "max"
	case AggFirst:
		return "first"
	case AggLast:
		return "last"
	default:
		return "none"
	}
}

// Aggregation reduces one column to a scalar per group. Aggregates are
// missing-sensitive by default: one missing value in the group makes the
// whole result missing. SkipMissing() opts out explicitly.
type Aggregation struct {
	Name          string
	Column        string
	Kind          AggKind
	IgnoreMissing bool
}

func Count(name string) Aggregation { return Aggregation{Name: name, Kind: AggCount} }

func Sum(name, column string) Aggregation {
	return Aggregation{Name: name, Column: column, Kind: AggSum}
}

func Mean(name, column string) Aggregation {
	return Aggregation{Name: name, Column: column, Kind: AggMean}
}

func Min(name, column string) Aggregation {
	return Aggregation{Name: name, Column: column, Kind: AggMin}
}

func Max(name, column string) Aggregation {
	return Aggregation{Name: name, Column: column, Kind: AggMax}
}

func First(name, column string) Aggregation {
	return Aggregation{Name: name, Column: column, Kind: AggFirst}
}

func Last(name, column string) Aggregation {
	return Aggregation{Name: name, Column: column, Kind: AggLast}
}

// SkipMissing returns a copy of the aggregation that ignores missing values
// instead of propagating them
func (a Aggregation) SkipMissing() Aggregation {
	a.IgnoreMissing = true
	return a
}

// Grouped is a table partitioned by key columns, waiting for Summarize
type Grouped struct {
	t    *Table
	keys []string
}

func (t *Table) GroupBy(keys ...string) (*Grouped, error) {
	if err := t.checkColumns(keys); err != nil {
		return nil, err
	}
	return &Grouped{t: t, keys: keys}, nil
}

// Summarize reduces each group to one output row: the key columns followed
// by one column per aggregation. Groups appear in order of first appearance
// of their key tuple. Zero input rows yield zero groups.
func (g *Grouped) Summarize(aggs ...Aggregation) (*Table, error) {
	t := g.t

	usedNames := make(map[string]bool, len(g.keys)+len(aggs))
	for _, k := range g.keys {
		usedNames[k] = true
	}
	for _, a := range aggs {
		if a.Kind == AggNone {
			return nil, fmt.Errorf("aggregation %q has no kind", a.Name)
		}
		if a.Kind != AggCount {
			if !t.HasColumn(a.Column) {
				return nil, &SchemaError{Column: a.Column}
			}
		}
		if usedNames[a.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, a.Name)
		}
		usedNames[a.Name] = true
	}

	keyCols := make([]*Column, len(g.keys))
	for i, k := range g.keys {
		keyCols[i], _ = t.Column(k)
	}

	// partition by encoded key tuple, first appearance order
	groupRows := make(map[string][]int)
	var groupOrder []string
	var b strings.Builder
	for i := 0; i < t.NumRows(); i++ {
		b.Reset()
		for _, kc := range keyCols {
			kc.keyEncode(&b, i)
			b.WriteByte(0x1f)
		}
		key := b.String()
		if _, seen := groupRows[key]; !seen {
			groupOrder = append(groupOrder, key)
		}
		groupRows[key] = append(groupRows[key], i)
	}

	firstRows := make([]int, len(groupOrder))
	for i, key := range groupOrder {
		firstRows[i] = groupRows[key][0]
	}

	outCols := make([]*Column, 0, len(g.keys)+len(aggs))
	for _, kc := range keyCols {
		outCols = append(outCols, kc.gather(firstRows))
	}

	for _, a := range aggs {
		var src *Column
		if a.Kind != AggCount {
			src, _ = t.Column(a.Column)
		}

		ab := NewBuilder(a.Name)
		if d, ok := aggDType(src, a.Kind); ok {
			ab.ensureType(d)
		}
		for _, key := range groupOrder {
			v, err := aggregate(src, groupRows[key], a)
			if err != nil {
				return nil, fmt.Errorf("error in aggregation %q: %w", a.Name, err)
			}
			if err := ab.AppendValue(v); err != nil {
				return nil, fmt.Errorf("error in aggregation %q: %w", a.Name, err)
			}
		}
		outCols = append(outCols, ab.Finish())
	}

	return New(outCols...)
}

// aggDType is the output dtype for an aggregation over src, when it is
// statically known
func aggDType(src *Column, kind AggKind) (DType, bool) {
	switch kind {
	case AggCount:
		return Int64, true
	case AggMean:
		return Float64, true
	case AggSum, AggMin, AggMax, AggFirst, AggLast:
		if src != nil {
			return src.dtype, true
		}
	}
	return 0, false
}

// aggregate reduces the given rows of src to one value
func aggregate(src *Column, rows []int, a Aggregation) (expr.Value, error) {
	if a.Kind == AggCount {
		return expr.IntValue(int64(len(rows))), nil
	}

	if a.IgnoreMissing {
		present := make([]int, 0, len(rows))
		for _, r := range rows {
			if !src.IsMissing(r) {
				present = append(present, r)
			}
		}
		rows = present
	} else {
		for _, r := range rows {
			if src.IsMissing(r) {
				return expr.Null(), nil
			}
		}
	}

	switch a.Kind {
	case AggSum:
		return aggSum(src, rows)
	case AggMean:
		if src.dtype != Float64 && src.dtype != Int64 {
			return expr.Null(), fmt.Errorf("%w: cannot average %s column %q", ErrTypeMismatch, src.dtype, src.name)
		}
		if len(rows) == 0 {
			return expr.Null(), nil
		}
		var total float64
		for _, r := range rows {
			total += src.numeric(r)
		}
		return expr.FloatValue(total / float64(len(rows))), nil
	case AggMin, AggMax:
		return aggExtreme(src, rows, a.Kind == AggMin)
	case AggFirst:
		if len(rows) == 0 {
			return expr.Null(), nil
		}
		return src.exprValue(rows[0]), nil
	case AggLast:
		if len(rows) == 0 {
			return expr.Null(), nil
		}
		return src.exprValue(rows[len(rows)-1]), nil
	default:
		return expr.Null(), fmt.Errorf("unknown aggregation kind %d", a.Kind)
	}
}

// aggSum over zero remaining rows is 0, matching the usual convention for
// the empty sum
func aggSum(src *Column, rows []int) (expr.Value, error) {
	switch src.dtype {
	case Int64:
		var total int64
		for _, r := range rows {
			total += src.ints[r]
		}
		return expr.IntValue(total), nil
	case Float64:
		var total float64
		for _, r := range rows {
			total += src.floats[r]
		}
		return expr.FloatValue(total), nil
	default:
		return expr.Null(), fmt.Errorf("%w: cannot sum %s column %q", ErrTypeMismatch, src.dtype, src.name)
	}
}

func aggExtreme(src *Column, rows []int, min bool) (expr.Value, error) {
	if len(rows) == 0 {
		return expr.Null(), nil
	}
	switch src.dtype {
	case Int64:
		best := src.ints[rows[0]]
		for _, r := range rows[1:] {
			if v := src.ints[r]; (min && v < best) || (!min && v > best) {
				best = v
			}
		}
		return expr.IntValue(best), nil
	case Float64:
		best := src.floats[rows[0]]
		for _, r := range rows[1:] {
			if v := src.floats[r]; (min && v < best) || (!min && v > best) {
				best = v
			}
		}
		return expr.FloatValue(best), nil
	case String:
		best := src.strs[rows[0]]
		for _, r := range rows[1:] {
			if v := src.strs[r]; (min && v < best) || (!min && v > best) {
				best = v
			}
		}
		return expr.StringValue(best), nil
	default:
		return expr.Null(), fmt.Errorf("%w: no ordering for %s column %q", ErrTypeMismatch, src.dtype, src.name)
	}
}

// numeric reads a cell as float64, only valid for numeric dtypes and
// non-missing cells
func (c *Column) numeric(i int) float64 {
	if c.dtype == Int64 {
		return float64(c.ints[i])
	}
	return c.floats[i]
}

// exprValue lifts one cell into an expression value
func (c *Column) exprValue(i int) expr.Value {
	if c.IsMissing(i) {
		return expr.Null()
	}
	switch c.dtype {
	case Float64:
		return expr.FloatValue(c.floats[i])
	case Int64:
		return expr.IntValue(c.ints[i])
	case String:
		return expr.StringValue(c.strs[i])
	case Bool:
		return expr.BoolValue(c.bools[i])
	default:
		return expr.Null()
	}
}

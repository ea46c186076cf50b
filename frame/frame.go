// Package frame implements an immutable, column-oriented table and the four
// verbs over it: filter, mutate, group-summarize, and pivot. Every verb
// returns a new table, untouched columns are shared between input and
// output.
package frame

import (
	"fmt"
	"strings"

	"github.com/floedata/floe/expr"
)

type Table struct {
	cols   []*Column
	byName map[string]int
}

// New builds a table, checking that columns have equal lengths and unique
// names
func New(cols ...*Column) (*Table, error) {
	t := &Table{
		cols:   cols,
		byName: make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		if _, exists := t.byName[c.name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.name)
		}
		t.byName[c.name] = i
		if c.Len() != cols[0].Len() {
			return nil, fmt.Errorf("%w: %q has %d rows, %q has %d", ErrLengthMismatch, c.name, c.Len(), cols[0].name, cols[0].Len())
		}
	}
	return t, nil
}

// MustNew is New for statically known-good tables, typically in tests
func MustNew(cols ...*Column) *Table {
	t, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

func (t *Table) NumCols() int {
	return len(t.cols)
}

func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.name
	}
	return names
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Column returns the named column or a SchemaError
func (t *Table) Column(name string) (*Column, error) {
	idx, ok := t.byName[name]
	if !ok {
		return nil, &SchemaError{Column: name}
	}
	return t.cols[idx], nil
}

// Columns returns the columns in order. The slice is a copy, the columns are
// shared.
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.cols))
	copy(out, t.cols)
	return out
}

// Select returns a table with just the named columns, in the given order
func (t *Table) Select(names ...string) (*Table, error) {
	cols := make([]*Column, 0, len(names))
	for _, name := range names {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return New(cols...)
}

// Equal reports whether two tables have identical schemas and cell values,
// including missing markers
func (t *Table) Equal(o *Table) bool {
	if len(t.cols) != len(o.cols) {
		return false
	}
	for i := range t.cols {
		if !t.cols[i].equal(o.cols[i]) {
			return false
		}
	}
	return true
}

func (t *Table) String() string {
	var b strings.Builder
	b.WriteString("Table[")
	for i, c := range t.cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.String())
	}
	b.WriteString("]")
	return b.String()
}

// checkColumns verifies every referenced column exists before any rows are
// touched, so a bad reference fails fast with the offending name
func (t *Table) checkColumns(names []string) error {
	for _, name := range names {
		if !t.HasColumn(name) {
			return &SchemaError{Column: name}
		}
	}
	return nil
}

// gatherRows builds a table from the given row indexes across all columns
func (t *Table) gatherRows(idxs []int) *Table {
	cols := make([]*Column, len(t.cols))
	for i, c := range t.cols {
		cols[i] = c.gather(idxs)
	}
	out, _ := New(cols...)
	return out
}

// rowView adapts one table row to the expression evaluator
type rowView struct {
	t *Table
	i int
}

func (r *rowView) Value(name string) (expr.Value, error) {
	c, err := r.t.Column(name)
	if err != nil {
		return expr.Null(), err
	}
	if c.IsMissing(r.i) {
		return expr.Null(), nil
	}
	switch c.dtype {
	case Float64:
		return expr.FloatValue(c.floats[r.i]), nil
	case Int64:
		return expr.IntValue(c.ints[r.i]), nil
	case String:
		return expr.StringValue(c.strs[r.i]), nil
	case Bool:
		return expr.BoolValue(c.bools[r.i]), nil
	default:
		return expr.Null(), fmt.Errorf("column %q has unknown dtype", name)
	}
}

package frame

import (
	"fmt"

	"github.com/floedata/floe/expr"
)

// Mutation names one derived column
type Mutation struct {
	Name string
	Expr expr.Expr
}

// Mutate appends derived columns, or replaces a column when the name already
// exists. Mutations are evaluated left to right and each one sees the
// columns produced before it. Row count and order never change.
func (t *Table) Mutate(muts ...Mutation) (*Table, error) {
	work := &Table{
		cols:   t.Columns(),
		byName: make(map[string]int, len(t.cols)),
	}
	for name, idx := range t.byName {
		work.byName[name] = idx
	}

	for _, m := range muts {
		if err := work.checkColumns(m.Expr.Columns()); err != nil {
			return nil, err
		}

		b := NewBuilder(m.Name)
		row := &rowView{t: work}
		for i := 0; i < work.NumRows(); i++ {
			row.i = i
			v, err := m.Expr.Eval(row)
			if err != nil {
				return nil, fmt.Errorf("error evaluating mutation %q on row %d: %w", m.Name, i, err)
			}
			if err := b.AppendValue(v); err != nil {
				return nil, fmt.Errorf("error in mutation %q: %w", m.Name, err)
			}
		}
		col := b.Finish()

		if idx, exists := work.byName[m.Name]; exists {
			work.cols[idx] = col
		} else {
			work.byName[m.Name] = len(work.cols)
			work.cols = append(work.cols, col)
		}
	}

	return work, nil
}

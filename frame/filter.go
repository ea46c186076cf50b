package frame

import (
	"fmt"

	"github.com/floedata/floe/expr"
)

// Filter returns the rows where pred evaluates true, in their original
// order. Rows where the predicate is unknown because a missing value
// entered a comparison are dropped along with false rows.
func (t *Table) Filter(pred expr.Expr) (*Table, error) {
	if err := t.checkColumns(pred.Columns()); err != nil {
		return nil, err
	}

	var keep []int
	row := &rowView{t: t}
	for i := 0; i < t.NumRows(); i++ {
		row.i = i
		v, err := pred.Eval(row)
		if err != nil {
			return nil, fmt.Errorf("error evaluating predicate on row %d: %w", i, err)
		}
		if v.IsNull() {
			continue
		}
		if v.Kind != expr.KindBool {
			return nil, fmt.Errorf("%w: got %s", ErrNotBoolean, v.Kind)
		}
		if v.Bool {
			keep = append(keep, i)
		}
	}

	return t.gatherRows(keep), nil
}

package frame

import (
	"fmt"
	"strings"
)

// PivotLonger collapses the given columns into (name, value) pairs: one
// output row per input row per collapsed column, so rows_out = rows_in *
// len(cols). The remaining columns repeat across the expansion. Collapsed
// columns must share a dtype, except that int and float mix widens to
// float.
func (t *Table) PivotLonger(cols []string, namesTo, valuesTo string) (*Table, error) {
	if len(cols) == 0 {
		return nil, ErrEmptyPivotSet
	}
	if err := t.checkColumns(cols); err != nil {
		return nil, err
	}

	collapsed := make(map[string]bool, len(cols))
	for _, name := range cols {
		collapsed[name] = true
	}

	var idCols []*Column
	for _, c := range t.cols {
		if collapsed[c.name] {
			continue
		}
		if c.name == namesTo || c.name == valuesTo {
			return nil, fmt.Errorf("%w: %q", ErrNameCollision, c.name)
		}
		idCols = append(idCols, c)
	}
	if namesTo == valuesTo {
		return nil, fmt.Errorf("%w: %q used for both names and values", ErrNameCollision, namesTo)
	}

	valueType, err := t.commonType(cols)
	if err != nil {
		return nil, err
	}

	// each input row expands to len(cols) output rows, row-major
	n := t.NumRows()
	idxs := make([]int, 0, n*len(cols))
	for i := 0; i < n; i++ {
		for range cols {
			idxs = append(idxs, i)
		}
	}

	outCols := make([]*Column, 0, len(idCols)+2)
	for _, c := range idCols {
		outCols = append(outCols, c.gather(idxs))
	}

	names := make([]string, 0, n*len(cols))
	values := NewBuilder(valuesTo)
	values.ensureType(valueType)
	for i := 0; i < n; i++ {
		for _, name := range cols {
			names = append(names, name)
			src, _ := t.Column(name)
			if err := values.AppendValue(src.exprValue(i)); err != nil {
				return nil, fmt.Errorf("error collapsing column %q: %w", name, err)
			}
		}
	}
	outCols = append(outCols, Strings(namesTo, names...), values.Finish())

	return New(outCols...)
}

// WiderSpec configures PivotWider. IDColumns nil means every column other
// than NamesFrom and ValuesFrom identifies the output row. Collapse left as
// AggNone makes duplicate (key, name) cells an error.
type WiderSpec struct {
	NamesFrom  string
	ValuesFrom string
	IDColumns  []string

	Collapse              AggKind
	CollapseIgnoreMissing bool
}

// PivotWider spreads (name, value) pairs back into one column per distinct
// name. Output rows are the distinct id tuples in first-appearance order,
// output name columns follow first appearance of each name. A (key, name)
// pair with no input row becomes a missing cell; a pair with several input
// rows is an AmbiguousPivotError unless a collapse aggregation is set.
func (t *Table) PivotWider(spec WiderSpec) (*Table, error) {
	namesCol, err := t.Column(spec.NamesFrom)
	if err != nil {
		return nil, err
	}
	valuesCol, err := t.Column(spec.ValuesFrom)
	if err != nil {
		return nil, err
	}
	if namesCol.dtype != String {
		return nil, fmt.Errorf("%w: names column %q must be string, is %s", ErrTypeMismatch, spec.NamesFrom, namesCol.dtype)
	}

	idNames := spec.IDColumns
	if idNames == nil {
		for _, c := range t.cols {
			if c.name != spec.NamesFrom && c.name != spec.ValuesFrom {
				idNames = append(idNames, c.name)
			}
		}
	} else {
		if err := t.checkColumns(idNames); err != nil {
			return nil, err
		}
		for _, name := range idNames {
			if name == spec.NamesFrom || name == spec.ValuesFrom {
				return nil, fmt.Errorf("%w: %q is both an id column and a pivot source", ErrNameCollision, name)
			}
		}
	}

	idCols := make([]*Column, len(idNames))
	for i, name := range idNames {
		idCols[i], _ = t.Column(name)
	}
	idSet := make(map[string]bool, len(idNames))
	for _, name := range idNames {
		idSet[name] = true
	}

	// distinct id tuples and distinct names, both in first-appearance order
	keyRow := make(map[string]int)
	var keyOrder []string
	keyFirstRows := make([]int, 0)

	nameIdx := make(map[string]int)
	var nameOrder []string

	type cellKey struct {
		key  string
		name string
	}
	cells := make(map[cellKey][]int)

	var b strings.Builder
	for i := 0; i < t.NumRows(); i++ {
		b.Reset()
		for _, kc := range idCols {
			kc.keyEncode(&b, i)
			b.WriteByte(0x1f)
		}
		key := b.String()
		if _, seen := keyRow[key]; !seen {
			keyRow[key] = len(keyOrder)
			keyOrder = append(keyOrder, key)
			keyFirstRows = append(keyFirstRows, i)
		}

		if namesCol.IsMissing(i) {
			return nil, fmt.Errorf("row %d has a missing value in names column %q", i, spec.NamesFrom)
		}
		name := namesCol.strs[i]
		if _, seen := nameIdx[name]; !seen {
			if idSet[name] {
				return nil, fmt.Errorf("%w: name %q matches an id column", ErrNameCollision, name)
			}
			nameIdx[name] = len(nameOrder)
			nameOrder = append(nameOrder, name)
		}

		ck := cellKey{key: key, name: name}
		cells[ck] = append(cells[ck], i)
	}

	collapse := Aggregation{Kind: spec.Collapse, IgnoreMissing: spec.CollapseIgnoreMissing}
	cellType := valuesCol.dtype
	if spec.Collapse != AggNone {
		if d, ok := aggDType(valuesCol, spec.Collapse); ok {
			cellType = d
		}
	}

	outCols := make([]*Column, 0, len(idCols)+len(nameOrder))
	for _, kc := range idCols {
		outCols = append(outCols, kc.gather(keyFirstRows))
	}

	for _, name := range nameOrder {
		nb := NewBuilder(name)
		nb.ensureType(cellType)
		for ki, key := range keyOrder {
			rows := cells[cellKey{key: key, name: name}]
			switch {
			case len(rows) == 0:
				nb.AppendMissing()
			case len(rows) == 1 && spec.Collapse == AggNone:
				if err := nb.AppendValue(valuesCol.exprValue(rows[0])); err != nil {
					return nil, fmt.Errorf("error spreading name %q: %w", name, err)
				}
			case spec.Collapse == AggNone:
				return nil, &AmbiguousPivotError{
					Key:   t.describeKey(idCols, keyFirstRows[ki]),
					Name:  name,
					Count: len(rows),
				}
			default:
				v, err := aggregate(valuesCol, rows, collapse)
				if err != nil {
					return nil, fmt.Errorf("error collapsing pivot cell for name %q: %w", name, err)
				}
				if err := nb.AppendValue(v); err != nil {
					return nil, fmt.Errorf("error spreading name %q: %w", name, err)
				}
			}
		}
		outCols = append(outCols, nb.Finish())
	}

	return New(outCols...)
}

// commonType resolves the shared dtype of columns being collapsed
func (t *Table) commonType(cols []string) (DType, error) {
	first, _ := t.Column(cols[0])
	resolved := first.dtype
	for _, name := range cols[1:] {
		c, _ := t.Column(name)
		if c.dtype == resolved {
			continue
		}
		numeric := func(d DType) bool { return d == Float64 || d == Int64 }
		if numeric(c.dtype) && numeric(resolved) {
			resolved = Float64
			continue
		}
		return 0, fmt.Errorf("%w: %q is %s, %q is %s", ErrTypeMismatch, cols[0], first.dtype, name, c.dtype)
	}
	return resolved, nil
}

// describeKey renders an id tuple for error messages
func (t *Table) describeKey(idCols []*Column, row int) string {
	if len(idCols) == 0 {
		return "()"
	}
	parts := make([]string, len(idCols))
	for i, c := range idCols {
		if c.IsMissing(row) {
			parts[i] = c.name + "=missing"
		} else {
			parts[i] = fmt.Sprintf("%s=%v", c.name, c.Value(row))
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

package frame

import (
	"fmt"
	"strconv"
	"strings"
)

// Column is an immutable named vector of one dtype with a validity mask.
// valid == nil means no missing values. Columns are shared freely between
// tables, nothing may write to one after construction.
type Column struct {
	name  string
	dtype DType

	floats []float64
	ints   []int64
	strs   []string
	bools  []bool

	valid []bool
}

func Floats(name string, vals ...float64) *Column {
	return &Column{name: name, dtype: Float64, floats: vals}
}

func Ints(name string, vals ...int64) *Column {
	return &Column{name: name, dtype: Int64, ints: vals}
}

func Strings(name string, vals ...string) *Column {
	return &Column{name: name, dtype: String, strs: vals}
}

func Bools(name string, vals ...bool) *Column {
	return &Column{name: name, dtype: Bool, bools: vals}
}

// FloatsPtr builds a float column where nil marks a missing value
func FloatsPtr(name string, vals ...*float64) *Column {
	c := &Column{name: name, dtype: Float64, floats: make([]float64, len(vals)), valid: make([]bool, len(vals))}
	for i, v := range vals {
		if v != nil {
			c.floats[i] = *v
			c.valid[i] = true
		}
	}
	return c
}

func IntsPtr(name string, vals ...*int64) *Column {
	c := &Column{name: name, dtype: Int64, ints: make([]int64, len(vals)), valid: make([]bool, len(vals))}
	for i, v := range vals {
		if v != nil {
			c.ints[i] = *v
			c.valid[i] = true
		}
	}
	return c
}

func StringsPtr(name string, vals ...*string) *Column {
	c := &Column{name: name, dtype: String, strs: make([]string, len(vals)), valid: make([]bool, len(vals))}
	for i, v := range vals {
		if v != nil {
			c.strs[i] = *v
			c.valid[i] = true
		}
	}
	return c
}

func BoolsPtr(name string, vals ...*bool) *Column {
	c := &Column{name: name, dtype: Bool, bools: make([]bool, len(vals)), valid: make([]bool, len(vals))}
	for i, v := range vals {
		if v != nil {
			c.bools[i] = *v
			c.valid[i] = true
		}
	}
	return c
}

// Empty builds a zero-row column of the given dtype, useful for declaring a
// schema without data
func Empty(name string, d DType) *Column {
	return &Column{name: name, dtype: d}
}

func (c *Column) Name() string {
	return c.name
}

func (c *Column) DType() DType {
	return c.dtype
}

func (c *Column) Len() int {
	switch c.dtype {
	case Float64:
		return len(c.floats)
	case Int64:
		return len(c.ints)
	case String:
		return len(c.strs)
	case Bool:
		return len(c.bools)
	default:
		return 0
	}
}

func (c *Column) IsMissing(i int) bool {
	return c.valid != nil && !c.valid[i]
}

func (c *Column) Float(i int) float64 { return c.floats[i] }
func (c *Column) Int(i int) int64     { return c.ints[i] }
func (c *Column) Str(i int) string    { return c.strs[i] }
func (c *Column) Bool(i int) bool     { return c.bools[i] }

// Value returns the cell as an any, nil for missing
func (c *Column) Value(i int) any {
	if c.IsMissing(i) {
		return nil
	}
	switch c.dtype {
	case Float64:
		return c.floats[i]
	case Int64:
		return c.ints[i]
	case String:
		return c.strs[i]
	case Bool:
		return c.bools[i]
	default:
		return nil
	}
}

// Rename returns a column with a new name sharing the same backing data
func (c *Column) Rename(name string) *Column {
	clone := *c
	clone.name = name
	return &clone
}

// gather builds a new column from the given row indexes, in order
func (c *Column) gather(idxs []int) *Column {
	out := &Column{name: c.name, dtype: c.dtype}
	switch c.dtype {
	case Float64:
		out.floats = make([]float64, len(idxs))
		for i, idx := range idxs {
			out.floats[i] = c.floats[idx]
		}
	case Int64:
		out.ints = make([]int64, len(idxs))
		for i, idx := range idxs {
			out.ints[i] = c.ints[idx]
		}
	case String:
		out.strs = make([]string, len(idxs))
		for i, idx := range idxs {
			out.strs[i] = c.strs[idx]
		}
	case Bool:
		out.bools = make([]bool, len(idxs))
		for i, idx := range idxs {
			out.bools[i] = c.bools[idx]
		}
	}
	if c.valid != nil {
		out.valid = make([]bool, len(idxs))
		for i, idx := range idxs {
			out.valid[i] = c.valid[idx]
		}
	}
	return out
}

// keyEncode appends an unambiguous encoding of the cell to b, used to build
// group key strings. Missing encodes distinctly from every real value.
func (c *Column) keyEncode(b *strings.Builder, i int) {
	if c.IsMissing(i) {
		b.WriteString("\x00")
		return
	}
	switch c.dtype {
	case Float64:
		v := c.floats[i]
		// negative zero compares equal to zero, it must not key separately
		if v == 0 {
			v = 0
		}
		b.WriteString("f:")
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	case Int64:
		b.WriteString("i:")
		b.WriteString(strconv.FormatInt(c.ints[i], 10))
	case String:
		b.WriteString("s:")
		b.WriteString(strconv.Quote(c.strs[i]))
	case Bool:
		b.WriteString("b:")
		b.WriteString(strconv.FormatBool(c.bools[i]))
	}
}

func (c *Column) equal(o *Column) bool {
	if c.name != o.name || c.dtype != o.dtype || c.Len() != o.Len() {
		return false
	}
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) != o.IsMissing(i) {
			return false
		}
		if c.IsMissing(i) {
			continue
		}
		switch c.dtype {
		case Float64:
			if c.floats[i] != o.floats[i] {
				return false
			}
		case Int64:
			if c.ints[i] != o.ints[i] {
				return false
			}
		case String:
			if c.strs[i] != o.strs[i] {
				return false
			}
		case Bool:
			if c.bools[i] != o.bools[i] {
				return false
			}
		}
	}
	return true
}

func (c *Column) String() string {
	return fmt.Sprintf("%s<%s>[%d]", c.name, c.dtype, c.Len())
}

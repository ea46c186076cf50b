package frame

import (
	"fmt"

	"github.com/floedata/floe/expr"
)

// Builder accumulates cells for one column when the dtype is only known at
// runtime (mutate results, pivoted cells, ingested rows). The dtype locks in
// on the first non-missing value; int promotes to float when both appear,
// any other mix is an error.
type Builder struct {
	name  string
	dtype DType
	typed bool

	n      int
	floats []float64
	ints   []int64
	strs   []string
	bools  []bool

	valid      []bool
	anyMissing bool
}

func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// NewTypedBuilder pins the dtype up front instead of inferring it from the
// first value
func NewTypedBuilder(name string, d DType) *Builder {
	b := NewBuilder(name)
	b.setType(d)
	return b
}

func (b *Builder) Len() int {
	return b.n
}

func (b *Builder) AppendMissing() {
	b.appendSlot(false)
	b.anyMissing = true
}

func (b *Builder) AppendFloat(v float64) error {
	if err := b.want(Float64); err != nil {
		return err
	}
	b.appendSlot(true)
	b.floats[b.n-1] = v
	return nil
}

func (b *Builder) AppendInt(v int64) error {
	if !b.typed {
		b.setType(Int64)
	}
	switch b.dtype {
	case Int64:
		b.appendSlot(true)
		b.ints[b.n-1] = v
		return nil
	case Float64:
		b.appendSlot(true)
		b.floats[b.n-1] = float64(v)
		return nil
	default:
		return fmt.Errorf("%w: column %q is %s, got int", ErrTypeMismatch, b.name, b.dtype)
	}
}

func (b *Builder) AppendString(v string) error {
	if err := b.want(String); err != nil {
		return err
	}
	b.appendSlot(true)
	b.strs[b.n-1] = v
	return nil
}

func (b *Builder) AppendBool(v bool) error {
	if err := b.want(Bool); err != nil {
		return err
	}
	b.appendSlot(true)
	b.bools[b.n-1] = v
	return nil
}

// AppendValue appends an evaluated expression result
func (b *Builder) AppendValue(v expr.Value) error {
	switch v.Kind {
	case expr.KindNull:
		b.AppendMissing()
		return nil
	case expr.KindFloat:
		return b.AppendFloat(v.Float)
	case expr.KindInt:
		return b.AppendInt(v.Int)
	case expr.KindString:
		return b.AppendString(v.Str)
	case expr.KindBool:
		return b.AppendBool(v.Bool)
	default:
		return fmt.Errorf("%w: column %q got unknown value kind", ErrTypeMismatch, b.name)
	}
}

// Finish seals the builder into a column. An all-missing column defaults to
// Float64.
func (b *Builder) Finish() *Column {
	if !b.typed {
		b.setType(Float64)
	}
	c := &Column{
		name:   b.name,
		dtype:  b.dtype,
		floats: b.floats,
		ints:   b.ints,
		strs:   b.strs,
		bools:  b.bools,
	}
	if b.anyMissing {
		c.valid = b.valid
	}
	return c
}

// ensureType pins the dtype up front so empty results still come out with a
// deterministic schema
func (b *Builder) ensureType(d DType) {
	if !b.typed {
		b.setType(d)
	}
}

func (b *Builder) want(d DType) error {
	if !b.typed {
		b.setType(d)
		return nil
	}
	if b.dtype == d {
		return nil
	}
	// numeric widening
	if b.dtype == Int64 && d == Float64 {
		b.promoteToFloat()
		return nil
	}
	return fmt.Errorf("%w: column %q is %s, got %s", ErrTypeMismatch, b.name, b.dtype, d)
}

func (b *Builder) setType(d DType) {
	b.typed = true
	b.dtype = d
	// backfill zero slots for rows appended before the type was known
	switch d {
	case Float64:
		b.floats = make([]float64, b.n)
	case Int64:
		b.ints = make([]int64, b.n)
	case String:
		b.strs = make([]string, b.n)
	case Bool:
		b.bools = make([]bool, b.n)
	}
}

func (b *Builder) promoteToFloat() {
	b.dtype = Float64
	b.floats = make([]float64, len(b.ints))
	for i, v := range b.ints {
		b.floats[i] = float64(v)
	}
	b.ints = nil
}

func (b *Builder) appendSlot(validVal bool) {
	b.n++
	b.valid = append(b.valid, validVal)
	if !b.typed {
		return
	}
	switch b.dtype {
	case Float64:
		b.floats = append(b.floats, 0)
	case Int64:
		b.ints = append(b.ints, 0)
	case String:
		b.strs = append(b.strs, "")
	case Bool:
		b.bools = append(b.bools, false)
	}
}

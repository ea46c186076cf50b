package frame

import (
	"errors"
	"fmt"
)

// SchemaError reports a reference to a column the table does not have
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("column %q not in table schema", e.Column)
}

// AmbiguousPivotError reports a long-to-wide pivot where more than one input
// row landed on the same output cell and no collapse aggregation was given
type AmbiguousPivotError struct {
	Key   string
	Name  string
	Count int
}

func (e *AmbiguousPivotError) Error() string {
	return fmt.Sprintf("%d rows map to pivot cell (key=%s, name=%q); supply a collapse aggregation or pre-aggregate", e.Count, e.Key, e.Name)
}

var (
	ErrLengthMismatch  = errors.New("all columns must have the same length")
	ErrDuplicateColumn = errors.New("duplicate column name")
	ErrTypeMismatch    = errors.New("column types are not compatible")
	ErrNotBoolean      = errors.New("predicate did not evaluate to a boolean")
	ErrEmptyPivotSet   = errors.New("no columns to pivot")
	ErrNameCollision   = errors.New("output column name collides with an existing column")
)

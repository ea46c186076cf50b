// Package ingest turns JSON rows into frame tables. Rows are flattened
// first so nested objects become dotted column names, the way the insert
// path always stored them. Integral JSON numbers infer as Int64, any
// fractional value promotes the column to Float64; null and absent keys
// both become missing values.
package ingest

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/danthegoodman1/gojsonutils"
	"github.com/floedata/floe/frame"
)

var (
	ErrNotFlatMap  = errors.New("not a flat map")
	ErrLineNotJSON = errors.New("line was not a JSON object")
)

// FromNDJSON reads line-delimited JSON objects into a table. Blank lines are
// skipped. Column order follows first appearance across rows.
func FromNDJSON(r io.Reader) (*frame.Table, error) {
	scanner := bufio.NewScanner(r)
	var rows []map[string]any
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var raw any
		if err := json.Unmarshal([]byte(text), &raw); err != nil {
			return nil, fmt.Errorf("error in json.Unmarshal on line %d: %w", line, err)
		}
		jsonMap, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: line %d", ErrLineNotJSON, line)
		}
		rows = append(rows, jsonMap)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning NDJSON: %w", err)
	}
	return FromRows(rows)
}

// FromRows builds a table from already-decoded JSON row maps
func FromRows(rows []map[string]any) (*frame.Table, error) {
	flatRows := make([]map[string]any, 0, len(rows))
	for i, row := range rows {
		flat, err := gojsonutils.Flatten(row, nil)
		if err != nil {
			return nil, fmt.Errorf("error flattening JSON map on row %d: %w", i, err)
		}
		flatMap, ok := flat.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: row %d flattened to %+v", ErrNotFlatMap, i, flat)
		}
		flatRows = append(flatRows, flatMap)
	}

	colOrder := stableColumnOrder(flatRows)

	cols := make([]*frame.Column, 0, len(colOrder))
	for _, name := range colOrder {
		b := frame.NewBuilder(name)
		for i, row := range flatRows {
			val, exists := row[name]
			if !exists || val == nil {
				b.AppendMissing()
				continue
			}
			if err := appendJSONValue(b, val); err != nil {
				return nil, fmt.Errorf("error in column %q row %d: %w", name, i, err)
			}
		}
		cols = append(cols, b.Finish())
	}

	return frame.New(cols...)
}

func appendJSONValue(b *frame.Builder, val any) error {
	switch tv := val.(type) {
	case float64:
		// integral numbers come in as ints, the builder promotes the whole
		// column to float the moment a fractional value shows up
		if tv == math.Trunc(tv) && tv >= math.MinInt64 && tv < math.MaxInt64 {
			return b.AppendInt(int64(tv))
		}
		return b.AppendFloat(tv)
	case string:
		return b.AppendString(tv)
	case bool:
		return b.AppendBool(tv)
	default:
		return fmt.Errorf("unsupported JSON value %v (%T)", val, val)
	}
}

// stableColumnOrder walks rows in order with keys sorted within each row,
// map iteration order must not leak into the schema
func stableColumnOrder(rows []map[string]any) []string {
	var order []string
	seen := make(map[string]bool)
	for _, row := range rows {
		keys := make([]string, 0, len(row))
		for key := range row {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if !seen[key] {
				seen[key] = true
				order = append(order, key)
			}
		}
	}
	return order
}

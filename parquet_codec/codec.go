package parquet_codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/floedata/floe/frame"
	"github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"
)

const parallelism = 4

// Marshal encodes a table as parquet bytes, missing cells as parquet nulls
func Marshal(t *frame.Table) ([]byte, error) {
	schema, err := SchemaString(t)
	if err != nil {
		return nil, fmt.Errorf("error in SchemaString: %w", err)
	}

	var b bytes.Buffer
	pw, err := writer.NewJSONWriterFromWriter(schema, &b, parallelism)
	if err != nil {
		return nil, fmt.Errorf("error in NewJSONWriterFromWriter: %w", err)
	}

	names := t.ColumnNames()
	cols := t.Columns()
	for i := 0; i < t.NumRows(); i++ {
		row := make(map[string]any, len(cols))
		for j, c := range cols {
			row[names[j]] = c.Value(i)
		}
		rowBytes, err := json.Marshal(row)
		if err != nil {
			return nil, fmt.Errorf("error in json.Marshal of row %d: %w", i, err)
		}
		if err := pw.Write(string(rowBytes)); err != nil {
			return nil, fmt.Errorf("error in pw.Write for row %d: %w", i, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, fmt.Errorf("error in pw.WriteStop: %w", err)
	}

	return b.Bytes(), nil
}

// Unmarshal decodes parquet bytes produced by Marshal back into a table.
// The expected schema pins column names, order, and dtypes; parquet-go
// capitalizes struct fields so reflected names match case-insensitively.
func Unmarshal(data []byte, expect *frame.Table) (*frame.Table, error) {
	schema, err := SchemaString(expect)
	if err != nil {
		return nil, fmt.Errorf("error in SchemaString: %w", err)
	}

	fr := buffer.NewBufferFileFromBytes(data)
	pr, err := reader.NewParquetReader(fr, schema, parallelism)
	if err != nil {
		return nil, fmt.Errorf("error in NewParquetReader: %w", err)
	}
	defer pr.ReadStop()

	num := int(pr.GetNumRows())
	rows, err := pr.ReadByNumber(num)
	if err != nil {
		return nil, fmt.Errorf("error in ReadByNumber: %w", err)
	}

	names := expect.ColumnNames()
	expectCols := expect.Columns()
	builders := make([]*frame.Builder, len(names))
	for i, name := range names {
		builders[i] = frame.NewTypedBuilder(name, expectCols[i].DType())
	}

	for _, item := range rows {
		v := reflect.ValueOf(item)
		typeOf := v.Type()

		matched := make([]bool, len(names))
		for f := 0; f < v.NumField(); f++ {
			fieldName := typeOf.Field(f).Name
			idx := -1
			for j, name := range names {
				if strings.EqualFold(fieldName, name) {
					idx = j
					break
				}
			}
			if idx == -1 {
				continue
			}
			matched[idx] = true
			if err := appendReflected(builders[idx], v.Field(f)); err != nil {
				return nil, fmt.Errorf("error in column %q: %w", names[idx], err)
			}
		}
		for j, ok := range matched {
			if !ok {
				builders[j].AppendMissing()
			}
		}
	}

	cols := make([]*frame.Column, len(builders))
	for i, b := range builders {
		cols[i] = b.Finish()
	}
	return frame.New(cols...)
}

// appendReflected unwraps the pointer fields parquet-go generates for
// OPTIONAL columns
func appendReflected(b *frame.Builder, field reflect.Value) error {
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			b.AppendMissing()
			return nil
		}
		field = field.Elem()
	}
	switch field.Kind() {
	case reflect.Float64, reflect.Float32:
		return b.AppendFloat(field.Float())
	case reflect.Int64, reflect.Int32, reflect.Int:
		return b.AppendInt(field.Int())
	case reflect.String:
		return b.AppendString(field.String())
	case reflect.Bool:
		return b.AppendBool(field.Bool())
	default:
		return fmt.Errorf("unsupported reflected kind %s", field.Kind())
	}
}

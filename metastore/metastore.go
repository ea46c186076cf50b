package metastore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/floedata/floe/frame"
	"github.com/floedata/floe/gologger"
)

var (
	logger = gologger.NewLogger()

	ErrTableNotFound    = errors.New("table not found")
	ErrTableExists      = errors.New("table already exists")
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

type (
	MetaStore interface {
		// CreateTable records a new table. ErrTableExists when the name is taken.
		CreateTable(ctx context.Context, meta TableMeta) error
		GetTable(ctx context.Context, name string) (TableMeta, error)
		ListTables(ctx context.Context) ([]TableMeta, error)
		DropTable(ctx context.Context, name string) error

		// CreateSnapshot records a snapshot whose parquet bytes live in the
		// snapshot store under (TableName, ID)
		CreateSnapshot(ctx context.Context, snap SnapshotMeta) error
		GetSnapshot(ctx context.Context, table, snapshotID string) (SnapshotMeta, error)
		ListSnapshots(ctx context.Context, table string) ([]SnapshotMeta, error)

		Shutdown(ctx context.Context) error
	}

	TableMeta struct {
		ID   string
		Name string

		ColumnNames []string
		ColumnTypes []string

		CreatedAt time.Time
		UpdatedAt time.Time
	}

	SnapshotMeta struct {
		ID        string
		TableName string

		ColumnNames []string
		ColumnTypes []string

		NumRows int64
		Bytes   int64

		CreatedAt time.Time
	}
)

// SchemaColumns converts stored column metadata back into zero-row columns,
// used to pin the schema when decoding a snapshot
func SchemaColumns(names, types []string) ([]*frame.Column, error) {
	if len(names) != len(types) {
		return nil, fmt.Errorf("column metadata mismatch: %d names, %d types", len(names), len(types))
	}
	cols := make([]*frame.Column, len(names))
	for i, name := range names {
		d, err := frame.ParseDType(types[i])
		if err != nil {
			return nil, fmt.Errorf("error in column %q: %w", name, err)
		}
		cols[i] = frame.Empty(name, d)
	}
	return cols, nil
}

// ColumnMeta extracts the name and dtype lists of a table for storage
func ColumnMeta(t *frame.Table) (names, types []string) {
	for _, c := range t.Columns() {
		names = append(names, c.Name())
		types = append(types, c.DType().String())
	}
	return names, types
}

package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/floedata/floe/datastore"
	"github.com/floedata/floe/frame"
	"github.com/floedata/floe/gologger"
	"github.com/floedata/floe/metastore"
	"github.com/floedata/floe/parquet_codec"
	"github.com/floedata/floe/utils"
	"github.com/rs/zerolog"
)

var (
	logger = gologger.NewLogger()

	ErrTableNotLoaded = errors.New("table not loaded")
)

type (
	// Engine owns the named tables held in memory and coordinates the
	// metastore and snapshot store around them. Tables are immutable, a name
	// always points at one complete table.
	Engine struct {
		MetaStore metastore.MetaStore
		Snapshots datastore.SnapshotStore

		mu     sync.RWMutex
		tables map[string]*frame.Table
	}
)

func New(ms metastore.MetaStore, ss datastore.SnapshotStore) (*Engine, error) {
	e := &Engine{
		MetaStore: ms,
		Snapshots: ss,
		tables:    map[string]*frame.Table{},
	}

	return e, nil
}

// CreateTable registers a table under a name. The metastore record is written
// first so a name conflict fails before memory changes.
func (e *Engine) CreateTable(ctx context.Context, name string, t *frame.Table) error {
	colNames, colTypes := metastore.ColumnMeta(t)
	err := e.MetaStore.CreateTable(ctx, metastore.TableMeta{
		ID:          utils.GenRandomShortID(),
		Name:        name,
		ColumnNames: colNames,
		ColumnTypes: colTypes,
	})
	if err != nil {
		return fmt.Errorf("error in MetaStore.CreateTable: %w", err)
	}

	e.mu.Lock()
	e.tables[name] = t
	e.mu.Unlock()
	return nil
}

func (e *Engine) GetTable(name string) (*frame.Table, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	t, exists := e.tables[name]
	if !exists {
		return nil, ErrTableNotLoaded
	}
	return t, nil
}

func (e *Engine) ListTables(ctx context.Context) ([]metastore.TableMeta, error) {
	metas, err := e.MetaStore.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("error in MetaStore.ListTables: %w", err)
	}
	return metas, nil
}

func (e *Engine) DropTable(ctx context.Context, name string) error {
	if err := e.MetaStore.DropTable(ctx, name); err != nil {
		return fmt.Errorf("error in MetaStore.DropTable: %w", err)
	}

	e.mu.Lock()
	delete(e.tables, name)
	e.mu.Unlock()
	return nil
}

// Snapshot freezes the current table as parquet in the snapshot store and
// records it in the metastore. The snapshot ID is k-sortable so listings come
// back in creation order.
func (e *Engine) Snapshot(ctx context.Context, name string) (metastore.SnapshotMeta, error) {
	logger := zerolog.Ctx(ctx)

	t, err := e.GetTable(name)
	if err != nil {
		return metastore.SnapshotMeta{}, err
	}

	data, err := parquet_codec.Marshal(t)
	if err != nil {
		return metastore.SnapshotMeta{}, fmt.Errorf("error in parquet_codec.Marshal: %w", err)
	}

	snapshotID := utils.GenKSortedID("")
	if err := e.Snapshots.WriteSnapshot(ctx, name, snapshotID, data); err != nil {
		return metastore.SnapshotMeta{}, fmt.Errorf("error in Snapshots.WriteSnapshot: %w", err)
	}

	colNames, colTypes := metastore.ColumnMeta(t)
	snap := metastore.SnapshotMeta{
		ID:          snapshotID,
		TableName:   name,
		ColumnNames: colNames,
		ColumnTypes: colTypes,
		NumRows:     int64(t.NumRows()),
		Bytes:       int64(len(data)),
	}
	if err := e.MetaStore.CreateSnapshot(ctx, snap); err != nil {
		return metastore.SnapshotMeta{}, fmt.Errorf("error in MetaStore.CreateSnapshot: %w", err)
	}

	logger.Debug().Str("table", name).Str("snapshotID", snapshotID).Int64("bytes", snap.Bytes).Msg("created snapshot")
	return snap, nil
}

func (e *Engine) ListSnapshots(ctx context.Context, name string) ([]metastore.SnapshotMeta, error) {
	snaps, err := e.MetaStore.ListSnapshots(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("error in MetaStore.ListSnapshots: %w", err)
	}
	return snaps, nil
}

// RestoreSnapshot decodes a stored snapshot and registers it under a new
// name, pinning the schema from the snapshot record
func (e *Engine) RestoreSnapshot(ctx context.Context, table, snapshotID, asName string) (*frame.Table, error) {
	snap, err := e.MetaStore.GetSnapshot(ctx, table, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("error in MetaStore.GetSnapshot: %w", err)
	}

	data, err := e.Snapshots.ReadSnapshot(ctx, table, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("error in Snapshots.ReadSnapshot: %w", err)
	}

	cols, err := metastore.SchemaColumns(snap.ColumnNames, snap.ColumnTypes)
	if err != nil {
		return nil, fmt.Errorf("error in SchemaColumns: %w", err)
	}
	expect, err := frame.New(cols...)
	if err != nil {
		return nil, fmt.Errorf("error building schema table: %w", err)
	}

	restored, err := parquet_codec.Unmarshal(data, expect)
	if err != nil {
		return nil, fmt.Errorf("error in parquet_codec.Unmarshal: %w", err)
	}

	if err := e.CreateTable(ctx, asName, restored); err != nil {
		return nil, err
	}
	return restored, nil
}

func (e *Engine) Shutdown(ctx context.Context) error {
	if err := e.Snapshots.Shutdown(ctx); err != nil {
		return fmt.Errorf("error in Snapshots.Shutdown: %w", err)
	}
	if err := e.MetaStore.Shutdown(ctx); err != nil {
		return fmt.Errorf("error in MetaStore.Shutdown: %w", err)
	}
	return nil
}

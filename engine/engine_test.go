package engine

import (
	"context"
	"testing"

	"github.com/floedata/floe/datastore"
	"github.com/floedata/floe/metastore"
	"github.com/floedata/floe/sampledata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	ss, err := datastore.NewDiskSnapshotStore(t.TempDir())
	require.NoError(t, err)
	e, err := New(metastore.NewMemoryMetaStore(), ss)
	require.NoError(t, err)
	return e
}

func TestCreateAndGetTable(t *testing.T) {
	ctx := context.Background()
	e := testEngine(t)

	penguins := sampledata.Penguins()
	require.NoError(t, e.CreateTable(ctx, "penguins", penguins))

	err := e.CreateTable(ctx, "penguins", penguins)
	assert.ErrorIs(t, err, metastore.ErrTableExists)

	got, err := e.GetTable("penguins")
	require.NoError(t, err)
	assert.True(t, got.Equal(penguins))

	_, err = e.GetTable("walrus")
	assert.ErrorIs(t, err, ErrTableNotLoaded)

	metas, err := e.ListTables(ctx)
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Equal(t, "penguins", metas[0].Name)
	assert.Equal(t, penguins.ColumnNames(), metas[0].ColumnNames)

	require.NoError(t, e.DropTable(ctx, "penguins"))
	_, err = e.GetTable("penguins")
	assert.ErrorIs(t, err, ErrTableNotLoaded)
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	e := testEngine(t)

	penguins := sampledata.Penguins()
	require.NoError(t, e.CreateTable(ctx, "penguins", penguins))

	snap, err := e.Snapshot(ctx, "penguins")
	require.NoError(t, err)
	assert.Equal(t, int64(penguins.NumRows()), snap.NumRows)
	assert.Greater(t, snap.Bytes, int64(0))

	snaps, err := e.ListSnapshots(ctx, "penguins")
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, snap.ID, snaps[0].ID)

	restored, err := e.RestoreSnapshot(ctx, "penguins", snap.ID, "penguins_restored")
	require.NoError(t, err)
	assert.True(t, restored.Equal(penguins))

	loaded, err := e.GetTable("penguins_restored")
	require.NoError(t, err)
	assert.Equal(t, penguins.ColumnNames(), loaded.ColumnNames())
	assert.Equal(t, penguins.NumRows(), loaded.NumRows())
}

func TestSnapshotMissingTable(t *testing.T) {
	e := testEngine(t)
	_, err := e.Snapshot(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrTableNotLoaded)
}

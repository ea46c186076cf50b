package metastore

import (
	"context"
	"sort"
	"sync"
	"time"
)

type (
	// MemoryMetaStore keeps all metadata in process, for single-node runs
	// and tests where no database is configured
	MemoryMetaStore struct {
		mu        sync.RWMutex
		tables    map[string]TableMeta
		snapshots map[string][]SnapshotMeta
	}
)

func NewMemoryMetaStore() *MemoryMetaStore {
	logger.Debug().Msg("using in-memory metastore")
	return &MemoryMetaStore{
		tables:    map[string]TableMeta{},
		snapshots: map[string][]SnapshotMeta{},
	}
}

func (mms *MemoryMetaStore) CreateTable(_ context.Context, meta TableMeta) error {
	mms.mu.Lock()
	defer mms.mu.Unlock()
	if _, exists := mms.tables[meta.Name]; exists {
		return ErrTableExists
	}
	now := time.Now()
	meta.CreatedAt = now
	meta.UpdatedAt = now
	mms.tables[meta.Name] = meta
	return nil
}

func (mms *MemoryMetaStore) GetTable(_ context.Context, name string) (TableMeta, error) {
	mms.mu.RLock()
	defer mms.mu.RUnlock()
	meta, exists := mms.tables[name]
	if !exists {
		return TableMeta{}, ErrTableNotFound
	}
	return meta, nil
}

func (mms *MemoryMetaStore) ListTables(_ context.Context) ([]TableMeta, error) {
	mms.mu.RLock()
	defer mms.mu.RUnlock()
	metas := make([]TableMeta, 0, len(mms.tables))
	for _, meta := range mms.tables {
		metas = append(metas, meta)
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].Name < metas[j].Name })
	return metas, nil
}

func (mms *MemoryMetaStore) DropTable(_ context.Context, name string) error {
	mms.mu.Lock()
	defer mms.mu.Unlock()
	if _, exists := mms.tables[name]; !exists {
		return ErrTableNotFound
	}
	delete(mms.tables, name)
	delete(mms.snapshots, name)
	return nil
}

func (mms *MemoryMetaStore) CreateSnapshot(_ context.Context, snap SnapshotMeta) error {
	mms.mu.Lock()
	defer mms.mu.Unlock()
	meta, exists := mms.tables[snap.TableName]
	if !exists {
		return ErrTableNotFound
	}
	snap.CreatedAt = time.Now()
	meta.UpdatedAt = snap.CreatedAt
	mms.tables[snap.TableName] = meta
	mms.snapshots[snap.TableName] = append(mms.snapshots[snap.TableName], snap)
	return nil
}

func (mms *MemoryMetaStore) GetSnapshot(_ context.Context, table, snapshotID string) (SnapshotMeta, error) {
	mms.mu.RLock()
	defer mms.mu.RUnlock()
	for _, snap := range mms.snapshots[table] {
		if snap.ID == snapshotID {
			return snap, nil
		}
	}
	return SnapshotMeta{}, ErrSnapshotNotFound
}

func (mms *MemoryMetaStore) ListSnapshots(_ context.Context, table string) ([]SnapshotMeta, error) {
	mms.mu.RLock()
	defer mms.mu.RUnlock()
	snaps := make([]SnapshotMeta, len(mms.snapshots[table]))
	copy(snaps, mms.snapshots[table])
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].ID < snaps[j].ID })
	return snaps, nil
}

func (mms *MemoryMetaStore) Shutdown(_ context.Context) error {
	return nil
}

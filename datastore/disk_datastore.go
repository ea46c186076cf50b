package datastore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

type (
	DiskSnapshotStore struct {
		rootPath string
	}
)

func NewDiskSnapshotStore(rootPath string) (*DiskSnapshotStore, error) {
	dss := &DiskSnapshotStore{
		rootPath: rootPath,
	}
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("error in os.MkdirAll: %w", err)
	}

	return dss, nil
}

func (dss *DiskSnapshotStore) snapshotPath(table, snapshotID string) string {
	return filepath.Join(dss.rootPath, table, snapshotID+".parquet")
}

func (dss *DiskSnapshotStore) WriteSnapshot(_ context.Context, table, snapshotID string, data []byte) error {
	path := dss.snapshotPath(table, snapshotID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error in os.MkdirAll: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error in os.WriteFile: %w", err)
	}
	return nil
}

func (dss *DiskSnapshotStore) ReadSnapshot(_ context.Context, table, snapshotID string) ([]byte, error) {
	data, err := os.ReadFile(dss.snapshotPath(table, snapshotID))
	if err != nil {
		return nil, fmt.Errorf("error in os.ReadFile: %w", err)
	}
	return data, nil
}

func (dss *DiskSnapshotStore) Shutdown(_ context.Context) error {
	return nil
}

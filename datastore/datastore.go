package datastore

import (
	"context"

	"github.com/floedata/floe/gologger"
)

var (
	logger = gologger.NewLogger()
)

type (
	// SnapshotStore holds the parquet bytes of frozen tables. Implementations
	// must treat snapshot IDs as opaque and immutable once written.
	SnapshotStore interface {
		// WriteSnapshot stores the parquet bytes for a table snapshot
		WriteSnapshot(ctx context.Context, table, snapshotID string, data []byte) error
		// ReadSnapshot fetches the parquet bytes for a table snapshot
		ReadSnapshot(ctx context.Context, table, snapshotID string) ([]byte, error)

		Shutdown(ctx context.Context) error
	}
)

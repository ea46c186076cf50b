package metastore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/cockroach-go/v2/crdb/crdbpgx"
	"github.com/floedata/floe/utils"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog"
)

const (
	pgUniqueViolation = "23505"
)

type (
	PGMetaStore struct {
		pool *pgxpool.Pool
	}
)

func NewPGMetaStore(pool *pgxpool.Pool) (*PGMetaStore, error) {
	return &PGMetaStore{
		pool: pool,
	}, nil
}

func textArray(vals []string) (pgtype.TextArray, error) {
	var ta pgtype.TextArray
	if err := ta.Set(utils.ArrayOrEmpty(vals)); err != nil {
		return ta, fmt.Errorf("error in pgtype.TextArray.Set: %w", err)
	}
	return ta, nil
}

func (pms *PGMetaStore) CreateTable(ctx context.Context, meta TableMeta) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("table", meta.Name).Msg("creating table record")

	colNames, err := textArray(meta.ColumnNames)
	if err != nil {
		return err
	}
	colTypes, err := textArray(meta.ColumnTypes)
	if err != nil {
		return err
	}

	return mapPermError(utils.ReliableExec(ctx, pms.pool, time.Second*10, func(ctx context.Context, conn *pgxpool.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO tables (id, name, col_names, col_types, created_at, updated_at)
			VALUES ($1, $2, $3, $4, now(), now())
		`, meta.ID, meta.Name, colNames, colTypes)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
				return utils.PermError(ErrTableExists.Error())
			}
			return fmt.Errorf("error in INSERT tables: %w", err)
		}
		return nil
	}))
}

func (pms *PGMetaStore) GetTable(ctx context.Context, name string) (TableMeta, error) {
	var meta TableMeta
	err := utils.ReliableExec(ctx, pms.pool, time.Second*10, func(ctx context.Context, conn *pgxpool.Conn) error {
		row := conn.QueryRow(ctx, `
			SELECT id, name, col_names, col_types, created_at, updated_at
			FROM tables
			WHERE name = $1
		`, name)
		m, err := scanTableMeta(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return utils.PermError(ErrTableNotFound.Error())
			}
			return err
		}
		meta = m
		return nil
	})
	if err != nil {
		return meta, mapPermError(err)
	}
	return meta, nil
}

func (pms *PGMetaStore) ListTables(ctx context.Context) ([]TableMeta, error) {
	var metas []TableMeta
	err := utils.ReliableExec(ctx, pms.pool, time.Second*10, func(ctx context.Context, conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, name, col_names, col_types, created_at, updated_at
			FROM tables
			ORDER BY name
		`)
		if err != nil {
			return fmt.Errorf("error in SELECT tables: %w", err)
		}
		defer rows.Close()

		metas = metas[:0]
		for rows.Next() {
			m, err := scanTableMeta(rows)
			if err != nil {
				return err
			}
			metas = append(metas, m)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return metas, nil
}

func (pms *PGMetaStore) DropTable(ctx context.Context, name string) error {
	return mapPermError(utils.ReliableExecInTx(ctx, pms.pool, time.Second*10, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM tables WHERE name = $1`, name)
		if err != nil {
			return fmt.Errorf("error in DELETE tables: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return utils.PermError(ErrTableNotFound.Error())
		}
		_, err = tx.Exec(ctx, `DELETE FROM snapshots WHERE table_name = $1`, name)
		if err != nil {
			return fmt.Errorf("error in DELETE snapshots: %w", err)
		}
		return nil
	}))
}

// CreateSnapshot inserts the snapshot record and bumps the parent table in
// one transaction, retried the CRDB way on serialization conflicts
func (pms *PGMetaStore) CreateSnapshot(ctx context.Context, snap SnapshotMeta) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("table", snap.TableName).Str("snapshotID", snap.ID).Msg("creating snapshot record")

	colNames, err := textArray(snap.ColumnNames)
	if err != nil {
		return err
	}
	colTypes, err := textArray(snap.ColumnTypes)
	if err != nil {
		return err
	}

	return crdbpgx.ExecuteTx(ctx, pms.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE tables SET updated_at = now() WHERE name = $1`, snap.TableName)
		if err != nil {
			return fmt.Errorf("error in UPDATE tables: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrTableNotFound
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO snapshots (id, table_name, col_names, col_types, num_rows, bytes, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, now())
		`, snap.ID, snap.TableName, colNames, colTypes, snap.NumRows, snap.Bytes)
		if err != nil {
			return fmt.Errorf("error in INSERT snapshots: %w", err)
		}
		return nil
	})
}

func (pms *PGMetaStore) GetSnapshot(ctx context.Context, table, snapshotID string) (SnapshotMeta, error) {
	var snap SnapshotMeta
	err := utils.ReliableExec(ctx, pms.pool, time.Second*10, func(ctx context.Context, conn *pgxpool.Conn) error {
		row := conn.QueryRow(ctx, `
			SELECT id, table_name, col_names, col_types, num_rows, bytes, created_at
			FROM snapshots
			WHERE table_name = $1 AND id = $2
		`, table, snapshotID)
		s, err := scanSnapshotMeta(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return utils.PermError(ErrSnapshotNotFound.Error())
			}
			return err
		}
		snap = s
		return nil
	})
	if err != nil {
		return snap, mapPermError(err)
	}
	return snap, nil
}

func (pms *PGMetaStore) ListSnapshots(ctx context.Context, table string) ([]SnapshotMeta, error) {
	var snaps []SnapshotMeta
	err := utils.ReliableExec(ctx, pms.pool, time.Second*10, func(ctx context.Context, conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, table_name, col_names, col_types, num_rows, bytes, created_at
			FROM snapshots
			WHERE table_name = $1
			ORDER BY id
		`, table)
		if err != nil {
			return fmt.Errorf("error in SELECT snapshots: %w", err)
		}
		defer rows.Close()

		snaps = snaps[:0]
		for rows.Next() {
			s, err := scanSnapshotMeta(rows)
			if err != nil {
				return err
			}
			snaps = append(snaps, s)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return snaps, nil
}

func (pms *PGMetaStore) Shutdown(_ context.Context) error {
	pms.pool.Close()
	return nil
}

func scanTableMeta(row pgx.Row) (TableMeta, error) {
	var (
		meta     TableMeta
		colNames pgtype.TextArray
		colTypes pgtype.TextArray
	)
	err := row.Scan(&meta.ID, &meta.Name, &colNames, &colTypes, &meta.CreatedAt, &meta.UpdatedAt)
	if err != nil {
		return meta, err
	}
	if err := colNames.AssignTo(&meta.ColumnNames); err != nil {
		return meta, fmt.Errorf("error in col_names AssignTo: %w", err)
	}
	if err := colTypes.AssignTo(&meta.ColumnTypes); err != nil {
		return meta, fmt.Errorf("error in col_types AssignTo: %w", err)
	}
	return meta, nil
}

func scanSnapshotMeta(row pgx.Row) (SnapshotMeta, error) {
	var (
		snap     SnapshotMeta
		colNames pgtype.TextArray
		colTypes pgtype.TextArray
	)
	err := row.Scan(&snap.ID, &snap.TableName, &colNames, &colTypes, &snap.NumRows, &snap.Bytes, &snap.CreatedAt)
	if err != nil {
		return snap, err
	}
	if err := colNames.AssignTo(&snap.ColumnNames); err != nil {
		return snap, fmt.Errorf("error in col_names AssignTo: %w", err)
	}
	if err := colTypes.AssignTo(&snap.ColumnTypes); err != nil {
		return snap, fmt.Errorf("error in col_types AssignTo: %w", err)
	}
	return snap, nil
}

// mapPermError converts the stringly PermError back into the matching
// sentinel so callers can errors.Is against it
func mapPermError(err error) error {
	if err == nil {
		return nil
	}
	switch err.Error() {
	case ErrTableNotFound.Error():
		return ErrTableNotFound
	case ErrTableExists.Error():
		return ErrTableExists
	case ErrSnapshotNotFound.Error():
		return ErrSnapshotNotFound
	default:
		return err
	}
}

package utils

import (
	"context"
	"time"

	"github.com/UltimateTournament/backoff/v4"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ReliableExec runs f against a pooled connection with exponential backoff,
// giving up early on PermError
func ReliableExec(ctx context.Context, pool *pgxpool.Pool, tryTimeout time.Duration, f func(ctx context.Context, conn *pgxpool.Conn) error) error {
	return backoff.Retry(func() error {
		conn, err := pool.Acquire(ctx)
		if err != nil {
			return err
		}
		defer conn.Release()

		tryCtx, cancel := context.WithTimeout(ctx, tryTimeout)
		defer cancel()

		err = f(tryCtx, conn)
		if pe, ok := err.(PermError); ok {
			return backoff.Permanent(pe)
		}
		return err
	}, backoff.WithContext(backoff.NewExponentialBackOff(), ctx))
}

// ReliableExecInTx is ReliableExec wrapped in a transaction, committing only
// when f returns nil
func ReliableExecInTx(ctx context.Context, pool *pgxpool.Pool, tryTimeout time.Duration, f func(ctx context.Context, tx pgx.Tx) error) error {
	return ReliableExec(ctx, pool, tryTimeout, func(ctx context.Context, conn *pgxpool.Conn) error {
		return conn.BeginFunc(ctx, func(tx pgx.Tx) error {
			return f(ctx, tx)
		})
	})
}

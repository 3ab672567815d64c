package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ErrNoValidTokens is returned when a token save has nothing left to store
// after deleted tokens are dropped.
var ErrNoValidTokens = errors.New("no valid tokens to save")

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

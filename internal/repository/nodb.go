package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNoDatabase is returned by every call on NoDatabase.
var ErrNoDatabase = errors.New("database not configured")

// NoDatabase stands in for the pool when DATABASE_URL is unset, so reads and
// writes fail with ErrNoDatabase instead of dereferencing a nil pool.
var NoDatabase PgxPool = noDatabase{}

type noDatabase struct{}

func (noDatabase) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, ErrNoDatabase
}

func (noDatabase) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults {
	return noBatch{}
}

func (noDatabase) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, ErrNoDatabase
}

func (noDatabase) QueryRow(context.Context, string, ...any) pgx.Row {
	return noRow{}
}

type noRow struct{}

func (noRow) Scan(...any) error { return ErrNoDatabase }

type noBatch struct{}

func (noBatch) Exec() (pgconn.CommandTag, error) { return pgconn.CommandTag{}, ErrNoDatabase }
func (noBatch) Query() (pgx.Rows, error)         { return nil, ErrNoDatabase }
func (noBatch) QueryRow() pgx.Row                { return noRow{} }
func (noBatch) Close() error                     { return nil }

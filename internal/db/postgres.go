package db

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool is nil when DATABASE_URL is unset; the API then runs without storage.
var Pool *pgxpool.Pool

var (
	newPool = pgxpool.New
	pingDB  = func(ctx context.Context, pool *pgxpool.Pool) error {
		return pool.Ping(ctx)
	}
	fatalf = log.Fatalf
)

func InitPostgres(ctx context.Context, url string) *pgxpool.Pool {
	if url == "" {
		log.Warn("DATABASE_URL not set, skipping Postgres")
		return nil
	}

	pool, err := newPool(ctx, url)
	if err != nil {
		fatalf("failed to create Postgres pool: %v", err)
		return nil
	}
	if err := pingDB(ctx, pool); err != nil {
		pool.Close()
		fatalf("failed to connect to Postgres: %v", err)
		return nil
	}

	Pool = pool
	log.Info("connected to postgres")
	return pool
}

func Close() {
	if Pool != nil {
		Pool.Close()
		Pool = nil
	}
}

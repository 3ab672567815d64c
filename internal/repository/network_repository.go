package repository

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"

	"chainmetrics/internal/domain"
)

const createNetworkMetricsTable = `
CREATE TABLE IF NOT EXISTS hedera_network_metrics (
    timestamp        TIMESTAMPTZ      NOT NULL PRIMARY KEY,
    tps              DOUBLE PRECISION,
    transactions_24h BIGINT
);
`

type NetworkRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewNetworkRepository(pool PgxPool, tracer trace.Tracer) *NetworkRepository {
	return &NetworkRepository{pool: pool, tracer: tracer}
}

func (r *NetworkRepository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "network-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, createNetworkMetricsTable)
	return err
}

func (r *NetworkRepository) Save(ctx context.Context, m *domain.NetworkMetrics) error {
	ctx, span := r.tracer.Start(ctx, "network-repo.save")
	defer span.End()

	ts := time.Now().UTC()
	if m.Timestamp != nil {
		ts = *m.Timestamp
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO hedera_network_metrics (timestamp, tps, transactions_24h)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (timestamp) DO UPDATE SET
		     tps = EXCLUDED.tps,
		     transactions_24h = EXCLUDED.transactions_24h`,
		ts, m.TPS, m.Transactions24h,
	)
	if err != nil {
		return fmt.Errorf("save network metrics: %w", err)
	}
	return nil
}

// Latest returns the newest metrics, or nil when none were stored.
func (r *NetworkRepository) Latest(ctx context.Context) (*domain.NetworkMetrics, error) {
	ctx, span := r.tracer.Start(ctx, "network-repo.latest")
	defer span.End()

	var (
		ts  time.Time
		out = &domain.NetworkMetrics{Status: domain.StatusAvailable}
	)
	err := r.pool.QueryRow(ctx,
		`SELECT timestamp, tps, transactions_24h
		 FROM hedera_network_metrics
		 ORDER BY timestamp DESC
		 LIMIT 1`,
	).Scan(&ts, &out.TPS, &out.Transactions24h)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest network metrics: %w", err)
	}
	ts = ts.UTC()
	out.Timestamp = &ts
	return out, nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"

	"chainmetrics/internal/domain"
)

const createHBARMetricsTable = `
CREATE TABLE IF NOT EXISTS hbar_metrics (
    timestamp          TIMESTAMPTZ      NOT NULL PRIMARY KEY,
    price_usd          NUMERIC          NOT NULL,
    market_cap         DOUBLE PRECISION NOT NULL DEFAULT 0,
    volume_24h         DOUBLE PRECISION NOT NULL DEFAULT 0,
    price_change_24h   DOUBLE PRECISION NOT NULL DEFAULT 0,
    circulating_supply DOUBLE PRECISION NOT NULL DEFAULT 0,
    market_cap_rank    INTEGER          NOT NULL DEFAULT 0
);
`

type HBARRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewHBARRepository(pool PgxPool, tracer trace.Tracer) *HBARRepository {
	return &HBARRepository{pool: pool, tracer: tracer}
}

func (r *HBARRepository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "hbar-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, createHBARMetricsTable)
	return err
}

// Save stores snap, replacing a row with the same timestamp.
func (r *HBARRepository) Save(ctx context.Context, snap *domain.HBARSnapshot) error {
	ctx, span := r.tracer.Start(ctx, "hbar-repo.save")
	defer span.End()

	_, err := r.pool.Exec(ctx,
		`INSERT INTO hbar_metrics (timestamp, price_usd, market_cap, volume_24h, price_change_24h,
		                           circulating_supply, market_cap_rank)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (timestamp) DO UPDATE SET
		     price_usd = EXCLUDED.price_usd,
		     market_cap = EXCLUDED.market_cap,
		     volume_24h = EXCLUDED.volume_24h,
		     price_change_24h = EXCLUDED.price_change_24h,
		     circulating_supply = EXCLUDED.circulating_supply,
		     market_cap_rank = EXCLUDED.market_cap_rank`,
		snap.Timestamp, snap.PriceUSD, snap.MarketCap, snap.Volume24h, snap.PriceChange24h,
		snap.CirculatingSupply, snap.MarketCapRank,
	)
	if err != nil {
		return fmt.Errorf("save hbar snapshot: %w", err)
	}
	return nil
}

// Latest returns the newest snapshot, or nil when the table is empty.
func (r *HBARRepository) Latest(ctx context.Context) (*domain.HBARSnapshot, error) {
	ctx, span := r.tracer.Start(ctx, "hbar-repo.latest")
	defer span.End()

	s := &domain.HBARSnapshot{}
	err := r.pool.QueryRow(ctx,
		`SELECT timestamp, price_usd, market_cap, volume_24h, price_change_24h,
		        circulating_supply, market_cap_rank
		 FROM hbar_metrics
		 ORDER BY timestamp DESC
		 LIMIT 1`,
	).Scan(&s.Timestamp, &s.PriceUSD, &s.MarketCap, &s.Volume24h, &s.PriceChange24h,
		&s.CirculatingSupply, &s.MarketCapRank)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest hbar snapshot: %w", err)
	}
	s.Timestamp = s.Timestamp.UTC()
	return s, nil
}

// History returns the price points of the last days, oldest first.
func (r *HBARRepository) History(ctx context.Context, days int) ([]domain.PricePoint, error) {
	ctx, span := r.tracer.Start(ctx, "hbar-repo.history")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT timestamp, price_usd, volume_24h
		 FROM hbar_metrics
		 WHERE timestamp >= NOW() - make_interval(days => $1)
		 ORDER BY timestamp ASC`,
		days,
	)
	if err != nil {
		return nil, fmt.Errorf("hbar history: %w", err)
	}
	defer rows.Close()

	points := []domain.PricePoint{}
	for rows.Next() {
		var p domain.PricePoint
		if err := rows.Scan(&p.Timestamp, &p.PriceUSD, &p.Volume24h); err != nil {
			return nil, err
		}
		p.Timestamp = p.Timestamp.UTC()
		points = append(points, p)
	}
	return points, rows.Err()
}

// Stats aggregates the snapshots of the last 30 days.
func (r *HBARRepository) Stats(ctx context.Context) (*domain.HBARStats, error) {
	ctx, span := r.tracer.Start(ctx, "hbar-repo.stats")
	defer span.End()

	var (
		count            int64
		minP, maxP, avgP decimal.NullDecimal
		first, last      *time.Time
	)
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), MIN(price_usd), MAX(price_usd), AVG(price_usd), MIN(timestamp), MAX(timestamp)
		 FROM hbar_metrics
		 WHERE timestamp >= NOW() - INTERVAL '30 days'`,
	).Scan(&count, &minP, &maxP, &avgP, &first, &last)
	if err != nil {
		return nil, fmt.Errorf("hbar stats: %w", err)
	}

	return &domain.HBARStats{
		TotalRecords: count,
		PriceStats: domain.HBARPriceStats{
			MinPrice30d: nullDecimal(minP, 8),
			MaxPrice30d: nullDecimal(maxP, 8),
			AvgPrice30d: nullDecimal(avgP, 8),
		},
		DataRange: domain.HBARDataRange{FirstRecord: utcPtr(first), LastRecord: utcPtr(last)},
		Timestamp: time.Now().UTC(),
	}, nil
}

func nullDecimal(d decimal.NullDecimal, places int32) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal.Round(places)
	return &v
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

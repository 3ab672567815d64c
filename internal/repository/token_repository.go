package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"chainmetrics/internal/domain"
)

const createHederaTokensTable = `
CREATE TABLE IF NOT EXISTS hedera_tokens (
    timestamp        TIMESTAMPTZ      NOT NULL,
    token_id         TEXT             NOT NULL,
    name             TEXT             NOT NULL,
    symbol           TEXT             NOT NULL,
    price_usd        NUMERIC,
    market_cap       DOUBLE PRECISION,
    volume_24h       DOUBLE PRECISION,
    price_change_24h DOUBLE PRECISION,
    decimals         INTEGER          NOT NULL DEFAULT 0,
    total_supply     BIGINT           NOT NULL DEFAULT 0,
    holders_count    INTEGER,
    transfers_24h    INTEGER,
    token_type       TEXT             NOT NULL DEFAULT 'FUNGIBLE_COMMON',
    memo             TEXT             NOT NULL DEFAULT '',
    PRIMARY KEY (timestamp, token_id)
);

CREATE INDEX IF NOT EXISTS idx_hedera_tokens_token_time
    ON hedera_tokens (token_id, timestamp DESC);
`

const tokenColumns = `token_id, name, symbol, price_usd, market_cap, volume_24h, price_change_24h,
       decimals, total_supply, holders_count, transfers_24h, token_type, memo, timestamp`

type TokenRepository struct {
	pool   PgxPool
	tracer trace.Tracer
	now    func() time.Time
}

func NewTokenRepository(pool PgxPool, tracer trace.Tracer) *TokenRepository {
	return &TokenRepository{pool: pool, tracer: tracer, now: time.Now}
}

func (r *TokenRepository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "token-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, createHederaTokensTable)
	return err
}

// SaveTokens stores one row per non-deleted token, all stamped with the same
// time, and returns how many rows were written.
func (r *TokenRepository) SaveTokens(ctx context.Context, tokens []domain.TokenListing) (int, error) {
	ctx, span := r.tracer.Start(ctx, "token-repo.save-tokens")
	defer span.End()

	valid := saveableTokens(tokens)
	span.SetAttributes(attribute.Int("tokens.valid", len(valid)))
	if len(valid) == 0 {
		return 0, ErrNoValidTokens
	}

	now := r.now().UTC()
	batch := &pgx.Batch{}
	for _, t := range valid {
		tokenType := t.TokenType
		if tokenType == "" {
			tokenType = domain.DefaultTokenType
		}
		batch.Queue(
			`INSERT INTO hedera_tokens (timestamp, token_id, name, symbol, price_usd, market_cap, volume_24h,
			                            price_change_24h, decimals, total_supply, holders_count, transfers_24h,
			                            token_type, memo)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			 ON CONFLICT (timestamp, token_id) DO NOTHING`,
			now, t.TokenID, t.Name, t.Symbol, toNullDecimal(t.PriceUSD), t.MarketCap, t.Volume24h,
			t.PriceChange24h, t.Decimals, t.TotalSupply, t.HoldersCount, t.Transfers24h, tokenType, t.Memo,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range valid {
		if _, err := br.Exec(); err != nil {
			return 0, fmt.Errorf("save tokens: %w", err)
		}
	}
	return len(valid), nil
}

// TopTokens returns the latest row of each token seen within an hour of the
// newest refresh, ordered by holders and then total supply.
func (r *TokenRepository) TopTokens(ctx context.Context, limit int) ([]domain.TokenListing, error) {
	ctx, span := r.tracer.Start(ctx, "token-repo.top-tokens")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT `+tokenColumns+`
		 FROM (
		     SELECT DISTINCT ON (token_id) *
		     FROM hedera_tokens
		     WHERE timestamp >= (SELECT MAX(timestamp) FROM hedera_tokens) - INTERVAL '1 hour'
		     ORDER BY token_id, timestamp DESC
		 ) latest
		 ORDER BY COALESCE(holders_count, 0) DESC, total_supply DESC, token_id
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("top tokens: %w", err)
	}
	defer rows.Close()

	tokens := []domain.TokenListing{}
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

// TokenByID returns the newest row for tokenID, or nil when it is unknown.
func (r *TokenRepository) TokenByID(ctx context.Context, tokenID string) (*domain.TokenListing, error) {
	ctx, span := r.tracer.Start(ctx, "token-repo.token-by-id")
	defer span.End()

	t, err := scanToken(r.pool.QueryRow(ctx,
		`SELECT `+tokenColumns+`
		 FROM hedera_tokens
		 WHERE token_id = $1
		 ORDER BY timestamp DESC
		 LIMIT 1`,
		tokenID,
	))
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("token %s: %w", tokenID, err)
	}
	return &t, nil
}

func saveableTokens(tokens []domain.TokenListing) []domain.TokenListing {
	out := make([]domain.TokenListing, 0, len(tokens))
	for _, t := range tokens {
		if t.Deleted || t.TokenID == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

func scanToken(row pgx.Row) (domain.TokenListing, error) {
	var (
		t     domain.TokenListing
		price decimal.NullDecimal
	)
	err := row.Scan(&t.TokenID, &t.Name, &t.Symbol, &price, &t.MarketCap, &t.Volume24h, &t.PriceChange24h,
		&t.Decimals, &t.TotalSupply, &t.HoldersCount, &t.Transfers24h, &t.TokenType, &t.Memo, &t.Timestamp)
	if err != nil {
		return t, err
	}
	if price.Valid {
		t.PriceUSD = &price.Decimal
	}
	t.Timestamp = t.Timestamp.UTC()
	return t, nil
}

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

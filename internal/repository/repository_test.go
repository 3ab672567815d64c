package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"chainmetrics/internal/domain"
)

func TestSaveableTokensDropsDeletedAndBlank(t *testing.T) {
	tokens := []domain.TokenListing{
		{TokenID: "0.0.1", Name: "A"},
		{TokenID: "0.0.2", Name: "B", Deleted: true},
		{TokenID: "", Name: "C"},
		{TokenID: "0.0.4", Name: "D"},
	}

	got := saveableTokens(tokens)
	require.Len(t, got, 2)
	assert.Equal(t, "0.0.1", got[0].TokenID)
	assert.Equal(t, "0.0.4", got[1].TokenID)
}

func TestSaveTokensRejectsEmptyInput(t *testing.T) {
	repo := NewTokenRepository(nil, noop.NewTracerProvider().Tracer("test"))

	n, err := repo.SaveTokens(context.Background(), []domain.TokenListing{{TokenID: "0.0.9", Deleted: true}})
	assert.Zero(t, n)
	assert.True(t, errors.Is(err, ErrNoValidTokens))

	_, err = repo.SaveTokens(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoValidTokens)
}

func TestNullDecimalRounds(t *testing.T) {
	assert.Nil(t, nullDecimal(decimal.NullDecimal{}, 8))

	got := nullDecimal(decimal.NullDecimal{Decimal: decimal.RequireFromString("0.123456789123"), Valid: true}, 8)
	require.NotNil(t, got)
	assert.Equal(t, "0.12345679", got.String())
}

func TestToNullDecimal(t *testing.T) {
	assert.False(t, toNullDecimal(nil).Valid)

	d := decimal.RequireFromString("1.5")
	nd := toNullDecimal(&d)
	assert.True(t, nd.Valid)
	assert.True(t, nd.Decimal.Equal(d))
}

func TestUTCPtr(t *testing.T) {
	assert.Nil(t, utcPtr(nil))

	loc := time.FixedZone("UTC+2", 2*60*60)
	in := time.Date(2025, 1, 1, 12, 0, 0, 0, loc)
	out := utcPtr(&in)
	require.NotNil(t, out)
	assert.Equal(t, time.UTC, out.Location())
	assert.True(t, out.Equal(in))
}

func TestNoDatabaseFailsEveryCall(t *testing.T) {
	ctx := context.Background()
	tracer := noop.NewTracerProvider().Tracer("test")

	_, err := NewHBARRepository(NoDatabase, tracer).Latest(ctx)
	assert.ErrorIs(t, err, ErrNoDatabase)

	_, err = NewTokenRepository(NoDatabase, tracer).TopTokens(ctx, 5)
	assert.ErrorIs(t, err, ErrNoDatabase)

	_, err = NewTokenRepository(NoDatabase, tracer).SaveTokens(ctx, []domain.TokenListing{{TokenID: "0.0.1"}})
	assert.ErrorIs(t, err, ErrNoDatabase)

	assert.ErrorIs(t, NewNetworkRepository(NoDatabase, tracer).Save(ctx, &domain.NetworkMetrics{}), ErrNoDatabase)
}

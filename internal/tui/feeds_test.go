package tui

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chainmetrics/internal/apiclient"
	"chainmetrics/internal/domain"
	"chainmetrics/internal/poll"
)

type fakeAPI struct {
	mu          sync.Mutex
	historyDays []int
	current     int
	healthErr   error
	tokensFail  bool
	hbarRefresh bool
}

func (f *fakeAPI) Health(ctx context.Context) (*domain.HealthStatus, error) {
	if f.healthErr != nil {
		return nil, f.healthErr
	}
	return &domain.HealthStatus{Status: domain.HealthHealthy, DatabaseConnected: true, Version: domain.ServiceVersion}, nil
}

func (f *fakeAPI) CurrentHBAR(ctx context.Context) apiclient.Result[*domain.HBARSnapshot] {
	f.mu.Lock()
	f.current++
	f.mu.Unlock()
	return apiclient.Result[*domain.HBARSnapshot]{Value: &domain.HBARSnapshot{
		PriceUSD:          decimal.RequireFromString("0.0712"),
		MarketCap:         2_500_000_000,
		PriceChange24h:    1.5,
		MarketCapRank:     30,
		CirculatingSupply: 38_500_000_000,
	}}
}

func (f *fakeAPI) HBARHistory(ctx context.Context, days int) apiclient.Result[[]domain.PricePoint] {
	f.mu.Lock()
	f.historyDays = append(f.historyDays, days)
	f.mu.Unlock()
	return apiclient.Result[[]domain.PricePoint]{Value: []domain.PricePoint{
		{PriceUSD: decimal.RequireFromString("0.07")},
		{PriceUSD: decimal.RequireFromString("0.08")},
	}}
}

func (f *fakeAPI) MetricsSummary(ctx context.Context) apiclient.Result[*domain.MetricsSummary] {
	return apiclient.Result[*domain.MetricsSummary]{Value: &domain.MetricsSummary{Network: domain.ComingSoonNetwork()}}
}

func (f *fakeAPI) TopTokens(ctx context.Context, limit int) apiclient.Result[[]domain.TokenListing] {
	if f.tokensFail {
		return apiclient.Result[[]domain.TokenListing]{
			Value:   domain.SampleTokens(),
			Outcome: apiclient.Fallback,
			Err:     errors.New("boom"),
		}
	}
	return apiclient.Result[[]domain.TokenListing]{Value: []domain.TokenListing{}}
}

func (f *fakeAPI) RefreshHBAR(ctx context.Context) apiclient.Result[bool] {
	return apiclient.Result[bool]{Value: f.hbarRefresh}
}

func (f *fakeAPI) RefreshTokens(ctx context.Context) apiclient.Result[bool] {
	return apiclient.Result[bool]{Value: true}
}

func (f *fakeAPI) currentCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *fakeAPI) historyCalls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.historyDays...)
}

func TestOpenFeedsSubscribesEveryKey(t *testing.T) {
	reg := poll.NewRegistry()
	feeds := OpenFeeds(reg, &fakeAPI{}, 7)

	assert.Equal(t, 5, reg.Len())
	assert.Len(t, feeds.Updates(), 5)

	feeds.Close()
	assert.Equal(t, 0, reg.Len())
}

func TestFeedsShareEntriesAcrossDashboards(t *testing.T) {
	reg := poll.NewRegistry()
	api := &fakeAPI{}
	a := OpenFeeds(reg, api, 7)
	b := OpenFeeds(reg, api, 7)
	defer b.Close()

	assert.Equal(t, 5, reg.Len())
	a.Close()
	assert.Equal(t, 5, reg.Len())
}

func TestSetHistoryDaysSwapsSubscription(t *testing.T) {
	reg := poll.NewRegistry()
	api := &fakeAPI{}
	feeds := OpenFeeds(reg, api, 7)
	defer feeds.Close()

	old := feeds.Updates()[1]
	feeds.SetHistoryDays(30)

	assert.Equal(t, 30, feeds.HistoryDays())
	assert.Equal(t, 5, reg.Len())
	_, open := <-old
	for open {
		_, open = <-old
	}
	require.Eventually(t, func() bool {
		return slices.Contains(api.historyCalls(), 30)
	}, time.Second, 5*time.Millisecond)
}

func TestSetHistoryDaysSameRangeKeepsSubscription(t *testing.T) {
	reg := poll.NewRegistry()
	feeds := OpenFeeds(reg, &fakeAPI{}, 7)
	defer feeds.Close()

	before := feeds.Updates()[1]
	after := feeds.SetHistoryDays(7)
	assert.Equal(t, before, after)
}

func TestFeedsSnapshotCarriesFallback(t *testing.T) {
	reg := poll.NewRegistry()
	feeds := OpenFeeds(reg, &fakeAPI{tokensFail: true}, 7)
	defer feeds.Close()

	require.Eventually(t, func() bool {
		return feeds.snapshot().tokens.HasData
	}, time.Second, 5*time.Millisecond)

	s := feeds.snapshot()
	assert.True(t, s.tokens.Data.UsedFallback())
	assert.Len(t, s.tokens.Data.Value, 3)
}

func TestFeedsRefreshBypassesDedupe(t *testing.T) {
	reg := poll.NewRegistry()
	api := &fakeAPI{}
	feeds := OpenFeeds(reg, api, 7)
	defer feeds.Close()

	require.Eventually(t, func() bool { return api.currentCalls() == 1 }, time.Second, 5*time.Millisecond)
	feeds.Refresh()
	require.Eventually(t, func() bool { return api.currentCalls() == 2 }, time.Second, 5*time.Millisecond)
}

func TestNextRangeCycles(t *testing.T) {
	assert.Equal(t, 7, nextRange(1))
	assert.Equal(t, 30, nextRange(7))
	assert.Equal(t, 90, nextRange(30))
	assert.Equal(t, 1, nextRange(90))
	assert.Equal(t, 1, nextRange(14))
}

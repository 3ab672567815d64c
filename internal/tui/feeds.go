package tui

import (
	"context"
	"sync"
	"time"

	"chainmetrics/internal/apiclient"
	"chainmetrics/internal/domain"
	"chainmetrics/internal/poll"
)

// Refresh cadence per data kind.
const (
	currentInterval = 30 * time.Second
	historyInterval = 300 * time.Second
	summaryInterval = 60 * time.Second
	tokensInterval  = 60 * time.Second
	healthInterval  = 30 * time.Second

	dashboardTopTokens = 10
)

// API is the part of the fetch client the dashboard reads from.
type API interface {
	Health(ctx context.Context) (*domain.HealthStatus, error)
	CurrentHBAR(ctx context.Context) apiclient.Result[*domain.HBARSnapshot]
	HBARHistory(ctx context.Context, days int) apiclient.Result[[]domain.PricePoint]
	MetricsSummary(ctx context.Context) apiclient.Result[*domain.MetricsSummary]
	TopTokens(ctx context.Context, limit int) apiclient.Result[[]domain.TokenListing]
	RefreshHBAR(ctx context.Context) apiclient.Result[bool]
	RefreshTokens(ctx context.Context) apiclient.Result[bool]
}

// Feeds holds the dashboard's subscriptions on a shared registry.
type Feeds struct {
	reg *poll.Registry
	api API

	mu          sync.Mutex
	historyDays int
	current     *poll.Subscription[apiclient.Result[*domain.HBARSnapshot]]
	history     *poll.Subscription[apiclient.Result[[]domain.PricePoint]]
	summary     *poll.Subscription[apiclient.Result[*domain.MetricsSummary]]
	tokens      *poll.Subscription[apiclient.Result[[]domain.TokenListing]]
	health      *poll.Subscription[*domain.HealthStatus]
}

// OpenFeeds subscribes to every dashboard key. Close releases them.
func OpenFeeds(reg *poll.Registry, api API, historyDays int) *Feeds {
	f := &Feeds{reg: reg, api: api, historyDays: historyDays}

	f.current = poll.Subscribe(reg, poll.Key("hbar", "current"),
		func(ctx context.Context) (apiclient.Result[*domain.HBARSnapshot], error) {
			return api.CurrentHBAR(ctx), nil
		},
		poll.Options[apiclient.Result[*domain.HBARSnapshot]]{RefreshInterval: currentInterval, RevalidateOnFocus: true})

	f.history = subscribeHistory(reg, api, historyDays)

	f.summary = poll.Subscribe(reg, poll.Key("metrics", "summary"),
		func(ctx context.Context) (apiclient.Result[*domain.MetricsSummary], error) {
			return api.MetricsSummary(ctx), nil
		},
		poll.Options[apiclient.Result[*domain.MetricsSummary]]{RefreshInterval: summaryInterval, RevalidateOnFocus: true})

	f.tokens = poll.Subscribe(reg, poll.Key("tokens", "top", dashboardTopTokens),
		func(ctx context.Context) (apiclient.Result[[]domain.TokenListing], error) {
			return api.TopTokens(ctx, dashboardTopTokens), nil
		},
		poll.Options[apiclient.Result[[]domain.TokenListing]]{RefreshInterval: tokensInterval, RevalidateOnFocus: true})

	f.health = poll.Subscribe(reg, poll.Key("health"),
		func(ctx context.Context) (*domain.HealthStatus, error) {
			return api.Health(ctx)
		},
		poll.Options[*domain.HealthStatus]{RefreshInterval: healthInterval})

	return f
}

func subscribeHistory(reg *poll.Registry, api API, days int) *poll.Subscription[apiclient.Result[[]domain.PricePoint]] {
	return poll.Subscribe(reg, poll.Key("hbar", "history", days),
		func(ctx context.Context) (apiclient.Result[[]domain.PricePoint], error) {
			return api.HBARHistory(ctx, days), nil
		},
		poll.Options[apiclient.Result[[]domain.PricePoint]]{
			RefreshInterval: historyInterval,
			FallbackData:    apiclient.Result[[]domain.PricePoint]{Value: []domain.PricePoint{}},
		})
}

// SetHistoryDays swaps the history subscription for another day range and
// returns the new subscription's update channel.
func (f *Feeds) SetHistoryDays(days int) <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	if days == f.historyDays {
		return f.history.Updates()
	}
	old := f.history
	f.history = subscribeHistory(f.reg, f.api, days)
	f.historyDays = days
	old.Close()
	return f.history.Updates()
}

func (f *Feeds) HistoryDays() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.historyDays
}

// Updates lists the change channels of every live subscription.
func (f *Feeds) Updates() []<-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return []<-chan struct{}{
		f.current.Updates(),
		f.history.Updates(),
		f.summary.Updates(),
		f.tokens.Updates(),
		f.health.Updates(),
	}
}

// Refresh forces a new fetch of every key.
func (f *Feeds) Refresh() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current.Refresh()
	f.history.Refresh()
	f.summary.Refresh()
	f.tokens.Refresh()
	f.health.Refresh()
}

// Focus revalidates the keys that follow terminal focus.
func (f *Feeds) Focus() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current.Focus()
	f.history.Focus()
	f.summary.Focus()
	f.tokens.Focus()
	f.health.Focus()
}

func (f *Feeds) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current.Close()
	f.history.Close()
	f.summary.Close()
	f.tokens.Close()
	f.health.Close()
}

// snapshot is everything the view renders, read in one pass.
type snapshot struct {
	current     poll.State[apiclient.Result[*domain.HBARSnapshot]]
	history     poll.State[apiclient.Result[[]domain.PricePoint]]
	summary     poll.State[apiclient.Result[*domain.MetricsSummary]]
	tokens      poll.State[apiclient.Result[[]domain.TokenListing]]
	health      poll.State[*domain.HealthStatus]
	historyDays int
}

func (f *Feeds) snapshot() snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return snapshot{
		current:     f.current.State(),
		history:     f.history.State(),
		summary:     f.summary.State(),
		tokens:      f.tokens.State(),
		health:      f.health.State(),
		historyDays: f.historyDays,
	}
}

package apiclient

import (
	"context"
	"net/url"
	"strconv"

	"chainmetrics/internal/domain"
	"chainmetrics/internal/observability"
)

const (
	pathHealth        = "/health"
	pathHBARCurrent   = "/hbar/current"
	pathHBARHistory   = "/hbar/history"
	pathHBARStats     = "/hbar/stats"
	pathHBARRefresh   = "/hbar/refresh"
	pathSummary       = "/metrics/summary"
	pathTopTokens     = "/tokens/top"
	pathTokensRefresh = "/tokens/refresh"
	pathTokens        = "/tokens/"
)

// Health is the only operation without a fallback: its error reaches the caller.
func (c *Client) Health(ctx context.Context) (*domain.HealthStatus, error) {
	var status domain.HealthStatus
	if err := c.getJSON(ctx, pathHealth, nil, &status); err != nil {
		observability.RecordClientRequest("health", "error")
		return nil, err
	}
	observability.RecordClientRequest("health", Fetched.String())
	return &status, nil
}

// CurrentHBAR returns the latest snapshot, or nil when the API has none or the call fails.
func (c *Client) CurrentHBAR(ctx context.Context) Result[*domain.HBARSnapshot] {
	var snap *domain.HBARSnapshot
	if err := c.getJSON(ctx, pathHBARCurrent, nil, &snap); err != nil {
		return fallback[*domain.HBARSnapshot](c, "current_hbar", nil, err)
	}
	return ok(snap, "current_hbar")
}

// HBARHistory returns the price history for the last days (7 when days <= 0).
func (c *Client) HBARHistory(ctx context.Context, days int) Result[[]domain.PricePoint] {
	if days <= 0 {
		days = domain.DefaultHistoryDays
	}
	q := url.Values{"days": {strconv.Itoa(days)}}

	var points []domain.PricePoint
	if err := c.getJSON(ctx, pathHBARHistory, q, &points); err != nil {
		return fallback(c, "hbar_history", []domain.PricePoint{}, err)
	}
	if points == nil {
		points = []domain.PricePoint{}
	}
	return ok(points, "hbar_history")
}

func (c *Client) HBARStats(ctx context.Context) Result[*domain.HBARStats] {
	var stats *domain.HBARStats
	if err := c.getJSON(ctx, pathHBARStats, nil, &stats); err != nil {
		return fallback[*domain.HBARStats](c, "hbar_stats", nil, err)
	}
	return ok(stats, "hbar_stats")
}

func (c *Client) MetricsSummary(ctx context.Context) Result[*domain.MetricsSummary] {
	var summary *domain.MetricsSummary
	if err := c.getJSON(ctx, pathSummary, nil, &summary); err != nil {
		return fallback[*domain.MetricsSummary](c, "metrics_summary", nil, err)
	}
	return ok(summary, "metrics_summary")
}

// TopTokens returns up to limit tokens (10 when limit <= 0). On failure the
// value is the static sample listing when sample fallback is enabled.
func (c *Client) TopTokens(ctx context.Context, limit int) Result[[]domain.TokenListing] {
	if limit <= 0 {
		limit = domain.DefaultTopTokensLimit
	}
	q := url.Values{"limit": {strconv.Itoa(limit)}}

	var tokens []domain.TokenListing
	if err := c.getJSON(ctx, pathTopTokens, q, &tokens); err != nil {
		def := []domain.TokenListing{}
		if c.sampleTokens {
			def = domain.SampleTokens()
		}
		return fallback(c, "top_tokens", def, err)
	}
	if tokens == nil {
		tokens = []domain.TokenListing{}
	}
	return ok(tokens, "top_tokens")
}

func (c *Client) TokenByID(ctx context.Context, tokenID string) Result[*domain.TokenListing] {
	var token *domain.TokenListing
	if err := c.getJSON(ctx, pathTokens+url.PathEscape(tokenID), nil, &token); err != nil {
		return fallback[*domain.TokenListing](c, "token_by_id", nil, err)
	}
	return ok(token, "token_by_id")
}

// RefreshHBAR asks the API to refetch HBAR data. Any 2xx counts as success.
func (c *Client) RefreshHBAR(ctx context.Context) Result[bool] {
	if err := c.post(ctx, pathHBARRefresh); err != nil {
		return fallback(c, "refresh_hbar", false, err)
	}
	return ok(true, "refresh_hbar")
}

func (c *Client) RefreshTokens(ctx context.Context) Result[bool] {
	if err := c.post(ctx, pathTokensRefresh); err != nil {
		return fallback(c, "refresh_tokens", false, err)
	}
	return ok(true, "refresh_tokens")
}

func ok[T any](v T, operation string) Result[T] {
	observability.RecordClientRequest(operation, Fetched.String())
	return fetched(v)
}

func fallback[T any](c *Client, operation string, def T, err error) Result[T] {
	c.logger.Warn("request failed, using fallback", "operation", operation, "err", err)
	observability.RecordClientRequest(operation, Fallback.String())
	observability.RecordClientFallback(operation)
	return Result[T]{Value: def, Outcome: Fallback, Err: err}
}

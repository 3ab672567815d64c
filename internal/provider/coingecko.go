package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"chainmetrics/internal/domain"
	"chainmetrics/internal/observability"
)

const coingeckoBaseURL = "https://api.coingecko.com/api/v3"

// StatusError is returned when an upstream API answers with a non-200 status.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API error %d: %s", e.Provider, e.StatusCode, e.Body)
}

// retryable reports whether a failed status is worth another attempt.
func (e *StatusError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

type retryPolicy struct {
	maxTries uint
	initial  time.Duration
	max      time.Duration
}

// CoinGeckoProvider fetches HBAR market data from the CoinGecko API.
type CoinGeckoProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	tracer  trace.Tracer
	limiter *RateLimiter
	retry   retryPolicy
}

// NewCoinGeckoProvider creates a provider limited to requestsPerMinute calls.
// Transport errors, 429 and 5xx responses are retried up to three times with
// exponential backoff between 4 and 10 seconds.
func NewCoinGeckoProvider(apiKey string, requestsPerMinute int, tracer trace.Tracer) *CoinGeckoProvider {
	return &CoinGeckoProvider{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: coingeckoBaseURL,
		apiKey:  apiKey,
		tracer:  tracer,
		limiter: PerMinute(requestsPerMinute),
		retry:   retryPolicy{maxTries: 3, initial: 4 * time.Second, max: 10 * time.Second},
	}
}

type coinResponse struct {
	MarketCapRank *int `json:"market_cap_rank"`
	MarketData    *struct {
		CurrentPrice             map[string]decimal.Decimal `json:"current_price"`
		MarketCap                map[string]float64         `json:"market_cap"`
		TotalVolume              map[string]float64         `json:"total_volume"`
		PriceChangePercentage24h *float64                   `json:"price_change_percentage_24h"`
		CirculatingSupply        *float64                   `json:"circulating_supply"`
		MarketCapRank            *int                       `json:"market_cap_rank"`
	} `json:"market_data"`
}

// FetchHBAR fetches the current HBAR market snapshot.
func (p *CoinGeckoProvider) FetchHBAR(ctx context.Context) (*domain.HBARSnapshot, error) {
	ctx, span := p.tracer.Start(ctx, "coingecko.fetch-hbar")
	defer span.End()

	query := url.Values{
		"localization":   {"false"},
		"tickers":        {"false"},
		"market_data":    {"true"},
		"community_data": {"false"},
		"developer_data": {"false"},
		"sparkline":      {"false"},
	}
	body, err := p.doRequest(ctx, "/coins/"+domain.HBARCoinGeckoID, query)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("fetch hbar: %w", err)
	}

	var raw coinResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse hbar: %w", err)
	}
	if raw.MarketData == nil {
		return nil, errors.New("parse hbar: response has no market_data")
	}
	price, ok := raw.MarketData.CurrentPrice["usd"]
	if !ok {
		return nil, errors.New("parse hbar: response has no usd price")
	}

	md := raw.MarketData
	snap := &domain.HBARSnapshot{
		Timestamp:         time.Now().UTC(),
		PriceUSD:          price,
		MarketCap:         md.MarketCap["usd"],
		Volume24h:         md.TotalVolume["usd"],
		PriceChange24h:    derefFloat(md.PriceChangePercentage24h),
		CirculatingSupply: derefFloat(md.CirculatingSupply),
	}
	switch {
	case md.MarketCapRank != nil:
		snap.MarketCapRank = *md.MarketCapRank
	case raw.MarketCapRank != nil:
		snap.MarketCapRank = *raw.MarketCapRank
	}
	return snap, nil
}

func (p *CoinGeckoProvider) doRequest(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.retry.initial
	b.MaxInterval = p.retry.max
	b.Multiplier = 2
	b.RandomizationFactor = 0

	op := func() ([]byte, error) {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("rate limit wait: %w", err))
		}
		start := time.Now()
		body, err := p.get(ctx, endpoint, query)
		observability.RecordUpstream("coingecko", endpoint, time.Since(start).Seconds(), err)

		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.retryable() {
			return nil, backoff.Permanent(err)
		}
		return body, err
	}

	return backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(p.retry.maxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Warn("coingecko request failed, retrying", "endpoint", endpoint, "err", err, "in", next)
		}),
	)
}

func (p *CoinGeckoProvider) get(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	target := p.baseURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if p.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{Provider: "coingecko", StatusCode: resp.StatusCode, Body: string(body)}
	}

	return io.ReadAll(resp.Body)
}

const userAgent = "ChainMetrics/1.0 (Hedera Dashboard)"

func derefFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

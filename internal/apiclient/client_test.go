package apiclient

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"chainmetrics/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, sample bool) (*Client, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	var buf bytes.Buffer
	c := New(Config{
		BaseURL:              srv.URL + "/api/v1/",
		RequestTimeout:       200 * time.Millisecond,
		SampleTokensFallback: sample,
		Logger:               log.NewWithOptions(&buf, log.Options{Formatter: log.LogfmtFormatter}),
	}, noop.NewTracerProvider().Tracer("test"))
	return c, &buf
}

func countLines(buf *bytes.Buffer) int {
	return strings.Count(strings.TrimSpace(buf.String()), "\n") + 1
}

func TestRequestsCarryJSONHeaders(t *testing.T) {
	var gotContentType, gotAccept, gotPath, gotQuery string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotAccept = r.Header.Get("Accept")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[]`))
	}, true)

	res := c.HBARHistory(context.Background(), 0)
	require.False(t, res.UsedFallback())
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "/api/v1/hbar/history", gotPath)
	assert.Equal(t, "days=7", gotQuery)
}

func TestCurrentHBARServerErrorFallsBackToNil(t *testing.T) {
	c, logs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, true)

	res := c.CurrentHBAR(context.Background())
	assert.Nil(t, res.Value)
	assert.True(t, res.UsedFallback())
	assert.True(t, errors.Is(res.Err, ErrFetchFailed))

	var apiErr *APIError
	require.True(t, errors.As(res.Err, &apiErr))
	assert.Equal(t, 500, apiErr.StatusCode)
	assert.Equal(t, "API Error: 500 Internal Server Error", apiErr.Error())

	assert.Equal(t, 1, countLines(logs), "expected exactly one diagnostic line, got %q", logs.String())
}

func TestCurrentHBARNullIsLegitimatelyEmpty(t *testing.T) {
	c, logs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	}, true)

	res := c.CurrentHBAR(context.Background())
	assert.Nil(t, res.Value)
	assert.False(t, res.UsedFallback())
	assert.NoError(t, res.Err)
	assert.Empty(t, logs.String())
}

func TestCurrentHBARDecodesSnapshot(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"timestamp":"2025-03-01T12:00:00Z","price_usd":0.0712,"market_cap":2.5e9,
			"volume_24h":1.1e8,"price_change_24h":-2.4,"circulating_supply":3.8e10,"market_cap_rank":22}`))
	}, true)

	res := c.CurrentHBAR(context.Background())
	require.False(t, res.UsedFallback())
	require.NotNil(t, res.Value)
	assert.Equal(t, "0.0712", res.Value.PriceUSD.String())
	assert.Equal(t, 22, res.Value.MarketCapRank)
	assert.Equal(t, -2.4, res.Value.PriceChange24h)
}

func TestMalformedJSONIsFetchFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"timestamp":`))
	}, true)

	res := c.MetricsSummary(context.Background())
	assert.Nil(t, res.Value)
	assert.True(t, res.UsedFallback())
	assert.True(t, errors.Is(res.Err, ErrFetchFailed))
}

func TestHBARHistory(t *testing.T) {
	t.Run("returns points verbatim", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "30", r.URL.Query().Get("days"))
			_, _ = w.Write([]byte(`[{"timestamp":"2025-03-01T00:00:00Z","price_usd":0.05,"volume_24h":10},
				{"timestamp":"2025-03-02T00:00:00Z","price_usd":0.06,"volume_24h":11}]`))
		}, true)

		res := c.HBARHistory(context.Background(), 30)
		require.False(t, res.UsedFallback())
		require.Len(t, res.Value, 2)
		assert.Equal(t, "0.06", res.Value[1].PriceUSD.String())
	})

	t.Run("non-2xx yields empty slice", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}, true)

		res := c.HBARHistory(context.Background(), 7)
		assert.True(t, res.UsedFallback())
		assert.NotNil(t, res.Value)
		assert.Empty(t, res.Value)
	})
}

func TestTopTokensFallback(t *testing.T) {
	t.Run("sample listing when enabled", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}, true)

		res := c.TopTokens(context.Background(), 10)
		require.True(t, res.UsedFallback())
		require.Len(t, res.Value, 3)
		assert.Equal(t, "0.0.456858", res.Value[0].TokenID)
		assert.Equal(t, "0.0.1456986", res.Value[1].TokenID)
		assert.Equal(t, "0.0.731861", res.Value[2].TokenID)
		assert.Equal(t, "USDC", res.Value[0].Symbol)
		assert.Equal(t, "1", res.Value[0].PriceUSD.String())
		assert.Equal(t, -1.85, *res.Value[1].PriceChange24h)
		assert.Equal(t, 18_000_000.0, *res.Value[2].MarketCap)
	})

	t.Run("timeout yields sample listing", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}, true)

		res := c.TopTokens(context.Background(), 0)
		require.True(t, res.UsedFallback())
		require.Len(t, res.Value, 3)
		assert.Equal(t, []string{"0.0.456858", "0.0.1456986", "0.0.731861"},
			[]string{res.Value[0].TokenID, res.Value[1].TokenID, res.Value[2].TokenID})
	})

	t.Run("empty slice when disabled", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}, false)

		res := c.TopTokens(context.Background(), 5)
		assert.True(t, res.UsedFallback())
		assert.NotNil(t, res.Value)
		assert.Empty(t, res.Value)
	})
}

func TestTopTokensSendsLimit(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`[]`))
	}, true)

	res := c.TopTokens(context.Background(), 0)
	assert.False(t, res.UsedFallback())
	assert.Empty(t, res.Value)
}

func TestRefreshOperations(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		switch r.URL.Path {
		case "/api/v1/hbar/refresh":
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte(`not json at all`))
		case "/api/v1/tokens/refresh":
			w.WriteHeader(http.StatusInternalServerError)
		}
	}, true)

	hbar := c.RefreshHBAR(context.Background())
	assert.True(t, hbar.Value)
	assert.False(t, hbar.UsedFallback())

	tokens := c.RefreshTokens(context.Background())
	assert.False(t, tokens.Value)
	assert.True(t, tokens.UsedFallback())
	assert.Equal(t, int32(2), calls.Load())
}

func TestRefreshHBARNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	c := New(Config{BaseURL: baseURL, Logger: log.New(&bytes.Buffer{})}, noop.NewTracerProvider().Tracer("test"))
	res := c.RefreshHBAR(context.Background())
	assert.False(t, res.Value)
	assert.True(t, res.UsedFallback())
	assert.True(t, errors.Is(res.Err, ErrFetchFailed))
}

func TestHealthPropagatesError(t *testing.T) {
	c, logs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, true)

	status, err := c.Health(context.Background())
	assert.Nil(t, status)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetchFailed))
	assert.Empty(t, logs.String())
}

func TestHealthDecodes(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"healthy","timestamp":"2025-03-01T00:00:00Z","database_connected":true,"version":"1.0.0"}`))
	}, true)

	status, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.HealthHealthy, status.Status)
	assert.True(t, status.DatabaseConnected)
}

func TestTokenByIDEscapesPath(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/tokens/0.0.731861", r.URL.Path)
		_, _ = w.Write([]byte(`{"token_id":"0.0.731861","name":"SaucerSwap","symbol":"SAUCE","price_usd":null,
			"market_cap":null,"volume_24h":null,"price_change_24h":null,"decimals":6,"total_supply":1000,
			"holders_count":42,"transfers_24h":null,"token_type":"FUNGIBLE_COMMON","memo":"","timestamp":"2025-03-01T00:00:00Z"}`))
	}, true)

	res := c.TokenByID(context.Background(), "0.0.731861")
	require.False(t, res.UsedFallback())
	require.NotNil(t, res.Value)
	assert.Nil(t, res.Value.PriceUSD)
	require.NotNil(t, res.Value.HoldersCount)
	assert.Equal(t, 42, *res.Value.HoldersCount)
}

func TestDefaultBaseURL(t *testing.T) {
	c := New(Config{}, noop.NewTracerProvider().Tracer("test"))
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
}

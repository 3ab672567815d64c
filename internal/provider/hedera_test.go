package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

func newTestHedera(rt roundTripFunc) *HederaProvider {
	provider := NewHederaProvider("http://mirror/", trace.NewNoopTracerProvider().Tracer("test"))
	provider.client = &http.Client{Transport: rt}
	provider.limiter = NewRateLimiter(100, time.Millisecond)
	return provider
}

func TestFlexIntAcceptsStringsAndNumbers(t *testing.T) {
	var v struct {
		A flexInt `json:"a"`
		B flexInt `json:"b"`
		C flexInt `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a":"6","b":1000,"c":null}`), &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.A != 6 || v.B != 1000 || v.C != 0 {
		t.Fatalf("unexpected values: %+v", v)
	}
	if err := json.Unmarshal([]byte(`{"a":"six"}`), &v); err == nil {
		t.Fatal("expected error for non-numeric string")
	}
}

func TestHederaProviderFetchTokens(t *testing.T) {
	t.Parallel()

	provider := newTestHedera(func(req *http.Request) (*http.Response, error) {
		switch req.URL.Path {
		case "/api/v1/tokens/0.0.731861":
			return jsonResponse(http.StatusOK, `{"token_id":"0.0.731861","name":"SAUCE","symbol":"SAUCE",
				"decimals":"6","total_supply":"1000000000","type":"FUNGIBLE_COMMON","memo":"","deleted":false}`), nil
		case "/api/v1/tokens/0.0.731861/balances":
			if req.URL.Query().Get("limit") != "1000" {
				t.Fatalf("unexpected balances query: %s", req.URL.RawQuery)
			}
			return jsonResponse(http.StatusOK, `{"balances":[{"account":"0.0.1","balance":10},
				{"account":"0.0.2","balance":0},{"account":"0.0.3","balance":"5"}]}`), nil
		case "/api/v1/tokens/0.0.456858":
			return jsonResponse(http.StatusOK, `{"token_id":"0.0.456858","name":"","symbol":"USDC","decimals":6,
				"total_supply":"42","type":"","deleted":true}`), nil
		case "/api/v1/tokens/0.0.456858/balances":
			return jsonResponse(http.StatusInternalServerError, "boom"), nil
		default:
			return jsonResponse(http.StatusNotFound, `{"_status":{"messages":[{"message":"Not found"}]}}`), nil
		}
	})

	tokens, err := provider.FetchTokens(context.Background(), []string{"0.0.731861", "0.0.999", "0.0.456858"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("expected the missing token to be skipped, got %d tokens", len(tokens))
	}

	sauce := tokens[0]
	if sauce.TokenID != "0.0.731861" || sauce.Decimals != 6 || sauce.TotalSupply != 1_000_000_000 {
		t.Fatalf("unexpected token: %+v", sauce)
	}
	if sauce.HoldersCount == nil || *sauce.HoldersCount != 2 {
		t.Fatalf("expected 2 holders, got %v", sauce.HoldersCount)
	}
	if sauce.PriceUSD != nil {
		t.Fatal("mirror node tokens carry no price")
	}

	usdc := tokens[1]
	if usdc.Name != "Unknown" || usdc.TokenType != "FUNGIBLE_COMMON" || !usdc.Deleted {
		t.Fatalf("unexpected defaults: %+v", usdc)
	}
	if usdc.HoldersCount != nil {
		t.Fatal("holders should be unknown when balances fail")
	}
}

func TestHederaProviderFetchTokensAllFailed(t *testing.T) {
	t.Parallel()

	provider := newTestHedera(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusServiceUnavailable, "down"), nil
	})

	if _, err := provider.FetchTokens(context.Background(), []string{"0.0.1", "0.0.2"}); err == nil {
		t.Fatal("expected error when no token could be fetched")
	}
}

func TestHederaProviderFetchNetworkMetrics(t *testing.T) {
	t.Parallel()

	provider := newTestHedera(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/api/v1/blocks" || req.URL.Query().Get("order") != "desc" {
			t.Fatalf("unexpected request: %s", req.URL.String())
		}
		return jsonResponse(http.StatusOK, `{"blocks":[
			{"count":300,"timestamp":{"from":"1700000008.000000000","to":"1700000010.000000000"}},
			{"count":200,"timestamp":{"from":"1700000004.000000000","to":"1700000006.000000000"}},
			{"count":500,"timestamp":{"from":"1700000000.000000000","to":"1700000002.000000000"}}
		]}`), nil
	})

	metrics, err := provider.FetchNetworkMetrics(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if metrics.Status != "available" || metrics.TPS == nil || metrics.Transactions24h == nil {
		t.Fatalf("unexpected metrics: %+v", metrics)
	}
	if *metrics.TPS != 100 {
		t.Fatalf("expected 100 tps, got %f", *metrics.TPS)
	}
	if *metrics.Transactions24h != 8_640_000 {
		t.Fatalf("expected 8640000 daily transactions, got %d", *metrics.Transactions24h)
	}
}

func TestHederaProviderFetchNetworkMetricsEmpty(t *testing.T) {
	t.Parallel()

	provider := newTestHedera(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"blocks":[]}`), nil
	})

	_, err := provider.FetchNetworkMetrics(context.Background())
	if err == nil || !strings.Contains(err.Error(), "not enough block data") {
		t.Fatalf("expected not enough data error, got %v", err)
	}
}

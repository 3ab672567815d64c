package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"chainmetrics/internal/domain"
	"chainmetrics/internal/observability"
)

const (
	hederaMainnetURL = "https://mainnet-public.mirrornode.hedera.com"

	balancesPageLimit = 1000
	blocksSampleSize  = 25
	tokenFetchWorkers = 4
)

// HederaProvider reads token and network data from a Hedera mirror node.
type HederaProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

func NewHederaProvider(baseURL string, tracer trace.Tracer) *HederaProvider {
	if baseURL == "" {
		baseURL = hederaMainnetURL
	}
	return &HederaProvider{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		tracer:  tracer,
		limiter: NewRateLimiter(20, 100*time.Millisecond),
	}
}

// flexInt accepts both JSON numbers and numeric strings; the mirror node
// encodes decimals and total_supply as strings.
type flexInt int64

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("parse integer %q: %w", b, err)
	}
	*f = flexInt(n)
	return nil
}

type mirrorToken struct {
	TokenID     string  `json:"token_id"`
	Name        string  `json:"name"`
	Symbol      string  `json:"symbol"`
	Decimals    flexInt `json:"decimals"`
	TotalSupply flexInt `json:"total_supply"`
	Type        string  `json:"type"`
	Memo        string  `json:"memo"`
	Deleted     bool    `json:"deleted"`
}

type mirrorBalances struct {
	Balances []struct {
		Account string  `json:"account"`
		Balance flexInt `json:"balance"`
	} `json:"balances"`
}

type mirrorBlocks struct {
	Blocks []struct {
		Count     int64 `json:"count"`
		Timestamp struct {
			From string `json:"from"`
			To   string `json:"to"`
		} `json:"timestamp"`
	} `json:"blocks"`
}

// FetchTokens fetches metadata and holder counts for ids. Tokens that fail
// are logged and skipped; the result keeps the order of ids.
func (p *HederaProvider) FetchTokens(ctx context.Context, ids []string) ([]domain.TokenListing, error) {
	ctx, span := p.tracer.Start(ctx, "hedera.fetch-tokens", trace.WithAttributes(attribute.Int("tokens.requested", len(ids))))
	defer span.End()

	results := make([]*domain.TokenListing, len(ids))
	var mu sync.Mutex
	var failed int

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(tokenFetchWorkers)
	for i, id := range ids {
		g.Go(func() error {
			token, err := p.fetchToken(gctx, id)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.Warn("failed to fetch token", "token_id", id, "err", err)
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}
			results[i] = token
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("fetch tokens: %w", err)
	}

	tokens := make([]domain.TokenListing, 0, len(ids))
	for _, t := range results {
		if t != nil {
			tokens = append(tokens, *t)
		}
	}
	span.SetAttributes(attribute.Int("tokens.fetched", len(tokens)), attribute.Int("tokens.failed", failed))
	if len(tokens) == 0 && len(ids) > 0 {
		return nil, errors.New("fetch tokens: no token data fetched")
	}
	log.Info("fetched hedera tokens", "count", len(tokens), "failed", failed)
	return tokens, nil
}

func (p *HederaProvider) fetchToken(ctx context.Context, id string) (*domain.TokenListing, error) {
	var info mirrorToken
	if err := p.getJSON(ctx, "/api/v1/tokens/"+url.PathEscape(id), nil, "tokens", &info); err != nil {
		return nil, fmt.Errorf("token info: %w", err)
	}

	token := &domain.TokenListing{
		TokenID:     id,
		Name:        orDefault(info.Name, "Unknown"),
		Symbol:      orDefault(info.Symbol, "UNK"),
		Decimals:    int(info.Decimals),
		TotalSupply: int64(info.TotalSupply),
		TokenType:   orDefault(info.Type, domain.DefaultTokenType),
		Memo:        info.Memo,
		Deleted:     info.Deleted,
		Timestamp:   time.Now().UTC(),
	}

	holders, err := p.holdersCount(ctx, id)
	if err != nil {
		log.Warn("failed to fetch token holders", "token_id", id, "err", err)
	} else {
		token.HoldersCount = &holders
	}
	return token, nil
}

// holdersCount counts accounts with a positive balance in the first page of balances.
func (p *HederaProvider) holdersCount(ctx context.Context, id string) (int, error) {
	var balances mirrorBalances
	q := url.Values{"limit": {strconv.Itoa(balancesPageLimit)}}
	if err := p.getJSON(ctx, "/api/v1/tokens/"+url.PathEscape(id)+"/balances", q, "balances", &balances); err != nil {
		return 0, err
	}
	holders := 0
	for _, b := range balances.Balances {
		if b.Balance > 0 {
			holders++
		}
	}
	return holders, nil
}

// FetchNetworkMetrics estimates network throughput from the most recent
// record-file blocks. The 24h transaction count is extrapolated from that TPS.
func (p *HederaProvider) FetchNetworkMetrics(ctx context.Context) (*domain.NetworkMetrics, error) {
	ctx, span := p.tracer.Start(ctx, "hedera.fetch-network-metrics")
	defer span.End()

	var blocks mirrorBlocks
	q := url.Values{"limit": {strconv.Itoa(blocksSampleSize)}, "order": {"desc"}}
	if err := p.getJSON(ctx, "/api/v1/blocks", q, "blocks", &blocks); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("fetch network metrics: %w", err)
	}

	var txCount int64
	var from, to float64
	for _, b := range blocks.Blocks {
		start, errFrom := parseConsensusTimestamp(b.Timestamp.From)
		end, errTo := parseConsensusTimestamp(b.Timestamp.To)
		if errFrom != nil || errTo != nil {
			continue
		}
		txCount += b.Count
		if from == 0 || start < from {
			from = start
		}
		if end > to {
			to = end
		}
	}
	covered := to - from
	if txCount == 0 || covered <= 0 {
		return nil, errors.New("fetch network metrics: not enough block data")
	}

	tps := float64(txCount) / covered
	daily := int64(tps * 86400)
	now := time.Now().UTC()
	return &domain.NetworkMetrics{
		Status:          domain.StatusAvailable,
		TPS:             &tps,
		Transactions24h: &daily,
		Timestamp:       &now,
	}, nil
}

// parseConsensusTimestamp parses "seconds.nanoseconds" into fractional seconds.
func parseConsensusTimestamp(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func (p *HederaProvider) getJSON(ctx context.Context, path string, query url.Values, endpoint string, out any) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	target := p.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	body, err := p.do(req)
	observability.RecordUpstream("hedera", endpoint, time.Since(start).Seconds(), err)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse %s: %w", endpoint, err)
	}
	return nil
}

func (p *HederaProvider) do(req *http.Request) ([]byte, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{Provider: "hedera", StatusCode: resp.StatusCode, Body: string(body)}
	}
	return io.ReadAll(resp.Body)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"

	"chainmetrics/internal/domain"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

type fakeRedis struct {
	data   map[string][]byte
	ttl    map[string]time.Duration
	setErr error
	getErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string][]byte), ttl: make(map[string]time.Duration)}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = append([]byte(nil), v...)
	case string:
		f.data[key] = []byte(v)
	default:
		bytes, _ := json.Marshal(v)
		f.data[key] = bytes
	}
	f.ttl[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	if v, ok := f.data[key]; ok {
		return redis.NewStringResult(string(v), nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

type mockHBARProvider struct {
	snap  *domain.HBARSnapshot
	err   error
	calls int
}

func (m *mockHBARProvider) FetchHBAR(ctx context.Context) (*domain.HBARSnapshot, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.snap, nil
}

type mockHBARRepo struct {
	latest    *domain.HBARSnapshot
	latestErr error
	saved     []*domain.HBARSnapshot
	saveErr   error
	history   []domain.PricePoint
	lastDays  int
	stats     *domain.HBARStats
}

func (m *mockHBARRepo) Save(ctx context.Context, snap *domain.HBARSnapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, snap)
	return nil
}

func (m *mockHBARRepo) Latest(ctx context.Context) (*domain.HBARSnapshot, error) {
	return m.latest, m.latestErr
}

func (m *mockHBARRepo) History(ctx context.Context, days int) ([]domain.PricePoint, error) {
	m.lastDays = days
	return m.history, nil
}

func (m *mockHBARRepo) Stats(ctx context.Context) (*domain.HBARStats, error) {
	return m.stats, nil
}

type mockNetworkProvider struct {
	metrics *domain.NetworkMetrics
	err     error
}

func (m *mockNetworkProvider) FetchNetworkMetrics(ctx context.Context) (*domain.NetworkMetrics, error) {
	return m.metrics, m.err
}

type mockNetworkRepo struct {
	latest *domain.NetworkMetrics
	saved  []*domain.NetworkMetrics
}

func (m *mockNetworkRepo) Save(ctx context.Context, metrics *domain.NetworkMetrics) error {
	m.saved = append(m.saved, metrics)
	return nil
}

func (m *mockNetworkRepo) Latest(ctx context.Context) (*domain.NetworkMetrics, error) {
	return m.latest, nil
}

type mockTokenProvider struct {
	tokens  []domain.TokenListing
	err     error
	lastIDs []string
}

func (m *mockTokenProvider) FetchTokens(ctx context.Context, ids []string) ([]domain.TokenListing, error) {
	m.lastIDs = append([]string(nil), ids...)
	return m.tokens, m.err
}

type mockTokenRepo struct {
	top       []domain.TokenListing
	topErr    error
	lastLimit int
	byID      map[string]*domain.TokenListing
	saved     []domain.TokenListing
	saveErr   error
}

func (m *mockTokenRepo) SaveTokens(ctx context.Context, tokens []domain.TokenListing) (int, error) {
	if m.saveErr != nil {
		return 0, m.saveErr
	}
	m.saved = tokens
	return len(tokens), nil
}

func (m *mockTokenRepo) TopTokens(ctx context.Context, limit int) ([]domain.TokenListing, error) {
	m.lastLimit = limit
	return m.top, m.topErr
}

func (m *mockTokenRepo) TokenByID(ctx context.Context, tokenID string) (*domain.TokenListing, error) {
	return m.byID[tokenID], nil
}

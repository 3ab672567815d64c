package service

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/trace"

	"chainmetrics/internal/cache"
	"chainmetrics/internal/domain"
)

type NetworkProvider interface {
	FetchNetworkMetrics(ctx context.Context) (*domain.NetworkMetrics, error)
}

type NetworkRepository interface {
	Save(ctx context.Context, m *domain.NetworkMetrics) error
	Latest(ctx context.Context) (*domain.NetworkMetrics, error)
}

type NetworkService struct {
	tracer   trace.Tracer
	provider NetworkProvider
	repo     NetworkRepository
	redis    cache.RedisClient
}

func NewNetworkService(tracer trace.Tracer, provider NetworkProvider, repo NetworkRepository, redisClient cache.RedisClient) *NetworkService {
	return &NetworkService{tracer: tracer, provider: provider, repo: repo, redis: redisClient}
}

// Latest returns the newest network metrics, or the coming-soon placeholder
// when none were collected yet.
func (s *NetworkService) Latest(ctx context.Context) (domain.NetworkMetrics, error) {
	ctx, span := s.tracer.Start(ctx, "network-service.latest")
	defer span.End()

	if s.redis != nil {
		var cached domain.NetworkMetrics
		ok, err := cache.GetJSON(ctx, s.redis, cache.KeyNetworkLatest, &cached)
		if err != nil {
			log.Warn("redis cache read error", "key", cache.KeyNetworkLatest, "err", err)
		}
		if ok {
			return cached, nil
		}
	}

	latest, err := s.repo.Latest(ctx)
	if err != nil {
		return domain.NetworkMetrics{}, err
	}
	if latest == nil {
		return domain.ComingSoonNetwork(), nil
	}
	s.cache(ctx, latest)
	return *latest, nil
}

func (s *NetworkService) Refresh(ctx context.Context) (*domain.NetworkMetrics, error) {
	ctx, span := s.tracer.Start(ctx, "network-service.refresh")
	defer span.End()

	m, err := s.provider.FetchNetworkMetrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch network metrics: %w", err)
	}
	if err := s.repo.Save(ctx, m); err != nil {
		return nil, err
	}
	s.cache(ctx, m)
	return m, nil
}

func (s *NetworkService) cache(ctx context.Context, m *domain.NetworkMetrics) {
	if s.redis == nil {
		return
	}
	if err := cache.SetJSON(ctx, s.redis, cache.KeyNetworkLatest, m, cache.NetworkLatestTTL); err != nil {
		log.Warn("redis cache write error", "key", cache.KeyNetworkLatest, "err", err)
	}
}

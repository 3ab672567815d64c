package service

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"chainmetrics/internal/cache"
	"chainmetrics/internal/domain"
)

type HBARProvider interface {
	FetchHBAR(ctx context.Context) (*domain.HBARSnapshot, error)
}

type HBARRepository interface {
	Save(ctx context.Context, snap *domain.HBARSnapshot) error
	Latest(ctx context.Context) (*domain.HBARSnapshot, error)
	History(ctx context.Context, days int) ([]domain.PricePoint, error)
	Stats(ctx context.Context) (*domain.HBARStats, error)
}

// HBARService serves HBAR market data from Redis, then Postgres, then
// CoinGecko, and stores whatever it fetches live.
type HBARService struct {
	tracer   trace.Tracer
	provider HBARProvider
	repo     HBARRepository
	redis    cache.RedisClient
}

func NewHBARService(
	tracer trace.Tracer,
	provider HBARProvider,
	repo HBARRepository,
	redisClient cache.RedisClient,
) *HBARService {
	return &HBARService{
		tracer:   tracer,
		provider: provider,
		repo:     repo,
		redis:    redisClient,
	}
}

// Current returns the latest snapshot. A nil snapshot with a nil error means
// nothing is stored and CoinGecko could not be reached.
func (s *HBARService) Current(ctx context.Context) (*domain.HBARSnapshot, error) {
	ctx, span := s.tracer.Start(ctx, "hbar-service.current")
	defer span.End()

	if s.redis != nil {
		var cached domain.HBARSnapshot
		ok, err := cache.GetJSON(ctx, s.redis, cache.KeyHBARCurrent, &cached)
		if err != nil {
			log.Warn("redis cache read error", "key", cache.KeyHBARCurrent, "err", err)
		}
		if ok {
			span.SetAttributes(attribute.String("hbar.source", "cache"))
			return &cached, nil
		}
	}

	latest, err := s.repo.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		span.SetAttributes(attribute.String("hbar.source", "database"))
		s.cache(ctx, latest)
		return latest, nil
	}

	span.SetAttributes(attribute.String("hbar.source", "coingecko"))
	snap, err := s.fetchAndStore(ctx)
	if err != nil {
		log.Warn("no stored HBAR data and live fetch failed", "err", err)
		return nil, nil
	}
	return snap, nil
}

// Refresh fetches a fresh snapshot from CoinGecko and stores it.
func (s *HBARService) Refresh(ctx context.Context) (*domain.HBARSnapshot, error) {
	ctx, span := s.tracer.Start(ctx, "hbar-service.refresh")
	defer span.End()

	return s.fetchAndStore(ctx)
}

func (s *HBARService) History(ctx context.Context, days int) ([]domain.PricePoint, error) {
	ctx, span := s.tracer.Start(ctx, "hbar-service.history")
	defer span.End()
	span.SetAttributes(attribute.Int("hbar.days", days))

	return s.repo.History(ctx, days)
}

func (s *HBARService) Stats(ctx context.Context) (*domain.HBARStats, error) {
	ctx, span := s.tracer.Start(ctx, "hbar-service.stats")
	defer span.End()

	return s.repo.Stats(ctx)
}

func (s *HBARService) fetchAndStore(ctx context.Context) (*domain.HBARSnapshot, error) {
	snap, err := s.provider.FetchHBAR(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch hbar: %w", err)
	}
	if err := s.repo.Save(ctx, snap); err != nil {
		return nil, err
	}
	s.cache(ctx, snap)
	log.Info("stored HBAR snapshot", "price_usd", snap.PriceUSD.String(), "rank", snap.MarketCapRank)
	return snap, nil
}

func (s *HBARService) cache(ctx context.Context, snap *domain.HBARSnapshot) {
	if s.redis == nil {
		return
	}
	if err := cache.SetJSON(ctx, s.redis, cache.KeyHBARCurrent, snap, cache.HBARCurrentTTL); err != nil {
		log.Warn("redis cache write error", "key", cache.KeyHBARCurrent, "err", err)
	}
}

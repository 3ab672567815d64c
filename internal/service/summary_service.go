package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"chainmetrics/internal/domain"
)

const summaryTopTokens = 5

type SummaryService struct {
	tracer  trace.Tracer
	hbar    *HBARService
	network *NetworkService
	tokens  *TokenService
	now     func() time.Time
}

func NewSummaryService(tracer trace.Tracer, hbar *HBARService, network *NetworkService, tokens *TokenService) *SummaryService {
	return &SummaryService{tracer: tracer, hbar: hbar, network: network, tokens: tokens, now: time.Now}
}

// Summary gathers the HBAR, network and token sections concurrently.
func (s *SummaryService) Summary(ctx context.Context) (*domain.MetricsSummary, error) {
	ctx, span := s.tracer.Start(ctx, "summary-service.summary")
	defer span.End()

	var (
		hbar    *domain.HBARSnapshot
		network domain.NetworkMetrics
		tokens  []domain.TokenListing
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		hbar, err = s.hbar.Current(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		network, err = s.network.Latest(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tokens, err = s.tokens.Top(gctx, summaryTopTokens)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tokenStatus := domain.StatusAvailable
	if len(tokens) == 0 {
		tokenStatus = domain.StatusComingSoon
	}
	if tokens == nil {
		tokens = []domain.TokenListing{}
	}

	return &domain.MetricsSummary{
		Timestamp: s.now().UTC(),
		HBAR:      hbar,
		Network:   network,
		Tokens:    domain.TokenSummary{Status: tokenStatus, TopTokens: tokens},
	}, nil
}

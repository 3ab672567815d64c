package service

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"chainmetrics/internal/domain"
)

type TokenProvider interface {
	FetchTokens(ctx context.Context, ids []string) ([]domain.TokenListing, error)
}

type TokenRepository interface {
	SaveTokens(ctx context.Context, tokens []domain.TokenListing) (int, error)
	TopTokens(ctx context.Context, limit int) ([]domain.TokenListing, error)
	TokenByID(ctx context.Context, tokenID string) (*domain.TokenListing, error)
}

type TokenService struct {
	tracer   trace.Tracer
	provider TokenProvider
	repo     TokenRepository
	tokenIDs []string
}

func NewTokenService(tracer trace.Tracer, provider TokenProvider, repo TokenRepository, tokenIDs []string) *TokenService {
	return &TokenService{
		tracer:   tracer,
		provider: provider,
		repo:     repo,
		tokenIDs: append([]string(nil), tokenIDs...),
	}
}

func (s *TokenService) Top(ctx context.Context, limit int) ([]domain.TokenListing, error) {
	ctx, span := s.tracer.Start(ctx, "token-service.top")
	defer span.End()
	span.SetAttributes(attribute.Int("tokens.limit", limit))

	return s.repo.TopTokens(ctx, limit)
}

// ByID returns the newest stored row for tokenID, or nil when unknown.
func (s *TokenService) ByID(ctx context.Context, tokenID string) (*domain.TokenListing, error) {
	ctx, span := s.tracer.Start(ctx, "token-service.by-id")
	defer span.End()
	span.SetAttributes(attribute.String("token.id", tokenID))

	return s.repo.TokenByID(ctx, tokenID)
}

// Refresh pulls every tracked token from the mirror node and stores the
// ones that still exist. It returns the number of rows written.
func (s *TokenService) Refresh(ctx context.Context) (int, error) {
	ctx, span := s.tracer.Start(ctx, "token-service.refresh")
	defer span.End()

	tokens, err := s.provider.FetchTokens(ctx, s.tokenIDs)
	if err != nil {
		return 0, fmt.Errorf("fetch tokens: %w", err)
	}
	n, err := s.repo.SaveTokens(ctx, tokens)
	if err != nil {
		return 0, err
	}
	span.SetAttributes(attribute.Int("tokens.saved", n))
	log.Info("stored token data", "fetched", len(tokens), "saved", n)
	return n, nil
}

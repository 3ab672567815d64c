package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"chainmetrics/internal/domain"
)

func TestSummaryService_Summary(t *testing.T) {
	t.Parallel()

	tokenRepo := &mockTokenRepo{top: domain.SampleTokens()}
	svc := NewSummaryService(testTracer,
		NewHBARService(testTracer, &mockHBARProvider{}, &mockHBARRepo{latest: testSnapshot("0.07")}, nil),
		NewNetworkService(testTracer, &mockNetworkProvider{}, &mockNetworkRepo{}, nil),
		NewTokenService(testTracer, &mockTokenProvider{}, tokenRepo, nil),
	)
	fixed := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	sum, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sum.Timestamp.Equal(fixed) {
		t.Fatalf("unexpected timestamp: %s", sum.Timestamp)
	}
	if sum.HBAR == nil || sum.HBAR.PriceUSD.String() != "0.07" {
		t.Fatalf("unexpected hbar section: %+v", sum.HBAR)
	}
	if sum.Network.Status != domain.StatusComingSoon {
		t.Fatalf("expected network coming soon, got %s", sum.Network.Status)
	}
	if sum.Tokens.Status != domain.StatusAvailable || len(sum.Tokens.TopTokens) != 3 {
		t.Fatalf("unexpected tokens section: %+v", sum.Tokens)
	}
	if tokenRepo.lastLimit != 5 {
		t.Fatalf("expected top five tokens, got limit %d", tokenRepo.lastLimit)
	}
}

func TestSummaryService_EmptyTokens(t *testing.T) {
	t.Parallel()

	svc := NewSummaryService(testTracer,
		NewHBARService(testTracer, &mockHBARProvider{err: errors.New("offline")}, &mockHBARRepo{}, nil),
		NewNetworkService(testTracer, &mockNetworkProvider{}, &mockNetworkRepo{}, nil),
		NewTokenService(testTracer, &mockTokenProvider{}, &mockTokenRepo{}, nil),
	)

	sum, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.HBAR != nil {
		t.Fatal("expected no hbar data")
	}
	if sum.Tokens.Status != domain.StatusComingSoon || sum.Tokens.TopTokens == nil {
		t.Fatalf("expected empty coming soon tokens, got %+v", sum.Tokens)
	}
}

func TestSummaryService_PropagatesErrors(t *testing.T) {
	t.Parallel()

	svc := NewSummaryService(testTracer,
		NewHBARService(testTracer, &mockHBARProvider{}, &mockHBARRepo{latest: testSnapshot("1")}, nil),
		NewNetworkService(testTracer, &mockNetworkProvider{}, &mockNetworkRepo{}, nil),
		NewTokenService(testTracer, &mockTokenProvider{}, &mockTokenRepo{topErr: errors.New("query failed")}, nil),
	)
	if _, err := svc.Summary(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

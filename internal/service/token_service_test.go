package service

import (
	"context"
	"errors"
	"testing"

	"chainmetrics/internal/domain"
)

func TestTokenService_RefreshUsesTrackedIDs(t *testing.T) {
	t.Parallel()

	provider := &mockTokenProvider{tokens: []domain.TokenListing{{TokenID: "0.0.1"}, {TokenID: "0.0.2"}}}
	repo := &mockTokenRepo{}
	ids := []string{"0.0.1", "0.0.2"}
	svc := NewTokenService(testTracer, provider, repo, ids)
	ids[0] = "mutated"

	n, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 || len(repo.saved) != 2 {
		t.Fatalf("expected 2 saved tokens, got %d", n)
	}
	if provider.lastIDs[0] != "0.0.1" {
		t.Fatalf("service should keep its own copy of the ids, got %v", provider.lastIDs)
	}
}

func TestTokenService_RefreshErrors(t *testing.T) {
	t.Parallel()

	svc := NewTokenService(testTracer, &mockTokenProvider{err: errors.New("all failed")}, &mockTokenRepo{}, nil)
	if _, err := svc.Refresh(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}

	svc = NewTokenService(testTracer, &mockTokenProvider{}, &mockTokenRepo{saveErr: errors.New("no valid tokens to save")}, nil)
	if _, err := svc.Refresh(context.Background()); err == nil {
		t.Fatal("expected save error")
	}
}

func TestTokenService_TopAndByID(t *testing.T) {
	t.Parallel()

	repo := &mockTokenRepo{
		top:  domain.SampleTokens(),
		byID: map[string]*domain.TokenListing{"0.0.731861": {TokenID: "0.0.731861", Symbol: "SAUCE"}},
	}
	svc := NewTokenService(testTracer, &mockTokenProvider{}, repo, nil)

	top, err := svc.Top(context.Background(), 3)
	if err != nil || len(top) != 3 || repo.lastLimit != 3 {
		t.Fatalf("unexpected top result: %v %d limit=%d", err, len(top), repo.lastLimit)
	}

	tok, err := svc.ByID(context.Background(), "0.0.731861")
	if err != nil || tok == nil || tok.Symbol != "SAUCE" {
		t.Fatalf("unexpected token: %+v %v", tok, err)
	}
	tok, err = svc.ByID(context.Background(), "0.0.404")
	if err != nil || tok != nil {
		t.Fatalf("expected nil for unknown token, got %+v %v", tok, err)
	}
}

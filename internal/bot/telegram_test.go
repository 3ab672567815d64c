package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	tele "gopkg.in/telebot.v3"

	"chainmetrics/internal/domain"
)

type stubHBAR struct {
	snap *domain.HBARSnapshot
	err  error
}

func (s stubHBAR) Current(ctx context.Context) (*domain.HBARSnapshot, error) { return s.snap, s.err }

type stubTokens struct {
	top       []domain.TokenListing
	err       error
	lastLimit *int
}

func (s stubTokens) Top(ctx context.Context, limit int) ([]domain.TokenListing, error) {
	if s.lastLimit != nil {
		*s.lastLimit = limit
	}
	return s.top, s.err
}

func TestStartTelegramBotSkipsWithoutToken(t *testing.T) {
	orig := newBot
	defer func() { newBot = orig }()
	newBot = func(pref tele.Settings) (*tele.Bot, error) {
		t.Fatal("bot must not be created without a token")
		return nil, nil
	}

	StartTelegramBot("", nil, nil)
}

func TestHBARReply(t *testing.T) {
	snap := &domain.HBARSnapshot{
		PriceUSD:       decimal.RequireFromString("0.0712"),
		PriceChange24h: 3.421,
		MarketCap:      2_500_000_000,
		MarketCapRank:  29,
		Volume24h:      95_000_000,
	}
	got := hbarReply(context.Background(), stubHBAR{snap: snap})
	for _, want := range []string{"$0.0712", "+3.42%", "$2.50B (#29)", "$95.00M"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in reply:\n%s", want, got)
		}
	}

	if got := hbarReply(context.Background(), stubHBAR{}); !strings.Contains(got, "not available") {
		t.Fatalf("unexpected empty reply: %s", got)
	}
	if got := hbarReply(context.Background(), stubHBAR{err: errors.New("db down")}); !strings.Contains(got, "db down") {
		t.Fatalf("unexpected error reply: %s", got)
	}
}

func TestTokensReply(t *testing.T) {
	var limit int
	got := tokensReply(context.Background(), stubTokens{top: domain.SampleTokens(), lastLimit: &limit})
	if limit != 5 {
		t.Fatalf("expected top five, got limit %d", limit)
	}
	lines := strings.Split(got, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header and 3 rows, got:\n%s", got)
	}
	if !strings.HasPrefix(lines[1], "1. USDC (0.0.456858) $1.00") {
		t.Fatalf("unexpected first row: %s", lines[1])
	}

	if got := tokensReply(context.Background(), stubTokens{}); !strings.Contains(got, "No token data") {
		t.Fatalf("unexpected empty reply: %s", got)
	}
}

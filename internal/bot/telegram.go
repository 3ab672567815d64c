package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	tele "gopkg.in/telebot.v3"

	"chainmetrics/internal/domain"
	"chainmetrics/internal/format"
)

const (
	botTopTokens      = 5
	botCommandTimeout = 10 * time.Second
)

type HBARReader interface {
	Current(ctx context.Context) (*domain.HBARSnapshot, error)
}

type TokenReader interface {
	Top(ctx context.Context, limit int) ([]domain.TokenListing, error)
}

var newBot = tele.NewBot

// StartTelegramBot serves /ping, /hbar and /tokens in the background. It is a
// no-op when token is empty.
func StartTelegramBot(token string, hbar HBARReader, tokens TokenReader) {
	if token == "" {
		log.Info("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := newBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})
	b.Handle("/hbar", func(c tele.Context) error {
		ctx, cancel := context.WithTimeout(context.Background(), botCommandTimeout)
		defer cancel()
		return c.Send(hbarReply(ctx, hbar))
	})
	b.Handle("/tokens", func(c tele.Context) error {
		ctx, cancel := context.WithTimeout(context.Background(), botCommandTimeout)
		defer cancel()
		return c.Send(tokensReply(ctx, tokens))
	})

	log.Info("Telegram bot started")
	go b.Start()
}

func hbarReply(ctx context.Context, hbar HBARReader) string {
	snap, err := hbar.Current(ctx)
	if err != nil {
		return fmt.Sprintf("Error fetching HBAR data: %v", err)
	}
	if snap == nil {
		return "HBAR data is not available yet."
	}
	return fmt.Sprintf(
		"HBAR\nPrice: %s\n24h Change: %s\nMarket Cap: %s (#%d)\n24h Volume: %s",
		format.Price(snap.PriceUSD),
		format.Percent(snap.PriceChange24h),
		format.USD(snap.MarketCap),
		snap.MarketCapRank,
		format.USD(snap.Volume24h),
	)
}

func tokensReply(ctx context.Context, tokens TokenReader) string {
	top, err := tokens.Top(ctx, botTopTokens)
	if err != nil {
		return fmt.Sprintf("Error fetching tokens: %v", err)
	}
	if len(top) == 0 {
		return "No token data collected yet."
	}

	var sb strings.Builder
	sb.WriteString("Top Hedera tokens")
	for i, t := range top {
		fmt.Fprintf(&sb, "\n%d. %s (%s) %s  holders: %s",
			i+1, t.Symbol, t.TokenID, format.PricePtr(t.PriceUSD), format.IntPtr(t.HoldersCount))
	}
	return sb.String()
}

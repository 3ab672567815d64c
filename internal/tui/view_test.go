package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chainmetrics/internal/apiclient"
	"chainmetrics/internal/domain"
	"chainmetrics/internal/poll"
)

func tokensSnapshot(res apiclient.Result[[]domain.TokenListing]) snapshot {
	return snapshot{tokens: poll.State[apiclient.Result[[]domain.TokenListing]]{Data: res, HasData: true}}
}

func listing(id, name, symbol, price string, change float64, holders int) domain.TokenListing {
	p := decimal.RequireFromString(price)
	return domain.TokenListing{
		TokenID:        id,
		Name:           name,
		Symbol:         symbol,
		PriceUSD:       &p,
		PriceChange24h: &change,
		HoldersCount:   &holders,
	}
}

// cellEnd is the display column at which sub ends within line.
func cellEnd(t *testing.T, line, sub string) int {
	t.Helper()
	i := strings.Index(line, sub)
	require.GreaterOrEqual(t, i, 0, "%q not in %q", sub, line)
	return lipgloss.Width(line[:i+len(sub)])
}

func TestTokenTable_WideCharactersStayAligned(t *testing.T) {
	out := stripANSI(tokenTable([]domain.TokenListing{
		listing("0.0.1001", "Frog Coin", "FROG", "0.5", 2.5, 1200),
		listing("0.0.1002", "🐸 Frog 🐸 Coin 🐸", "FROG2", "0.25", -1.25, 30),
	}).String())

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	header, first, second := lines[0], lines[2], lines[3]

	assert.Contains(t, second, "🐸 Frog 🐸 Coin 🐸")
	change := cellEnd(t, header, "24H")
	assert.Equal(t, change, cellEnd(t, first, "+2.50%"))
	assert.Equal(t, change, cellEnd(t, second, "-1.25%"))
	holders := cellEnd(t, header, "HOLDERS")
	assert.Equal(t, holders, cellEnd(t, first, "1,200"))
	assert.Equal(t, holders, cellEnd(t, second, "30"))
}

func TestRenderTokens_FallbackBannerAboveTable(t *testing.T) {
	out := stripANSI(renderTokens(tokensSnapshot(apiclient.Result[[]domain.TokenListing]{
		Value:   domain.SampleTokens(),
		Outcome: apiclient.Fallback,
	})))

	first, _, _ := strings.Cut(out, "\n")
	assert.Equal(t, "Top tokens  failed to load, showing sample data", strings.TrimSpace(first))
	assert.Contains(t, out, "HBARX")
	assert.Contains(t, out, "SAUCE")
}

func TestRenderTokens_Empty(t *testing.T) {
	out := stripANSI(renderTokens(tokensSnapshot(apiclient.Result[[]domain.TokenListing]{})))
	assert.Equal(t, "Top tokens\nno tokens tracked yet", out)
}

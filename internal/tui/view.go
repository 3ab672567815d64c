package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"chainmetrics/internal/domain"
	"chainmetrics/internal/format"
)

const (
	minSparkWidth     = 20
	defaultSparkWidth = 60
)

func renderHeader(s snapshot, now time.Time) string {
	status := StyleDim.Render("checking API...")
	h := s.health
	switch {
	case h.Err != nil:
		status = StyleError.Render("API unreachable: " + h.Err.Error())
	case h.HasData && h.Data != nil:
		st := StyleGreen
		if h.Data.Status != domain.HealthHealthy {
			st = StyleWarn
		}
		db := "db ok"
		if !h.Data.DatabaseConnected {
			db = "db down"
		}
		status = st.Render(fmt.Sprintf("%s (%s, v%s)", h.Data.Status, db, h.Data.Version))
	}

	updated := "never"
	if !s.current.UpdatedAt.IsZero() {
		updated = format.Ago(s.current.UpdatedAt, now)
	}

	title := StyleAccent.Render("ChainMetrics")
	return StyleHeader.Render(fmt.Sprintf("%s  %s  updated %s", title, status, updated))
}

func renderCards(s snapshot) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, renderPriceCard(s), renderNetworkCard(s))
}

func renderPriceCard(s snapshot) string {
	c := s.current
	if !c.HasData {
		return StyleCard.Render("HBAR\n" + loadingText(c.IsLoading))
	}
	res := c.Data
	if res.Value == nil {
		msg := "no price data yet"
		if res.UsedFallback() {
			msg = StyleError.Render("failed to load price")
		}
		return StyleCard.Render("HBAR\n" + msg)
	}

	snap := res.Value
	change := changeStyle(snap.PriceChange24h).Render(format.Percent(snap.PriceChange24h))
	lines := []string{
		fmt.Sprintf("HBAR  %s  %s", format.Price(snap.PriceUSD), change),
		"market cap  " + format.USD(snap.MarketCap),
		"volume 24h  " + format.USD(snap.Volume24h),
		"supply      " + format.Compact(snap.CirculatingSupply) + " HBAR",
		fmt.Sprintf("rank        #%d", snap.MarketCapRank),
	}
	return StyleCard.Render(strings.Join(lines, "\n"))
}

func renderNetworkCard(s snapshot) string {
	sum := s.summary
	if !sum.HasData || sum.Data.Value == nil {
		return StyleCard.Render("Network\n" + loadingText(sum.IsLoading))
	}

	n := sum.Data.Value.Network
	if n.Status == domain.StatusComingSoon {
		return StyleCard.Render("Network\n" + StyleDim.Render("coming soon"))
	}
	var txs string
	if n.Transactions24h != nil {
		txs = format.Number(*n.Transactions24h)
	} else {
		txs = format.NotAvailable
	}
	return StyleCard.Render(strings.Join([]string{
		"Network",
		"TPS          " + format.TPS(n.TPS),
		"tx 24h       " + txs,
	}, "\n"))
}

func renderHistory(s snapshot, width int) string {
	sparkWidth := defaultSparkWidth
	if width > 0 {
		sparkWidth = max(minSparkWidth, min(width-4, defaultSparkWidth*2))
	}

	label := fmt.Sprintf("HBAR %dd", s.historyDays)
	h := s.history
	if h.Data.UsedFallback() {
		return label + "  " + StyleError.Render("failed to load history")
	}
	points := h.Data.Value
	if len(points) == 0 {
		return label + "  " + loadingText(h.IsLoading)
	}

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.PriceUSD.InexactFloat64()
	}
	color := colorGreen
	if values[len(values)-1] < values[0] {
		color = colorRed
	}
	return label + "  " + RenderSparkline(values, sparkWidth, color)
}

var tokenHeaders = []string{"ID", "SYMBOL", "NAME", "PRICE", "24H", "HOLDERS"}

const (
	tokenColChange  = 4
	tokenColNumeric = 3
)

func renderTokens(s snapshot) string {
	t := s.tokens
	if !t.HasData {
		return "Top tokens\n" + loadingText(t.IsLoading)
	}

	title := "Top tokens"
	if t.Data.UsedFallback() {
		title += "  " + StyleWarn.Render("failed to load, showing sample data")
	}
	if len(t.Data.Value) == 0 {
		return title + "\n" + StyleDim.Render("no tokens tracked yet")
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, tokenTable(t.Data.Value).String())
}

func tokenTable(tokens []domain.TokenListing) *table.Table {
	changeStyles := make([]lipgloss.Style, len(tokens))
	rows := make([][]string, len(tokens))
	for i, tok := range tokens {
		change := format.NotAvailable
		changeStyles[i] = StyleDim
		if tok.PriceChange24h != nil {
			change = format.Percent(*tok.PriceChange24h)
			changeStyles[i] = changeStyle(*tok.PriceChange24h)
		}
		rows[i] = []string{
			tok.TokenID,
			truncate(tok.Symbol, 8),
			truncate(tok.Name, 22),
			format.PricePtr(tok.PriceUSD),
			change,
			format.IntPtr(tok.HoldersCount),
		}
	}

	return table.New().
		Headers(tokenHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			var st lipgloss.Style
			switch {
			case row == table.HeaderRow:
				st = StyleTableHeader
			case col == tokenColChange && row < len(changeStyles):
				st = changeStyles[row]
			default:
				st = StyleTableRow
			}
			st = st.Padding(0, 1)
			if col >= tokenColNumeric {
				st = st.Align(lipgloss.Right)
			}
			return st
		}).
		BorderStyle(StyleDim).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(true).
		BorderColumn(false)
}

func renderTrigger(running bool, done *triggerDoneMsg) string {
	if running {
		return StyleDim.Render("asking the API to refetch...")
	}
	if done == nil {
		return ""
	}
	return fmt.Sprintf("refetch: hbar %s, tokens %s", okText(done.hbarOK), okText(done.tokensOK))
}

func renderFooter(showHelp bool) string {
	if showHelp {
		return StyleDim.Render(helpText)
	}
	return StyleDim.Render("?: help  q: quit")
}

func loadingText(loading bool) string {
	if loading {
		return StyleDim.Render("loading...")
	}
	return StyleDim.Render(format.NotAvailable)
}

func okText(ok bool) string {
	if ok {
		return StyleGreen.Render("ok")
	}
	return StyleError.Render("failed")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorGreen  = lipgloss.Color("#10b981")
	colorYellow = lipgloss.Color("#f59e0b")
	colorRed    = lipgloss.Color("#ef4444")
	colorGray   = lipgloss.Color("#6b7280")
	colorPurple = lipgloss.Color("#8b5cf6")
	colorWhite  = lipgloss.Color("#f8fafc")
	colorDark   = lipgloss.Color("#1e293b")
	colorAlt    = lipgloss.Color("#0f172a")
)

var StyleHeader = lipgloss.NewStyle().
	Background(colorDark).
	Foreground(colorWhite).
	Padding(0, 1)

var StyleCard = lipgloss.NewStyle().
	Background(colorAlt).
	Foreground(colorWhite).
	Padding(0, 1).
	Margin(0, 1, 0, 0)

var (
	StyleTableHeader = lipgloss.NewStyle().
				Bold(true).
				Underline(true).
				Foreground(colorGray)

	StyleTableRow = lipgloss.NewStyle().
			Foreground(colorWhite)
)

var (
	StyleError  = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	StyleWarn   = lipgloss.NewStyle().Foreground(colorYellow)
	StyleDim    = lipgloss.NewStyle().Foreground(colorGray)
	StyleGreen  = lipgloss.NewStyle().Foreground(colorGreen)
	StyleRed    = lipgloss.NewStyle().Foreground(colorRed)
	StyleAccent = lipgloss.NewStyle().Foreground(colorPurple).Bold(true)
)

// changeStyle colors a price change green when up and red when down.
func changeStyle(change float64) lipgloss.Style {
	switch {
	case change > 0:
		return StyleGreen
	case change < 0:
		return StyleRed
	default:
		return StyleDim
	}
}

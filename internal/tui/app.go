package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// historyRanges are the day ranges the d key cycles through.
var historyRanges = []int{1, 7, 30, 90}

const (
	clockInterval  = time.Second
	triggerTimeout = 15 * time.Second
)

// App is the root Bubble Tea model of the dashboard.
type App struct {
	feeds *Feeds
	api   API
	now   func() time.Time

	width, height int
	showHelp      bool

	triggering bool
	trigger    *triggerDoneMsg
}

// NewApp renders feeds and sends refetch requests through api. Close
// releases the feeds' subscriptions.
func NewApp(feeds *Feeds, api API) *App {
	return &App{feeds: feeds, api: api, now: time.Now}
}

// Init implements tea.Model. It starts listening on every feed and the clock.
func (app *App) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(clockInterval)}
	for _, ch := range app.feeds.Updates() {
		cmds = append(cmds, waitFor(ch))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (app *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		app.width = msg.Width
		app.height = msg.Height

	case feedUpdatedMsg:
		return app, waitFor(msg.ch)

	case TickMsg:
		return app, tickCmd(clockInterval)

	case tea.FocusMsg:
		app.feeds.Focus()

	case triggerDoneMsg:
		app.triggering = false
		app.trigger = &msg
		app.feeds.Refresh()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return app, tea.Quit
		case key.Matches(msg, keys.Refresh):
			app.feeds.Refresh()
		case key.Matches(msg, keys.Trigger):
			if app.triggering {
				return app, nil
			}
			app.triggering = true
			return app, triggerCmd(app.api)
		case key.Matches(msg, keys.Days):
			return app, waitFor(app.feeds.SetHistoryDays(nextRange(app.feeds.HistoryDays())))
		case key.Matches(msg, keys.Help):
			app.showHelp = !app.showHelp
		}
	}

	return app, nil
}

// View implements tea.Model.
func (app *App) View() string {
	snap := app.feeds.snapshot()
	now := app.now()

	parts := []string{
		renderHeader(snap, now),
		renderCards(snap),
		renderHistory(snap, app.width),
		renderTokens(snap),
	}
	if s := renderTrigger(app.triggering, app.trigger); s != "" {
		parts = append(parts, s)
	}
	parts = append(parts, renderFooter(app.showHelp))

	return strings.Join(parts, "\n")
}

// Close releases the dashboard subscriptions.
func (app *App) Close() {
	app.feeds.Close()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// waitFor blocks until ch signals. A closed channel ends the listener.
func waitFor(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return feedUpdatedMsg{ch: ch}
	}
}

// triggerCmd asks the API to refetch HBAR and tokens from upstream.
func triggerCmd(api API) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), triggerTimeout)
		defer cancel()

		return triggerDoneMsg{
			hbarOK:   api.RefreshHBAR(ctx).Value,
			tokensOK: api.RefreshTokens(ctx).Value,
		}
	}
}

func nextRange(days int) int {
	for i, d := range historyRanges {
		if d == days {
			return historyRanges[(i+1)%len(historyRanges)]
		}
	}
	return historyRanges[0]
}

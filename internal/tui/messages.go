package tui

import "time"

// feedUpdatedMsg signals that a subscription changed. ch is re-armed so the
// next change is delivered too.
type feedUpdatedMsg struct{ ch <-chan struct{} }

// TickMsg re-renders relative timestamps.
type TickMsg time.Time

// triggerDoneMsg reports the server-side refresh triggers.
type triggerDoneMsg struct {
	hbarOK   bool
	tokensOK bool
}

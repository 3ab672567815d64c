package job

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// Job IDs reported by the scheduler.
const (
	JobHBARFetch       = "hbar_data_fetch"
	JobNetworkFetch    = "network_metrics_fetch"
	JobTokenFetch      = "token_data_fetch"
	JobSchedulerStatus = "scheduler_status"

	statusLogInterval = 30 * time.Minute
)

type Refresher interface {
	Refresh(ctx context.Context) error
}

type TokenRefresher interface {
	Refresh(ctx context.Context) (int, error)
}

// RefresherFunc adapts a plain function to Refresher.
type RefresherFunc func(ctx context.Context) error

func (f RefresherFunc) Refresh(ctx context.Context) error { return f(ctx) }

// DataPoller wires the HBAR, network and token refreshes into a Scheduler.
type DataPoller struct {
	hbar    Refresher
	network Refresher
	tokens  TokenRefresher

	hbarInterval    time.Duration
	networkInterval time.Duration
	tokensInterval  time.Duration
}

func NewDataPoller(
	hbar Refresher,
	network Refresher,
	tokens TokenRefresher,
	hbarSecs, networkSecs, tokensSecs int,
) *DataPoller {
	return &DataPoller{
		hbar:            hbar,
		network:         network,
		tokens:          tokens,
		hbarInterval:    time.Duration(hbarSecs) * time.Second,
		networkInterval: time.Duration(networkSecs) * time.Second,
		tokensInterval:  time.Duration(tokensSecs) * time.Second,
	}
}

// Register adds the data jobs and the periodic status log to s.
func (p *DataPoller) Register(s *Scheduler) {
	if p.hbar != nil {
		s.Add(JobHBARFetch, p.hbarInterval, p.hbar.Refresh)
	}
	if p.network != nil {
		s.Add(JobNetworkFetch, p.networkInterval, p.network.Refresh)
	}
	if p.tokens != nil {
		s.Add(JobTokenFetch, p.tokensInterval, func(ctx context.Context) error {
			n, err := p.tokens.Refresh(ctx)
			if err != nil {
				return err
			}
			log.Info("token data fetch complete", "saved", n)
			return nil
		})
	}
	s.Add(JobSchedulerStatus, statusLogInterval, func(ctx context.Context) error {
		logStatus(s)
		return nil
	})
}

func logStatus(s *Scheduler) {
	status := s.Status()
	for _, j := range status.Jobs {
		if j.ID == JobSchedulerStatus {
			continue
		}
		var next any = "pending"
		if j.NextRun != nil {
			next = j.NextRun.Format(time.RFC3339)
		}
		log.Info("job status", "job", j.ID, "runs", j.Runs, "next_run", next, "last_error", j.LastError)
	}
}

package job

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"chainmetrics/internal/domain"
	"chainmetrics/internal/observability"
)

// Scheduler runs each registered job once at start and then on its own
// ticker. A job never overlaps itself; ticks missed while it runs are dropped.
type Scheduler struct {
	tracer trace.Tracer
	now    func() time.Time

	mu      sync.Mutex
	jobs    []*jobState
	running bool
}

type jobState struct {
	id       string
	interval time.Duration
	fn       func(context.Context) error

	runs      int64
	lastRun   *time.Time
	nextRun   *time.Time
	lastError string
}

func NewScheduler(tracer trace.Tracer) *Scheduler {
	return &Scheduler{tracer: tracer, now: time.Now}
}

// Add registers a job. Jobs added after Start are not run.
func (s *Scheduler) Add(id string, interval time.Duration, fn func(context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, &jobState{id: id, interval: interval, fn: fn})
}

// Start launches every job and blocks until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.running = true
	jobs := append([]*jobState(nil), s.jobs...)
	s.mu.Unlock()

	log.Info("scheduler starting", "jobs", len(jobs))

	var wg sync.WaitGroup
	for _, j := range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.pollLoop(ctx, j)
		}()
	}

	<-ctx.Done()
	wg.Wait()

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
	log.Info("scheduler stopped")
}

func (s *Scheduler) pollLoop(ctx context.Context, j *jobState) {
	s.runOnce(ctx, j)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx, j)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, j *jobState) {
	ctx, span := s.tracer.Start(ctx, "scheduler.run-job")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", j.id))

	start := s.now()
	err := j.fn(ctx)
	elapsed := s.now().Sub(start)
	observability.RecordJobRun(j.id, elapsed.Seconds(), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error("job failed", "job", j.id, "err", err, "duration", elapsed)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	j.runs++
	last := start.UTC()
	next := last.Add(j.interval)
	j.lastRun = &last
	j.nextRun = &next
	j.lastError = ""
	if err != nil {
		j.lastError = err.Error()
	}
}

// Status reports the scheduler and every registered job.
func (s *Scheduler) Status() domain.SchedulerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := domain.SchedulerStatus{Running: s.running, Jobs: make([]domain.JobStatus, 0, len(s.jobs))}
	for _, j := range s.jobs {
		out.Jobs = append(out.Jobs, domain.JobStatus{
			ID:        j.id,
			Interval:  j.interval.String(),
			Runs:      j.runs,
			LastRun:   copyTime(j.lastRun),
			NextRun:   copyTime(j.nextRun),
			LastError: j.lastError,
		})
	}
	return out
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

package service

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/trace"

	"chainmetrics/internal/domain"
)

const healthPingTimeout = 3 * time.Second

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthService struct {
	tracer trace.Tracer
	db     Pinger
	now    func() time.Time
}

func NewHealthService(tracer trace.Tracer, db Pinger) *HealthService {
	return &HealthService{tracer: tracer, db: db, now: time.Now}
}

func (s *HealthService) Check(ctx context.Context) domain.HealthStatus {
	ctx, span := s.tracer.Start(ctx, "health-service.check")
	defer span.End()

	status := domain.HealthStatus{
		Status:    domain.HealthUnhealthy,
		Timestamp: s.now().UTC(),
		Version:   domain.ServiceVersion,
	}
	if s.db == nil {
		return status
	}

	ctx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()
	if err := s.db.Ping(ctx); err != nil {
		log.Warn("database health check failed", "err", err)
		return status
	}
	status.Status = domain.HealthHealthy
	status.DatabaseConnected = true
	return status
}

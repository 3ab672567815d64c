package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"chainmetrics/internal/domain"
	"chainmetrics/internal/observability"
)

type HBARService interface {
	Current(ctx context.Context) (*domain.HBARSnapshot, error)
	Refresh(ctx context.Context) (*domain.HBARSnapshot, error)
	History(ctx context.Context, days int) ([]domain.PricePoint, error)
	Stats(ctx context.Context) (*domain.HBARStats, error)
}

type TokenService interface {
	Top(ctx context.Context, limit int) ([]domain.TokenListing, error)
	ByID(ctx context.Context, tokenID string) (*domain.TokenListing, error)
	Refresh(ctx context.Context) (int, error)
}

type SummaryService interface {
	Summary(ctx context.Context) (*domain.MetricsSummary, error)
}

type HealthChecker interface {
	Check(ctx context.Context) domain.HealthStatus
}

type SchedulerStatus interface {
	Status() domain.SchedulerStatus
}

// Services groups the dependencies of the API handlers.
type Services struct {
	HBAR      HBARService
	Tokens    TokenService
	Summary   SummaryService
	Health    HealthChecker
	Scheduler SchedulerStatus
}

type Handler struct {
	tracer    trace.Tracer
	hbar      HBARService
	tokens    TokenService
	summary   SummaryService
	health    HealthChecker
	scheduler SchedulerStatus
	apiKey    string
}

func New(tracer trace.Tracer, svc Services) *Handler {
	return &Handler{
		tracer:    tracer,
		hbar:      svc.HBAR,
		tokens:    svc.Tokens,
		summary:   svc.Summary,
		health:    svc.Health,
		scheduler: svc.Scheduler,
	}
}

// SetRefreshAPIKey guards the refresh endpoints with X-API-Key. An empty key
// leaves them open.
func (h *Handler) SetRefreshAPIKey(key string) {
	h.apiKey = key
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Root)
	r.GET("/metrics", gin.WrapH(observability.Handler()))

	api := r.Group("/api/v1")
	api.GET("/health", h.Health)

	api.GET("/hbar/current", h.CurrentHBAR)
	api.GET("/hbar/history", h.HBARHistory)
	api.GET("/hbar/stats", h.HBARStats)
	api.POST("/hbar/refresh", APIKeyAuth(h.apiKey), h.RefreshHBAR)

	api.GET("/metrics/summary", h.MetricsSummary)

	api.GET("/tokens/top", h.TopTokens)
	api.POST("/tokens/refresh", APIKeyAuth(h.apiKey), h.RefreshTokens)
	api.GET("/tokens/:token_id", h.TokenByID)

	api.GET("/scheduler/status", h.SchedulerStatus)
}

func writeError(c *gin.Context, code int, err error) {
	c.Header("Cache-Control", "no-store")
	c.JSON(code, gin.H{"error": err.Error()})
}

// intQuery reads an optional integer query parameter. It reports false after
// writing a 400 when the value is malformed or outside [lo, hi].
func intQuery(c *gin.Context, name string, def, lo, hi int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || n > hi {
		c.Header("Cache-Control", "no-store")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": name + " must be an integer between " + strconv.Itoa(lo) + " and " + strconv.Itoa(hi),
		})
		return 0, false
	}
	return n, true
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chainmetrics/internal/domain"
)

// Root godoc
// @Summary      Service information
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       / [get]
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "ChainMetrics API",
		"version": domain.ServiceVersion,
		"docs":    "/swagger/index.html",
	})
}

// Health godoc
// @Summary      Health check
// @Description  Reports whether the API can reach its database
// @Tags         health
// @Produce      json
// @Success      200  {object}  domain.HealthStatus
// @Router       /api/v1/health [get]
func (h *Handler) Health(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.health")
	defer span.End()

	c.JSON(http.StatusOK, h.health.Check(ctx))
}

// SchedulerStatus godoc
// @Summary      Background job status
// @Tags         health
// @Produce      json
// @Success      200  {object}  domain.SchedulerStatus
// @Router       /api/v1/scheduler/status [get]
func (h *Handler) SchedulerStatus(c *gin.Context) {
	if h.scheduler == nil {
		c.JSON(http.StatusOK, domain.SchedulerStatus{Jobs: []domain.JobStatus{}})
		return
	}
	c.JSON(http.StatusOK, h.scheduler.Status())
}

package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"chainmetrics/internal/domain"
)

// CurrentHBAR godoc
// @Summary      Current HBAR market data
// @Description  Latest HBAR snapshot from cache, database or a live CoinGecko fetch. Null when none is available.
// @Tags         hbar
// @Produce      json
// @Success      200  {object}  domain.HBARSnapshot
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/hbar/current [get]
func (h *Handler) CurrentHBAR(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.current-hbar")
	defer span.End()

	snap, err := h.hbar.Current(ctx)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// HBARHistory godoc
// @Summary      HBAR price history
// @Tags         hbar
// @Produce      json
// @Param        days  query  int  false  "Days of history (1-365)"  default(7)
// @Success      200  {array}   domain.PricePoint
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/hbar/history [get]
func (h *Handler) HBARHistory(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.hbar-history")
	defer span.End()

	days, ok := intQuery(c, "days", domain.DefaultHistoryDays, domain.MinHistoryDays, domain.MaxHistoryDays)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("hbar.days", days))

	points, err := h.hbar.History(ctx, days)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	if points == nil {
		points = []domain.PricePoint{}
	}
	c.JSON(http.StatusOK, points)
}

// HBARStats godoc
// @Summary      HBAR 30-day statistics
// @Tags         hbar
// @Produce      json
// @Success      200  {object}  domain.HBARStats
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/hbar/stats [get]
func (h *Handler) HBARStats(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.hbar-stats")
	defer span.End()

	stats, err := h.hbar.Stats(ctx)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// RefreshHBAR godoc
// @Summary      Refresh HBAR data
// @Description  Fetches HBAR market data from CoinGecko and stores it
// @Tags         hbar
// @Produce      json
// @Param        X-API-Key  header  string  false  "Refresh API key, when configured"
// @Success      200  {object}  domain.HBARRefreshResult
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/hbar/refresh [post]
func (h *Handler) RefreshHBAR(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.refresh-hbar")
	defer span.End()

	snap, err := h.hbar.Refresh(ctx)
	if err != nil {
		writeError(c, http.StatusInternalServerError, fmt.Errorf("failed to refresh HBAR data: %w", err))
		return
	}
	c.JSON(http.StatusOK, domain.HBARRefreshResult{
		Message:   "HBAR data refreshed successfully",
		Timestamp: time.Now().UTC(),
		Data: domain.HBARRefreshData{
			PriceUSD:      snap.PriceUSD,
			MarketCap:     snap.MarketCap,
			MarketCapRank: snap.MarketCapRank,
		},
	})
}

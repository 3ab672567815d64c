package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"chainmetrics/internal/domain"
)

// TopTokens godoc
// @Summary      Top Hedera tokens
// @Description  Latest stored token rows, ordered by holder count and then total supply
// @Tags         tokens
// @Produce      json
// @Param        limit  query  int  false  "Number of tokens (1-50)"  default(10)
// @Success      200  {array}   domain.TokenListing
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/tokens/top [get]
func (h *Handler) TopTokens(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.top-tokens")
	defer span.End()

	limit, ok := intQuery(c, "limit", domain.DefaultTopTokensLimit, domain.MinTopTokensLimit, domain.MaxTopTokensLimit)
	if !ok {
		return
	}

	tokens, err := h.tokens.Top(ctx, limit)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	if tokens == nil {
		tokens = []domain.TokenListing{}
	}
	c.JSON(http.StatusOK, tokens)
}

// TokenByID godoc
// @Summary      Token details
// @Description  Newest stored row for a token, or null when it is not tracked
// @Tags         tokens
// @Produce      json
// @Param        token_id  path  string  true  "Hedera token ID (e.g. 0.0.456858)"
// @Success      200  {object}  domain.TokenListing
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/tokens/{token_id} [get]
func (h *Handler) TokenByID(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.token-by-id")
	defer span.End()

	tokenID := c.Param("token_id")
	span.SetAttributes(attribute.String("token.id", tokenID))

	token, err := h.tokens.ByID(ctx, tokenID)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

// RefreshTokens godoc
// @Summary      Refresh token data
// @Description  Fetches the tracked tokens from the Hedera mirror node and stores them
// @Tags         tokens
// @Produce      json
// @Param        X-API-Key  header  string  false  "Refresh API key, when configured"
// @Success      200  {object}  domain.TokenRefreshResult
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/tokens/refresh [post]
func (h *Handler) RefreshTokens(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.refresh-tokens")
	defer span.End()

	n, err := h.tokens.Refresh(ctx)
	if err != nil {
		writeError(c, http.StatusInternalServerError, fmt.Errorf("failed to refresh token data: %w", err))
		return
	}
	c.JSON(http.StatusOK, domain.TokenRefreshResult{
		Message:     "Token data refreshed successfully",
		Timestamp:   time.Now().UTC(),
		TokensCount: n,
	})
}

// MetricsSummary godoc
// @Summary      Dashboard summary
// @Description  Latest HBAR snapshot, network metrics and the top five tokens
// @Tags         metrics
// @Produce      json
// @Success      200  {object}  domain.MetricsSummary
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/metrics/summary [get]
func (h *Handler) MetricsSummary(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.metrics-summary")
	defer span.End()

	summary, err := h.summary.Summary(ctx)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Package mcptools exposes the ChainMetrics API to MCP clients as read-only
// tools backed by the fetch client.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"chainmetrics/internal/apiclient"
	"chainmetrics/internal/domain"
)

// API is the slice of the fetch client the tools call.
type API interface {
	Health(ctx context.Context) (*domain.HealthStatus, error)
	CurrentHBAR(ctx context.Context) apiclient.Result[*domain.HBARSnapshot]
	HBARHistory(ctx context.Context, days int) apiclient.Result[[]domain.PricePoint]
	MetricsSummary(ctx context.Context) apiclient.Result[*domain.MetricsSummary]
	TopTokens(ctx context.Context, limit int) apiclient.Result[[]domain.TokenListing]
}

type NoInput struct{}

type HistoryInput struct {
	Days int `json:"days,omitempty" jsonschema:"days of history to return, 1-365, default 7"`
}

type TopTokensInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"number of tokens to return, 1-50, default 10"`
}

// output is the JSON body of every tool result.
type output struct {
	Data         any    `json:"data"`
	UsedFallback bool   `json:"used_fallback"`
	Error        string `json:"error,omitempty"`
}

// Tools holds the handlers. Each call is bounded by timeout.
type Tools struct {
	api     API
	timeout time.Duration
}

func New(api API, timeout time.Duration) *Tools {
	return &Tools{api: api, timeout: timeout}
}

// Register adds every tool to server.
func (t *Tools) Register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "hbar_current",
		Description: "Latest HBAR market snapshot: USD price, 24h change, market cap, volume and rank.",
	}, t.HBARCurrent)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "hbar_history",
		Description: "HBAR price history for the last N days, oldest first.",
	}, t.HBARHistory)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "metrics_summary",
		Description: "Dashboard summary: HBAR snapshot, Hedera network metrics and the top five tokens.",
	}, t.MetricsSummary)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "top_tokens",
		Description: "Top tracked Hedera tokens ordered by holder count.",
	}, t.TopTokens)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "api_health",
		Description: "Health of the ChainMetrics API and its database connection.",
	}, t.APIHealth)
}

func (t *Tools) HBARCurrent(ctx context.Context, _ *mcp.CallToolRequest, _ NoInput) (*mcp.CallToolResult, any, error) {
	ctx, cancel := t.withTimeout(ctx)
	defer cancel()
	return fromResult(t.api.CurrentHBAR(ctx))
}

func (t *Tools) HBARHistory(ctx context.Context, _ *mcp.CallToolRequest, in HistoryInput) (*mcp.CallToolResult, any, error) {
	days := in.Days
	if days == 0 {
		days = domain.DefaultHistoryDays
	}
	if days < domain.MinHistoryDays || days > domain.MaxHistoryDays {
		return errorResult(fmt.Errorf("days must be between %d and %d", domain.MinHistoryDays, domain.MaxHistoryDays))
	}

	ctx, cancel := t.withTimeout(ctx)
	defer cancel()
	return fromResult(t.api.HBARHistory(ctx, days))
}

func (t *Tools) MetricsSummary(ctx context.Context, _ *mcp.CallToolRequest, _ NoInput) (*mcp.CallToolResult, any, error) {
	ctx, cancel := t.withTimeout(ctx)
	defer cancel()
	return fromResult(t.api.MetricsSummary(ctx))
}

func (t *Tools) TopTokens(ctx context.Context, _ *mcp.CallToolRequest, in TopTokensInput) (*mcp.CallToolResult, any, error) {
	limit := in.Limit
	if limit == 0 {
		limit = domain.DefaultTopTokensLimit
	}
	if limit < domain.MinTopTokensLimit || limit > domain.MaxTopTokensLimit {
		return errorResult(fmt.Errorf("limit must be between %d and %d", domain.MinTopTokensLimit, domain.MaxTopTokensLimit))
	}

	ctx, cancel := t.withTimeout(ctx)
	defer cancel()
	return fromResult(t.api.TopTokens(ctx, limit))
}

// APIHealth is the only tool that reports a failed call as a tool error,
// since health has no fallback value.
func (t *Tools) APIHealth(ctx context.Context, _ *mcp.CallToolRequest, _ NoInput) (*mcp.CallToolResult, any, error) {
	ctx, cancel := t.withTimeout(ctx)
	defer cancel()

	status, err := t.api.Health(ctx)
	if err != nil {
		log.Warn("mcp api_health failed", "err", err)
		return errorResult(err)
	}
	return jsonResult(output{Data: status}, false)
}

func (t *Tools) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if t.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, t.timeout)
}

func fromResult[T any](r apiclient.Result[T]) (*mcp.CallToolResult, any, error) {
	out := output{Data: r.Value, UsedFallback: r.UsedFallback()}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return jsonResult(out, false)
}

func errorResult(err error) (*mcp.CallToolResult, any, error) {
	return jsonResult(output{Error: err.Error()}, true)
}

func jsonResult(out output, isError bool) (*mcp.CallToolResult, any, error) {
	b, err := json.Marshal(out)
	if err != nil {
		return nil, nil, fmt.Errorf("encode tool output: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
		IsError: isError,
	}, nil, nil
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Availability of a metrics section in the summary.
const (
	StatusAvailable  = "available"
	StatusComingSoon = "coming_soon"
)

// Service health values.
const (
	HealthHealthy   = "healthy"
	HealthUnhealthy = "unhealthy"
)

// ServiceVersion is reported by the health endpoint and the API root.
const ServiceVersion = "1.0.0"

// NetworkMetrics describes Hedera network throughput. TPS and the 24h
// transaction count stay nil until the network feed has produced a value.
type NetworkMetrics struct {
	Status          string     `json:"status"`
	TPS             *float64   `json:"tps"`
	Transactions24h *int64     `json:"transactions_24h"`
	Timestamp       *time.Time `json:"timestamp,omitempty"`
}

// ComingSoonNetwork is reported while no network metrics were collected.
func ComingSoonNetwork() NetworkMetrics {
	return NetworkMetrics{Status: StatusComingSoon}
}

type TokenSummary struct {
	Status    string         `json:"status"`
	TopTokens []TokenListing `json:"top_tokens"`
}

type MetricsSummary struct {
	Timestamp time.Time      `json:"timestamp"`
	HBAR      *HBARSnapshot  `json:"hbar"`
	Network   NetworkMetrics `json:"network"`
	Tokens    TokenSummary   `json:"tokens"`
}

type HealthStatus struct {
	Status            string    `json:"status"`
	Timestamp         time.Time `json:"timestamp"`
	DatabaseConnected bool      `json:"database_connected"`
	Version           string    `json:"version"`
}

type HBARRefreshResult struct {
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Data      HBARRefreshData `json:"data"`
}

type HBARRefreshData struct {
	PriceUSD      decimal.Decimal `json:"price_usd"`
	MarketCap     float64         `json:"market_cap"`
	MarketCapRank int             `json:"market_cap_rank"`
}

type TokenRefreshResult struct {
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	TokensCount int       `json:"tokens_count"`
}

// JobStatus reports the state of one scheduled background job.
type JobStatus struct {
	ID        string     `json:"id"`
	Interval  string     `json:"interval"`
	Runs      int64      `json:"runs"`
	LastRun   *time.Time `json:"last_run"`
	NextRun   *time.Time `json:"next_run"`
	LastError string     `json:"last_error,omitempty"`
}

type SchedulerStatus struct {
	Running bool        `json:"running"`
	Jobs    []JobStatus `json:"jobs"`
}

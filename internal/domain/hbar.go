package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, the same shape the dashboard consumers expect.
	decimal.MarshalJSONWithoutQuotes = true
}

// HBARCoinGeckoID is the CoinGecko identifier of the HBAR token.
const HBARCoinGeckoID = "hedera-hashgraph"

// HBARSnapshot is a point-in-time market record for HBAR. It is replaced
// wholesale on every refresh.
type HBARSnapshot struct {
	Timestamp         time.Time       `json:"timestamp"`
	PriceUSD          decimal.Decimal `json:"price_usd"`
	MarketCap         float64         `json:"market_cap"`
	Volume24h         float64         `json:"volume_24h"`
	PriceChange24h    float64         `json:"price_change_24h"`
	CirculatingSupply float64         `json:"circulating_supply"`
	MarketCapRank     int             `json:"market_cap_rank"`
}

// PricePoint is one entry of the HBAR price history.
type PricePoint struct {
	Timestamp time.Time       `json:"timestamp"`
	PriceUSD  decimal.Decimal `json:"price_usd"`
	Volume24h float64         `json:"volume_24h"`
}

// HBARStats summarises the stored snapshots of the last 30 days.
type HBARStats struct {
	TotalRecords int64          `json:"total_records"`
	PriceStats   HBARPriceStats `json:"price_stats"`
	DataRange    HBARDataRange  `json:"data_range"`
	Timestamp    time.Time      `json:"timestamp"`
}

type HBARPriceStats struct {
	MinPrice30d *decimal.Decimal `json:"min_price_30d"`
	MaxPrice30d *decimal.Decimal `json:"max_price_30d"`
	AvgPrice30d *decimal.Decimal `json:"avg_price_30d"`
}

type HBARDataRange struct {
	FirstRecord *time.Time `json:"first_record"`
	LastRecord  *time.Time `json:"last_record"`
}

// History day-range bounds accepted by the API.
const (
	DefaultHistoryDays = 7
	MinHistoryDays     = 1
	MaxHistoryDays     = 365
)

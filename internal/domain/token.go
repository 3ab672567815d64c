package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TokenListing is one row of the tracked Hedera token table.
type TokenListing struct {
	TokenID        string           `json:"token_id"`
	Name           string           `json:"name"`
	Symbol         string           `json:"symbol"`
	PriceUSD       *decimal.Decimal `json:"price_usd"`
	MarketCap      *float64         `json:"market_cap"`
	Volume24h      *float64         `json:"volume_24h"`
	PriceChange24h *float64         `json:"price_change_24h"`
	Decimals       int              `json:"decimals"`
	TotalSupply    int64            `json:"total_supply"`
	HoldersCount   *int             `json:"holders_count"`
	Transfers24h   *int             `json:"transfers_24h"`
	TokenType      string           `json:"token_type"`
	Memo           string           `json:"memo"`
	Timestamp      time.Time        `json:"timestamp"`
	Deleted        bool             `json:"-"`
}

const DefaultTokenType = "FUNGIBLE_COMMON"

// Top-token limit bounds accepted by the API.
const (
	DefaultTopTokensLimit = 10
	MinTopTokensLimit     = 1
	MaxTopTokensLimit     = 50
)

// TrackedTokenIDs is the curated list of popular Hedera tokens refreshed
// from the mirror node.
var TrackedTokenIDs = []string{
	"0.0.456858",  // USDC
	"0.0.1456986", // HBARX
	"0.0.731861",  // SAUCE
	"0.0.9295288", // CLAW
	"0.0.9296430", // paws
	"0.0.9284323", // HDANO
	"0.0.9289584", // APUP
	"0.0.9295368", // PAWS
	"0.0.9290018", // Rico
	"0.0.9297325", // Tuca
}

// sampleTokensAt is fixed so that a fallback list is identical on every call.
var sampleTokensAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// SampleTokens returns the static three-token listing used when the top
// tokens cannot be loaded. Each call returns a fresh copy.
func SampleTokens() []TokenListing {
	return []TokenListing{
		sampleToken("0.0.456858", "USD Coin", "USDC", "1.00", 45_000_000, 2_500_000, 0.01, 6),
		sampleToken("0.0.1456986", "Stader HBARX", "HBARX", "0.0712", 12_500_000, 350_000, -1.85, 8),
		sampleToken("0.0.731861", "SaucerSwap", "SAUCE", "0.0215", 18_000_000, 1_200_000, 3.42, 6),
	}
}

func sampleToken(id, name, symbol, price string, marketCap, volume, change float64, decimals int) TokenListing {
	p := decimal.RequireFromString(price)
	return TokenListing{
		TokenID:        id,
		Name:           name,
		Symbol:         symbol,
		PriceUSD:       &p,
		MarketCap:      &marketCap,
		Volume24h:      &volume,
		PriceChange24h: &change,
		Decimals:       decimals,
		TokenType:      DefaultTokenType,
		Timestamp:      sampleTokensAt,
	}
}

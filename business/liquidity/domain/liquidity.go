package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LiquidityInfo is a point-in-time snapshot of pool depth for a pair.
type LiquidityInfo struct {
	Provider       string
	Pair           Pair
	Chain          Chain
	TotalLiquidity decimal.Decimal
	BaseReserve    decimal.Decimal
	QuoteReserve   decimal.Decimal
	Volume24h      decimal.Decimal
	Timestamp      time.Time
}

// EmptyLiquidity is the snapshot returned for pairs a provider does not
// track. Unknown pairs yield zeroed figures, not errors.
func EmptyLiquidity(provider string, pair Pair, chain Chain) LiquidityInfo {
	return LiquidityInfo{
		Provider:       provider,
		Pair:           pair,
		Chain:          chain,
		TotalLiquidity: decimal.Zero,
		BaseReserve:    decimal.Zero,
		QuoteReserve:   decimal.Zero,
		Volume24h:      decimal.Zero,
		Timestamp:      time.Now(),
	}
}

// HasDepth reports whether the snapshot carries any tradable liquidity.
func (l LiquidityInfo) HasDepth() bool {
	return l.TotalLiquidity.IsPositive()
}

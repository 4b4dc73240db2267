package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SwapRequest describes an execution order against a single provider.
type SwapRequest struct {
	FromToken   string
	ToToken     string
	Amount      decimal.Decimal
	Chain       Chain
	SlippagePct decimal.Decimal
	Recipient   string
}

// SwapResult reports the outcome of one swap attempt. Business failures
// are reported through Success=false and Error, never through a returned
// error from the provider.
type SwapResult struct {
	Success       bool
	Provider      string
	TxHash        string
	FromAmount    decimal.Decimal
	ToAmount      decimal.Decimal
	ExecutedPrice decimal.Decimal
	GasUsed       decimal.Decimal
	Error         string
	Timestamp     time.Time
}

// FailedSwap builds the canonical failure result for a provider.
func FailedSwap(provider, reason string) SwapResult {
	return SwapResult{
		Success:   false,
		Provider:  provider,
		Error:     reason,
		Timestamp: time.Now(),
	}
}

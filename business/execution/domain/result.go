// Package domain holds the best-execution ranking and order-splitting
// model.
package domain

import (
	liquidity "github.com/novaledger/dexflow/business/liquidity/domain"
	"github.com/shopspring/decimal"
)

// ScoredQuote pairs a quote with its computed ranking score.
type ScoredQuote struct {
	Quote liquidity.Quote
	Score decimal.Decimal
}

// SplitOrder is one leg of a split execution plan.
type SplitOrder struct {
	Provider   string
	Amount     decimal.Decimal
	Percentage decimal.Decimal
}

// ExecutionStrategy describes how the order should be routed. SplitOrders
// is empty for single-provider execution.
type ExecutionStrategy struct {
	SplitOrders []SplitOrder
	Reason      string
}

// IsSplit reports whether the strategy routes across several providers.
func (s ExecutionStrategy) IsSplit() bool {
	return len(s.SplitOrders) > 0
}

// BestExecutionResult is the aggregator's answer for one request.
// AllQuotes is ordered by score descending; ties keep the provider
// registration order.
type BestExecutionResult struct {
	BestQuote liquidity.Quote
	AllQuotes []ScoredQuote
	Strategy  ExecutionStrategy
}

// Package app holds the liquidity context's application services and ports.
package app

import (
	"context"

	"github.com/novaledger/dexflow/business/liquidity/domain"
)

// Provider is the contract every liquidity source implements.
//
// SupportsPair is a cheap, local check used to prune fan-out before any
// network call. GetQuote returns an error only for request or transport
// failures. ExecuteSwap reports business failures inside SwapResult and
// returns an error only when the call itself could not be made.
// Liquidity returns a zeroed snapshot for pairs the provider does not
// track, never an error.
type Provider interface {
	Name() string
	SupportedChains() []domain.Chain
	SupportsPair(pair domain.Pair) bool
	GetQuote(ctx context.Context, req domain.QuoteRequest) (domain.Quote, error)
	ExecuteSwap(ctx context.Context, req domain.SwapRequest) (domain.SwapResult, error)
	Liquidity(ctx context.Context, pair domain.Pair, chain domain.Chain) domain.LiquidityInfo
}

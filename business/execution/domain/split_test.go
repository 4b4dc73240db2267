package domain

import (
	"testing"

	liquidity "github.com/novaledger/dexflow/business/liquidity/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoredBatch(quotes ...liquidity.Quote) []ScoredQuote {
	return ScoreQuotes(quotes)
}

func TestBuildStrategySmallOrderStaysSingle(t *testing.T) {
	scored := scoredBatch(
		quote("pancakeswap", "100", "0.25", "0.2", "400000"),
		quote("raydium", "101", "0.20", "0.1", "500000"),
	)

	strategy := BuildStrategy(scored, decimal.NewFromInt(1000), DefaultSplitParams())
	assert.False(t, strategy.IsSplit())
	assert.Equal(t, "single provider optimal", strategy.Reason)
}

func TestBuildStrategySplitInvariants(t *testing.T) {
	// Impacts far apart so the mean sits well above the minimum.
	scored := scoredBatch(
		quote("pancakeswap", "100", "0.25", "0.5", "400000"),
		quote("raydium", "99", "0.20", "6", "500000"),
		quote("uniswap", "98", "0.30", "4", "100000"),
	)
	requested := decimal.NewFromInt(250_000)

	strategy := BuildStrategy(scored, requested, DefaultSplitParams())
	require.True(t, strategy.IsSplit(), "reason: %s", strategy.Reason)
	require.Len(t, strategy.SplitOrders, 3)

	pctSum := decimal.Zero
	amountSum := decimal.Zero
	for _, o := range strategy.SplitOrders {
		assert.True(t, o.Amount.GreaterThanOrEqual(decimal.Zero), "%s amount %s", o.Provider, o.Amount)
		pctSum = pctSum.Add(o.Percentage)
		amountSum = amountSum.Add(o.Amount)
	}

	assert.True(t, pctSum.Sub(decimal.NewFromInt(100)).Abs().LessThanOrEqual(decimal.NewFromFloat(0.01)),
		"percentages sum to %s", pctSum)
	assert.True(t, amountSum.Equal(requested), "amounts sum to %s, want %s", amountSum, requested)

	// Every provider in the batch takes part, weighted by depth.
	byProvider := map[string]SplitOrder{}
	for _, o := range strategy.SplitOrders {
		byProvider[o.Provider] = o
	}
	assert.True(t, byProvider["raydium"].Percentage.GreaterThan(byProvider["uniswap"].Percentage),
		"deeper pool must take the larger share")
}

func TestBuildStrategyLowBenefitStaysSingle(t *testing.T) {
	// Impacts nearly equal: splitting buys nothing.
	scored := scoredBatch(
		quote("pancakeswap", "100", "0.25", "0.50", "400000"),
		quote("raydium", "99", "0.20", "0.60", "500000"),
	)

	strategy := BuildStrategy(scored, decimal.NewFromInt(250_000), DefaultSplitParams())
	assert.False(t, strategy.IsSplit())
	assert.Contains(t, strategy.Reason, "below")
}

func TestBuildStrategyNoAlternatives(t *testing.T) {
	scored := scoredBatch(quote("pancakeswap", "100", "0.25", "5", "400000"))

	strategy := BuildStrategy(scored, decimal.NewFromInt(250_000), DefaultSplitParams())
	assert.False(t, strategy.IsSplit())
}

func TestBuildStrategyNoLiquidityData(t *testing.T) {
	scored := scoredBatch(
		quote("pancakeswap", "100", "0.25", "0.5", "0"),
		quote("raydium", "99", "0.20", "6", "0"),
	)

	strategy := BuildStrategy(scored, decimal.NewFromInt(250_000), DefaultSplitParams())
	assert.False(t, strategy.IsSplit())
}

func TestBuildStrategyThresholdBoundary(t *testing.T) {
	scored := scoredBatch(
		quote("pancakeswap", "100", "0.25", "0.5", "400000"),
		quote("raydium", "99", "0.20", "6", "500000"),
	)

	// Exactly at the threshold is not "large".
	at := BuildStrategy(scored, decimal.NewFromInt(100_000), DefaultSplitParams())
	assert.False(t, at.IsSplit())

	over := BuildStrategy(scored, decimal.NewFromFloat(100_000.01), DefaultSplitParams())
	assert.True(t, over.IsSplit(), "reason: %s", over.Reason)
}

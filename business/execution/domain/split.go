package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SplitParams tunes the split-order decision.
type SplitParams struct {
	// LargeOrderThreshold is the requested amount above which splitting
	// is considered at all.
	LargeOrderThreshold decimal.Decimal
	// MinBenefitPercent is the impact reduction, in percent, required to
	// prefer a split over the single best provider.
	MinBenefitPercent decimal.Decimal
}

// DefaultSplitParams matches the production thresholds.
func DefaultSplitParams() SplitParams {
	return SplitParams{
		LargeOrderThreshold: decimal.NewFromInt(100_000),
		MinBenefitPercent:   decimal.NewFromInt(1),
	}
}

// BuildStrategy decides between single-provider and split execution.
// scored must already be ranked; its first element is the winner.
func BuildStrategy(scored []ScoredQuote, requested decimal.Decimal, params SplitParams) ExecutionStrategy {
	if requested.LessThanOrEqual(params.LargeOrderThreshold) {
		return ExecutionStrategy{Reason: "single provider optimal"}
	}
	if len(scored) < 2 {
		return ExecutionStrategy{Reason: "no alternative providers for split"}
	}

	totalLiquidity := decimal.Zero
	impactSum := decimal.Zero
	minImpact := scored[0].Quote.PriceImpactPct
	for _, sq := range scored {
		totalLiquidity = totalLiquidity.Add(sq.Quote.Liquidity)
		impactSum = impactSum.Add(sq.Quote.PriceImpactPct)
		if sq.Quote.PriceImpactPct.LessThan(minImpact) {
			minImpact = sq.Quote.PriceImpactPct
		}
	}
	if !totalLiquidity.IsPositive() {
		return ExecutionStrategy{Reason: "no liquidity data to weight a split"}
	}

	// Benefit of splitting, in percentage points: how far the batch's
	// mean impact sits above its best case.
	meanImpact := impactSum.Div(decimal.NewFromInt(int64(len(scored))))
	benefit := meanImpact.Sub(minImpact)
	if benefit.LessThanOrEqual(params.MinBenefitPercent) {
		return ExecutionStrategy{
			Reason: fmt.Sprintf("estimated split benefit %s%% below %s%% threshold",
				benefit.StringFixed(2), params.MinBenefitPercent),
		}
	}

	return ExecutionStrategy{
		SplitOrders: splitByLiquidity(scored, requested, totalLiquidity),
		Reason: fmt.Sprintf("split across %d providers reduces estimated impact by %s%%",
			len(scored), benefit.StringFixed(2)),
	}
}

// splitByLiquidity shares the order proportionally to each provider's
// reported depth. Rounding residue lands on the winner so the totals are
// exact: percentages sum to 100 and amounts sum to the requested amount.
func splitByLiquidity(scored []ScoredQuote, requested, totalLiquidity decimal.Decimal) []SplitOrder {
	orders := make([]SplitOrder, len(scored))
	pctSum := decimal.Zero
	amountSum := decimal.Zero

	for i, sq := range scored {
		if i == 0 {
			continue // winner absorbs the residue below
		}
		pct := sq.Quote.Liquidity.Div(totalLiquidity).Mul(hundred).Round(2)
		amount := requested.Mul(pct).Div(hundred).Round(8)
		orders[i] = SplitOrder{
			Provider:   sq.Quote.Provider,
			Amount:     amount,
			Percentage: pct,
		}
		pctSum = pctSum.Add(pct)
		amountSum = amountSum.Add(amount)
	}

	orders[0] = SplitOrder{
		Provider:   scored[0].Quote.Provider,
		Amount:     requested.Sub(amountSum),
		Percentage: hundred.Sub(pctSum),
	}
	return orders
}

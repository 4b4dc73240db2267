package domain

import (
	"sort"

	liquidity "github.com/novaledger/dexflow/business/liquidity/domain"
	"github.com/shopspring/decimal"
)

// Scoring weights. They sum to 100; each factor is normalized against
// the batch's min/max before weighting.
var (
	weightPrice     = decimal.NewFromInt(40)
	weightFee       = decimal.NewFromInt(30)
	weightImpact    = decimal.NewFromInt(20)
	weightLiquidity = decimal.NewFromInt(10)

	// flatLiquidity is awarded to every quote when no provider in the
	// batch reports any depth.
	flatLiquidity = decimal.NewFromInt(5)

	hundred = decimal.NewFromInt(100)
)

// ScoreQuotes ranks the batch. Input order must be the provider
// registration order; equal scores keep that order, so the first-seen
// provider wins exact ties.
func ScoreQuotes(quotes []liquidity.Quote) []ScoredQuote {
	if len(quotes) == 0 {
		return nil
	}

	maxToAmount := quotes[0].ToAmount
	minFee, maxFee := quotes[0].Fee, quotes[0].Fee
	minImpact, maxImpact := quotes[0].PriceImpactPct, quotes[0].PriceImpactPct
	maxLiquidity := quotes[0].Liquidity
	for _, q := range quotes[1:] {
		if q.ToAmount.GreaterThan(maxToAmount) {
			maxToAmount = q.ToAmount
		}
		if q.Fee.LessThan(minFee) {
			minFee = q.Fee
		}
		if q.Fee.GreaterThan(maxFee) {
			maxFee = q.Fee
		}
		if q.PriceImpactPct.LessThan(minImpact) {
			minImpact = q.PriceImpactPct
		}
		if q.PriceImpactPct.GreaterThan(maxImpact) {
			maxImpact = q.PriceImpactPct
		}
		if q.Liquidity.GreaterThan(maxLiquidity) {
			maxLiquidity = q.Liquidity
		}
	}

	feeSpread := maxFee.Sub(minFee)
	impactSpread := maxImpact.Sub(minImpact)

	scored := make([]ScoredQuote, len(quotes))
	for i, q := range quotes {
		score := decimal.Zero

		if maxToAmount.IsPositive() {
			score = score.Add(weightPrice.Mul(q.ToAmount.Div(maxToAmount)))
		}

		if feeSpread.IsZero() {
			score = score.Add(weightFee)
		} else {
			norm := q.Fee.Sub(minFee).Div(feeSpread)
			score = score.Add(weightFee.Mul(decimal.NewFromInt(1).Sub(norm)))
		}

		if impactSpread.IsZero() {
			score = score.Add(weightImpact)
		} else {
			norm := q.PriceImpactPct.Sub(minImpact).Div(impactSpread)
			score = score.Add(weightImpact.Mul(decimal.NewFromInt(1).Sub(norm)))
		}

		if maxLiquidity.IsZero() {
			score = score.Add(flatLiquidity)
		} else {
			score = score.Add(weightLiquidity.Mul(q.Liquidity.Div(maxLiquidity)))
		}

		scored[i] = ScoredQuote{Quote: q, Score: score}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score.GreaterThan(scored[j].Score)
	})
	return scored
}

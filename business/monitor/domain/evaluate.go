package domain

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PriceChangePercent is the signed percentage move from last to current.
// A zero last price yields zero; callers skip the first observation.
func PriceChangePercent(last, current decimal.Decimal) decimal.Decimal {
	if last.IsZero() {
		return decimal.Zero
	}
	return current.Sub(last).Div(last).Mul(hundred)
}

// SpreadPercent is the arbitrage spread across a batch of outputs for
// the same input amount: (max - min) / min * 100. Fewer than two values
// yield zero.
func SpreadPercent(outputs []decimal.Decimal) decimal.Decimal {
	if len(outputs) < 2 {
		return decimal.Zero
	}
	min, max := outputs[0], outputs[0]
	for _, v := range outputs[1:] {
		if v.LessThan(min) {
			min = v
		}
		if v.GreaterThan(max) {
			max = v
		}
	}
	if !min.IsPositive() {
		return decimal.Zero
	}
	return max.Sub(min).Div(min).Mul(hundred)
}

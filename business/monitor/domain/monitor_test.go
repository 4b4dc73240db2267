package domain

import (
	"testing"

	liquidity "github.com/novaledger/dexflow/business/liquidity/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDec(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestNewMonitorDefaults(t *testing.T) {
	pair, _ := liquidity.NewPair("CAKE", "BNB")
	m, err := NewMonitor(pair, liquidity.ChainBSC, TypePrice, Threshold{}, "strategy-1")
	require.NoError(t, err)

	assert.True(t, m.IsActive)
	assert.False(t, m.HasObservation())
	assert.True(t, m.Threshold.PriceChangePercent.Equal(decimal.NewFromInt(1)))
	assert.True(t, m.Threshold.ArbitrageSpreadPercent.Equal(decimal.NewFromFloat(0.5)))
	assert.NotEqual(t, m.ID.String(), "00000000-0000-0000-0000-000000000000")
}

func TestNewMonitorValidation(t *testing.T) {
	pair, _ := liquidity.NewPair("CAKE", "BNB")

	_, err := NewMonitor(liquidity.Pair{}, liquidity.ChainBSC, TypePrice, Threshold{}, "")
	assert.Error(t, err, "zero pair")

	_, err = NewMonitor(pair, liquidity.Chain("nearby"), TypePrice, Threshold{}, "")
	assert.Error(t, err, "unknown chain")

	_, err = NewMonitor(pair, liquidity.ChainBSC, Type("momentum"), Threshold{}, "")
	assert.Error(t, err, "unknown type")

	_, err = NewMonitor(pair, liquidity.ChainBSC, TypePrice,
		Threshold{PriceChangePercent: decimal.NewFromInt(-1)}, "")
	assert.Error(t, err, "negative threshold")
}

func TestPriceChangePercent(t *testing.T) {
	tests := []struct {
		name    string
		last    string
		current string
		want    string
	}{
		{"up ten percent", "100", "110", "10"},
		{"down five percent", "100", "95", "-5"},
		{"unchanged", "2.5", "2.5", "0"},
		{"no prior observation", "0", "42", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PriceChangePercent(mustDec(tt.last), mustDec(tt.current))
			assert.True(t, got.Equal(mustDec(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestSpreadPercent(t *testing.T) {
	tests := []struct {
		name    string
		outputs []string
		want    string
	}{
		{"two quotes", []string{"100", "101"}, "1"},
		{"order independent", []string{"101", "100"}, "1"},
		{"three quotes", []string{"200", "210", "205"}, "5"},
		{"single quote", []string{"100"}, "0"},
		{"empty", nil, "0"},
		{"zero floor", []string{"0", "10"}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outputs := make([]decimal.Decimal, len(tt.outputs))
			for i, s := range tt.outputs {
				outputs[i] = mustDec(s)
			}
			got := SpreadPercent(outputs)
			assert.True(t, got.Equal(mustDec(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

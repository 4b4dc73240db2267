// Package domain holds the market-monitor model.
package domain

import (
	"time"

	"github.com/google/uuid"
	liquidity "github.com/novaledger/dexflow/business/liquidity/domain"
	"github.com/novaledger/dexflow/internal/apperror"
	"github.com/shopspring/decimal"
)

// Type selects what a monitor watches for.
type Type string

const (
	TypePrice     Type = "price"
	TypeArbitrage Type = "arbitrage"
	TypeLiquidity Type = "liquidity"
	TypeVolume    Type = "volume"
)

// ParseType validates a monitor type string.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypePrice, TypeArbitrage, TypeLiquidity, TypeVolume:
		return Type(s), nil
	default:
		return "", apperror.Validation(apperror.CodeInvalidMonitorType, "unknown monitor type "+s)
	}
}

// Threshold holds the trigger levels. Only the field matching the
// monitor's type is consulted.
type Threshold struct {
	PriceChangePercent     decimal.Decimal
	ArbitrageSpreadPercent decimal.Decimal
}

// DefaultThreshold returns the production trigger levels.
func DefaultThreshold() Threshold {
	return Threshold{
		PriceChangePercent:     decimal.NewFromInt(1),
		ArbitrageSpreadPercent: decimal.NewFromFloat(0.5),
	}
}

// Monitor is one watched (pair, chain, type, threshold) tuple.
type Monitor struct {
	ID            uuid.UUID
	Pair          liquidity.Pair
	Chain         liquidity.Chain
	Type          Type
	Threshold     Threshold
	StrategyRef   string
	LastPrice     decimal.Decimal
	LastCheckedAt time.Time
	IsActive      bool
	CreatedAt     time.Time
}

// NewMonitor creates an active monitor with a fresh identity.
func NewMonitor(pair liquidity.Pair, chain liquidity.Chain, typ Type, threshold Threshold, strategyRef string) (Monitor, error) {
	if pair.IsZero() {
		return Monitor{}, apperror.Validation(apperror.CodeInvalidPair, "monitor needs a pair")
	}
	if !chain.IsKnown() {
		return Monitor{}, apperror.Validation(apperror.CodeUnsupportedChain, "unknown chain "+string(chain))
	}
	if _, err := ParseType(string(typ)); err != nil {
		return Monitor{}, err
	}
	if threshold.PriceChangePercent.IsNegative() || threshold.ArbitrageSpreadPercent.IsNegative() {
		return Monitor{}, apperror.Validation(apperror.CodeInvalidThreshold, "thresholds must not be negative")
	}

	defaults := DefaultThreshold()
	if threshold.PriceChangePercent.IsZero() {
		threshold.PriceChangePercent = defaults.PriceChangePercent
	}
	if threshold.ArbitrageSpreadPercent.IsZero() {
		threshold.ArbitrageSpreadPercent = defaults.ArbitrageSpreadPercent
	}

	return Monitor{
		ID:          uuid.New(),
		Pair:        pair,
		Chain:       chain,
		Type:        typ,
		Threshold:   threshold,
		StrategyRef: strategyRef,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}, nil
}

// HasObservation reports whether the monitor has recorded a prior price.
func (m Monitor) HasObservation() bool {
	return !m.LastPrice.IsZero()
}

// Trigger is the record handed to the strategy executor when a monitor
// fires.
type Trigger struct {
	MonitorID     uuid.UUID
	Pair          liquidity.Pair
	Type          Type
	ObservedValue decimal.Decimal
	FiredAt       time.Time
}

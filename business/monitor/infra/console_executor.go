// Package infra provides strategy executor implementations for fired
// monitor triggers.
package infra

import (
	"context"

	"github.com/novaledger/dexflow/business/monitor/app"
	"github.com/novaledger/dexflow/business/monitor/domain"
	"github.com/novaledger/dexflow/internal/logger"
)

var _ app.StrategyExecutor = (*ConsoleExecutor)(nil)

// ConsoleExecutor logs fired triggers. It stands in for a real strategy
// runner; the trigger carries everything a downstream system needs.
type ConsoleExecutor struct {
	log logger.LoggerInterface
}

// NewConsoleExecutor creates a logging executor.
func NewConsoleExecutor(log logger.LoggerInterface) *ConsoleExecutor {
	return &ConsoleExecutor{log: log}
}

// Execute reports the trigger on the application log.
func (e *ConsoleExecutor) Execute(ctx context.Context, trigger domain.Trigger) {
	e.log.Info(ctx, "monitor trigger fired",
		"monitor_id", trigger.MonitorID.String(),
		"pair", trigger.Pair.String(),
		"type", string(trigger.Type),
		"observed_value", trigger.ObservedValue.String(),
		"fired_at", trigger.FiredAt,
	)
}

package infra

import (
	"context"

	"github.com/novaledger/dexflow/business/monitor/app"
	"github.com/novaledger/dexflow/business/monitor/domain"
	"github.com/novaledger/dexflow/pkg/ui"
)

var _ app.StrategyExecutor = (*TUIExecutor)(nil)

// TUIExecutor forwards fired triggers to the dashboard trigger feed.
type TUIExecutor struct{}

// NewTUIExecutor creates a TUI-backed executor.
func NewTUIExecutor() *TUIExecutor {
	return &TUIExecutor{}
}

// Execute pushes the trigger into the running TUI program.
func (e *TUIExecutor) Execute(_ context.Context, trigger domain.Trigger) {
	ui.Send(ui.TriggerMsg{
		MonitorID:     trigger.MonitorID.String(),
		Pair:          trigger.Pair.String(),
		Type:          string(trigger.Type),
		ObservedValue: trigger.ObservedValue,
		FiredAt:       trigger.FiredAt,
	})
}

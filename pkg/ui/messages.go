package ui

import (
	"time"

	"github.com/shopspring/decimal"
)

// TickMsg drives periodic UI refreshes.
type TickMsg time.Time

// StartModulesMsg asks the TUI to launch module startup in the background.
type StartModulesMsg struct{}

// ModuleStartedMsg reports that a module finished starting.
type ModuleStartedMsg struct {
	Name string
	Err  error
}

// ModulesReadyMsg reports that all modules are running.
type ModulesReadyMsg struct{}

// QuoteRow is one ranked quote as shown on the dashboard.
type QuoteRow struct {
	Provider  string
	Pair      string
	Price     decimal.Decimal
	ToAmount  decimal.Decimal
	ImpactPct decimal.Decimal
	Score     decimal.Decimal
}

// QuoteBatchMsg carries the ranked quotes from the latest execution request.
type QuoteBatchMsg struct {
	Pair      string
	Chain     string
	Rows      []QuoteRow
	Split     bool
	Reason    string
	FetchedAt time.Time
}

// TriggerMsg reports a monitor condition firing.
type TriggerMsg struct {
	MonitorID     string
	Pair          string
	Type          string
	ObservedValue decimal.Decimal
	FiredAt       time.Time
}

// ErrorMsg carries a non-fatal error for display in the status bar.
type ErrorMsg struct {
	Err error
}

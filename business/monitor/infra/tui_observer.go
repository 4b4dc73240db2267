package infra

import (
	"context"
	"time"

	execdomain "github.com/novaledger/dexflow/business/execution/domain"
	"github.com/novaledger/dexflow/business/monitor/app"
	"github.com/novaledger/dexflow/business/monitor/domain"
	"github.com/novaledger/dexflow/pkg/ui"
)

var _ app.Observer = (*TUIObserver)(nil)

// TUIObserver streams each evaluation's ranked batch to the dashboard
// quotes panel.
type TUIObserver struct{}

// NewTUIObserver creates a TUI-backed observer.
func NewTUIObserver() *TUIObserver {
	return &TUIObserver{}
}

// ObserveEvaluation pushes the ranked quotes into the running TUI
// program.
func (o *TUIObserver) ObserveEvaluation(_ context.Context, m domain.Monitor, result execdomain.BestExecutionResult) {
	rows := make([]ui.QuoteRow, 0, len(result.AllQuotes))
	for _, sq := range result.AllQuotes {
		rows = append(rows, ui.QuoteRow{
			Provider:  sq.Quote.Provider,
			Pair:      m.Pair.String(),
			Price:     sq.Quote.Price,
			ToAmount:  sq.Quote.ToAmount,
			ImpactPct: sq.Quote.PriceImpactPct,
			Score:     sq.Score,
		})
	}

	ui.Send(ui.QuoteBatchMsg{
		Pair:      m.Pair.String(),
		Chain:     string(m.Chain),
		Rows:      rows,
		Split:     result.Strategy.IsSplit(),
		Reason:    result.Strategy.Reason,
		FetchedAt: time.Now(),
	})
}

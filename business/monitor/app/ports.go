// Package app contains the monitor context's services and ports.
package app

import (
	"context"

	"github.com/google/uuid"

	execdomain "github.com/novaledger/dexflow/business/execution/domain"
	liquidity "github.com/novaledger/dexflow/business/liquidity/domain"
	"github.com/novaledger/dexflow/business/monitor/domain"
)

// Store persists the monitor registry. Implementations must make
// "read active set, then update one row" safe under concurrent use.
type Store interface {
	Create(ctx context.Context, m domain.Monitor) error
	Update(ctx context.Context, m domain.Monitor) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.Monitor, error)
	ListActive(ctx context.Context) ([]domain.Monitor, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// QuoteSource is the aggregator surface the scheduler consumes.
type QuoteSource interface {
	GetBestExecution(ctx context.Context, req liquidity.QuoteRequest) (execdomain.BestExecutionResult, error)
}

// StrategyExecutor receives fired triggers. Calls are dispatched
// asynchronously; the tick does not wait for completion.
type StrategyExecutor interface {
	Execute(ctx context.Context, trigger domain.Trigger)
}

// Observer receives the ranked batch from each successful evaluation.
// Implementations must return quickly; the call happens inside the tick.
type Observer interface {
	ObserveEvaluation(ctx context.Context, m domain.Monitor, result execdomain.BestExecutionResult)
}

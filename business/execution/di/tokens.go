// Package di contains dependency injection tokens for the execution
// context.
package di

import (
	"github.com/novaledger/dexflow/business/execution/app"
	"github.com/novaledger/dexflow/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Aggregator = di.NewToken[*app.Aggregator]("execution.Aggregator")
)

// Helper functions for type-safe access
func GetAggregator(c di.ServiceRegistry) *app.Aggregator {
	return di.GetToken(c, Aggregator)
}

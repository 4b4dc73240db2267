// Package di contains dependency injection tokens for the liquidity
// context.
package di

import (
	"github.com/novaledger/dexflow/business/liquidity/app"
	"github.com/novaledger/dexflow/internal/di"
)

// Public service tokens - exposed to other modules
var (
	ProviderRegistry = di.NewToken[*app.Registry]("liquidity.ProviderRegistry")
)

// Helper functions for type-safe access
func GetProviderRegistry(c di.ServiceRegistry) *app.Registry {
	return di.GetToken(c, ProviderRegistry)
}

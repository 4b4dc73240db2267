// Package di contains dependency injection tokens for the monitor
// context.
package di

import (
	"github.com/novaledger/dexflow/business/monitor/app"
	"github.com/novaledger/dexflow/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Store     = di.NewToken[app.Store]("monitor.Store")
	Service   = di.NewToken[*app.Service]("monitor.Service")
	Scheduler = di.NewToken[*app.Scheduler]("monitor.Scheduler")
)

// Helper functions for type-safe access
func GetStore(c di.ServiceRegistry) app.Store {
	return di.GetToken(c, Store)
}

func GetService(c di.ServiceRegistry) *app.Service {
	return di.GetToken(c, Service)
}

func GetScheduler(c di.ServiceRegistry) *app.Scheduler {
	return di.GetToken(c, Scheduler)
}

// Package execution implements the best-execution bounded context.
package execution

import (
	"context"

	"github.com/novaledger/dexflow/business/execution/app"
	executionDI "github.com/novaledger/dexflow/business/execution/di"
	"github.com/novaledger/dexflow/business/execution/domain"
	liquidityDI "github.com/novaledger/dexflow/business/liquidity/di"
	"github.com/novaledger/dexflow/internal/config"
	"github.com/novaledger/dexflow/internal/di"
	"github.com/novaledger/dexflow/internal/logger"
	"github.com/novaledger/dexflow/internal/monolith"
)

// Module implements the execution bounded context.
type Module struct{}

// RegisterServices registers the aggregator with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, executionDI.Aggregator, func(sr di.ServiceRegistry) *app.Aggregator {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		registry := liquidityDI.GetProviderRegistry(sr)

		aggCfg := app.Config{
			ProviderTimeout: cfg.Aggregator.ProviderTimeout,
			Split: domain.SplitParams{
				LargeOrderThreshold: cfg.Aggregator.LargeOrderThresholdDecimal(),
				MinBenefitPercent:   cfg.Aggregator.SplitBenefitDecimal(),
			},
		}

		agg, err := app.NewAggregator(registry, aggCfg, log)
		if err != nil {
			panic("failed to create aggregator: " + err.Error())
		}
		return agg
	})
	return nil
}

// Startup resolves the aggregator so wiring errors surface at boot.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	executionDI.GetAggregator(mono.Services())
	mono.Logger().Info(ctx, "execution module started")
	return nil
}

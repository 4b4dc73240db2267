// Package monitor implements the market monitoring bounded context.
package monitor

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	executionDI "github.com/novaledger/dexflow/business/execution/di"
	"github.com/novaledger/dexflow/business/monitor/app"
	monitorDI "github.com/novaledger/dexflow/business/monitor/di"
	"github.com/novaledger/dexflow/business/monitor/infra"
	"github.com/novaledger/dexflow/business/monitor/infra/memory"
	"github.com/novaledger/dexflow/business/monitor/infra/postgres"
	"github.com/novaledger/dexflow/internal/config"
	"github.com/novaledger/dexflow/internal/di"
	"github.com/novaledger/dexflow/internal/logger"
	"github.com/novaledger/dexflow/internal/monolith"
)

// Module implements the monitor bounded context.
type Module struct {
	pool *pgxpool.Pool
}

// RegisterServices registers the store, service and scheduler with the
// DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, monitorDI.Store, func(sr di.ServiceRegistry) app.Store {
		cfg := sr.Get("config").(*config.Config)

		switch cfg.Monitor.Store {
		case "postgres":
			pool, err := newPool(cfg.Monitor.Postgres)
			if err != nil {
				panic("failed to connect monitor store: " + err.Error())
			}
			m.pool = pool
			return postgres.NewStore(pool)
		default:
			return memory.NewStore()
		}
	})

	di.RegisterToken(c, monitorDI.Service, func(sr di.ServiceRegistry) *app.Service {
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewService(monitorDI.GetStore(sr), log)
	})

	di.RegisterToken(c, monitorDI.Scheduler, func(sr di.ServiceRegistry) *app.Scheduler {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		var executor app.StrategyExecutor
		if cfg.App.TUIMode {
			executor = infra.NewTUIExecutor()
		} else {
			executor = infra.NewConsoleExecutor(log)
		}

		schedCfg := app.SchedulerConfig{
			Interval:        cfg.Monitor.Interval,
			ReferenceAmount: cfg.Monitor.ReferenceAmountDecimal(),
		}

		scheduler, err := app.NewScheduler(
			monitorDI.GetStore(sr),
			executionDI.GetAggregator(sr),
			executor,
			schedCfg,
			log,
		)
		if err != nil {
			panic("failed to create monitor scheduler: " + err.Error())
		}
		if cfg.App.TUIMode {
			scheduler.SetObserver(infra.NewTUIObserver())
		}
		return scheduler
	})

	return nil
}

// Startup prepares the store schema and launches the tick loop.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	store := monitorDI.GetStore(mono.Services())

	if pg, ok := store.(*postgres.Store); ok {
		if err := pg.EnsureSchema(ctx); err != nil {
			return err
		}
		mono.OnClose(func() error {
			m.pool.Close()
			return nil
		})
	}

	scheduler := monitorDI.GetScheduler(mono.Services())
	go func() {
		if err := scheduler.Run(ctx); err != nil {
			mono.Logger().Error(ctx, "monitor scheduler stopped", "error", err)
		}
	}()

	mono.Logger().Info(ctx, "monitor module started",
		"store", mono.Config().Monitor.Store,
		"interval", mono.Config().Monitor.Interval,
	)
	return nil
}

func newPool(cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = int32(cfg.MinConns)
	}
	return pgxpool.NewWithConfig(context.Background(), poolCfg)
}

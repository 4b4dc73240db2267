// Package liquidity implements the provider bounded context: the
// registry of liquidity sources and their concrete adapters.
package liquidity

import (
	"context"

	"github.com/novaledger/dexflow/business/liquidity/app"
	liquidityDI "github.com/novaledger/dexflow/business/liquidity/di"
	"github.com/novaledger/dexflow/business/liquidity/infra/pancake"
	"github.com/novaledger/dexflow/business/liquidity/infra/raydium"
	"github.com/novaledger/dexflow/business/liquidity/infra/uniswap"
	"github.com/novaledger/dexflow/internal/di"
	"github.com/novaledger/dexflow/internal/logger"
	"github.com/novaledger/dexflow/internal/monolith"
)

// Module implements the liquidity bounded context.
type Module struct{}

// RegisterServices registers the provider registry with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, liquidityDI.ProviderRegistry, func(sr di.ServiceRegistry) *app.Registry {
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewRegistry(log)
	})
	return nil
}

// Startup builds the enabled adapters and registers them. Registration
// order is the config order; downstream ranking uses it for ties.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	cfg := mono.Config()
	log := mono.Logger()
	registry := liquidityDI.GetProviderRegistry(mono.Services())

	if cfg.Pancake.Enabled {
		providerCfg := pancake.DefaultProviderConfig(cfg.Pancake.BaseURL)
		if cfg.Pancake.RequestsPerMinute > 0 {
			providerCfg.RequestsPerMinute = cfg.Pancake.RequestsPerMinute
		}
		provider, err := pancake.NewProvider(providerCfg, log)
		if err != nil {
			return err
		}
		registry.Register(provider)
	}

	if cfg.Raydium.Enabled {
		providerCfg := raydium.DefaultProviderConfig(cfg.Raydium.BaseURL)
		if cfg.Raydium.RetryMax > 0 {
			providerCfg.RetryMax = cfg.Raydium.RetryMax
		}
		provider, err := raydium.NewProvider(providerCfg, log)
		if err != nil {
			return err
		}
		registry.Register(provider)
	}

	if cfg.Uniswap.Enabled {
		provider, err := uniswap.NewProvider(ctx, uniswap.ProviderConfig{
			RPCURLs:        cfg.Uniswap.RPCURLs,
			QuoterAddress:  cfg.Uniswap.QuoterAddress,
			DefaultFeeTier: cfg.Uniswap.DefaultFeeTier,
		}, log)
		if err != nil {
			return err
		}
		registry.Register(provider)
	}

	if registry.Len() == 0 {
		log.Warn(ctx, "no liquidity providers enabled")
	}
	log.Info(ctx, "liquidity module started", "providers", registry.Len())
	return nil
}

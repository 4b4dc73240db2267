// Package app implements the best-execution aggregator.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/novaledger/dexflow/business/execution/domain"
	liqapp "github.com/novaledger/dexflow/business/liquidity/app"
	liquidity "github.com/novaledger/dexflow/business/liquidity/domain"
	"github.com/novaledger/dexflow/internal/apperror"
	"github.com/novaledger/dexflow/internal/logger"
)

const (
	tracerName = "dexflow/aggregator"
	meterName  = "dexflow/aggregator"

	defaultProviderTimeout = 4 * time.Second
)

// Config tunes the aggregator.
type Config struct {
	// ProviderTimeout bounds each provider's quote call so one slow
	// source cannot stall the batch.
	ProviderTimeout time.Duration
	Split           domain.SplitParams
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		ProviderTimeout: defaultProviderTimeout,
		Split:           domain.DefaultSplitParams(),
	}
}

type aggregatorMetrics struct {
	requestsTotal    metric.Int64Counter
	providerFailures metric.Int64Counter
	batchLatency     metric.Float64Histogram
}

// Aggregator fans a quote request out to every eligible provider, ranks
// the answers, and decides how the order should be routed.
type Aggregator struct {
	registry *liqapp.Registry
	config   Config
	logger   logger.LoggerInterface
	tracer   trace.Tracer
	metrics  *aggregatorMetrics
}

// NewAggregator builds the aggregator over the provider registry.
func NewAggregator(registry *liqapp.Registry, cfg Config, log logger.LoggerInterface) (*Aggregator, error) {
	if cfg.ProviderTimeout <= 0 {
		cfg.ProviderTimeout = defaultProviderTimeout
	}
	if cfg.Split.LargeOrderThreshold.IsZero() {
		cfg.Split = domain.DefaultSplitParams()
	}

	a := &Aggregator{
		registry: registry,
		config:   cfg,
		logger:   log,
		tracer:   otel.Tracer(tracerName),
	}
	if err := a.initMetrics(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Aggregator) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	a.metrics = &aggregatorMetrics{}

	a.metrics.requestsTotal, err = meter.Int64Counter(
		"aggregator_requests_total",
		metric.WithDescription("Total best-execution requests"),
	)
	if err != nil {
		return err
	}

	a.metrics.providerFailures, err = meter.Int64Counter(
		"aggregator_provider_failures_total",
		metric.WithDescription("Provider quote failures absorbed by the batch"),
	)
	if err != nil {
		return err
	}

	a.metrics.batchLatency, err = meter.Float64Histogram(
		"aggregator_batch_latency_ms",
		metric.WithDescription("Quote batch latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	return err
}

// GetBestExecution queries every eligible provider concurrently and
// returns the ranked result with an execution strategy.
//
// The only caller-visible failures are CodeNoProvidersAvailable (nothing
// answered) and CodeNoValidQuotes (answers exist but none is tradable),
// besides request validation. Individual provider failures are logged
// and dropped.
func (a *Aggregator) GetBestExecution(ctx context.Context, req liquidity.QuoteRequest) (domain.BestExecutionResult, error) {
	ctx, span := a.tracer.Start(ctx, "aggregator.get_best_execution",
		trace.WithAttributes(
			attribute.String("pair", req.Pair().String()),
			attribute.String("chain", string(req.Chain)),
			attribute.String("amount", req.Amount.String()),
		),
	)
	defer span.End()

	start := time.Now()
	a.metrics.requestsTotal.Add(ctx, 1)

	if err := req.Validate(); err != nil {
		return domain.BestExecutionResult{}, err
	}

	candidates := a.eligibleProviders(req)
	span.SetAttributes(attribute.Int("candidates", len(candidates)))

	quotes := a.collectQuotes(ctx, candidates, req)
	a.metrics.batchLatency.Record(ctx, float64(time.Since(start).Milliseconds()))

	if len(quotes) == 0 {
		return domain.BestExecutionResult{}, apperror.New(apperror.CodeNoProvidersAvailable,
			apperror.WithContext("no provider answered for "+req.Pair().String()))
	}

	valid := make([]liquidity.Quote, 0, len(quotes))
	for _, q := range quotes {
		if q.Valid() {
			valid = append(valid, q)
		}
	}
	if len(valid) == 0 {
		return domain.BestExecutionResult{}, apperror.New(apperror.CodeNoValidQuotes,
			apperror.WithContext("no tradable quote for "+req.Pair().String()))
	}

	scored := domain.ScoreQuotes(valid)
	strategy := domain.BuildStrategy(scored, req.Amount, a.config.Split)

	span.SetAttributes(
		attribute.Int("quotes", len(valid)),
		attribute.String("winner", scored[0].Quote.Provider),
		attribute.Bool("split", strategy.IsSplit()),
	)
	a.logger.Info(ctx, "best execution computed",
		"pair", req.Pair().String(),
		"winner", scored[0].Quote.Provider,
		"quotes", len(valid),
		"split", strategy.IsSplit(),
	)

	return domain.BestExecutionResult{
		BestQuote: scored[0].Quote,
		AllQuotes: scored,
		Strategy:  strategy,
	}, nil
}

// ExecuteSwap routes the swap to the winning provider for the pair.
func (a *Aggregator) ExecuteSwap(ctx context.Context, req liquidity.SwapRequest) (liquidity.SwapResult, error) {
	best, err := a.GetBestExecution(ctx, liquidity.QuoteRequest{
		FromToken:   req.FromToken,
		ToToken:     req.ToToken,
		Amount:      req.Amount,
		Chain:       req.Chain,
		SlippagePct: req.SlippagePct,
	})
	if err != nil {
		return liquidity.SwapResult{}, err
	}

	provider, ok := a.registry.Get(best.BestQuote.Provider)
	if !ok {
		return liquidity.SwapResult{}, apperror.New(apperror.CodeNoProvidersAvailable,
			apperror.WithContext("winning provider no longer registered"))
	}
	return provider.ExecuteSwap(ctx, req)
}

// Liquidity aggregates depth snapshots across all providers supporting
// the chain. Providers with no data contribute zeroes.
func (a *Aggregator) Liquidity(ctx context.Context, pair liquidity.Pair, chain liquidity.Chain) liquidity.LiquidityInfo {
	providers := a.registry.ForChain(chain)
	snaps := make([]liquidity.LiquidityInfo, len(providers))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range providers {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(gctx, a.config.ProviderTimeout)
			defer cancel()
			snaps[i] = p.Liquidity(pctx, pair, chain)
			return nil
		})
	}
	// Goroutines never return errors; Wait is just the join.
	_ = g.Wait()

	total := liquidity.EmptyLiquidity("aggregate", pair, chain)
	for _, snap := range snaps {
		total.TotalLiquidity = total.TotalLiquidity.Add(snap.TotalLiquidity)
		total.BaseReserve = total.BaseReserve.Add(snap.BaseReserve)
		total.QuoteReserve = total.QuoteReserve.Add(snap.QuoteReserve)
		total.Volume24h = total.Volume24h.Add(snap.Volume24h)
	}
	return total
}

// eligibleProviders prunes the registry by chain and pair support before
// any network call, preserving registration order.
func (a *Aggregator) eligibleProviders(req liquidity.QuoteRequest) []liqapp.Provider {
	pair := req.Pair()
	var out []liqapp.Provider
	for _, p := range a.registry.ForChain(req.Chain) {
		if p.SupportsPair(pair) {
			out = append(out, p)
		}
	}
	return out
}

// collectQuotes runs the fan-out with a full-barrier join: every
// candidate gets its own goroutine and timeout, the batch waits for all
// of them, and failures only remove that provider's slot.
func (a *Aggregator) collectQuotes(ctx context.Context, candidates []liqapp.Provider, req liquidity.QuoteRequest) []liquidity.Quote {
	results := make([]*liquidity.Quote, len(candidates))
	var wg sync.WaitGroup

	for i, provider := range candidates {
		wg.Add(1)
		go func(slot int, p liqapp.Provider) {
			defer wg.Done()

			callCtx, cancel := context.WithTimeout(ctx, a.config.ProviderTimeout)
			defer cancel()

			quote, err := p.GetQuote(callCtx, req)
			if err != nil {
				a.metrics.providerFailures.Add(ctx, 1,
					metric.WithAttributes(attribute.String("provider", p.Name())))
				a.logger.Warn(ctx, "provider quote failed",
					"provider", p.Name(),
					"pair", req.Pair().String(),
					"error", err,
				)
				return
			}
			results[slot] = &quote
		}(i, provider)
	}
	wg.Wait()

	// Compact in candidate order so ranking ties stay first-seen.
	quotes := make([]liquidity.Quote, 0, len(candidates))
	for _, q := range results {
		if q != nil {
			quotes = append(quotes, *q)
		}
	}
	return quotes
}

// ReferencePrice returns the winning quote's unit price for a fixed
// reference amount. Monitor evaluation uses it as the pair's current
// price.
func (a *Aggregator) ReferencePrice(ctx context.Context, pair liquidity.Pair, chain liquidity.Chain, refAmount decimal.Decimal) (decimal.Decimal, error) {
	best, err := a.GetBestExecution(ctx, liquidity.QuoteRequest{
		FromToken: pair.Base,
		ToToken:   pair.Quote,
		Amount:    refAmount,
		Chain:     chain,
	})
	if err != nil {
		return decimal.Zero, err
	}
	return best.BestQuote.Price, nil
}

package app

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	liquidity "github.com/novaledger/dexflow/business/liquidity/domain"
	"github.com/novaledger/dexflow/business/monitor/domain"
	"github.com/novaledger/dexflow/internal/logger"
	"github.com/shopspring/decimal"
)

const (
	tracerName = "dexflow/monitor"
	meterName  = "dexflow/monitor"

	defaultInterval = time.Minute
)

// SchedulerConfig tunes the tick loop.
type SchedulerConfig struct {
	Interval time.Duration
	// ReferenceAmount is the probe trade size used to read the pair's
	// current price.
	ReferenceAmount decimal.Decimal
}

// DefaultSchedulerConfig returns the production cadence.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Interval:        defaultInterval,
		ReferenceAmount: decimal.NewFromInt(1),
	}
}

type schedulerMetrics struct {
	ticksTotal    metric.Int64Counter
	triggersTotal metric.Int64Counter
	checkFailures metric.Int64Counter
}

// Scheduler re-evaluates every active monitor on a fixed cadence.
// Monitors are processed sequentially inside one tick, each in its own
// failure boundary, and no two ticks overlap.
type Scheduler struct {
	store    Store
	quotes   QuoteSource
	executor StrategyExecutor
	config   SchedulerConfig
	logger   logger.LoggerInterface
	observer Observer
	tracer   trace.Tracer
	metrics  *schedulerMetrics
}

// SetObserver attaches an evaluation observer. Must be called before
// Run.
func (s *Scheduler) SetObserver(o Observer) {
	s.observer = o
}

// NewScheduler builds the scheduler.
func NewScheduler(store Store, quotes QuoteSource, executor StrategyExecutor, cfg SchedulerConfig, log logger.LoggerInterface) (*Scheduler, error) {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.ReferenceAmount.IsZero() {
		cfg.ReferenceAmount = decimal.NewFromInt(1)
	}

	s := &Scheduler{
		store:    store,
		quotes:   quotes,
		executor: executor,
		config:   cfg,
		logger:   log,
		tracer:   otel.Tracer(tracerName),
	}
	if err := s.initMetrics(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	s.metrics = &schedulerMetrics{}

	s.metrics.ticksTotal, err = meter.Int64Counter(
		"monitor_ticks_total",
		metric.WithDescription("Total scheduler ticks"),
	)
	if err != nil {
		return err
	}

	s.metrics.triggersTotal, err = meter.Int64Counter(
		"monitor_triggers_total",
		metric.WithDescription("Total fired triggers"),
	)
	if err != nil {
		return err
	}

	s.metrics.checkFailures, err = meter.Int64Counter(
		"monitor_check_failures_total",
		metric.WithDescription("Monitor evaluations that failed"),
	)
	return err
}

// Run drives the tick loop until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info(ctx, "monitor scheduler starting", "interval", s.config.Interval.String())

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "monitor scheduler stopping", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick evaluates every active monitor once, sequentially. A failure in
// one monitor is logged and does not stop the rest of the tick.
func (s *Scheduler) Tick(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "monitor.tick")
	defer span.End()

	s.metrics.ticksTotal.Add(ctx, 1)

	monitors, err := s.store.ListActive(ctx)
	if err != nil {
		s.logger.Error(ctx, "loading active monitors failed", "error", err)
		return
	}
	span.SetAttributes(attribute.Int("monitors", len(monitors)))

	for _, m := range monitors {
		if err := s.evaluate(ctx, m); err != nil {
			s.metrics.checkFailures.Add(ctx, 1)
			s.logger.Warn(ctx, "monitor check failed",
				"monitor_id", m.ID.String(),
				"pair", m.Pair.String(),
				"error", err,
			)
		}
	}
}

// evaluate checks one monitor and persists its observation. lastPrice
// and lastCheckedAt are updated whether or not a trigger fires.
func (s *Scheduler) evaluate(ctx context.Context, m domain.Monitor) error {
	best, err := s.quotes.GetBestExecution(ctx, liquidity.QuoteRequest{
		FromToken: m.Pair.Base,
		ToToken:   m.Pair.Quote,
		Amount:    s.config.ReferenceAmount,
		Chain:     m.Chain,
	})
	if err != nil {
		return fmt.Errorf("reference quote: %w", err)
	}
	currentPrice := best.BestQuote.Price

	if s.observer != nil {
		s.observer.ObserveEvaluation(ctx, m, best)
	}

	previous := m.LastPrice
	hadObservation := m.HasObservation()
	m.LastPrice = currentPrice
	m.LastCheckedAt = time.Now()
	if err := s.store.Update(ctx, m); err != nil {
		return fmt.Errorf("persist observation: %w", err)
	}

	switch m.Type {
	case domain.TypePrice:
		if !hadObservation {
			s.logger.Debug(ctx, "first observation recorded",
				"monitor_id", m.ID.String(), "price", currentPrice.String())
			return nil
		}
		change := domain.PriceChangePercent(previous, currentPrice)
		if change.Abs().GreaterThanOrEqual(m.Threshold.PriceChangePercent) {
			s.fire(ctx, m, change)
		}

	case domain.TypeArbitrage:
		outputs := make([]decimal.Decimal, 0, len(best.AllQuotes))
		for _, sq := range best.AllQuotes {
			outputs = append(outputs, sq.Quote.ToAmount)
		}
		spread := domain.SpreadPercent(outputs)
		if spread.GreaterThanOrEqual(m.Threshold.ArbitrageSpreadPercent) {
			s.fire(ctx, m, spread)
		}

	case domain.TypeLiquidity, domain.TypeVolume:
		// Reserved trigger types; comparison semantics are not defined
		// yet.
		s.logger.Debug(ctx, "monitor type not implemented",
			"monitor_id", m.ID.String(), "type", string(m.Type))
	}

	return nil
}

// fire hands the trigger to the strategy executor without waiting for
// it.
func (s *Scheduler) fire(ctx context.Context, m domain.Monitor, observed decimal.Decimal) {
	s.metrics.triggersTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("type", string(m.Type))))
	s.logger.Info(ctx, "monitor triggered",
		"monitor_id", m.ID.String(),
		"pair", m.Pair.String(),
		"type", string(m.Type),
		"observed", observed.String(),
	)

	trigger := domain.Trigger{
		MonitorID:     m.ID,
		Pair:          m.Pair,
		Type:          m.Type,
		ObservedValue: observed,
		FiredAt:       time.Now(),
	}
	go s.executor.Execute(context.WithoutCancel(ctx), trigger)
}

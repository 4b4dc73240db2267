package app_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	execdomain "github.com/novaledger/dexflow/business/execution/domain"
	liquidity "github.com/novaledger/dexflow/business/liquidity/domain"
	"github.com/novaledger/dexflow/business/monitor/app"
	"github.com/novaledger/dexflow/business/monitor/domain"
	"github.com/novaledger/dexflow/business/monitor/infra/memory"
	"github.com/novaledger/dexflow/internal/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeQuoteSource replays a scripted price (and optional full batch) per
// pair.
type fakeQuoteSource struct {
	mu      sync.Mutex
	prices  map[string]decimal.Decimal
	batches map[string][]decimal.Decimal
	errs    map[string]error
}

func newFakeQuoteSource() *fakeQuoteSource {
	return &fakeQuoteSource{
		prices:  make(map[string]decimal.Decimal),
		batches: make(map[string][]decimal.Decimal),
		errs:    make(map[string]error),
	}
}

func (f *fakeQuoteSource) setPrice(pair string, price decimal.Decimal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prices[pair] = price
}

func (f *fakeQuoteSource) GetBestExecution(ctx context.Context, req liquidity.QuoteRequest) (execdomain.BestExecutionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := req.Pair().String()
	if err := f.errs[key]; err != nil {
		return execdomain.BestExecutionResult{}, err
	}

	price := f.prices[key]
	best := liquidity.Quote{
		Provider:   "fake",
		ToAmount:   price.Mul(req.Amount),
		FromAmount: req.Amount,
		Price:      price,
	}

	all := []execdomain.ScoredQuote{{Quote: best, Score: decimal.NewFromInt(100)}}
	for _, out := range f.batches[key] {
		all = append(all, execdomain.ScoredQuote{
			Quote: liquidity.Quote{Provider: "alt", ToAmount: out},
		})
	}
	return execdomain.BestExecutionResult{BestQuote: best, AllQuotes: all}, nil
}

// recordingExecutor collects fired triggers.
type recordingExecutor struct {
	mu       sync.Mutex
	triggers []domain.Trigger
	done     chan struct{}
}

func newRecordingExecutor() *recordingExecutor {
	return &recordingExecutor{done: make(chan struct{}, 16)}
}

func (r *recordingExecutor) Execute(ctx context.Context, t domain.Trigger) {
	r.mu.Lock()
	r.triggers = append(r.triggers, t)
	r.mu.Unlock()
	r.done <- struct{}{}
}

func (r *recordingExecutor) waitForTrigger(t *testing.T) domain.Trigger {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatal("no trigger fired")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.triggers[len(r.triggers)-1]
}

func (r *recordingExecutor) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.triggers)
}

func newTestScheduler(t *testing.T, store app.Store, quotes app.QuoteSource, exec app.StrategyExecutor) *app.Scheduler {
	t.Helper()
	log := logger.New(io.Discard, logger.LevelError, "test", nil)
	s, err := app.NewScheduler(store, quotes, exec, app.DefaultSchedulerConfig(), log)
	require.NoError(t, err)
	return s
}

func registerTestMonitor(t *testing.T, store app.Store, typ domain.Type) domain.Monitor {
	t.Helper()
	pair, _ := liquidity.NewPair("CAKE", "BNB")
	m, err := domain.NewMonitor(pair, liquidity.ChainBSC, typ, domain.Threshold{}, "strategy-1")
	require.NoError(t, err)
	require.NoError(t, store.Create(context.Background(), m))
	return m
}

func TestTickSkipsFirstPriceObservation(t *testing.T) {
	store := memory.NewStore()
	quotes := newFakeQuoteSource()
	exec := newRecordingExecutor()
	s := newTestScheduler(t, store, quotes, exec)

	m := registerTestMonitor(t, store, domain.TypePrice)
	quotes.setPrice("CAKE-BNB", decimal.NewFromInt(100))

	s.Tick(context.Background())

	// First observation must persist the price without firing.
	assert.Equal(t, 0, exec.count())
	stored, err := store.GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.True(t, stored.LastPrice.Equal(decimal.NewFromInt(100)))
	assert.False(t, stored.LastCheckedAt.IsZero())
}

func TestTickFiresOnPriceMove(t *testing.T) {
	store := memory.NewStore()
	quotes := newFakeQuoteSource()
	exec := newRecordingExecutor()
	s := newTestScheduler(t, store, quotes, exec)

	m := registerTestMonitor(t, store, domain.TypePrice)

	quotes.setPrice("CAKE-BNB", decimal.NewFromInt(100))
	s.Tick(context.Background())

	// 2% move over the default 1% threshold.
	quotes.setPrice("CAKE-BNB", decimal.NewFromInt(102))
	s.Tick(context.Background())

	trigger := exec.waitForTrigger(t)
	assert.Equal(t, m.ID, trigger.MonitorID)
	assert.Equal(t, domain.TypePrice, trigger.Type)
	assert.True(t, trigger.ObservedValue.Equal(decimal.NewFromInt(2)), "observed %s", trigger.ObservedValue)
}

func TestTickHoldsBelowPriceThreshold(t *testing.T) {
	store := memory.NewStore()
	quotes := newFakeQuoteSource()
	exec := newRecordingExecutor()
	s := newTestScheduler(t, store, quotes, exec)

	registerTestMonitor(t, store, domain.TypePrice)

	quotes.setPrice("CAKE-BNB", decimal.NewFromInt(100))
	s.Tick(context.Background())
	quotes.setPrice("CAKE-BNB", decimal.NewFromFloat(100.5))
	s.Tick(context.Background())

	assert.Equal(t, 0, exec.count())
}

func TestTickFiresOnArbitrageSpread(t *testing.T) {
	store := memory.NewStore()
	quotes := newFakeQuoteSource()
	exec := newRecordingExecutor()
	s := newTestScheduler(t, store, quotes, exec)

	m := registerTestMonitor(t, store, domain.TypeArbitrage)

	// Best output 101 against an alternative at 100: 1% spread, above
	// the default 0.5%.
	quotes.setPrice("CAKE-BNB", decimal.NewFromInt(101))
	quotes.batches["CAKE-BNB"] = []decimal.Decimal{decimal.NewFromInt(100)}

	s.Tick(context.Background())

	trigger := exec.waitForTrigger(t)
	assert.Equal(t, m.ID, trigger.MonitorID)
	assert.Equal(t, domain.TypeArbitrage, trigger.Type)
	assert.True(t, trigger.ObservedValue.Equal(decimal.NewFromInt(1)), "observed %s", trigger.ObservedValue)
}

func TestTickIsolatesFailingMonitor(t *testing.T) {
	store := memory.NewStore()
	quotes := newFakeQuoteSource()
	exec := newRecordingExecutor()
	s := newTestScheduler(t, store, quotes, exec)

	// First monitor's pair always errors; second must still be checked.
	failPair, _ := liquidity.NewPair("DOGE", "BNB")
	failing, err := domain.NewMonitor(failPair, liquidity.ChainBSC, domain.TypePrice, domain.Threshold{}, "")
	require.NoError(t, err)
	require.NoError(t, store.Create(context.Background(), failing))
	quotes.errs["DOGE-BNB"] = errors.New("no provider answered")

	healthy := registerTestMonitor(t, store, domain.TypePrice)
	quotes.setPrice("CAKE-BNB", decimal.NewFromInt(100))

	s.Tick(context.Background())

	stored, err := store.GetByID(context.Background(), healthy.ID)
	require.NoError(t, err)
	assert.False(t, stored.LastCheckedAt.IsZero(), "healthy monitor was not evaluated")
}

func TestTickReservedTypesAreNoOps(t *testing.T) {
	store := memory.NewStore()
	quotes := newFakeQuoteSource()
	exec := newRecordingExecutor()
	s := newTestScheduler(t, store, quotes, exec)

	liq := registerTestMonitor(t, store, domain.TypeLiquidity)
	vol := registerTestMonitor(t, store, domain.TypeVolume)
	quotes.setPrice("CAKE-BNB", decimal.NewFromInt(100))

	s.Tick(context.Background())

	assert.Equal(t, 0, exec.count())
	for _, id := range []domain.Monitor{liq, vol} {
		stored, err := store.GetByID(context.Background(), id.ID)
		require.NoError(t, err)
		assert.True(t, stored.LastPrice.Equal(decimal.NewFromInt(100)),
			"observation must persist for reserved types")
	}
}

func TestDeactivatedMonitorIsSkipped(t *testing.T) {
	store := memory.NewStore()
	quotes := newFakeQuoteSource()
	exec := newRecordingExecutor()
	s := newTestScheduler(t, store, quotes, exec)
	log := logger.New(io.Discard, logger.LevelError, "test", nil)
	svc := app.NewService(store, log)

	m := registerTestMonitor(t, store, domain.TypePrice)
	quotes.setPrice("CAKE-BNB", decimal.NewFromInt(100))
	s.Tick(context.Background())

	require.NoError(t, svc.DeactivateMonitor(context.Background(), m.ID))

	quotes.setPrice("CAKE-BNB", decimal.NewFromInt(200))
	s.Tick(context.Background())

	stored, err := store.GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.True(t, stored.LastPrice.Equal(decimal.NewFromInt(100)),
		"deactivated monitor must not be evaluated, still readable")
	assert.Equal(t, 0, exec.count())
}

// recordingObserver collects evaluation batches.
type recordingObserver struct {
	mu      sync.Mutex
	batches []execdomain.BestExecutionResult
}

func (r *recordingObserver) ObserveEvaluation(_ context.Context, _ domain.Monitor, result execdomain.BestExecutionResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, result)
}

func TestObserverSeesEveryEvaluation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	quotes := newFakeQuoteSource()
	quotes.setPrice("ETH-USDC", decimal.NewFromInt(2000))
	exec := newRecordingExecutor()

	s := newTestScheduler(t, store, quotes, exec)
	obs := &recordingObserver{}
	s.SetObserver(obs)

	pair, _ := liquidity.NewPair("ETH", "USDC")
	m, err := domain.NewMonitor(pair, liquidity.ChainEthereum, domain.TypePrice, domain.DefaultThreshold(), "strategy-1")
	require.NoError(t, err)
	require.NoError(t, store.Create(ctx, m))

	s.Tick(ctx)
	s.Tick(ctx)

	obs.mu.Lock()
	defer obs.mu.Unlock()
	require.Len(t, obs.batches, 2)
	assert.Equal(t, "fake", obs.batches[0].BestQuote.Provider)
	assert.True(t, obs.batches[0].BestQuote.Price.Equal(decimal.NewFromInt(2000)))
}

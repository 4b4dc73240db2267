// Package pancake implements the PancakeSwap liquidity provider on BSC.
package pancake

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/novaledger/dexflow/business/liquidity/app"
	"github.com/novaledger/dexflow/business/liquidity/domain"
	"github.com/novaledger/dexflow/internal/apperror"
	"github.com/novaledger/dexflow/internal/httpclient"
	"github.com/novaledger/dexflow/internal/logger"
	"github.com/novaledger/dexflow/internal/ratelimit"
	"github.com/shopspring/decimal"
)

// Ensure Provider implements the liquidity port.
var _ app.Provider = (*Provider)(nil)

const (
	ProviderName = "pancakeswap"

	tracerName = "dexflow/pancake"

	// bscConfirmationMs is the typical time to one BSC confirmation.
	bscConfirmationMs = 3000
)

// feeRate is PancakeSwap's flat 0.25% swap fee.
var feeRate = decimal.NewFromFloat(0.0025)

// ProviderConfig holds configuration for the PancakeSwap provider.
type ProviderConfig struct {
	BaseURL           string
	RequestsPerMinute int
	RequestTimeout    time.Duration
	// SupportedPairs restricts eligibility checks; empty means any pair
	// may be attempted.
	SupportedPairs []string
}

// DefaultProviderConfig returns sensible defaults.
func DefaultProviderConfig(baseURL string) ProviderConfig {
	return ProviderConfig{
		BaseURL:           baseURL,
		RequestsPerMinute: 120,
		RequestTimeout:    10 * time.Second,
	}
}

// Provider quotes swaps against PancakeSwap pools via its REST API.
// Output amounts follow the constant product formula over the pool
// reserves reported by the API.
type Provider struct {
	config  ProviderConfig
	logger  logger.LoggerInterface
	client  httpclient.Client
	limiter *ratelimit.Limiter
	pairs   map[string]struct{}
	tracer  trace.Tracer
}

// NewProvider creates a new PancakeSwap provider.
func NewProvider(cfg ProviderConfig, log logger.LoggerInterface) (*Provider, error) {
	if cfg.BaseURL == "" {
		return nil, apperror.New(apperror.CodeConfigurationError,
			apperror.WithContext("pancake base URL is required"))
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 120
	}

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName(ProviderName),
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithRequestTimeout(cfg.RequestTimeout),
	)
	if err != nil {
		return nil, err
	}

	var pairs map[string]struct{}
	if len(cfg.SupportedPairs) > 0 {
		pairs = make(map[string]struct{}, len(cfg.SupportedPairs))
		for _, raw := range cfg.SupportedPairs {
			pair, err := domain.ParsePair(raw)
			if err != nil {
				return nil, apperror.New(apperror.CodeConfigurationError,
					apperror.WithCause(err),
					apperror.WithContext(fmt.Sprintf("bad pair %q in pancake config", raw)))
			}
			pairs[pair.String()] = struct{}{}
		}
	}

	return &Provider{
		config:  cfg,
		logger:  log,
		client:  client,
		limiter: ratelimit.New(cfg.RequestsPerMinute),
		pairs:   pairs,
		tracer:  otel.Tracer(tracerName),
	}, nil
}

func (p *Provider) Name() string { return ProviderName }

func (p *Provider) SupportedChains() []domain.Chain {
	return []domain.Chain{domain.ChainBSC}
}

// SupportsPair checks the configured pair list without a network call.
func (p *Provider) SupportsPair(pair domain.Pair) bool {
	if p.pairs == nil {
		return true
	}
	_, ok := p.pairs[pair.String()]
	return ok
}

// GetQuote fetches pool reserves and prices the swap locally.
func (p *Provider) GetQuote(ctx context.Context, req domain.QuoteRequest) (domain.Quote, error) {
	ctx, span := p.tracer.Start(ctx, "pancake.get_quote",
		trace.WithAttributes(
			attribute.String("from", req.FromToken),
			attribute.String("to", req.ToToken),
			attribute.String("amount", req.Amount.String()),
		),
	)
	defer span.End()

	if err := req.Validate(); err != nil {
		return domain.Quote{}, err
	}
	if req.Chain != domain.ChainBSC {
		return domain.Quote{}, apperror.New(apperror.CodeUnsupportedChain,
			apperror.WithContext(fmt.Sprintf("chain %s not supported by %s", req.Chain, ProviderName)))
	}

	pool, err := p.fetchPool(ctx, req.Pair())
	if err != nil {
		return domain.Quote{}, err
	}
	reserveIn, reserveOut, err := pool.reserves()
	if err != nil {
		return domain.Quote{}, err
	}
	if !reserveIn.IsPositive() || !reserveOut.IsPositive() {
		return domain.Quote{}, apperror.New(apperror.CodeNoLiquidity,
			apperror.WithContext(fmt.Sprintf("no liquidity for %s", req.Pair())))
	}

	// Constant product with the fee taken from the input amount.
	amountInWithFee := req.Amount.Mul(decimal.NewFromInt(1).Sub(feeRate))
	toAmount := reserveOut.Mul(amountInWithFee).Div(reserveIn.Add(amountInWithFee))
	fee := req.Amount.Mul(feeRate)

	impact := req.Amount.Div(reserveIn).Mul(decimal.NewFromInt(100))
	if impact.GreaterThan(decimal.NewFromInt(100)) {
		impact = decimal.NewFromInt(100)
	}

	quote := domain.NewQuote(ProviderName, req, toAmount)
	quote.PriceImpactPct = impact
	quote.Fee = fee
	quote.FeeBreakdown = domain.FeeBreakdown{ProviderFee: fee}
	quote.Route = domain.Route{
		Hops: []domain.Hop{{
			Source:    ProviderName,
			Pool:      req.Pair().String(),
			FromToken: req.FromToken,
			ToToken:   req.ToToken,
			Fee:       fee,
		}},
		TotalFee: fee,
	}
	quote.EstimatedConfirmationMs = bscConfirmationMs
	quote.Liquidity = reserveIn.Add(reserveOut)

	span.SetAttributes(
		attribute.String("to_amount", toAmount.String()),
		attribute.String("impact_pct", impact.String()),
	)
	p.logger.Debug(ctx, "quote computed",
		"provider", ProviderName,
		"pair", req.Pair().String(),
		"to_amount", toAmount.String(),
	)

	return quote, nil
}

// ExecuteSwap submits the swap to the API. Business failures come back
// inside the result, not as an error.
func (p *Provider) ExecuteSwap(ctx context.Context, req domain.SwapRequest) (domain.SwapResult, error) {
	ctx, span := p.tracer.Start(ctx, "pancake.execute_swap")
	defer span.End()

	if err := p.limiter.Wait(ctx); err != nil {
		return domain.SwapResult{}, apperror.New(apperror.CodeRateLimitExceeded, apperror.WithCause(err))
	}

	var result swapResponse
	resp, err := p.client.NewRequest().
		SetBody(swapRequest{
			FromToken:   req.FromToken,
			ToToken:     req.ToToken,
			Amount:      req.Amount.String(),
			SlippagePct: req.SlippagePct.String(),
			Recipient:   req.Recipient,
		}).
		SetResult(&result).
		Post(ctx, "/v1/swap")
	if err != nil {
		return domain.SwapResult{}, apperror.New(apperror.CodeProviderUnavailable,
			apperror.WithCause(err),
			apperror.WithContext("pancake swap request failed"))
	}
	if resp.IsError() {
		return domain.FailedSwap(ProviderName, fmt.Sprintf("swap rejected: status %d", resp.StatusCode)), nil
	}
	if !result.Success {
		return domain.FailedSwap(ProviderName, result.Error), nil
	}

	toAmount, _ := decimal.NewFromString(result.ToAmount)
	gasUsed, _ := decimal.NewFromString(result.GasUsed)
	executed := decimal.Zero
	if !req.Amount.IsZero() {
		executed = toAmount.Div(req.Amount)
	}

	return domain.SwapResult{
		Success:       true,
		Provider:      ProviderName,
		TxHash:        result.TxHash,
		FromAmount:    req.Amount,
		ToAmount:      toAmount,
		ExecutedPrice: executed,
		GasUsed:       gasUsed,
		Timestamp:     time.Now(),
	}, nil
}

// Liquidity returns the pool snapshot for the pair, or a zeroed snapshot
// when the pool is unknown.
func (p *Provider) Liquidity(ctx context.Context, pair domain.Pair, chain domain.Chain) domain.LiquidityInfo {
	if chain != domain.ChainBSC {
		return domain.EmptyLiquidity(ProviderName, pair, chain)
	}

	pool, err := p.fetchPool(ctx, pair)
	if err != nil {
		p.logger.Debug(ctx, "liquidity lookup failed", "provider", ProviderName, "pair", pair.String(), "error", err)
		return domain.EmptyLiquidity(ProviderName, pair, chain)
	}
	base, quote, err := pool.reserves()
	if err != nil {
		return domain.EmptyLiquidity(ProviderName, pair, chain)
	}
	volume, _ := decimal.NewFromString(pool.Volume24h)

	return domain.LiquidityInfo{
		Provider:       ProviderName,
		Pair:           pair,
		Chain:          chain,
		TotalLiquidity: base.Add(quote),
		BaseReserve:    base,
		QuoteReserve:   quote,
		Volume24h:      volume,
		Timestamp:      time.Now(),
	}
}

func (p *Provider) fetchPool(ctx context.Context, pair domain.Pair) (*poolResponse, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, apperror.New(apperror.CodeRateLimitExceeded, apperror.WithCause(err))
	}

	var pool poolResponse
	resp, err := p.client.NewRequest().
		SetResult(&pool).
		Get(ctx, "/v1/pairs/"+pair.String())
	if err != nil {
		return nil, apperror.New(apperror.CodeProviderUnavailable,
			apperror.WithCause(err),
			apperror.WithContext("pancake pool request failed"))
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, apperror.New(apperror.CodeNoLiquidity,
			apperror.WithContext(fmt.Sprintf("pool %s not found", pair)))
	}
	if resp.IsError() {
		return nil, apperror.New(apperror.CodeProviderUnavailable,
			apperror.WithContext(fmt.Sprintf("pancake pool request: status %d", resp.StatusCode)))
	}
	if !pool.Available {
		return nil, apperror.New(apperror.CodeNoLiquidity,
			apperror.WithContext(fmt.Sprintf("pool %s not available", pair)))
	}
	return &pool, nil
}

func (m *poolResponse) reserves() (base, quote decimal.Decimal, err error) {
	base, err = decimal.NewFromString(m.BaseReserve)
	if err != nil {
		return decimal.Zero, decimal.Zero, apperror.New(apperror.CodeProviderUnavailable,
			apperror.WithCause(err),
			apperror.WithContext("bad base reserve"))
	}
	quote, err = decimal.NewFromString(m.QuoteReserve)
	if err != nil {
		return decimal.Zero, decimal.Zero, apperror.New(apperror.CodeProviderUnavailable,
			apperror.WithCause(err),
			apperror.WithContext("bad quote reserve"))
	}
	return base, quote, nil
}

// Package raydium implements the Raydium liquidity provider on Solana.
package raydium

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/novaledger/dexflow/business/liquidity/app"
	"github.com/novaledger/dexflow/business/liquidity/domain"
	"github.com/novaledger/dexflow/internal/apperror"
	"github.com/novaledger/dexflow/internal/logger"
	"github.com/shopspring/decimal"
)

var _ app.Provider = (*Provider)(nil)

const (
	ProviderName = "raydium"

	tracerName = "dexflow/raydium"

	// solanaConfirmationMs is the typical time to one Solana confirmation.
	solanaConfirmationMs = 400
)

var feeRate = decimal.NewFromFloat(0.0025)

// ProviderConfig holds configuration for the Raydium provider.
type ProviderConfig struct {
	BaseURL        string
	RetryMax       int
	RequestTimeout time.Duration
	// SupportedPairs restricts eligibility checks; empty means any pair
	// may be attempted.
	SupportedPairs []string
}

// DefaultProviderConfig returns sensible defaults.
func DefaultProviderConfig(baseURL string) ProviderConfig {
	return ProviderConfig{
		BaseURL:        baseURL,
		RetryMax:       3,
		RequestTimeout: 10 * time.Second,
	}
}

// Provider quotes swaps through Raydium's quote API. Unlike the AMM
// adapters that price locally from reserves, Raydium computes the output
// server side, so transient API failures are retried with backoff.
type Provider struct {
	config ProviderConfig
	logger logger.LoggerInterface
	client *retryablehttp.Client
	pairs  map[string]struct{}
	tracer trace.Tracer
}

// NewProvider creates a new Raydium provider.
func NewProvider(cfg ProviderConfig, log logger.LoggerInterface) (*Provider, error) {
	if cfg.BaseURL == "" {
		return nil, apperror.New(apperror.CodeConfigurationError,
			apperror.WithContext("raydium base URL is required"))
	}
	if cfg.RetryMax <= 0 {
		cfg.RetryMax = 3
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}

	client := retryablehttp.NewClient()
	client.RetryMax = cfg.RetryMax
	client.RetryWaitMin = 100 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = cfg.RequestTimeout
	client.Logger = nil

	var pairs map[string]struct{}
	if len(cfg.SupportedPairs) > 0 {
		pairs = make(map[string]struct{}, len(cfg.SupportedPairs))
		for _, raw := range cfg.SupportedPairs {
			pair, err := domain.ParsePair(raw)
			if err != nil {
				return nil, apperror.New(apperror.CodeConfigurationError,
					apperror.WithCause(err),
					apperror.WithContext(fmt.Sprintf("bad pair %q in raydium config", raw)))
			}
			pairs[pair.String()] = struct{}{}
		}
	}

	return &Provider{
		config: cfg,
		logger: log,
		client: client,
		pairs:  pairs,
		tracer: otel.Tracer(tracerName),
	}, nil
}

func (p *Provider) Name() string { return ProviderName }

func (p *Provider) SupportedChains() []domain.Chain {
	return []domain.Chain{domain.ChainSolana}
}

// SupportsPair checks the configured pair list without a network call.
func (p *Provider) SupportsPair(pair domain.Pair) bool {
	if p.pairs == nil {
		return true
	}
	_, ok := p.pairs[pair.String()]
	return ok
}

// GetQuote asks the Raydium API for a server-side quote.
func (p *Provider) GetQuote(ctx context.Context, req domain.QuoteRequest) (domain.Quote, error) {
	ctx, span := p.tracer.Start(ctx, "raydium.get_quote",
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
	if req.Chain != domain.ChainSolana {
		return domain.Quote{}, apperror.New(apperror.CodeUnsupportedChain,
			apperror.WithContext(fmt.Sprintf("chain %s not supported by %s", req.Chain, ProviderName)))
	}

	url := fmt.Sprintf("%s/v2/quote?inputToken=%s&outputToken=%s&amount=%s",
		strings.TrimSuffix(p.config.BaseURL, "/"), req.FromToken, req.ToToken, req.Amount.String())

	var msg quoteResponse
	status, err := p.getJSON(ctx, url, &msg)
	if err != nil {
		return domain.Quote{}, err
	}
	if status == http.StatusNotFound {
		return domain.Quote{}, apperror.New(apperror.CodeNoLiquidity,
			apperror.WithContext(fmt.Sprintf("no route for %s", req.Pair())))
	}
	if status >= 400 {
		return domain.Quote{}, apperror.New(apperror.CodeProviderUnavailable,
			apperror.WithContext(fmt.Sprintf("raydium quote: status %d", status)))
	}

	toAmount, err := decimal.NewFromString(msg.OutAmount)
	if err != nil {
		return domain.Quote{}, apperror.New(apperror.CodeProviderUnavailable,
			apperror.WithCause(err),
			apperror.WithContext("bad outAmount"))
	}
	if !toAmount.IsPositive() {
		return domain.Quote{}, apperror.New(apperror.CodeNoLiquidity,
			apperror.WithContext(fmt.Sprintf("empty quote for %s", req.Pair())))
	}

	impact, _ := decimal.NewFromString(msg.PriceImpactPct)
	networkFee, _ := decimal.NewFromString(msg.NetworkFee)
	liquidity, _ := decimal.NewFromString(msg.Liquidity)
	providerFee := req.Amount.Mul(feeRate)

	quote := domain.NewQuote(ProviderName, req, toAmount)
	quote.PriceImpactPct = impact
	quote.Fee = providerFee.Add(networkFee)
	quote.FeeBreakdown = domain.FeeBreakdown{
		ProviderFee: providerFee,
		NetworkFee:  networkFee,
	}
	quote.Route = domain.Route{
		Hops: []domain.Hop{{
			Source:    ProviderName,
			Pool:      msg.PoolID,
			FromToken: req.FromToken,
			ToToken:   req.ToToken,
			Fee:       providerFee,
		}},
		TotalFee: quote.Fee,
	}
	quote.EstimatedConfirmationMs = solanaConfirmationMs
	quote.Liquidity = liquidity

	span.SetAttributes(attribute.String("to_amount", toAmount.String()))
	p.logger.Debug(ctx, "quote received",
		"provider", ProviderName,
		"pair", req.Pair().String(),
		"to_amount", toAmount.String(),
	)

	return quote, nil
}

// ExecuteSwap submits the swap transaction through the API.
func (p *Provider) ExecuteSwap(ctx context.Context, req domain.SwapRequest) (domain.SwapResult, error) {
	ctx, span := p.tracer.Start(ctx, "raydium.execute_swap")
	defer span.End()

	body, err := json.Marshal(swapRequest{
		InputToken:  req.FromToken,
		OutputToken: req.ToToken,
		Amount:      req.Amount.String(),
		SlippagePct: req.SlippagePct.String(),
		Owner:       req.Recipient,
	})
	if err != nil {
		return domain.SwapResult{}, apperror.New(apperror.CodeInternalError, apperror.WithCause(err))
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimSuffix(p.config.BaseURL, "/")+"/v2/swap", body)
	if err != nil {
		return domain.SwapResult{}, apperror.New(apperror.CodeInternalError, apperror.WithCause(err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return domain.SwapResult{}, apperror.New(apperror.CodeProviderUnavailable,
			apperror.WithCause(err),
			apperror.WithContext("raydium swap request failed"))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.SwapResult{}, apperror.New(apperror.CodeProviderUnavailable, apperror.WithCause(err))
	}
	if resp.StatusCode >= 400 {
		return domain.FailedSwap(ProviderName, fmt.Sprintf("swap rejected: status %d", resp.StatusCode)), nil
	}

	var result swapResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return domain.SwapResult{}, apperror.New(apperror.CodeProviderUnavailable, apperror.WithCause(err))
	}
	if !result.Success {
		return domain.FailedSwap(ProviderName, result.Error), nil
	}

	toAmount, _ := decimal.NewFromString(result.OutAmount)
	executed := decimal.Zero
	if !req.Amount.IsZero() {
		executed = toAmount.Div(req.Amount)
	}

	return domain.SwapResult{
		Success:       true,
		Provider:      ProviderName,
		TxHash:        result.Signature,
		FromAmount:    req.Amount,
		ToAmount:      toAmount,
		ExecutedPrice: executed,
		Timestamp:     time.Now(),
	}, nil
}

// Liquidity returns the pool snapshot for the pair, zeroed when unknown.
func (p *Provider) Liquidity(ctx context.Context, pair domain.Pair, chain domain.Chain) domain.LiquidityInfo {
	if chain != domain.ChainSolana {
		return domain.EmptyLiquidity(ProviderName, pair, chain)
	}

	url := strings.TrimSuffix(p.config.BaseURL, "/") + "/v2/pools/" + pair.String()
	var pool poolResponse
	status, err := p.getJSON(ctx, url, &pool)
	if err != nil || status >= 400 {
		p.logger.Debug(ctx, "liquidity lookup failed",
			"provider", ProviderName, "pair", pair.String(), "status", status, "error", err)
		return domain.EmptyLiquidity(ProviderName, pair, chain)
	}

	base, errB := decimal.NewFromString(pool.BaseReserve)
	quote, errQ := decimal.NewFromString(pool.QuoteReserve)
	if errB != nil || errQ != nil {
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

func (p *Provider) getJSON(ctx context.Context, url string, out interface{}) (int, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, apperror.New(apperror.CodeInternalError, apperror.WithCause(err))
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, apperror.New(apperror.CodeProviderUnavailable,
			apperror.WithCause(err),
			apperror.WithContext("raydium request failed"))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, apperror.New(apperror.CodeProviderUnavailable, apperror.WithCause(err))
	}
	if resp.StatusCode < 400 && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, apperror.New(apperror.CodeProviderUnavailable, apperror.WithCause(err))
		}
	}
	return resp.StatusCode, nil
}

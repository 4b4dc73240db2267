// Package uniswap implements the Uniswap V3 liquidity provider via the
// QuoterV2 contract.
package uniswap

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/novaledger/dexflow/business/liquidity/app"
	"github.com/novaledger/dexflow/business/liquidity/domain"
	"github.com/novaledger/dexflow/internal/apperror"
	"github.com/novaledger/dexflow/internal/circuitbreaker"
	"github.com/novaledger/dexflow/internal/logger"
	"github.com/shopspring/decimal"
)

const (
	ProviderName = "uniswap"

	tracerName = "dexflow/uniswap"
	meterName  = "dexflow/uniswap"
)

var _ app.Provider = (*Provider)(nil)

// confirmationMs is the typical time to one confirmation per chain.
var confirmationMs = map[domain.Chain]int64{
	domain.ChainEthereum: 15000,
	domain.ChainPolygon:  2500,
	domain.ChainArbitrum: 1000,
}

// ContractCaller is the subset of ethclient used for quoting.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// ProviderConfig holds configuration for the Uniswap provider.
type ProviderConfig struct {
	RPCURLs        map[string]string // chain name -> RPC endpoint
	QuoterAddress  string
	DefaultFeeTier int
}

// providerMetrics holds OTEL metric instruments.
type providerMetrics struct {
	quotesTotal  metric.Int64Counter
	quoteLatency metric.Float64Histogram
	quoteErrors  metric.Int64Counter
}

// Provider quotes swaps through the QuoterV2 contract on each configured
// chain. RPC calls go through a per-chain circuit breaker.
type Provider struct {
	clients   map[domain.Chain]ContractCaller
	breakers  map[domain.Chain]*circuitbreaker.CircuitBreaker[[]byte]
	quoter    common.Address
	quoterABI abi.ABI
	feeTiers  []int

	logger  logger.LoggerInterface
	tracer  trace.Tracer
	metrics *providerMetrics
}

// NewProvider dials the configured RPC endpoints and builds the provider.
func NewProvider(ctx context.Context, cfg ProviderConfig, log logger.LoggerInterface) (*Provider, error) {
	clients := make(map[domain.Chain]ContractCaller, len(cfg.RPCURLs))
	for name, url := range cfg.RPCURLs {
		chain := domain.Chain(name)
		if !chain.IsKnown() {
			return nil, apperror.New(apperror.CodeConfigurationError,
				apperror.WithContext(fmt.Sprintf("unknown chain %q in uniswap RPC config", name)))
		}
		client, err := ethclient.DialContext(ctx, url)
		if err != nil {
			return nil, apperror.New(apperror.CodeEthereumRPCError,
				apperror.WithCause(err),
				apperror.WithContext(fmt.Sprintf("dial %s RPC", name)))
		}
		clients[chain] = client
	}
	return NewProviderWithClients(cfg, clients, log)
}

// NewProviderWithClients builds the provider over pre-built callers.
func NewProviderWithClients(cfg ProviderConfig, clients map[domain.Chain]ContractCaller, log logger.LoggerInterface) (*Provider, error) {
	if len(clients) == 0 {
		return nil, apperror.New(apperror.CodeConfigurationError,
			apperror.WithContext("uniswap provider needs at least one RPC endpoint"))
	}
	parsedABI, err := abi.JSON(strings.NewReader(QuoterV2ABI))
	if err != nil {
		return nil, fmt.Errorf("parse quoter ABI: %w", err)
	}
	if cfg.DefaultFeeTier == 0 {
		cfg.DefaultFeeTier = FeeTier030
	}

	breakers := make(map[domain.Chain]*circuitbreaker.CircuitBreaker[[]byte], len(clients))
	for chain := range clients {
		breakers[chain] = circuitbreaker.New[[]byte](
			circuitbreaker.DefaultConfig("uniswap-quoter-" + string(chain)))
	}

	p := &Provider{
		clients:   clients,
		breakers:  breakers,
		quoter:    common.HexToAddress(cfg.QuoterAddress),
		quoterABI: parsedABI,
		feeTiers:  []int{cfg.DefaultFeeTier, FeeTier005, FeeTier100},
		logger:    log,
		tracer:    otel.Tracer(tracerName),
	}
	if err := p.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	return p, nil
}

func (p *Provider) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	p.metrics = &providerMetrics{}

	p.metrics.quotesTotal, err = meter.Int64Counter(
		"uniswap_quotes_total",
		metric.WithDescription("Total quote requests"),
	)
	if err != nil {
		return err
	}

	p.metrics.quoteLatency, err = meter.Float64Histogram(
		"uniswap_quote_latency_ms",
		metric.WithDescription("Quote request latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	p.metrics.quoteErrors, err = meter.Int64Counter(
		"uniswap_quote_errors_total",
		metric.WithDescription("Total quote errors"),
	)
	return err
}

func (p *Provider) Name() string { return ProviderName }

func (p *Provider) SupportedChains() []domain.Chain {
	chains := make([]domain.Chain, 0, len(p.clients))
	for _, c := range []domain.Chain{domain.ChainEthereum, domain.ChainPolygon, domain.ChainArbitrum} {
		if _, ok := p.clients[c]; ok {
			chains = append(chains, c)
		}
	}
	return chains
}

// SupportsPair reports whether both tokens resolve to known contracts on
// at least one configured chain.
func (p *Provider) SupportsPair(pair domain.Pair) bool {
	for chain := range p.clients {
		_, okBase := lookupToken(chain, pair.Base)
		_, okQuote := lookupToken(chain, pair.Quote)
		if okBase && okQuote {
			return true
		}
	}
	return false
}

// GetQuote quotes the swap across the known fee tiers and keeps the
// highest output. Price impact is measured against a small probe trade.
func (p *Provider) GetQuote(ctx context.Context, req domain.QuoteRequest) (domain.Quote, error) {
	ctx, span := p.tracer.Start(ctx, "uniswap.get_quote",
		trace.WithAttributes(
			attribute.String("from", req.FromToken),
			attribute.String("to", req.ToToken),
			attribute.String("chain", string(req.Chain)),
			attribute.String("amount", req.Amount.String()),
		),
	)
	defer span.End()

	start := time.Now()
	p.metrics.quotesTotal.Add(ctx, 1)

	if err := req.Validate(); err != nil {
		return domain.Quote{}, err
	}
	client, ok := p.clients[req.Chain]
	if !ok {
		return domain.Quote{}, apperror.New(apperror.CodeUnsupportedChain,
			apperror.WithContext(fmt.Sprintf("chain %s not supported by %s", req.Chain, ProviderName)))
	}
	tokenIn, ok := lookupToken(req.Chain, req.FromToken)
	if !ok {
		return domain.Quote{}, apperror.New(apperror.CodeNoLiquidity,
			apperror.WithContext(fmt.Sprintf("token %s not known on %s", req.FromToken, req.Chain)))
	}
	tokenOut, ok := lookupToken(req.Chain, req.ToToken)
	if !ok {
		return domain.Quote{}, apperror.New(apperror.CodeNoLiquidity,
			apperror.WithContext(fmt.Sprintf("token %s not known on %s", req.ToToken, req.Chain)))
	}

	amountIn := toRaw(req.Amount, tokenIn.Decimals)
	breaker := p.breakers[req.Chain]

	var best *QuoteResult
	var bestTier int
	for _, tier := range p.feeTiers {
		result, err := p.quoteTier(ctx, client, breaker, tokenIn.Address, tokenOut.Address, amountIn, tier)
		if err != nil {
			span.AddEvent("fee_tier_failed",
				trace.WithAttributes(
					attribute.Int("fee_tier", tier),
					attribute.String("error", err.Error()),
				),
			)
			continue
		}
		if best == nil || result.AmountOut.Cmp(best.AmountOut) > 0 {
			best = result
			bestTier = tier
		}
	}

	p.metrics.quoteLatency.Record(ctx, float64(time.Since(start).Milliseconds()))

	if best == nil {
		p.metrics.quoteErrors.Add(ctx, 1)
		span.SetStatus(codes.Error, "no valid quote")
		return domain.Quote{}, apperror.New(apperror.CodePoolNotFound,
			apperror.WithContext(fmt.Sprintf("no pool for %s on %s", req.Pair(), req.Chain)))
	}

	toAmount := fromRaw(best.AmountOut, tokenOut.Decimals)
	fee := req.Amount.Mul(decimal.NewFromInt(int64(bestTier))).Div(decimal.NewFromInt(1_000_000))
	impact := p.measureImpact(ctx, client, breaker, tokenIn, tokenOut, req.Amount, toAmount, bestTier)

	quote := domain.NewQuote(ProviderName, req, toAmount)
	quote.PriceImpactPct = impact
	quote.Fee = fee
	quote.FeeBreakdown = domain.FeeBreakdown{ProviderFee: fee}
	quote.Route = domain.Route{
		Hops: []domain.Hop{{
			Source:    ProviderName,
			Pool:      fmt.Sprintf("%s@%d", req.Pair(), bestTier),
			FromToken: req.FromToken,
			ToToken:   req.ToToken,
			Fee:       fee,
		}},
		TotalFee: fee,
	}
	quote.EstimatedConfirmationMs = confirmationMs[req.Chain]

	span.SetAttributes(
		attribute.String("to_amount", toAmount.String()),
		attribute.Int("fee_tier", bestTier),
	)
	span.SetStatus(codes.Ok, "quote received")
	p.logger.Debug(ctx, "quote computed",
		"provider", ProviderName,
		"pair", req.Pair().String(),
		"chain", string(req.Chain),
		"to_amount", toAmount.String(),
		"fee_tier", bestTier,
	)

	return quote, nil
}

// quoteTier calls quoteExactInputSingle for one fee tier.
func (p *Provider) quoteTier(ctx context.Context, client ContractCaller, breaker *circuitbreaker.CircuitBreaker[[]byte], tokenIn, tokenOut common.Address, amountIn *big.Int, tier int) (*QuoteResult, error) {
	callData, err := p.quoterABI.Pack("quoteExactInputSingle", QuoteExactInputSingleParams{
		TokenIn:           tokenIn,
		TokenOut:          tokenOut,
		AmountIn:          amountIn,
		Fee:               big.NewInt(int64(tier)),
		SqrtPriceLimitX96: big.NewInt(0),
	})
	if err != nil {
		return nil, fmt.Errorf("encode call: %w", err)
	}

	raw, err := breaker.Execute(func() ([]byte, error) {
		return client.CallContract(ctx, ethereum.CallMsg{
			To:   &p.quoter,
			Data: callData,
		}, nil)
	})
	if err != nil {
		code := apperror.CodeContractCallFailed
		if breaker.IsOpen() {
			code = apperror.CodeCircuitOpen
		}
		return nil, apperror.New(code,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("quoter call failed for fee tier %d", tier)))
	}

	outputs, err := p.quoterABI.Unpack("quoteExactInputSingle", raw)
	if err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	if len(outputs) < 4 {
		return nil, fmt.Errorf("unexpected output length: %d", len(outputs))
	}
	return &QuoteResult{
		AmountOut:               outputs[0].(*big.Int),
		SqrtPriceX96After:       outputs[1].(*big.Int),
		InitializedTicksCrossed: outputs[2].(uint32),
		GasEstimate:             outputs[3].(*big.Int),
	}, nil
}

// measureImpact compares the execution price against a one-unit probe
// trade on the same tier. Probe failures degrade to zero impact.
func (p *Provider) measureImpact(ctx context.Context, client ContractCaller, breaker *circuitbreaker.CircuitBreaker[[]byte], tokenIn, tokenOut tokenInfo, amount, toAmount decimal.Decimal, tier int) decimal.Decimal {
	if amount.LessThanOrEqual(decimal.NewFromInt(1)) {
		return decimal.Zero
	}
	probeIn := toRaw(decimal.NewFromInt(1), tokenIn.Decimals)
	probe, err := p.quoteTier(ctx, client, breaker, tokenIn.Address, tokenOut.Address, probeIn, tier)
	if err != nil {
		return decimal.Zero
	}
	spot := fromRaw(probe.AmountOut, tokenOut.Decimals)
	if !spot.IsPositive() {
		return decimal.Zero
	}
	execPrice := toAmount.Div(amount)
	impact := spot.Sub(execPrice).Div(spot).Mul(decimal.NewFromInt(100))
	if impact.IsNegative() {
		return decimal.Zero
	}
	return impact
}

// ExecuteSwap is a quoting-only surface for on-chain pools. Submitting a
// transaction requires a configured signer, which this provider does not
// hold, so the call reports a business failure rather than an error.
func (p *Provider) ExecuteSwap(ctx context.Context, req domain.SwapRequest) (domain.SwapResult, error) {
	p.logger.Warn(ctx, "swap execution requested without a signer",
		"provider", ProviderName,
		"pair", req.FromToken+"-"+req.ToToken,
	)
	return domain.FailedSwap(ProviderName, "no signer configured for on-chain execution"), nil
}

// Liquidity returns a zeroed snapshot. The quoter contract does not
// expose pool depth, and per-tick liquidity reads are out of scope for
// the quoting path.
func (p *Provider) Liquidity(ctx context.Context, pair domain.Pair, chain domain.Chain) domain.LiquidityInfo {
	return domain.EmptyLiquidity(ProviderName, pair, chain)
}

// toRaw scales a human amount to the token's raw integer units.
func toRaw(amount decimal.Decimal, decimals int32) *big.Int {
	return amount.Shift(decimals).Truncate(0).BigInt()
}

// fromRaw scales raw integer units back to a human amount.
func fromRaw(raw *big.Int, decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(raw, -decimals)
}

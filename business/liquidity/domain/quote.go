package domain

import (
	"time"

	"github.com/novaledger/dexflow/internal/apperror"
	"github.com/shopspring/decimal"
)

// QuoteRequest describes one request for a price quote.
// It is a value object, constructed per call and never persisted.
type QuoteRequest struct {
	FromToken   string
	ToToken     string
	Amount      decimal.Decimal
	Chain       Chain
	SlippagePct decimal.Decimal // zero = provider default
}

// Validate rejects malformed requests before any network call is made.
func (r QuoteRequest) Validate() error {
	if r.FromToken == "" || r.ToToken == "" {
		return apperror.Validation(apperror.CodeInvalidQuoteRequest, "missing token symbol")
	}
	if !r.Amount.IsPositive() {
		return apperror.Validation(apperror.CodeInvalidQuoteRequest, "amount must be positive")
	}
	if r.SlippagePct.IsNegative() {
		return apperror.Validation(apperror.CodeInvalidQuoteRequest, "slippage must not be negative")
	}
	return nil
}

// Pair returns the request's trading pair.
func (r QuoteRequest) Pair() Pair {
	p, _ := NewPair(r.FromToken, r.ToToken)
	return p
}

// Hop is a single pool traversal within a route.
type Hop struct {
	Source    string
	Pool      string
	FromToken string
	ToToken   string
	Fee       decimal.Decimal
}

// Route describes the pools a swap would traverse.
type Route struct {
	Hops     []Hop
	TotalFee decimal.Decimal
}

// FeeBreakdown separates the components of a quote's fee.
type FeeBreakdown struct {
	ProviderFee decimal.Decimal
	NetworkFee  decimal.Decimal
}

// Quote is the canonical result of one provider for one request.
// A Quote is a value object: created fresh per request, never mutated,
// never shared across requests.
type Quote struct {
	Provider                string
	FromToken               string
	ToToken                 string
	FromAmount              decimal.Decimal
	ToAmount                decimal.Decimal
	Price                   decimal.Decimal // ToAmount / FromAmount at computation time
	PriceImpactPct          decimal.Decimal
	Fee                     decimal.Decimal
	FeeBreakdown            FeeBreakdown
	Route                   Route
	EstimatedConfirmationMs int64
	Liquidity               decimal.Decimal
	Timestamp               time.Time
}

// NewQuote creates a Quote, deriving Price from the amounts.
func NewQuote(provider string, req QuoteRequest, toAmount decimal.Decimal) Quote {
	price := decimal.Zero
	if !req.Amount.IsZero() {
		price = toAmount.Div(req.Amount)
	}
	return Quote{
		Provider:   provider,
		FromToken:  req.FromToken,
		ToToken:    req.ToToken,
		FromAmount: req.Amount,
		ToAmount:   toAmount,
		Price:      price,
		Timestamp:  time.Now(),
	}
}

// Valid reports whether the quote can be considered for execution.
func (q Quote) Valid() bool {
	return q.ToAmount.IsPositive()
}

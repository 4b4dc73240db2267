package raydium

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/novaledger/dexflow/business/liquidity/domain"
	"github.com/novaledger/dexflow/internal/apperror"
	"github.com/novaledger/dexflow/internal/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func newTestProvider(t *testing.T, baseURL string) *Provider {
	t.Helper()
	p, err := NewProvider(DefaultProviderConfig(baseURL), testLogger())
	require.NoError(t, err)
	return p
}

func solRequest(amount int64) domain.QuoteRequest {
	return domain.QuoteRequest{
		FromToken: "SOL",
		ToToken:   "USDC",
		Amount:    decimal.NewFromInt(amount),
		Chain:     domain.ChainSolana,
	}
}

func TestGetQuote(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/quote", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(quoteResponse{
			OutAmount:      "1421.5",
			PriceImpactPct: "0.12",
			NetworkFee:     "0.000005",
			Liquidity:      "8500000",
			PoolID:         "sol-usdc-amm",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	p := newTestProvider(t, srv.URL)

	quote, err := p.GetQuote(context.Background(), solRequest(10))
	require.NoError(t, err)

	assert.Equal(t, ProviderName, quote.Provider)
	assert.True(t, quote.ToAmount.Equal(decimal.NewFromFloat(1421.5)))
	assert.True(t, quote.Price.Equal(decimal.NewFromFloat(142.15)), "price %s", quote.Price)
	assert.True(t, quote.PriceImpactPct.Equal(decimal.NewFromFloat(0.12)))
	assert.Equal(t, int64(400), quote.EstimatedConfirmationMs)

	// 0.25% of 10 plus the network fee.
	wantFee := decimal.NewFromFloat(0.025).Add(decimal.NewFromFloat(0.000005))
	assert.True(t, quote.Fee.Equal(wantFee), "fee %s", quote.Fee)
	assert.True(t, quote.FeeBreakdown.NetworkFee.Equal(decimal.NewFromFloat(0.000005)))
}

func TestGetQuoteRetriesServerErrors(t *testing.T) {
	var calls int64
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/quote", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(quoteResponse{
			OutAmount: "100", PriceImpactPct: "0.01", Liquidity: "1000",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	p := newTestProvider(t, srv.URL)

	quote, err := p.GetQuote(context.Background(), solRequest(1))
	require.NoError(t, err)
	assert.True(t, quote.ToAmount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, int64(3), atomic.LoadInt64(&calls))
}

func TestGetQuoteNoRoute(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/quote", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	p := newTestProvider(t, srv.URL)

	_, err := p.GetQuote(context.Background(), solRequest(1))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeNoLiquidity))
}

func TestGetQuoteUnsupportedChain(t *testing.T) {
	p := newTestProvider(t, "http://localhost:1")

	_, err := p.GetQuote(context.Background(), domain.QuoteRequest{
		FromToken: "CAKE",
		ToToken:   "BNB",
		Amount:    decimal.NewFromInt(1),
		Chain:     domain.ChainBSC,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeUnsupportedChain))
}

func TestExecuteSwapBusinessFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/swap", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(swapResponse{Success: false, Error: "slippage exceeded"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	p := newTestProvider(t, srv.URL)

	res, err := p.ExecuteSwap(context.Background(), domain.SwapRequest{
		FromToken: "SOL",
		ToToken:   "USDC",
		Amount:    decimal.NewFromInt(10),
		Chain:     domain.ChainSolana,
	})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "slippage exceeded", res.Error)
}

func TestLiquidityUnknownPairIsZeroed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/pools/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	p := newTestProvider(t, srv.URL)

	pair, _ := domain.NewPair("BONK", "USDC")
	snap := p.Liquidity(context.Background(), pair, domain.ChainSolana)
	assert.False(t, snap.HasDepth())
}

func TestGetQuoteMangledResponse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/quote", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(quoteResponse{OutAmount: "not-a-number"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	p := newTestProvider(t, srv.URL)

	_, err := p.GetQuote(context.Background(), solRequest(10))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeProviderUnavailable))
}

package pancake

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
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

func newTestServer(t *testing.T, pools map[string]poolResponse) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/pairs/", func(w http.ResponseWriter, r *http.Request) {
		pair := r.URL.Path[len("/v1/pairs/"):]
		pool, ok := pools[pair]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(pool)
	})
	mux.HandleFunc("/v1/swap", func(w http.ResponseWriter, r *http.Request) {
		var req swapRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(swapResponse{
			Success:  true,
			TxHash:   "0xabc",
			ToAmount: "0.99",
			GasUsed:  "21000",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestProvider(t *testing.T, baseURL string) *Provider {
	t.Helper()
	p, err := NewProvider(DefaultProviderConfig(baseURL), testLogger())
	require.NoError(t, err)
	return p
}

func TestGetQuoteConstantProduct(t *testing.T) {
	srv := newTestServer(t, map[string]poolResponse{
		"CAKE-BNB": {
			Pair:         "CAKE-BNB",
			BaseReserve:  "1000000",
			QuoteReserve: "10000",
			Volume24h:    "500000",
			Available:    true,
		},
	})
	p := newTestProvider(t, srv.URL)

	req := domain.QuoteRequest{
		FromToken: "CAKE",
		ToToken:   "BNB",
		Amount:    decimal.NewFromInt(100),
		Chain:     domain.ChainBSC,
	}
	quote, err := p.GetQuote(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, ProviderName, quote.Provider)
	assert.True(t, quote.Valid())

	// Spot price is 0.01 BNB per CAKE; output must be below the
	// no-fee fill but close to it for a small trade.
	assert.True(t, quote.ToAmount.LessThan(decimal.NewFromInt(1)), "output %s", quote.ToAmount)
	assert.True(t, quote.ToAmount.GreaterThan(decimal.NewFromFloat(0.99)), "output %s", quote.ToAmount)

	assert.True(t, quote.Fee.Equal(decimal.NewFromFloat(0.25)), "fee %s", quote.Fee)
	assert.True(t, quote.PriceImpactPct.Equal(decimal.NewFromFloat(0.01)), "impact %s", quote.PriceImpactPct)
	assert.Equal(t, int64(3000), quote.EstimatedConfirmationMs)
	require.Len(t, quote.Route.Hops, 1)
	assert.Equal(t, "CAKE-BNB", quote.Route.Hops[0].Pool)
}

func TestGetQuoteUnsupportedChain(t *testing.T) {
	srv := newTestServer(t, nil)
	p := newTestProvider(t, srv.URL)

	_, err := p.GetQuote(context.Background(), domain.QuoteRequest{
		FromToken: "ETH",
		ToToken:   "USDC",
		Amount:    decimal.NewFromInt(1),
		Chain:     domain.ChainEthereum,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeUnsupportedChain))
}

func TestGetQuoteUnknownPool(t *testing.T) {
	srv := newTestServer(t, nil)
	p := newTestProvider(t, srv.URL)

	_, err := p.GetQuote(context.Background(), domain.QuoteRequest{
		FromToken: "DOGE",
		ToToken:   "BNB",
		Amount:    decimal.NewFromInt(1),
		Chain:     domain.ChainBSC,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeNoLiquidity))
}

func TestGetQuoteInvalidRequest(t *testing.T) {
	srv := newTestServer(t, nil)
	p := newTestProvider(t, srv.URL)

	_, err := p.GetQuote(context.Background(), domain.QuoteRequest{
		FromToken: "CAKE",
		ToToken:   "BNB",
		Amount:    decimal.Zero,
		Chain:     domain.ChainBSC,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidQuoteRequest))
}

func TestLiquidityUnknownPairIsZeroed(t *testing.T) {
	srv := newTestServer(t, nil)
	p := newTestProvider(t, srv.URL)

	pair, _ := domain.NewPair("DOGE", "BNB")
	snap := p.Liquidity(context.Background(), pair, domain.ChainBSC)
	assert.False(t, snap.HasDepth())
	assert.Equal(t, ProviderName, snap.Provider)
}

func TestLiquiditySnapshot(t *testing.T) {
	srv := newTestServer(t, map[string]poolResponse{
		"CAKE-BNB": {
			Pair:         "CAKE-BNB",
			BaseReserve:  "1000000",
			QuoteReserve: "10000",
			Volume24h:    "500000",
			Available:    true,
		},
	})
	p := newTestProvider(t, srv.URL)

	pair, _ := domain.NewPair("CAKE", "BNB")
	snap := p.Liquidity(context.Background(), pair, domain.ChainBSC)
	assert.True(t, snap.HasDepth())
	assert.True(t, snap.TotalLiquidity.Equal(decimal.NewFromInt(1010000)))
	assert.True(t, snap.Volume24h.Equal(decimal.NewFromInt(500000)))
}

func TestExecuteSwapSuccess(t *testing.T) {
	srv := newTestServer(t, nil)
	p := newTestProvider(t, srv.URL)

	res, err := p.ExecuteSwap(context.Background(), domain.SwapRequest{
		FromToken: "CAKE",
		ToToken:   "BNB",
		Amount:    decimal.NewFromInt(100),
		Chain:     domain.ChainBSC,
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "0xabc", res.TxHash)
	assert.True(t, res.ToAmount.Equal(decimal.NewFromFloat(0.99)))
}

func TestExecuteSwapBusinessFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/swap", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(swapResponse{Success: false, Error: "insufficient output amount"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	p := newTestProvider(t, srv.URL)

	res, err := p.ExecuteSwap(context.Background(), domain.SwapRequest{
		FromToken: "CAKE",
		ToToken:   "BNB",
		Amount:    decimal.NewFromInt(100),
		Chain:     domain.ChainBSC,
	})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "insufficient output amount", res.Error)
}

func TestGetQuoteMangledReserves(t *testing.T) {
	srv := newTestServer(t, map[string]poolResponse{
		"CAKE-BNB": {
			Pair:         "CAKE-BNB",
			BaseReserve:  "not-a-number",
			QuoteReserve: "10000",
			Available:    true,
		},
	})
	p := newTestProvider(t, srv.URL)

	_, err := p.GetQuote(context.Background(), domain.QuoteRequest{
		FromToken: "CAKE",
		ToToken:   "BNB",
		Amount:    decimal.NewFromInt(100),
		Chain:     domain.ChainBSC,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeProviderUnavailable))
}

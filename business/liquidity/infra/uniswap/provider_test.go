package uniswap

import (
	"context"
	"errors"
	"io"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/novaledger/dexflow/business/liquidity/domain"
	"github.com/novaledger/dexflow/internal/apperror"
	"github.com/novaledger/dexflow/internal/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCaller answers quoteExactInputSingle with a fixed rate. The rate is
// outAmount-per-inAmount in raw units scaled by rateNum/rateDen.
type fakeCaller struct {
	abi     abi.ABI
	rateNum *big.Int
	rateDen *big.Int
	err     error
	calls   int
}

func newFakeCaller(t *testing.T, rateNum, rateDen int64) *fakeCaller {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(QuoterV2ABI))
	require.NoError(t, err)
	return &fakeCaller{abi: parsed, rateNum: big.NewInt(rateNum), rateDen: big.NewInt(rateDen)}
}

func (f *fakeCaller) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	method := f.abi.Methods["quoteExactInputSingle"]
	inputs, err := method.Inputs.Unpack(msg.Data[4:])
	if err != nil {
		return nil, err
	}
	params := inputs[0].(struct {
		TokenIn           common.Address `json:"tokenIn"`
		TokenOut          common.Address `json:"tokenOut"`
		AmountIn          *big.Int       `json:"amountIn"`
		Fee               *big.Int       `json:"fee"`
		SqrtPriceLimitX96 *big.Int       `json:"sqrtPriceLimitX96"`
	})

	out := new(big.Int).Mul(params.AmountIn, f.rateNum)
	out.Div(out, f.rateDen)

	return method.Outputs.Pack(out, big.NewInt(0), uint32(1), big.NewInt(150000))
}

func newTestProvider(t *testing.T, caller ContractCaller) *Provider {
	t.Helper()
	p, err := NewProviderWithClients(
		ProviderConfig{QuoterAddress: "0x61fFE014bA17989E743c5F6cB21bF9697530B21e", DefaultFeeTier: FeeTier030},
		map[domain.Chain]ContractCaller{domain.ChainEthereum: caller},
		logger.New(io.Discard, logger.LevelError, "test", nil),
	)
	require.NoError(t, err)
	return p
}

func TestGetQuote(t *testing.T) {
	// 2000 USDC (6 decimals) per WETH (18 decimals): raw rate is
	// 2000e6 / 1e18.
	caller := newFakeCaller(t, 1, 1)
	caller.rateNum = big.NewInt(2_000_000_000)
	caller.rateDen = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

	p := newTestProvider(t, caller)

	quote, err := p.GetQuote(context.Background(), domain.QuoteRequest{
		FromToken: "WETH",
		ToToken:   "USDC",
		Amount:    decimal.NewFromInt(2),
		Chain:     domain.ChainEthereum,
	})
	require.NoError(t, err)

	assert.Equal(t, ProviderName, quote.Provider)
	assert.True(t, quote.ToAmount.Equal(decimal.NewFromInt(4000)), "to_amount %s", quote.ToAmount)
	assert.True(t, quote.Price.Equal(decimal.NewFromInt(2000)), "price %s", quote.Price)
	assert.Equal(t, int64(15000), quote.EstimatedConfirmationMs)

	// 0.30% tier over 2 WETH input.
	assert.True(t, quote.Fee.Equal(decimal.NewFromFloat(0.006)), "fee %s", quote.Fee)
}

func TestGetQuoteUnknownToken(t *testing.T) {
	p := newTestProvider(t, newFakeCaller(t, 1, 1))

	_, err := p.GetQuote(context.Background(), domain.QuoteRequest{
		FromToken: "SHIB",
		ToToken:   "USDC",
		Amount:    decimal.NewFromInt(1),
		Chain:     domain.ChainEthereum,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeNoLiquidity))
}

func TestGetQuoteUnsupportedChain(t *testing.T) {
	p := newTestProvider(t, newFakeCaller(t, 1, 1))

	_, err := p.GetQuote(context.Background(), domain.QuoteRequest{
		FromToken: "WETH",
		ToToken:   "USDC",
		Amount:    decimal.NewFromInt(1),
		Chain:     domain.ChainBSC,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeUnsupportedChain))
}

func TestGetQuoteAllTiersFail(t *testing.T) {
	caller := newFakeCaller(t, 1, 1)
	caller.err = errors.New("execution reverted")
	p := newTestProvider(t, caller)

	_, err := p.GetQuote(context.Background(), domain.QuoteRequest{
		FromToken: "WETH",
		ToToken:   "USDC",
		Amount:    decimal.NewFromInt(1),
		Chain:     domain.ChainEthereum,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodePoolNotFound))
}

func TestExecuteSwapReportsNoSigner(t *testing.T) {
	p := newTestProvider(t, newFakeCaller(t, 1, 1))

	res, err := p.ExecuteSwap(context.Background(), domain.SwapRequest{
		FromToken: "WETH",
		ToToken:   "USDC",
		Amount:    decimal.NewFromInt(1),
		Chain:     domain.ChainEthereum,
	})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
}

func TestLiquidityIsZeroed(t *testing.T) {
	p := newTestProvider(t, newFakeCaller(t, 1, 1))

	pair, _ := domain.NewPair("WETH", "USDC")
	snap := p.Liquidity(context.Background(), pair, domain.ChainEthereum)
	assert.False(t, snap.HasDepth())
}

func TestRawConversions(t *testing.T) {
	raw := toRaw(decimal.NewFromFloat(1.5), 6)
	assert.Equal(t, "1500000", raw.String())

	back := fromRaw(big.NewInt(1500000), 6)
	assert.True(t, back.Equal(decimal.NewFromFloat(1.5)))
}

func TestNewProviderRejectsUnknownChain(t *testing.T) {
	_, err := NewProvider(context.Background(), ProviderConfig{
		RPCURLs:       map[string]string{"nearby": "http://localhost:8545"},
		QuoterAddress: "0x61fFE014bA17989E743c5F6cB21bF9697530B21e",
	}, logger.New(io.Discard, logger.LevelError, "test", nil))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeConfigurationError))
}

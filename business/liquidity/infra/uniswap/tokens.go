package uniswap

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/novaledger/dexflow/business/liquidity/domain"
)

// tokenInfo maps a symbol to its on-chain contract and precision.
type tokenInfo struct {
	Address  common.Address
	Decimals int32
}

// tokenTable holds the ERC-20 addresses per chain. Symbols not listed
// here cannot be quoted on that chain.
var tokenTable = map[domain.Chain]map[string]tokenInfo{
	domain.ChainEthereum: {
		"WETH": {common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"), 18},
		"ETH":  {common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"), 18},
		"USDC": {common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"), 6},
		"USDT": {common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7"), 6},
		"DAI":  {common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"), 18},
		"WBTC": {common.HexToAddress("0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599"), 8},
	},
	domain.ChainPolygon: {
		"WMATIC": {common.HexToAddress("0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270"), 18},
		"MATIC":  {common.HexToAddress("0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270"), 18},
		"WETH":   {common.HexToAddress("0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619"), 18},
		"USDC":   {common.HexToAddress("0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174"), 6},
	},
	domain.ChainArbitrum: {
		"WETH": {common.HexToAddress("0x82aF49447D8a07e3bd95BD0d56f35241523fBab1"), 18},
		"ETH":  {common.HexToAddress("0x82aF49447D8a07e3bd95BD0d56f35241523fBab1"), 18},
		"USDC": {common.HexToAddress("0xaf88d065e77c8cC2239327C5EDb3A432268e5831"), 6},
		"ARB":  {common.HexToAddress("0x912CE59144191C1204E64559FE8253a0e49E6548"), 18},
	},
}

// lookupToken resolves a symbol on a chain.
func lookupToken(chain domain.Chain, symbol string) (tokenInfo, bool) {
	tokens, ok := tokenTable[chain]
	if !ok {
		return tokenInfo{}, false
	}
	info, ok := tokens[symbol]
	return info, ok
}

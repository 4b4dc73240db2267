package raydium

// quoteResponse is the payload of GET /v2/quote.
type quoteResponse struct {
	OutAmount      string `json:"outAmount"`
	PriceImpactPct string `json:"priceImpactPct"`
	NetworkFee     string `json:"networkFee"`
	Liquidity      string `json:"liquidity"`
	PoolID         string `json:"poolId"`
}

// poolResponse is the payload of GET /v2/pools/{pair}.
type poolResponse struct {
	PoolID       string `json:"poolId"`
	BaseReserve  string `json:"baseReserve"`
	QuoteReserve string `json:"quoteReserve"`
	Volume24h    string `json:"volume24h"`
}

// swapRequest is the payload of POST /v2/swap.
type swapRequest struct {
	InputToken  string `json:"inputToken"`
	OutputToken string `json:"outputToken"`
	Amount      string `json:"amount"`
	SlippagePct string `json:"slippagePct"`
	Owner       string `json:"owner,omitempty"`
}

// swapResponse is the payload returned by POST /v2/swap.
type swapResponse struct {
	Success   bool   `json:"success"`
	Signature string `json:"signature"`
	OutAmount string `json:"outAmount"`
	Error     string `json:"error"`
}

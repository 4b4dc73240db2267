package pancake

// poolResponse is the payload of GET /v1/pairs/{pair}.
type poolResponse struct {
	Pair         string `json:"pair"`
	BaseReserve  string `json:"baseReserve"`
	QuoteReserve string `json:"quoteReserve"`
	Volume24h    string `json:"volume24h"`
	Available    bool   `json:"available"`
}

// swapRequest is the payload of POST /v1/swap.
type swapRequest struct {
	FromToken   string `json:"fromToken"`
	ToToken     string `json:"toToken"`
	Amount      string `json:"amount"`
	SlippagePct string `json:"slippagePct"`
	Recipient   string `json:"recipient,omitempty"`
}

// swapResponse is the payload returned by POST /v1/swap.
type swapResponse struct {
	Success  bool   `json:"success"`
	TxHash   string `json:"txHash"`
	ToAmount string `json:"toAmount"`
	GasUsed  string `json:"gasUsed"`
	Error    string `json:"error"`
}

package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return v
}

func TestQuoteRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     QuoteRequest
		wantErr bool
	}{
		{
			name: "valid request",
			req:  QuoteRequest{FromToken: "CAKE", ToToken: "BNB", Amount: decimal.NewFromInt(100), Chain: ChainBSC},
		},
		{
			name:    "zero amount",
			req:     QuoteRequest{FromToken: "CAKE", ToToken: "BNB", Amount: decimal.Zero, Chain: ChainBSC},
			wantErr: true,
		},
		{
			name:    "negative amount",
			req:     QuoteRequest{FromToken: "CAKE", ToToken: "BNB", Amount: decimal.NewFromInt(-5), Chain: ChainBSC},
			wantErr: true,
		},
		{
			name:    "missing from token",
			req:     QuoteRequest{ToToken: "BNB", Amount: decimal.NewFromInt(1), Chain: ChainBSC},
			wantErr: true,
		},
		{
			name:    "missing to token",
			req:     QuoteRequest{FromToken: "CAKE", Amount: decimal.NewFromInt(1), Chain: ChainBSC},
			wantErr: true,
		},
		{
			name: "negative slippage",
			req: QuoteRequest{
				FromToken: "CAKE", ToToken: "BNB",
				Amount:      decimal.NewFromInt(1),
				Chain:       ChainBSC,
				SlippagePct: decimal.NewFromFloat(-0.5),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewQuotePrice(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		toAmount  string
		wantPrice string
	}{
		{"simple ratio", "100", "250", "2.5"},
		{"fractional output", "1000", "3.2", "0.0032"},
		{"identity", "42", "42", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := QuoteRequest{FromToken: "CAKE", ToToken: "BNB", Amount: d(t, tt.amount), Chain: ChainBSC}
			q := NewQuote("pancakeswap", req, d(t, tt.toAmount))
			if !q.Price.Equal(d(t, tt.wantPrice)) {
				t.Errorf("price = %s, want %s", q.Price, tt.wantPrice)
			}
			if !q.Valid() {
				t.Error("expected quote to be valid")
			}
		})
	}
}

func TestQuoteValid(t *testing.T) {
	req := QuoteRequest{FromToken: "CAKE", ToToken: "BNB", Amount: decimal.NewFromInt(10), Chain: ChainBSC}
	if q := NewQuote("pancakeswap", req, decimal.Zero); q.Valid() {
		t.Error("zero output quote must not be valid")
	}
	if q := NewQuote("pancakeswap", req, decimal.NewFromInt(-1)); q.Valid() {
		t.Error("negative output quote must not be valid")
	}
}

func TestEmptyLiquidity(t *testing.T) {
	pair, _ := NewPair("DOGE", "BNB")
	snap := EmptyLiquidity("pancakeswap", pair, ChainBSC)
	if snap.HasDepth() {
		t.Error("empty snapshot must report no depth")
	}
	if !snap.TotalLiquidity.IsZero() || !snap.BaseReserve.IsZero() || !snap.QuoteReserve.IsZero() {
		t.Error("empty snapshot must be zeroed")
	}
}

package domain

import (
	"strings"

	"github.com/novaledger/dexflow/internal/apperror"
)

// Pair represents a trading pair of token symbols (e.g., CAKE-BNB).
type Pair struct {
	Base  string
	Quote string
}

// NewPair creates a pair from two token symbols.
func NewPair(base, quote string) (Pair, error) {
	base = strings.ToUpper(strings.TrimSpace(base))
	quote = strings.ToUpper(strings.TrimSpace(quote))
	if base == "" || quote == "" {
		return Pair{}, apperror.Validation(apperror.CodeInvalidPair, "empty token symbol")
	}
	return Pair{Base: base, Quote: quote}, nil
}

// ParsePair parses a pair key like "CAKE-BNB" or "CAKE/BNB".
func ParsePair(s string) (Pair, error) {
	sep := "-"
	if strings.Contains(s, "/") {
		sep = "/"
	}
	parts := strings.Split(s, sep)
	if len(parts) != 2 {
		return Pair{}, apperror.Validation(apperror.CodeInvalidPair, s)
	}
	return NewPair(parts[0], parts[1])
}

// String returns the pair key (e.g., "CAKE-BNB").
func (p Pair) String() string {
	return p.Base + "-" + p.Quote
}

// Invert returns the inverted pair (e.g., CAKE-BNB -> BNB-CAKE).
func (p Pair) Invert() Pair {
	return Pair{Base: p.Quote, Quote: p.Base}
}

// IsZero reports whether the pair is unset.
func (p Pair) IsZero() bool {
	return p.Base == "" && p.Quote == ""
}

// Package domain contains the core domain types for the liquidity context.
package domain

// Chain identifies a blockchain a provider can quote on.
type Chain string

const (
	ChainBSC      Chain = "bsc"
	ChainEthereum Chain = "ethereum"
	ChainPolygon  Chain = "polygon"
	ChainArbitrum Chain = "arbitrum"
	ChainSolana   Chain = "solana"
)

// KnownChains lists every chain the system understands.
func KnownChains() []Chain {
	return []Chain{ChainBSC, ChainEthereum, ChainPolygon, ChainArbitrum, ChainSolana}
}

// IsKnown reports whether c is one of the known chains.
func (c Chain) IsKnown() bool {
	for _, k := range KnownChains() {
		if c == k {
			return true
		}
	}
	return false
}

func (c Chain) String() string {
	return string(c)
}

// ContainsChain reports whether chains includes target.
func ContainsChain(chains []Chain, target Chain) bool {
	for _, c := range chains {
		if c == target {
			return true
		}
	}
	return false
}

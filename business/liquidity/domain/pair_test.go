package domain

import "testing"

func TestNewPair(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		quote   string
		want    string
		wantErr bool
	}{
		{"uppercases symbols", "cake", "bnb", "CAKE-BNB", false},
		{"trims whitespace", " eth ", "usdc", "ETH-USDC", false},
		{"empty base", "", "BNB", "", true},
		{"empty quote", "CAKE", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPair(tt.base, tt.quote)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got pair %q", p)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.String() != tt.want {
				t.Errorf("got %q, want %q", p.String(), tt.want)
			}
		})
	}
}

func TestParsePair(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"dash separator", "CAKE-BNB", "CAKE-BNB", false},
		{"slash separator", "ETH/USDC", "ETH-USDC", false},
		{"lowercase input", "sol/usdc", "SOL-USDC", false},
		{"missing separator", "CAKEBNB", "", true},
		{"empty string", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePair(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got pair %q", p)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.String() != tt.want {
				t.Errorf("got %q, want %q", p.String(), tt.want)
			}
		})
	}
}

func TestPairInvert(t *testing.T) {
	p, err := NewPair("CAKE", "BNB")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inv := p.Invert()
	if inv.String() != "BNB-CAKE" {
		t.Errorf("got %q, want BNB-CAKE", inv.String())
	}
}

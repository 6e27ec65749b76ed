// Package domain defines core data structures used throughout the valuation report.
package domain

// Token symbols known to the balance and market APIs.
const (
	SymbolSPS       = "SPS"
	SymbolStakedSPS = "SPSP"
	SymbolDEC       = "DEC"
	// SymbolReference is the USD-pegged token used to convert HIVE prices to USD.
	SymbolReference = "SWAP.HBD"
)

// Asset logical token that may be held under several on-chain symbols.
type Asset struct {
	// Name symbol the asset is priced under.
	Name string
	// Symbols every balance symbol counted towards the asset.
	Symbols []string
}

var (
	// AssetSPS liquid and staked SPS.
	AssetSPS = Asset{Name: SymbolSPS, Symbols: []string{SymbolSPS, SymbolStakedSPS}}
	// AssetDEC Dark Energy Crystals.
	AssetDEC = Asset{Name: SymbolDEC, Symbols: []string{SymbolDEC}}
)

// Holds reports whether a balance symbol counts towards the asset.
func (a Asset) Holds(symbol string) bool {
	for _, s := range a.Symbols {
		if s == symbol {
			return true
		}
	}
	return false
}

// String returns the string representation.
func (a Asset) String() string {
	return a.Name
}

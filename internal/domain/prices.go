package domain

import "github.com/shopspring/decimal"

// TokenPrices USD unit prices of the two in-game tokens.
// Derived once per run and passed by value to every conversion.
type TokenPrices struct {
	SPS decimal.Decimal
	DEC decimal.Decimal
}

// NewTokenPrices converts prices quoted in the market settlement unit to USD
// using the rate of the USD-pegged reference token.
func NewTokenPrices(spsRate, decRate, referenceRate decimal.Decimal) (TokenPrices, error) {
	if !referenceRate.IsPositive() {
		return TokenPrices{}, ErrInvalidReferenceRate
	}

	return TokenPrices{
		SPS: spsRate.Div(referenceRate),
		DEC: decRate.Div(referenceRate),
	}, nil
}

// Of returns the USD price of the asset.
func (p TokenPrices) Of(a Asset) decimal.Decimal {
	switch a.Name {
	case AssetSPS.Name:
		return p.SPS
	case AssetDEC.Name:
		return p.DEC
	default:
		return decimal.Zero
	}
}

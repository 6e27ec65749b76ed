// Package balance values the token balances of an account.
package balance

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/splvaluer/internal/clients"
	"github.com/vadiminshakov/splvaluer/internal/domain"
)

type balanceSource interface {
	Balances(ctx context.Context, username string) ([]clients.TokenBalance, error)
}

// Fetcher converts raw token balances to USD.
type Fetcher struct {
	source balanceSource
	logger *zap.Logger
}

// NewFetcher creates a Fetcher over the given balance source.
func NewFetcher(source balanceSource, logger *zap.Logger) *Fetcher {
	return &Fetcher{source: source, logger: logger}
}

// GetBalances returns the USD value of the account's SPS and DEC holdings.
// Errors from the source are returned as is, with context.
func (f *Fetcher) GetBalances(ctx context.Context, account domain.Account, prices domain.TokenPrices) (domain.BalanceRecord, error) {
	balances, err := f.source.Balances(ctx, account)
	if err != nil {
		return domain.BalanceRecord{}, errors.Wrapf(err, "failed to get balances of %s", account)
	}

	sps := Sum(balances, domain.AssetSPS)
	dec := Sum(balances, domain.AssetDEC)

	if !dec.IsZero() {
		f.logger.Info("balance", zap.String("account", account), zap.String("token", domain.SymbolDEC), zap.String("amount", dec.StringFixed(2)))
	}
	if !sps.IsZero() {
		f.logger.Info("balance", zap.String("account", account), zap.String("token", domain.SymbolSPS), zap.String("amount", sps.StringFixed(2)))
	}

	return domain.BalanceRecord{
		Account: account,
		SPS:     sps.Mul(prices.Of(domain.AssetSPS)),
		DEC:     dec.Mul(prices.Of(domain.AssetDEC)),
	}, nil
}

// Sum adds up the balances of every symbol the asset is held under.
func Sum(balances []clients.TokenBalance, asset domain.Asset) decimal.Decimal {
	total := decimal.Zero
	for _, b := range balances {
		if asset.Holds(b.Token) {
			total = total.Add(b.Balance)
		}
	}
	return total
}

package pricer

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/splvaluer/internal/domain"
	"github.com/vadiminshakov/splvaluer/pkg/retrier"
)

// Pricer provides the USD prices used to value token balances.
type Pricer interface {
	GetTokenPrices(ctx context.Context) (domain.TokenPrices, error)
}

type marketSource interface {
	LastPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// MarketPricer prices SPS and DEC from a market quoting everything in the
// same settlement unit, converting through the USD-pegged reference token.
type MarketPricer struct {
	market  marketSource
	logger  *zap.Logger
	retrier *retrier.Retrier
}

// Option configures a MarketPricer.
type Option func(*MarketPricer)

// WithRetrier retries every rate lookup with r.
func WithRetrier(r *retrier.Retrier) Option {
	return func(p *MarketPricer) {
		p.retrier = r
	}
}

// NewMarketPricer creates a pricer over the given market source.
func NewMarketPricer(market marketSource, logger *zap.Logger, opts ...Option) *MarketPricer {
	p := &MarketPricer{market: market, logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetTokenPrices queries the three rates and converts them to USD.
// Any missing rate fails the whole lookup.
func (p *MarketPricer) GetTokenPrices(ctx context.Context) (domain.TokenPrices, error) {
	spsRate, err := p.lastPrice(ctx, domain.SymbolSPS)
	if err != nil {
		return domain.TokenPrices{}, errors.Wrap(err, "failed to get SPS rate")
	}
	decRate, err := p.lastPrice(ctx, domain.SymbolDEC)
	if err != nil {
		return domain.TokenPrices{}, errors.Wrap(err, "failed to get DEC rate")
	}
	refRate, err := p.lastPrice(ctx, domain.SymbolReference)
	if err != nil {
		return domain.TokenPrices{}, errors.Wrap(err, "failed to get reference rate")
	}

	prices, err := domain.NewTokenPrices(spsRate, decRate, refRate)
	if err != nil {
		return domain.TokenPrices{}, errors.Wrapf(err, "%s rate %s", domain.SymbolReference, refRate.String())
	}

	p.logger.Info("token prices",
		zap.String("SPS", prices.SPS.StringFixed(6)),
		zap.String("DEC", prices.DEC.StringFixed(6)))

	return prices, nil
}

func (p *MarketPricer) lastPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if p.retrier == nil {
		return p.market.LastPrice(ctx, symbol)
	}
	return retrier.DoWithData(p.retrier, ctx, func(ctx context.Context) (decimal.Decimal, error) {
		return p.market.LastPrice(ctx, symbol)
	})
}

package internal

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/splvaluer/internal/domain"
	"github.com/vadiminshakov/splvaluer/internal/services/aggregator"
	"github.com/vadiminshakov/splvaluer/pkg/parallel"
)

// CardsScraper reads the collection value of an account.
type CardsScraper interface {
	GetCards(ctx context.Context, account domain.Account) (domain.CardsRecord, error)
}

// Pricer provides token prices for one run.
type Pricer interface {
	GetTokenPrices(ctx context.Context) (domain.TokenPrices, error)
}

// BalanceFetcher values the token balances of an account.
type BalanceFetcher interface {
	GetBalances(ctx context.Context, account domain.Account, prices domain.TokenPrices) (domain.BalanceRecord, error)
}

// SnapshotSaver stores valuation history.
type SnapshotSaver interface {
	Save(snapshots ...domain.ValuationSnapshot) error
}

// Valuation is the outcome of one run.
type Valuation struct {
	Records []domain.AccountRecord
	Prices  domain.TokenPrices
	Elapsed time.Duration
}

// Valuator values a set of accounts.
type Valuator struct {
	scraper  CardsScraper
	pricer   Pricer
	balances BalanceFetcher
	store    SnapshotSaver
	logger   *zap.Logger
	now      func() time.Time
}

// ValuatorOption configures a Valuator.
type ValuatorOption func(*Valuator)

// WithSnapshotStore saves one snapshot per account after each run.
func WithSnapshotStore(store SnapshotSaver) ValuatorOption {
	return func(v *Valuator) {
		v.store = store
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) ValuatorOption {
	return func(v *Valuator) {
		v.now = now
	}
}

// NewValuator creates a new valuator instance
func NewValuator(scraper CardsScraper, pricer Pricer, balances BalanceFetcher, logger *zap.Logger, opts ...ValuatorOption) *Valuator {
	v := &Valuator{
		scraper:  scraper,
		pricer:   pricer,
		balances: balances,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Run scrapes every account, then prices the tokens once, then values every
// account's balances and merges both phases. Any failing task aborts the run.
func (v *Valuator) Run(ctx context.Context, accounts []domain.Account) (Valuation, error) {
	if err := domain.ValidateAccounts(accounts); err != nil {
		return Valuation{}, err
	}

	start := v.now()
	workers := len(accounts)

	v.logger.Info("Scraping collection values", zap.Int("accounts", len(accounts)))
	cards, err := parallel.Map(ctx, accounts, workers, v.scraper.GetCards)
	if err != nil {
		return Valuation{}, errors.Wrap(err, "failed to scrape collection values")
	}

	prices, err := v.pricer.GetTokenPrices(ctx)
	if err != nil {
		return Valuation{}, errors.Wrap(err, "failed to get token prices")
	}

	balances, err := parallel.Map(ctx, accounts, workers, func(ctx context.Context, account domain.Account) (domain.BalanceRecord, error) {
		return v.balances.GetBalances(ctx, account, prices)
	})
	if err != nil {
		return Valuation{}, errors.Wrap(err, "failed to get balances")
	}

	records := aggregator.Combine(balances, cards)

	if v.store != nil {
		ts := v.now()
		snapshots := make([]domain.ValuationSnapshot, 0, len(records))
		for _, record := range records {
			snapshots = append(snapshots, domain.NewValuationSnapshot(ts, record, prices))
		}
		if err := v.store.Save(snapshots...); err != nil {
			return Valuation{}, errors.Wrap(err, "failed to save valuation snapshots")
		}
	}

	elapsed := v.now().Sub(start)
	v.logger.Info("Valuation finished", zap.Duration("elapsed", elapsed))

	return Valuation{Records: records, Prices: prices, Elapsed: elapsed}, nil
}

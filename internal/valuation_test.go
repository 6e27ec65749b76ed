package internal

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vadiminshakov/splvaluer/internal/domain"
)

type fakeScraper struct {
	values map[string]string
	err    error
	done   atomic.Int32
}

func (s *fakeScraper) GetCards(ctx context.Context, account domain.Account) (domain.CardsRecord, error) {
	defer s.done.Add(1)
	if s.err != nil {
		return domain.CardsRecord{}, s.err
	}
	v, ok := s.values[account]
	if !ok {
		return domain.CardsRecord{Account: account}, nil
	}
	return domain.CardsRecord{Account: account, Cards: decimal.RequireFromString(v), Found: true}, nil
}

type fakePricer struct {
	prices domain.TokenPrices
	err    error
	calls  int
	// scraped is the number of finished scrapes seen when prices were requested.
	scraped int32
	scraper *fakeScraper
}

func (p *fakePricer) GetTokenPrices(ctx context.Context) (domain.TokenPrices, error) {
	p.calls++
	if p.scraper != nil {
		p.scraped = p.scraper.done.Load()
	}
	return p.prices, p.err
}

type fakeBalances struct {
	mu     sync.Mutex
	values map[string][2]string
	err    error
	seen   []domain.TokenPrices
}

func (b *fakeBalances) GetBalances(ctx context.Context, account domain.Account, prices domain.TokenPrices) (domain.BalanceRecord, error) {
	b.mu.Lock()
	b.seen = append(b.seen, prices)
	b.mu.Unlock()
	if b.err != nil {
		return domain.BalanceRecord{}, b.err
	}
	rec := domain.BalanceRecord{Account: account}
	if v, ok := b.values[account]; ok {
		rec.SPS = decimal.RequireFromString(v[0])
		rec.DEC = decimal.RequireFromString(v[1])
	}
	return rec, nil
}

type fakeStore struct {
	saved []domain.ValuationSnapshot
	err   error
}

func (s *fakeStore) Save(snapshots ...domain.ValuationSnapshot) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, snapshots...)
	return nil
}

func testPrices() domain.TokenPrices {
	return domain.TokenPrices{SPS: decimal.RequireFromString("0.1"), DEC: decimal.RequireFromString("0.001")}
}

func TestValuator_Run(t *testing.T) {
	scraper := &fakeScraper{values: map[string]string{"x": "12.34", "y": "5"}}
	pricer := &fakePricer{prices: testPrices(), scraper: scraper}
	balances := &fakeBalances{values: map[string][2]string{"x": {"0", "0.5"}, "z": {"1", "0"}}}

	v := NewValuator(scraper, pricer, balances, zap.NewNop())
	got, err := v.Run(context.Background(), []domain.Account{"x", "y", "z"})
	require.NoError(t, err)

	require.Len(t, got.Records, 3)
	assert.Equal(t, "x", got.Records[0].Account)
	assert.Equal(t, "y", got.Records[1].Account)
	assert.Equal(t, "z", got.Records[2].Account)
	assert.Equal(t, "12.84", got.Records[0].Total().StringFixed(2))
	assert.True(t, got.Records[0].CardsFound)
	assert.False(t, got.Records[2].CardsFound)
	assert.Equal(t, testPrices(), got.Prices)

	assert.Equal(t, 1, pricer.calls)
	assert.Equal(t, int32(3), pricer.scraped, "prices requested before every scrape finished")
	require.Len(t, balances.seen, 3)
	for _, p := range balances.seen {
		assert.Equal(t, testPrices(), p)
	}
}

func TestValuator_ScrapeErrorAborts(t *testing.T) {
	scrapeErr := errors.New("browser crashed")
	pricer := &fakePricer{prices: testPrices()}
	v := NewValuator(&fakeScraper{err: scrapeErr}, pricer, &fakeBalances{}, zap.NewNop())

	got, err := v.Run(context.Background(), []domain.Account{"x", "y"})
	assert.ErrorIs(t, err, scrapeErr)
	assert.Empty(t, got.Records)
	assert.Equal(t, 0, pricer.calls)
}

func TestValuator_PriceErrorAborts(t *testing.T) {
	balances := &fakeBalances{}
	v := NewValuator(&fakeScraper{}, &fakePricer{err: errors.New("no SWAP.HBD")}, balances, zap.NewNop())

	_, err := v.Run(context.Background(), []domain.Account{"x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get token prices")
	assert.Empty(t, balances.seen)
}

func TestValuator_BalanceErrorAborts(t *testing.T) {
	balanceErr := errors.New("status 500")
	store := &fakeStore{}
	v := NewValuator(&fakeScraper{}, &fakePricer{prices: testPrices()}, &fakeBalances{err: balanceErr}, zap.NewNop(),
		WithSnapshotStore(store))

	_, err := v.Run(context.Background(), []domain.Account{"x", "y"})
	assert.ErrorIs(t, err, balanceErr)
	assert.Empty(t, store.saved)
}

func TestValuator_NoAccounts(t *testing.T) {
	v := NewValuator(&fakeScraper{}, &fakePricer{}, &fakeBalances{}, zap.NewNop())
	_, err := v.Run(context.Background(), nil)
	assert.Error(t, err)
}

func TestValuator_SavesSnapshots(t *testing.T) {
	ts := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
	store := &fakeStore{}
	v := NewValuator(
		&fakeScraper{values: map[string]string{"x": "1"}},
		&fakePricer{prices: testPrices()},
		&fakeBalances{values: map[string][2]string{"x": {"2", "3"}}},
		zap.NewNop(),
		WithSnapshotStore(store),
		WithClock(func() time.Time { return ts }),
	)

	got, err := v.Run(context.Background(), []domain.Account{"x", "y"})
	require.NoError(t, err)
	assert.Zero(t, got.Elapsed)

	require.Len(t, store.saved, 2)
	assert.Equal(t, ts, store.saved[0].Timestamp)
	assert.Equal(t, "x", store.saved[0].Account)
	assert.Equal(t, "6", store.saved[0].Total)
	assert.Equal(t, "0.1", store.saved[0].SPSPrice)
	assert.Equal(t, "y", store.saved[1].Account)
	assert.Equal(t, "0", store.saved[1].Total)
	assert.True(t, store.saved[0].CardsFound)
	assert.False(t, store.saved[1].CardsFound)
}

func TestValuator_SnapshotErrorFailsRun(t *testing.T) {
	v := NewValuator(&fakeScraper{}, &fakePricer{prices: testPrices()}, &fakeBalances{}, zap.NewNop(),
		WithSnapshotStore(&fakeStore{err: errors.New("disk full")}))

	_, err := v.Run(context.Background(), []domain.Account{"x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

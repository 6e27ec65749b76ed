// Package scraper reads the collection value shown on an account's public profile page.
package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/splvaluer/internal/domain"
	"github.com/vadiminshakov/splvaluer/pkg/retrier"
)

const (
	// DefaultURLTemplate PeakMonsters collection page, %s is the account.
	DefaultURLTemplate = "https://peakmonsters.com/@%s/cards"
	// DefaultCSSClass class of the labeled figures on the page.
	DefaultCSSClass = "text-semibold"
	// DefaultFieldIndex position of the collection value among DefaultCSSClass elements.
	DefaultFieldIndex = 8
)

var (
	// ErrFieldNotFound the page does not (yet) show the expected element.
	ErrFieldNotFound = errors.New("collection value field not found")
	// ErrZeroValue the page shows a zero value, which it does while loading.
	ErrZeroValue = errors.New("collection value is zero")
)

// Browser opens isolated page sessions.
type Browser interface {
	Open(ctx context.Context, url string) (Page, error)
}

// Page is a rendered page owned by a single caller.
type Page interface {
	// TextsByClass returns the text content of every element with the CSS class, in document order.
	TextsByClass(ctx context.Context, class string) ([]string, error)
	Close() error
}

// Config locates the value on the page.
type Config struct {
	URLTemplate string
	CSSClass    string
	FieldIndex  int
}

// Scraper polls a profile page until the collection value shows up.
type Scraper struct {
	browser Browser
	retrier *retrier.Retrier
	conf    Config
	logger  *zap.Logger
}

// New creates a Scraper. Zero fields of conf fall back to the defaults.
func New(browser Browser, r *retrier.Retrier, conf Config, logger *zap.Logger) *Scraper {
	if conf.URLTemplate == "" {
		conf.URLTemplate = DefaultURLTemplate
	}
	if conf.CSSClass == "" {
		conf.CSSClass = DefaultCSSClass
	}
	return &Scraper{browser: browser, retrier: r, conf: conf, logger: logger}
}

// GetCards returns the collection value of account.
// When the value never shows up within the attempt budget the record has a
// zero value and Found set to false; this is not an error.
func (s *Scraper) GetCards(ctx context.Context, account domain.Account) (domain.CardsRecord, error) {
	url := fmt.Sprintf(s.conf.URLTemplate, account)

	page, err := s.browser.Open(ctx, url)
	if err != nil {
		return domain.CardsRecord{}, errors.Wrapf(err, "failed to open %s", url)
	}
	defer func() {
		if err := page.Close(); err != nil {
			s.logger.Warn("failed to close browser session", zap.String("account", account), zap.Error(err))
		}
	}()

	out, err := retrier.Poll(s.retrier, ctx, func(ctx context.Context) (decimal.Decimal, error) {
		return s.readValue(ctx, page)
	})
	if err != nil {
		return domain.CardsRecord{}, errors.Wrapf(err, "scrape cards of %s", account)
	}

	if !out.Found() {
		s.logger.Warn("collection value not found, using zero",
			zap.String("account", account),
			zap.Int("attempts", out.Attempts),
			zap.Error(out.LastErr))
		return domain.CardsRecord{Account: account, Cards: decimal.Zero}, nil
	}

	s.logger.Info("cards value",
		zap.String("account", account),
		zap.String("value", out.Value.StringFixed(2)),
		zap.Int("attempts", out.Attempts))

	return domain.CardsRecord{Account: account, Cards: out.Value, Found: true}, nil
}

func (s *Scraper) readValue(ctx context.Context, page Page) (decimal.Decimal, error) {
	texts, err := page.TextsByClass(ctx, s.conf.CSSClass)
	if err != nil {
		return decimal.Zero, err
	}
	if s.conf.FieldIndex < 0 || s.conf.FieldIndex >= len(texts) {
		return decimal.Zero, errors.Wrapf(ErrFieldNotFound, "%d .%s elements", len(texts), s.conf.CSSClass)
	}

	value, err := ParseUSD(texts[s.conf.FieldIndex])
	if err != nil {
		return decimal.Zero, err
	}
	if value.IsZero() {
		return decimal.Zero, ErrZeroValue
	}
	return value, nil
}

var usdCleaner = strings.NewReplacer("$", "", ",", "", " ", "", "\u00a0", "")

// ParseUSD parses a displayed dollar amount such as "$1,234.56".
func ParseUSD(text string) (decimal.Decimal, error) {
	cleaned := usdCleaner.Replace(strings.TrimSpace(text))
	if cleaned == "" {
		return decimal.Zero, errors.Errorf("empty amount %q", text)
	}
	v, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "parse amount %q", text)
	}
	return v, nil
}

package config

import (
	"bytes"
	"io"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/vadiminshakov/splvaluer/internal/clients"
	"github.com/vadiminshakov/splvaluer/internal/domain"
	"github.com/vadiminshakov/splvaluer/internal/services/scraper"
	"github.com/vadiminshakov/splvaluer/pkg/retrier"
)

const (
	FormatTable    = "table"
	FormatMarkdown = "markdown"
)

// DefaultAccounts is used when neither the command line nor the config names any account.
var DefaultAccounts = []string{"mythic534", "mythic535", "mythic536", "mythic537", "mythic539"}

// ScrapeConfig controls the collection value scraper.
type ScrapeConfig struct {
	MaxAttempts       int           `yaml:"max_attempts"`
	PollInterval      time.Duration `yaml:"poll_interval"`
	BackoffMultiplier float64       `yaml:"backoff_multiplier,omitempty"`
	CSSClass          string        `yaml:"css_class"`
	FieldIndex        int           `yaml:"field_index"`
	Headless          bool          `yaml:"headless"`
}

type Config struct {
	// Accounts overrides DefaultAccounts when set.
	Accounts              []string      `yaml:"accounts,omitempty" env:"SPLV_ACCOUNTS" envSeparator:","`
	DefaultAccounts       []string      `yaml:"default_accounts,omitempty"`
	BalanceAPIURL         string        `yaml:"balance_api_url" env:"SPLV_BALANCE_API_URL"`
	MarketAPIURL          string        `yaml:"market_api_url" env:"SPLV_MARKET_API_URL"`
	CollectionURLTemplate string        `yaml:"collection_url_template" env:"SPLV_COLLECTION_URL_TEMPLATE"`
	HTTPTimeout           time.Duration `yaml:"http_timeout" env:"SPLV_HTTP_TIMEOUT"`
	MarketRetries         int           `yaml:"market_retries" env:"SPLV_MARKET_RETRIES"`
	LogLevel              string        `yaml:"log_level" env:"SPLV_LOG_LEVEL"`
	Format                string        `yaml:"format" env:"SPLV_FORMAT"`
	SnapshotDir           string        `yaml:"snapshot_dir,omitempty" env:"SPLV_SNAPSHOT_DIR"`
	Scrape                ScrapeConfig  `yaml:"scrape"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BalanceAPIURL:         clients.DefaultSplinterlandsURL,
		MarketAPIURL:          clients.DefaultHiveEngineURL,
		CollectionURLTemplate: scraper.DefaultURLTemplate,
		HTTPTimeout:           30 * time.Second,
		LogLevel:              "info",
		Format:                FormatTable,
		Scrape: ScrapeConfig{
			MaxAttempts:       100,
			PollInterval:      200 * time.Millisecond,
			BackoffMultiplier: 1,
			CSSClass:          scraper.DefaultCSSClass,
			FieldIndex:        scraper.DefaultFieldIndex,
			Headless:          true,
		},
	}
}

// Load reads the defaults, then the yaml file at path (if any), then the
// SPLV_* environment variables. Later sources win.
func Load(path string) (Config, error) {
	conf := Default()

	if path != "" {
		f, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrap(err, "read config")
		}
		dec := yaml.NewDecoder(bytes.NewReader(f))
		dec.KnownFields(true)
		if err := dec.Decode(&conf); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, errors.Wrapf(err, "incorrect yaml config %s", path)
		}
	}

	if err := env.Parse(&conf); err != nil {
		return Config{}, errors.Wrap(err, "parse environment")
	}

	if err := conf.Validate(); err != nil {
		return Config{}, err
	}

	return conf, nil
}

// Validate checks the settings that do not depend on the command line.
func (c Config) Validate() error {
	if c.Scrape.MaxAttempts < 1 {
		return errors.Errorf("incorrect 'scrape.max_attempts' param: %d, must be at least 1", c.Scrape.MaxAttempts)
	}
	if c.Scrape.PollInterval < 0 {
		return errors.Errorf("incorrect 'scrape.poll_interval' param: %s", c.Scrape.PollInterval)
	}
	if c.Scrape.FieldIndex < 0 {
		return errors.Errorf("incorrect 'scrape.field_index' param: %d", c.Scrape.FieldIndex)
	}
	if c.MarketRetries < 0 {
		return errors.Errorf("incorrect 'market_retries' param: %d", c.MarketRetries)
	}
	if c.HTTPTimeout < 0 {
		return errors.Errorf("incorrect 'http_timeout' param: %s", c.HTTPTimeout)
	}
	if err := ValidateFormat(c.Format); err != nil {
		return err
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "incorrect 'log_level' param")
	}
	if !strings.Contains(c.CollectionURLTemplate, "%s") {
		return errors.Errorf("incorrect 'collection_url_template' param: %q has no %%s placeholder", c.CollectionURLTemplate)
	}
	return nil
}

// ValidateFormat checks an output format name.
func ValidateFormat(format string) error {
	switch format {
	case FormatTable, FormatMarkdown:
		return nil
	default:
		return errors.Errorf("unknown format %q, want %s or %s", format, FormatTable, FormatMarkdown)
	}
}

// ResolveAccounts picks the accounts to value: the command line first, then
// the configured override, then the configured defaults, then DefaultAccounts.
func (c Config) ResolveAccounts(cli []string) ([]string, error) {
	var accounts []string
	switch {
	case len(cli) > 0:
		accounts = cli
	case len(c.Accounts) > 0:
		accounts = c.Accounts
	case len(c.DefaultAccounts) > 0:
		accounts = c.DefaultAccounts
	default:
		accounts = DefaultAccounts
	}

	out := make([]string, len(accounts))
	for i, a := range accounts {
		out[i] = strings.TrimSpace(a)
	}
	if err := domain.ValidateAccounts(out); err != nil {
		return nil, err
	}
	return out, nil
}

// ScraperConfig returns the scraper settings.
func (c Config) ScraperConfig() scraper.Config {
	return scraper.Config{
		URLTemplate: c.CollectionURLTemplate,
		CSSClass:    c.Scrape.CSSClass,
		FieldIndex:  c.Scrape.FieldIndex,
	}
}

// ScrapeRetrier returns the poll schedule of the scraper.
func (c Config) ScrapeRetrier() *retrier.Retrier {
	return retrier.New(
		retrier.WithMaxAttempts(c.Scrape.MaxAttempts),
		retrier.WithInitialInterval(c.Scrape.PollInterval),
		retrier.WithMultiplier(c.Scrape.BackoffMultiplier),
	)
}

// MarketRetrier retries market rate lookups MarketRetries times.
func (c Config) MarketRetrier() *retrier.Retrier {
	return retrier.New(
		retrier.WithMaxAttempts(c.MarketRetries+1),
		retrier.WithInitialInterval(500*time.Millisecond),
		retrier.WithMultiplier(2),
		retrier.WithJitter(0.1),
	)
}

// Save writes the config as yaml.
func (c Config) Save(path string) error {
	out, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	return errors.Wrap(os.WriteFile(path, out, 0o644), "write config")
}

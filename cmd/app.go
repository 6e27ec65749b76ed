package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/glamour"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vadiminshakov/splvaluer/config"
	"github.com/vadiminshakov/splvaluer/internal"
	"github.com/vadiminshakov/splvaluer/internal/clients"
	"github.com/vadiminshakov/splvaluer/internal/services/balance"
	"github.com/vadiminshakov/splvaluer/internal/services/pricer"
	"github.com/vadiminshakov/splvaluer/internal/services/scraper"
	"github.com/vadiminshakov/splvaluer/internal/storage/valuations"
)

const defaultHistoryDir = "./wal/valuations"

// appFlags are shared by the commands that read the configuration.
type appFlags struct {
	configPath string
}

func (a *appFlags) register(f *flag.FlagSet) {
	f.StringVar(&a.configPath, "config", "", "path to yaml config")
}

func (a *appFlags) load() (config.Config, *zap.Logger, error) {
	conf, err := config.Load(a.configPath)
	if err != nil {
		return config.Config{}, nil, errors.Wrap(err, "failed to get configuration")
	}
	logger, err := newLogger(conf.LogLevel)
	if err != nil {
		return config.Config{}, nil, err
	}
	return conf, logger, nil
}

// newLogger builds a console logger writing to stderr.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "parse log level")
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Development = false
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg.Build()
}

func newPricer(conf config.Config, logger *zap.Logger) *pricer.MarketPricer {
	market := clients.NewHiveEngineClientWithHTTP(httpClient(conf), conf.MarketAPIURL)
	var opts []pricer.Option
	if conf.MarketRetries > 0 {
		opts = append(opts, pricer.WithRetrier(conf.MarketRetrier()))
	}
	return pricer.NewMarketPricer(market, logger.Named("pricer"), opts...)
}

func newValuator(conf config.Config, logger *zap.Logger, store internal.SnapshotSaver) *internal.Valuator {
	cards := scraper.New(
		scraper.NewChromeBrowser(conf.Scrape.Headless),
		conf.ScrapeRetrier(),
		conf.ScraperConfig(),
		logger.Named("scraper"),
	)
	balances := balance.NewFetcher(
		clients.NewSplinterlandsClientWithHTTP(httpClient(conf), conf.BalanceAPIURL),
		logger.Named("balance"),
	)

	var opts []internal.ValuatorOption
	if store != nil {
		opts = append(opts, internal.WithSnapshotStore(store))
	}
	return internal.NewValuator(cards, newPricer(conf, logger), balances, logger, opts...)
}

func openHistory(conf config.Config) (*valuations.WALStore, error) {
	dir := conf.SnapshotDir
	if dir == "" {
		dir = defaultHistoryDir
	}
	store, err := valuations.NewWALStore(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "open history in %s", dir)
	}
	return store, nil
}

// printMarkdown renders md for the terminal, falling back to the raw text.
func printMarkdown(w io.Writer, md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		out = md
	}
	fmt.Fprint(w, out)
}

func httpClient(conf config.Config) *http.Client {
	return &http.Client{Timeout: conf.HTTPTimeout}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/vadiminshakov/splvaluer/config"
	"github.com/vadiminshakov/splvaluer/internal"
	"github.com/vadiminshakov/splvaluer/internal/services/report"
)

const reportName = "report"

// reportCmd values the accounts and prints the summary table.
type reportCmd struct {
	app      appFlags
	format   string
	history  bool
	accounts config.AccountsFlag
}

func (*reportCmd) Name() string { return reportName }
func (*reportCmd) Synopsis() string {
	return "value the accounts and print the summary table (default)"
}
func (*reportCmd) Usage() string {
	return `splvaluer [report] [-config <file>] [-format table|markdown] [-history] [-a <name>[,<name>]] [<name> ...]

  Scrapes the collection value of every account, fetches its SPS and DEC
  balances and prints one row per account plus totals.
  Accounts come from -a and the positional names, else from the config,
  else from the built-in list.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	c.app.register(f)
	f.StringVar(&c.format, "format", "", "output format: table or markdown (defaults to the config)")
	f.BoolVar(&c.history, "history", false, "save this valuation to the history even without snapshot_dir")
	f.Var(&c.accounts, "a", "account to value; repeatable, comma separated")
	f.Var(&c.accounts, "accounts", "same as -a")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.accounts.Append(f.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	conf, logger, err := c.app.load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer logger.Sync()

	format := conf.Format
	if c.format != "" {
		format = c.format
	}
	if err := config.ValidateFormat(format); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	accounts, err := conf.ResolveAccounts(c.accounts)
	if err != nil {
		logger.Error("failed to resolve accounts", zap.Error(err))
		return subcommands.ExitFailure
	}

	var store internal.SnapshotSaver
	if c.history || conf.SnapshotDir != "" {
		wal, err := openHistory(conf)
		if err != nil {
			logger.Error("failed to open history", zap.Error(err))
			return subcommands.ExitFailure
		}
		defer wal.Close()
		store = wal
	}

	valuation, err := newValuator(conf, logger, store).Run(ctx, accounts)
	if err != nil {
		logger.Error("valuation failed", zap.Error(err))
		return subcommands.ExitFailure
	}

	render(os.Stdout, format, report.Build(valuation.Records))
	fmt.Fprintln(os.Stdout)
	fmt.Fprintln(os.Stdout, runtimeLine(valuation.Elapsed))

	return subcommands.ExitSuccess
}

func runtimeLine(elapsed time.Duration) string {
	return fmt.Sprintf("Total runtime: %.2f seconds", elapsed.Seconds())
}

func render(w io.Writer, format string, r report.Report) {
	if format == config.FormatMarkdown {
		printMarkdown(w, report.Markdown(r))
		return
	}
	fmt.Fprintln(w, report.Table(r))
}

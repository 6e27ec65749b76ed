package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/vadiminshakov/splvaluer/internal/services/report"
)

// historyCmd lists stored valuations.
type historyCmd struct {
	app  appFlags
	last int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "print stored valuations" }
func (*historyCmd) Usage() string {
	return `splvaluer history [-config <file>] [-n <count>]

  Prints the most recent valuations saved by 'report -history' or by
  a configured snapshot_dir, oldest first.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	c.app.register(f)
	f.IntVar(&c.last, "n", 20, "number of snapshots to print, 0 for all")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.last < 0 {
		fmt.Fprintln(os.Stderr, "Error: -n must not be negative")
		return subcommands.ExitUsageError
	}

	conf, logger, err := c.app.load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer logger.Sync()

	store, err := openHistory(conf)
	if err != nil {
		logger.Error("failed to open history", zap.Error(err))
		return subcommands.ExitFailure
	}
	defer store.Close()

	records, err := store.Last(c.last)
	if err != nil {
		logger.Error("failed to read history", zap.Error(err))
		return subcommands.ExitFailure
	}
	if len(records) == 0 {
		fmt.Println("no valuations stored")
		return subcommands.ExitSuccess
	}

	fmt.Println(report.Snapshots(records))
	return subcommands.ExitSuccess
}

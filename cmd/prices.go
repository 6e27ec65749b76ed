package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// pricesCmd prints the USD token prices used for a valuation.
type pricesCmd struct {
	app appFlags
}

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "print the SPS and DEC prices in USD" }
func (*pricesCmd) Usage() string {
	return `splvaluer prices [-config <file>]

  Prints the last SPS and DEC prices from Hive Engine, converted to USD
  through SWAP.HBD.
`
}

func (c *pricesCmd) SetFlags(f *flag.FlagSet) {
	c.app.register(f)
}

func (c *pricesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	conf, logger, err := c.app.load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer logger.Sync()

	prices, err := newPricer(conf, logger).GetTokenPrices(ctx)
	if err != nil {
		logger.Error("failed to get token prices", zap.Error(err))
		return subcommands.ExitFailure
	}

	fmt.Printf("SPS: %s $\nDEC: %s $\n", prices.SPS.StringFixed(6), prices.DEC.StringFixed(6))
	return subcommands.ExitSuccess
}

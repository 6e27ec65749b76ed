package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/vadiminshakov/splvaluer/config"
	"github.com/vadiminshakov/splvaluer/internal/setup"
)

// setupCmd runs the interactive configuration wizard.
type setupCmd struct {
	app    appFlags
	output string
}

func (*setupCmd) Name() string     { return "setup" }
func (*setupCmd) Synopsis() string { return "create a config file interactively" }
func (*setupCmd) Usage() string {
	return `splvaluer setup [-config <file>] [-o <file>]

  Asks for the accounts, scraper settings and output format and writes
  them as yaml. Answers start from -config when given.
`
}

func (c *setupCmd) SetFlags(f *flag.FlagSet) {
	c.app.register(f)
	f.StringVar(&c.output, "o", "config.yaml", "file to write")
}

func (c *setupCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	base, err := config.Load(c.app.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := setup.RunTUI(c.output, base); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// Command splvaluer prints the USD value of a set of Splinterlands accounts:
// their card collection as shown on PeakMonsters plus their SPS and DEC
// balances priced on Hive Engine.
//
// Usage:
//
//	splvaluer [report] [-config config.yaml] [-a name[,name]] [name ...]
//	splvaluer prices
//	splvaluer history [-n 20]
//	splvaluer setup [-o config.yaml]
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path"
	"strings"

	"github.com/google/subcommands"
)

var commands = []subcommands.Command{
	&reportCmd{},
	&pricesCmd{},
	&historyCmd{},
	&setupCmd{},
}

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	for _, c := range commands {
		commander.Register(c, "")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	if err := flag.CommandLine.Parse(withDefaultCommand(os.Args[1:])); err != nil {
		os.Exit(int(subcommands.ExitUsageError))
	}
	status := commander.Execute(ctx)
	stop()
	os.Exit(int(status))
}

// withDefaultCommand runs report when args do not start with a command name.
func withDefaultCommand(args []string) []string {
	if len(args) > 0 {
		switch args[0] {
		case "-h", "-help", "--help":
			return args
		}
		if !strings.HasPrefix(args[0], "-") && isCommand(args[0]) {
			return args
		}
	}
	return append([]string{reportName}, args...)
}

func isCommand(name string) bool {
	switch name {
	case "help", "flags", "commands":
		return true
	}
	for _, c := range commands {
		if c.Name() == name {
			return true
		}
	}
	return false
}

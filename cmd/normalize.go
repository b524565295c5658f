package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/ukcgt"
	"github.com/google/subcommands"
)

type normalizeCmd struct{}

func (*normalizeCmd) Name() string     { return "normalize" }
func (*normalizeCmd) Synopsis() string { return "apply symbol changes and print the renamed events" }
func (*normalizeCmd) Usage() string {
	return `cgtcalc normalize

  Renames the trades and corporate actions dated before each symbol change
  to the new symbol, and prints the resulting events in JSONL format. The
  events file itself is not modified.
`
}

func (*normalizeCmd) SetFlags(f *flag.FlagSet) {}

func (*normalizeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, log, events, status := setup()
	if status != subcommands.ExitSuccess {
		return status
	}
	defer log.Sync()

	n := ukcgt.ApplySymbolChanges(events, log)
	if err := ukcgt.EncodeEvents(stdout, events); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing events: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "%d event(s) renamed\n", n)
	return subcommands.ExitSuccess
}

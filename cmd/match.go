package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/ukcgt"
	"github.com/etnz/ukcgt/renderer"
	"github.com/google/subcommands"
)

// matchCmd holds the flags for the 'match' subcommand.
type matchCmd struct {
	csv  bool
	json bool
	raw  bool
}

func (*matchCmd) Name() string     { return "match" }
func (*matchCmd) Synopsis() string { return "match disposals with acquisitions and report the gains" }
func (*matchCmd) Usage() string {
	return `cgtcalc match [-csv|-json] [-raw]

  Applies the same day, bed and breakfast and Section 104 rules to every
  disposal of the events file and reports the gains per UK tax year.
  Exits with a failure status when integrity faults were found; the report
  is still printed without the faulty matches.

Usage Examples:
$ cgtcalc -events trades.jsonl match
$ cgtcalc -events trades.jsonl match -csv > gains.csv
$ cgtcalc -events trades.jsonl match -json | jq .gain

`
}

func (c *matchCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.csv, "csv", false, "Write one CSV row per match instead of the markdown report")
	f.BoolVar(&c.json, "json", false, "Write one JSON object per match instead of the markdown report")
	f.BoolVar(&c.raw, "raw", false, "Print the markdown report without terminal rendering")
}

func (c *matchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	calc, status := calculate(ctx)
	if status != subcommands.ExitSuccess {
		return status
	}
	trades := calc.Events().Trades

	switch {
	case c.csv && c.json:
		fmt.Fprintln(os.Stderr, "Error: -csv and -json are exclusive")
		return subcommands.ExitUsageError
	case c.csv:
		if err := ukcgt.EncodeMatchesCSV(stdout, trades); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing CSV: %v\n", err)
			return subcommands.ExitFailure
		}
	case c.json:
		if err := ukcgt.EncodeMatchesJSON(stdout, trades); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing JSON: %v\n", err)
			return subcommands.ExitFailure
		}
	default:
		printMarkdown(renderer.MatchesMarkdown(trades, calc.Faults()), c.raw)
	}

	if n := len(calc.Faults()); n > 0 {
		fmt.Fprintf(os.Stderr, "%d integrity fault(s), some matches were skipped\n", n)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

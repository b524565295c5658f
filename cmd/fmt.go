package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/ukcgt"
	"github.com/google/subcommands"
)

type fmtCmd struct {
	outputFile string
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the events file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `cgtcalc fmt [-o <file>]

  Validates and formats the events file. This command reads all events,
  validates them, drops duplicated corporate actions, sorts them by date,
  and writes them back in a canonical JSONL format.
  By default, the events file is formatted in-place.

Usage Examples:
# Formats the default events file.
$ cgtcalc fmt

`
}

func (p *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.outputFile, "o", "", "Write the formatted events to this file instead of in-place.")
}

func (p *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	// The base currency decides which amounts need an fx rate.
	if _, err := loadConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitUsageError
	}
	events, err := DecodeEvents()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load events %q: %v\n", *eventsFile, err)
		return subcommands.ExitFailure
	}

	var buf bytes.Buffer
	if err := ukcgt.EncodeEvents(&buf, events); err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting events: %v\n", err)
		return subcommands.ExitFailure
	}

	output := p.outputFile
	if output == "" {
		output = *eventsFile
	}
	if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving formatted events %q: %v\n", output, err)
		return subcommands.ExitFailure
	}
	if n := events.Duplicates(); n > 0 {
		fmt.Fprintf(os.Stderr, "Dropped %d duplicated corporate action(s).\n", n)
	}
	fmt.Fprintf(os.Stderr, "Formatted %d trade(s) and %d corporate action(s) into %q.\n", len(events.Trades), len(events.CorporateActions), output)
	return subcommands.ExitSuccess
}

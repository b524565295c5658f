package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/ukcgt/renderer"
	"github.com/google/subcommands"
)

// poolCmd holds the flags for the 'pool' subcommand.
type poolCmd struct {
	asset string
	raw   bool
}

func (*poolCmd) Name() string     { return "pool" }
func (*poolCmd) Synopsis() string { return "show the Section 104 pools after matching" }
func (*poolCmd) Usage() string {
	return `cgtcalc pool [-asset <name>] [-raw]

  Runs the matching rules and displays every Section 104 pool with its
  history: acquisitions, disposals and stock splits.
`
}

func (c *poolCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "asset", "", "Only display the pool of this asset")
	f.BoolVar(&c.raw, "raw", false, "Print the markdown report without terminal rendering")
}

func (c *poolCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	calc, status := calculate(ctx)
	if status != subcommands.ExitSuccess {
		return status
	}
	pools := renderer.NewPools(calc.Pools(), c.asset)
	if c.asset != "" && len(pools) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no pool for asset %q\n", c.asset)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderPools(pools), c.raw)
	return subcommands.ExitSuccess
}

// Package cmd implements the CLI application computing UK capital gains.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/ukcgt"
	"github.com/etnz/ukcgt/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
	"go.uber.org/zap"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&matchCmd{}, "reports")
	c.Register(&poolCmd{}, "reports")

	c.Register(&normalizeCmd{}, "events")
	c.Register(&fmtCmd{}, "events")

	c.Register(&topicCmd{}, "help")
}

// Completion describes the command line for shell completion.
func Completion() *complete.Command {
	global := map[string]complete.Predictor{
		"config": predict.Files("*.yaml"),
		"events": predict.Files("*.jsonl"),
		"base":   predict.Set{"GBP", "USD", "EUR"},
		"v":      predict.Nothing,
	}
	return &complete.Command{
		Flags: global,
		Sub: map[string]*complete.Command{
			"match": {Flags: map[string]complete.Predictor{
				"csv":  predict.Nothing,
				"json": predict.Nothing,
				"raw":  predict.Nothing,
			}},
			"pool": {Flags: map[string]complete.Predictor{
				"asset": predict.Something,
				"raw":   predict.Nothing,
			}},
			"normalize": {},
			"fmt":       {Flags: map[string]complete.Predictor{"o": predict.Files("*.jsonl")}},
			"topic": {
				Flags: map[string]complete.Predictor{"raw": predict.Nothing},
				Args:  predict.Set(append(docs.Topics(), "*")),
			},
		},
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to the YAML configuration file")
var eventsFile = flag.String("events", "events.jsonl", "Path to the events file (JSONL format)")
var baseCurrency = flag.String("base", "", "Base currency, overrides the configuration")
var verbose = flag.Bool("v", false, "Log debug diagnostics to stderr")

// stdout is where reports are written.
var stdout io.Writer = os.Stdout

// loadConfig reads the configuration file and applies the global flags on top.
func loadConfig() (ukcgt.Config, error) {
	cfg, err := ukcgt.LoadConfig(*configFile)
	if err != nil {
		return cfg, err
	}
	if *baseCurrency != "" {
		cfg.BaseCurrency = *baseCurrency
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if err := ukcgt.SetBaseCurrency(cfg.BaseCurrency); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newLogger builds a development logger writing to stderr.
func newLogger(cfg ukcgt.Config) (*zap.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	return zcfg.Build()
}

// DecodeEvents decodes the events file.
func DecodeEvents() (*ukcgt.TaxEvents, error) {
	f, err := os.Open(*eventsFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ukcgt.DecodeEvents(f)
}

// setup loads the configuration, the logger and the events shared by every command.
func setup() (ukcgt.Config, *zap.Logger, *ukcgt.TaxEvents, subcommands.ExitStatus) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return cfg, nil, nil, subcommands.ExitUsageError
	}
	log, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		return cfg, nil, nil, subcommands.ExitFailure
	}
	events, err := DecodeEvents()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading events %q: %v\n", *eventsFile, err)
		return cfg, nil, nil, subcommands.ExitFailure
	}
	if n := events.Duplicates(); n > 0 {
		log.Warn("duplicate corporate actions dropped", zap.Int("count", n))
	}
	return cfg, log, events, subcommands.ExitSuccess
}

// calculate runs the matching rules over the events. Integrity faults are
// not an error here, they are available from the calculator.
func calculate(ctx context.Context) (*ukcgt.Calculator, subcommands.ExitStatus) {
	cfg, log, events, status := setup()
	if status != subcommands.ExitSuccess {
		return nil, status
	}
	defer log.Sync()
	calc := ukcgt.NewCalculator(events, cfg, log)
	if _, err := calc.CalculateTax(ctx); err != nil && len(calc.Faults()) == 0 {
		fmt.Fprintf(os.Stderr, "Error calculating gains: %v\n", err)
		return nil, subcommands.ExitFailure
	}
	return calc, subcommands.ExitSuccess
}

// printMarkdown writes md to stdout, rendered for the terminal unless raw.
func printMarkdown(md string, raw bool) {
	if raw {
		fmt.Fprint(stdout, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithStandardStyle("dark"), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}

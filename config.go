package ukcgt

import (
	"fmt"
	"io"
	"os"

	"github.com/etnz/ukcgt/date"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v2"
)

// Config holds the settings of a run.
type Config struct {
	// BaseCurrency is the currency every gain is computed in.
	BaseCurrency string `yaml:"baseCurrency"`
	// StopOnFault stops the run at the first integrity fault instead of
	// skipping the faulty pair and carrying on.
	StopOnFault bool `yaml:"stopOnFault"`
	// NonResidentPeriods lists the periods the taxpayer was not UK resident.
	// Disposals made during one of them are not taxable.
	NonResidentPeriods []date.Range `yaml:"nonResidentPeriods"`
	// LogLevel is a zap level name, such as debug, info, warn or error.
	LogLevel string `yaml:"logLevel"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{BaseCurrency: "GBP", LogLevel: "warn"}
}

// LoadConfig reads a YAML configuration file. Missing keys keep their
// default value. An empty path returns the default configuration.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("could not open config file: %w", err)
	}
	defer f.Close()
	cfg, err := DecodeConfig(f)
	if err != nil {
		return Config{}, fmt.Errorf("config file %q: %w", path, err)
	}
	return cfg, nil
}

// DecodeConfig reads a YAML configuration from r on top of the defaults.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the currency, the log level and the periods.
func (c Config) Validate() error {
	if err := ValidateCurrency(c.BaseCurrency); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	for _, p := range c.NonResidentPeriods {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("non resident period %v: %w", p, err)
		}
	}
	return nil
}

// Level returns the zap level named by LogLevel, warn when empty.
func (c Config) Level() (zapcore.Level, error) {
	if c.LogLevel == "" {
		return zapcore.WarnLevel, nil
	}
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.WarnLevel, fmt.Errorf("log level: %w", err)
	}
	return lvl, nil
}

// TaxableStatusOf returns the status of a disposal made on day.
func (c Config) TaxableStatusOf(day date.Date) TaxableStatus {
	for _, p := range c.NonResidentPeriods {
		if p.Contains(day) {
			return NonTaxable
		}
	}
	return Taxable
}

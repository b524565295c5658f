package ukcgt

import (
	"strings"
	"testing"

	"github.com/etnz/ukcgt/date"
	"go.uber.org/zap/zapcore"
)

func TestDecodeConfig(t *testing.T) {
	cfg, err := DecodeConfig(strings.NewReader(`
baseCurrency: GBP
stopOnFault: true
logLevel: debug
nonResidentPeriods:
  - from: 2019-04-06
    to: 2021-04-05
`))
	if err != nil {
		t.Fatalf("DecodeConfig() error = %v", err)
	}
	if !cfg.StopOnFault {
		t.Errorf("StopOnFault = false, want true")
	}
	if lvl, _ := cfg.Level(); lvl != zapcore.DebugLevel {
		t.Errorf("Level() = %v, want debug", lvl)
	}
	if len(cfg.NonResidentPeriods) != 1 {
		t.Fatalf("got %d periods, want 1", len(cfg.NonResidentPeriods))
	}
	if got := cfg.TaxableStatusOf(date.New(2020, 1, 1)); got != NonTaxable {
		t.Errorf("TaxableStatusOf(2020-01-01) = %v, want %v", got, NonTaxable)
	}
	if got := cfg.TaxableStatusOf(date.New(2021, 4, 6)); got != Taxable {
		t.Errorf("TaxableStatusOf(2021-04-06) = %v, want %v", got, Taxable)
	}
}

func TestDecodeConfig_Defaults(t *testing.T) {
	cfg, err := DecodeConfig(strings.NewReader(""))
	if err != nil {
		t.Fatalf("DecodeConfig() error = %v", err)
	}
	if cfg.BaseCurrency != "GBP" || cfg.StopOnFault {
		t.Errorf("DecodeConfig(\"\") = %+v, want the defaults", cfg)
	}
}

func TestDecodeConfig_Invalid(t *testing.T) {
	testCases := []string{
		"baseCurrency: XXXX",
		"logLevel: loud",
		"nonResidentPeriods: [{from: 2021-01-01, to: 2020-01-01}]",
		"unknownKey: 1",
	}
	for _, tc := range testCases {
		if _, err := DecodeConfig(strings.NewReader(tc)); err == nil {
			t.Errorf("DecodeConfig(%q) want an error", tc)
		}
	}
}

func TestLoadConfig_NoFile(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(\"\") error = %v", err)
	}
	if cfg.BaseCurrency != "GBP" {
		t.Errorf("BaseCurrency = %q, want GBP", cfg.BaseCurrency)
	}
}

func TestConfig_Level(t *testing.T) {
	testCases := []struct {
		level string
		want  zapcore.Level
	}{
		{"", zapcore.WarnLevel},
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"error", zapcore.ErrorLevel},
		{"dpanic", zapcore.DPanicLevel},
	}
	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			got, err := Config{LogLevel: tc.level}.Level()
			if err != nil {
				t.Fatalf("Level() error = %v", err)
			}
			if got != tc.want {
				t.Errorf("Level() = %v, want %v", got, tc.want)
			}
		})
	}
	if _, err := (Config{LogLevel: "loud"}).Level(); err == nil {
		t.Errorf("Level() with an unknown name want an error")
	}
}

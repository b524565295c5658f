package ukcgt

import (
	"context"
	"testing"

	"github.com/etnz/ukcgt/date"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

// GBP is a helper for test to create pound money from const
func GBP(v float64) Money { return M(v, "GBP") }

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// usdAt is an amount in dollars converted to pounds at rate.
func usdAt(v, rate float64) DescribedMoney {
	return NewDescribedMoney(USD(v), decimal.NewFromFloat(rate), "")
}

// gbp is an amount already in pounds.
func gbp(v float64) DescribedMoney { return NewDescribedMoney(GBP(v), decimal.Zero, "") }

func buy(asset, on string, qty float64, gross DescribedMoney, expenses ...DescribedMoney) *Trade {
	return NewTrade(asset, date.MustParseTime(on), Acquisition, Q(qty), gross, expenses...)
}

func sell(asset, on string, qty float64, gross DescribedMoney, expenses ...DescribedMoney) *Trade {
	return NewTrade(asset, date.MustParseTime(on), Disposal, Q(qty), gross, expenses...)
}

func split(asset, on string, to, from int64) *StockSplit {
	return NewStockSplit(asset, date.MustParseTime(on), to, from)
}

func rename(oldAsset, newAsset, on string) *SymbolChange {
	return NewSymbolChange(oldAsset, newAsset, date.MustParseTime(on))
}

// calculate runs a calculator over events with cfg.
func calculate(t *testing.T, cfg Config, events ...any) (*Calculator, error) {
	t.Helper()
	ev := NewTaxEvents()
	if _, err := ev.Add(events...); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	calc := NewCalculator(ev, cfg, nil)
	_, err := calc.CalculateTax(context.Background())
	return calc, err
}

// matchSummary is the comparable part of a match record.
type matchSummary struct {
	Type        MatchType
	Asset       string
	Acquisition Quantity
	Disposal    Quantity
	Cost        Money
	Proceed     Money
}

func summarize(history []*TradeMatch) []matchSummary {
	var res []matchSummary
	for _, m := range history {
		res = append(res, matchSummary{m.MatchType, m.AssetName, m.AcquisitionQuantity, m.DisposalQuantity, m.AllowableCost, m.DisposalProceed})
	}
	return res
}

var cmpDecimals = cmp.Options{
	cmp.Comparer(func(a, b Quantity) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b Money) bool { return a.Equal(b) }),
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

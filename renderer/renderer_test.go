package renderer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/etnz/ukcgt"
	"github.com/etnz/ukcgt/date"
	"github.com/shopspring/decimal"
)

func gbp(v float64) ukcgt.DescribedMoney {
	return ukcgt.NewDescribedMoney(ukcgt.M(v, "GBP"), decimal.Zero, "")
}

// calculate runs the rules over a small history spanning two tax years.
func calculate(t *testing.T) *ukcgt.Calculator {
	t.Helper()
	events := ukcgt.NewTaxEvents()
	_, err := events.Add(
		ukcgt.NewTrade("ABC", date.MustParseTime("2022-01-10"), ukcgt.Acquisition, ukcgt.Q(100), gbp(1000)),
		ukcgt.NewStockSplit("ABC", date.MustParseTime("2022-02-01"), 2, 1),
		ukcgt.NewTrade("ABC", date.MustParseTime("2022-03-01"), ukcgt.Disposal, ukcgt.Q(50), gbp(400)),
		ukcgt.NewTrade("ABC", date.MustParseTime("2022-05-01"), ukcgt.Disposal, ukcgt.Q(50), gbp(600)),
	)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	calc := ukcgt.NewCalculator(events, ukcgt.DefaultConfig(), nil)
	if _, err := calc.CalculateTax(context.Background()); err != nil {
		t.Fatalf("CalculateTax() error = %v", err)
	}
	return calc
}

func TestMatchesMarkdown(t *testing.T) {
	calc := calculate(t)
	md := MatchesMarkdown(calc.Events().Trades, nil)

	for _, want := range []string{
		"# Capital Gains Report",
		"## Tax Year 2021/22",
		"## Tax Year 2022/23",
		"| 2022-03-01 | ABC | Section 104 | 50 | £400.00 | £250.00 | +£150.00 |  |",
		"| 2022-05-01 | ABC | Section 104 | 50 | £600.00 | £250.00 | +£350.00 |  |",
		"| **Total** | | | | **£600.00** | **£250.00** | **+£350.00** | |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("MatchesMarkdown() does not contain %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "Integrity Faults") {
		t.Errorf("MatchesMarkdown() has a fault section without faults")
	}
}

func TestMatchesMarkdown_Faults(t *testing.T) {
	md := MatchesMarkdown(nil, []error{errors.New("pool underflow: SECTION_104 for ABC")})
	for _, want := range []string{"No disposal.", "## Integrity Faults", "- pool underflow: SECTION_104 for ABC"} {
		if !strings.Contains(md, want) {
			t.Errorf("MatchesMarkdown() does not contain %q:\n%s", want, md)
		}
	}
}

func TestRenderPools(t *testing.T) {
	calc := calculate(t)
	md := RenderPools(NewPools(calc.Pools(), ""))

	for _, want := range []string{
		"# Section 104 Pools",
		"## ABC",
		"Quantity: 100, cost: £500.00, average cost: £5.00",
		"| 2022-01-10 | 100 | +£1,000.00 | 100 | £1,000.00 | acquisition |",
		"| 2022-02-01 | 100 | - | 200 | £1,000.00 | ABC split 2 for 1 on 2022-02-01 |",
		"| 2022-03-01 | -50 | -£250.00 | 150 | £750.00 | disposal |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("RenderPools() does not contain %q:\n%s", want, md)
		}
	}
}

func TestNewPools_Filter(t *testing.T) {
	calc := calculate(t)
	if got := NewPools(calc.Pools(), "XYZ"); len(got) != 0 {
		t.Errorf("NewPools(XYZ) = %v, want none", got)
	}
	if got := NewPools(calc.Pools(), "ABC"); len(got) != 1 || len(got[0].History) != 4 {
		t.Errorf("NewPools(ABC) = %v, want one pool with 4 entries", got)
	}
}

func TestRenderPools_Empty(t *testing.T) {
	if md := RenderPools(nil); !strings.Contains(md, "No pool.") {
		t.Errorf("RenderPools(nil) = %q", md)
	}
}

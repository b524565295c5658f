package ukcgt

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestStockSplit_ChangeSection104(t *testing.T) {
	testCases := []struct {
		name       string
		split      *StockSplit
		pool       string
		quantity   float64
		wantQty    float64
		wantEvents int
	}{
		{"forward split", split("AAPL", "2020-08-31", 2, 1), "AAPL", 100, 200, 1},
		{"reverse split", split("AAPL", "2020-08-31", 1, 40), "AAPL", 6600, 165, 1},
		{"other asset", split("TSLA", "2020-08-31", 5, 1), "AAPL", 100, 100, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pool := NewSection104(tc.pool)
			pool.Quantity = Q(tc.quantity)
			pool.AcquisitionCost = GBP(1000)

			tc.split.ChangeSection104(pool)

			if !pool.Quantity.Equal(Q(tc.wantQty)) {
				t.Errorf("Quantity = %v, want %v", pool.Quantity, tc.wantQty)
			}
			if !pool.AcquisitionCost.Equal(GBP(1000)) {
				t.Errorf("AcquisitionCost = %v, want unchanged", pool.AcquisitionCost)
			}
			if len(pool.History) != tc.wantEvents {
				t.Fatalf("got %d history entries, want %d", len(pool.History), tc.wantEvents)
			}
			if tc.wantEvents > 0 && !pool.History[0].ValueChange.IsZero() {
				t.Errorf("ValueChange = %v, want zero", pool.History[0].ValueChange)
			}
		})
	}
}

func TestStockSplit_TradeMatching(t *testing.T) {
	s := split("ABC", "2023-02-01", 2, 1)
	before := buy("ABC", "2023-01-10", 100, gbp(1000))
	after := sell("ABC", "2023-02-10", 200, gbp(1500))
	onSplit := sell("ABC", "2023-02-01", 200, gbp(1500))
	otherAsset := sell("DEF", "2023-02-10", 200, gbp(1500))
	alsoAfter := buy("ABC", "2023-03-10", 200, gbp(1500))

	testCases := []struct {
		name           string
		trade1, trade2 *Trade
		wantFactor     string
		wantActions    int
	}{
		{"first before", before, after, "2", 1},
		{"second before", after, before, "0.5", 1},
		{"trade at the split instant is after it", before, onSplit, "2", 1},
		{"both after", after, alsoAfter, "1", 0},
		{"other asset", before, otherAsset, "1", 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			adj := s.TradeMatching(tc.trade1, tc.trade2, NewMatchAdjustment())
			if got := adj.Factor(); !got.Equal(decimal.RequireFromString(tc.wantFactor)) {
				t.Errorf("Factor() = %v, want %v", got, tc.wantFactor)
			}
			if len(adj.CorporateActions) != tc.wantActions {
				t.Errorf("got %d corporate actions, want %d", len(adj.CorporateActions), tc.wantActions)
			}
		})
	}
}

func TestStockSplit_TradeMatchingReverseSplit(t *testing.T) {
	s := split("ABC", "2023-02-01", 1, 40)
	adj := s.TradeMatching(buy("ABC", "2023-01-10", 6600, gbp(1000)), sell("ABC", "2023-02-10", 165, gbp(1500)), NewMatchAdjustment())
	if !adj.Numerator.Equal(decimal.NewFromInt(1)) || !adj.Denominator.Equal(decimal.NewFromInt(40)) {
		t.Errorf("adjustment = %v/%v, want 1/40", adj.Numerator, adj.Denominator)
	}
}

func TestStockSplit_TradeMatchingCompounds(t *testing.T) {
	first := split("ABC", "2023-02-01", 2, 1)
	second := split("ABC", "2023-03-01", 3, 1)
	a := buy("ABC", "2023-01-10", 10, gbp(100))
	d := sell("ABC", "2023-04-10", 60, gbp(150))

	adj := NewMatchAdjustment()
	for _, ca := range []CorporateAction{first, second} {
		adj = ca.TradeMatching(a, d, adj)
	}
	if got := adj.Factor(); !got.Equal(decimal.NewFromInt(6)) {
		t.Errorf("Factor() = %v, want 6", got)
	}
	if len(adj.CorporateActions) != 2 {
		t.Errorf("got %d corporate actions, want 2", len(adj.CorporateActions))
	}
}

func TestMatchAdjustment_DoesNotShareActions(t *testing.T) {
	s1 := split("ABC", "2023-02-01", 2, 1)
	s2 := split("ABC", "2023-03-01", 2, 1)
	a := buy("ABC", "2023-01-10", 10, gbp(100))
	d := sell("ABC", "2023-04-10", 40, gbp(150))

	base := s1.TradeMatching(a, d, NewMatchAdjustment())
	x := s2.TradeMatching(a, d, base)
	y := s2.TradeMatching(a, d, base)
	x.CorporateActions[1] = s1
	if y.CorporateActions[1] != CorporateAction(s2) {
		t.Errorf("adjustments derived from the same base share their actions")
	}
}

func TestCorporateAction_Reason(t *testing.T) {
	testCases := []struct {
		ca   CorporateAction
		want string
	}{
		{split("AAPL", "2020-08-31", 4, 1), "AAPL split 4 for 1 on 2020-08-31"},
		{rename("GNPK", "RDW", "2021-09-02T20:25:00Z"), "GNPK renamed to RDW on 2021-09-02"},
	}
	for _, tc := range testCases {
		if got := tc.ca.Reason(); got != tc.want {
			t.Errorf("Reason() = %q, want %q", got, tc.want)
		}
	}
}

func TestSymbolChange_DoesNotAdjust(t *testing.T) {
	c := rename("GNPK", "RDW", "2021-09-02T20:25:00Z")
	adj := c.TradeMatching(buy("RDW", "2021-06-01", 10, gbp(100)), sell("RDW", "2021-12-01", 10, gbp(100)), NewMatchAdjustment())
	if !adj.Factor().Equal(decimal.NewFromInt(1)) || len(adj.CorporateActions) != 0 {
		t.Errorf("adjustment = %v, want neutral", adj)
	}
	pool := NewSection104("RDW")
	pool.Quantity = Q(10)
	c.ChangeSection104(pool)
	if !pool.Quantity.Equal(Q(10)) || len(pool.History) != 0 {
		t.Errorf("pool changed by a symbol change")
	}
}

func TestStockSplit_Validate(t *testing.T) {
	if err := split("ABC", "2023-01-01", 0, 1).Validate(); err == nil {
		t.Errorf("Validate() of a 0:1 split want an error")
	}
	if err := split("ABC", "2023-01-01", 1, 40).Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

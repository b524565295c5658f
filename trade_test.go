package ukcgt

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTrade_NetProceed(t *testing.T) {
	commission := NewDescribedMoney(USD(10), decimal.NewFromFloat(0.8), "commission")
	stampDuty := NewDescribedMoney(GBP(5), decimal.Zero, "stamp duty")

	testCases := []struct {
		name  string
		trade *Trade
		want  Money
	}{
		{"acquisition adds expenses", buy("ABC", "2023-01-01", 10, usdAt(1000, 0.8), commission, stampDuty), GBP(813)},
		{"disposal subtracts expenses", sell("ABC", "2023-01-01", 10, usdAt(1000, 0.8), commission), GBP(792)},
		{"no expenses", sell("ABC", "2023-01-01", 10, gbp(1000)), GBP(1000)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.trade.NetProceed(); !got.Equal(tc.want) {
				t.Errorf("NetProceed() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTrade_ProportionedCostOrProceed(t *testing.T) {
	tr := buy("ABC", "2023-01-01", 4, gbp(1000), NewDescribedMoney(GBP(20), decimal.Zero, "fees"))
	if got := tr.ProportionedCostOrProceed(Q(1)); !got.Equal(GBP(255)) {
		t.Errorf("ProportionedCostOrProceed(1) = %v, want %v", got, GBP(255))
	}
	if got := tr.ProportionedCostOrProceed(Q(4)); !got.Equal(GBP(1020)) {
		t.Errorf("ProportionedCostOrProceed(4) = %v, want %v", got, GBP(1020))
	}
}

func TestTrade_MatchQuantity(t *testing.T) {
	tr := sell("ABC", "2023-01-01", 10, gbp(100))
	if err := tr.MatchQuantity(Q(4)); err != nil {
		t.Fatalf("MatchQuantity(4) error = %v", err)
	}
	if !tr.UnmatchedQuantity().Equal(Q(6)) || tr.CalculationCompleted() {
		t.Errorf("UnmatchedQuantity() = %v, want 6", tr.UnmatchedQuantity())
	}

	err := tr.MatchQuantity(Q(7))
	if !IsIntegrityError(err) {
		t.Fatalf("MatchQuantity(7) error = %v, want an integrity error", err)
	}
	if !tr.UnmatchedQuantity().Equal(Q(6)) {
		t.Errorf("UnmatchedQuantity() = %v after a rejected match, want 6", tr.UnmatchedQuantity())
	}

	if err := tr.MatchQuantity(Q(-1)); err == nil {
		t.Errorf("MatchQuantity(-1) want an error")
	}
	if err := tr.MatchQuantity(Q(6)); err != nil {
		t.Fatalf("MatchQuantity(6) error = %v", err)
	}
	if !tr.CalculationCompleted() {
		t.Errorf("CalculationCompleted() = false with nothing left")
	}
}

func TestTrade_Day(t *testing.T) {
	a := buy("ABC", "2023-01-01T09:00:00Z", 1, gbp(1))
	b := sell("ABC", "2023-01-01T23:59:00Z", 1, gbp(1))
	if a.Day() != b.Day() {
		t.Errorf("Day() = %v and %v, want the same day", a.Day(), b.Day())
	}
}

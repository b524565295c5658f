package ukcgt

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CorporateAction is a non-trade event that changes the identity, quantity or
// cost basis of a holding. Mergers and bond redemptions are not
// CorporateActions: they reach the engine as ordinary trades tagged with the
// ReasonCorporateAction reason.
//
// The variants are *StockSplit and *SymbolChange.
type CorporateAction interface {
	Asset() string
	When() time.Time
	// Reason is the human readable text attached to matches it adjusts.
	Reason() string
	// Signature identifies the action regardless of how many times a broker
	// reported it.
	Signature() string
	// TradeMatching folds the action into the adjustment of a candidate
	// pair. The factor of the adjustment is in units of trade2 per unit of
	// trade1.
	TradeMatching(trade1, trade2 *Trade, adj MatchAdjustment) MatchAdjustment
	// ChangeSection104 applies the action to a pool. Pools of other assets
	// are left untouched.
	ChangeSection104(pool *Section104)

	setAsset(string)
}

// MatchAdjustment is the running adjustment of a candidate pair. The factor
// is kept as a fraction so that reverse splits such as 1:3 stay exact.
type MatchAdjustment struct {
	Numerator        decimal.Decimal
	Denominator      decimal.Decimal
	CorporateActions []CorporateAction
}

// NewMatchAdjustment returns the neutral adjustment.
func NewMatchAdjustment() MatchAdjustment {
	return MatchAdjustment{Numerator: decimal.NewFromInt(1), Denominator: decimal.NewFromInt(1)}
}

// Factor returns Numerator/Denominator.
func (adj MatchAdjustment) Factor() decimal.Decimal { return adj.Numerator.Div(adj.Denominator) }

// with returns a copy of adj scaled by num/den and recording ca.
func (adj MatchAdjustment) with(num, den int64, ca CorporateAction) MatchAdjustment {
	actions := make([]CorporateAction, len(adj.CorporateActions), len(adj.CorporateActions)+1)
	copy(actions, adj.CorporateActions)
	return MatchAdjustment{
		Numerator:        adj.Numerator.Mul(decimal.NewFromInt(num)),
		Denominator:      adj.Denominator.Mul(decimal.NewFromInt(den)),
		CorporateActions: append(actions, ca),
	}
}

// actionBase holds the fields shared by all variants.
type actionBase struct {
	AssetName string
	Date      time.Time
}

func (a *actionBase) Asset() string        { return a.AssetName }
func (a *actionBase) When() time.Time      { return a.Date }
func (a *actionBase) setAsset(name string) { a.AssetName = name }

// StockSplit turns every SplitFrom units held into SplitTo units. The cost
// basis is unchanged. A reverse split (consolidation) has SplitTo < SplitFrom.
type StockSplit struct {
	actionBase
	SplitTo   int64
	SplitFrom int64
}

// NewStockSplit returns a split of asset effective at on.
func NewStockSplit(asset string, on time.Time, splitTo, splitFrom int64) *StockSplit {
	return &StockSplit{actionBase: actionBase{AssetName: asset, Date: on}, SplitTo: splitTo, SplitFrom: splitFrom}
}

// Ratio returns SplitTo/SplitFrom.
func (s *StockSplit) Ratio() decimal.Decimal {
	return decimal.NewFromInt(s.SplitTo).Div(decimal.NewFromInt(s.SplitFrom))
}

func (s *StockSplit) Reason() string {
	return fmt.Sprintf("%s split %d for %d on %s", s.AssetName, s.SplitTo, s.SplitFrom, s.Date.Format(time.DateOnly))
}

func (s *StockSplit) Signature() string {
	return fmt.Sprintf("SPLIT|%d|%s|%d|%d", s.Date.Unix(), s.AssetName, s.SplitTo, s.SplitFrom)
}

// Validate checks the split ratio.
func (s *StockSplit) Validate() error {
	if s.SplitTo <= 0 || s.SplitFrom <= 0 {
		return fmt.Errorf("split of %s on %s: ratio %d:%d must be positive", s.AssetName, s.Date.Format(time.DateOnly), s.SplitTo, s.SplitFrom)
	}
	return nil
}

// TradeMatching scales the factor when exactly one of the trades predates
// the split.
func (s *StockSplit) TradeMatching(trade1, trade2 *Trade, adj MatchAdjustment) MatchAdjustment {
	if trade1.AssetName != s.AssetName || trade2.AssetName != s.AssetName {
		return adj
	}
	before1, before2 := trade1.Date.Before(s.Date), trade2.Date.Before(s.Date)
	switch {
	case before1 && !before2:
		return adj.with(s.SplitTo, s.SplitFrom, s)
	case before2 && !before1:
		return adj.with(s.SplitFrom, s.SplitTo, s)
	default:
		return adj
	}
}

func (s *StockSplit) ChangeSection104(pool *Section104) {
	if pool.AssetName != s.AssetName {
		return
	}
	pool.ApplySplit(s.Date, s.SplitTo, s.SplitFrom, s.Reason())
}

// SymbolChange renames an asset, typically on a CUSIP/ISIN change such as
// a de-SPAC. Quantities and cost basis are unchanged; the rename itself is
// applied by ApplySymbolChanges.
type SymbolChange struct {
	actionBase
	OldAssetName string
}

// NewSymbolChange returns the rename of oldAsset into newAsset at on.
func NewSymbolChange(oldAsset, newAsset string, on time.Time) *SymbolChange {
	return &SymbolChange{actionBase: actionBase{AssetName: newAsset, Date: on}, OldAssetName: oldAsset}
}

func (c *SymbolChange) Reason() string {
	return fmt.Sprintf("%s renamed to %s on %s", c.OldAssetName, c.AssetName, c.Date.Format(time.DateOnly))
}

func (c *SymbolChange) Signature() string {
	return fmt.Sprintf("SYMBOLCHANGE|%d|%s|%s", c.Date.Unix(), c.OldAssetName, c.AssetName)
}

func (c *SymbolChange) TradeMatching(_, _ *Trade, adj MatchAdjustment) MatchAdjustment { return adj }

func (c *SymbolChange) ChangeSection104(*Section104) {}

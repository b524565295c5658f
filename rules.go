package ukcgt

import (
	"context"
	"slices"
)

// bedAndBreakfastDays is the length of the window after a disposal in which
// a repurchase is matched with it.
const bedAndBreakfastDays = 30

// Matcher records matches on behalf of the rule sequence. Implementations
// only return an error when the sequence must stop; faults they can live
// with are recorded on their side.
type Matcher interface {
	// MatchTrade matches an acquisition with a disposal, in either order.
	MatchTrade(trade1, trade2 *Trade, matchType MatchType) error
	// MatchPool absorbs an acquisition into the pool, or matches a disposal
	// against it.
	MatchPool(trade *Trade, pool *Section104) error
	// ApplyCorporateAction lets ca change the pool.
	ApplyCorporateAction(ca CorporateAction, pool *Section104)
}

// ApplyUkTaxRuleSequence runs the UK matching rules over every asset: same
// day first, then the 30 days "bed and breakfast" rule, then the Section
// 104 pool. The acquisitions of a day, and the disposals of a day, are
// first pooled into a single trade at their average cost or proceed, and
// the matches of that trade are spread back onto its members at the end.
// Within each rule trades are visited in chronological order, and a trade
// is only visited while it has an unmatched quantity.
func ApplyUkTaxRuleSequence(ctx context.Context, m Matcher, events *TaxEvents, pools *Section104Pools) error {
	for _, asset := range events.Assets() {
		if err := ctx.Err(); err != nil {
			return err
		}
		actions := actionsOf(events, asset)
		trades := groupSameDay(slices.Collect(events.TradesOf(asset)), actions)
		if err := matchSameDay(m, trades); err != nil {
			return err
		}
		if err := matchBedAndBreakfast(m, trades); err != nil {
			return err
		}
		if err := matchSection104(m, trades, actions, pools.GetExistingOrInitialise(asset)); err != nil {
			return err
		}
		for _, t := range trades {
			if err := t.spreadMatches(); err != nil {
				return err
			}
		}
	}
	return nil
}

// matchSameDay matches disposals with acquisitions of the same calendar day.
func matchSameDay(m Matcher, trades []*Trade) error {
	return matchWithin(m, trades, SameDay, func(disposal, acquisition *Trade) bool {
		return disposal.Day() == acquisition.Day()
	})
}

// matchBedAndBreakfast matches disposals with acquisitions made in the 30
// days that follow them.
func matchBedAndBreakfast(m Matcher, trades []*Trade) error {
	return matchWithin(m, trades, BedAndBreakfast, func(disposal, acquisition *Trade) bool {
		days := acquisition.Day().Sub(disposal.Day())
		return days > 0 && days <= bedAndBreakfastDays
	})
}

// matchWithin matches every disposal, oldest first, with the acquisitions
// accepted by eligible, oldest first.
func matchWithin(m Matcher, trades []*Trade, matchType MatchType, eligible func(disposal, acquisition *Trade) bool) error {
	for _, disposal := range trades {
		if disposal.Direction != Disposal {
			continue
		}
		for _, acquisition := range trades {
			if disposal.CalculationCompleted() {
				break
			}
			if acquisition.Direction != Acquisition || acquisition.CalculationCompleted() || !eligible(disposal, acquisition) {
				continue
			}
			if err := m.MatchTrade(disposal, acquisition, matchType); err != nil {
				return err
			}
		}
	}
	return nil
}

// matchSection104 walks the trades and the corporate actions of one asset in
// chronological order. An action is applied to the pool once, before the
// first trade dated on or after it.
func matchSection104(m Matcher, trades []*Trade, actions []CorporateAction, pool *Section104) error {
	next := 0
	for _, t := range trades {
		for ; next < len(actions) && !actions[next].When().After(t.Date); next++ {
			m.ApplyCorporateAction(actions[next], pool)
		}
		if t.CalculationCompleted() {
			continue
		}
		if err := m.MatchPool(t, pool); err != nil {
			return err
		}
	}
	for ; next < len(actions); next++ {
		m.ApplyCorporateAction(actions[next], pool)
	}
	return nil
}

// actionsOf returns the corporate actions of asset in chronological order.
func actionsOf(events *TaxEvents, asset string) []CorporateAction {
	var actions []CorporateAction
	for _, ca := range events.CorporateActions {
		if ca.Asset() == asset {
			actions = append(actions, ca)
		}
	}
	return actions
}

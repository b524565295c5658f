package ukcgt

import (
	"fmt"

	"github.com/etnz/ukcgt/date"
	"github.com/shopspring/decimal"
)

// sameDayKey identifies the trades that are treated as a single
// transaction: same day, same direction, and no corporate action of the
// asset between them.
type sameDayKey struct {
	day       date.Date
	direction Direction
	epoch     int
}

// groupSameDay returns the trades of a single asset with all the
// acquisitions of a day pooled into one trade, and all the disposals of a
// day into another, at their average cost or proceed. Trades alone in
// their group are returned as is. The result is in the chronological order
// of the first member of each group.
func groupSameDay(trades []*Trade, actions []CorporateAction) []*Trade {
	var keys []sameDayKey
	members := make(map[sameDayKey][]*Trade)
	for _, t := range trades {
		k := sameDayKey{day: t.Day(), direction: t.Direction, epoch: epochOf(t, actions)}
		if _, ok := members[k]; !ok {
			keys = append(keys, k)
		}
		members[k] = append(members[k], t)
	}
	res := make([]*Trade, 0, len(keys))
	for _, k := range keys {
		res = append(res, newGroupTrade(members[k]))
	}
	return res
}

// epochOf counts the actions dated on or before t.
func epochOf(t *Trade, actions []CorporateAction) int {
	n := 0
	for _, ca := range actions {
		if !ca.When().After(t.Date) {
			n++
		}
	}
	return n
}

// newGroupTrade returns the trade standing for members. Amounts are summed
// in the base currency.
func newGroupTrade(members []*Trade) *Trade {
	first := members[0]
	if len(members) == 1 {
		return first
	}
	qty, gross, expenses := Quantity{}, BaseZero(), BaseZero()
	for _, m := range members {
		qty = qty.Add(m.UnmatchedQuantity())
		gross = gross.Add(m.GrossProceed.BaseCurrencyAmount())
		expenses = expenses.Add(m.TotalExpenses())
	}
	var fees []DescribedMoney
	if !expenses.IsZero() {
		fees = append(fees, NewDescribedMoney(expenses, decimal.Zero, "same day expenses"))
	}
	g := NewTrade(first.AssetName, first.Date, first.Direction, qty, NewDescribedMoney(gross, decimal.Zero, ""), fees...)
	g.Reason = first.Reason
	g.Option = first.Option
	g.Description = fmt.Sprintf("%d trades on %s", len(members), first.Day())
	g.Members = members
	return g
}

// spreadMatches copies the match history of a group trade onto its
// members. Members take units in chronological order; money and the
// quantity of the other side follow pro rata, so every member is matched
// at the average of the group.
func (t *Trade) spreadMatches() error {
	if len(t.Members) == 0 {
		return nil
	}
	i := 0
	for _, rec := range t.MatchHistory {
		left := rec
		remaining := rec.quantityFor(t.Direction)
		for remaining.IsPositive() && i < len(t.Members) {
			m := t.Members[i]
			q := MinQ(remaining, m.UnmatchedQuantity())
			part := left
			if q.LessThan(remaining) {
				part, left = left.split(q, t.Direction)
			}
			if err := m.MatchQuantity(q); err != nil {
				return err
			}
			m.MatchHistory = append(m.MatchHistory, part)
			remaining = remaining.Sub(q)
			if m.CalculationCompleted() {
				i++
			}
		}
	}
	return nil
}

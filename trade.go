package ukcgt

import (
	"fmt"
	"time"

	"github.com/etnz/ukcgt/date"
)

// Direction tells whether a trade brings units in or takes them out.
type Direction int

const (
	Acquisition Direction = iota + 1
	Disposal
)

func (d Direction) String() string {
	switch d {
	case Acquisition:
		return "acquisition"
	case Disposal:
		return "disposal"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// TradeReason tags where a trade comes from.
type TradeReason string

const (
	ReasonOrdered         TradeReason = "ordered"
	ReasonCorporateAction TradeReason = "corporate-action"
	ReasonOptionAssigned  TradeReason = "option-assigned"
	ReasonOptionExercised TradeReason = "option-exercised"
	ReasonExpired         TradeReason = "expired"
)

// PutCall is the right an option contract grants.
type PutCall string

const (
	Put  PutCall = "put"
	Call PutCall = "call"
)

// OptionContract holds the contract terms of an option trade. Warrants
// received in a merger are call contracts with a multiplier of 1.
type OptionContract struct {
	Underlying string
	Strike     Money
	Expiry     date.Date
	Multiplier Quantity
	PutCall    PutCall
}

// Trade is a single order, or a transaction derived from a corporate action
// such as a merger or a bond redemption.
//
// Everything but the unmatched quantity and the match history is set once
// when the trade is created. AssetName may only be changed by
// ApplySymbolChanges.
type Trade struct {
	AssetName    string
	Date         time.Time
	Direction    Direction
	Quantity     Quantity
	GrossProceed DescribedMoney
	Expenses     []DescribedMoney
	Reason       TradeReason
	Description  string
	Option       *OptionContract // nil for stocks

	// Members lists the trades of the same day pooled into this one, nil
	// for a trade that was not grouped.
	Members []*Trade

	unmatched    Quantity
	MatchHistory []*TradeMatch
}

// NewTrade creates a trade with its whole quantity still to be matched.
func NewTrade(asset string, on time.Time, dir Direction, qty Quantity, gross DescribedMoney, expenses ...DescribedMoney) *Trade {
	return &Trade{
		AssetName:    asset,
		Date:         on,
		Direction:    dir,
		Quantity:     qty,
		GrossProceed: gross,
		Expenses:     expenses,
		Reason:       ReasonOrdered,
		unmatched:    qty,
	}
}

// NewOptionTrade creates a trade on an option contract.
func NewOptionTrade(asset string, on time.Time, dir Direction, qty Quantity, gross DescribedMoney, contract OptionContract, expenses ...DescribedMoney) *Trade {
	t := NewTrade(asset, on, dir, qty, gross, expenses...)
	t.Option = &contract
	return t
}

// Day returns the calendar day of the trade.
func (t *Trade) Day() date.Date { return date.Of(t.Date) }

// IsOption reports whether the trade is on an option contract.
func (t *Trade) IsOption() bool { return t.Option != nil }

// UnmatchedQuantity returns the quantity not yet consumed by any match.
func (t *Trade) UnmatchedQuantity() Quantity { return t.unmatched }

// CalculationCompleted reports whether every unit has been matched.
func (t *Trade) CalculationCompleted() bool { return !t.unmatched.IsPositive() }

// MatchQuantity consumes q units of the trade.
func (t *Trade) MatchQuantity(q Quantity) error {
	if q.IsNegative() {
		return fmt.Errorf("cannot match a negative quantity %v on %s trade of %s on %s", q, t.Direction, t.AssetName, t.Date.Format(time.DateTime))
	}
	if q.GreaterThan(t.unmatched) {
		return &IntegrityError{
			Kind:        NegativeUnmatched,
			Asset:       t.AssetName,
			Acquisition: side(t, Acquisition, q),
			Disposal:    side(t, Disposal, q),
		}
	}
	t.unmatched = t.unmatched.Sub(q)
	return nil
}

// TotalExpenses returns the sum of expenses in the base currency.
func (t *Trade) TotalExpenses() Money {
	total := BaseZero()
	for _, e := range t.Expenses {
		total = total.Add(e.BaseCurrencyAmount())
	}
	return total
}

// NetProceed returns the base currency value of the whole trade: the
// allowable cost (gross plus expenses) of an acquisition, or the net
// proceed (gross minus expenses) of a disposal.
func (t *Trade) NetProceed() Money {
	gross := t.GrossProceed.BaseCurrencyAmount()
	if t.Direction == Acquisition {
		return gross.Add(t.TotalExpenses())
	}
	return gross.Sub(t.TotalExpenses())
}

// ProportionedCostOrProceed returns the share of NetProceed attributable to
// q units of the trade.
func (t *Trade) ProportionedCostOrProceed(q Quantity) Money {
	if t.Quantity.IsZero() {
		return BaseZero()
	}
	return t.NetProceed().Mul(q).Div(t.Quantity)
}

// MatchedQuantity returns the quantity consumed by the match history, on
// this trade's side of each match.
func (t *Trade) MatchedQuantity() Quantity {
	var sum Quantity
	for _, m := range t.MatchHistory {
		sum = sum.Add(m.quantityFor(t.Direction))
	}
	return sum
}

func (t *Trade) String() string {
	kind := "stock"
	if t.IsOption() {
		kind = "option"
	}
	return fmt.Sprintf("%s %s %s %v %s", t.Date.Format(time.DateTime), t.Direction, kind, t.Quantity, t.AssetName)
}

// side returns a fault description of t when it has direction dir, and an
// empty one otherwise.
func side(t *Trade, dir Direction, q Quantity) FaultSide {
	if t.Direction != dir {
		return FaultSide{}
	}
	return FaultSide{Date: t.Date, Total: t.Quantity, Unmatched: t.unmatched, Match: q}
}

package ukcgt

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
)

// TaxEvents is the collection of trades and corporate actions of one run.
// It owns the trades and the actions; the engine mutates them in place.
type TaxEvents struct {
	Trades           []*Trade
	CorporateActions []CorporateAction

	signatures map[string]struct{}
	duplicates int
}

// NewTaxEvents returns an empty collection.
func NewTaxEvents() *TaxEvents {
	return &TaxEvents{signatures: make(map[string]struct{})}
}

// Add appends trades and corporate actions. Corporate actions whose
// signature is already known are dropped, so that an action reported twice
// by a broker is only applied once. It returns the number of dropped
// duplicates.
func (e *TaxEvents) Add(events ...any) (int, error) {
	if e.signatures == nil {
		e.signatures = make(map[string]struct{})
	}
	dropped := 0
	for _, ev := range events {
		switch v := ev.(type) {
		case *Trade:
			if v.Direction != Acquisition && v.Direction != Disposal {
				return dropped, fmt.Errorf("trade %v has no direction", v)
			}
			if !v.Quantity.IsPositive() {
				return dropped, fmt.Errorf("trade %v must have a positive quantity", v)
			}
			e.Trades = append(e.Trades, v)
		case *StockSplit:
			if err := v.Validate(); err != nil {
				return dropped, err
			}
			if !e.addAction(v) {
				dropped++
			}
		case *SymbolChange:
			if v.OldAssetName == "" || v.AssetName == "" {
				return dropped, fmt.Errorf("symbol change on %v needs both an old and a new asset name", v.Date)
			}
			if !e.addAction(v) {
				dropped++
			}
		default:
			return dropped, fmt.Errorf("unsupported tax event %T", ev)
		}
	}
	e.sort()
	e.duplicates += dropped
	return dropped, nil
}

// Duplicates returns the number of corporate actions dropped so far because
// they were already known.
func (e *TaxEvents) Duplicates() int { return e.duplicates }

func (e *TaxEvents) addAction(ca CorporateAction) bool {
	sig := ca.Signature()
	if _, exists := e.signatures[sig]; exists {
		return false
	}
	e.signatures[sig] = struct{}{}
	e.CorporateActions = append(e.CorporateActions, ca)
	return true
}

// sort keeps trades and actions in chronological order. Events at the same
// instant keep their insertion order.
func (e *TaxEvents) sort() {
	slices.SortStableFunc(e.Trades, func(a, b *Trade) int { return a.Date.Compare(b.Date) })
	slices.SortStableFunc(e.CorporateActions, func(a, b CorporateAction) int { return a.When().Compare(b.When()) })
}

// Assets returns the distinct asset names of the trades, sorted.
func (e *TaxEvents) Assets() []string {
	var assets []string
	for _, t := range e.Trades {
		assets = append(assets, t.AssetName)
	}
	slices.Sort(assets)
	return slices.Compact(assets)
}

// TradesOf iterates over the trades of asset in chronological order.
func (e *TaxEvents) TradesOf(asset string) iter.Seq[*Trade] {
	return func(yield func(*Trade) bool) {
		for _, t := range e.Trades {
			if t.AssetName == asset && !yield(t) {
				return
			}
		}
	}
}

// SymbolChanges returns the symbol changes in chronological order.
func (e *TaxEvents) SymbolChanges() []*SymbolChange {
	var changes []*SymbolChange
	for _, ca := range e.CorporateActions {
		if sc, ok := ca.(*SymbolChange); ok {
			changes = append(changes, sc)
		}
	}
	return changes
}

// StockSplits returns the stock splits in chronological order.
func (e *TaxEvents) StockSplits() []*StockSplit {
	var splits []*StockSplit
	for _, ca := range e.CorporateActions {
		if s, ok := ca.(*StockSplit); ok {
			splits = append(splits, s)
		}
	}
	return splits
}

// Disposals returns the disposals, sorted by date then asset name.
func (e *TaxEvents) Disposals() []*Trade {
	var disposals []*Trade
	for _, t := range e.Trades {
		if t.Direction == Disposal {
			disposals = append(disposals, t)
		}
	}
	slices.SortStableFunc(disposals, func(a, b *Trade) int {
		return cmp.Or(a.Date.Compare(b.Date), cmp.Compare(a.AssetName, b.AssetName))
	})
	return disposals
}

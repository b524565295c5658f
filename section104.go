package ukcgt

import (
	"iter"
	"maps"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Section104History records one change of a pool.
type Section104History struct {
	Date           time.Time
	QuantityChange Quantity
	ValueChange    Money // base currency
	NewQuantity    Quantity
	NewValue       Money // base currency
	Explanation    string
	Trade          *Trade // nil for corporate actions
}

// Section104 is the pooled holding of an asset: every unit not identified by
// the same day or the 30 days rule ends up in it at its average cost.
type Section104 struct {
	AssetName       string
	Quantity        Quantity
	AcquisitionCost Money // base currency
	History         []Section104History
}

// NewSection104 returns an empty pool for asset.
func NewSection104(asset string) *Section104 {
	return &Section104{AssetName: asset, AcquisitionCost: BaseZero()}
}

// AverageCost returns the cost of a single unit of the pool.
func (p *Section104) AverageCost() Money {
	if p.Quantity.IsZero() {
		return BaseZero()
	}
	return p.AcquisitionCost.Div(p.Quantity)
}

// AddAssets absorbs qty units costing cost into the pool.
func (p *Section104) AddAssets(trade *Trade, qty Quantity, cost Money) {
	p.Quantity = p.Quantity.Add(qty)
	p.AcquisitionCost = p.AcquisitionCost.Add(cost)
	p.History = append(p.History, Section104History{
		Date:           trade.Date,
		QuantityChange: qty,
		ValueChange:    cost,
		NewQuantity:    p.Quantity,
		NewValue:       p.AcquisitionCost,
		Explanation:    "acquisition",
		Trade:          trade,
	})
}

// RemoveAssets takes qty units out of the pool and returns their share of
// the acquisition cost. The pool is left untouched when it holds less than
// qty.
func (p *Section104) RemoveAssets(trade *Trade, qty Quantity) (Money, error) {
	if qty.GreaterThan(p.Quantity) {
		return BaseZero(), &IntegrityError{
			Kind:      PoolUnderflow,
			MatchType: Section104Match,
			Asset:     p.AssetName,
			Acquisition: FaultSide{
				Date:      trade.Date,
				Total:     p.Quantity,
				Unmatched: p.Quantity,
				Match:     qty,
			},
			Disposal: side(trade, Disposal, qty),
		}
	}
	cost := p.AcquisitionCost
	if qty.LessThan(p.Quantity) {
		cost = p.AcquisitionCost.Mul(qty).Div(p.Quantity)
	}
	p.Quantity = p.Quantity.Sub(qty)
	p.AcquisitionCost = p.AcquisitionCost.Sub(cost)
	p.History = append(p.History, Section104History{
		Date:           trade.Date,
		QuantityChange: qty.Mul(Q(-1)),
		ValueChange:    cost.Neg(),
		NewQuantity:    p.Quantity,
		NewValue:       p.AcquisitionCost,
		Explanation:    "disposal",
		Trade:          trade,
	})
	return cost, nil
}

// ApplySplit turns every splitFrom units of the pool into splitTo units.
// The acquisition cost does not change.
func (p *Section104) ApplySplit(on time.Time, splitTo, splitFrom int64, explanation string) {
	old := p.Quantity
	p.Quantity = p.Quantity.Scale(decimal.NewFromInt(splitTo)).Unscale(decimal.NewFromInt(splitFrom))
	p.History = append(p.History, Section104History{
		Date:           on,
		QuantityChange: p.Quantity.Sub(old),
		ValueChange:    BaseZero(),
		NewQuantity:    p.Quantity,
		NewValue:       p.AcquisitionCost,
		Explanation:    explanation,
	})
}

// Section104Pools owns one pool per asset. Pools are only written by the
// rule sequencer and, through ChangeSection104, by corporate actions.
type Section104Pools struct {
	pools map[string]*Section104
}

// NewSection104Pools returns an empty store.
func NewSection104Pools() *Section104Pools {
	return &Section104Pools{pools: make(map[string]*Section104)}
}

// GetExistingOrInitialise returns the pool of asset, creating it empty on
// first use.
func (s *Section104Pools) GetExistingOrInitialise(asset string) *Section104 {
	if p, ok := s.pools[asset]; ok {
		return p
	}
	p := NewSection104(asset)
	s.pools[asset] = p
	return p
}

// Get returns the pool of asset if it exists.
func (s *Section104Pools) Get(asset string) (*Section104, bool) {
	p, ok := s.pools[asset]
	return p, ok
}

// Assets iterates over the asset names in alphabetical order.
func (s *Section104Pools) Assets() iter.Seq[string] {
	return slices.Values(slices.Sorted(maps.Keys(s.pools)))
}

// Len returns the number of pools.
func (s *Section104Pools) Len() int { return len(s.pools) }

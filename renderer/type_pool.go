package renderer

import (
	"time"

	"github.com/etnz/ukcgt"
)

// Pool is the rendering view of a Section 104 pool.
// Numbers keep their exact decimal types so that templates can use their
// renderers (SignedString etc.)
type Pool struct {
	Asset       string         `json:"asset"`
	Quantity    ukcgt.Quantity `json:"quantity"`
	Cost        ukcgt.Money    `json:"cost"`
	AverageCost ukcgt.Money    `json:"averageCost"`
	History     []PoolEntry    `json:"history"`
}

// PoolEntry is one line of the pool history.
type PoolEntry struct {
	Date           string         `json:"date"`
	QuantityChange ukcgt.Quantity `json:"quantityChange"`
	ValueChange    ukcgt.Money    `json:"valueChange"`
	NewQuantity    ukcgt.Quantity `json:"newQuantity"`
	NewValue       ukcgt.Money    `json:"newValue"`
	Explanation    string         `json:"explanation"`
}

// NewPools returns the pools of the store in asset order. When asset is not
// empty only its pool is returned.
func NewPools(pools *ukcgt.Section104Pools, asset string) []Pool {
	var res []Pool
	for name := range pools.Assets() {
		if asset != "" && name != asset {
			continue
		}
		p, _ := pools.Get(name)
		res = append(res, NewPool(p))
	}
	return res
}

// NewPool returns the rendering view of p.
func NewPool(p *ukcgt.Section104) Pool {
	pool := Pool{
		Asset:       p.AssetName,
		Quantity:    p.Quantity,
		Cost:        p.AcquisitionCost,
		AverageCost: p.AverageCost(),
	}
	for _, h := range p.History {
		pool.History = append(pool.History, PoolEntry{
			Date:           h.Date.Format(time.DateOnly),
			QuantityChange: h.QuantityChange,
			ValueChange:    h.ValueChange,
			NewQuantity:    h.NewQuantity,
			NewValue:       h.NewValue,
			Explanation:    h.Explanation,
		})
	}
	return pool
}

package ukcgt

import "fmt"

// tradePair puts two trades of opposite directions in canonical order and
// computes quantities that are consistent on both sides once a split
// adjustment is taken into account.
type tradePair struct {
	Acquisition *Trade
	Disposal    *Trade

	// firstIsAcquisition remembers the argument order, the adjustment
	// factor is expressed relative to it.
	firstIsAcquisition bool

	AcquisitionMatchQuantity Quantity
	DisposalMatchQuantity    Quantity
}

// newTradePair orders trade1 and trade2, whatever their argument order.
func newTradePair(trade1, trade2 *Trade) (*tradePair, error) {
	switch {
	case trade1.Direction == Acquisition && trade2.Direction == Disposal:
		return &tradePair{Acquisition: trade1, Disposal: trade2, firstIsAcquisition: true}, nil
	case trade1.Direction == Disposal && trade2.Direction == Acquisition:
		return &tradePair{Acquisition: trade2, Disposal: trade1}, nil
	default:
		return nil, fmt.Errorf("cannot match %v with %v: need one acquisition and one disposal", trade1, trade2)
	}
}

// setAdjustment computes the match quantities for adj, whose factor is
// expressed in units of the second trade per unit of the first one. Each
// side is capped by what its trade has left, so neither can exceed it. A
// side may still round down to zero when the factor is large.
func (p *tradePair) setAdjustment(adj MatchAdjustment) {
	// disposal units per acquisition unit is num/den.
	num, den := adj.Numerator, adj.Denominator
	if !p.firstIsAcquisition {
		num, den = den, num
	}
	acq, disp := p.Acquisition.UnmatchedQuantity(), p.Disposal.UnmatchedQuantity()
	p.AcquisitionMatchQuantity = MinQ(acq, disp.Scale(den).Unscale(num))
	p.DisposalMatchQuantity = MinQ(disp, acq.Scale(num).Unscale(den))
}

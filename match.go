package ukcgt

import (
	"fmt"

	"github.com/etnz/ukcgt/date"
)

// MatchType names the rule that produced a match.
type MatchType string

const (
	SameDay         MatchType = "SAME_DAY"
	BedAndBreakfast MatchType = "BED_AND_BREAKFAST"
	Section104Match MatchType = "SECTION_104"
)

// TaxableStatus tells whether the gain of a match is chargeable.
type TaxableStatus string

const (
	Taxable    TaxableStatus = "TAXABLE"
	NonTaxable TaxableStatus = "NON_TAXABLE"
)

// TradeMatch is the write-once result of matching quantities of an
// acquisition against a disposal. Each side of a match holds its own copy:
// the disposal side carries the allowable cost and the disposal proceed, the
// acquisition side carries zero for both, so that a gain is only ever
// attributed to the disposal.
type TradeMatch struct {
	Date                  date.Date
	AssetName             string
	MatchType             MatchType
	AcquisitionQuantity   Quantity
	DisposalQuantity      Quantity
	AllowableCost         Money  // base currency
	DisposalProceed       Money  // base currency
	AcquisitionTrade      *Trade // nil when the acquisition side is the Section 104 pool
	DisposalTrade         *Trade // nil when an acquisition is absorbed into the pool
	AdditionalInformation string
	Taxable               TaxableStatus
}

// Gain returns the disposal proceed minus the allowable cost.
func (m *TradeMatch) Gain() Money { return m.DisposalProceed.Sub(m.AllowableCost) }

// withZeroValues returns a copy of m with both money fields set to zero in
// the base currency, every other field is kept verbatim.
func (m TradeMatch) withZeroValues() *TradeMatch {
	m.AllowableCost = BaseZero()
	m.DisposalProceed = BaseZero()
	return &m
}

// quantityFor returns the quantity of the match on the dir side.
func (m *TradeMatch) quantityFor(dir Direction) Quantity {
	if dir == Acquisition {
		return m.AcquisitionQuantity
	}
	return m.DisposalQuantity
}

// split cuts q units off the dir side of m. Money and the other side's
// quantity are shared pro rata. It returns the part and what is left, the
// two adding up to m exactly.
func (m *TradeMatch) split(q Quantity, dir Direction) (part, rest *TradeMatch) {
	side := m.quantityFor(dir)
	share := func(v Quantity) Quantity {
		if v.Equal(side) {
			return q
		}
		return v.Mul(q).Div(side)
	}
	p := *m
	p.AcquisitionQuantity = share(m.AcquisitionQuantity)
	p.DisposalQuantity = share(m.DisposalQuantity)
	p.AllowableCost = m.AllowableCost.Mul(q).Div(side)
	p.DisposalProceed = m.DisposalProceed.Mul(q).Div(side)

	r := *m
	r.AcquisitionQuantity = m.AcquisitionQuantity.Sub(p.AcquisitionQuantity)
	r.DisposalQuantity = m.DisposalQuantity.Sub(p.DisposalQuantity)
	r.AllowableCost = m.AllowableCost.Sub(p.AllowableCost)
	r.DisposalProceed = m.DisposalProceed.Sub(p.DisposalProceed)
	return &p, &r
}

// MarshalJSON writes the match as a flat object, amounts in the base
// currency.
func (m *TradeMatch) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("taxYear", date.TaxYearOf(m.Date).String())
	w.Append("date", m.Date)
	w.Append("asset", m.AssetName)
	w.Append("matchType", m.MatchType)
	if m.DisposalTrade != nil {
		w.Append("disposalDate", date.FormatTime(m.DisposalTrade.Date))
	}
	if m.AcquisitionTrade != nil {
		w.Append("acquisitionDate", date.FormatTime(m.AcquisitionTrade.Date))
	}
	w.Append("disposalQuantity", m.DisposalQuantity)
	w.Append("acquisitionQuantity", m.AcquisitionQuantity)
	w.Optional("currency", m.AllowableCost.Currency())
	w.Amount("disposalProceed", m.DisposalProceed)
	w.Amount("allowableCost", m.AllowableCost)
	w.Amount("gain", m.Gain())
	w.Append("taxable", m.Taxable)
	w.Optional("information", m.AdditionalInformation)
	return w.MarshalJSON()
}

func (m *TradeMatch) String() string {
	return fmt.Sprintf("%s %s %s acq=%v disp=%v cost=%v proceed=%v", m.Date, m.MatchType, m.AssetName, m.AcquisitionQuantity, m.DisposalQuantity, m.AllowableCost, m.DisposalProceed)
}

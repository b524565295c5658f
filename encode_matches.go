package ukcgt

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/etnz/ukcgt/date"
	"github.com/gocarina/gocsv"
)

// matchRecord is one row of the CSV export. Amounts are plain numbers so
// that spreadsheets read them as such.
type matchRecord struct {
	TaxYear             string `csv:"tax_year"`
	Date                string `csv:"date"`
	Asset               string `csv:"asset"`
	MatchType           string `csv:"match_type"`
	DisposalDate        string `csv:"disposal_date"`
	AcquisitionDate     string `csv:"acquisition_date"`
	DisposalQuantity    string `csv:"disposal_quantity"`
	AcquisitionQuantity string `csv:"acquisition_quantity"`
	DisposalProceed     string `csv:"disposal_proceed"`
	AllowableCost       string `csv:"allowable_cost"`
	Gain                string `csv:"gain"`
	Taxable             string `csv:"taxable"`
	Information         string `csv:"information"`
}

// EncodeMatchesCSV writes one row for every match record of every disposal
// in trades, disposals in chronological order. Amounts are in the base
// currency.
func EncodeMatchesCSV(w io.Writer, trades []*Trade) error {
	records := []*matchRecord{}
	for _, t := range trades {
		if t.Direction != Disposal {
			continue
		}
		for _, m := range t.MatchHistory {
			records = append(records, newMatchRecord(m))
		}
	}
	return gocsv.Marshal(records, w)
}

// EncodeMatchesJSON writes the same matches as EncodeMatchesCSV, one JSON
// object per line.
func EncodeMatchesJSON(w io.Writer, trades []*Trade) error {
	enc := json.NewEncoder(w)
	for _, t := range trades {
		if t.Direction != Disposal {
			continue
		}
		for _, m := range t.MatchHistory {
			if err := enc.Encode(m); err != nil {
				return fmt.Errorf("failed to write match: %w", err)
			}
		}
	}
	return nil
}

func newMatchRecord(m *TradeMatch) *matchRecord {
	r := &matchRecord{
		TaxYear:             date.TaxYearOf(m.Date).String(),
		Date:                m.Date.String(),
		Asset:               m.AssetName,
		MatchType:           string(m.MatchType),
		DisposalQuantity:    m.DisposalQuantity.String(),
		AcquisitionQuantity: m.AcquisitionQuantity.String(),
		DisposalProceed:     m.DisposalProceed.Fixed(),
		AllowableCost:       m.AllowableCost.Fixed(),
		Gain:                m.Gain().Fixed(),
		Taxable:             string(m.Taxable),
		Information:         m.AdditionalInformation,
	}
	if m.DisposalTrade != nil {
		r.DisposalDate = m.DisposalTrade.Date.Format(time.DateTime)
	}
	if m.AcquisitionTrade != nil {
		r.AcquisitionDate = m.AcquisitionTrade.Date.Format(time.DateTime)
	}
	return r
}

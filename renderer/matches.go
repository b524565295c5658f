package renderer

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/etnz/ukcgt"
	"github.com/etnz/ukcgt/date"
)

// MatchesMarkdown renders the match history of every disposal, grouped by
// UK tax year, followed by the integrity faults of the run if any.
func MatchesMarkdown(trades []*ukcgt.Trade, faults []error) string {
	var b strings.Builder

	byYear := make(map[date.TaxYear][]*ukcgt.TradeMatch)
	for _, t := range trades {
		if t.Direction != ukcgt.Disposal {
			continue
		}
		for _, m := range t.MatchHistory {
			year := date.TaxYearOf(m.Date)
			byYear[year] = append(byYear[year], m)
		}
	}
	years := make([]date.TaxYear, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	slices.Sort(years)

	fmt.Fprint(&b, "# Capital Gains Report\n\n")
	if len(years) == 0 {
		fmt.Fprint(&b, "No disposal.\n\n")
	}
	for _, year := range years {
		writeTaxYear(&b, year, byYear[year])
	}

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Integrity Faults\n\n")
		for _, err := range faults {
			fmt.Fprintf(w, "- %v\n", err)
		}
		fmt.Fprintln(w)
		return len(faults) > 0
	})
	return b.String()
}

func writeTaxYear(w io.Writer, year date.TaxYear, matches []*ukcgt.TradeMatch) {
	fmt.Fprintf(w, "## Tax Year %s\n\n", year)
	fmt.Fprintln(w, "| Date | Asset | Rule | Quantity | Proceed | Cost | Gain | Notes |")
	fmt.Fprintln(w, "|:---|:---|:---|---:|---:|---:|---:|:---|")

	proceed, cost, gain := ukcgt.BaseZero(), ukcgt.BaseZero(), ukcgt.BaseZero()
	for _, m := range matches {
		notes := strings.ReplaceAll(m.AdditionalInformation, "\n", "<br>")
		if m.Taxable == ukcgt.NonTaxable {
			notes = strings.TrimPrefix(notes+"<br>non taxable", "<br>")
		} else {
			proceed = proceed.Add(m.DisposalProceed)
			cost = cost.Add(m.AllowableCost)
			gain = gain.Add(m.Gain())
		}
		fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			m.Date,
			m.AssetName,
			ruleName(m.MatchType),
			m.DisposalQuantity,
			m.DisposalProceed,
			m.AllowableCost,
			m.Gain().SignedString(),
			notes,
		)
	}
	fmt.Fprintf(w, "| **%s** | | | | **%s** | **%s** | **%s** | |\n\n",
		"Total",
		proceed,
		cost,
		gain.SignedString(),
	)
}

func ruleName(t ukcgt.MatchType) string {
	switch t {
	case ukcgt.SameDay:
		return "Same day"
	case ukcgt.BedAndBreakfast:
		return "Bed and breakfast"
	case ukcgt.Section104Match:
		return "Section 104"
	default:
		return string(t)
	}
}

package date

import (
	"fmt"
	"time"
)

// TaxYear identifies a UK tax year by the calendar year it starts in:
// TaxYear(2023) runs from 6 April 2023 to 5 April 2024.
type TaxYear int

// TaxYearOf returns the UK tax year that contains d.
func TaxYearOf(d Date) TaxYear {
	if d.Before(New(d.y, time.April, 6)) {
		return TaxYear(d.y - 1)
	}
	return TaxYear(d.y)
}

// Range returns the first and last day of the tax year.
func (y TaxYear) Range() Range {
	return Range{From: New(int(y), time.April, 6), To: New(int(y)+1, time.April, 5)}
}

// String formats the tax year the way HMRC does, e.g. "2023/24".
func (y TaxYear) String() string { return fmt.Sprintf("%d/%02d", int(y), (int(y)+1)%100) }

package date

import "fmt"

// Range represents a range of dates.
type Range struct {
	From Date `yaml:"from" json:"from"`
	To   Date `yaml:"to" json:"to"`
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// String returns "from..to".
func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }

// Validate reports an error when the range is reversed.
func (r Range) Validate() error {
	if r.To.Before(r.From) {
		return fmt.Errorf("invalid range %s: end is before start", r)
	}
	return nil
}

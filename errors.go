package ukcgt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FaultKind classifies data-integrity faults.
type FaultKind string

const (
	// QuantityMismatch: an adjusted match quantity rounds down to nothing.
	QuantityMismatch FaultKind = "quantity mismatch"
	// PoolUnderflow: a disposal needs more units than the Section 104 pool holds.
	PoolUnderflow FaultKind = "pool underflow"
	// NegativeUnmatched: a trade was asked to match more than it has left.
	NegativeUnmatched FaultKind = "negative unmatched quantity"
)

// FaultSide describes one trade of a faulty match attempt. The zero value
// stands for a side that is not a trade (the pool) or is unknown.
type FaultSide struct {
	Date      time.Time
	Total     Quantity
	Unmatched Quantity
	Match     Quantity
}

func (s FaultSide) String() string {
	if s.Date.IsZero() {
		return "n/a"
	}
	return fmt.Sprintf("date=%s total=%v unmatched=%v match=%v", s.Date.Format(time.DateTime), s.Total, s.Unmatched, s.Match)
}

// IntegrityError is raised, before any state is changed, when a match attempt
// would consume more than a trade or a pool holds. It usually means a
// corporate action is missing, or that two corporate actions overlap.
type IntegrityError struct {
	Kind             FaultKind
	MatchType        MatchType
	Asset            string
	Acquisition      FaultSide
	Disposal         FaultSide
	Factor           decimal.Decimal
	CorporateActions []CorporateAction
}

func (e *IntegrityError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s for %s", e.Kind, e.MatchType, e.Asset)
	fmt.Fprintf(&b, " | acquisition: %v | disposal: %v", e.Acquisition, e.Disposal)
	if !e.Factor.IsZero() {
		fmt.Fprintf(&b, " | factor=%v", e.Factor)
	}
	if len(e.CorporateActions) > 0 {
		names := make([]string, 0, len(e.CorporateActions))
		for _, ca := range e.CorporateActions {
			names = append(names, fmt.Sprintf("%T:%s", ca, ca.When().Format(time.DateOnly)))
		}
		fmt.Fprintf(&b, " | corporate actions=%s", strings.Join(names, ", "))
	}
	return b.String()
}

// IsIntegrityError reports whether err wraps an *IntegrityError.
func IsIntegrityError(err error) bool {
	var ie *IntegrityError
	return errors.As(err, &ie)
}

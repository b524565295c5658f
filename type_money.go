package ukcgt

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// BaseCurrency is the currency every cost and proceed is reported in.
var BaseCurrency = "GBP"

// SetBaseCurrency validates and installs the base currency for the process.
func SetBaseCurrency(code string) error {
	if err := ValidateCurrency(code); err != nil {
		return err
	}
	BaseCurrency = code
	return nil
}

// ValidateCurrency checks that code is an ISO 4217 code known to go-money.
func ValidateCurrency(code string) error {
	if money.GetCurrency(code) == nil {
		return fmt.Errorf("unknown currency %q", code)
	}
	return nil
}

// Money represents a monetary value.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// BaseZero returns zero in the base currency.
func BaseZero() Money { return Money{cur: BaseCurrency} }

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the string representation of the money value.
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.Round(0).IntPart())
}

func (m Money) Currency() string                { return m.cur }
func (m Money) Decimal() decimal.Decimal        { return m.value }
func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(amount Money) bool      { return m.value.LessThan(amount.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Mul(n Quantity) Money            { return Money{value: m.value.Mul(n.value), cur: m.cur} }
func (m Money) Div(n Quantity) Money            { return Money{value: m.value.Div(n.value), cur: m.cur} }

// binary operators.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// makes the "" currency totally weak.
func cur(A, B Money) string {
	if A.cur == "" {
		return B.cur
	}
	if B.cur == "" {
		return A.cur
	}
	if A.cur != B.cur {
		panic("currency mismatch " + A.cur + "!=" + B.cur)
	}
	return A.cur
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-"
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

func (m Money) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("currency", m.cur)
	w.Amount("amount", m)
	return w.MarshalJSON()
}

// Fixed returns the plain amount, without symbol, rounded to the currency's
// minor unit.
func (m Money) Fixed() string {
	return m.value.StringFixed(int32(m.currency().Fraction))
}

// DescribedMoney is an amount in its trading currency, with the rate that
// converts it into the base currency.
type DescribedMoney struct {
	Amount      Money
	FxRate      decimal.Decimal // base currency units per unit of Amount
	Description string
}

// NewDescribedMoney returns amount with its fx rate to the base currency.
func NewDescribedMoney(amount Money, fxRate decimal.Decimal, description string) DescribedMoney {
	return DescribedMoney{Amount: amount, FxRate: fxRate, Description: description}
}

// rate returns the fx rate. An unset rate is 1 for an amount already in
// the base currency, and 0 otherwise: a rate is never guessed.
func (d DescribedMoney) rate() decimal.Decimal {
	if d.FxRate.IsZero() && (d.Amount.cur == BaseCurrency || d.Amount.cur == "") {
		return decimal.NewFromInt(1)
	}
	return d.FxRate
}

// BaseCurrencyAmount converts the amount into the base currency.
func (d DescribedMoney) BaseCurrencyAmount() Money {
	return Money{value: d.Amount.value.Mul(d.rate()), cur: BaseCurrency}
}

func (d DescribedMoney) String() string {
	if d.Amount.cur == BaseCurrency || d.Amount.cur == "" {
		return d.Amount.String()
	}
	return fmt.Sprintf("%s @ %s", d.Amount, d.rate())
}

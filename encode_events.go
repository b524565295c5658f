package ukcgt

import (
	"bufio"
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/etnz/ukcgt/date"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// CommandType discriminates the lines of an event file.
type CommandType string

const (
	CmdBuy    CommandType = "buy"
	CmdSell   CommandType = "sell"
	CmdSplit  CommandType = "split"
	CmdRename CommandType = "rename"
)

// baseCmd holds the fields shared by every line.
type baseCmd struct {
	Command CommandType `json:"command"`
	Date    string      `json:"date"`
	Asset   string      `json:"asset"`
}

func (b baseCmd) when() (time.Time, error) { return date.ParseTime(b.Date) }

// amountCmd is a specialized struct to read an amount in three fields.
type amountCmd struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	FxRate   decimal.Decimal `json:"fxRate,omitzero"`
}

// describedMoney returns the amount in its currency, defaulting to the
// currency and rate of the trade it belongs to. An amount in a currency
// other than the base currency must come with its rate.
func (a amountCmd) describedMoney(trade DescribedMoney, description string) (DescribedMoney, error) {
	currency := cmp.Or(a.Currency, trade.Amount.Currency())
	if err := ValidateCurrency(currency); err != nil {
		return DescribedMoney{}, err
	}
	rate := a.FxRate
	if rate.IsZero() && currency == trade.Amount.Currency() {
		rate = trade.FxRate
	}
	if rate.IsNegative() {
		return DescribedMoney{}, fmt.Errorf("fx rate %v must not be negative", rate)
	}
	if rate.IsZero() && currency != BaseCurrency {
		return DescribedMoney{}, fmt.Errorf("amount in %s needs an fx rate to %s", currency, BaseCurrency)
	}
	return NewDescribedMoney(M(a.Amount, currency), rate, description), nil
}

func newAmountCmd(d DescribedMoney) amountCmd {
	return amountCmd{Amount: d.Amount.Decimal(), Currency: d.Amount.Currency(), FxRate: d.FxRate}
}

type expenseCmd struct {
	amountCmd
	Description string `json:"description,omitempty"`
}

type optionCmd struct {
	Underlying     string          `json:"underlying"`
	Strike         decimal.Decimal `json:"strike"`
	StrikeCurrency string          `json:"strikeCurrency,omitempty"`
	Expiry         date.Date       `json:"expiry"`
	Multiplier     Quantity        `json:"multiplier"`
	PutCall        PutCall         `json:"putCall"`
}

// tradeCmd is the line of a buy or a sell.
type tradeCmd struct {
	baseCmd
	Quantity Quantity `json:"quantity"`
	amountCmd
	Expenses []expenseCmd `json:"expenses,omitempty"`
	Reason   TradeReason  `json:"reason,omitempty"`
	Memo     string       `json:"memo,omitempty"`
	Option   *optionCmd   `json:"option,omitempty"`
}

type splitCmd struct {
	baseCmd
	SplitTo   int64 `json:"splitTo"`
	SplitFrom int64 `json:"splitFrom"`
}

type renameCmd struct {
	baseCmd
	OldAsset string `json:"oldAsset"`
}

// DecodeEvents reads a stream of JSONL events, one per line, and returns
// them as a chronologically sorted collection. Empty lines are skipped.
// Errors name the offending line.
func DecodeEvents(r io.Reader) (*TaxEvents, error) {
	events := NewTaxEvents()
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}
		ev, err := decodeEvent(lineBytes)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if _, err := events.Add(ev); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return events, nil
}

func decodeEvent(lineBytes []byte) (any, error) {
	var identifier struct {
		Command CommandType `json:"command"`
	}
	if err := json.Unmarshal(lineBytes, &identifier); err != nil {
		return nil, fmt.Errorf("could not identify command in %q: %w", string(lineBytes), err)
	}

	switch identifier.Command {
	case CmdBuy, CmdSell:
		var temp tradeCmd
		if err := json.Unmarshal(lineBytes, &temp); err != nil {
			return nil, err
		}
		return temp.trade()
	case CmdSplit:
		var temp splitCmd
		if err := json.Unmarshal(lineBytes, &temp); err != nil {
			return nil, err
		}
		on, err := temp.when()
		if err != nil {
			return nil, err
		}
		return NewStockSplit(temp.Asset, on, temp.SplitTo, temp.SplitFrom), nil
	case CmdRename:
		var temp renameCmd
		if err := json.Unmarshal(lineBytes, &temp); err != nil {
			return nil, err
		}
		on, err := temp.when()
		if err != nil {
			return nil, err
		}
		return NewSymbolChange(temp.OldAsset, temp.Asset, on), nil
	default:
		return nil, fmt.Errorf("unknown event command: %q", identifier.Command)
	}
}

func (c tradeCmd) trade() (*Trade, error) {
	if c.Asset == "" {
		return nil, fmt.Errorf("%s has no asset", c.Command)
	}
	on, err := c.when()
	if err != nil {
		return nil, err
	}
	gross, err := c.amountCmd.describedMoney(DescribedMoney{}, "")
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", c.Command, c.Asset, err)
	}
	expenses := make([]DescribedMoney, 0, len(c.Expenses))
	for _, e := range c.Expenses {
		expense, err := e.describedMoney(gross, e.Description)
		if err != nil {
			return nil, fmt.Errorf("%s %s expense: %w", c.Command, c.Asset, err)
		}
		expenses = append(expenses, expense)
	}
	dir := Acquisition
	if c.Command == CmdSell {
		dir = Disposal
	}
	t := NewTrade(c.Asset, on, dir, c.Quantity, gross, expenses...)
	if c.Reason != "" {
		t.Reason = c.Reason
	}
	t.Description = c.Memo
	if c.Option != nil {
		strikeCurrency := cmp.Or(c.Option.StrikeCurrency, gross.Amount.Currency())
		t.Option = &OptionContract{
			Underlying: c.Option.Underlying,
			Strike:     M(c.Option.Strike, strikeCurrency),
			Expiry:     c.Option.Expiry,
			Multiplier: c.Option.Multiplier,
			PutCall:    c.Option.PutCall,
		}
	}
	return t, nil
}

// EncodeEvents writes events in JSONL format, in chronological order. At the
// same instant corporate actions come before trades, which is the order the
// rules see them in.
func EncodeEvents(w io.Writer, events *TaxEvents) error {
	type entry struct {
		when time.Time
		rank int
		v    any
	}
	entries := make([]entry, 0, len(events.Trades)+len(events.CorporateActions))
	for _, ca := range events.CorporateActions {
		entries = append(entries, entry{ca.When(), 0, ca})
	}
	for _, t := range events.Trades {
		entries = append(entries, entry{t.Date, 1, t})
	}
	slices.SortStableFunc(entries, func(a, b entry) int {
		return cmp.Or(a.when.Compare(b.when), cmp.Compare(a.rank, b.rank))
	})
	for _, e := range entries {
		if err := EncodeEvent(w, e.v); err != nil {
			return err
		}
	}
	return nil
}

// EncodeEvent writes a single trade or corporate action as one JSON line.
func EncodeEvent(w io.Writer, ev any) error {
	var v any
	switch e := ev.(type) {
	case *Trade:
		v = newTradeCmd(e)
	case *StockSplit:
		v = splitCmd{
			baseCmd:   baseCmd{Command: CmdSplit, Date: date.FormatTime(e.Date), Asset: e.AssetName},
			SplitTo:   e.SplitTo,
			SplitFrom: e.SplitFrom,
		}
	case *SymbolChange:
		v = renameCmd{
			baseCmd:  baseCmd{Command: CmdRename, Date: date.FormatTime(e.Date), Asset: e.AssetName},
			OldAsset: e.OldAssetName,
		}
	default:
		return fmt.Errorf("unsupported tax event %T", ev)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}

func newTradeCmd(t *Trade) tradeCmd {
	command := CmdBuy
	if t.Direction == Disposal {
		command = CmdSell
	}
	c := tradeCmd{
		baseCmd:   baseCmd{Command: command, Date: date.FormatTime(t.Date), Asset: t.AssetName},
		Quantity:  t.Quantity,
		amountCmd: newAmountCmd(t.GrossProceed),
		Memo:      t.Description,
	}
	if t.Reason != ReasonOrdered {
		c.Reason = t.Reason
	}
	for _, e := range t.Expenses {
		c.Expenses = append(c.Expenses, expenseCmd{amountCmd: newAmountCmd(e), Description: e.Description})
	}
	if o := t.Option; o != nil {
		c.Option = &optionCmd{
			Underlying: o.Underlying,
			Strike:     o.Strike.Decimal(),
			Expiry:     o.Expiry,
			Multiplier: o.Multiplier,
			PutCall:    o.PutCall,
		}
		if o.Strike.Currency() != t.GrossProceed.Amount.Currency() {
			c.Option.StrikeCurrency = o.Strike.Currency()
		}
	}
	return c
}

package ukcgt

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

// Calculator runs the UK matching rules over a set of tax events. It owns
// the Section 104 pools of the run and collects every integrity fault met
// on the way.
type Calculator struct {
	events *TaxEvents
	pools  *Section104Pools
	config Config
	log    *zap.Logger

	faults *multierror.Error
}

// NewCalculator returns a calculator over events. A nil log discards
// diagnostics. The base currency of config, when set, becomes the process
// wide BaseCurrency.
func NewCalculator(events *TaxEvents, config Config, log *zap.Logger) *Calculator {
	if log == nil {
		log = zap.NewNop()
	}
	if config.BaseCurrency != "" && config.BaseCurrency != BaseCurrency {
		if err := SetBaseCurrency(config.BaseCurrency); err != nil {
			log.Error("base currency ignored", zap.String("currency", config.BaseCurrency), zap.Error(err))
		}
	}
	return &Calculator{
		events: events,
		pools:  NewSection104Pools(),
		config: config,
		log:    log,
	}
}

// Pools returns the Section 104 pools, complete once CalculateTax returned.
func (c *Calculator) Pools() *Section104Pools { return c.pools }

// Events returns the events the calculator works on.
func (c *Calculator) Events() *TaxEvents { return c.events }

// CalculateTax normalizes the asset names, then matches every trade. It
// returns the trades with their match history filled in.
//
// Integrity faults do not stop the run unless Config.StopOnFault is set:
// the faulty pair is skipped and the fault is returned, combined with the
// others, once every asset has been processed. The trades and pools are
// still meaningful in that case, minus the skipped matches.
func (c *Calculator) CalculateTax(ctx context.Context) ([]*Trade, error) {
	for _, s := range c.events.StockSplits() {
		c.log.Info("stock split", zap.String("asset", s.AssetName), zap.String("reason", s.Reason()))
	}
	ApplySymbolChanges(c.events, c.log)

	err := ApplyUkTaxRuleSequence(ctx, c, c.events, c.pools)
	if err != nil && !IsIntegrityError(err) {
		return c.events.Trades, err
	}
	return c.events.Trades, c.faults.ErrorOrNil()
}

// MatchTrade matches as many units as possible of trade1 against trade2,
// one of them being an acquisition and the other a disposal. Corporate
// actions between the two trades adjust the quantities on each side.
func (c *Calculator) MatchTrade(trade1, trade2 *Trade, matchType MatchType) error {
	if trade1.CalculationCompleted() || trade2.CalculationCompleted() {
		return nil
	}
	pair, err := newTradePair(trade1, trade2)
	if err != nil {
		return err
	}
	adj := NewMatchAdjustment()
	for _, ca := range c.events.CorporateActions {
		adj = ca.TradeMatching(trade1, trade2, adj)
	}
	pair.setAdjustment(adj)

	acq, disp := pair.Acquisition, pair.Disposal
	if !pair.AcquisitionMatchQuantity.IsPositive() || !pair.DisposalMatchQuantity.IsPositive() {
		return c.fault(&IntegrityError{
			Kind:             QuantityMismatch,
			MatchType:        matchType,
			Asset:            disp.AssetName,
			Acquisition:      side(acq, Acquisition, pair.AcquisitionMatchQuantity),
			Disposal:         side(disp, Disposal, pair.DisposalMatchQuantity),
			Factor:           adj.Factor(),
			CorporateActions: adj.CorporateActions,
		})
	}

	reasons := make([]string, 0, len(adj.CorporateActions))
	for _, ca := range adj.CorporateActions {
		reasons = append(reasons, ca.Reason())
	}
	match := &TradeMatch{
		Date:                  disp.Day(),
		AssetName:             disp.AssetName,
		MatchType:             matchType,
		AcquisitionQuantity:   pair.AcquisitionMatchQuantity,
		DisposalQuantity:      pair.DisposalMatchQuantity,
		AllowableCost:         acq.ProportionedCostOrProceed(pair.AcquisitionMatchQuantity),
		DisposalProceed:       disp.ProportionedCostOrProceed(pair.DisposalMatchQuantity),
		AcquisitionTrade:      acq,
		DisposalTrade:         disp,
		AdditionalInformation: strings.Join(reasons, "\n"),
		Taxable:               c.config.TaxableStatusOf(disp.Day()),
	}
	if err := acq.MatchQuantity(match.AcquisitionQuantity); err != nil {
		return c.fault(err)
	}
	if err := disp.MatchQuantity(match.DisposalQuantity); err != nil {
		return c.fault(err)
	}
	disp.MatchHistory = append(disp.MatchHistory, match)
	acq.MatchHistory = append(acq.MatchHistory, match.withZeroValues())

	c.log.Debug("match",
		zap.String("type", string(matchType)),
		zap.String("asset", match.AssetName),
		zap.Time("acquisition", acq.Date),
		zap.Time("disposal", disp.Date),
		zap.Stringer("acquisitionQuantity", match.AcquisitionQuantity),
		zap.Stringer("disposalQuantity", match.DisposalQuantity),
		zap.Stringer("factor", adj.Factor()))
	return nil
}

// MatchPool absorbs the unmatched units of an acquisition into pool, or
// matches the unmatched units of a disposal against it.
func (c *Calculator) MatchPool(trade *Trade, pool *Section104) error {
	qty := trade.UnmatchedQuantity()
	if !qty.IsPositive() {
		return nil
	}
	match := &TradeMatch{
		Date:                trade.Day(),
		AssetName:           trade.AssetName,
		MatchType:           Section104Match,
		AcquisitionQuantity: qty,
		DisposalQuantity:    qty,
		AllowableCost:       BaseZero(),
		DisposalProceed:     BaseZero(),
		Taxable:             Taxable,
	}
	switch trade.Direction {
	case Acquisition:
		pool.AddAssets(trade, qty, trade.ProportionedCostOrProceed(qty))
		match.DisposalQuantity = Quantity{}
		match.AcquisitionTrade = trade
	case Disposal:
		cost, err := pool.RemoveAssets(trade, qty)
		if err != nil {
			return c.fault(err)
		}
		match.AllowableCost = cost
		match.DisposalProceed = trade.ProportionedCostOrProceed(qty)
		match.DisposalTrade = trade
		match.Taxable = c.config.TaxableStatusOf(trade.Day())
	}
	if err := trade.MatchQuantity(qty); err != nil {
		return c.fault(err)
	}
	trade.MatchHistory = append(trade.MatchHistory, match)
	c.log.Debug("section 104",
		zap.String("asset", trade.AssetName),
		zap.Stringer("direction", trade.Direction),
		zap.Time("date", trade.Date),
		zap.Stringer("quantity", qty),
		zap.Stringer("poolQuantity", pool.Quantity))
	return nil
}

// ApplyCorporateAction applies ca to pool.
func (c *Calculator) ApplyCorporateAction(ca CorporateAction, pool *Section104) {
	before := pool.Quantity
	ca.ChangeSection104(pool)
	if before.Equal(pool.Quantity) {
		return
	}
	c.log.Info("corporate action applied to pool",
		zap.String("asset", pool.AssetName),
		zap.String("reason", ca.Reason()),
		zap.String("on", ca.When().Format(time.DateOnly)),
		zap.Stringer("before", before),
		zap.Stringer("after", pool.Quantity))
}

// fault records err. It returns err when the run must stop.
func (c *Calculator) fault(err error) error {
	var ie *IntegrityError
	if !errors.As(err, &ie) {
		return err
	}
	c.log.Error("integrity fault, match skipped", zap.Error(err))
	c.faults = multierror.Append(c.faults, err)
	if c.config.StopOnFault {
		return err
	}
	return nil
}

// Faults returns the integrity faults met so far.
func (c *Calculator) Faults() []error {
	if c.faults == nil {
		return nil
	}
	return c.faults.Errors
}

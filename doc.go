// Package ukcgt computes UK capital gains by matching disposals with
// acquisitions of the same asset, following the HMRC identification rules:
//
//   - Same Day: a disposal is first matched with acquisitions made on the
//     same calendar day.
//   - Bed and Breakfast: what remains is matched with acquisitions made in
//     the 30 days after the disposal, oldest first.
//   - Section 104: everything else goes through the pooled holding of the
//     asset, at its average cost.
//
// Corporate actions take part in the matching. A stock split rescales the
// quantities of a pair of trades that straddle it, and the Section 104 pool
// that holds the asset. A symbol change renames the history of an asset
// before any matching happens, so that every rule sees a single name.
//
// A typical run decodes events from JSONL with DecodeEvents, then calls
// Calculator.CalculateTax. Every trade comes back with its MatchHistory, and
// Calculator.Pools holds the end-of-run pools. Inconsistent data, such as a
// disposal larger than what was held, is reported as an *IntegrityError
// without changing any trade or pool.
//
// All amounts are converted to the base currency (GBP by default) with the
// rate attached to each amount.
package ukcgt

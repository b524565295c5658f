package ukcgt

import (
	"time"

	"go.uber.org/zap"
)

// ApplySymbolChanges renames, for every symbol change, the trades and the
// other corporate actions dated strictly before the change that still carry
// the old asset name. Events on or after the change are expected to carry
// the new name already.
//
// Changes are applied in date order and the whole pass is repeated until
// nothing is renamed, so that chained renames converge and a second call is
// a no-op. It must complete before any matching starts: pools and rules key
// on the current asset name only. It returns the number of renames.
func ApplySymbolChanges(events *TaxEvents, log *zap.Logger) int {
	if log == nil {
		log = zap.NewNop()
	}
	changes := events.SymbolChanges()
	total := 0
	// A chain of n renames converges in at most n+1 passes.
	for pass := 0; pass <= len(changes); pass++ {
		renamed := 0
		for _, change := range changes {
			renamed += applySymbolChange(events, change, log)
		}
		total += renamed
		if renamed == 0 {
			return total
		}
	}
	log.Warn("symbol changes did not converge, check for cyclic renames", zap.Int("changes", len(changes)))
	return total
}

func applySymbolChange(events *TaxEvents, change *SymbolChange, log *zap.Logger) int {
	if change.OldAssetName == change.AssetName {
		return 0
	}
	renamed := 0
	for _, t := range events.Trades {
		if t.AssetName != change.OldAssetName || !t.Date.Before(change.Date) {
			continue
		}
		log.Info("symbol change: renaming trade",
			zap.String("old", change.OldAssetName),
			zap.String("new", change.AssetName),
			zap.Time("trade", t.Date))
		t.AssetName = change.AssetName
		renamed++
	}
	for _, ca := range events.CorporateActions {
		if ca == CorporateAction(change) || ca.Asset() != change.OldAssetName || !ca.When().Before(change.Date) {
			continue
		}
		log.Info("symbol change: renaming corporate action",
			zap.String("old", change.OldAssetName),
			zap.String("new", change.AssetName),
			zap.String("action", ca.Reason()),
			zap.String("on", ca.When().Format(time.DateOnly)))
		ca.setAsset(change.AssetName)
		renamed++
	}
	return renamed
}

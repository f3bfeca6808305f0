package services

import (
	"context"

	"go.uber.org/zap"

	"dkcal-backend/application/ports"
	"dkcal-backend/domain/catalog"
)

// RecalcService rewrites historical ledger entries after a catalog edit so
// the ledger always reflects the current item definitions. It runs
// synchronously inside the item update, against the post-edit catalog.
type RecalcService struct {
	days   ports.LedgerStore
	logger *zap.Logger
}

// NewRecalcService creates a new recalculation service.
func NewRecalcService(days ports.LedgerStore, logger *zap.Logger) *RecalcService {
	return &RecalcService{days: days, logger: logger}
}

// RecalculateAfterItemChange re-resolves every ledger entry that depends on
// changedID, directly or through composite nesting, and rewrites only the
// days where some entry value actually changed. It returns the number of
// days rewritten.
//
// Failures on individual days are logged and skipped so one bad document
// cannot abort the rest of the sweep; the item update that triggered the
// recalculation has already been persisted either way.
func (s *RecalcService) RecalculateAfterItemChange(ctx context.Context, userID, changedID string, items []catalog.Item) int {
	affected := catalog.AffectedItemIDs(changedID, items)
	idSet := make(map[string]struct{}, len(affected))
	for _, id := range affected {
		idSet[id] = struct{}{}
	}
	snapshot := catalog.NewSnapshot(items)

	dates, err := s.days.ListDayDates(ctx, userID)
	if err != nil {
		s.logger.Error("recalculation aborted, cannot list days",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return 0
	}

	updated := 0
	for _, date := range dates {
		day, err := s.days.ReadDay(ctx, userID, date)
		if err != nil {
			s.logger.Error("recalculation skipped a day",
				zap.String("user_id", userID),
				zap.String("date", date),
				zap.Error(err),
			)
			continue
		}

		changed := false
		for i := range day.Entries {
			e := &day.Entries[i]
			if e.ItemID == "" {
				// Freestanding entries carry their own values and never
				// depend on the catalog.
				continue
			}
			if _, ok := idSet[e.ItemID]; !ok {
				continue
			}
			kcal, protein, fat, carbs := catalog.Resolve(e.ItemID, e.Qty, e.UnitType, snapshot).Frozen()
			if e.Kcal != kcal || e.Protein != protein || e.Fat != fat || e.Carbs != carbs {
				e.Kcal = kcal
				e.Protein = protein
				e.Fat = fat
				e.Carbs = carbs
				changed = true
			}
		}

		if !changed {
			continue
		}
		day.RecomputeTotals()
		if err := s.days.WriteDay(ctx, userID, date, day); err != nil {
			s.logger.Error("recalculation failed to write a day",
				zap.String("user_id", userID),
				zap.String("date", date),
				zap.Error(err),
			)
			continue
		}
		updated++
	}

	if updated > 0 {
		s.logger.Info("recalculated ledger after item change",
			zap.String("user_id", userID),
			zap.String("item_id", changedID),
			zap.Int("affected_items", len(affected)),
			zap.Int("days_updated", updated),
		)
	}
	return updated
}

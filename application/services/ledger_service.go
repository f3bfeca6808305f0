package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dkcal-backend/application/ports"
	"dkcal-backend/domain/catalog"
	"dkcal-backend/domain/ledger"
	"dkcal-backend/pkg/errors"
)

// EntryView is a ledger entry enriched with the display name of its item.
type EntryView struct {
	ledger.Entry
	ItemName string `json:"itemName"`
}

// DayView is the day document as returned to clients.
type DayView struct {
	Date    string        `json:"date"`
	Weight  *float64      `json:"weight"`
	Entries []EntryView   `json:"entries"`
	Totals  ledger.Totals `json:"totals"`
}

// OptionalWeight distinguishes "weight absent from the request" from
// "weight explicitly set to null" in a day update.
type OptionalWeight struct {
	Set   bool
	Value *float64
}

// UnmarshalJSON marks the field as present; a JSON null clears the weight.
func (w *OptionalWeight) UnmarshalJSON(data []byte) error {
	w.Set = true
	if string(data) == "null" {
		w.Value = nil
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	w.Value = &v
	return nil
}

// EntryDraft is the caller-supplied form of a ledger entry. Entries that
// reference the catalog carry an itemId; freestanding entries carry their
// own name and macro values instead.
type EntryDraft struct {
	ID       string       `json:"id"`
	ItemID   string       `json:"itemId"`
	Name     string       `json:"name"`
	Qty      float64      `json:"qty"`
	UnitType catalog.Unit `json:"unitType"`
	Time     string       `json:"time"`
	Kcal     *float64     `json:"kcal"`
	Protein  *float64     `json:"protein"`
	Fat      *float64     `json:"fat"`
	Carbs    *float64     `json:"carbs"`
}

// DayUpdate is the combined mutation applied by a single day write. Any
// subset of the operations may be present; they apply in declaration order.
type DayUpdate struct {
	Weight        OptionalWeight `json:"weight"`
	AddEntry      *EntryDraft    `json:"addEntry"`
	Entries       []EntryDraft   `json:"entries"`
	RemoveEntryID string         `json:"removeEntryId"`
}

// LedgerService implements the day use cases: reading a day with
// name-enriched entries, and the combined update that sets weight, adds,
// replaces or removes entries, and recomputes totals.
type LedgerService struct {
	days    ports.LedgerStore
	catalog ports.CatalogStore
	logger  *zap.Logger
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(days ports.LedgerStore, catalogStore ports.CatalogStore, logger *zap.Logger) *LedgerService {
	return &LedgerService{days: days, catalog: catalogStore, logger: logger}
}

// GetDay returns the day for the given date, enriched with item names. A
// date never written yields the empty default day.
func (s *LedgerService) GetDay(ctx context.Context, userID, date string) (DayView, error) {
	if !ledger.ValidDate(date) {
		return DayView{}, errors.NewValidationError("invalid date format, use YYYY-MM-DD")
	}
	day, err := s.days.ReadDay(ctx, userID, date)
	if err != nil {
		return DayView{}, err
	}
	items, err := s.catalog.ReadItems(ctx, userID)
	if err != nil {
		return DayView{}, err
	}
	return buildDayView(day, catalog.NewSnapshot(items)), nil
}

// UpdateDay applies the combined mutation to the day document and persists
// it as a whole. Entry macros are resolved against the catalog at write time
// and frozen into the stored entries.
func (s *LedgerService) UpdateDay(ctx context.Context, userID, date string, upd DayUpdate) (DayView, error) {
	if !ledger.ValidDate(date) {
		return DayView{}, errors.NewValidationError("invalid date format, use YYYY-MM-DD")
	}

	day, err := s.days.ReadDay(ctx, userID, date)
	if err != nil {
		return DayView{}, err
	}
	items, err := s.catalog.ReadItems(ctx, userID)
	if err != nil {
		return DayView{}, err
	}
	snapshot := catalog.NewSnapshot(items)

	if upd.Weight.Set {
		if upd.Weight.Value != nil && (*upd.Weight.Value <= 0 || *upd.Weight.Value > 500) {
			return DayView{}, errors.NewValidationError("weight must be a positive number up to 500")
		}
		day.Weight = upd.Weight.Value
	}

	if upd.AddEntry != nil {
		entry, err := buildEntry(*upd.AddEntry, snapshot)
		if err != nil {
			return DayView{}, err
		}
		if entry.Time == "" {
			entry.Time = time.Now().Format("15:04")
		}
		day.Entries = append(day.Entries, entry)
	}

	if upd.Entries != nil {
		rebuilt := make([]ledger.Entry, 0, len(upd.Entries))
		for _, draft := range upd.Entries {
			entry, err := buildEntry(draft, snapshot)
			if err != nil {
				return DayView{}, err
			}
			rebuilt = append(rebuilt, entry)
		}
		day.Entries = rebuilt
	}

	if upd.RemoveEntryID != "" {
		day.RemoveEntry(upd.RemoveEntryID)
	}

	day.RecomputeTotals()
	day.Date = date
	if err := s.days.WriteDay(ctx, userID, date, day); err != nil {
		return DayView{}, err
	}

	return buildDayView(day, snapshot), nil
}

// buildEntry materializes a draft into a stored entry with frozen macros.
// Catalog entries resolve against the snapshot; freestanding entries take
// the values supplied in the draft.
func buildEntry(draft EntryDraft, snapshot catalog.Snapshot) (ledger.Entry, error) {
	if draft.Qty <= 0 {
		return ledger.Entry{}, errors.NewValidationError("qty must be positive")
	}
	if !catalog.ValidUnit(draft.UnitType) {
		return ledger.Entry{}, errors.NewValidationError("unitType must be g, ml, or unit")
	}

	entry := ledger.Entry{
		ID:       draft.ID,
		ItemID:   draft.ItemID,
		Qty:      draft.Qty,
		UnitType: draft.UnitType,
		Time:     draft.Time,
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	if draft.ItemID != "" {
		nutrition := catalog.Resolve(draft.ItemID, draft.Qty, draft.UnitType, snapshot)
		entry.Kcal, entry.Protein, entry.Fat, entry.Carbs = nutrition.Frozen()
		return entry, nil
	}

	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return ledger.Entry{}, errors.NewValidationError("entry requires itemId or name")
	}
	entry.Name = name
	n := catalog.Nutrition{Kcal: draft.Kcal, Protein: draft.Protein, Fat: draft.Fat, Carbs: draft.Carbs}
	entry.Kcal, entry.Protein, entry.Fat, entry.Carbs = n.Frozen()
	return entry, nil
}

func buildDayView(day ledger.Day, snapshot catalog.Snapshot) DayView {
	entries := make([]EntryView, 0, len(day.Entries))
	for _, e := range day.Entries {
		name := e.Name
		if e.ItemID != "" {
			if item, ok := snapshot[e.ItemID]; ok {
				name = item.Name
			} else {
				name = "Unknown"
			}
		}
		entries = append(entries, EntryView{Entry: e, ItemName: name})
	}
	return DayView{
		Date:    day.Date,
		Weight:  day.Weight,
		Entries: entries,
		Totals:  day.Totals,
	}
}

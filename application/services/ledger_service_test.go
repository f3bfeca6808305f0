package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dkcal-backend/domain/catalog"
	"dkcal-backend/pkg/errors"
)

func newLedgerService(store *memStore) *LedgerService {
	return NewLedgerService(store, store, testLogger())
}

func TestGetDay_UnwrittenDateIsDefault(t *testing.T) {
	svc := newLedgerService(newMemStore())

	day, err := svc.GetDay(context.Background(), testUser, "2026-08-20")
	require.NoError(t, err)

	assert.Equal(t, "2026-08-20", day.Date)
	assert.Nil(t, day.Weight)
	assert.Empty(t, day.Entries)
	assert.Equal(t, 0.0, day.Totals.Kcal)
}

func TestGetDay_InvalidDate(t *testing.T) {
	svc := newLedgerService(newMemStore())

	_, err := svc.GetDay(context.Background(), testUser, "2026/08/20")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestUpdateDay_AddEntryFreezesResolvedMacros(t *testing.T) {
	store := newMemStore()
	store.items[testUser] = []catalog.Item{perHundred("rice", 130)}
	svc := newLedgerService(store)

	day, err := svc.UpdateDay(context.Background(), testUser, "2026-08-20", DayUpdate{
		AddEntry: &EntryDraft{ItemID: "rice", Qty: 150, UnitType: catalog.UnitGram, Time: "12:30"},
	})
	require.NoError(t, err)

	require.Len(t, day.Entries, 1)
	entry := day.Entries[0]
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, 195.0, entry.Kcal)
	assert.Equal(t, "12:30", entry.Time)
	assert.Equal(t, "rice", entry.ItemName)
	assert.Equal(t, 195.0, day.Totals.Kcal)
}

func TestUpdateDay_FreestandingEntry(t *testing.T) {
	store := newMemStore()
	svc := newLedgerService(store)

	day, err := svc.UpdateDay(context.Background(), testUser, "2026-08-20", DayUpdate{
		AddEntry: &EntryDraft{
			Name: "restaurant pizza", Qty: 1, UnitType: catalog.UnitPiece,
			Kcal: catalog.Float64(850), Protein: catalog.Float64(35),
		},
	})
	require.NoError(t, err)

	require.Len(t, day.Entries, 1)
	entry := day.Entries[0]
	assert.Empty(t, entry.ItemID)
	assert.Equal(t, "restaurant pizza", entry.ItemName)
	assert.Equal(t, 850.0, entry.Kcal)
	assert.Equal(t, 35.0, entry.Protein)
	assert.Equal(t, 0.0, entry.Fat, "unspecified macros freeze to zero")
}

func TestUpdateDay_EntryRequiresItemOrName(t *testing.T) {
	svc := newLedgerService(newMemStore())

	_, err := svc.UpdateDay(context.Background(), testUser, "2026-08-20", DayUpdate{
		AddEntry: &EntryDraft{Qty: 1, UnitType: catalog.UnitPiece},
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestUpdateDay_ReplaceEntriesReResolves(t *testing.T) {
	store := newMemStore()
	store.items[testUser] = []catalog.Item{perHundred("rice", 130)}
	svc := newLedgerService(store)

	first, err := svc.UpdateDay(context.Background(), testUser, "2026-08-20", DayUpdate{
		AddEntry: &EntryDraft{ItemID: "rice", Qty: 100, UnitType: catalog.UnitGram},
	})
	require.NoError(t, err)
	entryID := first.Entries[0].ID

	// Edit the quantity through a full replacement, keeping the id.
	day, err := svc.UpdateDay(context.Background(), testUser, "2026-08-20", DayUpdate{
		Entries: []EntryDraft{
			{ID: entryID, ItemID: "rice", Qty: 200, UnitType: catalog.UnitGram, Time: "08:00"},
		},
	})
	require.NoError(t, err)

	require.Len(t, day.Entries, 1)
	assert.Equal(t, entryID, day.Entries[0].ID)
	assert.Equal(t, 260.0, day.Entries[0].Kcal)
	assert.Equal(t, 260.0, day.Totals.Kcal)
}

func TestUpdateDay_RemoveEntry(t *testing.T) {
	store := newMemStore()
	store.items[testUser] = []catalog.Item{perHundred("rice", 130)}
	svc := newLedgerService(store)

	day, err := svc.UpdateDay(context.Background(), testUser, "2026-08-20", DayUpdate{
		AddEntry: &EntryDraft{ItemID: "rice", Qty: 100, UnitType: catalog.UnitGram},
	})
	require.NoError(t, err)
	entryID := day.Entries[0].ID

	day, err = svc.UpdateDay(context.Background(), testUser, "2026-08-20", DayUpdate{
		RemoveEntryID: entryID,
	})
	require.NoError(t, err)
	assert.Empty(t, day.Entries)
	assert.Equal(t, 0.0, day.Totals.Kcal)
}

func TestUpdateDay_WeightSetAndClear(t *testing.T) {
	store := newMemStore()
	svc := newLedgerService(store)

	var upd DayUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"weight": 82.5}`), &upd))
	day, err := svc.UpdateDay(context.Background(), testUser, "2026-08-20", upd)
	require.NoError(t, err)
	require.NotNil(t, day.Weight)
	assert.Equal(t, 82.5, *day.Weight)

	// Explicit null clears; absence leaves it alone.
	var clear DayUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"weight": null}`), &clear))
	day, err = svc.UpdateDay(context.Background(), testUser, "2026-08-20", clear)
	require.NoError(t, err)
	assert.Nil(t, day.Weight)
}

func TestUpdateDay_WeightAbsentIsUntouched(t *testing.T) {
	store := newMemStore()
	store.items[testUser] = []catalog.Item{perHundred("rice", 130)}
	svc := newLedgerService(store)

	var setWeight DayUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"weight": 80}`), &setWeight))
	_, err := svc.UpdateDay(context.Background(), testUser, "2026-08-20", setWeight)
	require.NoError(t, err)

	var addOnly DayUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"addEntry":{"itemId":"rice","qty":100,"unitType":"g"}}`), &addOnly))
	day, err := svc.UpdateDay(context.Background(), testUser, "2026-08-20", addOnly)
	require.NoError(t, err)
	require.NotNil(t, day.Weight)
	assert.Equal(t, 80.0, *day.Weight)
}

func TestUpdateDay_WeightOutOfRange(t *testing.T) {
	svc := newLedgerService(newMemStore())

	var upd DayUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"weight": 900}`), &upd))
	_, err := svc.UpdateDay(context.Background(), testUser, "2026-08-20", upd)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestUpdateDay_UnknownItemNameInView(t *testing.T) {
	store := newMemStore()
	svc := newLedgerService(store)

	// Entry references an item that is not in the catalog: resolution
	// freezes zeros and the view shows "Unknown".
	day, err := svc.UpdateDay(context.Background(), testUser, "2026-08-20", DayUpdate{
		AddEntry: &EntryDraft{ItemID: "ghost", Qty: 100, UnitType: catalog.UnitGram},
	})
	require.NoError(t, err)

	require.Len(t, day.Entries, 1)
	assert.Equal(t, "Unknown", day.Entries[0].ItemName)
	assert.Equal(t, 0.0, day.Entries[0].Kcal)
}

package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dkcal-backend/domain/catalog"
	"dkcal-backend/domain/ledger"
	"dkcal-backend/domain/profile"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(t.TempDir(), zap.NewNop())
}

func TestItemsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	items, err := store.ReadItems(ctx, "default")
	require.NoError(t, err)
	assert.Empty(t, items, "missing catalog reads as empty")

	want := []catalog.Item{
		{
			ID:   "i1",
			Name: "Rice",
			Mode: catalog.ModePerHundred,
			PerHundred: &catalog.PerHundredSpec{
				Kcal:     130,
				Protein:  catalog.Float64(2.7),
				BaseUnit: catalog.UnitGram,
			},
		},
	}
	require.NoError(t, store.WriteItems(ctx, "default", want))

	got, err := store.ReadItems(ctx, "default")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Rice", got[0].Name)
	require.NotNil(t, got[0].PerHundred)
	assert.Equal(t, 130.0, got[0].PerHundred.Kcal)
	require.NotNil(t, got[0].PerHundred.Protein)
	assert.Equal(t, 2.7, *got[0].PerHundred.Protein)
	assert.Nil(t, got[0].PerHundred.Fat, "unknown macros survive the round trip as null")
}

func TestDayRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	day, err := store.ReadDay(ctx, "default", "2026-08-29")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-29", day.Date)
	assert.Empty(t, day.Entries)

	day.Weight = catalog.Float64(80)
	day.Entries = []ledger.Entry{
		{ID: "e1", ItemID: "i1", Qty: 100, UnitType: catalog.UnitGram, Kcal: 130},
	}
	day.RecomputeTotals()
	require.NoError(t, store.WriteDay(ctx, "default", "2026-08-29", day))

	got, err := store.ReadDay(ctx, "default", "2026-08-29")
	require.NoError(t, err)
	require.NotNil(t, got.Weight)
	assert.Equal(t, 80.0, *got.Weight)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, 130.0, got.Totals.Kcal)
}

func TestListDayDates_SortedAndFiltered(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, date := range []string{"2026-08-03", "2026-08-01", "2026-08-02"} {
		require.NoError(t, store.WriteDay(ctx, "default", date, ledger.NewDay(date)))
	}

	// Stray files in the days directory are ignored.
	daysDir := filepath.Join(store.baseDir, "users", "default", "days")
	require.NoError(t, os.WriteFile(filepath.Join(daysDir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(daysDir, "bad-name.json"), []byte("{}"), 0o644))

	dates, err := store.ListDayDates(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-08-01", "2026-08-02", "2026-08-03"}, dates)
}

func TestListDayDates_NoDirectory(t *testing.T) {
	store := newTestStore(t)

	dates, err := store.ListDayDates(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestCorruptDocumentReadsAsDefault(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	path := store.itemsPath("default")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	items, err := store.ReadItems(ctx, "default")
	require.NoError(t, err, "corruption is not an error")
	assert.Empty(t, items)
}

func TestProfileRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p, err := store.ReadProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Name, "default profile carries the user id")

	p.Weight = catalog.Float64(64)
	require.NoError(t, store.WriteProfile(ctx, "alice", p))

	got, err := store.ReadProfile(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got.Weight)
	assert.Equal(t, 64.0, *got.Weight)
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.WriteProfile(ctx, "default", profile.Default("default")))

	entries, err := os.ReadDir(filepath.Join(store.baseDir, "users", "default"))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}

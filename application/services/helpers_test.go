package services

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"dkcal-backend/domain/catalog"
	"dkcal-backend/domain/ledger"
	"dkcal-backend/domain/profile"
)

// memStore is an in-memory implementation of all three storage ports used
// by the service tests.
type memStore struct {
	items    map[string][]catalog.Item
	days     map[string]map[string]ledger.Day
	profiles map[string]profile.Profile

	dayWrites int
	failDays  map[string]bool
}

func newMemStore() *memStore {
	return &memStore{
		items:    map[string][]catalog.Item{},
		days:     map[string]map[string]ledger.Day{},
		profiles: map[string]profile.Profile{},
		failDays: map[string]bool{},
	}
}

func (m *memStore) ReadItems(ctx context.Context, userID string) ([]catalog.Item, error) {
	return append([]catalog.Item(nil), m.items[userID]...), nil
}

func (m *memStore) WriteItems(ctx context.Context, userID string, items []catalog.Item) error {
	m.items[userID] = append([]catalog.Item(nil), items...)
	return nil
}

func (m *memStore) ReadDay(ctx context.Context, userID, date string) (ledger.Day, error) {
	if m.failDays[date] {
		return ledger.Day{}, fmt.Errorf("forced read failure for %s", date)
	}
	if day, ok := m.days[userID][date]; ok {
		day.Entries = append([]ledger.Entry(nil), day.Entries...)
		return day, nil
	}
	return ledger.NewDay(date), nil
}

func (m *memStore) WriteDay(ctx context.Context, userID, date string, day ledger.Day) error {
	if m.failDays[date] {
		return fmt.Errorf("forced write failure for %s", date)
	}
	if m.days[userID] == nil {
		m.days[userID] = map[string]ledger.Day{}
	}
	day.Entries = append([]ledger.Entry(nil), day.Entries...)
	m.days[userID][date] = day
	m.dayWrites++
	return nil
}

func (m *memStore) ListDayDates(ctx context.Context, userID string) ([]string, error) {
	dates := make([]string, 0, len(m.days[userID]))
	for date := range m.days[userID] {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates, nil
}

func (m *memStore) ReadProfile(ctx context.Context, userID string) (profile.Profile, error) {
	if p, ok := m.profiles[userID]; ok {
		return p, nil
	}
	return profile.Default(userID), nil
}

func (m *memStore) WriteProfile(ctx context.Context, userID string, p profile.Profile) error {
	m.profiles[userID] = p
	return nil
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func perHundred(id string, kcal float64) catalog.Item {
	return catalog.Item{
		ID:   id,
		Name: id,
		Mode: catalog.ModePerHundred,
		PerHundred: &catalog.PerHundredSpec{
			Kcal:     kcal,
			BaseUnit: catalog.UnitGram,
		},
	}
}

func composite(id string, components ...catalog.Component) catalog.Item {
	return catalog.Item{
		ID:         id,
		Name:       id,
		Mode:       catalog.ModeComposite,
		Components: components,
	}
}

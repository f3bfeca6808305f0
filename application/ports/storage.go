package ports

import (
	"context"

	"dkcal-backend/domain/catalog"
	"dkcal-backend/domain/ledger"
	"dkcal-backend/domain/profile"
)

// CatalogStore persists a user's item catalog as one document.
// This is a port in hexagonal architecture - the domain doesn't know about the implementation.
type CatalogStore interface {
	// ReadItems returns the full catalog listing. A user with no catalog
	// yet gets an empty slice, not an error.
	ReadItems(ctx context.Context, userID string) ([]catalog.Item, error)

	// WriteItems replaces the full catalog listing atomically.
	WriteItems(ctx context.Context, userID string, items []catalog.Item) error
}

// LedgerStore persists day documents, one per (user, date).
type LedgerStore interface {
	// ReadDay returns the day for the given date key. A date never written
	// yields the lazy default day, not an error.
	ReadDay(ctx context.Context, userID, date string) (ledger.Day, error)

	// WriteDay replaces the whole day document atomically.
	WriteDay(ctx context.Context, userID, date string, day ledger.Day) error

	// ListDayDates returns every date key that has a stored day, sorted
	// ascending.
	ListDayDates(ctx context.Context, userID string) ([]string, error)
}

// ProfileStore persists a user's profile document.
type ProfileStore interface {
	// ReadProfile returns the stored profile or the default for a user who
	// has never saved one.
	ReadProfile(ctx context.Context, userID string) (profile.Profile, error)

	// WriteProfile replaces the profile document atomically.
	WriteProfile(ctx context.Context, userID string, p profile.Profile) error
}

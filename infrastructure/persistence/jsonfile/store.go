// Package jsonfile implements the storage ports on top of per-user JSON
// documents. The layout mirrors what the application reads and writes:
//
//	<base>/users/<userID>/items.json
//	<base>/users/<userID>/profile.json
//	<base>/users/<userID>/days/<YYYY-MM-DD>.json
//
// Every write goes through a temp file followed by a rename, so readers
// never observe a half-written document. A missing or corrupt document
// reads as its default value; corruption is logged, never returned.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"dkcal-backend/domain/catalog"
	"dkcal-backend/domain/ledger"
	"dkcal-backend/domain/profile"
	"dkcal-backend/pkg/errors"
)

// Store is a file-backed implementation of the catalog, ledger and profile
// storage ports. It is safe for use from a single process; there is no
// cross-process locking.
type Store struct {
	baseDir string
	logger  *zap.Logger
}

// NewStore creates a store rooted at baseDir.
func NewStore(baseDir string, logger *zap.Logger) *Store {
	return &Store{baseDir: baseDir, logger: logger}
}

func (s *Store) userDir(userID string) string {
	return filepath.Join(s.baseDir, "users", userID)
}

func (s *Store) itemsPath(userID string) string {
	return filepath.Join(s.userDir(userID), "items.json")
}

func (s *Store) profilePath(userID string) string {
	return filepath.Join(s.userDir(userID), "profile.json")
}

func (s *Store) dayPath(userID, date string) string {
	return filepath.Join(s.userDir(userID), "days", date+".json")
}

// readJSON decodes the document at path into out. Missing files and corrupt
// JSON both leave out at its zero/default value; only genuine I/O failures
// surface as errors.
func (s *Store) readJSON(path string, out any) (found bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Warn("corrupt JSON document, using default",
			zap.String("path", path),
			zap.Error(err),
		)
		return false, nil
	}
	return true, nil
}

// writeJSON writes the document atomically: serialize to a sibling temp
// file, then rename over the target.
func (s *Store) writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// ReadItems returns the user's catalog, or an empty slice when none exists.
func (s *Store) ReadItems(ctx context.Context, userID string) ([]catalog.Item, error) {
	items := []catalog.Item{}
	if _, err := s.readJSON(s.itemsPath(userID), &items); err != nil {
		return nil, errors.NewStorageError("read items", err)
	}
	if items == nil {
		items = []catalog.Item{}
	}
	return items, nil
}

// WriteItems replaces the user's catalog document.
func (s *Store) WriteItems(ctx context.Context, userID string, items []catalog.Item) error {
	if err := s.writeJSON(s.itemsPath(userID), items); err != nil {
		return errors.NewStorageError("write items", err)
	}
	return nil
}

// ReadDay returns the stored day, or the lazy default for an unwritten date.
func (s *Store) ReadDay(ctx context.Context, userID, date string) (ledger.Day, error) {
	day := ledger.NewDay(date)
	found, err := s.readJSON(s.dayPath(userID, date), &day)
	if err != nil {
		return ledger.Day{}, errors.NewStorageError("read day", err)
	}
	if !found {
		return ledger.NewDay(date), nil
	}
	if day.Entries == nil {
		day.Entries = []ledger.Entry{}
	}
	day.Date = date
	return day, nil
}

// WriteDay replaces the whole day document.
func (s *Store) WriteDay(ctx context.Context, userID, date string, day ledger.Day) error {
	if err := s.writeJSON(s.dayPath(userID, date), day); err != nil {
		return errors.NewStorageError("write day", err)
	}
	return nil
}

// ListDayDates returns every stored date key for the user, sorted ascending.
// Lexicographic order is chronological order for YYYY-MM-DD keys.
func (s *Store) ListDayDates(ctx context.Context, userID string) ([]string, error) {
	daysDir := filepath.Join(s.userDir(userID), "days")
	files, err := os.ReadDir(daysDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, errors.NewStorageError("list days", err)
	}

	dates := make([]string, 0, len(files))
	for _, f := range files {
		name := f.Name()
		if !strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".tmp") {
			continue
		}
		date := strings.TrimSuffix(name, ".json")
		if ledger.ValidDate(date) {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)
	return dates, nil
}

// ReadProfile returns the stored profile, or the default for a new user.
func (s *Store) ReadProfile(ctx context.Context, userID string) (profile.Profile, error) {
	p := profile.Default(userID)
	if _, err := s.readJSON(s.profilePath(userID), &p); err != nil {
		return profile.Profile{}, errors.NewStorageError("read profile", err)
	}
	return p, nil
}

// WriteProfile replaces the profile document.
func (s *Store) WriteProfile(ctx context.Context, userID string, p profile.Profile) error {
	if err := s.writeJSON(s.profilePath(userID), p); err != nil {
		return errors.NewStorageError("write profile", err)
	}
	return nil
}

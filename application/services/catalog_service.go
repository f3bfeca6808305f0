package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"dkcal-backend/application/ports"
	"dkcal-backend/domain/catalog"
	"dkcal-backend/pkg/errors"
)

// ItemView is a catalog item enriched with its computed nutrition, the shape
// returned to clients.
type ItemView struct {
	catalog.Item
	Computed catalog.Nutrition `json:"computed"`
}

// CatalogService implements the catalog use cases: listing with search,
// create with duplicate-name detection, update with retroactive ledger
// recalculation, and delete.
type CatalogService struct {
	store  ports.CatalogStore
	recalc *RecalcService
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(store ports.CatalogStore, recalc *RecalcService, logger *zap.Logger) *CatalogService {
	return &CatalogService{store: store, recalc: recalc, logger: logger}
}

// List returns the catalog, optionally filtered by a case-insensitive
// substring match on the name, each item enriched with computed nutrition
// against the full snapshot.
func (s *CatalogService) List(ctx context.Context, userID, search string) ([]ItemView, error) {
	items, err := s.store.ReadItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	snapshot := catalog.NewSnapshot(items)

	needle := strings.ToLower(strings.TrimSpace(search))
	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		if needle != "" && !strings.Contains(strings.ToLower(item.Name), needle) {
			continue
		}
		views = append(views, ItemView{
			Item:     item,
			Computed: catalog.ComputeItemNutrition(item, snapshot),
		})
	}
	return views, nil
}

// Create validates the draft, rejects duplicate names, and appends the new
// item to the catalog.
func (s *CatalogService) Create(ctx context.Context, userID string, draft catalog.Draft) (ItemView, error) {
	if err := draft.Validate(); err != nil {
		return ItemView{}, err
	}

	items, err := s.store.ReadItems(ctx, userID)
	if err != nil {
		return ItemView{}, err
	}

	item := catalog.NewItem(draft)
	if hasDuplicateName(items, item.NormalizedName(), "") {
		return ItemView{}, errors.NewConflictError("an item with this name already exists")
	}

	items = append(items, item)
	if err := s.store.WriteItems(ctx, userID, items); err != nil {
		return ItemView{}, err
	}

	s.logger.Info("item created",
		zap.String("user_id", userID),
		zap.String("item_id", item.ID),
		zap.String("mode", string(item.Mode)),
	)
	return ItemView{Item: item, Computed: catalog.ComputeItemNutrition(item, catalog.NewSnapshot(items))}, nil
}

// Update rewrites the item's definition and then recalculates every ledger
// entry that depends on it before returning. The caller sees the response
// only after history is consistent with the new definition.
func (s *CatalogService) Update(ctx context.Context, userID, itemID string, draft catalog.Draft) (ItemView, error) {
	if err := draft.Validate(); err != nil {
		return ItemView{}, err
	}

	items, err := s.store.ReadItems(ctx, userID)
	if err != nil {
		return ItemView{}, err
	}

	idx := indexOfItem(items, itemID)
	if idx < 0 {
		return ItemView{}, errors.NewNotFoundError("item")
	}

	name := strings.ToLower(strings.TrimSpace(draft.Name))
	if hasDuplicateName(items, name, itemID) {
		return ItemView{}, errors.NewConflictError("an item with this name already exists")
	}

	items[idx].ApplyDraft(draft)
	if err := s.store.WriteItems(ctx, userID, items); err != nil {
		return ItemView{}, err
	}

	s.recalc.RecalculateAfterItemChange(ctx, userID, itemID, items)

	return ItemView{
		Item:     items[idx],
		Computed: catalog.ComputeItemNutrition(items[idx], catalog.NewSnapshot(items)),
	}, nil
}

// Delete removes the item from the catalog. Ledger entries and composite
// components that reference it are left in place: frozen entries keep their
// values, and future resolutions of the dangling reference degrade to
// unknown.
func (s *CatalogService) Delete(ctx context.Context, userID, itemID string) error {
	items, err := s.store.ReadItems(ctx, userID)
	if err != nil {
		return err
	}

	idx := indexOfItem(items, itemID)
	if idx < 0 {
		return errors.NewNotFoundError("item")
	}

	items = append(items[:idx], items[idx+1:]...)
	if err := s.store.WriteItems(ctx, userID, items); err != nil {
		return err
	}

	s.logger.Info("item deleted",
		zap.String("user_id", userID),
		zap.String("item_id", itemID),
	)
	return nil
}

func indexOfItem(items []catalog.Item, itemID string) int {
	for i, item := range items {
		if item.ID == itemID {
			return i
		}
	}
	return -1
}

func hasDuplicateName(items []catalog.Item, normalizedName, excludeID string) bool {
	for _, item := range items {
		if item.ID == excludeID {
			continue
		}
		if item.NormalizedName() == normalizedName {
			return true
		}
	}
	return false
}

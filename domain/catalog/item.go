package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Mode identifies which variant of a food item's definition is populated.
// Exactly one of the mode payloads on Item is non-nil for a well-formed item.
type Mode string

const (
	ModePerHundred Mode = "per_100"
	ModePerUnit    Mode = "per_unit"
	ModeComposite  Mode = "composite"
)

// Unit is a measurement unit accepted for quantities.
type Unit string

const (
	UnitGram  Unit = "g"
	UnitMilli Unit = "ml"
	UnitPiece Unit = "unit"
)

// ValidUnit reports whether u is one of the accepted consumption units.
func ValidUnit(u Unit) bool {
	return u == UnitGram || u == UnitMilli || u == UnitPiece
}

// PerHundredSpec defines nutrition per 100 units of the base measure.
// Kcal is required; the other macros are nil when unknown.
type PerHundredSpec struct {
	Kcal     float64  `json:"kcal_100"`
	Protein  *float64 `json:"protein_100"`
	Fat      *float64 `json:"fat_100"`
	Carbs    *float64 `json:"carbs_100"`
	BaseUnit Unit     `json:"baseUnit"`
}

// PerUnitSpec defines nutrition per single piece.
type PerUnitSpec struct {
	Kcal    float64  `json:"kcal_unit"`
	Protein *float64 `json:"protein_unit"`
	Fat     *float64 `json:"fat_unit"`
	Carbs   *float64 `json:"carbs_unit"`
}

// Component is one ingredient line of a composite item. The component list
// of a composite describes one unit of the recipe.
type Component struct {
	ItemID   string  `json:"itemId"`
	Qty      float64 `json:"qty"`
	UnitType Unit    `json:"unitType"`
}

// Item is a named nutrition definition owned by a user's catalog. The
// resolver only ever reads items through a snapshot and never mutates them.
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Mode        Mode   `json:"mode"`

	PerHundred *PerHundredSpec `json:"per_100,omitempty"`
	PerUnit    *PerUnitSpec    `json:"per_unit,omitempty"`
	Components []Component     `json:"components,omitempty"`

	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

// Snapshot is a read-only id → item mapping captured once by a caller and
// threaded through an entire resolve or recalculation pass.
type Snapshot map[string]Item

// NewSnapshot builds a snapshot from a catalog listing.
func NewSnapshot(items []Item) Snapshot {
	m := make(Snapshot, len(items))
	for _, it := range items {
		m[it.ID] = it
	}
	return m
}

// NewItem materializes a validated draft into a catalog item with a fresh id.
func NewItem(draft Draft) Item {
	now := time.Now().UTC()
	item := Item{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(draft.Name),
		Description: draft.Description,
		Mode:        draft.Mode,
		Created:     now,
		Updated:     now,
	}
	item.applyModePayload(draft)
	return item
}

// ApplyDraft rewrites the item's definition in place. The previous mode
// payload is discarded entirely, even when the mode itself is unchanged.
func (it *Item) ApplyDraft(draft Draft) {
	it.Name = strings.TrimSpace(draft.Name)
	it.Description = draft.Description
	it.Mode = draft.Mode
	it.PerHundred = nil
	it.PerUnit = nil
	it.Components = nil
	it.Updated = time.Now().UTC()
	it.applyModePayload(draft)
}

func (it *Item) applyModePayload(draft Draft) {
	switch draft.Mode {
	case ModePerHundred:
		spec := *draft.PerHundred
		if spec.BaseUnit == "" {
			spec.BaseUnit = UnitGram
		}
		it.PerHundred = &spec
	case ModePerUnit:
		spec := *draft.PerUnit
		it.PerUnit = &spec
	case ModeComposite:
		it.Components = append([]Component(nil), draft.Components...)
	}
}

// NormalizedName returns the name key used for duplicate detection:
// trimmed and lowercased.
func (it Item) NormalizedName() string {
	return strings.ToLower(strings.TrimSpace(it.Name))
}

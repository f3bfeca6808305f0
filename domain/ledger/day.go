package ledger

import (
	"regexp"

	"dkcal-backend/domain/catalog"
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidDate reports whether s is a YYYY-MM-DD date key.
func ValidDate(s string) bool {
	return dateRe.MatchString(s)
}

// Entry is one logged consumption event. Its macro fields are a frozen
// snapshot of the resolver's output at creation or last recomputation time;
// they are never nil and never recomputed on read. Catalog edits only reach
// them through the recalculation protocol.
type Entry struct {
	ID string `json:"id"`
	// ItemID is empty for freestanding ad hoc entries that carry their own
	// name and macro values instead of referencing the catalog.
	ItemID   string       `json:"itemId,omitempty"`
	Name     string       `json:"name,omitempty"`
	Qty      float64      `json:"qty"`
	UnitType catalog.Unit `json:"unitType"`
	Time     string       `json:"time"`
	Kcal     float64      `json:"kcal"`
	Protein  float64      `json:"protein"`
	Fat      float64      `json:"fat"`
	Carbs    float64      `json:"carbs"`
}

// Totals is the derived per-day macro sum. It is never authored directly;
// RecomputeTotals is the only writer.
type Totals struct {
	Kcal    float64 `json:"kcal"`
	Protein float64 `json:"protein"`
	Fat     float64 `json:"fat"`
	Carbs   float64 `json:"carbs"`
}

// Day is the ledger for one (user, date) pair.
type Day struct {
	Date    string   `json:"date"`
	Weight  *float64 `json:"weight"`
	Entries []Entry  `json:"entries"`
	Totals  Totals   `json:"totals"`
}

// NewDay returns the lazy default for a date that has never been written.
func NewDay(date string) Day {
	return Day{Date: date, Entries: []Entry{}}
}

// RecomputeTotals rebuilds the derived totals from the entry list. Each
// field is summed independently and rounded to 2 decimals.
func (d *Day) RecomputeTotals() {
	var t Totals
	for _, e := range d.Entries {
		t.Kcal += e.Kcal
		t.Protein += e.Protein
		t.Fat += e.Fat
		t.Carbs += e.Carbs
	}
	t.Kcal = catalog.Round2(t.Kcal)
	t.Protein = catalog.Round2(t.Protein)
	t.Fat = catalog.Round2(t.Fat)
	t.Carbs = catalog.Round2(t.Carbs)
	d.Totals = t
}

// RemoveEntry filters the entry with the given id out of the day. It reports
// whether anything was removed; an unknown id is a no-op.
func (d *Day) RemoveEntry(entryID string) bool {
	kept := d.Entries[:0]
	removed := false
	for _, e := range d.Entries {
		if e.ID == entryID {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	d.Entries = kept
	return removed
}

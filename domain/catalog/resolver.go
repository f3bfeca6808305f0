package catalog

// maxResolveDepth bounds composite nesting. Anything deeper resolves to
// all-unknown instead of recursing further.
const maxResolveDepth = 10

// Resolve computes the macro totals for consuming qty of the given item,
// against a catalog snapshot captured by the caller.
//
// Resolve never fails: a missing item, a reference cycle, or nesting beyond
// maxResolveDepth all degrade to the all-unknown result. Nutrition data is
// best-effort by nature, so malformed definitions yield nulls rather than
// errors.
//
// No unit conversion is performed. A qty passed in ml against an item
// defined per 100 g is scaled as-is; choosing compatible units is the
// caller's responsibility.
func Resolve(itemID string, qty float64, unitType Unit, snapshot Snapshot) Nutrition {
	return resolve(itemID, qty, snapshot, nil, 0)
}

func resolve(itemID string, qty float64, snapshot Snapshot, visited map[string]struct{}, depth int) Nutrition {
	if depth > maxResolveDepth {
		return NullNutrition()
	}
	if _, seen := visited[itemID]; seen {
		return NullNutrition()
	}
	item, ok := snapshot[itemID]
	if !ok {
		return NullNutrition()
	}

	switch item.Mode {
	case ModePerHundred:
		if item.PerHundred == nil {
			return NullNutrition()
		}
		factor := qty / 100
		return Nutrition{
			Kcal:    scaled(&item.PerHundred.Kcal, factor),
			Protein: scaled(item.PerHundred.Protein, factor),
			Fat:     scaled(item.PerHundred.Fat, factor),
			Carbs:   scaled(item.PerHundred.Carbs, factor),
		}

	case ModePerUnit:
		if item.PerUnit == nil {
			return NullNutrition()
		}
		// qty is a piece count here, whatever unitType the caller passed.
		return Nutrition{
			Kcal:    scaled(&item.PerUnit.Kcal, qty),
			Protein: scaled(item.PerUnit.Protein, qty),
			Fat:     scaled(item.PerUnit.Fat, qty),
			Carbs:   scaled(item.PerUnit.Carbs, qty),
		}

	case ModeComposite:
		// The visited set tracks the current recursion path only, so each
		// branch gets its own copy extended with this item.
		branch := make(map[string]struct{}, len(visited)+1)
		for id := range visited {
			branch[id] = struct{}{}
		}
		branch[itemID] = struct{}{}

		var sum macroSum
		for _, comp := range item.Components {
			sum.add(resolve(comp.ItemID, comp.Qty, snapshot, branch, depth+1))
		}
		// The component list describes one unit of the recipe; qty scales
		// the whole thing.
		return sum.total(qty)

	default:
		return NullNutrition()
	}
}

// macroSum accumulates component results per field. A field stays unknown
// only when no component contributed a known value for it; known values are
// summed and unknowns skipped, so one gap does not poison the total.
type macroSum struct {
	kcal, protein, fat, carbs             float64
	hasKcal, hasProtein, hasFat, hasCarbs bool
}

func (s *macroSum) add(n Nutrition) {
	if n.Kcal != nil {
		s.kcal += *n.Kcal
		s.hasKcal = true
	}
	if n.Protein != nil {
		s.protein += *n.Protein
		s.hasProtein = true
	}
	if n.Fat != nil {
		s.fat += *n.Fat
		s.hasFat = true
	}
	if n.Carbs != nil {
		s.carbs += *n.Carbs
		s.hasCarbs = true
	}
}

func (s macroSum) total(qty float64) Nutrition {
	var out Nutrition
	if s.hasKcal {
		out.Kcal = Float64(Round2(s.kcal * qty))
	}
	if s.hasProtein {
		out.Protein = Float64(Round2(s.protein * qty))
	}
	if s.hasFat {
		out.Fat = Float64(Round2(s.fat * qty))
	}
	if s.hasCarbs {
		out.Carbs = Float64(Round2(s.carbs * qty))
	}
	return out
}

// ComputeItemNutrition returns the nutrition shown next to a catalog item in
// listings: the per-100 or per-unit values verbatim, or one unit of a
// composite resolved against the snapshot.
func ComputeItemNutrition(item Item, snapshot Snapshot) Nutrition {
	switch item.Mode {
	case ModePerHundred:
		if item.PerHundred == nil {
			return NullNutrition()
		}
		return Nutrition{
			Kcal:    Float64(item.PerHundred.Kcal),
			Protein: item.PerHundred.Protein,
			Fat:     item.PerHundred.Fat,
			Carbs:   item.PerHundred.Carbs,
		}
	case ModePerUnit:
		if item.PerUnit == nil {
			return NullNutrition()
		}
		return Nutrition{
			Kcal:    Float64(item.PerUnit.Kcal),
			Protein: item.PerUnit.Protein,
			Fat:     item.PerUnit.Fat,
			Carbs:   item.PerUnit.Carbs,
		}
	case ModeComposite:
		return Resolve(item.ID, 1, UnitPiece, snapshot)
	default:
		return NullNutrition()
	}
}

// AffectedItemIDs returns the transitive closure of item ids whose resolved
// nutrition depends on changedID: the item itself plus every composite that
// references a member of the set, directly or through further composites.
// Fixed-point iteration over the full listing; terminates because the set
// only grows.
func AffectedItemIDs(changedID string, items []Item) []string {
	affected := map[string]struct{}{changedID: {}}
	for {
		added := false
		for _, item := range items {
			if _, ok := affected[item.ID]; ok {
				continue
			}
			if item.Mode != ModeComposite {
				continue
			}
			for _, comp := range item.Components {
				if _, ok := affected[comp.ItemID]; ok {
					affected[item.ID] = struct{}{}
					added = true
					break
				}
			}
		}
		if !added {
			break
		}
	}

	ids := make([]string, 0, len(affected))
	for id := range affected {
		ids = append(ids, id)
	}
	return ids
}

package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func perHundredItem(id string, kcal float64, protein, fat, carbs *float64) Item {
	return Item{
		ID:   id,
		Name: id,
		Mode: ModePerHundred,
		PerHundred: &PerHundredSpec{
			Kcal:     kcal,
			Protein:  protein,
			Fat:      fat,
			Carbs:    carbs,
			BaseUnit: UnitGram,
		},
	}
}

func perUnitItem(id string, kcal float64, protein *float64) Item {
	return Item{
		ID:      id,
		Name:    id,
		Mode:    ModePerUnit,
		PerUnit: &PerUnitSpec{Kcal: kcal, Protein: protein},
	}
}

func compositeItem(id string, components ...Component) Item {
	return Item{ID: id, Name: id, Mode: ModeComposite, Components: components}
}

func TestResolve_PerHundredScaling(t *testing.T) {
	snapshot := NewSnapshot([]Item{
		perHundredItem("rice", 130, Float64(2.7), Float64(0.3), Float64(28)),
	})

	got := Resolve("rice", 150, UnitGram, snapshot)

	require.NotNil(t, got.Kcal)
	assert.Equal(t, 195.0, *got.Kcal)
	assert.Equal(t, 4.05, *got.Protein)
	assert.Equal(t, 0.45, *got.Fat)
	assert.Equal(t, 42.0, *got.Carbs)
}

func TestResolve_PerHundredNullMacroStaysNull(t *testing.T) {
	snapshot := NewSnapshot([]Item{
		perHundredItem("oil", 900, nil, Float64(100), nil),
	})

	got := Resolve("oil", 30, UnitMilli, snapshot)

	require.NotNil(t, got.Kcal)
	assert.Equal(t, 270.0, *got.Kcal)
	assert.Nil(t, got.Protein, "unknown protein must not become zero")
	assert.Equal(t, 30.0, *got.Fat)
	assert.Nil(t, got.Carbs)
}

func TestResolve_PerUnitIgnoresUnitType(t *testing.T) {
	snapshot := NewSnapshot([]Item{
		perUnitItem("egg", 78, Float64(6.3)),
	})

	// qty is a piece count for per-unit items regardless of the unit the
	// caller passes.
	for _, unit := range []Unit{UnitPiece, UnitGram, UnitMilli} {
		got := Resolve("egg", 2, unit, snapshot)
		require.NotNil(t, got.Kcal, "unit %s", unit)
		assert.Equal(t, 156.0, *got.Kcal)
		assert.Equal(t, 12.6, *got.Protein)
	}
}

func TestResolve_MissingItem(t *testing.T) {
	snapshot := NewSnapshot(nil)

	got := Resolve("ghost", 100, UnitGram, snapshot)

	assert.True(t, got.IsNull())
}

func TestResolve_CompositeSumsComponents(t *testing.T) {
	snapshot := NewSnapshot([]Item{
		perHundredItem("rice", 130, Float64(2.7), nil, nil),
		perUnitItem("egg", 78, Float64(6.3)),
		compositeItem("fried-rice",
			Component{ItemID: "rice", Qty: 200, UnitType: UnitGram},
			Component{ItemID: "egg", Qty: 2, UnitType: UnitPiece},
		),
	})

	got := Resolve("fried-rice", 1, UnitPiece, snapshot)

	require.NotNil(t, got.Kcal)
	assert.Equal(t, 416.0, *got.Kcal) // 260 + 156
	assert.Equal(t, 18.0, *got.Protein)
	assert.Nil(t, got.Fat, "no component knows fat")
	assert.Nil(t, got.Carbs)
}

func TestResolve_CompositeQtyScalesWholeRecipe(t *testing.T) {
	snapshot := NewSnapshot([]Item{
		perHundredItem("rice", 130, nil, nil, nil),
		compositeItem("bowl", Component{ItemID: "rice", Qty: 100, UnitType: UnitGram}),
	})

	half := Resolve("bowl", 0.5, UnitPiece, snapshot)
	require.NotNil(t, half.Kcal)
	assert.Equal(t, 65.0, *half.Kcal)
}

func TestResolve_CompositeSkipsUnknownComponents(t *testing.T) {
	snapshot := NewSnapshot([]Item{
		perHundredItem("rice", 130, nil, nil, nil),
		compositeItem("mix",
			Component{ItemID: "rice", Qty: 100, UnitType: UnitGram},
			Component{ItemID: "deleted", Qty: 50, UnitType: UnitGram},
		),
	})

	got := Resolve("mix", 1, UnitPiece, snapshot)

	// The dangling component degrades to unknown and is skipped; the known
	// component still contributes.
	require.NotNil(t, got.Kcal)
	assert.Equal(t, 130.0, *got.Kcal)
}

func TestResolve_DirectCycle(t *testing.T) {
	snapshot := NewSnapshot([]Item{
		compositeItem("loop", Component{ItemID: "loop", Qty: 1, UnitType: UnitPiece}),
	})

	got := Resolve("loop", 1, UnitPiece, snapshot)

	assert.True(t, got.IsNull())
}

func TestResolve_IndirectCycle(t *testing.T) {
	snapshot := NewSnapshot([]Item{
		compositeItem("a", Component{ItemID: "b", Qty: 1, UnitType: UnitPiece}),
		compositeItem("b", Component{ItemID: "a", Qty: 1, UnitType: UnitPiece}),
	})

	assert.True(t, Resolve("a", 1, UnitPiece, snapshot).IsNull())
	assert.True(t, Resolve("b", 1, UnitPiece, snapshot).IsNull())
}

func TestResolve_DiamondIsNotACycle(t *testing.T) {
	// Two branches sharing a leaf must both resolve; the visited set tracks
	// the recursion path, not everything seen.
	snapshot := NewSnapshot([]Item{
		perHundredItem("salt", 0, nil, nil, nil),
		perHundredItem("rice", 130, nil, nil, nil),
		compositeItem("left",
			Component{ItemID: "rice", Qty: 100, UnitType: UnitGram},
		),
		compositeItem("right",
			Component{ItemID: "rice", Qty: 100, UnitType: UnitGram},
		),
		compositeItem("top",
			Component{ItemID: "left", Qty: 1, UnitType: UnitPiece},
			Component{ItemID: "right", Qty: 1, UnitType: UnitPiece},
		),
	})

	got := Resolve("top", 1, UnitPiece, snapshot)

	require.NotNil(t, got.Kcal)
	assert.Equal(t, 260.0, *got.Kcal)
}

func TestResolve_DepthLimit(t *testing.T) {
	// Chain of 12 nested composites ending in a concrete item. Depth
	// overflow turns the deep end unknown, so the whole chain degrades.
	items := []Item{perHundredItem("leaf", 100, nil, nil, nil)}
	prev := "leaf"
	for i := 0; i < 12; i++ {
		id := fmt.Sprintf("wrap%d", i)
		items = append(items, compositeItem(id, Component{ItemID: prev, Qty: 1, UnitType: UnitPiece}))
		prev = id
	}
	snapshot := NewSnapshot(items)

	assert.True(t, Resolve(prev, 1, UnitPiece, snapshot).IsNull())

	// A shallow chain still resolves.
	shallow := Resolve("wrap3", 1, UnitPiece, snapshot)
	require.NotNil(t, shallow.Kcal)
	assert.Equal(t, 100.0, *shallow.Kcal)
}

func TestResolve_RoundsAtEveryLevel(t *testing.T) {
	// 0.333 kcal per 100g at qty 1g rounds to 0 at the leaf level, so the
	// composite sees 0, not 0.00333.
	snapshot := NewSnapshot([]Item{
		perHundredItem("trace", 0.333, nil, nil, nil),
		compositeItem("wrapper", Component{ItemID: "trace", Qty: 1, UnitType: UnitGram}),
	})

	leaf := Resolve("trace", 1, UnitGram, snapshot)
	require.NotNil(t, leaf.Kcal)
	assert.Equal(t, 0.0, *leaf.Kcal)

	wrapped := Resolve("wrapper", 1, UnitPiece, snapshot)
	require.NotNil(t, wrapped.Kcal)
	assert.Equal(t, 0.0, *wrapped.Kcal)
}

func TestComputeItemNutrition(t *testing.T) {
	rice := perHundredItem("rice", 130, Float64(2.7), nil, nil)
	egg := perUnitItem("egg", 78, Float64(6.3))
	bowl := compositeItem("bowl",
		Component{ItemID: "rice", Qty: 100, UnitType: UnitGram},
		Component{ItemID: "egg", Qty: 1, UnitType: UnitPiece},
	)
	snapshot := NewSnapshot([]Item{rice, egg, bowl})

	t.Run("per_100 returns values verbatim", func(t *testing.T) {
		got := ComputeItemNutrition(rice, snapshot)
		require.NotNil(t, got.Kcal)
		assert.Equal(t, 130.0, *got.Kcal)
		assert.Equal(t, 2.7, *got.Protein)
		assert.Nil(t, got.Fat)
	})

	t.Run("per_unit returns values verbatim", func(t *testing.T) {
		got := ComputeItemNutrition(egg, snapshot)
		require.NotNil(t, got.Kcal)
		assert.Equal(t, 78.0, *got.Kcal)
	})

	t.Run("composite resolves one unit", func(t *testing.T) {
		got := ComputeItemNutrition(bowl, snapshot)
		require.NotNil(t, got.Kcal)
		assert.Equal(t, 208.0, *got.Kcal)
	})
}

func TestAffectedItemIDs(t *testing.T) {
	items := []Item{
		perHundredItem("flour", 364, nil, nil, nil),
		perHundredItem("sugar", 400, nil, nil, nil),
		compositeItem("dough", Component{ItemID: "flour", Qty: 500, UnitType: UnitGram}),
		compositeItem("cake",
			Component{ItemID: "dough", Qty: 1, UnitType: UnitPiece},
			Component{ItemID: "sugar", Qty: 200, UnitType: UnitGram},
		),
		compositeItem("unrelated", Component{ItemID: "sugar", Qty: 10, UnitType: UnitGram}),
	}

	got := AffectedItemIDs("flour", items)

	assert.ElementsMatch(t, []string{"flour", "dough", "cake"}, got)
}

func TestAffectedItemIDs_LeafOnly(t *testing.T) {
	items := []Item{
		perHundredItem("flour", 364, nil, nil, nil),
		perHundredItem("sugar", 400, nil, nil, nil),
	}

	assert.ElementsMatch(t, []string{"sugar"}, AffectedItemIDs("sugar", items))
}

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftValidate(t *testing.T) {
	tests := []struct {
		name    string
		draft   Draft
		wantErr string
	}{
		{
			name: "valid per_100",
			draft: Draft{
				Name:       "Rice",
				Mode:       ModePerHundred,
				PerHundred: &PerHundredSpec{Kcal: 130},
			},
		},
		{
			name: "valid per_unit",
			draft: Draft{
				Name:    "Egg",
				Mode:    ModePerUnit,
				PerUnit: &PerUnitSpec{Kcal: 78},
			},
		},
		{
			name: "valid composite",
			draft: Draft{
				Name: "Bowl",
				Mode: ModeComposite,
				Components: []Component{
					{ItemID: "rice", Qty: 100, UnitType: UnitGram},
				},
			},
		},
		{
			name:    "missing name",
			draft:   Draft{Name: "  ", Mode: ModePerHundred, PerHundred: &PerHundredSpec{Kcal: 1}},
			wantErr: "name is required",
		},
		{
			name:    "unknown mode",
			draft:   Draft{Name: "X", Mode: "per_kg"},
			wantErr: "mode must be per_100, per_unit, or composite",
		},
		{
			name:    "per_100 without payload",
			draft:   Draft{Name: "X", Mode: ModePerHundred},
			wantErr: "per_100 values are required",
		},
		{
			name:    "negative kcal",
			draft:   Draft{Name: "X", Mode: ModePerHundred, PerHundred: &PerHundredSpec{Kcal: -1}},
			wantErr: "kcal_100 must be a non-negative number",
		},
		{
			name: "negative optional macro",
			draft: Draft{
				Name:       "X",
				Mode:       ModePerHundred,
				PerHundred: &PerHundredSpec{Kcal: 10, Fat: Float64(-2)},
			},
			wantErr: "fat must be non-negative",
		},
		{
			name: "bad base unit",
			draft: Draft{
				Name:       "X",
				Mode:       ModePerHundred,
				PerHundred: &PerHundredSpec{Kcal: 10, BaseUnit: UnitPiece},
			},
			wantErr: "baseUnit must be g or ml",
		},
		{
			name:    "composite without components",
			draft:   Draft{Name: "X", Mode: ModeComposite},
			wantErr: "at least one component",
		},
		{
			name: "composite bad component",
			draft: Draft{
				Name: "X",
				Mode: ModeComposite,
				Components: []Component{
					{ItemID: "", Qty: 0, UnitType: "kg"},
				},
			},
			wantErr: "component[0].itemId is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDraftValidate_CollectsAllProblems(t *testing.T) {
	draft := Draft{
		Name: "",
		Mode: ModeComposite,
		Components: []Component{
			{ItemID: "", Qty: -5, UnitType: "kg"},
		},
	}

	err := draft.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), "component[0].itemId is required")
	assert.Contains(t, err.Error(), "component[0].qty must be positive")
	assert.Contains(t, err.Error(), "component[0].unitType must be g, ml, or unit")
}

func TestApplyDraft_ClearsPreviousModePayload(t *testing.T) {
	item := NewItem(Draft{
		Name:       "Rice",
		Mode:       ModePerHundred,
		PerHundred: &PerHundredSpec{Kcal: 130},
	})
	require.NotNil(t, item.PerHundred)
	assert.Equal(t, UnitGram, item.PerHundred.BaseUnit, "base unit defaults to g")

	item.ApplyDraft(Draft{
		Name:    "Rice",
		Mode:    ModePerUnit,
		PerUnit: &PerUnitSpec{Kcal: 50},
	})

	assert.Nil(t, item.PerHundred, "old payload must be discarded")
	require.NotNil(t, item.PerUnit)
	assert.Equal(t, 50.0, item.PerUnit.Kcal)
}

package catalog

import (
	"fmt"
	"strings"

	"dkcal-backend/pkg/errors"
)

// Draft is the caller-supplied definition for creating or updating an item.
// Exactly one mode payload must be populated, matching Mode.
type Draft struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Mode        Mode            `json:"mode"`
	PerHundred  *PerHundredSpec `json:"per_100,omitempty"`
	PerUnit     *PerUnitSpec    `json:"per_unit,omitempty"`
	Components  []Component     `json:"components,omitempty"`
}

// Validate checks the draft's domain invariants. It collects every problem
// into a single validation error so the caller can surface them all at once.
func (d Draft) Validate() error {
	var problems []string

	if strings.TrimSpace(d.Name) == "" {
		problems = append(problems, "name is required")
	}

	switch d.Mode {
	case ModePerHundred:
		if d.PerHundred == nil {
			problems = append(problems, "per_100 values are required for mode per_100")
			break
		}
		if d.PerHundred.Kcal < 0 {
			problems = append(problems, "kcal_100 must be a non-negative number")
		}
		problems = appendMacroProblems(problems, "per_100", d.PerHundred.Protein, d.PerHundred.Fat, d.PerHundred.Carbs)
		if u := d.PerHundred.BaseUnit; u != "" && u != UnitGram && u != UnitMilli {
			problems = append(problems, "baseUnit must be g or ml")
		}
	case ModePerUnit:
		if d.PerUnit == nil {
			problems = append(problems, "per_unit values are required for mode per_unit")
			break
		}
		if d.PerUnit.Kcal < 0 {
			problems = append(problems, "kcal_unit must be a non-negative number")
		}
		problems = appendMacroProblems(problems, "per_unit", d.PerUnit.Protein, d.PerUnit.Fat, d.PerUnit.Carbs)
	case ModeComposite:
		if len(d.Components) == 0 {
			problems = append(problems, "composite items must have at least one component")
			break
		}
		for i, c := range d.Components {
			if c.ItemID == "" {
				problems = append(problems, fmt.Sprintf("component[%d].itemId is required", i))
			}
			if c.Qty <= 0 {
				problems = append(problems, fmt.Sprintf("component[%d].qty must be positive", i))
			}
			if !ValidUnit(c.UnitType) {
				problems = append(problems, fmt.Sprintf("component[%d].unitType must be g, ml, or unit", i))
			}
		}
	default:
		problems = append(problems, "mode must be per_100, per_unit, or composite")
	}

	if len(problems) > 0 {
		return errors.NewValidationError(strings.Join(problems, ", "))
	}
	return nil
}

func appendMacroProblems(problems []string, prefix string, macros ...*float64) []string {
	names := []string{"protein", "fat", "carbs"}
	for i, m := range macros {
		if m != nil && *m < 0 {
			problems = append(problems, fmt.Sprintf("%s %s must be non-negative if provided", prefix, names[i]))
		}
	}
	return problems
}

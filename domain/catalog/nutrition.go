package catalog

import "math"

// Nutrition holds a computed macro total. Each field is either a value or
// nil, where nil means "unknown" — a distinct state from zero. Unknown
// propagates through display paths but is coerced to 0 when frozen into a
// ledger entry.
type Nutrition struct {
	Kcal    *float64 `json:"kcal"`
	Protein *float64 `json:"protein"`
	Fat     *float64 `json:"fat"`
	Carbs   *float64 `json:"carbs"`
}

// NullNutrition returns the all-unknown result used by every resolver guard.
func NullNutrition() Nutrition {
	return Nutrition{}
}

// IsNull reports whether every macro field is unknown.
func (n Nutrition) IsNull() bool {
	return n.Kcal == nil && n.Protein == nil && n.Fat == nil && n.Carbs == nil
}

// Round2 rounds to 2 decimal places. The resolver rounds at every recursion
// level, not just at the top, so historical totals stay reproducible.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Float64 returns a pointer to v. Convenience for literals in drafts and tests.
func Float64(v float64) *float64 {
	return &v
}

// scaled multiplies a nullable per-portion value by factor, rounding the
// result. A nil input stays nil.
func scaled(v *float64, factor float64) *float64 {
	if v == nil {
		return nil
	}
	r := Round2(*v * factor)
	return &r
}

// Frozen returns the four macros with unknowns coerced to 0, the shape in
// which ledger entries store them.
func (n Nutrition) Frozen() (kcal, protein, fat, carbs float64) {
	return orZero(n.Kcal), orZero(n.Protein), orZero(n.Fat), orZero(n.Carbs)
}

// orZero coerces an unknown macro to 0 for ledger freezing.
func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

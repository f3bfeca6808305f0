package profile

import (
	"fmt"

	"dkcal-backend/pkg/errors"
)

// ActivityMode names a daily activity level used for maintenance estimates.
type ActivityMode string

const (
	ActivitySedentary  ActivityMode = "sedentary"
	ActivityLight      ActivityMode = "light"
	ActivityModerate   ActivityMode = "moderate"
	ActivityActive     ActivityMode = "active"
	ActivityVeryActive ActivityMode = "very_active"
	ActivityCustom     ActivityMode = "custom"
)

func validActivityMode(m ActivityMode) bool {
	switch m {
	case ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive, ActivityCustom:
		return true
	}
	return false
}

// Profile holds a user's body metrics and calorie targets. Every metric is
// optional; nil means the user has not filled it in.
type Profile struct {
	Name                string   `json:"name"`
	Sex                 *string  `json:"sex,omitempty"`
	Age                 *float64 `json:"age,omitempty"`
	Height              *float64 `json:"height,omitempty"`
	Weight              *float64 `json:"weight,omitempty"`
	BMR                 *float64 `json:"bmr,omitempty"`
	ActivityMode        *string  `json:"activityMode,omitempty"`
	CustomActivity      *float64 `json:"customActivity,omitempty"`
	DeficitPct          *float64 `json:"deficitPct,omitempty"`
	MaintenanceCalories *float64 `json:"maintenanceCalories,omitempty"`
	CalorieAdjust       *float64 `json:"calorieAdjust,omitempty"`
}

// Default returns the profile for a user that has never saved one.
func Default(userID string) Profile {
	return Profile{Name: userID}
}

// Patch is a partial profile update. Nil fields are left unchanged.
type Patch struct {
	Sex                 *string  `json:"sex"`
	Age                 *float64 `json:"age"`
	Height              *float64 `json:"height"`
	Weight              *float64 `json:"weight"`
	BMR                 *float64 `json:"bmr"`
	ActivityMode        *string  `json:"activityMode"`
	CustomActivity      *float64 `json:"customActivity"`
	DeficitPct          *float64 `json:"deficitPct"`
	MaintenanceCalories *float64 `json:"maintenanceCalories"`
	CalorieAdjust       *float64 `json:"calorieAdjust"`
}

// Apply validates the patch's ranges and merges it into p. The profile is
// untouched when any field is out of range.
func (p *Profile) Apply(patch Patch) error {
	if patch.Sex != nil && *patch.Sex != "male" && *patch.Sex != "female" {
		return errors.NewValidationError("sex must be male or female")
	}
	if err := checkRange(patch.Age, 1, 120, "age"); err != nil {
		return err
	}
	if err := checkRange(patch.Height, 50, 250, "height"); err != nil {
		return err
	}
	if err := checkRange(patch.Weight, 1, 500, "weight"); err != nil {
		return err
	}
	if err := checkRange(patch.BMR, 500, 10000, "bmr"); err != nil {
		return err
	}
	if patch.ActivityMode != nil && !validActivityMode(ActivityMode(*patch.ActivityMode)) {
		return errors.NewValidationError("invalid activity mode")
	}
	if err := checkRange(patch.CustomActivity, 0, 5000, "customActivity"); err != nil {
		return err
	}
	if err := checkRange(patch.DeficitPct, 1, 100, "deficitPct"); err != nil {
		return err
	}
	if err := checkRange(patch.CalorieAdjust, -50, 100, "calorieAdjust"); err != nil {
		return err
	}

	if patch.Sex != nil {
		p.Sex = patch.Sex
	}
	if patch.Age != nil {
		p.Age = patch.Age
	}
	if patch.Height != nil {
		p.Height = patch.Height
	}
	if patch.Weight != nil {
		p.Weight = patch.Weight
	}
	if patch.BMR != nil {
		p.BMR = patch.BMR
	}
	if patch.ActivityMode != nil {
		p.ActivityMode = patch.ActivityMode
	}
	if patch.CustomActivity != nil {
		p.CustomActivity = patch.CustomActivity
	}
	if patch.DeficitPct != nil {
		p.DeficitPct = patch.DeficitPct
	}
	if patch.MaintenanceCalories != nil {
		p.MaintenanceCalories = patch.MaintenanceCalories
	}
	if patch.CalorieAdjust != nil {
		p.CalorieAdjust = patch.CalorieAdjust
	}
	return nil
}

func checkRange(v *float64, min, max float64, field string) error {
	if v == nil {
		return nil
	}
	if *v < min || *v > max {
		return errors.NewValidationError(fmt.Sprintf("%s must be between %g and %g", field, min, max))
	}
	return nil
}

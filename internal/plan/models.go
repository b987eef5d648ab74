// Package plan expands a goal and an athletic profile into periodized
// training and nutrition plans.
package plan

import (
	"errors"
	"time"

	"github.com/myrjola/fitcore/internal/profile"
)

// Sentinel errors for plan generation and retrieval.
var (
	ErrIncompletePlanInput = errors.New("incomplete plan input")
	ErrNotFound            = errors.New("plan not found")
)

// Objective is the primary training objective of a goal. The set is closed;
// unmatched values fall back to the balanced distribution explicitly.
type Objective string

const (
	ObjectiveStrength    Objective = "strength"
	ObjectivePower       Objective = "power"
	ObjectiveEndurance   Objective = "endurance"
	ObjectiveSpeed       Objective = "speed"
	ObjectiveHypertrophy Objective = "hypertrophy"
	ObjectiveWeightLoss  Objective = "weight_loss"
	ObjectiveGeneral     Objective = "general"
)

// Goal is the user-declared target driving plan generation.
type Goal struct {
	Objective          Objective  `json:"objective"`
	TargetValue        float64    `json:"target_value"`
	CurrentValue       float64    `json:"current_value"`
	Unit               string     `json:"unit"`
	CompetitionDate    *time.Time `json:"competition_date,omitempty"`
	DailyTrainingHours float64    `json:"daily_training_hours"`
	Completed          bool       `json:"completed"`
}

// Periodization is the phase-sequencing style of a training plan.
type Periodization string

const (
	// PeriodizationReverse peaks toward a known competition date.
	PeriodizationReverse Periodization = "reverse"
	// PeriodizationUndulating varies stimulus within the week for
	// hypertrophy-driven goals.
	PeriodizationUndulating Periodization = "undulating"
	// PeriodizationLinear progresses volume to intensity over the cycle.
	PeriodizationLinear Periodization = "linear"
)

// Quality is one of the six trainable qualities a week is divided across.
type Quality string

const (
	QualityStrength  Quality = "strength"
	QualityPower     Quality = "power"
	QualityEndurance Quality = "endurance"
	QualitySpeed     Quality = "speed"
	QualityTechnique Quality = "technique"
	QualityRecovery  Quality = "recovery"
)

// Qualities lists all six training qualities in presentation order.
//
//nolint:gochecknoglobals // fixed enumeration.
var Qualities = []Quality{
	QualityStrength, QualityPower, QualityEndurance,
	QualitySpeed, QualityTechnique, QualityRecovery,
}

// Distribution allocates weekly training percentages across the six
// qualities. Values always sum to 100.
type Distribution map[Quality]int

// Total sums the allocated percentages.
func (d Distribution) Total() int {
	total := 0
	for _, pct := range d {
		total += pct
	}
	return total
}

// Phase is one sequential block of a periodized training plan.
type Phase struct {
	Name               string       `json:"name"`
	MinDurationWeeks   int          `json:"min_duration_weeks"`
	MaxDurationWeeks   int          `json:"max_duration_weeks"`
	VolumeLabel        string       `json:"volume"`
	IntensityLabel     string       `json:"intensity"`
	WeeklyDistribution Distribution `json:"weekly_distribution"`
}

// TrainingPlan is the periodized training sub-plan.
type TrainingPlan struct {
	Periodization Periodization `json:"periodization"`
	Objective     Objective     `json:"objective"`
	Phases        []Phase       `json:"phases"`
}

// MacroSplit is the daily macronutrient allocation in grams.
type MacroSplit struct {
	ProteinG int `json:"protein_g"`
	CarbsG   int `json:"carbs_g"`
	FatG     int `json:"fat_g"`
}

// MealWindow is a fixed meal-timing recommendation.
type MealWindow struct {
	Name     string `json:"name"`
	Timing   string `json:"timing"`
	Guidance string `json:"guidance"`
}

// NutritionPlan is the caloric and macronutrient sub-plan.
type NutritionPlan struct {
	DailyCalories      int          `json:"daily_calories"`
	ActivityMultiplier float64      `json:"activity_multiplier"`
	Macros             MacroSplit   `json:"macros"`
	MealWindows        []MealWindow `json:"meal_windows"`
}

// Plan is the generated artifact. It is immutable once produced; a new goal
// submission creates a new plan versioned by its creation timestamp.
type Plan struct {
	ID        string                  `json:"id"`
	SubjectID string                  `json:"subject_id"`
	CreatedAt time.Time               `json:"created_at"`
	Goal      Goal                    `json:"goal"`
	Profile   profile.AthleticProfile `json:"profile"`
	Training  TrainingPlan            `json:"training"`
	Nutrition NutritionPlan           `json:"nutrition"`
}

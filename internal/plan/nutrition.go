package plan

import (
	"fmt"
	"math"

	"github.com/myrjola/fitcore/internal/metrics"
)

// Athlete activity multipliers by daily training volume. These sit above the
// general-population factors because plan subjects train daily.
const (
	lightTrainingMultiplier    = 1.8
	moderateTrainingMultiplier = 2.0
	heavyTrainingMultiplier    = 2.2

	moderateTrainingHours = 1.0
	heavyTrainingHours    = 2.0
)

// Macro split percentages by calories and energy density per gram.
const (
	proteinPct = 0.20
	carbsPct   = 0.55
	fatPct     = 0.25

	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
)

// generateNutrition computes the caloric target from the sample's BMR scaled
// by an athlete multiplier, splits it into macros, and attaches the fixed
// meal-timing windows.
func generateNutrition(goal Goal, sample metrics.Sample) (NutritionPlan, error) {
	bmr, err := metrics.BMR(sample.Sex, sample.WeightKg, sample.HeightCm, sample.AgeYears)
	if err != nil {
		return NutritionPlan{}, fmt.Errorf("bmr: %w", err)
	}

	multiplier := activityMultiplier(goal.DailyTrainingHours)
	calories := int(math.Round(bmr * multiplier))

	return NutritionPlan{
		DailyCalories:      calories,
		ActivityMultiplier: multiplier,
		Macros: MacroSplit{
			ProteinG: int(math.Round(float64(calories) * proteinPct / kcalPerGramProtein)),
			CarbsG:   int(math.Round(float64(calories) * carbsPct / kcalPerGramCarbs)),
			FatG:     int(math.Round(float64(calories) * fatPct / kcalPerGramFat)),
		},
		MealWindows: mealWindows(),
	}, nil
}

// activityMultiplier buckets daily training hours into the athlete
// multipliers 1.8-2.2.
func activityMultiplier(dailyTrainingHours float64) float64 {
	switch {
	case dailyTrainingHours < moderateTrainingHours:
		return lightTrainingMultiplier
	case dailyTrainingHours < heavyTrainingHours:
		return moderateTrainingMultiplier
	default:
		return heavyTrainingMultiplier
	}
}

// mealWindows returns the fixed timing recommendations, independent of
// individual food preference.
func mealWindows() []MealWindow {
	return []MealWindow{
		{
			Name:     "pre_training",
			Timing:   "2-3 hours before the session",
			Guidance: "Carbohydrate-focused meal with moderate protein and low fat for digestibility.",
		},
		{
			Name:     "during_training",
			Timing:   "throughout sessions longer than 90 minutes",
			Guidance: "Fluids with electrolytes; add 30-60 g carbohydrates per hour on long sessions.",
		},
		{
			Name:     "post_training",
			Timing:   "within 30-60 minutes after the session",
			Guidance: "Protein with fast carbohydrates to restock glycogen and start recovery.",
		},
	}
}

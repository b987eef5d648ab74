package plan

import (
	"fmt"

	"github.com/myrjola/fitcore/internal/metrics"
	"github.com/myrjola/fitcore/internal/profile"
)

// Generate expands a goal, a profile, and the subject's latest sample into
// training and nutrition plans.
//
// Generation is deterministic and single-pass: the same inputs always produce
// an identical plan. Versioning metadata (id, timestamps) is assigned at
// persistence time, not here.
func Generate(
	goal Goal,
	prof profile.AthleticProfile,
	sample metrics.Sample,
) (TrainingPlan, NutritionPlan, error) {
	if err := validateInputs(goal, prof); err != nil {
		return TrainingPlan{}, NutritionPlan{}, err
	}
	if err := sample.Validate(); err != nil {
		return TrainingPlan{}, NutritionPlan{}, fmt.Errorf("validate sample: %w", err)
	}

	training := generateTraining(goal)

	nutrition, err := generateNutrition(goal, sample)
	if err != nil {
		return TrainingPlan{}, NutritionPlan{}, fmt.Errorf("generate nutrition plan: %w", err)
	}

	return training, nutrition, nil
}

// validateInputs fails with ErrIncompletePlanInput instead of guessing
// defaults for missing required fields.
func validateInputs(goal Goal, prof profile.AthleticProfile) error {
	if goal.Objective == "" {
		return fmt.Errorf("%w: missing goal objective", ErrIncompletePlanInput)
	}
	if goal.DailyTrainingHours <= 0 {
		return fmt.Errorf("%w: missing daily training hours", ErrIncompletePlanInput)
	}
	if prof.DominantType == "" {
		return fmt.Errorf("%w: missing profile dominant type", ErrIncompletePlanInput)
	}
	return nil
}

// generateTraining selects the periodization style from the goal shape and
// emits the four sequential phases with the objective's weekly distribution.
func generateTraining(goal Goal) TrainingPlan {
	style := PeriodizationLinear
	switch {
	case goal.CompetitionDate != nil:
		style = PeriodizationReverse
	case goal.Objective == ObjectiveHypertrophy:
		style = PeriodizationUndulating
	}

	dist := distributionFor(goal.Objective)

	phases := []Phase{
		{
			Name:               "general_preparation",
			MinDurationWeeks:   4,
			MaxDurationWeeks:   8,
			VolumeLabel:        "high",
			IntensityLabel:     "low",
			WeeklyDistribution: dist,
		},
		{
			Name:               "specific_preparation",
			MinDurationWeeks:   4,
			MaxDurationWeeks:   6,
			VolumeLabel:        "moderate",
			IntensityLabel:     "moderate",
			WeeklyDistribution: dist,
		},
		{
			Name:               "pre_competitive",
			MinDurationWeeks:   2,
			MaxDurationWeeks:   4,
			VolumeLabel:        "moderate",
			IntensityLabel:     "high",
			WeeklyDistribution: dist,
		},
		{
			Name:               "competitive",
			MinDurationWeeks:   1,
			MaxDurationWeeks:   3,
			VolumeLabel:        "low",
			IntensityLabel:     "peak",
			WeeklyDistribution: dist,
		},
	}

	return TrainingPlan{
		Periodization: style,
		Objective:     goal.Objective,
		Phases:        phases,
	}
}

// distributionFor matches the objective against the closed distribution
// table. Unmatched objectives get the balanced distribution explicitly
// rather than by accidental fallthrough. Every table sums to 100.
func distributionFor(objective Objective) Distribution {
	switch objective {
	case ObjectiveStrength:
		return Distribution{
			QualityStrength: 40, QualityPower: 15, QualityEndurance: 10,
			QualitySpeed: 5, QualityTechnique: 15, QualityRecovery: 15,
		}
	case ObjectivePower:
		return Distribution{
			QualityStrength: 25, QualityPower: 30, QualityEndurance: 10,
			QualitySpeed: 15, QualityTechnique: 10, QualityRecovery: 10,
		}
	case ObjectiveEndurance:
		return Distribution{
			QualityStrength: 10, QualityPower: 5, QualityEndurance: 50,
			QualitySpeed: 10, QualityTechnique: 10, QualityRecovery: 15,
		}
	case ObjectiveSpeed:
		return Distribution{
			QualityStrength: 10, QualityPower: 25, QualityEndurance: 10,
			QualitySpeed: 30, QualityTechnique: 15, QualityRecovery: 10,
		}
	case ObjectiveHypertrophy:
		return Distribution{
			QualityStrength: 35, QualityPower: 10, QualityEndurance: 15,
			QualitySpeed: 5, QualityTechnique: 20, QualityRecovery: 15,
		}
	case ObjectiveWeightLoss:
		return Distribution{
			QualityStrength: 20, QualityPower: 10, QualityEndurance: 35,
			QualitySpeed: 5, QualityTechnique: 10, QualityRecovery: 20,
		}
	case ObjectiveGeneral:
		return balancedDistribution()
	default:
		return balancedDistribution()
	}
}

func balancedDistribution() Distribution {
	return Distribution{
		QualityStrength: 20, QualityPower: 15, QualityEndurance: 20,
		QualitySpeed: 10, QualityTechnique: 20, QualityRecovery: 15,
	}
}

// KnownObjectives lists every objective the distribution switch matches,
// plus nothing else. Used by tests to assert the sum invariant.
//
//nolint:gochecknoglobals // fixed enumeration.
var KnownObjectives = []Objective{
	ObjectiveStrength, ObjectivePower, ObjectiveEndurance,
	ObjectiveSpeed, ObjectiveHypertrophy, ObjectiveWeightLoss, ObjectiveGeneral,
}

// Package profile derives an athletic profile from anthropometric samples and
// optional performance test results.
package profile

import (
	"fmt"

	"github.com/myrjola/fitcore/internal/metrics"
)

// TrainingType is the dominant training disposition of a subject.
type TrainingType string

const (
	TypePower     TrainingType = "power"
	TypeEndurance TrainingType = "endurance"
	TypeBalanced  TrainingType = "balanced"
)

// Capability names a trainable quality used in strengths and weaknesses.
type Capability string

const (
	CapabilityStrength  Capability = "strength"
	CapabilityPower     Capability = "power"
	CapabilityEndurance Capability = "endurance"
)

// PerformanceTests holds optional field test results. Absent tests leave the
// corresponding sub-scores at their seed value.
type PerformanceTests struct {
	SprintTimeSec  *float64 `json:"sprint_time_sec,omitempty"`
	VerticalJumpCm *float64 `json:"vertical_jump_cm,omitempty"`
	AgilityTimeSec *float64 `json:"agility_time_sec,omitempty"`
	VO2Max         *float64 `json:"vo2_max,omitempty"`
}

// Background holds optional training history context for potential scoring.
type Background struct {
	TrainingYears *int   `json:"training_years,omitempty"`
	PrimaryGoal   string `json:"primary_goal,omitempty"`
}

// SubScores are the 1-10 quality ratings the profile is built from.
type SubScores struct {
	Strength  float64 `json:"strength"`
	Power     float64 `json:"power"`
	Endurance float64 `json:"endurance"`
}

// AthleticProfile is the classification result. It is recomputed on demand
// and only persisted indirectly as a plan-generation input.
type AthleticProfile struct {
	DominantType   TrainingType `json:"dominant_type"`
	Scores         SubScores    `json:"scores"`
	Strengths      []Capability `json:"strengths"`
	Weaknesses     []Capability `json:"weaknesses"`
	PotentialScore float64      `json:"potential_score"`
}

// Scoring constants. Sub-scores seed at the scale midpoint and move by fixed
// increments per test threshold.
const (
	seedScore = 5.0
	minScore  = 1.0
	maxScore  = 10.0

	strengthThreshold = 7.0
	weaknessThreshold = 3.0

	// Age-related decrements applied after clamping.
	strengthPowerDeclineAge = 30
	enduranceDeclineAge     = 40
	ageDecrement            = 0.5
)

// Classify derives an athletic profile from the latest sample, optional test
// results, and training background.
func Classify(sample metrics.Sample, tests PerformanceTests, background Background) (AthleticProfile, error) {
	if err := sample.Validate(); err != nil {
		return AthleticProfile{}, fmt.Errorf("validate sample: %w", err)
	}

	scores, err := scoreTests(sample, tests)
	if err != nil {
		return AthleticProfile{}, fmt.Errorf("score tests: %w", err)
	}

	scores = applyAgeDecline(scores, sample.AgeYears)

	dominant := dominantType(scores)

	return AthleticProfile{
		DominantType:   dominant,
		Scores:         scores,
		Strengths:      capabilitiesAbove(scores, strengthThreshold),
		Weaknesses:     capabilitiesBelow(scores, weaknessThreshold),
		PotentialScore: potentialScore(sample.AgeYears, background, scores, dominant),
	}, nil
}

// scoreTests seeds each sub-score at 5 and adjusts by fixed thresholds for
// every available test, clamping to [1, 10] after each adjustment pass.
func scoreTests(sample metrics.Sample, tests PerformanceTests) (SubScores, error) {
	scores := SubScores{Strength: seedScore, Power: seedScore, Endurance: seedScore}

	if tests.VerticalJumpCm != nil {
		switch jump := *tests.VerticalJumpCm; {
		case jump > 60:
			scores.Power += 2
		case jump < 30:
			scores.Power--
		}
	}
	if tests.SprintTimeSec != nil {
		switch sprint := *tests.SprintTimeSec; {
		case sprint < 4.5:
			scores.Power++
		case sprint > 6.0:
			scores.Power--
		}
	}
	if tests.AgilityTimeSec != nil {
		switch agility := *tests.AgilityTimeSec; {
		case agility < 10.0:
			scores.Strength += 2
		case agility > 13.0:
			scores.Strength--
		}
	}
	if tests.VO2Max != nil {
		switch vo2 := *tests.VO2Max; {
		case vo2 > 55:
			scores.Endurance += 2
		case vo2 > 45:
			scores.Endurance++
		case vo2 < 35:
			scores.Endurance--
		}
	}

	// High BMI drags on endurance regardless of test results.
	bmi, err := metrics.BMI(sample.WeightKg, sample.HeightCm)
	if err != nil {
		return SubScores{}, fmt.Errorf("bmi: %w", err)
	}
	switch metrics.ClassifyBMI(bmi) {
	case metrics.BMIObeseI, metrics.BMIObeseII, metrics.BMIObeseIII:
		scores.Endurance--
	default:
	}

	scores.Strength = clamp(scores.Strength)
	scores.Power = clamp(scores.Power)
	scores.Endurance = clamp(scores.Endurance)
	return scores, nil
}

// applyAgeDecline decrements strength and power past 30 and endurance past
// 40, independently. Scores stay within [1, 10].
func applyAgeDecline(scores SubScores, ageYears int) SubScores {
	if ageYears > strengthPowerDeclineAge {
		scores.Strength = clamp(scores.Strength - ageDecrement)
		scores.Power = clamp(scores.Power - ageDecrement)
	}
	if ageYears > enduranceDeclineAge {
		scores.Endurance = clamp(scores.Endurance - ageDecrement)
	}
	return scores
}

// dominantType picks the training type whose sub-score strictly exceeds the
// others. Strength-dominant subjects fall into the power family; any tie
// resolves to balanced.
func dominantType(scores SubScores) TrainingType {
	powerAxis := max(scores.Strength, scores.Power)
	switch {
	case powerAxis > scores.Endurance:
		return TypePower
	case scores.Endurance > powerAxis:
		return TypeEndurance
	default:
		return TypeBalanced
	}
}

func capabilitiesAbove(scores SubScores, threshold float64) []Capability {
	var out []Capability
	if scores.Strength >= threshold {
		out = append(out, CapabilityStrength)
	}
	if scores.Power >= threshold {
		out = append(out, CapabilityPower)
	}
	if scores.Endurance >= threshold {
		out = append(out, CapabilityEndurance)
	}
	return out
}

func capabilitiesBelow(scores SubScores, threshold float64) []Capability {
	var out []Capability
	if scores.Strength <= threshold {
		out = append(out, CapabilityStrength)
	}
	if scores.Power <= threshold {
		out = append(out, CapabilityPower)
	}
	if scores.Endurance <= threshold {
		out = append(out, CapabilityEndurance)
	}
	return out
}

// goalAlignment maps declared primary goals to the training type they demand.
//
//nolint:gochecknoglobals // fixed lookup table.
var goalAlignment = map[string]TrainingType{
	"strength":    TypePower,
	"muscle_gain": TypePower,
	"endurance":   TypeEndurance,
	"weight_loss": TypeEndurance,
}

// potentialScore starts at 0.5 and accumulates bounded bonuses, capped at 1.0.
// It never goes below the base value since all adjustments are bonuses.
func potentialScore(ageYears int, background Background, scores SubScores, dominant TrainingType) float64 {
	const (
		base             = 0.5
		youthBonus       = 0.2
		youngAdultBonus  = 0.1
		freshnessBonus   = 0.1
		alignmentBonus   = 0.2
		headroomBonus    = 0.1
		youthAge         = 25
		youngAdultAge    = 30
		lowExperienceYrs = 5
	)

	score := base
	switch {
	case ageYears < youthAge:
		score += youthBonus
	case ageYears < youngAdultAge:
		score += youngAdultBonus
	}
	if background.TrainingYears != nil && *background.TrainingYears < lowExperienceYrs {
		score += freshnessBonus
	}
	if wanted, ok := goalAlignment[background.PrimaryGoal]; ok && wanted == dominant {
		score += alignmentBonus
	}
	if overallIndex(scores) < seedScore {
		score += headroomBonus
	}
	return min(score, 1.0)
}

func overallIndex(scores SubScores) float64 {
	return (scores.Strength + scores.Power + scores.Endurance) / 3
}

func clamp(score float64) float64 {
	return min(max(score, minScore), maxScore)
}

// Package metrics converts physiological samples into derived metrics such as
// BMI, BMR, and TDEE. All functions are pure and side-effect free.
package metrics

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidInput reports malformed or out-of-domain numeric input.
var ErrInvalidInput = errors.New("invalid input")

// Sex of a subject for the sex-branched formulas.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// ParseSex converts a string into a Sex value.
func ParseSex(s string) (Sex, error) {
	switch Sex(s) {
	case SexMale, SexFemale:
		return Sex(s), nil
	default:
		return "", fmt.Errorf("%w: unknown sex %q", ErrInvalidInput, s)
	}
}

// ActivityLevel is the four-level factor applied to BMR to estimate TDEE.
type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityLight     ActivityLevel = "light"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityIntense   ActivityLevel = "intense"
)

// ParseActivityLevel converts a string into an ActivityLevel value.
func ParseActivityLevel(s string) (ActivityLevel, error) {
	switch ActivityLevel(s) {
	case ActivitySedentary, ActivityLight, ActivityModerate, ActivityIntense:
		return ActivityLevel(s), nil
	default:
		return "", fmt.Errorf("%w: unknown activity level %q", ErrInvalidInput, s)
	}
}

// Sample is a single immutable anthropometric measurement.
type Sample struct {
	SubjectID    string    `json:"subject_id"`
	WeightKg     float64   `json:"weight_kg"`
	HeightCm     float64   `json:"height_cm"`
	Sex          Sex       `json:"sex"`
	AgeYears     int       `json:"age_years"`
	BodyFatPct   *float64  `json:"body_fat_pct,omitempty"`
	MuscleMassKg *float64  `json:"muscle_mass_kg,omitempty"`
	WaistCm      *float64  `json:"waist_cm,omitempty"`
	MeasuredAt   time.Time `json:"measured_at"`
}

// Plausibility bounds for recorded samples.
const (
	minWeightKg   = 20.0
	maxWeightKg   = 500.0
	minHeightCm   = 100.0
	maxHeightCm   = 250.0
	minBodyFatPct = 2.0
	maxBodyFatPct = 50.0
)

// Validate checks the sample against the documented bounds.
func (s Sample) Validate() error {
	if s.SubjectID == "" {
		return fmt.Errorf("%w: missing subject id", ErrInvalidInput)
	}
	if _, err := ParseSex(string(s.Sex)); err != nil {
		return err
	}
	if s.WeightKg < minWeightKg || s.WeightKg > maxWeightKg {
		return fmt.Errorf("%w: weight %.1f kg outside [%.0f, %.0f]",
			ErrInvalidInput, s.WeightKg, minWeightKg, maxWeightKg)
	}
	if s.HeightCm < minHeightCm || s.HeightCm > maxHeightCm {
		return fmt.Errorf("%w: height %.1f cm outside [%.0f, %.0f]",
			ErrInvalidInput, s.HeightCm, minHeightCm, maxHeightCm)
	}
	if s.BodyFatPct != nil && (*s.BodyFatPct < minBodyFatPct || *s.BodyFatPct > maxBodyFatPct) {
		return fmt.Errorf("%w: body fat %.1f%% outside [%.0f, %.0f]",
			ErrInvalidInput, *s.BodyFatPct, minBodyFatPct, maxBodyFatPct)
	}
	if s.AgeYears <= 0 {
		return fmt.Errorf("%w: age %d years", ErrInvalidInput, s.AgeYears)
	}
	return nil
}

// BMI computes the body mass index weight / (height/100)^2.
func BMI(weightKg, heightCm float64) (float64, error) {
	if heightCm <= 0 {
		return 0, fmt.Errorf("%w: height %.1f cm must be positive", ErrInvalidInput, heightCm)
	}
	heightM := heightCm / 100
	return weightKg / (heightM * heightM), nil
}

// BMR computes the basal metabolic rate using the revised Harris-Benedict
// formula, branched on sex.
func BMR(sex Sex, weightKg, heightCm float64, ageYears int) (float64, error) {
	age := float64(ageYears)
	switch sex {
	case SexMale:
		return 88.362 + 13.397*weightKg + 4.799*heightCm - 5.677*age, nil
	case SexFemale:
		return 447.593 + 9.247*weightKg + 3.098*heightCm - 4.330*age, nil
	default:
		return 0, fmt.Errorf("%w: unknown sex %q", ErrInvalidInput, sex)
	}
}

// activityFactors maps each activity level to its TDEE multiplier. There is
// deliberately no fallback entry: an unknown level is an error, never a
// silently assumed factor.
//
//nolint:gochecknoglobals // fixed lookup table.
var activityFactors = map[ActivityLevel]float64{
	ActivitySedentary: 1.2,
	ActivityLight:     1.375,
	ActivityModerate:  1.55,
	ActivityIntense:   1.725,
}

// TDEE scales a basal metabolic rate by the activity level factor.
func TDEE(bmr float64, level ActivityLevel) (float64, error) {
	factor, ok := activityFactors[level]
	if !ok {
		return 0, fmt.Errorf("%w: unknown activity level %q", ErrInvalidInput, level)
	}
	return bmr * factor, nil
}

// BMIClass is the WHO classification band of a BMI value.
type BMIClass string

const (
	BMIUnderweight BMIClass = "underweight"
	BMINormal      BMIClass = "normal"
	BMIOverweight  BMIClass = "overweight"
	BMIObeseI      BMIClass = "obese_i"
	BMIObeseII     BMIClass = "obese_ii"
	BMIObeseIII    BMIClass = "obese_iii"
)

// ClassifyBMI buckets a BMI value into its classification band.
func ClassifyBMI(bmi float64) BMIClass {
	switch {
	case bmi < 18.5:
		return BMIUnderweight
	case bmi < 25:
		return BMINormal
	case bmi < 30:
		return BMIOverweight
	case bmi < 35:
		return BMIObeseI
	case bmi < 40:
		return BMIObeseII
	default:
		return BMIObeseIII
	}
}

// Healthy BMI bounds used for the ideal weight range.
const (
	idealBMILow  = 18.5
	idealBMIHigh = 24.9
)

// IdealWeightRange returns the weight range in kg that keeps the BMI between
// 18.5 and 24.9 for the given height.
func IdealWeightRange(heightCm float64) (minKg, maxKg float64, err error) {
	if heightCm <= 0 {
		return 0, 0, fmt.Errorf("%w: height %.1f cm must be positive", ErrInvalidInput, heightCm)
	}
	heightM := heightCm / 100
	return idealBMILow * heightM * heightM, idealBMIHigh * heightM * heightM, nil
}

// BodyFatClass is the classification band of a body fat percentage.
type BodyFatClass string

const (
	BodyFatEssential BodyFatClass = "essential"
	BodyFatAthlete   BodyFatClass = "athlete"
	BodyFatFitness   BodyFatClass = "fitness"
	BodyFatAverage   BodyFatClass = "average"
	BodyFatOverFat   BodyFatClass = "over_fat"
)

// ClassifyBodyFat buckets a body fat percentage using sex-specific bands
// (ACE body fat norms).
func ClassifyBodyFat(bodyFatPct float64, sex Sex) (BodyFatClass, error) {
	switch sex {
	case SexMale:
		switch {
		case bodyFatPct < 6:
			return BodyFatEssential, nil
		case bodyFatPct < 14:
			return BodyFatAthlete, nil
		case bodyFatPct < 18:
			return BodyFatFitness, nil
		case bodyFatPct < 25:
			return BodyFatAverage, nil
		default:
			return BodyFatOverFat, nil
		}
	case SexFemale:
		switch {
		case bodyFatPct < 14:
			return BodyFatEssential, nil
		case bodyFatPct < 21:
			return BodyFatAthlete, nil
		case bodyFatPct < 25:
			return BodyFatFitness, nil
		case bodyFatPct < 32:
			return BodyFatAverage, nil
		default:
			return BodyFatOverFat, nil
		}
	default:
		return "", fmt.Errorf("%w: unknown sex %q", ErrInvalidInput, sex)
	}
}

// Derived bundles the metrics computed from a sample. It is never stored, only
// recomputed from the latest sample.
type Derived struct {
	BMI            float64  `json:"bmi"`
	BMR            float64  `json:"bmr"`
	TDEE           float64  `json:"tdee"`
	Classification BMIClass `json:"classification"`
}

// ComputeMetrics derives BMI, BMR, TDEE, and BMI classification from a sample
// and an activity level.
func ComputeMetrics(sample Sample, level ActivityLevel) (Derived, error) {
	bmi, err := BMI(sample.WeightKg, sample.HeightCm)
	if err != nil {
		return Derived{}, fmt.Errorf("bmi: %w", err)
	}
	bmr, err := BMR(sample.Sex, sample.WeightKg, sample.HeightCm, sample.AgeYears)
	if err != nil {
		return Derived{}, fmt.Errorf("bmr: %w", err)
	}
	tdee, err := TDEE(bmr, level)
	if err != nil {
		return Derived{}, fmt.Errorf("tdee: %w", err)
	}
	return Derived{
		BMI:            bmi,
		BMR:            bmr,
		TDEE:           tdee,
		Classification: ClassifyBMI(bmi),
	}, nil
}

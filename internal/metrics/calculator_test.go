package metrics_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/myrjola/fitcore/internal/metrics"
	"github.com/myrjola/fitcore/internal/ptr"
)

func TestBMI(t *testing.T) {
	got, err := metrics.BMI(70, 175)
	if err != nil {
		t.Fatalf("BMI: %v", err)
	}
	if want := 22.86; math.Abs(got-want) > 0.01 {
		t.Errorf("BMI(70, 175) = %.4f, want %.2f ± 0.01", got, want)
	}
	if class := metrics.ClassifyBMI(got); class != metrics.BMINormal {
		t.Errorf("ClassifyBMI(%.2f) = %s, want %s", got, class, metrics.BMINormal)
	}

	if _, err = metrics.BMI(70, 0); !errors.Is(err, metrics.ErrInvalidInput) {
		t.Errorf("BMI with zero height: got %v, want ErrInvalidInput", err)
	}
	if _, err = metrics.BMI(70, -175); !errors.Is(err, metrics.ErrInvalidInput) {
		t.Errorf("BMI with negative height: got %v, want ErrInvalidInput", err)
	}
}

func TestBMR(t *testing.T) {
	tests := []struct {
		name     string
		sex      metrics.Sex
		weightKg float64
		heightCm float64
		ageYears int
		want     float64
	}{
		{
			name:     "male reference subject",
			sex:      metrics.SexMale,
			weightKg: 70, heightCm: 175, ageYears: 30,
			// 88.362 + 13.397*70 + 4.799*175 - 5.677*30
			want: 1695.2,
		},
		{
			name:     "female reference subject",
			sex:      metrics.SexFemale,
			weightKg: 60, heightCm: 165, ageYears: 25,
			// 447.593 + 9.247*60 + 3.098*165 - 4.330*25
			want: 1405.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := metrics.BMR(tt.sex, tt.weightKg, tt.heightCm, tt.ageYears)
			if err != nil {
				t.Fatalf("BMR: %v", err)
			}
			if math.Abs(got-tt.want) > 0.5 {
				t.Errorf("BMR = %.2f, want %.1f ± 0.5", got, tt.want)
			}
		})
	}

	if _, err := metrics.BMR("other", 70, 175, 30); !errors.Is(err, metrics.ErrInvalidInput) {
		t.Errorf("BMR with unknown sex: got %v, want ErrInvalidInput", err)
	}
}

func TestTDEE(t *testing.T) {
	tests := []struct {
		level metrics.ActivityLevel
		want  float64
	}{
		{metrics.ActivitySedentary, 1200},
		{metrics.ActivityLight, 1375},
		{metrics.ActivityModerate, 1550},
		{metrics.ActivityIntense, 1725},
	}
	for _, tt := range tests {
		got, err := metrics.TDEE(1000, tt.level)
		if err != nil {
			t.Fatalf("TDEE(%s): %v", tt.level, err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("TDEE(1000, %s) = %.2f, want %.0f", tt.level, got, tt.want)
		}
	}

	// Unknown levels must fail instead of silently assuming a factor.
	if _, err := metrics.TDEE(1000, "couch"); !errors.Is(err, metrics.ErrInvalidInput) {
		t.Errorf("TDEE with unknown level: got %v, want ErrInvalidInput", err)
	}
}

func TestClassifyBMI(t *testing.T) {
	tests := []struct {
		bmi  float64
		want metrics.BMIClass
	}{
		{16.0, metrics.BMIUnderweight},
		{18.4999, metrics.BMIUnderweight},
		{18.5, metrics.BMINormal},
		{24.9, metrics.BMINormal},
		{25.0, metrics.BMIOverweight},
		{29.9, metrics.BMIOverweight},
		{30.0, metrics.BMIObeseI},
		{35.0, metrics.BMIObeseII},
		{40.0, metrics.BMIObeseIII},
		{55.0, metrics.BMIObeseIII},
	}
	for _, tt := range tests {
		if got := metrics.ClassifyBMI(tt.bmi); got != tt.want {
			t.Errorf("ClassifyBMI(%.4f) = %s, want %s", tt.bmi, got, tt.want)
		}
	}
}

func TestIdealWeightRange(t *testing.T) {
	minKg, maxKg, err := metrics.IdealWeightRange(175)
	if err != nil {
		t.Fatalf("IdealWeightRange: %v", err)
	}
	// 18.5 * 1.75^2 and 24.9 * 1.75^2
	if math.Abs(minKg-56.66) > 0.01 {
		t.Errorf("min = %.3f, want 56.66 ± 0.01", minKg)
	}
	if math.Abs(maxKg-76.26) > 0.01 {
		t.Errorf("max = %.3f, want 76.26 ± 0.01", maxKg)
	}

	if _, _, err = metrics.IdealWeightRange(0); !errors.Is(err, metrics.ErrInvalidInput) {
		t.Errorf("IdealWeightRange(0): got %v, want ErrInvalidInput", err)
	}
}

func TestClassifyBodyFat(t *testing.T) {
	tests := []struct {
		pct  float64
		sex  metrics.Sex
		want metrics.BodyFatClass
	}{
		{4, metrics.SexMale, metrics.BodyFatEssential},
		{10, metrics.SexMale, metrics.BodyFatAthlete},
		{15, metrics.SexMale, metrics.BodyFatFitness},
		{20, metrics.SexMale, metrics.BodyFatAverage},
		{30, metrics.SexMale, metrics.BodyFatOverFat},
		{12, metrics.SexFemale, metrics.BodyFatEssential},
		{18, metrics.SexFemale, metrics.BodyFatAthlete},
		{23, metrics.SexFemale, metrics.BodyFatFitness},
		{28, metrics.SexFemale, metrics.BodyFatAverage},
		{35, metrics.SexFemale, metrics.BodyFatOverFat},
	}
	for _, tt := range tests {
		got, err := metrics.ClassifyBodyFat(tt.pct, tt.sex)
		if err != nil {
			t.Fatalf("ClassifyBodyFat(%.0f, %s): %v", tt.pct, tt.sex, err)
		}
		if got != tt.want {
			t.Errorf("ClassifyBodyFat(%.0f, %s) = %s, want %s", tt.pct, tt.sex, got, tt.want)
		}
	}

	if _, err := metrics.ClassifyBodyFat(20, "other"); !errors.Is(err, metrics.ErrInvalidInput) {
		t.Errorf("ClassifyBodyFat with unknown sex: got %v, want ErrInvalidInput", err)
	}
}

func TestSampleValidate(t *testing.T) {
	valid := metrics.Sample{
		SubjectID:  "subject-1",
		WeightKg:   70,
		HeightCm:   175,
		Sex:        metrics.SexMale,
		AgeYears:   30,
		BodyFatPct: ptr.Ref(15.0),
		MeasuredAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid sample rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*metrics.Sample)
	}{
		{"missing subject", func(s *metrics.Sample) { s.SubjectID = "" }},
		{"weight too low", func(s *metrics.Sample) { s.WeightKg = 19 }},
		{"weight too high", func(s *metrics.Sample) { s.WeightKg = 501 }},
		{"height too low", func(s *metrics.Sample) { s.HeightCm = 99 }},
		{"height too high", func(s *metrics.Sample) { s.HeightCm = 251 }},
		{"body fat too low", func(s *metrics.Sample) { s.BodyFatPct = ptr.Ref(1.0) }},
		{"body fat too high", func(s *metrics.Sample) { s.BodyFatPct = ptr.Ref(51.0) }},
		{"unknown sex", func(s *metrics.Sample) { s.Sex = "other" }},
		{"zero age", func(s *metrics.Sample) { s.AgeYears = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sample := valid
			tt.mutate(&sample)
			if err := sample.Validate(); !errors.Is(err, metrics.ErrInvalidInput) {
				t.Errorf("Validate() = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestComputeMetrics(t *testing.T) {
	sample := metrics.Sample{
		SubjectID:  "subject-1",
		WeightKg:   70,
		HeightCm:   175,
		Sex:        metrics.SexMale,
		AgeYears:   30,
		MeasuredAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	derived, err := metrics.ComputeMetrics(sample, metrics.ActivityModerate)
	if err != nil {
		t.Fatalf("ComputeMetrics: %v", err)
	}
	if math.Abs(derived.BMI-22.86) > 0.01 {
		t.Errorf("BMI = %.4f, want 22.86 ± 0.01", derived.BMI)
	}
	if math.Abs(derived.BMR-1695.2) > 0.5 {
		t.Errorf("BMR = %.2f, want 1695.2 ± 0.5", derived.BMR)
	}
	if math.Abs(derived.TDEE-derived.BMR*1.55) > 1e-9 {
		t.Errorf("TDEE = %.2f, want BMR * 1.55", derived.TDEE)
	}
	if derived.Classification != metrics.BMINormal {
		t.Errorf("Classification = %s, want %s", derived.Classification, metrics.BMINormal)
	}

	if _, err = metrics.ComputeMetrics(sample, "extreme"); !errors.Is(err, metrics.ErrInvalidInput) {
		t.Errorf("ComputeMetrics with unknown level: got %v, want ErrInvalidInput", err)
	}
}

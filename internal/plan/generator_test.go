package plan_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/fitcore/internal/metrics"
	"github.com/myrjola/fitcore/internal/plan"
	"github.com/myrjola/fitcore/internal/profile"
)

func testSample() metrics.Sample {
	return metrics.Sample{
		SubjectID:  "subject-1",
		WeightKg:   70,
		HeightCm:   175,
		Sex:        metrics.SexMale,
		AgeYears:   22,
		MeasuredAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func testProfile() profile.AthleticProfile {
	return profile.AthleticProfile{
		DominantType: profile.TypeBalanced,
		Scores:       profile.SubScores{Strength: 5, Power: 5, Endurance: 5},
	}
}

func TestGenerateDistributionsSumTo100(t *testing.T) {
	objectives := append([]plan.Objective{}, plan.KnownObjectives...)
	objectives = append(objectives, plan.Objective("crossfit")) // unmatched value

	for _, objective := range objectives {
		t.Run(string(objective), func(t *testing.T) {
			goal := plan.Goal{Objective: objective, DailyTrainingHours: 1.5}
			training, _, err := plan.Generate(goal, testProfile(), testSample())
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if len(training.Phases) != 4 {
				t.Fatalf("got %d phases, want 4", len(training.Phases))
			}
			for _, phase := range training.Phases {
				if total := phase.WeeklyDistribution.Total(); total != 100 {
					t.Errorf("phase %s distribution sums to %d, want 100", phase.Name, total)
				}
				for _, quality := range plan.Qualities {
					if _, ok := phase.WeeklyDistribution[quality]; !ok {
						t.Errorf("phase %s missing quality %s", phase.Name, quality)
					}
				}
			}
		})
	}
}

func TestGeneratePeriodizationSelection(t *testing.T) {
	competition := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name string
		goal plan.Goal
		want plan.Periodization
	}{
		{
			name: "competition date selects reverse",
			goal: plan.Goal{
				Objective:          plan.ObjectiveEndurance,
				CompetitionDate:    &competition,
				DailyTrainingHours: 1,
			},
			want: plan.PeriodizationReverse,
		},
		{
			name: "competition date wins over hypertrophy",
			goal: plan.Goal{
				Objective:          plan.ObjectiveHypertrophy,
				CompetitionDate:    &competition,
				DailyTrainingHours: 1,
			},
			want: plan.PeriodizationReverse,
		},
		{
			name: "hypertrophy selects undulating",
			goal: plan.Goal{Objective: plan.ObjectiveHypertrophy, DailyTrainingHours: 1},
			want: plan.PeriodizationUndulating,
		},
		{
			name: "everything else is linear",
			goal: plan.Goal{Objective: plan.ObjectiveStrength, DailyTrainingHours: 1},
			want: plan.PeriodizationLinear,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			training, _, err := plan.Generate(tc.goal, testProfile(), testSample())
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if training.Periodization != tc.want {
				t.Errorf("Periodization = %s, want %s", training.Periodization, tc.want)
			}
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	goal := plan.Goal{
		Objective:          plan.ObjectivePower,
		TargetValue:        100,
		CurrentValue:       80,
		Unit:               "kg",
		DailyTrainingHours: 1.5,
	}

	training1, nutrition1, err := plan.Generate(goal, testProfile(), testSample())
	if err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	training2, nutrition2, err := plan.Generate(goal, testProfile(), testSample())
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}

	if diff := cmp.Diff(training1, training2); diff != "" {
		t.Errorf("training plans differ (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(nutrition1, nutrition2); diff != "" {
		t.Errorf("nutrition plans differ (-first +second):\n%s", diff)
	}

	json1, err := json.Marshal(training1)
	if err != nil {
		t.Fatalf("marshal first: %v", err)
	}
	json2, err := json.Marshal(training2)
	if err != nil {
		t.Fatalf("marshal second: %v", err)
	}
	if string(json1) != string(json2) {
		t.Error("serialized training plans are not byte-identical")
	}
}

func TestGenerateNutrition(t *testing.T) {
	// Male 70 kg, 175 cm, 22 y: BMR = 1741.083 kcal. At 1.5 h/day the
	// multiplier is 2.0, so 3482 kcal split 20/55/25 at 4/4/9 kcal per gram.
	goal := plan.Goal{Objective: plan.ObjectiveGeneral, DailyTrainingHours: 1.5}

	_, nutrition, err := plan.Generate(goal, testProfile(), testSample())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if nutrition.DailyCalories != 3482 {
		t.Errorf("DailyCalories = %d, want 3482", nutrition.DailyCalories)
	}
	if nutrition.ActivityMultiplier != 2.0 {
		t.Errorf("ActivityMultiplier = %.1f, want 2.0", nutrition.ActivityMultiplier)
	}
	wantMacros := plan.MacroSplit{ProteinG: 174, CarbsG: 479, FatG: 97}
	if diff := cmp.Diff(wantMacros, nutrition.Macros); diff != "" {
		t.Errorf("Macros mismatch (-want +got):\n%s", diff)
	}
	if len(nutrition.MealWindows) != 3 {
		t.Errorf("got %d meal windows, want 3", len(nutrition.MealWindows))
	}
}

func TestGenerateActivityMultiplierBuckets(t *testing.T) {
	testCases := []struct {
		hours float64
		want  float64
	}{
		{hours: 0.5, want: 1.8},
		{hours: 1.0, want: 2.0},
		{hours: 1.9, want: 2.0},
		{hours: 2.0, want: 2.2},
		{hours: 3.5, want: 2.2},
	}

	for _, tc := range testCases {
		goal := plan.Goal{Objective: plan.ObjectiveGeneral, DailyTrainingHours: tc.hours}
		_, nutrition, err := plan.Generate(goal, testProfile(), testSample())
		if err != nil {
			t.Fatalf("Generate with %.1f hours: %v", tc.hours, err)
		}
		if nutrition.ActivityMultiplier != tc.want {
			t.Errorf("hours %.1f: multiplier = %.1f, want %.1f", tc.hours, nutrition.ActivityMultiplier, tc.want)
		}
	}
}

func TestGenerateIncompleteInput(t *testing.T) {
	testCases := []struct {
		name    string
		goal    plan.Goal
		profile profile.AthleticProfile
	}{
		{
			name:    "missing objective",
			goal:    plan.Goal{DailyTrainingHours: 1},
			profile: testProfile(),
		},
		{
			name:    "missing training hours",
			goal:    plan.Goal{Objective: plan.ObjectiveStrength},
			profile: testProfile(),
		},
		{
			name:    "negative training hours",
			goal:    plan.Goal{Objective: plan.ObjectiveStrength, DailyTrainingHours: -1},
			profile: testProfile(),
		},
		{
			name:    "empty profile",
			goal:    plan.Goal{Objective: plan.ObjectiveStrength, DailyTrainingHours: 1},
			profile: profile.AthleticProfile{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := plan.Generate(tc.goal, tc.profile, testSample())
			if !errors.Is(err, plan.ErrIncompletePlanInput) {
				t.Errorf("got %v, want ErrIncompletePlanInput", err)
			}
		})
	}
}

func TestMarkdownRendersPlanSections(t *testing.T) {
	goal := plan.Goal{Objective: plan.ObjectiveStrength, DailyTrainingHours: 1.5}
	training, nutrition, err := plan.Generate(goal, testProfile(), testSample())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	p := plan.Plan{
		ID:        "plan-1",
		SubjectID: "subject-1",
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Goal:      goal,
		Profile:   testProfile(),
		Training:  training,
		Nutrition: nutrition,
	}

	doc := plan.Markdown(p)
	for _, want := range []string{
		"# Training plan for subject-1",
		"## Phases",
		"general_preparation",
		"## Weekly distribution",
		"## Nutrition",
		"pre_training",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("markdown missing %q", want)
		}
	}

	html, err := plan.HTML(p)
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if !strings.Contains(html, "<table>") {
		t.Error("html output missing rendered table")
	}
	if !strings.Contains(html, "<h1") {
		t.Error("html output missing heading")
	}
}

func TestGenerateRejectsInvalidSample(t *testing.T) {
	sample := testSample()
	sample.WeightKg = 5
	goal := plan.Goal{Objective: plan.ObjectiveGeneral, DailyTrainingHours: 1}

	_, _, err := plan.Generate(goal, testProfile(), sample)
	if !errors.Is(err, metrics.ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

package progress

import (
	"context"
	"fmt"
	"math"

	"github.com/myrjola/fitcore/internal/metrics"
)

// Trend classifies how a metric moved over the summary window.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// Metric names used in summaries.
const (
	MetricWeight     = "weight_kg"
	MetricBMI        = "bmi"
	MetricBodyFat    = "body_fat_pct"
	MetricMuscleMass = "muscle_mass_kg"
)

// metricDirections declares, per metric, whether a decrease is an
// improvement. The directionality is explicit; it is never inferred from the
// sign of the change.
//
//nolint:gochecknoglobals // fixed lookup table.
var metricDirections = map[string]bool{
	MetricWeight:     true,  // lower is better
	MetricBMI:        true,  // lower is better
	MetricBodyFat:    true,  // lower is better
	MetricMuscleMass: false, // higher is better
}

// stableThresholdPct is the |% change| below which a metric counts as stable.
const stableThresholdPct = 2.0

// MetricTrend is the movement of one metric across the window.
type MetricTrend struct {
	Metric        string  `json:"metric"`
	FirstHalfMean float64 `json:"first_half_mean"`
	LastHalfMean  float64 `json:"last_half_mean"`
	ChangePct     float64 `json:"change_pct"`
	Trend         Trend   `json:"trend"`
}

// Summary combines the current progress state with per-metric trends over the
// sample window.
type Summary struct {
	SubjectID  string        `json:"subject_id"`
	WindowDays int           `json:"window_days"`
	State      ProgressState `json:"state"`
	Trends     []MetricTrend `json:"trends"`
	Unlocked   []string      `json:"unlocked_achievements"`
}

// Summarize builds the progress summary for a subject over the past
// windowDays days. Missing state or an empty sample window is ErrNotFound.
func (s *Service) Summarize(ctx context.Context, subjectID string, windowDays int) (Summary, error) {
	if windowDays <= 0 {
		return Summary{}, fmt.Errorf("%w: window must be positive, got %d days", metrics.ErrInvalidInput, windowDays)
	}

	state, err := s.states.Load(ctx, subjectID)
	if err != nil {
		return Summary{}, fmt.Errorf("load progress state for %s: %w", subjectID, err)
	}

	since := s.now().AddDate(0, 0, -windowDays)
	samples, err := s.samples.ListSince(ctx, subjectID, since)
	if err != nil {
		return Summary{}, fmt.Errorf("list samples for %s: %w", subjectID, err)
	}
	if len(samples) == 0 {
		return Summary{}, fmt.Errorf("no samples in window for %s: %w", subjectID, ErrNotFound)
	}

	unlocked, err := s.unlocks.List(ctx, subjectID)
	if err != nil {
		return Summary{}, fmt.Errorf("list unlocks for %s: %w", subjectID, err)
	}

	return Summary{
		SubjectID:  subjectID,
		WindowDays: windowDays,
		State:      state,
		Trends:     computeTrends(samples),
		Unlocked:   unlocked,
	}, nil
}

// computeTrends compares the mean of the first half of the window's samples
// against the mean of the second half, per metric.
func computeTrends(samples []metrics.Sample) []MetricTrend {
	return []MetricTrend{
		trendFor(MetricWeight, samples, func(s metrics.Sample) (float64, bool) {
			return s.WeightKg, true
		}),
		trendFor(MetricBMI, samples, func(s metrics.Sample) (float64, bool) {
			bmi, err := metrics.BMI(s.WeightKg, s.HeightCm)
			return bmi, err == nil
		}),
		trendFor(MetricBodyFat, samples, func(s metrics.Sample) (float64, bool) {
			if s.BodyFatPct == nil {
				return 0, false
			}
			return *s.BodyFatPct, true
		}),
		trendFor(MetricMuscleMass, samples, func(s metrics.Sample) (float64, bool) {
			if s.MuscleMassKg == nil {
				return 0, false
			}
			return *s.MuscleMassKg, true
		}),
	}
}

// trendFor extracts one metric series from the samples and classifies its
// movement. Samples where the metric is absent are skipped.
func trendFor(metric string, samples []metrics.Sample, extract func(metrics.Sample) (float64, bool)) MetricTrend {
	var values []float64
	for _, sample := range samples {
		if v, ok := extract(sample); ok {
			values = append(values, v)
		}
	}

	trend := MetricTrend{Metric: metric, Trend: TrendStable}
	if len(values) < 2 {
		return trend
	}

	half := len(values) / 2
	trend.FirstHalfMean = mean(values[:half])
	trend.LastHalfMean = mean(values[half:])

	if trend.FirstHalfMean == 0 {
		return trend
	}
	trend.ChangePct = (trend.LastHalfMean - trend.FirstHalfMean) / trend.FirstHalfMean * 100

	if math.Abs(trend.ChangePct) < stableThresholdPct {
		return trend
	}

	decreased := trend.ChangePct < 0
	if decreased == metricDirections[metric] {
		trend.Trend = TrendImproving
	} else {
		trend.Trend = TrendDeclining
	}
	return trend
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

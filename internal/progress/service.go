package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/fitcore/internal/metrics"
	"github.com/myrjola/fitcore/internal/sqlite"
)

// maxConflictRetries bounds the optimistic-write retry loop. Transient
// contention between two devices of the same subject resolves within a retry
// or two; anything beyond that surfaces as ErrConcurrencyConflict.
const maxConflictRetries = 5

// Service is the progress-tracking facade: sample ingestion, derived metrics,
// the activity ledger, achievement unlocks, and summaries.
type Service struct {
	samples *sqliteSampleRepository
	events  *sqliteEventRepository
	states  *sqliteStateRepository
	unlocks *sqliteUnlockRepository
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

// NewService creates a progress service backed by SQLite.
func NewService(db *sqlite.Database, logger *slog.Logger) *Service {
	return &Service{
		samples: newSQLiteSampleRepository(db, logger),
		events:  newSQLiteEventRepository(db, logger),
		states:  newSQLiteStateRepository(db, logger),
		unlocks: newSQLiteUnlockRepository(db, logger),
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
}

// AppendSample validates and stores a physiological sample.
func (s *Service) AppendSample(ctx context.Context, sample metrics.Sample) error {
	if err := sample.Validate(); err != nil {
		return fmt.Errorf("validate sample: %w", err)
	}
	if sample.MeasuredAt.IsZero() {
		sample.MeasuredAt = s.now()
	}
	if err := s.samples.Append(ctx, sample); err != nil {
		return fmt.Errorf("append sample: %w", err)
	}
	return nil
}

// LatestSample returns the most recent sample for a subject.
func (s *Service) LatestSample(ctx context.Context, subjectID string) (metrics.Sample, error) {
	sample, err := s.samples.Latest(ctx, subjectID)
	if err != nil {
		return metrics.Sample{}, fmt.Errorf("latest sample for %s: %w", subjectID, err)
	}
	return sample, nil
}

// Metrics computes derived metrics from the subject's latest sample.
func (s *Service) Metrics(
	ctx context.Context,
	subjectID string,
	level metrics.ActivityLevel,
) (metrics.Derived, error) {
	sample, err := s.samples.Latest(ctx, subjectID)
	if err != nil {
		return metrics.Derived{}, fmt.Errorf("latest sample for %s: %w", subjectID, err)
	}
	derived, err := metrics.ComputeMetrics(sample, level)
	if err != nil {
		return metrics.Derived{}, fmt.Errorf("compute metrics: %w", err)
	}
	return derived, nil
}

// RecordActivity appends the event to the raw log, applies the ledger
// transition under optimistic concurrency, and evaluates achievements.
// Returns the post-mutation state and the ids of newly unlocked achievements.
func (s *Service) RecordActivity(
	ctx context.Context,
	subjectID string,
	event ActivityEvent,
) (ProgressState, []string, error) {
	event.SubjectID = subjectID
	if event.ID == "" {
		event.ID = s.newID()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now()
	}
	if err := event.Validate(); err != nil {
		return ProgressState{}, nil, err
	}

	// The raw log records every well-formed event, including ones the
	// ledger treats as no-ops such as a second login of the day.
	if err := s.events.Append(ctx, event); err != nil {
		return ProgressState{}, nil, fmt.Errorf("append event: %w", err)
	}

	state, err := s.applyWithRetry(ctx, subjectID, event)
	if err != nil {
		return ProgressState{}, nil, err
	}

	unlocked, err := s.evaluateAchievements(ctx, subjectID, state)
	if err != nil {
		return ProgressState{}, nil, err
	}
	state.AchievementsCount += len(unlocked)

	s.logger.LogAttrs(ctx, slog.LevelInfo, "activity recorded",
		slog.String("subject_id", subjectID),
		slog.String("event_type", string(event.Type)),
		slog.Int("total_xp", state.TotalXP),
		slog.Int("level", state.Level),
		slog.Int("unlocked", len(unlocked)))

	return state, unlocked, nil
}

// applyWithRetry runs the read-modify-write cycle until the version check
// passes or the retry bound is exhausted.
func (s *Service) applyWithRetry(
	ctx context.Context,
	subjectID string,
	event ActivityEvent,
) (ProgressState, error) {
	var lastErr error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		state, err := s.states.Load(ctx, subjectID)
		if errors.Is(err, ErrNotFound) {
			state = newProgressState(subjectID)
		} else if err != nil {
			return ProgressState{}, fmt.Errorf("load progress state: %w", err)
		}

		next, _, err := applyEvent(state, event)
		if err != nil {
			return ProgressState{}, fmt.Errorf("apply event: %w", err)
		}

		err = s.states.Save(ctx, next, state.Version)
		if errors.Is(err, ErrConcurrencyConflict) {
			lastErr = err
			continue
		}
		if err != nil {
			return ProgressState{}, fmt.Errorf("save progress state: %w", err)
		}

		next.Version = state.Version + 1
		return next, nil
	}
	return ProgressState{}, fmt.Errorf("apply event after %d attempts: %w", maxConflictRetries, lastErr)
}

// evaluateAchievements unlocks every achievement whose predicate holds for
// the post-mutation state. Each unlock is a single conditional insert, so
// concurrent evaluation cannot double-unlock.
func (s *Service) evaluateAchievements(
	ctx context.Context,
	subjectID string,
	state ProgressState,
) ([]string, error) {
	var unlocked []string
	for _, id := range matchingAchievements(state) {
		inserted, err := s.unlocks.InsertIfAbsent(ctx, subjectID, id, s.now())
		if err != nil {
			return nil, fmt.Errorf("unlock achievement %s: %w", id, err)
		}
		if inserted {
			unlocked = append(unlocked, id)
		}
	}

	if len(unlocked) > 0 {
		if err := s.states.IncrementAchievements(ctx, subjectID, len(unlocked)); err != nil {
			return nil, fmt.Errorf("count unlocked achievements: %w", err)
		}
	}
	return unlocked, nil
}

// State returns the progress state for a subject.
func (s *Service) State(ctx context.Context, subjectID string) (ProgressState, error) {
	state, err := s.states.Load(ctx, subjectID)
	if err != nil {
		return ProgressState{}, fmt.Errorf("load progress state for %s: %w", subjectID, err)
	}
	return state, nil
}

// Unlocks returns the unlocked achievement ids for a subject.
func (s *Service) Unlocks(ctx context.Context, subjectID string) ([]string, error) {
	ids, err := s.unlocks.List(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("list unlocks for %s: %w", subjectID, err)
	}
	return ids, nil
}

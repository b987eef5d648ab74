package plan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/fitcore/internal/metrics"
	"github.com/myrjola/fitcore/internal/profile"
	"github.com/myrjola/fitcore/internal/sqlite"
)

// SampleSource provides the latest anthropometric sample for a subject.
// Satisfied by the progress service.
type SampleSource interface {
	LatestSample(ctx context.Context, subjectID string) (metrics.Sample, error)
}

// Service generates and persists training plans.
type Service struct {
	repo    *sqliteRepository
	samples SampleSource
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

// NewService creates a plan service backed by SQLite.
func NewService(db *sqlite.Database, samples SampleSource, logger *slog.Logger) *Service {
	return &Service{
		repo:    newSQLiteRepository(db, logger),
		samples: samples,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
}

// GenerateRequest carries the inputs for a plan generation.
type GenerateRequest struct {
	SubjectID  string                   `json:"subject_id"`
	Goal       Goal                     `json:"goal"`
	Tests      profile.PerformanceTests `json:"tests"`
	Background profile.Background       `json:"background"`
}

// Generate classifies the subject from their latest sample, expands the goal
// into training and nutrition plans, and persists the result as a new
// immutable plan version.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (Plan, error) {
	if req.SubjectID == "" {
		return Plan{}, fmt.Errorf("%w: missing subject id", ErrIncompletePlanInput)
	}

	sample, err := s.samples.LatestSample(ctx, req.SubjectID)
	if err != nil {
		return Plan{}, fmt.Errorf("latest sample for %s: %w", req.SubjectID, err)
	}

	prof, err := profile.Classify(sample, req.Tests, req.Background)
	if err != nil {
		return Plan{}, fmt.Errorf("classify subject: %w", err)
	}

	training, nutrition, err := Generate(req.Goal, prof, sample)
	if err != nil {
		return Plan{}, fmt.Errorf("generate plan: %w", err)
	}

	p := Plan{
		ID:        s.newID(),
		SubjectID: req.SubjectID,
		CreatedAt: s.now(),
		Goal:      req.Goal,
		Profile:   prof,
		Training:  training,
		Nutrition: nutrition,
	}

	if err = s.repo.Create(ctx, p); err != nil {
		return Plan{}, fmt.Errorf("persist plan: %w", err)
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "plan generated",
		slog.String("plan_id", p.ID),
		slog.String("subject_id", p.SubjectID),
		slog.String("objective", string(p.Goal.Objective)),
		slog.String("periodization", string(p.Training.Periodization)))

	return p, nil
}

// Latest returns the most recent plan for a subject.
func (s *Service) Latest(ctx context.Context, subjectID string) (Plan, error) {
	p, err := s.repo.Latest(ctx, subjectID)
	if err != nil {
		return Plan{}, fmt.Errorf("latest plan for %s: %w", subjectID, err)
	}
	return p, nil
}

// History returns all plan versions for a subject, newest first.
func (s *Service) History(ctx context.Context, subjectID string) ([]Plan, error) {
	plans, err := s.repo.List(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("list plans for %s: %w", subjectID, err)
	}
	return plans, nil
}

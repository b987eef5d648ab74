// Package progress tracks activity events, the derived per-subject progress
// state, and achievement unlocks.
package progress

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the progress ledger and its persistence.
var (
	ErrInvalidEvent        = errors.New("invalid activity event")
	ErrNotFound            = errors.New("not found")
	ErrConcurrencyConflict = errors.New("concurrency conflict")
)

// EventType is the kind of activity an event records.
type EventType string

const (
	EventWorkout      EventType = "workout"
	EventVideoWatched EventType = "video_watched"
	EventLogin        EventType = "login"
)

// ActivityEvent is one append-only log entry. The raw log is the source of
// truth for every derived aggregate.
type ActivityEvent struct {
	ID             string            `json:"id"`
	SubjectID      string            `json:"subject_id"`
	Type           EventType         `json:"type"`
	DurationMin    int               `json:"duration_min"`
	CaloriesBurned int               `json:"calories_burned"`
	OccurredAt     time.Time         `json:"occurred_at"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// Validate rejects malformed events. Well-formed events are never rejected by
// the ledger.
func (e ActivityEvent) Validate() error {
	switch e.Type {
	case EventWorkout, EventVideoWatched, EventLogin:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, e.Type)
	}
	if e.SubjectID == "" {
		return fmt.Errorf("%w: missing subject id", ErrInvalidEvent)
	}
	if e.DurationMin < 0 {
		return fmt.Errorf("%w: negative duration %d", ErrInvalidEvent, e.DurationMin)
	}
	if e.CaloriesBurned < 0 {
		return fmt.Errorf("%w: negative calories %d", ErrInvalidEvent, e.CaloriesBurned)
	}
	if e.OccurredAt.IsZero() {
		return fmt.Errorf("%w: missing occurrence time", ErrInvalidEvent)
	}
	return nil
}

// ProgressState is the mutable per-subject aggregate derived from the event
// log. Version backs the optimistic write check; callers never set it.
type ProgressState struct {
	SubjectID         string     `json:"subject_id"`
	TotalWorkouts     int        `json:"total_workouts"`
	TotalMinutes      int        `json:"total_minutes"`
	TotalCalories     int        `json:"total_calories"`
	VideosWatched     int        `json:"videos_watched"`
	CurrentStreak     int        `json:"current_streak"`
	LongestStreak     int        `json:"longest_streak"`
	LastActivityDate  *time.Time `json:"last_activity_date,omitempty"`
	LastLoginDate     *time.Time `json:"last_login_date,omitempty"`
	TotalXP           int        `json:"total_xp"`
	Level             int        `json:"level"`
	AchievementsCount int        `json:"achievements_count"`

	Version int64 `json:"-"`
}

package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/myrjola/fitcore/internal/sqlite"
)

// sqliteStateRepository persists the versioned progress state row. Every
// write is guarded by the version column so that concurrent read-modify-write
// cycles for the same subject cannot silently overwrite each other.
type sqliteStateRepository struct {
	baseRepository
}

func newSQLiteStateRepository(db *sqlite.Database, logger *slog.Logger) *sqliteStateRepository {
	return &sqliteStateRepository{baseRepository: newBaseRepository(db, logger)}
}

// Load retrieves the progress state for a subject, or ErrNotFound when the
// subject has no state yet and the caller must lazily initialize it.
func (r *sqliteStateRepository) Load(ctx context.Context, subjectID string) (ProgressState, error) {
	var (
		state           ProgressState
		lastActivityStr sql.NullString
		lastLoginStr    sql.NullString
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT subject_id, total_workouts, total_minutes, total_calories, videos_watched,
		       current_streak, longest_streak, last_activity_date, last_login_date,
		       total_xp, level, achievements_count, version
		FROM progress_states
		WHERE subject_id = ?`, subjectID).Scan(
		&state.SubjectID, &state.TotalWorkouts, &state.TotalMinutes, &state.TotalCalories,
		&state.VideosWatched, &state.CurrentStreak, &state.LongestStreak,
		&lastActivityStr, &lastLoginStr,
		&state.TotalXP, &state.Level, &state.AchievementsCount, &state.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return ProgressState{}, ErrNotFound
	}
	if err != nil {
		return ProgressState{}, fmt.Errorf("query progress state: %w", err)
	}

	if state.LastActivityDate, err = parseDatePtr(lastActivityStr); err != nil {
		return ProgressState{}, fmt.Errorf("parse last_activity_date: %w", err)
	}
	if state.LastLoginDate, err = parseDatePtr(lastLoginStr); err != nil {
		return ProgressState{}, fmt.Errorf("parse last_login_date: %w", err)
	}
	return state, nil
}

// Save writes the state if and only if the stored version still matches
// expectedVersion. expectedVersion 0 means the row must not exist yet. A
// failed check returns ErrConcurrencyConflict; the caller reloads and retries.
func (r *sqliteStateRepository) Save(ctx context.Context, state ProgressState, expectedVersion int64) error {
	if expectedVersion == 0 {
		result, err := r.db.ReadWrite.ExecContext(ctx, `
			INSERT INTO progress_states (
				subject_id, total_workouts, total_minutes, total_calories, videos_watched,
				current_streak, longest_streak, last_activity_date, last_login_date,
				total_xp, level, achievements_count, version
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
			ON CONFLICT (subject_id) DO NOTHING`,
			state.SubjectID, state.TotalWorkouts, state.TotalMinutes, state.TotalCalories,
			state.VideosWatched, state.CurrentStreak, state.LongestStreak,
			formatDatePtr(state.LastActivityDate), formatDatePtr(state.LastLoginDate),
			state.TotalXP, state.Level, state.AchievementsCount)
		if err != nil {
			return fmt.Errorf("insert progress state: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("get rows affected: %w", err)
		}
		if rows == 0 {
			// Another writer initialized the row first.
			return ErrConcurrencyConflict
		}
		return nil
	}

	result, err := r.db.ReadWrite.ExecContext(ctx, `
		UPDATE progress_states SET
			total_workouts = ?, total_minutes = ?, total_calories = ?, videos_watched = ?,
			current_streak = ?, longest_streak = ?, last_activity_date = ?, last_login_date = ?,
			total_xp = ?, level = ?, achievements_count = ?, version = version + 1
		WHERE subject_id = ? AND version = ?`,
		state.TotalWorkouts, state.TotalMinutes, state.TotalCalories, state.VideosWatched,
		state.CurrentStreak, state.LongestStreak,
		formatDatePtr(state.LastActivityDate), formatDatePtr(state.LastLoginDate),
		state.TotalXP, state.Level, state.AchievementsCount,
		state.SubjectID, expectedVersion)
	if err != nil {
		return fmt.Errorf("update progress state: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrConcurrencyConflict
	}
	return nil
}

// IncrementAchievements bumps the denormalized unlock counter. The increment
// commutes with concurrent ledger writes, so it needs no version check.
func (r *sqliteStateRepository) IncrementAchievements(ctx context.Context, subjectID string, by int) error {
	result, err := r.db.ReadWrite.ExecContext(ctx, `
		UPDATE progress_states
		SET achievements_count = achievements_count + ?, version = version + 1
		WHERE subject_id = ?`, by, subjectID)
	if err != nil {
		return fmt.Errorf("increment achievements count: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

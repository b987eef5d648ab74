package progress

import (
	"fmt"
	"time"
)

// XP formula constants.
const (
	workoutBaseXP      = 10
	workoutMaxDuration = 60
	workoutMaxCaloryXP = 50
	caloriesPerXP      = 10
	videoBaseXP        = 5
	videoMinutesPerXP  = 5
	loginXP            = 10
	welcomeBonusXP     = 50
)

// levelBreakpoints maps cumulative XP to levels. The table is monotone: a
// subject at breakpoint[i] XP or more has at least level i+1.
//
//nolint:gochecknoglobals // fixed lookup table.
var levelBreakpoints = []int{0, 100, 250, 500, 1000, 2000, 3500, 5500, 8000, 11000}

// levelFromXP converts total XP to a level. Monotone and total: any XP value
// maps to exactly one level between 1 and len(levelBreakpoints).
func levelFromXP(totalXP int) int {
	level := 1
	for i, breakpoint := range levelBreakpoints {
		if totalXP >= breakpoint {
			level = i + 1
		}
	}
	return level
}

// newProgressState lazily initializes state for a subject with the welcome
// bonus applied.
func newProgressState(subjectID string) ProgressState {
	xp := welcomeBonusXP
	return ProgressState{
		SubjectID: subjectID,
		TotalXP:   xp,
		Level:     levelFromXP(xp),
	}
}

// applyEvent is the pure ledger transition: state and event in, new state and
// awarded XP out. It never mutates its input and never touches storage.
func applyEvent(state ProgressState, event ActivityEvent) (ProgressState, int, error) {
	if err := event.Validate(); err != nil {
		return ProgressState{}, 0, fmt.Errorf("validate event: %w", err)
	}
	if event.SubjectID != state.SubjectID {
		return ProgressState{}, 0, fmt.Errorf("%w: event subject %q does not match state subject %q",
			ErrInvalidEvent, event.SubjectID, state.SubjectID)
	}

	day := dateOf(event.OccurredAt)
	xpGain := 0

	switch event.Type {
	case EventWorkout:
		state.TotalWorkouts++
		state.TotalMinutes += event.DurationMin
		state.TotalCalories += event.CaloriesBurned
		state = advanceStreak(state, day)
		xpGain = workoutXP(event)

	case EventVideoWatched:
		state.VideosWatched++
		xpGain = videoBaseXP + event.DurationMin/videoMinutesPerXP

	case EventLogin:
		// Only the first login of a calendar day counts.
		if state.LastLoginDate == nil || !state.LastLoginDate.Equal(day) {
			state.LastLoginDate = &day
			xpGain = loginXP
		}
	}

	state.TotalXP += xpGain
	state.Level = levelFromXP(state.TotalXP)
	return state, xpGain, nil
}

// advanceStreak applies the calendar-day streak transition for a workout.
// Same day leaves the streak unchanged, the next day extends it, and any gap
// resets it to 1.
func advanceStreak(state ProgressState, day time.Time) ProgressState {
	switch {
	case state.LastActivityDate != nil && state.LastActivityDate.Equal(day):
		// Second workout of the day: totals move, the streak does not.
		return state
	case state.LastActivityDate != nil && state.LastActivityDate.AddDate(0, 0, 1).Equal(day):
		state.CurrentStreak++
	default:
		state.CurrentStreak = 1
	}
	state.LongestStreak = max(state.LongestStreak, state.CurrentStreak)
	state.LastActivityDate = &day
	return state
}

func workoutXP(event ActivityEvent) int {
	return workoutBaseXP +
		min(event.DurationMin, workoutMaxDuration) +
		min(event.CaloriesBurned/caloriesPerXP, workoutMaxCaloryXP)
}

// dateOf truncates a timestamp to its UTC calendar day.
func dateOf(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

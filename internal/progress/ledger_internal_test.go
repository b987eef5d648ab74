package progress

import (
	"errors"
	"testing"
	"time"
)

func workoutEvent(day time.Time, durationMin, calories int) ActivityEvent {
	return ActivityEvent{
		ID:             "event-1",
		SubjectID:      "subject-1",
		Type:           EventWorkout,
		DurationMin:    durationMin,
		CaloriesBurned: calories,
		OccurredAt:     day,
	}
}

func day(offset int) time.Time {
	return time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestApplyWorkoutXP(t *testing.T) {
	testCases := []struct {
		name     string
		duration int
		calories int
		wantXP   int
	}{
		{name: "typical workout", duration: 30, calories: 300, wantXP: 70},
		{name: "duration and calories capped", duration: 90, calories: 1000, wantXP: 120},
		{name: "zero duration", duration: 0, calories: 0, wantXP: 10},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			state := newProgressState("subject-1")
			next, xp, err := applyEvent(state, workoutEvent(day(0), tc.duration, tc.calories))
			if err != nil {
				t.Fatalf("applyEvent: %v", err)
			}
			if xp != tc.wantXP {
				t.Errorf("xp = %d, want %d", xp, tc.wantXP)
			}
			if next.TotalXP != state.TotalXP+tc.wantXP {
				t.Errorf("TotalXP = %d, want %d", next.TotalXP, state.TotalXP+tc.wantXP)
			}
			if next.TotalWorkouts != 1 || next.TotalMinutes != tc.duration || next.TotalCalories != tc.calories {
				t.Errorf("totals = %d/%d/%d, want 1/%d/%d",
					next.TotalWorkouts, next.TotalMinutes, next.TotalCalories, tc.duration, tc.calories)
			}
		})
	}
}

func TestApplyVideoXP(t *testing.T) {
	state := newProgressState("subject-1")
	event := ActivityEvent{
		ID:          "event-1",
		SubjectID:   "subject-1",
		Type:        EventVideoWatched,
		DurationMin: 22,
		OccurredAt:  day(0),
	}

	next, xp, err := applyEvent(state, event)
	if err != nil {
		t.Fatalf("applyEvent: %v", err)
	}
	if want := 9; xp != want { // 5 + floor(22/5)
		t.Errorf("xp = %d, want %d", xp, want)
	}
	if next.VideosWatched != 1 {
		t.Errorf("VideosWatched = %d, want 1", next.VideosWatched)
	}
	if next.CurrentStreak != 0 {
		t.Errorf("video must not start a streak, got %d", next.CurrentStreak)
	}
}

func TestApplyLoginOncePerDay(t *testing.T) {
	state := newProgressState("subject-1")
	login := func(at time.Time) ActivityEvent {
		return ActivityEvent{ID: "event-1", SubjectID: "subject-1", Type: EventLogin, OccurredAt: at}
	}

	state, xp, err := applyEvent(state, login(day(0)))
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	if xp != loginXP {
		t.Errorf("first login xp = %d, want %d", xp, loginXP)
	}

	state, xp, err = applyEvent(state, login(day(0).Add(4*time.Hour)))
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if xp != 0 {
		t.Errorf("second login same day xp = %d, want 0", xp)
	}

	_, xp, err = applyEvent(state, login(day(1)))
	if err != nil {
		t.Fatalf("next-day login: %v", err)
	}
	if xp != loginXP {
		t.Errorf("next-day login xp = %d, want %d", xp, loginXP)
	}
}

func TestStreakTransitions(t *testing.T) {
	state := newProgressState("subject-1")

	apply := func(at time.Time) ProgressState {
		t.Helper()
		next, _, err := applyEvent(state, workoutEvent(at, 30, 200))
		if err != nil {
			t.Fatalf("applyEvent at %s: %v", at, err)
		}
		return next
	}

	state = apply(day(0))
	if state.CurrentStreak != 1 {
		t.Errorf("first workout streak = %d, want 1", state.CurrentStreak)
	}

	state = apply(day(1))
	if state.CurrentStreak != 2 {
		t.Errorf("consecutive day streak = %d, want 2", state.CurrentStreak)
	}

	// Second workout of the same day moves totals but not the streak.
	state = apply(day(1).Add(10 * time.Hour))
	if state.CurrentStreak != 2 {
		t.Errorf("same-day streak = %d, want 2", state.CurrentStreak)
	}
	if state.TotalWorkouts != 3 {
		t.Errorf("TotalWorkouts = %d, want 3", state.TotalWorkouts)
	}

	// A gap resets the streak but the longest streak stays.
	state = apply(day(3))
	if state.CurrentStreak != 1 {
		t.Errorf("post-gap streak = %d, want 1", state.CurrentStreak)
	}
	if state.LongestStreak != 2 {
		t.Errorf("LongestStreak = %d, want 2", state.LongestStreak)
	}
}

func TestStreakContinuity(t *testing.T) {
	state := newProgressState("subject-1")
	longest := 0
	for i := range 10 {
		next, _, err := applyEvent(state, workoutEvent(day(i), 30, 200))
		if err != nil {
			t.Fatalf("applyEvent day %d: %v", i, err)
		}
		if next.CurrentStreak != i+1 {
			t.Errorf("day %d: streak = %d, want %d", i, next.CurrentStreak, i+1)
		}
		if next.LongestStreak < longest {
			t.Errorf("day %d: LongestStreak decreased from %d to %d", i, longest, next.LongestStreak)
		}
		longest = next.LongestStreak
		state = next
	}
}

func TestLevelFromXP(t *testing.T) {
	testCases := []struct {
		xp   int
		want int
	}{
		{xp: 0, want: 1},
		{xp: 99, want: 1},
		{xp: 100, want: 2},
		{xp: 249, want: 2},
		{xp: 250, want: 3},
		{xp: 1000, want: 5},
		{xp: 11000, want: 10},
		{xp: 50000, want: 10},
	}
	for _, tc := range testCases {
		if got := levelFromXP(tc.xp); got != tc.want {
			t.Errorf("levelFromXP(%d) = %d, want %d", tc.xp, got, tc.want)
		}
	}

	// Monotone over a dense scan.
	prev := 0
	for xp := 0; xp <= 12000; xp += 50 {
		level := levelFromXP(xp)
		if level < prev {
			t.Fatalf("levelFromXP(%d) = %d dropped below %d", xp, level, prev)
		}
		prev = level
	}
}

func TestWelcomeBonus(t *testing.T) {
	state := newProgressState("subject-1")
	if state.TotalXP != welcomeBonusXP {
		t.Errorf("TotalXP = %d, want %d", state.TotalXP, welcomeBonusXP)
	}
	if state.Level != 1 {
		t.Errorf("Level = %d, want 1", state.Level)
	}
}

func TestApplyRejectsMalformedEvents(t *testing.T) {
	state := newProgressState("subject-1")

	testCases := []struct {
		name  string
		event ActivityEvent
	}{
		{
			name:  "unknown type",
			event: ActivityEvent{ID: "e", SubjectID: "subject-1", Type: "nap", OccurredAt: day(0)},
		},
		{
			name: "negative duration",
			event: ActivityEvent{
				ID: "e", SubjectID: "subject-1", Type: EventWorkout, DurationMin: -5, OccurredAt: day(0),
			},
		},
		{
			name: "negative calories",
			event: ActivityEvent{
				ID: "e", SubjectID: "subject-1", Type: EventWorkout, CaloriesBurned: -1, OccurredAt: day(0),
			},
		},
		{
			name:  "subject mismatch",
			event: ActivityEvent{ID: "e", SubjectID: "other", Type: EventWorkout, OccurredAt: day(0)},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := applyEvent(state, tc.event)
			if !errors.Is(err, ErrInvalidEvent) {
				t.Errorf("got %v, want ErrInvalidEvent", err)
			}
		})
	}
}

func TestMatchingAchievements(t *testing.T) {
	state := ProgressState{TotalWorkouts: 1, CurrentStreak: 1}
	got := matchingAchievements(state)
	if len(got) != 1 || got[0] != "first_workout" {
		t.Errorf("matchingAchievements = %v, want [first_workout]", got)
	}

	state = ProgressState{TotalWorkouts: 30, CurrentStreak: 30, VideosWatched: 10, TotalXP: 1000, Level: 5}
	got = matchingAchievements(state)
	if len(got) != len(achievementRules) {
		t.Errorf("matchingAchievements matched %d rules, want all %d: %v", len(got), len(achievementRules), got)
	}
}

package progress

// achievementRule pairs a catalog id with its unlock predicate. Predicates
// run against the post-mutation state, and thresholds use >= so a transient
// condition observed once is enough; the unlock itself is permanent.
type achievementRule struct {
	id        string
	predicate func(ProgressState) bool
}

// achievementRules is the fixed evaluation order. Ids match the seeded
// achievement catalog.
//
//nolint:gochecknoglobals // fixed rule table.
var achievementRules = []achievementRule{
	{
		id:        "first_workout",
		predicate: func(s ProgressState) bool { return s.TotalWorkouts >= 1 },
	},
	{
		id:        "weekly_warrior",
		predicate: func(s ProgressState) bool { return s.CurrentStreak >= 7 },
	},
	{
		id:        "monthly_hero",
		predicate: func(s ProgressState) bool { return s.TotalWorkouts >= 30 },
	},
	{
		id:        "iron_streak",
		predicate: func(s ProgressState) bool { return s.CurrentStreak >= 30 },
	},
	{
		id:        "video_student",
		predicate: func(s ProgressState) bool { return s.VideosWatched >= 10 },
	},
	{
		id:        "xp_collector",
		predicate: func(s ProgressState) bool { return s.TotalXP >= 1000 },
	},
	{
		id:        "level_five",
		predicate: func(s ProgressState) bool { return s.Level >= 5 },
	},
}

// matchingAchievements returns the ids whose predicates hold for the state.
func matchingAchievements(state ProgressState) []string {
	var ids []string
	for _, rule := range achievementRules {
		if rule.predicate(state) {
			ids = append(ids, rule.id)
		}
	}
	return ids
}

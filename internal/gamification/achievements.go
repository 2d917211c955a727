package gamification

// Stats is the cumulative user state achievements are evaluated against.
type Stats struct {
	TotalQuizzes   int
	CurrentStreak  int
	Points         int
	PerfectQuizzes int
}

// AchievementDef is one entry of the fixed achievement catalog.
type AchievementDef struct {
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	unlocked    func(Stats) bool
}

var catalog = []AchievementDef{
	{"First Steps", "🎯", "Complete your first quiz", func(s Stats) bool { return s.TotalQuizzes >= 1 }},
	{"Quiz Master", "📚", "Complete 10 quizzes", func(s Stats) bool { return s.TotalQuizzes >= 10 }},
	{"Dedicated Learner", "🎓", "Complete 50 quizzes", func(s Stats) bool { return s.TotalQuizzes >= 50 }},
	{"Hot Streak", "🔥", "Maintain a 3-day streak", func(s Stats) bool { return s.CurrentStreak >= 3 }},
	{"Week Warrior", "⚡", "Maintain a 7-day streak", func(s Stats) bool { return s.CurrentStreak >= 7 }},
	{"Point Master", "⭐", "Earn 500 points", func(s Stats) bool { return s.Points >= 500 }},
	{"Perfectionist", "💯", "Get 5 perfect scores", func(s Stats) bool { return s.PerfectQuizzes >= 5 }},
}

// Catalog returns a copy of every achievement in display order.
func Catalog() []AchievementDef {
	out := make([]AchievementDef, len(catalog))
	copy(out, catalog)
	return out
}

// Evaluate returns the achievements whose predicate holds on stats and whose
// name is not already in earned. Calling it again with the returned names
// added to earned yields nothing.
func Evaluate(stats Stats, earned map[string]struct{}) []AchievementDef {
	var unlocked []AchievementDef
	for _, def := range catalog {
		if _, ok := earned[def.Name]; ok {
			continue
		}
		if def.unlocked(stats) {
			unlocked = append(unlocked, def)
		}
	}
	return unlocked
}

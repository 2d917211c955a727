package app

import (
	"time"

	"quiz-platform/internal/domain"
	"quiz-platform/internal/gamification"
)

// QuizSubmission is a validated quiz result reported by the client.
type QuizSubmission struct {
	Subject    string
	Difficulty domain.Difficulty
	Score      int
	Total      int
	TimeTaken  int
	IsDaily    bool
}

// UnlockedAchievement is an achievement awarded by the current submission.
type UnlockedAchievement struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// SubmissionResult is returned to the client after a quiz submission.
type SubmissionResult struct {
	PointsEarned    int                   `json:"points_earned"`
	TotalPoints     int                   `json:"total_points"`
	Level           int                   `json:"level"`
	Streak          int                   `json:"streak"`
	DailyBonus      int                   `json:"daily_bonus"`
	PerfectBonus    int                   `json:"perfect_bonus"`
	NewAchievements []UnlockedAchievement `json:"new_achievements"`
}

// UserView is the public projection of a user with derived level and badges.
type UserView struct {
	ID           int64                `json:"id"`
	Username     string               `json:"username"`
	Avatar       string               `json:"avatar"`
	Points       int                  `json:"points"`
	Level        int                  `json:"level"`
	Badges       []BadgeView          `json:"badges"`
	Streak       int                  `json:"streak"`
	BestStreak   int                  `json:"best_streak"`
	TotalQuizzes int                  `json:"total_quizzes"`
	LastActive   string               `json:"last_active,omitempty"`
}

// BadgeView is a badge with its display icon.
type BadgeView struct {
	Name gamification.Badge `json:"name"`
	Icon string             `json:"icon"`
}

func newBadgeViews(points int) []BadgeView {
	badges := gamification.Badges(points)
	out := make([]BadgeView, 0, len(badges))
	for _, b := range badges {
		out = append(out, BadgeView{Name: b, Icon: b.Icon()})
	}
	return out
}

// NewUserView derives level and badges from the user's points.
func NewUserView(u domain.User) UserView {
	v := UserView{
		ID:           u.ID,
		Username:     u.Username,
		Avatar:       u.Avatar,
		Points:       u.Points,
		Level:        gamification.Level(u.Points),
		Badges:       newBadgeViews(u.Points),
		Streak:       u.Streak,
		BestStreak:   u.BestStreak,
		TotalQuizzes: u.TotalQuizzes,
	}
	if !u.LastActive.IsZero() {
		v.LastActive = u.LastActive.Format(domain.DateLayout)
	}
	return v
}

// ChallengeView is the daily challenge as exposed to clients.
type ChallengeView struct {
	ID          int64             `json:"id"`
	Date        string            `json:"date"`
	Subject     string            `json:"subject"`
	Difficulty  domain.Difficulty `json:"difficulty"`
	BonusPoints int               `json:"bonus_points"`
}

func newChallengeView(c domain.DailyChallenge) ChallengeView {
	return ChallengeView{
		ID:          c.ID,
		Date:        c.Date.Format(domain.DateLayout),
		Subject:     c.Subject,
		Difficulty:  c.Difficulty,
		BonusPoints: c.BonusPoints,
	}
}

// Dashboard is the landing view for a signed-in user.
type Dashboard struct {
	User               UserView             `json:"user"`
	RecentQuizzes      []domain.QuizRecord  `json:"recent_quizzes"`
	Achievements       []domain.Achievement `json:"achievements"`
	DailyChallenge     ChallengeView        `json:"daily_challenge"`
	ChallengeCompleted bool                 `json:"challenge_completed"`
}

// Profile summarises a user's history.
type Profile struct {
	User           UserView             `json:"user"`
	TotalQuizzes   int                  `json:"total_quizzes"`
	PerfectQuizzes int                  `json:"perfect_quizzes"`
	AverageScore   float64              `json:"average_score"`
	BestSubject    string               `json:"best_subject,omitempty"`
	BestSubjectAvg float64              `json:"best_subject_avg,omitempty"`
	Achievements   []domain.Achievement `json:"achievements"`
}

// CatalogEntry is a catalog achievement annotated with whether the user earned it.
type CatalogEntry struct {
	gamification.AchievementDef
	Earned   bool       `json:"earned"`
	EarnedAt *time.Time `json:"earned_at,omitempty"`
}

// AchievementsPage lists the full catalog and the user's earned subset.
type AchievementsPage struct {
	Catalog []CatalogEntry       `json:"catalog"`
	Earned  []domain.Achievement `json:"earned"`
}

// LeaderboardEntry is one ranked row of the points leaderboard.
type LeaderboardEntry struct {
	Rank     int                  `json:"rank"`
	Username string               `json:"username"`
	Avatar   string               `json:"avatar"`
	Points   int                  `json:"points"`
	Level    int                  `json:"level"`
	Badges   []BadgeView          `json:"badges"`
	Streak   int                  `json:"streak"`
}

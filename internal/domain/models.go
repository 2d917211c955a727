package domain

import "time"

// DefaultAvatar is assigned when a user registers without choosing one.
const DefaultAvatar = "🎓"

// User is a registered player and their cumulative progress.
// Level and badges are derived from Points and never stored.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Avatar       string
	Points       int
	Streak       int
	BestStreak   int
	LastActive   time.Time // zero when the user has never finished a quiz
	TotalQuizzes int
	CreatedAt    time.Time
}

// QuizRecord is an immutable log entry for one submitted quiz.
type QuizRecord struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Subject     string     `json:"subject"`
	Difficulty  Difficulty `json:"difficulty"`
	Score       int        `json:"score"`
	Total       int        `json:"total"`
	TimeTaken   int        `json:"time_taken"` // seconds
	CompletedAt time.Time  `json:"completed_at"`
}

// Perfect reports whether every question was answered correctly.
func (r QuizRecord) Perfect() bool {
	return r.Total > 0 && r.Score == r.Total
}

// Question models an MCQ question with four options labelled a-d.
type Question struct {
	ID          int64      `json:"id"`
	Subject     string     `json:"subject"`
	Difficulty  Difficulty `json:"difficulty"`
	Prompt      string     `json:"prompt"`
	Options     [4]string  `json:"options"`
	Answer      string     `json:"answer"`
	Explanation string     `json:"explanation"`
}

// Achievement is an unlock earned by a user. At most one per (UserID, Name).
type Achievement struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"user_id"`
	Name     string    `json:"name"`
	Icon     string    `json:"icon"`
	EarnedAt time.Time `json:"earned_at"`
}

// DailyChallenge is the subject/difficulty/bonus combination for one calendar date.
type DailyChallenge struct {
	ID          int64      `json:"id"`
	Date        time.Time  `json:"date"`
	Subject     string     `json:"subject"`
	Difficulty  Difficulty `json:"difficulty"`
	BonusPoints int        `json:"bonus_points"`
}

// ChallengeCompletion records that a user claimed a daily challenge bonus.
type ChallengeCompletion struct {
	ID          int64
	UserID      int64
	ChallengeID int64
	CompletedAt time.Time
}

// QuizStats aggregates a user's quiz history.
type QuizStats struct {
	TotalQuizzes   int
	PerfectQuizzes int
	AverageScore   float64 // percent
	BestSubject    string
	BestSubjectAvg float64 // percent
}

package app

import (
	"context"
	"time"

	"quiz-platform/internal/domain"
)

// UserRepository persists users. Create must reject duplicate usernames with domain.ErrUsernameTaken.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	// SaveProgress writes points, streak, best streak, last active date and quiz count.
	SaveProgress(ctx context.Context, user domain.User) error
	TopByPoints(ctx context.Context, limit int) ([]domain.User, error)
}

// QuizRecordRepository is the append-only quiz log.
type QuizRecordRepository interface {
	Create(ctx context.Context, record *domain.QuizRecord) error
	Recent(ctx context.Context, userID int64, limit int) ([]domain.QuizRecord, error)
	Stats(ctx context.Context, userID int64) (domain.QuizStats, error)
}

// AchievementRepository stores earned achievements.
type AchievementRepository interface {
	// ListByUser returns achievements newest first; limit <= 0 means all.
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Achievement, error)
	// Award inserts the achievement unless (user, name) already exists and reports whether it was inserted.
	Award(ctx context.Context, achievement *domain.Achievement) (bool, error)
}

// ChallengeRepository stores daily challenges and completions.
type ChallengeRepository interface {
	GetByDate(ctx context.Context, date time.Time) (domain.DailyChallenge, error)
	// CreateIfAbsent inserts the challenge unless one already exists for its date.
	CreateIfAbsent(ctx context.Context, challenge domain.DailyChallenge) error
	// Complete records a completion unless one exists for (user, challenge) and reports whether it was recorded.
	Complete(ctx context.Context, completion domain.ChallengeCompletion) (bool, error)
	// Release removes a completion so the bonus can be claimed again.
	Release(ctx context.Context, userID, challengeID int64) error
	HasCompleted(ctx context.Context, userID, challengeID int64) (bool, error)
}

// QuestionRepository loads question content (from cache/backing store).
type QuestionRepository interface {
	GetQuestions(ctx context.Context, subject string, difficulty domain.Difficulty) ([]domain.Question, error)
}

// SessionRepository maps opaque session tokens to user IDs.
type SessionRepository interface {
	Create(ctx context.Context, userID int64) (string, error)
	Resolve(ctx context.Context, token string) (int64, error)
	Delete(ctx context.Context, token string) error
}

// Stores groups the persistence dependencies of QuizService.
type Stores struct {
	Users        UserRepository
	Records      QuizRecordRepository
	Achievements AchievementRepository
	Challenges   ChallengeRepository
	Questions    QuestionRepository
}

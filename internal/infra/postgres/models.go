package postgres

import (
	"time"

	"quiz-platform/internal/domain"
	"github.com/uptrace/bun"
)

type userModel struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Username     string    `bun:"username"`
	PasswordHash string    `bun:"password_hash"`
	Avatar       string    `bun:"avatar"`
	Points       int       `bun:"points"`
	Streak       int       `bun:"streak"`
	BestStreak   int       `bun:"best_streak"`
	LastActive   time.Time `bun:"last_active,nullzero"`
	TotalQuizzes int       `bun:"total_quizzes"`
	CreatedAt    time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

func newUserModel(u domain.User) *userModel {
	return &userModel{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Avatar:       u.Avatar,
		Points:       u.Points,
		Streak:       u.Streak,
		BestStreak:   u.BestStreak,
		LastActive:   u.LastActive,
		TotalQuizzes: u.TotalQuizzes,
		CreatedAt:    u.CreatedAt,
	}
}

func (m userModel) toDomain() domain.User {
	u := domain.User{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Avatar:       m.Avatar,
		Points:       m.Points,
		Streak:       m.Streak,
		BestStreak:   m.BestStreak,
		TotalQuizzes: m.TotalQuizzes,
		CreatedAt:    m.CreatedAt,
	}
	if !m.LastActive.IsZero() {
		u.LastActive = domain.DateOf(m.LastActive)
	}
	return u
}

type quizRecordModel struct {
	bun.BaseModel `bun:"table:quiz_records,alias:qr"`

	ID          int64     `bun:"id,pk,autoincrement"`
	UserID      int64     `bun:"user_id"`
	Subject     string    `bun:"subject"`
	Difficulty  string    `bun:"difficulty"`
	Score       int       `bun:"score"`
	Total       int       `bun:"total_questions"`
	TimeTaken   int       `bun:"time_taken"`
	CompletedAt time.Time `bun:"completed_at"`
}

func (m quizRecordModel) toDomain() domain.QuizRecord {
	return domain.QuizRecord{
		ID:          m.ID,
		UserID:      m.UserID,
		Subject:     m.Subject,
		Difficulty:  domain.Difficulty(m.Difficulty),
		Score:       m.Score,
		Total:       m.Total,
		TimeTaken:   m.TimeTaken,
		CompletedAt: m.CompletedAt,
	}
}

type achievementModel struct {
	bun.BaseModel `bun:"table:achievements,alias:a"`

	ID       int64     `bun:"id,pk,autoincrement"`
	UserID   int64     `bun:"user_id"`
	Name     string    `bun:"name"`
	Icon     string    `bun:"icon"`
	EarnedAt time.Time `bun:"earned_at"`
}

func (m achievementModel) toDomain() domain.Achievement {
	return domain.Achievement{ID: m.ID, UserID: m.UserID, Name: m.Name, Icon: m.Icon, EarnedAt: m.EarnedAt}
}

type challengeModel struct {
	bun.BaseModel `bun:"table:daily_challenges,alias:dc"`

	ID          int64     `bun:"id,pk,autoincrement"`
	Date        time.Time `bun:"challenge_date"`
	Subject     string    `bun:"subject"`
	Difficulty  string    `bun:"difficulty"`
	BonusPoints int       `bun:"bonus_points"`
}

func (m challengeModel) toDomain() domain.DailyChallenge {
	return domain.DailyChallenge{
		ID:          m.ID,
		Date:        domain.DateOf(m.Date),
		Subject:     m.Subject,
		Difficulty:  domain.Difficulty(m.Difficulty),
		BonusPoints: m.BonusPoints,
	}
}

type completionModel struct {
	bun.BaseModel `bun:"table:challenge_completions,alias:cc"`

	ID          int64     `bun:"id,pk,autoincrement"`
	UserID      int64     `bun:"user_id"`
	ChallengeID int64     `bun:"challenge_id"`
	CompletedAt time.Time `bun:"completed_at"`
}

type questionModel struct {
	bun.BaseModel `bun:"table:questions,alias:q"`

	ID            int64  `bun:"id,pk,autoincrement"`
	Subject       string `bun:"subject"`
	Difficulty    string `bun:"difficulty"`
	Prompt        string `bun:"prompt"`
	OptionA       string `bun:"option_a"`
	OptionB       string `bun:"option_b"`
	OptionC       string `bun:"option_c"`
	OptionD       string `bun:"option_d"`
	CorrectAnswer string `bun:"correct_answer"`
	Explanation   string `bun:"explanation"`
}

func newQuestionModel(q domain.Question) questionModel {
	return questionModel{
		Subject:       q.Subject,
		Difficulty:    string(q.Difficulty),
		Prompt:        q.Prompt,
		OptionA:       q.Options[0],
		OptionB:       q.Options[1],
		OptionC:       q.Options[2],
		OptionD:       q.Options[3],
		CorrectAnswer: q.Answer,
		Explanation:   q.Explanation,
	}
}

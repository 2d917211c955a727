package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quiz-platform/internal/domain"
	"github.com/uptrace/bun"
)

// QuizRecordRepository appends and aggregates quiz records.
type QuizRecordRepository struct {
	db *bun.DB
}

func NewQuizRecordRepository(db *bun.DB) *QuizRecordRepository {
	return &QuizRecordRepository{db: db}
}

func (r *QuizRecordRepository) Create(ctx context.Context, record *domain.QuizRecord) error {
	m := &quizRecordModel{
		UserID:      record.UserID,
		Subject:     record.Subject,
		Difficulty:  string(record.Difficulty),
		Score:       record.Score,
		Total:       record.Total,
		TimeTaken:   record.TimeTaken,
		CompletedAt: record.CompletedAt,
	}
	if _, err := r.db.NewInsert().Model(m).Exec(ctx); err != nil {
		return fmt.Errorf("insert quiz record: %w", err)
	}
	record.ID = m.ID
	return nil
}

func (r *QuizRecordRepository) Recent(ctx context.Context, userID int64, limit int) ([]domain.QuizRecord, error) {
	var ms []quizRecordModel
	q := r.db.NewSelect().Model(&ms).Where("user_id = ?", userID).OrderExpr("completed_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("select recent quizzes: %w", err)
	}
	out := make([]domain.QuizRecord, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.toDomain())
	}
	return out, nil
}

const statsQuery = `
SELECT COUNT(*),
       COUNT(*) FILTER (WHERE score = total_questions),
       COALESCE(AVG(score::float8 / total_questions * 100), 0)
FROM quiz_records
WHERE user_id = ?`

const bestSubjectQuery = `
SELECT subject, AVG(score::float8 / total_questions * 100) AS avg
FROM quiz_records
WHERE user_id = ?
GROUP BY subject
ORDER BY avg DESC, subject ASC
LIMIT 1`

func (r *QuizRecordRepository) Stats(ctx context.Context, userID int64) (domain.QuizStats, error) {
	var stats domain.QuizStats
	err := r.db.QueryRowContext(ctx, statsQuery, userID).Scan(&stats.TotalQuizzes, &stats.PerfectQuizzes, &stats.AverageScore)
	if err != nil {
		return domain.QuizStats{}, fmt.Errorf("select quiz stats: %w", err)
	}

	err = r.db.QueryRowContext(ctx, bestSubjectQuery, userID).Scan(&stats.BestSubject, &stats.BestSubjectAvg)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return domain.QuizStats{}, fmt.Errorf("select best subject: %w", err)
	}
	return stats, nil
}

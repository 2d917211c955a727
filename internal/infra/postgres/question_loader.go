package postgres

import (
	"context"
	"fmt"

	"quiz-platform/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuestionLoader loads questions from Postgres.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) LoadQuestions(ctx context.Context, subject string, difficulty domain.Difficulty) ([]domain.Question, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT id, subject, difficulty, prompt, option_a, option_b, option_c, option_d, correct_answer, explanation
		FROM questions WHERE subject=$1 AND difficulty=$2 ORDER BY id`, subject, string(difficulty))
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	var out []domain.Question
	for rows.Next() {
		var (
			q    domain.Question
			diff string
		)
		if err := rows.Scan(&q.ID, &q.Subject, &diff, &q.Prompt,
			&q.Options[0], &q.Options[1], &q.Options[2], &q.Options[3],
			&q.Answer, &q.Explanation); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.Difficulty = domain.Difficulty(diff)
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	return out, nil
}

package postgres

import (
	"context"
	"fmt"

	"quiz-platform/internal/domain"
	"github.com/uptrace/bun"
)

// SeedQuestions inserts questions when the questions table is empty and
// reports how many rows were written.
func SeedQuestions(ctx context.Context, db bun.IDB, questions []domain.Question) (int, error) {
	count, err := db.NewSelect().Model((*questionModel)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	if count > 0 || len(questions) == 0 {
		return 0, nil
	}

	rows := make([]questionModel, 0, len(questions))
	for _, q := range questions {
		rows = append(rows, newQuestionModel(q))
	}
	if _, err := db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return 0, fmt.Errorf("insert questions: %w", err)
	}
	return len(rows), nil
}

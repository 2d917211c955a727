package migrations

import (
	"context"

	"quiz-platform/internal/infra/postgres"
	"quiz-platform/internal/questionbank"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := postgres.SeedQuestions(ctx, db, questionbank.Seed())
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, `TRUNCATE questions`)
			return err
		},
	)
}

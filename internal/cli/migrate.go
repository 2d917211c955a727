package cli

import (
	"context"
	"database/sql"
	"fmt"

	"quiz-platform/internal/config"
	pgmigrations "quiz-platform/internal/infra/postgres/migrations"
	infraredis "quiz-platform/internal/infra/redis"
	"quiz-platform/internal/logging"
	"quiz-platform/internal/questionbank"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"
)

// NewMigrateCmd applies database migrations.
func NewMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the schema and seed the question bank",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd.Context(), *configPath)
		},
	}
}

func runMigrations(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	db := openBun(cfg.Postgres.URL)
	defer db.Close()
	applied, err := migrateDB(ctx, db, logger)
	if err != nil || !applied || cfg.Redis.Addr == "" {
		return err
	}

	client := newRedisClient(cfg)
	defer client.Close()
	return refreshQuestionCache(ctx, client, cfg, logger)
}

func newRedisClient(cfg config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// refreshQuestionCache evicts cached question sets once migrations have
// changed the bank.
func refreshQuestionCache(ctx context.Context, client *redis.Client, cfg config.Config, logger *zap.Logger) error {
	subjects := questionbank.Subjects(questionbank.Seed())
	seen := make(map[string]bool, len(subjects))
	for _, s := range subjects {
		seen[s] = true
	}
	for _, s := range cfg.Daily.Subjects {
		if !seen[s] {
			subjects = append(subjects, s)
			seen[s] = true
		}
	}
	if err := infraredis.InvalidateQuestions(ctx, client, subjects); err != nil {
		return err
	}
	logger.Info("question cache invalidated", zap.Strings("subjects", subjects))
	return nil
}

func openBun(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// migrateDB applies pending migrations and reports whether any ran.
func migrateDB(ctx context.Context, db *bun.DB, logger *zap.Logger) (bool, error) {
	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return false, err
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return false, err
	}
	if group.IsZero() {
		logger.Info("database is up to date")
		return false, nil
	}
	logger.Info("migrations applied", zap.String("group", group.String()))
	return true, nil
}

package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quiz-platform/internal/app"
	"quiz-platform/internal/config"
	"quiz-platform/internal/infra/memory"
	"quiz-platform/internal/infra/postgres"
	infraredis "quiz-platform/internal/infra/redis"
	"quiz-platform/internal/logging"
	"quiz-platform/internal/questionbank"
	transport "quiz-platform/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logger.Sync()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = newRedisClient(cfg)
		defer redisClient.Close()
	}

	var (
		db   *bun.DB
		pool *pgxpool.Pool
	)
	if cfg.Postgres.URL != "" {
		db = openBun(cfg.Postgres.URL)
		defer db.Close()
		applied, err := migrateDB(ctx, db, logger)
		if err != nil {
			return err
		}
		if applied && redisClient != nil {
			if err := refreshQuestionCache(ctx, redisClient, cfg, logger); err != nil {
				logger.Warn("question cache not refreshed", zap.Error(err))
			}
		}
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var (
		stores app.Stores
		loader memory.QuestionLoader = memory.NewStaticQuestionLoader(questionbank.Seed())
	)
	if db != nil {
		stores.Users = postgres.NewUserRepository(db)
		stores.Records = postgres.NewQuizRecordRepository(db)
		stores.Achievements = postgres.NewAchievementRepository(db)
		stores.Challenges = postgres.NewChallengeRepository(db)
		loader = postgres.NewQuestionLoader(pool)
		logger.Info("using postgres storage")
	} else {
		stores.Users = memory.NewUserRepository()
		stores.Records = memory.NewQuizRecordRepository()
		stores.Achievements = memory.NewAchievementRepository()
		stores.Challenges = memory.NewChallengeRepository()
		logger.Warn("postgres not configured, progress is kept in memory")
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	sessionTTL := config.TTLDuration(cfg.Session.TTL, 24*time.Hour)
	var sessions app.SessionRepository
	if redisClient != nil {
		stores.Questions = infraredis.NewQuestionRepository(redisClient, loader, quizTTL)
		sessions = infraredis.NewSessionStore(redisClient, sessionTTL)
	} else {
		stores.Questions = memory.NewQuestionRepository(loader, quizTTL)
		sessions = memory.NewSessionStore(sessionTTL)
	}

	feed := app.NewLeaderboardFeed()
	quizzes := app.NewQuizService(stores,
		app.WithLocation(loc),
		app.WithSubjects(cfg.Daily.Subjects),
		app.WithQuestionsPerQuiz(cfg.Quiz.QuestionsPerQuiz),
		app.WithFeed(feed),
		app.WithLogger(logger.Named("quiz")),
	)
	accounts := app.NewAccountService(stores.Users, sessions)

	if entries, err := quizzes.Leaderboard(ctx); err != nil {
		logger.Warn("initial leaderboard unavailable", zap.Error(err))
	} else {
		feed.Seed(entries)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	router := transport.NewRouter(
		transport.NewAPIHandler(quizzes, accounts, logger.Named("http")),
		transport.NewWSHandler(feed, logger.Named("ws")),
		transport.NewMetrics(reg),
	)

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("starting quiz platform", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

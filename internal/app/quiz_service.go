package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"quiz-platform/internal/domain"
	"quiz-platform/internal/gamification"
	"go.uber.org/zap"
)

const (
	leaderboardSize     = 10
	dashboardQuizzes    = 5
	dashboardUnlocks    = 6
	defaultQuizQuestion = 5
)

// QuizService contains the core quiz use cases.
type QuizService struct {
	users        UserRepository
	records      QuizRecordRepository
	achievements AchievementRepository
	challenges   ChallengeRepository
	questions    QuestionRepository

	feed     *LeaderboardFeed
	logger   *zap.Logger
	now      func() time.Time
	loc      *time.Location
	subjects []string
	perQuiz  int
	rndMu    sync.Mutex
	rnd      *rand.Rand
}

// Option customises a QuizService.
type Option func(*QuizService)

// WithClock sets the time source; tests use it for deterministic dates.
func WithClock(now func() time.Time) Option {
	return func(s *QuizService) { s.now = now }
}

// WithLocation sets the time zone that defines a calendar day.
func WithLocation(loc *time.Location) Option {
	return func(s *QuizService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithRand sets the random source for challenge rolls and question draws.
func WithRand(r *rand.Rand) Option {
	return func(s *QuizService) {
		if r != nil {
			s.rnd = r
		}
	}
}

// WithSubjects overrides the daily challenge subject set.
func WithSubjects(subjects []string) Option {
	return func(s *QuizService) {
		if len(subjects) > 0 {
			s.subjects = subjects
		}
	}
}

// WithQuestionsPerQuiz sets how many questions DrawQuestions returns.
func WithQuestionsPerQuiz(n int) Option {
	return func(s *QuizService) {
		if n > 0 {
			s.perQuiz = n
		}
	}
}

// WithFeed publishes a leaderboard snapshot after every submission.
func WithFeed(feed *LeaderboardFeed) Option {
	return func(s *QuizService) { s.feed = feed }
}

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *QuizService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewQuizService(stores Stores, opts ...Option) *QuizService {
	s := &QuizService{
		users:        stores.Users,
		records:      stores.Records,
		achievements: stores.Achievements,
		challenges:   stores.Challenges,
		questions:    stores.Questions,
		logger:       zap.NewNop(),
		now:          time.Now,
		loc:          time.Local,
		subjects:     gamification.DefaultSubjects,
		perQuiz:      defaultQuizQuestion,
		rnd:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *QuizService) today() time.Time {
	return domain.DateOf(s.now().In(s.loc))
}

// Validate rejects submissions the scoring rules are undefined for.
func (sub QuizSubmission) Validate() error {
	switch {
	case sub.Subject == "":
		return fmt.Errorf("%w: subject is required", domain.ErrInvalidSubmission)
	case !sub.Difficulty.Valid():
		return fmt.Errorf("%w: %q", domain.ErrUnknownDifficulty, sub.Difficulty)
	case sub.Total <= 0:
		return fmt.Errorf("%w: total must be positive", domain.ErrInvalidSubmission)
	case sub.Score < 0 || sub.Score > sub.Total:
		return fmt.Errorf("%w: score must be between 0 and total", domain.ErrInvalidSubmission)
	case sub.TimeTaken < 0:
		return fmt.Errorf("%w: time taken must not be negative", domain.ErrInvalidSubmission)
	}
	return nil
}

// SubmitQuiz scores a finished quiz and applies it to the user's progress:
// points, level, streak, achievements and, for daily attempts, the day's bonus.
func (s *QuizService) SubmitQuiz(ctx context.Context, userID int64, sub QuizSubmission) (SubmissionResult, error) {
	if err := sub.Validate(); err != nil {
		return SubmissionResult{}, err
	}
	now := s.now()
	today := s.today()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return SubmissionResult{}, err
	}

	points, err := gamification.Score(sub.Score, sub.Total, sub.Difficulty, 0)
	if err != nil {
		return SubmissionResult{}, err
	}

	var challenge domain.DailyChallenge
	if sub.IsDaily {
		challenge, err = s.DailyChallenge(ctx)
		if err != nil {
			return SubmissionResult{}, err
		}
	}

	record := &domain.QuizRecord{
		UserID:      userID,
		Subject:     sub.Subject,
		Difficulty:  sub.Difficulty,
		Score:       sub.Score,
		Total:       sub.Total,
		TimeTaken:   sub.TimeTaken,
		CompletedAt: now,
	}
	if err := s.records.Create(ctx, record); err != nil {
		return SubmissionResult{}, err
	}

	// Claim only after the record is written; release it if progress is not saved.
	claimed := false
	if sub.IsDaily {
		claimed, err = s.challenges.Complete(ctx, domain.ChallengeCompletion{
			UserID:      userID,
			ChallengeID: challenge.ID,
			CompletedAt: now,
		})
		if err != nil {
			return SubmissionResult{}, err
		}
		if claimed {
			points.Daily = challenge.BonusPoints
		}
	}

	streak := gamification.Streak{
		Current:    user.Streak,
		Best:       user.BestStreak,
		LastActive: user.LastActive,
	}.Advance(today)
	user.Points += points.Total()
	user.TotalQuizzes++
	user.Streak = streak.Current
	user.BestStreak = streak.Best
	user.LastActive = streak.LastActive
	if err := s.users.SaveProgress(ctx, user); err != nil {
		if claimed {
			if rerr := s.challenges.Release(ctx, userID, challenge.ID); rerr != nil {
				s.logger.Error("release daily claim failed",
					zap.Int64("user_id", userID), zap.Int64("challenge_id", challenge.ID), zap.Error(rerr))
			}
		}
		return SubmissionResult{}, err
	}

	unlocked, err := s.awardAchievements(ctx, user, now)
	if err != nil {
		return SubmissionResult{}, err
	}

	s.publishLeaderboard(ctx)

	return SubmissionResult{
		PointsEarned:    points.Total(),
		TotalPoints:     user.Points,
		Level:           gamification.Level(user.Points),
		Streak:          user.Streak,
		DailyBonus:      points.Daily,
		PerfectBonus:    points.Perfect,
		NewAchievements: unlocked,
	}, nil
}

func (s *QuizService) awardAchievements(ctx context.Context, user domain.User, now time.Time) ([]UnlockedAchievement, error) {
	stats, err := s.records.Stats(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	existing, err := s.achievements.ListByUser(ctx, user.ID, 0)
	if err != nil {
		return nil, err
	}
	earned := make(map[string]struct{}, len(existing))
	for _, a := range existing {
		earned[a.Name] = struct{}{}
	}

	candidates := gamification.Evaluate(gamification.Stats{
		TotalQuizzes:   stats.TotalQuizzes,
		CurrentStreak:  user.Streak,
		Points:         user.Points,
		PerfectQuizzes: stats.PerfectQuizzes,
	}, earned)

	unlocked := make([]UnlockedAchievement, 0, len(candidates))
	for _, def := range candidates {
		inserted, err := s.achievements.Award(ctx, &domain.Achievement{
			UserID:   user.ID,
			Name:     def.Name,
			Icon:     def.Icon,
			EarnedAt: now,
		})
		if err != nil {
			return nil, err
		}
		if !inserted {
			continue
		}
		s.logger.Info("achievement unlocked", zap.Int64("user_id", user.ID), zap.String("achievement", def.Name))
		unlocked = append(unlocked, UnlockedAchievement{Name: def.Name, Icon: def.Icon})
	}
	return unlocked, nil
}

func (s *QuizService) publishLeaderboard(ctx context.Context) {
	if s.feed == nil {
		return
	}
	entries, err := s.Leaderboard(ctx)
	if err != nil {
		s.logger.Warn("leaderboard snapshot failed", zap.Error(err))
		return
	}
	s.feed.Publish(entries)
}

// DailyChallenge returns today's challenge, creating it on first access.
// Concurrent first accesses race on the unique date; every caller re-reads
// the winning row.
func (s *QuizService) DailyChallenge(ctx context.Context) (domain.DailyChallenge, error) {
	today := s.today()
	challenge, err := s.challenges.GetByDate(ctx, today)
	if err == nil {
		return challenge, nil
	}
	if !errors.Is(err, domain.ErrChallengeNotFound) {
		return domain.DailyChallenge{}, err
	}

	s.rndMu.Lock()
	rolled, err := gamification.RollChallenge(today, s.subjects, s.rnd)
	s.rndMu.Unlock()
	if err != nil {
		return domain.DailyChallenge{}, err
	}
	if err := s.challenges.CreateIfAbsent(ctx, rolled); err != nil {
		return domain.DailyChallenge{}, err
	}
	return s.challenges.GetByDate(ctx, today)
}

// DailyChallengeView is DailyChallenge formatted for clients.
func (s *QuizService) DailyChallengeView(ctx context.Context) (ChallengeView, error) {
	c, err := s.DailyChallenge(ctx)
	if err != nil {
		return ChallengeView{}, err
	}
	return newChallengeView(c), nil
}

// HasCompletedChallengeToday reports whether the user already claimed today's bonus.
func (s *QuizService) HasCompletedChallengeToday(ctx context.Context, userID int64) (bool, error) {
	challenge, err := s.DailyChallenge(ctx)
	if err != nil {
		return false, err
	}
	return s.challenges.HasCompleted(ctx, userID, challenge.ID)
}

// AchievementsCatalog lists every achievement that can be earned.
func (s *QuizService) AchievementsCatalog() []gamification.AchievementDef {
	return gamification.Catalog()
}

// UserAchievements returns the user's earned achievements, newest first.
func (s *QuizService) UserAchievements(ctx context.Context, userID int64) ([]domain.Achievement, error) {
	return s.achievements.ListByUser(ctx, userID, 0)
}

// AchievementsPage annotates the catalog with the user's earned set.
func (s *QuizService) AchievementsPage(ctx context.Context, userID int64) (AchievementsPage, error) {
	earned, err := s.UserAchievements(ctx, userID)
	if err != nil {
		return AchievementsPage{}, err
	}
	byName := make(map[string]domain.Achievement, len(earned))
	for _, a := range earned {
		byName[a.Name] = a
	}
	defs := s.AchievementsCatalog()
	entries := make([]CatalogEntry, 0, len(defs))
	for _, def := range defs {
		entry := CatalogEntry{AchievementDef: def}
		if a, ok := byName[def.Name]; ok {
			at := a.EarnedAt
			entry.Earned = true
			entry.EarnedAt = &at
		}
		entries = append(entries, entry)
	}
	return AchievementsPage{Catalog: entries, Earned: earned}, nil
}

// Dashboard gathers the landing view for a user.
func (s *QuizService) Dashboard(ctx context.Context, userID int64) (Dashboard, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}
	recent, err := s.records.Recent(ctx, userID, dashboardQuizzes)
	if err != nil {
		return Dashboard{}, err
	}
	achievements, err := s.achievements.ListByUser(ctx, userID, dashboardUnlocks)
	if err != nil {
		return Dashboard{}, err
	}
	challenge, err := s.DailyChallenge(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	completed, err := s.challenges.HasCompleted(ctx, userID, challenge.ID)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		User:               NewUserView(user),
		RecentQuizzes:      recent,
		Achievements:       achievements,
		DailyChallenge:     newChallengeView(challenge),
		ChallengeCompleted: completed,
	}, nil
}

// Profile returns aggregate statistics for a user.
func (s *QuizService) Profile(ctx context.Context, userID int64) (Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	stats, err := s.records.Stats(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	achievements, err := s.achievements.ListByUser(ctx, userID, 0)
	if err != nil {
		return Profile{}, err
	}
	return Profile{
		User:           NewUserView(user),
		TotalQuizzes:   stats.TotalQuizzes,
		PerfectQuizzes: stats.PerfectQuizzes,
		AverageScore:   stats.AverageScore,
		BestSubject:    stats.BestSubject,
		BestSubjectAvg: stats.BestSubjectAvg,
		Achievements:   achievements,
	}, nil
}

// Leaderboard ranks the top users by points.
func (s *QuizService) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	users, err := s.users.TopByPoints(ctx, leaderboardSize)
	if err != nil {
		return nil, err
	}
	entries := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, LeaderboardEntry{
			Rank:     i + 1,
			Username: u.Username,
			Avatar:   u.Avatar,
			Points:   u.Points,
			Level:    gamification.Level(u.Points),
			Badges:   newBadgeViews(u.Points),
			Streak:   u.Streak,
		})
	}
	return entries, nil
}

// DrawQuestions returns a random selection of questions for one quiz.
func (s *QuizService) DrawQuestions(ctx context.Context, subject string, difficulty domain.Difficulty) ([]domain.Question, error) {
	if !difficulty.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownDifficulty, difficulty)
	}
	pool, err := s.questions.GetQuestions(ctx, subject, difficulty)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: %s/%s", domain.ErrNoQuestions, subject, difficulty)
	}

	drawn := make([]domain.Question, len(pool))
	copy(drawn, pool)
	s.rndMu.Lock()
	s.rnd.Shuffle(len(drawn), func(i, j int) { drawn[i], drawn[j] = drawn[j], drawn[i] })
	s.rndMu.Unlock()
	if len(drawn) > s.perQuiz {
		drawn = drawn[:s.perQuiz]
	}
	return drawn, nil
}

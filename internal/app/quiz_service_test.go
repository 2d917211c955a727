package app_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"quiz-platform/internal/app"
	"quiz-platform/internal/domain"
	"quiz-platform/internal/gamification"
	"quiz-platform/internal/infra/memory"
	"quiz-platform/internal/questionbank"
)

type fixture struct {
	service *app.QuizService
	users   *memory.UserRepository
	now     time.Time
}

func newFixture(t *testing.T, opts ...app.Option) *fixture {
	t.Helper()
	f := &fixture{
		users: memory.NewUserRepository(),
		now:   time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC),
	}
	stores := app.Stores{
		Users:        f.users,
		Records:      memory.NewQuizRecordRepository(),
		Achievements: memory.NewAchievementRepository(),
		Challenges:   memory.NewChallengeRepository(),
		Questions:    memory.NewQuestionRepository(memory.NewStaticQuestionLoader(questionbank.Seed()), time.Minute),
	}
	base := []app.Option{
		app.WithClock(func() time.Time { return f.now }),
		app.WithLocation(time.UTC),
		app.WithRand(rand.New(rand.NewSource(7))),
	}
	f.service = app.NewQuizService(stores, append(base, opts...)...)
	return f
}

func (f *fixture) user(t *testing.T, name string) int64 {
	t.Helper()
	u := domain.User{Username: name, Avatar: domain.DefaultAvatar}
	if err := f.users.Create(context.Background(), &u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u.ID
}

func TestSubmitQuizPerfectHard(t *testing.T) {
	f := newFixture(t)
	uid := f.user(t, "alice")

	res, err := f.service.SubmitQuiz(context.Background(), uid, app.QuizSubmission{
		Subject: "Math", Difficulty: domain.Hard, Score: 5, Total: 5, TimeTaken: 42,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.PointsEarned != 170 || res.PerfectBonus != 20 || res.DailyBonus != 0 {
		t.Fatalf("unexpected points %+v", res)
	}
	if res.TotalPoints != 170 || res.Level != 2 || res.Streak != 1 {
		t.Fatalf("unexpected progress %+v", res)
	}
	if len(res.NewAchievements) != 1 || res.NewAchievements[0].Name != "First Steps" {
		t.Fatalf("expected First Steps, got %+v", res.NewAchievements)
	}

	stored, _ := f.users.GetByID(context.Background(), uid)
	if stored.TotalQuizzes != 1 || stored.BestStreak != 1 || !stored.LastActive.Equal(domain.DateOf(f.now)) {
		t.Fatalf("unexpected stored user %+v", stored)
	}
}

func TestSubmitQuizDailyBonusOncePerDay(t *testing.T) {
	f := newFixture(t)
	uid := f.user(t, "bob")
	ctx := context.Background()

	challenge, err := f.service.DailyChallenge(ctx)
	if err != nil {
		t.Fatalf("daily challenge: %v", err)
	}

	res, err := f.service.SubmitQuiz(ctx, uid, app.QuizSubmission{
		Subject: challenge.Subject, Difficulty: domain.Easy, Score: 3, Total: 5, IsDaily: true,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.DailyBonus != challenge.BonusPoints || res.PointsEarned != 30+challenge.BonusPoints {
		t.Fatalf("expected bonus %d, got %+v", challenge.BonusPoints, res)
	}

	done, err := f.service.HasCompletedChallengeToday(ctx, uid)
	if err != nil || !done {
		t.Fatalf("expected completed today, got %v (%v)", done, err)
	}

	again, err := f.service.SubmitQuiz(ctx, uid, app.QuizSubmission{
		Subject: challenge.Subject, Difficulty: domain.Easy, Score: 3, Total: 5, IsDaily: true,
	})
	if err != nil {
		t.Fatalf("submit again: %v", err)
	}
	if again.DailyBonus != 0 || again.PointsEarned != 30 {
		t.Fatalf("expected no second bonus, got %+v", again)
	}
}

func TestSubmitQuizStreakAcrossDays(t *testing.T) {
	f := newFixture(t)
	uid := f.user(t, "carol")
	ctx := context.Background()
	sub := app.QuizSubmission{Subject: "History", Difficulty: domain.Medium, Score: 1, Total: 5}

	var res app.SubmissionResult
	for i := 0; i < 3; i++ {
		var err error
		res, err = f.service.SubmitQuiz(ctx, uid, sub)
		if err != nil {
			t.Fatalf("submit day %d: %v", i, err)
		}
		f.now = f.now.Add(24 * time.Hour)
	}
	if res.Streak != 3 {
		t.Fatalf("expected streak 3, got %d", res.Streak)
	}
	found := false
	for _, a := range res.NewAchievements {
		if a.Name == "Hot Streak" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Hot Streak unlock, got %+v", res.NewAchievements)
	}

	f.now = f.now.Add(48 * time.Hour)
	res, _ = f.service.SubmitQuiz(ctx, uid, sub)
	if res.Streak != 1 {
		t.Fatalf("expected streak reset, got %d", res.Streak)
	}
	stored, _ := f.users.GetByID(ctx, uid)
	if stored.BestStreak != 3 {
		t.Fatalf("expected best streak kept at 3, got %d", stored.BestStreak)
	}
}

func TestSubmitQuizAchievementsAwardedOnce(t *testing.T) {
	f := newFixture(t)
	uid := f.user(t, "dave")
	ctx := context.Background()

	first, _ := f.service.SubmitQuiz(ctx, uid, app.QuizSubmission{Subject: "Math", Difficulty: domain.Easy, Score: 2, Total: 5})
	second, _ := f.service.SubmitQuiz(ctx, uid, app.QuizSubmission{Subject: "Math", Difficulty: domain.Easy, Score: 2, Total: 5})
	if len(first.NewAchievements) != 1 || len(second.NewAchievements) != 0 {
		t.Fatalf("expected one unlock then none, got %+v / %+v", first.NewAchievements, second.NewAchievements)
	}
	earned, _ := f.service.UserAchievements(ctx, uid)
	if len(earned) != 1 {
		t.Fatalf("expected one stored achievement, got %d", len(earned))
	}
}

func TestSubmitQuizRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	uid := f.user(t, "erin")
	ctx := context.Background()

	cases := []struct {
		sub  app.QuizSubmission
		want error
	}{
		{app.QuizSubmission{Subject: "Math", Difficulty: "extreme", Score: 1, Total: 5}, domain.ErrUnknownDifficulty},
		{app.QuizSubmission{Subject: "Math", Difficulty: domain.Easy, Score: 6, Total: 5}, domain.ErrInvalidSubmission},
		{app.QuizSubmission{Subject: "Math", Difficulty: domain.Easy, Score: 0, Total: 0}, domain.ErrInvalidSubmission},
		{app.QuizSubmission{Difficulty: domain.Easy, Score: 0, Total: 5}, domain.ErrInvalidSubmission},
	}
	for _, tc := range cases {
		if _, err := f.service.SubmitQuiz(ctx, uid, tc.sub); !errors.Is(err, tc.want) {
			t.Fatalf("expected %v for %+v, got %v", tc.want, tc.sub, err)
		}
	}

	if _, err := f.service.SubmitQuiz(ctx, 999, app.QuizSubmission{Subject: "Math", Difficulty: domain.Easy, Score: 1, Total: 5}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
}

func TestDailyChallengeStablePerDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.service.DailyChallenge(ctx)
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, _ := f.service.DailyChallenge(ctx)
		if again != first {
			t.Fatalf("expected identical challenge, got %+v vs %+v", again, first)
		}
	}

	f.now = f.now.Add(24 * time.Hour)
	next, _ := f.service.DailyChallenge(ctx)
	if next.ID == first.ID || next.Date.Equal(first.Date) {
		t.Fatalf("expected a new challenge for the next day, got %+v", next)
	}
}

func TestDailyChallengeUsesConfiguredSubjects(t *testing.T) {
	f := newFixture(t, app.WithSubjects([]string{"Geography"}))
	c, err := f.service.DailyChallenge(context.Background())
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	if c.Subject != "Geography" {
		t.Fatalf("expected configured subject, got %s", c.Subject)
	}
}

func TestDashboardAndProfile(t *testing.T) {
	f := newFixture(t)
	uid := f.user(t, "frank")
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		f.now = f.now.Add(time.Minute)
		_, _ = f.service.SubmitQuiz(ctx, uid, app.QuizSubmission{Subject: "Science", Difficulty: domain.Easy, Score: 5, Total: 5})
	}

	dash, err := f.service.Dashboard(ctx, uid)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if len(dash.RecentQuizzes) != 5 {
		t.Fatalf("expected 5 recent quizzes, got %d", len(dash.RecentQuizzes))
	}
	if dash.ChallengeCompleted {
		t.Fatalf("expected challenge not completed")
	}
	if dash.User.Points != 7*70 || dash.User.Level != 5 {
		t.Fatalf("unexpected user view %+v", dash.User)
	}

	profile, err := f.service.Profile(ctx, uid)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.TotalQuizzes != 7 || profile.PerfectQuizzes != 7 || profile.AverageScore != 100 || profile.BestSubject != "Science" {
		t.Fatalf("unexpected profile %+v", profile)
	}

	page, err := f.service.AchievementsPage(ctx, uid)
	if err != nil {
		t.Fatalf("achievements: %v", err)
	}
	earned := 0
	for _, e := range page.Catalog {
		if e.Earned {
			earned++
		}
	}
	// First Steps + Perfectionist
	if len(page.Catalog) != 7 || earned != 2 || len(page.Earned) != 2 {
		t.Fatalf("unexpected achievements page %+v", page)
	}
}

func TestLeaderboardRanksByPoints(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	low := f.user(t, "low")
	high := f.user(t, "high")

	_, _ = f.service.SubmitQuiz(ctx, low, app.QuizSubmission{Subject: "Math", Difficulty: domain.Easy, Score: 1, Total: 5})
	_, _ = f.service.SubmitQuiz(ctx, high, app.QuizSubmission{Subject: "Math", Difficulty: domain.Hard, Score: 5, Total: 5})

	lb, err := f.service.Leaderboard(ctx)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(lb) != 2 || lb[0].Username != "high" || lb[0].Rank != 1 || lb[1].Points != 10 {
		t.Fatalf("unexpected leaderboard %+v", lb)
	}
	if len(lb[0].Badges) != 2 {
		t.Fatalf("expected Beginner and Intermediate at 170 points, got %v", lb[0].Badges)
	}
	if top := lb[0].Badges[1]; top.Name != gamification.Intermediate || top.Icon != gamification.Intermediate.Icon() || top.Icon == "" {
		t.Fatalf("expected Intermediate badge with icon, got %+v", top)
	}
}

func TestSubmitQuizPublishesToFeed(t *testing.T) {
	feed := app.NewLeaderboardFeed()
	f := newFixture(t, app.WithFeed(feed))
	uid := f.user(t, "gina")

	ch, cancel := feed.Subscribe()
	defer cancel()
	<-ch // initial snapshot

	if _, err := f.service.SubmitQuiz(context.Background(), uid, app.QuizSubmission{Subject: "Math", Difficulty: domain.Medium, Score: 2, Total: 5}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	update := <-ch
	if len(update.Entries) != 1 || update.Entries[0].Points != 40 {
		t.Fatalf("expected updated leaderboard, got %+v", update.Entries)
	}
}

func TestDrawQuestions(t *testing.T) {
	f := newFixture(t, app.WithQuestionsPerQuiz(2))
	ctx := context.Background()

	qs, err := f.service.DrawQuestions(ctx, "Math", domain.Medium)
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(qs))
	}
	for _, q := range qs {
		if q.Subject != "Math" || q.Difficulty != domain.Medium {
			t.Fatalf("unexpected question %+v", q)
		}
	}

	if _, err := f.service.DrawQuestions(ctx, "Art", domain.Easy); !errors.Is(err, domain.ErrNoQuestions) {
		t.Fatalf("expected no questions, got %v", err)
	}
	if _, err := f.service.DrawQuestions(ctx, "Math", "impossible"); !errors.Is(err, domain.ErrUnknownDifficulty) {
		t.Fatalf("expected unknown difficulty, got %v", err)
	}
}

type failingRecords struct {
	*memory.QuizRecordRepository
	fail bool
}

func (r *failingRecords) Create(ctx context.Context, record *domain.QuizRecord) error {
	if r.fail {
		return errors.New("db down")
	}
	return r.QuizRecordRepository.Create(ctx, record)
}

type failingProgress struct {
	*memory.UserRepository
	fail bool
}

func (r *failingProgress) SaveProgress(ctx context.Context, user domain.User) error {
	if r.fail {
		return errors.New("db down")
	}
	return r.UserRepository.SaveProgress(ctx, user)
}

func newFailingService(t *testing.T, records *failingRecords, users *failingProgress) *app.QuizService {
	t.Helper()
	now := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	return app.NewQuizService(app.Stores{
		Users:        users,
		Records:      records,
		Achievements: memory.NewAchievementRepository(),
		Challenges:   memory.NewChallengeRepository(),
		Questions:    memory.NewQuestionRepository(memory.NewStaticQuestionLoader(questionbank.Seed()), time.Minute),
	},
		app.WithClock(func() time.Time { return now }),
		app.WithLocation(time.UTC),
		app.WithRand(rand.New(rand.NewSource(7))),
	)
}

func TestDailyBonusSurvivesFailedRecordWrite(t *testing.T) {
	ctx := context.Background()
	records := &failingRecords{QuizRecordRepository: memory.NewQuizRecordRepository(), fail: true}
	users := &failingProgress{UserRepository: memory.NewUserRepository()}
	service := newFailingService(t, records, users)

	u := domain.User{Username: "kim", Avatar: domain.DefaultAvatar}
	if err := users.Create(ctx, &u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	challenge, err := service.DailyChallenge(ctx)
	if err != nil {
		t.Fatalf("daily challenge: %v", err)
	}
	sub := app.QuizSubmission{Subject: challenge.Subject, Difficulty: domain.Easy, Score: 3, Total: 5, IsDaily: true}

	if _, err := service.SubmitQuiz(ctx, u.ID, sub); err == nil {
		t.Fatalf("expected record write error")
	}
	if done, err := service.HasCompletedChallengeToday(ctx, u.ID); err != nil || done {
		t.Fatalf("expected challenge still open after failed submit, got %v (%v)", done, err)
	}

	records.fail = false
	res, err := service.SubmitQuiz(ctx, u.ID, sub)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if res.DailyBonus != challenge.BonusPoints || res.PointsEarned != 30+challenge.BonusPoints {
		t.Fatalf("expected bonus %d on retry, got %+v", challenge.BonusPoints, res)
	}
}

func TestDailyBonusReleasedWhenProgressSaveFails(t *testing.T) {
	ctx := context.Background()
	records := &failingRecords{QuizRecordRepository: memory.NewQuizRecordRepository()}
	users := &failingProgress{UserRepository: memory.NewUserRepository(), fail: true}
	service := newFailingService(t, records, users)

	u := domain.User{Username: "lee", Avatar: domain.DefaultAvatar}
	if err := users.Create(ctx, &u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	challenge, err := service.DailyChallenge(ctx)
	if err != nil {
		t.Fatalf("daily challenge: %v", err)
	}
	sub := app.QuizSubmission{Subject: challenge.Subject, Difficulty: domain.Medium, Score: 1, Total: 5, IsDaily: true}

	if _, err := service.SubmitQuiz(ctx, u.ID, sub); err == nil {
		t.Fatalf("expected save error")
	}
	if done, err := service.HasCompletedChallengeToday(ctx, u.ID); err != nil || done {
		t.Fatalf("expected claim released, got %v (%v)", done, err)
	}

	users.fail = false
	res, err := service.SubmitQuiz(ctx, u.ID, sub)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if res.DailyBonus != challenge.BonusPoints {
		t.Fatalf("expected bonus %d on retry, got %+v", challenge.BonusPoints, res)
	}
}

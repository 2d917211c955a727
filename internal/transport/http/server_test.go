package http

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quiz-platform/internal/app"
	"quiz-platform/internal/infra/memory"
	"quiz-platform/internal/questionbank"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	*httptest.Server
	feed *app.LeaderboardFeed
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	users := memory.NewUserRepository()
	stores := app.Stores{
		Users:        users,
		Records:      memory.NewQuizRecordRepository(),
		Achievements: memory.NewAchievementRepository(),
		Challenges:   memory.NewChallengeRepository(),
		Questions:    memory.NewQuestionRepository(memory.NewStaticQuestionLoader(questionbank.Seed()), time.Minute),
	}
	feed := app.NewLeaderboardFeed()
	quizzes := app.NewQuizService(stores,
		app.WithClock(func() time.Time { return now }),
		app.WithLocation(time.UTC),
		app.WithRand(rand.New(rand.NewSource(1))),
		app.WithFeed(feed),
	)
	accounts := app.NewAccountServiceWithCost(users, memory.NewSessionStore(time.Hour), bcrypt.MinCost)

	router := NewRouter(
		NewAPIHandler(quizzes, accounts, nil),
		NewWSHandler(feed, nil),
		NewMetrics(prometheus.NewRegistry()),
	)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, feed: feed}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, s.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// signUp registers and logs in a user, returning the session token.
func (s *testServer) signUp(t *testing.T, username string) string {
	t.Helper()
	creds := map[string]string{"username": username, "password": "secret"}
	if resp := s.do(t, http.MethodPost, "/api/register", "", creds); resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: status %d", username, resp.StatusCode)
	}
	resp := s.do(t, http.MethodPost, "/api/login", "", creds)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d", username, resp.StatusCode)
	}
	var out loginResponse
	decodeBody(t, resp, &out)
	if out.Token == "" {
		t.Fatalf("expected session token")
	}
	return out.Token
}

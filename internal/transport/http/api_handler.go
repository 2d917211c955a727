package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"quiz-platform/internal/app"
	"quiz-platform/internal/domain"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const sessionCookie = "session"

// APIHandler exposes the quiz use cases as JSON endpoints.
type APIHandler struct {
	quizzes  *app.QuizService
	accounts *app.AccountService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewAPIHandler(quizzes *app.QuizService, accounts *app.AccountService, logger *zap.Logger) *APIHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIHandler{
		quizzes:  quizzes,
		accounts: accounts,
		validate: validator.New(),
		logger:   logger,
	}
}

// Register mounts the API routes on mux.
func (h *APIHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/register", h.register)
	mux.HandleFunc("POST /api/login", h.login)
	mux.HandleFunc("GET /api/leaderboard", h.leaderboard)

	mux.HandleFunc("POST /api/logout", h.requireUser(h.logout))
	mux.HandleFunc("GET /api/dashboard", h.requireUser(h.dashboard))
	mux.HandleFunc("GET /api/quiz/{subject}/{difficulty}", h.requireUser(h.quiz))
	mux.HandleFunc("POST /api/submit_quiz", h.requireUser(h.submitQuiz))
	mux.HandleFunc("GET /api/daily-challenge", h.requireUser(h.dailyChallenge))
	mux.HandleFunc("GET /api/profile", h.requireUser(h.profile))
	mux.HandleFunc("GET /api/achievements", h.requireUser(h.achievements))
}

type registerRequest struct {
	Username string `json:"username" validate:"required,max=32"`
	Password string `json:"password" validate:"required,max=72"`
	Avatar   string `json:"avatar" validate:"omitempty,max=16"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  app.UserView `json:"user"`
}

type submitQuizRequest struct {
	Subject    string `json:"subject" validate:"required,max=64"`
	Difficulty string `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Score      *int   `json:"score" validate:"required,gte=0"`
	Total      int    `json:"total" validate:"required,gt=0"`
	TimeTaken  int    `json:"time_taken" validate:"gte=0"`
	IsDaily    bool   `json:"is_daily"`
}

type submitQuizResponse struct {
	Success bool `json:"success"`
	app.SubmissionResult
}

type quizResponse struct {
	Subject    string            `json:"subject"`
	Difficulty domain.Difficulty `json:"difficulty"`
	IsDaily    bool              `json:"is_daily"`
	Questions  []domain.Question `json:"questions"`
}

type dailyChallengeResponse struct {
	Challenge app.ChallengeView `json:"challenge"`
	Completed bool              `json:"completed"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func (h *APIHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}
	user, err := h.accounts.Register(r.Context(), req.Username, req.Password, req.Avatar)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, app.NewUserView(user))
}

func (h *APIHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}
	token, user, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: app.NewUserView(user)})
}

func (h *APIHandler) logout(w http.ResponseWriter, r *http.Request, _ int64) {
	if err := h.accounts.Logout(r.Context(), sessionToken(r)); err != nil {
		h.writeError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) dashboard(w http.ResponseWriter, r *http.Request, userID int64) {
	dash, err := h.quizzes.Dashboard(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

func (h *APIHandler) quiz(w http.ResponseWriter, r *http.Request, _ int64) {
	subject := r.PathValue("subject")
	difficulty, err := domain.ParseDifficulty(r.PathValue("difficulty"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	questions, err := h.quizzes.DrawQuestions(r.Context(), subject, difficulty)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quizResponse{
		Subject:    subject,
		Difficulty: difficulty,
		IsDaily:    r.URL.Query().Get("daily") == "true",
		Questions:  questions,
	})
}

func (h *APIHandler) submitQuiz(w http.ResponseWriter, r *http.Request, userID int64) {
	var req submitQuizRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.quizzes.SubmitQuiz(r.Context(), userID, app.QuizSubmission{
		Subject:    req.Subject,
		Difficulty: domain.Difficulty(req.Difficulty),
		Score:      *req.Score,
		Total:      req.Total,
		TimeTaken:  req.TimeTaken,
		IsDaily:    req.IsDaily,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submitQuizResponse{Success: true, SubmissionResult: res})
}

func (h *APIHandler) dailyChallenge(w http.ResponseWriter, r *http.Request, userID int64) {
	challenge, err := h.quizzes.DailyChallengeView(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	completed, err := h.quizzes.HasCompletedChallengeToday(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dailyChallengeResponse{Challenge: challenge, Completed: completed})
}

func (h *APIHandler) leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.quizzes.Leaderboard(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *APIHandler) profile(w http.ResponseWriter, r *http.Request, userID int64) {
	profile, err := h.quizzes.Profile(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *APIHandler) achievements(w http.ResponseWriter, r *http.Request, userID int64) {
	page, err := h.quizzes.AchievementsPage(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// requireUser resolves the session and passes the user ID on, or answers 401.
func (h *APIHandler) requireUser(next func(http.ResponseWriter, *http.Request, int64)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := h.accounts.Authenticate(r.Context(), sessionToken(r))
		if err != nil {
			h.writeError(w, err)
			return
		}
		next(w, r, userID)
	}
}

func sessionToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		return c.Value
	}
	return ""
}

func (h *APIHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid JSON body"})
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: err.Error()})
		return false
	}
	return true
}

func (h *APIHandler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
		msg = "internal error"
	}
	writeJSON(w, status, errorPayload{Message: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidSubmission),
		errors.Is(err, domain.ErrUnknownDifficulty),
		errors.Is(err, domain.ErrInvalidRegistration):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrNoQuestions),
		errors.Is(err, domain.ErrChallengeNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

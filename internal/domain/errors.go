package domain

import "errors"

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned when registering a username that already exists.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSessionNotFound is returned when a session token is unknown or expired.
	ErrSessionNotFound = errors.New("session not found")
	// ErrUnknownDifficulty indicates a tier outside easy/medium/hard.
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	// ErrInvalidSubmission indicates a quiz result that fails boundary validation.
	ErrInvalidSubmission = errors.New("invalid quiz submission")
	// ErrInvalidRegistration indicates missing or malformed registration fields.
	ErrInvalidRegistration = errors.New("invalid registration")
	// ErrChallengeNotFound is returned when no daily challenge exists for a date.
	ErrChallengeNotFound = errors.New("daily challenge not found")
	// ErrNoQuestions indicates the question bank has nothing for a subject/tier.
	ErrNoQuestions = errors.New("no questions available")
	// ErrNoSubjects indicates a daily challenge cannot be rolled without subjects.
	ErrNoSubjects = errors.New("no subjects configured for daily challenge")
)

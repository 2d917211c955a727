package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quiz-platform/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// AccountService handles registration, login and session lookup.
type AccountService struct {
	users    UserRepository
	sessions SessionRepository
	now      func() time.Time
	cost     int
}

func NewAccountService(users UserRepository, sessions SessionRepository) *AccountService {
	return &AccountService{
		users:    users,
		sessions: sessions,
		now:      time.Now,
		cost:     bcrypt.DefaultCost,
	}
}

// NewAccountServiceWithCost lowers the bcrypt cost; tests use bcrypt.MinCost.
func NewAccountServiceWithCost(users UserRepository, sessions SessionRepository, cost int) *AccountService {
	s := NewAccountService(users, sessions)
	s.cost = cost
	return s
}

// Register creates a user. A duplicate username yields domain.ErrUsernameTaken
// and leaves the existing account untouched.
func (s *AccountService) Register(ctx context.Context, username, password, avatar string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.User{}, fmt.Errorf("%w: username and password are required", domain.ErrInvalidRegistration)
	}
	if len(password) > maxPasswordBytes {
		return domain.User{}, fmt.Errorf("%w: password must be at most %d bytes", domain.ErrInvalidRegistration, maxPasswordBytes)
	}
	if avatar == "" {
		avatar = domain.DefaultAvatar
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Avatar:       avatar,
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Login verifies credentials and opens a session.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, domain.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", domain.User{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", domain.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.User{}, domain.ErrInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return "", domain.User{}, err
	}
	return token, user, nil
}

// Logout ends a session. Unknown tokens are ignored.
func (s *AccountService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// Authenticate resolves a session token to a user ID.
func (s *AccountService) Authenticate(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, domain.ErrSessionNotFound
	}
	return s.sessions.Resolve(ctx, token)
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quiz-platform/internal/domain"
	"github.com/uptrace/bun"
)

// UserRepository persists users with bun.
type UserRepository struct {
	db *bun.DB
}

func NewUserRepository(db *bun.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	m := newUserModel(*user)
	if _, err := r.db.NewInsert().Model(m).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUsernameTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	user.ID = m.ID
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.getOne(ctx, "username = ?", username)
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg interface{}) (domain.User, error) {
	var m userModel
	err := r.db.NewSelect().Model(&m).Where(where, arg).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("select user: %w", err)
	}
	return m.toDomain(), nil
}

func (r *UserRepository) SaveProgress(ctx context.Context, user domain.User) error {
	res, err := r.db.NewUpdate().
		Model(newUserModel(user)).
		Column("points", "streak", "best_streak", "last_active", "total_quizzes").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update user progress: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) TopByPoints(ctx context.Context, limit int) ([]domain.User, error) {
	var ms []userModel
	if err := r.db.NewSelect().Model(&ms).OrderExpr("points DESC, id ASC").Limit(limit).Scan(ctx); err != nil {
		return nil, fmt.Errorf("select leaderboard: %w", err)
	}
	users := make([]domain.User, 0, len(ms))
	for _, m := range ms {
		users = append(users, m.toDomain())
	}
	return users, nil
}

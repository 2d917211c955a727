package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quiz-platform/internal/domain"
	"github.com/uptrace/bun"
)

// ChallengeRepository stores daily challenges (unique per date) and completions
// (unique per user and challenge).
type ChallengeRepository struct {
	db *bun.DB
}

func NewChallengeRepository(db *bun.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

func (r *ChallengeRepository) GetByDate(ctx context.Context, date time.Time) (domain.DailyChallenge, error) {
	var m challengeModel
	err := r.db.NewSelect().
		Model(&m).
		Where("challenge_date = ?", domain.DateOf(date).Format(domain.DateLayout)).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DailyChallenge{}, domain.ErrChallengeNotFound
	}
	if err != nil {
		return domain.DailyChallenge{}, fmt.Errorf("select daily challenge: %w", err)
	}
	return m.toDomain(), nil
}

func (r *ChallengeRepository) CreateIfAbsent(ctx context.Context, challenge domain.DailyChallenge) error {
	m := &challengeModel{
		Date:        domain.DateOf(challenge.Date),
		Subject:     challenge.Subject,
		Difficulty:  string(challenge.Difficulty),
		BonusPoints: challenge.BonusPoints,
	}
	_, err := r.db.NewInsert().
		Model(m).
		On("CONFLICT (challenge_date) DO NOTHING").
		Returning("NULL").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("insert daily challenge: %w", err)
	}
	return nil
}

func (r *ChallengeRepository) Complete(ctx context.Context, completion domain.ChallengeCompletion) (bool, error) {
	m := &completionModel{
		UserID:      completion.UserID,
		ChallengeID: completion.ChallengeID,
		CompletedAt: completion.CompletedAt,
	}
	res, err := r.db.NewInsert().
		Model(m).
		On("CONFLICT (user_id, challenge_id) DO NOTHING").
		Returning("NULL").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("insert challenge completion: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ChallengeRepository) Release(ctx context.Context, userID, challengeID int64) error {
	_, err := r.db.NewDelete().
		Model((*completionModel)(nil)).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete challenge completion: %w", err)
	}
	return nil
}

func (r *ChallengeRepository) HasCompleted(ctx context.Context, userID, challengeID int64) (bool, error) {
	ok, err := r.db.NewSelect().
		Model((*completionModel)(nil)).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("check challenge completion: %w", err)
	}
	return ok, nil
}

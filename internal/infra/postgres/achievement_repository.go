package postgres

import (
	"context"
	"fmt"

	"quiz-platform/internal/domain"
	"github.com/uptrace/bun"
)

// AchievementRepository stores earned achievements; (user_id, name) is unique.
type AchievementRepository struct {
	db *bun.DB
}

func NewAchievementRepository(db *bun.DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

func (r *AchievementRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Achievement, error) {
	var ms []achievementModel
	q := r.db.NewSelect().Model(&ms).Where("user_id = ?", userID).OrderExpr("earned_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("select achievements: %w", err)
	}
	out := make([]domain.Achievement, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (r *AchievementRepository) Award(ctx context.Context, achievement *domain.Achievement) (bool, error) {
	m := &achievementModel{
		UserID:   achievement.UserID,
		Name:     achievement.Name,
		Icon:     achievement.Icon,
		EarnedAt: achievement.EarnedAt,
	}
	res, err := r.db.NewInsert().
		Model(m).
		On("CONFLICT (user_id, name) DO NOTHING").
		Returning("NULL").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("insert achievement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

package memory

import (
	"context"
	"sort"
	"sync"

	"quiz-platform/internal/domain"
)

// AchievementRepository keeps earned achievements in memory.
type AchievementRepository struct {
	mu     sync.RWMutex
	nextID int64
	byUser map[int64][]domain.Achievement
}

func NewAchievementRepository() *AchievementRepository {
	return &AchievementRepository{byUser: make(map[int64][]domain.Achievement)}
}

func (r *AchievementRepository) ListByUser(_ context.Context, userID int64, limit int) ([]domain.Achievement, error) {
	r.mu.RLock()
	out := make([]domain.Achievement, len(r.byUser[userID]))
	copy(out, r.byUser[userID])
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].EarnedAt.Equal(out[j].EarnedAt) {
			return out[i].EarnedAt.After(out[j].EarnedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *AchievementRepository) Award(_ context.Context, achievement *domain.Achievement) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byUser[achievement.UserID] {
		if a.Name == achievement.Name {
			return false, nil
		}
	}
	r.nextID++
	achievement.ID = r.nextID
	r.byUser[achievement.UserID] = append(r.byUser[achievement.UserID], *achievement)
	return true, nil
}

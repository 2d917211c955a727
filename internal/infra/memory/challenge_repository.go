package memory

import (
	"context"
	"sync"
	"time"

	"quiz-platform/internal/domain"
)

// ChallengeRepository keeps daily challenges keyed by calendar date, plus completions.
type ChallengeRepository struct {
	mu          sync.RWMutex
	nextID      int64
	byDate      map[string]domain.DailyChallenge
	completions map[completionKey]domain.ChallengeCompletion
}

type completionKey struct {
	userID      int64
	challengeID int64
}

func NewChallengeRepository() *ChallengeRepository {
	return &ChallengeRepository{
		byDate:      make(map[string]domain.DailyChallenge),
		completions: make(map[completionKey]domain.ChallengeCompletion),
	}
}

func dateKey(t time.Time) string {
	return domain.DateOf(t).Format(domain.DateLayout)
}

func (r *ChallengeRepository) GetByDate(_ context.Context, date time.Time) (domain.DailyChallenge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byDate[dateKey(date)]
	if !ok {
		return domain.DailyChallenge{}, domain.ErrChallengeNotFound
	}
	return c, nil
}

func (r *ChallengeRepository) CreateIfAbsent(_ context.Context, challenge domain.DailyChallenge) error {
	key := dateKey(challenge.Date)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byDate[key]; exists {
		return nil
	}
	r.nextID++
	challenge.ID = r.nextID
	challenge.Date = domain.DateOf(challenge.Date)
	r.byDate[key] = challenge
	return nil
}

func (r *ChallengeRepository) Complete(_ context.Context, completion domain.ChallengeCompletion) (bool, error) {
	key := completionKey{userID: completion.UserID, challengeID: completion.ChallengeID}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.completions[key]; exists {
		return false, nil
	}
	r.nextID++
	completion.ID = r.nextID
	r.completions[key] = completion
	return true, nil
}

func (r *ChallengeRepository) Release(_ context.Context, userID, challengeID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.completions, completionKey{userID: userID, challengeID: challengeID})
	return nil
}

func (r *ChallengeRepository) HasCompleted(_ context.Context, userID, challengeID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.completions[completionKey{userID: userID, challengeID: challengeID}]
	return ok, nil
}

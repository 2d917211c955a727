package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"quiz-platform/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader fetches question content from a backing store.
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, subject string, difficulty domain.Difficulty) ([]domain.Question, error)
}

// QuestionRepository caches question sets in Redis and falls back to a loader on cache miss.
// Each subject/tier set is stored as a JSON array under questions:{subject}:{difficulty}.
type QuestionRepository struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group
	rndMu  sync.Mutex
	rnd    *rand.Rand
}

func NewQuestionRepository(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) GetQuestions(ctx context.Context, subject string, difficulty domain.Difficulty) ([]domain.Question, error) {
	key := questionKey(subject, difficulty)
	if qs, ok := r.cached(ctx, key); ok {
		return qs, nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if qs, ok := r.cached(ctx, key); ok {
			return qs, nil
		}

		qs, err := r.loader.LoadQuestions(ctx, subject, difficulty)
		if err != nil {
			return nil, err
		}
		if len(qs) == 0 {
			return qs, nil
		}

		payload, err := json.Marshal(qs)
		if err != nil {
			return nil, fmt.Errorf("marshal questions: %w", err)
		}
		// cache write is best-effort; the loaded set is still served
		_ = r.client.Set(ctx, key, payload, r.ttlWithJitter()).Err()
		return qs, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (r *QuestionRepository) cached(ctx context.Context, key string) ([]domain.Question, bool) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var qs []domain.Question
	if err := json.Unmarshal(raw, &qs); err != nil {
		return nil, false
	}
	return qs, true
}

// Invalidate drops the cached set for a subject/tier.
func (r *QuestionRepository) Invalidate(ctx context.Context, subject string, difficulty domain.Difficulty) error {
	return r.client.Del(ctx, questionKey(subject, difficulty)).Err()
}

// InvalidateQuestions drops every cached tier of the given subjects. It runs
// after the question bank changes so readers reload from Postgres.
func InvalidateQuestions(ctx context.Context, client *redis.Client, subjects []string) error {
	keys := make([]string, 0, len(subjects)*len(domain.Difficulties()))
	for _, subject := range subjects {
		for _, d := range domain.Difficulties() {
			keys = append(keys, questionKey(subject, d))
		}
	}
	if len(keys) == 0 {
		return nil
	}
	if err := client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate question cache: %w", err)
	}
	return nil
}

func questionKey(subject string, difficulty domain.Difficulty) string {
	return "questions:" + subject + ":" + string(difficulty)
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

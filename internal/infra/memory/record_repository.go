package memory

import (
	"context"
	"sort"
	"sync"

	"quiz-platform/internal/domain"
)

// QuizRecordRepository is an in-memory append-only quiz log.
type QuizRecordRepository struct {
	mu      sync.RWMutex
	nextID  int64
	records []domain.QuizRecord
}

func NewQuizRecordRepository() *QuizRecordRepository {
	return &QuizRecordRepository{}
}

func (r *QuizRecordRepository) Create(_ context.Context, record *domain.QuizRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	record.ID = r.nextID
	r.records = append(r.records, *record)
	return nil
}

func (r *QuizRecordRepository) byUser(userID int64) []domain.QuizRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.QuizRecord
	for _, rec := range r.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out
}

// Recent returns the user's latest records, newest first.
func (r *QuizRecordRepository) Recent(_ context.Context, userID int64, limit int) ([]domain.QuizRecord, error) {
	records := r.byUser(userID)
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].CompletedAt.Equal(records[j].CompletedAt) {
			return records[i].CompletedAt.After(records[j].CompletedAt)
		}
		return records[i].ID > records[j].ID
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (r *QuizRecordRepository) Stats(_ context.Context, userID int64) (domain.QuizStats, error) {
	records := r.byUser(userID)
	stats := domain.QuizStats{TotalQuizzes: len(records)}
	if len(records) == 0 {
		return stats, nil
	}

	type agg struct {
		sum   float64
		count int
	}
	var total float64
	subjects := make(map[string]*agg)
	for _, rec := range records {
		if rec.Perfect() {
			stats.PerfectQuizzes++
		}
		pct := float64(rec.Score) / float64(rec.Total) * 100
		total += pct
		a, ok := subjects[rec.Subject]
		if !ok {
			a = &agg{}
			subjects[rec.Subject] = a
		}
		a.sum += pct
		a.count++
	}
	stats.AverageScore = total / float64(len(records))

	// ties go to the alphabetically first subject
	order := make([]string, 0, len(subjects))
	for subject := range subjects {
		order = append(order, subject)
	}
	sort.Strings(order)
	for _, subject := range order {
		a := subjects[subject]
		avg := a.sum / float64(a.count)
		if stats.BestSubject == "" || avg > stats.BestSubjectAvg {
			stats.BestSubject = subject
			stats.BestSubjectAvg = avg
		}
	}
	return stats, nil
}

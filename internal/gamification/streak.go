package gamification

import (
	"time"

	"quiz-platform/internal/domain"
)

// Streak is a user's consecutive-day activity state.
type Streak struct {
	Current    int
	Best       int
	LastActive time.Time // zero when there is no prior activity
}

// Advance applies one day of activity on today (a calendar date).
// Re-entry on the same day leaves the streak unchanged.
func (s Streak) Advance(today time.Time) Streak {
	today = domain.DateOf(today)
	next := s
	next.LastActive = today

	switch {
	case s.LastActive.IsZero():
		next.Current = 1
	default:
		switch domain.DaysBetween(s.LastActive, today) {
		case 0:
		case 1:
			next.Current = s.Current + 1
		default:
			next.Current = 1
		}
	}
	if next.Current > next.Best {
		next.Best = next.Current
	}
	return next
}

package gamification

import (
	"time"

	"quiz-platform/internal/domain"
)

// DefaultSubjects is the reference subject set for daily challenges.
var DefaultSubjects = []string{"Math", "Science", "History"}

var dailyBonus = map[domain.Difficulty]int{
	domain.Easy:   20,
	domain.Medium: 40,
	domain.Hard:   60,
}

// Picker supplies uniform choices; *rand.Rand satisfies it.
type Picker interface {
	Intn(n int) int
}

// ChallengeBonus returns the bonus points for a daily challenge of tier d.
func ChallengeBonus(d domain.Difficulty) int {
	return dailyBonus[d]
}

// RollChallenge picks a subject and tier uniformly at random for date.
// The returned challenge has no ID; persistence assigns one.
func RollChallenge(date time.Time, subjects []string, p Picker) (domain.DailyChallenge, error) {
	if len(subjects) == 0 {
		return domain.DailyChallenge{}, domain.ErrNoSubjects
	}
	tiers := domain.Difficulties()
	d := tiers[p.Intn(len(tiers))]
	return domain.DailyChallenge{
		Date:        domain.DateOf(date),
		Subject:     subjects[p.Intn(len(subjects))],
		Difficulty:  d,
		BonusPoints: ChallengeBonus(d),
	}, nil
}

package gamification

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"quiz-platform/internal/domain"
)

type fixedPicker []int

func (p *fixedPicker) Intn(n int) int {
	v := (*p)[0] % n
	*p = (*p)[1:]
	return v
}

func TestRollChallenge(t *testing.T) {
	p := &fixedPicker{2, 1} // tier hard, subject Science
	date := time.Date(2026, 10, 18, 15, 4, 0, 0, time.UTC)
	c, err := RollChallenge(date, DefaultSubjects, p)
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	if c.Subject != "Science" || c.Difficulty != domain.Hard || c.BonusPoints != 60 {
		t.Fatalf("unexpected challenge %+v", c)
	}
	if !c.Date.Equal(domain.DateOf(date)) {
		t.Fatalf("expected date truncated, got %s", c.Date)
	}
}

func TestRollChallengeBonusMatchesTier(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		c, err := RollChallenge(time.Now(), DefaultSubjects, r)
		if err != nil {
			t.Fatalf("roll: %v", err)
		}
		if c.BonusPoints != ChallengeBonus(c.Difficulty) || c.BonusPoints == 0 {
			t.Fatalf("bonus %d does not match tier %s", c.BonusPoints, c.Difficulty)
		}
	}
}

func TestRollChallengeRequiresSubjects(t *testing.T) {
	if _, err := RollChallenge(time.Now(), nil, rand.New(rand.NewSource(1))); !errors.Is(err, domain.ErrNoSubjects) {
		t.Fatalf("expected no subjects error, got %v", err)
	}
}

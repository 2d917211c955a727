// Package gamification holds the pure scoring and progression rules:
// points, levels, badges, streaks, achievements and daily challenge rolls.
package gamification

import (
	"fmt"

	"quiz-platform/internal/domain"
)

const (
	// PerfectBonus is added when every question in a quiz is answered correctly.
	PerfectBonus = 20
	// PointsPerLevel is the number of points between consecutive levels.
	PointsPerLevel = 100
)

var multipliers = map[domain.Difficulty]int{
	domain.Easy:   10,
	domain.Medium: 20,
	domain.Hard:   30,
}

// Multiplier returns the per-correct-answer points for a tier.
func Multiplier(d domain.Difficulty) (int, error) {
	m, ok := multipliers[d]
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrUnknownDifficulty, d)
	}
	return m, nil
}

// Points breaks down what one submission earned.
type Points struct {
	Base    int `json:"base"`
	Perfect int `json:"perfect"`
	Daily   int `json:"daily"`
}

// Total is the sum of every component.
func (p Points) Total() int {
	return p.Base + p.Perfect + p.Daily
}

// Score converts a quiz result into earned points. dailyBonus is zero for
// regular quizzes and the day's bonus for a daily challenge claim.
func Score(score, total int, d domain.Difficulty, dailyBonus int) (Points, error) {
	m, err := Multiplier(d)
	if err != nil {
		return Points{}, err
	}
	p := Points{Base: score * m, Daily: dailyBonus}
	if score == total {
		p.Perfect = PerfectBonus
	}
	return p, nil
}

// Level derives the level for a cumulative point total.
func Level(points int) int {
	if points < 0 {
		points = 0
	}
	return points/PointsPerLevel + 1
}

// Badge is a display label unlocked by a cumulative point threshold.
type Badge string

const (
	Beginner     Badge = "Beginner"
	Intermediate Badge = "Intermediate"
	Expert       Badge = "Expert"
	Master       Badge = "Master"
	Legend       Badge = "Legend"
)

var badgeThresholds = []struct {
	points int
	badge  Badge
	icon   string
}{
	{50, Beginner, "🌟"},
	{150, Intermediate, "🏆"},
	{300, Expert, "👑"},
	{500, Master, "💎"},
	{1000, Legend, "🔥"},
}

// Badges returns every badge satisfied by points, lowest threshold first.
func Badges(points int) []Badge {
	badges := make([]Badge, 0, len(badgeThresholds))
	for _, t := range badgeThresholds {
		if points >= t.points {
			badges = append(badges, t.badge)
		}
	}
	return badges
}

// Icon returns the emoji shown next to the badge.
func (b Badge) Icon() string {
	for _, t := range badgeThresholds {
		if t.badge == b {
			return t.icon
		}
	}
	return ""
}

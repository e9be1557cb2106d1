package engine

import (
	"time"

	"github.com/tartampluch/go-lifeweeks/internal/config"
)

// Snapshot bundles everything a presentation layer needs for one birth date
// at one instant.
type Snapshot struct {
	BirthDate           string            `json:"birthDate"`
	ProjectedEnd        string            `json:"projectedEnd"`
	LifeExpectancyYears int               `json:"lifeExpectancyYears"`
	TotalWeeks          int               `json:"totalWeeks"`
	WeeksLived          int               `json:"weeksLived"`
	Progress            ProgressSnapshot  `json:"progress"`
	Countdown           CountdownSnapshot `json:"countdown"`
	CountdownText       string            `json:"countdownText"`
	Weeks               []WeekRecord      `json:"weeks,omitempty"`
	GeneratedAt         time.Time         `json:"generatedAt"`
}

// NewSnapshot computes a Snapshot. The week grid is only included when withWeeks is set.
func NewSnapshot(birth, now time.Time, withWeeks bool) Snapshot {
	countdown := ComputeCountdown(birth, now)
	s := Snapshot{
		BirthDate:           FormatBirthDate(birth),
		ProjectedEnd:        FormatBirthDate(ProjectedEnd(birth)),
		LifeExpectancyYears: config.LifeExpectancyYears,
		TotalWeeks:          config.TotalWeeks,
		WeeksLived:          WeeksLived(birth, now),
		Progress:            ComputeProgress(birth, now),
		Countdown:           countdown,
		CountdownText:       countdown.Format(),
		GeneratedAt:         now,
	}
	if withWeeks {
		s.Weeks = GenerateWeeks(birth, now)
	}
	return s
}

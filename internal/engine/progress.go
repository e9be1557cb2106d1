package engine

import (
	"math"
	"time"

	"github.com/tartampluch/go-lifeweeks/internal/config"
)

// ProgressSnapshot is the share of the expected lifespan already lived.
type ProgressSnapshot struct {
	DaysLived  int     `json:"daysLived"`
	Percentage float64 `json:"percentage"`
}

// ComputeProgress returns the days lived and the percentage of
// LifeExpectancyYears*365 days they represent, capped at 100.
// Birth dates in the future count as zero days lived.
func ComputeProgress(birth, now time.Time) ProgressSnapshot {
	days := max(0, DaysBetween(birth, now))
	pct := float64(days) / float64(config.ExpectedLifespanDays) * 100
	return ProgressSnapshot{
		DaysLived:  days,
		Percentage: math.Min(config.MaxPercentage, pct),
	}
}

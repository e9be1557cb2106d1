package engine

import (
	"time"

	"github.com/tartampluch/go-lifeweeks/internal/config"
)

// WeekRecord is one cell of the life grid.
type WeekRecord struct {
	// WeekNumber is 1-based; index in the grid is WeekNumber-1.
	WeekNumber int `json:"weekNumber"`

	// Start is the first day of the week (birth date + WeekNumber-1 weeks).
	Start time.Time `json:"start"`

	IsLived       bool `json:"isLived"`
	IsBirth       bool `json:"isBirth"`
	IsDeath       bool `json:"isDeath"`
	IsCurrentWeek bool `json:"isCurrentWeek"`

	// DaysLived is min(days since birth, WeekNumber*7) for lived weeks and zero
	// otherwise: the running total capped at the end of this week.
	DaysLived int `json:"daysLived"`
}

// YearRow groups the 52 weeks of one year of life, labelled with the
// calendar year in which that year of life starts.
type YearRow struct {
	Index int          `json:"index"`
	Year  int          `json:"year"`
	Weeks []WeekRecord `json:"weeks"`
}

// WeeksLived returns the number of whole weeks elapsed since birth.
// A birth date in the future yields 0.
func WeeksLived(birth, now time.Time) int {
	return WeeksBetween(birth, now)
}

// GenerateWeeks builds the full life grid for birth as seen at now.
// The result always has config.TotalWeeks entries in chronological order.
func GenerateWeeks(birth, now time.Time) []WeekRecord {
	daysLived := max(0, DaysBetween(birth, now))
	weeksLived := daysLived / config.DaysPerWeek

	weeks := make([]WeekRecord, config.TotalWeeks)
	for i := range weeks {
		w := WeekRecord{
			WeekNumber:    i + 1,
			Start:         AddWeeks(birth, i),
			IsLived:       i < weeksLived,
			IsBirth:       i == 0,
			IsDeath:       i == config.TotalWeeks-1,
			IsCurrentWeek: i == weeksLived-1,
		}
		if w.IsLived {
			w.DaysLived = min(daysLived, (i+1)*config.DaysPerWeek)
		}
		weeks[i] = w
	}
	return weeks
}

// GroupByYear slices a grid into rows of config.WeeksPerYear weeks.
func GroupByYear(birth time.Time, weeks []WeekRecord) []YearRow {
	rows := make([]YearRow, 0, (len(weeks)+config.WeeksPerYear-1)/config.WeeksPerYear)
	for start := 0; start < len(weeks); start += config.WeeksPerYear {
		end := min(start+config.WeeksPerYear, len(weeks))
		idx := start / config.WeeksPerYear
		rows = append(rows, YearRow{
			Index: idx,
			Year:  AddYears(birth, idx).Year(),
			Weeks: weeks[start:end],
		})
	}
	return rows
}

package engine_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-lifeweeks/internal/config"
	"github.com/tartampluch/go-lifeweeks/internal/engine"
)

// countCurrent returns how many records are flagged as current, and the index of the last one.
func countCurrent(weeks []engine.WeekRecord) (int, int) {
	count, idx := 0, -1
	for i, w := range weeks {
		if w.IsCurrentWeek {
			count++
			idx = i
		}
	}
	return count, idx
}

func TestGenerateWeeks_Shape(t *testing.T) {
	birth := date(1990, 5, 15)
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	weeks := engine.GenerateWeeks(birth, now)

	require.Len(t, weeks, config.LifeExpectancyYears*52)
	for i, w := range weeks {
		assert.Equal(t, i+1, w.WeekNumber)
		assert.Equal(t, i == 0, w.IsBirth, "isBirth only at index 0 (index %d)", i)
		assert.Equal(t, i == len(weeks)-1, w.IsDeath, "isDeath only at the last index (index %d)", i)
		assert.Equal(t, engine.AddWeeks(birth, i), w.Start)
		assert.LessOrEqual(t, w.DaysLived, (i+1)*7, "capped at the week boundary (index %d)", i)
	}
}

// TestGenerateWeeks_Scenario2000 covers 2000-01-01 seen from 2024-01-01.
func TestGenerateWeeks_Scenario2000(t *testing.T) {
	birth := date(2000, 1, 1)
	now := date(2024, 1, 1)

	weeks := engine.GenerateWeeks(birth, now)

	assert.Equal(t, 1252, engine.WeeksLived(birth, now))
	assert.True(t, weeks[1251].IsLived)
	assert.False(t, weeks[1252].IsLived)

	count, idx := countCurrent(weeks)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1251, idx)

	// The capped cumulative count stops at the week boundary.
	assert.Equal(t, 7, weeks[0].DaysLived)
	assert.Equal(t, 1252*7, weeks[1251].DaysLived)
	assert.Equal(t, 0, weeks[1252].DaysLived)

	raw, err := json.Marshal(weeks[1251])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"daysLived":8764`)
	assert.NotContains(t, string(raw), "daysLivedInWeek")
}

func TestGenerateWeeks_LivedMatchesFloorOfDays(t *testing.T) {
	birth := date(1985, 7, 23)

	for offset := 0; offset < 60; offset++ {
		now := birth.AddDate(0, 0, offset)
		weeks := engine.GenerateWeeks(birth, now)
		weeksLived := engine.DaysBetween(birth, now) / 7

		assert.Equal(t, weeksLived, engine.WeeksLived(birth, now), "offset %d", offset)

		for i, w := range weeks[:10] {
			assert.Equal(t, i < weeksLived, w.IsLived, "offset %d, index %d", offset, i)
		}

		count, idx := countCurrent(weeks)
		if weeksLived == 0 {
			assert.Equal(t, 0, count, "No current week before the first full week (offset %d)", offset)
		} else {
			assert.Equal(t, 1, count, "offset %d", offset)
			assert.Equal(t, weeksLived-1, idx, "offset %d", offset)
		}
	}
}

func TestGenerateWeeks_FutureBirth(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	birth := date(2026, 10, 29)

	weeks := engine.GenerateWeeks(birth, now)

	assert.Equal(t, 0, engine.WeeksLived(birth, now))
	require.Len(t, weeks, config.TotalWeeks)
	count, _ := countCurrent(weeks)
	assert.Equal(t, 0, count)
	for _, w := range weeks {
		assert.False(t, w.IsLived)
		assert.Zero(t, w.DaysLived)
	}
	assert.True(t, weeks[0].IsBirth)
	assert.True(t, weeks[len(weeks)-1].IsDeath)
}

func TestGenerateWeeks_PastProjectedEnd(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	birth := engine.AddYears(date(2026, 10, 19), -config.LifeExpectancyYears).AddDate(0, 0, -1)

	weeks := engine.GenerateWeeks(birth, now)

	require.Len(t, weeks, config.TotalWeeks)
	for _, w := range weeks {
		assert.True(t, w.IsLived)
	}
	last := weeks[len(weeks)-1]
	assert.True(t, last.IsDeath)
	assert.True(t, last.IsLived)

	count, _ := countCurrent(weeks)
	assert.Equal(t, 0, count, "The current week lies beyond the grid")
}

func TestGenerateWeeks_Deterministic(t *testing.T) {
	birth := date(1990, 5, 15)
	now := time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)

	assert.Equal(t, engine.GenerateWeeks(birth, now), engine.GenerateWeeks(birth, now))
}

func TestGroupByYear(t *testing.T) {
	birth := date(1990, 5, 15)
	weeks := engine.GenerateWeeks(birth, date(2026, 10, 19))

	rows := engine.GroupByYear(birth, weeks)

	require.Len(t, rows, config.LifeExpectancyYears)
	for i, row := range rows {
		assert.Equal(t, i, row.Index)
		assert.Equal(t, 1990+i, row.Year)
		require.Len(t, row.Weeks, config.WeeksPerYear)
		assert.Equal(t, i*config.WeeksPerYear+1, row.Weeks[0].WeekNumber)
	}
	assert.True(t, rows[0].Weeks[0].IsBirth)
	assert.True(t, rows[len(rows)-1].Weeks[config.WeeksPerYear-1].IsDeath)
}

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

func TestNewSnapshot(t *testing.T) {
	birth := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	s := engine.NewSnapshot(birth, now, false)

	assert.Equal(t, "2000-01-01", s.BirthDate)
	assert.Equal(t, "2073-01-01", s.ProjectedEnd)
	assert.Equal(t, config.LifeExpectancyYears, s.LifeExpectancyYears)
	assert.Equal(t, config.TotalWeeks, s.TotalWeeks)
	assert.Equal(t, 1252, s.WeeksLived)
	assert.Equal(t, 8766, s.Progress.DaysLived)
	assert.Equal(t, 49, s.Countdown.Years)
	assert.Equal(t, s.Countdown.Format(), s.CountdownText)
	assert.Equal(t, now, s.GeneratedAt)
	assert.Nil(t, s.Weeks)

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"weeks"`, "The grid is omitted when not requested")
	assert.Contains(t, string(raw), `"percentage"`)
}

func TestNewSnapshot_WithWeeks(t *testing.T) {
	birth := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	s := engine.NewSnapshot(birth, now, true)

	assert.Len(t, s.Weeks, config.TotalWeeks)
	assert.True(t, s.Weeks[1251].IsCurrentWeek)
}

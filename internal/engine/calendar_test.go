package engine_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-lifeweeks/internal/config"
	"github.com/tartampluch/go-lifeweeks/internal/engine"
)

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

func TestMilestones(t *testing.T) {
	birth := date(2000, 1, 1)
	now := date(2024, 1, 1)

	ms := engine.Milestones(birth, now)

	kinds := make(map[string][]int)
	for _, m := range ms {
		kinds[m.Kind] = append(kinds[m.Kind], m.Week)
	}
	assert.Equal(t, []int{1}, kinds[config.MilestoneBirth])
	assert.Equal(t, []int{1000, 2000, 3000}, kinds[config.MilestoneWeek])
	assert.Equal(t, []int{config.TotalWeeks / 2}, kinds[config.MilestoneHalfway])
	assert.Equal(t, []int{1252}, kinds[config.MilestoneCurrent])
	assert.Equal(t, []int{config.TotalWeeks}, kinds[config.MilestoneEnd])

	for i := 1; i < len(ms); i++ {
		assert.False(t, ms[i].Date.Before(ms[i-1].Date), "Milestones must be chronological")
	}
	assert.Equal(t, birth, ms[0].Date)
	assert.Equal(t, engine.ProjectedEnd(birth), ms[len(ms)-1].Date)
}

func TestMilestones_NoCurrentWeekBeforeFirstWeek(t *testing.T) {
	birth := date(2026, 10, 15)
	ms := engine.Milestones(birth, date(2026, 10, 19))

	for _, m := range ms {
		assert.NotEqual(t, config.MilestoneCurrent, m.Kind)
	}
}

func TestCalendarBuilder_Build(t *testing.T) {
	builder := &engine.CalendarBuilder{
		Clock: MockClock{CurrentTime: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
	}

	data, err := builder.Build(date(2000, 1, 1))
	require.NoError(t, err)

	ics := string(data)
	assert.Contains(t, ics, "BEGIN:VCALENDAR")
	assert.Contains(t, ics, "\r\nX-WR-CALNAME:"+config.ICalCalName+"\r\n")
	assert.NotContains(t, ics, "VALUE=TEXT")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20000101", "Birth event")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20730101", "Projected end event")
	assert.Contains(t, ics, "SUMMARY:Birth")
	assert.Contains(t, ics, "SUMMARY:Current week (1252)")
	assert.Contains(t, ics, fmt.Sprintf("SUMMARY:End of life expectancy (%d years)", config.LifeExpectancyYears))
	assert.Equal(t, 7, strings.Count(ics, "BEGIN:VEVENT"), "birth, 3 round weeks, halfway, current, end")
	assert.NotContains(t, ics, "BEGIN:VALARM")
}

func TestCalendarBuilder_DeterministicUIDs(t *testing.T) {
	builder := &engine.CalendarBuilder{
		Clock: MockClock{CurrentTime: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
	}

	first, err := builder.Build(date(1990, 5, 15))
	require.NoError(t, err)
	second, err := builder.Build(date(1990, 5, 15))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	other, err := builder.Build(date(1990, 5, 16))
	require.NoError(t, err)
	assert.NotEqual(t, uidLines(string(first)), uidLines(string(other)))
}

func TestCalendarBuilder_UIDsAreNameBasedUUIDs(t *testing.T) {
	builder := &engine.CalendarBuilder{
		Clock: MockClock{CurrentTime: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
	}

	ics, err := builder.Build(date(1990, 5, 15))
	require.NoError(t, err)

	uids := uidLines(string(ics))
	require.NotEmpty(t, uids)
	seen := make(map[string]bool)
	for _, line := range uids {
		value := strings.TrimPrefix(line, "UID:")
		id, domain, ok := strings.Cut(value, "@")
		require.True(t, ok, value)
		assert.Equal(t, config.ICalDomain, domain)

		parsed, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(5), parsed.Version())

		assert.False(t, seen[id], "duplicate UID %s", id)
		seen[id] = true
	}
}

func uidLines(ics string) []string {
	var uids []string
	for _, line := range strings.Split(ics, "\r\n") {
		if strings.HasPrefix(line, "UID:") {
			uids = append(uids, line)
		}
	}
	return uids
}

func TestCalendarBuilder_WithReminderAndFormatter(t *testing.T) {
	builder := &engine.CalendarBuilder{
		Clock:           MockClock{CurrentTime: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		ReminderTrigger: "-P1D",
		FormatSummary: func(kind string, week int) string {
			return fmt.Sprintf("%s #%d", strings.ToUpper(kind), week)
		},
	}

	data, err := builder.Build(date(2000, 1, 1))
	require.NoError(t, err)

	ics := string(data)
	assert.Contains(t, ics, "SUMMARY:BIRTH #1")
	assert.Contains(t, ics, "SUMMARY:HALFWAY #1898")
	assert.Contains(t, ics, "BEGIN:VALARM")
	assert.Contains(t, ics, "TRIGGER:-P1D")
	assert.Contains(t, ics, "ACTION:DISPLAY")
}

package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tartampluch/go-lifeweeks/internal/config"
)

const secondsPerDay = int64(config.CountdownDay / time.Second)

var (
	// ErrEmptyBirthDate is returned when no birth date was provided.
	ErrEmptyBirthDate = errors.New(config.ErrDateEmpty)

	// ErrInvalidBirthDate is returned when a birth date is not a valid YYYY-MM-DD date.
	ErrInvalidBirthDate = errors.New(config.ErrDateParse)
)

// ParseBirthDate parses a strict ISO-8601 calendar date (YYYY-MM-DD) and returns
// midnight of that day in loc. A nil loc means time.Local.
func ParseBirthDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrEmptyBirthDate
	}
	if loc == nil {
		loc = time.Local
	}

	t, err := time.ParseInLocation(config.DateFormatISO, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrInvalidBirthDate, err)
	}
	return t, nil
}

// FormatBirthDate renders a birth date in its storage format.
func FormatBirthDate(t time.Time) string {
	return t.Format(config.DateFormatISO)
}

// DaysBetween returns the signed number of whole calendar days from the
// wall-clock date of 'from' to the wall-clock date of 'to'.
// Times of day and DST transitions are ignored.
func DaysBetween(from, to time.Time) int {
	return int((civilDay(to) - civilDay(from)) / secondsPerDay)
}

// WeeksBetween returns the number of fully elapsed 7-day periods between two
// dates. It never returns a negative count.
func WeeksBetween(from, to time.Time) int {
	days := DaysBetween(from, to)
	if days <= 0 {
		return 0
	}
	return days / config.DaysPerWeek
}

// AddWeeks moves t forward by n calendar weeks.
func AddWeeks(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n*config.DaysPerWeek)
}

// AddYears moves t by n calendar years. Feb 29 becomes Feb 28 when the target
// year is not a leap year (time.AddDate would roll over to March 1st).
func AddYears(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	target := year + n
	if last := daysInMonth(target, month); day > last {
		day = last
	}
	hour, minute, sec := t.Clock()
	return time.Date(target, month, day, hour, minute, sec, t.Nanosecond(), t.Location())
}

// civilDay maps the wall-clock date of t to a day-aligned Unix timestamp.
func civilDay(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix()
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

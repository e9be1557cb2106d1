package engine

import (
	"strconv"
	"strings"
	"time"

	"github.com/tartampluch/go-lifeweeks/internal/config"
)

// CountdownSnapshot is the time remaining until the projected end of life,
// broken down with fixed-length years (365.25 days) and months (30.44 days).
type CountdownSnapshot struct {
	Years   int `json:"years"`
	Months  int `json:"months"`
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// ProjectedEnd is the birth date plus config.LifeExpectancyYears calendar years.
func ProjectedEnd(birth time.Time) time.Time {
	return AddYears(birth, config.LifeExpectancyYears)
}

// ComputeCountdown decomposes the time left until ProjectedEnd(birth).
// Each unit takes the floored quotient, largest first, and hands its remainder
// to the next smaller unit. Once the end is reached every field is zero.
// The end is the calendar date from ProjectedEnd, not 73 fixed 365.25-day years.
func ComputeCountdown(birth, now time.Time) CountdownSnapshot {
	diff := ProjectedEnd(birth).Sub(now)
	if diff <= 0 {
		return CountdownSnapshot{}
	}

	var c CountdownSnapshot
	units := []struct {
		size time.Duration
		dst  *int
	}{
		{config.CountdownYear, &c.Years},
		{config.CountdownMonth, &c.Months},
		{config.CountdownDay, &c.Days},
		{config.CountdownHour, &c.Hours},
		{config.CountdownMinute, &c.Minutes},
		{config.CountdownSecond, &c.Seconds},
	}
	for _, u := range units {
		*u.dst = int(diff / u.size)
		diff %= u.size
	}
	return c
}

// IsZero reports whether the countdown has run out.
func (c CountdownSnapshot) IsZero() bool {
	return c == CountdownSnapshot{}
}

// Format renders the compact form "1y 2m 3d 4h 5m 6s". Zero units are
// omitted, except seconds which are always present.
func (c CountdownSnapshot) Format() string {
	var parts []string
	add := func(v int, suffix string) {
		if v != 0 {
			parts = append(parts, strconv.Itoa(v)+suffix)
		}
	}
	add(c.Years, config.SuffixYears)
	add(c.Months, config.SuffixMonths)
	add(c.Days, config.SuffixDays)
	add(c.Hours, config.SuffixHours)
	add(c.Minutes, config.SuffixMinutes)
	parts = append(parts, strconv.Itoa(c.Seconds)+config.SuffixSeconds)
	return strings.Join(parts, " ")
}

package engine

import (
	"bytes"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/tartampluch/go-lifeweeks/internal/config"
)

// Milestone is a calendar-worthy week of a life.
type Milestone struct {
	Kind string    // One of the config.Milestone* constants.
	Week int       // 1-based week number.
	Date time.Time // First day of that week (or the projected end for MilestoneEnd).
}

// CalendarBuilder renders life milestones as an iCalendar feed.
type CalendarBuilder struct {
	Clock Clock

	// ReminderTrigger is an ISO8601 duration (e.g. "-P1D"). Empty disables alarms.
	ReminderTrigger string

	// FormatSummary allows the UI to inject localized event titles.
	FormatSummary func(kind string, week int) string
}

// Milestones lists the milestones of a life in chronological order:
// birth, every config.MilestoneEveryWeeks-th week, the halfway week,
// the current week (once at least one week is lived) and the projected end.
func Milestones(birth, now time.Time) []Milestone {
	at := func(week int) time.Time { return AddWeeks(birth, week-1) }

	ms := []Milestone{{Kind: config.MilestoneBirth, Week: 1, Date: birth}}
	for w := config.MilestoneEveryWeeks; w < config.TotalWeeks; w += config.MilestoneEveryWeeks {
		ms = append(ms, Milestone{Kind: config.MilestoneWeek, Week: w, Date: at(w)})
	}

	half := config.TotalWeeks / 2
	ms = append(ms, Milestone{Kind: config.MilestoneHalfway, Week: half, Date: at(half)})

	if lived := WeeksLived(birth, now); lived > 0 && lived <= config.TotalWeeks {
		ms = append(ms, Milestone{Kind: config.MilestoneCurrent, Week: lived, Date: at(lived)})
	}

	ms = append(ms, Milestone{Kind: config.MilestoneEnd, Week: config.TotalWeeks, Date: ProjectedEnd(birth)})

	sort.SliceStable(ms, func(i, j int) bool { return ms[i].Date.Before(ms[j].Date) })
	return ms
}

// Build generates the VCALENDAR document for birth.
func (b *CalendarBuilder) Build(birth time.Time) ([]byte, error) {
	start := time.Now()

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	setRaw(cal.Props, config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986 refresh hint. The current-week event moves once a week.
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	now := b.Clock.Now()
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	milestones := Milestones(birth, now)
	for _, m := range milestones {
		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, milestoneUID(birth, m))

		summary := fallbackSummary(m.Kind, m.Week)
		if b.FormatSummary != nil {
			summary = b.FormatSummary(m.Kind, m.Week)
		}
		event.Props.SetText(config.PropSummary, summary)

		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(m.Date)
		event.Props.Set(dtStartProp)
		event.Props.Set(dtStampProp)

		if b.ReminderTrigger != "" {
			addAlarm(event, b.ReminderTrigger, summary)
		}
		cal.Children = append(cal.Children, event.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Info(config.MsgCalendarBuilt,
		config.LogKeyComponent, config.CompCalendar,
		config.LogKeyEvents, len(milestones),
		config.LogKeySizeBytes, buf.Len(),
	)
	slog.Debug(config.MsgCalendarBuilt,
		config.LogKeyComponent, config.CompCalendar,
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// uidNamespace scopes milestone UIDs to this application.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte(config.ICalDomain))

// milestoneUID is stable for a given birth date and milestone, so subscribed
// clients update events instead of duplicating them.
func milestoneUID(birth time.Time, m Milestone) string {
	name := fmt.Sprintf(config.FormatUIDName, config.UIDSalt, FormatBirthDate(birth), m.Kind, m.Week)
	return fmt.Sprintf(config.FormatUID, uuid.NewSHA1(uidNamespace, []byte(name)), config.ICalDomain)
}

// fallbackSummary provides English titles when no formatter is injected.
func fallbackSummary(kind string, week int) string {
	switch kind {
	case config.MilestoneBirth:
		return config.FallbackEvtBirth
	case config.MilestoneHalfway:
		return fmt.Sprintf(config.FallbackEvtHalfway, week)
	case config.MilestoneCurrent:
		return fmt.Sprintf(config.FallbackEvtCurrent, week)
	case config.MilestoneEnd:
		return fmt.Sprintf(config.FallbackEvtEnd, config.LifeExpectancyYears)
	default:
		return fmt.Sprintf(config.FallbackEvtWeek, week)
	}
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	setRaw(alarm.Props, config.PropTrigger, trigger)

	event.Children = append(event.Children, alarm)
}

// setRaw stores value without a VALUE parameter. SetText would emit
// "VALUE=TEXT" for properties whose default type is not text.
func setRaw(props ical.Props, name, value string) {
	prop := ical.NewProp(name)
	prop.Value = value
	props.Set(prop)
}

package engine

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/tartampluch/go-contactbook/internal/config"
	"github.com/tartampluch/go-contactbook/internal/contact"
)

// uidSpace scopes every generated UUID to this application.
var uidSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte(config.UIDNamespace))

// Generator turns an AddressBook into birthday listings and an iCalendar feed.
type Generator struct {
	Clock contact.Clock // Interface for time mocking.

	// FormatSummary allows the CLI to inject localized event titles.
	FormatSummary func(name string, age int) string
}

func (g *Generator) now() time.Time {
	if g.Clock == nil {
		return time.Now()
	}
	return g.Clock.Now()
}

// Upcoming lists every contact with a birthday, soonest first.
// Ties are broken by name.
func (g *Generator) Upcoming(book *contact.AddressBook) []BirthdayEntry {
	now := g.now()
	var entries []BirthdayEntry

	for _, r := range book.Records() {
		b, ok := r.Birthday()
		if !ok {
			continue
		}
		next, ageNext := calculateNextOccurrence(now, b)
		entries = append(entries, BirthdayEntry{
			UID:            recordUID(r.Name(), b),
			Name:           r.Name(),
			Birthday:       b,
			NextOccurrence: next,
			Today:          isSameDay(next, now),
			DaysLeft:       b.DaysUntil(now),
			AgeNext:        ageNext,
		})
	}

	slices.SortStableFunc(entries, func(a, b BirthdayEntry) int {
		return cmp.Or(a.NextOccurrence.Compare(b.NextOccurrence), cmp.Compare(a.Name, b.Name))
	})
	return entries
}

// Calendar renders the birthday feed. It returns the ICS data and the
// number of birthdays falling today.
func (g *Generator) Calendar(ctx context.Context, book *contact.AddressBook, reminderTrigger string) ([]byte, int, error) {
	start := time.Now()

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	// Birthdays follow the local calendar; only the stamp is UTC.
	now := g.now()
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	stats := struct{ contacts, withBday, today int }{}

	for _, r := range book.Records() {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		stats.contacts++

		b, ok := r.Birthday()
		if !ok {
			continue
		}
		stats.withBday++

		events, isToday := g.createEvents(r.Name(), b, reminderTrigger, now)
		if isToday {
			stats.today++
			slog.Info(config.MsgBdayToday,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyName, r.Name(),
				config.LogKeyDOB, b.String())
		}

		for _, e := range events {
			e.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, e.Component)
		}
	}

	if len(cal.Children) == 0 {
		g.logSuccess(stats, start)
		return []byte(config.StubVCalendar), 0, nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	g.logSuccess(stats, start)
	return buf.Bytes(), stats.today, nil
}

func (g *Generator) logSuccess(stats struct{ contacts, withBday, today int }, start time.Time) {
	slog.Info(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, stats.contacts),
			slog.Int(config.LogKeyFound, stats.withBday),
			slog.Int(config.LogKeyToday, stats.today),
		),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
}

// calculateNextOccurrence returns the next anniversary on or after the day of now,
// and the age reached on it.
func calculateNextOccurrence(now time.Time, b contact.Birthday) (time.Time, int) {
	loc := now.Location()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	// time.Date normalizes Feb 29 to March 1st in non-leap years.
	candidate := time.Date(now.Year(), b.Month(), b.Day(), 0, 0, 0, 0, loc)
	if candidate.Before(todayStart) {
		candidate = time.Date(now.Year()+1, b.Month(), b.Day(), 0, 0, 0, 0, loc)
	}
	return candidate, candidate.Year() - b.Year()
}

// createEvents generates events for the previous, current and next year,
// skipping years before the birth year.
func (g *Generator) createEvents(name string, b contact.Birthday, reminderTrigger string, now time.Time) ([]*ical.Event, bool) {
	currentYear := now.Year()
	loc := now.Location()
	uidBase := recordUID(name, b)

	var events []*ical.Event
	isToday := false

	for _, y := range []int{currentYear - 1, currentYear, currentYear + 1} {
		if y < b.Year() {
			continue
		}

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, uidBase, y, config.ICalDomain))

		age := y - b.Year()
		summary := fmt.Sprintf(config.FallbackSummaryAge, name, age)
		if g.FormatSummary != nil {
			summary = g.FormatSummary(name, age)
		}
		event.Props.SetText(config.PropSummary, summary)

		eventDate := time.Date(y, b.Month(), b.Day(), 0, 0, 0, 0, loc)
		if isSameDay(eventDate, now) {
			isToday = true
		}

		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(eventDate)
		event.Props.Set(dtStartProp)

		if reminderTrigger != "" {
			addAlarm(event, reminderTrigger, summary)
		}

		events = append(events, event)
	}
	return events, isToday
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}

// recordUID derives a stable identifier so calendar clients keep their
// state across refreshes.
func recordUID(name string, b contact.Birthday) string {
	return uuid.NewSHA1(uidSpace, []byte(name+"|"+b.String())).String()
}

func isSameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

package engine_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-contactbook/internal/config"
	"github.com/tartampluch/go-contactbook/internal/contact"
	"github.com/tartampluch/go-contactbook/internal/engine"
)

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

// buildBook creates a book from "name=birthday" pairs; an empty birthday means none.
func buildBook(t *testing.T, now time.Time, pairs ...string) *contact.AddressBook {
	t.Helper()
	book := contact.NewAddressBook()
	for _, p := range pairs {
		name, bday, _ := strings.Cut(p, "=")
		r, err := contact.Strict.Build(name, bday, nil, contact.WithClock(MockClock{CurrentTime: now}))
		require.NoError(t, err)
		book.Add(r)
	}
	return book
}

func TestCalendar_TodayCount(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	book := buildBook(t, now, "John Doe=2000-01-01", "No Date=")

	gen := &engine.Generator{Clock: MockClock{CurrentTime: now}}
	icsData, count, err := gen.Calendar(context.Background(), book, "")

	require.NoError(t, err)
	assert.Equal(t, 1, count, "Should identify one birthday today")

	icsStr := string(icsData)
	assert.Contains(t, icsStr, "BEGIN:VCALENDAR")
	assert.Contains(t, icsStr, "SUMMARY:Birthday: John Doe (25)")
	assert.NotContains(t, icsStr, "No Date")
}

func TestCalendar_EmptyBook(t *testing.T) {
	gen := &engine.Generator{Clock: MockClock{CurrentTime: time.Now()}}
	icsData, count, err := gen.Calendar(context.Background(), contact.NewAddressBook(), "")

	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, config.StubVCalendar, string(icsData), "An empty book still yields a valid VCALENDAR")
}

func TestCalendar_WithReminders(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	gen := &engine.Generator{Clock: MockClock{CurrentTime: now}}

	icsData, _, err := gen.Calendar(context.Background(), buildBook(t, now, "Alarm Test=1990-01-01"), "-P1D")
	require.NoError(t, err)

	icsStr := string(icsData)
	assert.Contains(t, icsStr, "BEGIN:VALARM", "ICS should contain an alarm component")
	assert.Contains(t, icsStr, "TRIGGER:-P1D", "Alarm trigger should match configuration")
	assert.Contains(t, icsStr, "ACTION:DISPLAY", "Alarm action should be DISPLAY")
}

func TestCalendar_GeneratesYearRange(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	gen := &engine.Generator{Clock: MockClock{CurrentTime: now}}

	icsData, _, err := gen.Calendar(context.Background(), buildBook(t, now, "Range Test=1990-12-31"), "")
	require.NoError(t, err)

	icsStr := string(icsData)
	assert.Contains(t, icsStr, "DTSTART;VALUE=DATE:20241231", "Should include previous year")
	assert.Contains(t, icsStr, "DTSTART;VALUE=DATE:20251231", "Should include current year")
	assert.Contains(t, icsStr, "DTSTART;VALUE=DATE:20261231", "Should include next year")
	assert.Equal(t, 3, strings.Count(icsStr, "BEGIN:VEVENT"))
}

func TestCalendar_BabyBornThisYear(t *testing.T) {
	// Born 2025-05-01, now 2025-06-01: 2024 skipped, 2025 (birth), 2026 (1 year).
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	gen := &engine.Generator{
		Clock: MockClock{CurrentTime: now},
		FormatSummary: func(name string, age int) string {
			if age == 0 {
				return fmt.Sprintf("Birthday: %s (Birth)", name)
			}
			return fmt.Sprintf("Birthday: %s (%d)", name, age)
		},
	}

	icsData, _, err := gen.Calendar(context.Background(), buildBook(t, now, "Baby=2025-05-01"), "")
	require.NoError(t, err)

	icsStr := string(icsData)
	assert.NotContains(t, icsStr, "DTSTART;VALUE=DATE:20240501", "Should NOT generate event before birth")
	assert.Contains(t, icsStr, "SUMMARY:Birthday: Baby (Birth)")
	assert.Contains(t, icsStr, "SUMMARY:Birthday: Baby (1)")
	assert.Equal(t, 2, strings.Count(icsStr, "BEGIN:VEVENT"))
}

func TestCalendar_StableUIDs(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	gen := &engine.Generator{Clock: MockClock{CurrentTime: now}}
	book := buildBook(t, now, "Jane=1980-02-02")

	first, _, err := gen.Calendar(context.Background(), book, "")
	require.NoError(t, err)
	second, _, err := gen.Calendar(context.Background(), book, "")
	require.NoError(t, err)

	uids := func(ics []byte) []string {
		var out []string
		for _, line := range strings.Split(string(ics), "\r\n") {
			if strings.HasPrefix(line, "UID:") {
				out = append(out, line)
			}
		}
		return out
	}
	assert.Len(t, uids(first), 3)
	assert.Equal(t, uids(first), uids(second), "UIDs must survive a refresh")
}

func TestCalendar_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	now := time.Now()
	gen := &engine.Generator{Clock: MockClock{CurrentTime: now}}
	_, _, err := gen.Calendar(ctx, buildBook(t, now, "John=1990-01-01"), "")

	assert.Equal(t, context.Canceled, err, "Should return context canceled error")
}

func TestUpcoming_Order(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	book := buildBook(t, now,
		"Past Birthday=1990-01-01",
		"Future Birthday=1990-12-31",
		"Today Birthday=1990-06-01",
		"Nobody=",
	)

	gen := &engine.Generator{Clock: MockClock{CurrentTime: now}}
	entries := gen.Upcoming(book)
	require.Len(t, entries, 3)

	assert.Equal(t, "Today Birthday", entries[0].Name)
	assert.True(t, entries[0].Today)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), entries[0].NextOccurrence)
	assert.Equal(t, 365, entries[0].DaysLeft, "The record countdown runs to next year's occurrence")
	assert.Equal(t, 35, entries[0].AgeNext)

	assert.Equal(t, "Future Birthday", entries[1].Name)
	assert.False(t, entries[1].Today)
	assert.Equal(t, 2025, entries[1].NextOccurrence.Year())

	assert.Equal(t, "Past Birthday", entries[2].Name)
	assert.Equal(t, 2026, entries[2].NextOccurrence.Year())
	assert.NotEmpty(t, entries[2].UID)
}

package contact

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tartampluch/go-contactbook/internal/config"
)

var birthdayPattern = regexp.MustCompile(config.BirthdayPattern)

// Birthday is a calendar date that is not in the future.
// The zero value is not a valid birthday.
type Birthday struct {
	year  int
	month time.Month
	day   int
}

// ParseBirthday validates value against the "yyyy m d" and "d m yyyy" layouts
// and rejects dates strictly after now.
func ParseBirthday(value string, now time.Time) (Birthday, error) {
	if !birthdayPattern.MatchString(value) {
		return Birthday{}, newValidationError(FieldBirthday, value, config.ErrMsgBirthdayFormat)
	}

	parts := strings.FieldsFunc(value, func(r rune) bool {
		return strings.ContainsRune(config.BirthdaySeparators, r)
	})

	var yearTok, monthTok, dayTok string
	if len(parts[0]) == config.YearTokenLength {
		yearTok, monthTok, dayTok = parts[0], parts[1], parts[2]
	} else {
		dayTok, monthTok, yearTok = parts[0], parts[1], parts[2]
	}

	// The pattern guarantees ASCII digits, so Atoi cannot fail.
	year, _ := strconv.Atoi(yearTok)
	month, _ := strconv.Atoi(monthTok)
	day, _ := strconv.Atoi(dayTok)

	// time.Date normalizes out-of-range values; a round trip detects them.
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
	if year < 1 || t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return Birthday{}, newValidationError(FieldBirthday, value, config.ErrMsgBirthdayDate)
	}

	if t.After(now) {
		return Birthday{}, newValidationError(FieldBirthday, value, config.ErrMsgBirthdayFuture)
	}

	return Birthday{year: year, month: time.Month(month), day: day}, nil
}

func (b Birthday) Year() int         { return b.year }
func (b Birthday) Month() time.Month { return b.month }
func (b Birthday) Day() int          { return b.day }

// IsZero reports whether b holds no date.
func (b Birthday) IsZero() bool {
	return b.year == 0
}

// Time returns the birthday at midnight in loc.
func (b Birthday) Time(loc *time.Location) time.Time {
	return time.Date(b.year, b.month, b.day, 0, 0, 0, 0, loc)
}

// String formats the birthday as yyyy-mm-dd.
func (b Birthday) String() string {
	if b.IsZero() {
		return config.BirthdayUnknownValue
	}
	return b.Time(time.UTC).Format(config.DateFormatFullDash)
}

// NextOccurrence returns the next anniversary strictly after the day of now.
// Feb 29 falls on Mar 1 in non-leap years.
func (b Birthday) NextOccurrence(now time.Time) time.Time {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	candidate := time.Date(now.Year(), b.month, b.day, 0, 0, 0, 0, loc)
	if !candidate.After(today) {
		candidate = time.Date(now.Year()+1, b.month, b.day, 0, 0, 0, 0, loc)
	}
	return candidate
}

// DaysUntil counts whole calendar days from the day of now to the next anniversary.
func (b Birthday) DaysUntil(now time.Time) int {
	next := b.NextOccurrence(now)

	// Count in UTC so DST transitions do not shorten a day.
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours()) / config.HoursPerDay
}

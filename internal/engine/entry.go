package engine

import (
	"time"

	"github.com/tartampluch/go-contactbook/internal/contact"
)

// BirthdayEntry is a read-only view of one contact's upcoming birthday.
// It decouples renderers from the Record type.
type BirthdayEntry struct {
	// UID is a deterministic identifier derived from the name and birthday.
	UID string

	// Name is the AddressBook key of the contact.
	Name string

	// Birthday is the validated date of birth.
	Birthday contact.Birthday

	// NextOccurrence is today if the birthday is today, otherwise the next anniversary.
	// This is the primary sorting key for "upcoming" listings.
	NextOccurrence time.Time

	// Today reports whether NextOccurrence is the current day.
	Today bool

	// DaysLeft is the record's own countdown, which skips to next year on the day itself.
	DaysLeft int

	// AgeNext is the age the person turns at NextOccurrence.
	AgeNext int
}

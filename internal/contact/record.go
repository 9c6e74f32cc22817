package contact

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tartampluch/go-contactbook/internal/config"
)

// Record holds one contact: a name, its phones and an optional birthday.
//
// A Record is not safe for concurrent mutation. Callers that share one
// between goroutines must serialize access themselves.
type Record struct {
	name     string
	phones   []Phone
	birthday Birthday
	clock    Clock
}

// RecordOption configures a Record at construction time.
type RecordOption func(*Record)

// WithClock sets the clock used for birthday validation and countdowns.
func WithClock(c Clock) RecordOption {
	return func(r *Record) {
		if c != nil {
			r.clock = c
		}
	}
}

// NewRecord creates a Record with no phones and no birthday.
func NewRecord(name string, opts ...RecordOption) (*Record, error) {
	if name == "" {
		return nil, newValidationError(FieldName, name, config.ErrMsgNameEmpty)
	}
	r := &Record{name: name, clock: RealClock{}}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Name returns the contact name, which is also its AddressBook key.
func (r *Record) Name() string {
	return r.name
}

// Rename replaces the name. A Record already stored in an AddressBook
// keeps its old key until it is added again.
func (r *Record) Rename(name string) error {
	if name == "" {
		return newValidationError(FieldName, name, config.ErrMsgNameEmpty)
	}
	r.name = name
	return nil
}

// Phones returns a copy of the stored phones in insertion order.
func (r *Record) Phones() []Phone {
	return slices.Clone(r.phones)
}

// AddPhone validates value and appends it. Duplicates are allowed.
func (r *Record) AddPhone(value string) error {
	p, err := ParsePhone(value)
	if err != nil {
		return err
	}
	r.phones = append(r.phones, p)
	return nil
}

// FindPhone returns the first phone equal to value.
func (r *Record) FindPhone(value string) (Phone, bool) {
	if i := r.indexPhone(value); i >= 0 {
		return r.phones[i], true
	}
	return "", false
}

// RemovePhone removes the first phone equal to value.
func (r *Record) RemovePhone(value string) error {
	i := r.indexPhone(value)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrPhoneNotFound, value)
	}
	r.phones = slices.Delete(r.phones, i, i+1)
	return nil
}

// EditPhone replaces the first phone equal to old with newValue, keeping its position.
// newValue is validated before old is looked up.
func (r *Record) EditPhone(old, newValue string) error {
	p, err := ParsePhone(newValue)
	if err != nil {
		return err
	}
	i := r.indexPhone(old)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrPhoneNotFound, old)
	}
	r.phones[i] = p
	return nil
}

func (r *Record) indexPhone(value string) int {
	return slices.IndexFunc(r.phones, func(p Phone) bool { return string(p) == value })
}

// Birthday returns the stored birthday, if any.
func (r *Record) Birthday() (Birthday, bool) {
	return r.birthday, !r.birthday.IsZero()
}

// SetBirthday validates value and replaces the stored birthday.
// On failure the previous birthday is kept.
func (r *Record) SetBirthday(value string) error {
	b, err := ParseBirthday(value, r.clock.Now())
	if err != nil {
		return err
	}
	r.birthday = b
	return nil
}

// ClearBirthday removes the stored birthday.
func (r *Record) ClearBirthday() {
	r.birthday = Birthday{}
}

// DaysToBirthday returns the number of whole days until the next birthday.
// On the birthday itself the count runs to next year's occurrence.
func (r *Record) DaysToBirthday() (int, error) {
	if r.birthday.IsZero() {
		return 0, fmt.Errorf("%w: %q", ErrNoBirthday, r.name)
	}
	return r.birthday.DaysUntil(r.clock.Now()), nil
}

func (r *Record) String() string {
	values := make([]string, len(r.phones))
	for i, p := range r.phones {
		values[i] = string(p)
	}
	return fmt.Sprintf(config.FormatRecord, r.name, strings.Join(values, config.PhoneJoinSeparator))
}

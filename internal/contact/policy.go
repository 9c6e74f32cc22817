package contact

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tartampluch/go-contactbook/internal/config"
)

// Policy decides what record-level helpers do with a validation failure.
// Validators and Record methods always return their errors; Policy is the
// caller's explicit choice on top of them.
type Policy int

const (
	// Strict returns validation failures to the caller.
	Strict Policy = iota
	// Lenient logs validation failures and drops the offending value.
	Lenient
)

// ParsePolicy maps a settings name ("strict", "lenient") to a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case config.PolicyNameStrict:
		return Strict, nil
	case config.PolicyNameLenient:
		return Lenient, nil
	default:
		return Strict, fmt.Errorf("%s: %q", config.ErrMsgPolicy, name)
	}
}

func (p Policy) String() string {
	if p == Lenient {
		return config.PolicyNameLenient
	}
	return config.PolicyNameStrict
}

// Build creates a record and applies birthday and phones under p.
// An empty birthday means none. An invalid name is always an error.
func (p Policy) Build(name, birthday string, phones []string, opts ...RecordOption) (*Record, error) {
	r, err := NewRecord(name, opts...)
	if err != nil {
		return nil, err
	}
	if birthday != "" {
		if err := p.SetBirthday(r, birthday); err != nil {
			return nil, err
		}
	}
	for _, ph := range phones {
		if err := p.AddPhone(r, ph); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// AddPhone adds value to r under p.
func (p Policy) AddPhone(r *Record, value string) error {
	return p.handle(r, r.AddPhone(value))
}

// SetBirthday sets the birthday of r under p. Under Lenient an invalid value
// clears the stored birthday.
func (p Policy) SetBirthday(r *Record, value string) error {
	err := r.SetBirthday(value)
	if err != nil && p == Lenient {
		r.ClearBirthday()
	}
	return p.handle(r, err)
}

func (p Policy) handle(r *Record, err error) error {
	if err == nil || p == Strict {
		return err
	}

	// Only validation failures are swallowed.
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	slog.Warn(config.MsgIgnoredError,
		config.LogKeyComponent, config.CompContact,
		config.LogKeyName, r.Name(),
		config.LogKeyField, verr.Field,
		config.LogKeyValue, verr.Value,
		config.LogKeyError, verr.Msg,
	)
	return nil
}

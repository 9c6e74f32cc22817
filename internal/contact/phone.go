package contact

import "github.com/tartampluch/go-contactbook/internal/config"

// Phone is a validated phone number of exactly ten decimal digits.
type Phone string

// ParsePhone validates value and returns it unchanged as a Phone.
func ParsePhone(value string) (Phone, error) {
	if len(value) != config.PhoneDigits {
		return "", newValidationError(FieldPhone, value, config.ErrMsgPhone)
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return "", newValidationError(FieldPhone, value, config.ErrMsgPhone)
		}
	}
	return Phone(value), nil
}

func (p Phone) String() string {
	return string(p)
}

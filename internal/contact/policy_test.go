package contact_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-contactbook/internal/contact"
)

func TestParsePolicy(t *testing.T) {
	p, err := contact.ParsePolicy("strict")
	require.NoError(t, err)
	assert.Equal(t, contact.Strict, p)

	p, err = contact.ParsePolicy("lenient")
	require.NoError(t, err)
	assert.Equal(t, contact.Lenient, p)
	assert.Equal(t, "lenient", p.String())

	_, err = contact.ParsePolicy("sloppy")
	assert.Error(t, err)
}

func TestPolicy_Build(t *testing.T) {
	clock := contact.WithClock(contact.FixedClock(refNow))

	t.Run("Strict propagates a bad birthday", func(t *testing.T) {
		_, err := contact.Strict.Build("John", "2099-01-01", nil, clock)
		assert.ErrorIs(t, err, contact.ErrValidation)
	})

	t.Run("Strict propagates a bad phone", func(t *testing.T) {
		_, err := contact.Strict.Build("John", "", []string{"1234567890", "12"}, clock)
		assert.ErrorIs(t, err, contact.ErrValidation)
	})

	t.Run("Lenient degrades a bad birthday to none", func(t *testing.T) {
		r, err := contact.Lenient.Build("John", "2099-01-01", []string{"1234567890"}, clock)
		require.NoError(t, err)
		_, ok := r.Birthday()
		assert.False(t, ok)
		assert.Equal(t, []contact.Phone{"1234567890"}, r.Phones())
	})

	t.Run("Lenient drops bad phones", func(t *testing.T) {
		r, err := contact.Lenient.Build("John", "1990-01-01", []string{"12", "1234567890"}, clock)
		require.NoError(t, err)
		assert.Equal(t, []contact.Phone{"1234567890"}, r.Phones())
		_, ok := r.Birthday()
		assert.True(t, ok)
	})

	t.Run("Empty name is always an error", func(t *testing.T) {
		_, err := contact.Lenient.Build("", "", nil)
		assert.ErrorIs(t, err, contact.ErrValidation)
	})
}

func TestPolicy_SetBirthday(t *testing.T) {
	r := newRecord(t, "John")
	require.NoError(t, r.SetBirthday("1990-01-01"))

	assert.Error(t, contact.Strict.SetBirthday(r, "bad"))
	_, ok := r.Birthday()
	assert.True(t, ok, "Strict keeps the previous birthday")

	assert.NoError(t, contact.Lenient.SetBirthday(r, "bad"))
	_, ok = r.Birthday()
	assert.False(t, ok, "Lenient clears the birthday on failure")
}

func TestPolicy_AddPhone(t *testing.T) {
	r := newRecord(t, "John")
	assert.Error(t, contact.Strict.AddPhone(r, "bad"))
	assert.NoError(t, contact.Lenient.AddPhone(r, "bad"))
	assert.Empty(t, r.Phones())
	assert.NoError(t, contact.Lenient.AddPhone(r, "1234567890"))
	assert.Len(t, r.Phones(), 1)
}

package credentials_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-contactbook/internal/config"
	"github.com/tartampluch/go-contactbook/internal/credentials"
	"github.com/zalando/go-keyring"
)

func TestStore_RoundTrip(t *testing.T) {
	keyring.MockInit()
	store := credentials.NewStore()

	require.NoError(t, store.SetPassword("alice", "s3cret"))
	pass, err := store.Password("alice")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pass)

	require.NoError(t, store.SetPassword("alice", ""), "Empty password deletes the entry")
	pass, err = store.Password("alice")
	require.NoError(t, err)
	assert.Empty(t, pass)
}

func TestStore_MissingEntry(t *testing.T) {
	keyring.MockInit()
	pass, err := credentials.NewStore().Password("nobody")
	require.NoError(t, err)
	assert.Empty(t, pass)

	pass, err = credentials.NewStore().Password("")
	require.NoError(t, err)
	assert.Empty(t, pass)
}

func TestStore_EmptyUser(t *testing.T) {
	keyring.MockInit()
	assert.EqualError(t, credentials.NewStore().SetPassword("", "x"), config.ErrKeyringUserEmpty)
}

func TestStore_KeyringFailure(t *testing.T) {
	boom := errors.New("keyring locked")
	keyring.MockInitWithError(boom)

	_, err := credentials.NewStore().Password("alice")
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, config.ErrKeyringGet)

	err = credentials.NewStore().SetPassword("alice", "x")
	assert.ErrorIs(t, err, boom)
}

// Package credentials keeps the remote vCard password in the OS keyring.
package credentials

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tartampluch/go-contactbook/internal/config"
	"github.com/zalando/go-keyring"
)

// Store reads and writes passwords under one keyring service.
type Store struct {
	Service string
}

// NewStore returns a Store bound to the application's keyring service.
func NewStore() *Store {
	return &Store{Service: config.KeyringService}
}

// Password returns the stored password for user. A missing entry yields an
// empty password and no error so anonymous sources keep working.
func (s *Store) Password(user string) (string, error) {
	if user == "" {
		return "", nil
	}
	pass, err := keyring.Get(s.Service, user)
	if errors.Is(err, keyring.ErrNotFound) {
		slog.Debug(config.MsgPassFail,
			config.LogKeyComponent, config.CompKeyring,
			config.LogKeyUser, user)
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrKeyringGet, err)
	}
	return pass, nil
}

// SetPassword stores pass for user. An empty pass removes the entry.
func (s *Store) SetPassword(user, pass string) error {
	if user == "" {
		return errors.New(config.ErrKeyringUserEmpty)
	}
	if pass == "" {
		if err := keyring.Delete(s.Service, user); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("%s: %w", config.ErrKeyringSet, err)
		}
		return nil
	}
	if err := keyring.Set(s.Service, user, pass); err != nil {
		return fmt.Errorf("%s: %w", config.ErrKeyringSet, err)
	}
	return nil
}

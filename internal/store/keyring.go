package store

import (
	"errors"

	"github.com/tartampluch/go-lifeweeks/internal/config"
	"github.com/zalando/go-keyring"
)

// KeyringStore keeps the birth date in the OS secret store (Keychain, Secret Service, WinCred).
type KeyringStore struct {
	service string
}

// NewKeyringStore uses service as the keyring service name and
// config.StorageKeyBirthDate as the account.
func NewKeyringStore(service string) *KeyringStore {
	return &KeyringStore{service: service}
}

func (s *KeyringStore) Load() (string, error) {
	v, err := keyring.Get(s.service, config.StorageKeyBirthDate)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	return v, err
}

func (s *KeyringStore) Save(value string) error {
	if value == "" {
		return errEmptyValue
	}
	return keyring.Set(s.service, config.StorageKeyBirthDate, value)
}

func (s *KeyringStore) Clear() error {
	err := keyring.Delete(s.service, config.StorageKeyBirthDate)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

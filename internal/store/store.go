// Package store persists the birth date under a single fixed key.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"github.com/tartampluch/go-lifeweeks/internal/config"
	"github.com/tartampluch/go-lifeweeks/internal/engine"
)

// errEmptyValue guards against persisting an empty slot, which Load would report as absent.
var errEmptyValue = errors.New(config.ErrDateEmpty)

// Store is a key-value slot holding the birth date as an ISO string.
// Load returns "" and a nil error when nothing is stored.
type Store interface {
	Load() (string, error)
	Save(value string) error
	Clear() error
}

// New returns the backend registered under name.
// Unknown names fall back to the preferences backend.
func New(backend string, prefs fyne.Preferences) Store {
	log := slog.With(config.LogKeyComponent, config.CompStore)

	var s Store
	switch backend {
	case config.StoreBackendKeyring:
		s = NewKeyringStore(config.KeyringService)
	case config.StoreBackendMemory:
		s = NewMemoryStore()
	case config.StoreBackendPreferences:
		s = NewPreferencesStore(prefs)
	default:
		log.Warn(config.MsgStoreFallback, config.LogKeyBackend, backend)
		backend = config.StoreBackendPreferences
		s = NewPreferencesStore(prefs)
	}

	log.Debug(config.MsgStoreSelected, config.LogKeyBackend, backend)
	return s
}

// Restore reads the stored birth date once.
// Any failure is logged and reported as "no birth date" so startup never blocks on bad data.
func Restore(s Store, loc *time.Location) (time.Time, bool) {
	log := slog.With(config.LogKeyComponent, config.CompStore)

	raw, err := s.Load()
	if err != nil {
		log.Warn(config.ErrStoreLoad, config.LogKeyError, err)
		return time.Time{}, false
	}
	if raw == "" {
		log.Info(config.MsgBirthDateAbsent)
		return time.Time{}, false
	}

	birth, err := engine.ParseBirthDate(raw, loc)
	if err != nil {
		log.Warn(config.MsgBirthDateInvalid,
			config.LogKeyValue, raw,
			config.LogKeyError, err)
		return time.Time{}, false
	}

	log.Info(config.MsgBirthDateRestored, config.LogKeyBirthDate, raw)
	return birth, true
}

// Persist writes the ISO form of birth.
func Persist(s Store, birth time.Time) error {
	if err := s.Save(engine.FormatBirthDate(birth)); err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreSave, err)
	}
	return nil
}

// Migrate copies the stored value from one backend to another and clears the source.
// Nothing happens when the source is empty.
func Migrate(from, to Store) error {
	raw, err := from.Load()
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreLoad, err)
	}
	if raw == "" {
		return nil
	}
	if err := to.Save(raw); err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreSave, err)
	}
	if err := from.Clear(); err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreClear, err)
	}
	return nil
}

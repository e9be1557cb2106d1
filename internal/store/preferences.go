package store

import (
	"fyne.io/fyne/v2"
	"github.com/tartampluch/go-lifeweeks/internal/config"
)

// PreferencesStore keeps the birth date in the fyne application preferences.
type PreferencesStore struct {
	prefs fyne.Preferences
}

// NewPreferencesStore wraps prefs.
func NewPreferencesStore(prefs fyne.Preferences) *PreferencesStore {
	return &PreferencesStore{prefs: prefs}
}

func (s *PreferencesStore) Load() (string, error) {
	return s.prefs.String(config.StorageKeyBirthDate), nil
}

func (s *PreferencesStore) Save(value string) error {
	if value == "" {
		return errEmptyValue
	}
	s.prefs.SetString(config.StorageKeyBirthDate, value)
	return nil
}

func (s *PreferencesStore) Clear() error {
	s.prefs.RemoveValue(config.StorageKeyBirthDate)
	return nil
}

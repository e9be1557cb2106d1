package ui

import (
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-lifeweeks/internal/config"
	"github.com/tartampluch/go-lifeweeks/internal/engine"
)

// RestrictedEntry is an Entry that drops typed runes its filter rejects.
// Pasted text bypasses TypedRune, so callers that need strictness also set a Validator.
type RestrictedEntry struct {
	widget.Entry
	allow    func(r rune) bool
	maxRunes int // 0 means unlimited
}

func newRestrictedEntry(allow func(r rune) bool, maxRunes int) *RestrictedEntry {
	e := &RestrictedEntry{allow: allow, maxRunes: maxRunes}
	e.ExtendBaseWidget(e)
	return e
}

// NewNumericalEntry accepts digits only.
func NewNumericalEntry() *RestrictedEntry {
	return newRestrictedEntry(isDigit, 0)
}

// NewDateEntry accepts a YYYY-MM-DD birth date: digits and dashes, ten characters at most.
// Its Validator uses the same parser as the engine.
func NewDateEntry() *RestrictedEntry {
	e := newRestrictedEntry(func(r rune) bool { return isDigit(r) || r == '-' }, len(config.DateFormatISO))
	e.PlaceHolder = config.PlaceholderDate
	e.Validator = func(s string) error {
		_, err := engine.ParseBirthDate(s, nil)
		return err
	}
	return e
}

// TypedRune intercepts text input events.
func (e *RestrictedEntry) TypedRune(r rune) {
	if !e.allow(r) {
		return
	}
	if e.maxRunes > 0 && len([]rune(e.Text)) >= e.maxRunes {
		return
	}
	e.Entry.TypedRune(r)
}

// Keyboard requests the numeric keypad on mobile devices.
func (e *RestrictedEntry) Keyboard() mobile.KeyboardType {
	return mobile.NumberKeyboard
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

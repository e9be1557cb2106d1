package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-lifeweeks/internal/config"
	"github.com/tartampluch/go-lifeweeks/internal/engine"
	"github.com/tartampluch/go-lifeweeks/internal/server"
	"github.com/tartampluch/go-lifeweeks/internal/store"
	"github.com/zalando/go-keyring"
	"golang.org/x/text/message"
)

// LifeWeeksApp encapsulates the UI state, preferences, and background logic.
type LifeWeeksApp struct {
	App         fyne.App
	Window      fyne.Window
	Preferences fyne.Preferences
	I18nBundle  *i18n.Bundle
	Localizer   *i18n.Localizer
	Printer     *message.Printer // Locale-aware number formatting
	Ctx         context.Context

	Server   *server.LifeServer
	Fetcher  engine.VCardFetcher
	Clock    engine.Clock   // Injected clock for testability
	Location *time.Location // Location of birth-date midnights

	Tray desktop.App
	Menu *fyne.Menu

	TrayStatusItem   *fyne.MenuItem
	TrayShowItem     *fyne.MenuItem
	TrayImportItem   *fyne.MenuItem
	TraySettingsItem *fyne.MenuItem

	SupportedLanguages []string

	storeMu sync.RWMutex
	store   store.Store

	main           *mainWidgets
	settingsWindow fyne.Window

	// lifeMu serialises birth-date changes from the form, the server hooks and
	// the settings window. workerMu only guards the worker handles.
	lifeMu sync.Mutex

	// Countdown worker lifecycle
	workerMu     sync.Mutex
	workerCancel context.CancelFunc
	workerDone   chan struct{}
}

// NewLifeWeeksApp constructs the application and wires dependencies.
// The server hooks are bound so that HTTP submissions follow the same path as the form.
func NewLifeWeeksApp(a fyne.App, ctx context.Context, srv *server.LifeServer, fetcher engine.VCardFetcher, st store.Store) *LifeWeeksApp {
	a.SetIcon(theme.HistoryIcon())

	app := &LifeWeeksApp{
		App:                a,
		Preferences:        a.Preferences(),
		Ctx:                ctx,
		Server:             srv,
		Fetcher:            fetcher,
		Clock:              engine.RealClock{},
		Location:           time.Local,
		SupportedLanguages: config.SupportedLanguages,
		store:              st,
	}

	srv.OnSubmit = app.applyBirthDate
	srv.OnClear = app.ClearBirthDate
	return app
}

// Run launches the application services and the main UI loop.
func (app *LifeWeeksApp) Run() {
	app.SetupI18n()
	app.buildMainWindow()

	go func() {
		if err := app.Server.Start(app.Ctx); err != nil {
			slog.Error(config.ErrServerStartup,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)

			app.App.SendNotification(fyne.NewNotification(
				config.TitleStartupError,
				fmt.Sprintf(config.MsgPortBusy, app.Server.Port)))
		}
	}()

	if desk, ok := app.App.(desktop.App); ok {
		app.Tray = desk
		app.Tray.SetSystemTrayIcon(app.App.Icon())
		app.setupTrayMenu()
		// With a tray, closing the window only hides it.
		app.Window.SetCloseIntercept(app.Window.Hide)
	} else {
		slog.Warn(config.ErrTrayNotSupported,
			config.LogKeyComponent, config.CompUI)
	}

	go func() {
		<-app.Ctx.Done()
		app.stopCountdown()
	}()

	app.restoreBirthDate()
	app.Window.Show()
	app.App.Run()
}

// Store returns the active birth-date store.
func (app *LifeWeeksApp) Store() store.Store {
	app.storeMu.RLock()
	defer app.storeMu.RUnlock()
	return app.store
}

func (app *LifeWeeksApp) setStore(s store.Store) {
	app.storeMu.Lock()
	defer app.storeMu.Unlock()
	app.store = s
}

// BirthDate returns the birth date currently displayed, if any.
func (app *LifeWeeksApp) BirthDate() (time.Time, bool) {
	return app.Server.BirthDate()
}

// setupTrayMenu constructs the system tray menu.
func (app *LifeWeeksApp) setupTrayMenu() {
	app.TrayStatusItem = fyne.NewMenuItem(app.msgOr(config.TKeyTrayIdle, nil, config.FallbackTrayLabel), func() {
		app.showMainWindow()
	})

	app.TrayShowItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuShow), func() {
		app.showMainWindow()
	})

	app.TrayImportItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuImport), func() {
		go func() { _ = app.performImport() }()
	})

	app.TraySettingsItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuSettings), func() {
		app.ShowSettingsWindow()
	})

	app.Menu = fyne.NewMenu(config.AppName,
		app.TrayStatusItem,
		fyne.NewMenuItemSeparator(),
		app.TrayShowItem,
		app.TrayImportItem,
		app.TraySettingsItem,
	)

	if app.Tray != nil {
		app.Tray.SetSystemTrayMenu(app.Menu)
	}
}

// RefreshTrayMenu updates localized labels in the tray menu.
func (app *LifeWeeksApp) RefreshTrayMenu() {
	if app.Menu == nil {
		return
	}
	app.TrayShowItem.Label = app.GetMsg(config.TKeyMenuShow)
	app.TrayImportItem.Label = app.GetMsg(config.TKeyMenuImport)
	app.TraySettingsItem.Label = app.GetMsg(config.TKeyMenuSettings)
	if _, ok := app.BirthDate(); !ok {
		app.TrayStatusItem.Label = app.msgOr(config.TKeyTrayIdle, nil, config.FallbackTrayLabel)
	}
	app.Menu.Refresh()
}

// updateTrayStatus shows the countdown in the tray. An empty countdown means no birth date.
func (app *LifeWeeksApp) updateTrayStatus(countdown string) {
	if app.Menu == nil || app.TrayStatusItem == nil {
		return
	}

	if countdown == "" {
		app.TrayStatusItem.Label = app.msgOr(config.TKeyTrayIdle, nil, config.FallbackTrayLabel)
	} else {
		app.TrayStatusItem.Label = app.msgOr(config.TKeyTrayCountdown,
			map[string]any{"Countdown": countdown},
			fmt.Sprintf(config.FallbackTrayCount, countdown))
	}
	app.Menu.Refresh()
}

// -----------------------------------------------------------------------------
// Birth date lifecycle
// -----------------------------------------------------------------------------

// restoreBirthDate reads the stored birth date once at startup.
func (app *LifeWeeksApp) restoreBirthDate() {
	birth, ok := store.Restore(app.Store(), app.location())
	if !ok {
		app.Server.ClearCalendar()
		app.renderEmpty()
		return
	}
	app.lifeMu.Lock()
	defer app.lifeMu.Unlock()
	app.activate(birth)
}

// SubmitBirthDate validates the raw form value and applies it.
// Empty or malformed values never reach the engine.
func (app *LifeWeeksApp) SubmitBirthDate(value string) error {
	birth, err := engine.ParseBirthDate(value, app.location())
	if err != nil {
		slog.Info(config.MsgSubmitRejected,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyValue, value,
			config.LogKeyError, err)
		return err
	}
	return app.applyBirthDate(birth)
}

// applyBirthDate persists birth and refreshes every view of it.
// It is also the server's OnSubmit hook and may run off the UI goroutine.
func (app *LifeWeeksApp) applyBirthDate(birth time.Time) error {
	app.lifeMu.Lock()
	defer app.lifeMu.Unlock()

	if err := store.Persist(app.Store(), birth); err != nil {
		return err
	}
	app.activate(birth)
	return nil
}

// activate makes birth the current birth date without persisting it.
// The caller holds lifeMu.
func (app *LifeWeeksApp) activate(birth time.Time) {
	app.stopCountdown()
	app.Server.SetBirthDate(&birth)
	app.publishCalendar(birth)

	now := app.Clock.Now()
	app.renderLife(birth, now)
	app.startCountdown(birth)

	slog.Info(config.MsgBirthDateSet,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyBirthDate, engine.FormatBirthDate(birth),
		config.LogKeyWeeksLived, engine.WeeksLived(birth, now),
	)
}

// ClearBirthDate forgets the birth date everywhere. It is also the server's OnClear hook.
func (app *LifeWeeksApp) ClearBirthDate() error {
	app.lifeMu.Lock()
	defer app.lifeMu.Unlock()

	app.stopCountdown()

	if err := app.Store().Clear(); err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreClear, err)
	}
	app.Server.SetBirthDate(nil)
	app.Server.ClearCalendar()
	app.renderEmpty()

	slog.Info(config.MsgBirthDateCleared, config.LogKeyComponent, config.CompUI)
	return nil
}

// publishCalendar regenerates the milestone feed served over HTTP.
func (app *LifeWeeksApp) publishCalendar(birth time.Time) {
	builder := &engine.CalendarBuilder{
		Clock:           app.Clock,
		ReminderTrigger: app.reminderTrigger(),
		FormatSummary:   app.buildSummaryFormatter(),
	}

	data, err := builder.Build(birth)
	if err != nil {
		slog.Error(config.ErrICalEncode,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyError, err)
		return
	}
	app.Server.Update(data)
}

func (app *LifeWeeksApp) location() *time.Location {
	if app.Location == nil {
		return time.Local
	}
	return app.Location
}

// -----------------------------------------------------------------------------
// vCard import
// -----------------------------------------------------------------------------

// performImport reads the birth date from the configured vCard source and applies it.
func (app *LifeWeeksApp) performImport() error {
	im := &engine.Importer{Fetcher: app.Fetcher, Location: app.location()}

	res, err := im.Import(app.Ctx, app.loadSourceConfig())
	if err == nil {
		err = app.applyBirthDate(res.BirthDate)
	}
	if err != nil {
		slog.Error(config.MsgImportFailed,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyError, err)
		app.App.SendNotification(fyne.NewNotification(config.TitleImportError, app.GetMsg(config.TKeyNotifImportErr)))
		return err
	}

	app.App.SendNotification(fyne.NewNotification(config.AppName, app.GetMsgData(config.TKeyNotifImportOK, map[string]any{
		"Name": res.Name,
		"Date": app.formatDate(res.BirthDate),
	})))
	return nil
}

// loadSourceConfig assembles the importer configuration from preferences and the keyring.
func (app *LifeWeeksApp) loadSourceConfig() engine.SourceConfig {
	cfg := engine.SourceConfig{
		Mode:      app.Preferences.StringWithFallback(config.PrefSourceMode, config.SourceModeWeb),
		LocalPath: app.Preferences.String(config.PrefLocalPath),
		WebURL:    app.Preferences.String(config.PrefCardDAVURL),
		WebUser:   app.Preferences.String(config.PrefUsername),
		Name:      app.Preferences.String(config.PrefContactName),
	}

	if cfg.WebUser != "" {
		if p, err := keyring.Get(config.KeyringService, cfg.WebUser); err == nil {
			cfg.WebPass = p
		} else {
			slog.Debug(config.MsgPassFail,
				config.LogKeyUser, cfg.WebUser,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)
		}
	}

	return cfg
}

// reminderTrigger converts the reminder preferences into an ISO 8601 duration.
// Hours and minutes need the time designator ("-PT2H"); days do not ("-P1D").
func (app *LifeWeeksApp) reminderTrigger() string {
	if !app.Preferences.Bool(config.PrefReminderEnabled) {
		return ""
	}
	val := app.Preferences.IntWithFallback(config.PrefReminderValue, config.DefaultReminderValue)
	if val <= 0 {
		return ""
	}
	unit := app.Preferences.StringWithFallback(config.PrefReminderUnit, config.UnitDays)
	dir := app.Preferences.StringWithFallback(config.PrefReminderDir, config.DirBefore)

	prefix := config.ISOPeriodPrefix
	if dir == config.DirBefore {
		prefix = config.ISONegativePrefix
	}

	switch unit {
	case config.UnitHours:
		return fmt.Sprintf("%s%s%d%s", prefix, config.ISOTimeSeparator, val, config.ISOHour)
	case config.UnitMinutes:
		return fmt.Sprintf("%s%s%d%s", prefix, config.ISOTimeSeparator, val, config.ISOMinute)
	default:
		return fmt.Sprintf("%s%d%s", prefix, val, config.ISODay)
	}
}

// buildSummaryFormatter returns a closure that localizes milestone titles.
func (app *LifeWeeksApp) buildSummaryFormatter() func(kind string, week int) string {
	return func(kind string, week int) string {
		data := map[string]any{"Week": week, "Years": config.LifeExpectancyYears}

		switch kind {
		case config.MilestoneBirth:
			return app.msgOr(config.TKeyEvtBirth, data, config.FallbackEvtBirth)
		case config.MilestoneHalfway:
			return app.msgOr(config.TKeyEvtHalfway, data, fmt.Sprintf(config.FallbackEvtHalfway, week))
		case config.MilestoneCurrent:
			return app.msgOr(config.TKeyEvtCurrent, data, fmt.Sprintf(config.FallbackEvtCurrent, week))
		case config.MilestoneEnd:
			return app.msgOr(config.TKeyEvtEnd, data, fmt.Sprintf(config.FallbackEvtEnd, config.LifeExpectancyYears))
		default:
			return app.msgOr(config.TKeyEvtWeek, data, fmt.Sprintf(config.FallbackEvtWeek, week))
		}
	}
}

// dateErrorMessage maps a submission error to a localized, user-facing message.
func (app *LifeWeeksApp) dateErrorMessage(err error) string {
	if errors.Is(err, engine.ErrEmptyBirthDate) {
		return app.msgOr(config.TKeyErrDateReq, nil, config.FallbackDateMissing)
	}
	if errors.Is(err, engine.ErrInvalidBirthDate) {
		return app.msgOr(config.TKeyErrDateFormat, nil, config.FallbackDateFormat)
	}
	return err.Error()
}

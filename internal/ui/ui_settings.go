package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-lifeweeks/internal/config"
	"github.com/tartampluch/go-lifeweeks/internal/store"
	"github.com/zalando/go-keyring"
)

// settingsWidgets is the form state read back by saveSettings.
type settingsWidgets struct {
	langSelect  *widget.Select
	entryPort   *RestrictedEntry
	storeSelect *widget.Select

	modeSelect *widget.Select
	urlEntry   *widget.Entry
	userEntry  *widget.Entry
	passEntry  *widget.Entry
	pathEntry  *widget.Entry
	nameEntry  *widget.Entry

	checkReminder *widget.Check
	entryRemValue *RestrictedEntry
	selectRemUnit *widget.Select
	selectRemDir  *widget.Select
}

// choice pairs a stored preference value with the translation key of its label.
// The first choice of a list is the fallback.
type choice struct {
	value string
	key   string
}

var (
	storeChoices = []choice{
		{config.StoreBackendPreferences, config.TKeyStorePrefs},
		{config.StoreBackendKeyring, config.TKeyStoreKeyring},
		{config.StoreBackendMemory, config.TKeyStoreMemory},
	}
	sourceChoices = []choice{
		{config.SourceModeWeb, config.TKeyModeCardDAV},
		{config.SourceModeLocal, config.TKeyModeLocal},
	}
	unitChoices = []choice{
		{config.UnitDays, config.TKeyUnitDays},
		{config.UnitHours, config.TKeyUnitHours},
		{config.UnitMinutes, config.TKeyUnitMinutes},
	}
	dirChoices = []choice{
		{config.DirBefore, config.TKeyDirBefore},
		{config.DirAfter, config.TKeyDirAfter},
	}
)

// newChoiceSelect lists the translated labels of choices and selects the one stored under pref.
func (app *LifeWeeksApp) newChoiceSelect(choices []choice, pref string) *widget.Select {
	labels := make([]string, len(choices))
	for i, c := range choices {
		labels[i] = app.GetMsg(c.key)
	}
	sel := widget.NewSelect(labels, nil)

	stored := app.Preferences.StringWithFallback(pref, choices[0].value)
	sel.SetSelectedIndex(0)
	for i, c := range choices {
		if c.value == stored {
			sel.SetSelectedIndex(i)
		}
	}
	return sel
}

// choiceValue maps the selected label back to its stored value.
func choiceValue(choices []choice, sel *widget.Select) string {
	if i := sel.SelectedIndex(); i >= 0 && i < len(choices) {
		return choices[i].value
	}
	return choices[0].value
}

// validatePort checks that s is a usable TCP port.
func (app *LifeWeeksApp) validatePort(s string) error {
	if s == "" {
		return errors.New(app.GetMsg(config.TKeyErrPortReq))
	}
	port, err := strconv.Atoi(s)
	if err != nil {
		return errors.New(app.GetMsg(config.TKeyErrPortNum))
	}
	if port < config.MinPort || port > config.MaxPort {
		return errors.New(app.GetMsg(config.TKeyErrPortRange))
	}
	return nil
}

// calendarURL is the local subscription address of the milestone feed.
func (app *LifeWeeksApp) calendarURL() string {
	port := app.Preferences.StringWithFallback(config.PrefServerPort, config.DefaultPort)
	return config.SchemeHTTP + "://" + config.LocalhostBindAddr + config.AddrSeparator + port + config.RouteCalendar
}

// ShowSettingsWindow displays the configuration dialog allowing users to manage settings.
func (app *LifeWeeksApp) ShowSettingsWindow() {
	if app.settingsWindow != nil {
		slog.Debug(config.MsgSettingsFocus, config.LogKeyComponent, config.CompUISet)
		app.settingsWindow.RequestFocus()
		return
	}

	slog.Info(config.MsgSettingsOpen, config.LogKeyComponent, config.CompUISet)
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinSettings))
	app.settingsWindow = w

	sw := app.newSettingsWidgets()

	// refreshLayout triggers a window resize based on content visibility.
	var refreshLayout func()
	onLayoutChange := func() {
		if refreshLayout != nil {
			refreshLayout()
		}
	}

	generalCard := app.buildGeneralCard(sw)
	sourceCard := app.buildSourceCard(w, sw, onLayoutChange)
	calendarCard := app.buildCalendarCard(sw, onLayoutChange)

	// --- Actions ---
	saveAction := func() {
		// Only the Port field has a strict requirement that blocks saving if invalid.
		if err := sw.entryPort.Validate(); err != nil {
			dialog.ShowError(err, w)
			return
		}
		if err := app.saveSettings(sw); err != nil {
			dialog.ShowError(err, w)
			return
		}
		w.Close()
	}

	btnSave := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSave), theme.DocumentSaveIcon(), saveAction)
	btnSave.Importance = widget.HighImportance
	btnCancel := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCancel), theme.CancelIcon(), func() { w.Close() })

	// --- Footer ---
	footerLabel := widget.NewLabel(fmt.Sprintf(app.GetMsg(config.TKeyLblFooter), config.Version))
	footerLabel.Alignment = fyne.TextAlignCenter
	footerLabel.TextStyle = fyne.TextStyle{Italic: true}

	paddedContent := container.NewPadded(container.NewVBox(
		generalCard,
		sourceCard,
		calendarCard,
		container.NewGridWithColumns(config.LayoutColumnsDouble, btnCancel, btnSave),
		footerLabel,
	))

	refreshLayout = func() {
		paddedContent.Refresh()
		minSize := paddedContent.MinSize()
		w.Resize(fyne.NewSize(config.SettingsWindowWidth, minSize.Height))
	}

	w.SetContent(paddedContent)
	w.SetFixedSize(true)
	w.SetOnClosed(func() { app.settingsWindow = nil })

	refreshLayout()
	w.Show()
}

// newSettingsWidgets creates the inputs pre-filled from preferences and the keyring.
func (app *LifeWeeksApp) newSettingsWidgets() *settingsWidgets {
	prefs := app.Preferences
	sw := &settingsWidgets{
		langSelect:  widget.NewSelect(app.SupportedLanguages, nil),
		entryPort:   NewNumericalEntry(),
		storeSelect: app.newChoiceSelect(storeChoices, config.PrefStoreBackend),

		modeSelect: app.newChoiceSelect(sourceChoices, config.PrefSourceMode),
		urlEntry:   widget.NewEntry(),
		userEntry:  widget.NewEntry(),
		passEntry:  widget.NewPasswordEntry(),
		pathEntry:  widget.NewEntry(),
		nameEntry:  widget.NewEntry(),

		checkReminder: widget.NewCheck(app.GetMsg(config.TKeyLblEnableRem), nil),
		entryRemValue: NewNumericalEntry(),
		selectRemUnit: app.newChoiceSelect(unitChoices, config.PrefReminderUnit),
		selectRemDir:  app.newChoiceSelect(dirChoices, config.PrefReminderDir),
	}

	sw.langSelect.SetSelected(prefs.StringWithFallback(config.PrefLanguage, config.DefaultLanguage))
	sw.entryPort.SetText(prefs.StringWithFallback(config.PrefServerPort, config.DefaultPort))
	sw.entryPort.Validator = app.validatePort

	sw.urlEntry.PlaceHolder = config.PlaceholderURL
	sw.urlEntry.SetText(prefs.String(config.PrefCardDAVURL))
	sw.userEntry.SetText(prefs.String(config.PrefUsername))
	sw.pathEntry.SetText(prefs.String(config.PrefLocalPath))
	sw.nameEntry.SetText(prefs.String(config.PrefContactName))
	if user := sw.userEntry.Text; user != "" {
		if secret, err := keyring.Get(config.KeyringService, user); err == nil {
			sw.passEntry.SetText(secret)
		}
	}

	sw.checkReminder.SetChecked(prefs.Bool(config.PrefReminderEnabled))
	sw.entryRemValue.SetText(strconv.Itoa(prefs.IntWithFallback(config.PrefReminderValue, config.DefaultReminderValue)))

	return sw
}

// buildGeneralCard groups language, port and storage.
func (app *LifeWeeksApp) buildGeneralCard(sw *settingsWidgets) *widget.Card {
	itemLang := widget.NewFormItem(app.GetMsg(config.TKeyLblLanguage), sw.langSelect)
	itemLang.HintText = app.GetMsg(config.TKeyHelpLanguage)

	itemPort := widget.NewFormItem(app.GetMsg(config.TKeyLblPort), sw.entryPort)
	itemPort.HintText = app.GetMsg(config.TKeyHelpPort)

	itemStore := widget.NewFormItem(app.GetMsg(config.TKeyLblStorage), sw.storeSelect)
	itemStore.HintText = app.GetMsg(config.TKeyHelpStorage)

	return widget.NewCard(app.GetMsg(config.TKeyLblGeneral), "", widget.NewForm(itemLang, itemPort, itemStore))
}

// buildSourceCard constructs the vCard source selection UI.
func (app *LifeWeeksApp) buildSourceCard(w fyne.Window, sw *settingsWidgets, onLayoutChange func()) *widget.Card {
	browseBtn := widget.NewButton(app.GetMsg(config.TKeyBtnBrowse), func() {
		d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
			if err == nil && r != nil {
				sw.pathEntry.SetText(r.URI().Path())
				_ = r.Close()
			}
		}, w)
		d.SetFilter(storage.NewExtensionFileFilter([]string{config.ExtVCF, config.ExtVCard}))
		d.Show()
	})

	itemURL := widget.NewFormItem(app.GetMsg(config.TKeyLblURL), sw.urlEntry)
	itemURL.HintText = app.GetMsg(config.TKeyHelpURL)
	itemUser := widget.NewFormItem(app.GetMsg(config.TKeyLblUser), sw.userEntry)
	itemPass := widget.NewFormItem(app.GetMsg(config.TKeyLblPass), sw.passEntry)
	webForm := widget.NewForm(itemURL, itemUser, itemPass)

	localForm := container.NewBorder(nil, nil, nil, browseBtn, sw.pathEntry)

	itemName := widget.NewFormItem(app.GetMsg(config.TKeyLblContact), sw.nameEntry)
	itemName.HintText = app.GetMsg(config.TKeyHelpContact)
	nameForm := widget.NewForm(itemName)

	showSource := func() {
		local := choiceValue(sourceChoices, sw.modeSelect) == config.SourceModeLocal
		setVisible(webForm, !local)
		setVisible(localForm, local)
	}
	sw.modeSelect.OnChanged = func(string) {
		showSource()
		if onLayoutChange != nil {
			onLayoutChange()
		}
	}
	showSource()

	return widget.NewCard(app.GetMsg(config.TKeyLblSource), "", container.NewVBox(sw.modeSelect, webForm, localForm, nameForm))
}

// buildCalendarCard shows the feed address and the reminder attached to milestones.
func (app *LifeWeeksApp) buildCalendarCard(sw *settingsWidgets, onLayoutChange func()) *widget.Card {
	urlLabel := widget.NewLabel(app.GetMsgData(config.TKeyLblCalendarAt, map[string]any{"URL": app.calendarURL()}))
	urlLabel.Wrapping = fyne.TextWrapBreak

	controls := container.NewHBox(sw.selectRemUnit, sw.selectRemDir)
	row := container.NewBorder(nil, nil, nil, controls, sw.entryRemValue)

	setVisible(row, sw.checkReminder.Checked)
	sw.checkReminder.OnChanged = func(on bool) {
		setVisible(row, on)
		if onLayoutChange != nil {
			onLayoutChange()
		}
	}

	return widget.NewCard(app.GetMsg(config.TKeyLblCalendar), "", container.NewVBox(urlLabel, sw.checkReminder, row))
}

// saveSettings persists the preferences and applies them to the running app.
// A new port is only used on the next launch.
func (app *LifeWeeksApp) saveSettings(sw *settingsWidgets) error {
	slog.Info(config.MsgSettingsSave, config.LogKeyComponent, config.CompUISet)

	// Storage first: a failed migration leaves every preference untouched.
	if err := app.switchStore(choiceValue(storeChoices, sw.storeSelect)); err != nil {
		return err
	}

	prefs := app.Preferences
	for key, value := range map[string]string{
		config.PrefLanguage:     sw.langSelect.Selected,
		config.PrefSourceMode:   choiceValue(sourceChoices, sw.modeSelect),
		config.PrefCardDAVURL:   sw.urlEntry.Text,
		config.PrefUsername:     sw.userEntry.Text,
		config.PrefLocalPath:    sw.pathEntry.Text,
		config.PrefContactName:  sw.nameEntry.Text,
		config.PrefReminderUnit: choiceValue(unitChoices, sw.selectRemUnit),
		config.PrefReminderDir:  choiceValue(dirChoices, sw.selectRemDir),
	} {
		prefs.SetString(key, value)
	}
	if sw.entryPort.Text != "" {
		prefs.SetString(config.PrefServerPort, sw.entryPort.Text)
	}

	if user, secret := sw.userEntry.Text, sw.passEntry.Text; user != "" && secret != "" {
		if err := keyring.Set(config.KeyringService, user, secret); err != nil {
			slog.Error(config.ErrKeyringSave, config.LogKeyError, err, config.LogKeyComponent, config.CompUISet)
		}
	}

	// An empty value disables reminders even if the box is checked.
	remValue, err := strconv.Atoi(sw.entryRemValue.Text)
	prefs.SetBool(config.PrefReminderEnabled, err == nil && sw.checkReminder.Checked)
	if err == nil {
		prefs.SetInt(config.PrefReminderValue, remValue)
	}

	app.UpdateLocalizer()
	app.refreshTexts()
	app.RefreshTrayMenu()

	// Titles and reminders of the feed depend on the settings above.
	app.lifeMu.Lock()
	defer app.lifeMu.Unlock()
	if birth, ok := app.BirthDate(); ok {
		app.publishCalendar(birth)
	}
	return nil
}

// switchStore moves the stored birth date to backend and makes it the active store.
func (app *LifeWeeksApp) switchStore(backend string) error {
	app.lifeMu.Lock()
	defer app.lifeMu.Unlock()

	current := app.Preferences.StringWithFallback(config.PrefStoreBackend, config.DefaultStoreBackend)
	if backend == "" || backend == current {
		return nil
	}

	next := store.New(backend, app.Preferences)
	if err := store.Migrate(app.Store(), next); err != nil {
		return err
	}
	app.setStore(next)
	app.Preferences.SetString(config.PrefStoreBackend, backend)

	slog.Info(config.MsgStoreSelected,
		config.LogKeyComponent, config.CompUISet,
		config.LogKeyBackend, backend)
	return nil
}

func setVisible(o fyne.CanvasObject, visible bool) {
	if visible {
		o.Show()
	} else {
		o.Hide()
	}
}

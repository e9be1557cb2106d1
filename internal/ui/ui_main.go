package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-lifeweeks/internal/config"
	"github.com/tartampluch/go-lifeweeks/internal/engine"
)

// mainWidgets holds the widgets of the main window that change after it is built.
// Fields are only touched on the UI goroutine.
type mainWidgets struct {
	title        *widget.Label
	tagline      *widget.Label
	dateLabel    *widget.Label
	dateEntry    *RestrictedEntry
	btnVisualize *widget.Button
	btnClear     *widget.Button

	daysLabel    *widget.Label
	percentLabel *widget.Label
	noteButton   *widget.Button
	progress     *widget.ProgressBar
	tooltip      *widget.Label
	grid         *weekGrid

	// visual wraps the stats and the grid; hidden while no birth date is set.
	visual *fyne.Container

	stats     engine.ProgressSnapshot
	countdown string
}

// buildMainWindow creates the main window. It is shown by Run.
func (app *LifeWeeksApp) buildMainWindow() {
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinTitle))
	app.Window = w

	m := &mainWidgets{}
	app.main = m

	m.title = widget.NewLabelWithStyle(app.GetMsg(config.TKeyWinTitle), fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	m.tagline = widget.NewLabelWithStyle(app.GetMsg(config.TKeyAppTagline), fyne.TextAlignCenter, fyne.TextStyle{Italic: true})

	// --- Form ---
	m.dateLabel = widget.NewLabel(app.GetMsg(config.TKeyLblBirthDate))
	m.dateEntry = NewDateEntry()
	m.dateEntry.OnSubmitted = func(string) { app.onVisualize() }

	m.btnVisualize = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnVisualize), theme.ConfirmIcon(), app.onVisualize)
	m.btnVisualize.Importance = widget.HighImportance
	m.btnClear = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnClear), theme.DeleteIcon(), app.onClear)
	m.btnClear.Disable()

	entryBox := container.NewGridWrap(fyne.NewSize(config.DateEntryWidth, m.dateEntry.MinSize().Height), m.dateEntry)
	form := container.NewHBox(layout.NewSpacer(), m.dateLabel, entryBox, m.btnVisualize, m.btnClear, layout.NewSpacer())

	// --- Stats ---
	m.daysLabel = widget.NewLabel("")
	m.percentLabel = widget.NewLabel("")
	m.tooltip = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{})
	m.tooltip.Wrapping = fyne.TextWrapWord
	m.noteButton = widget.NewButtonWithIcon("", theme.InfoIcon(), func() {
		m.tooltip.SetText(app.GetMsg(config.TKeyLifeExpNote))
	})
	m.noteButton.Importance = widget.LowImportance
	m.progress = widget.NewProgressBar()
	m.progress.TextFormatter = func() string { return "" }

	stats := container.NewVBox(
		container.NewBorder(nil, nil, m.daysLabel, container.NewHBox(m.percentLabel, m.noteButton)),
		m.progress,
	)

	// --- Grid ---
	m.grid = newWeekGrid(
		func(rec engine.WeekRecord) { m.tooltip.SetText(app.weekTooltip(rec)) },
		func() { m.tooltip.SetText("") },
	)

	m.visual = container.NewBorder(stats, nil, nil, nil, container.NewScroll(container.NewCenter(m.grid.container)))
	m.visual.Hide()

	header := container.NewVBox(m.title, m.tagline, form)
	w.SetContent(container.NewPadded(container.NewBorder(header, m.tooltip, nil, nil, m.visual)))
	w.Resize(fyne.NewSize(config.MainWindowWidth, config.MainWindowHeight))
	w.SetMaster()
}

// showMainWindow brings the main window to the front.
func (app *LifeWeeksApp) showMainWindow() {
	if app.Window == nil {
		return
	}
	app.Window.Show()
	app.Window.RequestFocus()
}

// onVisualize submits the entry. Rejected values never reach the engine.
func (app *LifeWeeksApp) onVisualize() {
	if app.main == nil {
		return
	}
	if err := app.SubmitBirthDate(app.main.dateEntry.Text); err != nil {
		dialog.ShowError(errors.New(app.dateErrorMessage(err)), app.Window)
	}
}

func (app *LifeWeeksApp) onClear() {
	if err := app.ClearBirthDate(); err != nil {
		slog.Error(config.ErrStoreClear,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyError, err)
		dialog.ShowError(err, app.Window)
	}
}

// renderLife recomputes the grid and the progress for birth at now.
// Safe to call from any goroutine.
func (app *LifeWeeksApp) renderLife(birth, now time.Time) {
	rows := engine.GroupByYear(birth, engine.GenerateWeeks(birth, now))
	stats := engine.ComputeProgress(birth, now)

	slog.Debug(config.MsgGridBuilt,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyWeeksLived, engine.WeeksLived(birth, now),
		config.LogKeyDaysLived, stats.DaysLived,
		config.LogKeyPercentage, stats.Percentage)

	fyne.Do(func() {
		m := app.main
		if m == nil {
			return
		}
		m.stats = stats
		m.grid.setRows(rows)
		m.progress.SetValue(stats.Percentage / config.MaxPercentage)
		m.percentLabel.SetText(app.percentText(stats.Percentage))
		m.daysLabel.SetText(app.daysText(stats.DaysLived, m.countdown))
		m.dateEntry.SetText(engine.FormatBirthDate(birth))
		m.btnClear.Enable()
		m.visual.Show()
	})
}

// renderCountdown refreshes the remaining time in the window and the tray.
// It reports whether the countdown has reached zero.
func (app *LifeWeeksApp) renderCountdown(birth, now time.Time) bool {
	c := engine.ComputeCountdown(birth, now)
	text := c.Format()

	fyne.Do(func() {
		if m := app.main; m != nil {
			m.countdown = text
			m.daysLabel.SetText(app.daysText(m.stats.DaysLived, text))
		}
		app.updateTrayStatus(text)
	})
	return c.IsZero()
}

// renderEmpty resets the window to its waiting state.
func (app *LifeWeeksApp) renderEmpty() {
	fyne.Do(func() {
		if m := app.main; m != nil {
			m.stats = engine.ProgressSnapshot{}
			m.countdown = ""
			m.dateEntry.SetText("")
			m.daysLabel.SetText("")
			m.percentLabel.SetText("")
			m.progress.SetValue(0)
			m.tooltip.SetText(app.GetMsg(config.TKeyPromptDate))
			m.btnClear.Disable()
			m.visual.Hide()
		}
		app.updateTrayStatus("")
	})
}

// refreshTexts re-applies translations after a language change.
func (app *LifeWeeksApp) refreshTexts() {
	m := app.main
	if m == nil {
		return
	}
	app.Window.SetTitle(app.GetMsg(config.TKeyWinTitle))
	m.title.SetText(app.GetMsg(config.TKeyWinTitle))
	m.tagline.SetText(app.GetMsg(config.TKeyAppTagline))
	m.dateLabel.SetText(app.GetMsg(config.TKeyLblBirthDate))
	m.btnVisualize.SetText(app.GetMsg(config.TKeyBtnVisualize))
	m.btnClear.SetText(app.GetMsg(config.TKeyBtnClear))

	if birth, ok := app.BirthDate(); ok {
		app.renderLife(birth, app.Clock.Now())
		return
	}
	app.renderEmpty()
}

// daysText renders "N days lived (remaining: ...)". The remaining part is omitted until the first tick.
func (app *LifeWeeksApp) daysText(days int, countdown string) string {
	text := app.msgOr(config.TKeyDaysLived,
		map[string]any{"Count": app.formatCount(days)},
		fmt.Sprintf(config.FallbackDaysLived, days))
	if countdown == "" {
		return text
	}
	return text + app.msgOr(config.TKeyRemaining,
		map[string]any{"Countdown": countdown},
		fmt.Sprintf(config.FallbackRemaining, countdown))
}

// percentText renders "X.X% of 73 years".
func (app *LifeWeeksApp) percentText(p float64) string {
	return app.msgOr(config.TKeyPercentOf,
		map[string]any{"Percent": app.formatPercent(p), "Years": config.LifeExpectancyYears},
		fmt.Sprintf(config.FallbackPercentOf, fmt.Sprintf(config.PercentFormat, p), config.LifeExpectancyYears))
}

package ui

import (
	"context"
	"log/slog"
	"time"

	"github.com/tartampluch/go-lifeweeks/internal/config"
	"github.com/tartampluch/go-lifeweeks/internal/engine"
)

// startCountdown replaces any running countdown worker with one for birth.
// The handles are swapped in one step so an earlier worker is never lost.
func (app *LifeWeeksApp) startCountdown(birth time.Time) {
	ctx, cancel := context.WithCancel(app.Ctx)
	done := make(chan struct{})

	app.workerMu.Lock()
	prevCancel, prevDone := app.workerCancel, app.workerDone
	app.workerCancel = cancel
	app.workerDone = done
	app.workerMu.Unlock()

	if prevCancel != nil {
		prevCancel()
		<-prevDone
	}
	go app.countdownWorker(ctx, birth, done)
}

// stopCountdown cancels the running worker and waits for it to exit.
func (app *LifeWeeksApp) stopCountdown() {
	app.workerMu.Lock()
	cancel, done := app.workerCancel, app.workerDone
	app.workerCancel, app.workerDone = nil, nil
	app.workerMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// countdownRunning reports whether a worker is active.
func (app *LifeWeeksApp) countdownRunning() bool {
	app.workerMu.Lock()
	defer app.workerMu.Unlock()
	return app.workerCancel != nil
}

// countdownWorker refreshes the remaining time every config.CountdownRefresh.
// The grid and progress only change with the calendar day, so they are re-rendered
// (and the calendar feed republished) when the day count moves.
func (app *LifeWeeksApp) countdownWorker(ctx context.Context, birth time.Time, done chan<- struct{}) {
	defer close(done)

	log := slog.With(config.LogKeyComponent, config.CompWorker)
	ticker := time.NewTicker(config.CountdownRefresh)
	defer ticker.Stop()

	log.Info(config.MsgWorkerStart,
		config.LogKeyInterval, config.CountdownRefresh,
		config.LogKeyBirthDate, engine.FormatBirthDate(birth))

	now := app.Clock.Now()
	lastDay := engine.DaysBetween(birth, now)
	finished := app.renderCountdown(birth, now)
	if finished {
		log.Info(config.MsgCountdownDone)
	}

	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgWorkerStop)
			return

		case <-ticker.C:
			now := app.Clock.Now()
			if day := engine.DaysBetween(birth, now); day != lastDay {
				lastDay = day
				app.renderLife(birth, now)
				app.publishCalendar(birth)
			}

			if app.renderCountdown(birth, now) && !finished {
				finished = true
				log.Info(config.MsgCountdownDone)
			}
		}
	}
}

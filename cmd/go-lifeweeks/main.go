package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/tartampluch/go-lifeweeks/internal/config"
	"github.com/tartampluch/go-lifeweeks/internal/engine"
	"github.com/tartampluch/go-lifeweeks/internal/server"
	"github.com/tartampluch/go-lifeweeks/internal/store"
	"github.com/tartampluch/go-lifeweeks/internal/ui"
)

// options holds the parsed command line.
type options struct {
	version   bool
	debug     bool
	birthDate string
	ephemeral bool
}

// main only converts runMain's result into an exit code, so that deferred
// cleanups in runMain run before os.Exit.
func main() {
	os.Exit(runMain(os.Args[1:]))
}

func runMain(args []string) int {
	opts, err := parseFlags(args)
	if err != nil {
		return config.ExitCodeError
	}
	if opts.version {
		fmt.Printf(config.MsgVersionOutput, config.AppName, config.Version, runtime.GOOS, runtime.GOARCH)
		return config.ExitCodeSuccess
	}

	if closer := setupLogging(opts.debug); closer != nil {
		defer func() { _ = closer.Close() }()
	}

	// SIGINT and SIGTERM cancel the root context; the UI and the server follow it.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo(opts)

	if err := run(ctx, opts); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet(config.AppID, flag.ContinueOnError)
	fs.BoolVar(&opts.version, config.FlagVersion, false, config.FlagDescVersion)
	fs.BoolVar(&opts.debug, config.FlagDebug, false, config.FlagDescDebug)
	fs.StringVar(&opts.birthDate, config.FlagBirthDate, "", config.FlagDescBirthDate)
	fs.BoolVar(&opts.ephemeral, config.FlagEphemeral, false, config.FlagDescEphemeral)
	err := fs.Parse(args)
	return opts, err
}

// run wires the server, the store and the UI, then blocks in the Fyne loop.
func run(ctx context.Context, opts options) error {
	// A malformed -birthdate fails before any window opens.
	var birth time.Time
	if opts.birthDate != "" {
		b, err := engine.ParseBirthDate(opts.birthDate, time.Local)
		if err != nil {
			return err
		}
		birth = b
	}

	a := app.NewWithID(config.AppID)
	a.Preferences().SetString(config.PrefLastRun, config.Version)

	port := a.Preferences().StringWithFallback(config.PrefServerPort, config.DefaultPort)
	srv := server.NewLifeServer(port)
	st := newStore(a.Preferences(), opts.ephemeral)

	// The UI restores from the store, so a flag value only has to be persisted.
	if !birth.IsZero() {
		if err := store.Persist(st, birth); err != nil {
			return err
		}
	}

	gui := ui.NewLifeWeeksApp(a, ctx, srv, engine.NewHTTPFetcher(), st)

	go func() {
		<-ctx.Done()
		slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompMain)
		fyne.Do(a.Quit)
	}()

	gui.Run()
	return nil
}

// newStore selects the birth-date backend: memory when ephemeral, otherwise the saved preference.
func newStore(prefs fyne.Preferences, ephemeral bool) store.Store {
	backend := prefs.StringWithFallback(config.PrefStoreBackend, config.DefaultStoreBackend)
	if ephemeral {
		backend = config.StoreBackendMemory
	}
	slog.Info(config.MsgStoreSelected,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyBackend, backend)
	return store.New(backend, prefs)
}

func logStartupInfo(opts options) {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyCommit, config.Commit),
			slog.String(config.LogKeyBuilt, config.Date),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
		slog.Bool(config.FlagEphemeral, opts.ephemeral),
	)
}

// setupLogging installs a JSON slog logger writing to stdout and, when the
// cache directory is usable, to a log file truncated at each start.
// The returned closer is nil when no file was opened.
func setupLogging(debug bool) io.Closer {
	out := []io.Writer{os.Stdout}
	var file *os.File

	if path, err := getLogFilePath(); err == nil {
		f, err := os.OpenFile(path, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err != nil {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, path, err)
		} else {
			out = append(out, f)
			file = f
		}
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(io.MultiWriter(out...), &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})))

	if file == nil {
		return nil
	}
	return file
}

// getLogFilePath returns <user cache dir>/<app id>/app.log, creating the directory (0700).
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}
	return filepath.Join(appDir, config.LogFileName), nil
}

package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-lifeweeks/internal/config"
	"github.com/tartampluch/go-lifeweeks/internal/engine"
)

// cacheItem stores the rendered calendar and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

// LifeServer exposes the life snapshot and the milestone calendar on localhost.
type LifeServer struct {
	// Both pointers are written by the UI and read by every request.
	// atomic.Pointer keeps the read path lock-free and never shows a partial value.
	cache atomic.Pointer[cacheItem]
	birth atomic.Pointer[time.Time]

	Port     string
	Clock    engine.Clock
	Location *time.Location

	// OnSubmit is called with a validated birth date received over HTTP.
	// A hook owns the change and must call SetBirthDate itself; when nil the
	// server records the date directly.
	OnSubmit func(birth time.Time) error
	// OnClear is called when a client deletes the birth date. Like OnSubmit,
	// a hook is responsible for calling SetBirthDate(nil).
	OnClear func() error
}

// NewLifeServer creates a new instance of the server.
func NewLifeServer(port string) *LifeServer {
	return &LifeServer{
		Port:     port,
		Clock:    engine.RealClock{},
		Location: time.Local,
	}
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *LifeServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Routes(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// SetBirthDate replaces the birth date used by the snapshot endpoint. nil clears it.
func (s *LifeServer) SetBirthDate(birth *time.Time) {
	if birth == nil {
		s.birth.Store(nil)
		return
	}
	b := *birth
	s.birth.Store(&b)
}

// BirthDate returns the current birth date, if any.
func (s *LifeServer) BirthDate() (time.Time, bool) {
	b := s.birth.Load()
	if b == nil {
		return time.Time{}, false
	}
	return *b, true
}

// Update atomically replaces the served calendar.
func (s *LifeServer) Update(data []byte) {
	hash := sha256.Sum256(data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	item := &cacheItem{
		data:         data,
		etag:         etag,
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	}
	s.cache.Store(item)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, etag,
	)
}

// ClearCalendar serves an empty calendar so subscribed clients drop the old events.
func (s *LifeServer) ClearCalendar() {
	s.Update([]byte(config.StubVCalendar))
	slog.Debug(config.MsgCacheCleared, config.LogKeyComponent, config.CompServer)
}

func (s *LifeServer) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

func (s *LifeServer) location() *time.Location {
	if s.Location == nil {
		return time.Local
	}
	return s.Location
}

package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/tartampluch/go-lifeweeks/internal/config"
	"github.com/tartampluch/go-lifeweeks/internal/engine"
)

type birthDateRequest struct {
	BirthDate string `json:"birthDate"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Routes builds the chi router serving every endpoint of the server.
func (s *LifeServer) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)

	r.Get(config.RouteHealth, s.handleHealth)
	r.Get(config.RouteSnapshot, s.handleSnapshot)
	r.Put(config.RouteBirthDate, s.handlePutBirthDate)
	r.Delete(config.RouteBirthDate, s.handleDeleteBirthDate)
	r.Get(config.RouteCalendar, s.handleCalendarRequest)

	return r
}

// requestLogger logs one debug line per request with the chi request ID.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		slog.Debug(config.MsgRequest,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyMethod, r.Method,
			config.LogKeyPath, r.URL.Path,
			config.LogKeyStatus, ww.Status(),
			config.LogKeyRequestID, chimw.GetReqID(r.Context()),
			config.LogKeyDuration, time.Since(start).Milliseconds(),
		)
	})
}

func (s *LifeServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set(config.HeaderContentType, config.MimeTextPlain)
	_, _ = io.WriteString(w, config.HealthOK)
}

// handleSnapshot computes the snapshot live. ?weeks=true adds the full grid.
func (s *LifeServer) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	birth, ok := s.BirthDate()
	if !ok {
		writeError(w, http.StatusNotFound, config.ErrNoBirthDate)
		return
	}

	withWeeks, _ := strconv.ParseBool(r.URL.Query().Get(config.QueryWeeks))
	writeJSON(w, http.StatusOK, engine.NewSnapshot(birth, s.now(), withWeeks))
}

func (s *LifeServer) handlePutBirthDate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxRequestBodySize)

	var req birthDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, config.ErrDecodeBody)
		return
	}

	birth, err := engine.ParseBirthDate(req.BirthDate, s.location())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if s.OnSubmit == nil {
		s.SetBirthDate(&birth)
	} else if err := s.OnSubmit(birth); err != nil {
		slog.Error(config.ErrSubmitHook,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
		writeError(w, http.StatusInternalServerError, config.ErrSubmitHook)
		return
	}

	writeJSON(w, http.StatusOK, engine.NewSnapshot(birth, s.now(), false))
}

func (s *LifeServer) handleDeleteBirthDate(w http.ResponseWriter, _ *http.Request) {
	if s.OnClear == nil {
		s.SetBirthDate(nil)
	} else if err := s.OnClear(); err != nil {
		slog.Error(config.ErrStoreClear,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
		writeError(w, http.StatusInternalServerError, config.ErrStoreClear)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCalendarRequest serves the ICS content with HTTP caching support.
// HEAD requests are routed here by chimw.GetHead.
func (s *LifeServer) handleCalendarRequest(w http.ResponseWriter, r *http.Request) {
	item := s.cache.Load()

	if item == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeTextCalendar)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		if clientTime, err := time.Parse(http.TimeFormat, since); err == nil {
			if serverTime, err := time.Parse(http.TimeFormat, item.lastModified); err == nil {
				if !serverTime.After(clientTime) {
					w.WriteHeader(http.StatusNotModified)
					return
				}
			}
		}
	}

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}

// writeJSON encodes v with the given status. Encoding errors are logged only,
// since the header is already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlNoStore)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error(config.ErrEncodeJSON,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

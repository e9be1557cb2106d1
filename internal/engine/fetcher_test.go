package engine_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-lifeweeks/internal/config"
	"github.com/tartampluch/go-lifeweeks/internal/engine"
)

const sampleCard = "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Ada Lovelace\r\nBDAY:18151210\r\nEND:VCARD\r\n"

func serveCard(t *testing.T, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		_, _ = io.WriteString(w, sampleCard)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTPFetcher_Fetch_Headers(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		pass     string
		wantAuth bool
	}{
		{"WithCredentials", "ada", "analytical", true},
		{"Anonymous", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := serveCard(t, func(r *http.Request) {
				user, pass, ok := r.BasicAuth()
				assert.Equal(t, tt.wantAuth, ok)
				assert.Equal(t, tt.user, user)
				assert.Equal(t, tt.pass, pass)
				assert.Equal(t, config.UserAgent, r.Header.Get(config.HeaderUserAgent))
				assert.Contains(t, r.Header.Get(config.HeaderAccept), "text/vcard")
			})

			rc, err := engine.NewHTTPFetcher().Fetch(context.Background(), ts.URL+"/card.vcf?token=x", tt.user, tt.pass)
			require.NoError(t, err)
			defer func() { _ = rc.Close() }()

			body, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, sampleCard, string(body))
		})
	}
}

func TestHTTPFetcher_Fetch_SizeCap(t *testing.T) {
	ts := serveCard(t, nil)

	t.Run("ExactlyAtLimit", func(t *testing.T) {
		f := engine.NewHTTPFetcher()
		f.MaxBytes = int64(len(sampleCard))

		rc, err := f.Fetch(context.Background(), ts.URL, "", "")
		require.NoError(t, err)
		defer func() { _ = rc.Close() }()

		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, sampleCard, string(body))
	})

	t.Run("OverLimit", func(t *testing.T) {
		f := engine.NewHTTPFetcher()
		f.MaxBytes = 10

		rc, err := f.Fetch(context.Background(), ts.URL, "", "")
		require.NoError(t, err)
		defer func() { _ = rc.Close() }()

		body, err := io.ReadAll(rc)
		assert.ErrorIs(t, err, engine.ErrResponseTooLarge)
		assert.Len(t, body, 10)
	})
}

func TestHTTPFetcher_Fetch_BadStatus(t *testing.T) {
	for _, code := range []int{http.StatusUnauthorized, http.StatusNotFound, http.StatusInternalServerError} {
		t.Run(http.StatusText(code), func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(code)
			}))
			defer ts.Close()

			rc, err := engine.NewHTTPFetcher().Fetch(context.Background(), ts.URL, "", "")

			require.Error(t, err)
			assert.Nil(t, rc)
			assert.True(t, strings.HasPrefix(err.Error(), config.ErrBadStatus))
			assert.Contains(t, err.Error(), http.StatusText(code))
		})
	}
}

func TestHTTPFetcher_Fetch_ContextDeadline(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := engine.NewHTTPFetcher().Fetch(ctx, ts.URL, "", "")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), config.ErrNetwork)
}

func TestHTTPFetcher_Fetch_RejectedURLs(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr string
	}{
		{"ControlCharacter", string([]byte{0x7f}), config.ErrInvalidURL},
		{"FTP", "ftp://example.com/card.vcf", config.ErrProtocol},
		{"File", "file:///etc/passwd", config.ErrProtocol},
		{"NoScheme", "example.com/card.vcf", config.ErrProtocol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.NewHTTPFetcher().Fetch(context.Background(), tt.url, "", "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHTTPFetcher_NilClientUsesDefault(t *testing.T) {
	ts := serveCard(t, nil)

	f := &engine.HTTPFetcher{}
	rc, err := f.Fetch(context.Background(), ts.URL, "", "")
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, sampleCard, string(body))
}

package engine_test

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-lifeweeks/internal/config"
	"github.com/tartampluch/go-lifeweeks/internal/engine"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// MockFetcher simulates the network layer for unit tests using `testify/mock`.
type MockFetcher struct {
	mock.Mock
}

// Fetch implements the engine.VCardFetcher interface.
func (m *MockFetcher) Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error) {
	args := m.Called(ctx, url, user, pass)
	if r := args.Get(0); r != nil {
		return r.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

func webFetcher(content string) *MockFetcher {
	f := new(MockFetcher)
	f.On("Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(io.NopCloser(strings.NewReader(content)), nil)
	return f
}

// -----------------------------------------------------------------------------
// Test Cases
// -----------------------------------------------------------------------------

func TestImport_Local_Success(t *testing.T) {
	vcardContent := `BEGIN:VCARD
VERSION:4.0
FN:John Doe
BDAY:1990-05-15
END:VCARD`

	tmpFile, err := os.CreateTemp("", "test_vcard_*.vcf")
	require.NoError(t, err)
	defer func() { _ = os.Remove(tmpFile.Name()) }()

	_, err = tmpFile.WriteString(vcardContent)
	require.NoError(t, err)
	_ = tmpFile.Close()

	im := &engine.Importer{Location: time.UTC}
	res, err := im.Import(context.Background(), engine.SourceConfig{
		Mode:      config.SourceModeLocal,
		LocalPath: tmpFile.Name(),
	})

	require.NoError(t, err)
	assert.Equal(t, "John Doe", res.Name)
	assert.Equal(t, date(1990, 5, 15), res.BirthDate)
}

func TestImport_Web_SelectsNamedContact(t *testing.T) {
	vcardContent := `BEGIN:VCARD
VERSION:3.0
FN:Someone Else
BDAY:1970-01-01
END:VCARD
BEGIN:VCARD
VERSION:3.0
FN:Jane Roe
BDAY:19881224
END:VCARD`

	fetcher := new(MockFetcher)
	fetcher.On("Fetch", mock.Anything, "http://example.com/me.vcf", "jane", "secret").
		Return(io.NopCloser(strings.NewReader(vcardContent)), nil)

	im := &engine.Importer{Fetcher: fetcher, Location: time.UTC}
	res, err := im.Import(context.Background(), engine.SourceConfig{
		Mode:    config.SourceModeWeb,
		WebURL:  "http://example.com/me.vcf",
		WebUser: "jane",
		WebPass: "secret",
		Name:    "  jane roe ",
	})

	require.NoError(t, err)
	assert.Equal(t, "Jane Roe", res.Name)
	assert.Equal(t, date(1988, 12, 24), res.BirthDate)
	fetcher.AssertExpectations(t)
}

func TestImport_SkipsCardsWithoutYear(t *testing.T) {
	vcardContent := "BEGIN:VCARD\nVERSION:3.0\nFN:No Year\nBDAY:--05-15\nEND:VCARD\n" +
		"BEGIN:VCARD\nVERSION:3.0\nFN:No Birthday\nEND:VCARD\n" +
		"BEGIN:VCARD\nVERSION:3.0\nFN:Full Date\nBDAY:1975-03-09T00:00:00Z\nEND:VCARD"

	im := &engine.Importer{Fetcher: webFetcher(vcardContent), Location: time.UTC}
	res, err := im.Import(context.Background(), engine.SourceConfig{Mode: config.SourceModeWeb, WebURL: "http://x"})

	require.NoError(t, err)
	assert.Equal(t, "Full Date", res.Name)
	assert.Equal(t, date(1975, 3, 9), res.BirthDate)
}

func TestImport_DateFormats_TableDriven(t *testing.T) {
	tests := []struct {
		name      string
		bdayValue string
		want      time.Time
		wantErr   bool
	}{
		{"ISO8601 Standard", "1990-10-25", date(1990, 10, 25), false},
		{"Basic Format", "19901025", date(1990, 10, 25), false},
		{"RFC3339", "1990-10-25T00:00:00Z", date(1990, 10, 25), false},
		{"Truncated (Month-Day)", "--10-25", time.Time{}, true},
		{"Truncated Basic", "--1025", time.Time{}, true},
		{"Garbage Data", "not-a-date", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := "BEGIN:VCARD\nVERSION:3.0\nFN:Test\nBDAY:" + tt.bdayValue + "\nEND:VCARD"
			im := &engine.Importer{Fetcher: webFetcher(content), Location: time.UTC}

			res, err := im.Import(context.Background(), engine.SourceConfig{Mode: config.SourceModeWeb, WebURL: "http://x"})

			if tt.wantErr {
				assert.ErrorIs(t, err, engine.ErrNoBirthDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.BirthDate)
		})
	}
}

func TestImport_Web_NetworkError(t *testing.T) {
	fetcher := new(MockFetcher)
	expectedErr := errors.New("network unreachable")
	fetcher.On("Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, expectedErr)

	im := &engine.Importer{Fetcher: fetcher}
	_, err := im.Import(context.Background(), engine.SourceConfig{Mode: config.SourceModeWeb, WebURL: "http://bad-url.com"})

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Contains(t, err.Error(), config.ErrVCardOpen)
}

func TestImport_Local_MissingFile(t *testing.T) {
	im := &engine.Importer{}
	_, err := im.Import(context.Background(), engine.SourceConfig{
		Mode:      config.SourceModeLocal,
		LocalPath: filepath.Join(t.TempDir(), "missing.vcf"),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.True(t, strings.HasPrefix(err.Error(), config.ErrVCardOpen), err.Error())
}

func TestImport_Web_ReadErrorStopsScan(t *testing.T) {
	fetcher := new(MockFetcher)
	body := io.MultiReader(strings.NewReader("BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Ada"), iotest.ErrReader(engine.ErrResponseTooLarge))
	fetcher.On("Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(io.NopCloser(body), nil)

	im := &engine.Importer{Fetcher: fetcher}
	_, err := im.Import(context.Background(), engine.SourceConfig{Mode: config.SourceModeWeb, WebURL: "http://example.com/card.vcf"})

	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrResponseTooLarge)
	assert.True(t, strings.HasPrefix(err.Error(), config.ErrVCardRead), err.Error())
}

func TestImport_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name    string
		im      *engine.Importer
		cfg     engine.SourceConfig
		wantMsg string
	}{
		{"Local path empty", &engine.Importer{}, engine.SourceConfig{Mode: config.SourceModeLocal}, config.ErrLocalPathEmpty},
		{"Web URL empty", &engine.Importer{}, engine.SourceConfig{Mode: config.SourceModeWeb}, config.ErrWebURLEmpty},
		{"Fetcher missing", &engine.Importer{}, engine.SourceConfig{Mode: config.SourceModeWeb, WebURL: "http://x"}, config.ErrFetcherMissing},
		{"Unknown mode", &engine.Importer{}, engine.SourceConfig{Mode: "ftp"}, config.ErrModeUnsupport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.im.Import(context.Background(), tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestImport_NoMatchingName(t *testing.T) {
	content := "BEGIN:VCARD\nVERSION:3.0\nFN:Alice\nBDAY:1990-01-01\nEND:VCARD"
	im := &engine.Importer{Fetcher: webFetcher(content)}

	_, err := im.Import(context.Background(), engine.SourceConfig{Mode: config.SourceModeWeb, WebURL: "http://x", Name: "Bob"})

	assert.ErrorIs(t, err, engine.ErrNoBirthDate)
}

func TestImport_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	tmpFile, err := os.CreateTemp("", "cancel_test_*.vcf")
	require.NoError(t, err)
	defer func() { _ = os.Remove(tmpFile.Name()) }()
	_ = tmpFile.Close()

	cancel() // Cancel before processing starts

	im := &engine.Importer{}
	_, err = im.Import(ctx, engine.SourceConfig{
		Mode:      config.SourceModeLocal,
		LocalPath: tmpFile.Name(),
	})

	assert.Equal(t, context.Canceled, err, "Should return context canceled error")
}

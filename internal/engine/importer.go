package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-lifeweeks/internal/config"
)

// ErrNoBirthDate is returned when no card carries a usable birth date.
var ErrNoBirthDate = errors.New(config.ErrNoBDayInCard)

// errYearUnknown marks vCard dates without a year (--MM-DD).
var errYearUnknown = errors.New(config.ErrYearUnknown)

// SourceConfig describes where to read the contact card from.
type SourceConfig struct {
	Mode      string // config.SourceModeLocal or config.SourceModeWeb
	LocalPath string // Absolute path to the .vcf file
	WebURL    string // CardDAV or WebDAV URL
	WebUser   string // HTTP Basic Auth Username
	WebPass   string // HTTP Basic Auth Password
	Name      string // Optional contact name (FN) to select; empty picks the first match
}

// ImportedBirthDate is the result of a vCard import.
type ImportedBirthDate struct {
	Name      string
	BirthDate time.Time
}

// Importer reads a birth date out of a vCard stream.
type Importer struct {
	Fetcher  VCardFetcher   // Interface for network abstraction.
	Location *time.Location // Location of the returned midnight; nil means time.Local.
}

// Import opens the configured source and returns the first card (or the card
// named cfg.Name) that has a full BDAY. Cards without a year are skipped since
// a lifespan cannot be placed without one.
func (im *Importer) Import(ctx context.Context, cfg SourceConfig) (ImportedBirthDate, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompImporter,
		config.LogKeyMode, cfg.Mode,
	)
	log.InfoContext(ctx, config.MsgImportStarted)

	reader, err := im.acquireStream(ctx, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return ImportedBirthDate{}, ctx.Err()
		}
		return ImportedBirthDate{}, fmt.Errorf("%s: %w", config.ErrVCardOpen, err)
	}
	defer func() { _ = reader.Close() }()

	if err := ctx.Err(); err != nil {
		return ImportedBirthDate{}, err
	}

	res, err := im.scan(ctx, reader, cfg.Name)
	if err != nil {
		return ImportedBirthDate{}, err
	}

	log.Info(config.MsgImportDone,
		config.LogKeyName, res.Name,
		config.LogKeyBirthDate, FormatBirthDate(res.BirthDate),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return res, nil
}

// acquireStream opens the appropriate data source based on configuration.
func (im *Importer) acquireStream(ctx context.Context, cfg SourceConfig) (io.ReadCloser, error) {
	switch cfg.Mode {
	case config.SourceModeLocal:
		if cfg.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(cfg.LocalPath)
	case config.SourceModeWeb:
		if cfg.WebURL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if im.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return im.Fetcher.Fetch(ctx, cfg.WebURL, cfg.WebUser, cfg.WebPass)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, cfg.Mode)
	}
}

// scan decodes cards until one matches.
func (im *Importer) scan(ctx context.Context, r io.Reader, wantName string) (ImportedBirthDate, error) {
	loc := im.Location
	if loc == nil {
		loc = time.Local
	}
	wantName = strings.TrimSpace(wantName)

	src := &readErrReader{r: r}
	decoder := vcard.NewDecoder(src)
	stats := struct{ processed, withBday int }{}
	defer func() {
		slog.Debug(config.MsgImportDone,
			config.LogKeyComponent, config.CompImporter,
			slog.Group(config.LogKeyStats,
				slog.Int(config.LogKeyTotal, stats.processed),
				slog.Int(config.LogKeyFound, stats.withBday),
			),
		)
	}()

	for {
		if ctx.Err() != nil {
			return ImportedBirthDate{}, ctx.Err()
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil && src.err != nil {
			return ImportedBirthDate{}, fmt.Errorf("%s: %w", config.ErrVCardRead, src.err)
		}
		if err != nil {
			// Keep going, one broken card should not hide the others.
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompImporter,
				config.LogKeyError, err)
			continue
		}
		stats.processed++

		name := cardName(card)
		if wantName != "" && !strings.EqualFold(strings.TrimSpace(name), wantName) {
			continue
		}

		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}

		birth, err := parseCardDate(bday.Value, loc)
		if err != nil {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompImporter,
				config.LogKeyName, name,
				config.LogKeyValue, bday.Value)
			continue
		}
		stats.withBday++

		return ImportedBirthDate{Name: name, BirthDate: birth}, nil
	}

	return ImportedBirthDate{}, ErrNoBirthDate
}

// readErrReader keeps the first read failure so that it is not mistaken for a
// malformed card.
type readErrReader struct {
	r   io.Reader
	err error
}

func (rr *readErrReader) Read(p []byte) (int, error) {
	n, err := rr.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && rr.err == nil {
		rr.err = err
	}
	return n, err
}

// cardName applies the FN (Formatted) > N (Structured) > Fallback strategy.
func cardName(card vcard.Card) string {
	if fn := card.Get(config.VCardFN); fn != nil && fn.Value != "" {
		return fn.Value
	}
	if n := card.Get(config.VCardN); n != nil && n.Value != "" {
		return n.Value
	}
	return config.FallbackName
}

// parseCardDate handles the vCard date formats that carry a year and returns
// midnight of that calendar day in loc.
func parseCardDate(value string, loc *time.Location) (time.Time, error) {
	formatsWithYear := []string{
		config.DateFormatISO,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}

	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
		}
	}

	for _, f := range []string{config.DateFormatNoYearD, config.DateFormatNoYearB} {
		if _, err := time.Parse(f, value); err == nil {
			return time.Time{}, errYearUnknown
		}
	}

	return time.Time{}, ErrInvalidBirthDate
}

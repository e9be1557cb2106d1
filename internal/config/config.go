package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client used for vCard imports.
var UserAgent = "Go-LifeWeeks/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Life Weeks"
	AppID             = "com.github.tartampluch.go-lifeweeks"
	KeyringService    = "com.github.tartampluch.go-lifeweeks"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion       = "version"
	FlagDebug         = "debug"
	FlagBirthDate     = "birthdate"
	FlagEphemeral     = "ephemeral"
	FlagDescVersion   = "Show application version and exit"
	FlagDescDebug     = "Enable debug logging to stdout"
	FlagDescBirthDate = "Birth date (YYYY-MM-DD) to visualize, replaces the stored one"
	FlagDescEphemeral = "Keep the birth date in memory only (nothing is persisted)"
	MsgVersionOutput  = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Life Model
// -----------------------------------------------------------------------------

const (
	// LifeExpectancyYears is the life expectancy at birth (UN Population Division, 2024).
	LifeExpectancyYears = 73

	WeeksPerYear = 52
	DaysPerWeek  = 7

	// TotalWeeks is the fixed length of the week grid.
	TotalWeeks = LifeExpectancyYears * WeeksPerYear

	// DaysPerYearProgress is the year length used by the progress ratio.
	// The countdown uses CountdownYear instead.
	DaysPerYearProgress  = 365
	ExpectedLifespanDays = LifeExpectancyYears * DaysPerYearProgress
	MaxPercentage        = 100.0

	// MilestoneEveryWeeks controls the cadence of round-number calendar milestones.
	MilestoneEveryWeeks = 1000
)

// Countdown units. Years and months are fixed-length approximations.
const (
	CountdownYear   = 8766 * time.Hour      // 365.25 days
	CountdownMonth  = 2630016 * time.Second // 30.44 days
	CountdownDay    = 24 * time.Hour
	CountdownHour   = time.Hour
	CountdownMinute = time.Minute
	CountdownSecond = time.Second

	// CountdownRefresh is the tick of the countdown worker.
	CountdownRefresh = time.Second
)

// Countdown compact format suffixes.
const (
	SuffixYears   = "y"
	SuffixMonths  = "m"
	SuffixDays    = "d"
	SuffixHours   = "h"
	SuffixMinutes = "m"
	SuffixSeconds = "s"
)

// -----------------------------------------------------------------------------
// Storage
// -----------------------------------------------------------------------------

const (
	// StorageKeyBirthDate is the fixed identifier of the persisted birth date.
	StorageKeyBirthDate = "life-weeks-birthday"

	StoreBackendPreferences = "preferences"
	StoreBackendKeyring     = "keyring"
	StoreBackendMemory      = "memory"
	DefaultStoreBackend     = StoreBackendPreferences
)

// StoreBackends lists the selectable storage backends in display order.
var StoreBackends = []string{StoreBackendPreferences, StoreBackendKeyring, StoreBackendMemory}

// -----------------------------------------------------------------------------
// UI Constants & Preferences
// -----------------------------------------------------------------------------

const (
	MainWindowWidth     = 1100
	MainWindowHeight    = 820
	SettingsWindowWidth = 600

	// Grid layout
	GridCellSize    = 12
	GridCellGap     = 2
	GridStrokeWidth = 2
	YearLabelWidth  = 44
	DateEntryWidth  = 140

	PercentFormat = "%.1f"

	// Preference Keys
	PrefLanguage        = "language"
	PrefServerPort      = "server_port"
	PrefStoreBackend    = "store_backend"
	PrefSourceMode      = "source_mode"
	PrefCardDAVURL      = "carddav_url"
	PrefUsername        = "username"
	PrefLocalPath       = "local_path"
	PrefContactName     = "contact_name"
	PrefReminderEnabled = "reminder_enabled"
	PrefReminderValue   = "reminder_value"
	PrefReminderUnit    = "reminder_unit"
	PrefReminderDir     = "reminder_direction"
	PrefLastRun         = "last_run_version"
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinTitle       = "win_title"
	TKeyWinSettings    = "win_settings_title"
	TKeyAppTagline     = "app_tagline"
	TKeyLblBirthDate   = "lbl_birth_date"
	TKeyBtnVisualize   = "btn_visualize"
	TKeyBtnClear       = "btn_clear"
	TKeyDaysLived      = "days_lived"     // Requires Count
	TKeyRemaining      = "remaining"      // Requires Countdown
	TKeyPercentOf      = "percent_of"     // Requires Percent, Years
	TKeyLifeExpNote    = "life_exp_note"
	TKeyTipBirth       = "tip_birth"
	TKeyTipDeath       = "tip_death"
	TKeyTipWeek        = "tip_week"       // Requires Week
	TKeyTipDaysLived   = "tip_days_lived" // Requires Count
	TKeyTipCurrent     = "tip_current"
	TKeyPromptDate     = "prompt_birth_date"
	TKeyMenuShow       = "menu_show"
	TKeyMenuImport     = "menu_import"
	TKeyMenuSettings   = "menu_settings"
	TKeyTrayIdle       = "tray_idle"
	TKeyTrayCountdown  = "tray_countdown" // Requires Countdown
	TKeyNotifImportOK  = "notif_import_success"
	TKeyNotifImportErr = "notif_import_error"
	TKeyErrDateReq     = "err_date_required"
	TKeyErrDateFormat  = "err_date_format"

	TKeyLblLanguage   = "lbl_language"
	TKeyHelpLanguage  = "help_language"
	TKeyLblPort       = "lbl_server_port"
	TKeyHelpPort      = "help_port"
	TKeyLblGeneral    = "lbl_general"
	TKeyLblStorage    = "lbl_storage"
	TKeyHelpStorage   = "help_storage"
	TKeyStorePrefs    = "store_preferences"
	TKeyStoreKeyring  = "store_keyring"
	TKeyStoreMemory   = "store_memory"
	TKeyLblSource     = "lbl_source"
	TKeyModeCardDAV   = "mode_carddav"
	TKeyModeLocal     = "mode_local"
	TKeyLblURL        = "lbl_url"
	TKeyHelpURL       = "help_carddav_url"
	TKeyLblUser       = "lbl_user"
	TKeyLblPass       = "lbl_pass"
	TKeyBtnBrowse     = "btn_browse"
	TKeyLblContact    = "lbl_contact"
	TKeyHelpContact   = "help_contact"
	TKeyLblCalendar   = "lbl_calendar"
	TKeyLblEnableRem  = "lbl_enable_reminders"
	TKeyUnitDays      = "unit_days"
	TKeyUnitHours     = "unit_hours"
	TKeyUnitMinutes   = "unit_minutes"
	TKeyDirBefore     = "dir_before"
	TKeyDirAfter      = "dir_after"
	TKeyBtnSave       = "btn_save"
	TKeyBtnCancel     = "btn_cancel"
	TKeyLblFooter     = "lbl_footer"
	TKeyErrPortReq    = "err_port_required"
	TKeyErrPortNum    = "err_port_number"
	TKeyErrPortRange  = "err_port_range"
	TKeyEvtBirth      = "event_birth"
	TKeyEvtWeek       = "event_week"    // Requires Week
	TKeyEvtHalfway    = "event_halfway" // Requires Week
	TKeyEvtCurrent    = "event_current" // Requires Week
	TKeyEvtEnd        = "event_end"     // Requires Years
	TKeyFormatDate    = "format_date_short"
	TKeyLblCalendarAt = "lbl_calendar_url" // Requires URL
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	SourceModeWeb        = "web"
	SourceModeLocal      = "local"
	DefaultPort          = "18081"
	DefaultLanguage      = "en"
	DefaultReminderValue = 1
	UIDSalt              = "go-lifeweeks-v1" // Versions the name hashed into event UIDs
)

// ISO8601 Duration Components for Reminders
const (
	ISOPeriodPrefix   = "P"
	ISONegativePrefix = "-P"
	ISODay            = "D"
	ISOHour           = "H"
	ISOMinute         = "M"
	ISOTimeSeparator  = "T"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Life Weeks//Engine//EN"
	ICalCalName   = "Life in Weeks"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "golifeweeks"

	// iCal/vCard Fields
	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"
	VCardN    = "N"

	DefaultICalRefresh = 24 * time.Hour

	// Milestone kinds, also used in UIDs.
	MilestoneBirth   = "birth"
	MilestoneWeek    = "week"
	MilestoneHalfway = "halfway"
	MilestoneCurrent = "current"
	MilestoneEnd     = "end"
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	// DateFormatISO is the storage and input layout of a birth date.
	DateFormatISO = "2006-01-02"

	// Date layouts accepted in vCard BDAY fields
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	// Limits
	MinPort = 1
	MaxPort = 65535

	// UID Generation: a v5 UUID of FormatUIDName, suffixed with the calendar domain.
	FormatUIDName = "%s|%s|%s|%d"
	FormatUID     = "%s@%s"

	// File Extensions
	ExtVCF   = ".vcf"
	ExtVCard = ".vcard"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	MaxHTTPResponseSize = 16 * 1024 * 1024 // 16MB, an address book export with photos
	MaxRequestBodySize  = 4 * 1024
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	AddrSeparator       = ":"

	RouteHealth    = "/healthz"
	RouteSnapshot  = "/api/snapshot"
	RouteBirthDate = "/api/birthdate"
	RouteCalendar  = "/calendar.ics"

	// QueryWeeks asks the snapshot endpoint to include the full week grid.
	QueryWeeks = "weeks"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderAccept          = "Accept"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeTextPlain       = "text/plain; charset=utf-8"
	MimeVCardAccept     = "text/vcard, text/x-vcard;q=0.9, */*;q=0.1"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"
	CacheControlNoStore = "no-store"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`

	HealthOK = "ok"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrLocalPathEmpty   = "configuration error: local path is empty"
	ErrWebURLEmpty      = "configuration error: web URL is empty"
	ErrFetcherMissing   = "internal error: network fetcher is not initialized"
	ErrModeUnsupport    = "configuration error: unsupported source mode"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrVCardOpen        = "failed to open vCard source"
	ErrVCardRead        = "failed to read vCard stream"
	ErrRequestBuild     = "failed to create request"
	ErrNetwork          = "network error during fetch"
	ErrBadStatus        = "server returned unexpected status"
	ErrTooLarge         = "vCard response exceeds size limit"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrDateParse        = "unable to parse date"
	ErrDateEmpty        = "birth date is required"
	ErrNoBirthDate      = "no birth date is set"
	ErrNoBDayInCard     = "no contact with a full birth date found"
	ErrYearUnknown      = "birth date has no year"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrEncodeJSON       = "failed to encode JSON response"
	ErrDecodeBody       = "invalid request body"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrTrayNotSupported = "system tray not supported on this platform/driver"
	ErrStoreLoad        = "failed to read stored birth date"
	ErrStoreSave        = "failed to persist birth date"
	ErrStoreClear       = "failed to clear stored birth date"
	ErrSubmitHook       = "birth date submission failed"
	ErrKeyringSave      = "failed to save credentials to keyring"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackEvtBirth    = "Birth"
	FallbackEvtWeek     = "Week %d"
	FallbackEvtHalfway  = "Halfway there (week %d)"
	FallbackEvtCurrent  = "Current week (%d)"
	FallbackEvtEnd      = "End of life expectancy (%d years)"
	FallbackTrayLabel   = "Go Life Weeks"
	FallbackTrayCount   = "Remaining: %s"
	FallbackName        = "Unknown"
	FallbackDaysLived   = "%d days lived"
	FallbackRemaining   = " (remaining: %s)"
	FallbackPercentOf   = "%s%% of %d years"
	FallbackTipBirth    = "Birth"
	FallbackTipDeath    = "End of life expectancy"
	FallbackTipWeek     = "Week %d"
	FallbackTipDays     = " (%d days lived)"
	FallbackTipCurrent  = " - Current Week"
	FallbackDateMissing = "Please enter a birth date."
	FallbackDateFormat  = "Use the YYYY-MM-DD format."

	// StubVCalendar is the minimal valid iCalendar object used before any birth date is set.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	TitleStartupError = "Startup Error"
	TitleImportError  = "Import Error"

	MsgPortBusy          = "Port %s is busy or unavailable."
	MsgAppStop           = "Application stopped gracefully"
	MsgCtxCancel         = "Context cancelled, shutting down UI"
	MsgAppStarting       = "Starting application"
	MsgServerListen      = "HTTP server listening"
	MsgServerStop        = "Shutting down HTTP server..."
	MsgCacheUpdated      = "Calendar cache updated"
	MsgCacheCleared      = "Calendar cache cleared"
	MsgLocaleSkip        = "Skipping non-locale file"
	MsgLocaleBadName     = "Skipping malformed locale filename"
	MsgLocaleLoaded      = "Locale loaded successfully"
	MsgTransMissing      = "Missing translation key"
	MsgPassFail          = "Password retrieval failed (might be empty)"
	MsgLogWarning        = "Warning: %s at %s: %v\n"
	MsgBirthDateRestored = "Birth date restored from storage"
	MsgBirthDateInvalid  = "Ignoring unparseable stored birth date"
	MsgBirthDateAbsent   = "No stored birth date, waiting for input"
	MsgBirthDateSet      = "Birth date set"
	MsgBirthDateCleared  = "Birth date cleared"
	MsgSubmitRejected    = "Birth date submission rejected"
	MsgWorkerStart       = "Countdown worker started"
	MsgWorkerStop        = "Countdown worker stopped"
	MsgCountdownDone     = "Life expectancy reached, countdown is at zero"
	MsgGridBuilt         = "Week grid computed"
	MsgCalendarBuilt     = "Milestone calendar generated"
	MsgImportStarted     = "vCard import started"
	MsgImportDone        = "vCard import finished"
	MsgImportFailed      = "vCard import failed"
	MsgSkippedCard       = "Skipping malformed vCard"
	MsgSkippedDate       = "Skipping card without a full birth date"
	MsgStoreFallback     = "Unknown storage backend, using preferences"
	MsgStoreSelected     = "Birth date storage selected"
	MsgDownloadStart     = "Initiating vCard download"
	MsgDownloading       = "vCards downloading"
	MsgBadStatus         = "Server returned error status"
	MsgSettingsSave      = "Saving preferences"
	MsgSettingsOpen      = "Opening settings window"
	MsgSettingsFocus     = "Settings window already open, requesting focus"
	MsgRequest           = "HTTP request"

	PlaceholderURL  = "https://..."
	PlaceholderDate = "YYYY-MM-DD"
)

// -----------------------------------------------------------------------------
// Reminder Units & Directions
// -----------------------------------------------------------------------------

const (
	UnitDays    = "d"
	UnitHours   = "h"
	UnitMinutes = "m"
	DirBefore   = "before"
	DirAfter    = "after"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent  = "component"
	LogKeyError      = "error"
	LogKeyURL        = "url"
	LogKeyStatus     = "status_code"
	LogKeyFile       = "file"
	LogKeyLang       = "lang"
	LogKeyKey        = "key"
	LogKeyPort       = "port"
	LogKeyMode       = "mode"
	LogKeyInterval   = "interval"
	LogKeyUser       = "user"
	LogKeyValue      = "value"
	LogKeyName       = "name"
	LogKeyBirthDate  = "birth_date"
	LogKeyBackend    = "backend"
	LogKeyWeeksLived = "weeks_lived"
	LogKeyDaysLived  = "days_lived"
	LogKeyPercentage = "percentage"
	LogKeyEvents     = "events"
	LogKeyStats      = "stats"
	LogKeyTotal      = "total_cards"
	LogKeyFound      = "birthdays_found"
	LogKeySizeBytes  = "size_bytes"
	LogKeyETag       = "etag"
	LogKeyDuration   = "duration_ms"
	LogKeyLength     = "content_length"
	LogKeyMethod     = "method"
	LogKeyPath       = "path"
	LogKeyRequestID  = "request_id"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyCommit  = "commit"
	LogKeyBuilt   = "built"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompUI       = "ui"
	CompUISet    = "ui_settings"
	CompCalendar = "calendar"
	CompImporter = "importer"
	CompServer   = "server"
	CompFetcher  = "fetcher"
	CompWorker   = "worker"
	CompStore    = "store"
	CompMain     = "main"
	CompI18n     = "i18n"
)

// -----------------------------------------------------------------------------
// UI Layout Constants
// -----------------------------------------------------------------------------

const (
	LayoutColumnsDouble = 2
)

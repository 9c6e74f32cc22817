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

// UserAgent identifies the HTTP client.
var UserAgent = "Go-Contactbook/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Contactbook"
	AppID             = "com.github.tartampluch.go-contactbook"
	KeyringService    = "com.github.tartampluch.go-contactbook"
	LocalhostBindAddr = "127.0.0.1"
	EnvPrefix         = "CONTACTBOOK_"
	SettingsFileName  = "settings.yaml"
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
	// Used for exported vCard and iCalendar files.
	FilePermUserRW fs.FileMode = 0600

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// Field Contracts
// -----------------------------------------------------------------------------

const (
	// PhoneDigits is the exact number of decimal digits in a valid phone number.
	PhoneDigits = 10

	// BirthdayPattern accepts "yyyy-m-d" or "d-m-yyyy" with '-', ' ', '/' or '.' separators.
	BirthdayPattern    = `^(\d{4}[- /.]\d{1,2}[- /.]\d{1,2}|\d{1,2}[- /.]\d{1,2}[- /.]\d{4})$`
	BirthdaySeparators = "- /."
	YearTokenLength    = 4

	PhoneJoinSeparator = "; "
	FormatRecord       = "Contact name: %s, phones: %s"
	FormatBookLine     = "%s : %s\n"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	PolicyNameStrict     = "strict"
	PolicyNameLenient    = "lenient"
	DefaultPolicy        = PolicyNameStrict
	DefaultPort          = "18080"
	DefaultLanguage      = "en"
	DefaultBatchSize     = 10
	DefaultReminder      = ""
	UIDNamespace         = "go-contactbook-v1"
	HoursPerDay          = 24
	BirthdayUnknownValue = "-"
)

// SupportedLanguages defines the list of available CLI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "uk"}

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Contactbook//Engine//EN"
	ICalCalName   = "Birthdays"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "gocontactbook"

	// iCal Fields
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

	DefaultICalRefresh = 1 * time.Hour
)

// -----------------------------------------------------------------------------
// Data Formats
// -----------------------------------------------------------------------------

const (
	// Date layouts accepted in vCard BDAY fields, normalized before validation.
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"

	FormatUID = "%s-%d@%s"

	ExtVCF   = ".vcf"
	ExtVCard = ".vcard"
	ExtICS   = ".ics"
)

// -----------------------------------------------------------------------------
// Limits
// -----------------------------------------------------------------------------

const (
	MinPort      = 1
	MaxPort      = 65535
	MinBatchSize = 1
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
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 64 * 1024 * 1024 // 64MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	AddrSeparator       = ":"

	RouteRoot     = "/"
	RouteCalendar = "/birthdays.ics"
	RouteContacts = "/contacts.vcf"
	RouteMetrics  = "/metrics"
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
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeTextVCard       = "text/vcard; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Validation Messages
// -----------------------------------------------------------------------------

const (
	ErrMsgPhone          = "phone number must contain 10 digits"
	ErrMsgBirthdayFormat = "the date format must match (yyyy mm dd),(dd mm yyyy)"
	ErrMsgBirthdayFuture = "date of birth is greater than the current date"
	ErrMsgBirthdayDate   = "invalid calendar date"
	ErrMsgNameEmpty      = "name must not be empty"
	ErrMsgBatchSize      = "batch size must be at least 1"
	ErrMsgPolicy         = "unknown validation policy"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrValidation       = "validation failed"
	ErrNotFound         = "not found"
	ErrPhoneNotFound    = "phone not found"
	ErrContactNotFound  = "contact not found"
	ErrNoBirthday       = "no birthday set"
	ErrExhausted        = "sequence exhausted"
	ErrConcurrentMod    = "address book modified during iteration"
	ErrSourceMissing    = "configuration error: either a file or a URL is required"
	ErrSourceAmbiguous  = "configuration error: file and URL are mutually exclusive"
	ErrFetcherMissing   = "internal error: network fetcher is not initialized"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrPortNumber       = "server port must be a number"
	ErrPortRange        = "server port must be between 1 and 65535"
	ErrLanguage         = "unsupported language"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrVCardParse       = "failed to parse vCard stream"
	ErrVCardEncode      = "failed to encode vCard data"
	ErrVCardRecord      = "failed to import vCard record"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrSettingsRead     = "failed to read settings"
	ErrSettingsParse    = "failed to parse settings"
	ErrSettingsEnv      = "failed to apply environment overrides"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrWriteFile        = "failed to write output file"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrKeyringGet       = "failed to read password from keyring"
	ErrKeyringSet       = "failed to store password in keyring"
	ErrKeyringUserEmpty = "keyring user must not be empty"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Address book initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackSummary    = "Birthday: %s"
	FallbackSummaryAge = "Birthday: %s (%d)"
	FallbackName       = "Unknown"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	MsgVersionOutput = "%s version %s (%s/%s)\n"
	MsgIgnoredError  = "Validation failure ignored"
	MsgSkippedCard   = "Skipping malformed vCard"
	MsgImportDone    = "vCard import finished"
	MsgExportDone    = "vCard export finished"
	MsgGenSuccess    = "Calendar generation successful"
	MsgAppStarting   = "Starting application"
	MsgAppStop       = "Application stopped gracefully"
	MsgServerListen  = "HTTP server listening"
	MsgServerStop    = "Shutting down HTTP server..."
	MsgCacheUpdated  = "Served content updated"
	MsgLocaleSkip    = "Skipping non-locale file"
	MsgLocaleBadName = "Skipping malformed locale filename"
	MsgLocaleLoaded  = "Locale loaded successfully"
	MsgTransMissing  = "Missing translation key"
	MsgPassFail      = "Password retrieval failed (might be empty)"
	MsgBdayToday     = "Birthday found today"
	MsgSettingsNone  = "No settings file, using defaults"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyDaysToBirthday = "days_to_birthday" // Requires Name, Days
	TKeyBirthdayToday  = "birthday_today"   // Requires Name
	TKeyNoBirthday     = "no_birthday"      // Requires Name
	TKeyBatchHeader    = "batch_header"     // Requires Index, Count
	TKeyNotFound       = "contact_not_found"
	TKeyValid          = "value_valid"      // Requires Value
	TKeyEvtSummary     = "event_summary"    // Requires Name
	TKeyEvtSummaryAge  = "event_summary_age" // Requires Name, Age
	TKeyEmptyBook      = "empty_book"
	TKeyPasswordSaved  = "password_saved" // Requires User
	TKeyFileWritten    = "file_written"   // Requires Path
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyPolicy    = "policy"
	LogKeyUser      = "user"
	LogKeyTotal     = "total_cards"
	LogKeyImported  = "contacts_imported"
	LogKeyFound     = "birthdays_found"
	LogKeyToday     = "birthdays_today"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyRoute     = "route"
	LogKeyValue     = "value"
	LogKeyField     = "field"
	LogKeyStats     = "stats"
	LogKeyCount     = "count"
	LogKeyName      = "name"
	LogKeyDOB       = "date_of_birth"
	LogKeyDuration  = "duration_ms"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
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
	CompContact  = "contact"
	CompEngine   = "engine"
	CompCodec    = "vcard"
	CompServer   = "server"
	CompFetcher  = "fetcher"
	CompMain     = "main"
	CompI18n     = "i18n"
	CompSettings = "settings"
	CompKeyring  = "keyring"
)

package constants

// Context keys
const (
	ContextTokenData = "token_data"
	ContextRequestID = "request_id"
)

// Database pool settings
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Scheduling defaults. Working hours are expressed in the configured
// schedule timezone; candidate starts are generated on the hour.
const (
	WorkingHoursStart        = 9
	WorkingHoursEnd          = 17
	DefaultDurationMinutes   = 60
	DefaultHorizonWeekdays   = 10
	MaxAlternativeSlots      = 3
	FallbackSlotHour         = 10
	FetchTimeoutSeconds      = 3
	BusyCacheTTLSeconds      = 60
	SuggestionCacheTTLSecond = 30
)

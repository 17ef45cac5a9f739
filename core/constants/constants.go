package constants

import "time"

// Context keys
const (
	ContextTokenData = "token_data"
)

// Timeouts
const (
	DefaultTimeout        = 10 * time.Second
	DefaultRequestTimeout = 30 * time.Second
	ShutdownTimeout       = 15 * time.Second
)

// Database pool settings
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Redis key prefixes
const (
	RedisKeyBusyIntervals = "busy_intervals:"
	RedisKeyTokenBlock    = "token_block:"
)

// BusyCacheTTL bounds how long fetched busy intervals may be reused
// before a fresh provider fetch is required.
const BusyCacheTTL = 5 * time.Minute

// Asynq task queues
const (
	QueueDefault = "default"
)

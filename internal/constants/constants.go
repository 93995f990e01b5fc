package constants

import "time"

const (
	// MaxReplayPages caps how many catalog pages one fetch may walk.
	// The service itself stops serving data beyond this.
	MaxReplayPages = 100

	UserRefreshTTL = 5 * time.Minute
	LastFetchDelay = 10 * time.Second
)

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
	FetchTimeout       = 2 * time.Minute
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	DefaultReplayListLimit = 100
)

const APITimeFormat = time.RFC3339

package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "bouncebook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultBusinessTimeZone       = "America/Chicago"
	DefaultHoldTTL                = 15 * time.Minute
	DefaultBlockLockTTL           = 10 * time.Second
	DefaultDefaultLeadTimeHours   = 24
	DefaultRescheduleHorizonDays  = 60
	DefaultAvailabilityWindowDays = 30
	DefaultHoldReaperInterval     = 5 * time.Minute

	DefaultEventsEnabled = false

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultAvailabilityBaseURL = "http://localhost:8081"
	DefaultReservationsBaseURL = "http://localhost:8082"

	DefaultPaginationLimit = 100
)

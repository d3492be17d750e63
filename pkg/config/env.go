package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvBusinessTimeZone       = "BUSINESS_TIME_ZONE"
	EnvHoldTTL                = "HOLD_TTL"
	EnvBlockLockTTL           = "BLOCK_LOCK_TTL"
	EnvDefaultLeadTimeHours   = "DEFAULT_LEAD_TIME_HOURS"
	EnvRescheduleHorizonDays  = "RESCHEDULE_HORIZON_DAYS"
	EnvAvailabilityWindowDays = "AVAILABILITY_WINDOW_DAYS"
	EnvHoldReaperInterval     = "HOLD_REAPER_INTERVAL"

	EnvPaymentWebhookSecret = "PAYMENT_WEBHOOK_SECRET"
	EnvEventsEnabled        = "EVENTS_ENABLED"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvAvailabilityBaseURL = "AVAILABILITY_BASE_URL"
	EnvReservationsBaseURL = "RESERVATIONS_BASE_URL"
)

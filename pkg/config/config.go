package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"bouncebook/pkg/client"
	"bouncebook/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	BusinessTimeZone       string
	HoldTTL                time.Duration
	BlockLockTTL           time.Duration
	DefaultLeadTimeHours   int
	RescheduleHorizonDays  int
	AvailabilityWindowDays int
	HoldReaperInterval     time.Duration

	PaymentWebhookSecret string
	EventsEnabled        bool

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	AvailabilityBaseURL string
	ReservationsBaseURL string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		BusinessTimeZone:       getEnvStr(EnvBusinessTimeZone, DefaultBusinessTimeZone),
		HoldTTL:                getEnvDuration(EnvHoldTTL, DefaultHoldTTL),
		BlockLockTTL:           getEnvDuration(EnvBlockLockTTL, DefaultBlockLockTTL),
		DefaultLeadTimeHours:   getEnvNum(EnvDefaultLeadTimeHours, DefaultDefaultLeadTimeHours),
		RescheduleHorizonDays:  getEnvNum(EnvRescheduleHorizonDays, DefaultRescheduleHorizonDays),
		AvailabilityWindowDays: getEnvNum(EnvAvailabilityWindowDays, DefaultAvailabilityWindowDays),
		HoldReaperInterval:     getEnvDuration(EnvHoldReaperInterval, DefaultHoldReaperInterval),

		PaymentWebhookSecret: getEnvStr(EnvPaymentWebhookSecret, ""),
		EventsEnabled:        getEnvBool(EnvEventsEnabled, DefaultEventsEnabled),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		AvailabilityBaseURL: getEnvStr(EnvAvailabilityBaseURL, DefaultAvailabilityBaseURL),
		ReservationsBaseURL: getEnvStr(EnvReservationsBaseURL, DefaultReservationsBaseURL),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	if _, err := time.LoadLocation(cfg.BusinessTimeZone); err != nil {
		errors = append(errors, fmt.Sprintf("BusinessTimeZone is not a valid IANA zone, got: %s", cfg.BusinessTimeZone))
	}
	if cfg.HoldTTL <= 0 {
		errors = append(errors, fmt.Sprintf("HoldTTL must be positive, got: %s", cfg.HoldTTL))
	}
	if cfg.BlockLockTTL <= 0 {
		errors = append(errors, fmt.Sprintf("BlockLockTTL must be positive, got: %s", cfg.BlockLockTTL))
	}
	if cfg.DefaultLeadTimeHours < 0 {
		errors = append(errors, fmt.Sprintf("DefaultLeadTimeHours cannot be negative, got: %d", cfg.DefaultLeadTimeHours))
	}
	if cfg.RescheduleHorizonDays <= 0 {
		errors = append(errors, fmt.Sprintf("RescheduleHorizonDays must be positive, got: %d", cfg.RescheduleHorizonDays))
	}
	if cfg.AvailabilityWindowDays <= 0 {
		errors = append(errors, fmt.Sprintf("AvailabilityWindowDays must be positive, got: %d", cfg.AvailabilityWindowDays))
	}
	if cfg.HoldReaperInterval <= 0 {
		errors = append(errors, fmt.Sprintf("HoldReaperInterval must be positive, got: %s", cfg.HoldReaperInterval))
	}

	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"business_time_zone", cfg.BusinessTimeZone,
		"hold_ttl", cfg.HoldTTL,
		"block_lock_ttl", cfg.BlockLockTTL,
		"default_lead_time_hours", cfg.DefaultLeadTimeHours,
		"reschedule_horizon_days", cfg.RescheduleHorizonDays,
		"availability_window_days", cfg.AvailabilityWindowDays,
		"hold_reaper_interval", cfg.HoldReaperInterval,
		"payment_webhook_secret_set", cfg.PaymentWebhookSecret != "",
		"events_enabled", cfg.EventsEnabled,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}

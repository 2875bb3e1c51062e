package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "ambulink"
	DefaultMongoConnTimeout  = 10 * time.Second
	DefaultUseTransactions   = false

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultJWTTTL = 24 * time.Hour

	DefaultRedisDB          = 0
	DefaultSettingsCacheTTL = 5 * time.Minute

	DefaultKafkaEnabled          = false
	DefaultBookingEventsTopic    = "booking-events"
	DefaultBookingEventsDLQTopic = "booking-events-dlq"
	DefaultReconcilerGroupID     = "availability-reconciler"

	// Emergency auto-assignment searches this far around the pickup point.
	DefaultEmergencyRadiusMeters = 10000
	DefaultAutoAssignCandidates  = 3

	DefaultPaginationLimit = 100
	FallbackPageSize       = 10
)

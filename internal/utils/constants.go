package utils

import "time"

// =============================================================================
// Timeout Constants
// =============================================================================

const (
	// DefaultRequestTimeout is the default timeout for HTTP requests
	DefaultRequestTimeout = 30 * time.Second

	// CacheOperationTimeout bounds a single report cache round-trip
	CacheOperationTimeout = 2 * time.Second

	// PublishTimeout bounds publishing one report to the queue
	PublishTimeout = 5 * time.Second

	// ShutdownTimeout is the grace period for HTTP server shutdown
	ShutdownTimeout = 10 * time.Second
)

// =============================================================================
// Analysis Constants
// =============================================================================

const (
	// DefaultWindowLength is the default trailing window, in rows
	DefaultWindowLength = 20

	// DefaultMaxRows caps the number of rows accepted in one table
	DefaultMaxRows = 1_000_000

	// DefaultReportTTL is how long cached reports live
	DefaultReportTTL = time.Hour
)

// =============================================================================
// Queue Subjects
// =============================================================================

const (
	// SubjectJobs carries analysis jobs to workers
	SubjectJobs = "gapscan.jobs"

	// SubjectReports carries finished reports
	SubjectReports = "gapscan.reports"
)

// =============================================================================
// Queue Type Constants
// =============================================================================
// QueueType represents the type of message queue
type QueueType string

const (
	// QueueTypeNATS represents NATS JetStream queue (default)
	QueueTypeNATS QueueType = "nats"

	// QueueTypeRedis represents Redis Streams queue
	QueueTypeRedis QueueType = "redis"

	// QueueTypeKafka represents Apache Kafka queue
	QueueTypeKafka QueueType = "kafka"

	// QueueTypeMemory represents in-memory queue (for testing)
	QueueTypeMemory QueueType = "memory"
)

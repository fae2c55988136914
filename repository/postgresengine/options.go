package postgresengine

import (
	"github.com/AntonStoeckl/dynamic-filter-repository-go/repository"
)

// Logger interface for SQL query logging, operational summaries, warnings, and error reporting.
type Logger = repository.Logger

// ContextualLogger interface for context-aware logging with automatic trace correlation.
type ContextualLogger = repository.ContextualLogger

// MetricsCollector interface for collecting repository performance and operational metrics.
type MetricsCollector = repository.MetricsCollector

// TracingCollector interface for collecting distributed tracing information from repository operations.
type TracingCollector = repository.TracingCollector

// options collects everything an Option can configure, hooks stay untyped until the
// repository constructor checks them against its entity type.
type options struct {
	hooks            any
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
}

// Option defines a functional option for configuring a Repository.
type Option func(*options) error

// WithHooks sets the lifecycle hooks of the Repository.
// The hooks' entity type must match the repository's entity type, otherwise construction fails with ErrHooksTypeMismatch.
func WithHooks[T any](hooks repository.Hooks[T]) Option {
	return func(o *options) error {
		o.hooks = hooks
		return nil
	}
}

// WithLogger sets the logger for the Repository.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL statements with execution timing (development use)
// Info level: Row counts and durations per operation (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Repository.
// It receives the same messages as the Logger, together with the operation's context
// for trace/span correlation.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(o *options) error {
		o.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Repository.
// The collector will receive query/write durations, row counts and database errors.
func WithMetrics(collector MetricsCollector) Option {
	return func(o *options) error {
		o.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Repository.
// The collector will receive a span per repository operation with its outcome.
func WithTracing(collector TracingCollector) Option {
	return func(o *options) error {
		o.tracingCollector = collector
		return nil
	}
}

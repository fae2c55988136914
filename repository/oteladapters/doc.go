// Package oteladapters provides OpenTelemetry adapters for the repository observability interfaces.
//
// Wire them into a postgresengine.Repository with WithTracing, WithMetrics and WithContextualLogger:
//
//	repo, err := postgresengine.NewRepositoryFromPGXPool(db, mapping,
//		postgresengine.WithTracing(oteladapters.NewTracingCollector(otel.Tracer("users"))),
//		postgresengine.WithMetrics(oteladapters.NewMetricsCollector(otel.Meter("users"))),
//		postgresengine.WithContextualLogger(oteladapters.NewSlogBridgeLogger("users")),
//	)
package oteladapters

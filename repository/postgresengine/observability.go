package postgresengine

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/AntonStoeckl/dynamic-filter-repository-go/repository"
)

const (
	metricQueryDuration  = "repository_query_duration_seconds"
	metricRowsQueried    = "repository_rows_queried"
	metricWriteDuration  = "repository_write_duration_seconds"
	metricRowsAffected   = "repository_rows_affected"
	metricDatabaseErrors = "repository_database_errors_total"
	metricAmbiguous      = "repository_ambiguous_results_total"

	spanNamePrefix       = "repository."
	spanAttrOperation    = "operation"
	spanAttrEntity       = "entity"
	spanAttrTable        = "table"
	spanAttrRowCount     = "row_count"
	spanAttrDurationMS   = "duration_ms"
	spanAttrErrorType    = "error_type"
	metricLabelStatus    = "status"
	statusSuccess        = "success"
	statusError          = "error"
	errorTypeBuildQuery  = "build_query"
	errorTypeFilter      = "invalid_filter"
	errorTypeDBQuery     = "database_query"
	errorTypeDBExec      = "database_exec"
	errorTypeRowScan     = "row_scan"
	errorTypeRowsAffect  = "rows_affected"
	errorTypeHook        = "hook"
	errorTypeNotFound    = "not_found"
	errorTypeAmbiguous   = "ambiguous_result"
	errorTypeInsertRows  = "insert_row_count"
	operationQuery       = "query"
	operationInsert      = "insert"
	operationUpdate      = "update"
	operationDelete      = "delete"
	durationFormatMillis = "%.2f"
)

// instrumentation bundles the optional observability collaborators of a Repository.
// Every collaborator may be nil.
type instrumentation struct {
	entity           string
	table            string
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
}

func newInstrumentation(schema repository.Schema, o options) instrumentation {
	return instrumentation{
		entity:           schema.EntityName(),
		table:            schema.Table(),
		logger:           o.logger,
		contextualLogger: o.contextualLogger,
		metricsCollector: o.metricsCollector,
		tracingCollector: o.tracingCollector,
	}
}

// === Logging ===

// logQueryWithDuration logs SQL statements with execution time at debug level.
func (in *instrumentation) logQueryWithDuration(
	ctx context.Context,
	sqlQuery string,
	action string,
	duration time.Duration,
) {

	args := []any{logAttrEntity, in.entity, logAttrDurationMS, in.toMilliseconds(duration), logAttrQuery, sqlQuery}

	if in.logger != nil {
		in.logger.Debug(logMsgSQLExecuted+action, args...)
	}

	if in.contextualLogger != nil {
		in.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, args...)
	}
}

// logOperation logs operational information at info level.
func (in *instrumentation) logOperation(ctx context.Context, action string, args ...any) {
	allArgs := append([]any{logAttrEntity, in.entity}, args...)

	if in.logger != nil {
		in.logger.Info(logMsgOperation+action, allArgs...)
	}

	if in.contextualLogger != nil {
		in.contextualLogger.InfoContext(ctx, logMsgOperation+action, allArgs...)
	}
}

// logWarn logs non-critical problems at warn level.
func (in *instrumentation) logWarn(ctx context.Context, message string, err error) {
	if in.logger != nil {
		in.logger.Warn(message, logAttrEntity, in.entity, logAttrError, err.Error())
	}

	if in.contextualLogger != nil {
		in.contextualLogger.WarnContext(ctx, message, logAttrEntity, in.entity, logAttrError, err.Error())
	}
}

// logError logs error information at the error level.
func (in *instrumentation) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrEntity, in.entity, logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if in.logger != nil {
		in.logger.Error(message, allArgs...)
	}

	if in.contextualLogger != nil {
		in.contextualLogger.ErrorContext(ctx, message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (in *instrumentation) toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// === Metrics ===

func (in *instrumentation) recordDuration(ctx context.Context, metric string, d time.Duration, labels map[string]string) {
	if in.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := in.metricsCollector.(repository.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metric, d, labels)
		return
	}

	in.metricsCollector.RecordDuration(metric, d, labels)
}

func (in *instrumentation) recordValue(ctx context.Context, metric string, value float64, labels map[string]string) {
	if in.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := in.metricsCollector.(repository.ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metric, value, labels)
		return
	}

	in.metricsCollector.RecordValue(metric, value, labels)
}

func (in *instrumentation) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if in.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := in.metricsCollector.(repository.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metric, labels)
		return
	}

	in.metricsCollector.IncrementCounter(metric, labels)
}

// recordAmbiguousResult counts single-result lookups that matched more than one row.
func (in *instrumentation) recordAmbiguousResult(ctx context.Context) {
	in.incrementCounter(ctx, metricAmbiguous, map[string]string{
		spanAttrOperation: operationQuery,
		spanAttrEntity:    in.entity,
		spanAttrErrorType: errorTypeAmbiguous,
	})
}

// === Operation Observer ===
// The observer bundles span lifecycle and metrics recording of one repository operation.

type operationObserver struct {
	in        *instrumentation
	ctx       context.Context
	operation string
	span      repository.SpanContext
}

// startOperation starts a span (if tracing is configured) and returns an observer for the operation.
func (in *instrumentation) startOperation(ctx context.Context, operation string) (*operationObserver, context.Context) {
	var span repository.SpanContext

	if in.tracingCollector != nil {
		ctx, span = in.tracingCollector.StartSpan(ctx, spanNamePrefix+operation, map[string]string{
			spanAttrOperation: operation,
			spanAttrEntity:    in.entity,
			spanAttrTable:     in.table,
		})
	}

	return &operationObserver{in: in, ctx: ctx, operation: operation, span: span}, ctx
}

func (o *operationObserver) labels(status string) map[string]string {
	return map[string]string{
		spanAttrOperation: o.operation,
		spanAttrEntity:    o.in.entity,
		metricLabelStatus: status,
	}
}

func (o *operationObserver) durationMetric() string {
	if o.operation == operationQuery {
		return metricQueryDuration
	}

	return metricWriteDuration
}

func (o *operationObserver) rowsMetric() string {
	if o.operation == operationQuery {
		return metricRowsQueried
	}

	return metricRowsAffected
}

// finishSuccess completes the span and records metrics for a successful operation.
func (o *operationObserver) finishSuccess(rowCount int, duration time.Duration) {
	o.in.recordDuration(o.ctx, o.durationMetric(), duration, o.labels(statusSuccess))
	o.in.recordValue(o.ctx, o.rowsMetric(), float64(rowCount), o.labels(statusSuccess))

	if o.span == nil {
		return
	}

	o.span.SetStatus(statusSuccess)
	o.span.AddAttribute(spanAttrDurationMS, fmt.Sprintf(durationFormatMillis, o.in.toMilliseconds(duration)))

	o.in.tracingCollector.FinishSpan(o.span, statusSuccess, map[string]string{
		spanAttrRowCount: strconv.Itoa(rowCount),
	})
}

// finishError completes the span and records metrics for a failed operation.
// Database error counters are only incremented for failures reported by the database.
func (o *operationObserver) finishError(errorType string, duration time.Duration) {
	o.in.recordDuration(o.ctx, o.durationMetric(), duration, o.labels(statusError))

	switch errorType {
	case errorTypeDBQuery, errorTypeDBExec, errorTypeRowScan, errorTypeRowsAffect:
		labels := o.labels(statusError)
		labels[spanAttrErrorType] = errorType
		o.in.incrementCounter(o.ctx, metricDatabaseErrors, labels)
	}

	if o.span == nil {
		return
	}

	o.span.SetStatus(statusError)
	o.span.AddAttribute(spanAttrErrorType, errorType)

	if duration > 0 {
		o.span.AddAttribute(spanAttrDurationMS, fmt.Sprintf(durationFormatMillis, o.in.toMilliseconds(duration)))
	}

	o.in.tracingCollector.FinishSpan(o.span, statusError, map[string]string{spanAttrErrorType: errorType})
}

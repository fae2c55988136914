package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/dynamic-filter-repository-go/repository"
	"github.com/AntonStoeckl/dynamic-filter-repository-go/repository/postgresengine/internal/adapters"
)

const (
	logMsgBuildQueryFailed   = "failed to build sql statement"
	logMsgInvalidFilter      = "invalid filter"
	logMsgDBQueryFailed      = "database query execution failed"
	logMsgDBExecFailed       = "database statement execution failed"
	logMsgCloseRowsFailed    = "failed to close database rows"
	logMsgScanRowFailed      = "failed to scan database row"
	logMsgRowsAffectedFailed = "failed to get rows affected count"
	logMsgHookFailed         = "lifecycle hook failed"
	logMsgEntityNotFound     = "no row affected"
	logMsgAmbiguousResult    = "single-result lookup matched more than one row"
	logMsgQueryCompleted     = "query completed"
	logMsgEntityInserted     = "entity inserted"
	logMsgEntityUpdated      = "entity updated"
	logMsgEntityDeleted      = "entity deleted"
	logMsgSQLExecuted        = "executed sql for: "
	logMsgOperation          = "repository operation: "
	logAttrError             = "error"
	logAttrQuery             = "query"
	logAttrEntity            = "entity"
	logAttrRowCount          = "row_count"
	logAttrDurationMS        = "duration_ms"
	logAttrRowsAffected      = "rows_affected"
	logAttrProperties        = "properties"
)

type (
	sqlQueryString    = string
	rowsAffectedInt64 = int64
)

// Repository is the CRUD and query facade for one entity type T stored in PostgreSQL.
//
// A Repository holds no per-call state. It is safe for concurrent use
// as long as the underlying database handle is.
type Repository[T any] struct {
	db      adapters.DBAdapter
	mapping repository.Mapping[T]
	hooks   repository.Hooks[T]
	obs     instrumentation
}

// NewRepositoryFromPGXPool creates a new Repository using a pgx Pool with optional configuration.
func NewRepositoryFromPGXPool[T any](
	db *pgxpool.Pool,
	mapping repository.Mapping[T],
	opts ...Option,
) (*Repository[T], error) {

	if db == nil {
		return nil, repository.ErrNilDatabaseConnection
	}

	return newRepository(adapters.NewPGXAdapter(db), mapping, opts...)
}

// NewRepositoryFromPGXPoolWithReplica creates a new Repository using a primary and a replica pgx Pool.
// Reads run on the replica only for contexts marked with repository.WithEventualConsistency.
func NewRepositoryFromPGXPoolWithReplica[T any](
	db *pgxpool.Pool,
	replica *pgxpool.Pool,
	mapping repository.Mapping[T],
	opts ...Option,
) (*Repository[T], error) {

	if db == nil || replica == nil {
		return nil, repository.ErrNilDatabaseConnection
	}

	return newRepository(adapters.NewPGXAdapterWithReplica(db, replica), mapping, opts...)
}

// NewRepositoryFromSQLDB creates a new Repository using a sql.DB with optional configuration.
func NewRepositoryFromSQLDB[T any](
	db *sql.DB,
	mapping repository.Mapping[T],
	opts ...Option,
) (*Repository[T], error) {

	if db == nil {
		return nil, repository.ErrNilDatabaseConnection
	}

	return newRepository(adapters.NewSQLAdapter(db), mapping, opts...)
}

// NewRepositoryFromSQLX creates a new Repository using a sqlx.DB with optional configuration.
func NewRepositoryFromSQLX[T any](
	db *sqlx.DB,
	mapping repository.Mapping[T],
	opts ...Option,
) (*Repository[T], error) {

	if db == nil {
		return nil, repository.ErrNilDatabaseConnection
	}

	return newRepository(adapters.NewSQLXAdapter(db), mapping, opts...)
}

func newRepository[T any](db adapters.DBAdapter, mapping repository.Mapping[T], opts ...Option) (*Repository[T], error) {
	if err := mapping.Validate(); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}

	r := &Repository[T]{
		db:      db,
		mapping: mapping,
		obs:     newInstrumentation(mapping.Schema, o),
	}

	if o.hooks != nil {
		hooks, ok := o.hooks.(repository.Hooks[T])
		if !ok {
			return nil, fmt.Errorf("%w: got %T", repository.ErrHooksTypeMismatch, o.hooks)
		}
		r.hooks = hooks
	}

	return r, nil
}

// Schema returns the schema the Repository was built for.
func (r *Repository[T]) Schema() repository.Schema {
	return r.mapping.Schema
}

/***** Writes *****/

// Insert runs the Consist and BeforeInsert hooks, inserts the entity and returns the stored row,
// including database-generated values, after the AfterInsert hook.
func (r *Repository[T]) Insert(ctx context.Context, entity T) (T, error) {
	var empty T

	observer, ctx := r.obs.startOperation(ctx, operationInsert)

	entity, hookErr := r.hooks.RunBeforeInsert(ctx, entity)
	if hookErr != nil {
		return empty, r.failHook(ctx, observer, hookErr)
	}

	sqlQuery, buildErr := buildInsertSQL(r.mapping.Schema, r.mapping.Values(entity))
	if buildErr != nil {
		r.obs.logError(ctx, logMsgBuildQueryFailed, buildErr)
		observer.finishError(errorTypeBuildQuery, 0)
		return empty, buildErr
	}

	// INSERT ... RETURNING is a query, it must never be routed to a replica.
	rows, duration, queryErr := r.executeQuery(repository.WithStrongConsistency(ctx), sqlQuery, operationInsert)
	if queryErr != nil {
		observer.finishError(errorTypeDBQuery, duration)
		return empty, queryErr
	}
	defer r.closeRows(ctx, rows)

	stored, scanErr := collectRows(rows, r.scanEntity)
	if scanErr != nil {
		r.obs.logError(ctx, logMsgScanRowFailed, scanErr)
		observer.finishError(errorTypeRowScan, duration)
		return empty, scanErr
	}

	if len(stored) != 1 {
		err := fmt.Errorf("%w: insert returned %d rows", repository.ErrUnexpectedInsertRows, len(stored))
		r.obs.logError(ctx, logMsgDBExecFailed, err)
		observer.finishError(errorTypeInsertRows, duration)
		return empty, err
	}

	entity, hookErr = r.hooks.RunAfterInsert(ctx, stored[0])
	if hookErr != nil {
		return empty, r.failHook(ctx, observer, hookErr)
	}

	r.obs.logOperation(ctx, logMsgEntityInserted, logAttrDurationMS, r.obs.toMilliseconds(duration))
	observer.finishSuccess(1, duration)

	return entity, nil
}

// Update runs the Consist and BeforeUpdate hooks, updates the row identified by the entity's id
// and returns the entity after the AfterUpdate hook.
// It fails with repository.ErrEntityNotFound when no row has that id.
func (r *Repository[T]) Update(ctx context.Context, entity T) (T, error) {
	var empty T

	observer, ctx := r.obs.startOperation(ctx, operationUpdate)

	entity, hookErr := r.hooks.RunBeforeUpdate(ctx, entity)
	if hookErr != nil {
		return empty, r.failHook(ctx, observer, hookErr)
	}

	sqlQuery, buildErr := buildUpdateSQL(r.mapping.Schema, r.mapping.ID(entity), r.mapping.Values(entity))
	if buildErr != nil {
		r.obs.logError(ctx, logMsgBuildQueryFailed, buildErr)
		observer.finishError(errorTypeBuildQuery, 0)
		return empty, buildErr
	}

	rowsAffected, duration, writeErr := r.executeWrite(ctx, observer, sqlQuery, operationUpdate)
	if writeErr != nil {
		return empty, writeErr
	}

	entity, hookErr = r.hooks.RunAfterUpdate(ctx, entity)
	if hookErr != nil {
		return empty, r.failHook(ctx, observer, hookErr)
	}

	r.obs.logOperation(ctx, logMsgEntityUpdated, logAttrRowsAffected, rowsAffected, logAttrDurationMS, r.obs.toMilliseconds(duration))
	observer.finishSuccess(int(rowsAffected), duration)

	return entity, nil
}

// Delete runs the BeforeDelete hook, deletes the row identified by the entity's id
// and returns the entity after the AfterDelete hook.
// It fails with repository.ErrEntityNotFound when no row has that id.
func (r *Repository[T]) Delete(ctx context.Context, entity T) (T, error) {
	var empty T

	observer, ctx := r.obs.startOperation(ctx, operationDelete)

	entity, hookErr := r.hooks.RunBeforeDelete(ctx, entity)
	if hookErr != nil {
		return empty, r.failHook(ctx, observer, hookErr)
	}

	sqlQuery, buildErr := buildDeleteSQL(r.mapping.Schema, r.mapping.ID(entity))
	if buildErr != nil {
		r.obs.logError(ctx, logMsgBuildQueryFailed, buildErr)
		observer.finishError(errorTypeBuildQuery, 0)
		return empty, buildErr
	}

	rowsAffected, duration, writeErr := r.executeWrite(ctx, observer, sqlQuery, operationDelete)
	if writeErr != nil {
		return empty, writeErr
	}

	entity, hookErr = r.hooks.RunAfterDelete(ctx, entity)
	if hookErr != nil {
		return empty, r.failHook(ctx, observer, hookErr)
	}

	r.obs.logOperation(ctx, logMsgEntityDeleted, logAttrRowsAffected, rowsAffected, logAttrDurationMS, r.obs.toMilliseconds(duration))
	observer.finishSuccess(int(rowsAffected), duration)

	return entity, nil
}

// Detach returns the entity unchanged. Entities read through a Repository are plain values
// without a persistence context, so there is nothing to detach them from.
func (r *Repository[T]) Detach(_ context.Context, entity T) T {
	return entity
}

// executeWrite executes an UPDATE or DELETE that must affect at least one row.
// The observer is only finished on failure, success is reported by the caller once the after-hook ran.
func (r *Repository[T]) executeWrite(
	ctx context.Context,
	observer *operationObserver,
	sqlQuery sqlQueryString,
	action string,
) (rowsAffectedInt64, time.Duration, error) {

	start := time.Now()
	result, execErr := r.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	r.obs.logQueryWithDuration(ctx, sqlQuery, action, duration)

	if execErr != nil {
		r.obs.logError(ctx, logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		observer.finishError(errorTypeDBExec, duration)
		return 0, duration, errors.Join(repository.ErrExecutingFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		r.obs.logError(ctx, logMsgRowsAffectedFailed, rowsAffectedErr)
		observer.finishError(errorTypeRowsAffect, duration)
		return 0, duration, errors.Join(repository.ErrGettingRowsAffected, rowsAffectedErr)
	}

	if rowsAffected == rowsAffectedInt64(0) {
		r.obs.logOperation(ctx, logMsgEntityNotFound, logAttrRowsAffected, rowsAffected)
		observer.finishError(errorTypeNotFound, duration)
		return 0, duration, fmt.Errorf("%w: %s", repository.ErrEntityNotFound, r.mapping.Schema.EntityName())
	}

	return rowsAffected, duration, nil
}

func (r *Repository[T]) failHook(ctx context.Context, observer *operationObserver, err error) error {
	r.obs.logError(ctx, logMsgHookFailed, err)
	observer.finishError(errorTypeHook, 0)

	return err
}

/***** Reads *****/

// FindByID returns the entity with the given id. found is false when no row has that id.
func (r *Repository[T]) FindByID(ctx context.Context, id any) (entity T, found bool, err error) {
	idFilter := []repository.FilterTerm{repository.T(r.mapping.Schema.ID().Path, repository.Equal, id)}
	plan := repository.BuildPlan(r.mapping.Schema, idFilter, "", 0, 1)

	entities, err := runQuery(ctx, r, plan, r.scanEntity)
	if err != nil || len(entities) == 0 {
		return entity, false, err
	}

	return entities[0], true, nil
}

// List returns all entities within the pagination window, sorted ascending by sortKey.
// offset <= 0 skips nothing, limit <= 0 caps nothing, an empty sortKey leaves the order to the database.
func (r *Repository[T]) List(ctx context.Context, offset int, limit int, sortKey string) ([]T, error) {
	return runQuery(ctx, r, repository.BuildPlan(r.mapping.Schema, nil, sortKey, offset, limit), r.scanEntity)
}

// FindByProperties returns the entities matching all the predicates of propertyNames and values,
// within the pagination window and sorted ascending by sortKey.
//
//	users, err := repo.FindByProperties(ctx, 0, 20, "login", "level=, age>=", "admin", 30)
func (r *Repository[T]) FindByProperties(
	ctx context.Context,
	offset int,
	limit int,
	sortKey string,
	propertyNames string,
	values ...any,
) ([]T, error) {

	terms, parseErr := r.parseFilter(ctx, propertyNames, values...)
	if parseErr != nil {
		return nil, parseErr
	}

	return runQuery(ctx, r, repository.BuildPlan(r.mapping.Schema, terms, sortKey, offset, limit), r.scanEntity)
}

// FindOneByProperties returns the single entity matching the predicates.
// found is false when nothing matches, repository.ErrAmbiguousResult is returned when more than one row matches.
func (r *Repository[T]) FindOneByProperties(
	ctx context.Context,
	propertyNames string,
	values ...any,
) (entity T, found bool, err error) {

	entities, err := r.FindByProperties(ctx, 0, repository.SingleResultLimit, "", propertyNames, values...)
	if err != nil {
		return entity, false, err
	}

	return single(ctx, &r.obs, entities, r.mapping.Schema.EntityName())
}

// FindFieldsByProperties returns the values of field of all entities matching the predicates,
// within the pagination window and sorted ascending by sortKey.
// F must be a type the database driver can scan the field's column into.
func FindFieldsByProperties[F any, T any](
	ctx context.Context,
	r *Repository[T],
	offset int,
	limit int,
	sortKey string,
	field string,
	propertyNames string,
	values ...any,
) ([]F, error) {

	terms, parseErr := r.parseFilter(ctx, propertyNames, values...)
	if parseErr != nil {
		return nil, parseErr
	}

	plan := repository.BuildProjectionPlan(r.mapping.Schema, field, terms, sortKey, offset, limit)

	return runQuery(ctx, r, plan, scanField[F])
}

// FindFieldByProperties returns the value of field of the single entity matching the predicates.
// found is false when nothing matches, repository.ErrAmbiguousResult is returned when more than one row matches.
func FindFieldByProperties[F any, T any](
	ctx context.Context,
	r *Repository[T],
	field string,
	propertyNames string,
	values ...any,
) (value F, found bool, err error) {

	fieldValues, err := FindFieldsByProperties[F](ctx, r, 0, repository.SingleResultLimit, "", field, propertyNames, values...)
	if err != nil {
		return value, false, err
	}

	return single(ctx, &r.obs, fieldValues, field)
}

func (r *Repository[T]) parseFilter(ctx context.Context, propertyNames string, values ...any) ([]repository.FilterTerm, error) {
	terms, err := repository.ParseFilter(propertyNames, values...)
	if err != nil {
		r.obs.logError(ctx, logMsgInvalidFilter, err, logAttrProperties, propertyNames)
		return nil, err
	}

	return terms, nil
}

func single[R any](ctx context.Context, obs *instrumentation, results []R, subject string) (R, bool, error) {
	var empty R

	switch len(results) {
	case 0:
		return empty, false, nil
	case 1:
		return results[0], true, nil
	default:
		err := fmt.Errorf("%w: more than one %s has been found", repository.ErrAmbiguousResult, subject)
		obs.logError(ctx, logMsgAmbiguousResult, err)
		obs.recordAmbiguousResult(ctx)
		return empty, false, err
	}
}

// runQuery builds the SELECT for plan, executes it and scans every row with scanRow.
func runQuery[T any, R any](
	ctx context.Context,
	r *Repository[T],
	plan repository.QueryPlan,
	scanRow func(adapters.DBRows) (R, error),
) ([]R, error) {

	observer, ctx := r.obs.startOperation(ctx, operationQuery)

	sqlQuery, buildErr := buildSelectSQL(plan)
	if buildErr != nil {
		if errors.Is(buildErr, repository.ErrBuildingQueryFailed) {
			r.obs.logError(ctx, logMsgBuildQueryFailed, buildErr)
			observer.finishError(errorTypeBuildQuery, 0)
		} else {
			r.obs.logError(ctx, logMsgInvalidFilter, buildErr)
			observer.finishError(errorTypeFilter, 0)
		}

		return nil, buildErr
	}

	rows, duration, queryErr := r.executeQuery(ctx, sqlQuery, operationQuery)
	if queryErr != nil {
		observer.finishError(errorTypeDBQuery, duration)
		return nil, queryErr
	}
	defer r.closeRows(ctx, rows)

	results, scanErr := collectRows(rows, scanRow)
	if scanErr != nil {
		r.obs.logError(ctx, logMsgScanRowFailed, scanErr)
		observer.finishError(errorTypeRowScan, duration)
		return nil, scanErr
	}

	r.obs.logOperation(ctx, logMsgQueryCompleted, logAttrRowCount, len(results), logAttrDurationMS, r.obs.toMilliseconds(duration))
	observer.finishSuccess(len(results), duration)

	return results, nil
}

// executeQuery executes the SQL query and returns rows with timing information.
func (r *Repository[T]) executeQuery(ctx context.Context, sqlQuery sqlQueryString, action string) (
	adapters.DBRows,
	time.Duration,
	error,
) {

	start := time.Now()
	rows, queryErr := r.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	r.obs.logQueryWithDuration(ctx, sqlQuery, action, duration)

	if queryErr != nil {
		r.obs.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		return nil, duration, errors.Join(repository.ErrQueryingFailed, queryErr)
	}

	return rows, duration, nil
}

// closeRows safely closes database rows and logs any errors.
func (r *Repository[T]) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		r.obs.logWarn(ctx, logMsgCloseRowsFailed, closeErr)
	}
}

func (r *Repository[T]) scanEntity(rows adapters.DBRows) (T, error) {
	var entity T

	if err := rows.Scan(r.mapping.ScanTargets(&entity)...); err != nil {
		return entity, err
	}

	return entity, nil
}

func scanField[F any](rows adapters.DBRows) (F, error) {
	var value F

	if err := rows.Scan(&value); err != nil {
		return value, err
	}

	return value, nil
}

func collectRows[R any](rows adapters.DBRows, scanRow func(adapters.DBRows) (R, error)) ([]R, error) {
	results := make([]R, 0)

	for rows.Next() {
		result, err := scanRow(rows)
		if err != nil {
			return nil, errors.Join(repository.ErrScanningRowFailed, err)
		}

		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Join(repository.ErrScanningRowFailed, err)
	}

	return results, nil
}

package repository

import (
	"errors"
)

var (
	// ErrArityMismatch is returned when the number of property tokens differs from the number of supplied values.
	ErrArityMismatch = errors.New("number of properties does not match number of values")

	// ErrEmptyPropertyName is returned when a property token is empty once its operator symbol is stripped.
	ErrEmptyPropertyName = errors.New("property name must not be empty")

	// ErrUnknownProperty is returned when a dotted path segment does not exist on its containing type.
	ErrUnknownProperty = errors.New("unknown property")

	// ErrUnknownOperator is returned for an OperatorKind outside the registry.
	ErrUnknownOperator = errors.New("unknown operator")

	// ErrPredicateType is returned when a value does not satisfy the type requirement of its operator.
	ErrPredicateType = errors.New("invalid predicate value type")

	// ErrAmbiguousResult is returned by single-result lookups that matched more than one row.
	ErrAmbiguousResult = errors.New("more than one result has been found")

	// ErrEntityNotFound is returned when an update or delete did not affect any row.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrHookFailed is returned when a lifecycle hook aborted an operation.
	ErrHookFailed = errors.New("lifecycle hook failed")
)

var (
	ErrEmptyEntityName = errors.New("empty entity name supplied")
	ErrEmptyTableName  = errors.New("empty table name supplied")
	ErrEmptyFieldName  = errors.New("empty field name supplied")
	ErrDuplicateField  = errors.New("duplicate field")
	ErrEmptyEmbedded   = errors.New("embedded field must contain at least one field")
	ErrUnknownIDField  = errors.New("id field must be a top-level scalar field of the schema")
	ErrInvalidMapping  = errors.New("mapping must provide ScanTargets, Values and ID")

	// ErrHooksTypeMismatch is returned when hooks for one entity type are passed to a repository of another.
	ErrHooksTypeMismatch = errors.New("hooks do not match the repository entity type")
)

var (
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")
	ErrBuildingQueryFailed   = errors.New("building the query failed")
	ErrQueryingFailed        = errors.New("querying the database failed")
	ErrExecutingFailed       = errors.New("executing the statement failed")
	ErrScanningRowFailed     = errors.New("scanning the database row failed")
	ErrGettingRowsAffected   = errors.New("getting rows affected failed")
	ErrUnexpectedInsertRows  = errors.New("insert did not return exactly one row")
)

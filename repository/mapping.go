package repository

// Mapping carries the reflection-free row mapping of an entity type T.
//
//   - ScanTargets returns pointers into entity, in the order of Schema.Columns().
//   - Values returns the column values to write, keyed by column. The id column may be
//     omitted to let the database generate it on insert.
//   - ID returns the id value of entity.
type Mapping[T any] struct {
	Schema      Schema
	ScanTargets func(entity *T) []any
	Values      func(entity T) map[string]any
	ID          func(entity T) any
}

// Validate ensures the mapping is complete.
func (m Mapping[T]) Validate() error {
	if m.Schema.IsZero() {
		return ErrEmptyTableName
	}

	if m.ScanTargets == nil || m.Values == nil || m.ID == nil {
		return ErrInvalidMapping
	}

	return nil
}

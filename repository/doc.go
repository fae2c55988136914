// Package repository provides the store-agnostic core for building dynamic, filtered
// queries from a compact property-list syntax.
//
// A property list is a comma-separated list of dotted property paths, each optionally
// carrying one operator symbol. Values are supplied positionally:
//
//	terms, err := repository.ParseFilter("login=, age>=, email.address+", "alice", 30, "%@example.com")
//
// Supported operators, in detection order:
//
//	!=  NotEqual
//	>=  GreaterOrEqual
//	<=  LessOrEqual
//	>   GreaterThan
//	<   LessThan
//	+   Like (the value carries the wildcards, e.g. "%abc%")
//	=   Equal (also used for tokens without a symbol)
//
// All terms are combined with AND. Comparison operators require an ordered value
// (Go numbers, strings, []byte, time.Time, time.Duration or a driver.Valuer producing one
// of those), Like requires a string.
//
// Key types:
//   - Schema: explicit description of an entity's fields and columns, including embedded groups
//   - Mapping: reflection-free row mapping for an entity type
//   - FilterTerm: one parsed (property, operator, value) unit
//   - QueryPlan: an assembled read (filters, ascending sort key, pagination window, projection)
//   - QueryBuilder / ConditionBuilder: the narrow surface a store engine implements
//   - Hooks: optional pre/post stages of the insert, update and delete pipelines
//
// The Postgres engine in package postgresengine implements the store side and exposes
// the repository facade.
package repository

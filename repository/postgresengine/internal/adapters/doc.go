// Package adapters provide database adapter implementations for the PostgreSQL repository engine.
//
// This package implements the adapter pattern to support multiple PostgreSQL database libraries:
// pgx.Pool, sql.DB, and sqlx.DB. All adapters provide equivalent functionality through
// a common DBAdapter interface, so the repository works with any supported connection type.
//
// Reads honor the consistency level carried in the context: the pgx adapter routes
// eventual-consistency reads to its replica pool when one is configured.
package adapters

// Package config loads the configuration of the users example and builds its
// PostgreSQL connections (pgx.Pool, sql.DB, sqlx.DB) from it.
//
// Values are layered with koanf: built-in defaults, then an optional YAML file,
// then USERQUERY_ environment variables, e.g. USERQUERY_POSTGRES_DSN or USERQUERY_ADAPTER.
package config

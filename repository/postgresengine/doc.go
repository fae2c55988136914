// Package postgresengine provides a PostgreSQL implementation of the dynamic-filter repository.
//
// A Repository[T] turns property-list predicates into goqu-built SELECT statements and maps
// the rows back into T through an explicit repository.Mapping. Writes run through the
// optional lifecycle hooks. It supports multiple database adapters (pgx, sql.DB, sqlx).
//
// Key features:
//   - Multiple database adapter support (PGX, SQL, SQLX)
//   - Replica routing for reads marked with repository.WithEventualConsistency (PGX)
//   - Single-result lookups that detect ambiguous matches
//   - Single-field projections via FindFieldByProperties and FindFieldsByProperties
//   - Dual-logger support, metrics and tracing through dependency-free interfaces
//
// Usage examples:
//
//	db, _ := pgxpool.New(context.Background(), dsn)
//	users, _ := postgresengine.NewRepositoryFromPGXPool(db, core.UserMapping(),
//		postgresengine.WithHooks(core.UserHooks()),
//		postgresengine.WithLogger(logger),
//	)
//
//	admins, err := users.FindByProperties(ctx, 0, 20, "login", "level, email.address+", "admin", "%@example.com")
//	user, found, err := users.FindOneByProperties(ctx, "login", "alice")
//	logins, err := postgresengine.FindFieldsByProperties[string](ctx, users, 0, 0, "login", "login", "level!=", "guest")
package postgresengine

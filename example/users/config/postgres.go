package config

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
)

const driverPostgres = "postgres"

// PGXPoolConfig creates a pgxpool.Config from the postgres settings.
func (p Postgres) PGXPoolConfig() (*pgxpool.Config, error) {
	return p.pgxPoolConfig(p.DSN)
}

func (p Postgres) pgxPoolConfig(dsn string) (*pgxpool.Config, error) {
	dbConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres dsn: %w", err)
	}

	dbConfig.MaxConns = p.MaxConns
	dbConfig.MinConns = p.MinConns
	dbConfig.MaxConnLifetime = p.MaxConnLifetime
	dbConfig.MaxConnIdleTime = p.MaxConnIdleTime

	return dbConfig, nil
}

// NewPGXPool connects a pgx pool to the primary database.
func (p Postgres) NewPGXPool(ctx context.Context) (*pgxpool.Pool, error) {
	return p.newPGXPool(ctx, p.DSN)
}

// NewPGXReplicaPool connects a pgx pool to the replica database.
// It returns nil without error when no replica is configured.
func (p Postgres) NewPGXReplicaPool(ctx context.Context) (*pgxpool.Pool, error) {
	if p.ReplicaDSN == "" {
		return nil, nil //nolint:nilnil
	}

	return p.newPGXPool(ctx, p.ReplicaDSN)
}

func (p Postgres) newPGXPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	dbConfig, err := p.pgxPoolConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, fmt.Errorf("creating pgx pool: %w", err)
	}

	return pool, nil
}

// NewSQLDB opens a sql.DB with the lib/pq driver. The connection is not verified.
func (p Postgres) NewSQLDB() (*sql.DB, error) {
	db, err := sql.Open(driverPostgres, p.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	p.configurePool(db)

	return db, nil
}

// NewSQLXDB opens a sqlx.DB with the lib/pq driver. The connection is not verified.
func (p Postgres) NewSQLXDB() (*sqlx.DB, error) {
	db, err := sqlx.Open(driverPostgres, p.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	p.configurePool(db.DB)

	return db, nil
}

func (p Postgres) configurePool(db *sql.DB) {
	db.SetMaxOpenConns(int(p.MaxConns))
	db.SetMaxIdleConns(int(p.MinConns))
	db.SetConnMaxLifetime(p.MaxConnLifetime)
	db.SetConnMaxIdleTime(p.MaxConnIdleTime)
}
